package system

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/julianstephens/smartgrow/internal/models"
	"github.com/julianstephens/smartgrow/internal/storage"
)

func TestDebugDBPathCmd(t *testing.T) {
	ctx, cleanup := setupInitializedSystem(t)
	defer cleanup()

	out, err := captureStdout(t, func() error { return (&DebugDBPathCmd{}).Run(ctx) })
	if err != nil {
		t.Fatalf("debug db-path command failed: %v", err)
	}

	var got map[string]string
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out)
	}
	if got["path"] != ctx.Backend.GetConfigPath() {
		t.Errorf("expected path %q, got %q", ctx.Backend.GetConfigPath(), got["path"])
	}
	if got["user"] != "anonymous" {
		t.Errorf("expected user %q, got %q", "anonymous", got["user"])
	}
}

func TestDebugDumpScansCmd(t *testing.T) {
	ctx, cleanup := setupInitializedSystem(t)
	defer cleanup()
	seedScan(t, ctx, "scan-1", "Basil")

	out, err := captureStdout(t, func() error { return (&DebugDumpScansCmd{}).Run(ctx) })
	if err != nil {
		t.Fatalf("dump-scans failed: %v", err)
	}

	var scans []models.DiagnosisRecord
	if err := json.Unmarshal([]byte(out), &scans); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if len(scans) != 1 || scans[0].ID != "scan-1" {
		t.Errorf("expected scan-1, got %+v", scans)
	}
}

func TestDebugDumpSessionsCmd(t *testing.T) {
	ctx, cleanup := setupInitializedSystem(t)
	defer cleanup()

	session := models.MonitoringSession{
		ID:         "sess-1",
		PlantName:  "Tomato",
		StartDate:  fixedNow.UnixMilli(),
		CurrentDay: 2,
		Status:     models.SessionActive,
		DailyRecords: []models.DailyRecord{
			{Day: 1, Timestamp: fixedNow.UnixMilli(), Status: models.DailyStable, Notes: "Initial scan"},
		},
	}
	if err := ctx.Store.UpsertSession(session); err != nil {
		t.Fatalf("failed to seed session: %v", err)
	}

	t.Run("all", func(t *testing.T) {
		out, err := captureStdout(t, func() error { return (&DebugDumpSessionsCmd{}).Run(ctx) })
		if err != nil {
			t.Fatalf("dump-sessions failed: %v", err)
		}
		var sessions []models.MonitoringSession
		if err := json.Unmarshal([]byte(out), &sessions); err != nil {
			t.Fatalf("output is not JSON: %v", err)
		}
		if len(sessions) != 1 {
			t.Errorf("expected 1 session, got %d", len(sessions))
		}
	})

	t.Run("by id", func(t *testing.T) {
		out, err := captureStdout(t, func() error { return (&DebugDumpSessionsCmd{ID: "sess-1"}).Run(ctx) })
		if err != nil {
			t.Fatalf("dump-sessions failed: %v", err)
		}
		if !strings.Contains(out, `"plantName": "Tomato"`) {
			t.Errorf("expected session JSON, got %s", out)
		}
	})

	t.Run("unknown id", func(t *testing.T) {
		if err := (&DebugDumpSessionsCmd{ID: "missing"}).Run(ctx); err == nil {
			t.Error("expected error for unknown session")
		}
	})
}

func TestDebugDumpAlertsAndStats(t *testing.T) {
	ctx, cleanup := setupInitializedSystem(t)
	defer cleanup()

	if _, err := ctx.Tracker().RaiseAlert("Heads up", "check the basil", models.AlertInfo); err != nil {
		t.Fatalf("raise failed: %v", err)
	}

	out, err := captureStdout(t, func() error { return (&DebugDumpAlertsCmd{}).Run(ctx) })
	if err != nil {
		t.Fatalf("dump-alerts failed: %v", err)
	}
	if !strings.Contains(out, `"title": "Heads up"`) {
		t.Errorf("expected alert JSON, got %s", out)
	}

	out, err = captureStdout(t, func() error { return (&DebugDumpStatsCmd{}).Run(ctx) })
	if err != nil {
		t.Fatalf("dump-stats failed: %v", err)
	}
	var stats models.UserStats
	if err := json.Unmarshal([]byte(out), &stats); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if stats.Level != 1 {
		t.Errorf("expected default level 1, got %d", stats.Level)
	}
}

func TestDebugKeysCmd(t *testing.T) {
	ctx, cleanup := setupInitializedSystem(t)
	defer cleanup()

	seedScan(t, ctx, "anon-scan", "Basil")
	alice := ctx.Store
	ctx.Store = alice.WithUser(storage.NewUserContext("alice"))
	seedScan(t, ctx, "alice-scan", "Mint")
	ctx.Store = alice

	out, err := captureStdout(t, func() error { return (&DebugKeysCmd{}).Run(ctx) })
	if err != nil {
		t.Fatalf("keys failed: %v", err)
	}
	var keys []string
	if err := json.Unmarshal([]byte(out), &keys); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	want := map[string]bool{"smartgrow_scans": false, "smartgrow_scans_alice": false}
	for _, k := range keys {
		if _, ok := want[k]; ok {
			want[k] = true
		}
	}
	for k, seen := range want {
		if !seen {
			t.Errorf("expected key %s in %v", k, keys)
		}
	}
}

func TestMigrateCmd(t *testing.T) {
	ctx, cleanup := setupInitializedSystem(t)
	defer cleanup()

	out, err := captureStdout(t, func() error { return (&MigrateCmd{}).Run(ctx) })
	if err != nil {
		t.Fatalf("migrate failed: %v", err)
	}
	if !strings.Contains(out, "No migrations to apply") {
		t.Errorf("expected up-to-date message, got %q", out)
	}
}
