package system

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/julianstephens/smartgrow/internal/cli"
	"github.com/julianstephens/smartgrow/internal/cli/clitest"
	"github.com/julianstephens/smartgrow/internal/config"
	"github.com/julianstephens/smartgrow/internal/models"
	"github.com/julianstephens/smartgrow/internal/storage"
	"github.com/julianstephens/smartgrow/internal/storage/sqlite"
)

var fixedNow = time.Date(2026, 5, 20, 9, 30, 0, 0, time.UTC)

// setupTestSystem returns a context over an uninitialized sqlite file.
func setupTestSystem(t *testing.T) (*cli.Context, string, func()) {
	t.Helper()
	tempDir := t.TempDir()
	dbPath := filepath.Join(tempDir, "test.db")

	cfg := config.Default()
	cfg.Storage = dbPath
	cfg.Timezone = "UTC"

	backend := sqlite.NewStore(dbPath)
	ctx := &cli.Context{
		Config:    &cfg,
		ConfigDir: tempDir,
		Backend:   backend,
		Store:     storage.NewStore(backend, storage.Anonymous),
		Now:       func() time.Time { return fixedNow },
	}

	cleanup := func() {
		if err := backend.Close(); err != nil {
			t.Errorf("failed to close store: %v", err)
		}
	}
	return ctx, dbPath, cleanup
}

// setupInitializedSystem is setupTestSystem with the schema in place.
func setupInitializedSystem(t *testing.T) (*cli.Context, func()) {
	t.Helper()
	ctx, _, cleanup := setupTestSystem(t)
	if err := ctx.Backend.Init(); err != nil {
		t.Fatalf("failed to initialize store: %v", err)
	}
	return ctx, cleanup
}

func seedScan(t *testing.T, ctx *cli.Context, id, plant string) {
	t.Helper()
	err := ctx.Store.UpsertScan(models.DiagnosisRecord{
		ID:         id,
		Timestamp:  fixedNow.UnixMilli(),
		PlantName:  plant,
		Diagnosis:  "Powdery mildew",
		Confidence: 0.75,
		Severity:   models.SeverityModerate,
	})
	if err != nil {
		t.Fatalf("failed to seed scan: %v", err)
	}
}

var captureStdout = clitest.CaptureStdout
