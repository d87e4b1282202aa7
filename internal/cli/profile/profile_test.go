package profile

import (
	"strings"
	"testing"

	"github.com/julianstephens/smartgrow/internal/cli/clitest"
	"github.com/julianstephens/smartgrow/internal/config"
	"github.com/julianstephens/smartgrow/internal/models"
	"github.com/julianstephens/smartgrow/internal/storage"
)

func ptr(s string) *string { return &s }

func TestProfileSetCmd(t *testing.T) {
	ctx := clitest.NewContext(t)

	cmd := &ProfileSetCmd{Username: ptr("leafy"), Persona: ptr("Persona3"), Theme: ptr("blue")}
	if _, err := clitest.CaptureStdout(t, func() error { return cmd.Run(ctx) }); err != nil {
		t.Fatalf("set failed: %v", err)
	}

	stats := ctx.Store.GetStats()
	if stats.Username != "leafy" || stats.ProfileIcon != models.Persona("Persona3") || stats.ThemeColor != models.Theme("blue") {
		t.Errorf("unexpected stats %+v", stats)
	}
	if stats.LastAction != "Updated profile" {
		t.Errorf("expected %q, got %q", "Updated profile", stats.LastAction)
	}

	if err := (&ProfileSetCmd{Persona: ptr("Persona99")}).Run(ctx); err == nil {
		t.Error("expected error for unknown persona")
	}
	if got := ctx.Store.GetStats().ProfileIcon; got != models.Persona("Persona3") {
		t.Errorf("expected persona unchanged, got %q", got)
	}
}

func TestProfileShowCmd(t *testing.T) {
	ctx := clitest.NewContext(t)
	out, err := clitest.CaptureStdout(t, func() error { return (&ProfileShowCmd{}).Run(ctx) })
	if err != nil {
		t.Fatalf("show failed: %v", err)
	}
	for _, want := range []string{"User:      tester", "Language:  English"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in output\n%s", want, out)
		}
	}
}

func TestProfileLoginLogout(t *testing.T) {
	t.Setenv("SMARTGROW_USER", "")
	ctx := clitest.NewContext(t)
	ctx.Store = ctx.Store.WithUser(storage.Anonymous)

	if _, err := clitest.CaptureStdout(t, func() error { return (&ProfileLoginCmd{User: "alice"}).Run(ctx) }); err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if ctx.Store.User().UserID != "alice" {
		t.Errorf("expected store switched to alice, got %q", ctx.Store.User())
	}
	current, err := config.CurrentUser(ctx.ConfigDir)
	if err != nil || current != "alice" {
		t.Errorf("expected persisted user alice, got %q (%v)", current, err)
	}
	alerts := ctx.Store.GetAlerts()
	if len(alerts) != 1 || alerts[0].Title != "Welcome aboard!" {
		t.Errorf("expected welcome alert, got %+v", alerts)
	}
	if got := len(ctx.Store.WithUser(storage.Anonymous).GetAlerts()); got != 0 {
		t.Errorf("expected anonymous namespace untouched, got %d alerts", got)
	}

	if _, err := clitest.CaptureStdout(t, func() error { return (&ProfileLogoutCmd{}).Run(ctx) }); err != nil {
		t.Fatalf("logout failed: %v", err)
	}
	if ctx.Store.User() != storage.Anonymous {
		t.Errorf("expected anonymous after logout, got %q", ctx.Store.User())
	}
	if current, _ := config.CurrentUser(ctx.ConfigDir); current != "" {
		t.Errorf("expected no persisted user, got %q", current)
	}
}

func TestProfileLanguageCmd(t *testing.T) {
	ctx := clitest.NewContext(t)

	out, err := clitest.CaptureStdout(t, func() error { return (&ProfileLanguageCmd{Language: "tl"}).Run(ctx) })
	if err != nil {
		t.Fatalf("language failed: %v", err)
	}
	if !strings.Contains(out, "Language set to Tagalog") {
		t.Errorf("unexpected output %q", out)
	}
	stats := ctx.Store.GetStats()
	if stats.Language != models.LanguageTagalog || stats.LastAction != "Changed language to Tagalog" {
		t.Errorf("unexpected stats %+v", stats)
	}
	if ctx.Language() != models.LanguageTagalog {
		t.Errorf("expected context language tl, got %q", ctx.Language())
	}
}
