package system

import (
	"strings"
	"testing"

	gokeyring "github.com/zalando/go-keyring"

	"github.com/julianstephens/smartgrow/internal/constants"
	"github.com/julianstephens/smartgrow/internal/notifier"
	"github.com/julianstephens/smartgrow/internal/provider"
)

func stubDiscover(t *testing.T, lock notifier.Lock, err error) {
	t.Helper()
	orig := discoverServer
	discoverServer = func() (notifier.Lock, error) { return lock, err }
	t.Cleanup(func() { discoverServer = orig })
}

func TestDoctorCmd_HealthyDB(t *testing.T) {
	gokeyring.MockInit()
	stubDiscover(t, notifier.Lock{}, notifier.ErrNotRunning)
	ctx, cleanup := setupInitializedSystem(t)
	defer cleanup()

	out, err := captureStdout(t, func() error { return (&DoctorCmd{}).Run(ctx) })
	if err != nil {
		t.Fatalf("doctor command failed on healthy database: %v\n%s", err, out)
	}
	for _, want := range []string{
		"✓ Storage reachable: OK",
		"✓ Migrations complete: OK",
		"✓ Data validation: OK",
		"✓ Clock/timezone: OK",
		"⊘ Server: not running",
		"All diagnostics passed!",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("expected output to contain %q\n%s", want, out)
		}
	}
}

func TestDoctorCmd_MissingProviderIsWarning(t *testing.T) {
	gokeyring.MockInit()
	stubDiscover(t, notifier.Lock{}, notifier.ErrNotRunning)
	ctx, cleanup := setupInitializedSystem(t)
	defer cleanup()

	out, err := captureStdout(t, func() error { return (&DoctorCmd{}).Run(ctx) })
	if err != nil {
		t.Fatalf("missing provider should not fail diagnostics: %v", err)
	}
	if !strings.Contains(out, "⚠ Diagnosis provider: WARNING") {
		t.Errorf("expected provider warning\n%s", out)
	}

	ctx.Provider = provider.NewChain()
	out, _ = captureStdout(t, func() error { return (&DoctorCmd{}).Run(ctx) })
	if !strings.Contains(out, "⚠ Diagnosis provider: WARNING") {
		t.Errorf("expected provider warning for an empty chain\n%s", out)
	}
}

func TestDoctorCmd_ServerRunning(t *testing.T) {
	gokeyring.MockInit()
	stubDiscover(t, notifier.Lock{Port: 8080, PID: 4242}, nil)
	ctx, cleanup := setupInitializedSystem(t)
	defer cleanup()

	out, err := captureStdout(t, func() error { return (&DoctorCmd{}).Run(ctx) })
	if err != nil {
		t.Fatalf("doctor failed: %v", err)
	}
	if !strings.Contains(out, "✓ Server: running on port 8080 (pid 4242)") {
		t.Errorf("expected running server line\n%s", out)
	}
}

func TestDoctorCmd_Uninitialized(t *testing.T) {
	gokeyring.MockInit()
	stubDiscover(t, notifier.Lock{}, notifier.ErrNotRunning)
	ctx, _, cleanup := setupTestSystem(t)
	defer cleanup()

	out, err := captureStdout(t, func() error { return (&DoctorCmd{}).Run(ctx) })
	if err == nil {
		t.Fatal("expected doctor to fail without storage")
	}
	if !strings.Contains(out, "❌ Storage reachable: FAIL") {
		t.Errorf("expected storage failure\n%s", out)
	}
	if !strings.Contains(out, "⊘ Migrations complete: SKIPPED") {
		t.Errorf("expected migrations to be skipped\n%s", out)
	}
}

func TestDoctorCmd_BadTimezone(t *testing.T) {
	gokeyring.MockInit()
	stubDiscover(t, notifier.Lock{}, notifier.ErrNotRunning)
	ctx, cleanup := setupInitializedSystem(t)
	defer cleanup()
	ctx.Config.Timezone = "Mars/Olympus_Mons"

	out, err := captureStdout(t, func() error { return (&DoctorCmd{}).Run(ctx) })
	if err == nil {
		t.Fatal("expected doctor to fail on an unknown timezone")
	}
	if !strings.Contains(out, "❌ Clock/timezone: FAIL") {
		t.Errorf("expected timezone failure\n%s", out)
	}
}

func TestDoctorCmd_InvalidRecords(t *testing.T) {
	gokeyring.MockInit()
	stubDiscover(t, notifier.Lock{}, notifier.ErrNotRunning)
	ctx, cleanup := setupInitializedSystem(t)
	defer cleanup()

	raw := []byte(`[{"id":"","plantName":"Ghost","severity":"Unknown"}]`)
	if err := ctx.Backend.Put(constants.KeyScans, raw); err != nil {
		t.Fatalf("failed to seed invalid scans: %v", err)
	}

	out, err := captureStdout(t, func() error { return (&DoctorCmd{}).Run(ctx) })
	if err == nil {
		t.Fatalf("expected validation failure\n%s", out)
	}
	if !strings.Contains(out, "❌ Data validation: FAIL") {
		t.Errorf("expected data validation failure\n%s", out)
	}
}
