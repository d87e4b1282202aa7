package system

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/julianstephens/smartgrow/internal/cli"
	"github.com/julianstephens/smartgrow/internal/keyring"
	"github.com/julianstephens/smartgrow/internal/notifier"
	"github.com/julianstephens/smartgrow/internal/provider"
	"github.com/julianstephens/smartgrow/internal/utils"
	"github.com/julianstephens/smartgrow/internal/validation"
)

// discoverServer is swapped in tests.
var discoverServer = notifier.Discover

type DoctorCmd struct{}

func (cmd *DoctorCmd) Run(ctx *cli.Context) error {
	fmt.Println("Running diagnostics...")
	fmt.Println()

	hasError := false
	fail := func(name string, err error) {
		fmt.Printf("❌ %s: FAIL\n", name)
		fmt.Printf("   Error: %v\n", err)
		hasError = true
	}

	// Check 1: storage reachable
	reachable := false
	if err := checkStorageReachable(ctx); err != nil {
		fail("Storage reachable", err)
	} else {
		fmt.Printf("✓ Storage reachable: OK\n")
		reachable = true
	}

	// Check 2: schema and migrations
	if reachable {
		if err := checkMigrations(ctx); err != nil {
			fail("Migrations complete", err)
		} else {
			fmt.Printf("✓ Migrations complete: OK\n")
		}
	} else {
		fmt.Printf("⊘ Migrations complete: SKIPPED (storage not reachable)\n")
	}

	// Check 3: data integrity
	if reachable {
		if err := checkValidation(ctx); err != nil {
			fail("Data validation", err)
		} else {
			fmt.Printf("✓ Data validation: OK\n")
		}
	} else {
		fmt.Printf("⊘ Data validation: SKIPPED (storage not reachable)\n")
	}

	// Check 4: clock and timezone
	if err := checkClockTimezone(ctx); err != nil {
		fail("Clock/timezone", err)
	} else {
		fmt.Printf("✓ Clock/timezone: OK\n")
	}

	// Warnings only from here on
	if err := checkProvider(ctx); err != nil {
		fmt.Printf("⚠ Diagnosis provider: WARNING\n")
		fmt.Printf("   %v\n", err)
	} else {
		fmt.Printf("✓ Diagnosis provider: OK\n")
	}

	if keyring.IsAvailable() {
		fmt.Printf("✓ OS keyring: OK\n")
	} else {
		fmt.Printf("⚠ OS keyring: WARNING\n")
		fmt.Printf("   Keyring unavailable; secrets must come from the environment\n")
	}

	if lock, err := discoverServer(); err == nil {
		fmt.Printf("✓ Server: running on port %d (pid %d)\n", lock.Port, lock.PID)
	} else if errors.Is(err, notifier.ErrNotRunning) {
		fmt.Printf("⊘ Server: not running\n")
	} else {
		fmt.Printf("⚠ Server: WARNING\n")
		fmt.Printf("   %v\n", err)
	}

	fmt.Println()
	if hasError {
		fmt.Println("Diagnostics completed with errors.")
		return fmt.Errorf("one or more health checks failed")
	}

	fmt.Println("All diagnostics passed!")
	return nil
}

func checkStorageReachable(ctx *cli.Context) error {
	if err := ctx.Backend.Load(); err != nil {
		return fmt.Errorf("failed to load storage: %w", err)
	}
	if _, err := ctx.Backend.Keys(keyPrefix); err != nil {
		return fmt.Errorf("failed to query storage: %w", err)
	}
	return nil
}

func checkMigrations(ctx *cli.Context) error {
	s, ok := ctx.Backend.(migrationStatuser)
	if !ok {
		return nil
	}
	st, err := s.MigrationStatus()
	if err != nil {
		return fmt.Errorf("failed to get current schema version: %w", err)
	}
	if st.Current > st.Latest {
		return fmt.Errorf("database schema version (%d) is newer than supported version (%d)", st.Current, st.Latest)
	}
	if st.Pending > 0 {
		return fmt.Errorf("migrations incomplete: current version %d, latest version %d", st.Current, st.Latest)
	}
	return nil
}

func checkValidation(ctx *cli.Context) error {
	result := validation.New().Validate(validation.Collect(ctx.Store))
	if result.HasIssues() {
		return errors.New(strings.TrimSpace(result.FormatReport()))
	}
	return nil
}

func checkClockTimezone(ctx *cli.Context) error {
	if ctx.Config != nil && !utils.ValidateTimezone(ctx.Config.Timezone) {
		return fmt.Errorf("unknown timezone %q", ctx.Config.Timezone)
	}
	now := ctx.Clock()
	if now.Year() < 2020 {
		return fmt.Errorf("system clock looks wrong: %s", now.Format(time.RFC3339))
	}
	return nil
}

func checkProvider(ctx *cli.Context) error {
	if ctx.Provider == nil {
		return errors.New("no API key configured; set GEMINI_API_KEY or OPENAI_API_KEY, or run 'smartgrow keyring set'")
	}
	if chain, ok := ctx.Provider.(*provider.Chain); ok && chain.Len() == 0 {
		return errors.New("no API key configured; set GEMINI_API_KEY or OPENAI_API_KEY, or run 'smartgrow keyring set'")
	}
	return nil
}
