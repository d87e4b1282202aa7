package system

import (
	"fmt"

	"github.com/julianstephens/smartgrow/internal/cli"
	"github.com/julianstephens/smartgrow/internal/migration"
	"github.com/julianstephens/smartgrow/internal/storage"
)

// migrationStatuser is implemented by the SQL backends.
type migrationStatuser interface {
	MigrationStatus() (migration.Status, error)
}

type MigrateCmd struct{}

func (c *MigrateCmd) Run(ctx *cli.Context) error {
	migrator, ok := ctx.Backend.(storage.Migrator)
	if !ok {
		fmt.Println("No migrations needed for this storage backend.")
		return nil
	}

	before := migration.Status{}
	if s, ok := ctx.Backend.(migrationStatuser); ok {
		st, err := s.MigrationStatus()
		if err != nil {
			return fmt.Errorf("failed to read schema version: %w", err)
		}
		before = st
	}

	if err := migrator.Migrate(); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	if before.Pending == 0 {
		fmt.Println("No migrations to apply. Database is up to date.")
	} else {
		fmt.Printf("\nSuccessfully applied %d migration(s).\n", before.Pending)
	}
	return nil
}
