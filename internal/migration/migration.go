package migration

import (
	"cmp"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/julianstephens/smartgrow/internal/logger"
)

// ErrSchemaTooNew is returned when the database was migrated by a newer build.
var ErrSchemaTooNew = errors.New("database schema is newer than this build supports")

// Dialect selects the migration directory and bind-parameter syntax.
type Dialect string

const (
	DialectSQLite   Dialect = "sqlite"
	DialectPostgres Dialect = "postgres"
)

func (d Dialect) placeholder(n int) string {
	if d == DialectPostgres {
		return fmt.Sprintf("$%d", n)
	}
	return "?"
}

// Migration is one NNN_name.sql file.
type Migration struct {
	Version int
	Name    string
	SQL     string
}

// Status describes how far a database is behind the embedded migrations.
type Status struct {
	Current int
	Latest  int
	Pending int
}

// Runner applies the migrations of one dialect to a database.
type Runner struct {
	db      *sql.DB
	files   fs.FS
	dialect Dialect
}

// New returns a runner for the <dialect> directory of root.
func New(db *sql.DB, root fs.FS, dialect Dialect) (*Runner, error) {
	sub, err := fs.Sub(root, string(dialect))
	if err != nil {
		return nil, fmt.Errorf("failed to access %s migrations: %w", dialect, err)
	}
	return NewRunner(db, sub, dialect), nil
}

// NewRunner returns a runner over a directory that holds the .sql files directly.
func NewRunner(db *sql.DB, files fs.FS, dialect Dialect) *Runner {
	return &Runner{db: db, files: files, dialect: dialect}
}

// Load parses every NNN_name.sql file, ordered by version.
func Load(files fs.FS) ([]Migration, error) {
	entries, err := fs.ReadDir(files, ".")
	if err != nil {
		return nil, fmt.Errorf("failed to read migrations directory: %w", err)
	}

	var out []Migration
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".sql") {
			continue
		}
		prefix, rest, ok := strings.Cut(name, "_")
		if !ok {
			return nil, fmt.Errorf("invalid migration filename %s (expected NNN_name.sql)", name)
		}
		version, err := strconv.Atoi(prefix)
		if err != nil || version < 1 {
			return nil, fmt.Errorf("invalid version in migration filename %s", name)
		}
		body, err := fs.ReadFile(files, name)
		if err != nil {
			return nil, fmt.Errorf("failed to read migration %s: %w", name, err)
		}
		out = append(out, Migration{
			Version: version,
			Name:    strings.TrimSuffix(rest, ".sql"),
			SQL:     string(body),
		})
	}

	slices.SortFunc(out, func(a, b Migration) int { return cmp.Compare(a.Version, b.Version) })
	for i := 1; i < len(out); i++ {
		if out[i].Version == out[i-1].Version {
			return nil, fmt.Errorf("duplicate migration version %d", out[i].Version)
		}
	}
	return out, nil
}

func (r *Runner) ensureVersionTable(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS schema_version (version INTEGER PRIMARY KEY)`)
	if err != nil {
		return fmt.Errorf("failed to ensure schema_version table: %w", err)
	}
	return nil
}

// Current returns the applied schema version, 0 for a fresh database.
func (r *Runner) Current(ctx context.Context) (int, error) {
	if err := r.ensureVersionTable(ctx); err != nil {
		return 0, err
	}
	var version int
	err := r.db.QueryRowContext(ctx, "SELECT version FROM schema_version").Scan(&version)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to read schema version: %w", err)
	}
	return version, nil
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func (r *Runner) writeVersion(ctx context.Context, ex execer, version int) error {
	if _, err := ex.ExecContext(ctx, "DELETE FROM schema_version"); err != nil {
		return fmt.Errorf("failed to clear schema version: %w", err)
	}
	if _, err := ex.ExecContext(ctx, "INSERT INTO schema_version (version) VALUES ("+r.dialect.placeholder(1)+")", version); err != nil {
		return fmt.Errorf("failed to record schema version %d: %w", version, err)
	}
	return nil
}

// SetVersion overwrites the recorded schema version.
func (r *Runner) SetVersion(ctx context.Context, version int) error {
	if err := r.ensureVersionTable(ctx); err != nil {
		return err
	}
	return r.writeVersion(ctx, r.db, version)
}

// Status compares the database against the migration files.
func (r *Runner) Status(ctx context.Context) (Status, error) {
	current, err := r.Current(ctx)
	if err != nil {
		return Status{}, err
	}
	all, err := Load(r.files)
	if err != nil {
		return Status{}, err
	}
	st := Status{Current: current}
	for _, m := range all {
		if m.Version > current {
			st.Pending++
		}
		st.Latest = max(st.Latest, m.Version)
	}
	return st, nil
}

// Check fails with ErrSchemaTooNew when the database is ahead of the files.
func (r *Runner) Check(ctx context.Context) error {
	st, err := r.Status(ctx)
	if err != nil {
		return err
	}
	if st.Current > st.Latest {
		return fmt.Errorf("%w: database at version %d, latest known is %d", ErrSchemaTooNew, st.Current, st.Latest)
	}
	return nil
}

// Apply runs every pending migration, each in its own transaction together
// with the version bump, and returns how many were applied.
func (r *Runner) Apply(ctx context.Context) (int, error) {
	log := logger.Named("migration")

	current, err := r.Current(ctx)
	if err != nil {
		return 0, err
	}
	all, err := Load(r.files)
	if err != nil {
		return 0, err
	}
	if len(all) == 0 {
		return 0, nil
	}
	if latest := all[len(all)-1].Version; current > latest {
		return 0, fmt.Errorf("%w: database at version %d, latest known is %d", ErrSchemaTooNew, current, latest)
	}

	pending := slices.DeleteFunc(all, func(m Migration) bool { return m.Version <= current })
	if len(pending) == 0 {
		log.Debug("Schema up to date", "dialect", r.dialect, "version", current)
		return 0, nil
	}

	start := time.Now()
	for i, m := range pending {
		if err := r.applyOne(ctx, m); err != nil {
			return i, err
		}
		log.Info("Applied migration", "dialect", r.dialect, "version", m.Version, "name", m.Name)
	}
	log.Info("Schema migrated", "dialect", r.dialect, "from", current, "to", pending[len(pending)-1].Version, "took", time.Since(start))
	return len(pending), nil
}

func (r *Runner) applyOne(ctx context.Context, m Migration) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin migration %d: %w", m.Version, err)
	}
	if _, err := tx.ExecContext(ctx, m.SQL); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("failed to apply migration %d (%s): %w", m.Version, m.Name, err)
	}
	if err := r.writeVersion(ctx, tx, m.Version); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit migration %d: %w", m.Version, err)
	}
	return nil
}
