package migration

import (
	"context"
	"log"

	"goclean/internal/errors"

	"github.com/jmoiron/sqlx"
)

// Migrator defines the interface for database migration operations
type Migrator interface {
	Run(ctx context.Context, db *sqlx.DB) error
	Version() string
}

// MigrationRunner handles database schema migrations. The DDL sticks to
// types that both postgres and sqlite3 accept.
type MigrationRunner struct {
	version string
}

// NewRunner creates a new migration runner
func NewRunner() *MigrationRunner {
	return &MigrationRunner{
		version: "1.0.0",
	}
}

// Version returns the migration version
func (r *MigrationRunner) Version() string {
	return r.version
}

// Run executes all database migrations in the correct order
func (r *MigrationRunner) Run(ctx context.Context, db *sqlx.DB) error {
	if err := r.createCleaningRunsTable(ctx, db); err != nil {
		return errors.WithCode(errors.CodeDatabaseError, errors.Wrap(err, "failed to create cleaning_runs table"))
	}

	if err := r.createIndexes(ctx, db); err != nil {
		return errors.Wrap(err, "failed to create indexes")
	}

	log.Printf("[Migration] schema %s applied (%s)", r.version, db.DriverName())
	return nil
}

func (r *MigrationRunner) createCleaningRunsTable(ctx context.Context, db *sqlx.DB) error {
	// created_at must stay plain TIMESTAMP so sqlite3 scans it into time.Time
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS cleaning_runs (
			id VARCHAR(36) PRIMARY KEY,
			status VARCHAR(20) NOT NULL,
			options TEXT NOT NULL,
			report TEXT NOT NULL,
			statistics TEXT NOT NULL,
			error_message TEXT NOT NULL DEFAULT '',
			duration_ms BIGINT NOT NULL DEFAULT 0,
			created_at TIMESTAMP NOT NULL
		)
	`)
	return err
}

func (r *MigrationRunner) createIndexes(ctx context.Context, db *sqlx.DB) error {
	indexes := []string{
		"CREATE INDEX IF NOT EXISTS idx_cleaning_runs_created_at ON cleaning_runs(created_at DESC)",
		"CREATE INDEX IF NOT EXISTS idx_cleaning_runs_status ON cleaning_runs(status, created_at DESC)",
	}

	for _, idxSQL := range indexes {
		if _, err := db.ExecContext(ctx, idxSQL); err != nil {
			// Log but don't fail on index creation errors
			log.Printf("[Migration] Warning: failed to create index: %v", err)
		}
	}

	return nil
}
