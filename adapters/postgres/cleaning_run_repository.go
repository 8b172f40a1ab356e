package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"goclean/domain/cleaning"
	"goclean/domain/core"
	"goclean/internal/errors"
	"goclean/ports"
)

// cleaningRunRepository implements ports.CleaningRunRepository. Queries are
// written with ? placeholders and rebound for the driver in use.
type cleaningRunRepository struct {
	db *sqlx.DB
}

// NewCleaningRunRepository creates a new run repository
func NewCleaningRunRepository(db *sqlx.DB) ports.CleaningRunRepository {
	return &cleaningRunRepository{db: db}
}

type cleaningRunRow struct {
	ID           string    `db:"id"`
	Status       string    `db:"status"`
	Options      string    `db:"options"`
	Report       string    `db:"report"`
	Statistics   string    `db:"statistics"`
	ErrorMessage string    `db:"error_message"`
	DurationMs   int64     `db:"duration_ms"`
	CreatedAt    time.Time `db:"created_at"`
}

const selectRunColumns = `SELECT id, status, options, report, statistics, error_message, duration_ms, created_at FROM cleaning_runs`

// SaveRun inserts a finished run
func (r *cleaningRunRepository) SaveRun(ctx context.Context, run *cleaning.Run) error {
	row, err := toRow(run)
	if err != nil {
		return err
	}

	query := `INSERT INTO cleaning_runs (
		id, status, options, report, statistics, error_message, duration_ms, created_at
	) VALUES (
		:id, :status, :options, :report, :statistics, :error_message, :duration_ms, :created_at
	)`

	if _, err := r.db.NamedExecContext(ctx, query, row); err != nil {
		return errors.WithCode(errors.CodeDatabaseError, fmt.Errorf("failed to save run %s: %w", run.ID, err))
	}
	return nil
}

// GetRun retrieves a run by its ID
func (r *cleaningRunRepository) GetRun(ctx context.Context, id core.RunID) (*cleaning.Run, error) {
	var row cleaningRunRow
	err := r.db.GetContext(ctx, &row, r.db.Rebind(selectRunColumns+` WHERE id = ?`), id.String())
	if err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return nil, errors.NotFound("run " + id.String())
		}
		return nil, errors.WithCode(errors.CodeDatabaseError, fmt.Errorf("failed to get run: %w", err))
	}
	return fromRow(row)
}

// ListRuns returns runs newest first
func (r *cleaningRunRepository) ListRuns(ctx context.Context, filters ports.RunFilters) ([]*cleaning.Run, error) {
	limit := filters.Limit
	if limit <= 0 {
		limit = ports.DefaultRunLimit
	}
	offset := filters.Offset
	if offset < 0 {
		offset = 0
	}

	query := selectRunColumns
	args := []interface{}{}
	if filters.Status != nil {
		query += ` WHERE status = ?`
		args = append(args, string(*filters.Status))
	}
	query += ` ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?`
	args = append(args, limit, offset)

	var rows []cleaningRunRow
	if err := r.db.SelectContext(ctx, &rows, r.db.Rebind(query), args...); err != nil {
		return nil, errors.WithCode(errors.CodeDatabaseError, fmt.Errorf("failed to query runs: %w", err))
	}

	runs := make([]*cleaning.Run, 0, len(rows))
	for _, row := range rows {
		run, err := fromRow(row)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, nil
}

func toRow(run *cleaning.Run) (cleaningRunRow, error) {
	options, err := json.Marshal(run.Options)
	if err != nil {
		return cleaningRunRow{}, fmt.Errorf("failed to marshal options: %w", err)
	}
	report, err := json.Marshal(run.Report)
	if err != nil {
		return cleaningRunRow{}, fmt.Errorf("failed to marshal report: %w", err)
	}
	stats, err := json.Marshal(run.Statistics)
	if err != nil {
		return cleaningRunRow{}, fmt.Errorf("failed to marshal statistics: %w", err)
	}

	createdAt := run.CreatedAt.Time()
	if run.CreatedAt.IsZero() {
		createdAt = time.Now()
	}

	return cleaningRunRow{
		ID:           run.ID.String(),
		Status:       string(run.Status),
		Options:      string(options),
		Report:       string(report),
		Statistics:   string(stats),
		ErrorMessage: run.ErrorMessage,
		DurationMs:   run.DurationMs,
		CreatedAt:    createdAt.UTC(),
	}, nil
}

func fromRow(row cleaningRunRow) (*cleaning.Run, error) {
	run := &cleaning.Run{
		ID:           core.RunID(row.ID),
		Status:       cleaning.RunStatus(row.Status),
		ErrorMessage: row.ErrorMessage,
		DurationMs:   row.DurationMs,
		CreatedAt:    core.NewTimestamp(row.CreatedAt.UTC()),
	}
	if err := json.Unmarshal([]byte(row.Options), &run.Options); err != nil {
		return nil, fmt.Errorf("failed to unmarshal options for run %s: %w", row.ID, err)
	}
	if err := json.Unmarshal([]byte(row.Report), &run.Report); err != nil {
		return nil, fmt.Errorf("failed to unmarshal report for run %s: %w", row.ID, err)
	}
	if err := json.Unmarshal([]byte(row.Statistics), &run.Statistics); err != nil {
		return nil, fmt.Errorf("failed to unmarshal statistics for run %s: %w", row.ID, err)
	}
	return run, nil
}
