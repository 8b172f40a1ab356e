package ports

import (
	"context"

	"goclean/domain/cleaning"
	"goclean/domain/core"
)

// CleaningRunWriter stores finished runs. Runs are append-only.
type CleaningRunWriter interface {
	SaveRun(ctx context.Context, run *cleaning.Run) error
}

// CleaningRunReader provides read-only access to run history
type CleaningRunReader interface {
	GetRun(ctx context.Context, id core.RunID) (*cleaning.Run, error)
	ListRuns(ctx context.Context, filters RunFilters) ([]*cleaning.Run, error)
}

// CleaningRunRepository combines read and write access
type CleaningRunRepository interface {
	CleaningRunWriter
	CleaningRunReader
}

// RunFilters for querying runs. Results are newest first.
type RunFilters struct {
	Status *cleaning.RunStatus
	Limit  int
	Offset int
}

// DefaultRunLimit caps list queries that do not set a limit
const DefaultRunLimit = 50
