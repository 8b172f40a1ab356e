package cleaning

import (
	"errors"
	"fmt"
)

var (
	// Input-shape errors, fatal for a run
	ErrNoColumns       = errors.New("dataset has no columns")
	ErrRaggedColumns   = errors.New("dataset columns have different lengths")
	ErrDuplicateColumn = errors.New("duplicate column name")

	// Configuration errors
	ErrInvalidOptions = errors.New("invalid cleaning options")
)

// NewRaggedColumnsError reports the first column whose length differs
func NewRaggedColumnsError(column string, got, want int) error {
	return fmt.Errorf("%w: column %q has %d rows, expected %d", ErrRaggedColumns, column, got, want)
}

// NewInvalidOptionError reports a rejected option value
func NewInvalidOptionError(field string, value interface{}) error {
	return fmt.Errorf("%w: %s=%v", ErrInvalidOptions, field, value)
}

// IsInputShapeError reports whether err is an input-shape error
func IsInputShapeError(err error) bool {
	return errors.Is(err, ErrNoColumns) || errors.Is(err, ErrRaggedColumns) || errors.Is(err, ErrDuplicateColumn)
}
