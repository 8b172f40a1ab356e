package datareadiness

import (
	"testing"

	"goclean/domain/cleaning"
)

func text(values ...string) []cleaning.Value {
	out := make([]cleaning.Value, len(values))
	for i, v := range values {
		out[i] = cleaning.NewStringValue(v)
	}
	return out
}

func nums(values ...float64) []cleaning.Value {
	out := make([]cleaning.Value, len(values))
	for i, v := range values {
		out[i] = cleaning.NewNumericValue(v)
	}
	return out
}

func mustDataset(t *testing.T, columns ...cleaning.Column) *cleaning.Dataset {
	t.Helper()
	ds, err := cleaning.NewDatasetFromColumns(columns)
	if err != nil {
		t.Fatalf("failed to build dataset: %v", err)
	}
	return ds
}

func column(t *testing.T, ds *cleaning.Dataset, name string) []cleaning.Value {
	t.Helper()
	values, ok := ds.Column(name)
	if !ok {
		t.Fatalf("column %q not found in %v", name, ds.Names())
	}
	return values
}
