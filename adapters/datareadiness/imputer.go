package datareadiness

import (
	"context"
	"log"

	"goclean/adapters/datareadiness/coercer"
	"goclean/domain/cleaning"
	"goclean/internal/profiling"
)

// ImputerConfig controls missing-value imputation
type ImputerConfig struct {
	Strategy cleaning.MissingStrategy `json:"strategy"`
	// Columns missing more than this share are reported, not filled
	MaxMissingRatio float64 `json:"max_missing_ratio"`
}

// DefaultImputerConfig returns the median strategy with a 50% ceiling
func DefaultImputerConfig() ImputerConfig {
	return ImputerConfig{
		Strategy:        cleaning.StrategyMedian,
		MaxMissingRatio: 0.5,
	}
}

// MissingValueImputer fills sentinel-missing cells with a per-column
// statistic, or flags columns too sparse to repair.
type MissingValueImputer struct {
	config    ImputerConfig
	sentinels cleaning.MissingSentinels
}

// NewMissingValueImputer creates an imputer
func NewMissingValueImputer(config ImputerConfig, sentinels cleaning.MissingSentinels) *MissingValueImputer {
	if config.Strategy == "" || config.Strategy == cleaning.StrategySmart {
		config.Strategy = cleaning.StrategyMedian
	}
	return &MissingValueImputer{config: config, sentinels: sentinels}
}

// Name identifies the stage in logs
func (m *MissingValueImputer) Name() string { return "missing_values" }

// Apply runs HandleMissingValues as a pipeline stage
func (m *MissingValueImputer) Apply(ctx context.Context, ds *cleaning.Dataset, rep *cleaning.ReportBuilder) (*cleaning.Dataset, error) {
	return m.HandleMissingValues(ctx, ds, rep)
}

// HandleMissingValues imputes each column independently. Numeric columns
// use the configured strategy, everything else uses the mode.
func (m *MissingValueImputer) HandleMissingValues(ctx context.Context, ds *cleaning.Dataset, rep *cleaning.ReportBuilder) (*cleaning.Dataset, error) {
	rows := ds.NumRows()
	out := ds

	for _, col := range ds.Columns() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		var missingIdx []int
		var present []cleaning.Value
		for i, v := range col.Values {
			if m.sentinels.IsMissing(v) {
				missingIdx = append(missingIdx, i)
			} else {
				present = append(present, v)
			}
		}
		if len(missingIdx) == 0 {
			continue
		}

		ratio := float64(len(missingIdx)) / float64(rows)
		if ratio > m.config.MaxMissingRatio {
			rep.AddQualityIssue("%s: %.1f%% missing values exceeds %.0f%% threshold - recommend removing column",
				col.Name, ratio*100, m.config.MaxMissingRatio*100)
			log.Printf("[MissingValueImputer] %s left unimputed (%.1f%% missing)", col.Name, ratio*100)
			continue
		}
		if len(present) == 0 {
			continue
		}

		fill, method := m.fillValue(present)
		filled := make([]cleaning.Value, len(col.Values))
		copy(filled, col.Values)
		for _, i := range missingIdx {
			filled[i] = fill
		}

		out = out.WithColumnValues(col.Name, filled)
		rep.AddOperation("Imputed missing values in %s with %s (%s)", col.Name, method, fill.String())
		rep.AddRowsAffected(len(missingIdx))
		log.Printf("[MissingValueImputer] filled %d cells in %s with %s", len(missingIdx), col.Name, method)
	}

	return out, nil
}

// fillValue picks the imputation value and names the method used
func (m *MissingValueImputer) fillValue(present []cleaning.Value) (cleaning.Value, string) {
	if nums, ok := numericReadings(present); ok {
		switch m.config.Strategy {
		case cleaning.StrategyMean:
			if mean, err := profiling.Mean(nums); err == nil {
				return cleaning.NewNumericValue(mean), "mean"
			}
		case cleaning.StrategyZero:
			return cleaning.NewNumericValue(0), "zero"
		}
		return positionalMedian(present, nums), "median"
	}
	return mode(present), "mode"
}

// numericReadings returns the numbers behind every value, or false if any
// value is not numeric-parseable
func numericReadings(values []cleaning.Value) ([]float64, bool) {
	nums := make([]float64, len(values))
	for i, v := range values {
		n, ok := coercer.TryNumeric(v)
		if !ok {
			return nil, false
		}
		nums[i] = n
	}
	return nums, true
}

// positionalMedian returns the first observed cell whose reading equals the
// positional median, so a text column is filled with one of its own cells.
func positionalMedian(values []cleaning.Value, nums []float64) cleaning.Value {
	median := profiling.PositionalMedian(profiling.SortedCopy(nums))
	for i, x := range nums {
		if x == median {
			return values[i]
		}
	}
	return cleaning.NewNumericValue(median)
}

// mode returns the most frequent value. Ties go to the value seen first in
// column order.
func mode(values []cleaning.Value) cleaning.Value {
	counts := make(map[string]int, len(values))
	var firstSeen []cleaning.Value
	for _, v := range values {
		key := v.Key()
		if counts[key] == 0 {
			firstSeen = append(firstSeen, v)
		}
		counts[key]++
	}

	best := firstSeen[0]
	bestCount := counts[best.Key()]
	for _, v := range firstSeen[1:] {
		if c := counts[v.Key()]; c > bestCount {
			best, bestCount = v, c
		}
	}
	return best
}
