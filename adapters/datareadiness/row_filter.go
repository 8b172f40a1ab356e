package datareadiness

import (
	"context"
	"log"
	"strconv"
	"strings"

	"goclean/adapters/datareadiness/coercer"
	"goclean/domain/cleaning"
	"goclean/internal/profiling"
)

// OutlierConfig controls the row-filtering stage
type OutlierConfig struct {
	RemoveOutliers   bool                   `json:"remove_outliers"`
	Method           cleaning.OutlierMethod `json:"method"`
	Action           cleaning.OutlierAction `json:"action"`
	Factor           float64                `json:"factor"`
	RemoveDuplicates bool                   `json:"remove_duplicates"`
}

// DefaultOutlierConfig returns IQR removal with factor 1.5
func DefaultOutlierConfig() OutlierConfig {
	return OutlierConfig{
		RemoveOutliers: true,
		Method:         cleaning.OutlierMethodIQR,
		Action:         cleaning.OutlierActionRemove,
		Factor:         1.5,
	}
}

// OutlierFilter is the only stage allowed to drop rows. Rows are first
// marked in a reject mask (outliers in any column, duplicate rows) and then
// removed from every column in one pass.
type OutlierFilter struct {
	config    OutlierConfig
	sentinels cleaning.MissingSentinels
}

// NewOutlierFilter creates a row filter
func NewOutlierFilter(config OutlierConfig, sentinels cleaning.MissingSentinels) *OutlierFilter {
	if config.Method == "" {
		config.Method = cleaning.OutlierMethodIQR
	}
	if config.Action == "" {
		config.Action = cleaning.OutlierActionRemove
	}
	return &OutlierFilter{config: config, sentinels: sentinels}
}

// Name identifies the stage in logs
func (f *OutlierFilter) Name() string { return "row_filter" }

// Apply runs the configured outlier and duplicate handling
func (f *OutlierFilter) Apply(ctx context.Context, ds *cleaning.Dataset, rep *cleaning.ReportBuilder) (*cleaning.Dataset, error) {
	reject := make([]bool, ds.NumRows())

	if f.config.RemoveOutliers {
		if f.config.Action == cleaning.OutlierActionCap {
			capped, err := f.CapOutliers(ctx, ds, rep)
			if err != nil {
				return nil, err
			}
			ds = capped
		} else {
			flagged, err := f.markOutliers(ctx, ds, reject)
			if err != nil {
				return nil, err
			}
			rep.AddOperation("Removed %d outlier rows using %s bounds (factor %g)", flagged, f.config.Method, f.config.Factor)
			rep.AddRowsAffected(flagged)
		}
	}

	if f.config.RemoveDuplicates {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		dups := markDuplicates(ds, reject)
		if dups > 0 {
			rep.AddOperation("Removed %d duplicate rows", dups)
			rep.AddRowsAffected(dups)
		}
	}

	return applyMask(ds, reject)
}

// RemoveOutliers drops every row that is out of bounds in any column
func (f *OutlierFilter) RemoveOutliers(ctx context.Context, ds *cleaning.Dataset, rep *cleaning.ReportBuilder) (*cleaning.Dataset, error) {
	reject := make([]bool, ds.NumRows())
	flagged, err := f.markOutliers(ctx, ds, reject)
	if err != nil {
		return nil, err
	}
	rep.AddOperation("Removed %d outlier rows using %s bounds (factor %g)", flagged, f.config.Method, f.config.Factor)
	rep.AddRowsAffected(flagged)
	return applyMask(ds, reject)
}

// markOutliers sets reject[i] for every row outside some column's bounds and
// returns how many rows were newly marked. The union across columns is taken
// before anything is removed.
func (f *OutlierFilter) markOutliers(ctx context.Context, ds *cleaning.Dataset, reject []bool) (int, error) {
	marked := 0
	for _, col := range ds.Columns() {
		if err := ctx.Err(); err != nil {
			return 0, err
		}

		nums, rowIdx := f.numericCells(col.Values)
		bounds, ok := f.bounds(nums)
		if !ok {
			continue
		}

		colFlagged := 0
		for k, x := range nums {
			if bounds.Contains(x) {
				continue
			}
			colFlagged++
			if !reject[rowIdx[k]] {
				reject[rowIdx[k]] = true
				marked++
			}
		}
		if colFlagged > 0 {
			log.Printf("[OutlierFilter] %s: %d values outside [%g, %g]", col.Name, colFlagged, bounds.Lower, bounds.Upper)
		}
	}
	return marked, nil
}

// CapOutliers clips out-of-bound values to the nearest bound instead of
// dropping rows
func (f *OutlierFilter) CapOutliers(ctx context.Context, ds *cleaning.Dataset, rep *cleaning.ReportBuilder) (*cleaning.Dataset, error) {
	out := ds
	for _, col := range ds.Columns() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		nums, rowIdx := f.numericCells(col.Values)
		bounds, ok := f.bounds(nums)
		if !ok {
			continue
		}

		var capped []cleaning.Value
		count := 0
		for k, x := range nums {
			if bounds.Contains(x) {
				continue
			}
			if capped == nil {
				capped = make([]cleaning.Value, len(col.Values))
				copy(capped, col.Values)
			}
			capped[rowIdx[k]] = cleaning.NewNumericValue(bounds.Clamp(x))
			count++
		}
		if count == 0 {
			continue
		}

		out = out.WithColumnValues(col.Name, capped)
		rep.AddOperation("Capped %d outliers in %s using %s bounds", count, col.Name, f.config.Method)
		rep.AddRowsAffected(count)
	}
	return out, nil
}

// numericCells extracts (value, row index) pairs for cells that read as numbers
func (f *OutlierFilter) numericCells(values []cleaning.Value) ([]float64, []int) {
	nums := make([]float64, 0, len(values))
	rowIdx := make([]int, 0, len(values))
	for i, v := range values {
		if f.sentinels.IsMissing(v) {
			continue
		}
		if x, ok := coercer.TryNumeric(v); ok {
			nums = append(nums, x)
			rowIdx = append(rowIdx, i)
		}
	}
	return nums, rowIdx
}

func (f *OutlierFilter) bounds(nums []float64) (profiling.Bounds, bool) {
	if f.config.Method == cleaning.OutlierMethodZScore {
		return profiling.ZScoreBounds(nums, f.config.Factor)
	}
	return profiling.IQRBounds(nums, f.config.Factor)
}

// markDuplicates rejects every row identical to an earlier one and returns
// how many rows were newly marked
func markDuplicates(ds *cleaning.Dataset, reject []bool) int {
	seen := make(map[string]bool, ds.NumRows())
	marked := 0
	for i := 0; i < ds.NumRows(); i++ {
		k := rowKey(ds.Row(i))
		if !seen[k] {
			seen[k] = true
			continue
		}
		if !reject[i] {
			reject[i] = true
			marked++
		}
	}
	return marked
}

// rowKey length-prefixes every cell key so no cell content can imitate a
// column boundary
func rowKey(row []cleaning.Value) string {
	var key strings.Builder
	for _, v := range row {
		k := v.Key()
		key.WriteString(strconv.Itoa(len(k)))
		key.WriteByte(':')
		key.WriteString(k)
	}
	return key.String()
}

// applyMask removes rejected rows from every column at once
func applyMask(ds *cleaning.Dataset, reject []bool) (*cleaning.Dataset, error) {
	keep := make([]bool, len(reject))
	dropped := false
	for i, r := range reject {
		keep[i] = !r
		dropped = dropped || r
	}
	if !dropped {
		return ds, nil
	}
	return ds.FilterRows(keep)
}
