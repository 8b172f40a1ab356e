package datareadiness

import (
	"context"
	"fmt"

	"goclean/adapters/datareadiness/coercer"
	"goclean/domain/cleaning"
	"goclean/internal/profiling"
)

const (
	// outlierScanMinDistinct is the distinct-value count a numeric column
	// must exceed before it is scanned for outliers
	outlierScanMinDistinct = 10
	outlierScanFactor      = 1.5
)

// QualityAnalyzer scans a dataset and emits human-readable findings. It
// never modifies the dataset.
type QualityAnalyzer struct {
	coercer   *coercer.TypeCoercer
	sentinels cleaning.MissingSentinels
}

// NewQualityAnalyzer creates an analyzer sharing the coercer's numeric rules
func NewQualityAnalyzer(c *coercer.TypeCoercer, sentinels cleaning.MissingSentinels) *QualityAnalyzer {
	return &QualityAnalyzer{coercer: c, sentinels: sentinels}
}

// Name identifies the stage in logs
func (a *QualityAnalyzer) Name() string { return "quality_analysis" }

// Apply records the findings in the report and passes the dataset through
func (a *QualityAnalyzer) Apply(ctx context.Context, ds *cleaning.Dataset, rep *cleaning.ReportBuilder) (*cleaning.Dataset, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	rep.SetQualityIssues(a.AnalyzeDataQuality(ds))
	return ds, nil
}

// AnalyzeDataQuality lists missing-value counts per column, then per column
// either numeric data stored as text or potential outliers, then the number
// of duplicate rows.
func (a *QualityAnalyzer) AnalyzeDataQuality(ds *cleaning.Dataset) []string {
	issues := []string{}
	if ds == nil || ds.NumColumns() == 0 {
		return issues
	}

	rows := ds.NumRows()
	columns := ds.Columns()

	for _, col := range columns {
		missing := a.sentinels.CountMissing(col.Values)
		if missing > 0 {
			pct := float64(missing) / float64(rows) * 100
			issues = append(issues, fmt.Sprintf("%s: %d missing values (%.1f%%)", col.Name, missing, pct))
		}
	}

	for _, col := range columns {
		analysis := a.coercer.AnalyzeColumn(col.Values)
		if a.coercer.IsNumericText(analysis) {
			issues = append(issues, fmt.Sprintf("%s: Numeric data stored as text", col.Name))
		}
		if n := a.countOutliers(col.Values); n > 0 {
			issues = append(issues, fmt.Sprintf("%s: %d potential outliers detected", col.Name, n))
		}
	}

	if dups := markDuplicates(ds, make([]bool, rows)); dups > 0 {
		issues = append(issues, fmt.Sprintf("Dataset: %d duplicate rows found", dups))
	}

	return issues
}

// countOutliers flags cells outside the IQR fences of a column whose present
// cells are all numeric and take more than outlierScanMinDistinct values
func (a *QualityAnalyzer) countOutliers(values []cleaning.Value) int {
	nums := make([]float64, 0, len(values))
	distinct := make(map[float64]struct{})
	for _, v := range values {
		if a.sentinels.IsMissing(v) {
			continue
		}
		if !v.IsNumeric() {
			return 0
		}
		nums = append(nums, v.NumericVal)
		distinct[v.NumericVal] = struct{}{}
	}
	if len(distinct) <= outlierScanMinDistinct {
		return 0
	}

	bounds, ok := profiling.IQRBounds(nums, outlierScanFactor)
	if !ok {
		return 0
	}
	flagged := 0
	for _, x := range nums {
		if !bounds.Contains(x) {
			flagged++
		}
	}
	return flagged
}
