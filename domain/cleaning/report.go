package cleaning

import (
	"fmt"

	"goclean/domain/core"
)

// CleaningReport is the auditable record of one pipeline run
type CleaningReport struct {
	OperationsPerformed []string `json:"operations_performed"`
	DataQualityIssues   []string `json:"data_quality_issues"`
	ColumnsModified     []string `json:"columns_modified"`
	RowsAffected        int      `json:"rows_affected"`
	OriginalShape       Shape    `json:"original_shape"`
	FinalShape          Shape    `json:"final_shape"`

	ColumnSummaries []NumericSummary `json:"column_summaries,omitempty"`
}

// NumericSummary describes one fully numeric column of the cleaned dataset
type NumericSummary struct {
	Column string  `json:"column"`
	Count  int     `json:"count"`
	Min    float64 `json:"min"`
	Q1     float64 `json:"q1"`
	Median float64 `json:"median"`
	Q3     float64 `json:"q3"`
	Max    float64 `json:"max"`
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"std_dev"`
}

// ReportBuilder accumulates report entries while stages run. It belongs to a
// single run and is not safe for concurrent use.
type ReportBuilder struct {
	report CleaningReport
}

// NewReportBuilder creates an empty builder
func NewReportBuilder() *ReportBuilder {
	return &ReportBuilder{
		report: CleaningReport{
			OperationsPerformed: []string{},
			DataQualityIssues:   []string{},
			ColumnsModified:     []string{},
		},
	}
}

// AddOperation appends a formatted operation entry
func (b *ReportBuilder) AddOperation(format string, args ...interface{}) {
	b.report.OperationsPerformed = append(b.report.OperationsPerformed, fmt.Sprintf(format, args...))
}

// SetQualityIssues records the findings of the analysis pass
func (b *ReportBuilder) SetQualityIssues(issues []string) {
	b.report.DataQualityIssues = append([]string{}, issues...)
}

// AddQualityIssue appends a finding raised by a later stage
func (b *ReportBuilder) AddQualityIssue(format string, args ...interface{}) {
	b.report.DataQualityIssues = append(b.report.DataQualityIssues, fmt.Sprintf(format, args...))
}

// AddModifiedColumn records a column touched by type coercion
func (b *ReportBuilder) AddModifiedColumn(name string) {
	b.report.ColumnsModified = append(b.report.ColumnsModified, name)
}

// AddRowsAffected adds to the cumulative affected count
func (b *ReportBuilder) AddRowsAffected(n int) {
	b.report.RowsAffected += n
}

// SetOriginalShape records the input shape
func (b *ReportBuilder) SetOriginalShape(s Shape) {
	b.report.OriginalShape = s
}

// SetFinalShape records the output shape
func (b *ReportBuilder) SetFinalShape(s Shape) {
	b.report.FinalShape = s
}

// SetColumnSummaries records per-column statistics of the final dataset
func (b *ReportBuilder) SetColumnSummaries(summaries []NumericSummary) {
	b.report.ColumnSummaries = append([]NumericSummary(nil), summaries...)
}

// OperationCount returns the number of operation entries so far
func (b *ReportBuilder) OperationCount() int {
	return len(b.report.OperationsPerformed)
}

// Report returns a copy that later builder calls cannot change
func (b *ReportBuilder) Report() CleaningReport {
	r := b.report
	r.OperationsPerformed = append([]string{}, b.report.OperationsPerformed...)
	r.DataQualityIssues = append([]string{}, b.report.DataQualityIssues...)
	r.ColumnsModified = append([]string{}, b.report.ColumnsModified...)
	r.ColumnSummaries = append([]NumericSummary(nil), b.report.ColumnSummaries...)
	return r
}

// Statistics are derived from the two shapes and the report counters
type Statistics struct {
	OriginalRows     int `json:"original_rows"`
	OriginalColumns  int `json:"original_columns"`
	FinalRows        int `json:"final_rows"`
	FinalColumns     int `json:"final_columns"`
	RowsRemoved      int `json:"rows_removed"`
	ColumnsProcessed int `json:"columns_processed"`
	OperationsCount  int `json:"operations_count"`
	IssuesFound      int `json:"issues_found"`
}

// NewStatistics derives run statistics from a finished report
func NewStatistics(r CleaningReport) Statistics {
	return Statistics{
		OriginalRows:     r.OriginalShape.Rows,
		OriginalColumns:  r.OriginalShape.Columns,
		FinalRows:        r.FinalShape.Rows,
		FinalColumns:     r.FinalShape.Columns,
		RowsRemoved:      r.OriginalShape.Rows - r.FinalShape.Rows,
		ColumnsProcessed: r.FinalShape.Columns,
		OperationsCount:  len(r.OperationsPerformed),
		IssuesFound:      len(r.DataQualityIssues),
	}
}

// Result is what a cleaning run hands back to its caller
type Result struct {
	RunID      core.RunID     `json:"run_id,omitempty"`
	Success    bool           `json:"success"`
	Data       *Dataset       `json:"data,omitempty"`
	Summary    CleaningReport `json:"summary"`
	Statistics Statistics     `json:"statistics"`
	DurationMs int64          `json:"duration_ms"`
	Error      string         `json:"error,omitempty"`
}
