package pipeline

import (
	"log"

	"goclean/domain/cleaning"
	"goclean/internal/profiling"
)

// summarizeColumns profiles every column whose present cells are all
// numeric. Columns with text cells or no values at all are skipped.
func summarizeColumns(ds *cleaning.Dataset) []cleaning.NumericSummary {
	var summaries []cleaning.NumericSummary
	for _, col := range ds.Columns() {
		nums, ok := numericValues(col.Values)
		if !ok {
			continue
		}
		s, err := profiling.Summarize(nums)
		if err != nil {
			log.Printf("[Pipeline] skipping summary for %s: %v", col.Name, err)
			continue
		}
		summaries = append(summaries, cleaning.NumericSummary{
			Column: col.Name,
			Count:  s.Count,
			Min:    s.Min,
			Q1:     s.Q1,
			Median: s.Median,
			Q3:     s.Q3,
			Max:    s.Max,
			Mean:   s.Mean,
			StdDev: s.StdDev,
		})
	}
	return summaries
}

func numericValues(values []cleaning.Value) ([]float64, bool) {
	nums := make([]float64, 0, len(values))
	for _, v := range values {
		switch {
		case v.IsMissing():
			continue
		case v.IsNumeric():
			nums = append(nums, v.NumericVal)
		default:
			return nil, false
		}
	}
	return nums, len(nums) > 0
}
