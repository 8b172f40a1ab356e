package profiling

import (
	"math"
	"sort"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/stat"
)

// MinIQRSamples is the smallest sample size for which quartile bounds are
// evaluated; columns with n <= 4 are never filtered.
const MinIQRSamples = 5

// Bounds is an inclusive [Lower, Upper] interval
type Bounds struct {
	Lower float64 `json:"lower"`
	Upper float64 `json:"upper"`
}

// Contains reports whether x lies inside the bounds
func (b Bounds) Contains(x float64) bool {
	return x >= b.Lower && x <= b.Upper
}

// Clamp limits x to the bounds
func (b Bounds) Clamp(x float64) float64 {
	return math.Min(math.Max(x, b.Lower), b.Upper)
}

// PositionalQuantile indexes a sorted slice at floor(q*n). It never
// interpolates, so the result is always one of the observed values.
func PositionalQuantile(sorted []float64, q float64) float64 {
	n := len(sorted)
	idx := int(math.Floor(float64(n) * q))
	if idx >= n {
		idx = n - 1
	}
	if idx < 0 {
		idx = 0
	}
	return sorted[idx]
}

// PositionalMedian returns sorted[floor(n/2)]. For even n this is the upper
// of the two middle values; nothing is averaged.
func PositionalMedian(sorted []float64) float64 {
	return sorted[len(sorted)/2]
}

// SortedCopy returns an ascending copy of data
func SortedCopy(data []float64) []float64 {
	out := make([]float64, len(data))
	copy(out, data)
	sort.Float64s(out)
	return out
}

// IQRBounds computes [Q1 - factor*IQR, Q3 + factor*IQR] from positional
// quartiles. ok is false when there are too few samples.
func IQRBounds(data []float64, factor float64) (Bounds, bool) {
	if len(data) < MinIQRSamples {
		return Bounds{}, false
	}
	sorted := SortedCopy(data)
	q1 := PositionalQuantile(sorted, 0.25)
	q3 := PositionalQuantile(sorted, 0.75)
	iqr := q3 - q1
	return Bounds{Lower: q1 - factor*iqr, Upper: q3 + factor*iqr}, true
}

// ZScoreBounds computes mean +/- threshold * population stddev. ok is false
// for small samples and for constant columns.
func ZScoreBounds(data []float64, threshold float64) (Bounds, bool) {
	if len(data) < MinIQRSamples {
		return Bounds{}, false
	}
	mean, std := stat.PopMeanStdDev(data, nil)
	if std == 0 || math.IsNaN(std) {
		return Bounds{}, false
	}
	return Bounds{Lower: mean - threshold*std, Upper: mean + threshold*std}, true
}

// ColumnSummary holds descriptive statistics for a numeric column
type ColumnSummary struct {
	Count  int     `json:"count"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"std_dev"`
	Q1     float64 `json:"q1"`
	Median float64 `json:"median"`
	Q3     float64 `json:"q3"`
}

// Summarize computes a ColumnSummary
func Summarize(data []float64) (ColumnSummary, error) {
	summary := ColumnSummary{Count: len(data)}

	mean, err := stats.Mean(data)
	if err != nil {
		return summary, err
	}

	stdDev, err := stats.StandardDeviation(data)
	if err != nil {
		return summary, err
	}

	min, err := stats.Min(data)
	if err != nil {
		return summary, err
	}

	max, err := stats.Max(data)
	if err != nil {
		return summary, err
	}

	sorted := SortedCopy(data)
	summary.Mean = mean
	summary.StdDev = stdDev
	summary.Min = min
	summary.Max = max
	summary.Q1 = PositionalQuantile(sorted, 0.25)
	summary.Median = PositionalMedian(sorted)
	summary.Q3 = PositionalQuantile(sorted, 0.75)
	return summary, nil
}

// Mean returns the arithmetic mean
func Mean(data []float64) (float64, error) {
	return stats.Mean(data)
}
