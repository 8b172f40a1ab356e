package coercer

import (
	"context"
	"log"
	"math"
	"strconv"
	"strings"
	"unicode"

	"goclean/domain/cleaning"
)

// TypeCoercer detects text-encoded numeric columns and converts them
type TypeCoercer struct {
	config    CoercionConfig
	sentinels cleaning.MissingSentinels
}

// CoercionConfig defines the coercion thresholds
type CoercionConfig struct {
	NumericThreshold float64 `json:"numeric_threshold"` // share of non-missing values that must parse as numbers
}

// DefaultCoercionConfig returns sensible defaults
func DefaultCoercionConfig() CoercionConfig {
	return CoercionConfig{
		NumericThreshold: 0.8, // 80% must parse as numbers
	}
}

// NewTypeCoercer creates a coercer with the given config and missing-value set
func NewTypeCoercer(config CoercionConfig, sentinels cleaning.MissingSentinels) *TypeCoercer {
	return &TypeCoercer{config: config, sentinels: sentinels}
}

// Name identifies the stage in logs
func (c *TypeCoercer) Name() string { return "type_coercion" }

// Apply runs ConvertNumericColumns as a pipeline stage
func (c *TypeCoercer) Apply(ctx context.Context, ds *cleaning.Dataset, rep *cleaning.ReportBuilder) (*cleaning.Dataset, error) {
	return c.ConvertNumericColumns(ctx, ds, rep)
}

// ParseNumeric strips commas and whitespace and parses the remainder as a
// finite float.
func ParseNumeric(s string) (float64, bool) {
	cleanVal := strings.Map(func(r rune) rune {
		if r == ',' || unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
	if cleanVal == "" {
		return 0, false
	}

	val, err := strconv.ParseFloat(cleanVal, 64)
	if err != nil {
		return 0, false
	}
	// Reject "Inf" and "NaN" spellings that ParseFloat accepts
	if math.IsInf(val, 0) || math.IsNaN(val) {
		return 0, false
	}
	return val, true
}

// TryNumeric returns the numeric reading of a cell: numbers as-is, text
// through ParseNumeric, missing never.
func TryNumeric(v cleaning.Value) (float64, bool) {
	switch v.Type {
	case cleaning.ValueTypeNumeric:
		return v.NumericVal, true
	case cleaning.ValueTypeString:
		return ParseNumeric(v.StringVal)
	default:
		return 0, false
	}
}

// TypeAnalysis contains the results of numeric distribution analysis
type TypeAnalysis struct {
	TotalCount       int                `json:"total_count"`
	MissingCount     int                `json:"missing_count"`
	ValidCount       int                `json:"valid_count"`
	NumericCount     int                `json:"numeric_count"`
	TextCount        int                `json:"text_count"`
	TextNumericCount int                `json:"text_numeric_count"`
	NumericRatio     float64            `json:"numeric_ratio"`
	RecommendedType  cleaning.ValueType `json:"recommended_type"`
}

// AnalyzeColumn counts how many non-missing cells read as numbers
func (c *TypeCoercer) AnalyzeColumn(values []cleaning.Value) TypeAnalysis {
	analysis := TypeAnalysis{TotalCount: len(values)}

	for _, v := range values {
		if c.sentinels.IsMissing(v) {
			analysis.MissingCount++
			continue
		}
		analysis.ValidCount++
		if v.IsString() {
			analysis.TextCount++
		}
		if _, ok := TryNumeric(v); ok {
			analysis.NumericCount++
			if v.IsString() {
				analysis.TextNumericCount++
			}
		}
	}

	if analysis.ValidCount > 0 {
		analysis.NumericRatio = float64(analysis.NumericCount) / float64(analysis.ValidCount)
	}
	analysis.RecommendedType = c.determineRecommendedType(analysis)
	return analysis
}

// IsNumericText reports whether a column is numeric data stored as text:
// at least one text cell parses and the numeric share meets the threshold.
func (c *TypeCoercer) IsNumericText(analysis TypeAnalysis) bool {
	return analysis.TextNumericCount > 0 && analysis.RecommendedType == cleaning.ValueTypeNumeric
}

// ConvertNumericColumns converts every numeric-as-text column. Parsed cells
// become numbers, sentinel cells become typed missing, and cells that still
// fail to parse keep their original text.
func (c *TypeCoercer) ConvertNumericColumns(ctx context.Context, ds *cleaning.Dataset, rep *cleaning.ReportBuilder) (*cleaning.Dataset, error) {
	out := ds
	for _, col := range ds.Columns() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		analysis := c.AnalyzeColumn(col.Values)
		if !c.IsNumericText(analysis) {
			continue
		}

		converted := make([]cleaning.Value, len(col.Values))
		leftover := 0
		for i, v := range col.Values {
			switch {
			case c.sentinels.IsMissing(v):
				converted[i] = cleaning.NewMissingValue()
			default:
				if num, ok := TryNumeric(v); ok {
					converted[i] = cleaning.NewNumericValue(num)
				} else {
					converted[i] = v
					leftover++
				}
			}
		}

		out = out.WithColumnValues(col.Name, converted)
		rep.AddOperation("Converted '%s' to numeric", col.Name)
		rep.AddModifiedColumn(col.Name)
		log.Printf("[TypeCoercer] converted %s to numeric (%d/%d parsed, %d left as text)",
			col.Name, analysis.NumericCount, analysis.ValidCount, leftover)
	}
	return out, nil
}

// determineRecommendedType chooses numeric when the threshold is met
func (c *TypeCoercer) determineRecommendedType(analysis TypeAnalysis) cleaning.ValueType {
	if analysis.ValidCount == 0 {
		return cleaning.ValueTypeMissing
	}
	if analysis.NumericCount > 0 && analysis.NumericRatio >= c.config.NumericThreshold {
		return cleaning.ValueTypeNumeric
	}
	return cleaning.ValueTypeString
}
