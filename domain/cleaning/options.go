package cleaning

import "math"

// MissingStrategy selects how numeric columns are imputed. Categorical
// columns always use the mode.
type MissingStrategy string

const (
	// StrategyMedian fills numeric gaps with the positional median
	StrategyMedian MissingStrategy = "median"
	// StrategySmart is accepted for payload compatibility and behaves as median
	StrategySmart MissingStrategy = "smart"
	StrategyMean  MissingStrategy = "mean"
	StrategyZero  MissingStrategy = "zero"
)

// OutlierMethod selects how per-column bounds are computed
type OutlierMethod string

const (
	OutlierMethodIQR    OutlierMethod = "iqr"
	OutlierMethodZScore OutlierMethod = "zscore"
)

// OutlierAction selects what happens to out-of-bound values
type OutlierAction string

const (
	OutlierActionRemove OutlierAction = "remove"
	OutlierActionCap    OutlierAction = "cap"
)

// Options controls which pipeline stages run and how
type Options struct {
	CleanColumnNames bool            `json:"cleanColumnNames"`
	ConvertNumeric   bool            `json:"convertNumeric"`
	HandleMissing    bool            `json:"handleMissing"`
	MissingStrategy  MissingStrategy `json:"missingStrategy"`
	RemoveOutliers   bool            `json:"removeOutliers"`
	OutlierFactor    float64         `json:"outlierFactor"`
	OutlierMethod    OutlierMethod   `json:"outlierMethod"`
	OutlierAction    OutlierAction   `json:"outlierAction"`
	RemoveDuplicates bool            `json:"removeDuplicates"`

	// MissingSentinels overrides DefaultMissingSentinelValues when non-nil
	MissingSentinels []string `json:"missingSentinels,omitempty"`
}

// DefaultOptions returns the standard pipeline configuration
func DefaultOptions() Options {
	return Options{
		CleanColumnNames: true,
		ConvertNumeric:   true,
		HandleMissing:    true,
		MissingStrategy:  StrategyMedian,
		RemoveOutliers:   false,
		OutlierFactor:    1.5,
		OutlierMethod:    OutlierMethodIQR,
		OutlierAction:    OutlierActionRemove,
		RemoveDuplicates: false,
	}
}

// Sentinels returns the missing-value set in effect
func (o Options) Sentinels() MissingSentinels {
	if o.MissingSentinels == nil {
		return DefaultMissingSentinels()
	}
	return NewMissingSentinels(o.MissingSentinels...)
}

// Normalized fills empty enum fields with their defaults
func (o Options) Normalized() Options {
	if o.MissingStrategy == "" {
		o.MissingStrategy = StrategyMedian
	}
	if o.MissingStrategy == StrategySmart {
		o.MissingStrategy = StrategyMedian
	}
	if o.OutlierMethod == "" {
		o.OutlierMethod = OutlierMethodIQR
	}
	if o.OutlierAction == "" {
		o.OutlierAction = OutlierActionRemove
	}
	if o.OutlierFactor == 0 {
		o.OutlierFactor = 1.5
	}
	return o
}

// Validate rejects unknown enum values and negative or non-finite outlier
// factors. A zero factor means "use the default".
func (o Options) Validate() error {
	switch o.MissingStrategy {
	case "", StrategyMedian, StrategySmart, StrategyMean, StrategyZero:
	default:
		return NewInvalidOptionError("missingStrategy", o.MissingStrategy)
	}
	switch o.OutlierMethod {
	case "", OutlierMethodIQR, OutlierMethodZScore:
	default:
		return NewInvalidOptionError("outlierMethod", o.OutlierMethod)
	}
	switch o.OutlierAction {
	case "", OutlierActionRemove, OutlierActionCap:
	default:
		return NewInvalidOptionError("outlierAction", o.OutlierAction)
	}
	if o.OutlierFactor < 0 || math.IsNaN(o.OutlierFactor) || math.IsInf(o.OutlierFactor, 0) {
		return NewInvalidOptionError("outlierFactor", o.OutlierFactor)
	}
	return nil
}
