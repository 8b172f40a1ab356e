package pipeline

import (
	"context"

	"goclean/adapters/datareadiness"
	"goclean/adapters/datareadiness/coercer"
	"goclean/domain/cleaning"
)

// Stage is one step of the cleaning pipeline. A stage receives the dataset
// produced by the previous stage and returns a dataset of the same columnar
// shape; only the row filter may return fewer rows.
type Stage interface {
	Name() string
	Apply(ctx context.Context, ds *cleaning.Dataset, rep *cleaning.ReportBuilder) (*cleaning.Dataset, error)
}

// Config tunes the stage thresholds that are not exposed as request options
type Config struct {
	NumericThreshold float64
	MaxMissingRatio  float64
}

// DefaultConfig returns the 80% coercion and 50% imputation thresholds
func DefaultConfig() Config {
	return Config{
		NumericThreshold: coercer.DefaultCoercionConfig().NumericThreshold,
		MaxMissingRatio:  datareadiness.DefaultImputerConfig().MaxMissingRatio,
	}
}

// BuildStages returns the stages enabled by opts in execution order:
// column names, quality analysis, type coercion, missing values, row filter.
// Quality analysis always runs.
func BuildStages(config Config, opts cleaning.Options) []Stage {
	sentinels := opts.Sentinels()
	typeCoercer := coercer.NewTypeCoercer(coercer.CoercionConfig{NumericThreshold: config.NumericThreshold}, sentinels)

	var stages []Stage
	if opts.CleanColumnNames {
		stages = append(stages, datareadiness.NewColumnNameNormalizer())
	}
	stages = append(stages, datareadiness.NewQualityAnalyzer(typeCoercer, sentinels))
	if opts.ConvertNumeric {
		stages = append(stages, typeCoercer)
	}
	if opts.HandleMissing {
		stages = append(stages, datareadiness.NewMissingValueImputer(datareadiness.ImputerConfig{
			Strategy:        opts.MissingStrategy,
			MaxMissingRatio: config.MaxMissingRatio,
		}, sentinels))
	}
	if opts.RemoveOutliers || opts.RemoveDuplicates {
		stages = append(stages, datareadiness.NewOutlierFilter(datareadiness.OutlierConfig{
			RemoveOutliers:   opts.RemoveOutliers,
			Method:           opts.OutlierMethod,
			Action:           opts.OutlierAction,
			Factor:           opts.OutlierFactor,
			RemoveDuplicates: opts.RemoveDuplicates,
		}, sentinels))
	}
	return stages
}
