package pipeline

import (
	"context"
	"log"
	"time"

	"goclean/domain/cleaning"
	"goclean/internal/errors"
)

// Pipeline runs the cleaning stages over one dataset at a time. It holds no
// per-run state, so a single Pipeline may serve concurrent callers as long
// as each passes its own dataset.
type Pipeline struct {
	config Config
}

// NewPipeline creates a pipeline with the given thresholds
func NewPipeline(config Config) *Pipeline {
	if config.NumericThreshold <= 0 {
		config.NumericThreshold = DefaultConfig().NumericThreshold
	}
	if config.MaxMissingRatio <= 0 {
		config.MaxMissingRatio = DefaultConfig().MaxMissingRatio
	}
	return &Pipeline{config: config}
}

// Clean validates the input, runs every enabled stage in order and returns
// the cleaned dataset with its report. Data-quality conditions never fail a
// run; invalid options, a malformed dataset or cancellation do, in which
// case the returned Result has Success=false and the error is an AppError.
func (p *Pipeline) Clean(ctx context.Context, ds *cleaning.Dataset, opts cleaning.Options) (*cleaning.Result, error) {
	start := time.Now()
	rep := cleaning.NewReportBuilder()

	if err := opts.Validate(); err != nil {
		return p.fail(rep, start, errors.WithCode(errors.CodeValidationError, err))
	}
	opts = opts.Normalized()

	if ds == nil {
		return p.fail(rep, start, errors.InvalidInput(cleaning.ErrNoColumns.Error()))
	}
	if err := ds.Validate(); err != nil {
		return p.fail(rep, start, errors.WithCode(errors.CodeInvalidInput, err))
	}

	rep.SetOriginalShape(ds.Shape())
	log.Printf("[Pipeline] cleaning dataset %v", ds.Shape())

	out, err := p.run(ctx, ds, BuildStages(p.config, opts), rep)
	if err != nil {
		return p.fail(rep, start, err)
	}

	rep.SetFinalShape(out.Shape())
	rep.SetColumnSummaries(summarizeColumns(out))
	report := rep.Report()
	result := &cleaning.Result{
		Success:    true,
		Data:       out,
		Summary:    report,
		Statistics: cleaning.NewStatistics(report),
		DurationMs: time.Since(start).Milliseconds(),
	}

	log.Printf("[Pipeline] finished %v -> %v: %d operations, %d issues in %dms",
		report.OriginalShape, report.FinalShape, len(report.OperationsPerformed), len(report.DataQualityIssues), result.DurationMs)
	return result, nil
}

// Analyze runs only the quality analysis and returns its findings
func (p *Pipeline) Analyze(ctx context.Context, ds *cleaning.Dataset, opts cleaning.Options) ([]string, error) {
	if err := opts.Validate(); err != nil {
		return nil, errors.WithCode(errors.CodeValidationError, err)
	}
	if ds == nil || ds.NumColumns() == 0 {
		return []string{}, nil
	}
	if err := ds.Validate(); err != nil {
		return nil, errors.WithCode(errors.CodeInvalidInput, err)
	}

	opts = opts.Normalized()
	opts.CleanColumnNames = false
	opts.ConvertNumeric = false
	opts.HandleMissing = false
	opts.RemoveOutliers = false
	opts.RemoveDuplicates = false

	rep := cleaning.NewReportBuilder()
	if _, err := p.run(ctx, ds, BuildStages(p.config, opts), rep); err != nil {
		return nil, err
	}
	return rep.Report().DataQualityIssues, nil
}

// run applies stages in order, checking for cancellation between them
func (p *Pipeline) run(ctx context.Context, ds *cleaning.Dataset, stages []Stage, rep *cleaning.ReportBuilder) (*cleaning.Dataset, error) {
	current := ds
	for _, stage := range stages {
		if err := ctx.Err(); err != nil {
			log.Printf("[Pipeline] canceled before %s: %v", stage.Name(), err)
			return nil, errors.Canceled(stage.Name(), err)
		}

		next, err := stage.Apply(ctx, current, rep)
		if err != nil {
			if errors.IsCancellation(err) {
				log.Printf("[Pipeline] canceled during %s: %v", stage.Name(), err)
				return nil, errors.Canceled(stage.Name(), err)
			}
			return nil, errors.Wrapf(err, "stage %s failed", stage.Name())
		}
		if next.NumColumns() != current.NumColumns() {
			return nil, errors.InternalError("stage " + stage.Name() + " changed the column count")
		}
		current = next
	}
	return current, nil
}

func (p *Pipeline) fail(rep *cleaning.ReportBuilder, start time.Time, err error) (*cleaning.Result, error) {
	log.Printf("[Pipeline] run failed: %v", err)
	report := rep.Report()
	return &cleaning.Result{
		Success:    false,
		Summary:    report,
		Statistics: cleaning.NewStatistics(report),
		DurationMs: time.Since(start).Milliseconds(),
		Error:      err.Error(),
	}, err
}
