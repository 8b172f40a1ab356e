package app

import (
	"context"
	"time"

	"golang.org/x/sync/semaphore"

	"goclean/domain/cleaning"
	"goclean/domain/core"
	"goclean/internal"
	"goclean/internal/errors"
	"goclean/internal/pipeline"
	"goclean/ports"
)

// CleaningServiceConfig bounds how runs are executed
type CleaningServiceConfig struct {
	MaxConcurrent int
	Timeout       time.Duration
	// SaveTimeout bounds history writes, which outlive a canceled request
	SaveTimeout time.Duration
}

// DefaultCleaningServiceConfig allows four concurrent runs of two minutes
func DefaultCleaningServiceConfig() CleaningServiceConfig {
	return CleaningServiceConfig{
		MaxConcurrent: 4,
		Timeout:       2 * time.Minute,
		SaveTimeout:   5 * time.Second,
	}
}

// CleaningService runs the pipeline for the outer surfaces. It bounds the
// number of concurrent runs, applies a per-run timeout and, when a
// repository is configured, records every run.
type CleaningService struct {
	pipeline *pipeline.Pipeline
	runs     ports.CleaningRunRepository
	events   ports.RunEventPublisher
	sem      *semaphore.Weighted
	config   CleaningServiceConfig
	logger   *internal.Logger
}

// NewCleaningService creates a service. runs may be nil, which disables
// run history.
func NewCleaningService(p *pipeline.Pipeline, runs ports.CleaningRunRepository, config CleaningServiceConfig) *CleaningService {
	defaults := DefaultCleaningServiceConfig()
	if config.MaxConcurrent < 1 {
		config.MaxConcurrent = defaults.MaxConcurrent
	}
	if config.Timeout <= 0 {
		config.Timeout = defaults.Timeout
	}
	if config.SaveTimeout <= 0 {
		config.SaveTimeout = defaults.SaveTimeout
	}
	return &CleaningService{
		pipeline: p,
		runs:     runs,
		sem:      semaphore.NewWeighted(int64(config.MaxConcurrent)),
		config:   config,
		logger:   internal.NewDefaultLogger(),
	}
}

// WithEvents publishes run lifecycle events to pub
func (s *CleaningService) WithEvents(pub ports.RunEventPublisher) *CleaningService {
	s.events = pub
	return s
}

// HistoryEnabled reports whether runs are persisted
func (s *CleaningService) HistoryEnabled() bool {
	return s.runs != nil
}

// Clean runs the pipeline once a worker slot is free. The returned Result
// carries the run ID even on failure.
func (s *CleaningService) Clean(ctx context.Context, ds *cleaning.Dataset, opts cleaning.Options) (*cleaning.Result, error) {
	runID := core.NewRunID()

	release, err := s.acquire(ctx)
	if err != nil {
		result := &cleaning.Result{RunID: runID, Error: err.Error()}
		s.record(ctx, runID, opts, result)
		return result, err
	}
	defer release()

	runCtx, cancel := context.WithTimeout(ctx, s.config.Timeout)
	defer cancel()

	s.logger.Debug("[CleaningService] run %s started", runID)
	s.publish(cleaning.RunEvent{Type: cleaning.RunEventStarted, RunID: runID})

	result, err := s.pipeline.Clean(runCtx, ds, opts)
	result.RunID = runID
	s.publishFinished(result)
	if err != nil {
		s.logger.Warn("[CleaningService] run %s failed: %v", runID, err)
	} else {
		s.logger.Info("[CleaningService] run %s: %v -> %v in %dms",
			runID, result.Summary.OriginalShape, result.Summary.FinalShape, result.DurationMs)
	}

	s.record(ctx, runID, opts, result)
	return result, err
}

// Analyze returns the quality findings for a dataset without cleaning it
func (s *CleaningService) Analyze(ctx context.Context, ds *cleaning.Dataset, opts cleaning.Options) ([]string, error) {
	release, err := s.acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer release()

	runCtx, cancel := context.WithTimeout(ctx, s.config.Timeout)
	defer cancel()
	return s.pipeline.Analyze(runCtx, ds, opts)
}

// GetRun returns a recorded run
func (s *CleaningService) GetRun(ctx context.Context, id core.RunID) (*cleaning.Run, error) {
	if !s.HistoryEnabled() {
		return nil, errors.Unavailable("run history is disabled")
	}
	return s.runs.GetRun(ctx, id)
}

// ListRuns returns recorded runs, newest first
func (s *CleaningService) ListRuns(ctx context.Context, filters ports.RunFilters) ([]*cleaning.Run, error) {
	if !s.HistoryEnabled() {
		return nil, errors.Unavailable("run history is disabled")
	}
	return s.runs.ListRuns(ctx, filters)
}

func (s *CleaningService) publish(event cleaning.RunEvent) {
	if s.events == nil {
		return
	}
	event.Timestamp = core.Now()
	s.events.Publish(event)
}

func (s *CleaningService) publishFinished(result *cleaning.Result) {
	event := cleaning.RunEvent{
		Type:       cleaning.RunEventFinished,
		RunID:      result.RunID,
		Status:     cleaning.RunStatusSucceeded,
		DurationMs: result.DurationMs,
	}
	if result.Success {
		shape := result.Summary.FinalShape
		event.Shape = &shape
	} else {
		event.Status = cleaning.RunStatusFailed
		event.Error = result.Error
	}
	s.publish(event)
}

func (s *CleaningService) acquire(ctx context.Context) (func(), error) {
	if err := s.sem.Acquire(ctx, 1); err != nil {
		return nil, errors.Canceled("queue", err)
	}
	return func() { s.sem.Release(1) }, nil
}

// record saves the run if history is enabled. A failed save is logged and
// never changes the outcome of the run.
func (s *CleaningService) record(ctx context.Context, id core.RunID, opts cleaning.Options, result *cleaning.Result) {
	if !s.HistoryEnabled() {
		return
	}

	saveCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.config.SaveTimeout)
	defer cancel()

	if err := s.runs.SaveRun(saveCtx, cleaning.NewRun(id, opts, result)); err != nil {
		s.logger.Error("[CleaningService] failed to record run %s: %v", id, err)
	}
}
