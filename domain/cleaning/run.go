package cleaning

import "goclean/domain/core"

// RunStatus is the outcome of a cleaning run
type RunStatus string

const (
	RunStatusSucceeded RunStatus = "succeeded"
	RunStatusFailed    RunStatus = "failed"
)

// Run is the persisted record of one cleaning run. The cleaned dataset
// itself is not kept; the report and statistics are.
type Run struct {
	ID           core.RunID     `json:"id"`
	Status       RunStatus      `json:"status"`
	Options      Options        `json:"options"`
	Report       CleaningReport `json:"report"`
	Statistics   Statistics     `json:"statistics"`
	ErrorMessage string         `json:"error_message,omitempty"`
	DurationMs   int64          `json:"duration_ms"`
	CreatedAt    core.Timestamp `json:"created_at"`
}

// NewRun records a finished result under the given id
func NewRun(id core.RunID, opts Options, result *Result) *Run {
	run := &Run{
		ID:        id,
		Status:    RunStatusSucceeded,
		Options:   opts,
		CreatedAt: core.Now(),
	}
	if result == nil {
		run.Status = RunStatusFailed
		return run
	}
	run.Report = result.Summary
	run.Statistics = result.Statistics
	run.DurationMs = result.DurationMs
	if !result.Success {
		run.Status = RunStatusFailed
		run.ErrorMessage = result.Error
	}
	return run
}

// RunEventType distinguishes run lifecycle events
type RunEventType string

const (
	RunEventStarted  RunEventType = "run_started"
	RunEventFinished RunEventType = "run_finished"
)

// RunEvent announces progress of a run to live subscribers
type RunEvent struct {
	Type       RunEventType   `json:"type"`
	RunID      core.RunID     `json:"run_id"`
	Status     RunStatus      `json:"status,omitempty"`
	Shape      *Shape         `json:"shape,omitempty"`
	DurationMs int64          `json:"duration_ms,omitempty"`
	Error      string         `json:"error,omitempty"`
	Timestamp  core.Timestamp `json:"timestamp"`
}
