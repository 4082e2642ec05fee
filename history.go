package ceibadl

import (
	"context"
	"time"
)

// Run is one invocation of the downloader.
type Run struct {
	ID         string    `json:"id"`
	Root       string    `json:"root"`
	Modules    string    `json:"modules"` // comma-separated filter, empty for all
	StartedAt  time.Time `json:"startedAt"`
	FinishedAt time.Time `json:"finishedAt"`
	Courses    int       `json:"courses"`
	Fetched    int       `json:"fetched"`
	Skipped    int       `json:"skipped"`
	Failed     int       `json:"failed"`
}

// Validate returns an error if the run contains invalid fields.
func (r *Run) Validate() error {
	if r.Root == "" {
		return Errorf(EINVALID, "run root directory required")
	}
	return nil
}

// OutcomeRecord is a persisted module outcome.
type OutcomeRecord struct {
	ID        string    `json:"id"`
	RunID     string    `json:"runId"`
	Course    string    `json:"course"` // folder name
	Module    Module    `json:"module"`
	Status    string    `json:"status"`
	Path      string    `json:"path"`
	Bytes     int       `json:"bytes"`
	Hash      string    `json:"hash"`
	Error     string    `json:"error"`
	CreatedAt time.Time `json:"createdAt"`
}

// RunFilter represents a filter for FindRuns.
type RunFilter struct {
	ID     *string `json:"id"`
	Limit  int     `json:"limit"`
	Offset int     `json:"offset"`
}

// RunService records download history.
type RunService interface {
	// CreateRun assigns an ID and start time and stores the run.
	CreateRun(ctx context.Context, run *Run) error

	// FinishRun stores the final counters of a run.
	// Returns ENOTFOUND if the run does not exist.
	FinishRun(ctx context.Context, run *Run) error

	// RecordOutcome stores one module outcome for a run.
	RecordOutcome(ctx context.Context, rec *OutcomeRecord) error

	// FindRuns returns runs, most recent first.
	FindRuns(ctx context.Context, filter RunFilter) ([]*Run, error)

	// FindOutcomes returns the outcomes recorded for a run.
	FindOutcomes(ctx context.Context, runID string) ([]*OutcomeRecord, error)

	// LastHash returns the most recent content hash recorded for a
	// course module, or "" if none.
	LastHash(ctx context.Context, course string, m Module) (string, error)
}
