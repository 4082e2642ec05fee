package mock

import (
	"context"

	"github.com/fwojciec/ceibadl"
)

var _ ceibadl.RunService = (*RunService)(nil)

// RunService is a mock implementation of ceibadl.RunService.
type RunService struct {
	CreateRunFn     func(ctx context.Context, run *ceibadl.Run) error
	FinishRunFn     func(ctx context.Context, run *ceibadl.Run) error
	RecordOutcomeFn func(ctx context.Context, rec *ceibadl.OutcomeRecord) error
	FindRunsFn      func(ctx context.Context, filter ceibadl.RunFilter) ([]*ceibadl.Run, error)
	FindOutcomesFn  func(ctx context.Context, runID string) ([]*ceibadl.OutcomeRecord, error)
	LastHashFn      func(ctx context.Context, course string, m ceibadl.Module) (string, error)
}

func (s *RunService) CreateRun(ctx context.Context, run *ceibadl.Run) error {
	return s.CreateRunFn(ctx, run)
}

func (s *RunService) FinishRun(ctx context.Context, run *ceibadl.Run) error {
	return s.FinishRunFn(ctx, run)
}

func (s *RunService) RecordOutcome(ctx context.Context, rec *ceibadl.OutcomeRecord) error {
	return s.RecordOutcomeFn(ctx, rec)
}

func (s *RunService) FindRuns(ctx context.Context, filter ceibadl.RunFilter) ([]*ceibadl.Run, error) {
	return s.FindRunsFn(ctx, filter)
}

func (s *RunService) FindOutcomes(ctx context.Context, runID string) ([]*ceibadl.OutcomeRecord, error) {
	return s.FindOutcomesFn(ctx, runID)
}

func (s *RunService) LastHash(ctx context.Context, course string, m ceibadl.Module) (string, error) {
	return s.LastHashFn(ctx, course, m)
}
