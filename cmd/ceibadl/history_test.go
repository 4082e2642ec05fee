package main_test

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/fwojciec/ceibadl"
	main "github.com/fwojciec/ceibadl/cmd/ceibadl"
	"github.com/fwojciec/ceibadl/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHistoryCmd_Run(t *testing.T) {
	t.Parallel()

	t.Run("lists runs with counters", func(t *testing.T) {
		t.Parallel()

		var gotFilter ceibadl.RunFilter
		started := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
		runs := &mock.RunService{
			FindRunsFn: func(_ context.Context, filter ceibadl.RunFilter) ([]*ceibadl.Run, error) {
				gotFilter = filter
				return []*ceibadl.Run{
					{ID: "run-2", Root: "/data/ceiba", StartedAt: started, FinishedAt: started.Add(95 * time.Second), Courses: 3, Fetched: 20, Skipped: 7, Failed: 1},
					{ID: "run-1", Root: "/data/ceiba", StartedAt: started.Add(-time.Hour)},
				}, nil
			},
		}

		stdout := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:    context.Background(),
			Stdout: stdout,
			Stderr: &bytes.Buffer{},
			Runs:   runs,
		}

		err := (&main.HistoryCmd{Limit: 5}).Run(deps)
		require.NoError(t, err)

		assert.Equal(t, 5, gotFilter.Limit)
		output := stdout.String()
		assert.Contains(t, output, "run-2")
		assert.Contains(t, output, "1m35s")
		assert.Contains(t, output, "3 course(s)  20 fetched  7 skipped  1 failed  /data/ceiba")
		assert.Contains(t, output, "run-1")
		assert.Contains(t, output, "unfinished")
	})

	t.Run("shows outcomes of one run", func(t *testing.T) {
		t.Parallel()

		runs := &mock.RunService{
			FindOutcomesFn: func(_ context.Context, runID string) ([]*ceibadl.OutcomeRecord, error) {
				require.Equal(t, "run-2", runID)
				return []*ceibadl.OutcomeRecord{
					{Course: "1051_線性代數_陳大文", Module: ceibadl.ModuleBulletin, Status: "fetched", Path: "/data/ceiba/1051_線性代數_陳大文/bulletin/bulletin.html"},
					{Course: "1051_線性代數_陳大文", Module: ceibadl.ModuleHomework, Status: "failed", Error: "HTTP 500"},
				}, nil
			},
		}

		stdout := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:    context.Background(),
			Stdout: stdout,
			Stderr: &bytes.Buffer{},
			Runs:   runs,
		}

		err := (&main.HistoryCmd{RunID: "run-2"}).Run(deps)
		require.NoError(t, err)
		assert.Contains(t, stdout.String(), "bulletin/bulletin.html")
		assert.Contains(t, stdout.String(), "HTTP 500")
	})

	t.Run("unknown run is not found", func(t *testing.T) {
		t.Parallel()

		stderr := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:    context.Background(),
			Stdout: &bytes.Buffer{},
			Stderr: stderr,
			Runs: &mock.RunService{
				FindOutcomesFn: func(_ context.Context, _ string) ([]*ceibadl.OutcomeRecord, error) {
					return nil, nil
				},
			},
		}

		err := (&main.HistoryCmd{RunID: "missing"}).Run(deps)
		require.Error(t, err)
		assert.Equal(t, ceibadl.ENOTFOUND, ceibadl.ErrorCode(err))
		assert.Contains(t, stderr.String(), `no outcomes for run "missing"`)
	})
}
