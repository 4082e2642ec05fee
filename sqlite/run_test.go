package sqlite_test

import (
	"context"
	"testing"

	"github.com/fwojciec/ceibadl"
	"github.com/fwojciec/ceibadl/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunService_CreateRun(t *testing.T) {
	t.Parallel()

	t.Run("assigns ID and start time", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewRunService(setupTestDB(t))
		run := &ceibadl.Run{Root: "/home/u/ceiba", Modules: "board,info"}

		require.NoError(t, svc.CreateRun(context.Background(), run))

		assert.NotEmpty(t, run.ID)
		assert.False(t, run.StartedAt.IsZero())
	})

	t.Run("rejects run without root", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewRunService(setupTestDB(t))

		err := svc.CreateRun(context.Background(), &ceibadl.Run{})
		require.Error(t, err)
		assert.Equal(t, ceibadl.EINVALID, ceibadl.ErrorCode(err))
	})
}

func TestRunService_FinishRun(t *testing.T) {
	t.Parallel()

	t.Run("stores counters", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewRunService(setupTestDB(t))
		ctx := context.Background()
		run := &ceibadl.Run{Root: "/out"}
		require.NoError(t, svc.CreateRun(ctx, run))

		run.Courses, run.Fetched, run.Skipped, run.Failed = 2, 7, 3, 1
		require.NoError(t, svc.FinishRun(ctx, run))

		runs, err := svc.FindRuns(ctx, ceibadl.RunFilter{ID: &run.ID})
		require.NoError(t, err)
		require.Len(t, runs, 1)
		got := runs[0]
		assert.Equal(t, "/out", got.Root)
		assert.Equal(t, 2, got.Courses)
		assert.Equal(t, 7, got.Fetched)
		assert.Equal(t, 3, got.Skipped)
		assert.Equal(t, 1, got.Failed)
		assert.False(t, got.FinishedAt.IsZero())
		assert.False(t, got.FinishedAt.Before(got.StartedAt))
	})

	t.Run("returns ENOTFOUND for unknown run", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewRunService(setupTestDB(t))

		err := svc.FinishRun(context.Background(), &ceibadl.Run{ID: "missing", Root: "/out"})
		require.Error(t, err)
		assert.Equal(t, ceibadl.ENOTFOUND, ceibadl.ErrorCode(err))
	})
}

func TestRunService_FindRuns(t *testing.T) {
	t.Parallel()

	t.Run("returns most recent first with limit", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewRunService(setupTestDB(t))
		ctx := context.Background()

		var ids []string
		for _, root := range []string{"/a", "/b", "/c"} {
			run := &ceibadl.Run{Root: root}
			require.NoError(t, svc.CreateRun(ctx, run))
			ids = append(ids, run.ID)
		}

		runs, err := svc.FindRuns(ctx, ceibadl.RunFilter{Limit: 2})
		require.NoError(t, err)
		require.Len(t, runs, 2)
		assert.Equal(t, ids[2], runs[0].ID)
		assert.Equal(t, ids[1], runs[1].ID)
		assert.True(t, runs[0].FinishedAt.IsZero(), "unfinished run has no finish time")
	})

	t.Run("returns empty for no runs", func(t *testing.T) {
		t.Parallel()

		runs, err := sqlite.NewRunService(setupTestDB(t)).FindRuns(context.Background(), ceibadl.RunFilter{})
		require.NoError(t, err)
		assert.Empty(t, runs)
	})
}

func TestRunService_Outcomes(t *testing.T) {
	t.Parallel()

	t.Run("records and finds outcomes in order", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewRunService(setupTestDB(t))
		ctx := context.Background()
		run := &ceibadl.Run{Root: "/out"}
		require.NoError(t, svc.CreateRun(ctx, run))

		require.NoError(t, svc.RecordOutcome(ctx, &ceibadl.OutcomeRecord{
			RunID: run.ID, Course: "1051_線代_陳", Module: ceibadl.ModuleBulletin,
			Status: "fetched", Path: "/out/1051_線代_陳/bulletin/bulletin.html", Bytes: 42, Hash: "abc",
		}))
		require.NoError(t, svc.RecordOutcome(ctx, &ceibadl.OutcomeRecord{
			RunID: run.ID, Course: "1051_線代_陳", Module: ceibadl.ModuleHomework,
			Status: "failed", Error: "fetch: HTTP 500",
		}))

		recs, err := svc.FindOutcomes(ctx, run.ID)
		require.NoError(t, err)
		require.Len(t, recs, 2)
		assert.Equal(t, ceibadl.ModuleBulletin, recs[0].Module)
		assert.Equal(t, 42, recs[0].Bytes)
		assert.Equal(t, "abc", recs[0].Hash)
		assert.Equal(t, ceibadl.ModuleHomework, recs[1].Module)
		assert.Equal(t, "fetch: HTTP 500", recs[1].Error)
		assert.NotEmpty(t, recs[1].ID)
	})

	t.Run("rejects outcome for unknown run", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewRunService(setupTestDB(t))

		err := svc.RecordOutcome(context.Background(), &ceibadl.OutcomeRecord{
			RunID: "missing", Course: "c", Module: ceibadl.ModuleInfo, Status: "fetched",
		})
		require.Error(t, err)
	})

	t.Run("rejects outcome without run ID", func(t *testing.T) {
		t.Parallel()

		err := sqlite.NewRunService(setupTestDB(t)).RecordOutcome(context.Background(), &ceibadl.OutcomeRecord{Course: "c", Module: "info"})
		require.Error(t, err)
		assert.Equal(t, ceibadl.EINVALID, ceibadl.ErrorCode(err))
	})
}

func TestRunService_LastHash(t *testing.T) {
	t.Parallel()

	svc := sqlite.NewRunService(setupTestDB(t))
	ctx := context.Background()

	hash, err := svc.LastHash(ctx, "course", ceibadl.ModuleInfo)
	require.NoError(t, err)
	assert.Empty(t, hash)

	for _, h := range []string{"old", "new"} {
		run := &ceibadl.Run{Root: "/out"}
		require.NoError(t, svc.CreateRun(ctx, run))
		require.NoError(t, svc.RecordOutcome(ctx, &ceibadl.OutcomeRecord{
			RunID: run.ID, Course: "course", Module: ceibadl.ModuleInfo, Status: "fetched", Hash: h,
		}))
		require.NoError(t, svc.RecordOutcome(ctx, &ceibadl.OutcomeRecord{
			RunID: run.ID, Course: "course", Module: ceibadl.ModuleInfo, Status: "failed",
		}))
	}

	hash, err = svc.LastHash(ctx, "course", ceibadl.ModuleInfo)
	require.NoError(t, err)
	assert.Equal(t, "new", hash)

	hash, err = svc.LastHash(ctx, "other", ceibadl.ModuleInfo)
	require.NoError(t, err)
	assert.Empty(t, hash)
}
