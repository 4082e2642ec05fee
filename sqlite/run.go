package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/fwojciec/ceibadl"
	"github.com/google/uuid"
)

// Compile-time interface verification.
var _ ceibadl.RunService = (*RunService)(nil)

// RunService implements ceibadl.RunService using SQLite.
type RunService struct {
	db *DB
}

// NewRunService creates a new RunService.
func NewRunService(db *DB) *RunService {
	return &RunService{db: db}
}

// CreateRun stores a new run with a generated ID and start time.
func (s *RunService) CreateRun(ctx context.Context, run *ceibadl.Run) error {
	if err := run.Validate(); err != nil {
		return err
	}

	run.ID = uuid.New().String()
	run.StartedAt = time.Now().UTC()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO runs (id, root, modules, started_at)
		VALUES (?, ?, ?, ?)
	`, run.ID, run.Root, run.Modules, formatTime(run.StartedAt))

	return err
}

// FinishRun stamps the finish time and stores the run's counters.
func (s *RunService) FinishRun(ctx context.Context, run *ceibadl.Run) error {
	run.FinishedAt = time.Now().UTC()

	result, err := s.db.ExecContext(ctx, `
		UPDATE runs
		SET finished_at = ?, courses = ?, fetched = ?, skipped = ?, failed = ?
		WHERE id = ?
	`, formatTime(run.FinishedAt), run.Courses, run.Fetched, run.Skipped, run.Failed, run.ID)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ceibadl.Errorf(ceibadl.ENOTFOUND, "run not found")
	}
	return nil
}

// RecordOutcome stores one module outcome.
func (s *RunService) RecordOutcome(ctx context.Context, rec *ceibadl.OutcomeRecord) error {
	if rec.RunID == "" {
		return ceibadl.Errorf(ceibadl.EINVALID, "outcome run ID required")
	}
	if rec.Course == "" || rec.Module == "" {
		return ceibadl.Errorf(ceibadl.EINVALID, "outcome course and module required")
	}

	rec.ID = uuid.New().String()
	rec.CreatedAt = time.Now().UTC()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO outcomes (id, run_id, course, module, status, path, bytes, hash, error, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, rec.ID, rec.RunID, rec.Course, string(rec.Module), rec.Status, rec.Path, rec.Bytes, rec.Hash, rec.Error,
		formatTime(rec.CreatedAt))
	if err != nil && strings.Contains(err.Error(), "FOREIGN KEY") {
		return ceibadl.Errorf(ceibadl.ENOTFOUND, "run not found")
	}
	return err
}

// FindRuns returns runs matching the filter, most recent first.
func (s *RunService) FindRuns(ctx context.Context, filter ceibadl.RunFilter) ([]*ceibadl.Run, error) {
	var query strings.Builder
	var args []any

	query.WriteString(`SELECT id, root, modules, started_at, finished_at, courses, fetched, skipped, failed
		FROM runs WHERE 1=1`)

	if filter.ID != nil {
		query.WriteString(" AND id = ?")
		args = append(args, *filter.ID)
	}

	query.WriteString(" ORDER BY started_at DESC, rowid DESC")
	appendPagination(&query, &args, filter.Limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []*ceibadl.Run
	for rows.Next() {
		var run ceibadl.Run
		var startedAt, finishedAt string

		if err := rows.Scan(&run.ID, &run.Root, &run.Modules, &startedAt, &finishedAt,
			&run.Courses, &run.Fetched, &run.Skipped, &run.Failed); err != nil {
			return nil, err
		}

		if run.StartedAt, err = parseRFC3339(startedAt, "started_at"); err != nil {
			return nil, err
		}
		if finishedAt != "" {
			if run.FinishedAt, err = parseRFC3339(finishedAt, "finished_at"); err != nil {
				return nil, err
			}
		}

		runs = append(runs, &run)
	}

	return runs, rows.Err()
}

// FindOutcomes returns the outcomes of a run in the order they were recorded.
func (s *RunService) FindOutcomes(ctx context.Context, runID string) ([]*ceibadl.OutcomeRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, run_id, course, module, status, path, bytes, hash, error, created_at
		FROM outcomes
		WHERE run_id = ?
		ORDER BY created_at, rowid
	`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var recs []*ceibadl.OutcomeRecord
	for rows.Next() {
		var rec ceibadl.OutcomeRecord
		var module, createdAt string

		if err := rows.Scan(&rec.ID, &rec.RunID, &rec.Course, &module, &rec.Status, &rec.Path,
			&rec.Bytes, &rec.Hash, &rec.Error, &createdAt); err != nil {
			return nil, err
		}
		rec.Module = ceibadl.Module(module)

		if rec.CreatedAt, err = parseRFC3339(createdAt, "created_at"); err != nil {
			return nil, err
		}

		recs = append(recs, &rec)
	}

	return recs, rows.Err()
}

// LastHash returns the hash of the most recent fetched outcome for a
// course module, or "" if it was never fetched.
func (s *RunService) LastHash(ctx context.Context, course string, m ceibadl.Module) (string, error) {
	var hash string
	err := s.db.QueryRowContext(ctx, `
		SELECT hash FROM outcomes
		WHERE course = ? AND module = ? AND status = ? AND hash != ''
		ORDER BY created_at DESC, rowid DESC
		LIMIT 1
	`, course, string(m), ceibadl.ModuleFetched.String()).Scan(&hash)

	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	return hash, err
}
