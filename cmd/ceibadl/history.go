package main

import (
	"fmt"
	"time"

	"github.com/fwojciec/ceibadl"
)

// Run executes the history command.
func (c *HistoryCmd) Run(deps *Dependencies) error {
	if c.RunID != "" {
		return c.showOutcomes(deps)
	}

	runs, err := deps.Runs.FindRuns(deps.Ctx, ceibadl.RunFilter{Limit: c.Limit})
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", ceibadl.ErrorMessage(err))
		return err
	}

	if len(runs) == 0 {
		fmt.Fprintln(deps.Stdout, "No runs recorded. Use 'ceibadl download' to start one.")
		return nil
	}

	for _, r := range runs {
		finished := "unfinished"
		if !r.FinishedAt.IsZero() {
			finished = r.FinishedAt.Sub(r.StartedAt).Round(time.Second).String()
		}
		fmt.Fprintf(deps.Stdout, "%s  %s  %s  %d course(s)  %d fetched  %d skipped  %d failed  %s\n",
			r.ID, r.StartedAt.Local().Format("2006-01-02 15:04"), finished,
			r.Courses, r.Fetched, r.Skipped, r.Failed, r.Root)
	}

	return nil
}

func (c *HistoryCmd) showOutcomes(deps *Dependencies) error {
	records, err := deps.Runs.FindOutcomes(deps.Ctx, c.RunID)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", ceibadl.ErrorMessage(err))
		return err
	}

	if len(records) == 0 {
		err := ceibadl.Errorf(ceibadl.ENOTFOUND, "no outcomes for run %q", c.RunID)
		fmt.Fprintf(deps.Stderr, "error: %s\n", ceibadl.ErrorMessage(err))
		return err
	}

	for _, rec := range records {
		detail := rec.Path
		if rec.Error != "" {
			detail = rec.Error
		}
		fmt.Fprintf(deps.Stdout, "%s  %-10s  %-8s  %s\n", rec.Course, rec.Module, rec.Status, detail)
	}
	return nil
}
