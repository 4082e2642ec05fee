package crawl

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/fwojciec/ceibadl"
)

// Ensure Catalog implements ceibadl.CourseService at compile time.
var _ ceibadl.CourseService = (*Catalog)(nil)

// Catalog lists the user's enrolled courses and downloads a selection of
// them one after another.
type Catalog struct {
	Fetcher    ceibadl.Fetcher
	Parser     ceibadl.CourseListParser
	Endpoints  ceibadl.Endpoints
	Downloader ceibadl.CourseDownloader

	// Runs, if set, records every run and module outcome.
	Runs   ceibadl.RunService
	Logger *slog.Logger
}

// Result holds the outcome of a multi-course download.
type Result struct {
	Run     *ceibadl.Run
	Courses []*ceibadl.CourseResult
}

// FailedCourses returns how many courses could not be downloaded at all.
func (r *Result) FailedCourses() int {
	var n int
	for _, c := range r.Courses {
		if c.Err != nil {
			n++
		}
	}
	return n
}

// ListCourses fetches and parses the enrolled course list.
func (c *Catalog) ListCourses(ctx context.Context) ([]*ceibadl.Course, error) {
	resp, err := c.Fetcher.Fetch(ctx, c.Endpoints.CourseList)
	if err != nil {
		return nil, fmt.Errorf("fetch course list: %w", err)
	}
	body, err := decodeText(resp.Body, resp.ContentType)
	if err != nil {
		return nil, fmt.Errorf("decode course list: %w", err)
	}
	return c.Parser.ParseCourseList(string(body), resp.URL)
}

// Select returns the courses matching filter, in their original order.
func Select(courses []*ceibadl.Course, filter ceibadl.CourseFilter) []*ceibadl.Course {
	var selected []*ceibadl.Course
	for _, course := range courses {
		if filter.Match(course) {
			selected = append(selected, course)
		}
	}
	return selected
}

// EstimateSteps returns the progress total for downloading n courses:
// one step per filtered module, or per fetchable known module without a
// filter. DownloadAll tops each course up to its share, so the reported
// steps reach this total even when a panel lists fewer modules or a
// course aborts.
func EstimateSteps(n int, filter ceibadl.ModuleFilter) int {
	if filter.Len() > 0 {
		return n * filter.Len()
	}
	var per int
	for _, m := range ceibadl.Modules() {
		if !m.HardExcluded() {
			per++
		}
	}
	return n * per
}

// DownloadAll downloads courses sequentially into root. A course that
// fails as a whole is recorded in its result and the next one proceeds.
// The returned error is non-nil only when history could not be started or
// ctx was cancelled.
func (c *Catalog) DownloadAll(ctx context.Context, courses []*ceibadl.Course, root string, opts ceibadl.DownloadOptions) (*Result, error) {
	run := &ceibadl.Run{Root: root, Modules: joinModules(opts.Modules)}
	if c.Runs != nil {
		if err := c.Runs.CreateRun(ctx, run); err != nil {
			return nil, fmt.Errorf("create run: %w", err)
		}
	}

	perCourse := EstimateSteps(1, opts.Modules)
	result := &Result{Run: run}
	for _, course := range courses {
		if ctx.Err() != nil {
			break
		}

		var done int
		courseOpts := opts
		courseOpts.Progress = func(e ceibadl.ProgressEvent) {
			done += e.Steps
			opts.Report(e)
		}

		res, err := c.Downloader.Download(ctx, course, root, courseOpts)
		if res == nil {
			res = &ceibadl.CourseResult{Course: course, Err: err}
		}
		if err != nil && ctx.Err() == nil {
			c.logger().Error("course failed", "course", course.Name, "error", err)
		}
		if rest := perCourse - done; rest > 0 && ctx.Err() == nil {
			status := ceibadl.ModuleSkipped
			if res.Err != nil {
				status = ceibadl.ModuleFailed
			}
			opts.Report(ceibadl.ProgressEvent{Course: course, Steps: rest, Status: status})
		}
		result.Courses = append(result.Courses, res)

		run.Courses++
		fetched, skipped, failed := res.Counts()
		run.Fetched += fetched
		run.Skipped += skipped
		run.Failed += failed

		c.record(ctx, run, res)
	}

	if c.Runs != nil {
		// Record the run even when the download was interrupted.
		if err := c.Runs.FinishRun(context.WithoutCancel(ctx), run); err != nil {
			c.logger().Warn("finish run", "error", err)
		}
	}

	return result, ctx.Err()
}

// record stores the module outcomes of one course. History failures are
// logged and never fail the download.
func (c *Catalog) record(ctx context.Context, run *ceibadl.Run, res *ceibadl.CourseResult) {
	if c.Runs == nil {
		return
	}
	ctx = context.WithoutCancel(ctx)
	folder := res.Course.FolderName()

	for _, o := range res.Modules {
		if o.Status == ceibadl.ModuleFetched {
			if last, err := c.Runs.LastHash(ctx, folder, o.Module); err == nil && last == o.Hash {
				c.logger().Info("module unchanged since last run", "course", res.Course.Name, "module", string(o.Module))
			}
		}

		rec := &ceibadl.OutcomeRecord{
			RunID:  run.ID,
			Course: folder,
			Module: o.Module,
			Status: o.Status.String(),
			Path:   o.Path,
			Bytes:  o.Bytes,
			Hash:   o.Hash,
		}
		if o.Err != nil {
			rec.Error = o.Err.Error()
		}
		if err := c.Runs.RecordOutcome(ctx, rec); err != nil {
			c.logger().Warn("record outcome", "module", string(o.Module), "error", err)
		}
	}
}

func joinModules(filter ceibadl.ModuleFilter) string {
	keys := filter.Keys()
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = string(k)
	}
	return strings.Join(parts, ",")
}

func (c *Catalog) logger() *slog.Logger {
	if c.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return c.Logger
}
