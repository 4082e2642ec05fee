package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/fwojciec/ceibadl"
	"github.com/fwojciec/ceibadl/crawl"
	"github.com/schollz/progressbar/v3"
)

// Run executes the download command.
func (c *DownloadCmd) Run(deps *Dependencies) error {
	modules, err := ceibadl.ParseModuleFilter(c.Module)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", ceibadl.ErrorMessage(err))
		return err
	}

	courses, err := loginAndList(deps)
	if err != nil {
		return err
	}

	selected := crawl.Select(courses, ceibadl.CourseFilter{Names: c.Course})
	if len(selected) == 0 {
		err := ceibadl.Errorf(ceibadl.ENOTFOUND, "no matching courses")
		fmt.Fprintf(deps.Stderr, "error: %s\n", ceibadl.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Downloading %d course(s) to %s\n", len(selected), c.Dest)

	bar := newProgressBar(deps.Stderr, crawl.EstimateSteps(len(selected), modules))
	opts := ceibadl.DownloadOptions{
		Modules: modules,
		Progress: func(e ceibadl.ProgressEvent) {
			if e.Module != "" {
				bar.Describe(fmt.Sprintf("%s %s", e.Course.Name, e.Module.Label()))
			}
			_ = bar.Add(e.Steps)
		},
	}

	result, err := deps.Catalog.DownloadAll(deps.Ctx, selected, c.Dest, opts)
	_ = bar.Finish()
	fmt.Fprintln(deps.Stderr)

	if result != nil {
		printSummary(deps.Stdout, result)
	}

	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", ceibadl.ErrorMessage(err))
		return err
	}

	if failed := result.FailedCourses(); failed == len(selected) {
		err := ceibadl.Errorf(ceibadl.EINTERNAL, "all %d course(s) failed", failed)
		fmt.Fprintf(deps.Stderr, "error: %s\n", ceibadl.ErrorMessage(err))
		return err
	}

	return nil
}

func newProgressBar(w io.Writer, total int) *progressbar.ProgressBar {
	return progressbar.NewOptions(total,
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetDescription("modules"),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "=",
			SaucerHead:    ">",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
	)
}

func printSummary(w io.Writer, result *crawl.Result) {
	for _, res := range result.Courses {
		if res.Err != nil {
			fmt.Fprintf(w, "  FAILED %s: %s\n", res.Course.Name, ceibadl.ErrorMessage(res.Err))
			continue
		}
		fetched, skipped, failed := res.Counts()
		fmt.Fprintf(w, "  %s: %d fetched, %d skipped, %d failed (%s)\n",
			res.Course.Name, fetched, skipped, failed, crawl.FormatBytes(res.Bytes()))
		for _, o := range res.Modules {
			if o.Status == ceibadl.ModuleFailed {
				fmt.Fprintf(w, "    %s: %s\n", o.Module.Label(), ceibadl.ErrorMessage(o.Err))
			}
		}
		for _, a := range res.Assets {
			if a.Err != nil {
				fmt.Fprintf(w, "    asset not mirrored: %s\n", crawl.TruncateURL(a.URL, 60))
			}
		}
	}

	run := result.Run
	line := fmt.Sprintf("Done: %d course(s), %d fetched, %d skipped, %d failed", run.Courses, run.Fetched, run.Skipped, run.Failed)
	if run.ID != "" {
		line += " [run " + run.ID + "]"
	}
	fmt.Fprintln(w, strings.TrimSpace(line))
}
