package crawl

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"runtime/debug"

	"github.com/fwojciec/ceibadl"
)

// Ensure Downloader implements ceibadl.CourseDownloader at compile time.
var _ ceibadl.CourseDownloader = (*Downloader)(nil)

// Downloader mirrors one course: it resolves the course session, rewrites
// the homepage frameset and navigation panel, then fetches every module
// listed in the panel.
type Downloader struct {
	Fetcher   ceibadl.Fetcher
	Crawler   ceibadl.PageCrawler
	Store     ceibadl.FileStore
	Rewriter  ceibadl.PageRewriter
	Endpoints ceibadl.Endpoints

	// Converter, if set, also writes each module page as Markdown.
	Converter ceibadl.Converter
	Logger    *slog.Logger
}

// Download mirrors course into root/<course folder>. Session and layout
// problems abort the course and are returned as the error, with the result
// holding whatever was completed. Module failures only mark the module.
func (d *Downloader) Download(ctx context.Context, course *ceibadl.Course, root string, opts ceibadl.DownloadOptions) (*ceibadl.CourseResult, error) {
	if err := course.Validate(); err != nil {
		return nil, err
	}

	result := &ceibadl.CourseResult{
		Course: course,
		Dir:    filepath.Join(root, course.FolderName()),
	}
	fail := func(err error) (*ceibadl.CourseResult, error) {
		result.Err = err
		return result, err
	}

	if err := d.Store.EnsureDir(result.Dir); err != nil {
		return fail(fmt.Errorf("create course directory: %w", err))
	}

	sn, err := d.resolveSession(ctx, course)
	if err != nil {
		return fail(err)
	}
	course.SN = sn

	if err := d.fetchHomepage(ctx, sn, result.Dir); err != nil {
		return fail(err)
	}

	modules, assets, err := d.fetchButtons(ctx, sn, result.Dir, opts.Modules)
	result.Assets = assets
	if err != nil {
		return fail(err)
	}

	// Filtered modules the panel does not offer still count as done.
	if missing := opts.Modules.Len() - len(modules); opts.Modules.Len() > 0 && missing > 0 {
		opts.Report(ceibadl.ProgressEvent{Course: course, Steps: missing, Status: ceibadl.ModuleSkipped})
	}

	for _, m := range modules {
		if err := ctx.Err(); err != nil {
			return fail(err)
		}
		outcome := d.fetchModule(ctx, course, sn, result.Dir, m)
		result.Modules = append(result.Modules, outcome)
		opts.Report(ceibadl.ProgressEvent{Course: course, Module: m, Steps: 1, Status: outcome.Status})
	}

	return result, nil
}

// resolveSession follows the course link and reads the session id from
// the URL the portal lands on.
func (d *Downloader) resolveSession(ctx context.Context, course *ceibadl.Course) (string, error) {
	resp, err := d.Fetcher.Fetch(ctx, course.Href)
	if err != nil {
		return "", fmt.Errorf("resolve session for %s: %w", course, err)
	}
	return SessionID(resp.URL)
}

// fetchHomepage writes banner.html and the rewritten frameset as index.html.
// A frameset with a missing frame is rejected before index.html is written.
func (d *Downloader) fetchHomepage(ctx context.Context, sn, dir string) error {
	banner := ceibadl.Target{URL: d.Endpoints.BannerURL(sn), Dir: dir, Filename: ceibadl.BannerFile}
	if err := d.Crawler.Crawl(ctx, banner, ceibadl.ModePlain); err != nil {
		return fmt.Errorf("fetch banner: %w", err)
	}

	resp, err := d.Fetcher.Fetch(ctx, d.Endpoints.HomepageURL(sn))
	if err != nil {
		return fmt.Errorf("fetch homepage: %w", err)
	}
	page, err := d.Rewriter.RewriteFrameset(string(resp.Body))
	if err != nil {
		return err
	}
	return d.Store.WriteFile(ctx, dir, ceibadl.IndexFile, []byte(page))
}

// fetchButtons localizes the navigation panel and its stylesheets, writes
// button.html and returns the modules to fetch.
func (d *Downloader) fetchButtons(ctx context.Context, sn, dir string, filter ceibadl.ModuleFilter) ([]ceibadl.Module, []ceibadl.AssetOutcome, error) {
	resp, err := d.Fetcher.Fetch(ctx, d.Endpoints.ButtonURL(sn))
	if err != nil {
		return nil, nil, fmt.Errorf("fetch navigation panel: %w", err)
	}

	panel, err := d.Rewriter.ParsePanel(string(resp.Body), filter)
	if err != nil {
		return nil, nil, err
	}
	if n := panel.Unresolved(); n > 0 {
		d.logger().Warn("navigation links without module key removed", "count", n)
	}

	assets := d.Crawler.CrawlAssets(ctx, resp.URL, dir, panel.Stylesheets())

	page, err := panel.Render()
	if err != nil {
		return nil, assets, err
	}
	if err := d.Store.WriteFile(ctx, dir, ceibadl.ButtonFile, []byte(page)); err != nil {
		return nil, assets, err
	}
	return panel.Modules(), assets, nil
}

// fetchModule fetches one module page. It never panics and never returns
// an error: every failure is folded into the outcome.
func (d *Downloader) fetchModule(ctx context.Context, course *ceibadl.Course, sn, dir string, m ceibadl.Module) (outcome ceibadl.ModuleOutcome) {
	outcome.Module = m
	logger := d.logger().With("course", course.Name, "module", string(m))

	defer func() {
		if r := recover(); r != nil {
			outcome.Status = ceibadl.ModuleFailed
			outcome.Err = fmt.Errorf("panic: %v", r)
			logger.Debug("module panic", "stack", string(debug.Stack()))
		}
		if outcome.Status == ceibadl.ModuleFailed {
			logger.Error("module failed", "error", outcome.Err)
			logger.Warn(fmt.Sprintf("skipping %s of %s", m.Label(), course.Name))
		}
	}()

	url := d.Endpoints.ModuleURL(sn, m)
	resp, err := d.Fetcher.Fetch(ctx, url)
	if err != nil {
		outcome.Status = ceibadl.ModuleFailed
		outcome.Err = err
		logger.Debug("module fetch error", "url", url, "error", err)
		return outcome
	}

	if ceibadl.IsDisabledPage(resp.Body) {
		outcome.Status = ceibadl.ModuleSkipped
		logger.Info("module disabled")
		return outcome
	}

	moduleDir := filepath.Join(dir, string(m))
	if err := d.Store.EnsureDir(moduleDir); err != nil {
		outcome.Status = ceibadl.ModuleFailed
		outcome.Err = err
		return outcome
	}

	filename := string(m) + ".html"
	target := ceibadl.Target{URL: url, Dir: moduleDir, Filename: filename}
	if err := d.Crawler.Save(ctx, target, ceibadl.ModeTable, resp); err != nil {
		outcome.Status = ceibadl.ModuleFailed
		outcome.Err = err
		return outcome
	}

	outcome.Status = ceibadl.ModuleFetched
	outcome.Path = filepath.Join(moduleDir, filename)
	outcome.Bytes = len(resp.Body)
	outcome.Hash = computeHash(resp.Body)

	if d.Converter != nil {
		d.writeMarkdown(ctx, logger, moduleDir, m, resp)
	}
	return outcome
}

func (d *Downloader) writeMarkdown(ctx context.Context, logger *slog.Logger, dir string, m ceibadl.Module, resp *ceibadl.Response) {
	body, err := decodeText(resp.Body, resp.ContentType)
	if err != nil {
		logger.Warn("markdown export skipped", "error", err)
		return
	}
	md, err := d.Converter.Convert(string(body), resp.URL)
	if err != nil {
		logger.Warn("markdown export skipped", "error", err)
		return
	}
	if err := d.Store.WriteFile(ctx, dir, string(m)+".md", []byte(md)); err != nil {
		logger.Warn("markdown export skipped", "error", err)
	}
}

func (d *Downloader) logger() *slog.Logger {
	if d.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return d.Logger
}
