// Package crawl provides course mirroring orchestration.
// It coordinates fetching, page rewriting and storage of CEIBA course
// pages through the interfaces defined in the root package.
package crawl

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"unicode/utf8"

	"github.com/fwojciec/ceibadl"
	"golang.org/x/net/html/charset"
)

// Ensure Crawler implements ceibadl.PageCrawler at compile time.
var _ ceibadl.PageCrawler = (*Crawler)(nil)

// Crawler materializes portal resources as local files.
type Crawler struct {
	Fetcher ceibadl.Fetcher
	Store   ceibadl.FileStore
	Logger  *slog.Logger
}

// Crawl fetches target.URL and persists it according to mode.
func (c *Crawler) Crawl(ctx context.Context, target ceibadl.Target, mode ceibadl.CrawlMode) error {
	resp, err := c.Fetcher.Fetch(ctx, target.URL)
	if err != nil {
		return err
	}
	return c.Save(ctx, target, mode, resp)
}

// Save persists an already fetched response.
func (c *Crawler) Save(ctx context.Context, target ceibadl.Target, mode ceibadl.CrawlMode, resp *ceibadl.Response) error {
	name := target.Filename
	if name == "" {
		if mode != ceibadl.ModeStatic {
			return ceibadl.Errorf(ceibadl.EINVALID, "%s target %s has no file name", mode, target.URL)
		}
		base, err := ceibadl.URLBasename(target.URL)
		if err != nil {
			return err
		}
		name = base
	}

	body := resp.Body
	if mode == ceibadl.ModeTable {
		decoded, err := decodeText(resp.Body, resp.ContentType)
		if err != nil {
			return fmt.Errorf("decode %s: %w", target.URL, err)
		}
		body = decoded
	}

	return c.Store.WriteFile(ctx, target.Dir, name, body)
}

// CrawlAssets downloads every referenced asset into dir. Each reference is
// resolved against pageURL. On success Href becomes the local file name; on
// failure it becomes the absolute URL so the page still points somewhere
// that exists.
func (c *Crawler) CrawlAssets(ctx context.Context, pageURL, dir string, refs []*ceibadl.AssetRef) []ceibadl.AssetOutcome {
	outcomes := make([]ceibadl.AssetOutcome, 0, len(refs))
	for _, ref := range refs {
		outcome := c.crawlAsset(ctx, pageURL, dir, ref)
		if outcome.Err != nil {
			c.logger().Warn("asset skipped", "url", outcome.URL, "error", outcome.Err)
			if outcome.URL != "" {
				ref.Href = outcome.URL
			}
		} else {
			ref.Href = outcome.Filename
		}
		outcomes = append(outcomes, outcome)
	}
	return outcomes
}

func (c *Crawler) crawlAsset(ctx context.Context, pageURL, dir string, ref *ceibadl.AssetRef) ceibadl.AssetOutcome {
	resolved, err := ResolveURL(pageURL, ref.Href)
	if err != nil {
		return ceibadl.AssetOutcome{Err: err}
	}
	outcome := ceibadl.AssetOutcome{URL: resolved}

	name, err := ceibadl.URLBasename(resolved)
	if err != nil {
		outcome.Err = err
		return outcome
	}

	target := ceibadl.Target{URL: resolved, Dir: dir, Filename: name}
	if err := c.Crawl(ctx, target, ceibadl.ModeStatic); err != nil {
		outcome.Err = err
		return outcome
	}

	outcome.Filename = name
	return outcome
}

func (c *Crawler) logger() *slog.Logger {
	if c.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return c.Logger
}

// decodeText returns body as UTF-8. Bodies that already are valid UTF-8
// are returned unchanged; anything else is transcoded using the charset
// from contentType or the document's meta tags.
func decodeText(body []byte, contentType string) ([]byte, error) {
	if utf8.Valid(body) {
		return body, nil
	}
	r, err := charset.NewReader(bytes.NewReader(body), contentType)
	if err != nil {
		return nil, err
	}
	return io.ReadAll(r)
}
