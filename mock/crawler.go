package mock

import (
	"context"

	"github.com/fwojciec/ceibadl"
)

var (
	_ ceibadl.PageCrawler = (*PageCrawler)(nil)
	_ ceibadl.FileStore   = (*FileStore)(nil)
)

// PageCrawler is a mock implementation of ceibadl.PageCrawler.
type PageCrawler struct {
	CrawlFn       func(ctx context.Context, target ceibadl.Target, mode ceibadl.CrawlMode) error
	SaveFn        func(ctx context.Context, target ceibadl.Target, mode ceibadl.CrawlMode, resp *ceibadl.Response) error
	CrawlAssetsFn func(ctx context.Context, pageURL, dir string, refs []*ceibadl.AssetRef) []ceibadl.AssetOutcome
}

func (c *PageCrawler) Crawl(ctx context.Context, target ceibadl.Target, mode ceibadl.CrawlMode) error {
	return c.CrawlFn(ctx, target, mode)
}

func (c *PageCrawler) Save(ctx context.Context, target ceibadl.Target, mode ceibadl.CrawlMode, resp *ceibadl.Response) error {
	return c.SaveFn(ctx, target, mode, resp)
}

func (c *PageCrawler) CrawlAssets(ctx context.Context, pageURL, dir string, refs []*ceibadl.AssetRef) []ceibadl.AssetOutcome {
	return c.CrawlAssetsFn(ctx, pageURL, dir, refs)
}

// FileStore is a mock implementation of ceibadl.FileStore.
type FileStore struct {
	EnsureDirFn func(dir string) error
	WriteFileFn func(ctx context.Context, dir, name string, data []byte) error
}

func (s *FileStore) EnsureDir(dir string) error {
	return s.EnsureDirFn(dir)
}

func (s *FileStore) WriteFile(ctx context.Context, dir, name string, data []byte) error {
	return s.WriteFileFn(ctx, dir, name, data)
}
