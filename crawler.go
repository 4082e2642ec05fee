package ceibadl

import "context"

// CrawlMode selects how a fetched resource is persisted.
type CrawlMode int

const (
	// ModePlain writes the raw response bytes verbatim.
	ModePlain CrawlMode = iota
	// ModeTable decodes the response as text and writes it as UTF-8.
	ModeTable
	// ModeStatic writes an asset under the last path segment of its URL
	// when the target has no filename.
	ModeStatic
)

func (m CrawlMode) String() string {
	switch m {
	case ModePlain:
		return "plain"
	case ModeTable:
		return "table"
	case ModeStatic:
		return "static"
	}
	return "unknown"
}

// Target is one resource to materialize on disk.
type Target struct {
	URL      string
	Dir      string
	Filename string
}

// AssetRef is a mutable reference to a linked asset found in a page.
// The static-asset pass rewrites Href to the local file name.
type AssetRef struct {
	Href string
}

// AssetOutcome reports what happened to one asset reference.
type AssetOutcome struct {
	URL      string // resolved absolute URL
	Filename string // local file name, empty on failure
	Err      error
}

// PageCrawler materializes remote resources as local files.
type PageCrawler interface {
	// Crawl fetches target.URL and persists it according to mode.
	Crawl(ctx context.Context, target Target, mode CrawlMode) error

	// Save persists an already fetched response according to mode.
	Save(ctx context.Context, target Target, mode CrawlMode, resp *Response) error

	// CrawlAssets resolves each reference against pageURL, downloads it
	// into dir and rewrites its Href to the local file name. A failing
	// asset does not stop the remaining ones.
	CrawlAssets(ctx context.Context, pageURL, dir string, refs []*AssetRef) []AssetOutcome
}

// FileStore persists mirrored files.
type FileStore interface {
	// EnsureDir creates dir and any parents. An existing directory is not an error.
	EnsureDir(dir string) error

	// WriteFile replaces dir/name with data.
	WriteFile(ctx context.Context, dir, name string, data []byte) error
}
