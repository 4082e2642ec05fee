package crawl_test

import (
	"context"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/fwojciec/ceibadl"
	"github.com/fwojciec/ceibadl/crawl"
	"github.com/fwojciec/ceibadl/fs"
	"github.com/fwojciec/ceibadl/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// staticFetcher serves fixed bodies by URL and answers 404 for anything else.
func staticFetcher(bodies map[string]string) *mock.Fetcher {
	var mu sync.Mutex
	return &mock.Fetcher{
		FetchFn: func(_ context.Context, url string) (*ceibadl.Response, error) {
			mu.Lock()
			defer mu.Unlock()
			body, ok := bodies[url]
			if !ok {
				return nil, &ceibadl.FetchError{URL: url, StatusCode: http.StatusNotFound}
			}
			return &ceibadl.Response{URL: url, StatusCode: http.StatusOK, Body: []byte(body)}, nil
		},
	}
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	b, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(b)
}

func TestCrawler_Save(t *testing.T) {
	t.Parallel()

	t.Run("plain mode writes bytes verbatim", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		c := &crawl.Crawler{Store: fs.NewStore()}
		body := []byte{0x00, 0xff, 'b', 'a', 'n', 'n', 'e', 'r'}

		err := c.Save(context.Background(),
			ceibadl.Target{URL: "https://ceiba.ntu.edu.tw/modules/banner.php", Dir: dir, Filename: "banner.html"},
			ceibadl.ModePlain,
			&ceibadl.Response{Body: body})

		require.NoError(t, err)
		assert.Equal(t, string(body), readFile(t, filepath.Join(dir, "banner.html")))
	})

	t.Run("table mode keeps UTF-8 unchanged", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		c := &crawl.Crawler{Store: fs.NewStore()}
		body := "<table><tr><td>期中考公告</td></tr></table>"

		err := c.Save(context.Background(),
			ceibadl.Target{URL: "https://ceiba.ntu.edu.tw/modules/index.php", Dir: dir, Filename: "bulletin.html"},
			ceibadl.ModeTable,
			&ceibadl.Response{ContentType: "text/html; charset=utf-8", Body: []byte(body)})

		require.NoError(t, err)
		assert.Equal(t, body, readFile(t, filepath.Join(dir, "bulletin.html")))
	})

	t.Run("table mode transcodes legacy charsets to UTF-8", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		c := &crawl.Crawler{Store: fs.NewStore()}

		err := c.Save(context.Background(),
			ceibadl.Target{URL: "https://ceiba.ntu.edu.tw/modules/index.php", Dir: dir, Filename: "info.html"},
			ceibadl.ModeTable,
			&ceibadl.Response{ContentType: "text/html; charset=iso-8859-1", Body: []byte{'c', 'a', 'f', 0xe9}})

		require.NoError(t, err)
		assert.Equal(t, "café", readFile(t, filepath.Join(dir, "info.html")))
	})

	t.Run("static mode names file after the URL", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		c := &crawl.Crawler{Store: fs.NewStore()}

		err := c.Save(context.Background(),
			ceibadl.Target{URL: "https://ceiba.ntu.edu.tw/modules/css/button.css?v=2", Dir: dir},
			ceibadl.ModeStatic,
			&ceibadl.Response{Body: []byte("a{}")})

		require.NoError(t, err)
		assert.Equal(t, "a{}", readFile(t, filepath.Join(dir, "button.css")))
	})

	t.Run("plain mode requires a file name", func(t *testing.T) {
		t.Parallel()

		c := &crawl.Crawler{Store: fs.NewStore()}

		err := c.Save(context.Background(),
			ceibadl.Target{URL: "https://ceiba.ntu.edu.tw/x", Dir: t.TempDir()},
			ceibadl.ModePlain,
			&ceibadl.Response{Body: []byte("x")})

		require.Error(t, err)
		assert.Equal(t, ceibadl.EINVALID, ceibadl.ErrorCode(err))
	})
}

func TestCrawler_Crawl(t *testing.T) {
	t.Parallel()

	t.Run("returns fetch error without writing", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		c := &crawl.Crawler{Fetcher: staticFetcher(nil), Store: fs.NewStore()}

		err := c.Crawl(context.Background(),
			ceibadl.Target{URL: "https://ceiba.ntu.edu.tw/missing", Dir: dir, Filename: "x.html"},
			ceibadl.ModePlain)

		var fetchErr *ceibadl.FetchError
		require.ErrorAs(t, err, &fetchErr)
		assert.Equal(t, http.StatusNotFound, fetchErr.StatusCode)
		_, statErr := os.Stat(filepath.Join(dir, "x.html"))
		assert.True(t, os.IsNotExist(statErr))
	})
}

func TestCrawler_CrawlAssets(t *testing.T) {
	t.Parallel()

	const pageURL = "https://ceiba.ntu.edu.tw/modules/button.php?csn=abc123"

	t.Run("rewrites hrefs to local names and keeps going after a failure", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		c := &crawl.Crawler{
			Fetcher: staticFetcher(map[string]string{
				"https://ceiba.ntu.edu.tw/css/ceiba.css":         "body{}",
				"https://ceiba.ntu.edu.tw/modules/css/button.css": "a{}",
			}),
			Store: fs.NewStore(),
		}
		refs := []*ceibadl.AssetRef{
			{Href: "/missing/gone.css"},
			{Href: "../css/ceiba.css"},
			{Href: "css/button.css"},
		}

		outcomes := c.CrawlAssets(context.Background(), pageURL, dir, refs)

		require.Len(t, outcomes, 3)
		require.Error(t, outcomes[0].Err)
		assert.Equal(t, "https://ceiba.ntu.edu.tw/missing/gone.css", refs[0].Href)
		assert.Empty(t, outcomes[0].Filename)

		require.NoError(t, outcomes[1].Err)
		assert.Equal(t, "ceiba.css", refs[1].Href)
		assert.Equal(t, "body{}", readFile(t, filepath.Join(dir, "ceiba.css")))

		require.NoError(t, outcomes[2].Err)
		assert.Equal(t, "button.css", refs[2].Href)
		assert.Equal(t, "https://ceiba.ntu.edu.tw/modules/css/button.css", outcomes[2].URL)
	})

	t.Run("every local href points at an existing file", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		c := &crawl.Crawler{
			Fetcher: staticFetcher(map[string]string{"https://ceiba.ntu.edu.tw/a.css": "x"}),
			Store:   fs.NewStore(),
		}
		refs := []*ceibadl.AssetRef{{Href: "/a.css"}, {Href: "/b.css"}}

		c.CrawlAssets(context.Background(), pageURL, dir, refs)

		for _, ref := range refs {
			if strings.Contains(ref.Href, "://") {
				continue
			}
			_, err := os.Stat(filepath.Join(dir, ref.Href))
			assert.NoError(t, err, ref.Href)
		}
	})

	t.Run("repeated runs overwrite the same files", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		c := &crawl.Crawler{
			Fetcher: staticFetcher(map[string]string{"https://ceiba.ntu.edu.tw/modules/css/button.css": "a{}"}),
			Store:   fs.NewStore(),
		}

		for range 2 {
			refs := []*ceibadl.AssetRef{{Href: "css/button.css"}}
			c.CrawlAssets(context.Background(), pageURL, dir, refs)
			assert.Equal(t, "button.css", refs[0].Href)
		}

		entries, err := os.ReadDir(dir)
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, "a{}", readFile(t, filepath.Join(dir, "button.css")))
	})
}
