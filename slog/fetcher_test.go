package slog_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/fwojciec/ceibadl"
	"github.com/fwojciec/ceibadl/mock"
	ceibaslog "github.com/fwojciec/ceibadl/slog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDebugLogger(buf *bytes.Buffer) *slog.Logger {
	return slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func TestLoggingFetcher_Fetch(t *testing.T) {
	t.Parallel()

	t.Run("logs fetch with bytes and duration", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		inner := &mock.Fetcher{
			FetchFn: func(ctx context.Context, url string) (*ceibadl.Response, error) {
				return &ceibadl.Response{URL: url, Body: []byte("<html>content</html>")}, nil
			},
		}

		fetcher := ceibaslog.NewLoggingFetcher(inner, newDebugLogger(&buf))
		resp, err := fetcher.Fetch(context.Background(), "https://ceiba.ntu.edu.tw/modules/index.php")

		require.NoError(t, err)
		assert.Equal(t, "<html>content</html>", string(resp.Body))
		output := buf.String()
		assert.Contains(t, output, "fetch")
		assert.Contains(t, output, "url=https://ceiba.ntu.edu.tw/modules/index.php")
		assert.Contains(t, output, "bytes=20")
		assert.Contains(t, output, "duration=")
	})

	t.Run("logs error on failure", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		inner := &mock.Fetcher{
			FetchFn: func(ctx context.Context, url string) (*ceibadl.Response, error) {
				return nil, errors.New("network error")
			},
		}

		fetcher := ceibaslog.NewLoggingFetcher(inner, newDebugLogger(&buf))
		_, err := fetcher.Fetch(context.Background(), "https://ceiba.ntu.edu.tw/")

		require.Error(t, err)
		output := buf.String()
		assert.Contains(t, output, "bytes=0")
		assert.Contains(t, output, "err=\"network error\"")
	})

	t.Run("is silent above debug level", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		inner := &mock.Fetcher{
			FetchFn: func(ctx context.Context, url string) (*ceibadl.Response, error) {
				return &ceibadl.Response{}, nil
			},
		}

		fetcher := ceibaslog.NewLoggingFetcher(inner, slog.New(slog.NewTextHandler(&buf, nil)))
		_, err := fetcher.Fetch(context.Background(), "https://ceiba.ntu.edu.tw/")

		require.NoError(t, err)
		assert.Empty(t, buf.String())
	})
}
