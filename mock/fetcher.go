package mock

import (
	"context"

	"github.com/fwojciec/ceibadl"
)

var _ ceibadl.Fetcher = (*Fetcher)(nil)

// Fetcher is a mock implementation of ceibadl.Fetcher.
type Fetcher struct {
	FetchFn func(ctx context.Context, url string) (*ceibadl.Response, error)
}

func (f *Fetcher) Fetch(ctx context.Context, url string) (*ceibadl.Response, error) {
	return f.FetchFn(ctx, url)
}
