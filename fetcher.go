package ceibadl

import "context"

// Response is a fetched portal resource.
type Response struct {
	// URL is the final URL after following redirects.
	URL         string
	StatusCode  int
	ContentType string
	Body        []byte
}

// Fetcher retrieves resources through the shared, authenticated session.
type Fetcher interface {
	// Fetch issues a GET request for url. Transient failures are retried
	// internally; a *FetchError is returned once they are exhausted or on
	// any non-recoverable status.
	Fetch(ctx context.Context, url string) (*Response, error)
}
