// Package http provides the portal's HTTP session: a cookie-carrying client
// shared by every request of a run, with bounded retry of transient
// failures and client-side rate limiting.
package http

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/fwojciec/ceibadl"
	"golang.org/x/net/publicsuffix"
	"golang.org/x/time/rate"
)

// Defaults for Session.
const (
	DefaultTimeout       = 30 * time.Second
	DefaultRetries       = 2
	DefaultRetryInterval = 500 * time.Millisecond
	DefaultMaxInterval   = 4 * time.Second
	DefaultRateLimit     = 5.0 // requests per second
	DefaultUserAgent     = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0 Safari/537.36"
)

// Ensure Session implements ceibadl.Fetcher at compile time.
var _ ceibadl.Fetcher = (*Session)(nil)

// Session is an authenticated portal session. It is safe to share between
// the authenticator, the catalog and the downloader of one run.
type Session struct {
	client        *http.Client
	limiter       *rate.Limiter
	timeout       time.Duration
	retries       int
	retryInterval time.Duration
	maxInterval   time.Duration
	rps           float64
	userAgent     string
	logger        *slog.Logger
}

// Option configures a Session.
type Option func(*Session)

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(s *Session) {
		s.timeout = d
	}
}

// WithRetries sets how many times a transient failure is retried.
// Zero disables retrying.
func WithRetries(n int) Option {
	return func(s *Session) {
		s.retries = n
	}
}

// WithRetryInterval sets the first backoff delay. Later delays grow
// exponentially up to DefaultMaxInterval.
func WithRetryInterval(d time.Duration) Option {
	return func(s *Session) {
		s.retryInterval = d
	}
}

// WithRateLimit caps requests per second. Zero or negative disables limiting.
func WithRateLimit(rps float64) Option {
	return func(s *Session) {
		s.rps = rps
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(s *Session) {
		s.userAgent = ua
	}
}

// WithHTTPClient replaces the underlying client. A cookie jar is added if
// the client has none.
func WithHTTPClient(c *http.Client) Option {
	return func(s *Session) {
		s.client = c
	}
}

// WithLogger logs retry attempts at debug level.
func WithLogger(l *slog.Logger) Option {
	return func(s *Session) {
		s.logger = l
	}
}

// NewSession creates a new Session with an empty cookie jar.
func NewSession(opts ...Option) *Session {
	s := &Session{
		timeout:       DefaultTimeout,
		retries:       DefaultRetries,
		retryInterval: DefaultRetryInterval,
		maxInterval:   DefaultMaxInterval,
		rps:           DefaultRateLimit,
		userAgent:     DefaultUserAgent,
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.client == nil {
		s.client = &http.Client{Timeout: s.timeout}
	}
	if s.client.Jar == nil {
		// cookiejar.New never fails with a non-nil options value.
		jar, _ := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
		s.client.Jar = jar
	}

	if s.rps > 0 {
		s.limiter = rate.NewLimiter(rate.Limit(s.rps), 1)
	} else {
		s.limiter = rate.NewLimiter(rate.Inf, 0)
	}

	return s
}

// Cookies returns the cookies the session would send to rawURL.
func (s *Session) Cookies(rawURL string) []*http.Cookie {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil
	}
	return s.client.Jar.Cookies(u)
}

// Fetch issues a GET request. Network errors, 5xx and 429 responses are
// retried with exponential backoff; any other non-2xx status fails at once.
func (s *Session) Fetch(ctx context.Context, rawURL string) (*ceibadl.Response, error) {
	operation := func() (*ceibadl.Response, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
		if err != nil {
			return nil, backoff.Permanent(&ceibadl.FetchError{URL: rawURL, Err: err})
		}
		return s.do(ctx, req)
	}

	notify := func(err error, d time.Duration) {
		if s.logger != nil {
			s.logger.Debug("retry fetch", "url", rawURL, "delay", d, "err", err)
		}
	}

	resp, err := backoff.RetryNotifyWithData(operation, s.backoff(ctx), notify)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, err
	}
	return resp, nil
}

// PostForm submits a urlencoded form. Form submissions are not retried.
func (s *Session) PostForm(ctx context.Context, rawURL string, values url.Values) (*ceibadl.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, rawURL, strings.NewReader(values.Encode()))
	if err != nil {
		return nil, &ceibadl.FetchError{URL: rawURL, Err: err}
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := s.do(ctx, req)
	if err != nil {
		var perm *backoff.PermanentError
		if errors.As(err, &perm) {
			return nil, perm.Err
		}
		return nil, err
	}
	return resp, nil
}

// do performs one attempt. Errors that must not be retried are wrapped
// with backoff.Permanent.
func (s *Session) do(ctx context.Context, req *http.Request) (*ceibadl.Response, error) {
	rawURL := req.URL.String()

	if err := s.limiter.Wait(ctx); err != nil {
		return nil, backoff.Permanent(err)
	}

	req.Header.Set("User-Agent", s.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")

	resp, err := s.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, backoff.Permanent(ctx.Err())
		}
		return nil, &ceibadl.FetchError{URL: rawURL, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Drain so the connection can be reused.
		_, _ = io.Copy(io.Discard, resp.Body)
		fetchErr := &ceibadl.FetchError{
			URL:        rawURL,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("HTTP %d for %s", resp.StatusCode, rawURL),
		}
		if transientStatus(resp.StatusCode) {
			return nil, fetchErr
		}
		return nil, backoff.Permanent(fetchErr)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &ceibadl.FetchError{URL: rawURL, Err: err}
	}

	return &ceibadl.Response{
		URL:         resp.Request.URL.String(),
		StatusCode:  resp.StatusCode,
		ContentType: resp.Header.Get("Content-Type"),
		Body:        body,
	}, nil
}

func (s *Session) backoff(ctx context.Context) backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = s.retryInterval
	b.MaxInterval = s.maxInterval
	b.MaxElapsedTime = 0
	retries := s.retries
	if retries < 0 {
		retries = 0
	}
	return backoff.WithContext(backoff.WithMaxRetries(b, uint64(retries)), ctx)
}

func transientStatus(code int) bool {
	return code == http.StatusTooManyRequests || code >= 500
}
