package pipeline

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/ppiankov/ducky/internal/cache"
	"github.com/ppiankov/ducky/internal/util"
	"github.com/ppiankov/ducky/internal/worker"
	"go.uber.org/zap"
)

var (
	// ErrEmptyBody is returned when the service answers with no content
	ErrEmptyBody = errors.New("empty response body")
	// ErrRobotsDisallowed is returned when robots.txt forbids the request
	ErrRobotsDisallowed = errors.New("disallowed by robots.txt")
)

// fetchSleepFunc waits out a retry backoff; it is swapped out in tests
var fetchSleepFunc = sleepContext

const (
	defaultFetchAttempts = 3
	fetchBackoff         = 500 * time.Millisecond
)

// Fetcher performs GET requests against the knowledge service
type Fetcher struct {
	httpClient  *http.Client
	userAgent   string
	maxBytes    int64
	maxAttempts int
	limiter     *worker.Limiter
	cache       cache.Cache
	refresh     bool
	robots      *util.RobotsChecker
	log         *zap.Logger
}

// NewFetcher creates a new Fetcher with the given configuration
func NewFetcher(timeout time.Duration, userAgent string, maxBytes int64, insecureTLS bool, httpProxy, httpsProxy, noProxy string) *Fetcher {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.Proxy = util.NewProxyFunc(httpProxy, httpsProxy, noProxy)
	if insecureTLS {
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true} //nolint:gosec // opt-in via http.insecure_tls
	}

	return &Fetcher{
		httpClient: &http.Client{
			Timeout:   timeout,
			Transport: transport,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 3 {
					return fmt.Errorf("stopped after 3 redirects")
				}
				return nil
			},
		},
		userAgent:   userAgent,
		maxBytes:    maxBytes,
		maxAttempts: defaultFetchAttempts,
		log:         zap.NewNop(),
	}
}

// WithLimiter paces requests per host
func (f *Fetcher) WithLimiter(l *worker.Limiter) *Fetcher {
	f.limiter = l
	return f
}

// WithCache serves repeated requests from c
func (f *Fetcher) WithCache(c cache.Cache) *Fetcher {
	f.cache = c
	return f
}

// WithRefresh drops any cached response before fetching it again
func (f *Fetcher) WithRefresh(refresh bool) *Fetcher {
	f.refresh = refresh
	return f
}

// WithRobots checks robots.txt before each uncached request
func (f *Fetcher) WithRobots(r *util.RobotsChecker) *Fetcher {
	f.robots = r
	return f
}

// WithLogger sets the logger
func (f *Fetcher) WithLogger(log *zap.Logger) *Fetcher {
	if log != nil {
		f.log = log
	}
	return f
}

// WithMaxAttempts sets how often a transient failure is tried
func (f *Fetcher) WithMaxAttempts(n int) *Fetcher {
	if n > 0 {
		f.maxAttempts = n
	}
	return f
}

// HTTPClient returns the underlying client so helpers can share its transport
func (f *Fetcher) HTTPClient() *http.Client {
	return f.httpClient
}

// Get returns the body at rawURL, consulting robots.txt, the cache and the
// rate limiter around FetchWithRetry
func (f *Fetcher) Get(ctx context.Context, rawURL string) ([]byte, error) {
	key := cache.Key(rawURL)
	switch {
	case f.cache == nil:
	case f.refresh:
		if err := f.cache.Delete(key); err != nil {
			f.log.Warn("cache delete failed", zap.String("url", rawURL), zap.Error(err))
		}
	default:
		if body, found := f.cache.Get(key); found {
			f.log.Debug("cache hit", zap.String("url", rawURL))
			return body, nil
		}
	}

	var crawlDelay time.Duration
	if f.robots != nil {
		allowed, delay, err := f.robots.CanFetch(ctx, rawURL)
		if err != nil {
			return nil, fmt.Errorf("check robots: %w", err)
		}
		if !allowed {
			return nil, fmt.Errorf("%s: %w", rawURL, ErrRobotsDisallowed)
		}
		crawlDelay = delay
	}

	if f.limiter != nil {
		if err := f.limiter.WaitWithDelay(ctx, rawURL, crawlDelay); err != nil {
			return nil, fmt.Errorf("rate limit: %w", err)
		}
	}

	body, err := f.FetchWithRetry(ctx, rawURL)
	if err != nil {
		return nil, err
	}
	if len(strings.TrimSpace(string(body))) == 0 {
		return nil, ErrEmptyBody
	}

	if f.cache != nil {
		if err := f.cache.Set(key, body, 0); err != nil {
			f.log.Warn("cache write failed", zap.String("url", rawURL), zap.Error(err))
		}
	}

	return body, nil
}

// FetchWithRetry fetches rawURL, retrying transient failures with
// exponential backoff
func (f *Fetcher) FetchWithRetry(ctx context.Context, rawURL string) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt < f.maxAttempts; attempt++ {
		if attempt > 0 {
			backoff := fetchBackoff * time.Duration(1<<(attempt-1))
			f.log.Debug("retrying fetch",
				zap.String("url", rawURL),
				zap.Int("attempt", attempt+1),
				zap.Duration("backoff", backoff),
				zap.Error(lastErr),
			)
			if err := fetchSleepFunc(ctx, backoff); err != nil {
				return nil, fmt.Errorf("retry backoff: %w", err)
			}
		}

		body, err := f.Fetch(ctx, rawURL)
		if err == nil {
			return body, nil
		}
		lastErr = err

		if ctx.Err() != nil || !isRetryableFetchError(err) {
			return nil, err
		}
	}
	return nil, fmt.Errorf("after %d attempts: %w", f.maxAttempts, lastErr)
}

// Fetch performs a single GET request and returns the body
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "application/xml,text/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("unexpected status: %d %s", resp.StatusCode, resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBytes))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	return body, nil
}

// sleepContext waits for d or until ctx is done
func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// isRetryableFetchError reports whether err is worth another attempt:
// network failures, 429 and 5xx responses
func isRetryableFetchError(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	if strings.HasPrefix(msg, "fetch: ") {
		return true
	}

	var code int
	if _, scanErr := fmt.Sscanf(msg, "unexpected status: %d", &code); scanErr == nil {
		return code == http.StatusTooManyRequests || code >= 500
	}
	return false
}
