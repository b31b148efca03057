package fetcher

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"os"
	"sync"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/sells-group/profile-cli/internal/resilience"
)

// HTTPOptions configures the HTTP fetcher.
type HTTPOptions struct {
	// UserAgent is sent with every request. SEC rejects requests without a
	// descriptive agent.
	UserAgent string
	Timeout   time.Duration
	// Retry controls retries of 429 and 5xx responses.
	Retry resilience.RetryConfig
	// HostRates overrides the requests per second allowed per host.
	HostRates map[string]float64
}

// DefaultHostRates returns the published rate limits of known hosts.
func DefaultHostRates() map[string]float64 {
	return map[string]float64{
		"www.sec.gov":                         10,
		"data.sec.gov":                        10,
		"efts.sec.gov":                        10,
		"sanctionslistservice.ofac.treas.gov": 5,
		"api.opencorporates.com":              2,
	}
}

// AdaptiveLimiter wraps a rate.Limiter that slows down after 429 responses
// and recovers on success, never exceeding twice or dropping below a
// quarter of its initial rate.
type AdaptiveLimiter struct {
	mu          sync.Mutex
	limiter     *rate.Limiter
	maxRate     rate.Limit
	minRate     rate.Limit
	currentRate rate.Limit
}

// NewAdaptiveLimiter creates an adaptive limiter.
func NewAdaptiveLimiter(initialRate rate.Limit, burst int) *AdaptiveLimiter {
	return &AdaptiveLimiter{
		limiter:     rate.NewLimiter(initialRate, burst),
		maxRate:     initialRate * 2,
		minRate:     initialRate / 4,
		currentRate: initialRate,
	}
}

// Wait blocks until the limiter allows an event.
func (a *AdaptiveLimiter) Wait(ctx context.Context) error {
	return a.limiter.Wait(ctx)
}

// OnSuccess raises the rate by 20%.
func (a *AdaptiveLimiter) OnSuccess() {
	a.setRate(func(r rate.Limit) rate.Limit { return r * 1.2 })
}

// OnRateLimit halves the rate.
func (a *AdaptiveLimiter) OnRateLimit() {
	a.setRate(func(r rate.Limit) rate.Limit { return r * 0.5 })
}

// Limit returns the current rate.
func (a *AdaptiveLimiter) Limit() rate.Limit {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.currentRate
}

func (a *AdaptiveLimiter) setRate(next func(rate.Limit) rate.Limit) {
	a.mu.Lock()
	defer a.mu.Unlock()
	r := min(max(next(a.currentRate), a.minRate), a.maxRate)
	a.currentRate = r
	a.limiter.SetLimit(r)
}

// HTTPFetcher implements Fetcher with per-host rate limiting and retries.
type HTTPFetcher struct {
	client *http.Client
	opts   HTTPOptions

	mu       sync.Mutex
	limiters map[string]*AdaptiveLimiter
}

// NewHTTPFetcher creates an HTTPFetcher.
func NewHTTPFetcher(opts HTTPOptions) *HTTPFetcher {
	if opts.Timeout == 0 {
		opts.Timeout = 60 * time.Second
	}
	if opts.UserAgent == "" {
		opts.UserAgent = "profile-cli/1.0"
	}
	if opts.Retry.MaxAttempts == 0 {
		opts.Retry = resilience.DefaultRetryConfig()
	}
	rates := DefaultHostRates()
	for host, rps := range opts.HostRates {
		rates[host] = rps
	}

	limiters := make(map[string]*AdaptiveLimiter, len(rates))
	for host, rps := range rates {
		limiters[host] = NewAdaptiveLimiter(rate.Limit(rps), max(1, int(rps)))
	}

	return &HTTPFetcher{
		client: &http.Client{
			Timeout: opts.Timeout,
			Transport: &http.Transport{
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		opts:     opts,
		limiters: limiters,
	}
}

// limiterFor returns the limiter for the URL's host, creating a default
// 20 rps limiter for unknown hosts.
func (f *HTTPFetcher) limiterFor(rawURL string) *AdaptiveLimiter {
	host := ""
	if u, err := url.Parse(rawURL); err == nil {
		host = u.Host
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	lim, ok := f.limiters[host]
	if !ok {
		lim = NewAdaptiveLimiter(20, 20)
		f.limiters[host] = lim
	}
	return lim
}

// Download fetches the URL and returns the response body. 429 and 5xx
// responses are retried with backoff.
func (f *HTTPFetcher) Download(ctx context.Context, rawURL string) (io.ReadCloser, error) {
	lim := f.limiterFor(rawURL)

	retry := f.opts.Retry
	retry.OnRetry = func(attempt int, err error) {
		zap.L().Warn("fetcher: retrying download",
			zap.String("url", rawURL),
			zap.Int("attempt", attempt),
			zap.Error(err),
		)
	}

	return resilience.DoVal(ctx, retry, func(ctx context.Context) (io.ReadCloser, error) {
		if err := lim.Wait(ctx); err != nil {
			return nil, eris.Wrap(err, "fetcher: rate limiter wait")
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
		if err != nil {
			return nil, eris.Wrap(err, "fetcher: create request")
		}
		req.Header.Set("User-Agent", f.opts.UserAgent)

		resp, err := f.client.Do(req)
		if err != nil {
			return nil, eris.Wrap(err, "fetcher: download")
		}

		switch {
		case resp.StatusCode == http.StatusOK:
			lim.OnSuccess()
			return resp.Body, nil
		case resp.StatusCode == http.StatusTooManyRequests:
			lim.OnRateLimit()
			fallthrough
		case resilience.IsTransientHTTPStatus(resp.StatusCode):
			_ = resp.Body.Close()
			return nil, resilience.NewTransientError(
				eris.Errorf("fetcher: unexpected status %d from %s", resp.StatusCode, rawURL), resp.StatusCode)
		default:
			_ = resp.Body.Close()
			return nil, eris.Errorf("fetcher: unexpected status %d from %s", resp.StatusCode, rawURL)
		}
	})
}

// DownloadToFile fetches the URL and writes it to path.
func (f *HTTPFetcher) DownloadToFile(ctx context.Context, rawURL string, path string) (int64, error) {
	body, err := f.Download(ctx, rawURL)
	if err != nil {
		return 0, err
	}
	defer body.Close() //nolint:errcheck

	file, err := os.Create(path)
	if err != nil {
		return 0, eris.Wrap(err, "fetcher: create file")
	}
	defer file.Close() //nolint:errcheck

	n, err := io.Copy(file, body)
	if err != nil {
		return n, eris.Wrap(err, "fetcher: write file")
	}
	return n, nil
}
