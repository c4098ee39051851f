// Package scrape collects property listings from a paginated search site,
// one request at a time with a randomized delay between requests.
package scrape

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"net"
	"net/http"
	"net/url"
	"sync"
	"time"

	"go.uber.org/zap"

	apperrors "retailkpi/pkg/errors"
)

// DefaultUserAgent mimics a desktop browser.
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// Client performs polite GET requests.
type Client struct {
	HTTP      *http.Client
	UserAgent string
	MinDelay  time.Duration
	MaxDelay  time.Duration
	Retry     *apperrors.RetryConfig
	// Robots enables robots.txt checks and crawl-delay.
	Robots bool
	Logger *zap.Logger

	// Sleep waits between requests; replaced in tests.
	Sleep func(ctx context.Context, d time.Duration) error

	mu     sync.Mutex
	rng    *rand.Rand
	robots *robotsCache
}

// NewClient returns a client with the given HTTP timeout.
func NewClient(timeout time.Duration, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		HTTP:      &http.Client{Timeout: timeout},
		UserAgent: DefaultUserAgent,
		MinDelay:  time.Second,
		MaxDelay:  3 * time.Second,
		Retry:     apperrors.DefaultRetryConfig(),
		Robots:    true,
		Logger:    logger,
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (c *Client) delay() time.Duration {
	if c.MaxDelay <= c.MinDelay {
		return c.MinDelay
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.rng == nil {
		c.rng = rand.New(rand.NewSource(time.Now().UnixNano())) // #nosec G404 - jitter only
	}
	return c.MinDelay + time.Duration(c.rng.Int63n(int64(c.MaxDelay-c.MinDelay)))
}

func (c *Client) logger() *zap.Logger {
	if c.Logger == nil {
		return zap.NewNop()
	}
	return c.Logger
}

// Get fetches rawURL. It waits a randomized delay first, honors robots.txt
// when enabled, and retries rate limiting, server and network failures.
func (c *Client) Get(ctx context.Context, rawURL string) ([]byte, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeUserInput, "invalid URL").WithContext("url", rawURL)
	}
	if c.HTTP == nil {
		c.HTTP = http.DefaultClient
	}
	sleep := c.Sleep
	if sleep == nil {
		sleep = sleepContext
	}

	wait := c.delay()
	if c.Robots {
		c.mu.Lock()
		if c.robots == nil {
			c.robots = newRobotsCache()
		}
		cache := c.robots
		c.mu.Unlock()

		group := cache.group(ctx, c.HTTP, u, c.UserAgent)
		if group != nil && !group.Test(u.RequestURI()) {
			return nil, apperrors.New(apperrors.ErrCodeRobotsDenied, "robots.txt disallows this path").
				WithContext("url", rawURL).
				WithSuggestions("Set scrape.respect_robots to false only if you have permission to crawl the site")
		}
		if d := crawlDelay(group); d > wait {
			wait = d
		}
	}

	if err := sleep(ctx, wait); err != nil {
		return nil, err
	}

	retry := c.Retry
	if retry == nil {
		retry = apperrors.DefaultRetryConfig()
	}
	cfg := *retry
	cfg.OnRetry = func(attempt int, err error, d time.Duration) {
		c.logger().Warn("retrying request",
			zap.String("url", rawURL),
			zap.Int("attempt", attempt),
			zap.Duration("backoff", d),
			zap.Error(err))
	}

	var body []byte
	err = apperrors.Retry(ctx, &cfg, func(ctx context.Context) error {
		b, err := c.do(ctx, rawURL)
		if err != nil {
			return err
		}
		body = b
		return nil
	})
	if err != nil {
		return nil, err
	}
	return body, nil
}

func (c *Client) do(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeUserInput, "invalid request").WithContext("url", rawURL)
	}
	req.Header.Set("User-Agent", c.UserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "es-CL,es;q=0.9,en;q=0.8")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		var ne net.Error
		if errors.As(err, &ne) && ne.Timeout() {
			return nil, apperrors.Wrap(err, apperrors.ErrCodeTimeout, "request timed out").WithContext("url", rawURL)
		}
		return nil, apperrors.Wrap(err, apperrors.ErrCodeNetwork, "request failed").WithContext("url", rawURL)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
	case resp.StatusCode == http.StatusForbidden:
		return nil, apperrors.New(apperrors.ErrCodeBlocked, "access denied by the site").
			WithContext("url", rawURL).
			WithContext("status", resp.StatusCode)
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, apperrors.New(apperrors.ErrCodeRateLimited, "rate limited").
			WithContext("url", rawURL).
			WithContext("status", resp.StatusCode)
	case resp.StatusCode >= 500:
		return nil, apperrors.Newf(apperrors.ErrCodeServerFailure, "server returned status %d", resp.StatusCode).
			WithContext("url", rawURL).
			WithContext("status", resp.StatusCode)
	default:
		return nil, apperrors.Newf(apperrors.ErrCodeHTTPStatus, "unexpected status %d", resp.StatusCode).
			WithContext("url", rawURL).
			WithContext("status", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeNetwork, fmt.Sprintf("failed to read %s", rawURL)).AsRecoverable()
	}
	return body, nil
}
