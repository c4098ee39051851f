package scrape

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/temoto/robotstxt"
)

// robotsCache fetches robots.txt once per host.
type robotsCache struct {
	mu    sync.Mutex
	hosts map[string]*robotstxt.RobotsData
}

func newRobotsCache() *robotsCache {
	return &robotsCache{hosts: make(map[string]*robotstxt.RobotsData)}
}

// group returns the rules that apply to agent on the host of u. A robots.txt
// that cannot be fetched permits everything; a 5xx answer forbids everything.
func (c *robotsCache) group(ctx context.Context, client *http.Client, u *url.URL, agent string) *robotstxt.Group {
	key := u.Scheme + "://" + u.Host

	c.mu.Lock()
	data, ok := c.hosts[key]
	c.mu.Unlock()
	if !ok {
		data = fetchRobots(ctx, client, key, agent)
		c.mu.Lock()
		c.hosts[key] = data
		c.mu.Unlock()
	}
	return data.FindGroup(agent)
}

func fetchRobots(ctx context.Context, client *http.Client, origin, agent string) *robotstxt.RobotsData {
	allowAll, _ := robotstxt.FromStatusAndBytes(http.StatusNotFound, nil)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, origin+"/robots.txt", nil)
	if err != nil {
		return allowAll
	}
	req.Header.Set("User-Agent", agent)

	resp, err := client.Do(req)
	if err != nil {
		return allowAll
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 512*1024))
	if err != nil {
		return allowAll
	}
	data, err := robotstxt.FromStatusAndBytes(resp.StatusCode, body)
	if err != nil {
		return allowAll
	}
	return data
}

func crawlDelay(g *robotstxt.Group) time.Duration {
	if g == nil {
		return 0
	}
	return g.CrawlDelay
}
