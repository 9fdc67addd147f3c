package util

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/temoto/robotstxt"
)

// RobotsChecker answers whether the market host allows a path for our agent.
// Rules are fetched once per host and kept for the checker's lifetime.
type RobotsChecker struct {
	mu         sync.RWMutex
	hosts      map[string]*robotstxt.RobotsData
	httpClient *http.Client
	agent      string
}

// NewRobotsChecker creates a checker identifying as userAgent
func NewRobotsChecker(client *http.Client, userAgent string) *RobotsChecker {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &RobotsChecker{
		hosts:      make(map[string]*robotstxt.RobotsData),
		httpClient: client,
		agent:      ProductToken(userAgent),
	}
}

// Check reports whether rawURL may be fetched and the host's crawl delay.
// An unreachable robots.txt allows everything.
func (r *RobotsChecker) Check(ctx context.Context, rawURL string) (bool, time.Duration, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false, 0, fmt.Errorf("parse URL: %w", err)
	}

	data, err := r.rules(ctx, u)
	if err != nil {
		return true, 0, nil
	}

	var delay time.Duration
	if group := data.FindGroup(r.agent); group != nil {
		delay = group.CrawlDelay
	}
	return data.TestAgent(u.Path, r.agent), delay, nil
}

// Allowed is Check without the delay
func (r *RobotsChecker) Allowed(ctx context.Context, rawURL string) bool {
	ok, _, _ := r.Check(ctx, rawURL)
	return ok
}

func (r *RobotsChecker) rules(ctx context.Context, u *url.URL) (*robotstxt.RobotsData, error) {
	r.mu.RLock()
	data, ok := r.hosts[u.Host]
	r.mu.RUnlock()
	if ok {
		return data, nil
	}

	robotsURL := (&url.URL{Scheme: u.Scheme, Host: u.Host, Path: "/robots.txt"}).String()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, robotsURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", r.agent)

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch robots.txt: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err = robotstxt.FromResponse(resp)
	if err != nil {
		return nil, fmt.Errorf("parse robots.txt: %w", err)
	}

	r.mu.Lock()
	r.hosts[u.Host] = data
	r.mu.Unlock()
	return data, nil
}

// ProductToken reduces a user agent to the product name robots.txt groups match
func ProductToken(ua string) string {
	fields := strings.Fields(ua)
	if len(fields) == 0 {
		return ua
	}
	return strings.SplitN(fields[0], "/", 2)[0]
}
