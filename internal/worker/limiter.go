package worker

import (
	"context"
	"fmt"
	"net/url"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Limiter spaces requests per host. The market allows a few requests per
// second; robots.txt may slow a host further.
type Limiter struct {
	mu      sync.Mutex
	hosts   map[string]*rate.Limiter
	perHost rate.Limit
	burst   int
}

// NewLimiter creates a limiter allowing requestsPerSecond per host
func NewLimiter(requestsPerSecond float64, burst int) *Limiter {
	if burst <= 0 {
		burst = 1
	}
	limit := rate.Limit(requestsPerSecond)
	if requestsPerSecond <= 0 {
		limit = rate.Inf
	}
	return &Limiter{
		hosts:   make(map[string]*rate.Limiter),
		perHost: limit,
		burst:   burst,
	}
}

// Wait blocks until a request to rawURL may proceed
func (l *Limiter) Wait(ctx context.Context, rawURL string) error {
	host, err := hostOf(rawURL)
	if err != nil {
		return err
	}
	return l.forHost(host).Wait(ctx)
}

// Allow reports whether a request may proceed now, consuming a token if so
func (l *Limiter) Allow(rawURL string) bool {
	host, err := hostOf(rawURL)
	if err != nil {
		return false
	}
	return l.forHost(host).Allow()
}

// SlowHost lowers a host's rate to one request per delay when that is
// stricter than the configured rate
func (l *Limiter) SlowHost(host string, delay time.Duration) {
	if delay <= 0 {
		return
	}
	limit := rate.Every(delay)

	l.mu.Lock()
	defer l.mu.Unlock()
	if limit < l.perHost {
		l.hosts[host] = rate.NewLimiter(limit, 1)
	}
}

func (l *Limiter) forHost(host string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	lim, ok := l.hosts[host]
	if !ok {
		lim = rate.NewLimiter(l.perHost, l.burst)
		l.hosts[host] = lim
	}
	return lim
}

func hostOf(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("parse URL: %w", err)
	}
	return u.Host, nil
}
