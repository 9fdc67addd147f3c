package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/ppiankov/rivenscan/internal/util"
)

// fetchSleepFunc is the sleep used between retries (injectable for tests)
var fetchSleepFunc = time.Sleep

const fetchMaxAttempts = 3

// Fetcher downloads screenshots given as http(s) URLs
type Fetcher struct {
	httpClient *http.Client
	userAgent  string
	maxBytes   int64
}

// NewFetcher creates a fetcher with a proxy-aware client
func NewFetcher(timeout time.Duration, userAgent string, maxBytes int64, proxy string) *Fetcher {
	return &Fetcher{
		httpClient: util.NewHTTPClient(timeout, proxy, ""),
		userAgent:  userAgent,
		maxBytes:   maxBytes,
	}
}

// FetchResult is a downloaded image
type FetchResult struct {
	Data        []byte
	ContentType string
	Name        string
	FinalURL    string
}

type statusError struct {
	code int
}

func (e *statusError) Error() string {
	return fmt.Sprintf("unexpected status: %d %s", e.code, http.StatusText(e.code))
}

// IsURL reports whether input names an http(s) resource
func IsURL(input string) bool {
	return strings.HasPrefix(input, "http://") || strings.HasPrefix(input, "https://")
}

// Fetch downloads rawURL once
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (*FetchResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "image/png,image/jpeg,image/*;q=0.9")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &statusError{code: resp.StatusCode}
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType != "" && !strings.HasPrefix(contentType, "image/") && !strings.HasPrefix(contentType, "application/octet-stream") {
		return nil, fmt.Errorf("not an image: %s", contentType)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	if int64(len(body)) > f.maxBytes {
		return nil, fmt.Errorf("image exceeds %d bytes", f.maxBytes)
	}

	finalURL := resp.Request.URL.String()
	return &FetchResult{
		Data:        body,
		ContentType: contentType,
		Name:        sourceName(finalURL),
		FinalURL:    finalURL,
	}, nil
}

// FetchWithRetry retries transient failures with exponential backoff
func (f *Fetcher) FetchWithRetry(ctx context.Context, rawURL string) (*FetchResult, error) {
	var lastErr error
	for attempt := 0; attempt < fetchMaxAttempts; attempt++ {
		if attempt > 0 {
			fetchSleepFunc(time.Duration(1<<(attempt-1)) * time.Second)
		}
		result, err := f.Fetch(ctx, rawURL)
		if err == nil {
			return result, nil
		}
		lastErr = err
		if !isRetryableFetchError(err) || ctx.Err() != nil {
			return nil, err
		}
	}
	return nil, fmt.Errorf("after %d attempts: %w", fetchMaxAttempts, lastErr)
}

func isRetryableFetchError(err error) bool {
	if err == nil {
		return false
	}
	var se *statusError
	if errors.As(err, &se) {
		return se.code == http.StatusTooManyRequests || se.code >= 500
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "connection refused") || strings.Contains(msg, "connection reset")
}

// sourceName returns the last path segment of rawURL, or its host
func sourceName(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	p := strings.Trim(parsed.Path, "/")
	if p == "" {
		return parsed.Host
	}
	return path.Base(p)
}
