package pipeline

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

func noFetchSleep(t *testing.T) *[]time.Duration {
	t.Helper()
	var slept []time.Duration
	orig := fetchSleepFunc
	fetchSleepFunc = func(d time.Duration) { slept = append(slept, d) }
	t.Cleanup(func() { fetchSleepFunc = orig })
	return &slept
}

func TestFetchWithRetry_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		_, _ = fmt.Fprint(w, "PNGDATA")
	}))
	defer server.Close()

	fetcher := NewFetcher(5*time.Second, "test-agent", 1<<20, "")
	result, err := fetcher.FetchWithRetry(context.Background(), server.URL+"/shots/lenz.png")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if string(result.Data) != "PNGDATA" || result.Name != "lenz.png" {
		t.Errorf("Unexpected result: %+v", result)
	}
}

func TestFetchWithRetry_TransientThenSuccess(t *testing.T) {
	var attempts atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if attempts.Add(1) <= 2 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "image/jpeg")
		_, _ = fmt.Fprint(w, "JPEG")
	}))
	defer server.Close()

	slept := noFetchSleep(t)

	fetcher := NewFetcher(5*time.Second, "test-agent", 1<<20, "")
	if _, err := fetcher.FetchWithRetry(context.Background(), server.URL); err != nil {
		t.Fatalf("Expected success after retries, got %v", err)
	}
	if attempts.Load() != 3 {
		t.Errorf("Expected 3 attempts, got %d", attempts.Load())
	}
	if len(*slept) != 2 || (*slept)[0] != time.Second || (*slept)[1] != 2*time.Second {
		t.Errorf("Expected 1s then 2s backoff, got %v", *slept)
	}
}

func TestFetchWithRetry_PermanentFailure(t *testing.T) {
	var attempts atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts.Add(1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	noFetchSleep(t)

	fetcher := NewFetcher(5*time.Second, "test-agent", 1<<20, "")
	if _, err := fetcher.FetchWithRetry(context.Background(), server.URL); err == nil {
		t.Fatal("Expected error for 404")
	}
	if attempts.Load() != 1 {
		t.Errorf("Expected 1 attempt for permanent failure, got %d", attempts.Load())
	}
}

func TestFetchWithRetry_AllRetriesExhausted(t *testing.T) {
	var attempts atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts.Add(1)
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	noFetchSleep(t)

	fetcher := NewFetcher(5*time.Second, "test-agent", 1<<20, "")
	_, err := fetcher.FetchWithRetry(context.Background(), server.URL)
	if err == nil || !strings.Contains(err.Error(), "after 3 attempts") {
		t.Fatalf("Expected exhausted-retries error, got %v", err)
	}
	if attempts.Load() != 3 {
		t.Errorf("Expected 3 attempts, got %d", attempts.Load())
	}
}

func TestFetch_RejectsNonImage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = fmt.Fprint(w, "<html></html>")
	}))
	defer server.Close()

	if _, err := NewFetcher(5*time.Second, "ua", 1<<20, "").Fetch(context.Background(), server.URL); err == nil {
		t.Error("Expected error for HTML response")
	}
}

func TestFetch_SizeLimit(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		_, _ = fmt.Fprint(w, strings.Repeat("x", 64))
	}))
	defer server.Close()

	if _, err := NewFetcher(5*time.Second, "ua", 32, "").Fetch(context.Background(), server.URL); err == nil {
		t.Error("Expected error for oversized image")
	}
}

func TestIsRetryableFetchError(t *testing.T) {
	tests := []struct {
		err  error
		want bool
	}{
		{&statusError{code: 503}, true},
		{&statusError{code: 429}, true},
		{&statusError{code: 404}, false},
		{fmt.Errorf("fetch: %w", &statusError{code: 502}), true},
		{errors.New("dial tcp: connection refused"), true},
		{errors.New("not an image: text/html"), false},
		{nil, false},
	}
	for _, tt := range tests {
		if got := isRetryableFetchError(tt.err); got != tt.want {
			t.Errorf("isRetryableFetchError(%v) = %v, expected %v", tt.err, got, tt.want)
		}
	}
}

func TestIsURL(t *testing.T) {
	if !IsURL("https://example.com/a.png") || IsURL("shots/a.png") || IsURL("-") {
		t.Error("Unexpected IsURL results")
	}
}
