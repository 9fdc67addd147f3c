package worker

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/ppiankov/rivenscan/internal/model"
	"github.com/rs/zerolog"
)

type fakeSearcher struct {
	mu      sync.Mutex
	calls   []string
	results map[string]int
	fail    map[string]bool
}

func (f *fakeSearcher) SearchAuctions(ctx context.Context, params map[string]string) ([]model.Auction, error) {
	label := params["label"]
	f.mu.Lock()
	f.calls = append(f.calls, label)
	f.mu.Unlock()

	if f.fail[label] {
		return nil, errors.New("status 503")
	}
	auctions := make([]model.Auction, f.results[label])
	return auctions, nil
}

func queries(n int) []model.AuctionQuery {
	out := make([]model.AuctionQuery, n)
	for i := range out {
		label := fmt.Sprintf("q%d", i)
		out[i] = model.AuctionQuery{Label: label, Params: map[string]string{"label": label}}
	}
	return out
}

func newTestRunner(s Searcher) (*SearchRunner, *[]time.Duration) {
	var pauses []time.Duration
	r := NewSearchRunner(s, model.MarketConfig{BatchSize: 3, TargetNonEmpty: 3, BatchPause: 1500 * time.Millisecond}, zerolog.Nop())
	r.sleep = func(ctx context.Context, d time.Duration) error {
		pauses = append(pauses, d)
		return nil
	}
	return r, &pauses
}

func TestSearchRunner_StopsAfterTarget(t *testing.T) {
	s := &fakeSearcher{results: map[string]int{"q0": 2, "q1": 1, "q3": 4}}
	r, pauses := newTestRunner(s)

	results := r.Run(context.Background(), queries(9))

	// q0,q1 in the first batch, q3 in the second reaches 3 non-empty
	if len(results) != 6 {
		t.Fatalf("Expected two batches of results, got %d", len(results))
	}
	if len(s.calls) != 6 {
		t.Errorf("Expected 6 searches, got %d", len(s.calls))
	}
	if len(*pauses) != 1 || (*pauses)[0] != 1500*time.Millisecond {
		t.Errorf("Expected one 1.5s pause, got %v", *pauses)
	}
	for i, res := range results {
		if res.Query.Label != fmt.Sprintf("q%d", i) {
			t.Errorf("Expected result order preserved, got %s at %d", res.Query.Label, i)
		}
	}
}

func TestSearchRunner_ErrorsBecomeEmpty(t *testing.T) {
	s := &fakeSearcher{fail: map[string]bool{"q1": true}, results: map[string]int{"q0": 1}}
	r, _ := newTestRunner(s)

	results := r.Run(context.Background(), queries(2))
	if len(results) != 2 {
		t.Fatalf("Expected 2 results, got %d", len(results))
	}
	if results[1].Error == "" || results[1].Auctions == nil || len(results[1].Auctions) != 0 {
		t.Errorf("Expected failed search as empty result with error, got %+v", results[1])
	}
}

func TestSearchRunner_NoPauseAfterLastBatch(t *testing.T) {
	r, pauses := newTestRunner(&fakeSearcher{})

	results := r.Run(context.Background(), queries(3))
	if len(results) != 3 {
		t.Errorf("Expected 3 results, got %d", len(results))
	}
	if len(*pauses) != 0 {
		t.Errorf("Expected no pause, got %v", *pauses)
	}

	if got := r.Run(context.Background(), nil); got == nil || len(got) != 0 {
		t.Errorf("Expected empty non-nil results, got %v", got)
	}
}

func TestSearchRunner_CancelledPauseStops(t *testing.T) {
	r, _ := newTestRunner(&fakeSearcher{})
	r.sleep = func(ctx context.Context, d time.Duration) error {
		return context.Canceled
	}

	results := r.Run(context.Background(), queries(7))
	if len(results) != 3 {
		t.Errorf("Expected only the first batch, got %d", len(results))
	}
}

func TestSleepCtx(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := sleepCtx(ctx, time.Hour); err == nil {
		t.Error("Expected cancelled sleep to return an error")
	}
	if err := sleepCtx(context.Background(), 0); err != nil {
		t.Errorf("Expected zero sleep to return nil, got %v", err)
	}
}
