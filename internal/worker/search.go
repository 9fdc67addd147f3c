package worker

import (
	"context"
	"sync"
	"time"

	"github.com/ppiankov/rivenscan/internal/model"
	"github.com/rs/zerolog"
)

// Searcher runs one auction search
type Searcher interface {
	SearchAuctions(ctx context.Context, params map[string]string) ([]model.Auction, error)
}

// SearchRunner executes query variants in small concurrent batches and stops
// once enough variants returned listings
type SearchRunner struct {
	searcher  Searcher
	batchSize int
	target    int
	pause     time.Duration
	sleep     func(ctx context.Context, d time.Duration) error
	logger    zerolog.Logger
}

// NewSearchRunner creates a runner from the market settings
func NewSearchRunner(s Searcher, cfg model.MarketConfig, logger zerolog.Logger) *SearchRunner {
	r := &SearchRunner{
		searcher:  s,
		batchSize: cfg.BatchSize,
		target:    cfg.TargetNonEmpty,
		pause:     cfg.BatchPause,
		sleep:     sleepCtx,
		logger:    logger,
	}
	if r.batchSize <= 0 {
		r.batchSize = 3
	}
	if r.target <= 0 {
		r.target = 3
	}
	return r
}

// Run returns one result per executed query, in query order. A failed
// search is recorded as an empty result carrying the error text.
func (r *SearchRunner) Run(ctx context.Context, queries []model.AuctionQuery) []model.SearchResult {
	results := []model.SearchResult{}
	nonEmpty := 0

	for start := 0; start < len(queries) && nonEmpty < r.target; start += r.batchSize {
		end := start + r.batchSize
		if end > len(queries) {
			end = len(queries)
		}

		batch := r.runBatch(ctx, queries[start:end])
		for _, res := range batch {
			if len(res.Auctions) > 0 {
				nonEmpty++
			}
		}
		results = append(results, batch...)

		if nonEmpty >= r.target || end >= len(queries) {
			break
		}
		if err := r.sleep(ctx, r.pause); err != nil {
			break
		}
	}
	return results
}

func (r *SearchRunner) runBatch(ctx context.Context, batch []model.AuctionQuery) []model.SearchResult {
	out := make([]model.SearchResult, len(batch))
	var wg sync.WaitGroup

	for i, q := range batch {
		wg.Add(1)
		go func(i int, q model.AuctionQuery) {
			defer wg.Done()

			auctions, err := r.searcher.SearchAuctions(ctx, q.Params)
			res := model.SearchResult{Query: q, Auctions: auctions}
			if err != nil {
				r.logger.Warn().Err(err).Str("query", q.Label).Msg("similar riven search failed")
				res.Auctions = nil
				res.Error = err.Error()
			}
			if res.Auctions == nil {
				res.Auctions = []model.Auction{}
			}
			out[i] = res
		}(i, q)
	}

	wg.Wait()
	return out
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
