package engine

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"FolioSentinel/internal/model"
	"FolioSentinel/internal/provider"
)

// reconcilePrices fetches a current quote for every symbol and merges the
// results into the prior snapshot. The merge never regresses: an entry is only
// overwritten by a strictly positive freshly fetched price, and a symbol once
// present is never removed. Calls run concurrently within a batch; batches are
// strictly sequential with a pause in between for rate-limit compliance.
func (e *Engine) reconcilePrices(ctx context.Context, symbols []string, prior model.PriceSnapshot) (model.PriceSnapshot, []FetchFailure) {
	merged := make(model.PriceSnapshot, len(prior)+len(symbols))
	for sym, price := range prior {
		merged[sym] = price
	}

	var (
		mu       sync.Mutex
		failures []FetchFailure
	)

	for start := 0; start < len(symbols); start += e.Params.BatchSize {
		end := start + e.Params.BatchSize
		if end > len(symbols) {
			end = len(symbols)
		}
		batch := symbols[start:end]

		var wg sync.WaitGroup
		for _, sym := range batch {
			wg.Add(1)
			go func(sym string) {
				defer wg.Done()
				price, err := e.fetchQuote(ctx, sym)

				mu.Lock()
				defer mu.Unlock()
				switch {
				case err != nil:
					log.Printf("[WARN] quote %s: %v (keeping prior value)", sym, err)
					failures = append(failures, FetchFailure{Symbol: sym, Reason: err.Error()})
				case price <= 0:
					log.Printf("[WARN] quote %s: no price returned (keeping prior value)", sym)
					failures = append(failures, FetchFailure{Symbol: sym, Reason: "no price returned"})
				default:
					merged[sym] = price
				}
			}(sym)
		}
		wg.Wait()

		if end < len(symbols) {
			time.Sleep(e.Params.BatchPause)
		}
	}

	return merged, failures
}

// fetchQuote calls the provider with a per-call timeout and a bounded retry
// count, with a fixed delay between attempts. A zero price without an error
// counts as a failed attempt too.
func (e *Engine) fetchQuote(ctx context.Context, symbol string) (float64, error) {
	var lastErr error
	for attempt := 1; attempt <= e.Params.Retries; attempt++ {
		callCtx, cancel := context.WithTimeout(ctx, e.Params.CallTimeout)
		price, err := e.Provider.GetQuote(callCtx, symbol)
		cancel()

		switch {
		case err == nil && price > 0:
			return price, nil
		case err != nil:
			lastErr = err
		default:
			lastErr = fmt.Errorf("zero price for %s", symbol)
		}

		if errors.Is(lastErr, provider.ErrRateLimited) {
			log.Printf("[WARN] quote %s: rate limited (attempt %d/%d)", symbol, attempt, e.Params.Retries)
		}
		if attempt < e.Params.Retries {
			time.Sleep(e.Params.RetryDelay)
		}
	}
	return 0, lastErr
}
