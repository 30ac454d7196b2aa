package engine

import (
	"context"
	"log"

	"FolioSentinel/internal/calendar"
	"FolioSentinel/internal/model"
)

// inceptionLookbackDays bounds the backward walk when the benchmark did not
// trade on the anchor date itself (weekends, holidays).
const inceptionLookbackDays = 7

// resolveInception returns the benchmark's closing price nearest at-or-before
// the anchor date, consulting the permanent cache first. Historical upstreams
// are much more rate-limited than quote upstreams, so a resolved price is
// cached under the anchor key and never fetched again. A failed resolution
// returns 0 without touching the cache, so the next cycle retries.
func (e *Engine) resolveInception(ctx context.Context, cache model.InceptionCache, key string, anchor calendar.Date) (price float64, updated bool) {
	if p, ok := cache[key]; ok && p > 0 {
		return p, false
	}

	for step := 0; step < inceptionLookbackDays; step++ {
		day := anchor.AddDays(-step)
		callCtx, cancel := context.WithTimeout(ctx, e.Params.CallTimeout)
		p, err := e.Provider.GetHistoricalClose(callCtx, e.Params.BenchmarkSymbol, day)
		cancel()
		if err != nil {
			log.Printf("[WARN] historical close %s on %s: %v", e.Params.BenchmarkSymbol, day, err)
			continue
		}
		if p > 0 {
			cache[key] = p
			return p, true
		}
	}

	log.Printf("[WARN] no close found for %s within %d days before %s; will retry next cycle",
		e.Params.BenchmarkSymbol, inceptionLookbackDays, anchor)
	return 0, false
}
