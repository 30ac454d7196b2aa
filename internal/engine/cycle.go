package engine

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"time"

	"FolioSentinel/internal/calendar"
	"FolioSentinel/internal/model"
	"FolioSentinel/internal/store"
)

// RunCycle executes one synchronization cycle: read open positions, reconcile
// the price snapshot, resolve inception prices, compute benchmark returns and
// write everything back. Per-symbol provider failures never abort the cycle;
// every document the cycle could compute is written even under partial
// failure. Each merge is computed fully in memory and written once.
func (e *Engine) RunCycle(ctx context.Context) (*Outcome, error) {
	today := calendar.Today()

	positions := make(map[string]model.Position)
	if err := e.Store.Read(ctx, store.DocInvestments, &positions); err != nil && !errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("read %s: %w", store.DocInvestments, err)
	}
	if len(positions) == 0 {
		log.Printf("[INFO] no open positions; benchmark symbol only")
	}

	symbols := distinctSymbols(positions, e.Params.BenchmarkSymbol)

	prior := make(model.PriceSnapshot)
	if err := e.Store.Read(ctx, store.DocPriceCache, &prior); err != nil && !errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("read %s: %w", store.DocPriceCache, err)
	}

	merged, failures := e.reconcilePrices(ctx, symbols, prior)

	var writeErrs []error
	if err := e.Store.Write(ctx, store.DocPriceCache, merged); err != nil {
		log.Printf("[ERROR] write %s: %v", store.DocPriceCache, err)
		writeErrs = append(writeErrs, err)
	}

	var realized []model.ArchivedTrade
	if err := e.Store.Read(ctx, store.DocRealized, &realized); err != nil && !errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("read %s: %w", store.DocRealized, err)
	}

	inception := make(model.InceptionCache)
	if err := e.Store.Read(ctx, store.DocInceptionCache, &inception); err != nil && !errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("read %s: %w", store.DocInceptionCache, err)
	}

	totals := computeTotals(positions, realized, merged)
	benchNow := merged[e.Params.BenchmarkSymbol]
	cacheDirty := false

	result := model.BenchmarkResult{
		UpdatedAt:     time.Now().UTC(),
		TotalInvested: totals.TotalInvested,
		CurrentValue:  totals.CurrentValue,
		UnrealizedPL:  totals.UnrealizedPL,
		RealizedPL:    totals.RealizedPL,
		AllTimePL:     totals.AllTimePL,
		Anchors:       make(map[string]model.AnchorReturn),
	}

	// Current-strategy anchor: slides with the oldest open position. With no
	// open positions there is nothing to measure against, so it is forced to
	// zeros regardless of archived history.
	if anchorDate, ok := earliestOpenDate(positions); ok {
		start, updated := e.resolveInception(ctx, inception, anchorDate.String(), anchorDate)
		cacheDirty = cacheDirty || updated
		result.Anchors[model.AnchorCurrent] = anchorReturn(
			totals.UnrealizedPL, totals.TotalInvested, start, benchNow, anchorDate.DaysUntil(today))
	} else {
		result.Anchors[model.AnchorCurrent] = model.AnchorReturn{}
	}

	// All-time anchor: fixed configured date and starting capital.
	if !e.Params.InceptionDate.IsZero() {
		start, updated := e.resolveInception(ctx, inception, e.Params.InceptionDate.String(), e.Params.InceptionDate)
		cacheDirty = cacheDirty || updated
		result.Anchors[model.AnchorAllTime] = anchorReturn(
			totals.AllTimePL, e.Params.StartingCapital, start, benchNow, e.Params.InceptionDate.DaysUntil(today))
	}

	if cacheDirty {
		if err := e.Store.Write(ctx, store.DocInceptionCache, inception); err != nil {
			log.Printf("[ERROR] write %s: %v", store.DocInceptionCache, err)
			writeErrs = append(writeErrs, err)
		}
	}

	if err := e.Store.Write(ctx, store.DocBenchmarkCache, result); err != nil {
		log.Printf("[ERROR] write %s: %v", store.DocBenchmarkCache, err)
		writeErrs = append(writeErrs, err)
	}

	outcome := &Outcome{
		Result:      result,
		Snapshot:    merged,
		SymbolCount: len(symbols),
		Failures:    failures,
	}
	return outcome, errors.Join(writeErrs...)
}

// distinctSymbols collects the normalized symbols of the open positions plus
// the benchmark symbol, sorted for deterministic batch order.
func distinctSymbols(positions map[string]model.Position, benchmark string) []string {
	seen := map[string]bool{model.NormalizeSymbol(benchmark): true}
	for _, p := range positions {
		seen[model.NormalizeSymbol(p.Symbol)] = true
	}
	symbols := make([]string, 0, len(seen))
	for sym := range seen {
		symbols = append(symbols, sym)
	}
	sort.Strings(symbols)
	return symbols
}
