package engine

import (
	"time"

	"FolioSentinel/internal/calendar"
	"FolioSentinel/internal/model"
	"FolioSentinel/internal/provider"
	"FolioSentinel/internal/store"
)

// Params tunes one synchronization engine instance.
type Params struct {
	BenchmarkSymbol string
	BatchSize       int
	BatchPause      time.Duration
	Retries         int
	RetryDelay      time.Duration
	CallTimeout     time.Duration

	// StartingCapital and InceptionDate configure the fixed all-time anchor.
	// A zero InceptionDate disables it.
	StartingCapital float64
	InceptionDate   calendar.Date
}

// Engine runs synchronization cycles: fetch prices, merge the snapshot,
// resolve inception prices and derive benchmark returns. It holds no state
// across cycles beyond what it reads and rewrites in the store each run.
type Engine struct {
	Provider provider.Provider
	Store    store.Store
	Params   Params
}

// New creates an Engine, filling in defaults for unset batch parameters.
func New(p provider.Provider, s store.Store, params Params) *Engine {
	if params.BenchmarkSymbol == "" {
		params.BenchmarkSymbol = "SPY"
	}
	params.BenchmarkSymbol = model.NormalizeSymbol(params.BenchmarkSymbol)
	if params.BatchSize <= 0 {
		params.BatchSize = 5
	}
	if params.BatchPause <= 0 {
		params.BatchPause = time.Second
	}
	if params.Retries <= 0 {
		params.Retries = 3
	}
	if params.RetryDelay <= 0 {
		params.RetryDelay = 500 * time.Millisecond
	}
	if params.CallTimeout <= 0 {
		params.CallTimeout = 15 * time.Second
	}
	return &Engine{Provider: p, Store: s, Params: params}
}

// FetchFailure describes one non-fatal per-symbol fetch failure.
type FetchFailure struct {
	Symbol string
	Reason string
}

// Outcome is everything one cycle produced.
type Outcome struct {
	Result      model.BenchmarkResult
	Snapshot    model.PriceSnapshot
	SymbolCount int
	Failures    []FetchFailure
}
