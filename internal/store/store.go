package store

import (
	"context"
	"errors"
)

// ErrNotFound is returned when a named document does not exist yet.
var ErrNotFound = errors.New("store: document not found")

// Store is the external document store: named JSON records read and written
// whole. Names may contain slashes for keyed sub-paths, e.g.
// "archivedTrades/2025/Q4". No transactional guard is provided; the engine
// tolerates last-writer-wins.
type Store interface {
	Read(ctx context.Context, name string, v any) error
	Write(ctx context.Context, name string, v any) error
}

// Well-known document names.
const (
	DocInvestments    = "investments"
	DocRealized       = "realized"
	DocPriceCache     = "priceCache"
	DocInceptionCache = "inceptionCache"
	DocBenchmarkCache = "benchmarkCache"
	DocArchivePrefix  = "archivedTrades" // archivedTrades/<year>/<quarter>
)
