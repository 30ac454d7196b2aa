package provider

import (
	"context"
	"errors"

	"FolioSentinel/internal/calendar"
)

// ErrRateLimited marks an upstream rate-limit response. It is a transient
// failure and must never be confused with "no data for that day".
var ErrRateLimited = errors.New("provider: rate limited")

// Provider is the capability to fetch prices for one symbol from one upstream.
//
// GetQuote returns the current price, strictly positive on success. A return of
// (0, nil) means the upstream had no data for the symbol.
//
// GetHistoricalClose returns the closing price on the given calendar day, or
// (0, nil) when the benchmark did not trade that day (weekend, holiday).
type Provider interface {
	GetQuote(ctx context.Context, symbol string) (float64, error)
	GetHistoricalClose(ctx context.Context, symbol string, day calendar.Date) (float64, error)
	Name() string
}
