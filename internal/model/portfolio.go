package model

import (
	"strings"

	"FolioSentinel/internal/calendar"
)

// Position is an open investment. Positions are never edited in place: they are
// replaced by deletion or converted to an ArchivedTrade when sold.
type Position struct {
	ID        string        `json:"id"`
	Symbol    string        `json:"symbol"`
	Shares    float64       `json:"shares"`
	CostPrice float64       `json:"costPrice"`
	OpenDate  calendar.Date `json:"openDate"`
	Note      string        `json:"note,omitempty"`
}

// NormalizeSymbol upper-cases and trims a ticker symbol.
func NormalizeSymbol(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

// ArchivedTrade is a closed position. Immutable once created; stored under a
// bucket keyed by the settlement quarter of SellDate.
type ArchivedTrade struct {
	Symbol    string        `json:"symbol"`
	Shares    float64       `json:"shares"`
	BuyPrice  float64       `json:"buyPrice"`
	SellPrice float64       `json:"sellPrice"`
	BuyDate   calendar.Date `json:"buyDate"`
	SellDate  calendar.Date `json:"sellDate"`
	PL        float64       `json:"pl"`
}

// PriceSnapshot maps a symbol to its last known price. A symbol once present is
// never removed by a synchronization cycle, and an entry is only overwritten
// with a strictly positive freshly fetched price.
type PriceSnapshot map[string]float64

// InceptionCache maps an anchor key to the benchmark's resolved historical
// closing price. Entries are write-once: a positive price is never overwritten.
type InceptionCache map[string]float64
