package model

import "time"

// Anchor names used in BenchmarkResult.
const (
	AnchorCurrent = "current"
	AnchorAllTime = "allTime"
)

// AnchorReturn compares the portfolio's return against the benchmark for one
// anchor. Both are percentages of starting capital; zero when the inputs
// required to compute them are unavailable.
type AnchorReturn struct {
	OurReturnPct       float64 `json:"ourReturnPct"`
	BenchmarkReturnPct float64 `json:"benchmarkReturnPct"`
	// OurAnnualizedPct is the geometric annualization of OurReturnPct over the
	// anchor window, using the 252-trading-day convention. Zero when the window
	// is empty or the anchor is unresolved.
	OurAnnualizedPct float64 `json:"ourAnnualizedPct,omitempty"`
}

// BenchmarkResult is the cached outcome of one benchmark computation.
type BenchmarkResult struct {
	UpdatedAt     time.Time               `json:"updatedAt"`
	TotalInvested float64                 `json:"totalInvested"`
	CurrentValue  float64                 `json:"currentValue"`
	UnrealizedPL  float64                 `json:"unrealizedPL"`
	RealizedPL    float64                 `json:"realizedPL"`
	AllTimePL     float64                 `json:"allTimePL"`
	Anchors       map[string]AnchorReturn `json:"anchors"`
}
