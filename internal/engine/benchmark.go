package engine

import (
	"math"

	"github.com/shopspring/decimal"

	"FolioSentinel/internal/calendar"
	"FolioSentinel/internal/model"
)

// tradingDaysPerYear is the annualization convention; tradingDayRatio
// approximates trading days from calendar days (roughly 4.83 sessions per
// 7-day week).
const (
	tradingDaysPerYear = 252
	tradingDayRatio    = 4.83 / 7
)

// Totals aggregates the portfolio-wide monetary figures one cycle needs.
type Totals struct {
	TotalInvested float64
	CurrentValue  float64
	UnrealizedPL  float64
	RealizedPL    float64
	AllTimePL     float64
}

// computeTotals sums cost basis, current value and realized P&L. Monetary
// sums use decimal arithmetic; symbols missing from the snapshot contribute 0
// to current value.
func computeTotals(positions map[string]model.Position, realized []model.ArchivedTrade, snap model.PriceSnapshot) Totals {
	invested := decimal.Zero
	value := decimal.Zero
	for _, p := range positions {
		shares := decimal.NewFromFloat(p.Shares)
		invested = invested.Add(shares.Mul(decimal.NewFromFloat(p.CostPrice)))
		value = value.Add(shares.Mul(decimal.NewFromFloat(snap[model.NormalizeSymbol(p.Symbol)])))
	}
	realizedPL := decimal.Zero
	for _, t := range realized {
		realizedPL = realizedPL.Add(decimal.NewFromFloat(t.PL))
	}
	unrealized := value.Sub(invested)

	return Totals{
		TotalInvested: invested.InexactFloat64(),
		CurrentValue:  value.InexactFloat64(),
		UnrealizedPL:  unrealized.InexactFloat64(),
		RealizedPL:    realizedPL.InexactFloat64(),
		AllTimePL:     realizedPL.Add(unrealized).InexactFloat64(),
	}
}

// anchorReturn derives one anchor's return pair. Every division is guarded:
// a zero or unresolved base capital or start price yields 0, never NaN or Inf.
func anchorReturn(pl, baseCapital, startPrice, currentPrice float64, calendarDays int) model.AnchorReturn {
	var r model.AnchorReturn
	if baseCapital > 0 {
		r.OurReturnPct = sanitize(pl / baseCapital * 100)
		r.OurAnnualizedPct = annualize(pl/baseCapital, calendarDays)
	}
	if startPrice > 0 && currentPrice > 0 {
		r.BenchmarkReturnPct = sanitize((currentPrice - startPrice) / startPrice * 100)
	}
	return r
}

// annualize converts a period return into an annualized geometric return
// percentage, approximating trading days from calendar days.
func annualize(periodReturn float64, calendarDays int) float64 {
	if calendarDays <= 0 {
		return 0
	}
	tradingDays := math.Round(float64(calendarDays) * tradingDayRatio)
	if tradingDays < 1 {
		tradingDays = 1
	}
	base := 1 + periodReturn
	if base < 0 {
		// More than a total loss: report -100% rather than a complex power.
		return -100
	}
	return sanitize((math.Pow(base, tradingDaysPerYear/tradingDays) - 1) * 100)
}

func sanitize(f float64) float64 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

// earliestOpenDate returns the sliding current-strategy anchor date: the
// minimum open date across open positions.
func earliestOpenDate(positions map[string]model.Position) (calendar.Date, bool) {
	var earliest calendar.Date
	found := false
	for _, p := range positions {
		if !found || p.OpenDate.Before(earliest) {
			earliest = p.OpenDate
			found = true
		}
	}
	return earliest, found
}
