package provider

import (
	"context"
	"sync"

	"FolioSentinel/internal/calendar"
)

// MockProvider returns controllable fixed data for development and testing.
type MockProvider struct {
	mu sync.Mutex

	// Quotes maps a symbol to its current price. Missing symbols yield 0.
	Quotes map[string]float64
	// Closes maps symbol -> ISO date -> closing price.
	Closes map[string]map[string]float64
	// QuoteErrs forces an error for specific symbols.
	QuoteErrs map[string]error
	// CloseErr forces an error for every historical lookup.
	CloseErr error

	QuoteCalls int
	CloseCalls int
}

func (m *MockProvider) Name() string { return "mock" }

func (m *MockProvider) GetQuote(_ context.Context, symbol string) (float64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.QuoteCalls++
	if err, ok := m.QuoteErrs[symbol]; ok {
		return 0, err
	}
	return m.Quotes[symbol], nil
}

func (m *MockProvider) GetHistoricalClose(_ context.Context, symbol string, day calendar.Date) (float64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CloseCalls++
	if m.CloseErr != nil {
		return 0, m.CloseErr
	}
	return m.Closes[symbol][day.String()], nil
}
