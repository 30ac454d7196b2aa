package engine

import (
	"context"
	"errors"
	"testing"
	"time"

	"FolioSentinel/internal/model"
	"FolioSentinel/internal/provider"
	"FolioSentinel/internal/store"
)

func testParams() Params {
	return Params{
		BenchmarkSymbol: "SPY",
		BatchSize:       2,
		BatchPause:      time.Millisecond,
		Retries:         2,
		RetryDelay:      time.Millisecond,
		CallTimeout:     time.Second,
	}
}

func TestReconcilePrices_MergePolicy(t *testing.T) {
	mock := &provider.MockProvider{
		Quotes: map[string]float64{
			"AAPL": 160, // fresh positive price overwrites
			"MSFT": 0,   // failed fetch, prior retained
			// NEWW absent: failed fetch with no prior stays absent
		},
	}
	e := New(mock, store.NewMemoryStore(), testParams())

	prior := model.PriceSnapshot{"AAPL": 150, "MSFT": 290}
	merged, failures := e.reconcilePrices(context.Background(), []string{"AAPL", "MSFT", "NEWW"}, prior)

	if merged["AAPL"] != 160 {
		t.Errorf("AAPL = %v, want 160", merged["AAPL"])
	}
	if merged["MSFT"] != 290 {
		t.Errorf("MSFT = %v, want prior 290", merged["MSFT"])
	}
	if _, ok := merged["NEWW"]; ok {
		t.Error("NEWW should be absent from the merged snapshot")
	}
	if len(failures) != 2 {
		t.Errorf("failures = %d, want 2 (MSFT, NEWW)", len(failures))
	}
	// Prior snapshot must not be mutated.
	if prior["AAPL"] != 150 {
		t.Errorf("prior snapshot mutated: AAPL = %v", prior["AAPL"])
	}
}

func TestReconcilePrices_NeverRegresses(t *testing.T) {
	mock := &provider.MockProvider{
		QuoteErrs: map[string]error{
			"AAPL": errors.New("transport down"),
			"MSFT": provider.ErrRateLimited,
		},
	}
	e := New(mock, store.NewMemoryStore(), testParams())

	prior := model.PriceSnapshot{"AAPL": 150, "MSFT": 290}
	merged, _ := e.reconcilePrices(context.Background(), []string{"AAPL", "MSFT"}, prior)

	if len(merged) != 2 || merged["AAPL"] != 150 || merged["MSFT"] != 290 {
		t.Errorf("merged = %v, want prior values retained", merged)
	}
}

func TestFetchQuote_RetriesThenFails(t *testing.T) {
	mock := &provider.MockProvider{
		QuoteErrs: map[string]error{"AAPL": errors.New("boom")},
	}
	params := testParams()
	params.Retries = 3
	e := New(mock, store.NewMemoryStore(), params)

	if _, err := e.fetchQuote(context.Background(), "AAPL"); err == nil {
		t.Fatal("expected error after exhausted retries")
	}
	if mock.QuoteCalls != 3 {
		t.Errorf("quote calls = %d, want 3", mock.QuoteCalls)
	}
}

// blockingProvider hangs every quote call until its context is cancelled.
type blockingProvider struct{ provider.MockProvider }

func (p *blockingProvider) GetQuote(ctx context.Context, _ string) (float64, error) {
	<-ctx.Done()
	return 0, ctx.Err()
}

func TestReconcilePrices_CancelledContextAborts(t *testing.T) {
	e := New(&blockingProvider{}, store.NewMemoryStore(), testParams())

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	done := make(chan struct{})
	var failures []FetchFailure
	go func() {
		defer close(done)
		_, failures = e.reconcilePrices(ctx, []string{"AAPL", "MSFT"}, nil)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("reconcile did not return after the context was cancelled")
	}
	if len(failures) != 2 {
		t.Errorf("failures = %d, want 2 cancelled fetches", len(failures))
	}
}

func TestFetchQuote_SucceedsFirstTry(t *testing.T) {
	mock := &provider.MockProvider{Quotes: map[string]float64{"AAPL": 160}}
	e := New(mock, store.NewMemoryStore(), testParams())

	price, err := e.fetchQuote(context.Background(), "AAPL")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if price != 160 {
		t.Errorf("price = %v, want 160", price)
	}
	if mock.QuoteCalls != 1 {
		t.Errorf("quote calls = %d, want 1", mock.QuoteCalls)
	}
}
