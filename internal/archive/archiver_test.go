package archive

import (
	"context"
	"errors"
	"math"
	"testing"

	"FolioSentinel/internal/calendar"
	"FolioSentinel/internal/model"
	"FolioSentinel/internal/store"
)

func seedPosition(t *testing.T, s store.Store) model.Position {
	t.Helper()
	pos := model.Position{
		ID:        "pos-1",
		Symbol:    "AAPL",
		Shares:    10,
		CostPrice: 100,
		OpenDate:  calendar.MustParse("2025-06-01"),
	}
	positions := map[string]model.Position{pos.ID: pos}
	if err := s.Write(context.Background(), store.DocInvestments, positions); err != nil {
		t.Fatalf("seed position: %v", err)
	}
	return pos
}

func TestArchive_HappyPath(t *testing.T) {
	ctx := context.Background()
	docs := store.NewMemoryStore()
	seedPosition(t, docs)
	a := New(docs)

	trade, err := a.Archive(ctx, "pos-1", 120, "15/11/2025")
	if err != nil {
		t.Fatalf("Archive: %v", err)
	}
	if trade.PL != 200 {
		t.Errorf("PL = %v, want (120-100)*10 = 200", trade.PL)
	}
	if trade.Symbol != "AAPL" || trade.Shares != 10 || trade.BuyPrice != 100 || trade.SellPrice != 120 {
		t.Errorf("trade = %+v", trade)
	}
	if trade.SellDate.String() != "2025-11-15" {
		t.Errorf("sell date = %s, want 2025-11-15", trade.SellDate)
	}

	// Quarter bucket document.
	var bucket []model.ArchivedTrade
	if err := docs.Read(ctx, store.DocArchivePrefix+"/2025/Q4", &bucket); err != nil {
		t.Fatalf("read quarter bucket: %v", err)
	}
	if len(bucket) != 1 || bucket[0].PL != 200 {
		t.Errorf("bucket = %+v, want the archived trade", bucket)
	}

	// Flat realized document.
	var realized []model.ArchivedTrade
	if err := docs.Read(ctx, store.DocRealized, &realized); err != nil {
		t.Fatalf("read realized: %v", err)
	}
	if len(realized) != 1 {
		t.Errorf("realized = %+v, want one trade", realized)
	}

	// Position deleted.
	positions, err := a.ListPositions(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(positions) != 0 {
		t.Errorf("positions = %v, want empty after archive", positions)
	}
}

func TestArchive_AppendsToExistingBucket(t *testing.T) {
	ctx := context.Background()
	docs := store.NewMemoryStore()
	seedPosition(t, docs)
	existing := []model.ArchivedTrade{{Symbol: "NVDA", PL: 42}}
	if err := docs.Write(ctx, store.DocArchivePrefix+"/2025/Q4", existing); err != nil {
		t.Fatalf("seed bucket: %v", err)
	}
	a := New(docs)

	if _, err := a.Archive(ctx, "pos-1", 120, "2025-11-15"); err != nil {
		t.Fatalf("Archive: %v", err)
	}

	var bucket []model.ArchivedTrade
	if err := docs.Read(ctx, store.DocArchivePrefix+"/2025/Q4", &bucket); err != nil {
		t.Fatalf("read bucket: %v", err)
	}
	if len(bucket) != 2 || bucket[0].Symbol != "NVDA" || bucket[1].Symbol != "AAPL" {
		t.Errorf("bucket = %+v, want existing trade preserved and new one appended", bucket)
	}
}

func TestArchive_Rejections(t *testing.T) {
	tests := []struct {
		name  string
		id    string
		price float64
		date  string
	}{
		{"unknown position", "nope", 120, "2025-11-15"},
		{"zero price", "pos-1", 0, "2025-11-15"},
		{"negative price", "pos-1", -5, "2025-11-15"},
		{"NaN price", "pos-1", math.NaN(), "2025-11-15"},
		{"Inf price", "pos-1", math.Inf(1), "2025-11-15"},
		{"month/day date", "pos-1", 120, "11/15/2025"},
		{"empty date", "pos-1", 120, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			docs := store.NewMemoryStore()
			seedPosition(t, docs)
			a := New(docs)

			if _, err := a.Archive(ctx, tt.id, tt.price, tt.date); err == nil {
				t.Fatal("expected error, got nil")
			}

			// The rejection must leave every document untouched.
			positions, _ := a.ListPositions(ctx)
			if len(positions) != 1 {
				t.Errorf("positions = %v, want untouched", positions)
			}
			var realized []model.ArchivedTrade
			if err := docs.Read(ctx, store.DocRealized, &realized); !errors.Is(err, store.ErrNotFound) {
				t.Errorf("realized doc exists after rejection: %v %v", realized, err)
			}
		})
	}
}

func TestArchive_UnknownPositionError(t *testing.T) {
	docs := store.NewMemoryStore()
	seedPosition(t, docs)
	a := New(docs)

	_, err := a.Archive(context.Background(), "ghost", 120, "2025-11-15")
	if !errors.Is(err, ErrPositionNotFound) {
		t.Errorf("err = %v, want ErrPositionNotFound", err)
	}
}

func TestAddPosition(t *testing.T) {
	ctx := context.Background()
	docs := store.NewMemoryStore()
	a := New(docs)

	pos, err := a.AddPosition(ctx, " aapl ", 10, 150, "01/06/2025", "long term")
	if err != nil {
		t.Fatalf("AddPosition: %v", err)
	}
	if pos.ID == "" {
		t.Error("expected a generated id")
	}
	if pos.Symbol != "AAPL" {
		t.Errorf("symbol = %q, want normalized AAPL", pos.Symbol)
	}
	if pos.OpenDate.String() != "2025-06-01" {
		t.Errorf("open date = %s, want 2025-06-01", pos.OpenDate)
	}

	positions, err := a.ListPositions(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if _, ok := positions[pos.ID]; !ok {
		t.Errorf("positions = %v, want new position persisted", positions)
	}
}

func TestAddPosition_Rejections(t *testing.T) {
	tests := []struct {
		name   string
		symbol string
		shares float64
		price  float64
		date   string
	}{
		{"empty symbol", "", 10, 150, "2025-06-01"},
		{"zero shares", "AAPL", 0, 150, "2025-06-01"},
		{"negative price", "AAPL", 10, -1, "2025-06-01"},
		{"bad date", "AAPL", 10, 150, "June 1st"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := New(store.NewMemoryStore())
			if _, err := a.AddPosition(context.Background(), tt.symbol, tt.shares, tt.price, tt.date, ""); err == nil {
				t.Fatal("expected error, got nil")
			}
		})
	}
}

func TestDeletePosition(t *testing.T) {
	ctx := context.Background()
	docs := store.NewMemoryStore()
	seedPosition(t, docs)
	a := New(docs)

	if err := a.DeletePosition(ctx, "pos-1"); err != nil {
		t.Fatalf("DeletePosition: %v", err)
	}
	positions, _ := a.ListPositions(ctx)
	if len(positions) != 0 {
		t.Errorf("positions = %v, want empty", positions)
	}

	// Deleting never writes to the realized ledger.
	var realized []model.ArchivedTrade
	if err := docs.Read(ctx, store.DocRealized, &realized); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("realized doc exists after plain delete: %v %v", realized, err)
	}

	if err := a.DeletePosition(ctx, "pos-1"); !errors.Is(err, ErrPositionNotFound) {
		t.Errorf("second delete err = %v, want ErrPositionNotFound", err)
	}
}
