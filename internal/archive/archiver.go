package archive

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"FolioSentinel/internal/calendar"
	"FolioSentinel/internal/model"
	"FolioSentinel/internal/store"
)

// ErrPositionNotFound is returned when the requested position id does not
// exist in the investments document.
var ErrPositionNotFound = errors.New("archive: position not found")

// Archiver converts closed positions into archived trades and manages the
// position lifecycle. It is invoked on demand, outside the synchronization
// cycle, but shares the same data model and store.
type Archiver struct {
	Store store.Store
}

func New(s store.Store) *Archiver { return &Archiver{Store: s} }

// Archive closes the position: computes realized P&L, appends the trade to the
// flat realized list and to its settlement-quarter bucket, then deletes the
// position. Rejects a missing position, a non-positive or non-finite sell
// price, and an unparseable sell date, leaving the store untouched.
func (a *Archiver) Archive(ctx context.Context, positionID string, sellPrice float64, sellDate string) (model.ArchivedTrade, error) {
	var none model.ArchivedTrade

	if sellPrice <= 0 || math.IsInf(sellPrice, 0) || math.IsNaN(sellPrice) {
		return none, fmt.Errorf("sell price must be a positive finite number, got %v", sellPrice)
	}
	sold, err := calendar.Parse(sellDate)
	if err != nil {
		return none, fmt.Errorf("sell date: %w", err)
	}

	positions, err := a.readPositions(ctx)
	if err != nil {
		return none, err
	}
	pos, ok := positions[positionID]
	if !ok {
		return none, fmt.Errorf("%w: %s", ErrPositionNotFound, positionID)
	}

	pl := decimal.NewFromFloat(sellPrice).
		Sub(decimal.NewFromFloat(pos.CostPrice)).
		Mul(decimal.NewFromFloat(pos.Shares))

	trade := model.ArchivedTrade{
		Symbol:    model.NormalizeSymbol(pos.Symbol),
		Shares:    pos.Shares,
		BuyPrice:  pos.CostPrice,
		SellPrice: sellPrice,
		BuyDate:   pos.OpenDate,
		SellDate:  sold,
		PL:        pl.InexactFloat64(),
	}

	bucket := store.DocArchivePrefix + "/" + sold.QuarterBucket()
	if err := a.appendTrade(ctx, bucket, trade); err != nil {
		return none, err
	}
	if err := a.appendTrade(ctx, store.DocRealized, trade); err != nil {
		return none, err
	}

	delete(positions, positionID)
	if err := a.Store.Write(ctx, store.DocInvestments, positions); err != nil {
		return none, fmt.Errorf("write %s: %w", store.DocInvestments, err)
	}
	return trade, nil
}

// AddPosition creates a new open position with a store-assigned id.
func (a *Archiver) AddPosition(ctx context.Context, symbol string, shares, costPrice float64, openDate, note string) (model.Position, error) {
	var none model.Position

	symbol = model.NormalizeSymbol(symbol)
	if symbol == "" {
		return none, fmt.Errorf("symbol is required")
	}
	if shares <= 0 || math.IsInf(shares, 0) || math.IsNaN(shares) {
		return none, fmt.Errorf("shares must be a positive finite number, got %v", shares)
	}
	if costPrice <= 0 || math.IsInf(costPrice, 0) || math.IsNaN(costPrice) {
		return none, fmt.Errorf("cost price must be a positive finite number, got %v", costPrice)
	}
	opened, err := calendar.Parse(openDate)
	if err != nil {
		return none, fmt.Errorf("open date: %w", err)
	}

	positions, err := a.readPositions(ctx)
	if err != nil {
		return none, err
	}

	pos := model.Position{
		ID:        uuid.NewString(),
		Symbol:    symbol,
		Shares:    shares,
		CostPrice: costPrice,
		OpenDate:  opened,
		Note:      note,
	}
	positions[pos.ID] = pos
	if err := a.Store.Write(ctx, store.DocInvestments, positions); err != nil {
		return none, fmt.Errorf("write %s: %w", store.DocInvestments, err)
	}
	return pos, nil
}

// DeletePosition removes an open position without archiving it.
func (a *Archiver) DeletePosition(ctx context.Context, positionID string) error {
	positions, err := a.readPositions(ctx)
	if err != nil {
		return err
	}
	if _, ok := positions[positionID]; !ok {
		return fmt.Errorf("%w: %s", ErrPositionNotFound, positionID)
	}
	delete(positions, positionID)
	if err := a.Store.Write(ctx, store.DocInvestments, positions); err != nil {
		return fmt.Errorf("write %s: %w", store.DocInvestments, err)
	}
	return nil
}

// ListPositions returns all open positions keyed by id.
func (a *Archiver) ListPositions(ctx context.Context) (map[string]model.Position, error) {
	return a.readPositions(ctx)
}

func (a *Archiver) readPositions(ctx context.Context) (map[string]model.Position, error) {
	positions := make(map[string]model.Position)
	if err := a.Store.Read(ctx, store.DocInvestments, &positions); err != nil && !errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("read %s: %w", store.DocInvestments, err)
	}
	return positions, nil
}

func (a *Archiver) appendTrade(ctx context.Context, doc string, trade model.ArchivedTrade) error {
	var trades []model.ArchivedTrade
	if err := a.Store.Read(ctx, doc, &trades); err != nil && !errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("read %s: %w", doc, err)
	}
	trades = append(trades, trade)
	if err := a.Store.Write(ctx, doc, trades); err != nil {
		return fmt.Errorf("write %s: %w", doc, err)
	}
	return nil
}
