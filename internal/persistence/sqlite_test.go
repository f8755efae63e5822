package persistence

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/tathienbao/lifecycle-bot/internal/lifecycle"
	"github.com/tathienbao/lifecycle-bot/internal/types"
)

func newTestRepo(t *testing.T) *SQLiteRepository {
	t.Helper()
	repo, err := NewSQLiteRepository(filepath.Join(t.TempDir(), "trades.db"))
	if err != nil {
		t.Fatalf("open repository: %v", err)
	}
	t.Cleanup(func() { _ = repo.Close() })
	return repo
}

func openRecord(tradeID string) types.TradeRecord {
	return types.TradeRecord{
		TradeID:          tradeID,
		Symbol:           "AAPL",
		TradingMode:      "paper",
		Side:             types.SideBuy,
		Instruction:      types.SideBuy,
		Quantity:         10,
		EntryOrderID:     7,
		EntryOrderPrice:  decimal.RequireFromString("100"),
		EntryOrderTime:   time.Now(),
		EntryOrderStatus: types.OrderStatusFilled,
		EntryFillPrice:   decimal.RequireFromString("100.25"),
		EntryFillTime:    time.Now(),
		StopLossPrice:    decimal.RequireFromString("98.25"),
		TargetPrice:      decimal.RequireFromString("104.26"),
		PositionStatus:   types.PositionOpen,
	}
}

func TestSQLiteRepository_ApplyAndOpenTrades(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	err := repo.Apply(ctx, lifecycle.Event{
		Kind:   lifecycle.EventEntryConfirmed,
		Record: openRecord("trade-1"),
		At:     time.Now(),
	})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}

	open, err := repo.OpenTrades(ctx)
	if err != nil {
		t.Fatalf("OpenTrades: %v", err)
	}
	if len(open) != 1 {
		t.Fatalf("open trades = %d, want 1", len(open))
	}

	rec := open[0]
	if rec.TradeID != "trade-1" || rec.Symbol != "AAPL" {
		t.Errorf("record key = (%s, %s), want (trade-1, AAPL)", rec.TradeID, rec.Symbol)
	}
	if rec.Quantity != 10 {
		t.Errorf("quantity = %d, want 10", rec.Quantity)
	}
	if !rec.EntryFillPrice.Equal(decimal.RequireFromString("100.25")) {
		t.Errorf("fill price = %s, want 100.25", rec.EntryFillPrice)
	}
	if !rec.StopLossPrice.Equal(decimal.RequireFromString("98.25")) {
		t.Errorf("stop price = %s, want 98.25", rec.StopLossPrice)
	}
	if rec.Side != types.SideBuy {
		t.Errorf("side = %v, want BUY", rec.Side)
	}
}

func TestSQLiteRepository_UpsertSameKey(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	rec := openRecord("trade-1")
	if err := repo.Apply(ctx, lifecycle.Event{Kind: lifecycle.EventEntrySubmitted, Record: rec, At: time.Now()}); err != nil {
		t.Fatalf("Apply entry submitted: %v", err)
	}

	// Exit fill closes the same row.
	rec.ExitPrice = decimal.RequireFromString("104.26")
	rec.ExitTime = time.Now()
	rec.ExitReason = types.ExitReasonTarget
	rec.PositionStatus = types.PositionClosed
	rec.GrossPL = decimal.RequireFromString("40.10")
	if err := repo.Apply(ctx, lifecycle.Event{Kind: lifecycle.EventExitConfirmed, Record: rec, At: time.Now()}); err != nil {
		t.Fatalf("Apply exit confirmed: %v", err)
	}

	open, err := repo.OpenTrades(ctx)
	if err != nil {
		t.Fatalf("OpenTrades: %v", err)
	}
	if len(open) != 0 {
		t.Errorf("open trades = %d, want 0 after the row is closed", len(open))
	}
}

func TestSQLiteRepository_OpenTradesIncludesWorkingEntry(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	// Entry order placed but not yet filled when the process died.
	rec := openRecord("trade-1")
	rec.EntryOrderStatus = types.OrderStatusOpen
	rec.EntryFillPrice = decimal.Zero
	rec.EntryFillTime = time.Time{}
	rec.PositionStatus = types.PositionNone
	if err := repo.Apply(ctx, lifecycle.Event{Kind: lifecycle.EventEntrySubmitted, Record: rec, At: time.Now()}); err != nil {
		t.Fatalf("Apply: %v", err)
	}

	// A broker-cancelled entry is finished and must not come back.
	cancelled := openRecord("trade-2")
	cancelled.Symbol = "MSFT"
	cancelled.EntryOrderStatus = types.OrderStatusCancelled
	cancelled.PositionStatus = types.PositionNone
	if err := repo.Apply(ctx, lifecycle.Event{Kind: lifecycle.EventEntryConfirmed, Record: cancelled, At: time.Now()}); err != nil {
		t.Fatalf("Apply cancelled: %v", err)
	}

	open, err := repo.OpenTrades(ctx)
	if err != nil {
		t.Fatalf("OpenTrades: %v", err)
	}
	if len(open) != 1 {
		t.Fatalf("open trades = %d, want 1 (entry order still working)", len(open))
	}
	if open[0].TradeID != "trade-1" {
		t.Errorf("trade id = %s, want trade-1", open[0].TradeID)
	}
	if open[0].EntryOrderStatus != types.OrderStatusOpen {
		t.Errorf("entry status = %v, want OPEN", open[0].EntryOrderStatus)
	}

	// Purging covers the working-entry row too.
	n, err := repo.PurgeOpen(ctx)
	if err != nil {
		t.Fatalf("PurgeOpen: %v", err)
	}
	if n != 1 {
		t.Errorf("purged %d rows, want 1", n)
	}
	open, err = repo.OpenTrades(ctx)
	if err != nil {
		t.Fatalf("OpenTrades after purge: %v", err)
	}
	if len(open) != 0 {
		t.Errorf("open trades after purge = %d, want 0", len(open))
	}
}

func TestSQLiteRepository_PurgeOpen(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	for _, id := range []string{"trade-1", "trade-2"} {
		rec := openRecord(id)
		rec.Symbol = "AAPL-" + id
		if err := repo.Apply(ctx, lifecycle.Event{Kind: lifecycle.EventEntryConfirmed, Record: rec, At: time.Now()}); err != nil {
			t.Fatalf("Apply: %v", err)
		}
	}

	n, err := repo.PurgeOpen(ctx)
	if err != nil {
		t.Fatalf("PurgeOpen: %v", err)
	}
	if n != 2 {
		t.Errorf("purged %d rows, want 2", n)
	}

	open, err := repo.OpenTrades(ctx)
	if err != nil {
		t.Fatalf("OpenTrades: %v", err)
	}
	if len(open) != 0 {
		t.Errorf("open trades after purge = %d, want 0", len(open))
	}

	// Idempotent.
	n, err = repo.PurgeOpen(ctx)
	if err != nil {
		t.Fatalf("second PurgeOpen: %v", err)
	}
	if n != 0 {
		t.Errorf("second purge affected %d rows, want 0", n)
	}
}

func TestSQLiteRepository_EventLogGrows(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	rec := openRecord("trade-1")
	kinds := []lifecycle.EventKind{
		lifecycle.EventEntrySubmitted,
		lifecycle.EventEntryConfirmed,
		lifecycle.EventExitSubmitted,
		lifecycle.EventExitConfirmed,
	}
	for _, k := range kinds {
		if err := repo.Apply(ctx, lifecycle.Event{Kind: k, Record: rec, At: time.Now()}); err != nil {
			t.Fatalf("Apply %v: %v", k, err)
		}
	}

	var count int
	row := repo.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM trade_events WHERE trade_id = ? AND symbol = ?`,
		rec.TradeID, rec.Symbol)
	if err := row.Scan(&count); err != nil {
		t.Fatalf("count events: %v", err)
	}
	if count != len(kinds) {
		t.Errorf("event log rows = %d, want %d", count, len(kinds))
	}
}
