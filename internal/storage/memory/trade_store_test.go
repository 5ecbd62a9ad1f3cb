package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/psycho789/bball-sub002/internal/domain"
	"github.com/psycho789/bball-sub002/internal/storage"
)

func TestTradeStore_InsertAndGet(t *testing.T) {
	store := NewTradeStore()
	ctx := context.Background()

	trade := &domain.TradeRecord{
		TradeID:     "trade1",
		GameID:      "game1",
		RunID:       "run1",
		Side:        domain.PositionLong,
		EntryMicros: 1000,
		NetProfit:   4.2,
		ExitReason:  domain.ExitReasonThresholdCross,
	}

	if err := store.Insert(ctx, trade); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	got, err := store.GetByGameID(ctx, "game1")
	if err != nil {
		t.Fatalf("GetByGameID failed: %v", err)
	}
	if len(got) != 1 || got[0].NetProfit != 4.2 {
		t.Errorf("Unexpected trades: %+v", got)
	}
}

func TestTradeStore_DuplicateKey(t *testing.T) {
	store := NewTradeStore()
	ctx := context.Background()

	trade := &domain.TradeRecord{TradeID: "trade1", GameID: "game1"}

	if err := store.Insert(ctx, trade); err != nil {
		t.Fatalf("First insert failed: %v", err)
	}

	err := store.Insert(ctx, trade)
	if !errors.Is(err, storage.ErrDuplicateKey) {
		t.Errorf("Expected ErrDuplicateKey, got %v", err)
	}
}

func TestTradeStore_GetByRunIDOrdered(t *testing.T) {
	store := NewTradeStore()
	ctx := context.Background()

	trades := []*domain.TradeRecord{
		{TradeID: "b", GameID: "g1", RunID: "run1", EntryMicros: 2000},
		{TradeID: "a", GameID: "g2", RunID: "run1", EntryMicros: 1000},
		{TradeID: "c", GameID: "g3", RunID: "run2", EntryMicros: 500},
	}
	if err := store.InsertBulk(ctx, trades); err != nil {
		t.Fatalf("InsertBulk failed: %v", err)
	}

	got, err := store.GetByRunID(ctx, "run1")
	if err != nil {
		t.Fatalf("GetByRunID failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("Expected 2 trades, got %d", len(got))
	}
	if got[0].TradeID != "a" || got[1].TradeID != "b" {
		t.Errorf("Trades not ordered by entry time: %s, %s", got[0].TradeID, got[1].TradeID)
	}
}

func TestTradeStore_InsertBulkIntraBatchDuplicate(t *testing.T) {
	store := NewTradeStore()
	ctx := context.Background()

	err := store.InsertBulk(ctx, []*domain.TradeRecord{
		{TradeID: "dup", GameID: "g1"},
		{TradeID: "dup", GameID: "g2"},
	})
	if !errors.Is(err, storage.ErrDuplicateKey) {
		t.Errorf("Expected ErrDuplicateKey, got %v", err)
	}

	// Batch must not have been partially applied.
	got, err := store.GetByGameID(ctx, "g1")
	if err != nil {
		t.Fatalf("GetByGameID failed: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("Expected empty store after failed batch, got %d trades", len(got))
	}
}
