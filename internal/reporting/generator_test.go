package reporting

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/psycho789/bball-sub002/internal/domain"
	"github.com/psycho789/bball-sub002/internal/storage/memory"
)

func fixedClock() func() time.Time {
	return func() time.Time { return time.UnixMicro(1_700_000_000_000_000).UTC() }
}

func seedTrades(t *testing.T, store *memory.TradeStore) {
	t.Helper()
	err := store.InsertBulk(context.Background(), []*domain.TradeRecord{
		{
			TradeID:        "t1",
			GameID:         "g1",
			RunID:          "run-1",
			Side:           domain.PositionLong,
			EntryMicros:    100_000_000,
			ExitMicros:     200_000_000,
			EntryPrice:     0.52,
			ExitPrice:      0.58,
			Contracts:      192.3,
			GrossProfit:    11.5,
			Fees:           3.4,
			NetProfit:      8.1,
			ExitReason:     domain.ExitReasonThresholdCross,
			GamePhase:      "Q1",
			EntryThreshold: 0.05,
			ExitThreshold:  0.05,
		},
		{
			TradeID:     "t2",
			GameID:      "g2",
			RunID:       "run-1",
			Side:        domain.PositionShort,
			EntryMicros: 300_000_000,
			ExitMicros:  400_000_000,
			NetProfit:   -2.0,
			ExitReason:  domain.ExitReasonEndOfGame,
		},
	})
	if err != nil {
		t.Fatalf("Seeding trades failed: %v", err)
	}
}

func TestTradeReportForRun(t *testing.T) {
	store := memory.NewTradeStore()
	seedTrades(t, store)

	g := NewGenerator(store, memory.NewGridResultStore()).WithClock(fixedClock())
	report, err := g.TradeReportForRun(context.Background(), "run-1")
	if err != nil {
		t.Fatalf("TradeReportForRun failed: %v", err)
	}

	if report.TradeCount != 2 || len(report.Trades) != 2 {
		t.Fatalf("Expected 2 trades, got %d", report.TradeCount)
	}
	if report.GeneratedAtMicros != 1_700_000_000_000_000 {
		t.Errorf("Clock not applied: %d", report.GeneratedAtMicros)
	}
	if report.Trades[0].TradeID != "t1" || report.Trades[0].Side != "long" {
		t.Errorf("First row mismatch: %+v", report.Trades[0])
	}
}

func TestTradeReportJSONContract(t *testing.T) {
	store := memory.NewTradeStore()
	seedTrades(t, store)

	g := NewGenerator(store, memory.NewGridResultStore()).WithClock(fixedClock())
	report, err := g.TradeReportForGames(context.Background(), []string{"g1"})
	if err != nil {
		t.Fatalf("TradeReportForGames failed: %v", err)
	}

	var buf bytes.Buffer
	if err := WriteJSON(&buf, report); err != nil {
		t.Fatalf("WriteJSON failed: %v", err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("Output is not valid JSON: %v", err)
	}

	trades, ok := decoded["trades"].([]any)
	if !ok || len(trades) != 1 {
		t.Fatalf("trades field missing or wrong: %v", decoded["trades"])
	}
	row := trades[0].(map[string]any)
	for _, field := range []string{
		"trade_id", "game_id", "side", "entry_timestamp_micros", "exit_timestamp_micros",
		"entry_price", "exit_price", "contracts", "gross_profit", "fees", "slippage",
		"net_profit", "exit_reason", "fallback_exit",
	} {
		if _, ok := row[field]; !ok {
			t.Errorf("Trade row missing field %q", field)
		}
	}
}

func gridResult() *domain.GridResult {
	return &domain.GridResult{
		RunID: "run-1",
		Points: []domain.GridPoint{
			{
				EntryThreshold: 0.05,
				ExitThreshold:  0.03,
				TrainMetrics:   domain.SplitMetrics{Games: 4, TradeCount: 6, NetProfit: 12.5, WinRate: 0.5},
				ValidMetrics:   domain.SplitMetrics{Games: 2, TradeCount: 3, NetProfit: 4.0, WinRate: 0.66},
				TestMetrics:    domain.SplitMetrics{Games: 2, TradeCount: 2, NetProfit: 1.5, WinRate: 0.5},
			},
		},
		Best:         domain.GridPoint{EntryThreshold: 0.05, ExitThreshold: 0.03},
		TrainGameIDs: []string{"g1", "g2", "g3", "g4"},
		ValidGameIDs: []string{"g5", "g6"},
		TestGameIDs:  []string{"g7", "g8"},
	}
}

func TestGridReportForRun(t *testing.T) {
	ctx := context.Background()
	grids := memory.NewGridResultStore()
	if err := grids.Insert(ctx, gridResult()); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	g := NewGenerator(memory.NewTradeStore(), grids).WithClock(fixedClock())
	report, err := g.GridReportForRun(ctx, "run-1")
	if err != nil {
		t.Fatalf("GridReportForRun failed: %v", err)
	}

	if report.RunID != "run-1" || len(report.Points) != 1 {
		t.Fatalf("Report shape wrong: %+v", report)
	}
	if report.Points[0].ValidMetrics.NetProfit != 4.0 {
		t.Errorf("Valid metrics wrong: %+v", report.Points[0].ValidMetrics)
	}
	if len(report.TrainGameIDs) != 4 || len(report.TestGameIDs) != 2 {
		t.Errorf("Split membership wrong: %+v", report)
	}
}

func TestRenderTradesCSV(t *testing.T) {
	store := memory.NewTradeStore()
	seedTrades(t, store)

	g := NewGenerator(store, memory.NewGridResultStore()).WithClock(fixedClock())
	report, err := g.TradeReportForRun(context.Background(), "run-1")
	if err != nil {
		t.Fatalf("TradeReportForRun failed: %v", err)
	}

	csv := RenderTradesCSV(report)
	lines := strings.Split(strings.TrimSpace(csv), "\n")
	if len(lines) != 3 {
		t.Fatalf("Expected header + 2 rows, got %d lines", len(lines))
	}
	if !strings.HasPrefix(lines[0], "trade_id,game_id,run_id,side") {
		t.Errorf("Header wrong: %s", lines[0])
	}
	if !strings.Contains(lines[1], "t1,g1,run-1,long") {
		t.Errorf("Row wrong: %s", lines[1])
	}
}

func TestRenderGridCSV(t *testing.T) {
	g := NewGenerator(memory.NewTradeStore(), memory.NewGridResultStore()).WithClock(fixedClock())
	report := g.GridReport(gridResult())

	csv := RenderGridCSV(report)
	lines := strings.Split(strings.TrimSpace(csv), "\n")
	if len(lines) != len(report.Points)+1 {
		t.Fatalf("Expected header + %d rows, got %d lines", len(report.Points), len(lines))
	}
	if !strings.HasPrefix(lines[0], "entry_threshold,exit_threshold,train_net_profit") {
		t.Errorf("Header wrong: %s", lines[0])
	}
	// 2 threshold columns + 5 per split.
	if got := strings.Count(lines[1], ","); got != 16 {
		t.Errorf("Expected 17 columns, got %d", got+1)
	}
}

func TestRenderMarkdown(t *testing.T) {
	g := NewGenerator(memory.NewTradeStore(), memory.NewGridResultStore()).WithClock(fixedClock())
	report := g.GridReport(gridResult())

	md := RenderMarkdown(report)
	if !strings.Contains(md, "# Grid Search run-1") {
		t.Errorf("Missing title: %s", md)
	}
	if !strings.Contains(md, "| 0.0500 | 0.0300 |") {
		t.Errorf("Missing grid row: %s", md)
	}
}
