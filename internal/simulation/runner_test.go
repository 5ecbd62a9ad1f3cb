package simulation

import (
	"context"
	"math"
	"testing"

	"github.com/psycho789/bball-sub002/internal/domain"
	"github.com/psycho789/bball-sub002/internal/storage/memory"
)

const micros = int64(1_000_000)

func seedGame(t *testing.T, quotes *memory.QuoteStore, probs *memory.ProbabilityStore, gameID string, probSeries []float64, bid, ask float64) {
	t.Helper()
	ctx := context.Background()

	var points []*domain.ProbabilityPoint
	var qs []*domain.Quote
	for i, p := range probSeries {
		ts := int64(i) * 60 * micros
		points = append(points, &domain.ProbabilityPoint{
			GameID:          gameID,
			TimestampMicros: ts,
			HomeWinProb:     p,
			ElapsedSeconds:  i * 60,
		})
		qs = append(qs, &domain.Quote{
			GameID:          gameID,
			Ticker:          "HOME-" + gameID,
			TimestampMicros: ts,
			Bid:             bid,
			Ask:             ask,
			Side:            domain.SideHome,
		})
	}

	if err := probs.InsertBulk(ctx, points); err != nil {
		t.Fatalf("Seeding probabilities failed: %v", err)
	}
	if err := quotes.InsertBulk(ctx, qs); err != nil {
		t.Fatalf("Seeding quotes failed: %v", err)
	}
}

func newTestRunner() (*Runner, *memory.QuoteStore, *memory.ProbabilityStore, *memory.TradeStore) {
	quotes := memory.NewQuoteStore()
	probs := memory.NewProbabilityStore()
	trades := memory.NewTradeStore()
	r := NewRunner(RunnerOptions{
		QuoteStore:       quotes,
		ProbabilityStore: probs,
		TradeStore:       trades,
	})
	return r, quotes, probs, trades
}

func TestRun_DivergenceRoundTrip(t *testing.T) {
	r, quotes, probs, trades := newTestRunner()
	ctx := context.Background()

	// Market pinned at 0.50/0.52 (mid 0.51) while the reference climbs
	// to 0.57 and falls back: divergence widens past the 0.05 entry at
	// the fourth point and re-crosses below it at the fifth.
	seedGame(t, quotes, probs, "g1", []float64{0.50, 0.53, 0.555, 0.57, 0.55}, 0.50, 0.52)

	result, err := r.Run(ctx, "g1", domain.DefaultSimConfig(0.05, 0.05))
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if result.Skipped {
		t.Fatalf("Game unexpectedly skipped: %s", result.SkipReason)
	}
	if len(result.Trades) != 1 {
		t.Fatalf("Expected 1 trade, got %d", len(result.Trades))
	}

	trade := result.Trades[0]
	if trade.Side != domain.PositionLong {
		t.Errorf("Side = %s, want long", trade.Side)
	}
	if trade.ExitReason != domain.ExitReasonThresholdCross {
		t.Errorf("ExitReason = %s, want %s", trade.ExitReason, domain.ExitReasonThresholdCross)
	}
	if trade.EntryMicros != 3*60*micros || trade.ExitMicros != 4*60*micros {
		t.Errorf("Trade timing wrong: entry=%d exit=%d", trade.EntryMicros, trade.ExitMicros)
	}
	if trade.EntryPrice != 0.52 || trade.ExitPrice != 0.50 {
		t.Errorf("Execution prices wrong: entry=%f exit=%f", trade.EntryPrice, trade.ExitPrice)
	}

	// Net trails gross by exactly the two fee charges (slippage is
	// disabled by default).
	if math.Abs((trade.GrossProfit-trade.NetProfit)-trade.Fees) > 1e-9 {
		t.Errorf("Net must trail gross by the fees: gross=%f net=%f fees=%f",
			trade.GrossProfit, trade.NetProfit, trade.Fees)
	}
	if trade.NetProfit >= trade.GrossProfit {
		t.Errorf("Net not strictly below gross: net=%f gross=%f", trade.NetProfit, trade.GrossProfit)
	}

	// The trade was persisted.
	stored, err := trades.GetByGameID(ctx, "g1")
	if err != nil {
		t.Fatalf("GetByGameID failed: %v", err)
	}
	if len(stored) != 1 || stored[0].TradeID != trade.TradeID {
		t.Errorf("Persisted trades mismatch: %+v", stored)
	}
}

func TestRun_ForcedCloseAtStreamEnd(t *testing.T) {
	r, quotes, probs, _ := newTestRunner()

	// Divergence widens and never comes back: the position must be
	// force-closed on the final snapshot.
	seedGame(t, quotes, probs, "g2", []float64{0.50, 0.53, 0.57, 0.58, 0.60}, 0.50, 0.52)

	result, err := r.Run(context.Background(), "g2", domain.DefaultSimConfig(0.05, 0.05))
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if len(result.Trades) != 1 {
		t.Fatalf("Expected 1 forced trade, got %d", len(result.Trades))
	}

	trade := result.Trades[0]
	if trade.ExitReason != domain.ExitReasonEndOfGame {
		t.Errorf("ExitReason = %s, want %s", trade.ExitReason, domain.ExitReasonEndOfGame)
	}
	wantPenalty := domain.DefaultForcedClosePenalty * trade.Contracts
	if math.Abs(trade.Slippage-wantPenalty) > 1e-9 {
		t.Errorf("Forced-close penalty missing: slippage=%f want=%f", trade.Slippage, wantPenalty)
	}
}

func TestRun_SkipsGameWithoutQuotes(t *testing.T) {
	r, _, probs, _ := newTestRunner()
	ctx := context.Background()

	err := probs.InsertBulk(ctx, []*domain.ProbabilityPoint{
		{GameID: "g3", TimestampMicros: 0, HomeWinProb: 0.5},
		{GameID: "g3", TimestampMicros: 60 * micros, HomeWinProb: 0.6},
	})
	if err != nil {
		t.Fatalf("Seeding failed: %v", err)
	}

	result, err := r.Run(ctx, "g3", domain.DefaultSimConfig(0.05, 0.05))
	if err != nil {
		t.Fatalf("Quoteless game must skip, not fail: %v", err)
	}
	if !result.Skipped {
		t.Error("Expected the game to be skipped")
	}
}

func TestRun_SkipsGameWithoutReferenceStream(t *testing.T) {
	r, quotes, _, _ := newTestRunner()
	ctx := context.Background()

	err := quotes.InsertBulk(ctx, []*domain.Quote{
		{GameID: "g4", Ticker: "T", TimestampMicros: 0, Bid: 0.5, Ask: 0.52, Side: domain.SideHome},
	})
	if err != nil {
		t.Fatalf("Seeding failed: %v", err)
	}

	result, err := r.Run(ctx, "g4", domain.DefaultSimConfig(0.05, 0.05))
	if err != nil {
		t.Fatalf("Market-only game must skip, not fail: %v", err)
	}
	if !result.Skipped {
		t.Error("Expected the game to be skipped")
	}
}

func TestSimulate_InsufficientData(t *testing.T) {
	bid, ask := 0.50, 0.52
	snapshots := []*domain.Snapshot{
		{GameID: "g5", TimestampMicros: 0, ReferenceProb: 0.5, MarketBid: &bid, MarketAsk: &ask},
		{GameID: "g5", TimestampMicros: 60 * micros, ReferenceProb: 0.6},
	}

	_, err := Simulate("g5", snapshots, domain.DefaultSimConfig(0.05, 0.05), nil)
	if err != ErrInsufficientData {
		t.Errorf("Expected ErrInsufficientData, got %v", err)
	}
}
