package candles

import (
	"context"
	"errors"
	"testing"

	"github.com/psycho789/bball-sub002/internal/domain"
	"github.com/psycho789/bball-sub002/internal/storage/memory"
)

func makeTick(ticker string, tsMicros int64, priceCents int, size uint32) *domain.Tick {
	return &domain.Tick{
		Ticker:          ticker,
		TimestampMicros: tsMicros,
		PriceCents:      priceCents,
		Size:            size,
		TakerSide:       domain.TakerSideYes,
	}
}

func TestAggregate_OHLCRoundTrip(t *testing.T) {
	// Two periods at 1s resolution; the second period is skipped
	// entirely, so output must be sparse.
	ticks := []*domain.Tick{
		makeTick("T", 0, 50, 100),
		makeTick("T", 400_000, 55, 10),
		makeTick("T", 800_000, 48, 20),
		makeTick("T", 999_999, 52, 30),
		makeTick("T", 2_100_000, 60, 5),
	}

	got, err := Aggregate(ticks, 1)
	if err != nil {
		t.Fatalf("Aggregate failed: %v", err)
	}

	if len(got) != 2 {
		t.Fatalf("Expected 2 sparse candles, got %d", len(got))
	}

	first := got[0]
	if first.OpenCents != 50 || first.HighCents != 55 || first.LowCents != 48 || first.CloseCents != 52 {
		t.Errorf("OHLC mismatch: got O=%d H=%d L=%d C=%d", first.OpenCents, first.HighCents, first.LowCents, first.CloseCents)
	}
	if first.Volume != 160 {
		t.Errorf("Volume mismatch: got %d, want 160", first.Volume)
	}
	if first.PeriodStartMicros != 0 || first.PeriodEndMicros != 1_000_000 {
		t.Errorf("Period mismatch: [%d, %d)", first.PeriodStartMicros, first.PeriodEndMicros)
	}

	second := got[1]
	if second.PeriodStartMicros != 2_000_000 {
		t.Errorf("Second candle period start: got %d, want 2000000", second.PeriodStartMicros)
	}
	if second.OpenCents != 60 || second.CloseCents != 60 {
		t.Errorf("Single-tick candle OHLC: O=%d C=%d", second.OpenCents, second.CloseCents)
	}
}

func TestAggregate_IntegerVWAP(t *testing.T) {
	// prices [50, 52], sizes [100, 300]:
	// VWAP = (50*100 + 52*300) // 400 = 20600 // 400 = 51
	ticks := []*domain.Tick{
		makeTick("T", 0, 50, 100),
		makeTick("T", 100, 52, 300),
	}

	got, err := Aggregate(ticks, 1)
	if err != nil {
		t.Fatalf("Aggregate failed: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("Expected 1 candle, got %d", len(got))
	}
	if got[0].VWAPCents != 51 {
		t.Errorf("VWAP: got %d, want 51", got[0].VWAPCents)
	}
}

func TestAggregate_ZeroVolumePeriod(t *testing.T) {
	// A period whose only ticks have size 0 must not divide by zero;
	// the close stands in for the VWAP. A mixed period still computes
	// the real VWAP over the sized ticks.
	ticks := []*domain.Tick{
		makeTick("T", 0, 50, 0),
		makeTick("T", 500_000, 54, 0),
		makeTick("T", 1_100_000, 48, 0),
		makeTick("T", 1_200_000, 52, 100),
	}

	got, err := Aggregate(ticks, 1)
	if err != nil {
		t.Fatalf("Aggregate failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("Expected 2 candles, got %d", len(got))
	}

	first := got[0]
	if first.Volume != 0 {
		t.Errorf("Volume: got %d, want 0", first.Volume)
	}
	if first.VWAPCents != 54 {
		t.Errorf("Zero-volume VWAP: got %d, want close 54", first.VWAPCents)
	}
	if second := got[1]; second.VWAPCents != 52 || second.Volume != 100 {
		t.Errorf("Mixed period: VWAP=%d volume=%d, want 52/100", second.VWAPCents, second.Volume)
	}
}

func TestAggregate_TruncatingVWAP(t *testing.T) {
	// (50*1 + 51*1) // 2 = 50 — integer division truncates, never rounds.
	ticks := []*domain.Tick{
		makeTick("T", 0, 50, 1),
		makeTick("T", 100, 51, 1),
	}

	got, err := Aggregate(ticks, 1)
	if err != nil {
		t.Fatalf("Aggregate failed: %v", err)
	}
	if got[0].VWAPCents != 50 {
		t.Errorf("VWAP: got %d, want 50", got[0].VWAPCents)
	}
}

func TestAggregate_ArrivalOrderBreaksOpenCloseTies(t *testing.T) {
	// All ticks share a timestamp: open is the first by arrival, close
	// the last.
	ticks := []*domain.Tick{
		makeTick("T", 500_000, 40, 1),
		makeTick("T", 500_000, 45, 1),
		makeTick("T", 500_000, 42, 1),
	}

	got, err := Aggregate(ticks, 1)
	if err != nil {
		t.Fatalf("Aggregate failed: %v", err)
	}
	if got[0].OpenCents != 40 || got[0].CloseCents != 42 {
		t.Errorf("Tie-break mismatch: O=%d C=%d, want O=40 C=42", got[0].OpenCents, got[0].CloseCents)
	}
}

func TestAggregate_EmptyAndInvalid(t *testing.T) {
	got, err := Aggregate(nil, 1)
	if err != nil || got != nil {
		t.Errorf("Empty input: got (%v, %v), want (nil, nil)", got, err)
	}

	_, err = Aggregate([]*domain.Tick{makeTick("T", 0, 50, 1)}, 0)
	if !errors.Is(err, ErrInvalidResolution) {
		t.Errorf("Expected ErrInvalidResolution, got %v", err)
	}
}

func TestService_WindowGuardrail(t *testing.T) {
	store := memory.NewTickStore()
	service := NewService(ServiceOptions{TickStore: store, MaxPoints: 3600})
	ctx := context.Background()

	// 3600s at 1s resolution is exactly the limit.
	_, err := service.Candles(ctx, "T", 1, 0, 3600*microsPerSecond)
	if err != nil {
		t.Errorf("Window at the limit must be accepted: %v", err)
	}

	// One more second pushes past the limit.
	_, err = service.Candles(ctx, "T", 1, 0, 3601*microsPerSecond)
	if !errors.Is(err, ErrWindowTooLarge) {
		t.Errorf("Expected ErrWindowTooLarge, got %v", err)
	}

	// The same span is fine at a coarser resolution.
	_, err = service.Candles(ctx, "T", 60, 0, 3601*microsPerSecond)
	if err != nil {
		t.Errorf("Coarser resolution must pass the guardrail: %v", err)
	}
}

func TestService_FetchesAndAggregates(t *testing.T) {
	store := memory.NewTickStore()
	ctx := context.Background()

	if err := store.InsertBulk(ctx, []*domain.Tick{
		makeTick("T", 100_000, 50, 10),
		makeTick("T", 1_200_000, 55, 20),
	}); err != nil {
		t.Fatalf("InsertBulk failed: %v", err)
	}

	service := NewService(ServiceOptions{TickStore: store})
	got, err := service.Candles(ctx, "T", 1, 0, 2_000_000)
	if err != nil {
		t.Fatalf("Candles failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("Expected 2 candles, got %d", len(got))
	}
}

func TestQuotePoints(t *testing.T) {
	candleSeries := []*domain.Candle{
		{Ticker: "T", PeriodEndMicros: 1_000_000, CloseCents: 52},
		{Ticker: "T", PeriodEndMicros: 2_000_000, CloseCents: 99},
	}

	got := QuotePoints(candleSeries, "g1", domain.SideHome, 0.02)
	if len(got) != 2 {
		t.Fatalf("Expected 2 quotes, got %d", len(got))
	}
	if got[0].Bid != 0.51 || got[0].Ask != 0.53 {
		t.Errorf("Synthetic spread mismatch: bid=%f ask=%f", got[0].Bid, got[0].Ask)
	}
	// Ask near 1.0 must be clamped.
	if got[1].Ask != 1.0 {
		t.Errorf("Ask not clamped: %f", got[1].Ask)
	}
}
