package reporting

import (
	"context"
	"encoding/json"
	"io"
	"time"

	"github.com/psycho789/bball-sub002/internal/domain"
	"github.com/psycho789/bball-sub002/internal/storage"
)

// Generator produces reports from stored data.
type Generator struct {
	tradeStore storage.TradeStore
	gridStore  storage.GridResultStore
	now        func() time.Time // injectable clock for deterministic output
}

// NewGenerator creates a report generator.
func NewGenerator(tradeStore storage.TradeStore, gridStore storage.GridResultStore) *Generator {
	return &Generator{
		tradeStore: tradeStore,
		gridStore:  gridStore,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// WithClock sets a custom clock function for deterministic output.
func (g *Generator) WithClock(now func() time.Time) *Generator {
	g.now = now
	return g
}

// TradeReportForGames builds the trade report for a set of games, in
// storage order (entry time ascending per game).
func (g *Generator) TradeReportForGames(ctx context.Context, gameIDs []string) (*TradeReport, error) {
	var trades []*domain.TradeRecord
	for _, gameID := range gameIDs {
		gameTrades, err := g.tradeStore.GetByGameID(ctx, gameID)
		if err != nil {
			return nil, err
		}
		trades = append(trades, gameTrades...)
	}
	return g.tradeReport(trades), nil
}

// TradeReportForRun builds the trade report for one run.
func (g *Generator) TradeReportForRun(ctx context.Context, runID string) (*TradeReport, error) {
	trades, err := g.tradeStore.GetByRunID(ctx, runID)
	if err != nil {
		return nil, err
	}
	return g.tradeReport(trades), nil
}

// GridReportForRun loads a persisted grid result and renders it as the
// report document.
func (g *Generator) GridReportForRun(ctx context.Context, runID string) (*GridReport, error) {
	result, err := g.gridStore.GetByRunID(ctx, runID)
	if err != nil {
		return nil, err
	}
	return g.GridReport(result), nil
}

// GridReport renders an in-memory grid result without touching storage.
func (g *Generator) GridReport(result *domain.GridResult) *GridReport {
	report := &GridReport{
		RunID:             result.RunID,
		GeneratedAtMicros: g.now().UnixMicro(),
		Points:            make([]GridPointRow, len(result.Points)),
		Best:              gridPointRow(result.Best),
		TrainGameIDs:      result.TrainGameIDs,
		ValidGameIDs:      result.ValidGameIDs,
		TestGameIDs:       result.TestGameIDs,
	}
	for i, p := range result.Points {
		report.Points[i] = gridPointRow(p)
	}
	return report
}

// TradeReport renders in-memory trades without touching storage.
func (g *Generator) TradeReport(trades []*domain.TradeRecord) *TradeReport {
	return g.tradeReport(trades)
}

func (g *Generator) tradeReport(trades []*domain.TradeRecord) *TradeReport {
	report := &TradeReport{
		GeneratedAtMicros: g.now().UnixMicro(),
		TradeCount:        len(trades),
		Trades:            make([]TradeRow, len(trades)),
	}
	for i, t := range trades {
		report.Trades[i] = TradeRow{
			TradeID:        t.TradeID,
			GameID:         t.GameID,
			RunID:          t.RunID,
			Side:           string(t.Side),
			EntryMicros:    t.EntryMicros,
			ExitMicros:     t.ExitMicros,
			EntryPrice:     t.EntryPrice,
			ExitPrice:      t.ExitPrice,
			Contracts:      t.Contracts,
			GrossProfit:    t.GrossProfit,
			Fees:           t.Fees,
			Slippage:       t.Slippage,
			NetProfit:      t.NetProfit,
			ExitReason:     t.ExitReason,
			FallbackExit:   t.FallbackExit,
			GamePhase:      t.GamePhase,
			EntryThreshold: t.EntryThreshold,
			ExitThreshold:  t.ExitThreshold,
		}
	}
	return report
}

func gridPointRow(p domain.GridPoint) GridPointRow {
	return GridPointRow{
		EntryThreshold: p.EntryThreshold,
		ExitThreshold:  p.ExitThreshold,
		TrainMetrics:   splitMetricsRow(p.TrainMetrics),
		ValidMetrics:   splitMetricsRow(p.ValidMetrics),
		TestMetrics:    splitMetricsRow(p.TestMetrics),
	}
}

func splitMetricsRow(m domain.SplitMetrics) SplitMetricsRow {
	return SplitMetricsRow{
		Games:        m.Games,
		SkippedGames: m.SkippedGames,
		TradeCount:   m.TradeCount,
		NetProfit:    m.NetProfit,
		WinRate:      m.WinRate,
		MaxDrawdown:  m.MaxDrawdown,
	}
}

// WriteJSON writes any report document as indented JSON.
func WriteJSON(w io.Writer, report any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}
