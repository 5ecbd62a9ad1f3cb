// Package metrics aggregates closed trades into split-level
// performance numbers.
package metrics

import (
	"sort"

	"github.com/psycho789/bball-sub002/internal/domain"
)

// Compute calculates SplitMetrics from a slice of trades. Trades are
// sorted by EntryMicros ASC, TradeID ASC before computing the
// order-dependent drawdown, so results are deterministic regardless of
// input order. games and skippedGames describe the split the trades
// came from and pass through unchanged.
func Compute(trades []*domain.TradeRecord, games, skippedGames int) domain.SplitMetrics {
	m := domain.SplitMetrics{
		Games:        games,
		SkippedGames: skippedGames,
		TradeCount:   len(trades),
	}
	if len(trades) == 0 {
		return m
	}

	sorted := make([]*domain.TradeRecord, len(trades))
	copy(sorted, trades)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].EntryMicros != sorted[j].EntryMicros {
			return sorted[i].EntryMicros < sorted[j].EntryMicros
		}
		return sorted[i].TradeID < sorted[j].TradeID
	})

	wins := 0
	for _, t := range sorted {
		m.NetProfit += t.NetProfit
		if t.NetProfit > 0 {
			wins++
		}
	}
	m.WinRate = float64(wins) / float64(len(sorted))
	m.MaxDrawdown = computeMaxDrawdown(sorted)

	return m
}

// computeMaxDrawdown calculates the worst peak-to-trough drop on the
// cumulative net profit curve. Trades must be in chronological order.
func computeMaxDrawdown(trades []*domain.TradeRecord) float64 {
	cumulative := 0.0
	peak := 0.0
	maxDrawdown := 0.0

	for _, t := range trades {
		cumulative += t.NetProfit
		if cumulative > peak {
			peak = cumulative
		}
		if drawdown := peak - cumulative; drawdown > maxDrawdown {
			maxDrawdown = drawdown
		}
	}
	return maxDrawdown
}
