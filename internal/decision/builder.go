package decision

import (
	"errors"

	"github.com/psycho789/bball-sub002/internal/domain"
)

// Builder errors
var (
	ErrNilResult = errors.New("decision: nil grid result")
	ErrNoPoints  = errors.New("decision: grid result has no points")
)

// Builder derives DecisionInput from a completed grid search result.
type Builder struct{}

// NewBuilder creates a new input builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// Build extracts the decision evidence from a grid result's best pair.
func (b *Builder) Build(result *domain.GridResult) (DecisionInput, error) {
	if result == nil {
		return DecisionInput{}, ErrNilResult
	}
	if len(result.Points) == 0 {
		return DecisionInput{}, ErrNoPoints
	}

	best := result.Best
	input := DecisionInput{
		RunID:           result.RunID,
		EntryThreshold:  best.EntryThreshold,
		ExitThreshold:   best.ExitThreshold,
		ValidNetProfit:  best.ValidMetrics.NetProfit,
		TestNetProfit:   best.TestMetrics.NetProfit,
		TestWinRate:     best.TestMetrics.WinRate,
		TestTradeCount:  best.TestMetrics.TradeCount,
		TestMaxDrawdown: best.TestMetrics.MaxDrawdown,
	}

	input.SkippedGameRatio = skippedRatio(best)
	input.BestAtGridEdge = atGridEdge(best, result.Points)

	return input, nil
}

// skippedRatio is skipped games over total games across all three
// splits of the best pair. Games already counts skipped games.
func skippedRatio(best domain.GridPoint) float64 {
	splits := []domain.SplitMetrics{best.TrainMetrics, best.ValidMetrics, best.TestMetrics}

	var games, skipped int
	for _, m := range splits {
		games += m.Games
		skipped += m.SkippedGames
	}
	if games == 0 {
		return 0
	}
	return float64(skipped) / float64(games)
}

// atGridEdge reports whether the best pair's entry or exit threshold is
// the minimum or maximum value swept across the lattice. A single swept
// value on an axis does not count as an edge.
func atGridEdge(best domain.GridPoint, points []domain.GridPoint) bool {
	minEntry, maxEntry := points[0].EntryThreshold, points[0].EntryThreshold
	minExit, maxExit := points[0].ExitThreshold, points[0].ExitThreshold
	for _, p := range points[1:] {
		if p.EntryThreshold < minEntry {
			minEntry = p.EntryThreshold
		}
		if p.EntryThreshold > maxEntry {
			maxEntry = p.EntryThreshold
		}
		if p.ExitThreshold < minExit {
			minExit = p.ExitThreshold
		}
		if p.ExitThreshold > maxExit {
			maxExit = p.ExitThreshold
		}
	}

	if minEntry != maxEntry && (best.EntryThreshold == minEntry || best.EntryThreshold == maxEntry) {
		return true
	}
	if minExit != maxExit && (best.ExitThreshold == minExit || best.ExitThreshold == maxExit) {
		return true
	}
	return false
}
