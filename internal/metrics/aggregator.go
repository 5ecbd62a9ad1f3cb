package metrics

import (
	"context"
	"errors"

	"github.com/psycho789/bball-sub002/internal/domain"
	"github.com/psycho789/bball-sub002/internal/storage"
)

// ErrNoTrades is returned when no trades are available for aggregation.
var ErrNoTrades = errors.New("no trades available for aggregation")

// Aggregator recomputes split metrics from persisted trade records, for
// reporting on runs that have already been written to storage.
type Aggregator struct {
	tradeStore storage.TradeStore
}

// NewAggregator creates a metrics aggregator over a trade store.
func NewAggregator(tradeStore storage.TradeStore) *Aggregator {
	return &Aggregator{tradeStore: tradeStore}
}

// ComputeForGames loads all persisted trades for the given games and
// aggregates them into one SplitMetrics. Games without trades still
// count toward the games total. Returns ErrNoTrades when none of the
// games produced a trade.
func (a *Aggregator) ComputeForGames(ctx context.Context, gameIDs []string) (domain.SplitMetrics, error) {
	var trades []*domain.TradeRecord
	for _, gameID := range gameIDs {
		gameTrades, err := a.tradeStore.GetByGameID(ctx, gameID)
		if err != nil {
			return domain.SplitMetrics{}, err
		}
		trades = append(trades, gameTrades...)
	}

	if len(trades) == 0 {
		return domain.SplitMetrics{}, ErrNoTrades
	}

	return Compute(trades, len(gameIDs), 0), nil
}

// ComputeForRun aggregates every persisted trade of one grid-search or
// backtest run.
func (a *Aggregator) ComputeForRun(ctx context.Context, runID string) (domain.SplitMetrics, error) {
	trades, err := a.tradeStore.GetByRunID(ctx, runID)
	if err != nil {
		return domain.SplitMetrics{}, err
	}
	if len(trades) == 0 {
		return domain.SplitMetrics{}, ErrNoTrades
	}

	games := make(map[string]struct{})
	for _, t := range trades {
		games[t.GameID] = struct{}{}
	}

	return Compute(trades, len(games), 0), nil
}
