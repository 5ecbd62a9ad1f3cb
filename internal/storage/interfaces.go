package storage

import (
	"context"

	"github.com/psycho789/bball-sub002/internal/domain"
)

// TickStore provides access to raw execution ticks.
// Ticks may only be read over an explicit bounded window: unbounded
// "all ticks" scans are not part of the interface on purpose.
type TickStore interface {
	// InsertBulk adds multiple ticks. Fails entire batch on duplicate
	// (ticker, timestamp_micros, arrival order preserved by insert order).
	InsertBulk(ctx context.Context, ticks []*domain.Tick) error

	// GetByTimeRange retrieves ticks for a ticker within [start, end)
	// microseconds, ordered by timestamp ASC with ties in arrival order.
	GetByTimeRange(ctx context.Context, ticker string, startMicros, endMicros int64) ([]*domain.Tick, error)
}

// QuoteStore provides access to official per-minute market quotes.
type QuoteStore interface {
	// InsertBulk adds multiple quotes. Fails entire batch on duplicate
	// (game_id, ticker, timestamp_micros).
	InsertBulk(ctx context.Context, quotes []*domain.Quote) error

	// GetByGameID retrieves all quotes for a game, ordered by timestamp ASC.
	GetByGameID(ctx context.Context, gameID string) ([]*domain.Quote, error)
}

// ProbabilityStore provides access to the pre-computed reference
// win-probability series.
type ProbabilityStore interface {
	// InsertBulk adds multiple points. Fails entire batch on duplicate
	// (game_id, timestamp_micros).
	InsertBulk(ctx context.Context, points []*domain.ProbabilityPoint) error

	// GetByGameID retrieves all points for a game, ordered by timestamp ASC.
	GetByGameID(ctx context.Context, gameID string) ([]*domain.ProbabilityPoint, error)
}

// TradeStore persists closed trade records.
type TradeStore interface {
	// Insert adds a single trade. Returns ErrDuplicateKey if trade_id exists.
	Insert(ctx context.Context, t *domain.TradeRecord) error

	// InsertBulk adds multiple trades. Fails entire batch on any duplicate.
	InsertBulk(ctx context.Context, trades []*domain.TradeRecord) error

	// GetByGameID retrieves all trades for a game, ordered by entry time ASC.
	GetByGameID(ctx context.Context, gameID string) ([]*domain.TradeRecord, error)

	// GetByRunID retrieves all trades for a grid-search run, ordered by
	// entry time ASC.
	GetByRunID(ctx context.Context, runID string) ([]*domain.TradeRecord, error)
}

// GridResultStore persists per-parameter grid search aggregates.
type GridResultStore interface {
	// Insert adds a full run result. Returns ErrDuplicateKey if run_id exists.
	Insert(ctx context.Context, r *domain.GridResult) error

	// GetByRunID retrieves a run result. Returns ErrNotFound if not exists.
	GetByRunID(ctx context.Context, runID string) (*domain.GridResult, error)
}
