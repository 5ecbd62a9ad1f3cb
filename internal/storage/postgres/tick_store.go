package postgres

import (
	"context"
	"fmt"

	"github.com/psycho789/bball-sub002/internal/domain"
	"github.com/psycho789/bball-sub002/internal/storage"
)

// TickStore implements storage.TickStore using PostgreSQL.
// The bigserial id column preserves arrival order for equal timestamps.
type TickStore struct {
	pool *Pool
}

// NewTickStore creates a new TickStore.
func NewTickStore(pool *Pool) *TickStore {
	return &TickStore{pool: pool}
}

// Compile-time interface check.
var _ storage.TickStore = (*TickStore)(nil)

// InsertBulk adds multiple ticks atomically in arrival order.
func (s *TickStore) InsertBulk(ctx context.Context, ticks []*domain.Tick) error {
	if len(ticks) == 0 {
		return nil
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO ticks (
			ticker, timestamp_micros, price_cents, size, taker_side
		) VALUES ($1, $2, $3, $4, $5)
	`

	for _, t := range ticks {
		if t.PriceCents < 0 || t.PriceCents > 100 {
			return storage.ErrInvalidInput
		}
		_, err := tx.Exec(ctx, query,
			t.Ticker,
			t.TimestampMicros,
			t.PriceCents,
			int64(t.Size),
			string(t.TakerSide),
		)
		if err != nil {
			if isDuplicateKeyError(err) {
				return storage.ErrDuplicateKey
			}
			return fmt.Errorf("insert tick in bulk: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}

	return nil
}

// GetByTimeRange retrieves ticks for a ticker within [start, end) µs,
// ordered by timestamp ASC with ties in arrival (insert) order.
func (s *TickStore) GetByTimeRange(ctx context.Context, ticker string, startMicros, endMicros int64) ([]*domain.Tick, error) {
	if endMicros <= startMicros {
		return nil, storage.ErrInvalidInput
	}

	query := `
		SELECT ticker, timestamp_micros, price_cents, size, taker_side
		FROM ticks
		WHERE ticker = $1 AND timestamp_micros >= $2 AND timestamp_micros < $3
		ORDER BY timestamp_micros ASC, id ASC
	`

	rows, err := s.pool.Query(ctx, query, ticker, startMicros, endMicros)
	if err != nil {
		return nil, fmt.Errorf("get ticks by time range: %w", err)
	}
	defer rows.Close()

	var result []*domain.Tick
	for rows.Next() {
		var t domain.Tick
		var size int64
		var takerSide string
		if err := rows.Scan(&t.Ticker, &t.TimestampMicros, &t.PriceCents, &size, &takerSide); err != nil {
			return nil, fmt.Errorf("scan tick: %w", err)
		}
		t.Size = uint32(size)
		t.TakerSide = domain.TakerSide(takerSide)
		result = append(result, &t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate ticks: %w", err)
	}

	return result, nil
}
