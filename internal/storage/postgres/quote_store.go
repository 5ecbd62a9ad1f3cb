package postgres

import (
	"context"
	"fmt"

	"github.com/psycho789/bball-sub002/internal/domain"
	"github.com/psycho789/bball-sub002/internal/storage"
)

// QuoteStore implements storage.QuoteStore using PostgreSQL.
type QuoteStore struct {
	pool *Pool
}

// NewQuoteStore creates a new QuoteStore.
func NewQuoteStore(pool *Pool) *QuoteStore {
	return &QuoteStore{pool: pool}
}

// Compile-time interface check.
var _ storage.QuoteStore = (*QuoteStore)(nil)

// InsertBulk adds multiple quotes atomically. Fails entire batch on any duplicate.
func (s *QuoteStore) InsertBulk(ctx context.Context, quotes []*domain.Quote) error {
	if len(quotes) == 0 {
		return nil
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO quotes (
			game_id, ticker, timestamp_micros, bid, ask, side
		) VALUES ($1, $2, $3, $4, $5, $6)
	`

	for _, q := range quotes {
		_, err := tx.Exec(ctx, query,
			q.GameID,
			q.Ticker,
			q.TimestampMicros,
			q.Bid,
			q.Ask,
			string(q.Side),
		)
		if err != nil {
			if isDuplicateKeyError(err) {
				return storage.ErrDuplicateKey
			}
			return fmt.Errorf("insert quote in bulk: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}

	return nil
}

// GetByGameID retrieves all quotes for a game, ordered by timestamp ASC.
func (s *QuoteStore) GetByGameID(ctx context.Context, gameID string) ([]*domain.Quote, error) {
	query := `
		SELECT game_id, ticker, timestamp_micros, bid, ask, side
		FROM quotes
		WHERE game_id = $1
		ORDER BY timestamp_micros ASC
	`

	rows, err := s.pool.Query(ctx, query, gameID)
	if err != nil {
		return nil, fmt.Errorf("get quotes by game id: %w", err)
	}
	defer rows.Close()

	var result []*domain.Quote
	for rows.Next() {
		var q domain.Quote
		var side string
		if err := rows.Scan(&q.GameID, &q.Ticker, &q.TimestampMicros, &q.Bid, &q.Ask, &side); err != nil {
			return nil, fmt.Errorf("scan quote: %w", err)
		}
		q.Side = domain.Side(side)
		result = append(result, &q)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate quotes: %w", err)
	}

	return result, nil
}
