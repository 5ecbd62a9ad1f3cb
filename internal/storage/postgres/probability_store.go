package postgres

import (
	"context"
	"fmt"

	"github.com/psycho789/bball-sub002/internal/domain"
	"github.com/psycho789/bball-sub002/internal/storage"
)

// ProbabilityStore implements storage.ProbabilityStore using PostgreSQL.
type ProbabilityStore struct {
	pool *Pool
}

// NewProbabilityStore creates a new ProbabilityStore.
func NewProbabilityStore(pool *Pool) *ProbabilityStore {
	return &ProbabilityStore{pool: pool}
}

// Compile-time interface check.
var _ storage.ProbabilityStore = (*ProbabilityStore)(nil)

// InsertBulk adds multiple points atomically. Fails entire batch on any duplicate.
func (s *ProbabilityStore) InsertBulk(ctx context.Context, points []*domain.ProbabilityPoint) error {
	if len(points) == 0 {
		return nil
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO reference_probabilities (
			game_id, timestamp_micros, home_win_prob, elapsed_seconds
		) VALUES ($1, $2, $3, $4)
	`

	for _, p := range points {
		if p.HomeWinProb < 0 || p.HomeWinProb > 1 {
			return storage.ErrInvalidInput
		}
		_, err := tx.Exec(ctx, query,
			p.GameID,
			p.TimestampMicros,
			p.HomeWinProb,
			p.ElapsedSeconds,
		)
		if err != nil {
			if isDuplicateKeyError(err) {
				return storage.ErrDuplicateKey
			}
			return fmt.Errorf("insert probability point in bulk: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}

	return nil
}

// GetByGameID retrieves all points for a game, ordered by timestamp ASC.
func (s *ProbabilityStore) GetByGameID(ctx context.Context, gameID string) ([]*domain.ProbabilityPoint, error) {
	query := `
		SELECT game_id, timestamp_micros, home_win_prob, elapsed_seconds
		FROM reference_probabilities
		WHERE game_id = $1
		ORDER BY timestamp_micros ASC
	`

	rows, err := s.pool.Query(ctx, query, gameID)
	if err != nil {
		return nil, fmt.Errorf("get probability points by game id: %w", err)
	}
	defer rows.Close()

	var result []*domain.ProbabilityPoint
	for rows.Next() {
		var p domain.ProbabilityPoint
		if err := rows.Scan(&p.GameID, &p.TimestampMicros, &p.HomeWinProb, &p.ElapsedSeconds); err != nil {
			return nil, fmt.Errorf("scan probability point: %w", err)
		}
		result = append(result, &p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate probability points: %w", err)
	}

	return result, nil
}
