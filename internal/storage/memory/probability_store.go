package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/psycho789/bball-sub002/internal/domain"
	"github.com/psycho789/bball-sub002/internal/storage"
)

// ProbabilityStore is an in-memory implementation of storage.ProbabilityStore.
type ProbabilityStore struct {
	mu   sync.RWMutex
	data map[probKey]*domain.ProbabilityPoint
}

type probKey struct {
	gameID string
	ts     int64
}

// NewProbabilityStore creates a new in-memory probability store.
func NewProbabilityStore() *ProbabilityStore {
	return &ProbabilityStore{
		data: make(map[probKey]*domain.ProbabilityPoint),
	}
}

// Compile-time interface check.
var _ storage.ProbabilityStore = (*ProbabilityStore)(nil)

// InsertBulk adds multiple points atomically. Fails entire batch on any duplicate.
func (s *ProbabilityStore) InsertBulk(_ context.Context, points []*domain.ProbabilityPoint) error {
	if len(points) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	batchKeys := make(map[probKey]struct{}, len(points))
	for _, p := range points {
		if p == nil || p.GameID == "" || p.HomeWinProb < 0 || p.HomeWinProb > 1 {
			return storage.ErrInvalidInput
		}
		k := probKey{p.GameID, p.TimestampMicros}
		if _, exists := s.data[k]; exists {
			return storage.ErrDuplicateKey
		}
		if _, exists := batchKeys[k]; exists {
			return storage.ErrDuplicateKey
		}
		batchKeys[k] = struct{}{}
	}

	for _, p := range points {
		copy := *p
		s.data[probKey{p.GameID, p.TimestampMicros}] = &copy
	}

	return nil
}

// GetByGameID retrieves all points for a game, ordered by timestamp ASC.
func (s *ProbabilityStore) GetByGameID(_ context.Context, gameID string) ([]*domain.ProbabilityPoint, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.ProbabilityPoint
	for _, p := range s.data {
		if p.GameID == gameID {
			copy := *p
			result = append(result, &copy)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].TimestampMicros < result[j].TimestampMicros
	})

	return result, nil
}
