package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/psycho789/bball-sub002/internal/domain"
	"github.com/psycho789/bball-sub002/internal/storage"
)

// QuoteStore is an in-memory implementation of storage.QuoteStore.
type QuoteStore struct {
	mu   sync.RWMutex
	data map[quoteKey]*domain.Quote
}

type quoteKey struct {
	gameID string
	ticker string
	ts     int64
}

// NewQuoteStore creates a new in-memory quote store.
func NewQuoteStore() *QuoteStore {
	return &QuoteStore{
		data: make(map[quoteKey]*domain.Quote),
	}
}

// Compile-time interface check.
var _ storage.QuoteStore = (*QuoteStore)(nil)

// InsertBulk adds multiple quotes atomically. Fails entire batch on any duplicate.
func (s *QuoteStore) InsertBulk(_ context.Context, quotes []*domain.Quote) error {
	if len(quotes) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	batchKeys := make(map[quoteKey]struct{}, len(quotes))
	for _, q := range quotes {
		if q == nil || q.GameID == "" {
			return storage.ErrInvalidInput
		}
		k := quoteKey{q.GameID, q.Ticker, q.TimestampMicros}
		if _, exists := s.data[k]; exists {
			return storage.ErrDuplicateKey
		}
		if _, exists := batchKeys[k]; exists {
			return storage.ErrDuplicateKey
		}
		batchKeys[k] = struct{}{}
	}

	for _, q := range quotes {
		copy := *q
		s.data[quoteKey{q.GameID, q.Ticker, q.TimestampMicros}] = &copy
	}

	return nil
}

// GetByGameID retrieves all quotes for a game, ordered by timestamp ASC.
func (s *QuoteStore) GetByGameID(_ context.Context, gameID string) ([]*domain.Quote, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.Quote
	for _, q := range s.data {
		if q.GameID == gameID {
			copy := *q
			result = append(result, &copy)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].TimestampMicros < result[j].TimestampMicros
	})

	return result, nil
}
