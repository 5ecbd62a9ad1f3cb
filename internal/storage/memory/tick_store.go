package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/psycho789/bball-sub002/internal/domain"
	"github.com/psycho789/bball-sub002/internal/storage"
)

// TickStore is an in-memory implementation of storage.TickStore.
// Arrival order is preserved by append order, so equal-timestamp ticks
// keep the order they were inserted in.
type TickStore struct {
	mu    sync.RWMutex
	ticks map[string][]*domain.Tick // keyed by ticker, append order
}

// NewTickStore creates a new in-memory tick store.
func NewTickStore() *TickStore {
	return &TickStore{
		ticks: make(map[string][]*domain.Tick),
	}
}

// Compile-time interface check.
var _ storage.TickStore = (*TickStore)(nil)

// InsertBulk adds multiple ticks in arrival order.
func (s *TickStore) InsertBulk(_ context.Context, ticks []*domain.Tick) error {
	if len(ticks) == 0 {
		return nil
	}

	for _, t := range ticks {
		if t == nil || t.Ticker == "" || t.PriceCents < 0 || t.PriceCents > 100 {
			return storage.ErrInvalidInput
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, t := range ticks {
		copy := *t
		s.ticks[t.Ticker] = append(s.ticks[t.Ticker], &copy)
	}

	return nil
}

// GetByTimeRange retrieves ticks for a ticker within [start, end) µs,
// ordered by timestamp ASC with ties in arrival order.
func (s *TickStore) GetByTimeRange(_ context.Context, ticker string, startMicros, endMicros int64) ([]*domain.Tick, error) {
	if endMicros <= startMicros {
		return nil, storage.ErrInvalidInput
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.Tick
	for _, t := range s.ticks[ticker] {
		if t.TimestampMicros >= startMicros && t.TimestampMicros < endMicros {
			copy := *t
			result = append(result, &copy)
		}
	}

	// Stable sort keeps arrival order for equal timestamps.
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].TimestampMicros < result[j].TimestampMicros
	})

	return result, nil
}
