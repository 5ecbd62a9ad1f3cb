package memory

import (
	"context"
	"sync"

	"github.com/psycho789/bball-sub002/internal/domain"
	"github.com/psycho789/bball-sub002/internal/storage"
)

// GridResultStore is an in-memory implementation of storage.GridResultStore.
type GridResultStore struct {
	mu   sync.RWMutex
	data map[string]*domain.GridResult // keyed by run_id
}

// NewGridResultStore creates a new in-memory grid result store.
func NewGridResultStore() *GridResultStore {
	return &GridResultStore{
		data: make(map[string]*domain.GridResult),
	}
}

// Compile-time interface check.
var _ storage.GridResultStore = (*GridResultStore)(nil)

// Insert adds a full run result. Returns ErrDuplicateKey if run_id exists.
func (s *GridResultStore) Insert(_ context.Context, r *domain.GridResult) error {
	if r == nil || r.RunID == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.data[r.RunID]; exists {
		return storage.ErrDuplicateKey
	}

	copy := *r
	copy.Points = append([]domain.GridPoint(nil), r.Points...)
	copy.TrainGameIDs = append([]string(nil), r.TrainGameIDs...)
	copy.ValidGameIDs = append([]string(nil), r.ValidGameIDs...)
	copy.TestGameIDs = append([]string(nil), r.TestGameIDs...)
	s.data[r.RunID] = &copy
	return nil
}

// GetByRunID retrieves a run result. Returns ErrNotFound if not exists.
func (s *GridResultStore) GetByRunID(_ context.Context, runID string) (*domain.GridResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, exists := s.data[runID]
	if !exists {
		return nil, storage.ErrNotFound
	}

	copy := *r
	copy.Points = append([]domain.GridPoint(nil), r.Points...)
	copy.TrainGameIDs = append([]string(nil), r.TrainGameIDs...)
	copy.ValidGameIDs = append([]string(nil), r.ValidGameIDs...)
	copy.TestGameIDs = append([]string(nil), r.TestGameIDs...)
	return &copy, nil
}
