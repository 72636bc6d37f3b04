package store

import (
	"context"
	"sync"

	"practiceadmin/internal/location/models"
	"practiceadmin/pkg/platform/sentinel"
)

// InMemoryStore keeps locations in insertion order. Every read and write copies
// the record so callers never share a documents map with the store.
type InMemoryStore struct {
	mu    sync.RWMutex
	order []models.Key
	byKey map[models.Key]*models.Location
}

// NewInMemoryStore returns a store holding seed in the given order.
func NewInMemoryStore(seed ...*models.Location) *InMemoryStore {
	s := &InMemoryStore{byKey: make(map[models.Key]*models.Location, len(seed))}
	for _, l := range seed {
		if _, exists := s.byKey[l.Key()]; exists {
			continue
		}
		s.order = append(s.order, l.Key())
		s.byKey[l.Key()] = l.Clone()
	}
	return s
}

func (s *InMemoryStore) ListAll(_ context.Context) ([]*models.Location, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.Location, 0, len(s.order))
	for _, k := range s.order {
		out = append(out, s.byKey[k].Clone())
	}
	return out, nil
}

func (s *InMemoryStore) FindByKey(_ context.Context, key models.Key) (*models.Location, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if l, ok := s.byKey[key]; ok {
		return l.Clone(), nil
	}
	return nil, sentinel.ErrNotFound
}

func (s *InMemoryStore) Create(_ context.Context, location *models.Location) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := location.Key()
	if _, exists := s.byKey[key]; exists {
		return sentinel.ErrConflict
	}
	s.order = append(s.order, key)
	s.byKey[key] = location.Clone()
	return nil
}

func (s *InMemoryStore) Update(_ context.Context, location *models.Location) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := location.Key()
	if _, exists := s.byKey[key]; !exists {
		return sentinel.ErrNotFound
	}
	s.byKey[key] = location.Clone()
	return nil
}

// ToggleDocument flips one checklist entry under the write lock so concurrent
// toggles of different documents are all kept.
func (s *InMemoryStore) ToggleDocument(_ context.Context, key models.Key, document string) (*models.Location, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.byKey[key]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	if l.Documents == nil {
		l.Documents = models.DefaultDocuments()
	}
	if err := l.Documents.Toggle(document); err != nil {
		return nil, err
	}
	return l.Clone(), nil
}

// Delete removes the location if present. Deleting an absent key is not an error.
func (s *InMemoryStore) Delete(_ context.Context, key models.Key) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.byKey[key]; !exists {
		return nil
	}
	delete(s.byKey, key)
	for i, k := range s.order {
		if k == key {
			s.order = append(s.order[:i:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}

func (s *InMemoryStore) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.order), nil
}
