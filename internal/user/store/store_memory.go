package store

import (
	"context"
	"sync"

	"practiceadmin/internal/user/models"
	"practiceadmin/pkg/platform/sentinel"
)

// InMemoryStore keeps users in insertion order.
type InMemoryStore struct {
	mu    sync.RWMutex
	order []string
	byID  map[string]*models.User
}

func NewInMemoryStore(seed ...*models.User) *InMemoryStore {
	s := &InMemoryStore{byID: make(map[string]*models.User, len(seed))}
	for _, u := range seed {
		if _, exists := s.byID[u.ID]; exists {
			continue
		}
		s.order = append(s.order, u.ID)
		s.byID[u.ID] = u.Clone()
	}
	return s
}

func (s *InMemoryStore) ListAll(_ context.Context) ([]*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.User, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.byID[id].Clone())
	}
	return out, nil
}

func (s *InMemoryStore) FindByID(_ context.Context, id string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if u, ok := s.byID[id]; ok {
		return u.Clone(), nil
	}
	return nil, sentinel.ErrNotFound
}

func (s *InMemoryStore) Create(_ context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.byID[user.ID]; exists {
		return sentinel.ErrConflict
	}
	s.order = append(s.order, user.ID)
	s.byID[user.ID] = user.Clone()
	return nil
}

func (s *InMemoryStore) Update(_ context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.byID[user.ID]; !exists {
		return sentinel.ErrNotFound
	}
	s.byID[user.ID] = user.Clone()
	return nil
}

func (s *InMemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.byID[id]; !exists {
		return sentinel.ErrNotFound
	}
	delete(s.byID, id)
	for i, v := range s.order {
		if v == id {
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
