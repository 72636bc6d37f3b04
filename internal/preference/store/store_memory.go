// Package store persists per-user table preferences.
package store

import (
	"context"
	"sync"

	"practiceadmin/pkg/platform/sentinel"
)

// Key builds the storage key for one principal's setting in one scope.
func Key(scope, principal, name string) string {
	return "pref:" + scope + ":" + principal + ":" + name
}

// InMemoryStore keeps preferences for the lifetime of the process.
type InMemoryStore struct {
	mu     sync.RWMutex
	values map[string]string
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{values: make(map[string]string)}
}

func (s *InMemoryStore) Get(_ context.Context, key string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.values[key]
	if !ok {
		return "", sentinel.ErrNotFound
	}
	return v, nil
}

func (s *InMemoryStore) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
	return nil
}
