package lockout

import (
	"context"
	"sync"
	"time"

	"practiceadmin/internal/ratelimit/models"
)

type entry struct {
	record    models.Lockout
	expiresAt time.Time
}

// InMemoryStore keeps counters for a single server process.
type InMemoryStore struct {
	mu      sync.Mutex
	records map[string]entry
	clock   func() time.Time
}

type InMemoryOption func(*InMemoryStore)

func WithClock(clock func() time.Time) InMemoryOption {
	return func(s *InMemoryStore) {
		if clock != nil {
			s.clock = clock
		}
	}
}

func NewInMemory(opts ...InMemoryOption) *InMemoryStore {
	s := &InMemoryStore{records: make(map[string]entry), clock: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Get returns nil when the key has no live record.
func (s *InMemoryStore) Get(_ context.Context, key string) (*models.Lockout, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.records[key]
	if !ok || !s.clock().Before(e.expiresAt) {
		return nil, nil
	}
	rec := e.record
	return &rec, nil
}

func (s *InMemoryStore) Save(_ context.Context, record *models.Lockout, ttl time.Duration) error {
	if record == nil || record.Key == "" {
		return errKeyRequired
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock()
	for k, e := range s.records {
		if !now.Before(e.expiresAt) {
			delete(s.records, k)
		}
	}
	s.records[record.Key] = entry{record: *record, expiresAt: now.Add(ttl)}
	return nil
}

func (s *InMemoryStore) Clear(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.records, key)
	return nil
}
