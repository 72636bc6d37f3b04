package audit

import (
	"context"
	"log/slog"
	"slices"
	"sync"
)

// MemorySink keeps events in process. Used in tests and by the default server
// wiring to back the recent-activity listing.
type MemorySink struct {
	mu     sync.RWMutex
	events []Event
	limit  int
}

// NewMemorySink keeps at most limit events, dropping the oldest. A limit of
// zero keeps everything.
func NewMemorySink(limit int) *MemorySink {
	return &MemorySink{limit: limit}
}

func (s *MemorySink) Name() string { return "memory" }

func (s *MemorySink) Write(_ context.Context, e Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, e)
	if s.limit > 0 && len(s.events) > s.limit {
		s.events = slices.Clone(s.events[len(s.events)-s.limit:])
	}
	return nil
}

// Events returns recorded events, oldest first.
func (s *MemorySink) Events() []Event {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.events)
}

// ByAction returns recorded events with the given action.
func (s *MemorySink) ByAction(action Action) []Event {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []Event
	for _, e := range s.events {
		if e.Action == action {
			out = append(out, e)
		}
	}
	return out
}

// LogSink writes events to the structured log with log_type=audit.
type LogSink struct {
	logger *slog.Logger
}

func NewLogSink(logger *slog.Logger) *LogSink {
	return &LogSink{logger: logger}
}

func (s *LogSink) Name() string { return "log" }

func (s *LogSink) Write(ctx context.Context, e Event) error {
	s.logger.InfoContext(ctx, string(e.Action),
		"log_type", "audit",
		"entity", e.Entity,
		"entity_id", e.EntityID,
		"actor", e.Actor,
		"request_id", e.RequestID,
		"client_ip", e.ClientIP,
		"browser", e.Browser,
		"os", e.OS,
		"detail", e.Detail,
	)
	return nil
}
