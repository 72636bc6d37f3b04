package audit

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"practiceadmin/internal/platform/metrics"
)

// AsyncSink queues events in a bounded ring buffer and lets Run deliver them
// to a slower sink (Kafka) off the request path. When the buffer is full the
// oldest event is dropped and counted with outcome "dropped".
type AsyncSink struct {
	next    Sink
	logger  *slog.Logger
	metrics *metrics.Metrics

	mu       sync.Mutex
	events   []Event
	head     int
	tail     int
	count    int
	notify   chan struct{}
	interval time.Duration
}

type AsyncOption func(*AsyncSink)

// WithQueueMetrics counts events dropped from a full buffer.
func WithQueueMetrics(m *metrics.Metrics) AsyncOption {
	return func(s *AsyncSink) {
		s.metrics = m
	}
}

// NewAsyncSink buffers up to capacity events for next.
func NewAsyncSink(next Sink, capacity int, logger *slog.Logger, opts ...AsyncOption) *AsyncSink {
	if capacity <= 0 {
		capacity = 1024
	}
	s := &AsyncSink{
		next:     next,
		logger:   logger,
		events:   make([]Event, capacity),
		notify:   make(chan struct{}, 1),
		interval: time.Second,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *AsyncSink) Name() string { return s.next.Name() }

// Write enqueues e and returns immediately.
func (s *AsyncSink) Write(_ context.Context, e Event) error {
	s.mu.Lock()
	dropped := s.count == len(s.events)
	if dropped {
		s.tail = (s.tail + 1) % len(s.events)
		s.count--
	}
	s.events[s.head] = e
	s.head = (s.head + 1) % len(s.events)
	s.count++
	s.mu.Unlock()

	if dropped {
		s.metrics.IncrementAudit(s.next.Name(), "dropped")
	}

	select {
	case s.notify <- struct{}{}:
	default:
	}
	return nil
}

func (s *AsyncSink) dequeue(n int) []Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	if n > s.count {
		n = s.count
	}
	out := make([]Event, n)
	for i := range n {
		out[i] = s.events[s.tail]
		s.tail = (s.tail + 1) % len(s.events)
	}
	s.count -= n
	return out
}

// Len reports queued events.
func (s *AsyncSink) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.count
}

// Run delivers queued events until ctx is cancelled, then drains the buffer
// with a grace period of its own.
func (s *AsyncSink) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			s.drain(flushCtx)
			cancel()
			return nil
		case <-s.notify:
			s.flush(ctx)
		case <-ticker.C:
			s.flush(ctx)
		}
	}
}

const batchSize = 64

func (s *AsyncSink) flush(ctx context.Context) {
	s.deliver(ctx, s.dequeue(batchSize))
	if s.Len() > 0 {
		select {
		case s.notify <- struct{}{}:
		default:
		}
	}
}

// drain delivers batches until the buffer is empty or ctx expires.
func (s *AsyncSink) drain(ctx context.Context) {
	for ctx.Err() == nil {
		batch := s.dequeue(batchSize)
		if len(batch) == 0 {
			return
		}
		s.deliver(ctx, batch)
	}
	if n := s.Len(); n > 0 && s.logger != nil {
		s.logger.Warn("audit queue not drained before shutdown", "sink", s.next.Name(), "remaining", n)
	}
}

func (s *AsyncSink) deliver(ctx context.Context, batch []Event) {
	for _, e := range batch {
		if err := s.next.Write(ctx, e); err != nil && s.logger != nil {
			s.logger.WarnContext(ctx, "audit delivery failed",
				"sink", s.next.Name(),
				"action", e.Action,
				"request_id", e.RequestID,
				"error", err,
			)
		}
	}
}
