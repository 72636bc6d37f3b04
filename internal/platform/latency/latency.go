// Package latency injects an artificial delay in front of store calls so the
// admin UI can be exercised against realistic response times.
package latency

import (
	"context"
	"time"
)

// Simulator sleeps for a fixed duration, honoring context cancellation.
// The zero value never sleeps.
type Simulator struct {
	delay time.Duration
}

// New returns a Simulator with the given delay. Non-positive delays disable it.
func New(delay time.Duration) Simulator {
	if delay < 0 {
		delay = 0
	}
	return Simulator{delay: delay}
}

// Wait blocks for the configured delay or until ctx is done.
func (s Simulator) Wait(ctx context.Context) error {
	if s.delay == 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(s.delay)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
