package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLockoutKey(t *testing.T) {
	k := NewLockoutKey("  Admin@Example.com ", "10.0.0.1")
	assert.Equal(t, "admin@example.com", k.Email)
	assert.Equal(t, "signin:admin@example.com:10.0.0.1", k.String())

	// IPv6 colons are escaped so segments stay distinct.
	assert.Equal(t, "signin:a_b:__1", NewLockoutKey("a:b", "::1").String())
}

func TestLockoutWindow(t *testing.T) {
	start := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)
	window := 15 * time.Minute
	l := &Lockout{Key: "k"}

	l.RecordFailureAt(start, window)
	l.RecordFailureAt(start.Add(time.Minute), window)
	assert.Equal(t, 2, l.Failures)
	assert.Equal(t, start, l.WindowStart)
	assert.Equal(t, 3, l.Remaining(5))

	l.RecordFailureAt(start.Add(20*time.Minute), window)
	assert.Equal(t, 1, l.Failures, "a closed window starts over")
	assert.Equal(t, start.Add(20*time.Minute), l.WindowStart)
}

func TestLockoutLock(t *testing.T) {
	now := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)
	l := &Lockout{Key: "k"}
	assert.False(t, l.IsLockedAt(now))

	l.Lock(now, 10*time.Minute)
	assert.True(t, l.IsLockedAt(now.Add(9*time.Minute)))
	assert.False(t, l.IsLockedAt(now.Add(10*time.Minute)))

	var missing *Lockout
	assert.False(t, missing.IsLockedAt(now))
	assert.Equal(t, 0, (&Lockout{Failures: 9}).Remaining(5))
}
