// Package models holds the sign-in lockout record and its key.
package models

import (
	"strings"
	"time"
)

// SanitizeKeySegment escapes the key delimiter so a crafted email cannot
// address another client's counter.
func SanitizeKeySegment(s string) string {
	return strings.ReplaceAll(s, ":", "_")
}

// LockoutKey identifies a sign-in counter by email and client IP.
type LockoutKey struct {
	Email string
	IP    string
}

func NewLockoutKey(email, ip string) LockoutKey {
	return LockoutKey{Email: strings.ToLower(strings.TrimSpace(email)), IP: ip}
}

func (k LockoutKey) String() string {
	return "signin:" + SanitizeKeySegment(k.Email) + ":" + SanitizeKeySegment(k.IP)
}

// Lockout counts consecutive sign-in failures inside a window.
type Lockout struct {
	Key           string     `json:"key"`
	Failures      int        `json:"failures"`
	WindowStart   time.Time  `json:"window_start"`
	LastFailureAt time.Time  `json:"last_failure_at"`
	LockedUntil   *time.Time `json:"locked_until,omitempty"`
}

// IsLockedAt reports whether the lock is still in force at now.
func (l *Lockout) IsLockedAt(now time.Time) bool {
	return l != nil && l.LockedUntil != nil && now.Before(*l.LockedUntil)
}

// WindowExpiredAt reports whether the counting window has closed.
func (l *Lockout) WindowExpiredAt(now time.Time, window time.Duration) bool {
	return !now.Before(l.WindowStart.Add(window))
}

// RecordFailureAt counts one failure, starting a new window when the old one
// has closed and no lock is active.
func (l *Lockout) RecordFailureAt(now time.Time, window time.Duration) {
	if l.Failures == 0 || (l.WindowExpiredAt(now, window) && !l.IsLockedAt(now)) {
		l.Failures = 0
		l.WindowStart = now
		l.LockedUntil = nil
	}
	l.Failures++
	l.LastFailureAt = now
}

// Lock holds the key until now+d.
func (l *Lockout) Lock(now time.Time, d time.Duration) {
	until := now.Add(d)
	l.LockedUntil = &until
}

// Remaining returns how many attempts are left before the lock.
func (l *Lockout) Remaining(limit int) int {
	return max(limit-l.Failures, 0)
}
