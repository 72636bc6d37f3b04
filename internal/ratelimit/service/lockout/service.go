// Package lockout slows down password guessing. After Attempts failures from
// one email and IP inside Window, sign-in for that pair is refused until
// LockDuration has passed.
package lockout

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"practiceadmin/internal/audit"
	"practiceadmin/internal/ratelimit/models"
	dErrors "practiceadmin/pkg/domain-errors"
	"practiceadmin/pkg/requestcontext"
)

type Store interface {
	Get(ctx context.Context, key string) (*models.Lockout, error)
	Save(ctx context.Context, record *models.Lockout, ttl time.Duration) error
	Clear(ctx context.Context, key string) error
}

type AuditPublisher interface {
	Emit(ctx context.Context, e audit.Event) error
}

type Config struct {
	Attempts     int
	Window       time.Duration
	LockDuration time.Duration
}

// DefaultConfig allows five attempts per fifteen minutes.
func DefaultConfig() Config {
	return Config{Attempts: 5, Window: 15 * time.Minute, LockDuration: 15 * time.Minute}
}

type Service struct {
	store          Store
	config         Config
	logger         *slog.Logger
	auditPublisher AuditPublisher
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithAuditPublisher(publisher AuditPublisher) Option {
	return func(s *Service) {
		s.auditPublisher = publisher
	}
}

// WithConfig replaces the defaults; non-positive fields keep their default.
func WithConfig(cfg Config) Option {
	return func(s *Service) {
		if cfg.Attempts > 0 {
			s.config.Attempts = cfg.Attempts
		}
		if cfg.Window > 0 {
			s.config.Window = cfg.Window
		}
		if cfg.LockDuration > 0 {
			s.config.LockDuration = cfg.LockDuration
		}
	}
}

func New(store Store, opts ...Option) (*Service, error) {
	if store == nil {
		return nil, errors.New("lockout store is required")
	}
	s := &Service{store: store, config: DefaultConfig(), logger: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Check refuses a sign-in attempt while the email and IP pair is locked.
func (s *Service) Check(ctx context.Context, email, ip string) error {
	key := models.NewLockoutKey(email, ip).String()
	record, err := s.store.Get(ctx, key)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to read sign-in lockout")
	}
	now := requestcontext.Now(ctx)
	if !record.IsLockedAt(now) {
		return nil
	}
	retryAfter := max(int(record.LockedUntil.Sub(now).Seconds()), 1)
	return dErrors.New(dErrors.CodeTooManyRequests,
		fmt.Sprintf("too many failed sign-in attempts, retry in %d seconds", retryAfter))
}

// RecordFailure counts a failed attempt and locks the pair once the limit
// is reached inside the window.
func (s *Service) RecordFailure(ctx context.Context, email, ip string) (*models.Lockout, error) {
	key := models.NewLockoutKey(email, ip)
	record, err := s.store.Get(ctx, key.String())
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to read sign-in lockout")
	}
	if record == nil {
		record = &models.Lockout{Key: key.String()}
	}

	now := requestcontext.Now(ctx)
	record.RecordFailureAt(now, s.config.Window)
	ttl := record.WindowStart.Add(s.config.Window).Sub(now)

	if record.Failures >= s.config.Attempts && !record.IsLockedAt(now) {
		record.Lock(now, s.config.LockDuration)
		ttl = s.config.LockDuration
		s.logger.WarnContext(ctx, "sign-in locked",
			"request_id", requestcontext.RequestID(ctx),
			"email", key.Email,
			"locked_until", record.LockedUntil,
		)
		s.emit(ctx, audit.Event{Action: audit.SignInLockoutTriggered, Entity: "session", Actor: key.Email})
	} else if record.IsLockedAt(now) {
		ttl = record.LockedUntil.Sub(now)
	}

	if err := s.store.Save(ctx, record, ttl); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to record sign-in failure")
	}
	return record, nil
}

// Clear forgets past failures after a successful sign-in.
func (s *Service) Clear(ctx context.Context, email, ip string) error {
	key := models.NewLockoutKey(email, ip)
	record, err := s.store.Get(ctx, key.String())
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to read sign-in lockout")
	}
	if record == nil {
		return nil
	}
	if err := s.store.Clear(ctx, key.String()); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to clear sign-in failures")
	}
	s.emit(ctx, audit.Event{Action: audit.SignInLockoutCleared, Entity: "session", Actor: key.Email})
	return nil
}

func (s *Service) emit(ctx context.Context, e audit.Event) {
	if s.auditPublisher == nil {
		return
	}
	if err := s.auditPublisher.Emit(ctx, e); err != nil {
		s.logger.WarnContext(ctx, "failed to emit audit event",
			"request_id", requestcontext.RequestID(ctx),
			"action", e.Action,
			"error", err,
		)
	}
}
