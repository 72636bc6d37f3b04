// Package service validates and stores the group-by choice of each table.
package service

import (
	"context"
	"errors"
	"log/slog"
	"slices"

	"practiceadmin/internal/audit"
	"practiceadmin/internal/preference/store"
	"practiceadmin/internal/tableview"
	dErrors "practiceadmin/pkg/domain-errors"
	"practiceadmin/pkg/platform/sentinel"
)

type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
}

type AuditPublisher interface {
	Emit(ctx context.Context, e audit.Event) error
}

const groupByName = "group-by"

// Service keeps one group key per principal and scope. Each scope accepts
// only the keys it was registered with.
type Service struct {
	store          Store
	scopes         map[string][]tableview.GroupKey
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

// WithScope registers a table and the group keys it supports.
func WithScope(scope string, keys []tableview.GroupKey) Option {
	return func(s *Service) {
		s.scopes[scope] = keys
	}
}

func New(st Store, opts ...Option) (*Service, error) {
	if st == nil {
		return nil, errors.New("preference store is required")
	}
	s := &Service{store: st, scopes: make(map[string][]tableview.GroupKey)}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// GroupBy returns the saved key, or NoGrouping when nothing valid is saved.
func (s *Service) GroupBy(ctx context.Context, principal, scope string) (tableview.GroupKey, error) {
	keys, err := s.scopeKeys(scope)
	if err != nil {
		return "", err
	}
	v, err := s.store.Get(ctx, store.Key(scope, principal, groupByName))
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return tableview.NoGrouping, nil
		}
		return "", dErrors.Wrap(err, dErrors.CodeUnavailable, "preferences are unavailable")
	}
	key := tableview.GroupKey(v)
	if !slices.Contains(keys, key) {
		return tableview.NoGrouping, nil
	}
	return key, nil
}

// SetGroupBy saves key for principal in scope.
func (s *Service) SetGroupBy(ctx context.Context, principal, scope string, key tableview.GroupKey) error {
	keys, err := s.scopeKeys(scope)
	if err != nil {
		return err
	}
	if !slices.Contains(keys, key) {
		return dErrors.New(dErrors.CodeValidation, "unsupported group key for "+scope+": "+string(key))
	}
	if err := s.store.Set(ctx, store.Key(scope, principal, groupByName), string(key)); err != nil {
		return dErrors.Wrap(err, dErrors.CodeUnavailable, "failed to save preference")
	}

	if s.auditPublisher != nil {
		if err := s.auditPublisher.Emit(ctx, audit.Event{
			Action:   audit.PreferenceUpdated,
			Entity:   "preference",
			EntityID: scope,
			Detail:   string(key),
		}); err != nil && s.logger != nil {
			s.logger.WarnContext(ctx, "audit emit failed", "error", err)
		}
	}
	return nil
}

// Options lists the keys a scope accepts.
func (s *Service) Options(scope string) ([]tableview.GroupKey, error) {
	return s.scopeKeys(scope)
}

func (s *Service) scopeKeys(scope string) ([]tableview.GroupKey, error) {
	keys, ok := s.scopes[scope]
	if !ok {
		return nil, dErrors.New(dErrors.CodeNotFound, "unknown preference scope: "+scope)
	}
	return keys, nil
}
