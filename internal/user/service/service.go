package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"practiceadmin/internal/audit"
	"practiceadmin/internal/platform/latency"
	"practiceadmin/internal/platform/metrics"
	"practiceadmin/internal/tableview"
	"practiceadmin/internal/user/models"
	dErrors "practiceadmin/pkg/domain-errors"
	"practiceadmin/pkg/platform/sentinel"
	"practiceadmin/pkg/requestcontext"
)

type Store interface {
	ListAll(ctx context.Context) ([]*models.User, error)
	FindByID(ctx context.Context, id string) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
	Update(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int, error)
}

type Preferences interface {
	GroupBy(ctx context.Context, principal, scope string) (tableview.GroupKey, error)
	SetGroupBy(ctx context.Context, principal, scope string, key tableview.GroupKey) error
}

type AuditPublisher interface {
	Emit(ctx context.Context, e audit.Event) error
}

// PreferenceScope is the preference namespace of the users table.
const PreferenceScope = "users"

const entity = "user"

// Service manages staff accounts.
type Service struct {
	store          Store
	preferences    Preferences
	logger         *slog.Logger
	auditPublisher AuditPublisher
	metrics        *metrics.Metrics
	latency        latency.Simulator
	newID          func() string
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

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func WithPreferences(p Preferences) Option {
	return func(s *Service) {
		s.preferences = p
	}
}

func WithLatency(l latency.Simulator) Option {
	return func(s *Service) {
		s.latency = l
	}
}

// WithIDGenerator replaces uuid.NewString for new accounts.
func WithIDGenerator(fn func() string) Option {
	return func(s *Service) {
		s.newID = fn
	}
}

func New(store Store, opts ...Option) (*Service, error) {
	if store == nil {
		return nil, errors.New("user store is required")
	}
	s := &Service{store: store, newID: uuid.NewString}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

type ViewQuery struct {
	Sort    *tableview.SortSpec
	Search  string
	GroupBy tableview.GroupKey
}

type ViewResult struct {
	View    tableview.View[*models.User]
	GroupBy tableview.GroupKey
	Total   int
}

func (s *Service) List(ctx context.Context) ([]*models.User, error) {
	if err := s.wait(ctx); err != nil {
		return nil, err
	}
	users, err := s.store.ListAll(ctx)
	if err != nil {
		if errors.Is(err, sentinel.ErrUnavailable) {
			return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "users are unavailable")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list users")
	}
	return users, nil
}

// View loads a snapshot and sorts, filters and groups it.
func (s *Service) View(ctx context.Context, q ViewQuery) (*ViewResult, error) {
	start := time.Now()

	groupBy, err := s.resolveGroupBy(ctx, q.GroupBy)
	if err != nil {
		return nil, err
	}

	users, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	view := tableview.Transform(users, q.Sort, q.Search, groupBy, tableview.WithAllLabel(models.AllLabel))
	s.metrics.ObserveView(entity, view.Len(), start)
	return &ViewResult{View: view, GroupBy: groupBy, Total: len(users)}, nil
}

// resolveGroupBy falls back to the caller's saved choice when none is
// requested, and saves an explicit choice.
func (s *Service) resolveGroupBy(ctx context.Context, requested tableview.GroupKey) (tableview.GroupKey, error) {
	principal, authenticated := requestcontext.Principal(ctx)

	if requested == "" {
		if s.preferences == nil || !authenticated {
			return tableview.NoGrouping, nil
		}
		saved, err := s.preferences.GroupBy(ctx, principal.Email, PreferenceScope)
		if err != nil {
			s.logWarn(ctx, "group-by preference unavailable", "error", err)
			return tableview.NoGrouping, nil
		}
		if !models.IsGroupKey(saved) {
			return tableview.NoGrouping, nil
		}
		return saved, nil
	}

	if !models.IsGroupKey(requested) {
		return "", dErrors.New(dErrors.CodeValidation, "unsupported group key: "+string(requested))
	}
	if s.preferences != nil && authenticated {
		if err := s.preferences.SetGroupBy(ctx, principal.Email, PreferenceScope, requested); err != nil {
			s.logWarn(ctx, "failed to save group-by preference", "group_by", requested, "error", err)
		}
	}
	return requested, nil
}

func (s *Service) Get(ctx context.Context, id string) (*models.User, error) {
	if err := s.wait(ctx); err != nil {
		return nil, err
	}
	user, err := s.store.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "failed to load user")
	}
	return user, nil
}

// Create registers an account under a fresh id.
func (s *Service) Create(ctx context.Context, req *models.CreateUserRequest) (*models.User, error) {
	r := *req
	req = &r
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if err := s.wait(ctx); err != nil {
		return nil, err
	}
	user := req.NewUser(s.newID())
	if err := s.store.Create(ctx, user); err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			return nil, dErrors.New(dErrors.CodeConflict, "user id already in use")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create user")
	}
	s.metrics.IncrementMutation(entity, "create")
	s.emit(ctx, audit.UserCreated, user.ID)
	return user, nil
}

// Update replaces the account with the same id.
func (s *Service) Update(ctx context.Context, user *models.User) (*models.User, error) {
	user = user.Clone()
	user.Normalize()
	if user.ID == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "id is required")
	}
	if err := user.Validate(); err != nil {
		return nil, err
	}
	if err := s.wait(ctx); err != nil {
		return nil, err
	}
	if err := s.store.Update(ctx, user); err != nil {
		return nil, notFoundOr(err, "failed to update user")
	}
	s.metrics.IncrementMutation(entity, "update")
	s.emit(ctx, audit.UserUpdated, user.ID)
	return user, nil
}

// Delete removes an account. Unknown ids are reported as not found.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.wait(ctx); err != nil {
		return err
	}
	if err := s.store.Delete(ctx, id); err != nil {
		return notFoundOr(err, "failed to delete user")
	}
	s.metrics.IncrementMutation(entity, "delete")
	s.emit(ctx, audit.UserDeleted, id)
	return nil
}

func (s *Service) Count(ctx context.Context) (int, error) {
	n, err := s.store.Count(ctx)
	if err != nil {
		return 0, dErrors.Wrap(err, dErrors.CodeInternal, "failed to count users")
	}
	return n, nil
}

func notFoundOr(err error, msg string) error {
	if errors.Is(err, sentinel.ErrNotFound) {
		return dErrors.New(dErrors.CodeNotFound, "user not found")
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, msg)
}

func (s *Service) wait(ctx context.Context) error {
	if err := s.latency.Wait(ctx); err != nil {
		return dErrors.Wrap(err, dErrors.CodeUnavailable, "request cancelled")
	}
	return nil
}

func (s *Service) emit(ctx context.Context, action audit.Action, id string) {
	if s.auditPublisher == nil {
		return
	}
	if err := s.auditPublisher.Emit(ctx, audit.Event{Action: action, Entity: entity, EntityID: id}); err != nil {
		s.logWarn(ctx, "audit emit failed", "action", action, "error", err)
	}
}

func (s *Service) logWarn(ctx context.Context, msg string, args ...any) {
	if s.logger == nil {
		return
	}
	args = append(args, "request_id", requestcontext.RequestID(ctx))
	s.logger.WarnContext(ctx, msg, args...)
}
