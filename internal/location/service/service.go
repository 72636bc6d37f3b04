package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"practiceadmin/internal/audit"
	"practiceadmin/internal/location/models"
	"practiceadmin/internal/platform/latency"
	"practiceadmin/internal/platform/metrics"
	"practiceadmin/internal/tableview"
	dErrors "practiceadmin/pkg/domain-errors"
	"practiceadmin/pkg/platform/sentinel"
	"practiceadmin/pkg/requestcontext"
)

// Store is the location repository.
type Store interface {
	ListAll(ctx context.Context) ([]*models.Location, error)
	FindByKey(ctx context.Context, key models.Key) (*models.Location, error)
	Create(ctx context.Context, location *models.Location) error
	Update(ctx context.Context, location *models.Location) error
	Delete(ctx context.Context, key models.Key) error
	// ToggleDocument flips one checklist entry atomically and returns the
	// stored location.
	ToggleDocument(ctx context.Context, key models.Key, document string) (*models.Location, error)
	Count(ctx context.Context) (int, error)
}

// Preferences remembers the group-by choice per principal and table.
type Preferences interface {
	GroupBy(ctx context.Context, principal, scope string) (tableview.GroupKey, error)
	SetGroupBy(ctx context.Context, principal, scope string, key tableview.GroupKey) error
}

type AuditPublisher interface {
	Emit(ctx context.Context, e audit.Event) error
}

// PreferenceScope is the preference namespace of the locations table.
const PreferenceScope = "locations"

const entity = "location"

// Service orchestrates location reads, table views and mutations.
type Service struct {
	store          Store
	preferences    Preferences
	logger         *slog.Logger
	auditPublisher AuditPublisher
	metrics        *metrics.Metrics
	latency        latency.Simulator
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

// WithLatency delays every store call, mimicking a remote backend.
func WithLatency(l latency.Simulator) Option {
	return func(s *Service) {
		s.latency = l
	}
}

// New constructs a Service.
func New(store Store, opts ...Option) (*Service, error) {
	if store == nil {
		return nil, errors.New("location store is required")
	}
	s := &Service{store: store}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// ViewQuery selects how the locations table is arranged. An empty GroupBy
// means "use the caller's saved preference".
type ViewQuery struct {
	Sort    *tableview.SortSpec
	Search  string
	GroupBy tableview.GroupKey
}

// ViewResult is a transformed snapshot plus the grouping actually applied.
type ViewResult struct {
	View    tableview.View[*models.Location]
	GroupBy tableview.GroupKey
	Total   int
}

// List returns every location in insertion order.
func (s *Service) List(ctx context.Context) ([]*models.Location, error) {
	if err := s.wait(ctx); err != nil {
		return nil, err
	}
	locations, err := s.store.ListAll(ctx)
	if err != nil {
		if errors.Is(err, sentinel.ErrUnavailable) {
			return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "locations are unavailable")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list locations")
	}
	return locations, nil
}

// View loads a snapshot and sorts, filters and groups it. An explicit group key
// is saved as the caller's preference.
func (s *Service) View(ctx context.Context, q ViewQuery) (*ViewResult, error) {
	start := time.Now()

	groupBy, err := s.resolveGroupBy(ctx, q.GroupBy)
	if err != nil {
		return nil, err
	}

	locations, err := s.List(ctx)
	if err != nil {
		return nil, err
	}

	view := tableview.Transform(locations, q.Sort, q.Search, groupBy, tableview.WithAllLabel(models.AllLabel))
	s.metrics.ObserveView(entity, view.Len(), start)
	return &ViewResult{View: view, GroupBy: groupBy, Total: len(locations)}, nil
}

func (s *Service) resolveGroupBy(ctx context.Context, requested tableview.GroupKey) (tableview.GroupKey, error) {
	principal, authenticated := requestcontext.Principal(ctx)

	if requested == "" {
		if s.preferences == nil || !authenticated {
			return tableview.NoGrouping, nil
		}
		saved, err := s.preferences.GroupBy(ctx, principal.Email, PreferenceScope)
		if err != nil || !models.IsGroupKey(saved) {
			if err != nil {
				s.logWarn(ctx, "group-by preference unavailable", "error", err)
			}
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

// Get returns one location by identity.
func (s *Service) Get(ctx context.Context, city, state string) (*models.Location, error) {
	key, err := models.NewKey(city, state)
	if err != nil {
		return nil, err
	}
	if err := s.wait(ctx); err != nil {
		return nil, err
	}
	location, err := s.store.FindByKey(ctx, key)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "location not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load location")
	}
	return location, nil
}

// Create adds a location. Its identity must be unused.
func (s *Service) Create(ctx context.Context, location *models.Location) (*models.Location, error) {
	location = location.Clone()
	location.Normalize()
	if err := location.Validate(); err != nil {
		return nil, err
	}
	if err := s.wait(ctx); err != nil {
		return nil, err
	}
	if err := s.store.Create(ctx, location); err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			return nil, dErrors.New(dErrors.CodeConflict, "location "+location.Key().String()+" already exists")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create location")
	}

	s.metrics.IncrementMutation(entity, "create")
	s.emit(ctx, audit.LocationCreated, location.Key(), "")
	return location, nil
}

// Update replaces the location with the same identity.
func (s *Service) Update(ctx context.Context, location *models.Location) (*models.Location, error) {
	location = location.Clone()
	location.Normalize()
	if err := location.Validate(); err != nil {
		return nil, err
	}
	if err := s.wait(ctx); err != nil {
		return nil, err
	}
	if err := s.store.Update(ctx, location); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "location not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to update location")
	}

	s.metrics.IncrementMutation(entity, "update")
	s.emit(ctx, audit.LocationUpdated, location.Key(), "")
	return location, nil
}

// Delete removes a location. Deleting an unknown location succeeds.
func (s *Service) Delete(ctx context.Context, city, state string) error {
	key, err := models.NewKey(city, state)
	if err != nil {
		return err
	}
	if err := s.wait(ctx); err != nil {
		return err
	}
	if err := s.store.Delete(ctx, key); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to delete location")
	}

	s.metrics.IncrementMutation(entity, "delete")
	s.emit(ctx, audit.LocationDeleted, key, "")
	return nil
}

// ToggleDocument flips one entry of the diligence checklist.
func (s *Service) ToggleDocument(ctx context.Context, city, state, document string) (*models.Location, error) {
	if !models.IsKnownDocument(document) {
		return nil, dErrors.New(dErrors.CodeValidation, "unknown document: "+document)
	}
	key, err := models.NewKey(city, state)
	if err != nil {
		return nil, err
	}
	if err := s.wait(ctx); err != nil {
		return nil, err
	}
	location, err := s.store.ToggleDocument(ctx, key, document)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "location not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to update documents")
	}

	s.metrics.IncrementMutation(entity, "update")
	s.emit(ctx, audit.LocationDocumentToggled, key, document)
	return location, nil
}

// Count returns the number of stored locations.
func (s *Service) Count(ctx context.Context) (int, error) {
	n, err := s.store.Count(ctx)
	if err != nil {
		return 0, dErrors.Wrap(err, dErrors.CodeInternal, "failed to count locations")
	}
	return n, nil
}

func (s *Service) wait(ctx context.Context) error {
	if err := s.latency.Wait(ctx); err != nil {
		return dErrors.Wrap(err, dErrors.CodeUnavailable, "request cancelled")
	}
	return nil
}

func (s *Service) emit(ctx context.Context, action audit.Action, key models.Key, detail string) {
	if s.auditPublisher == nil {
		return
	}
	err := s.auditPublisher.Emit(ctx, audit.Event{
		Action:   action,
		Entity:   entity,
		EntityID: key.String(),
		Detail:   detail,
	})
	if err != nil {
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
