package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/twmb/franz-go/pkg/kgo"

	"practiceadmin/internal/audit"
	authhandler "practiceadmin/internal/auth/handler"
	authservice "practiceadmin/internal/auth/service"
	"practiceadmin/internal/auth/store/revocation"
	"practiceadmin/internal/dashboard"
	"practiceadmin/internal/fixture"
	httpapi "practiceadmin/internal/http"
	jwttoken "practiceadmin/internal/jwt_token"
	locationhandler "practiceadmin/internal/location/handler"
	locationmodels "practiceadmin/internal/location/models"
	locationservice "practiceadmin/internal/location/service"
	locationstore "practiceadmin/internal/location/store"
	"practiceadmin/internal/platform/config"
	"practiceadmin/internal/platform/database"
	"practiceadmin/internal/platform/kafka"
	"practiceadmin/internal/platform/latency"
	"practiceadmin/internal/platform/metrics"
	redisclient "practiceadmin/internal/platform/redis"
	preferencehandler "practiceadmin/internal/preference/handler"
	preferenceservice "practiceadmin/internal/preference/service"
	preferencestore "practiceadmin/internal/preference/store"
	lockoutservice "practiceadmin/internal/ratelimit/service/lockout"
	lockoutstore "practiceadmin/internal/ratelimit/store/lockout"
	userhandler "practiceadmin/internal/user/handler"
	usermodels "practiceadmin/internal/user/models"
	userservice "practiceadmin/internal/user/service"
	userstore "practiceadmin/internal/user/store"
)

const (
	auditBufferSize   = 4096
	recentAuditEvents = 500
)

type locationStore interface {
	locationservice.Store
	fixture.LocationWriter
}

type userStore interface {
	userservice.Store
	fixture.UserWriter
}

// app owns everything main has to start and stop.
type app struct {
	handler    http.Handler
	auditQueue *audit.AsyncSink
	closers    []func() error
}

func (a *app) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		errs = append(errs, a.closers[i]())
	}
	return errors.Join(errs...)
}

// buildApp connects the configured backends and assembles the router.
func buildApp(ctx context.Context, cfg config.Server, logger *slog.Logger, reg prometheus.Registerer, gatherer prometheus.Gatherer) (_ *app, err error) {
	a := &app{}
	defer func() {
		if err != nil {
			_ = a.Close()
		}
	}()

	m := metrics.New(reg)
	lat := latency.New(cfg.Latency.Simulated)
	checks := map[string]httpapi.HealthCheck{}

	var (
		locations   locationStore
		users       userStore
		db          *database.DB
		revocations authservice.RevocationList
		preferences preferenceservice.Store
		lockouts    lockoutservice.Store
	)

	switch cfg.Storage.Driver {
	case config.DriverMemory:
		locations = locationstore.NewInMemoryStore()
		users = userstore.NewInMemoryStore()
	default:
		db, err = database.Open(ctx, cfg.Storage)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, db.Close)
		checks["database"] = db.PingContext
		locations = locationstore.NewSQL(db)
		users = userstore.NewSQL(db)
	}
	if cfg.Storage.Seed {
		if err := seedIfEmpty(ctx, locations, users, logger); err != nil {
			return nil, err
		}
	}

	rc, err := redisclient.New(ctx, cfg.Redis)
	if err != nil {
		return nil, err
	}
	switch {
	case rc != nil:
		a.closers = append(a.closers, rc.Close)
		checks["redis"] = rc.Health
		preferences = preferencestore.NewRedisStore(rc.Client)
		revocations = revocation.NewRedisTRL(rc.Client, revocation.WithCheckDuration(m.RevocationCheck))
		lockouts = lockoutstore.NewRedis(rc.Client)
	case db != nil:
		preferences = preferencestore.NewInMemoryStore()
		revocations = revocation.NewSQLTRL(db)
		lockouts = lockoutstore.NewInMemory()
	default:
		preferences = preferencestore.NewInMemoryStore()
		revocations = revocation.NewInMemoryTRL()
		lockouts = lockoutstore.NewInMemory()
	}

	recent := audit.NewMemorySink(recentAuditEvents)
	sinks := []audit.Sink{recent, audit.NewLogSink(logger)}
	kc, err := kafka.New(ctx, cfg.Kafka, logger)
	if err != nil {
		return nil, err
	}
	if kc != nil {
		a.closers = append(a.closers, closeKafka(kc))
		if err := audit.EnsureTopic(ctx, kc, cfg.Kafka.AuditTopic); err != nil {
			return nil, err
		}
		a.auditQueue = audit.NewAsyncSink(audit.NewKafkaSink(kc, cfg.Kafka.AuditTopic), auditBufferSize, logger,
			audit.WithQueueMetrics(m))
		sinks = append(sinks, a.auditQueue)
	}
	publisher := audit.NewPublisher(sinks, audit.WithLogger(logger), audit.WithMetrics(m))

	prefSvc, err := preferenceservice.New(preferences,
		preferenceservice.WithScope(locationservice.PreferenceScope, locationmodels.GroupKeys),
		preferenceservice.WithScope(userservice.PreferenceScope, usermodels.GroupKeys),
		preferenceservice.WithLogger(logger),
		preferenceservice.WithAuditPublisher(publisher),
	)
	if err != nil {
		return nil, err
	}

	locSvc, err := locationservice.New(locations,
		locationservice.WithLogger(logger),
		locationservice.WithAuditPublisher(publisher),
		locationservice.WithMetrics(m),
		locationservice.WithPreferences(prefSvc),
		locationservice.WithLatency(lat),
	)
	if err != nil {
		return nil, err
	}

	userSvc, err := userservice.New(users,
		userservice.WithLogger(logger),
		userservice.WithAuditPublisher(publisher),
		userservice.WithMetrics(m),
		userservice.WithPreferences(prefSvc),
		userservice.WithLatency(lat),
	)
	if err != nil {
		return nil, err
	}

	dashSvc, err := dashboard.NewService(locSvc, userSvc, lat)
	if err != nil {
		return nil, err
	}

	lockoutSvc, err := lockoutservice.New(lockouts,
		lockoutservice.WithConfig(lockoutservice.Config{
			Attempts:     cfg.Lockout.Attempts,
			Window:       cfg.Lockout.Window,
			LockDuration: cfg.Lockout.LockDuration,
		}),
		lockoutservice.WithLogger(logger),
		lockoutservice.WithAuditPublisher(publisher),
	)
	if err != nil {
		return nil, err
	}

	authSvc, err := authservice.New(
		authservice.Credential{Email: cfg.Auth.AdminEmail, Name: cfg.Auth.AdminName, Password: cfg.Auth.AdminPassword},
		jwttoken.NewJWTService(cfg.Auth.JWTSigningKey, cfg.Auth.Issuer),
		revocations,
		authservice.WithSessionTTL(cfg.Auth.SessionTTL),
		authservice.WithLogger(logger),
		authservice.WithAuditPublisher(publisher),
		authservice.WithMetrics(m),
		authservice.WithLockout(lockoutSvc),
	)
	if err != nil {
		return nil, err
	}
	authH := authhandler.New(authSvc, logger)

	a.handler = httpapi.NewRouter(httpapi.Config{
		Logger:         logger,
		Metrics:        m,
		MetricsHandler: promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}),
		Authenticator:  authSvc,
		RequestTimeout: cfg.RequestTimeout,
		HealthChecks:   checks,
		Public:         []httpapi.PublicRegistrar{authH},
		Protected: []httpapi.Registrar{
			authH,
			dashboard.NewHandler(dashSvc, logger),
			locationhandler.New(locSvc, logger),
			userhandler.New(userSvc, logger),
			preferencehandler.New(prefSvc, logger),
			audit.NewHandler(recent),
		},
	})
	return a, nil
}

// seedIfEmpty loads the demo records into empty stores only, so restarts
// never resurrect deleted rows.
func seedIfEmpty(ctx context.Context, locations locationStore, users userStore, logger *slog.Logger) error {
	nl, err := locations.Count(ctx)
	if err != nil {
		return fmt.Errorf("count locations: %w", err)
	}
	nu, err := users.Count(ctx)
	if err != nil {
		return fmt.Errorf("count users: %w", err)
	}
	if nl > 0 || nu > 0 {
		return nil
	}
	res, err := fixture.Default().Apply(ctx, locations, users)
	if err != nil {
		return err
	}
	logger.InfoContext(ctx, "seeded demo records",
		"locations", res.LocationsCreated,
		"users", res.UsersCreated,
	)
	return nil
}

func closeKafka(client *kgo.Client) func() error {
	return func() error {
		client.Close()
		return nil
	}
}
