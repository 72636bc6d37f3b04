// Package audit records admin actions. Services emit events to a Publisher,
// which stamps request metadata and fans out to every configured Sink.
package audit

import (
	"context"
	"errors"
	"log/slog"

	"practiceadmin/internal/auth/device"
	"practiceadmin/internal/platform/metrics"
	"practiceadmin/pkg/requestcontext"
)

// Sink persists or forwards audit events.
type Sink interface {
	Name() string
	Write(ctx context.Context, e Event) error
}

// Publisher fans events out to sinks. A failing sink never blocks the others.
type Publisher struct {
	sinks   []Sink
	logger  *slog.Logger
	metrics *metrics.Metrics
}

type Option func(*Publisher)

func WithLogger(logger *slog.Logger) Option {
	return func(p *Publisher) {
		p.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(p *Publisher) {
		p.metrics = m
	}
}

func NewPublisher(sinks []Sink, opts ...Option) *Publisher {
	p := &Publisher{sinks: sinks}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Emit enriches e from ctx and writes it to every sink. The returned error
// joins the failures of individual sinks.
func (p *Publisher) Emit(ctx context.Context, e Event) error {
	if e.Timestamp.IsZero() {
		e.Timestamp = requestcontext.Now(ctx)
	}
	if e.RequestID == "" {
		e.RequestID = requestcontext.RequestID(ctx)
	}
	if e.Actor == "" {
		if u, ok := requestcontext.Principal(ctx); ok {
			e.Actor = u.Email
		}
	}
	if e.ClientIP == "" {
		e.ClientIP = requestcontext.ClientIP(ctx)
	}
	if e.UserAgent == "" {
		e.UserAgent = requestcontext.UserAgent(ctx)
	}
	if e.UserAgent != "" && e.Browser == "" {
		info := device.Parse(e.UserAgent)
		e.Browser, e.OS = info.Browser, info.OS
	}

	var errs []error
	for _, sink := range p.sinks {
		if err := sink.Write(ctx, e); err != nil {
			p.metrics.IncrementAudit(sink.Name(), "error")
			if p.logger != nil {
				p.logger.ErrorContext(ctx, "audit sink failed",
					"sink", sink.Name(),
					"action", e.Action,
					"request_id", e.RequestID,
					"error", err,
				)
			}
			errs = append(errs, err)
			continue
		}
		p.metrics.IncrementAudit(sink.Name(), "ok")
	}
	return errors.Join(errs...)
}
