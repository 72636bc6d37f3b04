package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/errgroup"

	"practiceadmin/internal/platform/config"
	"practiceadmin/internal/platform/httpserver"
	"practiceadmin/internal/platform/logger"
)

// main wires dependencies and runs the HTTP server until SIGINT or SIGTERM.
// Business logic lives in the internal service packages.
func main() {
	cfg, err := config.FromEnv()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	log := logger.New(cfg.Log)

	if err := run(cfg, log); err != nil {
		log.Error("server stopped with error", "error", err)
		os.Exit(1)
	}
}

func run(cfg config.Server, log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := buildApp(ctx, cfg, log, prometheus.DefaultRegisterer, prometheus.DefaultGatherer)
	if err != nil {
		return err
	}
	defer func() {
		if err := a.Close(); err != nil {
			log.Warn("failed to release resources", "error", err)
		}
	}()

	srv := httpserver.New(cfg.Addr, a.handler, cfg.RequestTimeout)
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info("starting practiceadmin",
			"addr", cfg.Addr,
			"storage", cfg.Storage.Driver,
			"redis", cfg.Redis.URL != "",
			"kafka", len(cfg.Kafka.Brokers) > 0,
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	// The audit queue outlives gctx so events from requests that are still
	// draining get delivered; it stops once the server has shut down.
	queueCtx, stopQueue := context.WithCancel(context.Background())
	defer stopQueue()
	if a.auditQueue != nil {
		g.Go(func() error {
			return a.auditQueue.Run(queueCtx)
		})
	}

	g.Go(func() error {
		defer stopQueue()
		<-gctx.Done()
		log.Info("shutting down", "timeout", cfg.ShutdownTimeout)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
