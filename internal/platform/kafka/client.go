// Package kafka builds the franz-go client used by the audit stream.
package kafka

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/twmb/franz-go/pkg/kgo"

	"practiceadmin/internal/platform/config"
	strutil "practiceadmin/pkg/platform/strings"
)

// New connects to the configured brokers. It returns nil, nil when no brokers
// are configured so the audit stream stays disabled.
func New(ctx context.Context, cfg config.KafkaConfig, logger *slog.Logger) (*kgo.Client, error) {
	brokers := strutil.Clean(cfg.Brokers)
	if len(brokers) == 0 {
		return nil, nil
	}

	client, err := kgo.NewClient(
		kgo.SeedBrokers(brokers...),
		kgo.DefaultProduceTopic(cfg.AuditTopic),
		kgo.ProducerBatchMaxBytes(1<<20),
		kgo.RecordRetries(5),
		kgo.ProduceRequestTimeout(10*time.Second),
		kgo.WithLogger(kgo.BasicLogger(slogWriter{logger}, kgo.LogLevelWarn, nil)),
	)
	if err != nil {
		return nil, fmt.Errorf("create kafka client: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx); err != nil {
		client.Close()
		return nil, fmt.Errorf("kafka ping failed: %w", err)
	}
	return client, nil
}

// slogWriter forwards franz-go's line logger into slog.
type slogWriter struct {
	logger *slog.Logger
}

func (w slogWriter) Write(p []byte) (int, error) {
	if w.logger != nil {
		w.logger.Warn(string(p), "component", "kafka")
	}
	return len(p), nil
}
