package kafka

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"practiceadmin/internal/platform/config"
)

func TestNewWithoutBrokersIsDisabled(t *testing.T) {
	client, err := New(context.Background(), config.KafkaConfig{AuditTopic: "audit"}, slog.Default())
	require.NoError(t, err)
	assert.Nil(t, client)
}

func TestSlogWriterForwardsLines(t *testing.T) {
	var buf bytes.Buffer
	w := slogWriter{logger: slog.New(slog.NewTextHandler(&buf, nil))}

	n, err := w.Write([]byte("broker unreachable"))
	require.NoError(t, err)
	assert.Equal(t, len("broker unreachable"), n)
	assert.Contains(t, buf.String(), "component=kafka")
}
