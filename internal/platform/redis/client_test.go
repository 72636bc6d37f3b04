package redis

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"practiceadmin/internal/platform/config"
)

func TestNewDisabledWithoutURL(t *testing.T) {
	c, err := New(context.Background(), config.RedisConfig{})
	require.NoError(t, err)
	assert.Nil(t, c)
}

func TestNewRejectsBadURL(t *testing.T) {
	_, err := New(context.Background(), config.RedisConfig{URL: "http://not-redis"})
	assert.ErrorContains(t, err, "parse redis URL")
}

func TestApplyPool(t *testing.T) {
	opts, err := redis.ParseURL("redis://localhost:6379/0?pool_size=3&dial_timeout=1s")
	require.NoError(t, err)

	applyPool(opts, config.RedisConfig{MinIdleConns: 2, ReadTimeout: 2 * time.Second})
	assert.Equal(t, 3, opts.PoolSize, "zero keeps the URL value")
	assert.Equal(t, time.Second, opts.DialTimeout)
	assert.Equal(t, 2, opts.MinIdleConns)
	assert.Equal(t, 2*time.Second, opts.ReadTimeout)
}
