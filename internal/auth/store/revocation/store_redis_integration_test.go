//go:build integration

package revocation

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"practiceadmin/pkg/testutil/containers"
)

func TestRedisTRL(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	ctx := context.Background()
	rc := containers.GetManager().GetRedis(t)
	require.NoError(t, rc.FlushAll(ctx))

	hist := prometheus.NewHistogram(prometheus.HistogramOpts{Name: "trl_check_seconds"})
	trl := NewRedisTRL(rc.Client, WithCheckDuration(hist))

	require.NoError(t, trl.RevokeToken(ctx, "jti-1", time.Hour))

	revoked, err := trl.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, revoked)

	revoked, err = trl.IsRevoked(ctx, "jti-2")
	require.NoError(t, err)
	assert.False(t, revoked)

	ttl, err := rc.Client.TTL(ctx, revokedTokenKeyPrefix+"jti-1").Result()
	require.NoError(t, err)
	assert.InDelta(t, time.Hour.Seconds(), ttl.Seconds(), 5)

	assert.Equal(t, 1, testutil.CollectAndCount(hist))
}
