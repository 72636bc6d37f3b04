//go:build integration

package lockout

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"practiceadmin/internal/ratelimit/models"
	"practiceadmin/pkg/testutil/containers"
)

func TestRedisStore(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	ctx := context.Background()
	rc := containers.GetManager().GetRedis(t)
	require.NoError(t, rc.FlushAll(ctx))

	store := NewRedis(rc.Client)
	until := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, store.Save(ctx, &models.Lockout{Key: "signin:a:b", Failures: 5, LockedUntil: &until}, 15*time.Minute))

	rec, err := store.Get(ctx, "signin:a:b")
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, 5, rec.Failures)
	assert.True(t, until.Equal(*rec.LockedUntil))

	ttl, err := rc.Client.TTL(ctx, keyPrefix+"signin:a:b").Result()
	require.NoError(t, err)
	assert.InDelta(t, (15 * time.Minute).Seconds(), ttl.Seconds(), 5)

	require.NoError(t, store.Clear(ctx, "signin:a:b"))
	rec, err = store.Get(ctx, "signin:a:b")
	require.NoError(t, err)
	assert.Nil(t, rec)
}
