package revocation

import (
	"context"
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
)

const revokedTokenKeyPrefix = "trl:jti:"

// RedisTRL shares revocation state between server instances. Keys expire with
// the token so the list never outgrows the live session set.
type RedisTRL struct {
	client    *redis.Client
	checkTime prometheus.Observer
}

type RedisTRLOption func(*RedisTRL)

// WithCheckDuration records IsRevoked latency in seconds.
func WithCheckDuration(o prometheus.Observer) RedisTRLOption {
	return func(t *RedisTRL) {
		t.checkTime = o
	}
}

func NewRedisTRL(client *redis.Client, opts ...RedisTRLOption) *RedisTRL {
	trl := &RedisTRL{client: client}
	for _, opt := range opts {
		if opt != nil {
			opt(trl)
		}
	}
	return trl
}

func (t *RedisTRL) RevokeToken(ctx context.Context, jti string, ttl time.Duration) error {
	if jti == "" {
		return nil
	}
	if err := validateTTL(ttl); err != nil {
		return err
	}
	return t.client.Set(ctx, revokedTokenKeyPrefix+jti, "1", ttl).Err()
}

func (t *RedisTRL) IsRevoked(ctx context.Context, jti string) (bool, error) {
	if t.checkTime != nil {
		start := time.Now()
		defer func() {
			t.checkTime.Observe(time.Since(start).Seconds())
		}()
	}
	if jti == "" {
		return false, nil
	}
	err := t.client.Get(ctx, revokedTokenKeyPrefix+jti).Err()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
