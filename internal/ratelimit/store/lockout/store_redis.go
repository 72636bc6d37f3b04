package lockout

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"practiceadmin/internal/ratelimit/models"
)

const keyPrefix = "lockout:"

// RedisStore shares counters between server instances. Each record expires
// with its window or lock.
type RedisStore struct {
	client *redis.Client
}

func NewRedis(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) Get(ctx context.Context, key string) (*models.Lockout, error) {
	raw, err := s.client.Get(ctx, keyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get lockout: %w", err)
	}
	var rec models.Lockout
	if err := json.Unmarshal(raw, &rec); err != nil {
		return nil, fmt.Errorf("decode lockout: %w", err)
	}
	return &rec, nil
}

func (s *RedisStore) Save(ctx context.Context, record *models.Lockout, ttl time.Duration) error {
	if record == nil || record.Key == "" {
		return errKeyRequired
	}
	raw, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("encode lockout: %w", err)
	}
	if err := s.client.Set(ctx, keyPrefix+record.Key, raw, ttl).Err(); err != nil {
		return fmt.Errorf("save lockout: %w", err)
	}
	return nil
}

func (s *RedisStore) Clear(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, keyPrefix+key).Err(); err != nil {
		return fmt.Errorf("clear lockout: %w", err)
	}
	return nil
}
