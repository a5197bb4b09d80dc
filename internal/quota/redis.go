package quota

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// stateTTL exceeds one day so a record survives until its next daily reset,
// then lets idle keys expire on their own.
const stateTTL = 48 * time.Hour

const keyPrefix = "quota:"

// RedisStore persists quota state in Redis, one JSON document per key.
type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) Get(ctx context.Context, key string) (*State, error) {
	raw, err := s.client.Get(ctx, keyPrefix+key).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("quota state read: %w", err)
	}

	var st State
	if err := json.Unmarshal([]byte(raw), &st); err != nil {
		return nil, fmt.Errorf("quota state decode: %w", err)
	}
	return &st, nil
}

func (s *RedisStore) Set(ctx context.Context, key string, state *State) error {
	raw, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("quota state encode: %w", err)
	}
	if err := s.client.Set(ctx, keyPrefix+key, raw, stateTTL).Err(); err != nil {
		return fmt.Errorf("quota state write: %w", err)
	}
	return nil
}

func (s *RedisStore) Clear(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, keyPrefix+key).Err(); err != nil {
		return fmt.Errorf("quota state delete: %w", err)
	}
	return nil
}
