package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"lookbook/internal/sentinel"
)

const prefsKeyPrefix = "lookbook:prefs:"

// Redis persists preference items in Redis.
type Redis struct {
	client *redis.Client
}

// NewRedis constructs a Redis-backed preference store.
func NewRedis(client *redis.Client) *Redis {
	return &Redis{client: client}
}

func (s *Redis) GetItem(ctx context.Context, key string) (string, error) {
	v, err := s.client.Get(ctx, prefsKeyPrefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return "", fmt.Errorf("item %q not found: %w", key, sentinel.ErrNotFound)
	}
	if err != nil {
		return "", fmt.Errorf("read item %q: %w", key, err)
	}
	return v, nil
}

func (s *Redis) SetItem(ctx context.Context, key, value string) error {
	if err := s.client.Set(ctx, prefsKeyPrefix+key, value, 0).Err(); err != nil {
		return fmt.Errorf("write item %q: %w", key, err)
	}
	return nil
}

func (s *Redis) DeleteItem(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, prefsKeyPrefix+key).Err(); err != nil {
		return fmt.Errorf("delete item %q: %w", key, err)
	}
	return nil
}
