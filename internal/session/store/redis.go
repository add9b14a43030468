package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"lookbook/internal/sentinel"
	"lookbook/internal/session"
	"lookbook/pkg/domain"
)

const sessionKeyPrefix = "lookbook:session:"

// Redis persists session slices in Redis, one JSON value per installation.
type Redis struct {
	client *redis.Client
}

// NewRedis constructs a Redis-backed session store.
func NewRedis(client *redis.Client) *Redis {
	return &Redis{client: client}
}

func (s *Redis) Load(ctx context.Context, id domain.InstallationID) (session.Snapshot, error) {
	raw, err := s.client.Get(ctx, sessionKeyPrefix+id.String()).Result()
	if errors.Is(err, redis.Nil) {
		return session.Snapshot{}, fmt.Errorf("session slice not found: %w", sentinel.ErrNotFound)
	}
	if err != nil {
		return session.Snapshot{}, fmt.Errorf("load session slice: %w", err)
	}

	var snap session.Snapshot
	if err := json.Unmarshal([]byte(raw), &snap); err != nil {
		return session.Snapshot{}, fmt.Errorf("decode session slice: %w", err)
	}
	return snap, nil
}

func (s *Redis) Save(ctx context.Context, id domain.InstallationID, snap session.Snapshot) error {
	snap.AuthReady = false
	raw, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encode session slice: %w", err)
	}
	if err := s.client.Set(ctx, sessionKeyPrefix+id.String(), raw, 0).Err(); err != nil {
		return fmt.Errorf("save session slice: %w", err)
	}
	return nil
}

func (s *Redis) Purge(ctx context.Context, id domain.InstallationID) error {
	if err := s.client.Del(ctx, sessionKeyPrefix+id.String()).Err(); err != nil {
		return fmt.Errorf("purge session slice: %w", err)
	}
	return nil
}
