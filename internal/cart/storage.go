package cart

import (
	"context"
	"errors"
	"fmt"

	"github.com/kibidoart/kibido-backend/pkg/config"
	"github.com/kibidoart/kibido-backend/pkg/redis"
)

// RedisStorage persists serialized carts in redis, one key per session, with
// a sliding TTL so abandoned carts eventually expire.
type RedisStorage struct {
	client *redis.Client
	cfg    config.CartConfig
}

// NewRedisStorage wraps the shared redis client as cart storage.
func NewRedisStorage(client *redis.Client, cfg config.CartConfig) (*RedisStorage, error) {
	if client == nil {
		return nil, fmt.Errorf("redis client required")
	}
	return &RedisStorage{client: client, cfg: cfg}, nil
}

func (r *RedisStorage) Get(ctx context.Context, key string) (string, bool, error) {
	value, err := r.client.Get(ctx, key)
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", false, nil
		}
		return "", false, err
	}
	return value, true, nil
}

func (r *RedisStorage) Set(ctx context.Context, key string, value string) error {
	return r.client.Set(ctx, key, value, r.cfg.SessionTTL)
}

// Key returns the namespaced cart key for a session.
func (r *RedisStorage) Key(sessionID string) string {
	return r.client.CartKey(sessionID)
}

// Drop removes a session's persisted cart entirely.
func (r *RedisStorage) Drop(ctx context.Context, sessionID string) error {
	return r.client.Del(ctx, r.client.CartKey(sessionID))
}
