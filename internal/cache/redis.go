package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// Redis hash keys for the two pipeline caches.
const (
	GoalHashKey = "ovi:game_goals"
	NameHashKey = "ovi:player_names"
)

// RedisKV stores entries in a single Redis hash. Writes go through
// immediately, so Persist is a no-op.
type RedisKV struct {
	client  *redis.Client
	hashKey string
}

// NewRedisKV returns a store backed by the given hash.
func NewRedisKV(client *redis.Client, hashKey string) *RedisKV {
	return &RedisKV{client: client, hashKey: hashKey}
}

func (kv *RedisKV) Get(ctx context.Context, key string) (json.RawMessage, bool, error) {
	v, err := kv.client.HGet(ctx, kv.hashKey, key).Result()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("hget %s/%s: %w", kv.hashKey, key, err)
	}
	return json.RawMessage(v), true, nil
}

func (kv *RedisKV) Put(ctx context.Context, key string, value json.RawMessage) error {
	if err := kv.client.HSet(ctx, kv.hashKey, key, string(value)).Err(); err != nil {
		return fmt.Errorf("hset %s/%s: %w", kv.hashKey, key, err)
	}
	return nil
}

func (kv *RedisKV) Persist(context.Context) error { return nil }
