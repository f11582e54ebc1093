package cache

import (
	"context"
	"encoding/json"
	"log/slog"
	"strconv"
)

// NameCache maps a numeric player ID to a resolved display name. Identities
// don't change, so entries never expire and are never refetched once set.
type NameCache struct {
	kv KV
}

func NewNameCache(kv KV) *NameCache {
	return &NameCache{kv: kv}
}

func (c *NameCache) Get(ctx context.Context, playerID int) (string, bool) {
	raw, ok, err := c.kv.Get(ctx, strconv.Itoa(playerID))
	if err != nil {
		slog.Warn("name cache get failed", "player_id", playerID, "error", err)
		return "", false
	}
	if !ok {
		return "", false
	}
	var name string
	if err := json.Unmarshal(raw, &name); err != nil || name == "" {
		return "", false
	}
	return name, true
}

func (c *NameCache) Put(ctx context.Context, playerID int, name string) error {
	b, err := json.Marshal(name)
	if err != nil {
		return err
	}
	return c.kv.Put(ctx, strconv.Itoa(playerID), b)
}

func (c *NameCache) Persist(ctx context.Context) error {
	return c.kv.Persist(ctx)
}
