package cache

import (
	"context"
	"encoding/json"
	"log/slog"
	"strconv"

	"github.com/kck924/ovi/internal/goal"
)

// GoalCache maps a game ID to the goals already extracted from that game's
// play-by-play. A non-empty entry is immutable; the pipeline only bypasses it
// for games on the high-water-mark date.
type GoalCache struct {
	kv KV
}

func NewGoalCache(kv KV) *GoalCache {
	return &GoalCache{kv: kv}
}

// Get returns the cached goal list for a game. Empty lists report a miss so
// a game that previously decoded to nothing is fetched again.
func (c *GoalCache) Get(ctx context.Context, gameID int) ([]goal.Record, bool) {
	raw, ok, err := c.kv.Get(ctx, strconv.Itoa(gameID))
	if err != nil {
		slog.Warn("goal cache get failed", "game_id", gameID, "error", err)
		return nil, false
	}
	if !ok {
		return nil, false
	}
	var recs []goal.Record
	if err := json.Unmarshal(raw, &recs); err != nil {
		slog.Warn("goal cache entry unparseable", "game_id", gameID, "error", err)
		return nil, false
	}
	if len(recs) == 0 {
		return nil, false
	}
	return recs, true
}

func (c *GoalCache) Put(ctx context.Context, gameID int, recs []goal.Record) error {
	b, err := json.Marshal(recs)
	if err != nil {
		return err
	}
	return c.kv.Put(ctx, strconv.Itoa(gameID), b)
}

func (c *GoalCache) Persist(ctx context.Context) error {
	return c.kv.Persist(ctx)
}
