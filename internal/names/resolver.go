// Package names resolves numeric player IDs to display names through a
// persisted cache, only hitting the API on true misses.
package names

import (
	"context"
	"log/slog"

	"github.com/kck924/ovi/internal/cache"
	"github.com/kck924/ovi/internal/goal"
)

// persistEvery bounds how many resolved names an interrupted run can lose.
const persistEvery = 25

// Fetcher is the remote lookup; satisfied by *nhl.Client.
type Fetcher interface {
	PlayerName(ctx context.Context, playerID int) (string, error)
}

// Resolver is a cache-first name lookup. Successful lookups are cached
// permanently; failures are not cached so a future run can retry them.
type Resolver struct {
	fetcher Fetcher
	cache   *cache.NameCache
	pending int
}

func NewResolver(fetcher Fetcher, nc *cache.NameCache) *Resolver {
	return &Resolver{fetcher: fetcher, cache: nc}
}

// Resolve returns the display name for a player ID, consulting the cache
// before the network.
func (r *Resolver) Resolve(ctx context.Context, playerID int) (string, bool) {
	if playerID == 0 {
		return "", false
	}
	if name, ok := r.cache.Get(ctx, playerID); ok {
		return name, true
	}
	name, err := r.fetcher.PlayerName(ctx, playerID)
	if err != nil {
		slog.Warn("name lookup failed", "player_id", playerID, "error", err)
		return "", false
	}
	if name == "" {
		slog.Warn("name lookup returned no usable name", "player_id", playerID)
		return "", false
	}
	if err := r.cache.Put(ctx, playerID, name); err != nil {
		slog.Warn("name cache put failed", "player_id", playerID, "error", err)
	}
	r.pending++
	if r.pending >= persistEvery {
		r.persist(ctx)
	}
	return name, true
}

// ResolveRecords fills in goalie and assist names for the given records,
// typically just the goals added by the current run. IDs are deduplicated
// first so each is looked up at most once.
func (r *Resolver) ResolveRecords(ctx context.Context, recs []goal.Record) {
	var ids []int
	seen := make(map[int]struct{})
	collect := func(id int) {
		if id == 0 {
			return
		}
		if _, ok := seen[id]; ok {
			return
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	for _, g := range recs {
		collect(g.GoalieID)
		collect(g.Assist1ID)
		collect(g.Assist2ID)
	}

	resolved := make(map[int]string, len(ids))
	for _, id := range ids {
		if name, ok := r.Resolve(ctx, id); ok {
			resolved[id] = name
		}
	}
	r.persist(ctx)

	for i := range recs {
		if name, ok := resolved[recs[i].GoalieID]; ok {
			recs[i].GoalieName = name
		}
		if name, ok := resolved[recs[i].Assist1ID]; ok {
			recs[i].PrimaryAssist = name
		}
		if name, ok := resolved[recs[i].Assist2ID]; ok {
			recs[i].SecondaryAssist = name
		}
	}
}

func (r *Resolver) persist(ctx context.Context) {
	if r.pending == 0 {
		return
	}
	if err := r.cache.Persist(ctx); err != nil {
		slog.Warn("name cache persist failed", "error", err)
		return
	}
	r.pending = 0
}
