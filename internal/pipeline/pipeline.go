// Package pipeline orchestrates a collection run: window selection, fetching,
// extraction, merge, name resolution, and the final aggregation pass.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/kck924/ovi/internal/cache"
	"github.com/kck924/ovi/internal/goal"
	"github.com/kck924/ovi/internal/names"
	"github.com/kck924/ovi/internal/nhl"
	"github.com/kck924/ovi/internal/season"
)

// Fetcher is the slice of the NHL client the pipeline needs; satisfied by
// *nhl.Client and by fakes in tests.
type Fetcher interface {
	GameLog(ctx context.Context, seasonID string, gameType int) ([]nhl.GameSummary, error)
	PlayByPlay(ctx context.Context, gameID int) (*nhl.GamePlayByPlay, error)
}

// Options wires the pipeline. All stores are injected so runs are testable
// without the filesystem or the network.
type Options struct {
	Fetcher     Fetcher
	Resolver    *names.Resolver
	Goals       *cache.GoalCache
	DatasetPath string

	PlayerName  string
	PlayerID    int
	TeamAbbrev  string
	FullRefresh bool

	// Now is injectable for window-selection tests; nil means time.Now.
	Now func() time.Time
}

// Summary reports what a run did.
type Summary struct {
	Seasons      []string
	TotalGoals   int
	NewGoals     int
	CacheHits    int
	GamesFetched int
	Stats        goal.Stats
}

var gameTypes = []int{nhl.GameTypeRegular, nhl.GameTypePlayoffs}

// Run executes one collection pass. Per-game and per-season failures are
// logged and skipped; only the inability to write the final dataset is an
// error. The previous output stays intact until the new one is complete.
func Run(ctx context.Context, opts Options) (*Summary, error) {
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	existing, err := goal.LoadDataset(opts.DatasetPath)
	if err != nil {
		slog.Warn("existing dataset unreadable, rebuilding from scratch", "path", opts.DatasetPath, "error", err)
		existing = nil
	}
	var existingGoals []goal.Record
	if existing != nil {
		existingGoals = existing.Goals
	}
	hwm := existing.HighWaterMark()

	seasons := season.Select(hwm, now(), opts.FullRefresh)
	slog.Info("run starting",
		"mode", mode(opts.FullRefresh),
		"high_water_mark", hwm,
		"seasons", len(seasons),
		"existing_goals", len(existingGoals))

	sum := &Summary{Seasons: seasons}
	var batch []goal.Record

	for _, seasonID := range seasons {
		if ctx.Err() != nil {
			slog.Warn("run interrupted, merging what was collected", "reason", ctx.Err())
			break
		}
		for _, gameType := range gameTypes {
			recs := collectSeason(ctx, opts, sum, seasonID, gameType, hwm)
			batch = append(batch, recs...)
		}
	}

	merged, added := goal.Merge(existingGoals, batch)
	slog.Info("merge complete", "candidates", len(batch), "added", added)

	if opts.Resolver != nil {
		opts.Resolver.ResolveRecords(ctx, merged[len(existingGoals):])
	}

	numbered, stats := goal.Finalize(merged)

	ds := &goal.Dataset{
		Metadata: goal.BuildMetadata(opts.PlayerName, opts.PlayerID, opts.TeamAbbrev, numbered),
		Stats:    stats,
		Goals:    numbered,
	}
	if err := ds.Save(opts.DatasetPath); err != nil {
		return nil, fmt.Errorf("save dataset: %w", err)
	}

	sum.TotalGoals = len(numbered)
	sum.NewGoals = added
	sum.Stats = stats
	slog.Info("run complete",
		"total_goals", sum.TotalGoals,
		"new_goals", sum.NewGoals,
		"cache_hits", sum.CacheHits,
		"games_fetched", sum.GamesFetched)
	return sum, nil
}

// collectSeason fetches one season/game-type partition and returns the goal
// records for every game inside the incremental window.
func collectSeason(ctx context.Context, opts Options, sum *Summary, seasonID string, gameType int, hwm string) []goal.Record {
	summaries, err := opts.Fetcher.GameLog(ctx, seasonID, gameType)
	if err != nil {
		slog.Warn("game log fetch failed, skipping season partition",
			"season", seasonID, "game_type", gameType, "error", err)
		return nil
	}

	var recs []goal.Record
	hits, fetched := 0, 0
	for _, g := range summaries {
		if !season.InWindow(g.Date, hwm, opts.FullRefresh) {
			continue
		}
		// Games on the watermark date always refetch: a same-day goal in a
		// different game may not be in cache yet.
		force := !opts.FullRefresh && season.OnWatermark(g.Date, hwm)
		if !force {
			if cached, ok := opts.Goals.Get(ctx, g.GameID); ok {
				recs = append(recs, cached...)
				hits++
				continue
			}
		}

		pbp, err := opts.Fetcher.PlayByPlay(ctx, g.GameID)
		if err != nil {
			slog.Warn("play-by-play fetch failed, skipping game",
				"game_id", g.GameID, "date", g.Date, "error", err)
			continue
		}
		extracted := nhl.ExtractGoals(pbp, opts.PlayerID, opts.TeamAbbrev, gameType == nhl.GameTypePlayoffs)
		fetched++

		if err := opts.Goals.Put(ctx, g.GameID, extracted); err != nil {
			slog.Warn("goal cache put failed", "game_id", g.GameID, "error", err)
		} else if err := opts.Goals.Persist(ctx); err != nil {
			slog.Warn("goal cache persist failed", "game_id", g.GameID, "error", err)
		}
		recs = append(recs, extracted...)
	}

	sum.CacheHits += hits
	sum.GamesFetched += fetched
	if len(summaries) > 0 {
		slog.Info("season partition collected",
			"season", seasonID,
			"game_type", gameType,
			"scoring_games", len(summaries),
			"cache_hits", hits,
			"fetched", fetched,
			"goals", len(recs))
	}
	return recs
}

func mode(full bool) string {
	if full {
		return "full-refresh"
	}
	return "incremental"
}
