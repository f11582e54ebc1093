// Command collector fetches the tracked player's goal history from the NHL
// API and maintains the merged dataset consumed by the visualization.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/kck924/ovi/internal/cache"
	"github.com/kck924/ovi/internal/config"
	"github.com/kck924/ovi/internal/goal"
	"github.com/kck924/ovi/internal/names"
	"github.com/kck924/ovi/internal/nhl"
	"github.com/kck924/ovi/internal/pipeline"
)

var (
	cfgPath     string
	fullRefresh bool
)

var rootCmd = &cobra.Command{
	Use:   "collector",
	Short: "collector maintains the Ovechkin goal history dataset from the NHL API.",
}

var collectCmd = &cobra.Command{
	Use:   "collect [--full] [--config <path>]",
	Short: "Fetch new goals and rebuild the merged dataset.",
	RunE:  runCollect,
}

func init() {
	collectCmd.Flags().BoolVar(&fullRefresh, "full", false, "re-fetch the entire career instead of the incremental window")
	collectCmd.Flags().StringVar(&cfgPath, "config", "", "path to a YAML config file (default: OVI_CONFIG env)")
	rootCmd.AddCommand(collectCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runCollect(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	level := slog.LevelInfo
	if err := level.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		level = slog.LevelInfo
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	ctx := cmd.Context()

	// Two concurrent collectors would race on the caches and the output
	// dataset; a lock file enforces single-instance execution.
	unlock, err := acquireLock(filepath.Join(cfg.DataDir, "collector.lock"))
	if err != nil {
		return err
	}
	defer unlock()

	goalKV, nameKV, closeKV, err := openStores(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeKV()

	client := nhl.NewClient(nhl.Options{
		BaseURL:         cfg.BaseURL,
		PlayerID:        cfg.PlayerID,
		MaxRetries:      cfg.MaxRetries,
		GameBackoff:     cfg.GameBackoff(),
		NameBackoff:     cfg.NameBackoff(),
		ServerRetryWait: cfg.ServerRetryWait(),
		Pace:            cfg.RequestPace(),
	})

	sum, err := pipeline.Run(ctx, pipeline.Options{
		Fetcher:     client,
		Resolver:    names.NewResolver(client, cache.NewNameCache(nameKV)),
		Goals:       cache.NewGoalCache(goalKV),
		DatasetPath: filepath.Join(cfg.DataDir, cfg.DatasetFile),
		PlayerName:  cfg.PlayerName,
		PlayerID:    cfg.PlayerID,
		TeamAbbrev:  cfg.TeamAbbrev,
		FullRefresh: fullRefresh,
	})
	if err != nil {
		return err
	}

	printSummary(sum)
	return nil
}

// openStores builds the two cache stores on the configured backend.
func openStores(ctx context.Context, cfg *config.Config) (goalKV, nameKV cache.KV, closeKV func(), err error) {
	if cfg.CacheBackend == config.BackendRedis {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := rdb.Ping(pingCtx).Err(); err != nil {
			rdb.Close()
			return nil, nil, nil, fmt.Errorf("redis ping %s: %w", cfg.RedisAddr, err)
		}
		return cache.NewRedisKV(rdb, cache.GoalHashKey),
			cache.NewRedisKV(rdb, cache.NameHashKey),
			func() { rdb.Close() },
			nil
	}
	return cache.NewFileKV(filepath.Join(cfg.DataDir, cfg.GoalCacheFile)),
		cache.NewFileKV(filepath.Join(cfg.DataDir, cfg.NameCacheFile)),
		func() {},
		nil
}

// acquireLock creates the lock file exclusively; a leftover lock from a
// crashed run must be removed by the operator.
func acquireLock(path string) (func(), error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("mkdir data dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("another collector appears to be running (lock %s): %w", path, err)
	}
	fmt.Fprintf(f, "%d\n", os.Getpid())
	f.Close()
	return func() { os.Remove(path) }, nil
}

func printSummary(sum *pipeline.Summary) {
	fmt.Printf("\nTotal goals: %d (%d new this run, %d cache hits, %d games fetched, %d seasons covered)\n\n",
		sum.TotalGoals, sum.NewGoals, sum.CacheHits, sum.GamesFetched, len(sum.Seasons))

	renderTop("Top Assisters", sum.Stats.TopAssisters, 5)
	renderTop("Top Goalies Scored Against", sum.Stats.TopGoalies, 5)
	renderTop("Top Opponents", sum.Stats.TopOpponents, 5)
}

func renderTop(title string, entries []goal.NameCount, n int) {
	if len(entries) == 0 {
		return
	}
	if len(entries) > n {
		entries = entries[:n]
	}
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetTitle(title)
	t.AppendHeader(table.Row{"#", "Name", "Goals"})
	for i, e := range entries {
		t.AppendRow(table.Row{i + 1, e.Name, e.Count})
	}
	t.Render()
	fmt.Println()
}
