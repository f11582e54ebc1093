// Package config loads collector configuration by layering defaults, an
// optional YAML file, and OVI_-prefixed environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Cache backends.
const (
	BackendFile  = "file"
	BackendRedis = "redis"
)

// Config is the collector's process configuration.
type Config struct {
	LogLevel string `koanf:"log_level"`

	// Tracked player identity.
	PlayerID   int    `koanf:"player_id"`
	PlayerName string `koanf:"player_name"`
	TeamAbbrev string `koanf:"team_abbrev"`

	// Upstream API.
	BaseURL string `koanf:"base_url"`

	// Persisted state layout.
	DataDir       string `koanf:"data_dir"`
	DatasetFile   string `koanf:"dataset_file"`
	GoalCacheFile string `koanf:"goal_cache_file"`
	NameCacheFile string `koanf:"name_cache_file"`

	// Retry and pacing knobs, in milliseconds.
	MaxRetries        int `koanf:"max_retries"`
	GameBackoffMS     int `koanf:"game_backoff_ms"`
	NameBackoffMS     int `koanf:"name_backoff_ms"`
	ServerRetryWaitMS int `koanf:"server_retry_wait_ms"`
	RequestPaceMS     int `koanf:"request_pace_ms"`

	// Cache backend: file (default) or redis.
	CacheBackend string `koanf:"cache_backend"`
	RedisAddr    string `koanf:"redis_addr"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		LogLevel:          "info",
		PlayerID:          8471214,
		PlayerName:        "Alex Ovechkin",
		TeamAbbrev:        "WSH",
		BaseURL:           "https://api-web.nhle.com",
		DataDir:           "data",
		DatasetFile:       "ovechkin_goals_complete.json",
		GoalCacheFile:     "game_goals_cache.json",
		NameCacheFile:     "player_names_cache.json",
		MaxRetries:        3,
		GameBackoffMS:     2000,
		NameBackoffMS:     2000,
		ServerRetryWaitMS: 1500,
		RequestPaceMS:     500,
		CacheBackend:      BackendFile,
		RedisAddr:         "localhost:6379",
	}
}

// Load builds a Config by layering defaults, an optional YAML file, and env
// vars. Order of precedence (low -> high):
//  1. defaults (Default())
//  2. file (YAML), from the path argument or OVI_CONFIG
//  3. env (prefix OVI_)
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if path == "" {
		path = os.Getenv("OVI_CONFIG")
	}
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load config file: %w", err)
		}
	}

	// Environment variables: OVI_DATA_DIR, OVI_MAX_RETRIES, ...
	// Keys keep their underscores to match the koanf tags on the struct.
	envProvider := env.Provider("OVI_", ".", func(s string) string {
		s = strings.ToLower(s)
		return strings.TrimPrefix(s, "ovi_")
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("load env: %w", err)
	}

	cfg := *Default()
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if cfg.CacheBackend != BackendFile && cfg.CacheBackend != BackendRedis {
		return nil, fmt.Errorf("cache_backend must be %q or %q, got %q", BackendFile, BackendRedis, cfg.CacheBackend)
	}
	if cfg.DataDir == "" {
		return nil, errors.New("data_dir must not be empty")
	}
	if cfg.PlayerID <= 0 {
		return nil, errors.New("player_id must be positive")
	}
	return &cfg, nil
}

// GameBackoff returns the 429 backoff base for game/season endpoints.
func (c *Config) GameBackoff() time.Duration {
	return time.Duration(c.GameBackoffMS) * time.Millisecond
}

// NameBackoff returns the 429 backoff base for player-name lookups.
func (c *Config) NameBackoff() time.Duration {
	return time.Duration(c.NameBackoffMS) * time.Millisecond
}

// ServerRetryWait returns the fixed wait applied on 5xx and transport errors.
func (c *Config) ServerRetryWait() time.Duration {
	return time.Duration(c.ServerRetryWaitMS) * time.Millisecond
}

// RequestPace returns the delay between successive non-retried requests.
func (c *Config) RequestPace() time.Duration {
	return time.Duration(c.RequestPaceMS) * time.Millisecond
}
