// Package nhl talks to the NHL API: per-season game logs, per-game
// play-by-play, and player lookups, with bounded retry and request pacing.
package nhl

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

const (
	OvechkinPlayerID = 8471214
	CapitalsAbbrev   = "WSH"

	DefaultBaseURL = "https://api-web.nhle.com"

	gameLogPathFmt    = "/v1/player/%d/game-log/%s/%d" // playerID, seasonID, gameTypeID
	playByPlayPathFmt = "/v1/gamecenter/%d/play-by-play"
	landingPathFmt    = "/v1/player/%d/landing"

	GameTypeRegular  = 2
	GameTypePlayoffs = 3
)

// ErrExhaustedRetries is returned when a request still fails after the full
// retry budget. Callers log it and skip the unit of work; it never aborts a
// run.
var ErrExhaustedRetries = errors.New("retries exhausted")

// endpoint classes carry different 429 backoff bases: player documents are
// small and their rate limit is believed laxer.
type endpointClass int

const (
	classGame endpointClass = iota
	className
)

// Options configures a Client. Zero values get defaults.
type Options struct {
	BaseURL         string
	PlayerID        int
	HTTPClient      *http.Client
	MaxRetries      int           // retries beyond the initial attempt
	GameBackoff     time.Duration // 429 backoff base for game/season endpoints
	NameBackoff     time.Duration // 429 backoff base for name lookups
	ServerRetryWait time.Duration // fixed wait on 5xx or transport errors
	Pace            time.Duration // delay between successive non-retried requests

	// Sleep is injectable for tests; nil means a context-aware time.Sleep.
	Sleep func(context.Context, time.Duration) error
}

// Client fetches from the NHL API with retry/backoff and inter-request
// pacing. Not safe for concurrent use; the pipeline is single-threaded
// because the upstream rate limit would serialize it anyway.
type Client struct {
	httpClient      *http.Client
	baseURL         string
	playerID        int
	maxRetries      int
	gameBackoff     time.Duration
	nameBackoff     time.Duration
	serverRetryWait time.Duration
	pace            time.Duration
	sleep           func(context.Context, time.Duration) error
	lastRequest     time.Time
}

// NewClient returns a client with defaults applied for any zero option.
func NewClient(opts Options) *Client {
	c := &Client{
		httpClient:      opts.HTTPClient,
		baseURL:         opts.BaseURL,
		playerID:        opts.PlayerID,
		maxRetries:      opts.MaxRetries,
		gameBackoff:     opts.GameBackoff,
		nameBackoff:     opts.NameBackoff,
		serverRetryWait: opts.ServerRetryWait,
		pace:            opts.Pace,
		sleep:           opts.Sleep,
	}
	if c.httpClient == nil {
		c.httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	if c.baseURL == "" {
		c.baseURL = DefaultBaseURL
	}
	if c.playerID == 0 {
		c.playerID = OvechkinPlayerID
	}
	if c.maxRetries == 0 {
		c.maxRetries = 3
	}
	if c.gameBackoff == 0 {
		c.gameBackoff = 2000 * time.Millisecond
	}
	if c.nameBackoff == 0 {
		c.nameBackoff = 2000 * time.Millisecond
	}
	if c.serverRetryWait == 0 {
		c.serverRetryWait = 1500 * time.Millisecond
	}
	if c.sleep == nil {
		c.sleep = func(ctx context.Context, d time.Duration) error {
			t := time.NewTimer(d)
			defer t.Stop()
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-t.C:
				return nil
			}
		}
	}
	return c
}

func (c *Client) backoffBase(class endpointClass) time.Duration {
	if class == className {
		return c.nameBackoff
	}
	return c.gameBackoff
}

// fetchWithPolicy runs one logical request with bounded retries: linear
// backoff on 429, fixed wait on 5xx or transport errors, immediate failure on
// any other non-2xx status. Pacing applies once per logical request, before
// the initial attempt.
func (c *Client) fetchWithPolicy(ctx context.Context, url string, class endpointClass) ([]byte, error) {
	if c.pace > 0 && !c.lastRequest.IsZero() {
		if d := c.pace - time.Since(c.lastRequest); d > 0 {
			if err := c.sleep(ctx, d); err != nil {
				return nil, err
			}
		}
	}

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		c.lastRequest = time.Now()
		body, status, err := c.doOnce(ctx, url)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			slog.Warn("request failed", "url", url, "attempt", attempt, "error", err)
			if werr := c.sleep(ctx, c.serverRetryWait); werr != nil {
				return nil, werr
			}
			continue
		}
		switch {
		case status == http.StatusOK:
			return body, nil
		case status == http.StatusTooManyRequests:
			wait := time.Duration(attempt+1) * c.backoffBase(class)
			slog.Warn("rate limited", "url", url, "attempt", attempt, "wait", wait.String())
			if werr := c.sleep(ctx, wait); werr != nil {
				return nil, werr
			}
		case status >= http.StatusInternalServerError:
			slog.Warn("server error", "url", url, "status", status, "attempt", attempt)
			if werr := c.sleep(ctx, c.serverRetryWait); werr != nil {
				return nil, werr
			}
		default:
			return nil, fmt.Errorf("nhl api status %d", status)
		}
	}
	return nil, fmt.Errorf("%s: %w", url, ErrExhaustedRetries)
}

func (c *Client) doOnce(ctx context.Context, url string) ([]byte, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "ovi-collector/1.0")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, fmt.Errorf("read body: %w", err)
	}
	return body, resp.StatusCode, nil
}

// GameSummary is one game-log entry in which the player scored. Ephemeral:
// consumed by the window selector to decide which games need a full fetch.
type GameSummary struct {
	GameID   int
	Date     string
	Goals    int
	Opponent string
}

// GameLog fetches the player's game log for a season and game type, filtered
// to games with at least one goal.
func (c *Client) GameLog(ctx context.Context, seasonID string, gameType int) ([]GameSummary, error) {
	url := c.baseURL + fmt.Sprintf(gameLogPathFmt, c.playerID, seasonID, gameType)
	body, err := c.fetchWithPolicy(ctx, url, classGame)
	if err != nil {
		return nil, fmt.Errorf("game log %s type %d: %w", seasonID, gameType, err)
	}
	var out struct {
		GameLog []struct {
			GameID         int    `json:"gameId"`
			GameDate       string `json:"gameDate"`
			OpponentAbbrev string `json:"opponentAbbrev"`
			Goals          int    `json:"goals"`
		} `json:"gameLog"`
	}
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("decode game log: %w", err)
	}
	var summaries []GameSummary
	for _, g := range out.GameLog {
		if g.Goals <= 0 {
			continue
		}
		summaries = append(summaries, GameSummary{
			GameID:   g.GameID,
			Date:     g.GameDate,
			Goals:    g.Goals,
			Opponent: g.OpponentAbbrev,
		})
	}
	return summaries, nil
}

// TeamRef is a team reference in the play-by-play payload.
type TeamRef struct {
	Abbrev string `json:"abbrev"`
}

// PlayDetails carries the goal-relevant fields of a play. All optional
// upstream; absence never drops the goal.
type PlayDetails struct {
	ScoringPlayerID int      `json:"scoringPlayerId"`
	XCoord          *float64 `json:"xCoord"`
	YCoord          *float64 `json:"yCoord"`
	ShotType        string   `json:"shotType"`
	GoalieInNetID   int      `json:"goalieInNetId"`
	Assist1PlayerID int      `json:"assist1PlayerId"`
	Assist2PlayerID int      `json:"assist2PlayerId"`
}

// Play is one play event.
type Play struct {
	TypeDescKey      string `json:"typeDescKey"`
	PeriodDescriptor struct {
		Number     int    `json:"number"`
		PeriodType string `json:"periodType"`
	} `json:"periodDescriptor"`
	TimeInPeriod  string       `json:"timeInPeriod"`
	SituationCode string       `json:"situationCode"`
	Details       *PlayDetails `json:"details"`
}

// GamePlayByPlay is the raw per-game payload goal extraction consumes.
type GamePlayByPlay struct {
	ID       int     `json:"id"`
	GameDate string  `json:"gameDate"`
	HomeTeam TeamRef `json:"homeTeam"`
	AwayTeam TeamRef `json:"awayTeam"`
	Plays    []Play  `json:"plays"`
}

// PlayByPlay fetches the full play-by-play for a game.
func (c *Client) PlayByPlay(ctx context.Context, gameID int) (*GamePlayByPlay, error) {
	url := c.baseURL + fmt.Sprintf(playByPlayPathFmt, gameID)
	body, err := c.fetchWithPolicy(ctx, url, classGame)
	if err != nil {
		return nil, fmt.Errorf("play-by-play %d: %w", gameID, err)
	}
	var pbp GamePlayByPlay
	if err := json.Unmarshal(body, &pbp); err != nil {
		return nil, fmt.Errorf("decode play-by-play %d: %w", gameID, err)
	}
	if pbp.ID == 0 {
		pbp.ID = gameID
	}
	return &pbp, nil
}

// PlayerName fetches a player's landing document and returns the trimmed
// display name. A response without both name components returns "" with no
// error, so the caller can skip without caching the miss.
func (c *Client) PlayerName(ctx context.Context, playerID int) (string, error) {
	url := c.baseURL + fmt.Sprintf(landingPathFmt, playerID)
	body, err := c.fetchWithPolicy(ctx, url, className)
	if err != nil {
		return "", fmt.Errorf("player %d: %w", playerID, err)
	}
	var landing struct {
		FirstName struct {
			Default string `json:"default"`
		} `json:"firstName"`
		LastName struct {
			Default string `json:"default"`
		} `json:"lastName"`
	}
	if err := json.Unmarshal(body, &landing); err != nil {
		return "", fmt.Errorf("decode player %d: %w", playerID, err)
	}
	first := strings.TrimSpace(landing.FirstName.Default)
	last := strings.TrimSpace(landing.LastName.Default)
	if first == "" || last == "" {
		return "", nil
	}
	return first + " " + last, nil
}
