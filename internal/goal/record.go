// Package goal holds the goal record model, the dedup/merge engine, and the
// aggregation pass that numbers goals and rebuilds summary stats.
package goal

import "fmt"

// Goal type categories. Unknown is used when the play's situation code is
// missing or malformed; we never guess even-strength.
const (
	TypeEvenStrength = "even-strength"
	TypePowerPlay    = "power-play"
	TypeShorthanded  = "shorthanded"
	TypeEmptyNet     = "empty-net"
	TypeUnknown      = "unknown"
)

// Record is one scoring event by the tracked player. Created once during
// extraction; only resolved names and numbering are attached afterwards.
type Record struct {
	GameID        int    `json:"gameId"`
	GameDate      string `json:"date"` // YYYY-MM-DD
	Season        int    `json:"season"`
	SeasonDisplay string `json:"seasonDisplay"`
	Period        int    `json:"period"`
	Time          string `json:"time"` // clock within the period, e.g. "04:35"

	HomeTeam string `json:"homeTeam,omitempty"`
	AwayTeam string `json:"awayTeam,omitempty"`
	IsHome   bool   `json:"isHome"`
	Opponent string `json:"opponent"`

	XCoord   *float64 `json:"xCoord,omitempty"`
	YCoord   *float64 `json:"yCoord,omitempty"`
	ShotType string   `json:"shotType,omitempty"`
	GoalType string   `json:"goalType"`

	GoalieID   int    `json:"goalieId,omitempty"`
	GoalieName string `json:"goalieName,omitempty"`

	Assist1ID       int    `json:"assist1Id,omitempty"`
	PrimaryAssist   string `json:"primaryAssist,omitempty"`
	Assist2ID       int    `json:"assist2Id,omitempty"`
	SecondaryAssist string `json:"secondaryAssist,omitempty"`

	IsPlayoffs bool `json:"isPlayoffs"`

	CareerGoalNum  int `json:"careerGoalNum,omitempty"`
	PlayoffGoalNum int `json:"playoffGoalNum,omitempty"`
}

// Key is the composite natural key used for deduplication. Two fetches of the
// same goal always produce the same key. Assumes a player cannot score twice
// in the same game, period, and clock second.
func (r Record) Key() string {
	return fmt.Sprintf("%d_%d_%s", r.GameID, r.Period, r.Time)
}
