package goal

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Metadata describes the dataset. It is derived entirely from the goal set
// (no wall-clock timestamp) so two runs over identical data write identical
// bytes.
type Metadata struct {
	Player               string `json:"player"`
	PlayerID             int    `json:"playerId"`
	Team                 string `json:"team"`
	Source               string `json:"source"`
	RegularSeasonGoals   int    `json:"regularSeasonGoals"`
	PlayoffGoals         int    `json:"playoffGoals"`
	GoalsWithCoordinates int    `json:"goalsWithCoordinates"`
	LastGameDate         string `json:"lastGameDate,omitempty"`
}

// Dataset is the persisted output consumed by the visualization.
type Dataset struct {
	Metadata Metadata `json:"metadata"`
	Stats    Stats    `json:"stats"`
	Goals    []Record `json:"goals"`
}

// LoadDataset reads a previously written dataset. A missing file returns
// (nil, nil); the caller treats a decode error as "no dataset" too, since the
// pipeline must degrade to a full rebuild rather than crash.
func LoadDataset(path string) (*Dataset, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read dataset: %w", err)
	}
	var ds Dataset
	if err := json.Unmarshal(b, &ds); err != nil {
		return nil, fmt.Errorf("decode dataset: %w", err)
	}
	return &ds, nil
}

// Save writes the dataset with a temp-file rename so the previous output
// stays intact if the write is interrupted.
func (d *Dataset) Save(path string) error {
	b, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal dataset: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return fmt.Errorf("write dataset: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("rename dataset: %w", err)
	}
	return nil
}

// HighWaterMark returns the most recent game date in the set, or "" when the
// set is empty. Dates are YYYY-MM-DD so lexical comparison is date order.
func (d *Dataset) HighWaterMark() string {
	if d == nil {
		return ""
	}
	hwm := ""
	for _, g := range d.Goals {
		if g.GameDate > hwm {
			hwm = g.GameDate
		}
	}
	return hwm
}

// BuildMetadata derives the metadata block from a finalized goal set.
func BuildMetadata(player string, playerID int, team string, goals []Record) Metadata {
	m := Metadata{
		Player:   player,
		PlayerID: playerID,
		Team:     team,
		Source:   "NHL API",
	}
	for _, g := range goals {
		if g.IsPlayoffs {
			m.PlayoffGoals++
		} else {
			m.RegularSeasonGoals++
		}
		if g.XCoord != nil && g.YCoord != nil {
			m.GoalsWithCoordinates++
		}
		if g.GameDate > m.LastGameDate {
			m.LastGameDate = g.GameDate
		}
	}
	return m
}
