package nhl

import (
	"github.com/kck924/ovi/internal/goal"
	"github.com/kck924/ovi/internal/season"
)

// periodTypeShootout marks shootout "periods"; shootout goals are not
// regulation or overtime scoring and are never recorded.
const periodTypeShootout = "SO"

// ExtractGoals maps a raw play-by-play payload to the tracked player's goal
// records. Optional fields (coordinates, shot type, goalie, assists) are
// best-effort; a missing field never drops the goal.
func ExtractGoals(pbp *GamePlayByPlay, playerID int, teamAbbrev string, playoffs bool) []goal.Record {
	if pbp == nil {
		return nil
	}
	isHome := pbp.HomeTeam.Abbrev == teamAbbrev
	opponent := pbp.HomeTeam.Abbrev
	if isHome {
		opponent = pbp.AwayTeam.Abbrev
	}
	endingYear := 0
	if y, err := season.EndingYear(pbp.GameDate); err == nil {
		endingYear = y
	}

	var recs []goal.Record
	for _, play := range pbp.Plays {
		if play.TypeDescKey != "goal" || play.Details == nil {
			continue
		}
		if play.Details.ScoringPlayerID != playerID {
			continue
		}
		if play.PeriodDescriptor.PeriodType == periodTypeShootout {
			continue
		}
		r := goal.Record{
			GameID:     pbp.ID,
			GameDate:   pbp.GameDate,
			Period:     play.PeriodDescriptor.Number,
			Time:       play.TimeInPeriod,
			HomeTeam:   pbp.HomeTeam.Abbrev,
			AwayTeam:   pbp.AwayTeam.Abbrev,
			IsHome:     isHome,
			Opponent:   opponent,
			XCoord:     play.Details.XCoord,
			YCoord:     play.Details.YCoord,
			ShotType:   play.Details.ShotType,
			GoalType:   goalTypeFromSituation(play.SituationCode, isHome),
			GoalieID:   play.Details.GoalieInNetID,
			Assist1ID:  play.Details.Assist1PlayerID,
			Assist2ID:  play.Details.Assist2PlayerID,
			IsPlayoffs: playoffs,
		}
		if endingYear != 0 {
			r.Season = endingYear
			r.SeasonDisplay = season.Display(endingYear)
		}
		recs = append(recs, r)
	}
	return recs
}

// goalTypeFromSituation derives the goal type from the 4-digit situation
// code: away goalie, away skaters, home skaters, home goalie. A missing or
// malformed code yields "unknown" rather than a guessed even-strength.
func goalTypeFromSituation(code string, scorerHome bool) string {
	if len(code) != 4 {
		return goal.TypeUnknown
	}
	for _, ch := range code {
		if ch < '0' || ch > '9' {
			return goal.TypeUnknown
		}
	}
	awayGoalie := code[0] != '0'
	awaySkaters := int(code[1] - '0')
	homeSkaters := int(code[2] - '0')
	homeGoalie := code[3] != '0'

	forSkaters, againstSkaters := awaySkaters, homeSkaters
	oppGoalieIn := homeGoalie
	if scorerHome {
		forSkaters, againstSkaters = homeSkaters, awaySkaters
		oppGoalieIn = awayGoalie
	}

	if !oppGoalieIn {
		return goal.TypeEmptyNet
	}
	switch {
	case forSkaters > againstSkaters:
		return goal.TypePowerPlay
	case forSkaters < againstSkaters:
		return goal.TypeShorthanded
	default:
		return goal.TypeEvenStrength
	}
}
