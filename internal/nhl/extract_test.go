package nhl

import (
	"testing"

	"github.com/kck924/ovi/internal/goal"
)

func f64(v float64) *float64 { return &v }

func goalPlay(scorer int, period int, clock, periodType, situation string) Play {
	p := Play{
		TypeDescKey:   "goal",
		TimeInPeriod:  clock,
		SituationCode: situation,
		Details: &PlayDetails{
			ScoringPlayerID: scorer,
		},
	}
	p.PeriodDescriptor.Number = period
	p.PeriodDescriptor.PeriodType = periodType
	return p
}

func TestExtractGoals_ShootoutExcluded(t *testing.T) {
	pbp := &GamePlayByPlay{
		ID:       2023020500,
		GameDate: "2023-12-01",
		HomeTeam: TeamRef{Abbrev: "WSH"},
		AwayTeam: TeamRef{Abbrev: "PIT"},
		Plays: []Play{
			goalPlay(OvechkinPlayerID, 2, "04:35", "REG", "1551"),
			goalPlay(OvechkinPlayerID, 5, "00:00", "SO", "0101"),
		},
	}
	recs := ExtractGoals(pbp, OvechkinPlayerID, CapitalsAbbrev, false)
	if len(recs) != 1 {
		t.Fatalf("len = %d; want 1 (shootout goal excluded)", len(recs))
	}
	if recs[0].Period != 2 {
		t.Errorf("kept the wrong goal: %+v", recs[0])
	}
}

func TestExtractGoals_OtherScorerExcluded(t *testing.T) {
	pbp := &GamePlayByPlay{
		ID:       1,
		GameDate: "2023-12-01",
		HomeTeam: TeamRef{Abbrev: "WSH"},
		AwayTeam: TeamRef{Abbrev: "PIT"},
		Plays: []Play{
			goalPlay(8477493, 1, "10:00", "REG", "1551"), // teammate's goal
			{TypeDescKey: "shot-on-goal", Details: &PlayDetails{ScoringPlayerID: OvechkinPlayerID}},
			{TypeDescKey: "goal"}, // no details at all
		},
	}
	if recs := ExtractGoals(pbp, OvechkinPlayerID, CapitalsAbbrev, false); len(recs) != 0 {
		t.Errorf("len = %d; want 0", len(recs))
	}
}

func TestExtractGoals_OptionalFieldsBestEffort(t *testing.T) {
	play := goalPlay(OvechkinPlayerID, 1, "12:42", "REG", "")
	// No coordinates, no shot type, no goalie, no assists: the goal is still
	// recorded with those fields absent.
	pbp := &GamePlayByPlay{
		ID:       2,
		GameDate: "2005-10-05",
		HomeTeam: TeamRef{Abbrev: "ANA"},
		AwayTeam: TeamRef{Abbrev: "WSH"},
		Plays:    []Play{play},
	}
	recs := ExtractGoals(pbp, OvechkinPlayerID, CapitalsAbbrev, false)
	if len(recs) != 1 {
		t.Fatalf("len = %d; want 1", len(recs))
	}
	r := recs[0]
	if r.XCoord != nil || r.YCoord != nil || r.ShotType != "" || r.GoalieID != 0 || r.Assist1ID != 0 {
		t.Errorf("optional fields should be absent: %+v", r)
	}
	if r.GoalType != goal.TypeUnknown {
		t.Errorf("goalType = %q; want unknown without situation data", r.GoalType)
	}
	if r.IsHome {
		t.Error("WSH was the away team")
	}
	if r.Opponent != "ANA" {
		t.Errorf("opponent = %q; want ANA", r.Opponent)
	}
	if r.Season != 2006 || r.SeasonDisplay != "2005-06" {
		t.Errorf("season = %d %q", r.Season, r.SeasonDisplay)
	}
}

func TestExtractGoals_FullDetails(t *testing.T) {
	play := goalPlay(OvechkinPlayerID, 3, "19:59", "REG", "1551")
	play.Details.XCoord = f64(61)
	play.Details.YCoord = f64(-22)
	play.Details.ShotType = "wrist"
	play.Details.GoalieInNetID = 8470594
	play.Details.Assist1PlayerID = 8473563
	play.Details.Assist2PlayerID = 8474590
	pbp := &GamePlayByPlay{
		ID:       3,
		GameDate: "2024-01-15",
		HomeTeam: TeamRef{Abbrev: "WSH"},
		AwayTeam: TeamRef{Abbrev: "NYR"},
		Plays:    []Play{play},
	}
	recs := ExtractGoals(pbp, OvechkinPlayerID, CapitalsAbbrev, true)
	if len(recs) != 1 {
		t.Fatalf("len = %d; want 1", len(recs))
	}
	r := recs[0]
	if *r.XCoord != 61 || *r.YCoord != -22 || r.ShotType != "wrist" {
		t.Errorf("shot fields = %+v", r)
	}
	if r.GoalieID != 8470594 || r.Assist1ID != 8473563 || r.Assist2ID != 8474590 {
		t.Errorf("id fields = %+v", r)
	}
	if !r.IsPlayoffs {
		t.Error("playoffs flag not carried from caller")
	}
	if !r.IsHome || r.Opponent != "NYR" {
		t.Errorf("home/opponent = %v %q", r.IsHome, r.Opponent)
	}
	if r.Key() != "3_3_19:59" {
		t.Errorf("key = %q", r.Key())
	}
}

func TestGoalTypeFromSituation(t *testing.T) {
	cases := []struct {
		code       string
		scorerHome bool
		want       string
	}{
		{"1551", true, goal.TypeEvenStrength},
		{"1451", true, goal.TypePowerPlay},    // home 5 skaters vs away 4
		{"1541", true, goal.TypeShorthanded},  // home 4 vs away 5
		{"1451", false, goal.TypeShorthanded}, // away scorer, 4 vs 5
		{"0551", true, goal.TypeEmptyNet},     // away net empty, home scorer
		{"1550", false, goal.TypeEmptyNet},    // home net empty, away scorer
		{"", true, goal.TypeUnknown},
		{"15", true, goal.TypeUnknown},
		{"15x1", true, goal.TypeUnknown},
	}
	for _, tc := range cases {
		if got := goalTypeFromSituation(tc.code, tc.scorerHome); got != tc.want {
			t.Errorf("goalTypeFromSituation(%q, %v) = %q; want %q", tc.code, tc.scorerHome, got, tc.want)
		}
	}
}
