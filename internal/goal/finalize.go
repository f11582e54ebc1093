package goal

import "sort"

const (
	topAssistersN = 20
	topGoaliesN   = 20
	topOpponentsN = 10
)

// NameCount is one entry in a ranked breakdown.
type NameCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// Stats is the summary block rebuilt from scratch on every run. Breakdowns
// cover regular-season goals only, matching the dataset's convention.
type Stats struct {
	BySeason    map[string]int `json:"bySeason"`
	ByOpponent  map[string]int `json:"byOpponent"`
	ByGoalType  map[string]int `json:"byGoalType"`
	ByGoalie    map[string]int `json:"byGoalie"`
	ByAnyAssist map[string]int `json:"byAnyAssist"`
	ByShotType  map[string]int `json:"byShotType"`

	TopAssisters []NameCount `json:"topAssisters"`
	TopGoalies   []NameCount `json:"topGoalies"`
	TopOpponents []NameCount `json:"topOpponents"`
}

// Finalize sorts the full merged set, assigns the per-partition goal numbers,
// normalizes derived fields, and rebuilds the aggregate stats. It always runs
// over the entire set, never just the newly added records, so numbering and
// stats stay consistent dataset-wide.
func Finalize(goals []Record) ([]Record, Stats) {
	var regular, playoffs []Record
	for _, g := range goals {
		if g.IsPlayoffs {
			playoffs = append(playoffs, g)
		} else {
			regular = append(regular, g)
		}
	}

	// Stable sort: goals sharing a date keep their prior relative order,
	// which keeps numbering deterministic across runs.
	sort.SliceStable(regular, func(i, j int) bool { return regular[i].GameDate < regular[j].GameDate })
	sort.SliceStable(playoffs, func(i, j int) bool { return playoffs[i].GameDate < playoffs[j].GameDate })

	for i := range regular {
		regular[i].CareerGoalNum = i + 1
		normalize(&regular[i])
	}
	for i := range playoffs {
		playoffs[i].PlayoffGoalNum = i + 1
		normalize(&playoffs[i])
	}

	stats := buildStats(regular)

	out := make([]Record, 0, len(goals))
	out = append(out, regular...)
	out = append(out, playoffs...)
	return out, stats
}

func normalize(g *Record) {
	if g.IsHome && g.AwayTeam != "" {
		g.Opponent = g.AwayTeam
	} else if !g.IsHome && g.HomeTeam != "" {
		g.Opponent = g.HomeTeam
	}
	if g.GoalType == "" {
		g.GoalType = TypeUnknown
	}
}

// tally counts names while remembering first-encounter order so that ranking
// ties break deterministically.
type tally struct {
	counts map[string]int
	order  []string
}

func newTally() *tally {
	return &tally{counts: make(map[string]int)}
}

func (t *tally) add(name string) {
	if name == "" {
		return
	}
	if _, ok := t.counts[name]; !ok {
		t.order = append(t.order, name)
	}
	t.counts[name]++
}

func (t *tally) top(n int) []NameCount {
	ranked := make([]NameCount, 0, len(t.order))
	for _, name := range t.order {
		ranked = append(ranked, NameCount{Name: name, Count: t.counts[name]})
	}
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].Count > ranked[j].Count })
	if len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}

func buildStats(regular []Record) Stats {
	bySeason := newTally()
	byOpponent := newTally()
	byGoalType := newTally()
	byGoalie := newTally()
	byAnyAssist := newTally()
	byShotType := newTally()

	for _, g := range regular {
		bySeason.add(g.SeasonDisplay)
		byOpponent.add(g.Opponent)
		byGoalType.add(g.GoalType)
		byGoalie.add(g.GoalieName)
		byAnyAssist.add(g.PrimaryAssist)
		byAnyAssist.add(g.SecondaryAssist)
		byShotType.add(g.ShotType)
	}

	return Stats{
		BySeason:    bySeason.counts,
		ByOpponent:  byOpponent.counts,
		ByGoalType:  byGoalType.counts,
		ByGoalie:    byGoalie.counts,
		ByAnyAssist: byAnyAssist.counts,
		ByShotType:  byShotType.counts,

		TopAssisters: byAnyAssist.top(topAssistersN),
		TopGoalies:   byGoalie.top(topGoaliesN),
		TopOpponents: byOpponent.top(topOpponentsN),
	}
}
