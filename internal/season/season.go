// Package season maps calendar dates to NHL seasons and selects the fetch
// window for incremental runs.
package season

import (
	"fmt"
	"time"
)

// EarliestEndingYear is the first season of Ovechkin's career (2005-06).
// Enumeration starts here on a full refresh. The 2004-05 lockout needs no
// special case: seasons are enumerated by ending year from this point on.
const EarliestEndingYear = 2006

// EndingYear returns the ending year of the season containing the given
// YYYY-MM-DD date: September through December belong to the season ending
// the following year, January through August to the season ending that year.
func EndingYear(date string) (int, error) {
	t, err := time.Parse("2006-01-02", date)
	if err != nil {
		return 0, fmt.Errorf("parse date %q: %w", date, err)
	}
	return EndingYearAt(t), nil
}

// EndingYearAt is EndingYear for an already-parsed time.
func EndingYearAt(t time.Time) int {
	if t.Month() >= time.September {
		return t.Year() + 1
	}
	return t.Year()
}

// ID returns the API season identifier for an ending year, e.g. 2006 ->
// "20052006".
func ID(endingYear int) string {
	return fmt.Sprintf("%d%d", endingYear-1, endingYear)
}

// Display returns the human form for an ending year, e.g. 2006 -> "2005-06".
func Display(endingYear int) string {
	return fmt.Sprintf("%d-%02d", endingYear-1, endingYear%100)
}

// Select returns the ordered season IDs to fetch. Full-refresh mode (or an
// empty watermark) covers the whole career; incremental mode starts at the
// season containing the high-water-mark date, which bounds the window to the
// current season plus whatever season straddles the watermark.
func Select(highWaterMark string, now time.Time, full bool) []string {
	start := EarliestEndingYear
	if !full && highWaterMark != "" {
		if y, err := EndingYear(highWaterMark); err == nil && y > start {
			start = y
		}
	}
	current := EndingYearAt(now)

	var ids []string
	for y := start; y <= current; y++ {
		ids = append(ids, ID(y))
	}
	return ids
}

// InWindow reports whether a game on the given date must be processed. Full
// refresh processes everything; incremental mode only dates at or after the
// watermark.
func InWindow(date, highWaterMark string, full bool) bool {
	if full || highWaterMark == "" {
		return true
	}
	return date >= highWaterMark
}

// OnWatermark reports whether the game falls exactly on the high-water-mark
// date. Such games bypass the goal cache: a same-day goal in a different game
// may not be reflected in cache yet.
func OnWatermark(date, highWaterMark string) bool {
	return highWaterMark != "" && date == highWaterMark
}
