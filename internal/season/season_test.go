package season

import (
	"testing"
	"time"
)

func TestEndingYear(t *testing.T) {
	cases := []struct {
		date string
		want int
	}{
		{"2005-10-05", 2006}, // October belongs to the season ending next year
		{"2005-12-31", 2006},
		{"2006-01-01", 2006}, // January belongs to the season already underway
		{"2006-04-18", 2006},
		{"2006-08-31", 2006},
		{"2006-09-01", 2007},
		{"2024-03-15", 2024},
		{"2024-11-01", 2025},
	}
	for _, tc := range cases {
		got, err := EndingYear(tc.date)
		if err != nil {
			t.Fatalf("EndingYear(%q): %v", tc.date, err)
		}
		if got != tc.want {
			t.Errorf("EndingYear(%q) = %d; want %d", tc.date, got, tc.want)
		}
	}
}

func TestEndingYear_Invalid(t *testing.T) {
	if _, err := EndingYear("not-a-date"); err == nil {
		t.Fatal("expected error for malformed date")
	}
}

func TestID_Display(t *testing.T) {
	if got := ID(2006); got != "20052006" {
		t.Errorf("ID(2006) = %q; want 20052006", got)
	}
	if got := Display(2006); got != "2005-06" {
		t.Errorf("Display(2006) = %q; want 2005-06", got)
	}
	if got := Display(2010); got != "2009-10" {
		t.Errorf("Display(2010) = %q; want 2009-10", got)
	}
}

func TestSelect_Incremental(t *testing.T) {
	now := time.Date(2024, 11, 1, 12, 0, 0, 0, time.UTC)
	got := Select("2024-03-15", now, false)
	want := []string{"20232024", "20242025"}
	if len(got) != len(want) {
		t.Fatalf("Select = %v; want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Select[%d] = %q; want %q", i, got[i], want[i])
		}
	}
}

func TestSelect_FullRefresh(t *testing.T) {
	now := time.Date(2025, 4, 6, 0, 0, 0, 0, time.UTC)
	got := Select("2024-03-15", now, true)
	if len(got) != 20 { // seasons ending 2006 through 2025
		t.Fatalf("len(Select) = %d; want 20", len(got))
	}
	if got[0] != "20052006" || got[len(got)-1] != "20242025" {
		t.Errorf("Select range = %q..%q", got[0], got[len(got)-1])
	}
}

func TestSelect_NoWatermark(t *testing.T) {
	now := time.Date(2024, 11, 1, 0, 0, 0, 0, time.UTC)
	got := Select("", now, false)
	if len(got) == 0 || got[0] != "20052006" {
		t.Fatalf("empty watermark should select the full history, got %v", got)
	}
}

func TestInWindow(t *testing.T) {
	if InWindow("2024-03-14", "2024-03-15", false) {
		t.Error("date before watermark should be out of window")
	}
	if !InWindow("2024-03-15", "2024-03-15", false) {
		t.Error("watermark date itself must stay in window")
	}
	if !InWindow("2024-03-16", "2024-03-15", false) {
		t.Error("date after watermark should be in window")
	}
	if !InWindow("2006-01-01", "2024-03-15", true) {
		t.Error("full refresh keeps every date in window")
	}
}

func TestOnWatermark(t *testing.T) {
	if !OnWatermark("2024-03-15", "2024-03-15") {
		t.Error("exact watermark date should match")
	}
	if OnWatermark("2024-03-16", "2024-03-15") {
		t.Error("non-watermark date should not match")
	}
	if OnWatermark("2024-03-15", "") {
		t.Error("empty watermark never matches")
	}
}
