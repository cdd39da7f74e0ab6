package report

import (
	"testing"
	"time"
)

// Wednesday, January 10th 2024.
var wednesday = time.Date(2024, 1, 10, 15, 30, 0, 0, time.UTC)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestResolveRangeToday(t *testing.T) {
	r := ResolveRange(Today, wednesday, "", "")
	if !r.Start.Equal(day(2024, 1, 10)) {
		t.Errorf("start = %v", r.Start)
	}
	if r.End.Day() != 10 || r.End.Hour() != 23 || r.End.Minute() != 59 || r.End.Second() != 59 {
		t.Errorf("end = %v", r.End)
	}
}

func TestResolveRangeYesterday(t *testing.T) {
	r := ResolveRange(Yesterday, wednesday, "", "")
	if !r.Start.Equal(day(2024, 1, 9)) {
		t.Errorf("start = %v", r.Start)
	}
	if r.End.Day() != 9 {
		t.Errorf("end = %v", r.End)
	}
}

func TestResolveRangeThisWeek(t *testing.T) {
	r := ResolveRange(ThisWeek, wednesday, "", "")
	if !r.Start.Equal(day(2024, 1, 8)) { // Monday
		t.Errorf("start = %v, want Mon Jan 8", r.Start)
	}
	if r.End.Day() != 14 { // Sunday
		t.Errorf("end = %v, want Sun Jan 14", r.End)
	}
}

func TestResolveRangeThisWeekOnSunday(t *testing.T) {
	// A Sunday belongs to the week that began the previous Monday.
	sunday := time.Date(2024, 1, 14, 9, 0, 0, 0, time.UTC)
	r := ResolveRange(ThisWeek, sunday, "", "")
	if !r.Start.Equal(day(2024, 1, 8)) {
		t.Errorf("start = %v, want Mon Jan 8", r.Start)
	}
}

func TestResolveRangeThisWeekOnMonday(t *testing.T) {
	monday := time.Date(2024, 1, 8, 0, 30, 0, 0, time.UTC)
	r := ResolveRange(ThisWeek, monday, "", "")
	if !r.Start.Equal(day(2024, 1, 8)) {
		t.Errorf("start = %v, want Mon Jan 8", r.Start)
	}
}

func TestResolveRangeLastWeek(t *testing.T) {
	r := ResolveRange(LastWeek, wednesday, "", "")
	if !r.Start.Equal(day(2024, 1, 1)) {
		t.Errorf("start = %v, want Mon Jan 1", r.Start)
	}
	if r.End.Day() != 7 {
		t.Errorf("end = %v, want Sun Jan 7", r.End)
	}
}

func TestResolveRangeMonths(t *testing.T) {
	r := ResolveRange(ThisMonth, wednesday, "", "")
	if !r.Start.Equal(day(2024, 1, 1)) || r.End.Day() != 31 {
		t.Errorf("this month = %v – %v", r.Start, r.End)
	}

	r = ResolveRange(LastMonth, wednesday, "", "")
	if !r.Start.Equal(day(2023, 12, 1)) || r.End.Day() != 31 || r.End.Month() != time.December {
		t.Errorf("last month = %v – %v", r.Start, r.End)
	}
}

func TestResolveRangeCustom(t *testing.T) {
	r := ResolveRange(Custom, wednesday, "2024-01-01", "2024-01-05")
	if !r.Start.Equal(day(2024, 1, 1)) {
		t.Errorf("start = %v", r.Start)
	}
	if r.End.Day() != 5 || r.End.Hour() != 23 {
		t.Errorf("end = %v, want end of Jan 5", r.End)
	}
}

func TestResolveRangeCustomDefaultsToToday(t *testing.T) {
	r := ResolveRange(Custom, wednesday, "", "not-a-date")
	if !r.Start.Equal(day(2024, 1, 10)) {
		t.Errorf("start = %v, want today", r.Start)
	}
	if r.End.Day() != 10 {
		t.Errorf("end = %v, want end of today", r.End)
	}
}

func TestResolveRangeCustomInverted(t *testing.T) {
	// End before start: the range stays as given and matches nothing.
	r := ResolveRange(Custom, wednesday, "2024-01-10", "2024-01-05")
	if r.Contains(day(2024, 1, 7)) {
		t.Error("inverted range must contain nothing")
	}
	if r.Contains(r.Start) {
		t.Error("inverted range must not even contain its own start")
	}
}

func TestResolveRangeUnknownKindFallsBackToThisWeek(t *testing.T) {
	r := ResolveRange(Kind("bogus"), wednesday, "", "")
	want := ResolveRange(ThisWeek, wednesday, "", "")
	if !r.Start.Equal(want.Start) || !r.End.Equal(want.End) {
		t.Errorf("got %v – %v, want this week", r.Start, r.End)
	}
}

func TestRangeContainsBoundaries(t *testing.T) {
	r := ResolveRange(Today, wednesday, "", "")
	if !r.Contains(r.Start) {
		t.Error("start boundary must be inclusive")
	}
	if !r.Contains(r.End) {
		t.Error("end boundary must be inclusive")
	}
	if r.Contains(r.Start.Add(-time.Nanosecond)) {
		t.Error("instant before start must be excluded")
	}
	if r.Contains(r.End.Add(time.Nanosecond)) {
		t.Error("instant after end must be excluded")
	}
}
