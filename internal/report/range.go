package report

import "time"

// Kind names a reporting period.
type Kind string

const (
	Today     Kind = "today"
	Yesterday Kind = "yesterday"
	ThisWeek  Kind = "thisWeek"
	LastWeek  Kind = "lastWeek"
	ThisMonth Kind = "thisMonth"
	LastMonth Kind = "lastMonth"
	Custom    Kind = "custom"
)

// Range is an inclusive [Start, End] pair. A range whose end precedes
// its start is valid and simply matches nothing.
type Range struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether t falls inside the range, boundaries
// included.
func (r Range) Contains(t time.Time) bool {
	return !t.Before(r.Start) && !t.After(r.End)
}

const customDateLayout = "2006-01-02"

// ResolveRange turns a period name into concrete instants relative to
// today. Weeks start on Monday. Custom ranges take "2006-01-02" date
// strings; a missing boundary defaults to today, and the end boundary
// is pushed to the end of its day so a same-day range is non-empty.
func ResolveRange(kind Kind, today time.Time, customStart, customEnd string) Range {
	day := startOfDay(today)

	switch kind {
	case Today:
		return Range{Start: day, End: endOfDay(day)}
	case Yesterday:
		y := day.AddDate(0, 0, -1)
		return Range{Start: y, End: endOfDay(y)}
	case LastWeek:
		monday := startOfWeek(day).AddDate(0, 0, -7)
		return Range{Start: monday, End: endOfDay(monday.AddDate(0, 0, 6))}
	case ThisMonth:
		first := time.Date(day.Year(), day.Month(), 1, 0, 0, 0, 0, day.Location())
		return Range{Start: first, End: endOfDay(first.AddDate(0, 1, -1))}
	case LastMonth:
		first := time.Date(day.Year(), day.Month(), 1, 0, 0, 0, 0, day.Location()).AddDate(0, -1, 0)
		return Range{Start: first, End: endOfDay(first.AddDate(0, 1, -1))}
	case Custom:
		start := day
		if t, err := time.ParseInLocation(customDateLayout, customStart, today.Location()); err == nil {
			start = t
		}
		end := day
		if t, err := time.ParseInLocation(customDateLayout, customEnd, today.Location()); err == nil {
			end = t
		}
		return Range{Start: start, End: endOfDay(end)}
	default: // ThisWeek
		monday := startOfWeek(day)
		return Range{Start: monday, End: endOfDay(monday.AddDate(0, 0, 6))}
	}
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func endOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, int(time.Second-time.Nanosecond), t.Location())
}

// startOfWeek returns the Monday 00:00:00 of t's week.
func startOfWeek(t time.Time) time.Time {
	day := startOfDay(t)
	weekday := int(day.Weekday())
	if weekday == 0 { // Sunday belongs to the week that started six days ago
		weekday = 7
	}
	return day.AddDate(0, 0, -(weekday - 1))
}
