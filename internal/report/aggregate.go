package report

import (
	"sort"
	"time"

	"github.com/tempo-tracker/tempo/internal/store"
)

// AllProjects is the identity project filter.
const AllProjects = "all"

// NoProjectID is the synthetic bucket for records without a project.
const (
	NoProjectID    = "no-project"
	noProjectName  = "No Project"
	noProjectColor = "#9CA3AF"
)

// ProjectSummary is one row of the by-project breakdown.
type ProjectSummary struct {
	ProjectID  string
	Name       string
	Color      string
	Seconds    int64
	Percentage int
}

// DayBreakdown is one row of the by-day breakdown.
type DayBreakdown struct {
	Date    time.Time
	Seconds int64
	Entries int
}

// Result is a full aggregation pass over one filtered snapshot.
type Result struct {
	Range               Range
	TotalSeconds        int64
	EntryCount          int
	ProjectCount        int
	DailyAverageSeconds int64
	ByProject           []ProjectSummary
	ByDay               []DayBreakdown
}

// FilterByRange keeps records whose start time falls inside the range,
// boundaries inclusive. A record with no start time is treated as
// starting now.
func FilterByRange(records []store.TimeRecord, r Range, now time.Time) []store.TimeRecord {
	var out []store.TimeRecord
	for _, rec := range records {
		t := rec.StartTime
		if t.IsZero() {
			t = now
		}
		if r.Contains(t) {
			out = append(out, rec)
		}
	}
	return out
}

// FilterByProject keeps records with an exact project match. The
// AllProjects sentinel keeps everything; the NoProjectID sentinel
// keeps unassigned records.
func FilterByProject(records []store.TimeRecord, projectID string) []store.TimeRecord {
	if projectID == AllProjects || projectID == "" {
		return records
	}
	var out []store.TimeRecord
	for _, rec := range records {
		id := rec.ProjectID
		if id == "" {
			id = NoProjectID
		}
		if id == projectID {
			out = append(out, rec)
		}
	}
	return out
}

// TotalSeconds sums ResolveSeconds over all records. Deliberately not
// memoized: running entries grow every second, so callers recompute on
// each tick.
func TotalSeconds(records []store.TimeRecord, now time.Time) int64 {
	var total int64
	for _, rec := range records {
		total += ResolveSeconds(rec, now)
	}
	return total
}

// SummarizeByProject groups records by project and computes each
// group's share of the grand total. Rows are ordered by percentage
// descending; ties keep first-seen order. Percentages are rounded per
// row, so they need not sum to exactly 100.
func SummarizeByProject(records []store.TimeRecord, projects []store.Project, now time.Time) []ProjectSummary {
	groups := make(map[string][]store.TimeRecord)
	var order []string
	for _, rec := range records {
		id := rec.ProjectID
		if id == "" {
			id = NoProjectID
		}
		if _, seen := groups[id]; !seen {
			order = append(order, id)
		}
		groups[id] = append(groups[id], rec)
	}

	grandTotal := TotalSeconds(records, now)

	byID := make(map[string]store.Project, len(projects))
	for _, p := range projects {
		byID[p.ID] = p
	}

	rows := make([]ProjectSummary, 0, len(order))
	for _, id := range order {
		seconds := TotalSeconds(groups[id], now)
		percentage := 0
		if grandTotal > 0 {
			percentage = int(float64(seconds)/float64(grandTotal)*100 + 0.5)
		}

		name, color := noProjectName, noProjectColor
		if id != NoProjectID {
			if p, ok := byID[id]; ok {
				name, color = p.Name, p.Color
			} else {
				name = "Unknown Project"
			}
		}

		rows = append(rows, ProjectSummary{
			ProjectID:  id,
			Name:       name,
			Color:      color,
			Seconds:    seconds,
			Percentage: percentage,
		})
	}

	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Percentage > rows[j].Percentage
	})
	return rows
}

// SummarizeByDay produces one row per calendar day in the range, most
// recent day first. Days with no entries still get a zero row. Records
// are bucketed by their start time's calendar date.
func SummarizeByDay(records []store.TimeRecord, r Range, now time.Time) []DayBreakdown {
	var days []DayBreakdown
	index := make(map[time.Time]int)
	for d := startOfDay(r.Start); !d.After(r.End); d = d.AddDate(0, 0, 1) {
		index[d] = len(days)
		days = append(days, DayBreakdown{Date: d})
	}

	for _, rec := range records {
		t := rec.StartTime
		if t.IsZero() {
			t = now
		}
		i, ok := index[startOfDay(t.In(r.Start.Location()))]
		if !ok {
			continue
		}
		days[i].Seconds += ResolveSeconds(rec, now)
		days[i].Entries++
	}

	for i, j := 0, len(days)-1; i < j; i, j = i+1, j-1 {
		days[i], days[j] = days[j], days[i]
	}
	return days
}

// Aggregate runs the full pass: range filter, optional project filter,
// totals and both breakdowns. Pure and idempotent for a frozen now.
func Aggregate(records []store.TimeRecord, projects []store.Project, r Range, projectFilter string, now time.Time) Result {
	filtered := FilterByProject(FilterByRange(records, r, now), projectFilter)

	total := TotalSeconds(filtered, now)

	seen := make(map[string]bool)
	for _, rec := range filtered {
		if rec.ProjectID != "" {
			seen[rec.ProjectID] = true
		}
	}

	days := int64(r.End.Sub(r.Start).Hours()/24 + 0.5)
	if days < 1 {
		days = 1
	}

	return Result{
		Range:               r,
		TotalSeconds:        total,
		EntryCount:          len(filtered),
		ProjectCount:        len(seen),
		DailyAverageSeconds: total / days,
		ByProject:           SummarizeByProject(filtered, projects, now),
		ByDay:               SummarizeByDay(filtered, r, now),
	}
}
