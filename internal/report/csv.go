package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/tempo-tracker/tempo/internal/store"
)

// CSVKind selects which report table to serialize.
type CSVKind string

const (
	CSVSummary CSVKind = "summary"
	CSVDaily   CSVKind = "daily"
	CSVProject CSVKind = "project"
)

// SummaryCSV serializes the by-project breakdown. String fields are
// wrapped in double quotes; embedded quotes are not escaped, matching
// the established export format.
func SummaryCSV(rows []ProjectSummary) string {
	var b strings.Builder
	b.WriteString("Project,Hours,Percentage\n")
	for _, row := range rows {
		fmt.Fprintf(&b, "\"%s\",\"%s\",%d\n", row.Name, FormatHoursMinutes(row.Seconds), row.Percentage)
	}
	return b.String()
}

// DailyCSV serializes the by-day breakdown.
func DailyCSV(rows []DayBreakdown) string {
	var b strings.Builder
	b.WriteString("Date,Hours,Entries\n")
	for _, row := range rows {
		fmt.Fprintf(&b, "\"%s\",\"%s\",%d\n", row.Date.Format("Mon, Jan 2"), FormatHoursMinutes(row.Seconds), row.Entries)
	}
	return b.String()
}

// DetailCSV serializes individual records, one row per entry. Open
// entries carry the literal "Running" in the end-time column.
func DetailCSV(records []store.TimeRecord, projects []store.Project, now time.Time) string {
	byID := make(map[string]store.Project, len(projects))
	for _, p := range projects {
		byID[p.ID] = p
	}

	var b strings.Builder
	b.WriteString("Project,Description,Date,Start Time,End Time,Duration\n")
	for _, rec := range records {
		name := noProjectName
		if rec.ProjectID != "" {
			name = "Unknown Project"
			if p, ok := byID[rec.ProjectID]; ok {
				name = p.Name
			}
		}
		description := rec.Description
		if description == "" {
			description = "No description"
		}
		var date, start string
		if !rec.StartTime.IsZero() {
			date = rec.StartTime.Format("2006-01-02")
			start = rec.StartTime.Format("15:04:05")
		}
		end := "Running"
		if rec.EndTime != nil {
			end = rec.EndTime.Format("15:04:05")
		}
		fmt.Fprintf(&b, "\"%s\",\"%s\",\"%s\",\"%s\",\"%s\",\"%s\"\n",
			name, description, date, start, end, FormatHoursMinutes(ResolveSeconds(rec, now)))
	}
	return b.String()
}

// ExportCSV dispatches on the report kind.
func ExportCSV(kind CSVKind, result Result, records []store.TimeRecord, projects []store.Project, now time.Time) string {
	switch kind {
	case CSVSummary:
		return SummaryCSV(result.ByProject)
	case CSVDaily:
		return DailyCSV(result.ByDay)
	default:
		return DetailCSV(records, projects, now)
	}
}
