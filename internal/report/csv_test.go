package report

import (
	"strings"
	"testing"
	"time"

	"github.com/tempo-tracker/tempo/internal/store"
)

func TestSummaryCSV(t *testing.T) {
	rows := []ProjectSummary{
		{Name: "Backend", Seconds: 9000, Percentage: 75},
		{Name: "No Project", Seconds: 3000, Percentage: 25},
	}

	got := SummaryCSV(rows)
	lines := strings.Split(strings.TrimRight(got, "\n"), "\n")

	if lines[0] != "Project,Hours,Percentage" {
		t.Errorf("header = %q", lines[0])
	}
	if lines[1] != `"Backend","2h 30m",75` {
		t.Errorf("row = %q", lines[1])
	}
	if len(lines) != 3 {
		t.Errorf("got %d lines, want 3", len(lines))
	}
}

func TestSummaryCSVQuotesNotEscaped(t *testing.T) {
	// Embedded quotes pass through verbatim.
	rows := []ProjectSummary{{Name: `The "Big" One`, Seconds: 60, Percentage: 100}}
	got := SummaryCSV(rows)
	if !strings.Contains(got, `"The "Big" One"`) {
		t.Errorf("expected raw embedded quotes, got %q", got)
	}
}

func TestDailyCSV(t *testing.T) {
	rows := []DayBreakdown{
		{Date: day(2024, 1, 10), Seconds: 3600, Entries: 2},
	}

	got := DailyCSV(rows)
	lines := strings.Split(strings.TrimRight(got, "\n"), "\n")

	if lines[0] != "Date,Hours,Entries" {
		t.Errorf("header = %q", lines[0])
	}
	if lines[1] != `"Wed, Jan 10","1h 0m",2` {
		t.Errorf("row = %q", lines[1])
	}
}

func TestDetailCSV(t *testing.T) {
	now := wednesday
	start := time.Date(2024, 1, 10, 9, 15, 0, 0, time.UTC)
	end := start.Add(30 * time.Minute)

	records := []store.TimeRecord{
		{ProjectID: "p1", Description: "fixing the build", StartTime: start, EndTime: &end},
		{ProjectID: "", StartTime: start},
	}

	got := DetailCSV(records, testProjects, now)
	lines := strings.Split(strings.TrimRight(got, "\n"), "\n")

	if lines[0] != "Project,Description,Date,Start Time,End Time,Duration" {
		t.Errorf("header = %q", lines[0])
	}
	if lines[1] != `"Backend","fixing the build","2024-01-10","09:15:00","09:45:00","0h 30m"` {
		t.Errorf("closed row = %q", lines[1])
	}
	if !strings.Contains(lines[2], `"No Project"`) {
		t.Errorf("open row project = %q", lines[2])
	}
	if !strings.Contains(lines[2], `"No description"`) {
		t.Errorf("open row description = %q", lines[2])
	}
	if !strings.Contains(lines[2], `"Running"`) {
		t.Errorf("open row end = %q", lines[2])
	}
}

func TestExportCSVDispatch(t *testing.T) {
	now := wednesday
	r := ResolveRange(Today, wednesday, "", "")
	records := []store.TimeRecord{closedRec("p1", day(2024, 1, 10).Add(9*time.Hour), 3600)}
	result := Aggregate(records, testProjects, r, AllProjects, now)

	if got := ExportCSV(CSVSummary, result, records, testProjects, now); !strings.HasPrefix(got, "Project,Hours,Percentage") {
		t.Errorf("summary header missing: %q", got)
	}
	if got := ExportCSV(CSVDaily, result, records, testProjects, now); !strings.HasPrefix(got, "Date,Hours,Entries") {
		t.Errorf("daily header missing: %q", got)
	}
	if got := ExportCSV(CSVProject, result, records, testProjects, now); !strings.HasPrefix(got, "Project,Description") {
		t.Errorf("detail header missing: %q", got)
	}
}
