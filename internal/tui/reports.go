package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/NimbleMarkets/ntcharts/barchart"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/tempo-tracker/tempo/internal/report"
	"github.com/tempo-tracker/tempo/internal/store"
)

// Named ranges the ←/→ keys cycle through. Custom gets its own slot;
// selecting it opens the date form.
var reportRanges = []struct {
	label string
	kind  report.Kind
}{
	{"Today", report.Today},
	{"Yesterday", report.Yesterday},
	{"This Week", report.ThisWeek},
	{"Last Week", report.LastWeek},
	{"This Month", report.ThisMonth},
	{"Last Month", report.LastMonth},
	{"Custom", report.Custom},
}

var reportModes = []struct {
	label string
	kind  report.CSVKind
}{
	{"Summary", report.CSVSummary},
	{"Daily", report.CSVDaily},
	{"Detail", report.CSVProject},
}

type reportsModel struct {
	store  *store.Store
	width  int
	height int

	rangeIdx   int
	modeIdx    int
	projectIdx int // 0 = all, 1..n = projects, n+1 = no project

	customStart string
	customEnd   string

	result   report.Result
	filtered []store.TimeRecord
	projects []store.Project

	chart barchart.Model

	formActive bool
	form       *huh.Form

	// Form field pointers (survive value copies)
	formStart *string
	formEnd   *string
}

func newReportsModel(s *store.Store) reportsModel {
	start, end := "", ""
	return reportsModel{
		store:     s,
		rangeIdx:  2, // This Week
		chart:     barchart.New(60, 10),
		formStart: &start,
		formEnd:   &end,
	}
}

func (r *reportsModel) setSize(w, h int) {
	r.width = w
	r.height = h
}

type reportsDataMsg struct {
	result   report.Result
	filtered []store.TimeRecord
	projects []store.Project
}

func (r reportsModel) refresh() tea.Cmd {
	rangeIdx, projectIdx := r.rangeIdx, r.projectIdx
	customStart, customEnd := r.customStart, r.customEnd
	return func() tea.Msg {
		records := r.store.Snapshot()
		projects := r.store.Projects()
		now := time.Now()

		rng := report.ResolveRange(reportRanges[rangeIdx].kind, now, customStart, customEnd)
		filter := projectFilterID(projects, projectIdx)
		filtered := report.FilterByProject(report.FilterByRange(records, rng, now), filter)
		result := report.Aggregate(records, projects, rng, filter, now)

		return reportsDataMsg{result: result, filtered: filtered, projects: projects}
	}
}

func (r reportsModel) update(msg tea.Msg) (reportsModel, tea.Cmd) {
	if r.formActive && r.form != nil {
		return r.updateForm(msg)
	}

	switch msg := msg.(type) {
	case reportsDataMsg:
		r.result = msg.result
		r.filtered = msg.filtered
		r.projects = msg.projects
		r.buildChart()
		return r, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Left):
			r.rangeIdx--
			if r.rangeIdx < 0 {
				r.rangeIdx = len(reportRanges) - 1
			}
			if reportRanges[r.rangeIdx].kind == report.Custom {
				return r.showCustomRangeForm()
			}
			return r, r.refresh()
		case key.Matches(msg, keys.Right):
			r.rangeIdx = (r.rangeIdx + 1) % len(reportRanges)
			if reportRanges[r.rangeIdx].kind == report.Custom {
				return r.showCustomRangeForm()
			}
			return r, r.refresh()
		case key.Matches(msg, keys.Mode):
			r.modeIdx = (r.modeIdx + 1) % len(reportModes)
			return r, nil
		case key.Matches(msg, keys.Up):
			r.projectIdx--
			if r.projectIdx < 0 {
				r.projectIdx = len(r.projects) + 1
			}
			return r, r.refresh()
		case key.Matches(msg, keys.Down):
			r.projectIdx++
			if r.projectIdx > len(r.projects)+1 {
				r.projectIdx = 0
			}
			return r, r.refresh()
		case key.Matches(msg, keys.Export):
			return r, r.exportCSV()
		}
	}
	return r, nil
}

func (r reportsModel) showCustomRangeForm() (reportsModel, tea.Cmd) {
	today := time.Now().Format("2006-01-02")
	if r.customStart == "" {
		*r.formStart = today
	} else {
		*r.formStart = r.customStart
	}
	if r.customEnd == "" {
		*r.formEnd = today
	} else {
		*r.formEnd = r.customEnd
	}

	r.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Start Date (YYYY-MM-DD)").Value(r.formStart),
			huh.NewInput().Title("End Date (YYYY-MM-DD)").Value(r.formEnd),
		),
	).WithShowHelp(true).WithShowErrors(true)

	r.formActive = true
	return r, r.form.Init()
}

func (r reportsModel) updateForm(msg tea.Msg) (reportsModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			r.formActive = false
			r.form = nil
			r.rangeIdx = 2 // back to This Week
			return r, r.refresh()
		}
	}

	form, cmd := r.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		r.form = f
	}

	if r.form.State == huh.StateCompleted {
		r.formActive = false
		r.customStart = *r.formStart
		r.customEnd = *r.formEnd
		return r, r.refresh()
	}

	return r, cmd
}

func (r reportsModel) exportCSV() tea.Cmd {
	mode := reportModes[r.modeIdx]
	result := r.result
	filtered := r.filtered
	projects := r.projects
	return func() tea.Msg {
		home, err := os.UserHomeDir()
		if err != nil {
			home = "."
		}
		name := fmt.Sprintf("tempo-report-%s-%s.csv", mode.kind, time.Now().Format("2006-01-02"))
		path := filepath.Join(home, name)

		data := report.ExportCSV(mode.kind, result, filtered, projects, time.Now())
		if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
			return statusMsg{text: fmt.Sprintf("Export failed: %v", err), isError: true}
		}
		return exportDoneMsg{path: path}
	}
}

func (r *reportsModel) buildChart() {
	chartWidth := r.width - 8
	if chartWidth < 20 {
		chartWidth = 20
	}
	chartHeight := 8
	if r.height > 34 {
		chartHeight = 12
	}

	r.chart = barchart.New(chartWidth, chartHeight)

	barStyle := lipgloss.NewStyle().Foreground(colorPrimary)
	var bars []barchart.BarData
	for _, day := range r.result.ByDay {
		hours := float64(day.Seconds) / 3600.0
		bars = append(bars, barchart.BarData{
			Label: day.Date.Format("Mon 02"),
			Values: []barchart.BarValue{
				{Name: "hours", Value: hours, Style: barStyle},
			},
		})
	}

	r.chart.PushAll(bars)
	r.chart.Draw()
}

func (r reportsModel) view() string {
	if r.formActive && r.form != nil {
		title := titleStyle.Render("Custom Range")
		content := lipgloss.JoinVertical(lipgloss.Left, title, "", r.form.View())
		return panelStyle.Width(r.width - 4).Render(content)
	}

	w := r.width - 4

	var modeTabs []string
	for i, m := range reportModes {
		if i == r.modeIdx {
			modeTabs = append(modeTabs, activeTabStyle.Render(m.label))
		} else {
			modeTabs = append(modeTabs, inactiveTabStyle.Render(m.label))
		}
	}

	rangeLabel := fmt.Sprintf("%s  %s – %s",
		highlightStyle.Render(reportRanges[r.rangeIdx].label),
		r.result.Range.Start.Format("Jan 2"), r.result.Range.End.Format("Jan 2, 2006"))

	header := lipgloss.JoinHorizontal(lipgloss.Bottom,
		titleStyle.Render("Reports"), "  ",
		lipgloss.JoinHorizontal(lipgloss.Bottom, modeTabs...), "  ",
		mutedStyle.Render(rangeLabel),
	)

	filterLine := mutedStyle.Render("  " + projectFilterLabel(r.projects, r.projectIdx) + "  (↑/↓ project)")

	stats := r.renderStats()

	var body string
	switch reportModes[r.modeIdx].kind {
	case report.CSVDaily:
		body = lipgloss.JoinVertical(lipgloss.Left, r.chart.View(), "", r.renderDailyTable(w))
	case report.CSVProject:
		body = r.renderDetailTable(w)
	default:
		body = r.renderSummaryTable(w)
	}

	nav := mutedStyle.Render("  ←/→: range  m: mode  e: export csv")

	return panelStyle.Width(w).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			header, filterLine, "", stats, "", body, "", nav,
		),
	)
}

func (r reportsModel) renderStats() string {
	return fmt.Sprintf("  %s total · %d entries · %d projects · %s/day avg",
		highlightStyle.Render(report.FormatHoursMinutes(r.result.TotalSeconds)),
		r.result.EntryCount,
		r.result.ProjectCount,
		report.FormatHoursMinutes(r.result.DailyAverageSeconds),
	)
}

func (r reportsModel) renderSummaryTable(w int) string {
	if len(r.result.ByProject) == 0 {
		return mutedStyle.Render("  No data for this period")
	}

	var rows []string
	rows = append(rows, mutedStyle.Render(fmt.Sprintf("  %-3s %-24s %10s %6s", "", "Project", "Duration", "%")))
	rows = append(rows, mutedStyle.Render("  "+strings.Repeat("─", min(w-6, 48))))

	for _, s := range r.result.ByProject {
		rows = append(rows, fmt.Sprintf("  %s  %-24s %10s %5d%%",
			colorDot(s.Color), s.Name, report.FormatHoursMinutes(s.Seconds), s.Percentage))
	}

	return strings.Join(rows, "\n")
}

func (r reportsModel) renderDailyTable(w int) string {
	if r.result.TotalSeconds == 0 {
		return mutedStyle.Render("  No data for this period")
	}

	var rows []string
	rows = append(rows, mutedStyle.Render(fmt.Sprintf("  %-16s %10s %8s", "Date", "Duration", "Entries")))
	rows = append(rows, mutedStyle.Render("  "+strings.Repeat("─", min(w-6, 38))))

	for _, d := range r.result.ByDay {
		rows = append(rows, fmt.Sprintf("  %-16s %10s %8d",
			d.Date.Format("Mon, Jan 2"), report.FormatHoursMinutes(d.Seconds), d.Entries))
	}

	return strings.Join(rows, "\n")
}

func (r reportsModel) renderDetailTable(w int) string {
	if len(r.filtered) == 0 {
		return mutedStyle.Render("  No data for this period")
	}

	byID := projectLookup(r.projects)
	now := time.Now()

	var rows []string
	rows = append(rows, mutedStyle.Render(fmt.Sprintf("  %-3s %-18s %-12s %10s %s", "", "Project", "Date", "Duration", "Description")))
	rows = append(rows, mutedStyle.Render("  "+strings.Repeat("─", min(w-6, 60))))

	maxRows := r.height - 16
	visible := r.filtered
	if maxRows > 0 && len(visible) > maxRows {
		visible = visible[:maxRows]
	}

	for _, rec := range visible {
		dur := report.FormatHoursMinutes(report.ResolveSeconds(rec, now))
		if rec.Running() {
			dur = successStyle.Render("running")
		}
		desc := rec.Description
		if desc == "" {
			desc = "—"
		}
		rows = append(rows, fmt.Sprintf("  %s  %-18s %-12s %10s %s",
			colorDot(projectColor(byID, rec.ProjectID)),
			projectName(byID, rec.ProjectID),
			rec.StartTime.Local().Format("Jan 2"), dur, desc))
	}
	if len(visible) < len(r.filtered) {
		rows = append(rows, mutedStyle.Render(fmt.Sprintf("  … %d more", len(r.filtered)-len(visible))))
	}

	return strings.Join(rows, "\n")
}
