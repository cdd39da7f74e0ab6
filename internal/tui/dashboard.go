package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/tempo-tracker/tempo/internal/report"
	"github.com/tempo-tracker/tempo/internal/store"
)

type dashboardModel struct {
	store  *store.Store
	width  int
	height int

	elapsed int64

	todaySeconds     int64
	yesterdaySeconds int64
	weekSeconds      int64
	weekRange        report.Range
	recentRecords    []store.TimeRecord
	projects         []store.Project

	// Project picker state
	picking      bool
	pickerCursor int
}

func newDashboardModel(s *store.Store) dashboardModel {
	return dashboardModel{store: s}
}

func (d *dashboardModel) setSize(w, h int) {
	d.width = w
	d.height = h
}

type dashboardDataMsg struct {
	todaySeconds     int64
	yesterdaySeconds int64
	weekSeconds      int64
	weekRange        report.Range
	recentRecords    []store.TimeRecord
	projects         []store.Project
}

// loadData re-derives every card from the current snapshot. All three
// totals come from the same aggregation engine the reports view uses.
func (d dashboardModel) loadData() tea.Cmd {
	return func() tea.Msg {
		records := d.store.Snapshot()
		now := time.Now()

		todayRange := report.ResolveRange(report.Today, now, "", "")
		yesterdayRange := report.ResolveRange(report.Yesterday, now, "", "")
		weekRange := report.ResolveRange(report.ThisWeek, now, "", "")

		recent := records
		if len(recent) > 5 {
			recent = recent[:5]
		}

		return dashboardDataMsg{
			todaySeconds:     report.TotalSeconds(report.FilterByRange(records, todayRange, now), now),
			yesterdaySeconds: report.TotalSeconds(report.FilterByRange(records, yesterdayRange, now), now),
			weekSeconds:      report.TotalSeconds(report.FilterByRange(records, weekRange, now), now),
			weekRange:        weekRange,
			recentRecords:    recent,
			projects:         d.store.Projects(),
		}
	}
}

func (d dashboardModel) update(msg tea.Msg) (dashboardModel, tea.Cmd) {
	switch msg := msg.(type) {
	case dashboardDataMsg:
		d.todaySeconds = msg.todaySeconds
		d.yesterdaySeconds = msg.yesterdaySeconds
		d.weekSeconds = msg.weekSeconds
		d.weekRange = msg.weekRange
		d.recentRecords = msg.recentRecords
		d.projects = msg.projects
		return d, nil

	case elapsedMsg:
		d.elapsed = int64(msg)
		return d, nil

	case tea.KeyMsg:
		if d.picking {
			return d.updatePicker(msg)
		}

		switch {
		case key.Matches(msg, keys.Start):
			if d.store.Running() != nil {
				return d, nil
			}
			active := d.store.ActiveProjects()
			if len(active) == 0 {
				return d.startTimer("", "")
			}
			d.picking = true
			d.pickerCursor = 0
			return d, nil

		case key.Matches(msg, keys.Stop):
			return d.stopTimer()
		}
	}
	return d, nil
}

func (d dashboardModel) updatePicker(msg tea.Msg) (dashboardModel, tea.Cmd) {
	active := d.store.ActiveProjects()
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Up):
			if d.pickerCursor > 0 {
				d.pickerCursor--
			}
		case key.Matches(msg, keys.Down):
			// Last slot is the "No Project" option.
			if d.pickerCursor < len(active) {
				d.pickerCursor++
			}
		case key.Matches(msg, keys.Enter):
			d.picking = false
			if d.pickerCursor < len(active) {
				return d.startTimer(active[d.pickerCursor].ID, "")
			}
			return d.startTimer("", "")
		case key.Matches(msg, keys.Back):
			d.picking = false
		}
	}
	return d, nil
}

func (d dashboardModel) startTimer(projectID, description string) (dashboardModel, tea.Cmd) {
	rec, err := d.store.StartTimer(projectID, description)
	if err != nil {
		return d, func() tea.Msg {
			return statusMsg{text: fmt.Sprintf("Error: %v", err), isError: true}
		}
	}
	return d, func() tea.Msg { return timerStartedMsg{record: rec} }
}

func (d dashboardModel) stopTimer() (dashboardModel, tea.Cmd) {
	rec, err := d.store.StopTimer()
	if err != nil {
		return d, func() tea.Msg {
			return statusMsg{text: fmt.Sprintf("Error: %v", err), isError: true}
		}
	}
	return d, tea.Batch(
		d.loadData(),
		func() tea.Msg { return timerStoppedMsg{record: rec} },
	)
}

func (d dashboardModel) view() string {
	if d.width < 20 {
		return "Terminal too small"
	}

	contentWidth := d.width - 4

	timerPanel := d.renderTimerPanel(contentWidth)
	cards := d.renderSummaryCards(contentWidth)

	var bottomPanel string
	if d.picking {
		bottomPanel = d.renderProjectPicker(contentWidth)
	} else {
		bottomPanel = d.renderRecentPanel(contentWidth)
	}

	return lipgloss.JoinVertical(lipgloss.Left, timerPanel, cards, bottomPanel)
}

func (d dashboardModel) renderTimerPanel(w int) string {
	byID := projectLookup(d.projects)

	if running := d.store.Running(); running != nil {
		timeDisplay := timerRunningStyle.Width(w - 6).Render(report.FormatClock(d.elapsed))
		indicator := successStyle.Render("●  RUNNING")

		projectLine := highlightStyle.Render(projectName(byID, running.ProjectID))
		if running.Description != "" {
			projectLine += mutedStyle.Render(" · " + running.Description)
		}

		content := lipgloss.JoinVertical(lipgloss.Center,
			timeDisplay,
			indicator,
			projectLine,
		)
		return activePanelStyle.Width(w).Render(content)
	}

	timeDisplay := timerStyle.Width(w - 6).Render("00:00:00")
	indicator := mutedStyle.Render("■  STOPPED")
	hint := mutedStyle.Render("Press s to start tracking")

	content := lipgloss.JoinVertical(lipgloss.Center,
		timeDisplay,
		indicator,
		hint,
	)
	return panelStyle.Width(w).Render(content)
}

func (d dashboardModel) renderSummaryCards(w int) string {
	weekLabel := fmt.Sprintf("%s – %s",
		d.weekRange.Start.Format("Jan 2"), d.weekRange.End.Format("Jan 2"))

	rows := []string{
		titleStyle.Render("Totals"),
		fmt.Sprintf("  %-12s %s", "Today", highlightStyle.Render(report.FormatHoursMinutes(d.todaySeconds))),
		fmt.Sprintf("  %-12s %s", "Yesterday", highlightStyle.Render(report.FormatHoursMinutes(d.yesterdaySeconds))),
		fmt.Sprintf("  %-12s %s  %s", "This Week",
			highlightStyle.Render(report.FormatHoursMinutes(d.weekSeconds)),
			mutedStyle.Render(weekLabel)),
	}
	if faults := d.store.Faults(); faults > 0 {
		rows = append(rows, warningStyle.Render(fmt.Sprintf("  %d record(s) with broken timing data", faults)))
	}
	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}

func (d dashboardModel) renderRecentPanel(w int) string {
	title := titleStyle.Render("Recent Entries")
	if len(d.recentRecords) == 0 {
		content := lipgloss.JoinVertical(lipgloss.Left,
			title,
			mutedStyle.Render("No entries yet"),
		)
		return panelStyle.Width(w).Render(content)
	}

	byID := projectLookup(d.projects)
	now := time.Now()

	var rows []string
	rows = append(rows, title)
	for _, rec := range d.recentRecords {
		dur := report.FormatHoursMinutes(report.ResolveSeconds(rec, now))
		startStr := rec.StartTime.Local().Format("Jan 2 15:04")
		status := "✓"
		if rec.Running() {
			status = "●"
			dur = "running"
		}
		desc := rec.Description
		if desc == "" {
			desc = mutedStyle.Render("no description")
		}
		row := fmt.Sprintf("  %s %s  %s %-16s %s  %s",
			status, startStr, colorDot(projectColor(byID, rec.ProjectID)),
			projectName(byID, rec.ProjectID), dur, desc)
		rows = append(rows, row)
	}

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}

func (d dashboardModel) renderProjectPicker(w int) string {
	title := titleStyle.Render("Select Project")
	active := d.store.ActiveProjects()

	var rows []string
	rows = append(rows, title)
	for i, p := range active {
		cursor := "  "
		style := normalItemStyle
		if i == d.pickerCursor {
			cursor = "> "
			style = selectedItemStyle
		}
		rows = append(rows, style.Render(fmt.Sprintf("%s%s %s", cursor, colorDot(p.Color), p.Name)))
	}
	cursor := "  "
	style := normalItemStyle
	if d.pickerCursor == len(active) {
		cursor = "> "
		style = selectedItemStyle
	}
	rows = append(rows, style.Render(cursor+"○ No Project"))
	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  enter: select  esc: cancel"))

	return activePanelStyle.Width(w).Render(strings.Join(rows, "\n"))
}
