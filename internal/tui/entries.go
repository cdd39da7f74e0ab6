package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/tempo-tracker/tempo/internal/report"
	"github.com/tempo-tracker/tempo/internal/store"
)

// Period filter choices for the entries list. The zero entry means no
// date filtering at all.
var entryPeriods = []struct {
	label string
	kind  report.Kind
}{
	{"All", ""},
	{"Today", report.Today},
	{"Yesterday", report.Yesterday},
	{"This Week", report.ThisWeek},
	{"Last Week", report.LastWeek},
	{"This Month", report.ThisMonth},
	{"Last Month", report.LastMonth},
}

type entriesModel struct {
	store  *store.Store
	width  int
	height int

	records  []store.TimeRecord
	projects []store.Project
	cursor   int

	periodIdx  int
	projectIdx int // 0 = all, 1..n = projects, n+1 = no project

	formActive bool
	form       *huh.Form
	formType   string // "new", "edit"

	// Form field pointers (survive value copies)
	formProject *string
	formDesc    *string
	formDate    *string
	formStart   *string
	formEnd     *string

	editingID string
}

func newEntriesModel(s *store.Store) entriesModel {
	project, desc, date, start, end := "", "", "", "", ""
	return entriesModel{
		store:       s,
		formProject: &project,
		formDesc:    &desc,
		formDate:    &date,
		formStart:   &start,
		formEnd:     &end,
	}
}

func (e *entriesModel) setSize(w, h int) {
	e.width = w
	e.height = h
}

type entriesDataMsg struct {
	records  []store.TimeRecord
	projects []store.Project
}

func (e entriesModel) refresh() tea.Cmd {
	periodIdx, projectIdx := e.periodIdx, e.projectIdx
	return func() tea.Msg {
		records := e.store.Snapshot()
		projects := e.store.Projects()
		now := time.Now()

		if kind := entryPeriods[periodIdx].kind; kind != "" {
			r := report.ResolveRange(kind, now, "", "")
			records = report.FilterByRange(records, r, now)
		}
		if filter := projectFilterID(projects, projectIdx); filter != report.AllProjects {
			records = report.FilterByProject(records, filter)
		}
		return entriesDataMsg{records: records, projects: projects}
	}
}

// projectFilterID maps the cycling filter index onto a project filter
// value: all entries, one project, or the no-project bucket.
func projectFilterID(projects []store.Project, idx int) string {
	if idx <= 0 || idx > len(projects)+1 {
		return report.AllProjects
	}
	if idx == len(projects)+1 {
		return report.NoProjectID
	}
	return projects[idx-1].ID
}

func projectFilterLabel(projects []store.Project, idx int) string {
	if idx <= 0 || idx > len(projects)+1 {
		return "All Projects"
	}
	if idx == len(projects)+1 {
		return "No Project"
	}
	return projects[idx-1].Name
}

func (e entriesModel) update(msg tea.Msg) (entriesModel, tea.Cmd) {
	if e.formActive && e.form != nil {
		return e.updateForm(msg)
	}

	switch msg := msg.(type) {
	case entriesDataMsg:
		e.records = msg.records
		e.projects = msg.projects
		if e.cursor >= len(e.records) {
			e.cursor = max(0, len(e.records)-1)
		}
		return e, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Up):
			if e.cursor > 0 {
				e.cursor--
			}
		case key.Matches(msg, keys.Down):
			if e.cursor < len(e.records)-1 {
				e.cursor++
			}
		case key.Matches(msg, keys.Left):
			e.projectIdx--
			if e.projectIdx < 0 {
				e.projectIdx = len(e.projects) + 1
			}
			return e, e.refresh()
		case key.Matches(msg, keys.Right):
			e.projectIdx++
			if e.projectIdx > len(e.projects)+1 {
				e.projectIdx = 0
			}
			return e, e.refresh()
		case key.Matches(msg, keys.Mode):
			e.periodIdx = (e.periodIdx + 1) % len(entryPeriods)
			return e, e.refresh()
		case key.Matches(msg, keys.New):
			return e.showEntryForm("new")
		case key.Matches(msg, keys.Enter):
			if len(e.records) > 0 {
				return e.showEntryForm("edit")
			}
		case key.Matches(msg, keys.Stop):
			if len(e.records) > 0 && e.records[e.cursor].Running() {
				if _, err := e.store.StopTimer(); err != nil {
					return e, errorStatus(err)
				}
				return e, e.refresh()
			}
		case key.Matches(msg, keys.Delete):
			if len(e.records) > 0 {
				if err := e.store.DeleteRecord(e.records[e.cursor].ID); err != nil {
					return e, errorStatus(err)
				}
				return e, e.refresh()
			}
		}
	}
	return e, nil
}

func (e entriesModel) showEntryForm(formType string) (entriesModel, tea.Cmd) {
	e.formType = formType
	now := time.Now()

	if formType == "edit" {
		rec := e.records[e.cursor]
		e.editingID = rec.ID
		*e.formProject = rec.ProjectID
		*e.formDesc = rec.Description
		*e.formDate = rec.StartTime.Local().Format("2006-01-02")
		*e.formStart = rec.StartTime.Local().Format("15:04")
		if rec.EndTime != nil {
			*e.formEnd = rec.EndTime.Local().Format("15:04")
		} else {
			*e.formEnd = ""
		}
	} else {
		*e.formProject = ""
		*e.formDesc = ""
		*e.formDate = now.Format("2006-01-02")
		*e.formStart = now.Add(-time.Hour).Format("15:04")
		*e.formEnd = now.Format("15:04")
	}

	projectOptions := []huh.Option[string]{huh.NewOption("No Project", "")}
	for _, p := range e.store.ActiveProjects() {
		projectOptions = append(projectOptions, huh.NewOption(p.Name, p.ID))
	}

	e.form = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().Title("Project").Options(projectOptions...).Value(e.formProject),
			huh.NewInput().Title("Description").Value(e.formDesc),
			huh.NewInput().Title("Date (YYYY-MM-DD)").Value(e.formDate),
			huh.NewInput().Title("Start (HH:MM)").Value(e.formStart),
			huh.NewInput().Title("End (HH:MM, empty = running)").Value(e.formEnd),
		),
	).WithShowHelp(true).WithShowErrors(true)

	e.formActive = true
	return e, e.form.Init()
}

func (e entriesModel) updateForm(msg tea.Msg) (entriesModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			e.formActive = false
			e.form = nil
			return e, nil
		}
	}

	form, cmd := e.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		e.form = f
	}

	if e.form.State == huh.StateCompleted {
		e.formActive = false
		return e.submitForm()
	}

	return e, cmd
}

func (e entriesModel) submitForm() (entriesModel, tea.Cmd) {
	start, end, err := parseEntryTimes(*e.formDate, *e.formStart, *e.formEnd)
	if err != nil {
		return e, errorStatus(err)
	}

	if e.formType == "edit" {
		patch := store.RecordPatch{
			Description: e.formDesc,
			ProjectID:   e.formProject,
			StartTime:   &start,
			EndTime:     end,
		}
		if err := e.store.UpdateRecord(e.editingID, patch); err != nil {
			return e, errorStatus(err)
		}
		return e, e.refresh()
	}

	if end == nil {
		if _, err := e.store.StartTimer(*e.formProject, *e.formDesc); err != nil {
			return e, errorStatus(err)
		}
		return e, e.refresh()
	}
	if _, err := e.store.AddManual(*e.formProject, *e.formDesc, start, *end); err != nil {
		return e, errorStatus(err)
	}
	return e, e.refresh()
}

// parseEntryTimes turns the form's date + clock fields into concrete
// timestamps. An empty end string means the entry is still open. An end
// clock earlier than the start clock rolls over to the next day.
func parseEntryTimes(date, startClock, endClock string) (time.Time, *time.Time, error) {
	day, err := time.ParseInLocation("2006-01-02", strings.TrimSpace(date), time.Local)
	if err != nil {
		return time.Time{}, nil, fmt.Errorf("invalid date %q: %w", date, err)
	}
	st, err := time.ParseInLocation("15:04", strings.TrimSpace(startClock), time.Local)
	if err != nil {
		return time.Time{}, nil, fmt.Errorf("invalid start time %q: %w", startClock, err)
	}
	start := time.Date(day.Year(), day.Month(), day.Day(), st.Hour(), st.Minute(), 0, 0, time.Local)

	if strings.TrimSpace(endClock) == "" {
		return start, nil, nil
	}
	et, err := time.ParseInLocation("15:04", strings.TrimSpace(endClock), time.Local)
	if err != nil {
		return time.Time{}, nil, fmt.Errorf("invalid end time %q: %w", endClock, err)
	}
	end := time.Date(day.Year(), day.Month(), day.Day(), et.Hour(), et.Minute(), 0, 0, time.Local)
	if end.Before(start) {
		end = end.Add(24 * time.Hour)
	}
	return start, &end, nil
}

func errorStatus(err error) tea.Cmd {
	return func() tea.Msg {
		return statusMsg{text: fmt.Sprintf("Error: %v", err), isError: true}
	}
}

func (e entriesModel) view() string {
	if e.formActive && e.form != nil {
		title := titleStyle.Render("New Entry")
		if e.formType == "edit" {
			title = titleStyle.Render("Edit Entry")
		}
		content := lipgloss.JoinVertical(lipgloss.Left, title, "", e.form.View())
		return panelStyle.Width(e.width - 4).Render(content)
	}

	w := e.width - 4
	title := titleStyle.Render("Entries")
	filterLine := mutedStyle.Render(fmt.Sprintf("  %s · %s   (←/→ project, m period)",
		projectFilterLabel(e.projects, e.projectIdx), entryPeriods[e.periodIdx].label))

	if len(e.records) == 0 {
		content := lipgloss.JoinVertical(lipgloss.Left,
			title,
			filterLine,
			"",
			mutedStyle.Render("No entries. Press n to add one."),
		)
		return panelStyle.Width(w).Render(content)
	}

	byID := projectLookup(e.projects)
	now := time.Now()

	var rows []string
	rows = append(rows, title, filterLine, "")

	header := mutedStyle.Render(fmt.Sprintf("  %-12s %-18s %-10s %s", "Date", "Project", "Duration", "Description"))
	rows = append(rows, header)

	visible := e.records
	offset := 0
	if maxRows := e.height - 12; maxRows > 0 && len(visible) > maxRows {
		if e.cursor >= maxRows {
			offset = e.cursor - maxRows + 1
		}
		visible = e.records[offset : offset+maxRows]
	}

	for i, rec := range visible {
		cursor := "  "
		style := normalItemStyle
		if offset+i == e.cursor {
			cursor = "> "
			style = selectedItemStyle
		}
		dur := report.FormatHoursMinutes(report.ResolveSeconds(rec, now))
		if rec.Running() {
			dur = successStyle.Render("running")
		}
		desc := rec.Description
		if desc == "" {
			desc = "—"
		}
		row := fmt.Sprintf("%s%-12s %s %-16s %-10s %s",
			cursor, rec.StartTime.Local().Format("Jan 2 15:04"),
			colorDot(projectColor(byID, rec.ProjectID)),
			projectName(byID, rec.ProjectID), dur, desc)
		rows = append(rows, style.Render(row))
	}

	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  n: new  enter: edit  x: stop  d: delete"))

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}
