package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/tempo-tracker/tempo/internal/export"
	"github.com/tempo-tracker/tempo/internal/report"
	"github.com/tempo-tracker/tempo/internal/store"
	"github.com/tempo-tracker/tempo/internal/timer"
)

// App is the root Bubble Tea model.
type App struct {
	store  *store.Store
	ticker *timer.Ticker

	elapsedCh chan int64
	storeCh   <-chan struct{}

	width  int
	height int

	activeView    viewState
	showHelp      bool
	exportPicking bool
	exportCursor  int
	elapsed       int64

	dashboard dashboardModel
	entries   entriesModel
	projects  projectsModel
	reports   reportsModel
	workspace workspaceModel

	help   help.Model
	status string
}

func NewApp(s *store.Store) *App {
	h := help.New()
	h.ShowAll = false

	elapsedCh := make(chan int64, 1)
	ticker := timer.New(func(seconds int64) {
		// Drop-on-full: the UI only ever wants the latest value.
		select {
		case elapsedCh <- seconds:
		default:
		}
	})

	a := &App{
		store:     s,
		ticker:    ticker,
		elapsedCh: elapsedCh,
		storeCh:   s.Subscribe(),
		dashboard: newDashboardModel(s),
		entries:   newEntriesModel(s),
		projects:  newProjectsModel(s),
		reports:   newReportsModel(s),
		workspace: newWorkspaceModel(s),
		help:      h,
	}
	ticker.Sync(s.Running())
	return a
}

func (a *App) Init() tea.Cmd {
	return tea.Batch(
		a.dashboard.loadData(),
		a.waitForElapsed(),
		a.waitForStore(),
	)
}

// waitForElapsed blocks on the ticker channel and republishes its
// value as a message.
func (a *App) waitForElapsed() tea.Cmd {
	return func() tea.Msg {
		return elapsedMsg(<-a.elapsedCh)
	}
}

func (a *App) waitForStore() tea.Cmd {
	return func() tea.Msg {
		<-a.storeCh
		return storeChangedMsg{}
	}
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.help.Width = msg.Width
		contentHeight := a.height - 4 // header + footer
		a.dashboard.setSize(a.width, contentHeight)
		a.entries.setSize(a.width, contentHeight)
		a.projects.setSize(a.width, contentHeight)
		a.reports.setSize(a.width, contentHeight)
		a.workspace.setSize(a.width, contentHeight)
		return a, nil

	case tea.KeyMsg:
		if a.exportPicking {
			return a.updateExportPicker(msg)
		}

		// If a child view is capturing input (e.g. form), delegate first.
		if a.isFormActive() {
			return a.updateActiveView(msg)
		}

		switch {
		case key.Matches(msg, keys.Export) && a.activeView != viewReports:
			a.exportPicking = true
			a.exportCursor = 0
			return a, nil
		case key.Matches(msg, keys.Quit):
			a.ticker.Stop()
			return a, tea.Quit
		case key.Matches(msg, keys.Help):
			a.showHelp = !a.showHelp
			a.help.ShowAll = a.showHelp
			return a, nil
		case key.Matches(msg, keys.Tab1):
			a.activeView = viewDashboard
			return a, a.dashboard.loadData()
		case key.Matches(msg, keys.Tab2):
			a.activeView = viewEntries
			return a, a.entries.refresh()
		case key.Matches(msg, keys.Tab3):
			a.activeView = viewProjects
			return a, a.projects.refresh()
		case key.Matches(msg, keys.Tab4):
			a.activeView = viewReports
			return a, a.reports.refresh()
		case key.Matches(msg, keys.Tab5):
			a.activeView = viewWorkspace
			return a, a.workspace.refresh()
		case key.Matches(msg, keys.Tab):
			a.activeView = (a.activeView + 1) % 5
			return a, a.refreshCurrentView()
		}

	case elapsedMsg:
		a.elapsed = int64(msg)
		var cmd tea.Cmd
		a.dashboard, cmd = a.dashboard.update(msg)
		return a, tea.Batch(a.waitForElapsed(), cmd)

	case storeChangedMsg:
		a.ticker.Sync(a.store.Running())
		return a, tea.Batch(a.waitForStore(), a.refreshCurrentView())

	case statusMsg:
		a.status = msg.text
		return a, nil

	case timerStoppedMsg:
		a.status = "Timer stopped"
		return a, nil

	case timerStartedMsg:
		a.status = "Timer started"
		return a, nil

	case exportDoneMsg:
		a.status = "Exported to " + msg.path
		a.exportPicking = false
		return a, nil
	}

	return a.updateActiveView(msg)
}

func (a *App) updateActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch a.activeView {
	case viewDashboard:
		a.dashboard, cmd = a.dashboard.update(msg)
	case viewEntries:
		a.entries, cmd = a.entries.update(msg)
	case viewProjects:
		a.projects, cmd = a.projects.update(msg)
	case viewReports:
		a.reports, cmd = a.reports.update(msg)
	case viewWorkspace:
		a.workspace, cmd = a.workspace.update(msg)
	}
	return a, cmd
}

func (a *App) isFormActive() bool {
	switch a.activeView {
	case viewEntries:
		return a.entries.formActive
	case viewProjects:
		return a.projects.formActive
	case viewReports:
		return a.reports.formActive
	case viewWorkspace:
		return a.workspace.formActive
	}
	return false
}

func (a *App) refreshCurrentView() tea.Cmd {
	switch a.activeView {
	case viewDashboard:
		return a.dashboard.loadData()
	case viewEntries:
		return a.entries.refresh()
	case viewProjects:
		return a.projects.refresh()
	case viewReports:
		return a.reports.refresh()
	case viewWorkspace:
		return a.workspace.refresh()
	}
	return nil
}

func (a *App) View() string {
	if a.width == 0 {
		return "Loading..."
	}

	header := a.renderHeader()
	footer := a.renderFooter()

	var content string
	switch a.activeView {
	case viewDashboard:
		content = a.dashboard.view()
	case viewEntries:
		content = a.entries.view()
	case viewProjects:
		content = a.projects.view()
	case viewReports:
		content = a.reports.view()
	case viewWorkspace:
		content = a.workspace.view()
	}

	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)
	contentHeight := a.height - headerHeight - footerHeight
	if contentHeight < 1 {
		contentHeight = 1
	}

	if a.exportPicking {
		content = a.renderExportPicker()
	}

	content = lipgloss.NewStyle().
		Width(a.width).
		Height(contentHeight).
		Render(content)

	return lipgloss.JoinVertical(lipgloss.Left, header, content, footer)
}

func (a *App) renderHeader() string {
	var tabs []string
	for i, name := range viewNames {
		if viewState(i) == a.activeView {
			tabs = append(tabs, activeTabStyle.Render(name))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(name))
		}
	}

	tabRow := lipgloss.JoinHorizontal(lipgloss.Bottom, tabs...)

	title := lipgloss.NewStyle().Bold(true).Foreground(colorPrimary).Render("tempo")
	gap := a.width - lipgloss.Width(title) - lipgloss.Width(tabRow) - 4
	if gap < 1 {
		gap = 1
	}
	spacer := lipgloss.NewStyle().Width(gap).Render("")

	return headerStyle.Render(
		lipgloss.JoinHorizontal(lipgloss.Bottom, title, spacer, tabRow),
	)
}

func (a *App) renderFooter() string {
	helpView := a.help.View(keys)

	status := ""
	if a.status != "" {
		status = mutedStyle.Render(" " + a.status)
	}

	// Live timer readout in the footer, fed by the ticker.
	timerInfo := ""
	if a.store.Running() != nil {
		timerInfo = successStyle.Render(" ● " + report.FormatClock(a.elapsed))
	}

	left := footerStyle.Render(helpView)
	right := timerInfo + status

	gap := a.width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if gap < 1 {
		gap = 1
	}
	spacer := lipgloss.NewStyle().Width(gap).Render("")

	return lipgloss.JoinHorizontal(lipgloss.Bottom, left, spacer, right)
}

func (a *App) renderExportPicker() string {
	title := titleStyle.Render("Export Raw Data")
	formats := []string{"CSV", "JSON"}
	var rows []string
	rows = append(rows, title)
	rows = append(rows, "")
	for i, f := range formats {
		cursor := "  "
		style := normalItemStyle
		if i == a.exportCursor {
			cursor = "> "
			style = selectedItemStyle
		}
		rows = append(rows, style.Render(cursor+f))
	}
	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  enter: export  esc: cancel"))

	w := a.width - 4
	return activePanelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (a *App) updateExportPicker(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Up):
		if a.exportCursor > 0 {
			a.exportCursor--
		}
	case key.Matches(msg, keys.Down):
		if a.exportCursor < 1 {
			a.exportCursor++
		}
	case key.Matches(msg, keys.Enter):
		a.exportPicking = false
		return a, a.doExport(a.exportCursor)
	case key.Matches(msg, keys.Back):
		a.exportPicking = false
	}
	return a, nil
}

func (a *App) doExport(format int) tea.Cmd {
	return func() tea.Msg {
		records := a.store.Snapshot()

		projects := make(map[string]*store.Project)
		plist := a.store.Projects()
		for i := range plist {
			projects[plist[i].ID] = &plist[i]
		}

		home, _ := os.UserHomeDir()
		dateStr := time.Now().Format("2006-01-02")

		var path string
		if format == 0 {
			path = filepath.Join(home, fmt.Sprintf("tempo-export-%s.csv", dateStr))
			if err := export.ToCSV(records, projects, path); err != nil {
				return statusMsg{text: fmt.Sprintf("CSV error: %v", err), isError: true}
			}
		} else {
			path = filepath.Join(home, fmt.Sprintf("tempo-export-%s.json", dateStr))
			if err := export.ToJSON(records, projects, path); err != nil {
				return statusMsg{text: fmt.Sprintf("JSON error: %v", err), isError: true}
			}
		}

		return exportDoneMsg{path: path}
	}
}
