package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/tempo-tracker/tempo/internal/store"
)

// viewState represents the currently active view.
type viewState int

const (
	viewDashboard viewState = iota
	viewEntries
	viewProjects
	viewReports
	viewWorkspace
)

var viewNames = []string{"Dashboard", "Entries", "Projects", "Reports", "Workspace"}

// --- Messages ---

type timerStartedMsg struct {
	record store.TimeRecord
}

type timerStoppedMsg struct {
	record *store.TimeRecord
}

type statusMsg struct {
	text    string
	isError bool
}

// elapsedMsg carries the ticker's latest resolved seconds for the
// running record.
type elapsedMsg int64

// storeChangedMsg signals that the store snapshot changed.
type storeChangedMsg struct{}

type exportDoneMsg struct {
	path string
}

// --- Helpers ---

func colorDot(color string) string {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Render("●")
}

// projectLookup indexes projects by id for per-row rendering.
func projectLookup(projects []store.Project) map[string]store.Project {
	byID := make(map[string]store.Project, len(projects))
	for _, p := range projects {
		byID[p.ID] = p
	}
	return byID
}

func projectName(byID map[string]store.Project, id string) string {
	if id == "" {
		return "No Project"
	}
	if p, ok := byID[id]; ok {
		return p.Name
	}
	return "Unknown Project"
}

func projectColor(byID map[string]store.Project, id string) string {
	if id == "" {
		return "#9CA3AF"
	}
	if p, ok := byID[id]; ok {
		return p.Color
	}
	return "#9CA3AF"
}
