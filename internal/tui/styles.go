package tui

import "github.com/charmbracelet/lipgloss"

// Palette. Primary matches the first entry of the project color cycle
// so an unfiltered chart and a fresh project render the same hue.
var (
	colorPrimary   = lipgloss.Color("#7C6CF0")
	colorFg        = lipgloss.Color("#E5E7EB")
	colorMuted     = lipgloss.Color("#5C6370")
	colorSubtle    = lipgloss.Color("#3B4252")
	colorHighlight = lipgloss.Color("#93C5FD")
	colorSuccess   = lipgloss.Color("#34D399")
	colorWarning   = lipgloss.Color("#FBBF24")
	colorError     = lipgloss.Color("#F87171")
)

var (
	titleStyle      = lipgloss.NewStyle().Bold(true).Foreground(colorFg)
	mutedStyle      = lipgloss.NewStyle().Foreground(colorMuted)
	normalItemStyle = lipgloss.NewStyle().Foreground(colorFg)

	successStyle   = lipgloss.NewStyle().Foreground(colorSuccess)
	warningStyle   = lipgloss.NewStyle().Foreground(colorWarning)
	errorStyle     = lipgloss.NewStyle().Foreground(colorError)
	highlightStyle = lipgloss.NewStyle().Foreground(colorHighlight)

	selectedItemStyle = lipgloss.NewStyle().Bold(true).Foreground(colorPrimary)

	// Tab bar. The active tab carries a single underline in the primary
	// color, inactive tabs fade into the muted tone.
	activeTabStyle = selectedItemStyle.
			Padding(0, 2).
			Border(lipgloss.NormalBorder(), false, false, true, false).
			BorderForeground(colorPrimary)

	inactiveTabStyle = mutedStyle.Padding(0, 2)

	// Panels share one rounded frame. The focused one swaps the border
	// color, nothing else, so focus changes never shift the layout.
	panelStyle       = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(colorSubtle).Padding(1, 2)
	activePanelStyle = panelStyle.BorderForeground(colorPrimary)

	// The elapsed readout turns green while a record is running.
	timerStyle        = lipgloss.NewStyle().Bold(true).Align(lipgloss.Center).Foreground(colorPrimary)
	timerRunningStyle = timerStyle.Foreground(colorSuccess)

	headerStyle = lipgloss.NewStyle().Padding(0, 1)
	footerStyle = mutedStyle.Padding(0, 1)
)
