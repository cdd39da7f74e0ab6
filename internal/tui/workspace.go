package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/tempo-tracker/tempo/internal/store"
)

type workspaceModel struct {
	store  *store.Store
	width  int
	height int

	workspaces []store.Workspace
	cursor     int

	formActive bool
	form       *huh.Form

	formName *string
}

func newWorkspaceModel(s *store.Store) workspaceModel {
	name := ""
	return workspaceModel{
		store:    s,
		formName: &name,
	}
}

func (m *workspaceModel) setSize(w, h int) {
	m.width = w
	m.height = h
}

type workspacesDataMsg struct {
	workspaces []store.Workspace
}

func (m workspaceModel) refresh() tea.Cmd {
	return func() tea.Msg {
		return workspacesDataMsg{workspaces: m.store.Workspaces()}
	}
}

func (m workspaceModel) update(msg tea.Msg) (workspaceModel, tea.Cmd) {
	if m.formActive && m.form != nil {
		return m.updateForm(msg)
	}

	switch msg := msg.(type) {
	case workspacesDataMsg:
		m.workspaces = msg.workspaces
		if m.cursor >= len(m.workspaces) {
			m.cursor = max(0, len(m.workspaces)-1)
		}
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Up):
			if m.cursor > 0 {
				m.cursor--
			}
		case key.Matches(msg, keys.Down):
			if m.cursor < len(m.workspaces)-1 {
				m.cursor++
			}
		case key.Matches(msg, keys.Enter):
			if len(m.workspaces) > 0 {
				ws := m.workspaces[m.cursor]
				if err := m.store.SwitchWorkspace(ws.ID); err != nil {
					return m, errorStatus(err)
				}
				return m, tea.Batch(m.refresh(), func() tea.Msg {
					return statusMsg{text: "Switched to " + ws.Name}
				})
			}
		case key.Matches(msg, keys.New):
			return m.showNewWorkspaceForm()
		}
	}
	return m, nil
}

func (m workspaceModel) showNewWorkspaceForm() (workspaceModel, tea.Cmd) {
	*m.formName = ""

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Workspace Name").Value(m.formName),
		),
	).WithShowHelp(true).WithShowErrors(true)

	m.formActive = true
	return m, m.form.Init()
}

func (m workspaceModel) updateForm(msg tea.Msg) (workspaceModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			m.formActive = false
			m.form = nil
			return m, nil
		}
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted {
		m.formActive = false
		if *m.formName != "" {
			if _, err := m.store.CreateWorkspace(*m.formName); err != nil {
				return m, errorStatus(err)
			}
		}
		return m, m.refresh()
	}

	return m, cmd
}

func (m workspaceModel) view() string {
	if m.formActive && m.form != nil {
		title := titleStyle.Render("New Workspace")
		content := lipgloss.JoinVertical(lipgloss.Left, title, "", m.form.View())
		return panelStyle.Width(m.width - 4).Render(content)
	}

	w := m.width - 4
	title := titleStyle.Render("Workspaces")

	if len(m.workspaces) == 0 {
		content := lipgloss.JoinVertical(lipgloss.Left,
			title,
			"",
			mutedStyle.Render("No workspaces."),
		)
		return panelStyle.Width(w).Render(content)
	}

	current := m.store.CurrentWorkspace()

	var rows []string
	rows = append(rows, title, "")

	for i, ws := range m.workspaces {
		cursor := "  "
		style := normalItemStyle
		if i == m.cursor {
			cursor = "> "
			style = selectedItemStyle
		}
		marker := "  "
		if ws.ID == current {
			marker = successStyle.Render("✓ ")
		}
		label := ws.Name
		if ws.Personal {
			label += mutedStyle.Render(" (personal)")
		}
		rows = append(rows, style.Render(fmt.Sprintf("%s%s", cursor, marker))+label)
	}

	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  enter: switch  n: new"))

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}
