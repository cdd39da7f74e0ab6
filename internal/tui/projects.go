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

var projectColors = []string{"#7C6CF0", "#2EC4B6", "#FF6B6B", "#F39C12", "#2ECC71", "#E74C3C", "#9B59B6", "#3498DB"}

type projectsModel struct {
	store  *store.Store
	width  int
	height int

	projects     []store.Project
	cursor       int
	showArchived bool

	formActive bool
	form       *huh.Form
	formType   string // "project", "edit_project"

	// Form field pointers (survive value copies)
	formName  *string
	formColor *string

	editingID string
}

func newProjectsModel(s *store.Store) projectsModel {
	name, color := "", projectColors[0]
	return projectsModel{
		store:     s,
		formName:  &name,
		formColor: &color,
	}
}

func (p *projectsModel) setSize(w, h int) {
	p.width = w
	p.height = h
}

type projectsDataMsg struct {
	projects []store.Project
}

func (p projectsModel) refresh() tea.Cmd {
	showArchived := p.showArchived
	return func() tea.Msg {
		var projects []store.Project
		if showArchived {
			projects = p.store.Projects()
		} else {
			projects = p.store.ActiveProjects()
		}
		return projectsDataMsg{projects: projects}
	}
}

func (p projectsModel) update(msg tea.Msg) (projectsModel, tea.Cmd) {
	if p.formActive && p.form != nil {
		return p.updateForm(msg)
	}

	switch msg := msg.(type) {
	case projectsDataMsg:
		p.projects = msg.projects
		if p.cursor >= len(p.projects) {
			p.cursor = max(0, len(p.projects)-1)
		}
		return p, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Up):
			if p.cursor > 0 {
				p.cursor--
			}
		case key.Matches(msg, keys.Down):
			if p.cursor < len(p.projects)-1 {
				p.cursor++
			}
		case key.Matches(msg, keys.Mode):
			p.showArchived = !p.showArchived
			return p, p.refresh()
		case key.Matches(msg, keys.New):
			return p.showNewProjectForm()
		case key.Matches(msg, keys.Enter):
			if len(p.projects) > 0 {
				return p.showEditProjectForm()
			}
		case key.Matches(msg, keys.Delete):
			if len(p.projects) > 0 {
				proj := p.projects[p.cursor]
				if err := p.store.ArchiveProject(proj.ID); err != nil {
					return p, errorStatus(err)
				}
				return p, p.refresh()
			}
		}
	}
	return p, nil
}

func colorOptions() []huh.Option[string] {
	opts := make([]huh.Option[string], len(projectColors))
	for i, c := range projectColors {
		opts[i] = huh.NewOption(fmt.Sprintf("● %s", c), c)
	}
	return opts
}

func (p projectsModel) showNewProjectForm() (projectsModel, tea.Cmd) {
	*p.formName = ""
	*p.formColor = projectColors[0]
	p.formType = "project"

	p.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Project Name").Value(p.formName),
			huh.NewSelect[string]().Title("Color").Options(colorOptions()...).Value(p.formColor),
		),
	).WithShowHelp(true).WithShowErrors(true)

	p.formActive = true
	return p, p.form.Init()
}

func (p projectsModel) showEditProjectForm() (projectsModel, tea.Cmd) {
	proj := p.projects[p.cursor]
	*p.formName = proj.Name
	*p.formColor = proj.Color
	p.formType = "edit_project"
	p.editingID = proj.ID

	p.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Project Name").Value(p.formName),
			huh.NewSelect[string]().Title("Color").Options(colorOptions()...).Value(p.formColor),
		),
	).WithShowHelp(true).WithShowErrors(true)

	p.formActive = true
	return p, p.form.Init()
}

func (p projectsModel) updateForm(msg tea.Msg) (projectsModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			p.formActive = false
			p.form = nil
			return p, nil
		}
	}

	form, cmd := p.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		p.form = f
	}

	if p.form.State == huh.StateCompleted {
		p.formActive = false
		switch p.formType {
		case "project":
			if *p.formName != "" {
				if _, err := p.store.CreateProject(*p.formName, *p.formColor); err != nil {
					return p, errorStatus(err)
				}
			}
			return p, p.refresh()
		case "edit_project":
			if *p.formName != "" {
				if err := p.store.UpdateProject(p.editingID, *p.formName, *p.formColor); err != nil {
					return p, errorStatus(err)
				}
			}
			return p, p.refresh()
		}
	}

	return p, cmd
}

func (p projectsModel) view() string {
	if p.formActive && p.form != nil {
		title := titleStyle.Render("New Project")
		if p.formType == "edit_project" {
			title = titleStyle.Render("Edit Project")
		}
		content := lipgloss.JoinVertical(lipgloss.Left, title, "", p.form.View())
		return panelStyle.Width(p.width - 4).Render(content)
	}

	w := p.width - 4
	title := titleStyle.Render("Projects")
	if p.showArchived {
		title = titleStyle.Render("Projects (incl. archived)")
	}

	if len(p.projects) == 0 {
		content := lipgloss.JoinVertical(lipgloss.Left,
			title,
			"",
			mutedStyle.Render("No projects yet. Press n to create one."),
		)
		return panelStyle.Width(w).Render(content)
	}

	var rows []string
	rows = append(rows, title, "")

	header := mutedStyle.Render(fmt.Sprintf("  %-3s %-24s %-10s", "", "Name", "Status"))
	rows = append(rows, header)

	for i, proj := range p.projects {
		cursor := "  "
		style := normalItemStyle
		if i == p.cursor {
			cursor = "> "
			style = selectedItemStyle
		}
		status := string(proj.Status)
		row := style.Render(fmt.Sprintf("%s%s %-24s %-10s", cursor, colorDot(proj.Color), proj.Name, status))
		rows = append(rows, row)
	}

	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  n: new  enter: edit  d: archive  m: show archived"))

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}
