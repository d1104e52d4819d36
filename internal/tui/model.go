// Package tui implements the interactive theme picker for
// `hyprsupreme theme browse`. The left pane lists installed themes,
// the right pane previews the selected theme's color swatches, and
// enter applies the selection.
package tui

import (
	"fmt"
	"sort"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/hyprsupreme/hyprsupreme/internal/theme"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	paneStyle  = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("8")).
			Padding(0, 1)
	activeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("7"))
	swatchName  = lipgloss.NewStyle().Width(18)
)

// themeItem wraps a theme name for the list component.
type themeItem struct {
	name        string
	description string
	author      string
	active      bool
}

func (i themeItem) Title() string {
	if i.active {
		return i.name + " " + activeStyle.Render("(active)")
	}
	return i.name
}

func (i themeItem) Description() string {
	desc := i.description
	if desc == "" {
		desc = "no description"
	}
	if i.author != "" {
		desc += " (" + i.author + ")"
	}
	return desc
}

func (i themeItem) FilterValue() string {
	return i.name + " " + i.description + " " + i.author
}

type themesLoadedMsg struct {
	items []list.Item
}

type appliedMsg struct {
	name string
}

type errorMsg struct {
	err error
}

// Model is the bubbletea model for the theme picker.
type Model struct {
	manager *theme.Manager

	list list.Model
	help help.Model
	keys KeyMap

	width  int
	height int
	ready  bool

	statusMsg string
	statusErr bool
}

// NewModel creates a picker over the given theme manager.
func NewModel(manager *theme.Manager) Model {
	delegate := list.NewDefaultDelegate()
	l := list.New(nil, delegate, 0, 0)
	l.Title = "Themes"
	l.SetShowHelp(false)
	l.SetShowStatusBar(false)
	l.DisableQuitKeybindings()

	return Model{
		manager: manager,
		list:    l,
		help:    help.New(),
		keys:    DefaultKeyMap(),
	}
}

// Init loads the theme list.
func (m Model) Init() tea.Cmd {
	return m.loadThemes
}

func (m Model) loadThemes() tea.Msg {
	names := m.manager.List()
	active, _ := m.manager.ActiveName()

	items := make([]list.Item, 0, len(names))
	for _, name := range names {
		item := themeItem{name: name, active: name == active}
		if t, err := m.manager.Load(name); err == nil {
			item.description = t.Description
			item.author = t.Author
		}
		items = append(items, item)
	}
	return themesLoadedMsg{items: items}
}

func (m Model) applySelected() tea.Cmd {
	item, ok := m.list.SelectedItem().(themeItem)
	if !ok {
		return nil
	}
	return func() tea.Msg {
		if _, err := m.manager.Apply(item.name); err != nil {
			return errorMsg{err: err}
		}
		return appliedMsg{name: item.name}
	}
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		listWidth := m.width/2 - 4
		if listWidth < 20 {
			listWidth = 20
		}
		m.list.SetSize(listWidth, m.height-4)
		return m, nil

	case themesLoadedMsg:
		cmd := m.list.SetItems(msg.items)
		return m, cmd

	case appliedMsg:
		m.statusMsg = fmt.Sprintf("applied %s", msg.name)
		m.statusErr = false
		return m, m.loadThemes

	case errorMsg:
		m.statusMsg = msg.err.Error()
		m.statusErr = true
		return m, nil

	case tea.KeyMsg:
		if m.list.FilterState() == list.Filtering {
			break
		}
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Apply):
			return m, m.applySelected()
		case key.Matches(msg, m.keys.Refresh):
			m.manager.Invalidate()
			return m, m.loadThemes
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// View renders the picker.
func (m Model) View() string {
	if !m.ready {
		return "loading..."
	}

	left := paneStyle.Render(m.list.View())
	right := paneStyle.Render(m.preview())
	panes := lipgloss.JoinHorizontal(lipgloss.Top, left, right)

	status := m.statusMsg
	if m.statusErr {
		status = errorStyle.Render(status)
	} else {
		status = statusStyle.Render(status)
	}

	return lipgloss.JoinVertical(lipgloss.Left, panes, status, m.help.View(m.keys))
}

// preview renders the selected theme's color swatches.
func (m Model) preview() string {
	item, ok := m.list.SelectedItem().(themeItem)
	if !ok {
		return "no theme selected"
	}

	t, err := m.manager.Load(item.name)
	if err != nil {
		return errorStyle.Render(err.Error())
	}

	lines := []string{titleStyle.Render(t.Name), ""}
	lines = append(lines, renderSwatches(t.Colors)...)
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

// renderSwatches produces one line per color, sorted by name.
func renderSwatches(colors map[string]string) []string {
	names := make([]string, 0, len(colors))
	for name := range colors {
		names = append(names, name)
	}
	sort.Strings(names)

	lines := make([]string, 0, len(names))
	for _, name := range names {
		hex := colors[name]
		block := lipgloss.NewStyle().Background(lipgloss.Color(hex)).Render("      ")
		lines = append(lines, fmt.Sprintf("%s %s %s", swatchName.Render(name), block, hex))
	}
	return lines
}

// Run starts the picker and blocks until the user quits.
func Run(manager *theme.Manager) error {
	_, err := tea.NewProgram(NewModel(manager), tea.WithAltScreen()).Run()
	return err
}
