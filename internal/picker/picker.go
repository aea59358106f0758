// Package picker lets the user choose a build target from a list.
package picker

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

// ErrNoSelection is returned when the user leaves the picker without choosing.
var ErrNoSelection = errors.New("no target selected")

const (
	defaultWidth  = 60
	defaultHeight = 20
	ellipsis      = "…"
)

var (
	titleStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("#6C99BB")).Bold(true)
	itemStyle         = lipgloss.NewStyle().PaddingLeft(2)
	selectedItemStyle = lipgloss.NewStyle().PaddingLeft(0).Foreground(lipgloss.Color("#7B9246"))
)

type item string

func (i item) FilterValue() string { return string(i) }

// itemDelegate renders one target per row, truncated to the list width.
type itemDelegate struct{}

func (d itemDelegate) Height() int                             { return 1 }
func (d itemDelegate) Spacing() int                            { return 0 }
func (d itemDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }

func (d itemDelegate) Render(w io.Writer, m list.Model, index int, listItem list.Item) {
	it, ok := listItem.(item)
	if !ok {
		return
	}
	_, _ = fmt.Fprint(w, renderItem(string(it), m.Width(), index == m.Index()))
}

func renderItem(name string, width int, selected bool) string {
	if avail := width - 2; avail > 0 {
		name = runewidth.Truncate(name, avail, ellipsis)
	}
	if selected {
		return selectedItemStyle.Render("> " + name)
	}
	return itemStyle.Render(name)
}

type model struct {
	list   list.Model
	choice string
}

func newModel(title string, targets []string) model {
	items := make([]list.Item, len(targets))
	for i, t := range targets {
		items[i] = item(t)
	}
	l := list.New(items, itemDelegate{}, defaultWidth, defaultHeight)
	l.Title = title
	l.Styles.Title = titleStyle
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(true)
	return model{list: l}
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.list.SetSize(msg.Width, msg.Height)
		return m, nil
	case tea.KeyMsg:
		if m.list.FilterState() == list.Filtering {
			break
		}
		switch msg.String() {
		case "enter":
			if it, ok := m.list.SelectedItem().(item); ok {
				m.choice = string(it)
			}
			return m, tea.Quit
		case "ctrl+c":
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m model) View() string {
	if m.choice != "" {
		return ""
	}
	return m.list.View()
}

// Select shows targets in an interactive list and returns the chosen one.
// Leaving with q, esc or ctrl+c returns ErrNoSelection. opts are passed to
// the bubbletea program, e.g. to redirect input and output.
func Select(ctx context.Context, title string, targets []string, opts ...tea.ProgramOption) (string, error) {
	if len(targets) == 0 {
		return "", ErrNoSelection
	}
	opts = append([]tea.ProgramOption{tea.WithContext(ctx)}, opts...)
	program := tea.NewProgram(newModel(title, targets), opts...)
	finalModel, err := program.Run()
	if err != nil {
		return "", fmt.Errorf("running target picker: %w", err)
	}
	m, ok := finalModel.(model)
	if !ok || m.choice == "" {
		return "", ErrNoSelection
	}
	return m.choice, nil
}
