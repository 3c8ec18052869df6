package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/nick-dorsch/taskboard/internal/board"
	"github.com/nick-dorsch/taskboard/internal/ui/components"
	"github.com/nick-dorsch/taskboard/pkg/models"
)

var (
	headerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true).
			Padding(0, 1)

	inputStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1)

	focusedInputStyle = inputStyle.
				BorderForeground(lipgloss.Color("63"))

	footerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")).
			Padding(0, 1)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Italic(true)
)

// BoardModel is the terminal view of a Board. The text input and the task
// list take turns holding focus; tab switches between them.
type BoardModel struct {
	ctx      context.Context
	board    *board.Board
	input    textinput.Model
	filter   models.FilterMode
	cursor   int
	width    int
	quitting bool
}

func NewBoardModel(ctx context.Context, b *board.Board) BoardModel {
	ti := textinput.New()
	ti.Placeholder = "What needs doing?"
	ti.CharLimit = 500
	ti.Focus()

	return BoardModel{
		ctx:    ctx,
		board:  b,
		input:  ti,
		filter: models.FilterAll,
		width:  80,
	}
}

func (m BoardModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m BoardModel) visible() []*models.Task {
	return board.Filter(m.board.Tasks(), m.filter)
}

func (m BoardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.input.Width = msg.Width - 6
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.quitting = true
			return m, tea.Quit
		}
		if m.input.Focused() {
			return m.updateInput(msg)
		}
		return m.updateList(msg)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m BoardModel) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		if _, ok := m.board.Add(m.ctx, m.input.Value()); ok {
			m.input.SetValue("")
			m.cursor = 0
		}
		return m, nil
	case "tab", "esc":
		m.input.Blur()
		m.clampCursor()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m BoardModel) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	tasks := m.visible()

	switch msg.String() {
	case "q", "esc":
		m.quitting = true
		return m, tea.Quit

	case "tab", "i", "/":
		return m, m.input.Focus()

	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}

	case "down", "j":
		if m.cursor < len(tasks)-1 {
			m.cursor++
		}

	case " ", "x", "enter":
		if m.cursor < len(tasks) {
			m.board.Toggle(m.ctx, tasks[m.cursor].ID)
		}

	case "d", "delete", "backspace":
		if m.cursor < len(tasks) {
			m.board.Remove(m.ctx, tasks[m.cursor].ID)
		}

	case "f", "right", "l":
		m.filter = m.filter.Next()
		m.cursor = 0

	case "1":
		m.filter, m.cursor = models.FilterAll, 0
	case "2":
		m.filter, m.cursor = models.FilterActive, 0
	case "3":
		m.filter, m.cursor = models.FilterCompleted, 0
	}

	m.clampCursor()
	return m, nil
}

func (m *BoardModel) clampCursor() {
	n := len(m.visible())
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m BoardModel) View() string {
	if m.quitting {
		return ""
	}

	all := m.board.Tasks()
	stats := board.ComputeStats(all)

	var s strings.Builder
	s.WriteString(headerStyle.Render("TaskBoard"))
	s.WriteString("\n")

	style := inputStyle
	if m.input.Focused() {
		style = focusedInputStyle
	}
	s.WriteString(style.Width(m.width - 2).Render(m.input.View()))
	s.WriteString("\n")

	s.WriteString(components.StatsBar(stats))
	s.WriteString("\n\n")

	labels := make([]string, len(models.FilterModes))
	selected := 0
	for i, mode := range models.FilterModes {
		labels[i] = board.FilterLabel(mode)
		if mode == m.filter {
			selected = i
		}
	}
	s.WriteString(components.FilterTabs(labels, selected))
	s.WriteString("\n\n")

	list := components.NewTaskList(m.width)
	list.Tasks = board.Filter(all, m.filter)
	list.Placeholder = board.EmptyMessage(m.filter)
	if !m.input.Focused() {
		list.Cursor = m.cursor
	}
	s.WriteString(list.View())
	s.WriteString("\n")

	if footer := board.CompletionMessage(stats); footer != "" {
		s.WriteString("\n")
		s.WriteString(footerStyle.Render(footer))
		s.WriteString("\n")
	}

	s.WriteString("\n")
	s.WriteString(m.helpView())
	s.WriteString("\n")
	return s.String()
}

func (m BoardModel) helpView() string {
	if m.input.Focused() {
		return helpStyle.Render("enter add • tab to list • ctrl+c quit")
	}
	return helpStyle.Render(fmt.Sprintf("j/k move • space toggle • d delete • f/1-3 filter (%s) • tab to input • q quit", m.filter))
}

// RunBoard runs the board TUI until the user quits.
func RunBoard(ctx context.Context, b *board.Board) error {
	p := tea.NewProgram(NewBoardModel(ctx, b), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}
