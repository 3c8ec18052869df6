package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/nick-dorsch/taskboard/pkg/models"
)

var (
	activeTaskStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252"))

	completedTaskStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("240")).
				Strikethrough(true)

	cursorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("12")).
			Bold(true)

	placeholderStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("240")).
				Italic(true).
				Padding(1, 1)
)

// TaskList renders tasks one per line with a completion marker.
type TaskList struct {
	Tasks []*models.Task
	// Cursor is the highlighted row, or -1 for none.
	Cursor int
	Width  int
	// Placeholder is shown when Tasks is empty.
	Placeholder string
}

func NewTaskList(width int) *TaskList {
	return &TaskList{Width: width, Cursor: -1}
}

func (l *TaskList) View() string {
	if len(l.Tasks) == 0 {
		return placeholderStyle.Render(l.Placeholder)
	}

	textWidth := l.Width - 6
	if textWidth < 0 {
		textWidth = 0
	}

	var lines []string
	for i, t := range l.Tasks {
		pointer := "  "
		if i == l.Cursor {
			pointer = cursorStyle.Render("> ")
		}

		marker, style := "○", activeTaskStyle
		if t.Completed {
			marker, style = "✓", completedTaskStyle
		}

		text := t.Text
		if textWidth > 0 {
			text = lipgloss.NewStyle().Width(textWidth).Render(text)
		}
		textLines := strings.Split(text, "\n")
		for j, line := range textLines {
			if j == 0 {
				lines = append(lines, fmt.Sprintf("%s%s %s", pointer, marker, style.Render(line)))
			} else {
				lines = append(lines, fmt.Sprintf("    %s", style.Render(line)))
			}
		}
	}
	return strings.Join(lines, "\n")
}
