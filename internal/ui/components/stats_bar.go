package components

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/nick-dorsch/taskboard/pkg/models"
)

var (
	statBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Padding(0, 1)

	tabStyle = lipgloss.NewStyle().
			Padding(0, 2).
			Foreground(lipgloss.Color("246"))

	selectedTabStyle = lipgloss.NewStyle().
				Padding(0, 2).
				Foreground(lipgloss.Color("231")).
				Background(lipgloss.Color("63")).
				Bold(true)
)

// StatsBar renders the total, active, and completed counts side by side.
func StatsBar(s models.Stats) string {
	return lipgloss.JoinHorizontal(lipgloss.Top,
		statBoxStyle.Render(fmt.Sprintf("Total %d", s.Total)),
		statBoxStyle.Render(fmt.Sprintf("Active %d", s.Active)),
		statBoxStyle.Render(fmt.Sprintf("Completed %d", s.Completed)),
	)
}

// FilterTabs renders one tab per label, highlighting the selected index.
func FilterTabs(labels []string, selected int) string {
	tabs := make([]string, len(labels))
	for i, label := range labels {
		if i == selected {
			tabs[i] = selectedTabStyle.Render(label)
		} else {
			tabs[i] = tabStyle.Render(label)
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}
