package board

import (
	"fmt"

	"github.com/nick-dorsch/taskboard/pkg/models"
)

// Filter returns the tasks selected by mode, preserving order.
// Unknown modes select everything.
func Filter(tasks []*models.Task, mode models.FilterMode) []*models.Task {
	out := make([]*models.Task, 0, len(tasks))
	for _, t := range tasks {
		switch mode {
		case models.FilterActive:
			if t.Completed {
				continue
			}
		case models.FilterCompleted:
			if !t.Completed {
				continue
			}
		}
		out = append(out, t)
	}
	return out
}

func ComputeStats(tasks []*models.Task) models.Stats {
	s := models.Stats{Total: len(tasks)}
	for _, t := range tasks {
		if t.Completed {
			s.Completed++
		} else {
			s.Active++
		}
	}
	return s
}

// EmptyMessage is shown in place of the list when the filter selects nothing.
func EmptyMessage(mode models.FilterMode) string {
	switch mode {
	case models.FilterActive:
		return "No active tasks"
	case models.FilterCompleted:
		return "No completed tasks"
	default:
		return "Add your first task"
	}
}

// CompletionMessage is the footer line, empty until something is completed.
func CompletionMessage(s models.Stats) string {
	switch {
	case s.Completed == 0:
		return ""
	case s.Completed == 1:
		return "🎉 1 task completed!"
	default:
		return fmt.Sprintf("🎉 %d tasks completed!", s.Completed)
	}
}

// FilterLabel is the display name of a filter mode.
func FilterLabel(mode models.FilterMode) string {
	switch mode {
	case models.FilterActive:
		return "Active"
	case models.FilterCompleted:
		return "Completed"
	default:
		return "All"
	}
}
