package cmd

import (
	"sort"

	"github.com/josephgoksu/crewboard/models"
)

// statusToInt converts a status to an integer for sorting (workflow order).
func statusToInt(s models.TaskStatus) int {
	switch s {
	case models.StatusNew:
		return 1
	case models.StatusInProgress:
		return 2
	case models.StatusQuestions:
		return 3
	case models.StatusInReview:
		return 4
	case models.StatusDone:
		return 5
	case models.StatusCancelled:
		return 6
	default:
		return 0
	}
}

// priorityToInt converts a backlog priority to an integer for sorting.
func priorityToInt(p models.BacklogPriority) int {
	switch p {
	case models.PriorityHigh:
		return 3
	case models.PriorityMedium:
		return 2
	case models.PriorityLow:
		return 1
	default:
		return 0
	}
}

// sortTasksForDisplay orders tasks by workflow stage, then id, so the
// actionable work floats to the top of listings.
func sortTasksForDisplay(tasks []models.Task) []models.Task {
	sort.SliceStable(tasks, func(i, j int) bool {
		si, sj := statusToInt(tasks[i].Status), statusToInt(tasks[j].Status)
		if si != sj {
			return si < sj
		}
		return tasks[i].ID < tasks[j].ID
	})
	return tasks
}

// sortBacklogForDisplay orders backlog items by priority (high first),
// then id.
func sortBacklogForDisplay(items []models.BacklogItem) []models.BacklogItem {
	sort.SliceStable(items, func(i, j int) bool {
		pi, pj := priorityToInt(items[i].Priority), priorityToInt(items[j].Priority)
		if pi != pj {
			return pi > pj
		}
		return items[i].ID < items[j].ID
	})
	return items
}
