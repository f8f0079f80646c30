package cmd

import (
	"testing"

	"github.com/josephgoksu/crewboard/models"
)

func TestSortTasksForDisplay(t *testing.T) {
	tasks := []models.Task{
		{ID: "T003", Status: models.StatusDone},
		{ID: "T002", Status: models.StatusInProgress},
		{ID: "T001", Status: models.StatusNew},
		{ID: "T004", Status: models.StatusInProgress},
	}

	sorted := sortTasksForDisplay(tasks)

	wantOrder := []string{"T001", "T002", "T004", "T003"}
	for i, id := range wantOrder {
		if sorted[i].ID != id {
			t.Errorf("position %d = %s, want %s", i, sorted[i].ID, id)
		}
	}
}

func TestSortBacklogForDisplay(t *testing.T) {
	items := []models.BacklogItem{
		{ID: "B002", Priority: models.PriorityLow},
		{ID: "B003", Priority: models.PriorityHigh},
		{ID: "B001", Priority: models.PriorityMedium},
	}

	sorted := sortBacklogForDisplay(items)

	wantOrder := []string{"B003", "B001", "B002"}
	for i, id := range wantOrder {
		if sorted[i].ID != id {
			t.Errorf("position %d = %s, want %s", i, sorted[i].ID, id)
		}
	}
}

func TestStatusToIntCoversAllStatuses(t *testing.T) {
	for _, s := range models.AllStatuses {
		if statusToInt(s) == 0 {
			t.Errorf("status %q has no sort weight", s)
		}
	}
}
