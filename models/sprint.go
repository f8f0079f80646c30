package models

import "time"

// SprintStatus represents the lifecycle of a sprint.
type SprintStatus string

const (
	SprintActive    SprintStatus = "active"
	SprintCompleted SprintStatus = "completed"
)

// Sprint groups tasks under a shared goal. Member tasks are derived by
// filtering tasks on SprintID; the sprint record never stores them.
type Sprint struct {
	ID             string       `json:"id" validate:"required,sprintid"`
	Name           string       `json:"name" validate:"required,min=3,max=255"`
	Goal           string       `json:"goal,omitempty"`
	Status         SprintStatus `json:"status" validate:"required,oneof=active completed"`
	CreatedBy      string       `json:"createdBy" validate:"required,employeename"`
	FinalizeTaskID string       `json:"finalizeTaskId,omitempty" validate:"omitempty,taskid"`
	CreatedAt      time.Time    `json:"createdAt" validate:"required"`
	UpdatedAt      time.Time    `json:"updatedAt" validate:"required"`
}

// SprintList is the on-disk collection wrapper for sprints.
type SprintList struct {
	Sprints    []Sprint `json:"sprints" validate:"dive"`
	TotalCount int      `json:"totalCount"`
}

// NewSprint returns an active sprint with timestamps applied.
func NewSprint(id, name, goal, createdBy string) *Sprint {
	now := time.Now().UTC()
	return &Sprint{
		ID:        id,
		Name:      name,
		Goal:      goal,
		Status:    SprintActive,
		CreatedBy: createdBy,
		CreatedAt: now,
		UpdatedAt: now,
	}
}
