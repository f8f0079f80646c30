package models

import "time"

// BacklogPriority represents the priority levels of a backlog item.
type BacklogPriority string

const (
	PriorityHigh   BacklogPriority = "high"
	PriorityMedium BacklogPriority = "medium"
	PriorityLow    BacklogPriority = "low"
)

// ParsePriority validates a raw priority string.
func ParsePriority(raw string) (BacklogPriority, bool) {
	switch BacklogPriority(raw) {
	case PriorityHigh, PriorityMedium, PriorityLow:
		return BacklogPriority(raw), true
	}
	return "", false
}

// BacklogItem is a candidate piece of work waiting for a sprint.
// When a sprint is created, every item with NextSprint set is converted
// 1:1 into a task; the item stays in the backlog as history with
// Promoted set and the flag cleared.
type BacklogItem struct {
	ID           string          `json:"id" validate:"required,backlogid"`
	Title        string          `json:"title" validate:"required,min=3,max=255"`
	Description  string          `json:"description,omitempty"`
	Priority     BacklogPriority `json:"priority" validate:"required,oneof=high medium low"`
	Author       string          `json:"author" validate:"required,employeename"`
	NextSprint   bool            `json:"nextSprint"`
	Promoted     bool            `json:"promoted,omitempty"`
	PromotedTask string          `json:"promotedTask,omitempty" validate:"omitempty,taskid"`
	CreatedAt    time.Time       `json:"createdAt" validate:"required"`
	UpdatedAt    time.Time       `json:"updatedAt" validate:"required"`
}

// BacklogList is the on-disk collection wrapper for backlog items.
type BacklogList struct {
	Items      []BacklogItem `json:"items" validate:"dive"`
	TotalCount int           `json:"totalCount"`
}

// NewBacklogItem returns a backlog item with defaults applied.
func NewBacklogItem(id, title, author string, priority BacklogPriority) *BacklogItem {
	now := time.Now().UTC()
	return &BacklogItem{
		ID:        id,
		Title:     title,
		Author:    author,
		Priority:  priority,
		CreatedAt: now,
		UpdatedAt: now,
	}
}
