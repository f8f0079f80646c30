package models

import (
	"time"
)

// TaskStatus represents the possible statuses of a task.
type TaskStatus string

const (
	StatusNew        TaskStatus = "new"
	StatusInProgress TaskStatus = "in_progress"
	StatusInReview   TaskStatus = "in_review"
	StatusQuestions  TaskStatus = "questions"
	StatusDone       TaskStatus = "done"
	StatusCancelled  TaskStatus = "cancelled"
)

// AllStatuses lists every valid task status in workflow order.
var AllStatuses = []TaskStatus{
	StatusNew,
	StatusInProgress,
	StatusInReview,
	StatusQuestions,
	StatusDone,
	StatusCancelled,
}

// IsTerminal reports whether no further status transitions are possible.
func (s TaskStatus) IsTerminal() bool {
	return s == StatusDone || s == StatusCancelled
}

// ParseStatus validates a raw status string.
func ParseStatus(raw string) (TaskStatus, bool) {
	for _, s := range AllStatuses {
		if string(s) == raw {
			return s, true
		}
	}
	return "", false
}

// Task represents a unit of work on the board.
type Task struct {
	ID          string     `json:"id" validate:"required,taskid"`
	Title       string     `json:"title" validate:"required,min=3,max=255"`
	Description string     `json:"description,omitempty"`
	Author      string     `json:"author" validate:"required,employeename"`
	Executor    string     `json:"executor,omitempty" validate:"omitempty,employeename"`
	Status      TaskStatus `json:"status" validate:"required,oneof=new in_progress in_review questions done cancelled"`
	SprintID    *string    `json:"sprintId,omitempty" validate:"omitempty,sprintid"`
	DependsOn   []string   `json:"dependsOn,omitempty" validate:"dive,taskid"`
	Dependents  []string   `json:"dependents,omitempty" validate:"dive,taskid"` // managed internally, never set by callers
	Result      string     `json:"result,omitempty"`
	Finalize    bool       `json:"finalize,omitempty"` // marks the sprint-finalization task
	CreatedAt   time.Time  `json:"createdAt" validate:"required"`
	UpdatedAt   time.Time  `json:"updatedAt" validate:"required"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
}

// TaskList represents a collection of tasks as persisted on disk.
type TaskList struct {
	Tasks      []Task `json:"tasks" validate:"dive"`
	TotalCount int    `json:"totalCount"`
}

// NewTask returns a task with defaults applied. The caller is responsible
// for assigning an ID before persisting.
func NewTask(id, title, author string) *Task {
	now := time.Now().UTC()
	return &Task{
		ID:         id,
		Title:      title,
		Author:     author,
		Status:     StatusNew,
		DependsOn:  []string{},
		Dependents: []string{},
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}
