package models

import (
	"testing"
)

func TestTaskStatusIsTerminal(t *testing.T) {
	terminal := map[TaskStatus]bool{
		StatusNew:        false,
		StatusInProgress: false,
		StatusInReview:   false,
		StatusQuestions:  false,
		StatusDone:       true,
		StatusCancelled:  true,
	}
	for status, want := range terminal {
		if got := status.IsTerminal(); got != want {
			t.Errorf("IsTerminal(%s) = %v, want %v", status, got, want)
		}
	}
}

func TestParseStatus(t *testing.T) {
	if s, ok := ParseStatus("in_progress"); !ok || s != StatusInProgress {
		t.Errorf("ParseStatus(in_progress) = %q, %v", s, ok)
	}
	if _, ok := ParseStatus("doing"); ok {
		t.Error("ParseStatus should reject unknown statuses")
	}
}

func TestValidateTask(t *testing.T) {
	task := NewTask("T001", "A valid task", "analyst_anna")
	if err := ValidateStruct(*task); err != nil {
		t.Fatalf("valid task rejected: %v", err)
	}

	bad := NewTask("X001", "A valid task", "analyst_anna")
	if err := ValidateStruct(*bad); err == nil {
		t.Error("malformed id should fail validation")
	}

	short := NewTask("T001", "ab", "analyst_anna")
	if err := ValidateStruct(*short); err == nil {
		t.Error("too-short title should fail validation")
	}

	badAuthor := NewTask("T001", "A valid task", "Analyst Anna")
	if err := ValidateStruct(*badAuthor); err == nil {
		t.Error("employee names must be lowercase with underscores")
	}

	badStatus := NewTask("T001", "A valid task", "analyst_anna")
	badStatus.Status = "paused"
	if err := ValidateStruct(*badStatus); err == nil {
		t.Error("unknown status should fail validation")
	}
}

func TestValidateSprintAndBacklog(t *testing.T) {
	sprint := NewSprint("S001", "Sprint one", "Ship it", "the_boss")
	if err := ValidateStruct(*sprint); err != nil {
		t.Fatalf("valid sprint rejected: %v", err)
	}
	sprint.ID = "T001"
	if err := ValidateStruct(*sprint); err == nil {
		t.Error("sprint with task id should fail validation")
	}

	item := NewBacklogItem("B001", "Dark mode", "analyst_anna", PriorityHigh)
	if err := ValidateStruct(*item); err != nil {
		t.Fatalf("valid backlog item rejected: %v", err)
	}
	item.Priority = "urgent"
	if err := ValidateStruct(*item); err == nil {
		t.Error("unknown priority should fail validation")
	}
}

func TestParseRole(t *testing.T) {
	if r, ok := ParseRole("reviewer"); !ok || r != RoleReviewer {
		t.Errorf("ParseRole(reviewer) = %q, %v", r, ok)
	}
	if _, ok := ParseRole("intern"); ok {
		t.Error("ParseRole should reject unknown roles")
	}
	if !RoleBoss.CanReview() || !RoleReviewer.CanReview() {
		t.Error("boss and reviewer should be reviewing roles")
	}
	if RoleDeveloper.CanReview() {
		t.Error("developer is not a reviewing role")
	}
}
