package board

import (
	"errors"
	"strings"
	"testing"

	"github.com/josephgoksu/crewboard/models"
	"github.com/josephgoksu/crewboard/store"
	"github.com/josephgoksu/crewboard/types"
)

func setupService(t *testing.T) *Service {
	t.Helper()

	st := store.NewFileProjectStore()
	config := map[string]string{
		"boardDir": t.TempDir(),
		"format":   "json",
	}
	if err := st.Initialize(config); err != nil {
		t.Fatalf("Failed to initialize store: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })

	svc := NewService(st, store.NewMemDiscussionStore())
	for _, emp := range []models.Employee{
		{Name: "boss_kim", Role: models.RoleBoss},
		{Name: "analyst_anna", Role: models.RoleAnalyst},
		{Name: "dev_bob", Role: models.RoleDeveloper},
		{Name: "reviewer_rita", Role: models.RoleReviewer},
	} {
		if _, err := st.PutEmployee(emp); err != nil {
			t.Fatalf("PutEmployee(%s) failed: %v", emp.Name, err)
		}
	}
	return svc
}

func mustCreateTask(t *testing.T, svc *Service, req CreateTaskRequest) models.Task {
	t.Helper()
	task, err := svc.CreateTask(req)
	if err != nil {
		t.Fatalf("CreateTask(%q) failed: %v", req.Title, err)
	}
	return task
}

func mustSetStatus(t *testing.T, svc *Service, taskID string, to models.TaskStatus, actor string) models.Task {
	t.Helper()
	task, err := svc.SetStatus(taskID, to, actor)
	if err != nil {
		t.Fatalf("SetStatus(%s -> %s by %s) failed: %v", taskID, to, actor, err)
	}
	return task
}

func TestService_CreateTaskValidatesRegistry(t *testing.T) {
	svc := setupService(t)

	if _, err := svc.CreateTask(CreateTaskRequest{Title: "x", Author: "ghost"}); !errors.Is(err, types.ErrNotFound) {
		t.Errorf("unknown author error = %v, want ErrNotFound", err)
	}
	if _, err := svc.CreateTask(CreateTaskRequest{Title: "x", Author: "analyst_anna", Executor: "ghost"}); !errors.Is(err, types.ErrNotFound) {
		t.Errorf("unknown executor error = %v, want ErrNotFound", err)
	}
	if _, err := svc.CreateTask(CreateTaskRequest{Title: "x", Author: "analyst_anna", SprintID: "S999"}); !errors.Is(err, types.ErrNotFound) {
		t.Errorf("unknown sprint error = %v, want ErrNotFound", err)
	}

	task := mustCreateTask(t, svc, CreateTaskRequest{
		Title:    "Implement login",
		Author:   "analyst_anna",
		Executor: "dev_bob",
	})
	if task.ID != "T001" {
		t.Errorf("task id = %q, want T001", task.ID)
	}
	if task.Status != models.StatusNew {
		t.Errorf("status = %q, want new", task.Status)
	}
}

func TestService_StatusLifecycle(t *testing.T) {
	svc := setupService(t)

	task := mustCreateTask(t, svc, CreateTaskRequest{
		Title:    "Implement login",
		Author:   "analyst_anna",
		Executor: "dev_bob",
	})

	// Only the assigned executor may start the task.
	if _, err := svc.SetStatus(task.ID, models.StatusInProgress, "analyst_anna"); err == nil {
		t.Error("non-executor started the task, want InvalidTransitionError")
	}
	mustSetStatus(t, svc, task.ID, models.StatusInProgress, "dev_bob")
	mustSetStatus(t, svc, task.ID, models.StatusInReview, "dev_bob")

	// The executor cannot approve their own review.
	if _, err := svc.SetStatus(task.ID, models.StatusDone, "dev_bob"); err == nil {
		t.Error("executor approved own review, want InvalidTransitionError")
	}
	done := mustSetStatus(t, svc, task.ID, models.StatusDone, "reviewer_rita")
	if done.CompletedAt == nil {
		t.Error("CompletedAt not stamped on done")
	}

	// Terminal tasks refuse further transitions.
	if _, err := svc.SetStatus(task.ID, models.StatusInProgress, "dev_bob"); err == nil {
		t.Error("transition out of done succeeded, want TerminalStateError")
	}
	var terminal *types.TerminalStateError
	_, err := svc.SetStatus(task.ID, models.StatusCancelled, "boss_kim")
	if !errors.As(err, &terminal) {
		t.Errorf("cancel of done task error = %v, want TerminalStateError", err)
	}
}

func TestService_QuestionsRoundTrip(t *testing.T) {
	svc := setupService(t)

	task := mustCreateTask(t, svc, CreateTaskRequest{
		Title:    "Clarify payment flow",
		Author:   "analyst_anna",
		Executor: "dev_bob",
	})
	mustSetStatus(t, svc, task.ID, models.StatusInProgress, "dev_bob")
	mustSetStatus(t, svc, task.ID, models.StatusQuestions, "dev_bob")
	back := mustSetStatus(t, svc, task.ID, models.StatusInProgress, "dev_bob")
	if back.Status != models.StatusInProgress {
		t.Errorf("status after answering = %q, want in_progress", back.Status)
	}
}

func TestService_ReviewRejection(t *testing.T) {
	svc := setupService(t)

	task := mustCreateTask(t, svc, CreateTaskRequest{
		Title:    "Refactor config loader",
		Author:   "analyst_anna",
		Executor: "dev_bob",
	})
	mustSetStatus(t, svc, task.ID, models.StatusInProgress, "dev_bob")
	mustSetStatus(t, svc, task.ID, models.StatusInReview, "dev_bob")

	// Reviewer sends the task back for rework.
	rejected := mustSetStatus(t, svc, task.ID, models.StatusInProgress, "reviewer_rita")
	if rejected.Status != models.StatusInProgress {
		t.Errorf("status after rejection = %q, want in_progress", rejected.Status)
	}
}

func TestService_AppendResult(t *testing.T) {
	svc := setupService(t)

	task := mustCreateTask(t, svc, CreateTaskRequest{
		Title:    "Ship report",
		Author:   "analyst_anna",
		Executor: "dev_bob",
	})
	if _, err := svc.AppendResult(task.ID, "first finding"); err != nil {
		t.Fatalf("AppendResult failed: %v", err)
	}
	updated, err := svc.AppendResult(task.ID, "second finding")
	if err != nil {
		t.Fatalf("AppendResult failed: %v", err)
	}
	if updated.Result != "first finding\nsecond finding" {
		t.Errorf("result = %q", updated.Result)
	}

	// Results stay writable after the task is terminal.
	mustSetStatus(t, svc, task.ID, models.StatusCancelled, "boss_kim")
	if _, err := svc.AppendResult(task.ID, "post-mortem note"); err != nil {
		t.Errorf("AppendResult on terminal task failed: %v", err)
	}
}

func TestService_DependenciesAndBlocking(t *testing.T) {
	svc := setupService(t)

	schema := mustCreateTask(t, svc, CreateTaskRequest{Title: "Design schema", Author: "analyst_anna", Executor: "dev_bob"})
	api := mustCreateTask(t, svc, CreateTaskRequest{Title: "Build API", Author: "analyst_anna", Executor: "dev_bob"})

	if _, err := svc.AddDependency(api.ID, schema.ID); err != nil {
		t.Fatalf("AddDependency failed: %v", err)
	}

	blocked, err := svc.IsBlocked(api.ID)
	if err != nil {
		t.Fatalf("IsBlocked failed: %v", err)
	}
	if !blocked {
		t.Error("api should be blocked while schema is non-terminal")
	}

	// The reverse edge would close a cycle.
	var cycle *types.CycleError
	_, err = svc.AddDependency(schema.ID, api.ID)
	if !errors.As(err, &cycle) {
		t.Errorf("cycle edge error = %v, want CycleError", err)
	}

	// Adding the same edge twice is a no-op.
	again, err := svc.AddDependency(api.ID, schema.ID)
	if err != nil {
		t.Fatalf("idempotent AddDependency failed: %v", err)
	}
	if len(again.DependsOn) != 1 {
		t.Errorf("dependsOn = %v, want exactly one edge", again.DependsOn)
	}

	mustSetStatus(t, svc, schema.ID, models.StatusInProgress, "dev_bob")
	mustSetStatus(t, svc, schema.ID, models.StatusInReview, "dev_bob")
	mustSetStatus(t, svc, schema.ID, models.StatusDone, "reviewer_rita")

	blocked, err = svc.IsBlocked(api.ID)
	if err != nil {
		t.Fatalf("IsBlocked failed: %v", err)
	}
	if blocked {
		t.Error("api should be unblocked once schema is done")
	}
}

func TestService_SprintCreationAndFinalize(t *testing.T) {
	svc := setupService(t)
	st := svc.Store()

	for _, title := range []string{"Login page", "Search endpoint"} {
		item := models.NewBacklogItem("", title, "analyst_anna", models.PriorityHigh)
		created, err := st.CreateBacklogItem(*item)
		if err != nil {
			t.Fatalf("CreateBacklogItem failed: %v", err)
		}
		if _, err := svc.ToggleBacklog(created.ID); err != nil {
			t.Fatalf("ToggleBacklog failed: %v", err)
		}
	}
	// A third item stays unflagged and must not be promoted.
	if _, err := st.CreateBacklogItem(*models.NewBacklogItem("", "Dark mode", "analyst_anna", models.PriorityLow)); err != nil {
		t.Fatalf("CreateBacklogItem failed: %v", err)
	}

	if _, err := svc.CreateSprint("Auth sprint", "Ship auth", "dev_bob"); !errors.Is(err, types.ErrForbidden) {
		t.Errorf("non-boss sprint creation error = %v, want ErrForbidden", err)
	}

	result, err := svc.CreateSprint("Auth sprint", "Ship auth", "boss_kim")
	if err != nil {
		t.Fatalf("CreateSprint failed: %v", err)
	}
	if result.Sprint.ID != "S001" {
		t.Errorf("sprint id = %q, want S001", result.Sprint.ID)
	}
	if len(result.Promoted) != 2 {
		t.Fatalf("promoted %d tasks, want 2", len(result.Promoted))
	}
	if result.FinalizeTask.ID != result.Sprint.FinalizeTaskID {
		t.Errorf("finalize task id mismatch: %q vs %q", result.FinalizeTask.ID, result.Sprint.FinalizeTaskID)
	}
	if !result.FinalizeTask.Finalize {
		t.Error("finalize task not flagged")
	}
	if len(result.FinalizeTask.DependsOn) != 2 {
		t.Errorf("finalize dependsOn = %v, want both member tasks", result.FinalizeTask.DependsOn)
	}

	// Promoted items become history and cannot be re-flagged.
	items, err := st.ListBacklog(nil)
	if err != nil {
		t.Fatalf("ListBacklog failed: %v", err)
	}
	promoted := 0
	for _, item := range items {
		if item.Promoted {
			promoted++
			if item.NextSprint {
				t.Errorf("promoted item %s still flagged for next sprint", item.ID)
			}
			if !strings.HasPrefix(item.PromotedTask, "T") {
				t.Errorf("promoted item %s has no task ref", item.ID)
			}
			if _, err := svc.ToggleBacklog(item.ID); !errors.Is(err, types.ErrValidation) {
				t.Errorf("re-flagging promoted item error = %v, want ErrValidation", err)
			}
		}
	}
	if promoted != 2 {
		t.Errorf("promoted items in backlog = %d, want 2", promoted)
	}

	// The finalize task cannot finish while members are open.
	fin := result.FinalizeTask
	mustSetStatus(t, svc, fin.ID, models.StatusInProgress, "boss_kim")
	mustSetStatus(t, svc, fin.ID, models.StatusInReview, "boss_kim")
	if _, err := svc.SetStatus(fin.ID, models.StatusDone, "reviewer_rita"); err == nil {
		t.Error("finalize task finished with open members, want error")
	}

	// Sprint completion requires a terminal finalize task.
	if _, err := svc.CompleteSprint(result.Sprint.ID, "boss_kim"); !errors.Is(err, types.ErrValidation) {
		t.Errorf("premature CompleteSprint error = %v, want ErrValidation", err)
	}

	// Promoted members start unassigned and cannot be moved until an
	// executor is assigned.
	if _, err := svc.SetStatus(result.Promoted[0].ID, models.StatusInProgress, "dev_bob"); err == nil {
		t.Error("unassigned promoted task was started, want InvalidTransitionError")
	}

	for _, member := range result.Promoted {
		if _, err := svc.AssignExecutor(member.ID, "dev_bob"); err != nil {
			t.Fatalf("AssignExecutor failed: %v", err)
		}
		mustSetStatus(t, svc, member.ID, models.StatusInProgress, "dev_bob")
		mustSetStatus(t, svc, member.ID, models.StatusInReview, "dev_bob")
		mustSetStatus(t, svc, member.ID, models.StatusDone, "reviewer_rita")
	}

	mustSetStatus(t, svc, fin.ID, models.StatusDone, "reviewer_rita")

	if _, err := svc.CompleteSprint(result.Sprint.ID, "dev_bob"); !errors.Is(err, types.ErrForbidden) {
		t.Errorf("non-boss CompleteSprint error = %v, want ErrForbidden", err)
	}
	completed, err := svc.CompleteSprint(result.Sprint.ID, "boss_kim")
	if err != nil {
		t.Fatalf("CompleteSprint failed: %v", err)
	}
	if completed.Status != models.SprintCompleted {
		t.Errorf("sprint status = %q, want completed", completed.Status)
	}

	tasks, err := svc.SprintTasks(result.Sprint.ID)
	if err != nil {
		t.Fatalf("SprintTasks failed: %v", err)
	}
	if len(tasks) != 3 {
		t.Fatalf("sprint has %d tasks, want 3 (two members + finalize)", len(tasks))
	}
	// Dependency order: the finalize task comes after the work it waits for.
	if tasks[len(tasks)-1].ID != fin.ID {
		t.Errorf("last sprint task = %s, want finalize task %s", tasks[len(tasks)-1].ID, fin.ID)
	}
}

func TestService_AssignExecutor(t *testing.T) {
	svc := setupService(t)

	task := mustCreateTask(t, svc, CreateTaskRequest{Title: "Write migration", Author: "analyst_anna"})

	// Unassigned tasks cannot be moved by anyone but the boss's cancel.
	if _, err := svc.SetStatus(task.ID, models.StatusInProgress, "dev_bob"); err == nil {
		t.Error("unassigned task was started, want InvalidTransitionError")
	}

	if _, err := svc.AssignExecutor(task.ID, "ghost"); !errors.Is(err, types.ErrNotFound) {
		t.Errorf("unknown executor error = %v, want ErrNotFound", err)
	}
	if _, err := svc.AssignExecutor("T999", "dev_bob"); !errors.Is(err, types.ErrNotFound) {
		t.Errorf("unknown task error = %v, want ErrNotFound", err)
	}

	assigned, err := svc.AssignExecutor(task.ID, "dev_bob")
	if err != nil {
		t.Fatalf("AssignExecutor failed: %v", err)
	}
	if assigned.Executor != "dev_bob" {
		t.Errorf("executor = %q, want dev_bob", assigned.Executor)
	}
	mustSetStatus(t, svc, task.ID, models.StatusInProgress, "dev_bob")

	// Hand the task to someone else mid-flight.
	if _, err := svc.AssignExecutor(task.ID, "reviewer_rita"); err != nil {
		t.Fatalf("re-assign failed: %v", err)
	}
	if _, err := svc.SetStatus(task.ID, models.StatusInReview, "dev_bob"); err == nil {
		t.Error("previous executor still moved the task, want InvalidTransitionError")
	}
	mustSetStatus(t, svc, task.ID, models.StatusInReview, "reviewer_rita")

	// Terminal tasks refuse assignment.
	mustSetStatus(t, svc, task.ID, models.StatusCancelled, "boss_kim")
	var terminal *types.TerminalStateError
	if _, err := svc.AssignExecutor(task.ID, "dev_bob"); !errors.As(err, &terminal) {
		t.Errorf("assign on terminal task error = %v, want TerminalStateError", err)
	}
}

func TestService_Verify(t *testing.T) {
	svc := setupService(t)
	st := svc.Store()

	task := mustCreateTask(t, svc, CreateTaskRequest{Title: "Ship feature", Author: "analyst_anna", Executor: "dev_bob"})

	problems, err := svc.Verify()
	if err != nil {
		t.Fatalf("Verify failed: %v", err)
	}
	if len(problems) != 0 {
		t.Errorf("clean board reported problems: %v", problems)
	}

	// Patch in an author that was never registered; Verify must flag it.
	if _, err := st.UpdateTask(task.ID, map[string]interface{}{"author": "ghost_guy"}); err != nil {
		t.Fatalf("UpdateTask failed: %v", err)
	}
	problems, err = svc.Verify()
	if err != nil {
		t.Fatalf("Verify failed: %v", err)
	}
	if len(problems) != 1 {
		t.Fatalf("problems = %v, want exactly the unregistered author", problems)
	}
	if !strings.Contains(problems[0], "ghost_guy") {
		t.Errorf("problem %q does not name the unregistered author", problems[0])
	}
}

func TestService_Discuss(t *testing.T) {
	svc := setupService(t)

	task := mustCreateTask(t, svc, CreateTaskRequest{Title: "Spike caching", Author: "analyst_anna", Executor: "dev_bob"})

	if _, err := svc.Discuss(task.ID, "ghost", "hello"); !errors.Is(err, types.ErrNotFound) {
		t.Errorf("unknown author error = %v, want ErrNotFound", err)
	}
	if _, err := svc.Discuss("T999", "dev_bob", "hello"); !errors.Is(err, types.ErrNotFound) {
		t.Errorf("unknown task error = %v, want ErrNotFound", err)
	}

	entry, err := svc.Discuss(task.ID, "dev_bob", "Considering redis vs in-process LRU.")
	if err != nil {
		t.Fatalf("Discuss failed: %v", err)
	}
	if entry.Role != models.RoleDeveloper {
		t.Errorf("entry role = %q, want developer (from registry)", entry.Role)
	}
	if _, err := svc.Discuss(task.ID, "boss_kim", "Prefer in-process for now."); err != nil {
		t.Fatalf("Discuss failed: %v", err)
	}

	// Discussion stays appendable after the task is terminal.
	mustSetStatus(t, svc, task.ID, models.StatusCancelled, "boss_kim")
	if _, err := svc.Discuss(task.ID, "dev_bob", "Archiving notes."); err != nil {
		t.Errorf("Discuss on terminal task failed: %v", err)
	}

	entries, err := svc.Discussion(task.ID)
	if err != nil {
		t.Fatalf("Discussion failed: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("discussion has %d entries, want 3", len(entries))
	}
	if entries[1].Author != "boss_kim" || entries[1].Role != models.RoleBoss {
		t.Errorf("second entry = %s (%s), want boss_kim (boss)", entries[1].Author, entries[1].Role)
	}
}
