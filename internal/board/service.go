// Package board implements the coordination engine on top of the record
// store: role-gated status changes, dependency wiring, sprint lifecycle,
// backlog promotion, and discussion handoffs.
package board

import (
	"fmt"
	"sort"
	"time"

	"github.com/josephgoksu/crewboard/internal/workflow"
	"github.com/josephgoksu/crewboard/models"
	"github.com/josephgoksu/crewboard/store"
	"github.com/josephgoksu/crewboard/types"
)

// Service coordinates all board mutations. It never caches entity state
// across calls; every operation re-reads through the store so concurrent
// external agents are always observed.
type Service struct {
	store       store.ProjectStore
	discussions store.DiscussionStore
}

// NewService wires a board service over the given stores.
func NewService(st store.ProjectStore, ds store.DiscussionStore) *Service {
	return &Service{store: st, discussions: ds}
}

// Store exposes the underlying record store for read-side consumers.
func (s *Service) Store() store.ProjectStore { return s.store }

// CreateTaskRequest carries the caller-supplied fields for a new task.
type CreateTaskRequest struct {
	Title       string
	Description string
	Author      string
	Executor    string
	SprintID    string
	DependsOn   []string
}

// CreateTask validates the request against the employee registry and the
// dependency graph, then persists the task with the next free id.
func (s *Service) CreateTask(req CreateTaskRequest) (models.Task, error) {
	var created models.Task
	err := s.store.Update(func(state *store.BoardState) error {
		if _, ok := state.Employees[req.Author]; !ok {
			return types.NotFoundError("employee", req.Author)
		}
		if req.Executor != "" {
			if _, ok := state.Employees[req.Executor]; !ok {
				return types.NotFoundError("employee", req.Executor)
			}
		}

		task := models.NewTask("", req.Title, req.Author)
		task.Description = req.Description
		task.Executor = req.Executor
		task.DependsOn = req.DependsOn

		if req.SprintID != "" {
			sprint, ok := state.Sprints[req.SprintID]
			if !ok {
				return types.NotFoundError("sprint", req.SprintID)
			}
			if sprint.Status != models.SprintActive {
				return fmt.Errorf("%w: sprint %s is %s", types.ErrValidation, sprint.ID, sprint.Status)
			}
			task.SprintID = &sprint.ID
		}

		var err error
		created, err = state.InsertTask(*task)
		return err
	})
	return created, err
}

// SetStatus applies a role-gated status transition. The actor is resolved
// against the employee registry; transitions are validated by the
// workflow table, and there is one extra gate: a sprint-finalization task
// cannot reach done while any of its dependencies is non-terminal.
func (s *Service) SetStatus(taskID string, to models.TaskStatus, actorName string) (models.Task, error) {
	var updated models.Task
	err := s.store.Update(func(state *store.BoardState) error {
		actor, ok := state.Employees[actorName]
		if !ok {
			return types.NotFoundError("employee", actorName)
		}
		task, ok := state.Tasks[taskID]
		if !ok {
			return types.NotFoundError("task", taskID)
		}

		if err := workflow.Check(task, to, actor.Name, actor.Role); err != nil {
			return err
		}

		if to == models.StatusDone && task.Finalize {
			if isBlockedInState(state, task) {
				return &types.InvalidTransitionError{
					TaskID: task.ID,
					From:   task.Status,
					To:     to,
					Actor:  actorName,
					Reason: "sprint has non-terminal tasks",
				}
			}
		}

		now := time.Now().UTC()
		task.Status = to
		task.UpdatedAt = now
		if to.IsTerminal() {
			task.CompletedAt = &now
		}
		state.Tasks[taskID] = task
		updated = task
		return nil
	})
	return updated, err
}

// isBlockedInState reports whether any dependency of the task is
// non-terminal. Dangling dependency ids count as blocking.
func isBlockedInState(state *store.BoardState, task models.Task) bool {
	for _, depID := range task.DependsOn {
		dep, ok := state.Tasks[depID]
		if !ok || !dep.Status.IsTerminal() {
			return true
		}
	}
	return false
}

// IsBlocked reports whether the task currently has a non-terminal
// dependency.
func (s *Service) IsBlocked(taskID string) (bool, error) {
	tasks, err := s.store.ListTasks(nil, nil)
	if err != nil {
		return false, err
	}
	return workflow.IsBlocked(tasks, taskID)
}

// AssignExecutor assigns a registered employee as the task's executor.
// Promoted backlog tasks start unassigned and need this before anyone
// can move them through the workflow. Terminal tasks refuse assignment.
func (s *Service) AssignExecutor(taskID, executorName string) (models.Task, error) {
	var updated models.Task
	err := s.store.Update(func(state *store.BoardState) error {
		if _, ok := state.Employees[executorName]; !ok {
			return types.NotFoundError("employee", executorName)
		}
		task, ok := state.Tasks[taskID]
		if !ok {
			return types.NotFoundError("task", taskID)
		}
		if task.Status.IsTerminal() {
			return &types.TerminalStateError{TaskID: task.ID, Status: task.Status}
		}
		task.Executor = executorName
		task.UpdatedAt = time.Now().UTC()
		state.Tasks[taskID] = task
		updated = task
		return nil
	})
	return updated, err
}

// AppendResult appends text to a task's result. This is permitted even in
// terminal states so agents can attach post-completion audit notes.
func (s *Service) AppendResult(taskID, text string) (models.Task, error) {
	var updated models.Task
	err := s.store.Update(func(state *store.BoardState) error {
		task, ok := state.Tasks[taskID]
		if !ok {
			return types.NotFoundError("task", taskID)
		}
		if task.Result == "" {
			task.Result = text
		} else {
			task.Result += "\n" + text
		}
		task.UpdatedAt = time.Now().UTC()
		state.Tasks[taskID] = task
		updated = task
		return nil
	})
	return updated, err
}

// AddDependency adds the edge taskID -> onID, rejecting anything that
// would make the dependency graph cyclic.
func (s *Service) AddDependency(taskID, onID string) (models.Task, error) {
	var updated models.Task
	err := s.store.Update(func(state *store.BoardState) error {
		task, ok := state.Tasks[taskID]
		if !ok {
			return types.NotFoundError("task", taskID)
		}
		tasks := make([]models.Task, 0, len(state.Tasks))
		for _, t := range state.Tasks {
			tasks = append(tasks, t)
		}
		if err := workflow.CheckDependency(tasks, taskID, onID); err != nil {
			return err
		}

		now := time.Now().UTC()
		for _, existing := range task.DependsOn {
			if existing == onID {
				updated = task
				return nil // edge already present, idempotent
			}
		}
		task.DependsOn = append(task.DependsOn, onID)
		task.UpdatedAt = now
		state.Tasks[taskID] = task

		dep := state.Tasks[onID]
		dep.Dependents = append(dep.Dependents, taskID)
		dep.UpdatedAt = now
		state.Tasks[onID] = dep

		updated = task
		return nil
	})
	return updated, err
}

// SprintResult reports what a sprint creation produced.
type SprintResult struct {
	Sprint       models.Sprint
	Promoted     []models.Task
	FinalizeTask models.Task
}

// CreateSprint creates a sprint as one atomic unit: the sprint record,
// one task per backlog item flagged for the next sprint, and the
// finalize task depending on every member task. Boss only.
//
// The finalize task's dependency set is frozen here; tasks added to the
// sprint later are not picked up automatically.
func (s *Service) CreateSprint(name, goal, createdBy string) (SprintResult, error) {
	var result SprintResult
	err := s.store.Update(func(state *store.BoardState) error {
		actor, ok := state.Employees[createdBy]
		if !ok {
			return types.NotFoundError("employee", createdBy)
		}
		if actor.Role != models.RoleBoss {
			return fmt.Errorf("%w: %s (%s) cannot create sprints", types.ErrForbidden, actor.Name, actor.Role)
		}

		sprint, err := state.InsertSprint(*models.NewSprint("", name, goal, createdBy))
		if err != nil {
			return err
		}

		// Promote flagged backlog items 1:1 into member tasks. The item
		// stays in the backlog as history with the flag cleared.
		now := time.Now().UTC()
		var memberIDs []string
		for _, id := range sortedBacklogIDs(state) {
			item := state.Backlog[id]
			if !item.NextSprint {
				continue
			}
			task := models.NewTask("", item.Title, item.Author)
			task.Description = item.Description
			task.SprintID = &sprint.ID
			created, err := state.InsertTask(*task)
			if err != nil {
				return err
			}
			item.NextSprint = false
			item.Promoted = true
			item.PromotedTask = created.ID
			item.UpdatedAt = now
			state.Backlog[id] = item
			memberIDs = append(memberIDs, created.ID)
			result.Promoted = append(result.Promoted, created)
		}

		finalize := models.NewTask("", "Finalize sprint "+name, createdBy)
		finalize.Description = "Close out the sprint once every member task is terminal."
		finalize.Executor = createdBy
		finalize.SprintID = &sprint.ID
		finalize.DependsOn = memberIDs
		finalize.Finalize = true
		finalizeTask, err := state.InsertTask(*finalize)
		if err != nil {
			return err
		}

		sprint.FinalizeTaskID = finalizeTask.ID
		sprint.UpdatedAt = now
		state.Sprints[sprint.ID] = sprint

		result.Sprint = sprint
		result.FinalizeTask = finalizeTask
		return nil
	})
	return result, err
}

// sortedBacklogIDs keeps promotion order deterministic.
func sortedBacklogIDs(state *store.BoardState) []string {
	ids := make([]string, 0, len(state.Backlog))
	for id := range state.Backlog {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// CompleteSprint marks a sprint completed. Boss only, and only once the
// finalize task is terminal.
func (s *Service) CompleteSprint(sprintID, actorName string) (models.Sprint, error) {
	var completed models.Sprint
	err := s.store.Update(func(state *store.BoardState) error {
		actor, ok := state.Employees[actorName]
		if !ok {
			return types.NotFoundError("employee", actorName)
		}
		if actor.Role != models.RoleBoss {
			return fmt.Errorf("%w: %s (%s) cannot complete sprints", types.ErrForbidden, actor.Name, actor.Role)
		}
		sprint, ok := state.Sprints[sprintID]
		if !ok {
			return types.NotFoundError("sprint", sprintID)
		}
		if sprint.Status == models.SprintCompleted {
			return fmt.Errorf("%w: sprint %s is already completed", types.ErrValidation, sprintID)
		}
		finalize, ok := state.Tasks[sprint.FinalizeTaskID]
		if !ok {
			return types.NotFoundError("task", sprint.FinalizeTaskID)
		}
		if !finalize.Status.IsTerminal() {
			return fmt.Errorf("%w: finalize task %s is still %s", types.ErrValidation, finalize.ID, finalize.Status)
		}

		sprint.Status = models.SprintCompleted
		sprint.UpdatedAt = time.Now().UTC()
		state.Sprints[sprintID] = sprint
		completed = sprint
		return nil
	})
	return completed, err
}

// SprintTasks lists the member tasks of a sprint in dependency order,
// so the finalize task comes after the work it waits for.
func (s *Service) SprintTasks(sprintID string) ([]models.Task, error) {
	if _, err := s.store.GetSprint(sprintID); err != nil {
		return nil, err
	}
	tasks, err := s.store.ListTasks(func(t models.Task) bool {
		return t.SprintID != nil && *t.SprintID == sprintID
	}, nil)
	if err != nil {
		return nil, err
	}
	return workflow.TopologicalSort(tasks)
}

// Verify checks the board's structural invariants: the dependency graph
// must be acyclic, every dependency edge must point at an existing task,
// and every author and executor must be registered. It returns one error
// line per violation found.
func (s *Service) Verify() ([]string, error) {
	tasks, err := s.store.ListTasks(nil, nil)
	if err != nil {
		return nil, err
	}
	sprints, err := s.store.ListSprints(nil)
	if err != nil {
		return nil, err
	}
	employees, err := s.store.ListEmployees()
	if err != nil {
		return nil, err
	}

	taskByID := make(map[string]models.Task, len(tasks))
	for _, t := range tasks {
		taskByID[t.ID] = t
	}
	sprintByID := make(map[string]models.Sprint, len(sprints))
	for _, sp := range sprints {
		sprintByID[sp.ID] = sp
	}
	registered := make(map[string]bool, len(employees))
	for _, e := range employees {
		registered[e.Name] = true
	}

	sort.Slice(tasks, func(i, j int) bool { return tasks[i].ID < tasks[j].ID })

	var problems []string
	if err := workflow.VerifyDAG(tasks); err != nil {
		problems = append(problems, err.Error())
	}
	for _, t := range tasks {
		for _, depID := range t.DependsOn {
			if _, ok := taskByID[depID]; !ok {
				problems = append(problems, fmt.Sprintf("%s depends on missing task %s", t.ID, depID))
			}
		}
		if !registered[t.Author] {
			problems = append(problems, fmt.Sprintf("%s has unregistered author %s", t.ID, t.Author))
		}
		if t.Executor != "" && !registered[t.Executor] {
			problems = append(problems, fmt.Sprintf("%s has unregistered executor %s", t.ID, t.Executor))
		}
		if t.SprintID != nil {
			if _, ok := sprintByID[*t.SprintID]; !ok {
				problems = append(problems, fmt.Sprintf("%s references missing sprint %s", t.ID, *t.SprintID))
			}
		}
	}
	for _, sp := range sprints {
		if sp.FinalizeTaskID != "" {
			if _, ok := taskByID[sp.FinalizeTaskID]; !ok {
				problems = append(problems, fmt.Sprintf("%s references missing finalize task %s", sp.ID, sp.FinalizeTaskID))
			}
		}
	}
	return problems, nil
}

// ToggleBacklog flips the next-sprint flag of a backlog item. Items that
// were already promoted are history and cannot be re-flagged.
func (s *Service) ToggleBacklog(itemID string) (models.BacklogItem, error) {
	var toggled models.BacklogItem
	err := s.store.Update(func(state *store.BoardState) error {
		item, ok := state.Backlog[itemID]
		if !ok {
			return types.NotFoundError("backlog item", itemID)
		}
		if item.Promoted {
			return fmt.Errorf("%w: backlog item %s was already promoted as %s", types.ErrValidation, itemID, item.PromotedTask)
		}
		item.NextSprint = !item.NextSprint
		item.UpdatedAt = time.Now().UTC()
		state.Backlog[itemID] = item
		toggled = item
		return nil
	})
	return toggled, err
}

// Discuss appends a block to the task's discussion log, stamping the
// author's registry role. The task must exist; the log itself is
// append-only and survives the task reaching a terminal state.
func (s *Service) Discuss(taskID, authorName, body string) (models.DiscussionEntry, error) {
	author, err := s.store.GetEmployee(authorName)
	if err != nil {
		return models.DiscussionEntry{}, err
	}
	if _, err := s.store.GetTask(taskID); err != nil {
		return models.DiscussionEntry{}, err
	}
	return s.discussions.Append(taskID, models.DiscussionEntry{
		Author: author.Name,
		Role:   author.Role,
		Body:   body,
	})
}

// Discussion returns the parsed discussion log of a task.
func (s *Service) Discussion(taskID string) ([]models.DiscussionEntry, error) {
	if _, err := s.store.GetTask(taskID); err != nil {
		return nil, err
	}
	return s.discussions.Entries(taskID)
}
