package store

import (
	"fmt"
	"slices"
	"sort"
	"strings"
	"time"

	"github.com/josephgoksu/crewboard/models"
	"github.com/josephgoksu/crewboard/types"
)

// addStringToSliceIfMissing adds a string to a slice if it's not already present.
func addStringToSliceIfMissing(slice []string, item string) []string {
	if !slices.Contains(slice, item) {
		return append(slice, item)
	}
	return slice
}

// removeStringFromSlice removes all occurrences of a string from a slice.
func removeStringFromSlice(slice []string, item string) []string {
	newSlice := make([]string, 0, len(slice))
	for _, s := range slice {
		if s != item {
			newSlice = append(newSlice, s)
		}
	}
	return newSlice
}

// InsertTask inserts a task into the loaded state, allocating an id when
// needed and wiring dependency back-references. It is shared by
// CreateTask and the multi-record sprint creation path inside Update.
func (state *BoardState) InsertTask(task models.Task) (models.Task, error) {
	if task.ID == "" {
		task.ID = state.NextTaskID()
	} else if _, exists := state.Tasks[task.ID]; exists {
		return models.Task{}, types.ConflictError("task", task.ID)
	}

	now := time.Now().UTC()
	task.CreatedAt = now
	task.UpdatedAt = now
	if task.Status == "" {
		task.Status = models.StatusNew
	}
	task.Dependents = []string{}
	if task.DependsOn == nil {
		task.DependsOn = []string{}
	}

	if err := models.ValidateStruct(task); err != nil {
		return models.Task{}, fmt.Errorf("%w: %v", types.ErrValidation, err)
	}

	for _, depID := range task.DependsOn {
		if depID == task.ID {
			return models.Task{}, &types.CycleError{TaskID: task.ID, DependsOn: depID}
		}
		dep, exists := state.Tasks[depID]
		if !exists {
			return models.Task{}, types.NotFoundError("dependency task", depID)
		}
		dep.Dependents = addStringToSliceIfMissing(dep.Dependents, task.ID)
		dep.UpdatedAt = now
		state.Tasks[depID] = dep
	}

	state.Tasks[task.ID] = task
	return task, nil
}

// CreateTask adds a new task to the store. It allocates the ID when empty
// and manages dependency back-references.
func (s *FileProjectStore) CreateTask(task models.Task) (models.Task, error) {
	var created models.Task
	err := s.Update(func(state *BoardState) error {
		var err error
		created, err = state.InsertTask(task)
		return err
	})
	return created, err
}

// GetTask retrieves a task by its unique identifier.
func (s *FileProjectStore) GetTask(id string) (models.Task, error) {
	var task models.Task
	err := s.withLock(false, func() error {
		t, ok := s.state.Tasks[id]
		if !ok {
			return types.NotFoundError("task", id)
		}
		task = t
		return nil
	})
	return task, err
}

// taskProtectedFields cannot be set through UpdateTask. Identity and
// bookkeeping fields belong to the store; dependents are derived.
var taskProtectedFields = map[string]bool{
	"id":          true,
	"createdAt":   true,
	"updatedAt":   true,
	"completedAt": true,
	"dependents":  true,
}

// UpdateTask modifies an existing task from a patch of JSON field names.
// Dependency changes are cycle-checked and keep back-references
// consistent on both sides.
func (s *FileProjectStore) UpdateTask(id string, updates map[string]interface{}) (models.Task, error) {
	var updated models.Task
	err := s.Update(func(state *BoardState) error {
		task, exists := state.Tasks[id]
		if !exists {
			return types.NotFoundError("task", id)
		}

		now := time.Now().UTC()
		patch := make(map[string]interface{}, len(updates))
		for key, value := range updates {
			if taskProtectedFields[key] {
				return fmt.Errorf("%w: field %q is managed by the store", types.ErrValidation, key)
			}
			if key == "dependsOn" {
				continue
			}
			patch[key] = value
		}

		if err := applyPatch(&task, patch); err != nil {
			return err
		}

		if newDeps, ok := updates["dependsOn"]; ok {
			if err := updateDependencyLinks(state, &task, newDeps, now); err != nil {
				return err
			}
		}

		task.UpdatedAt = now
		if task.Status.IsTerminal() && task.CompletedAt == nil {
			task.CompletedAt = &now
		}

		if err := models.ValidateStruct(task); err != nil {
			return fmt.Errorf("%w: %v", types.ErrValidation, err)
		}

		state.Tasks[id] = task
		updated = task
		return nil
	})
	return updated, err
}

// updateDependencyLinks applies a dependsOn change, rejecting edges that
// would make the graph cyclic and keeping Dependents lists consistent.
func updateDependencyLinks(state *BoardState, task *models.Task, newDepsValue interface{}, now time.Time) error {
	newDeps, err := toStringSlice(newDepsValue)
	if err != nil {
		return fmt.Errorf("%w: dependsOn: %v", types.ErrValidation, err)
	}

	oldDepSet := make(map[string]bool, len(task.DependsOn))
	for _, id := range task.DependsOn {
		oldDepSet[id] = true
	}
	newDepSet := make(map[string]bool, len(newDeps))
	for _, id := range newDeps {
		newDepSet[id] = true
	}

	for _, depID := range newDeps {
		if oldDepSet[depID] {
			continue
		}
		if depID == task.ID {
			return &types.CycleError{TaskID: task.ID, DependsOn: depID}
		}
		if _, exists := state.Tasks[depID]; !exists {
			return types.NotFoundError("dependency task", depID)
		}
		if reachable(state, task.ID, depID) {
			return &types.CycleError{TaskID: task.ID, DependsOn: depID}
		}
	}

	for depID := range oldDepSet {
		if newDepSet[depID] {
			continue
		}
		if dep, ok := state.Tasks[depID]; ok {
			dep.Dependents = removeStringFromSlice(dep.Dependents, task.ID)
			dep.UpdatedAt = now
			state.Tasks[depID] = dep
		}
	}
	for depID := range newDepSet {
		if oldDepSet[depID] {
			continue
		}
		dep := state.Tasks[depID]
		dep.Dependents = addStringToSliceIfMissing(dep.Dependents, task.ID)
		dep.UpdatedAt = now
		state.Tasks[depID] = dep
	}

	task.DependsOn = newDeps
	return nil
}

// reachable walks existing dependencies from 'from' looking for 'target'.
func reachable(state *BoardState, target, from string) bool {
	visited := make(map[string]bool)
	stack := []string{from}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if cur == target {
			return true
		}
		if visited[cur] {
			continue
		}
		visited[cur] = true
		stack = append(stack, state.Tasks[cur].DependsOn...)
	}
	return false
}

func toStringSlice(value interface{}) ([]string, error) {
	switch v := value.(type) {
	case []string:
		return v, nil
	case []interface{}:
		out := make([]string, 0, len(v))
		for _, item := range v {
			str, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("expected string element, got %T", item)
			}
			out = append(out, str)
		}
		return out, nil
	case nil:
		return []string{}, nil
	default:
		return nil, fmt.Errorf("expected a list of ids, got %T", value)
	}
}

// DeleteTask removes a task. Deletion is refused while other tasks depend
// on it; back-references on its own dependencies are cleaned up.
func (s *FileProjectStore) DeleteTask(id string) error {
	return s.Update(func(state *BoardState) error {
		task, exists := state.Tasks[id]
		if !exists {
			return types.NotFoundError("task", id)
		}
		if len(task.Dependents) > 0 {
			return fmt.Errorf("cannot delete task %s: it is a dependency for %s", id, strings.Join(task.Dependents, ", "))
		}

		now := time.Now().UTC()
		for _, depID := range task.DependsOn {
			if dep, ok := state.Tasks[depID]; ok {
				dep.Dependents = removeStringFromSlice(dep.Dependents, id)
				dep.UpdatedAt = now
				state.Tasks[depID] = dep
			}
		}
		delete(state.Tasks, id)
		return nil
	})
}

// ListTasks retrieves a list of tasks, optionally filtered and sorted.
func (s *FileProjectStore) ListTasks(filterFn func(models.Task) bool, sortFn func([]models.Task) []models.Task) ([]models.Task, error) {
	var out []models.Task
	err := s.withLock(false, func() error {
		out = make([]models.Task, 0, len(s.state.Tasks))
		for _, task := range s.state.Tasks {
			if filterFn == nil || filterFn(task) {
				out = append(out, task)
			}
		}
		sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
		if sortFn != nil {
			out = sortFn(out)
		}
		return nil
	})
	return out, err
}

// CreateSprint adds a new sprint record.
func (s *FileProjectStore) CreateSprint(sprint models.Sprint) (models.Sprint, error) {
	var created models.Sprint
	err := s.Update(func(state *BoardState) error {
		var err error
		created, err = state.InsertSprint(sprint)
		return err
	})
	return created, err
}

// InsertSprint inserts a sprint into the loaded state, allocating an id
// when needed. Exposed for multi-record units composed inside Update.
func (state *BoardState) InsertSprint(sprint models.Sprint) (models.Sprint, error) {
	if sprint.ID == "" {
		sprint.ID = state.NextSprintID()
	} else if _, exists := state.Sprints[sprint.ID]; exists {
		return models.Sprint{}, types.ConflictError("sprint", sprint.ID)
	}
	now := time.Now().UTC()
	sprint.CreatedAt = now
	sprint.UpdatedAt = now
	if sprint.Status == "" {
		sprint.Status = models.SprintActive
	}
	if err := models.ValidateStruct(sprint); err != nil {
		return models.Sprint{}, fmt.Errorf("%w: %v", types.ErrValidation, err)
	}
	state.Sprints[sprint.ID] = sprint
	return sprint, nil
}

// GetSprint retrieves a sprint by id.
func (s *FileProjectStore) GetSprint(id string) (models.Sprint, error) {
	var sprint models.Sprint
	err := s.withLock(false, func() error {
		sp, ok := s.state.Sprints[id]
		if !ok {
			return types.NotFoundError("sprint", id)
		}
		sprint = sp
		return nil
	})
	return sprint, err
}

var sprintProtectedFields = map[string]bool{
	"id":        true,
	"createdAt": true,
	"updatedAt": true,
}

// UpdateSprint modifies an existing sprint from a patch of JSON field names.
func (s *FileProjectStore) UpdateSprint(id string, updates map[string]interface{}) (models.Sprint, error) {
	var updated models.Sprint
	err := s.Update(func(state *BoardState) error {
		sprint, exists := state.Sprints[id]
		if !exists {
			return types.NotFoundError("sprint", id)
		}
		for key := range updates {
			if sprintProtectedFields[key] {
				return fmt.Errorf("%w: field %q is managed by the store", types.ErrValidation, key)
			}
		}
		if err := applyPatch(&sprint, updates); err != nil {
			return err
		}
		sprint.UpdatedAt = time.Now().UTC()
		if err := models.ValidateStruct(sprint); err != nil {
			return fmt.Errorf("%w: %v", types.ErrValidation, err)
		}
		state.Sprints[id] = sprint
		updated = sprint
		return nil
	})
	return updated, err
}

// ListSprints retrieves sprints, optionally filtered.
func (s *FileProjectStore) ListSprints(filterFn func(models.Sprint) bool) ([]models.Sprint, error) {
	var out []models.Sprint
	err := s.withLock(false, func() error {
		out = make([]models.Sprint, 0, len(s.state.Sprints))
		for _, sprint := range s.state.Sprints {
			if filterFn == nil || filterFn(sprint) {
				out = append(out, sprint)
			}
		}
		sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
		return nil
	})
	return out, err
}

// CreateBacklogItem adds a new backlog item.
func (s *FileProjectStore) CreateBacklogItem(item models.BacklogItem) (models.BacklogItem, error) {
	var created models.BacklogItem
	err := s.Update(func(state *BoardState) error {
		if item.ID == "" {
			item.ID = state.NextBacklogID()
		} else if _, exists := state.Backlog[item.ID]; exists {
			return types.ConflictError("backlog item", item.ID)
		}
		now := time.Now().UTC()
		item.CreatedAt = now
		item.UpdatedAt = now
		if item.Priority == "" {
			item.Priority = models.PriorityMedium
		}
		if err := models.ValidateStruct(item); err != nil {
			return fmt.Errorf("%w: %v", types.ErrValidation, err)
		}
		state.Backlog[item.ID] = item
		created = item
		return nil
	})
	return created, err
}

// GetBacklogItem retrieves a backlog item by id.
func (s *FileProjectStore) GetBacklogItem(id string) (models.BacklogItem, error) {
	var item models.BacklogItem
	err := s.withLock(false, func() error {
		b, ok := s.state.Backlog[id]
		if !ok {
			return types.NotFoundError("backlog item", id)
		}
		item = b
		return nil
	})
	return item, err
}

var backlogProtectedFields = map[string]bool{
	"id":           true,
	"createdAt":    true,
	"updatedAt":    true,
	"promoted":     true,
	"promotedTask": true,
}

// UpdateBacklogItem modifies an existing backlog item.
func (s *FileProjectStore) UpdateBacklogItem(id string, updates map[string]interface{}) (models.BacklogItem, error) {
	var updated models.BacklogItem
	err := s.Update(func(state *BoardState) error {
		item, exists := state.Backlog[id]
		if !exists {
			return types.NotFoundError("backlog item", id)
		}
		for key := range updates {
			if backlogProtectedFields[key] {
				return fmt.Errorf("%w: field %q is managed by the store", types.ErrValidation, key)
			}
		}
		if err := applyPatch(&item, updates); err != nil {
			return err
		}
		item.UpdatedAt = time.Now().UTC()
		if err := models.ValidateStruct(item); err != nil {
			return fmt.Errorf("%w: %v", types.ErrValidation, err)
		}
		state.Backlog[id] = item
		updated = item
		return nil
	})
	return updated, err
}

// DeleteBacklogItem removes a backlog item.
func (s *FileProjectStore) DeleteBacklogItem(id string) error {
	return s.Update(func(state *BoardState) error {
		if _, exists := state.Backlog[id]; !exists {
			return types.NotFoundError("backlog item", id)
		}
		delete(state.Backlog, id)
		return nil
	})
}

// ListBacklog retrieves backlog items, optionally filtered.
func (s *FileProjectStore) ListBacklog(filterFn func(models.BacklogItem) bool) ([]models.BacklogItem, error) {
	var out []models.BacklogItem
	err := s.withLock(false, func() error {
		out = make([]models.BacklogItem, 0, len(s.state.Backlog))
		for _, item := range s.state.Backlog {
			if filterFn == nil || filterFn(item) {
				out = append(out, item)
			}
		}
		sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
		return nil
	})
	return out, err
}

// PutEmployee creates or replaces a registry entry keyed by name.
func (s *FileProjectStore) PutEmployee(emp models.Employee) (models.Employee, error) {
	var saved models.Employee
	err := s.Update(func(state *BoardState) error {
		if emp.CreatedAt.IsZero() {
			emp.CreatedAt = time.Now().UTC()
		}
		if err := models.ValidateStruct(emp); err != nil {
			return fmt.Errorf("%w: %v", types.ErrValidation, err)
		}
		state.Employees[emp.Name] = emp
		saved = emp
		return nil
	})
	return saved, err
}

// GetEmployee retrieves a registry entry by name.
func (s *FileProjectStore) GetEmployee(name string) (models.Employee, error) {
	var emp models.Employee
	err := s.withLock(false, func() error {
		e, ok := s.state.Employees[name]
		if !ok {
			return types.NotFoundError("employee", name)
		}
		emp = e
		return nil
	})
	return emp, err
}

// ListEmployees retrieves the full registry sorted by name.
func (s *FileProjectStore) ListEmployees() ([]models.Employee, error) {
	var out []models.Employee
	err := s.withLock(false, func() error {
		out = make([]models.Employee, 0, len(s.state.Employees))
		for _, emp := range s.state.Employees {
			out = append(out, emp)
		}
		sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
		return nil
	})
	return out, err
}
