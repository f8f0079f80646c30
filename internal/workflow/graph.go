package workflow

import (
	"errors"
	"fmt"

	"github.com/josephgoksu/crewboard/models"
	"github.com/josephgoksu/crewboard/types"
)

// CheckDependency reports whether adding the edge taskID -> onID would
// keep the graph acyclic. The edge is illegal when taskID is reachable
// from onID through existing dependencies, which covers chains of any
// length as well as the trivial self-edge.
func CheckDependency(tasks []models.Task, taskID, onID string) error {
	if taskID == onID {
		return &types.CycleError{TaskID: taskID, DependsOn: onID}
	}
	byID := make(map[string]models.Task, len(tasks))
	for _, t := range tasks {
		byID[t.ID] = t
	}
	if _, ok := byID[taskID]; !ok {
		return types.NotFoundError("task", taskID)
	}
	if _, ok := byID[onID]; !ok {
		return types.NotFoundError("task", onID)
	}

	// DFS from onID; reaching taskID means the new edge closes a loop.
	visited := make(map[string]bool)
	stack := []string{onID}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if cur == taskID {
			return &types.CycleError{TaskID: taskID, DependsOn: onID}
		}
		if visited[cur] {
			continue
		}
		visited[cur] = true
		stack = append(stack, byID[cur].DependsOn...)
	}
	return nil
}

// IsBlocked reports whether any dependency of the task is non-terminal.
// Unknown dependency ids count as blocking; a dangling edge should never
// silently unblock a gate task.
func IsBlocked(tasks []models.Task, taskID string) (bool, error) {
	byID := make(map[string]models.Task, len(tasks))
	for _, t := range tasks {
		byID[t.ID] = t
	}
	task, ok := byID[taskID]
	if !ok {
		return false, types.NotFoundError("task", taskID)
	}
	for _, depID := range task.DependsOn {
		dep, ok := byID[depID]
		if !ok {
			return true, nil
		}
		if !dep.Status.IsTerminal() {
			return true, nil
		}
	}
	return false, nil
}

// VerifyDAG checks that the given tasks form a valid directed acyclic
// graph. Dependencies pointing outside the slice are skipped.
func VerifyDAG(tasks []models.Task) error {
	byID := make(map[string]models.Task, len(tasks))
	for _, t := range tasks {
		if t.ID == "" {
			return errors.New("task ID cannot be empty")
		}
		byID[t.ID] = t
	}

	visited := make(map[string]bool)
	recursionStack := make(map[string]bool)

	var checkCycle func(taskID string) error
	checkCycle = func(taskID string) error {
		visited[taskID] = true
		recursionStack[taskID] = true

		task, exists := byID[taskID]
		if !exists {
			recursionStack[taskID] = false
			return nil
		}

		for _, depID := range task.DependsOn {
			if !visited[depID] {
				if err := checkCycle(depID); err != nil {
					return err
				}
			} else if recursionStack[depID] {
				return fmt.Errorf("cycle detected involving task %s -> %s", taskID, depID)
			}
		}

		recursionStack[taskID] = false
		return nil
	}

	for _, t := range tasks {
		if !visited[t.ID] {
			if err := checkCycle(t.ID); err != nil {
				return err
			}
		}
	}

	return nil
}

// TopologicalSort returns tasks in dependency order (dependencies first).
// Returns error if a cycle is detected.
func TopologicalSort(tasks []models.Task) ([]models.Task, error) {
	if err := VerifyDAG(tasks); err != nil {
		return nil, err
	}

	byID := make(map[string]models.Task, len(tasks))
	for _, t := range tasks {
		byID[t.ID] = t
	}

	var sorted []models.Task
	visited := make(map[string]bool)

	var visit func(taskID string)
	visit = func(taskID string) {
		if visited[taskID] {
			return
		}
		visited[taskID] = true

		t, exists := byID[taskID]
		if !exists {
			return
		}

		for _, depID := range t.DependsOn {
			visit(depID)
		}
		sorted = append(sorted, t)
	}

	for _, t := range tasks {
		visit(t.ID)
	}

	return sorted, nil
}
