// Package workflow implements the role-gated task status state machine
// and the task dependency graph.
package workflow

import (
	"github.com/josephgoksu/crewboard/models"
	"github.com/josephgoksu/crewboard/types"
)

// Actor describes who must perform a given transition.
type Actor string

const (
	// ActorExecutor means the task's assigned executor.
	ActorExecutor Actor = "executor"
	// ActorReviewer means any employee whose role may review.
	ActorReviewer Actor = "reviewer"
	// ActorBoss means the privileged role.
	ActorBoss Actor = "boss"
)

type edge struct {
	from models.TaskStatus
	to   models.TaskStatus
}

// transitions is the single source of truth for legal status changes.
// Cancellation is handled separately below because it is reachable from
// every non-terminal state.
var transitions = map[edge]Actor{
	{models.StatusNew, models.StatusInProgress}:       ActorExecutor,
	{models.StatusNew, models.StatusQuestions}:        ActorExecutor,
	{models.StatusInProgress, models.StatusInReview}:  ActorExecutor,
	{models.StatusInProgress, models.StatusQuestions}: ActorExecutor,
	{models.StatusQuestions, models.StatusInProgress}: ActorExecutor,
	{models.StatusInReview, models.StatusDone}:        ActorReviewer,
	{models.StatusInReview, models.StatusInProgress}:  ActorReviewer,
}

// Check validates a status transition for the given actor. On success it
// returns nil and the task may be moved; on failure the returned error is
// a TerminalStateError or InvalidTransitionError and state must not change.
func Check(task models.Task, to models.TaskStatus, actorName string, actorRole models.Role) error {
	if task.Status.IsTerminal() {
		return &types.TerminalStateError{TaskID: task.ID, Status: task.Status}
	}
	if to == task.Status {
		return &types.InvalidTransitionError{TaskID: task.ID, From: task.Status, To: to, Actor: actorName, Reason: "status unchanged"}
	}

	if to == models.StatusCancelled {
		return checkCancel(task, actorName, actorRole)
	}

	required, ok := transitions[edge{task.Status, to}]
	if !ok {
		return &types.InvalidTransitionError{TaskID: task.ID, From: task.Status, To: to, Actor: actorName}
	}

	switch required {
	case ActorExecutor:
		if task.Executor == "" || task.Executor != actorName {
			return &types.InvalidTransitionError{TaskID: task.ID, From: task.Status, To: to, Actor: actorName, Reason: "only the executor may move this task"}
		}
	case ActorReviewer:
		if !actorRole.CanReview() {
			return &types.InvalidTransitionError{TaskID: task.ID, From: task.Status, To: to, Actor: actorName, Reason: "only a reviewing role may judge a task in review"}
		}
	case ActorBoss:
		if actorRole != models.RoleBoss {
			return &types.InvalidTransitionError{TaskID: task.ID, From: task.Status, To: to, Actor: actorName, Reason: "boss only"}
		}
	}
	return nil
}

// checkCancel allows the boss to cancel from any non-terminal state, and
// the executor to cancel their own task from the states they control.
func checkCancel(task models.Task, actorName string, actorRole models.Role) error {
	if actorRole == models.RoleBoss {
		return nil
	}
	executorStates := task.Status == models.StatusNew ||
		task.Status == models.StatusInProgress ||
		task.Status == models.StatusQuestions
	if executorStates && task.Executor != "" && task.Executor == actorName {
		return nil
	}
	return &types.InvalidTransitionError{TaskID: task.ID, From: task.Status, To: models.StatusCancelled, Actor: actorName, Reason: "cancellation requires the boss or the task's executor"}
}

// NextStatuses returns the statuses reachable from the given one,
// ignoring actor gating. Terminal states have no successors.
func NextStatuses(from models.TaskStatus) []models.TaskStatus {
	if from.IsTerminal() {
		return nil
	}
	var out []models.TaskStatus
	for _, to := range models.AllStatuses {
		if _, ok := transitions[edge{from, to}]; ok {
			out = append(out, to)
		}
	}
	out = append(out, models.StatusCancelled)
	return out
}
