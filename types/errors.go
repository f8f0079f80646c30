/*
Copyright © 2025 Joseph Goksu josephgoksu@gmail.com
*/
package types

import (
	"errors"
	"fmt"

	"github.com/josephgoksu/crewboard/models"
)

// Sentinel errors for the record store and board service. Callers match
// them with errors.Is; the CLI maps any error to a non-zero exit code.
var (
	// ErrNotFound is returned when an unknown id is referenced.
	ErrNotFound = errors.New("not found")
	// ErrConflict is returned when an explicit id collides on create.
	ErrConflict = errors.New("already exists")
	// ErrValidation is returned for missing or malformed fields.
	ErrValidation = errors.New("validation failed")
	// ErrForbidden is returned when an operation requires a role the
	// acting employee does not hold.
	ErrForbidden = errors.New("operation not permitted for role")
)

// InvalidTransitionError reports a status change that is not permitted
// from the current state for the acting employee.
type InvalidTransitionError struct {
	TaskID string
	From   models.TaskStatus
	To     models.TaskStatus
	Actor  string
	Reason string
}

func (e *InvalidTransitionError) Error() string {
	msg := fmt.Sprintf("invalid transition for %s: %s -> %s (actor %s)", e.TaskID, e.From, e.To, e.Actor)
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	return msg
}

// TerminalStateError reports a status write attempted on a task whose
// status is done or cancelled.
type TerminalStateError struct {
	TaskID string
	Status models.TaskStatus
}

func (e *TerminalStateError) Error() string {
	return fmt.Sprintf("task %s is %s; no further status changes permitted", e.TaskID, e.Status)
}

// CycleError reports a dependency edge that would make the graph cyclic.
type CycleError struct {
	TaskID    string
	DependsOn string
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("dependency %s -> %s would create a cycle", e.TaskID, e.DependsOn)
}

// NotFoundError wraps ErrNotFound with the entity kind and id.
func NotFoundError(kind, id string) error {
	return fmt.Errorf("%s %q: %w", kind, id, ErrNotFound)
}

// ConflictError wraps ErrConflict with the entity kind and id.
func ConflictError(kind, id string) error {
	return fmt.Errorf("%s %q: %w", kind, id, ErrConflict)
}
