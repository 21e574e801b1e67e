package conducting

import (
	"fmt"

	"github.com/workflow-conductor/conductor/internal/specs"
)

// ErrorKind is one of the flat error taxonomy's seven named kinds
// (spec.md §7).
type ErrorKind string

const (
	InvalidSpec            ErrorKind = "invalid_spec"
	InvalidTask            ErrorKind = "invalid_task"
	DuplicateTask          ErrorKind = "duplicate_task"
	InvalidState           ErrorKind = "invalid_state"
	InvalidStateTransition ErrorKind = "invalid_state_transition"
	WorkflowIsNotRunning   ErrorKind = "workflow_is_not_running"
	ExpressionEvaluation   ErrorKind = "expression_evaluation"
)

// ConductorError is the conductor's single error type; callers
// discriminate on Kind via errors.As.
type ConductorError struct {
	Kind       ErrorKind
	Message    string
	Task       string
	Path       string
	Validation specs.ValidationResult
}

func (e *ConductorError) Error() string {
	switch {
	case e.Task != "" && e.Message != "":
		return fmt.Sprintf("conducting: %s: %s: %s", e.Kind, e.Task, e.Message)
	case e.Task != "":
		return fmt.Sprintf("conducting: %s: %s", e.Kind, e.Task)
	case e.Message != "":
		return fmt.Sprintf("conducting: %s: %s", e.Kind, e.Message)
	default:
		return fmt.Sprintf("conducting: %s", e.Kind)
	}
}

func newInvalidSpecError(result specs.ValidationResult) *ConductorError {
	return &ConductorError{
		Kind:       InvalidSpec,
		Message:    "spec validation produced errors",
		Validation: result,
	}
}
