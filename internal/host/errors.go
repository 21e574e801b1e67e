package host

import (
	"errors"
	"net/http"

	"github.com/workflow-conductor/conductor/internal/conducting"
)

// writeConductorError maps a ConductorError's Kind onto an HTTP status
// and a structured JSON body, mirroring the teacher's
// errors.Is(err, pgx.ErrNoRows) -> NOT_FOUND convention but switching on
// the conductor's own taxonomy instead.
func writeConductorError(w http.ResponseWriter, err error) {
	var cerr *conducting.ConductorError
	if !errors.As(err, &cerr) {
		writeErrorJSON(w, "INTERNAL_ERROR", "internal server error", http.StatusInternalServerError)
		return
	}

	switch cerr.Kind {
	case conducting.InvalidSpec:
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"code":       "INVALID_SPEC",
			"message":    cerr.Error(),
			"validation": cerr.Validation,
		})
	case conducting.InvalidTask:
		writeErrorJSON(w, "TASK_NOT_FOUND", cerr.Error(), http.StatusNotFound)
	case conducting.DuplicateTask:
		writeErrorJSON(w, "DUPLICATE_TASK", cerr.Error(), http.StatusBadRequest)
	case conducting.InvalidState:
		writeErrorJSON(w, "INVALID_STATE", cerr.Error(), http.StatusBadRequest)
	case conducting.InvalidStateTransition:
		writeErrorJSON(w, "INVALID_STATE_TRANSITION", cerr.Error(), http.StatusConflict)
	case conducting.WorkflowIsNotRunning:
		writeErrorJSON(w, "WORKFLOW_NOT_RUNNING", cerr.Error(), http.StatusConflict)
	case conducting.ExpressionEvaluation:
		writeErrorJSON(w, "EXPRESSION_EVALUATION_ERROR", cerr.Error(), http.StatusInternalServerError)
	default:
		writeErrorJSON(w, "INTERNAL_ERROR", cerr.Error(), http.StatusInternalServerError)
	}
}
