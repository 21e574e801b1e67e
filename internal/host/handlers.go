package host

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5"

	"github.com/workflow-conductor/conductor/internal/conducting"
	"github.com/workflow-conductor/conductor/internal/specs"
)

// maxRequestBody limits request bodies the same way the teacher's
// execute endpoint does, to prevent abuse.
const maxRequestBody = 1 << 20 // 1MB

// HandleCreateWorkflow constructs a new conductor run from a spec
// document and returns its run id.
func (s *Service) HandleCreateWorkflow(w http.ResponseWriter, r *http.Request) {
	rid := reqID(r)
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBody)

	var body struct {
		Spec   string         `json:"spec"`
		Inputs map[string]any `json:"inputs"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		slog.Warn("failed to decode request body", "requestId", rid, "error", err)
		writeErrorJSON(w, "INVALID_BODY", "invalid request body", http.StatusBadRequest)
		return
	}

	doc, err := specs.ParseDocument(body.Spec)
	if err != nil {
		slog.Warn("failed to parse spec document", "requestId", rid, "error", err)
		writeErrorJSON(w, "INVALID_SPEC", err.Error(), http.StatusBadRequest)
		return
	}

	c, err := conducting.New(doc, body.Inputs)
	if err != nil {
		slog.Warn("failed to construct conductor", "requestId", rid, "error", err)
		writeConductorError(w, err)
		return
	}

	id := uuid.New()
	if err := s.persist(r.Context(), id, body.Spec, c); err != nil {
		slog.Error("failed to persist new run", "id", id, "requestId", rid, "error", err)
		writeErrorJSON(w, "INTERNAL_ERROR", "internal server error", http.StatusInternalServerError)
		return
	}

	s.mu.Lock()
	s.runs[id] = &runState{specDoc: body.Spec, conductor: c}
	s.mu.Unlock()

	writeJSON(w, http.StatusCreated, map[string]any{
		"id":    id,
		"state": c.GetWorkflowState(),
	})
}

// runIDFromPath parses the {id} path variable. Callers must return
// immediately if ok is false; the error response is already written.
func runIDFromPath(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	raw := mux.Vars(r)["id"]
	id, err := uuid.Parse(raw)
	if err != nil {
		writeErrorJSON(w, "INVALID_ID", "invalid workflow run id", http.StatusBadRequest)
		return uuid.UUID{}, false
	}
	return id, true
}

// HandleSetWorkflowState applies a workflow-level state transition.
func (s *Service) HandleSetWorkflowState(w http.ResponseWriter, r *http.Request) {
	rid := reqID(r)
	id, ok := runIDFromPath(w, r)
	if !ok {
		return
	}

	var body struct {
		State string `json:"state"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeErrorJSON(w, "INVALID_BODY", "invalid request body", http.StatusBadRequest)
		return
	}

	c, err := s.getConductor(r.Context(), id)
	if err != nil {
		writeLoadError(w, err)
		return
	}

	if err := c.SetWorkflowState(body.State); err != nil {
		slog.Warn("failed to set workflow state", "id", id, "requestId", rid, "error", err)
		writeConductorError(w, err)
		return
	}

	if err := s.persist(r.Context(), id, s.specDocFor(id), c); err != nil {
		slog.Error("failed to persist state change", "id", id, "requestId", rid, "error", err)
		writeErrorJSON(w, "INTERNAL_ERROR", "internal server error", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"state": c.GetWorkflowState()})
}

// HandleGetWorkflowState returns the current workflow-level state.
func (s *Service) HandleGetWorkflowState(w http.ResponseWriter, r *http.Request) {
	id, ok := runIDFromPath(w, r)
	if !ok {
		return
	}
	c, err := s.getConductor(r.Context(), id)
	if err != nil {
		writeLoadError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"state": c.GetWorkflowState()})
}

// HandleAddTaskFlow appends a new task-flow entry.
func (s *Service) HandleAddTaskFlow(w http.ResponseWriter, r *http.Request) {
	rid := reqID(r)
	id, ok := runIDFromPath(w, r)
	if !ok {
		return
	}
	name := mux.Vars(r)["name"]

	var body struct {
		Ctx *int `json:"ctx"`
	}
	_ = json.NewDecoder(r.Body).Decode(&body)

	c, err := s.getConductor(r.Context(), id)
	if err != nil {
		writeLoadError(w, err)
		return
	}

	entry, err := c.AddTaskFlow(name, body.Ctx)
	if err != nil {
		slog.Warn("failed to add task flow", "id", id, "task", name, "requestId", rid, "error", err)
		writeConductorError(w, err)
		return
	}

	if err := s.persist(r.Context(), id, s.specDocFor(id), c); err != nil {
		slog.Error("failed to persist task flow addition", "id", id, "requestId", rid, "error", err)
		writeErrorJSON(w, "INTERNAL_ERROR", "internal server error", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusCreated, entry)
}

// HandleGetTaskFlow returns the latest flow entry (and its index) for a
// task.
func (s *Service) HandleGetTaskFlow(w http.ResponseWriter, r *http.Request) {
	id, ok := runIDFromPath(w, r)
	if !ok {
		return
	}
	name := mux.Vars(r)["name"]

	c, err := s.getConductor(r.Context(), id)
	if err != nil {
		writeLoadError(w, err)
		return
	}

	entry, found := c.GetTaskFlowEntry(name)
	if !found {
		writeErrorJSON(w, "TASK_FLOW_NOT_FOUND", "task has no flow entries", http.StatusNotFound)
		return
	}
	idx, _ := c.GetTaskFlowIdx(name)

	writeJSON(w, http.StatusOK, map[string]any{
		"idx":   idx,
		"entry": entry,
	})
}

// HandleUpdateTaskFlow transitions a task's current flow entry.
func (s *Service) HandleUpdateTaskFlow(w http.ResponseWriter, r *http.Request) {
	rid := reqID(r)
	id, ok := runIDFromPath(w, r)
	if !ok {
		return
	}
	name := mux.Vars(r)["name"]

	var body struct {
		State  string `json:"state"`
		Result any    `json:"result"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeErrorJSON(w, "INVALID_BODY", "invalid request body", http.StatusBadRequest)
		return
	}

	c, err := s.getConductor(r.Context(), id)
	if err != nil {
		writeLoadError(w, err)
		return
	}

	entry, err := c.UpdateTaskFlow(name, body.State, body.Result)
	if err != nil {
		slog.Warn("failed to update task flow", "id", id, "task", name, "requestId", rid, "error", err)
		writeConductorError(w, err)
		return
	}

	if err := s.persist(r.Context(), id, s.specDocFor(id), c); err != nil {
		slog.Error("failed to persist task flow update", "id", id, "requestId", rid, "error", err)
		writeErrorJSON(w, "INTERNAL_ERROR", "internal server error", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, entry)
}

// HandleGetNextTasks returns the tasks currently runnable.
func (s *Service) HandleGetNextTasks(w http.ResponseWriter, r *http.Request) {
	id, ok := runIDFromPath(w, r)
	if !ok {
		return
	}
	c, err := s.getConductor(r.Context(), id)
	if err != nil {
		writeLoadError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"tasks": c.GetNextTasks()})
}

// specDocFor returns the cached spec document text for an already
// in-memory run; getConductor guarantees runs[id] is populated by the
// time any handler past it calls this.
func (s *Service) specDocFor(id uuid.UUID) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if rs, ok := s.runs[id]; ok {
		return rs.specDoc
	}
	return ""
}

// writeLoadError maps a getConductor failure (not-found vs. a deeper
// rebuild error) to the right HTTP status, the same
// errors.Is(err, pgx.ErrNoRows) check the teacher's handlers use.
func writeLoadError(w http.ResponseWriter, err error) {
	if errors.Is(err, pgx.ErrNoRows) {
		writeErrorJSON(w, "NOT_FOUND", "workflow run not found", http.StatusNotFound)
		return
	}
	writeErrorJSON(w, "INTERNAL_ERROR", "internal server error", http.StatusInternalServerError)
}
