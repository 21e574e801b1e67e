package host

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

type contextKey string

const requestIDKey contextKey = "requestID"

// requestIDMiddleware assigns a unique ID to each request for log
// correlation, reusing an incoming X-Request-ID when present.
func requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-ID")
		if id == "" {
			id = uuid.New().String()
		}
		ctx := context.WithValue(r.Context(), requestIDKey, id)
		w.Header().Set("X-Request-ID", id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// jsonMiddleware sets the Content-Type header to application/json.
func jsonMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		next.ServeHTTP(w, r)
	})
}

// LoadRoutes mounts the Conductor API table (SPEC_FULL.md §7) under
// parentRouter.
func (s *Service) LoadRoutes(parentRouter *mux.Router) {
	router := parentRouter.PathPrefix("/workflows").Subrouter()
	router.StrictSlash(false)
	router.Use(requestIDMiddleware)
	router.Use(jsonMiddleware)

	router.HandleFunc("", s.HandleCreateWorkflow).Methods(http.MethodPost)
	router.HandleFunc("/{id}/state", s.HandleSetWorkflowState).Methods(http.MethodPost)
	router.HandleFunc("/{id}/state", s.HandleGetWorkflowState).Methods(http.MethodGet)
	router.HandleFunc("/{id}/tasks/{name}/flow", s.HandleAddTaskFlow).Methods(http.MethodPost)
	router.HandleFunc("/{id}/tasks/{name}/flow", s.HandleGetTaskFlow).Methods(http.MethodGet)
	router.HandleFunc("/{id}/tasks/{name}", s.HandleUpdateTaskFlow).Methods(http.MethodPatch)
	router.HandleFunc("/{id}/next-tasks", s.HandleGetNextTasks).Methods(http.MethodGet)
}

func reqID(r *http.Request) string {
	id, _ := r.Context().Value(requestIDKey).(string)
	return id
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

// writeErrorJSON writes a structured JSON error response with a
// machine-readable code and a human-readable message, the same
// convention the teacher's workflow service uses.
func writeErrorJSON(w http.ResponseWriter, code, message string, status int) {
	writeJSON(w, status, map[string]any{"code": code, "message": message})
}
