// Package dispatch provides a small registry of stub action handlers
// standing in for the "external runner" spec.md §1/§6 deliberately keeps
// out of the conductor (component H, SPEC_FULL.md §2). A runner can use it
// between get_next_tasks and update_task_flow without a real job system;
// nothing else in this repository imports it, and the conductor never
// does.
package dispatch

import (
	"context"
	"fmt"
)

// Action executes one task's configured action name against its
// resolved input, returning the result the conductor records via
// UpdateTaskFlow.
type Action interface {
	Execute(ctx context.Context, input map[string]any) (map[string]any, error)
}

// Registry maps action names (the task spec's "action" field, e.g.
// "core.noop") to handlers.
type Registry struct {
	actions map[string]Action
}

// NewRegistry returns a registry pre-populated with the stub actions
// this package ships (noop, echo, http, weather, email, sms), matching
// the teacher's nodes.New factory switch in spirit: one well-known name
// per handler, new handlers added by registering another case.
func NewRegistry() *Registry {
	r := &Registry{actions: make(map[string]Action)}
	r.Register("core.noop", NoopAction{})
	r.Register("core.echo", EchoAction{})
	r.Register("core.http", NewHTTPAction(nil))
	r.Register("core.weather", NewWeatherAction(nil))
	r.Register("core.email", NewEmailAction(nil))
	r.Register("core.sms", NewSMSAction(nil))
	return r
}

// Register adds or replaces the handler for name.
func (r *Registry) Register(name string, a Action) {
	r.actions[name] = a
}

// Get returns the handler registered for name, if any.
func (r *Registry) Get(name string) (Action, bool) {
	a, ok := r.actions[name]
	return a, ok
}

// Dispatch looks up and executes the handler for name.
func (r *Registry) Dispatch(ctx context.Context, name string, input map[string]any) (map[string]any, error) {
	a, ok := r.Get(name)
	if !ok {
		return nil, fmt.Errorf("dispatch: unknown action %q", name)
	}
	return a.Execute(ctx, input)
}
