package flow

// Context is one entry in the opaque, addressable context chain
// described in spec.md §3. It accumulates workflow inputs and, per
// task completion, the task's recorded result under "__tasks" —
// mirroring context['__tasks'][task['name']] bookkeeping in the system
// this package models. The chain itself is not a focus of this
// specification; it exists so guard expressions have something to read.
type Context struct {
	Vars  map[string]any
	Tasks map[string]TaskResult
}

// TaskResult is the subset of a completed task's outcome exposed to
// guard expressions and published variables.
type TaskResult struct {
	ID     string
	State  string
	Result any
}

// NewContext builds the initial context from workflow inputs.
func NewContext(inputs map[string]any) *Context {
	vars := make(map[string]any, len(inputs))
	for k, v := range inputs {
		vars[k] = v
	}
	return &Context{Vars: vars, Tasks: make(map[string]TaskResult)}
}

// Fork copies c into a new context, the shape a future "publish" step
// would need to produce a derived context without mutating ancestors.
func (c *Context) Fork() *Context {
	cp := &Context{
		Vars:  make(map[string]any, len(c.Vars)),
		Tasks: make(map[string]TaskResult, len(c.Tasks)),
	}
	for k, v := range c.Vars {
		cp.Vars[k] = v
	}
	for k, v := range c.Tasks {
		cp.Tasks[k] = v
	}
	return cp
}

// View flattens the context into the map shape the expression
// evaluator facade expects: top-level vars plus a "__tasks" key holding
// per-task results keyed by task name.
func (c *Context) View() map[string]any {
	view := make(map[string]any, len(c.Vars)+1)
	for k, v := range c.Vars {
		view[k] = v
	}
	tasks := make(map[string]any, len(c.Tasks))
	for name, res := range c.Tasks {
		tasks[name] = map[string]any{
			"id":     res.ID,
			"state":  res.State,
			"result": res.Result,
		}
	}
	view["__tasks"] = tasks
	return view
}
