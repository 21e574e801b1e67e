// Package conducting implements the workflow conductor: the pure,
// side-effect-free core that drives a task-flow log against a workflow
// graph per spec.md §4.5. It never logs and never touches storage —
// callers (the HTTP host, the demo dispatcher) wrap it for that.
package conducting

import (
	"fmt"

	"github.com/workflow-conductor/conductor/internal/flow"
	"github.com/workflow-conductor/conductor/internal/graphing"
	"github.com/workflow-conductor/conductor/internal/specs"
	"github.com/workflow-conductor/conductor/internal/states"
)

// mark is one satisfied-edge record scoped to the activation epoch of
// its destination, the pure substitute for a mutable shared "satisfied"
// flag (spec.md §9 design note, "Cycle and epoch").
type mark struct {
	Dst    string
	Key    int
	Epoch  int
	CtxIdx int
}

// Conductor drives one workflow run: a graph built from a validated
// spec, an append-only task-flow log, and workflow-level state.
type Conductor struct {
	spec  *specs.WorkflowSpec
	graph *graphing.WorkflowGraph
	flow  *flow.Log
	state states.WorkflowState
	marks []mark
}

// New validates doc, builds the workflow graph from it, and returns a
// freshly constructed Conductor in the UNSET workflow state. inputs seed
// the initial flow-log context.
func New(doc map[string]any, inputs map[string]any) (*Conductor, error) {
	result, err := specs.Validate(doc)
	if err != nil {
		return nil, fmt.Errorf("conducting: validating spec: %w", err)
	}
	if !result.Empty() {
		return nil, newInvalidSpecError(result)
	}

	ws, err := specs.BuildWorkflowSpec(doc)
	if err != nil {
		return nil, fmt.Errorf("conducting: building spec: %w", err)
	}

	graph := graphing.NewWorkflowGraph()
	for name, task := range ws.Tasks {
		if err := graph.AddTask(name, map[string]any{"action": task.Action, "join": task.Join}); err != nil {
			return nil, &ConductorError{Kind: DuplicateTask, Task: name, Message: err.Error()}
		}
	}
	for name, task := range ws.Tasks {
		for _, tr := range task.Next {
			for _, dst := range tr.Do {
				if _, err := graph.AddTransition(name, dst, map[string]any{"criteria": tr.When, "publish": tr.Publish}); err != nil {
					return nil, &ConductorError{Kind: InvalidTask, Task: dst, Message: err.Error()}
				}
			}
		}
	}
	for name, task := range ws.Tasks {
		if j, ok := task.Join.(int); ok && j > graph.InDegree(name) {
			return nil, &ConductorError{Kind: InvalidSpec, Task: name, Message: fmt.Sprintf("join %d exceeds in-degree %d", j, graph.InDegree(name))}
		}
	}

	return &Conductor{
		spec:  ws,
		graph: graph,
		flow:  flow.NewLog(inputs),
		state: states.Unset,
	}, nil
}

// SetWorkflowState enforces the workflow-level state machine (spec.md
// §4.3/§4.5).
func (c *Conductor) SetWorkflowState(s string) error {
	newState := states.WorkflowState(s)
	if !states.IsValidWorkflowState(newState) {
		return &ConductorError{Kind: InvalidState, Message: fmt.Sprintf("unknown workflow state %q", s)}
	}
	if !states.CanTransitionWorkflow(c.state, newState) {
		return &ConductorError{Kind: InvalidStateTransition, Message: fmt.Sprintf("cannot transition workflow from %q to %q", c.state, newState)}
	}
	c.state = newState
	return nil
}

// GetWorkflowState returns the current workflow-level state.
func (c *Conductor) GetWorkflowState() states.WorkflowState {
	return c.state
}

// GetTaskAction returns the action name configured for a task, for
// callers that dispatch execution outside the conductor (spec.md §1).
func (c *Conductor) GetTaskAction(name string) (string, bool) {
	task, ok := c.spec.Tasks[name]
	if !ok {
		return "", false
	}
	return task.Action, true
}

// GetTaskInput returns the static input mapping configured for a task.
// Expression resolution against flow-log context (spec.md §5) is the
// caller's responsibility; the conductor only hands back what the spec
// document declared.
func (c *Conductor) GetTaskInput(name string) (map[string]any, bool) {
	task, ok := c.spec.Tasks[name]
	if !ok {
		return nil, false
	}
	return task.Input, true
}

// GetTaskFlowIdx returns the latest entry index for name, or false if
// name has never appeared in the flow log.
func (c *Conductor) GetTaskFlowIdx(name string) (int, bool) {
	idx := c.flow.LatestIndex(name)
	if idx < 0 {
		return 0, false
	}
	return idx, true
}

// GetTaskFlowEntry returns a copy of the latest entry for name, or false
// if absent. The copy protects the conductor's internal log from
// caller mutation.
func (c *Conductor) GetTaskFlowEntry(name string) (*flow.Entry, bool) {
	e := c.flow.LatestEntry(name)
	if e == nil {
		return nil, false
	}
	return e.Clone(), true
}

// AddTaskFlow appends a new flow entry for name. The workflow must be
// RUNNING and name must be a task in the graph.
func (c *Conductor) AddTaskFlow(name string, inCtxIdx *int) (*flow.Entry, error) {
	entry, err := c.addTaskFlow(name, inCtxIdx)
	if err != nil {
		return nil, err
	}
	return entry.Clone(), nil
}

func (c *Conductor) addTaskFlow(name string, inCtxIdx *int) (*flow.Entry, error) {
	if c.state != states.WorkflowRunning {
		return nil, &ConductorError{Kind: WorkflowIsNotRunning, Task: name}
	}
	if !c.graph.HasTask(name) {
		return nil, &ConductorError{Kind: InvalidTask, Task: name}
	}
	ctxIdx := inCtxIdx
	if ctxIdx == nil {
		zero := 0
		ctxIdx = &zero
	}
	return c.flow.Append(name, ctxIdx), nil
}

// UpdateTaskFlow transitions name's current (or, on cycle re-entry, a
// freshly appended) flow entry to state, recording result when the
// transition lands on a terminal state and evaluating outbound edges.
func (c *Conductor) UpdateTaskFlow(name, stateStr string, result any) (*flow.Entry, error) {
	if !c.graph.HasTask(name) {
		return nil, &ConductorError{Kind: InvalidTask, Task: name}
	}
	newState := states.TaskState(stateStr)
	if !states.IsValidTaskState(newState) {
		return nil, &ConductorError{Kind: InvalidState, Task: name, Message: fmt.Sprintf("unknown task state %q", stateStr)}
	}

	latest := c.flow.LatestEntry(name)
	entry := latest
	if latest == nil || states.IsTerminalTask(latest.State) {
		var err error
		entry, err = c.addTaskFlow(name, nil)
		if err != nil {
			return nil, err
		}
	}

	fromState := entry.State
	if !states.CanTransitionTask(fromState, newState) {
		return nil, &ConductorError{Kind: InvalidStateTransition, Task: name, Message: fmt.Sprintf("cannot transition task %q from %q to %q", name, fromState, newState)}
	}
	entry.State = newState

	if states.IsTerminalTask(newState) {
		c.evaluateOutbound(name, entry, result)
	}

	return entry.Clone(), nil
}
