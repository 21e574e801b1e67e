// Package states defines the fixed task and workflow execution states and
// the transition matrices the conductor enforces.
package states

// TaskState is one of the allowed task execution states.
type TaskState string

const (
	Requested TaskState = "requested"
	Scheduled TaskState = "scheduled"
	Running   TaskState = "running"
	Pausing   TaskState = "pausing"
	Paused    TaskState = "paused"
	Resuming  TaskState = "resuming"
	Canceling TaskState = "canceling"
	Canceled  TaskState = "canceled"
	Succeeded TaskState = "succeeded"
	Failed    TaskState = "failed"
	Expired   TaskState = "expired"
	Abandoned TaskState = "abandoned"

	// unset is the pseudo-state of a task-flow entry that has never
	// received a state transition. It is never a valid argument to
	// UpdateTaskFlow, only a valid "from" state.
	unset TaskState = ""
)

// WorkflowState is one of the allowed workflow-level execution states.
type WorkflowState string

const (
	Unset           WorkflowState = "unset"
	WorkflowRunning WorkflowState = "running"
	WorkflowPausing WorkflowState = "pausing"
	WorkflowPaused  WorkflowState = "paused"
	WorkflowResuming WorkflowState = "resuming"
	WorkflowCanceling WorkflowState = "canceling"
	WorkflowCanceled  WorkflowState = "canceled"
	WorkflowSucceeded WorkflowState = "succeeded"
	WorkflowFailed    WorkflowState = "failed"
)

// terminalTasks holds the task states from which no further transition
// is permitted within a single activation.
var terminalTasks = map[TaskState]bool{
	Succeeded: true,
	Failed:    true,
	Expired:   true,
	Canceled:  true,
	Abandoned: true,
}

// IsTerminalTask reports whether state is a terminal task state.
func IsTerminalTask(s TaskState) bool {
	return terminalTasks[s]
}

// allTaskStates enumerates every task state string the conductor accepts
// as a valid argument to UpdateTaskFlow. Unknown strings fail with
// InvalidState.
var allTaskStates = map[TaskState]bool{
	Requested: true, Scheduled: true, Running: true,
	Pausing: true, Paused: true, Resuming: true,
	Canceling: true, Canceled: true,
	Succeeded: true, Failed: true, Expired: true, Abandoned: true,
}

// IsValidTaskState reports whether s is one of the twelve named task
// states. The empty pseudo-state is never valid input.
func IsValidTaskState(s TaskState) bool {
	return allTaskStates[s]
}

// taskTransitions is the fixed adjacency of legal task state changes.
// The empty pseudo-state (no prior state) may move to any of the three
// "entering execution" states.
var taskTransitions = map[TaskState]map[TaskState]bool{
	unset: {
		Requested: true,
		Scheduled: true,
		Running:   true,
	},
	Requested: {
		Scheduled: true,
		Running:   true,
		Canceling: true,
		Abandoned: true,
	},
	Scheduled: {
		Running:   true,
		Canceling: true,
		Abandoned: true,
	},
	Running: {
		Pausing:   true,
		Canceling: true,
		Succeeded: true,
		Failed:    true,
		Expired:   true,
	},
	Pausing: {
		Paused:    true,
		Canceling: true,
		Failed:    true,
	},
	Paused: {
		Resuming:  true,
		Canceling: true,
	},
	Resuming: {
		Running: true,
	},
	Canceling: {
		Canceled: true,
		Failed:   true,
	},
}

// CanTransitionTask reports whether a task-flow entry may move from
// "from" to "to". Terminal-to-terminal transitions are always rejected,
// even if the matrix above were ever extended to list one by mistake.
func CanTransitionTask(from, to TaskState) bool {
	if IsTerminalTask(from) {
		return false
	}
	allowed, ok := taskTransitions[from]
	if !ok {
		return false
	}
	return allowed[to]
}

var terminalWorkflows = map[WorkflowState]bool{
	WorkflowSucceeded: true,
	WorkflowFailed:    true,
	WorkflowCanceled:  true,
}

// IsTerminalWorkflow reports whether a workflow state is terminal.
func IsTerminalWorkflow(s WorkflowState) bool {
	return terminalWorkflows[s]
}

var allWorkflowStates = map[WorkflowState]bool{
	Unset: true, WorkflowRunning: true, WorkflowPausing: true,
	WorkflowPaused: true, WorkflowResuming: true, WorkflowCanceling: true,
	WorkflowCanceled: true, WorkflowSucceeded: true, WorkflowFailed: true,
}

// IsValidWorkflowState reports whether s is a recognized workflow state.
func IsValidWorkflowState(s WorkflowState) bool {
	return allWorkflowStates[s]
}

var workflowTransitions = map[WorkflowState]map[WorkflowState]bool{
	Unset: {
		WorkflowRunning: true,
	},
	WorkflowRunning: {
		WorkflowPausing:   true,
		WorkflowCanceling: true,
		WorkflowSucceeded: true,
		WorkflowFailed:    true,
	},
	WorkflowPausing: {
		WorkflowPaused:    true,
		WorkflowCanceling: true,
		WorkflowFailed:    true,
	},
	WorkflowPaused: {
		WorkflowResuming:  true,
		WorkflowCanceling: true,
	},
	WorkflowResuming: {
		WorkflowRunning: true,
	},
	WorkflowCanceling: {
		WorkflowCanceled: true,
		WorkflowFailed:   true,
	},
}

// CanTransitionWorkflow reports whether the workflow as a whole may move
// from "from" to "to".
func CanTransitionWorkflow(from, to WorkflowState) bool {
	if IsTerminalWorkflow(from) {
		return false
	}
	allowed, ok := workflowTransitions[from]
	if !ok {
		return false
	}
	return allowed[to]
}
