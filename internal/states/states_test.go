package states

import "testing"

func TestCanTransitionTask(t *testing.T) {
	tests := []struct {
		name string
		from TaskState
		to   TaskState
		want bool
	}{
		{"empty to running", unset, Running, true},
		{"empty to succeeded", unset, Succeeded, false},
		{"running to succeeded", Running, Succeeded, true},
		{"running to pausing", Running, Pausing, true},
		{"pausing to paused", Pausing, Paused, true},
		{"paused to resuming", Paused, Resuming, true},
		{"resuming to running", Resuming, Running, true},
		{"succeeded to running (terminal)", Succeeded, Running, false},
		{"failed to succeeded (terminal to terminal)", Failed, Succeeded, false},
		{"canceled to canceled (terminal to terminal)", Canceled, Canceled, false},
		{"unknown from state", TaskState("bogus"), Running, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CanTransitionTask(tt.from, tt.to); got != tt.want {
				t.Errorf("CanTransitionTask(%q, %q) = %v, want %v", tt.from, tt.to, got, tt.want)
			}
		})
	}
}

func TestIsValidTaskState(t *testing.T) {
	if !IsValidTaskState(Running) {
		t.Error("running should be a valid state")
	}
	if IsValidTaskState(TaskState("foobar")) {
		t.Error("foobar should not be a valid state")
	}
	if IsValidTaskState(unset) {
		t.Error("the empty pseudo-state must never validate as input")
	}
}

func TestIsTerminalTask(t *testing.T) {
	for s := range terminalTasks {
		if !IsTerminalTask(s) {
			t.Errorf("%q should be terminal", s)
		}
	}
	if IsTerminalTask(Running) {
		t.Error("running should not be terminal")
	}
}

func TestCanTransitionWorkflow(t *testing.T) {
	if !CanTransitionWorkflow(Unset, WorkflowRunning) {
		t.Error("unset -> running should be allowed")
	}
	if CanTransitionWorkflow(Unset, WorkflowSucceeded) {
		t.Error("unset -> succeeded should not be allowed")
	}
	if CanTransitionWorkflow(WorkflowSucceeded, WorkflowRunning) {
		t.Error("terminal workflow state must reject further transitions")
	}
}
