// Package flow implements the append-only task-flow log: the sequence
// of task-flow entries and the task_name -> latest-index mapping
// described in spec.md §3/§4.5.
package flow

import "github.com/workflow-conductor/conductor/internal/states"

// Entry is one task-flow entry. OutboundMarks records which outbound
// transitions from this entry have been satisfied, keyed by
// "<next_name>__<edge_key>" per spec.md §9.
type Entry struct {
	ID            string
	Ctx           *int
	State         states.TaskState
	OutboundMarks map[string]bool
}

// HasState reports whether the entry has ever received a state
// transition (the "empty pseudo-state" case in spec.md §4.3).
func (e *Entry) HasState() bool {
	return e.State != ""
}

// Clone returns a deep copy of the entry, used so callers never hold a
// pointer into the log's backing storage.
func (e *Entry) Clone() *Entry {
	if e == nil {
		return nil
	}
	cp := &Entry{ID: e.ID, State: e.State}
	if e.Ctx != nil {
		v := *e.Ctx
		cp.Ctx = &v
	}
	if e.OutboundMarks != nil {
		cp.OutboundMarks = make(map[string]bool, len(e.OutboundMarks))
		for k, v := range e.OutboundMarks {
			cp.OutboundMarks[k] = v
		}
	}
	return cp
}
