package conducting

import (
	"encoding/json"
	"fmt"

	"github.com/workflow-conductor/conductor/internal/flow"
	"github.com/workflow-conductor/conductor/internal/states"
)

// snapshot is the full serializable form of a Conductor's mutable state:
// everything besides the graph, which is rebuilt fresh from the spec
// document on Import. Callers (the persistence layer) treat the
// marshaled form as an opaque blob, per SPEC_FULL.md §2's description of
// component G.
type snapshot struct {
	State states.WorkflowState `json:"state"`
	Log   *flow.Log            `json:"log"`
	Marks []mark               `json:"marks"`
}

// Export serializes the conductor's workflow state, flow log, and join
// marks for persistence. The workflow graph is not included — Import
// rebuilds it from the spec document the caller already has on hand.
func (c *Conductor) Export() ([]byte, error) {
	data, err := json.Marshal(snapshot{State: c.state, Log: c.flow, Marks: c.marks})
	if err != nil {
		return nil, fmt.Errorf("conducting: exporting snapshot: %w", err)
	}
	return data, nil
}

// Import restores a previously exported snapshot onto a freshly
// constructed Conductor (one returned by New against the same spec
// document). It must be called before the conductor is driven further.
func (c *Conductor) Import(data []byte) error {
	var snap snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return fmt.Errorf("conducting: importing snapshot: %w", err)
	}
	if snap.Log == nil {
		return fmt.Errorf("conducting: importing snapshot: missing flow log")
	}
	c.state = snap.State
	c.flow = snap.Log
	c.marks = snap.Marks
	return nil
}
