package storage

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// WorkflowRun is one persisted conductor run: the spec document it was
// constructed from plus an opaque snapshot of its mutable state
// (workflow status, task-flow log, join marks), produced by
// conducting.Export and restored via conducting.Import. The storage
// layer never interprets the snapshot's contents — spec.md §1 keeps
// persistence strictly outside the conductor.
type WorkflowRun struct {
	ID         uuid.UUID       `json:"id" db:"id"`
	SpecDoc    string          `json:"specDoc" db:"spec_doc"`
	State      string          `json:"state" db:"state"`
	Snapshot   json.RawMessage `json:"snapshot" db:"snapshot"`
	CreatedAt  time.Time       `json:"createdAt" db:"created_at"`
	ModifiedAt time.Time       `json:"modifiedAt" db:"modified_at"`
}
