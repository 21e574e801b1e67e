// Package host is the HTTP surface over the conductor (component F,
// SPEC_FULL.md §2/§7): it keeps one in-memory *conducting.Conductor per
// workflow run, persisting a snapshot after every mutating call so a
// restart can resume from storage.
package host

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/workflow-conductor/conductor/internal/conducting"
	"github.com/workflow-conductor/conductor/internal/specs"
	"github.com/workflow-conductor/conductor/internal/storage"
)

// Service handles HTTP requests driving conductor runs. It depends on
// the Storage interface rather than a concrete implementation, the same
// decoupling the teacher's workflow.Service uses.
type Service struct {
	storage storage.Storage

	mu   sync.Mutex
	runs map[uuid.UUID]*runState
}

// runState pairs a live conductor with the spec document it was built
// from, needed to rebuild it from storage after a cache miss.
type runState struct {
	specDoc   string
	conductor *conducting.Conductor
}

// NewService creates a host Service backed by store.
func NewService(store storage.Storage) (*Service, error) {
	if store == nil {
		return nil, fmt.Errorf("host: store cannot be nil")
	}
	return &Service{storage: store, runs: make(map[uuid.UUID]*runState)}, nil
}

// getConductor returns the in-memory conductor for id, rehydrating it
// from storage on a cache miss.
func (s *Service) getConductor(ctx context.Context, id uuid.UUID) (*conducting.Conductor, error) {
	s.mu.Lock()
	rs, ok := s.runs[id]
	s.mu.Unlock()
	if ok {
		return rs.conductor, nil
	}

	run, err := s.storage.LoadRun(ctx, id)
	if err != nil {
		return nil, err
	}
	doc, err := specs.ParseDocument(run.SpecDoc)
	if err != nil {
		return nil, fmt.Errorf("host: re-parsing stored spec for %s: %w", id, err)
	}
	c, err := conducting.New(doc, nil)
	if err != nil {
		return nil, fmt.Errorf("host: rebuilding conductor for %s: %w", id, err)
	}
	if err := c.Import(run.Snapshot); err != nil {
		return nil, fmt.Errorf("host: restoring snapshot for %s: %w", id, err)
	}

	s.mu.Lock()
	s.runs[id] = &runState{specDoc: run.SpecDoc, conductor: c}
	s.mu.Unlock()
	return c, nil
}

// persist snapshots id's current conductor state to storage.
func (s *Service) persist(ctx context.Context, id uuid.UUID, specDoc string, c *conducting.Conductor) error {
	data, err := c.Export()
	if err != nil {
		return fmt.Errorf("host: exporting snapshot for %s: %w", id, err)
	}
	return s.storage.SaveRun(ctx, &storage.WorkflowRun{
		ID:       id,
		SpecDoc:  specDoc,
		State:    string(c.GetWorkflowState()),
		Snapshot: data,
	})
}
