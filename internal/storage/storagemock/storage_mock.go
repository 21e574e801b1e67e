// Package storagemock is a hand-rolled Storage fake for host tests,
// following the teacher's storagemock shape: a struct of optional
// override funcs with sensible zero-value defaults.
package storagemock

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/workflow-conductor/conductor/internal/storage"
)

type StorageMock struct {
	SaveRunMock   func(ctx context.Context, run *storage.WorkflowRun) error
	LoadRunMock   func(ctx context.Context, id uuid.UUID) (*storage.WorkflowRun, error)
	DeleteRunMock func(ctx context.Context, id uuid.UUID) error
}

func (m *StorageMock) SaveRun(ctx context.Context, run *storage.WorkflowRun) error {
	if m != nil && m.SaveRunMock != nil {
		return m.SaveRunMock(ctx, run)
	}
	return nil
}

func (m *StorageMock) LoadRun(ctx context.Context, id uuid.UUID) (*storage.WorkflowRun, error) {
	if m != nil && m.LoadRunMock != nil {
		return m.LoadRunMock(ctx, id)
	}
	return nil, pgx.ErrNoRows
}

func (m *StorageMock) DeleteRun(ctx context.Context, id uuid.UUID) error {
	if m != nil && m.DeleteRunMock != nil {
		return m.DeleteRunMock(ctx, id)
	}
	return nil
}

var _ storage.Storage = (*StorageMock)(nil)
