// Package storage is the PostgreSQL-backed persistence layer for
// workflow runs (component G, SPEC_FULL.md §2). It stores a run's spec
// document alongside an opaque conductor snapshot blob; it never
// constructs or touches a *conducting.Conductor itself.
package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DB abstracts the database operations used by the storage layer.
// Satisfied by *pgxpool.Pool in production and pgxmock in tests.
type DB interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	BeginTx(ctx context.Context, txOptions pgx.TxOptions) (pgx.Tx, error)
}

// pgStorage implements Storage using PostgreSQL.
type pgStorage struct {
	db DB
}

// Storage defines the interface for workflow-run persistence. This
// abstraction keeps the HTTP host decoupled from PostgreSQL, the same
// role the teacher's Storage interface plays for its workflow service.
type Storage interface {
	SaveRun(ctx context.Context, run *WorkflowRun) error
	LoadRun(ctx context.Context, id uuid.UUID) (*WorkflowRun, error)
	DeleteRun(ctx context.Context, id uuid.UUID) error
}

// NewInstance creates a new PostgreSQL-backed Storage implementation.
func NewInstance(db *pgxpool.Pool) (Storage, error) {
	if db == nil {
		return nil, fmt.Errorf("storage: db connection cannot be nil")
	}
	return &pgStorage{db: db}, nil
}

// SaveRun upserts a run's spec document, state, and snapshot in a single
// READ COMMITTED transaction, mirroring the teacher's UpsertWorkflow
// shape even though a single statement would suffice today — the
// transaction boundary is what the next write (e.g. an audit-log insert
// alongside the snapshot) would need.
func (s *pgStorage) SaveRun(ctx context.Context, run *WorkflowRun) error {
	timeoutCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	tx, err := s.db.BeginTx(timeoutCtx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return fmt.Errorf("begin transaction for save: %w", err)
	}
	defer tx.Rollback(timeoutCtx)

	now := time.Now()
	if run.CreatedAt.IsZero() {
		run.CreatedAt = now
	}
	run.ModifiedAt = now

	_, err = tx.Exec(timeoutCtx, `
        INSERT INTO workflow_runs (id, spec_doc, state, snapshot, created_at, modified_at)
        VALUES ($1, $2, $3, $4, $5, $6)
        ON CONFLICT (id) DO UPDATE SET
            spec_doc = EXCLUDED.spec_doc,
            state = EXCLUDED.state,
            snapshot = EXCLUDED.snapshot,
            modified_at = EXCLUDED.modified_at;`,
		run.ID, run.SpecDoc, run.State, []byte(run.Snapshot), run.CreatedAt, run.ModifiedAt)
	if err != nil {
		return fmt.Errorf("upsert workflow run: %w", err)
	}

	return tx.Commit(timeoutCtx)
}

// LoadRun retrieves a run by id. Returns pgx.ErrNoRows if absent.
func (s *pgStorage) LoadRun(ctx context.Context, id uuid.UUID) (*WorkflowRun, error) {
	timeoutCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	run := &WorkflowRun{ID: id}
	var snapshot []byte
	err := s.db.QueryRow(timeoutCtx, `
        SELECT spec_doc, state, snapshot, created_at, modified_at
        FROM workflow_runs
        WHERE id = $1`,
		id).Scan(&run.SpecDoc, &run.State, &snapshot, &run.CreatedAt, &run.ModifiedAt)
	if err != nil {
		return nil, err
	}
	run.Snapshot = snapshot
	return run, nil
}

// DeleteRun removes a run in a single READ COMMITTED transaction.
// Returns pgx.ErrNoRows if the run does not exist.
func (s *pgStorage) DeleteRun(ctx context.Context, id uuid.UUID) error {
	timeoutCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	tx, err := s.db.BeginTx(timeoutCtx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return fmt.Errorf("begin transaction for delete: %w", err)
	}
	defer tx.Rollback(timeoutCtx)

	result, err := tx.Exec(timeoutCtx, `DELETE FROM workflow_runs WHERE id = $1;`, id)
	if err != nil {
		return fmt.Errorf("delete workflow run: %w", err)
	}
	if result.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}

	return tx.Commit(timeoutCtx)
}
