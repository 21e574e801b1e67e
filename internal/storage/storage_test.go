package storage

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
)

var (
	testRunID = uuid.MustParse("550e8400-e29b-41d4-a716-446655440000")
	testNow   = time.Now()
)

func TestSaveRun(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create mock pool: %v", err)
	}
	defer mock.Close()

	run := &WorkflowRun{
		ID:       testRunID,
		SpecDoc:  "tasks:\n  task1:\n    action: core.noop\n",
		State:    "running",
		Snapshot: json.RawMessage(`{"state":"running"}`),
	}

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO workflow_runs").
		WithArgs(run.ID, run.SpecDoc, run.State, []byte(run.Snapshot), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectCommit()

	store := &pgStorage{db: mock}
	if err := store.SaveRun(context.Background(), run); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if run.CreatedAt.IsZero() || run.ModifiedAt.IsZero() {
		t.Error("expected CreatedAt/ModifiedAt to be stamped")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet mock expectations: %v", err)
	}
}

func TestSaveRun_BeginTxFailure(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create mock pool: %v", err)
	}
	defer mock.Close()

	mock.ExpectBegin().WillReturnError(errors.New("pool exhausted"))

	store := &pgStorage{db: mock}
	err = store.SaveRun(context.Background(), &WorkflowRun{ID: testRunID})
	if err == nil {
		t.Fatal("expected an error")
	}
}

func TestLoadRun(t *testing.T) {
	tests := []struct {
		name      string
		setupMock func(mock pgxmock.PgxPoolIface)
		wantErr   error
		check     func(t *testing.T, run *WorkflowRun)
	}{
		{
			name: "success returns the persisted run",
			setupMock: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery("SELECT spec_doc, state, snapshot").
					WithArgs(testRunID).
					WillReturnRows(
						pgxmock.NewRows([]string{"spec_doc", "state", "snapshot", "created_at", "modified_at"}).
							AddRow("tasks:\n  task1:\n    action: core.noop\n", "running", []byte(`{"state":"running"}`), testNow, testNow),
					)
			},
			check: func(t *testing.T, run *WorkflowRun) {
				t.Helper()
				if run.State != "running" {
					t.Errorf("expected state running, got %q", run.State)
				}
				if string(run.Snapshot) != `{"state":"running"}` {
					t.Errorf("expected snapshot round-trip, got %s", run.Snapshot)
				}
			},
		},
		{
			name: "not found returns ErrNoRows",
			setupMock: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery("SELECT spec_doc, state, snapshot").
					WithArgs(testRunID).
					WillReturnError(pgx.ErrNoRows)
			},
			wantErr: pgx.ErrNoRows,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock, err := pgxmock.NewPool()
			if err != nil {
				t.Fatalf("failed to create mock pool: %v", err)
			}
			defer mock.Close()

			tt.setupMock(mock)

			store := &pgStorage{db: mock}
			run, err := store.LoadRun(context.Background(), testRunID)

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected error %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tt.check != nil {
				tt.check(t, run)
			}
			if err := mock.ExpectationsWereMet(); err != nil {
				t.Errorf("unmet mock expectations: %v", err)
			}
		})
	}
}

func TestDeleteRun(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		if err != nil {
			t.Fatalf("failed to create mock pool: %v", err)
		}
		defer mock.Close()

		mock.ExpectBegin()
		mock.ExpectExec("DELETE FROM workflow_runs").
			WithArgs(testRunID).
			WillReturnResult(pgxmock.NewResult("DELETE", 1))
		mock.ExpectCommit()

		store := &pgStorage{db: mock}
		if err := store.DeleteRun(context.Background(), testRunID); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Errorf("unmet mock expectations: %v", err)
		}
	})

	t.Run("not found", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		if err != nil {
			t.Fatalf("failed to create mock pool: %v", err)
		}
		defer mock.Close()

		mock.ExpectBegin()
		mock.ExpectExec("DELETE FROM workflow_runs").
			WithArgs(testRunID).
			WillReturnResult(pgxmock.NewResult("DELETE", 0))
		mock.ExpectRollback()

		store := &pgStorage{db: mock}
		err = store.DeleteRun(context.Background(), testRunID)
		if !errors.Is(err, pgx.ErrNoRows) {
			t.Fatalf("expected pgx.ErrNoRows, got %v", err)
		}
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Errorf("unmet mock expectations: %v", err)
		}
	})
}
