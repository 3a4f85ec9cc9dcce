package worker

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"fintwin/internal/amqp"
	"fintwin/internal/core"
	"fintwin/internal/store"
)

type stubWriter struct {
	appended []string // transaction IDs in append order
	err      error
}

func (w *stubWriter) Append(ctx context.Context, userID string, tx core.Transaction) (string, error) {
	if w.err != nil {
		return "", w.err
	}
	w.appended = append(w.appended, tx.ID)
	return "Transactions!A2:E2", nil
}

func newTestStore(t *testing.T) *store.SQLiteStore {
	t.Helper()
	s, err := store.NewSQLiteStore(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("NewSQLiteStore: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func createTx(t *testing.T, s *store.SQLiteStore, userID string) core.Transaction {
	t.Helper()
	tx, err := s.Create(context.Background(), userID, core.Transaction{
		Amount:   core.Money{Cents: 2500},
		Category: core.CategoryDining,
		Date:     core.NewDate(2026, 8, 15),
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	return tx
}

func pendingCount(t *testing.T, s *store.SQLiteStore) int {
	t.Helper()
	pending, err := s.GetPendingExports(context.Background(), 100)
	if err != nil {
		t.Fatalf("GetPendingExports: %v", err)
	}
	return len(pending)
}

func TestHandleEventExportsCreated(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	writer := &stubWriter{}
	w := NewExportWorker(st, writer, 10)

	tx := createTx(t, st, "alice")
	event := amqp.NewTransactionEvent(amqp.EventCreated, tx.ID, "alice")

	if err := w.HandleEvent(ctx, event); err != nil {
		t.Fatalf("HandleEvent: %v", err)
	}
	if len(writer.appended) != 1 || writer.appended[0] != tx.ID {
		t.Fatalf("appended = %v, want [%s]", writer.appended, tx.ID)
	}
	if n := pendingCount(t, st); n != 0 {
		t.Fatalf("pending after export = %d, want 0", n)
	}
}

func TestHandleEventSkipsDeleted(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	writer := &stubWriter{}
	w := NewExportWorker(st, writer, 10)

	tx := createTx(t, st, "alice")
	event := amqp.NewTransactionEvent(amqp.EventDeleted, tx.ID, "alice")

	if err := w.HandleEvent(ctx, event); err != nil {
		t.Fatalf("HandleEvent: %v", err)
	}
	if len(writer.appended) != 0 {
		t.Fatalf("delete event reached the sheet: %v", writer.appended)
	}
}

func TestHandleEventRowDeletedBeforeExport(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	writer := &stubWriter{}
	w := NewExportWorker(st, writer, 10)

	// Create-then-delete is an ordinary sequence; the created event can
	// arrive after the row is already gone. The handler must succeed so the
	// consumer acks instead of requeueing the message forever.
	tx := createTx(t, st, "alice")
	if err := st.Delete(ctx, "alice", tx.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	event := amqp.NewTransactionEvent(amqp.EventCreated, tx.ID, "alice")
	if err := w.HandleEvent(ctx, event); err != nil {
		t.Fatalf("HandleEvent for deleted row = %v, want nil", err)
	}
	if len(writer.appended) != 0 {
		t.Fatalf("deleted row reached the sheet: %v", writer.appended)
	}
}

func TestHandleEventUnknownIDIsNotRetried(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	w := NewExportWorker(st, &stubWriter{}, 10)

	event := amqp.NewTransactionEvent(amqp.EventCreated, "no-such-id", "alice")
	if err := w.HandleEvent(ctx, event); err != nil {
		t.Fatalf("HandleEvent for unknown ID = %v, want nil", err)
	}
}

func TestExportFailureMarksErrorAndStopsRetries(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	writer := &stubWriter{err: errors.New("sheets unavailable")}
	w := NewExportWorker(st, writer, 10)

	tx := createTx(t, st, "alice")
	event := amqp.NewTransactionEvent(amqp.EventCreated, tx.ID, "alice")

	if err := w.HandleEvent(ctx, event); err == nil {
		t.Fatal("HandleEvent returned nil, want append error")
	}

	// The failed row is flagged and does not come back in the pending scan.
	if n := pendingCount(t, st); n != 0 {
		t.Fatalf("failed row still pending: %d rows", n)
	}
}

func TestProcessPendingDrainsBacklog(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	writer := &stubWriter{}
	w := NewExportWorker(st, writer, 10)

	for i := 0; i < 3; i++ {
		createTx(t, st, "alice")
	}

	if err := w.ProcessPending(ctx); err != nil {
		t.Fatalf("ProcessPending: %v", err)
	}
	if len(writer.appended) != 3 {
		t.Fatalf("appended %d rows, want 3", len(writer.appended))
	}
	if n := pendingCount(t, st); n != 0 {
		t.Fatalf("pending after drain = %d, want 0", n)
	}

	// A second pass finds nothing to do.
	if err := w.ProcessPending(ctx); err != nil {
		t.Fatalf("second ProcessPending: %v", err)
	}
	if len(writer.appended) != 3 {
		t.Fatalf("second pass re-exported rows: %d appends", len(writer.appended))
	}
}

func TestProcessPendingContinuesPastFailures(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	writer := &stubWriter{err: errors.New("sheets unavailable")}
	w := NewExportWorker(st, writer, 10)

	createTx(t, st, "alice")
	createTx(t, st, "bob")

	// Failures are logged per row, not bubbled up.
	if err := w.ProcessPending(ctx); err != nil {
		t.Fatalf("ProcessPending: %v", err)
	}
	if n := pendingCount(t, st); n != 0 {
		t.Fatalf("failed rows still pending: %d", n)
	}
}

func TestStartupCheckDrainsBacklog(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	writer := &stubWriter{}
	w := NewExportWorker(st, writer, 2)

	// More rows than one batch; startup uses a widened limit.
	for i := 0; i < 5; i++ {
		createTx(t, st, "alice")
	}

	if err := w.StartupCheck(ctx); err != nil {
		t.Fatalf("StartupCheck: %v", err)
	}
	if len(writer.appended) != 5 {
		t.Fatalf("appended %d rows, want 5", len(writer.appended))
	}
}
