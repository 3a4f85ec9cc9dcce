// Package worker contains the background export pipeline. It reacts to
// transaction events from the broker and keeps a periodic scan as a backup
// for lost messages.
package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"fintwin/internal/amqp"
	"fintwin/internal/sheets"
	"fintwin/internal/store"
)

type ExportWorker struct {
	store     *store.SQLiteStore
	writer    sheets.TransactionWriter
	batchSize int
}

func NewExportWorker(st *store.SQLiteStore, writer sheets.TransactionWriter, batchSize int) *ExportWorker {
	return &ExportWorker{
		store:     st,
		writer:    writer,
		batchSize: batchSize,
	}
}

// HandleEvent processes a single transaction event from AMQP.
func (w *ExportWorker) HandleEvent(ctx context.Context, event *amqp.TransactionEvent) error {
	slog.InfoContext(ctx, "Processing transaction event",
		"kind", event.Kind,
		"id", event.ID,
		"user_id", event.UserID)

	// Deletes are not mirrored; the sheet keeps an append-only history.
	if event.Kind == amqp.EventDeleted {
		slog.InfoContext(ctx, "Skipping delete event, sheet is append-only", "id", event.ID)
		return nil
	}

	return w.exportByID(ctx, event.ID)
}

// ProcessPending exports any transactions that have not been written to the
// sheet yet. This is a backup mechanism in case AMQP messages are lost.
func (w *ExportWorker) ProcessPending(ctx context.Context) error {
	pending, err := w.store.GetPendingExports(ctx, w.batchSize)
	if err != nil {
		return fmt.Errorf("get pending exports: %w", err)
	}

	if len(pending) == 0 {
		return nil
	}

	slog.InfoContext(ctx, "Processing pending exports", "count", len(pending))

	for _, p := range pending {
		if err := w.exportByID(ctx, p.ID); err != nil {
			slog.ErrorContext(ctx, "Failed to export transaction", "id", p.ID, "error", err)
		}
	}

	return nil
}

// StartupCheck drains the pending backlog at worker startup. Useful to
// recover from missed AMQP messages or worker downtime.
func (w *ExportWorker) StartupCheck(ctx context.Context) error {
	pending, err := w.store.GetPendingExports(ctx, w.batchSize*5)
	if err != nil {
		return fmt.Errorf("get pending exports for startup check: %w", err)
	}

	if len(pending) == 0 {
		slog.InfoContext(ctx, "No pending exports found on startup")
		return nil
	}

	slog.InfoContext(ctx, "Found pending exports on startup, processing...",
		"count", len(pending))

	successCount := 0
	errorCount := 0

	for _, p := range pending {
		if err := w.exportByID(ctx, p.ID); err != nil {
			slog.ErrorContext(ctx, "Failed to export during startup", "id", p.ID, "error", err)
			errorCount++
			continue
		}
		successCount++
	}

	slog.InfoContext(ctx, "Startup export completed",
		"total", len(pending),
		"exported", successCount,
		"errors", errorCount)

	return nil
}

func (w *ExportWorker) exportByID(ctx context.Context, id string) error {
	tx, userID, err := w.store.GetByID(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		// The row was deleted before the export ran. Nothing to mirror, and
		// returning an error here would make the consumer requeue the
		// message forever.
		slog.InfoContext(ctx, "Skipping export, transaction no longer exists", "id", id)
		return nil
	}
	if err != nil {
		if markErr := w.store.MarkExportError(ctx, id); markErr != nil {
			slog.ErrorContext(ctx, "Failed to mark export error", "id", id, "error", markErr)
		}
		return fmt.Errorf("get transaction: %w", err)
	}

	ref, err := w.writer.Append(ctx, userID, tx)
	if err != nil {
		if markErr := w.store.MarkExportError(ctx, id); markErr != nil {
			slog.ErrorContext(ctx, "Failed to mark export error", "id", id, "error", markErr)
		}
		return fmt.Errorf("append to sheet: %w", err)
	}

	if err := w.store.MarkExported(ctx, id); err != nil {
		// The row made it to the sheet; only the bookkeeping failed.
		slog.ErrorContext(ctx, "Failed to mark as exported", "id", id, "error", err)
	}

	slog.InfoContext(ctx, "Exported transaction",
		"id", id,
		"user_id", userID,
		"sheet_ref", ref,
		"amount_cents", tx.Amount.Cents)

	return nil
}
