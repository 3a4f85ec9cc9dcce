package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"fintwin/internal/core"

	_ "modernc.org/sqlite"
)

// SQLiteStore is the primary transaction store. It also tracks which rows
// still need to be mirrored out by the export worker.
type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *SQLiteStore) Create(ctx context.Context, userID string, tx core.Transaction) (core.Transaction, error) {
	tx.ID = uuid.NewString()
	tx.CreatedAt = time.Now().UTC()

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO transactions (id, user_id, amount_cents, category, tx_date, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		tx.ID, userID, tx.Amount.Cents, string(tx.Category), tx.Date.String(), tx.CreatedAt)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("insert transaction: %w", err)
	}

	slog.InfoContext(ctx, "Transaction saved to SQLite",
		"id", tx.ID,
		"user_id", userID,
		"amount_cents", tx.Amount.Cents,
		"category", tx.Category)

	return tx, nil
}

func (s *SQLiteStore) Get(ctx context.Context, userID, id string) (core.Transaction, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, amount_cents, category, tx_date, created_at
		 FROM transactions WHERE user_id = ? AND id = ?`, userID, id)
	return scanTransaction(row)
}

func (s *SQLiteStore) List(ctx context.Context, userID string) ([]core.Transaction, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, amount_cents, category, tx_date, created_at
		 FROM transactions WHERE user_id = ? ORDER BY created_at DESC, id`, userID)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	var out []core.Transaction
	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, tx)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	return out, nil
}

func (s *SQLiteStore) Update(ctx context.Context, userID string, tx core.Transaction) (core.Transaction, error) {
	// Edited rows go back into the export queue.
	res, err := s.db.ExecContext(ctx,
		`UPDATE transactions
		 SET amount_cents = ?, category = ?, tx_date = ?, exported = 0, export_error = 0
		 WHERE user_id = ? AND id = ?`,
		tx.Amount.Cents, string(tx.Category), tx.Date.String(), userID, tx.ID)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("update transaction: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return core.Transaction{}, fmt.Errorf("update transaction: %w", err)
	}
	if n == 0 {
		return core.Transaction{}, ErrNotFound
	}
	return s.Get(ctx, userID, tx.ID)
}

func (s *SQLiteStore) Delete(ctx context.Context, userID, id string) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM transactions WHERE user_id = ? AND id = ?`, userID, id)
	if err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}

	slog.InfoContext(ctx, "Transaction deleted from SQLite", "id", id, "user_id", userID)
	return nil
}

// PendingExport is the minimal row data the export worker needs to pick work
// back up after missed messages.
type PendingExport struct {
	ID     string
	UserID string
}

// GetByID fetches a transaction by ID alone, for the export worker, which
// receives IDs over the queue without user scoping.
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (core.Transaction, string, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, amount_cents, category, tx_date, created_at, user_id
		 FROM transactions WHERE id = ?`, id)

	var tx core.Transaction
	var category, txDate, userID string
	err := row.Scan(&tx.ID, &tx.Amount.Cents, &category, &txDate, &tx.CreatedAt, &userID)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Transaction{}, "", ErrNotFound
	}
	if err != nil {
		return core.Transaction{}, "", fmt.Errorf("get transaction by id: %w", err)
	}
	tx.Category = core.Category(category)
	if tx.Date, err = core.ParseDate(txDate); err != nil {
		return core.Transaction{}, "", fmt.Errorf("parse stored date %q: %w", txDate, err)
	}
	return tx, userID, nil
}

// GetPendingExports returns transactions not yet mirrored to the export sheet.
func (s *SQLiteStore) GetPendingExports(ctx context.Context, limit int) ([]PendingExport, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, user_id FROM transactions
		 WHERE exported = 0 AND export_error = 0
		 ORDER BY created_at LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("get pending exports: %w", err)
	}
	defer rows.Close()

	var out []PendingExport
	for rows.Next() {
		var p PendingExport
		if err := rows.Scan(&p.ID, &p.UserID); err != nil {
			return nil, fmt.Errorf("scan pending export: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// MarkExported marks a transaction as successfully mirrored.
func (s *SQLiteStore) MarkExported(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx,
		`UPDATE transactions SET exported = 1, export_error = 0 WHERE id = ?`, id); err != nil {
		return fmt.Errorf("mark exported: %w", err)
	}
	return nil
}

// MarkExportError flags a transaction whose export attempt failed so the
// periodic scan stops retrying it.
func (s *SQLiteStore) MarkExportError(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx,
		`UPDATE transactions SET export_error = 1 WHERE id = ?`, id); err != nil {
		return fmt.Errorf("mark export error: %w", err)
	}
	slog.WarnContext(ctx, "Transaction marked with export error", "id", id)
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTransaction(row rowScanner) (core.Transaction, error) {
	var tx core.Transaction
	var category, txDate string
	err := row.Scan(&tx.ID, &tx.Amount.Cents, &category, &txDate, &tx.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Transaction{}, ErrNotFound
	}
	if err != nil {
		return core.Transaction{}, fmt.Errorf("scan transaction: %w", err)
	}
	tx.Category = core.Category(category)
	if tx.Date, err = core.ParseDate(txDate); err != nil {
		return core.Transaction{}, fmt.Errorf("parse stored date %q: %w", txDate, err)
	}
	return tx, nil
}
