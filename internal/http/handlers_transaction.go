package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"fintwin/internal/core"
	"fintwin/internal/store"
)

// transactionRequest is the write payload. Amount is raw because clients send
// it either as a JSON number or as a quoted decimal string.
type transactionRequest struct {
	Amount   json.RawMessage `json:"amount"`
	Category string          `json:"category"`
	Date     string          `json:"date"`
}

type transactionResponse struct {
	ID        string    `json:"id"`
	Amount    float64   `json:"amount"`
	Cents     int64     `json:"amount_cents"`
	Category  string    `json:"category"`
	Label     string    `json:"category_label"`
	Date      string    `json:"date"`
	CreatedAt time.Time `json:"created_at"`
}

func toTransactionResponse(tx core.Transaction) transactionResponse {
	return transactionResponse{
		ID:        tx.ID,
		Amount:    tx.Amount.Dollars(),
		Cents:     tx.Amount.Cents,
		Category:  string(tx.Category),
		Label:     tx.Category.Display(),
		Date:      tx.Date.String(),
		CreatedAt: tx.CreatedAt,
	}
}

// parseTransaction validates the request payload into a domain transaction.
func parseTransaction(req transactionRequest) (core.Transaction, string, bool) {
	cents, err := core.ParseAmountToCents(amountString(req.Amount))
	if err != nil {
		return core.Transaction{}, "invalid amount", false
	}

	category, err := core.ParseCategory(sanitizeInput(req.Category))
	if err != nil {
		return core.Transaction{}, "unknown category", false
	}

	date, err := core.ParseDate(req.Date)
	if err != nil {
		return core.Transaction{}, "invalid date, expected YYYY-MM-DD", false
	}

	return core.Transaction{
		Amount:   core.Money{Cents: cents},
		Category: category,
		Date:     date,
	}, "", true
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	user := userID(r)

	var req transactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	tx, msg, ok := parseTransaction(req)
	if !ok {
		writeError(w, http.StatusUnprocessableEntity, msg)
		return
	}

	created, err := s.svc.Create(r.Context(), user, tx)
	if err != nil {
		slog.ErrorContext(r.Context(), "Transaction create error", "error", err, "user_id", user)
		writeError(w, http.StatusInternalServerError, "failed to save transaction")
		return
	}

	s.logs.LogTransactionCreated(r.Context(), user, created.ID, string(created.Category), created.Amount.Cents)
	s.invalidateSummary(user)
	writeJSON(w, http.StatusCreated, toTransactionResponse(created))
}

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	user := userID(r)

	txs, err := s.svc.List(r.Context(), user)
	if err != nil {
		slog.ErrorContext(r.Context(), "Transaction list error", "error", err, "user_id", user)
		writeError(w, http.StatusInternalServerError, "failed to list transactions")
		return
	}

	out := make([]transactionResponse, 0, len(txs))
	for _, tx := range txs {
		out = append(out, toTransactionResponse(tx))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleGetTransaction(w http.ResponseWriter, r *http.Request) {
	user := userID(r)
	id := r.PathValue("id")

	tx, err := s.svc.Get(r.Context(), user, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "transaction not found")
			return
		}
		slog.ErrorContext(r.Context(), "Transaction get error", "error", err, "user_id", user, "transaction_id", id)
		writeError(w, http.StatusInternalServerError, "failed to load transaction")
		return
	}

	writeJSON(w, http.StatusOK, toTransactionResponse(tx))
}

func (s *Server) handleUpdateTransaction(w http.ResponseWriter, r *http.Request) {
	user := userID(r)
	id := r.PathValue("id")

	var req transactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	tx, msg, ok := parseTransaction(req)
	if !ok {
		writeError(w, http.StatusUnprocessableEntity, msg)
		return
	}
	tx.ID = id

	updated, err := s.svc.Update(r.Context(), user, tx)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "transaction not found")
			return
		}
		slog.ErrorContext(r.Context(), "Transaction update error", "error", err, "user_id", user, "transaction_id", id)
		writeError(w, http.StatusInternalServerError, "failed to update transaction")
		return
	}

	s.invalidateSummary(user)
	writeJSON(w, http.StatusOK, toTransactionResponse(updated))
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	user := userID(r)
	id := r.PathValue("id")

	if err := s.svc.Delete(r.Context(), user, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "transaction not found")
			return
		}
		slog.ErrorContext(r.Context(), "Transaction delete error", "error", err, "user_id", user, "transaction_id", id)
		writeError(w, http.StatusInternalServerError, "failed to delete transaction")
		return
	}

	s.invalidateSummary(user)
	w.WriteHeader(http.StatusNoContent)
}
