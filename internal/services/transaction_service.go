// Package services orchestrates transaction writes across the store and the
// event pipeline.
package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"fintwin/internal/amqp"
	"fintwin/internal/core"
	"fintwin/internal/store"
)

// EventPublisher is the outbound port to the message broker.
type EventPublisher interface {
	PublishTransactionEvent(ctx context.Context, event *amqp.TransactionEvent) error
}

// Summary bundles everything the dashboard overview needs in one call.
type Summary struct {
	Breakdown core.Breakdown
	Risk      core.RiskReport
}

// TransactionService orchestrates transaction operations across the store
// and AMQP. Publish failures never fail the request; the periodic export
// scan picks up anything the broker missed.
type TransactionService struct {
	store     store.TransactionStore
	publisher EventPublisher
	now       func() time.Time
}

func NewTransactionService(st store.TransactionStore, publisher EventPublisher) *TransactionService {
	return &TransactionService{
		store:     st,
		publisher: publisher,
		now:       time.Now,
	}
}

func (s *TransactionService) Create(ctx context.Context, userID string, tx core.Transaction) (core.Transaction, error) {
	if err := tx.Validate(); err != nil {
		return core.Transaction{}, err
	}

	created, err := s.store.Create(ctx, userID, tx)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("save transaction: %w", err)
	}

	s.publishEvent(ctx, amqp.EventCreated, created.ID, userID)
	return created, nil
}

func (s *TransactionService) Get(ctx context.Context, userID, id string) (core.Transaction, error) {
	return s.store.Get(ctx, userID, id)
}

func (s *TransactionService) List(ctx context.Context, userID string) ([]core.Transaction, error) {
	return s.store.List(ctx, userID)
}

func (s *TransactionService) Update(ctx context.Context, userID string, tx core.Transaction) (core.Transaction, error) {
	if err := tx.Validate(); err != nil {
		return core.Transaction{}, err
	}

	updated, err := s.store.Update(ctx, userID, tx)
	if err != nil {
		return core.Transaction{}, err
	}

	s.publishEvent(ctx, amqp.EventUpdated, updated.ID, userID)
	return updated, nil
}

func (s *TransactionService) Delete(ctx context.Context, userID, id string) error {
	if err := s.store.Delete(ctx, userID, id); err != nil {
		return err
	}

	s.publishEvent(ctx, amqp.EventDeleted, id, userID)
	return nil
}

// Summary aggregates the user's transactions into the category breakdown and
// the trailing-window risk report.
func (s *TransactionService) Summary(ctx context.Context, userID string) (Summary, error) {
	txs, err := s.store.List(ctx, userID)
	if err != nil {
		return Summary{}, fmt.Errorf("list transactions: %w", err)
	}

	return Summary{
		Breakdown: core.BreakdownOf(txs),
		Risk:      core.AssessRisk(txs, s.now()),
	}, nil
}

func (s *TransactionService) publishEvent(ctx context.Context, kind, id, userID string) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishTransactionEvent(ctx, amqp.NewTransactionEvent(kind, id, userID)); err != nil {
		// Don't fail the request - the transaction is saved locally.
		slog.ErrorContext(ctx, "Failed to publish transaction event",
			"kind", kind, "id", id, "error", err)
	}
}
