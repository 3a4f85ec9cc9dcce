// Package store provides transaction persistence: a SQLite-backed primary
// store, a per-user JSON file store used as the local fallback, an in-memory
// store for tests, and a wrapper that degrades from primary to fallback on
// failure.
package store

import (
	"context"
	"errors"

	"fintwin/internal/core"
)

// ErrNotFound is returned when a transaction ID does not exist in a user's
// collection. It is a valid answer, not a store failure; the fallback wrapper
// does not degrade on it.
var ErrNotFound = errors.New("transaction not found")

// TransactionStore is the port every backend implements. All operations are
// namespaced per user.
type TransactionStore interface {
	// Create persists the transaction, assigning its opaque ID and creation
	// instant, and returns the stored value.
	Create(ctx context.Context, userID string, tx core.Transaction) (core.Transaction, error)

	// Get returns the transaction with the given ID, or ErrNotFound.
	Get(ctx context.Context, userID, id string) (core.Transaction, error)

	// List returns all of the user's transactions, newest created first.
	List(ctx context.Context, userID string) ([]core.Transaction, error)

	// Update replaces the transaction in place, preserving its ID, and
	// returns the stored value. ErrNotFound if the ID does not exist.
	Update(ctx context.Context, userID string, tx core.Transaction) (core.Transaction, error)

	// Delete removes the transaction, or returns ErrNotFound.
	Delete(ctx context.Context, userID, id string) error
}
