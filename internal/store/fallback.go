package store

import (
	"context"
	"errors"
	"log/slog"

	"fintwin/internal/core"
)

// FallbackStore tries the primary store and degrades to the local store when
// the primary fails: the error is logged, the local result is returned, and
// nothing is retried. ErrNotFound never triggers the fallback. There is no
// reconciliation between the two sides; a read after a degraded write may be
// served by either.
type FallbackStore struct {
	primary TransactionStore
	local   TransactionStore
}

func NewFallbackStore(primary, local TransactionStore) *FallbackStore {
	return &FallbackStore{primary: primary, local: local}
}

func (f *FallbackStore) Create(ctx context.Context, userID string, tx core.Transaction) (core.Transaction, error) {
	created, err := f.primary.Create(ctx, userID, tx)
	if err == nil {
		return created, nil
	}
	f.degrade(ctx, "create", err)
	return f.local.Create(ctx, userID, tx)
}

func (f *FallbackStore) Get(ctx context.Context, userID, id string) (core.Transaction, error) {
	got, err := f.primary.Get(ctx, userID, id)
	if err == nil || errors.Is(err, ErrNotFound) {
		return got, err
	}
	f.degrade(ctx, "get", err)
	return f.local.Get(ctx, userID, id)
}

func (f *FallbackStore) List(ctx context.Context, userID string) ([]core.Transaction, error) {
	items, err := f.primary.List(ctx, userID)
	if err == nil {
		return items, nil
	}
	f.degrade(ctx, "list", err)
	return f.local.List(ctx, userID)
}

func (f *FallbackStore) Update(ctx context.Context, userID string, tx core.Transaction) (core.Transaction, error) {
	updated, err := f.primary.Update(ctx, userID, tx)
	if err == nil || errors.Is(err, ErrNotFound) {
		return updated, err
	}
	f.degrade(ctx, "update", err)
	return f.local.Update(ctx, userID, tx)
}

func (f *FallbackStore) Delete(ctx context.Context, userID, id string) error {
	err := f.primary.Delete(ctx, userID, id)
	if err == nil || errors.Is(err, ErrNotFound) {
		return err
	}
	f.degrade(ctx, "delete", err)
	return f.local.Delete(ctx, userID, id)
}

func (f *FallbackStore) degrade(ctx context.Context, op string, err error) {
	slog.WarnContext(ctx, "Primary store failed, degrading to local store",
		"operation", op,
		"error", err)
}
