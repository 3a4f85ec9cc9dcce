package store

import (
	"context"
	"errors"
	"testing"

	"fintwin/internal/core"
)

func sampleTx() core.Transaction {
	return core.Transaction{
		Amount:   core.Money{Cents: 1299},
		Category: core.CategoryGroceries,
		Date:     core.NewDate(2026, 8, 10),
	}
}

func TestMemoryStoreCRUD(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	created, err := s.Create(ctx, "alice", sampleTx())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.ID == "" {
		t.Fatal("Create did not assign an ID")
	}
	if created.CreatedAt.IsZero() {
		t.Fatal("Create did not set CreatedAt")
	}

	got, err := s.Get(ctx, "alice", created.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Amount.Cents != 1299 {
		t.Fatalf("Get amount = %d, want 1299", got.Amount.Cents)
	}

	// Editing preserves the ID.
	got.Amount.Cents = 2000
	got.Category = core.CategoryDining
	updated, err := s.Update(ctx, "alice", got)
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.ID != created.ID {
		t.Fatalf("Update changed ID: %s -> %s", created.ID, updated.ID)
	}
	if updated.CreatedAt != created.CreatedAt {
		t.Fatal("Update changed CreatedAt")
	}

	items, err := s.List(ctx, "alice")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(items) != 1 || items[0].Amount.Cents != 2000 {
		t.Fatalf("List = %+v, want single updated item", items)
	}

	if err := s.Delete(ctx, "alice", created.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := s.Get(ctx, "alice", created.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Get after delete = %v, want ErrNotFound", err)
	}
}

func TestMemoryStoreUserIsolation(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	created, _ := s.Create(ctx, "alice", sampleTx())

	if _, err := s.Get(ctx, "bob", created.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("cross-user Get = %v, want ErrNotFound", err)
	}
	items, _ := s.List(ctx, "bob")
	if len(items) != 0 {
		t.Fatalf("cross-user List returned %d items", len(items))
	}
}

func TestMemoryStoreNotFound(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	if _, err := s.Update(ctx, "alice", core.Transaction{ID: "missing"}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Update missing = %v, want ErrNotFound", err)
	}
	if err := s.Delete(ctx, "alice", "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Delete missing = %v, want ErrNotFound", err)
	}
}
