package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"fintwin/internal/core"
)

func TestFileStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	s, err := NewFileStore(dir)
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}

	created, err := s.Create(ctx, "alice", sampleTx())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	// A second store instance over the same directory sees the data.
	s2, err := NewFileStore(dir)
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	got, err := s2.Get(ctx, "alice", created.ID)
	if err != nil {
		t.Fatalf("Get from second instance: %v", err)
	}
	if got.Category != core.CategoryGroceries {
		t.Fatalf("category = %s, want groceries", got.Category)
	}
}

func TestFileStoreUpdatePreservesID(t *testing.T) {
	ctx := context.Background()
	s, _ := NewFileStore(t.TempDir())

	created, _ := s.Create(ctx, "alice", sampleTx())
	created.Amount.Cents = 777
	updated, err := s.Update(ctx, "alice", created)
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.ID != created.ID {
		t.Fatalf("Update changed ID: %s -> %s", created.ID, updated.ID)
	}

	got, _ := s.Get(ctx, "alice", created.ID)
	if got.Amount.Cents != 777 {
		t.Fatalf("amount after update = %d, want 777", got.Amount.Cents)
	}
}

func TestFileStoreDelete(t *testing.T) {
	ctx := context.Background()
	s, _ := NewFileStore(t.TempDir())

	created, _ := s.Create(ctx, "alice", sampleTx())
	if err := s.Delete(ctx, "alice", created.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := s.Get(ctx, "alice", created.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Get after delete = %v, want ErrNotFound", err)
	}
}

func TestFileStoreSanitizesUserFileNames(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	s, _ := NewFileStore(dir)

	if _, err := s.Create(ctx, "../evil/user", sampleTx()); err != nil {
		t.Fatalf("Create: %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	for _, e := range entries {
		if filepath.Ext(e.Name()) == ".json" && e.Name() != safeFileName("../evil/user")+".json" {
			t.Fatalf("unexpected file %q", e.Name())
		}
	}
	// Nothing escaped the directory.
	if _, err := os.Stat(filepath.Join(dir, "..", "evil")); !errors.Is(err, os.ErrNotExist) {
		t.Fatal("user ID escaped the data directory")
	}
}
