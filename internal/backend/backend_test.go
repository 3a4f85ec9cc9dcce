package backend

import (
	"context"
	"path/filepath"
	"testing"

	"fintwin/internal/config"
	"fintwin/internal/core"
)

func TestTypeIsValid(t *testing.T) {
	valid := []Type{SQLiteBackend, FileBackend, MemoryBackend}
	for _, typ := range valid {
		if !typ.IsValid() {
			t.Errorf("%s should be valid", typ)
		}
	}
	for _, typ := range []Type{"", "postgres", "SQLITE"} {
		if typ.IsValid() {
			t.Errorf("%q should be invalid", typ)
		}
	}
}

func TestCreateMemoryBackend(t *testing.T) {
	result, err := NewFactory(nil).Create(&config.Config{DataBackend: "memory"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if result.Store == nil {
		t.Fatal("memory backend returned nil store")
	}
	if result.Cleanup != nil {
		t.Fatal("memory backend should not need cleanup")
	}
}

func TestCreateFileBackend(t *testing.T) {
	result, err := NewFactory(nil).Create(&config.Config{
		DataBackend:  "file",
		LocalDataDir: t.TempDir(),
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	tx, err := result.Store.Create(context.Background(), "alice", core.Transaction{
		Amount:   core.Money{Cents: 100},
		Category: core.CategoryOther,
		Date:     core.NewDate(2026, 8, 1),
	})
	if err != nil {
		t.Fatalf("store Create: %v", err)
	}
	if tx.ID == "" {
		t.Fatal("store did not assign an ID")
	}
}

func TestCreateSQLiteBackendHasCleanup(t *testing.T) {
	dir := t.TempDir()
	result, err := NewFactory(nil).Create(&config.Config{
		DataBackend:  "sqlite",
		SQLiteDBPath: filepath.Join(dir, "db", "fintwin.db"),
		LocalDataDir: filepath.Join(dir, "local"),
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if result.Cleanup == nil {
		t.Fatal("sqlite backend should return a cleanup function")
	}
	if err := result.Cleanup(); err != nil {
		t.Fatalf("Cleanup: %v", err)
	}
}

func TestCreateRejectsUnknownBackend(t *testing.T) {
	if _, err := NewFactory(nil).Create(&config.Config{DataBackend: "cassandra"}); err == nil {
		t.Fatal("expected error for unknown backend type")
	}
}
