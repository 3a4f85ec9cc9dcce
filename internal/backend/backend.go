// Package backend selects and assembles the persistence stack from
// configuration.
package backend

import (
	"fmt"
	"log/slog"

	"fintwin/internal/config"
	"fintwin/internal/store"
)

// Type represents the kind of persistence backend
type Type string

const (
	SQLiteBackend Type = "sqlite"
	FileBackend   Type = "file"
	MemoryBackend Type = "memory"
)

// String implements fmt.Stringer
func (t Type) String() string {
	return string(t)
}

// IsValid returns true if the backend type is valid
func (t Type) IsValid() bool {
	switch t {
	case SQLiteBackend, FileBackend, MemoryBackend:
		return true
	default:
		return false
	}
}

// CleanupFunc releases resources held by a backend
type CleanupFunc func() error

// Result contains the assembled store and optional cleanup function
type Result struct {
	Store   store.TransactionStore
	Cleanup CleanupFunc
}

// Factory creates persistence backends based on configuration
type Factory struct {
	logger *slog.Logger
}

func NewFactory(logger *slog.Logger) *Factory {
	if logger == nil {
		logger = slog.Default()
	}
	return &Factory{logger: logger}
}

// Create assembles the store stack for the configured backend. The sqlite
// backend is wrapped in a fallback over the local file store, so a broken
// database degrades to local persistence instead of failing requests.
func (f *Factory) Create(cfg *config.Config) (*Result, error) {
	t := Type(cfg.DataBackend)
	if !t.IsValid() {
		return nil, fmt.Errorf("invalid backend type: %s", cfg.DataBackend)
	}

	switch t {
	case SQLiteBackend:
		return f.createSQLite(cfg)
	case FileBackend:
		return f.createFile(cfg)
	case MemoryBackend:
		f.logger.Info("Initialized memory backend")
		return &Result{Store: store.NewMemoryStore()}, nil
	default:
		return nil, fmt.Errorf("unsupported backend type: %s", t)
	}
}

func (f *Factory) createSQLite(cfg *config.Config) (*Result, error) {
	primary, err := store.NewSQLiteStore(cfg.SQLiteDBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize SQLite store: %w", err)
	}

	local, err := store.NewFileStore(cfg.LocalDataDir)
	if err != nil {
		primary.Close()
		return nil, fmt.Errorf("failed to initialize local file store: %w", err)
	}

	f.logger.Info("Initialized SQLite backend with local fallback",
		"db_path", cfg.SQLiteDBPath,
		"local_dir", cfg.LocalDataDir)

	return &Result{
		Store:   store.NewFallbackStore(primary, local),
		Cleanup: primary.Close,
	}, nil
}

func (f *Factory) createFile(cfg *config.Config) (*Result, error) {
	local, err := store.NewFileStore(cfg.LocalDataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize local file store: %w", err)
	}

	f.logger.Info("Initialized file backend", "local_dir", cfg.LocalDataDir)

	return &Result{Store: local}, nil
}
