package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"fintwin/internal/core"
)

// FileStore keeps each user's transactions as a single JSON-serialized array
// in <dir>/<user>.json. It mirrors the dashboard's local-storage fallback:
// simple, whole-array reads and writes, no partial updates.
type FileStore struct {
	mu  sync.Mutex
	dir string
}

type fileRecord struct {
	ID          string    `json:"id"`
	AmountCents int64     `json:"amount_cents"`
	Category    string    `json:"category"`
	Date        string    `json:"date"`
	CreatedAt   time.Time `json:"created_at"`
}

func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

func (f *FileStore) Create(_ context.Context, userID string, tx core.Transaction) (core.Transaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	recs, err := f.load(userID)
	if err != nil {
		return core.Transaction{}, err
	}

	tx.ID = uuid.NewString()
	tx.CreatedAt = time.Now().UTC()
	recs = append(recs, toRecord(tx))

	if err := f.save(userID, recs); err != nil {
		return core.Transaction{}, err
	}
	return tx, nil
}

func (f *FileStore) Get(_ context.Context, userID, id string) (core.Transaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	recs, err := f.load(userID)
	if err != nil {
		return core.Transaction{}, err
	}
	for _, r := range recs {
		if r.ID == id {
			return fromRecord(r)
		}
	}
	return core.Transaction{}, ErrNotFound
}

func (f *FileStore) List(_ context.Context, userID string) ([]core.Transaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	recs, err := f.load(userID)
	if err != nil {
		return nil, err
	}
	out := make([]core.Transaction, 0, len(recs))
	for _, r := range recs {
		tx, err := fromRecord(r)
		if err != nil {
			return nil, err
		}
		out = append(out, tx)
	}
	// Newest created first, matching the primary store's ordering.
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out, nil
}

func (f *FileStore) Update(_ context.Context, userID string, tx core.Transaction) (core.Transaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	recs, err := f.load(userID)
	if err != nil {
		return core.Transaction{}, err
	}
	for i, r := range recs {
		if r.ID == tx.ID {
			tx.CreatedAt = r.CreatedAt
			recs[i] = toRecord(tx)
			if err := f.save(userID, recs); err != nil {
				return core.Transaction{}, err
			}
			return tx, nil
		}
	}
	return core.Transaction{}, ErrNotFound
}

func (f *FileStore) Delete(_ context.Context, userID, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	recs, err := f.load(userID)
	if err != nil {
		return err
	}
	for i, r := range recs {
		if r.ID == id {
			recs = append(recs[:i], recs[i+1:]...)
			return f.save(userID, recs)
		}
	}
	return ErrNotFound
}

func (f *FileStore) path(userID string) string {
	return filepath.Join(f.dir, safeFileName(userID)+".json")
}

func (f *FileStore) load(userID string) ([]fileRecord, error) {
	data, err := os.ReadFile(f.path(userID))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read user file: %w", err)
	}
	var recs []fileRecord
	if err := json.Unmarshal(data, &recs); err != nil {
		return nil, fmt.Errorf("decode user file: %w", err)
	}
	return recs, nil
}

func (f *FileStore) save(userID string, recs []fileRecord) error {
	if recs == nil {
		recs = []fileRecord{}
	}
	data, err := json.Marshal(recs)
	if err != nil {
		return fmt.Errorf("encode user file: %w", err)
	}
	tmp := f.path(userID) + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("write user file: %w", err)
	}
	if err := os.Rename(tmp, f.path(userID)); err != nil {
		return fmt.Errorf("replace user file: %w", err)
	}
	return nil
}

// safeFileName keeps user IDs from escaping the data directory.
func safeFileName(userID string) string {
	var b strings.Builder
	for _, r := range userID {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	if b.Len() == 0 {
		return "anonymous"
	}
	return b.String()
}

func toRecord(tx core.Transaction) fileRecord {
	return fileRecord{
		ID:          tx.ID,
		AmountCents: tx.Amount.Cents,
		Category:    string(tx.Category),
		Date:        tx.Date.String(),
		CreatedAt:   tx.CreatedAt,
	}
}

func fromRecord(r fileRecord) (core.Transaction, error) {
	date, err := core.ParseDate(r.Date)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("parse stored date %q: %w", r.Date, err)
	}
	return core.Transaction{
		ID:        r.ID,
		Amount:    core.Money{Cents: r.AmountCents},
		Category:  core.Category(r.Category),
		Date:      date,
		CreatedAt: r.CreatedAt,
	}, nil
}
