// Package sqlite implements the contact Store on SQLite, with contacts.jsonl
// in the data directory as the source of truth. SQLite is rebuilt from the
// JSONL file on every Attach and serves all reads; each mutation is written
// back to the file according to the configured sync strategy.
package sqlite

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"
	logging "github.com/ipfs/go-log/v2"
	_ "modernc.org/sqlite"

	"github.com/mesh-intelligence/cardfile/pkg/types"
)

var log = logging.Logger("cardfile/store")

// dbFileName is the SQLite file created inside DataDir.
const dbFileName = "cardfile.db"

// Backend implements types.Store using SQLite as the query engine and a
// JSONL file as the source of truth.
type Backend struct {
	mu       sync.RWMutex
	attached bool
	config   types.Config
	db       *sql.DB

	// syncStrategy is the effective strategy: immediate or on_close.
	syncStrategy string
	// dirty is set when the table has writes not yet in JSONL: always under
	// on_close, and under immediate after a failed persist.
	dirty bool
}

var _ types.Store = (*Backend)(nil)

// NewBackend creates a new SQLite backend instance.
// The backend is not attached; call Attach with a Config to initialize.
func NewBackend() *Backend {
	return &Backend{}
}

// Attach initializes the backend with the given configuration.
// Creates DataDir if it does not exist, builds a fresh SQLite schema, and
// loads contacts.jsonl into it.
// Returns ErrAlreadyAttached if already attached.
func (b *Backend) Attach(config types.Config) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.attached {
		return types.ErrAlreadyAttached
	}

	if err := config.Validate(); err != nil {
		return err
	}

	dataDir := config.DataDir
	if dataDir == "" {
		dataDir = "."
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}

	// The database is a cache of the JSONL file; start from a clean schema.
	dbPath := filepath.Join(dataDir, dbFileName)
	_ = os.Remove(dbPath)

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	// One connection keeps every statement on the same SQLite handle.
	db.SetMaxOpenConns(1)

	if err := createSchema(db); err != nil {
		db.Close()
		return fmt.Errorf("create schema: %w", err)
	}

	if err := initJSONLFile(dataDir); err != nil {
		db.Close()
		return err
	}

	n, err := loadContactsJSONL(db, dataDir)
	if err != nil {
		db.Close()
		return fmt.Errorf("load JSONL: %w", err)
	}

	b.db = db
	b.config = config
	b.config.DataDir = dataDir
	b.syncStrategy = config.SyncStrategy()
	b.dirty = false
	b.attached = true

	log.Debugw("store attached", "data_dir", dataDir, "contacts", n, "sync", b.syncStrategy)
	return nil
}

// Detach releases all resources held by the backend.
// For the on_close strategy, pending writes are flushed to JSONL first.
// Detach is idempotent.
func (b *Backend) Detach() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.attached {
		return nil
	}

	if b.dirty {
		if err := b.persistLocked(); err != nil {
			return fmt.Errorf("flush pending writes: %w", err)
		}
	}

	if err := b.db.Close(); err != nil {
		return err
	}
	b.db = nil
	b.attached = false

	log.Debugw("store detached", "data_dir", b.config.DataDir)
	return nil
}

// afterWriteLocked persists the table to JSONL under the immediate
// strategy, or marks the backend dirty under on_close. A failed persist
// also leaves the backend dirty, so the next write or Detach retries it.
// The caller must hold b.mu write lock.
func (b *Backend) afterWriteLocked() error {
	b.dirty = true
	if b.syncStrategy == types.SyncOnClose {
		return nil
	}
	if err := b.persistLocked(); err != nil {
		log.Warnw("persist failed, contacts.jsonl is behind", "data_dir", b.config.DataDir, "error", err)
		return fmt.Errorf("persist contacts: %w", err)
	}
	return nil
}

// persistLocked rewrites contacts.jsonl from the SQLite table.
// The caller must hold b.mu write lock.
func (b *Backend) persistLocked() error {
	records, err := selectRecords(b.db)
	if err != nil {
		return err
	}
	if err := persistContactsJSONL(b.config.DataDir, records); err != nil {
		return err
	}
	b.dirty = false
	return nil
}

// newUUID generates a UUID v7 for contact IDs.
func newUUID() string {
	id, err := uuid.NewV7()
	if err != nil {
		// Fallback to UUID v4 if v7 generation fails
		return uuid.New().String()
	}
	return id.String()
}
