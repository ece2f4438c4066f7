// Package sqlite implements the SQLite buffer store. buffers.jsonl in the
// data directory is the source of truth; SQLite is the query engine and is
// rebuilt from the JSONL file on every attach.
package sqlite

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	_ "modernc.org/sqlite"

	"github.com/mesh-intelligence/almanac/internal/codec"
	"github.com/mesh-intelligence/almanac/pkg/types"
)

// dbFile is the SQLite database inside DataDir.
const dbFile = "almanac.db"

// Backend implements types.BufferStore.
type Backend struct {
	mu          sync.RWMutex
	attached    bool
	config      types.Config
	dataDir     string
	compression codec.Compression
	db          *sql.DB

	seed   func() ([]types.BufferRecord, error)
	logger zerolog.Logger
}

// Option configures a Backend.
type Option func(*Backend)

// WithLogger sets the logger. The default discards everything.
func WithLogger(logger zerolog.Logger) Option {
	return func(b *Backend) {
		b.logger = logger.With().Str("component", "sqlite").Logger()
	}
}

// WithSeed sets the records stored on attach when the store is empty.
func WithSeed(records func() ([]types.BufferRecord, error)) Option {
	return func(b *Backend) { b.seed = records }
}

// NewBackend creates a new SQLite backend instance.
// The backend is not attached; call Attach with a Config to initialize.
func NewBackend(opts ...Option) *Backend {
	b := &Backend{logger: zerolog.Nop()}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Attach opens the store in config.DataDir, creating the directory and an
// empty buffers.jsonl if needed, and loads the JSONL file into a fresh
// database. Returns ErrAlreadyAttached if already attached.
func (b *Backend) Attach(config types.Config) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.attached {
		return types.ErrAlreadyAttached
	}
	if err := config.Validate(); err != nil {
		return err
	}
	compression, err := codec.ParseCompression(config.Compression)
	if err != nil {
		return err
	}

	dataDir := config.DataDir
	if dataDir == "" {
		dataDir = "."
	}
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return err
	}
	if err := initJSONL(dataDir); err != nil {
		return fmt.Errorf("init JSONL: %w", err)
	}

	// The database is a cache of the JSONL file; start from scratch.
	dbPath := filepath.Join(dataDir, dbFile)
	_ = os.Remove(dbPath)

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return err
	}
	for _, ddl := range schemaDDL {
		if _, err := db.Exec(ddl); err != nil {
			db.Close()
			return fmt.Errorf("creating schema: %w", err)
		}
	}

	loaded, err := loadJSONL(db, dataDir, b.logger)
	if err != nil {
		db.Close()
		return fmt.Errorf("load JSONL: %w", err)
	}

	b.db = db
	b.config = config
	b.dataDir = dataDir
	b.compression = compression

	if loaded == 0 && b.seed != nil {
		if err := b.seedLocked(); err != nil {
			db.Close()
			b.db = nil
			return fmt.Errorf("seeding: %w", err)
		}
	}

	b.attached = true
	b.logger.Debug().Str("data_dir", dataDir).Int("buffers", loaded).Msg("attached")
	return nil
}

// Detach closes the database. Detach is idempotent.
func (b *Backend) Detach() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.attached {
		return nil
	}
	b.attached = false
	if b.db != nil {
		err := b.db.Close()
		b.db = nil
		if err != nil {
			return err
		}
	}
	b.logger.Debug().Msg("detached")
	return nil
}

// generateUUID generates a new UUID v7 for buffer IDs.
func generateUUID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.New().String()
	}
	return id.String()
}
