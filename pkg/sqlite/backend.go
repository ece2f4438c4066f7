// Package sqlite provides the public API for the SQLite buffer store.
// This package exposes the factory function for creating SQLite backends
// while keeping implementation details internal.
package sqlite

import (
	"github.com/rs/zerolog"

	"github.com/mesh-intelligence/almanac/internal/sqlite"
	"github.com/mesh-intelligence/almanac/pkg/types"
)

// NewBackend creates a new SQLite buffer store.
// The store is not attached; call Attach with a Config to initialize.
//
// Example:
//
//	store := sqlite.NewBackend(logger)
//	err := store.Attach(types.Config{
//	    Backend: types.BackendSQLite,
//	    DataDir: ".almanac",
//	})
//	defer store.Detach()
func NewBackend(logger zerolog.Logger) types.BufferStore {
	return sqlite.NewBackend(sqlite.WithLogger(logger))
}
