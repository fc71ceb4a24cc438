// Package sqlite exposes the SQLite contact store to callers outside this
// module while keeping the implementation internal.
package sqlite

import (
	"github.com/mesh-intelligence/cardfile/internal/sqlite"
	"github.com/mesh-intelligence/cardfile/pkg/types"
)

// NewBackend creates a new SQLite contact store.
// The store is not attached; call Attach with a Config to initialize.
//
// Example:
//
//	store := sqlite.NewBackend()
//	err := store.Attach(types.Config{
//	    Backend: types.BackendSQLite,
//	    DataDir: ".cardfile-db",
//	})
//	defer store.Detach()
func NewBackend() types.Store {
	return sqlite.NewBackend()
}

// Open creates a store and attaches it to cfg in one step.
func Open(cfg types.Config) (types.Store, error) {
	store := sqlite.NewBackend()
	if err := store.Attach(cfg); err != nil {
		return nil, err
	}
	return store, nil
}
