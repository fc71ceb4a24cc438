package cli

import (
	"errors"
	"io"
	"os"
	"strconv"

	"github.com/mattn/go-isatty"

	"github.com/mesh-intelligence/cardfile/pkg/sqlite"
	"github.com/mesh-intelligence/cardfile/pkg/types"
)

// withStore attaches the configured store, runs fn, and detaches. A
// detach failure is reported only when fn succeeded.
func (a *app) withStore(fn func(store types.Store) error) (err error) {
	cfg, err := a.storeConfig()
	if err != nil {
		return sysError("%w", err)
	}

	store, err := sqlite.Open(cfg)
	if err != nil {
		if errors.Is(err, types.ErrBackendEmpty) ||
			errors.Is(err, types.ErrBackendUnknown) ||
			errors.Is(err, types.ErrSyncStrategyUnknown) {
			return userError("invalid configuration: %w", err)
		}
		return sysError("attach store: %w", err)
	}
	defer func() {
		if derr := store.Detach(); derr != nil && err == nil {
			err = sysError("detach store: %w", derr)
		}
	}()

	return fn(store)
}

// parseIndex parses a contact index argument.
func parseIndex(arg string) (int, error) {
	index, err := strconv.Atoi(arg)
	if err != nil || index < 0 {
		return 0, userError("invalid index %q", arg)
	}
	return index, nil
}

// lookupError converts a store error for the contact at index.
func lookupError(index int, err error) error {
	if errors.Is(err, types.ErrNotFound) {
		return userError("contact %d: %w", index, types.ErrNotFound)
	}
	return sysError("contact %d: %w", index, err)
}

// isTerminal reports whether w is an interactive terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
