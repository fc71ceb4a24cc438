package types

import "errors"

// Store holds the current contact sequence for the HTTP and CLI layers.
// Callers attach to a backend, read and mutate contacts by position, and
// detach when done. Every method is safe for concurrent use; mutations are
// serialized by the implementation.
//
// A mutation that returns an error after the change was applied still leaves
// the change in the store. Implementations retry the failed persistence on the
// next mutation or on Detach.
type Store interface {
	// Attach connects the Store to the backend described by config.
	// Creates the DataDir if it does not exist. Returns ErrAlreadyAttached
	// if called while already attached.
	Attach(config Config) error

	// Detach releases backend resources. Idempotent: multiple calls succeed.
	// After Detach, every other method returns ErrStoreDetached.
	Detach() error

	// Contacts returns the full sequence in order.
	Contacts() (Sequence, error)

	// Get returns the contact at index.
	// Returns ErrNotFound if index is out of range.
	Get(index int) (Contact, error)

	// Append adds a contact at the end and returns its index.
	Append(c Contact) (int, error)

	// Replace overwrites the contact at index.
	// Returns ErrNotFound if index is out of range.
	Replace(index int, c Contact) error

	// Delete removes the contact at index; later contacts shift down.
	// Returns ErrNotFound if index is out of range.
	Delete(index int) error

	// ReplaceAll discards the current sequence and stores seq instead.
	ReplaceAll(seq Sequence) error

	// Search returns the entries matching query (see Sequence.Search).
	Search(query string) ([]Entry, error)
}

// Store lifecycle and lookup errors.
var (
	ErrStoreDetached   = errors.New("store is detached")
	ErrAlreadyAttached = errors.New("store is already attached")
	ErrNotFound        = errors.New("contact not found")
	ErrIndexOutOfRange = errors.New("index out of range")
	ErrNoFile          = errors.New("no file selected")
)
