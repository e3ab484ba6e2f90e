// Package state holds the committed ledger state of the host and the
// sandboxes in which invocations stage their writes before committing them
// as a single storage batch.
package state

import (
	"context"

	"github.com/LeJamon/goOracle/internal/core/ledger/keylet"
	"github.com/LeJamon/goOracle/internal/storage/database"
	"github.com/pkg/errors"
)

var (
	// ErrEntryNotFound is returned when reading an entry that does not exist.
	ErrEntryNotFound = errors.New("ledger entry not found")

	// ErrEntryExists is returned when inserting an entry that already exists.
	ErrEntryExists = errors.New("ledger entry already exists")
)

// View provides read/write access to ledger state.
type View interface {
	// Read reads a ledger entry. Returns ErrEntryNotFound if absent.
	Read(k keylet.Keylet) ([]byte, error)

	// Exists checks if an entry exists
	Exists(k keylet.Keylet) (bool, error)

	// Insert adds a new entry
	Insert(k keylet.Keylet, data []byte) error

	// Update modifies an existing entry
	Update(k keylet.Keylet, data []byte) error

	// Erase removes an entry
	Erase(k keylet.Keylet) error
}

// Reader is the read side of committed state.
type Reader interface {
	Read(ctx context.Context, k keylet.Keylet) ([]byte, error)
	Exists(ctx context.Context, k keylet.Keylet) (bool, error)
}

// Committer applies a set of storage operations atomically.
type Committer interface {
	Reader
	Apply(ctx context.Context, ops []database.BatchOperation) error
}

// ReadEntry reads and decodes the entry at k into v.
func ReadEntry(v View, k keylet.Keylet, out any) error {
	data, err := v.Read(k)
	if err != nil {
		return err
	}
	return Decode(data, out)
}

// PutEntry encodes e and inserts or updates it at k.
func PutEntry(v View, k keylet.Keylet, e any) error {
	data, err := Encode(e)
	if err != nil {
		return err
	}
	exists, err := v.Exists(k)
	if err != nil {
		return err
	}
	if exists {
		return v.Update(k, data)
	}
	return v.Insert(k, data)
}
