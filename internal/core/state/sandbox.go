package state

import (
	"bytes"
	"context"
	"encoding/hex"
	"encoding/json"
	"sort"
	"strings"

	"github.com/LeJamon/goOracle/internal/core/ledger/entry"
	"github.com/LeJamon/goOracle/internal/core/ledger/keylet"
	"github.com/LeJamon/goOracle/internal/storage/database"
	"github.com/pkg/errors"
)

// Action represents the type of modification to a ledger entry
type Action int

const (
	// ActionCache means the entry was read but not modified
	ActionCache Action = iota
	// ActionInsert means a new entry was created
	ActionInsert
	// ActionModify means an existing entry was modified
	ActionModify
	// ActionErase means an entry was deleted
	ActionErase
)

func (a Action) String() string {
	switch a {
	case ActionCache:
		return "cached"
	case ActionInsert:
		return "created"
	case ActionModify:
		return "modified"
	case ActionErase:
		return "deleted"
	default:
		return "unknown"
	}
}

// TrackedEntry is a ledger entry touched by a sandbox.
type TrackedEntry struct {
	Keylet   keylet.Keylet
	Action   Action
	Original []byte // nil for inserts
	Current  []byte // nil after erase
}

// AffectedNode describes one committed change.
type AffectedNode struct {
	Action Action
	Type   entry.Type
	Key    [32]byte
}

// MarshalJSON renders the node the way transaction metadata lists it,
// wrapped in CreatedNode, ModifiedNode or DeletedNode.
func (n AffectedNode) MarshalJSON() ([]byte, error) {
	var wrapper string
	switch n.Action {
	case ActionInsert:
		wrapper = "CreatedNode"
	case ActionModify:
		wrapper = "ModifiedNode"
	case ActionErase:
		wrapper = "DeletedNode"
	default:
		return nil, errors.Errorf("affected node with action %s", n.Action)
	}
	return json.Marshal(map[string]any{
		wrapper: map[string]string{
			"LedgerEntryType": n.Type.String(),
			"LedgerIndex":     strings.ToUpper(hex.EncodeToString(n.Key[:])),
		},
	})
}

// Metadata lists the entries changed by a committed sandbox.
type Metadata struct {
	AffectedNodes []AffectedNode `json:"AffectedNodes"`
}

// Created returns the keys of entries of type t created by the sandbox.
func (m *Metadata) Created(t entry.Type) [][32]byte {
	if m == nil {
		return nil
	}
	var out [][32]byte
	for _, n := range m.AffectedNodes {
		if n.Action == ActionInsert && n.Type == t {
			out = append(out, n.Key)
		}
	}
	return out
}

// Sandbox stages reads and writes over committed state. Nothing reaches
// storage until Apply, which commits every change as one batch; dropping
// a sandbox discards its changes.
type Sandbox struct {
	ctx     context.Context
	base    Committer
	items   map[[keylet.KeySize]byte]*TrackedEntry
	applied bool
}

// NewSandbox creates a sandbox over base. ctx bounds every storage access
// made through it.
func NewSandbox(ctx context.Context, base Committer) *Sandbox {
	return &Sandbox{
		ctx:   ctx,
		base:  base,
		items: make(map[[keylet.KeySize]byte]*TrackedEntry),
	}
}

func trackKey(k keylet.Keylet) [keylet.KeySize]byte {
	var out [keylet.KeySize]byte
	copy(out[:], k.StorageKey())
	return out
}

// Read reads a ledger entry, tracking it as cached
func (s *Sandbox) Read(k keylet.Keylet) ([]byte, error) {
	if e, ok := s.items[trackKey(k)]; ok {
		if e.Action == ActionErase {
			return nil, ErrEntryNotFound
		}
		return e.Current, nil
	}

	data, err := s.base.Read(s.ctx, k)
	if err != nil {
		return nil, err
	}

	s.items[trackKey(k)] = &TrackedEntry{
		Keylet:   k,
		Action:   ActionCache,
		Original: data,
		Current:  data,
	}
	return data, nil
}

func (s *Sandbox) Exists(k keylet.Keylet) (bool, error) {
	if e, ok := s.items[trackKey(k)]; ok {
		return e.Action != ActionErase, nil
	}
	return s.base.Exists(s.ctx, k)
}

func (s *Sandbox) Insert(k keylet.Keylet, data []byte) error {
	tk := trackKey(k)
	if e, ok := s.items[tk]; ok {
		if e.Action != ActionErase {
			return errors.Wrapf(ErrEntryExists, "insert %s", k.Type)
		}
		// Re-inserting an erased entry becomes a modify
		e.Action = ActionModify
		e.Current = data
		return nil
	}

	exists, err := s.base.Exists(s.ctx, k)
	if err != nil {
		return err
	}
	if exists {
		return errors.Wrapf(ErrEntryExists, "insert %s", k.Type)
	}

	s.items[tk] = &TrackedEntry{
		Keylet:  k,
		Action:  ActionInsert,
		Current: data,
	}
	return nil
}

func (s *Sandbox) Update(k keylet.Keylet, data []byte) error {
	tk := trackKey(k)
	if e, ok := s.items[tk]; ok {
		if e.Action == ActionErase {
			return errors.Wrapf(ErrEntryNotFound, "update %s", k.Type)
		}
		if e.Action == ActionCache {
			e.Action = ActionModify
		}
		e.Current = data
		return nil
	}

	original, err := s.base.Read(s.ctx, k)
	if err != nil {
		return errors.Wrapf(err, "update %s", k.Type)
	}

	s.items[tk] = &TrackedEntry{
		Keylet:   k,
		Action:   ActionModify,
		Original: original,
		Current:  data,
	}
	return nil
}

func (s *Sandbox) Erase(k keylet.Keylet) error {
	tk := trackKey(k)
	if e, ok := s.items[tk]; ok {
		switch e.Action {
		case ActionErase:
			return errors.Wrapf(ErrEntryNotFound, "erase %s", k.Type)
		case ActionInsert:
			// Never reached storage
			delete(s.items, tk)
			return nil
		}
		e.Action = ActionErase
		e.Current = nil
		return nil
	}

	original, err := s.base.Read(s.ctx, k)
	if err != nil {
		return errors.Wrapf(err, "erase %s", k.Type)
	}

	s.items[tk] = &TrackedEntry{
		Keylet:   k,
		Action:   ActionErase,
		Original: original,
	}
	return nil
}

// Apply commits all staged changes to the base as a single batch and
// returns the generated metadata. A sandbox can be applied once.
func (s *Sandbox) Apply() (*Metadata, error) {
	if s.applied {
		return nil, errors.New("sandbox already applied")
	}

	keys := make([][keylet.KeySize]byte, 0, len(s.items))
	for k := range s.items {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		return bytes.Compare(keys[i][:], keys[j][:]) < 0
	})

	metadata := &Metadata{AffectedNodes: make([]AffectedNode, 0, len(keys))}
	ops := make([]database.BatchOperation, 0, len(keys))

	for _, k := range keys {
		e := s.items[k]
		switch e.Action {
		case ActionCache:
			continue
		case ActionInsert:
			ops = append(ops, database.Put(k[:], e.Current))
		case ActionModify:
			if bytes.Equal(e.Original, e.Current) {
				continue
			}
			ops = append(ops, database.Put(k[:], e.Current))
		case ActionErase:
			ops = append(ops, database.Del(k[:]))
		}
		metadata.AffectedNodes = append(metadata.AffectedNodes, AffectedNode{
			Action: e.Action,
			Type:   e.Keylet.Type,
			Key:    e.Keylet.Key,
		})
	}

	if err := s.base.Apply(s.ctx, ops); err != nil {
		return nil, err
	}
	s.applied = true
	return metadata, nil
}
