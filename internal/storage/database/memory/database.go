// Package memory provides an in-memory database.DB used by standalone nodes
// and tests.
package memory

import (
	"bytes"
	"context"
	"sort"
	"sync"

	"github.com/LeJamon/goOracle/internal/storage/database"
	"github.com/pkg/errors"
)

type DB struct {
	mu     sync.RWMutex
	data   map[string][]byte
	closed bool
}

func NewDB() *DB {
	return &DB{data: make(map[string][]byte)}
}

func (m *DB) Read(ctx context.Context, key []byte) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.closed {
		return nil, database.ErrDBClosed
	}
	value, ok := m.data[string(key)]
	if !ok {
		return nil, database.ErrKeyNotFound
	}
	return bytes.Clone(value), nil
}

func (m *DB) Write(ctx context.Context, key, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return database.ErrDBClosed
	}
	m.data[string(key)] = bytes.Clone(value)
	return nil
}

func (m *DB) Delete(ctx context.Context, key []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return database.ErrDBClosed
	}
	delete(m.data, string(key))
	return nil
}

func (m *DB) Batch(ctx context.Context, ops []database.BatchOperation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return database.ErrDBClosed
	}

	// Validate first so a bad operation leaves the map untouched.
	for _, op := range ops {
		if op.Type != database.BatchPut && op.Type != database.BatchDelete {
			return errors.Wrapf(database.ErrUnknownBatchOp, "%d", op.Type)
		}
	}
	for _, op := range ops {
		switch op.Type {
		case database.BatchPut:
			m.data[string(op.Key)] = bytes.Clone(op.Value)
		case database.BatchDelete:
			delete(m.data, string(op.Key))
		}
	}
	return nil
}

func (m *DB) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return database.ErrDBClosed
	}
	m.closed = true
	return nil
}

// Len returns the number of stored keys.
func (m *DB) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.data)
}

type Iterator struct {
	keys     [][]byte
	values   [][]byte
	position int
}

// Iterator returns a snapshot iterator over [start, end) in key order.
func (m *DB) Iterator(ctx context.Context, start, end []byte) (database.Iterator, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.closed {
		return nil, database.ErrDBClosed
	}

	keys := make([][]byte, 0, len(m.data))
	for k := range m.data {
		key := []byte(k)
		if start != nil && bytes.Compare(key, start) < 0 {
			continue
		}
		if end != nil && bytes.Compare(key, end) >= 0 {
			continue
		}
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool { return bytes.Compare(keys[i], keys[j]) < 0 })

	values := make([][]byte, len(keys))
	for i, k := range keys {
		values[i] = bytes.Clone(m.data[string(k)])
	}

	return &Iterator{keys: keys, values: values, position: -1}, nil
}

func (it *Iterator) Next() bool {
	it.position++
	return it.position < len(it.keys)
}

func (it *Iterator) Key() []byte   { return it.keys[it.position] }
func (it *Iterator) Value() []byte { return it.values[it.position] }
func (it *Iterator) Error() error  { return nil }
func (it *Iterator) Close() error  { return nil }
