package pebble

import (
	"path/filepath"
	"sync"

	"github.com/LeJamon/goOracle/internal/storage/database"
	"github.com/cockroachdb/pebble"
	"github.com/pkg/errors"
)

// Manager opens named pebble databases below a common directory and keeps
// them open until closed.
type Manager struct {
	dbs  map[string]*DB
	path string
	mu   sync.Mutex
}

func NewManager(path string) *Manager {
	return &Manager{
		dbs:  make(map[string]*DB),
		path: path,
	}
}

func (m *Manager) OpenDB(name string) (database.DB, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if db, exists := m.dbs[name]; exists {
		return db, nil
	}

	dbPath := filepath.Join(m.path, name+".db")
	raw, err := pebble.Open(dbPath, &pebble.Options{})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open database %s", name)
	}

	db := NewDB(raw)
	m.dbs[name] = db
	return db, nil
}

func (m *Manager) CloseDB(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	db, exists := m.dbs[name]
	if !exists {
		return errors.Errorf("database %s not found", name)
	}

	delete(m.dbs, name)
	return db.Close()
}

func (m *Manager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	var lastErr error
	for name, db := range m.dbs {
		if err := db.Close(); err != nil {
			lastErr = errors.Wrapf(err, "failed to close database %s", name)
		}
		delete(m.dbs, name)
	}
	return lastErr
}
