package state

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/LeJamon/goOracle/internal/core/ledger/entry"
	"github.com/LeJamon/goOracle/internal/core/ledger/keylet"
	"github.com/LeJamon/goOracle/internal/storage/database"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// DefaultCacheSize is the number of entries kept in the read cache when
// none is configured.
const DefaultCacheSize = 4096

type cacheKey [keylet.KeySize]byte

func toCacheKey(raw []byte) cacheKey {
	var k cacheKey
	copy(k[:], raw)
	return k
}

// Ledger is the committed state of the host, stored in a database.DB and
// fronted by an LRU read cache. Reads never observe a partially applied
// batch: Apply holds the write lock across the database batch and the
// cache update.
type Ledger struct {
	mu    sync.RWMutex
	db    database.DB
	cache *lru.Cache[cacheKey, []byte]
	log   *zap.Logger

	// Metrics
	hits   atomic.Uint64
	misses atomic.Uint64
}

// NewLedger wraps db. cacheSize <= 0 selects DefaultCacheSize.
func NewLedger(db database.DB, cacheSize int, logger *zap.Logger) (*Ledger, error) {
	if cacheSize <= 0 {
		cacheSize = DefaultCacheSize
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	cache, err := lru.New[cacheKey, []byte](cacheSize)
	if err != nil {
		return nil, errors.Wrap(err, "create ledger cache")
	}

	return &Ledger{
		db:    db,
		cache: cache,
		log:   logger.Named("ledger"),
	}, nil
}

func (l *Ledger) Read(ctx context.Context, k keylet.Keylet) ([]byte, error) {
	raw := k.StorageKey()

	l.mu.RLock()
	defer l.mu.RUnlock()

	if data, ok := l.cache.Get(toCacheKey(raw)); ok {
		l.hits.Add(1)
		return data, nil
	}
	l.misses.Add(1)

	data, err := l.db.Read(ctx, raw)
	if err != nil {
		if errors.Is(err, database.ErrKeyNotFound) {
			return nil, ErrEntryNotFound
		}
		return nil, errors.Wrapf(err, "read %s entry", k.Type)
	}

	l.cache.Add(toCacheKey(raw), data)
	return data, nil
}

func (l *Ledger) Exists(ctx context.Context, k keylet.Keylet) (bool, error) {
	_, err := l.Read(ctx, k)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, ErrEntryNotFound) {
		return false, nil
	}
	return false, err
}

// Apply commits ops as one database batch.
func (l *Ledger) Apply(ctx context.Context, ops []database.BatchOperation) error {
	if len(ops) == 0 {
		return nil
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if err := l.db.Batch(ctx, ops); err != nil {
		return errors.Wrap(err, "commit ledger batch")
	}

	for _, op := range ops {
		switch op.Type {
		case database.BatchPut:
			l.cache.Add(toCacheKey(op.Key), op.Value)
		case database.BatchDelete:
			l.cache.Remove(toCacheKey(op.Key))
		}
	}

	l.log.Debug("applied batch", zap.Int("ops", len(ops)))
	return nil
}

// ForEach calls fn for every committed entry of type t in storage key order.
// Iteration stops early when fn returns false.
func (l *Ledger) ForEach(ctx context.Context, t entry.Type, fn func(k keylet.Keylet, data []byte) bool) error {
	start, end := keylet.TypeRange(t)

	l.mu.RLock()
	defer l.mu.RUnlock()

	it, err := l.db.Iterator(ctx, start, end)
	if err != nil {
		return errors.Wrapf(err, "iterate %s entries", t)
	}
	defer it.Close()

	for it.Next() {
		k, ok := keylet.FromStorageKey(it.Key())
		if !ok {
			continue
		}
		if !fn(k, it.Value()) {
			break
		}
	}
	return it.Error()
}

// CacheStats returns the read cache hit and miss counters.
func (l *Ledger) CacheStats() (hits, misses uint64) {
	return l.hits.Load(), l.misses.Load()
}

// Close closes the underlying database.
func (l *Ledger) Close() error {
	return l.db.Close()
}
