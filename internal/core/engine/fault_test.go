package engine

import (
	"bytes"
	"context"
	"testing"

	"github.com/LeJamon/goOracle/internal/core/access"
	"github.com/LeJamon/goOracle/internal/core/ledger/keylet"
	"github.com/LeJamon/goOracle/internal/core/oracle"
	"github.com/LeJamon/goOracle/internal/core/state"
	"github.com/LeJamon/goOracle/internal/core/types"
	"github.com/LeJamon/goOracle/internal/storage/database"
	"github.com/LeJamon/goOracle/internal/storage/database/memory"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errDiskFault = errors.New("disk fault")

// faultyDB fails reads of one key, or every batch, on demand.
type faultyDB struct {
	database.DB
	failRead  []byte
	failBatch bool
}

func (f *faultyDB) Read(ctx context.Context, key []byte) ([]byte, error) {
	if f.failRead != nil && bytes.Equal(key, f.failRead) {
		return nil, errDiskFault
	}
	return f.DB.Read(ctx, key)
}

func (f *faultyDB) Batch(ctx context.Context, ops []database.BatchOperation) error {
	if f.failBatch {
		return errDiskFault
	}
	return f.DB.Batch(ctx, ops)
}

// reopen returns an engine over a fresh ledger, and so an empty read
// cache, on top of db.
func reopen(t *testing.T, db database.DB) *Engine {
	t.Helper()
	l, err := state.NewLedger(db, 0, nil)
	require.NoError(t, err)
	e := New(l, Config{})
	require.NoError(t, e.Load(context.Background()))
	return e
}

func TestUpdatePriceProofStorageFault(t *testing.T) {
	db := &faultyDB{DB: memory.NewDB()}
	e := reopen(t, db)
	admin := createAccount(t, e)
	comp, badge := instantiate(t, e, admin, 1)
	a, b := pair()

	e = reopen(t, db)
	db.failRead = keylet.Vault(admin.addr, badge).StorageKey()

	_, err := updatePrice(t, e, admin, comp, a, b, dec("1.5"))
	require.ErrorIs(t, err, errDiskFault)
	assert.NotErrorIs(t, err, access.ErrUnauthorized)
	assert.Equal(t, TefINTERNAL, ResultFor(err))

	db.failRead = nil
	_, ok, err := e.GetPrice(context.Background(), comp, a, b)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestUpdatePriceFailedCommitWritesNothing(t *testing.T) {
	db := &faultyDB{DB: memory.NewDB()}
	e := reopen(t, db)
	admin := createAccount(t, e)
	comp, _ := instantiate(t, e, admin, 1)
	a, b := pair()

	var notified int
	e.OnPriceUpdate(func(_ types.ComponentAddress, _ oracle.Update) { notified++ })

	db.failBatch = true
	_, err := updatePrice(t, e, admin, comp, a, b, dec("1.5"))
	require.ErrorIs(t, err, errDiskFault)
	assert.Equal(t, TefINTERNAL, ResultFor(err))
	db.failBatch = false

	for _, p := range [][2]types.ResourceAddress{{a, b}, {b, a}} {
		_, ok, err := e.GetPrice(context.Background(), comp, p[0], p[1])
		require.NoError(t, err)
		assert.False(t, ok, "%s/%s committed without its invocation", p[0], p[1])
	}
	assert.Zero(t, notified)

	info, err := e.Account(context.Background(), admin.addr)
	require.NoError(t, err)
	assert.Equal(t, FirstSequence+1, info.Sequence)

	_, err = updatePrice(t, e, admin, comp, a, b, dec("1.5"))
	require.NoError(t, err)
	assert.Equal(t, 1, notified)
}
