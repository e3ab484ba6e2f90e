package state

import (
	"context"
	"testing"

	"github.com/LeJamon/goOracle/internal/core/ledger/entry"
	"github.com/LeJamon/goOracle/internal/core/ledger/keylet"
	"github.com/LeJamon/goOracle/internal/core/types"
	"github.com/LeJamon/goOracle/internal/storage/database"
	"github.com/LeJamon/goOracle/internal/storage/database/memory"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Name  string `codec:"name"`
	Count uint64 `codec:"count"`
}

func newLedger(t *testing.T) (*Ledger, *memory.DB) {
	t.Helper()
	db := memory.NewDB()
	l, err := NewLedger(db, 16, nil)
	require.NoError(t, err)
	return l, db
}

func accountKeylet(seed string) keylet.Keylet {
	return keylet.Account(types.NewAccountAddress([]byte(seed)))
}

// failingDB rejects every batch.
type failingDB struct {
	database.DB
}

func (failingDB) Batch(context.Context, []database.BatchOperation) error {
	return errors.New("disk full")
}

func TestCodecRoundTrip(t *testing.T) {
	data, err := Encode(sample{Name: "badge", Count: 3})
	require.NoError(t, err)

	var got sample
	require.NoError(t, Decode(data, &got))
	assert.Equal(t, sample{Name: "badge", Count: 3}, got)

	assert.Error(t, Decode([]byte{0xc1}, &got))
}

func TestSandboxIsolation(t *testing.T) {
	ctx := context.Background()
	l, db := newLedger(t)
	k := accountKeylet("alice")

	sb := NewSandbox(ctx, l)
	require.NoError(t, sb.Insert(k, []byte("v1")))

	ok, err := sb.Exists(k)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = l.Exists(ctx, k)
	require.NoError(t, err)
	assert.False(t, ok, "staged insert must not be visible before Apply")
	assert.Equal(t, 0, db.Len())

	meta, err := sb.Apply()
	require.NoError(t, err)
	require.Len(t, meta.AffectedNodes, 1)
	assert.Equal(t, ActionInsert, meta.AffectedNodes[0].Action)
	assert.Equal(t, [][32]byte{k.Key}, meta.Created(entry.TypeAccountRoot))

	data, err := l.Read(ctx, k)
	require.NoError(t, err)
	assert.Equal(t, []byte("v1"), data)

	_, err = sb.Apply()
	assert.Error(t, err)
}

func TestSandboxActions(t *testing.T) {
	ctx := context.Background()
	l, _ := newLedger(t)
	a := accountKeylet("a")
	b := accountKeylet("b")

	seed := NewSandbox(ctx, l)
	require.NoError(t, seed.Insert(a, []byte("a0")))
	_, err := seed.Apply()
	require.NoError(t, err)

	sb := NewSandbox(ctx, l)
	assert.ErrorIs(t, sb.Insert(a, []byte("dup")), ErrEntryExists)
	assert.ErrorIs(t, sb.Update(b, []byte("b")), ErrEntryNotFound)

	require.NoError(t, sb.Update(a, []byte("a1")))
	data, err := sb.Read(a)
	require.NoError(t, err)
	assert.Equal(t, []byte("a1"), data)

	// Insert then erase never reaches storage
	require.NoError(t, sb.Insert(b, []byte("b")))
	require.NoError(t, sb.Erase(b))
	_, err = sb.Read(b)
	assert.ErrorIs(t, err, ErrEntryNotFound)

	meta, err := sb.Apply()
	require.NoError(t, err)
	require.Len(t, meta.AffectedNodes, 1)
	assert.Equal(t, ActionModify, meta.AffectedNodes[0].Action)

	sb = NewSandbox(ctx, l)
	require.NoError(t, sb.Erase(a))
	assert.ErrorIs(t, sb.Erase(a), ErrEntryNotFound)
	require.NoError(t, sb.Insert(a, []byte("a2")))
	_, err = sb.Apply()
	require.NoError(t, err)

	data, err = l.Read(ctx, a)
	require.NoError(t, err)
	assert.Equal(t, []byte("a2"), data)
}

func TestSandboxFailedApplyLeavesNothing(t *testing.T) {
	ctx := context.Background()
	l, err := NewLedger(failingDB{DB: memory.NewDB()}, 0, nil)
	require.NoError(t, err)

	k := accountKeylet("alice")
	sb := NewSandbox(ctx, l)
	require.NoError(t, sb.Insert(k, []byte("v")))
	_, err = sb.Apply()
	require.Error(t, err)

	ok, err := l.Exists(ctx, k)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestLedgerCacheAndForEach(t *testing.T) {
	ctx := context.Background()
	l, _ := newLedger(t)

	sb := NewSandbox(ctx, l)
	for _, name := range []string{"a", "b", "c"} {
		require.NoError(t, PutEntry(sb, accountKeylet(name), sample{Name: name}))
	}
	res := keylet.Resource(types.NewResourceAddress([]byte("xrd")))
	require.NoError(t, PutEntry(sb, res, sample{Name: "xrd"}))
	_, err := sb.Apply()
	require.NoError(t, err)

	var got sample
	require.NoError(t, ReadEntry(NewSandbox(ctx, l), accountKeylet("b"), &got))
	assert.Equal(t, "b", got.Name)

	hits, _ := l.CacheStats()
	assert.Equal(t, uint64(1), hits)

	var names []string
	err = l.ForEach(ctx, entry.TypeAccountRoot, func(k keylet.Keylet, data []byte) bool {
		var s sample
		require.NoError(t, Decode(data, &s))
		assert.Equal(t, entry.TypeAccountRoot, k.Type)
		names = append(names, s.Name)
		return true
	})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"a", "b", "c"}, names)
}
