// Package dbtest holds behaviour tests shared by every database.DB backend.
package dbtest

import (
	"context"
	"testing"

	"github.com/LeJamon/goOracle/internal/storage/database"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Run exercises a backend produced by newDB. Every subtest gets a fresh database.
func Run(t *testing.T, newDB func(t *testing.T) database.DB) {
	t.Run("ReadWriteDelete", func(t *testing.T) {
		db := newDB(t)
		ctx := context.Background()

		_, err := db.Read(ctx, []byte("missing"))
		require.True(t, errors.Is(err, database.ErrKeyNotFound))

		require.NoError(t, db.Write(ctx, []byte("k"), []byte("v1")))
		got, err := db.Read(ctx, []byte("k"))
		require.NoError(t, err)
		assert.Equal(t, []byte("v1"), got)

		require.NoError(t, db.Write(ctx, []byte("k"), []byte("v2")))
		got, err = db.Read(ctx, []byte("k"))
		require.NoError(t, err)
		assert.Equal(t, []byte("v2"), got)

		require.NoError(t, db.Delete(ctx, []byte("k")))
		_, err = db.Read(ctx, []byte("k"))
		require.True(t, errors.Is(err, database.ErrKeyNotFound))
	})

	t.Run("Batch", func(t *testing.T) {
		db := newDB(t)
		ctx := context.Background()

		require.NoError(t, db.Write(ctx, []byte("gone"), []byte("x")))
		err := db.Batch(ctx, []database.BatchOperation{
			database.Put([]byte("a"), []byte("1")),
			database.Put([]byte("b"), []byte("2")),
			database.Del([]byte("gone")),
		})
		require.NoError(t, err)

		a, err := db.Read(ctx, []byte("a"))
		require.NoError(t, err)
		assert.Equal(t, []byte("1"), a)
		b, err := db.Read(ctx, []byte("b"))
		require.NoError(t, err)
		assert.Equal(t, []byte("2"), b)
		_, err = db.Read(ctx, []byte("gone"))
		require.True(t, errors.Is(err, database.ErrKeyNotFound))
	})

	t.Run("BatchRejectsUnknownOp", func(t *testing.T) {
		db := newDB(t)
		ctx := context.Background()

		err := db.Batch(ctx, []database.BatchOperation{
			database.Put([]byte("a"), []byte("1")),
			{Type: database.BatchOpType(42), Key: []byte("b")},
		})
		require.True(t, errors.Is(err, database.ErrUnknownBatchOp))

		_, err = db.Read(ctx, []byte("a"))
		require.True(t, errors.Is(err, database.ErrKeyNotFound), "partial batch must not be visible")
	})

	t.Run("IteratorRange", func(t *testing.T) {
		db := newDB(t)
		ctx := context.Background()

		for _, k := range []string{"a1", "b1", "b2", "b3", "c1"} {
			require.NoError(t, db.Write(ctx, []byte(k), []byte("v-"+k)))
		}

		it, err := db.Iterator(ctx, []byte("b"), []byte("c"))
		require.NoError(t, err)
		defer it.Close()

		var keys []string
		for it.Next() {
			keys = append(keys, string(it.Key()))
			assert.Equal(t, "v-"+string(it.Key()), string(it.Value()))
		}
		require.NoError(t, it.Error())
		assert.Equal(t, []string{"b1", "b2", "b3"}, keys)
	})

	t.Run("Closed", func(t *testing.T) {
		db := newDB(t)
		ctx := context.Background()

		require.NoError(t, db.Close())
		_, err := db.Read(ctx, []byte("k"))
		require.True(t, errors.Is(err, database.ErrDBClosed))
		require.True(t, errors.Is(db.Write(ctx, []byte("k"), nil), database.ErrDBClosed))
	})
}
