package keylet

import (
	"bytes"
	"testing"

	"github.com/LeJamon/goOracle/internal/core/ledger/entry"
	"github.com/LeJamon/goOracle/internal/core/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPriceKeyletIsOrdered(t *testing.T) {
	component := types.NewComponentAddress([]byte("oracle"))
	xrd := types.NewResourceAddress([]byte("xrd"))
	usd := types.NewResourceAddress([]byte("usd"))

	forward := Price(component, xrd, usd)
	inverse := Price(component, usd, xrd)

	assert.Equal(t, entry.TypePrice, forward.Type)
	assert.NotEqual(t, forward.Key, inverse.Key)
	assert.Equal(t, forward, Price(component, xrd, usd))

	other := types.NewComponentAddress([]byte("other oracle"))
	assert.NotEqual(t, forward.Key, Price(other, xrd, usd).Key)
}

func TestStorageKey(t *testing.T) {
	k := Resource(types.NewResourceAddress([]byte("badge")))
	raw := k.StorageKey()
	require.Len(t, raw, KeySize)

	back, ok := FromStorageKey(raw)
	require.True(t, ok)
	require.Equal(t, k, back)

	_, ok = FromStorageKey(raw[:10])
	require.False(t, ok)
}

func TestTypeRangeBoundsEntries(t *testing.T) {
	start, end := TypeRange(entry.TypeVault)

	vault := Vault(types.NewAccountAddress([]byte("a")), types.NewResourceAddress([]byte("r"))).StorageKey()
	price := Price(types.NewComponentAddress([]byte("c")), types.ResourceAddress{}, types.ResourceAddress{}).StorageKey()

	assert.True(t, bytes.Compare(vault, start) >= 0 && bytes.Compare(vault, end) < 0)
	assert.False(t, bytes.Compare(price, start) >= 0 && bytes.Compare(price, end) < 0)
}
