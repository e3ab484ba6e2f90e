package resource

import (
	"context"
	"fmt"
	"testing"

	"github.com/LeJamon/goOracle/internal/core/state"
	"github.com/LeJamon/goOracle/internal/core/types"
	"github.com/LeJamon/goOracle/internal/storage/database/memory"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testRuntime struct {
	sb   *state.Sandbox
	seed int
}

func (r *testRuntime) View() state.View { return r.sb }

func (r *testRuntime) NewSeed() []byte {
	r.seed++
	return []byte(fmt.Sprintf("seed-%d", r.seed))
}

func newRuntime(t *testing.T) *testRuntime {
	t.Helper()
	l, err := state.NewLedger(memory.NewDB(), 0, nil)
	require.NoError(t, err)
	return &testRuntime{sb: state.NewSandbox(context.Background(), l)}
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestMintInitialSupply(t *testing.T) {
	rt := newRuntime(t)

	b, err := NewFungible().
		Divisibility(0).
		Metadata("name", "Oracle Admin Badge").
		MintInitialSupply(rt, decimal.NewFromInt(3))
	require.NoError(t, err)
	assert.True(t, b.Amount().Equal(decimal.NewFromInt(3)))

	def, err := Get(rt.View(), b.Resource())
	require.NoError(t, err)
	assert.Equal(t, uint8(0), def.Divisibility)
	assert.Equal(t, "Oracle Admin Badge", def.Name())
	assert.True(t, def.TotalSupply.Equal(decimal.NewFromInt(3)))
	assert.Equal(t, []string{"name"}, def.MetadataKeys())

	other, err := NewFungible().MintInitialSupply(rt, decimal.NewFromInt(1))
	require.NoError(t, err)
	assert.NotEqual(t, b.Resource(), other.Resource())
}

func TestMintRejects(t *testing.T) {
	tests := []struct {
		name    string
		builder *FungibleBuilder
		supply  decimal.Decimal
		err     error
	}{
		{"zero supply", NewFungible(), decimal.Zero, ErrInvalidAmount},
		{"negative supply", NewFungible(), decimal.NewFromInt(-1), ErrInvalidAmount},
		{"fraction of indivisible", NewFungible().Divisibility(0), dec("1.5"), ErrInvalidAmount},
		{"divisibility too high", NewFungible().Divisibility(19), decimal.NewFromInt(1), ErrInvalidDivisibility},
		{"empty metadata key", NewFungible().Metadata("", "x"), decimal.NewFromInt(1), ErrMetadataKeyMalformed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rt := newRuntime(t)
			_, err := tt.builder.MintInitialSupply(rt, tt.supply)
			assert.ErrorIs(t, err, tt.err)
		})
	}
}

func TestBucketTakePut(t *testing.T) {
	rt := newRuntime(t)
	b, err := NewFungible().MintInitialSupply(rt, dec("10"))
	require.NoError(t, err)

	part, err := b.Take(dec("2.5"))
	require.NoError(t, err)
	assert.True(t, b.Amount().Equal(dec("7.5")))

	_, err = b.Take(dec("100"))
	assert.ErrorIs(t, err, ErrInsufficientBalance)

	require.NoError(t, b.Put(&part))
	assert.True(t, part.IsEmpty())
	assert.True(t, b.Amount().Equal(dec("10")))

	foreign, err := NewFungible().MintInitialSupply(rt, dec("1"))
	require.NoError(t, err)
	assert.ErrorIs(t, b.Put(&foreign), ErrResourceMismatch)
}

func TestVaultAndProofs(t *testing.T) {
	rt := newRuntime(t)
	alice := types.NewAccountAddress([]byte("alice"))
	bob := types.NewAccountAddress([]byte("bob"))

	b, err := NewFungible().Divisibility(0).MintInitialSupply(rt, decimal.NewFromInt(2))
	require.NoError(t, err)
	res := b.Resource()

	require.NoError(t, Deposit(rt.View(), alice, &b))
	assert.True(t, b.IsEmpty())

	bal, err := Balance(rt.View(), alice, res)
	require.NoError(t, err)
	assert.True(t, bal.Equal(decimal.NewFromInt(2)))

	bal, err = Balance(rt.View(), bob, res)
	require.NoError(t, err)
	assert.True(t, bal.IsZero())

	proof, err := CreateProofByAmount(rt.View(), alice, res, decimal.NewFromInt(1))
	require.NoError(t, err)
	assert.True(t, proof.Covers(res))
	assert.True(t, proof.Amount().Equal(decimal.NewFromInt(1)))
	assert.False(t, proof.Covers(types.NewResourceAddress([]byte("other"))))

	_, err = CreateProofByAmount(rt.View(), bob, res, decimal.NewFromInt(1))
	assert.ErrorIs(t, err, ErrInsufficientBalance)

	_, err = CreateProofByAmount(rt.View(), alice, res, dec("0.5"))
	assert.ErrorIs(t, err, ErrInvalidAmount)

	moved, err := Withdraw(rt.View(), alice, res, decimal.NewFromInt(1))
	require.NoError(t, err)
	require.NoError(t, Deposit(rt.View(), bob, &moved))

	bal, err = Balance(rt.View(), bob, res)
	require.NoError(t, err)
	assert.True(t, bal.Equal(decimal.NewFromInt(1)))

	_, err = Withdraw(rt.View(), alice, res, decimal.NewFromInt(5))
	assert.ErrorIs(t, err, ErrInsufficientBalance)

	_, err = CreateProofByAmount(rt.View(), alice, types.NewResourceAddress([]byte("none")), decimal.NewFromInt(1))
	assert.ErrorIs(t, err, ErrResourceNotFound)
}
