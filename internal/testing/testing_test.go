package testing

import (
	"testing"

	"github.com/LeJamon/goOracle/internal/core/engine"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccountIsCreatedOnce(t *testing.T) {
	env := NewTestEnv(t)

	alice1 := env.Account("alice")
	alice2 := env.Account("alice")
	bob := env.Account("bob")

	assert.Same(t, alice1, alice2)
	assert.NotEqual(t, alice1.Address, bob.Address)
	assert.Equal(t, alice1.Address.String(), alice1.Human())
	assert.Contains(t, alice1.String(), "alice")
}

func TestCreateFungibleIsIndexedByName(t *testing.T) {
	env := NewTestEnv(t)
	alice := env.Account("alice")

	usd := env.CreateFungible(alice, "USD", "100", 2)
	res, ok := env.Resource("USD")
	require.True(t, ok)
	assert.Equal(t, usd, res)
	RequireBalance(t, env, alice, usd, "100")

	_, ok = env.Resource("EUR")
	assert.False(t, ok)
}

func TestTransferResult(t *testing.T) {
	env := NewTestEnv(t)
	alice := env.Account("alice")
	bob := env.Account("bob")
	usd := env.CreateFungible(alice, "USD", "100", 2)

	result := env.Transfer(alice, bob, usd, "40.25")
	RequireTxSuccess(t, result)
	require.NotNil(t, result.Receipt)
	RequireBalance(t, env, alice, usd, "59.75")
	RequireBalance(t, env, bob, usd, "40.25")

	result = env.Transfer(alice, bob, usd, "60")
	RequireTxFail(t, result, TecINSUFFICIENT_FUNDS)
	assert.True(t, result.IsClaimed())
	assert.Nil(t, result.Receipt)

	result = env.Transfer(alice, bob, usd, "0.001")
	RequireTxFail(t, result, TemMALFORMED)
	assert.True(t, result.IsMalformed())
}

func TestAuthTracksSequence(t *testing.T) {
	env := NewTestEnv(t)
	alice := env.Account("alice")
	bob := env.Account("bob")
	usd := env.CreateFungible(alice, "USD", "100", 2)

	before := env.Sequence(alice)
	RequireTxSuccess(t, env.Transfer(alice, bob, usd, "1"))
	assert.Equal(t, before+1, env.Sequence(alice))

	RequireTxFail(t, env.Transfer(alice, bob, usd, "1000"), TecINSUFFICIENT_FUNDS)
	assert.Equal(t, before+1, env.Sequence(alice))

	forged := env.AuthWith(bob.Key, alice, "transfer", engine.TransferArgs(bob.Address, usd, Dec("1")))
	RequireTxFail(t, env.TransferAuth(forged, bob, usd, "1"), TemBAD_SIGNATURE)
	RequireBalance(t, env, alice, usd, "99")
}
