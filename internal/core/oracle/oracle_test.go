package oracle

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/LeJamon/goOracle/internal/core/access"
	"github.com/LeJamon/goOracle/internal/core/ledger/entry"
	"github.com/LeJamon/goOracle/internal/core/resource"
	"github.com/LeJamon/goOracle/internal/core/state"
	"github.com/LeJamon/goOracle/internal/core/types"
	"github.com/LeJamon/goOracle/internal/storage/database/memory"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type globalized struct {
	blueprint string
	rules     *access.Rules
	state     any
}

type testRuntime struct {
	ledger     *state.Ledger
	sb         *state.Sandbox
	seed       int
	components map[types.ComponentAddress]globalized
}

func newTestRuntime(t *testing.T) (*testRuntime, *memory.DB) {
	t.Helper()
	db := memory.NewDB()
	l, err := state.NewLedger(db, 0, nil)
	require.NoError(t, err)
	return &testRuntime{
		ledger:     l,
		sb:         state.NewSandbox(context.Background(), l),
		components: make(map[types.ComponentAddress]globalized),
	}, db
}

func (r *testRuntime) View() state.View { return r.sb }

func (r *testRuntime) NewSeed() []byte {
	r.seed++
	return []byte(fmt.Sprintf("tx-seed-%d", r.seed))
}

func (r *testRuntime) Ledger() state.Committer { return r.ledger }

func (r *testRuntime) Globalize(addr types.ComponentAddress, blueprint string, rules *access.Rules, st any) error {
	r.components[addr] = globalized{blueprint: blueprint, rules: rules, state: st}
	return nil
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func resources() (a, b, c types.ResourceAddress) {
	return types.NewResourceAddress([]byte("A")),
		types.NewResourceAddress([]byte("B")),
		types.NewResourceAddress([]byte("C"))
}

func newOracle(t *testing.T) (*Oracle, *testRuntime) {
	t.Helper()
	rt, _ := newTestRuntime(t)
	_, o, err := Instantiate(rt, 1)
	require.NoError(t, err)
	_, err = rt.sb.Apply()
	require.NoError(t, err)
	return o, rt
}

func requirePrice(t *testing.T, o *Oracle, base, quote types.ResourceAddress, want string) {
	t.Helper()
	got, ok, err := o.GetPrice(context.Background(), base, quote)
	require.NoError(t, err)
	require.True(t, ok, "expected a price for %s/%s", base, quote)
	assert.True(t, got.Equal(dec(want)), "price %s/%s: got %s, want %s", base, quote, got, want)
}

func requireNoPrice(t *testing.T, o *Oracle, base, quote types.ResourceAddress) {
	t.Helper()
	_, ok, err := o.GetPrice(context.Background(), base, quote)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestInstantiateRejectsNoAdmins(t *testing.T) {
	for _, n := range []int{0, -1} {
		t.Run(fmt.Sprint(n), func(t *testing.T) {
			rt, db := newTestRuntime(t)

			_, o, err := Instantiate(rt, n)
			require.ErrorIs(t, err, ErrInvalidArgument)
			assert.Equal(t, "Must have at least one admin", err.Error())
			assert.Nil(t, o)
			assert.Empty(t, rt.components)

			_, err = rt.sb.Apply()
			require.NoError(t, err)
			assert.Equal(t, 0, db.Len())
		})
	}
}

func TestInstantiate(t *testing.T) {
	rt, _ := newTestRuntime(t)

	badges, o, err := Instantiate(rt, 3)
	require.NoError(t, err)
	assert.True(t, badges.Amount().Equal(decimal.NewFromInt(3)))
	assert.Equal(t, badges.Resource(), o.AdminBadge())

	def, err := resource.Get(rt.View(), o.AdminBadge())
	require.NoError(t, err)
	assert.Equal(t, uint8(0), def.Divisibility)
	assert.Equal(t, AdminBadgeName, def.Name())
	assert.True(t, def.TotalSupply.Equal(decimal.NewFromInt(3)))

	g, ok := rt.components[o.Address()]
	require.True(t, ok)
	assert.Equal(t, Blueprint, g.blueprint)
	assert.Equal(t, State{AdminBadge: o.AdminBadge()}, g.state)

	cred, ok := g.rules.RequiredCredential(MethodUpdatePrice)
	assert.True(t, ok)
	assert.Equal(t, o.AdminBadge(), cred)
	_, ok = g.rules.RequiredCredential(MethodGetPrice)
	assert.False(t, ok)

	a, b, _ := resources()
	requireNoPrice(t, o, a, b)
	requireNoPrice(t, o, b, a)
}

func TestUpdatePrice(t *testing.T) {
	ctx := context.Background()
	o, _ := newOracle(t)
	a, b, c := resources()

	requireNoPrice(t, o, a, b)

	u, err := o.UpdatePrice(ctx, a, b, dec("1.5"))
	require.NoError(t, err)
	assert.Equal(t, types.NewAssetPair(a, b), u.Pair)
	assert.Equal(t, "0.666666666666666666", u.Inverse.String())

	requirePrice(t, o, a, b, "1.5")
	requirePrice(t, o, b, a, "0.666666666666666666")
	requireNoPrice(t, o, a, c)

	// Overwriting from the other side leaves no stale direction
	_, err = o.UpdatePrice(ctx, b, a, dec("4"))
	require.NoError(t, err)
	requirePrice(t, o, b, a, "4")
	requirePrice(t, o, a, b, "0.25")
}

func TestUpdatePriceRejects(t *testing.T) {
	ctx := context.Background()
	a, b, _ := resources()

	tests := []struct {
		name  string
		base  types.ResourceAddress
		quote types.ResourceAddress
		price decimal.Decimal
	}{
		{"zero", a, b, decimal.Zero},
		{"negative", a, b, dec("-2")},
		{"below ledger precision", a, b, dec("0.0000000000000000001")},
		{"reciprocal underflow", a, b, dec("10000000000000000000")},
		{"same resource", a, a, dec("1")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o, _ := newOracle(t)
			_, err := o.UpdatePrice(ctx, a, b, dec("2"))
			require.NoError(t, err)

			_, err = o.UpdatePrice(ctx, tt.base, tt.quote, tt.price)
			require.ErrorIs(t, err, ErrInvalidArgument)

			requirePrice(t, o, a, b, "2")
			requirePrice(t, o, b, a, "0.5")
		})
	}
}

func TestUpdatePriceTruncatesInput(t *testing.T) {
	o, _ := newOracle(t)
	a, b, _ := resources()

	_, err := o.UpdatePrice(context.Background(), a, b, dec("3.1234567890123456789"))
	require.NoError(t, err)
	requirePrice(t, o, a, b, "3.123456789012345678")
}

func TestStageUpdatePriceWaitsForCommit(t *testing.T) {
	ctx := context.Background()
	o, rt := newOracle(t)
	a, b, _ := resources()

	sb := state.NewSandbox(ctx, rt.ledger)
	u, err := o.StageUpdatePrice(sb, a, b, dec("4"))
	require.NoError(t, err)
	assert.Equal(t, "0.25", u.Inverse.String())

	_, ok, err := o.GetPrice(ctx, a, b)
	require.NoError(t, err)
	assert.False(t, ok, "staged price must not be visible before commit")

	meta, err := sb.Apply()
	require.NoError(t, err)
	assert.Len(t, meta.Created(entry.TypePrice), 2)
	requirePrice(t, o, a, b, "4")
	requirePrice(t, o, b, a, "0.25")

	// A discarded sandbox leaves the committed prices alone
	discarded := state.NewSandbox(ctx, rt.ledger)
	_, err = o.StageUpdatePrice(discarded, a, b, dec("5"))
	require.NoError(t, err)
	requirePrice(t, o, a, b, "4")

	_, err = o.StageUpdatePrice(discarded, a, a, dec("5"))
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestRestoreSeesCommittedPrices(t *testing.T) {
	o, rt := newOracle(t)
	a, b, _ := resources()

	_, err := o.UpdatePrice(context.Background(), a, b, dec("8"))
	require.NoError(t, err)

	restored := Restore(rt.ledger, o.Address(), State{AdminBadge: o.AdminBadge()})
	requirePrice(t, restored, a, b, "8")
	requirePrice(t, restored, b, a, "0.125")
	assert.Equal(t, o.Rules(), restored.Rules())
}

func TestConcurrentUpdatesKeepReciprocals(t *testing.T) {
	ctx := context.Background()
	o, _ := newOracle(t)
	a, b, _ := resources()

	var wg sync.WaitGroup
	for i := 1; i <= 16; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			base, quote := a, b
			if i%2 == 0 {
				base, quote = b, a
			}
			_, err := o.UpdatePrice(ctx, base, quote, decimal.NewFromInt(int64(i)))
			assert.NoError(t, err)
		}(i)
		go func() {
			defer wg.Done()
			_, _, err := o.GetPrice(ctx, a, b)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	ab, ok, err := o.GetPrice(ctx, a, b)
	require.NoError(t, err)
	require.True(t, ok)
	ba, ok, err := o.GetPrice(ctx, b, a)
	require.NoError(t, err)
	require.True(t, ok)

	assert.True(t, ab.Equal(types.Reciprocal(ba)) || ba.Equal(types.Reciprocal(ab)),
		"a/b=%s b/a=%s are not reciprocal", ab, ba)
}
