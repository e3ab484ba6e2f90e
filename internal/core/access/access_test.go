package access

import (
	"context"
	"testing"

	"github.com/LeJamon/goOracle/internal/core/resource"
	"github.com/LeJamon/goOracle/internal/core/state"
	"github.com/LeJamon/goOracle/internal/core/types"
	"github.com/LeJamon/goOracle/internal/storage/database/memory"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type runtime struct {
	sb *state.Sandbox
	n  byte
}

func (r *runtime) View() state.View { return r.sb }

func (r *runtime) NewSeed() []byte {
	r.n++
	return []byte{r.n}
}

// proofOf mints a fresh resource, deposits it with a holder and returns a
// proof of one unit of it.
func proofOf(t *testing.T, rt *runtime) resource.Proof {
	t.Helper()
	holder := types.NewAccountAddress([]byte("holder"))
	b, err := resource.NewFungible().Divisibility(0).MintInitialSupply(rt, decimal.NewFromInt(1))
	require.NoError(t, err)
	res := b.Resource()
	require.NoError(t, resource.Deposit(rt.View(), holder, &b))
	p, err := resource.CreateProofByAmount(rt.View(), holder, res, decimal.NewFromInt(1))
	require.NoError(t, err)
	return p
}

func TestRules(t *testing.T) {
	l, err := state.NewLedger(memory.NewDB(), 0, nil)
	require.NoError(t, err)
	rt := &runtime{sb: state.NewSandbox(context.Background(), l)}

	badge := proofOf(t, rt)
	other := proofOf(t, rt)

	rules := NewRules().
		Method("update_price", Require(badge.Resource())).
		Method("shutdown", DenyAll()).
		Default(AllowAll())

	res, ok := rules.RequiredCredential("update_price")
	assert.True(t, ok)
	assert.Equal(t, badge.Resource(), res)

	_, ok = rules.RequiredCredential("get_price")
	assert.False(t, ok)

	tests := []struct {
		name   string
		method string
		proofs []resource.Proof
		denied bool
	}{
		{"default allows without proofs", "get_price", nil, false},
		{"require without proofs", "update_price", nil, true},
		{"require with wrong proof", "update_price", []resource.Proof{other}, true},
		{"require with badge", "update_price", []resource.Proof{other, badge}, false},
		{"deny all", "shutdown", []resource.Proof{badge}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := rules.Check(tt.method, tt.proofs)
			if tt.denied {
				assert.ErrorIs(t, err, ErrUnauthorized)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestRulesPersist(t *testing.T) {
	res := types.NewResourceAddress([]byte("badge"))
	rules := NewRules().Method("update_price", Require(res))

	data, err := state.Encode(rules)
	require.NoError(t, err)

	var got Rules
	require.NoError(t, state.Decode(data, &got))
	assert.Equal(t, Require(res), got.RuleFor("update_price"))
	assert.Equal(t, AllowAll(), got.RuleFor("get_price"))
	assert.Equal(t, "require("+res.String()+")", got.RuleFor("update_price").String())
}
