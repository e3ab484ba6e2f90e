// Package oracle implements the price oracle component: a store of the
// latest price for ordered pairs of resources, readable by anyone and
// writable only by holders of the admin badge minted when the oracle is
// instantiated.
package oracle

import (
	"context"

	"github.com/LeJamon/goOracle/internal/core/access"
	"github.com/LeJamon/goOracle/internal/core/resource"
	"github.com/LeJamon/goOracle/internal/core/state"
	"github.com/LeJamon/goOracle/internal/core/types"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

const (
	// Blueprint is the name components of this package are registered under.
	Blueprint = "Oracle"

	MethodGetPrice    = "get_price"
	MethodUpdatePrice = "update_price"

	// AdminBadgeName is the "name" metadata of the admin badge resource.
	AdminBadgeName = "Oracle Admin Badge"
)

// Methods lists the callable methods of an oracle.
var Methods = []string{MethodGetPrice, MethodUpdatePrice}

// Runtime is what instantiation needs from the host.
type Runtime interface {
	resource.Runtime

	// Ledger is the committed state the price store writes to.
	Ledger() state.Committer

	// Globalize registers a component so it can be called by address.
	Globalize(addr types.ComponentAddress, blueprint string, rules *access.Rules, componentState any) error
}

// State is the stored state of an oracle, besides its prices.
type State struct {
	AdminBadge types.ResourceAddress `codec:"admin_badge"`
}

// Oracle is an instantiated price oracle.
type Oracle struct {
	address    types.ComponentAddress
	adminBadge types.ResourceAddress
	rules      *access.Rules
	prices     *PriceStore
}

// Instantiate creates an oracle with numAdmins admin badges. The badges are
// returned in a bucket owned by the caller. Nothing is created when
// numAdmins is below one.
func Instantiate(rt Runtime, numAdmins int) (resource.Bucket, *Oracle, error) {
	if numAdmins < 1 {
		return resource.Bucket{}, nil, invalidArgument("Must have at least one admin")
	}

	badges, err := resource.NewFungible().
		Divisibility(0).
		Metadata("name", AdminBadgeName).
		MintInitialSupply(rt, decimal.NewFromInt(int64(numAdmins)))
	if err != nil {
		return resource.Bucket{}, nil, errors.Wrap(err, "mint admin badges")
	}

	rules := AccessRules(badges.Resource())

	o := &Oracle{
		address:    types.NewComponentAddress(rt.NewSeed()),
		adminBadge: badges.Resource(),
		rules:      rules,
	}
	o.prices = NewPriceStore(rt.Ledger(), o.address)

	if err := rt.Globalize(o.address, Blueprint, rules, State{AdminBadge: o.adminBadge}); err != nil {
		return resource.Bucket{}, nil, errors.Wrap(err, "globalize oracle")
	}

	return badges, o, nil
}

// AccessRules returns the rules of an oracle whose admin badge is badge.
func AccessRules(badge types.ResourceAddress) *access.Rules {
	return access.NewRules().
		Method(MethodUpdatePrice, access.Require(badge)).
		Default(access.AllowAll())
}

// Restore rebuilds a globalized oracle from its stored state.
func Restore(ledger state.Committer, addr types.ComponentAddress, st State) *Oracle {
	o := &Oracle{
		address:    addr,
		adminBadge: st.AdminBadge,
		rules:      AccessRules(st.AdminBadge),
	}
	o.prices = NewPriceStore(ledger, addr)
	return o
}

func (o *Oracle) Address() types.ComponentAddress { return o.address }

func (o *Oracle) AdminBadge() types.ResourceAddress { return o.adminBadge }

func (o *Oracle) Rules() *access.Rules { return o.rules }

// GetPrice returns the current price of base in quote.
func (o *Oracle) GetPrice(ctx context.Context, base, quote types.ResourceAddress) (decimal.Decimal, bool, error) {
	return o.prices.Get(ctx, base, quote)
}

// UpdatePrice sets the price of base in quote and of quote in base to its
// reciprocal, committing both. Callers are expected to have passed the
// access rules.
func (o *Oracle) UpdatePrice(ctx context.Context, base, quote types.ResourceAddress, price decimal.Decimal) (Update, error) {
	return o.prices.Set(ctx, base, quote, price)
}

// StageUpdatePrice is UpdatePrice inside an invocation: both prices are
// written to v and committed with the rest of the invocation.
func (o *Oracle) StageUpdatePrice(v state.View, base, quote types.ResourceAddress, price decimal.Decimal) (Update, error) {
	return o.prices.Stage(v, base, quote, price)
}
