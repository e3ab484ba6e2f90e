// Package resource implements fungible resources: their definitions,
// the buckets that move amounts of them around, the vaults that hold them
// for accounts and the proofs presented to access rules.
package resource

import (
	"sort"

	"github.com/LeJamon/goOracle/internal/core/ledger/keylet"
	"github.com/LeJamon/goOracle/internal/core/state"
	"github.com/LeJamon/goOracle/internal/core/types"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

// MaxDivisibility is the largest number of fractional digits a resource can have.
const MaxDivisibility uint8 = uint8(types.DecimalScale)

var (
	ErrResourceNotFound     = errors.New("resource not found")
	ErrInvalidDivisibility  = errors.New("divisibility out of range")
	ErrInvalidAmount        = errors.New("invalid amount")
	ErrResourceMismatch     = errors.New("resource mismatch")
	ErrInsufficientBalance  = errors.New("insufficient balance")
	ErrMetadataKeyMalformed = errors.New("metadata key must not be empty")
)

// Runtime is what minting needs from the host: the view to write to and
// a source of unique address seeds for the current transaction.
type Runtime interface {
	View() state.View
	NewSeed() []byte
}

// Definition describes a fungible resource.
type Definition struct {
	Address      types.ResourceAddress
	Divisibility uint8
	Metadata     map[string]string
	TotalSupply  decimal.Decimal
}

// Name returns the "name" metadata value, if any.
func (d *Definition) Name() string {
	return d.Metadata["name"]
}

// MetadataKeys returns the metadata keys in sorted order.
func (d *Definition) MetadataKeys() []string {
	keys := make([]string, 0, len(d.Metadata))
	for k := range d.Metadata {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// CheckAmount reports whether amount is a valid, non-negative quantity of
// this resource.
func (d *Definition) CheckAmount(amount decimal.Decimal) error {
	if amount.IsNegative() {
		return errors.Wrapf(ErrInvalidAmount, "negative amount %s", amount)
	}
	if !amount.Equal(amount.Truncate(int32(d.Divisibility))) {
		return errors.Wrapf(ErrInvalidAmount, "%s exceeds divisibility %d of %s", amount, d.Divisibility, d.Address)
	}
	return nil
}

// definitionEntry is the stored form of a Definition.
type definitionEntry struct {
	Divisibility uint8             `codec:"divisibility"`
	Metadata     map[string]string `codec:"metadata"`
	TotalSupply  string            `codec:"total_supply"`
}

// Get loads the definition of a resource.
func Get(v state.View, addr types.ResourceAddress) (*Definition, error) {
	var e definitionEntry
	if err := state.ReadEntry(v, keylet.Resource(addr), &e); err != nil {
		if errors.Is(err, state.ErrEntryNotFound) {
			return nil, errors.Wrap(ErrResourceNotFound, addr.String())
		}
		return nil, err
	}

	supply, err := decimal.NewFromString(e.TotalSupply)
	if err != nil {
		return nil, errors.Wrapf(err, "resource %s total supply", addr)
	}

	return &Definition{
		Address:      addr,
		Divisibility: e.Divisibility,
		Metadata:     e.Metadata,
		TotalSupply:  supply,
	}, nil
}

func put(v state.View, d *Definition) error {
	return state.PutEntry(v, keylet.Resource(d.Address), definitionEntry{
		Divisibility: d.Divisibility,
		Metadata:     d.Metadata,
		TotalSupply:  d.TotalSupply.String(),
	})
}

// FungibleBuilder collects the parameters of a new fungible resource.
type FungibleBuilder struct {
	divisibility uint8
	metadata     map[string]string
}

// NewFungible starts a fungible resource with the maximum divisibility
// and no metadata.
func NewFungible() *FungibleBuilder {
	return &FungibleBuilder{
		divisibility: MaxDivisibility,
		metadata:     make(map[string]string),
	}
}

func (b *FungibleBuilder) Divisibility(d uint8) *FungibleBuilder {
	b.divisibility = d
	return b
}

func (b *FungibleBuilder) Metadata(key, value string) *FungibleBuilder {
	b.metadata[key] = value
	return b
}

// MintInitialSupply defines the resource in rt's view and returns a bucket
// holding its whole initial supply. The supply is fixed: nothing else can
// mint the resource afterwards.
func (b *FungibleBuilder) MintInitialSupply(rt Runtime, supply decimal.Decimal) (Bucket, error) {
	if b.divisibility > MaxDivisibility {
		return Bucket{}, errors.Wrapf(ErrInvalidDivisibility, "%d", b.divisibility)
	}
	for k := range b.metadata {
		if k == "" {
			return Bucket{}, ErrMetadataKeyMalformed
		}
	}

	def := &Definition{
		Address:      types.NewResourceAddress(rt.NewSeed()),
		Divisibility: b.divisibility,
		Metadata:     b.metadata,
		TotalSupply:  supply,
	}
	if !supply.IsPositive() {
		return Bucket{}, errors.Wrapf(ErrInvalidAmount, "initial supply %s", supply)
	}
	if err := def.CheckAmount(supply); err != nil {
		return Bucket{}, err
	}

	if err := put(rt.View(), def); err != nil {
		return Bucket{}, errors.Wrap(err, "define resource")
	}

	return Bucket{resource: def.Address, amount: supply}, nil
}
