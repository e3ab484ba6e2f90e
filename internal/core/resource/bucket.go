package resource

import (
	"fmt"

	"github.com/LeJamon/goOracle/internal/core/types"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

// Bucket is a transient container of an amount of one resource. Buckets
// are produced by minting and withdrawals and consumed by deposits.
type Bucket struct {
	resource types.ResourceAddress
	amount   decimal.Decimal
}

func (b Bucket) Resource() types.ResourceAddress { return b.resource }

func (b Bucket) Amount() decimal.Decimal { return b.amount }

func (b Bucket) IsEmpty() bool { return b.amount.IsZero() }

func (b Bucket) String() string {
	return fmt.Sprintf("%s %s", b.amount, b.resource)
}

// Take splits amount off b.
func (b *Bucket) Take(amount decimal.Decimal) (Bucket, error) {
	if amount.IsNegative() {
		return Bucket{}, errors.Wrapf(ErrInvalidAmount, "take %s", amount)
	}
	if amount.GreaterThan(b.amount) {
		return Bucket{}, errors.Wrapf(ErrInsufficientBalance, "take %s from %s", amount, b.amount)
	}
	b.amount = b.amount.Sub(amount)
	return Bucket{resource: b.resource, amount: amount}, nil
}

// Put merges other into b, leaving other empty.
func (b *Bucket) Put(other *Bucket) error {
	if other.resource != b.resource {
		return errors.Wrapf(ErrResourceMismatch, "put %s into %s", other.resource, b.resource)
	}
	b.amount = b.amount.Add(other.amount)
	other.amount = decimal.Zero
	return nil
}

// Proof attests that the presenter holds at least Amount of Resource.
// Proofs are only created from vault balances.
type Proof struct {
	resource types.ResourceAddress
	amount   decimal.Decimal
}

func (p Proof) Resource() types.ResourceAddress { return p.resource }

func (p Proof) Amount() decimal.Decimal { return p.amount }

// Covers reports whether p proves a non-zero amount of res.
func (p Proof) Covers(res types.ResourceAddress) bool {
	return p.resource == res && p.amount.IsPositive()
}
