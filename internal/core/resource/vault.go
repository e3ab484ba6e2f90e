package resource

import (
	"github.com/LeJamon/goOracle/internal/core/ledger/keylet"
	"github.com/LeJamon/goOracle/internal/core/state"
	"github.com/LeJamon/goOracle/internal/core/types"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

type vaultEntry struct {
	Owner    []byte `codec:"owner"`
	Resource []byte `codec:"resource"`
	Amount   string `codec:"amount"`
}

// Balance returns the amount of res held by account. An account that never
// held res has a zero balance.
func Balance(v state.View, account types.AccountAddress, res types.ResourceAddress) (decimal.Decimal, error) {
	var e vaultEntry
	if err := state.ReadEntry(v, keylet.Vault(account, res), &e); err != nil {
		if errors.Is(err, state.ErrEntryNotFound) {
			return decimal.Zero, nil
		}
		return decimal.Zero, err
	}
	amount, err := decimal.NewFromString(e.Amount)
	if err != nil {
		return decimal.Zero, errors.Wrapf(err, "vault %s/%s", account, res)
	}
	return amount, nil
}

func setBalance(v state.View, account types.AccountAddress, res types.ResourceAddress, amount decimal.Decimal) error {
	return state.PutEntry(v, keylet.Vault(account, res), vaultEntry{
		Owner:    account[:],
		Resource: res[:],
		Amount:   amount.String(),
	})
}

// Deposit moves the whole content of b into the vault of account,
// leaving b empty.
func Deposit(v state.View, account types.AccountAddress, b *Bucket) error {
	if _, err := Get(v, b.resource); err != nil {
		return err
	}
	balance, err := Balance(v, account, b.resource)
	if err != nil {
		return err
	}
	if err := setBalance(v, account, b.resource, balance.Add(b.amount)); err != nil {
		return errors.Wrap(err, "deposit")
	}
	b.amount = decimal.Zero
	return nil
}

// Withdraw takes amount of res out of the vault of account.
func Withdraw(v state.View, account types.AccountAddress, res types.ResourceAddress, amount decimal.Decimal) (Bucket, error) {
	def, err := Get(v, res)
	if err != nil {
		return Bucket{}, err
	}
	if err := def.CheckAmount(amount); err != nil {
		return Bucket{}, err
	}
	balance, err := Balance(v, account, res)
	if err != nil {
		return Bucket{}, err
	}
	if balance.LessThan(amount) {
		return Bucket{}, errors.Wrapf(ErrInsufficientBalance, "withdraw %s of %s, have %s", amount, res, balance)
	}
	if err := setBalance(v, account, res, balance.Sub(amount)); err != nil {
		return Bucket{}, errors.Wrap(err, "withdraw")
	}
	return Bucket{resource: res, amount: amount}, nil
}

// CreateProofByAmount proves that account holds at least amount of res
// without moving it.
func CreateProofByAmount(v state.View, account types.AccountAddress, res types.ResourceAddress, amount decimal.Decimal) (Proof, error) {
	def, err := Get(v, res)
	if err != nil {
		return Proof{}, err
	}
	if !amount.IsPositive() {
		return Proof{}, errors.Wrapf(ErrInvalidAmount, "proof of %s", amount)
	}
	if err := def.CheckAmount(amount); err != nil {
		return Proof{}, err
	}
	balance, err := Balance(v, account, res)
	if err != nil {
		return Proof{}, err
	}
	if balance.LessThan(amount) {
		return Proof{}, errors.Wrapf(ErrInsufficientBalance, "proof of %s %s, have %s", amount, res, balance)
	}
	return Proof{resource: res, amount: amount}, nil
}
