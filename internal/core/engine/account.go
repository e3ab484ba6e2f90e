package engine

import (
	"bytes"
	"context"
	"sort"

	"github.com/LeJamon/goOracle/internal/core/ledger/keylet"
	"github.com/LeJamon/goOracle/internal/core/resource"
	"github.com/LeJamon/goOracle/internal/core/state"
	"github.com/LeJamon/goOracle/internal/core/types"
	"github.com/LeJamon/goOracle/internal/crypto/secp256k1"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

// FirstSequence is the sequence of a new account.
const FirstSequence uint32 = 1

// accountRoot is the stored form of an account. Resources lists every
// resource the account has a vault for, in address order.
type accountRoot struct {
	Address   []byte   `codec:"address"`
	PublicKey []byte   `codec:"public_key"`
	Sequence  uint32   `codec:"sequence"`
	Resources [][]byte `codec:"resources"`
}

func readAccount(v state.View, account types.AccountAddress) (*accountRoot, error) {
	var root accountRoot
	if err := state.ReadEntry(v, keylet.Account(account), &root); err != nil {
		if errors.Is(err, state.ErrEntryNotFound) {
			return nil, errors.Wrap(ErrNoAccount, account.String())
		}
		return nil, err
	}
	return &root, nil
}

// deposit moves b into the vault of account, recording the vault on the
// account root.
func deposit(v state.View, account types.AccountAddress, b *resource.Bucket) error {
	root, err := readAccount(v, account)
	if err != nil {
		return err
	}

	res := b.Resource()
	if err := resource.Deposit(v, account, b); err != nil {
		return err
	}

	i := sort.Search(len(root.Resources), func(i int) bool {
		return bytes.Compare(root.Resources[i], res[:]) >= 0
	})
	if i < len(root.Resources) && bytes.Equal(root.Resources[i], res[:]) {
		return nil
	}
	root.Resources = append(root.Resources, nil)
	copy(root.Resources[i+1:], root.Resources[i:])
	root.Resources[i] = bytes.Clone(res[:])

	return state.PutEntry(v, keylet.Account(account), root)
}

// CreateAccount creates an empty account controlled by the holder of the
// private key of pub.
func (e *Engine) CreateAccount(ctx context.Context, pub secp256k1.PublicKey) (*Receipt, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.apply(ctx, "account_create", func(c *ApplyContext, r *Receipt) error {
		key, err := secp256k1.ParsePublicKey(pub)
		if err != nil {
			return err
		}
		addr := types.NewAccountAddress(c.NewSeed())
		root := accountRoot{
			Address:   addr[:],
			PublicKey: key,
			Sequence:  FirstSequence,
		}
		if err := state.PutEntry(c.View(), keylet.Account(addr), root); err != nil {
			return err
		}
		r.NewAccounts = append(r.NewAccounts, addr)
		r.Outputs = append(r.Outputs, addr)
		return nil
	})
}

// AccountInfo describes an account.
type AccountInfo struct {
	Address   types.AccountAddress `json:"account"`
	PublicKey secp256k1.PublicKey  `json:"public_key"`
	Sequence  uint32               `json:"sequence"`
}

// Account returns the key and next sequence of account.
func (e *Engine) Account(ctx context.Context, account types.AccountAddress) (*AccountInfo, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	root, err := readAccount(state.NewSandbox(ctx, e.ledger), account)
	if err != nil {
		return nil, err
	}
	return &AccountInfo{
		Address:   account,
		PublicKey: secp256k1.PublicKey(root.PublicKey),
		Sequence:  root.Sequence,
	}, nil
}

// Balance is the amount of one resource held by an account.
type Balance struct {
	Resource types.ResourceAddress `json:"resource"`
	Amount   decimal.Decimal       `json:"amount"`
}

// Balances returns every vault balance of account, in resource order.
func (e *Engine) Balances(ctx context.Context, account types.AccountAddress) ([]Balance, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	v := state.NewSandbox(ctx, e.ledger)
	root, err := readAccount(v, account)
	if err != nil {
		return nil, err
	}

	out := make([]Balance, 0, len(root.Resources))
	for _, raw := range root.Resources {
		var res types.ResourceAddress
		copy(res[:], raw)
		amount, err := resource.Balance(v, account, res)
		if err != nil {
			return nil, err
		}
		out = append(out, Balance{Resource: res, Amount: amount})
	}
	return out, nil
}

// ResourceInfo returns the definition of a resource.
func (e *Engine) ResourceInfo(ctx context.Context, res types.ResourceAddress) (*resource.Definition, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	return resource.Get(state.NewSandbox(ctx, e.ledger), res)
}

// CreateFungibleResource defines a fungible resource with a fixed supply
// and deposits the whole supply into the signing account.
func (e *Engine) CreateFungibleResource(ctx context.Context, auth Auth, supply decimal.Decimal, divisibility uint8, metadata map[string]string) (*Receipt, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.apply(ctx, "resource_create", func(c *ApplyContext, r *Receipt) error {
		if err := c.authorize(auth, "resource_create", ResourceCreateArgs(supply, divisibility, metadata)); err != nil {
			return err
		}

		b := resource.NewFungible().Divisibility(divisibility)
		for k, v := range metadata {
			b.Metadata(k, v)
		}
		bucket, err := b.MintInitialSupply(c, supply)
		if err != nil {
			return err
		}
		res := bucket.Resource()
		if err := deposit(c.View(), auth.Account, &bucket); err != nil {
			return err
		}

		r.NewResources = append(r.NewResources, res)
		r.Outputs = append(r.Outputs, res)
		return nil
	})
}

// Transfer moves amount of res from the vault of the signing account to the
// vault of to.
func (e *Engine) Transfer(ctx context.Context, auth Auth, to types.AccountAddress, res types.ResourceAddress, amount decimal.Decimal) (*Receipt, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.apply(ctx, "transfer", func(c *ApplyContext, r *Receipt) error {
		if err := c.authorize(auth, "transfer", TransferArgs(to, res, amount)); err != nil {
			return err
		}
		if _, err := readAccount(c.View(), to); err != nil {
			return err
		}
		b, err := resource.Withdraw(c.View(), auth.Account, res, amount)
		if err != nil {
			return err
		}
		return deposit(c.View(), to, &b)
	})
}
