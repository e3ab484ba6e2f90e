package engine

import (
	"context"
	"time"

	"github.com/LeJamon/goOracle/internal/core/ledger/entry"
	"github.com/LeJamon/goOracle/internal/core/oracle"
	"github.com/LeJamon/goOracle/internal/core/resource"
	"github.com/LeJamon/goOracle/internal/core/types"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// PriceListener is notified of every committed price update.
type PriceListener func(component types.ComponentAddress, u oracle.Update)

// OnPriceUpdate registers l.
func (e *Engine) OnPriceUpdate(l PriceListener) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.listeners = append(e.listeners, l)
}

// InstantiateOracle creates an oracle with numAdmins admin badges and
// deposits the badges into the signing account. The receipt outputs are the
// component address and the badge resource address.
func (e *Engine) InstantiateOracle(ctx context.Context, auth Auth, numAdmins int) (*Receipt, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	var created *oracle.Oracle
	r, err := e.apply(ctx, "instantiate_oracle", func(c *ApplyContext, r *Receipt) error {
		if err := c.authorize(auth, "instantiate_oracle", InstantiateOracleArgs(numAdmins)); err != nil {
			return err
		}

		badges, o, err := oracle.Instantiate(c, numAdmins)
		if err != nil {
			return err
		}
		if err := deposit(c.View(), auth.Account, &badges); err != nil {
			return err
		}

		created = o
		r.Outputs = append(r.Outputs, o.Address(), o.AdminBadge())
		r.NewComponents = append(r.NewComponents, o.Address())
		r.NewResources = append(r.NewResources, o.AdminBadge())
		return nil
	})
	if err != nil {
		return nil, err
	}

	e.components[created.Address()] = newOracleComponent(created)
	e.log.Info("instantiated oracle",
		zap.String("component", created.Address().String()),
		zap.String("admin_badge", created.AdminBadge().String()),
		zap.Int("admins", numAdmins))
	return r, nil
}

// GetPrice reads the price of base in quote from an oracle. It needs no
// credential.
func (e *Engine) GetPrice(ctx context.Context, addr types.ComponentAddress, base, quote types.ResourceAddress) (price decimal.Decimal, ok bool, err error) {
	start := time.Now()
	defer func() {
		e.observer.ObserveInvocation(oracle.MethodGetPrice, ResultFor(err), time.Since(start))
	}()

	e.mu.RLock()
	defer e.mu.RUnlock()

	c, err := e.lookup(addr, oracle.MethodGetPrice)
	if err != nil {
		return decimal.Zero, false, err
	}
	if err = c.policy.Check(oracle.MethodGetPrice, nil); err != nil {
		return decimal.Zero, false, err
	}
	return c.oracle.GetPrice(ctx, base, quote)
}

// UpdatePrice sets the price of base in quote, and its reciprocal, on an
// oracle. The signing account proves the credential the method requires
// from its vault; without it the method does not run. Both prices are
// written in the invocation's sandbox and committed with it.
func (e *Engine) UpdatePrice(ctx context.Context, auth Auth, addr types.ComponentAddress, base, quote types.ResourceAddress, price decimal.Decimal) (*Receipt, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	var update oracle.Update
	r, err := e.apply(ctx, oracle.MethodUpdatePrice, func(ac *ApplyContext, r *Receipt) error {
		if err := ac.authorize(auth, oracle.MethodUpdatePrice, UpdatePriceArgs(addr, base, quote, price)); err != nil {
			return err
		}

		c, err := e.lookup(addr, oracle.MethodUpdatePrice)
		if err != nil {
			return err
		}

		var proofs []resource.Proof
		if cred, ok := c.policy.RequiredCredential(oracle.MethodUpdatePrice); ok {
			p, err := resource.CreateProofByAmount(ac.View(), auth.Account, cred, decimal.NewFromInt(1))
			switch {
			case err == nil:
				proofs = append(proofs, p)
			case !errors.Is(err, resource.ErrInsufficientBalance):
				return errors.Wrap(err, "create proof")
			}
		}
		if err := c.policy.Check(oracle.MethodUpdatePrice, proofs); err != nil {
			return err
		}

		update, err = c.oracle.StageUpdatePrice(ac.View(), base, quote, price)
		if err != nil {
			return err
		}
		r.Outputs = append(r.Outputs, update.Price, update.Inverse)
		return nil
	})
	if err != nil {
		return nil, err
	}

	if len(r.Metadata.Created(entry.TypePrice)) > 0 {
		e.log.Info("priced new pair",
			zap.String("component", addr.String()),
			zap.String("pair", update.Pair.String()))
	}
	for _, l := range e.listeners {
		l(addr, update)
	}
	return r, nil
}
