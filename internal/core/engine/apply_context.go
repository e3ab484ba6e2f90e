package engine

import (
	"context"
	"encoding/binary"

	"github.com/LeJamon/goOracle/internal/core/access"
	"github.com/LeJamon/goOracle/internal/core/ledger/keylet"
	"github.com/LeJamon/goOracle/internal/core/state"
	"github.com/LeJamon/goOracle/internal/core/types"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// ApplyContext provides the state and helpers a mutating invocation needs.
// Writes go to a sandbox that the engine commits as one batch once the
// invocation succeeds.
type ApplyContext struct {
	ctx     context.Context
	engine  *Engine
	sandbox *state.Sandbox

	// TxID identifies the invocation and seeds the addresses it creates
	TxID uuid.UUID

	seq uint32
}

func (e *Engine) newApplyContext(ctx context.Context) *ApplyContext {
	return &ApplyContext{
		ctx:     ctx,
		engine:  e,
		sandbox: state.NewSandbox(ctx, e.ledger),
		TxID:    uuid.New(),
	}
}

func (c *ApplyContext) View() state.View { return c.sandbox }

// NewSeed returns seed material unique to this invocation and call.
func (c *ApplyContext) NewSeed() []byte {
	c.seq++
	seed := make([]byte, 0, 16+4)
	seed = append(seed, c.TxID[:]...)
	return binary.BigEndian.AppendUint32(seed, c.seq)
}

func (c *ApplyContext) Ledger() state.Committer { return c.engine.ledger }

// componentEntry is the stored form of a globalized component.
type componentEntry struct {
	Address   []byte       `codec:"address"`
	Blueprint string       `codec:"blueprint"`
	Rules     access.Rules `codec:"rules"`
	State     []byte       `codec:"state"`
}

func (c *ApplyContext) Globalize(addr types.ComponentAddress, blueprint string, rules *access.Rules, componentState any) error {
	st, err := state.Encode(componentState)
	if err != nil {
		return err
	}
	data, err := state.Encode(componentEntry{
		Address:   addr[:],
		Blueprint: blueprint,
		Rules:     *rules,
		State:     st,
	})
	if err != nil {
		return err
	}
	if err := c.sandbox.Insert(keylet.Component(addr), data); err != nil {
		return errors.Wrapf(err, "globalize %s", addr)
	}
	return nil
}

// commit applies the sandbox.
func (c *ApplyContext) commit() (*state.Metadata, error) {
	meta, err := c.sandbox.Apply()
	if err != nil {
		return nil, errors.Wrap(err, "commit invocation")
	}
	return meta, nil
}
