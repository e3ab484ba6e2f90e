// Package engine hosts components. It owns the committed ledger, keeps the
// registry of globalized components and runs every invocation: mutating
// ones one at a time inside a sandbox that is committed as a single batch,
// after the access rules of the called method have passed.
package engine

import (
	"context"
	"sync"
	"time"

	"github.com/LeJamon/goOracle/internal/core/access"
	"github.com/LeJamon/goOracle/internal/core/ledger/entry"
	"github.com/LeJamon/goOracle/internal/core/ledger/keylet"
	"github.com/LeJamon/goOracle/internal/core/oracle"
	"github.com/LeJamon/goOracle/internal/core/state"
	"github.com/LeJamon/goOracle/internal/core/types"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// Observer receives one call per finished invocation.
type Observer interface {
	ObserveInvocation(method string, result Result, elapsed time.Duration)
}

type nopObserver struct{}

func (nopObserver) ObserveInvocation(string, Result, time.Duration) {}

// Config holds engine configuration
type Config struct {
	Logger   *zap.Logger
	Observer Observer
}

// component is a globalized component known to the engine.
type component struct {
	blueprint string
	policy    access.Policy
	methods   map[string]struct{}
	oracle    *oracle.Oracle
}

func newOracleComponent(o *oracle.Oracle) *component {
	methods := make(map[string]struct{}, len(oracle.Methods))
	for _, m := range oracle.Methods {
		methods[m] = struct{}{}
	}
	return &component{
		blueprint: oracle.Blueprint,
		policy:    o.Rules(),
		methods:   methods,
		oracle:    o,
	}
}

// ComponentInfo describes a globalized component.
type ComponentInfo struct {
	Address   types.ComponentAddress `json:"address"`
	Blueprint string                 `json:"blueprint"`
}

// Engine runs invocations against a ledger.
type Engine struct {
	mu         sync.RWMutex
	ledger     *state.Ledger
	components map[types.ComponentAddress]*component
	listeners  []PriceListener
	log        *zap.Logger
	observer   Observer
}

// New creates an engine over ledger. Call Load to pick up components
// committed by a previous run.
func New(ledger *state.Ledger, cfg Config) *Engine {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	observer := cfg.Observer
	if observer == nil {
		observer = nopObserver{}
	}
	return &Engine{
		ledger:     ledger,
		components: make(map[types.ComponentAddress]*component),
		log:        logger.Named("engine"),
		observer:   observer,
	}
}

// Ledger returns the committed state the engine runs on.
func (e *Engine) Ledger() *state.Ledger {
	return e.ledger
}

// Load registers every component stored in the ledger.
func (e *Engine) Load(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	var loadErr error
	err := e.ledger.ForEach(ctx, entry.TypeComponent, func(_ keylet.Keylet, data []byte) bool {
		var ce componentEntry
		if loadErr = state.Decode(data, &ce); loadErr != nil {
			return false
		}
		var addr types.ComponentAddress
		copy(addr[:], ce.Address)

		switch ce.Blueprint {
		case oracle.Blueprint:
			var st oracle.State
			if loadErr = state.Decode(ce.State, &st); loadErr != nil {
				return false
			}
			c := newOracleComponent(oracle.Restore(e.ledger, addr, st))
			rules := ce.Rules
			c.policy = &rules
			e.components[addr] = c
		default:
			e.log.Warn("skipping component of unknown blueprint",
				zap.String("component", addr.String()),
				zap.String("blueprint", ce.Blueprint))
		}
		return true
	})
	if err == nil {
		err = loadErr
	}
	if err != nil {
		return errors.Wrap(err, "load components")
	}

	e.log.Info("loaded components", zap.Int("count", len(e.components)))
	return nil
}

// Components lists the globalized components.
func (e *Engine) Components() []ComponentInfo {
	e.mu.RLock()
	defer e.mu.RUnlock()

	out := make([]ComponentInfo, 0, len(e.components))
	for addr, c := range e.components {
		out = append(out, ComponentInfo{Address: addr, Blueprint: c.blueprint})
	}
	return out
}

// lookup returns the component at addr, checking that it has method.
func (e *Engine) lookup(addr types.ComponentAddress, method string) (*component, error) {
	c, ok := e.components[addr]
	if !ok {
		return nil, errors.Wrap(ErrNoComponent, addr.String())
	}
	if _, ok := c.methods[method]; !ok {
		return nil, errors.Wrapf(ErrNoMethod, "%s on %s", method, addr)
	}
	return c, nil
}

// apply runs fn in a fresh ApplyContext and commits its writes if fn
// succeeds. The caller must hold e.mu.
func (e *Engine) apply(ctx context.Context, method string, fn func(c *ApplyContext, r *Receipt) error) (*Receipt, error) {
	start := time.Now()
	c := e.newApplyContext(ctx)
	r := &Receipt{ID: c.TxID}

	err := fn(c, r)
	if err == nil {
		r.Metadata, err = c.commit()
	}

	r.Result = ResultFor(err)
	e.observer.ObserveInvocation(method, r.Result, time.Since(start))

	if err != nil {
		e.log.Debug("invocation failed",
			zap.String("method", method),
			zap.String("tx", r.ID.String()),
			zap.String("result", r.Result.String()),
			zap.Error(err))
		return nil, err
	}

	e.log.Debug("invocation applied",
		zap.String("method", method),
		zap.String("tx", r.ID.String()))
	return r, nil
}
