package testing

import (
	"context"
	"testing"

	"github.com/LeJamon/goOracle/internal/core/engine"
	"github.com/LeJamon/goOracle/internal/core/state"
	"github.com/LeJamon/goOracle/internal/core/types"
	"github.com/LeJamon/goOracle/internal/crypto/secp256k1"
	"github.com/LeJamon/goOracle/internal/storage/database"
	"github.com/LeJamon/goOracle/internal/storage/database/memory"
	"github.com/LeJamon/goOracle/internal/storage/database/pebble"
	"github.com/shopspring/decimal"
	"go.uber.org/zap/zaptest"
)

// TestEnv runs an engine over a private ledger. It keeps named accounts
// and the resources created through it, looked up by their name metadata.
type TestEnv struct {
	t         *testing.T
	ctx       context.Context
	db        database.DB
	ledger    *state.Ledger
	engine    *engine.Engine
	accounts  map[string]*Account
	resources map[string]types.ResourceAddress
}

// NewTestEnv creates a test environment over in-memory storage.
func NewTestEnv(t *testing.T) *TestEnv {
	t.Helper()
	return newTestEnv(t, memory.NewDB())
}

// NewTestEnvBacked creates a test environment over a pebble database in a
// temporary directory. Use it with Restart to exercise reloading.
func NewTestEnvBacked(t *testing.T) *TestEnv {
	t.Helper()
	db, err := pebble.Open(t.TempDir())
	if err != nil {
		t.Fatalf("Failed to open pebble database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return newTestEnv(t, db)
}

func newTestEnv(t *testing.T, db database.DB) *TestEnv {
	t.Helper()

	ledger, err := state.NewLedger(db, 0, zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("Failed to create ledger: %v", err)
	}

	return &TestEnv{
		t:         t,
		ctx:       context.Background(),
		db:        db,
		ledger:    ledger,
		engine:    engine.New(ledger, engine.Config{Logger: zaptest.NewLogger(t)}),
		accounts:  make(map[string]*Account),
		resources: make(map[string]types.ResourceAddress),
	}
}

// Engine returns the engine under test.
func (e *TestEnv) Engine() *engine.Engine {
	return e.engine
}

// Ledger returns the committed state.
func (e *TestEnv) Ledger() *state.Ledger {
	return e.ledger
}

// Restart replaces the engine with a fresh one over the same ledger and
// loads the stored components, as a node restart would.
func (e *TestEnv) Restart() {
	e.t.Helper()
	e.engine = engine.New(e.ledger, engine.Config{Logger: zaptest.NewLogger(e.t)})
	if err := e.engine.Load(e.ctx); err != nil {
		e.t.Fatalf("Failed to reload components: %v", err)
	}
}

// Account returns the account called name, creating it on first use.
func (e *TestEnv) Account(name string) *Account {
	e.t.Helper()
	if acc, ok := e.accounts[name]; ok {
		return acc
	}

	key, err := secp256k1.GenerateKey()
	if err != nil {
		e.t.Fatalf("Failed to generate key for %s: %v", name, err)
	}
	r, err := e.engine.CreateAccount(e.ctx, key.PublicKey())
	if err != nil {
		e.t.Fatalf("Failed to create account %s: %v", name, err)
	}
	acc := &Account{Name: name, Address: r.NewAccounts[0], Key: key}
	e.accounts[name] = acc
	return acc
}

// Sequence returns the next sequence of acc.
func (e *TestEnv) Sequence(acc *Account) uint32 {
	e.t.Helper()
	info, err := e.engine.Account(e.ctx, acc.Address)
	if err != nil {
		e.t.Fatalf("Failed to read account %s: %v", acc, err)
	}
	return info.Sequence
}

// Auth signs method with args as acc at its next sequence.
func (e *TestEnv) Auth(acc *Account, method string, args []string) engine.Auth {
	e.t.Helper()
	return e.AuthWith(acc.Key, acc, method, args)
}

// AuthWith signs method with args for acc using key, which need not be
// the key acc was created with.
func (e *TestEnv) AuthWith(key *secp256k1.PrivateKey, acc *Account, method string, args []string) engine.Auth {
	e.t.Helper()
	auth, err := engine.Sign(key, acc.Address, e.Sequence(acc), method, args...)
	if err != nil {
		e.t.Fatalf("Failed to sign %s for %s: %v", method, acc, err)
	}
	return auth
}

// Balance returns the amount of res in the vault of acc.
func (e *TestEnv) Balance(acc *Account, res types.ResourceAddress) decimal.Decimal {
	e.t.Helper()
	balances, err := e.engine.Balances(e.ctx, acc.Address)
	if err != nil {
		e.t.Fatalf("Failed to read balances of %s: %v", acc, err)
	}
	for _, b := range balances {
		if b.Resource == res {
			return b.Amount
		}
	}
	return decimal.Zero
}

// Resource returns the resource created through this environment whose
// name metadata is name.
func (e *TestEnv) Resource(name string) (types.ResourceAddress, bool) {
	res, ok := e.resources[name]
	return res, ok
}

// recordResources indexes the new resources of a receipt by name.
func (e *TestEnv) recordResources(r *engine.Receipt) {
	e.t.Helper()
	for _, res := range r.NewResources {
		def, err := e.engine.ResourceInfo(e.ctx, res)
		if err != nil {
			e.t.Fatalf("Failed to read resource %s: %v", res, err)
		}
		if name := def.Name(); name != "" {
			e.resources[name] = res
		}
	}
}

// CreateFungible mints supply units of a new resource called name into acc.
func (e *TestEnv) CreateFungible(acc *Account, name string, supply string, divisibility uint8) types.ResourceAddress {
	e.t.Helper()
	var metadata map[string]string
	if name != "" {
		metadata = map[string]string{"name": name}
	}
	auth := e.Auth(acc, "resource_create", engine.ResourceCreateArgs(Dec(supply), divisibility, metadata))
	r, err := e.engine.CreateFungibleResource(e.ctx, auth, Dec(supply), divisibility, metadata)
	if err != nil {
		e.t.Fatalf("Failed to create resource %s: %v", name, err)
	}
	e.recordResources(r)
	return r.NewResources[0]
}

// Transfer moves amount of res from one account to another.
func (e *TestEnv) Transfer(from, to *Account, res types.ResourceAddress, amount string) TxResult {
	e.t.Helper()
	auth := e.Auth(from, "transfer", engine.TransferArgs(to.Address, res, Dec(amount)))
	return e.TransferAuth(auth, to, res, amount)
}

// TransferAuth submits a transfer with a caller-built auth.
func (e *TestEnv) TransferAuth(auth engine.Auth, to *Account, res types.ResourceAddress, amount string) TxResult {
	e.t.Helper()
	return newTxResult(e.engine.Transfer(e.ctx, auth, to.Address, res, Dec(amount)))
}

// Oracle is an instantiated oracle component.
type Oracle struct {
	Component  types.ComponentAddress
	AdminBadge types.ResourceAddress
}

// InstantiateOracle instantiates an oracle with numAdmins badges deposited
// into acc. The oracle is nil when the invocation fails.
func (e *TestEnv) InstantiateOracle(acc *Account, numAdmins int) (*Oracle, TxResult) {
	e.t.Helper()
	auth := e.Auth(acc, "instantiate_oracle", engine.InstantiateOracleArgs(numAdmins))
	r, err := e.engine.InstantiateOracle(e.ctx, auth, numAdmins)
	result := newTxResult(r, err)
	if err != nil {
		return nil, result
	}
	e.recordResources(r)
	return &Oracle{Component: r.NewComponents[0], AdminBadge: r.NewResources[0]}, result
}

// GetPrice reads the price of base in quote.
func (e *TestEnv) GetPrice(o *Oracle, base, quote types.ResourceAddress) (decimal.Decimal, bool) {
	e.t.Helper()
	price, ok, err := e.engine.GetPrice(e.ctx, o.Component, base, quote)
	if err != nil {
		e.t.Fatalf("Failed to read price: %v", err)
	}
	return price, ok
}

// UpdatePrice sets the price of base in quote, proving the admin badge
// from the vault of acc.
func (e *TestEnv) UpdatePrice(acc *Account, o *Oracle, base, quote types.ResourceAddress, price string) TxResult {
	e.t.Helper()
	auth := e.Auth(acc, "update_price", engine.UpdatePriceArgs(o.Component, base, quote, Dec(price)))
	return e.UpdatePriceAuth(auth, o, base, quote, price)
}

// UpdatePriceAuth submits update_price with a caller-built auth.
func (e *TestEnv) UpdatePriceAuth(auth engine.Auth, o *Oracle, base, quote types.ResourceAddress, price string) TxResult {
	e.t.Helper()
	return newTxResult(e.engine.UpdatePrice(e.ctx, auth, o.Component, base, quote, Dec(price)))
}

// Dec parses a decimal literal, failing hard on malformed input.
func Dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}
