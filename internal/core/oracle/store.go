package oracle

import (
	"context"
	"sync"

	"github.com/LeJamon/goOracle/internal/core/ledger/keylet"
	"github.com/LeJamon/goOracle/internal/core/state"
	"github.com/LeJamon/goOracle/internal/core/types"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

// priceEntry is the stored form of one directed price.
type priceEntry struct {
	Component []byte `codec:"component"`
	Base      []byte `codec:"base"`
	Quote     []byte `codec:"quote"`
	Price     string `codec:"price"`
}

// Update is a committed price change: Price for Pair and Inverse for
// Pair.Inverse().
type Update struct {
	Pair    types.AssetPair
	Price   decimal.Decimal
	Inverse decimal.Decimal
}

// PriceStore maps asset pairs to prices for one component. Both directions
// of a pair are always written together: Set commits them in one batch
// under the store lock, and Stage leaves them in a sandbox whose owner
// commits them in one batch.
type PriceStore struct {
	mu        sync.RWMutex
	ledger    state.Committer
	component types.ComponentAddress
}

// NewPriceStore returns the price store of component, kept in ledger.
func NewPriceStore(ledger state.Committer, component types.ComponentAddress) *PriceStore {
	return &PriceStore{
		ledger:    ledger,
		component: component,
	}
}

// Get returns the price of base in quote. ok is false when the pair was
// never priced.
func (s *PriceStore) Get(ctx context.Context, base, quote types.ResourceAddress) (price decimal.Decimal, ok bool, err error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := s.ledger.Read(ctx, keylet.Price(s.component, base, quote))
	if err != nil {
		if errors.Is(err, state.ErrEntryNotFound) {
			return decimal.Zero, false, nil
		}
		return decimal.Zero, false, errors.Wrapf(err, "read price %s/%s", base, quote)
	}

	var e priceEntry
	if err := state.Decode(data, &e); err != nil {
		return decimal.Zero, false, err
	}
	price, err = decimal.NewFromString(e.Price)
	if err != nil {
		return decimal.Zero, false, errors.Wrapf(err, "price %s/%s", base, quote)
	}
	return price, true, nil
}

// Set stores price for base/quote and its reciprocal for quote/base,
// committing both in one batch.
func (s *PriceStore) Set(ctx context.Context, base, quote types.ResourceAddress, price decimal.Decimal) (Update, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sb := state.NewSandbox(ctx, s.ledger)
	u, err := s.Stage(sb, base, quote, price)
	if err != nil {
		return Update{}, err
	}
	if _, err := sb.Apply(); err != nil {
		return Update{}, errors.Wrap(err, "commit price update")
	}
	return u, nil
}

// Stage writes price for base/quote and its reciprocal for quote/base to
// v without committing. Nothing is written when the price is rejected.
// The owner of v commits both entries together.
func (s *PriceStore) Stage(v state.View, base, quote types.ResourceAddress, price decimal.Decimal) (Update, error) {
	pair := types.NewAssetPair(base, quote)
	price = price.Truncate(types.DecimalScale)
	if err := validatePrice(pair, price); err != nil {
		return Update{}, err
	}
	inverse := types.Reciprocal(price)
	if !inverse.IsPositive() {
		return Update{}, invalidArgument("reciprocal of %s is zero at %d decimal places", price, types.DecimalScale)
	}

	if err := s.put(v, pair, price); err != nil {
		return Update{}, err
	}
	if err := s.put(v, pair.Inverse(), inverse); err != nil {
		return Update{}, err
	}

	return Update{
		Pair:    pair,
		Price:   price,
		Inverse: inverse,
	}, nil
}

func (s *PriceStore) put(v state.View, pair types.AssetPair, price decimal.Decimal) error {
	return state.PutEntry(v, keylet.Price(s.component, pair.Base, pair.Quote), priceEntry{
		Component: s.component[:],
		Base:      pair.Base[:],
		Quote:     pair.Quote[:],
		Price:     price.String(),
	})
}

func validatePrice(pair types.AssetPair, price decimal.Decimal) error {
	if pair.IsDegenerate() {
		return invalidArgument("base and quote are both %s", pair.Base)
	}
	if !price.IsPositive() {
		return invalidArgument("price must be positive, got %s", price)
	}
	return nil
}
