package engine

import (
	"sort"
	"strconv"

	"github.com/LeJamon/goOracle/internal/core/ledger/keylet"
	"github.com/LeJamon/goOracle/internal/core/protocol"
	"github.com/LeJamon/goOracle/internal/core/state"
	"github.com/LeJamon/goOracle/internal/core/types"
	"github.com/LeJamon/goOracle/internal/crypto/common"
	"github.com/LeJamon/goOracle/internal/crypto/secp256k1"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

// Auth authorizes an invocation on behalf of Account. Sequence must be the
// account's current sequence and Signature its signature over the
// SigningHash of the invocation. A committed invocation consumes the
// sequence; a rejected one does not.
type Auth struct {
	Account   types.AccountAddress
	Sequence  uint32
	Signature []byte
}

// signingPayload is what an account signs.
type signingPayload struct {
	Method   string   `codec:"method"`
	Account  []byte   `codec:"account"`
	Sequence uint32   `codec:"sequence"`
	Args     []string `codec:"args"`
}

// SigningHash returns the hash account signs to run method with args at
// sequence.
func SigningHash(method string, account types.AccountAddress, sequence uint32, args ...string) ([32]byte, error) {
	data, err := state.Encode(signingPayload{
		Method:   method,
		Account:  account[:],
		Sequence: sequence,
		Args:     args,
	})
	if err != nil {
		return [32]byte{}, errors.Wrap(err, "encode signing payload")
	}
	return common.Sha512Half(protocol.HashPrefixTxSign.Bytes(), data), nil
}

// Sign builds the Auth of account for method with args.
func Sign(key *secp256k1.PrivateKey, account types.AccountAddress, sequence uint32, method string, args ...string) (Auth, error) {
	hash, err := SigningHash(method, account, sequence, args...)
	if err != nil {
		return Auth{}, err
	}
	return Auth{
		Account:   account,
		Sequence:  sequence,
		Signature: key.Sign(hash),
	}, nil
}

// The argument lists signed for each invocation.

func InstantiateOracleArgs(numAdmins int) []string {
	return []string{strconv.Itoa(numAdmins)}
}

func UpdatePriceArgs(component types.ComponentAddress, base, quote types.ResourceAddress, price decimal.Decimal) []string {
	return []string{component.String(), base.String(), quote.String(), price.String()}
}

func TransferArgs(to types.AccountAddress, res types.ResourceAddress, amount decimal.Decimal) []string {
	return []string{to.String(), res.String(), amount.String()}
}

// ResourceCreateArgs lists metadata as key=value in key order.
func ResourceCreateArgs(supply decimal.Decimal, divisibility uint8, metadata map[string]string) []string {
	keys := make([]string, 0, len(metadata))
	for k := range metadata {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	args := []string{supply.String(), strconv.Itoa(int(divisibility))}
	for _, k := range keys {
		args = append(args, k+"="+metadata[k])
	}
	return args
}

// authorize checks a against the stored key and sequence of its account
// and consumes the sequence in the invocation's sandbox.
func (c *ApplyContext) authorize(a Auth, method string, args []string) error {
	root, err := readAccount(c.View(), a.Account)
	if err != nil {
		return err
	}

	switch {
	case a.Sequence < root.Sequence:
		return errors.Wrapf(ErrPastSequence, "%s: sequence %d, account at %d", a.Account, a.Sequence, root.Sequence)
	case a.Sequence > root.Sequence:
		return errors.Wrapf(ErrFutureSequence, "%s: sequence %d, account at %d", a.Account, a.Sequence, root.Sequence)
	}

	hash, err := SigningHash(method, a.Account, a.Sequence, args...)
	if err != nil {
		return err
	}
	if !secp256k1.PublicKey(root.PublicKey).Verify(hash, a.Signature) {
		return errors.Wrapf(ErrBadSignature, "%s %s", method, a.Account)
	}

	root.Sequence++
	return state.PutEntry(c.View(), keylet.Account(a.Account), root)
}
