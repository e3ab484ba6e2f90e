package testing

import (
	"fmt"

	"github.com/LeJamon/goOracle/internal/core/types"
	"github.com/LeJamon/goOracle/internal/crypto/secp256k1"
)

// Account is a ledger account created by a TestEnv, with a name for
// readable failure messages. Key signs its invocations.
type Account struct {
	Name    string
	Address types.AccountAddress
	Key     *secp256k1.PrivateKey
}

// Human returns the address in its text form.
func (a *Account) Human() string {
	return a.Address.String()
}

// String returns the name and address of the account.
func (a *Account) String() string {
	return fmt.Sprintf("%s (%s)", a.Name, a.Address)
}
