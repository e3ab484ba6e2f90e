package keylet

import (
	"encoding/binary"

	"github.com/LeJamon/goOracle/internal/core/ledger/entry"
	"github.com/LeJamon/goOracle/internal/core/types"
	crypto "github.com/LeJamon/goOracle/internal/crypto/common"
)

// Space identifiers for keylet generation
const (
	spaceAccount   uint16 = 'a' // Account root
	spaceComponent uint16 = 'c' // Component state
	spaceResource  uint16 = '~' // Resource definition
	spaceVault     uint16 = 't' // Vault (account holding of a resource)
	spacePrice     uint16 = 'R' // Oracle price entry
)

// KeySize is the size of a storage key: the 2-byte entry type followed by the 256-bit key.
const KeySize = 2 + 32

// Keylet represents an addressable location in the ledger state.
// It combines a type identifier with a 256-bit key.
type Keylet struct {
	Type entry.Type
	Key  [32]byte
}

// indexHash computes a keylet key by hashing the space and provided data.
func indexHash(space uint16, data ...[]byte) [32]byte {
	spaceBytes := make([]byte, 2)
	binary.BigEndian.PutUint16(spaceBytes, space)

	inputs := make([][]byte, 0, len(data)+1)
	inputs = append(inputs, spaceBytes)
	inputs = append(inputs, data...)

	return crypto.Sha512Half(inputs...)
}

// Account returns the keylet for an account root entry.
func Account(account types.AccountAddress) Keylet {
	return Keylet{
		Type: entry.TypeAccountRoot,
		Key:  indexHash(spaceAccount, account[:]),
	}
}

// Component returns the keylet for the state of an instantiated component.
func Component(component types.ComponentAddress) Keylet {
	return Keylet{
		Type: entry.TypeComponent,
		Key:  indexHash(spaceComponent, component[:]),
	}
}

// Resource returns the keylet for a resource definition.
func Resource(resource types.ResourceAddress) Keylet {
	return Keylet{
		Type: entry.TypeResource,
		Key:  indexHash(spaceResource, resource[:]),
	}
}

// Vault returns the keylet for the balance an account holds of a resource.
func Vault(account types.AccountAddress, resource types.ResourceAddress) Keylet {
	return Keylet{
		Type: entry.TypeVault,
		Key:  indexHash(spaceVault, account[:], resource[:]),
	}
}

// Price returns the keylet for the price of base in quote stored by an oracle
// component. Price(c, a, b) and Price(c, b, a) are different entries.
func Price(component types.ComponentAddress, base, quote types.ResourceAddress) Keylet {
	return Keylet{
		Type: entry.TypePrice,
		Key:  indexHash(spacePrice, component[:], base[:], quote[:]),
	}
}

// StorageKey returns the key under which the entry is stored in the
// key-value backend. Entries of one type share a common prefix.
func (k Keylet) StorageKey() []byte {
	out := make([]byte, KeySize)
	binary.BigEndian.PutUint16(out, uint16(k.Type))
	copy(out[2:], k.Key[:])
	return out
}

// FromStorageKey is the inverse of StorageKey.
func FromStorageKey(b []byte) (Keylet, bool) {
	if len(b) != KeySize {
		return Keylet{}, false
	}
	var k Keylet
	k.Type = entry.Type(binary.BigEndian.Uint16(b))
	copy(k.Key[:], b[2:])
	return k, k.Type.IsValid()
}

// TypeRange returns the [start, end) storage key range holding every entry of type t.
func TypeRange(t entry.Type) (start, end []byte) {
	start = make([]byte, 2)
	binary.BigEndian.PutUint16(start, uint16(t))
	end = make([]byte, 2)
	binary.BigEndian.PutUint16(end, uint16(t)+1)
	return start, end
}
