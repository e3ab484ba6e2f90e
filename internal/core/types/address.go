// Package types holds the identifiers and value types shared by the ledger
// host and the components that run on it.
package types

import (
	"encoding/hex"
	"strings"

	"github.com/LeJamon/goOracle/internal/core/protocol"
	crypto "github.com/LeJamon/goOracle/internal/crypto/common"
	"github.com/pkg/errors"
)

// AddressLength is the size in bytes of every ledger address.
const AddressLength = 20

// Address prefixes used in the textual form of addresses.
const (
	ResourcePrefix  = "resource_"
	ComponentPrefix = "component_"
	AccountPrefix   = "account_"
)

// ErrInvalidAddress is returned when an address string cannot be decoded.
var ErrInvalidAddress = errors.New("invalid address")

// ResourceAddress identifies a resource (token) type. Asset identifiers of
// the price oracle are resource addresses.
type ResourceAddress [AddressLength]byte

// ComponentAddress identifies an instantiated component.
type ComponentAddress [AddressLength]byte

// AccountAddress identifies an account holding vaults of resources.
type AccountAddress [AddressLength]byte

func deriveAddress(prefix protocol.HashPrefix, seed ...[]byte) [AddressLength]byte {
	inputs := make([][]byte, 0, len(seed)+1)
	inputs = append(inputs, prefix.Bytes())
	inputs = append(inputs, seed...)
	h := crypto.Sha512Half(inputs...)

	var out [AddressLength]byte
	copy(out[:], h[:AddressLength])
	return out
}

// NewResourceAddress derives a resource address from the given seed material.
func NewResourceAddress(seed ...[]byte) ResourceAddress {
	return ResourceAddress(deriveAddress(protocol.HashPrefixResourceAddress, seed...))
}

// NewComponentAddress derives a component address from the given seed material.
func NewComponentAddress(seed ...[]byte) ComponentAddress {
	return ComponentAddress(deriveAddress(protocol.HashPrefixComponentAddress, seed...))
}

// NewAccountAddress derives an account address from the given seed material.
func NewAccountAddress(seed ...[]byte) AccountAddress {
	return AccountAddress(deriveAddress(protocol.HashPrefixAccountAddress, seed...))
}

func encodeAddress(prefix string, b []byte) string {
	return prefix + hex.EncodeToString(b)
}

func decodeAddress(prefix, s string) ([AddressLength]byte, error) {
	var out [AddressLength]byte
	if !strings.HasPrefix(s, prefix) {
		return out, errors.Wrapf(ErrInvalidAddress, "%q: missing %q prefix", s, prefix)
	}
	raw, err := hex.DecodeString(strings.TrimPrefix(s, prefix))
	if err != nil {
		return out, errors.Wrapf(ErrInvalidAddress, "%q: %v", s, err)
	}
	if len(raw) != AddressLength {
		return out, errors.Wrapf(ErrInvalidAddress, "%q: expected %d bytes, got %d", s, AddressLength, len(raw))
	}
	copy(out[:], raw)
	return out, nil
}

func (a ResourceAddress) String() string  { return encodeAddress(ResourcePrefix, a[:]) }
func (a ComponentAddress) String() string { return encodeAddress(ComponentPrefix, a[:]) }
func (a AccountAddress) String() string   { return encodeAddress(AccountPrefix, a[:]) }

// IsZero reports whether the address is unset.
func (a ResourceAddress) IsZero() bool { return a == ResourceAddress{} }

// IsZero reports whether the address is unset.
func (a ComponentAddress) IsZero() bool { return a == ComponentAddress{} }

// IsZero reports whether the address is unset.
func (a AccountAddress) IsZero() bool { return a == AccountAddress{} }

// ParseResourceAddress decodes the textual form of a resource address.
func ParseResourceAddress(s string) (ResourceAddress, error) {
	b, err := decodeAddress(ResourcePrefix, s)
	return ResourceAddress(b), err
}

// ParseComponentAddress decodes the textual form of a component address.
func ParseComponentAddress(s string) (ComponentAddress, error) {
	b, err := decodeAddress(ComponentPrefix, s)
	return ComponentAddress(b), err
}

// ParseAccountAddress decodes the textual form of an account address.
func ParseAccountAddress(s string) (AccountAddress, error) {
	b, err := decodeAddress(AccountPrefix, s)
	return AccountAddress(b), err
}

func (a ResourceAddress) MarshalText() ([]byte, error)  { return []byte(a.String()), nil }
func (a ComponentAddress) MarshalText() ([]byte, error) { return []byte(a.String()), nil }
func (a AccountAddress) MarshalText() ([]byte, error)   { return []byte(a.String()), nil }

func (a *ResourceAddress) UnmarshalText(text []byte) error {
	parsed, err := ParseResourceAddress(string(text))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

func (a *ComponentAddress) UnmarshalText(text []byte) error {
	parsed, err := ParseComponentAddress(string(text))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

func (a *AccountAddress) UnmarshalText(text []byte) error {
	parsed, err := ParseAccountAddress(string(text))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}
