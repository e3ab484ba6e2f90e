package entry

import (
	"fmt"
)

// Type represents a ledger entry type
type Type uint16

// All known ledger entry types
const (
	TypeAccountRoot Type = 0x0061 // Accounts
	TypeComponent   Type = 0x0063 // Instantiated components
	TypeResource    Type = 0x007e // Resource definitions
	TypeVault       Type = 0x007f // Resource holdings of an account
	TypePrice       Type = 0x0080 // Oracle price entries
)

// String returns the string representation of the Type
func (t Type) String() string {
	switch t {
	case TypeAccountRoot:
		return "AccountRoot"
	case TypeComponent:
		return "Component"
	case TypeResource:
		return "Resource"
	case TypeVault:
		return "Vault"
	case TypePrice:
		return "Price"
	default:
		return fmt.Sprintf("Unknown(0x%04x)", uint16(t))
	}
}

// IsValid reports whether t is a known entry type.
func (t Type) IsValid() bool {
	switch t {
	case TypeAccountRoot, TypeComponent, TypeResource, TypeVault, TypePrice:
		return true
	}
	return false
}
