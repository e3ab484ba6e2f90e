package protocol

// HashPrefix defines the prefix bytes used in ledger hashing operations.
// These prefixes provide domain separation for different hash contexts.
type HashPrefix [4]byte

var (
	// HashPrefixResourceAddress is used for deriving resource addresses
	HashPrefixResourceAddress = HashPrefix{'R', 'E', 'S', 0x00}

	// HashPrefixComponentAddress is used for deriving component addresses
	HashPrefixComponentAddress = HashPrefix{'C', 'M', 'P', 0x00}

	// HashPrefixAccountAddress is used for deriving account addresses
	HashPrefixAccountAddress = HashPrefix{'A', 'C', 'T', 0x00}

	// HashPrefixTxSign is used for the hash an account signs to authorize an invocation
	HashPrefixTxSign = HashPrefix{'S', 'T', 'X', 0x00}
)

// Bytes returns the prefix as a byte slice
func (h HashPrefix) Bytes() []byte {
	return h[:]
}
