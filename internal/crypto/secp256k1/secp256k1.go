// Package secp256k1 holds the account keys of the host: secp256k1 key
// pairs, DER encoded ECDSA signatures over 32-byte hashes, and hex
// encodings of both keys.
package secp256k1

import (
	"encoding/hex"

	"github.com/LeJamon/goOracle/internal/crypto/common"
	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcec/v2/ecdsa"
	dcrsecp "github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/pkg/errors"
)

// PublicKeyLength is the size of a compressed public key.
const PublicKeyLength = dcrsecp.PubKeyBytesLenCompressed

var (
	// ErrInvalidPrivateKey is returned when a private key cannot be decoded
	ErrInvalidPrivateKey = errors.New("invalid private key")
	// ErrInvalidPublicKey is returned when a public key is not a point on the curve
	ErrInvalidPublicKey = errors.New("invalid public key")
)

// PrivateKey signs invocations for an account.
type PrivateKey struct {
	key *btcec.PrivateKey
}

// GenerateKey creates a new random private key.
func GenerateKey() (*PrivateKey, error) {
	key, err := btcec.NewPrivateKey()
	if err != nil {
		return nil, errors.Wrap(err, "generate private key")
	}
	return &PrivateKey{key: key}, nil
}

// KeyFromSeed derives a private key from seed material.
func KeyFromSeed(seed []byte) (*PrivateKey, error) {
	if len(seed) < 16 {
		return nil, errors.Wrap(ErrInvalidPrivateKey, "seed must be at least 16 bytes")
	}
	hash := common.Sha512Half(seed)
	key, _ := btcec.PrivKeyFromBytes(hash[:])
	return &PrivateKey{key: key}, nil
}

// ParsePrivateKey decodes a hex encoded 32-byte private key.
func ParsePrivateKey(s string) (*PrivateKey, error) {
	raw, err := hex.DecodeString(s)
	if err != nil || len(raw) != 32 {
		return nil, ErrInvalidPrivateKey
	}

	var scalar dcrsecp.ModNScalar
	if overflow := scalar.SetByteSlice(raw); overflow || scalar.IsZero() {
		return nil, ErrInvalidPrivateKey
	}
	key, _ := btcec.PrivKeyFromBytes(raw)
	return &PrivateKey{key: key}, nil
}

// Hex returns the hex encoding of the private key.
func (k *PrivateKey) Hex() string {
	return hex.EncodeToString(k.key.Serialize())
}

// PublicKey returns the compressed public key of k.
func (k *PrivateKey) PublicKey() PublicKey {
	return PublicKey(k.key.PubKey().SerializeCompressed())
}

// Sign returns the DER encoded signature of hash.
func (k *PrivateKey) Sign(hash [32]byte) []byte {
	return ecdsa.Sign(k.key, hash[:]).Serialize()
}

// PublicKey is a compressed secp256k1 public key.
type PublicKey []byte

// ParsePublicKey checks that raw is a point on the curve and returns its
// compressed form.
func ParsePublicKey(raw []byte) (PublicKey, error) {
	pub, err := dcrsecp.ParsePubKey(raw)
	if err != nil {
		return nil, errors.Wrap(ErrInvalidPublicKey, err.Error())
	}
	return PublicKey(pub.SerializeCompressed()), nil
}

// ParsePublicKeyHex decodes a hex encoded public key.
func ParsePublicKeyHex(s string) (PublicKey, error) {
	raw, err := hex.DecodeString(s)
	if err != nil {
		return nil, errors.Wrapf(ErrInvalidPublicKey, "%q", s)
	}
	return ParsePublicKey(raw)
}

func (p PublicKey) String() string {
	return hex.EncodeToString(p)
}

// MarshalText encodes the key as hex.
func (p PublicKey) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// Verify reports whether sig is a valid DER signature of hash by p.
func (p PublicKey) Verify(hash [32]byte, sig []byte) bool {
	pub, err := btcec.ParsePubKey(p)
	if err != nil {
		return false
	}
	signature, err := ecdsa.ParseDERSignature(sig)
	if err != nil {
		return false
	}
	return signature.Verify(hash[:], pub)
}
