package ledger

import (
	"crypto/ed25519"
	"encoding/hex"
	"fmt"
	"strings"

	"golang.org/x/crypto/sha3"
)

// AddressLength is the node's native address size in bytes.
const AddressLength = 20

// Address is a 20-byte account or contract address.
type Address [AddressLength]byte

// Hex returns the 0x-prefixed lowercase hex form.
func (a Address) Hex() string {
	return "0x" + hex.EncodeToString(a[:])
}

// IsZero reports whether the address is all zero bytes.
func (a Address) IsZero() bool {
	return a == Address{}
}

// ParseAddress decodes a 0x-prefixed or bare 40-hex-character address.
func ParseAddress(s string) (Address, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "0x")
	raw, err := hex.DecodeString(s)
	if err != nil {
		return Address{}, fmt.Errorf("parse address: %w", err)
	}
	if len(raw) != AddressLength {
		return Address{}, fmt.Errorf("parse address: want %d bytes, got %d", AddressLength, len(raw))
	}
	var a Address
	copy(a[:], raw)
	return a, nil
}

// Account is the single signing identity for a deployment. The private key
// is never logged or exposed through any accessor.
type Account struct {
	priv    ed25519.PrivateKey
	address Address
}

// NewAccount derives an Account from a hex-encoded ed25519 seed or private
// key.
func NewAccount(privateKeyHex string) (*Account, error) {
	raw, err := hex.DecodeString(strings.TrimPrefix(strings.TrimSpace(privateKeyHex), "0x"))
	if err != nil {
		return nil, fmt.Errorf("decode private key: %w", err)
	}

	var priv ed25519.PrivateKey
	switch len(raw) {
	case ed25519.SeedSize:
		priv = ed25519.NewKeyFromSeed(raw)
	case ed25519.PrivateKeySize:
		priv = ed25519.PrivateKey(raw)
	default:
		return nil, fmt.Errorf("private key must be %d or %d bytes, got %d",
			ed25519.SeedSize, ed25519.PrivateKeySize, len(raw))
	}

	return &Account{priv: priv, address: deriveAddress(priv.Public().(ed25519.PublicKey))}, nil
}

// Address returns the account's derived 20-byte address.
func (a *Account) Address() Address {
	return a.address
}

// Sign signs the given digest with the account key.
func (a *Account) Sign(digest []byte) []byte {
	return ed25519.Sign(a.priv, digest)
}

// deriveAddress takes the trailing 20 bytes of SHA3-256 over the public key.
func deriveAddress(pub ed25519.PublicKey) Address {
	sum := sha3.Sum256(pub)
	var a Address
	copy(a[:], sum[len(sum)-AddressLength:])
	return a
}
