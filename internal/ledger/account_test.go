package ledger

import (
	"crypto/ed25519"
	"encoding/hex"
	"strings"
	"testing"
)

const testSeedHex = "9d61b19deffd5a60ba844af492ec2cc44449c5697b326919703bac031cab7f60"

func TestNewAccountDerivesStableAddress(t *testing.T) {
	a, err := NewAccount(testSeedHex)
	if err != nil {
		t.Fatalf("new account: %v", err)
	}
	b, err := NewAccount("0x" + testSeedHex)
	if err != nil {
		t.Fatalf("new account with prefix: %v", err)
	}
	if a.Address() != b.Address() {
		t.Fatalf("same key must derive the same address")
	}
	if a.Address().IsZero() {
		t.Fatalf("derived address should not be zero")
	}
}

func TestNewAccountAcceptsFullPrivateKey(t *testing.T) {
	seed, _ := hex.DecodeString(testSeedHex)
	priv := ed25519.NewKeyFromSeed(seed)

	fromSeed, err := NewAccount(testSeedHex)
	if err != nil {
		t.Fatalf("from seed: %v", err)
	}
	fromKey, err := NewAccount(hex.EncodeToString(priv))
	if err != nil {
		t.Fatalf("from full key: %v", err)
	}
	if fromSeed.Address() != fromKey.Address() {
		t.Fatalf("seed and full key forms must agree")
	}
}

func TestNewAccountRejectsBadInput(t *testing.T) {
	if _, err := NewAccount("zz"); err == nil {
		t.Fatalf("non-hex key should be rejected")
	}
	if _, err := NewAccount("abcd"); err == nil {
		t.Fatalf("wrong-length key should be rejected")
	}
}

func TestAccountSignaturesVerify(t *testing.T) {
	account, err := NewAccount(testSeedHex)
	if err != nil {
		t.Fatalf("new account: %v", err)
	}
	seed, _ := hex.DecodeString(testSeedHex)
	pub := ed25519.NewKeyFromSeed(seed).Public().(ed25519.PublicKey)

	digest := []byte("0123456789abcdef0123456789abcdef")
	if !ed25519.Verify(pub, digest, account.Sign(digest)) {
		t.Fatalf("signature did not verify")
	}
}

func TestParseAddressRoundTrip(t *testing.T) {
	addr, err := ParseAddress("0x00112233445566778899aabbccddeeff00112233")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	again, err := ParseAddress(addr.Hex())
	if err != nil {
		t.Fatalf("re-parse hex form: %v", err)
	}
	if addr != again {
		t.Fatalf("hex round trip changed the address")
	}
	if !strings.HasPrefix(addr.Hex(), "0x") {
		t.Fatalf("hex form should be 0x-prefixed")
	}
}

func TestParseAddressRejectsBadInput(t *testing.T) {
	for _, in := range []string{"", "0x1234", "not-hex", "0x" + strings.Repeat("ab", 21)} {
		if _, err := ParseAddress(in); err == nil {
			t.Fatalf("input %q should be rejected", in)
		}
	}
}
