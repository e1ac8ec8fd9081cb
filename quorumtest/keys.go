package quorumtest

import (
	"crypto/rand"
	"testing"

	"github.com/iov-one/quorum"
	"github.com/iov-one/quorum/crypto"
)

// NewKey returns a fresh secp256k1 private key.
func NewKey() *crypto.PrivateKey {
	key, err := crypto.GenPrivateKey()
	if err != nil {
		panic(err)
	}
	return key
}

// NewAddress returns the address of a fresh secp256k1 key.
func NewAddress() quorum.Address {
	return NewKey().Address()
}

// RandomAddr returns a valid random address generated on the fly.
func RandomAddr(t testing.TB) quorum.Address {
	t.Helper()
	raw := make([]byte, quorum.AddressLength)
	if _, err := rand.Read(raw); err != nil {
		t.Fatalf("cannot generate a random address: %s", err)
	}
	a := quorum.Address(raw)
	if err := a.Validate(); err != nil {
		t.Fatalf("generated address is not valid: %s", err)
	}
	return a
}

// ParseAddress decodes an address in any format quorum.ParseAddress accepts
// and fails the test on error.
func ParseAddress(t testing.TB, encoded string) quorum.Address {
	t.Helper()
	a, err := quorum.ParseAddress(encoded)
	if err != nil {
		t.Fatalf("cannot parse address %q: %s", encoded, err)
	}
	return a
}
