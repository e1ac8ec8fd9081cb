package quorumtest

import (
	"context"
	"testing"

	"github.com/iov-one/quorum"
	"github.com/iov-one/quorum/quorumtest/assert"
)

func TestAuthUsingSignerAndSigners(t *testing.T) {
	a, b, c := NewAddress(), NewAddress(), NewAddress()
	auth := &Auth{Signer: a, Signers: []quorum.Address{b}}
	ctx := context.Background()

	assert.Equal(t, []quorum.Address{b, a}, auth.GetSigners(ctx))
	if !auth.HasAddress(ctx, a) || !auth.HasAddress(ctx, b) {
		t.Fatal("declared signer not found")
	}
	if auth.HasAddress(ctx, c) {
		t.Fatal("unexpected signer")
	}
}

func TestCtxAuth(t *testing.T) {
	a := NewAddress()
	auth := &CtxAuth{Key: "x"}
	ctx := context.Background()

	if got := auth.GetSigners(ctx); got != nil {
		t.Fatalf("want no signers, got %v", got)
	}
	ctx = auth.SetSigners(ctx, a)
	if !auth.HasAddress(ctx, a) {
		t.Fatal("signer not found in context")
	}
	other := &CtxAuth{Key: "y"}
	if other.HasAddress(ctx, a) {
		t.Fatal("signer visible under a different key")
	}
}

func TestNewAddressIsUnique(t *testing.T) {
	a, b := NewAddress(), NewAddress()
	assert.Nil(t, a.Validate())
	if a.Equals(b) {
		t.Fatal("two random keys share an address")
	}
}
