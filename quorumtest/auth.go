package quorumtest

import (
	"context"
	"fmt"

	"github.com/iov-one/quorum"
)

// Auth is a mock implementing x.Authenticator interface.
//
// This structure authenticates any of referenced addresses. You can use
// either Signer or Signers (or both) attributes. Signers come first when
// both are set.
type Auth struct {
	// Signer represents an authentication of a single signer.
	Signer quorum.Address

	// Signers represents an authentication of multiple signers.
	Signers []quorum.Address
}

func (a *Auth) GetSigners(context.Context) []quorum.Address {
	if a.Signer != nil {
		res := make([]quorum.Address, 0, len(a.Signers)+1)
		res = append(res, a.Signers...)
		return append(res, a.Signer)
	}
	return a.Signers
}

func (a *Auth) HasAddress(ctx context.Context, addr quorum.Address) bool {
	for _, s := range a.GetSigners(ctx) {
		if addr.Equals(s) {
			return true
		}
	}
	return false
}

// CtxAuth is a mock implementing x.Authenticator interface.
//
// This implementation is using context to store and retrieve signers.
type CtxAuth struct {
	// Key used to set and retrieve signers from the context.
	Key string
}

type ctxAuthKey string

func (a *CtxAuth) SetSigners(ctx context.Context, signers ...quorum.Address) context.Context {
	return context.WithValue(ctx, ctxAuthKey(a.Key), signers)
}

func (a *CtxAuth) GetSigners(ctx context.Context) []quorum.Address {
	val := ctx.Value(ctxAuthKey(a.Key))
	if val == nil {
		return nil
	}
	signers, ok := val.([]quorum.Address)
	if !ok {
		panic(fmt.Sprintf("instead of []quorum.Address got %T", val))
	}
	return signers
}

func (a *CtxAuth) HasAddress(ctx context.Context, addr quorum.Address) bool {
	for _, s := range a.GetSigners(ctx) {
		if addr.Equals(s) {
			return true
		}
	}
	return false
}
