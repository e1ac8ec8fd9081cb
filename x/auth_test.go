package x

import (
	"context"
	"testing"

	"github.com/iov-one/quorum"
	"github.com/iov-one/quorum/quorumtest"
	"github.com/iov-one/quorum/quorumtest/assert"
)

func TestAuth(t *testing.T) {
	a := quorumtest.NewAddress()
	b := quorumtest.NewAddress()
	c := quorumtest.NewAddress()

	ctx1 := &quorumtest.CtxAuth{Key: "foo"}
	ctx2 := &quorumtest.CtxAuth{Key: "bar"}

	cases := map[string]struct {
		ctx          context.Context
		auth         Authenticator
		mainSigner   quorum.Address
		wantInCtx    quorum.Address
		wantNotInCtx quorum.Address
		wantAll      []quorum.Address
	}{
		"empty context": {
			ctx:          context.Background(),
			auth:         &quorumtest.Auth{},
			wantNotInCtx: b,
		},
		"signer a": {
			ctx:          context.Background(),
			auth:         &quorumtest.Auth{Signer: a},
			mainSigner:   a,
			wantInCtx:    a,
			wantNotInCtx: b,
			wantAll:      []quorum.Address{a},
		},
		"chained signers keep order": {
			ctx: context.Background(),
			auth: ChainAuth(
				&quorumtest.Auth{Signer: b},
				&quorumtest.Auth{Signer: a}),
			mainSigner:   b,
			wantInCtx:    b,
			wantNotInCtx: c,
			wantAll:      []quorum.Address{b, a},
		},
		"ctxAuth checks what is set by same key": {
			ctx:          ctx1.SetSigners(context.Background(), a, b),
			auth:         ctx1,
			mainSigner:   a,
			wantInCtx:    b,
			wantNotInCtx: c,
			wantAll:      []quorum.Address{a, b},
		},
		"ctxAuth with different key sees nothing": {
			ctx:          ctx1.SetSigners(context.Background(), a, b),
			auth:         ctx2,
			wantNotInCtx: a,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			assert.Equal(t, tc.mainSigner, MainSigner(tc.ctx, tc.auth))
			if tc.wantInCtx != nil && !tc.auth.HasAddress(tc.ctx, tc.wantInCtx) {
				t.Fatal("address that was expected in context not found")
			}
			if tc.wantNotInCtx != nil && tc.auth.HasAddress(tc.ctx, tc.wantNotInCtx) {
				t.Fatal("address that was expected not to be in context found")
			}

			all := tc.auth.GetSigners(tc.ctx)
			assert.Equal(t, tc.wantAll, all)

			if !HasAllAddresses(tc.ctx, tc.auth, all) {
				t.Fatal("has all addresses check failed")
			}
			if HasAllAddresses(tc.ctx, tc.auth, append(all, tc.wantNotInCtx)) {
				t.Fatal("has all addresses succeeded after adding a missing address")
			}
			if len(all) > 0 {
				if !HasNAddresses(tc.ctx, tc.auth, all, len(all)-1) {
					t.Fatal("want address check of a subset to succeed")
				}
				if HasNAddresses(tc.ctx, tc.auth, all, len(all)+1) {
					t.Fatal("want address check of a superset to fail")
				}
			}
		})
	}
}
