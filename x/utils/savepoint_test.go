package utils

import (
	"context"
	"testing"

	"github.com/iov-one/quorum"
	"github.com/iov-one/quorum/errors"
	"github.com/iov-one/quorum/quorumtest"
	"github.com/iov-one/quorum/store"
	"github.com/stretchr/testify/require"
)

func TestSavepoint(t *testing.T) {
	// always written before calling the decorator
	ok, ov := []byte("demo"), []byte("data")
	// written by the handler
	nk, nv := []byte{1, 2, 3}, []byte{4, 5, 6}
	derr := errors.Wrap(errors.ErrState, "something went wrong")

	failing := func() quorum.Handler {
		return &quorumtest.Handler{WriteKey: nk, WriteValue: nv, CheckErr: derr, DeliverErr: derr}
	}
	passing := func() quorum.Handler {
		return &quorumtest.Handler{WriteKey: nk, WriteValue: nv}
	}

	cases := map[string]struct {
		save    Savepoint
		handler quorum.Handler
		check   bool
		wantErr bool
		written [][]byte
		missing [][]byte
	}{
		"disabled savepoint keeps writes of a failed check": {
			save:    NewSavepoint(),
			handler: failing(),
			check:   true,
			wantErr: true,
			written: [][]byte{ok, nk},
		},
		"check savepoint rolls back a failed check": {
			save:    NewSavepoint().OnCheck(),
			handler: failing(),
			check:   true,
			wantErr: true,
			written: [][]byte{ok},
			missing: [][]byte{nk},
		},
		"deliver savepoint rolls back a failed deliver": {
			save:    NewSavepoint().OnDeliver(),
			handler: failing(),
			wantErr: true,
			written: [][]byte{ok},
			missing: [][]byte{nk},
		},
		"double activation keeps both behaviours": {
			save:    NewSavepoint().OnDeliver().OnCheck(),
			handler: failing(),
			wantErr: true,
			written: [][]byte{ok},
			missing: [][]byte{nk},
		},
		"check savepoint does not affect deliver": {
			save:    NewSavepoint().OnCheck(),
			handler: failing(),
			wantErr: true,
			written: [][]byte{ok, nk},
		},
		"success is written through": {
			save:    NewSavepoint().OnCheck().OnDeliver(),
			handler: passing(),
			written: [][]byte{ok, nk},
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			ctx := context.Background()
			kv := store.MemStore()
			require.NoError(t, kv.Set(ok, ov))

			var err error
			if tc.check {
				_, err = tc.save.Check(ctx, kv, &quorumtest.Tx{}, tc.handler)
			} else {
				_, err = tc.save.Deliver(ctx, kv, &quorumtest.Tx{}, tc.handler)
			}
			if tc.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}

			for _, k := range tc.written {
				has, err := kv.Has(k)
				require.NoError(t, err)
				require.True(t, has, "%x", k)
			}
			for _, k := range tc.missing {
				has, err := kv.Has(k)
				require.NoError(t, err)
				require.False(t, has, "%x", k)
			}
		})
	}
}
