package sigs

import (
	"context"
	"testing"

	"github.com/iov-one/quorum"
	"github.com/iov-one/quorum/quorumtest"
	"github.com/iov-one/quorum/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecorator(t *testing.T) {
	kv := store.MemStore()
	checkKv := kv.CacheWrap()
	signers := new(SigCheckHandler)
	d := NewDecorator()
	chainID := "deco-rate"
	ctx := quorum.WithChainID(context.Background(), chainID)

	priv := quorumtest.NewKey()
	want := []quorum.Address{priv.Address()}

	tx := NewStdTx([]byte("art"))
	sig, err := SignTx(priv, tx, chainID, 0)
	require.NoError(t, err)
	sig1, err := SignTx(priv, tx, chainID, 1)
	require.NoError(t, err)

	deliver := func(dec quorum.Decorator, my quorum.Tx) error {
		_, err := dec.Deliver(ctx, kv, my, signers)
		return err
	}
	check := func(dec quorum.Decorator, my quorum.Tx) error {
		_, err := dec.Check(ctx, checkKv, my, signers)
		return err
	}

	for i, fn := range []func(quorum.Decorator, quorum.Tx) error{check, deliver} {
		// no sigs
		tx.Signatures = nil
		assert.Error(t, fn(d, tx), "%d", i)

		// one
		tx.Signatures = []*StdSignature{sig}
		assert.NoError(t, fn(d, tx), "%d", i)
		assert.Equal(t, want, signers.Signers)

		// replay
		assert.Error(t, fn(d, tx), "%d", i)

		// allowing none
		ad := d.AllowMissingSigs()
		tx.Signatures = nil
		assert.NoError(t, fn(ad, tx), "%d", i)
		assert.Empty(t, signers.Signers)

		// allowing, with next sequence
		tx.Signatures = []*StdSignature{sig1}
		assert.NoError(t, fn(ad, tx), "%d", i)
		assert.Equal(t, want, signers.Signers)
	}

	// unsigned transaction types are refused unless allowed
	plain := &quorumtest.Tx{Msg: &quorumtest.Msg{RoutePath: "test/plain"}}
	assert.Error(t, deliver(d, plain))
	assert.NoError(t, deliver(d.AllowMissingSigs(), plain))
}
