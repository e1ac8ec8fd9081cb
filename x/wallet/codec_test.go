package wallet

import (
	"bytes"
	"testing"

	"github.com/iov-one/quorum"
	"github.com/iov-one/quorum/coin"
	"github.com/iov-one/quorum/errors"
	"github.com/iov-one/quorum/orm"
	"github.com/iov-one/quorum/quorumtest"
	"github.com/iov-one/quorum/store"
	"github.com/stretchr/testify/require"
)

func TestTransactionWireFormat(t *testing.T) {
	recipient := quorum.Address(bytes.Repeat([]byte{1}, quorum.AddressLength))
	submitter := quorum.Address(bytes.Repeat([]byte{2}, quorum.AddressLength))
	tx := Transaction{
		Index:         3,
		Recipient:     recipient,
		Amount:        coin.NewAmount(300),
		Payload:       []byte("rent"),
		Confirmations: 2,
		Executed:      true,
		Submitter:     submitter,
	}

	var want []byte
	want = append(want, 0x08, 0x03)
	want = append(append(want, 0x12, 0x14), recipient...)
	want = append(want, 0x1a, 0x02, 0x01, 0x2c)
	want = append(append(want, 0x22, 0x04), "rent"...)
	want = append(want, 0x28, 0x02)
	want = append(want, 0x30, 0x01)
	want = append(append(want, 0x3a, 0x14), submitter...)

	raw, err := tx.Marshal()
	require.NoError(t, err)
	require.Equal(t, want, raw)

	var got Transaction
	require.NoError(t, got.Unmarshal(raw))
	require.Equal(t, uint64(3), got.Index)
	require.Equal(t, recipient, got.Recipient)
	require.Equal(t, "300", got.Amount.String())
	require.Equal(t, []byte("rent"), got.Payload)
	require.Equal(t, uint32(2), got.Confirmations)
	require.True(t, got.Executed)
	require.Equal(t, submitter, got.Submitter)
}

func TestModelsThroughBuckets(t *testing.T) {
	db := store.MemStore()
	owners := []quorum.Address{quorumtest.NewAddress(), quorumtest.NewAddress()}
	reg, err := NewRegistry(owners, 2, nil)
	require.NoError(t, err)

	require.NoError(t, InitRegistry(db, reg))
	loaded, err := LoadRegistry(db)
	require.NoError(t, err)
	require.True(t, reg.Equals(loaded))

	txs := NewTransactionBucket()
	idx, err := txs.Append(db, &Transaction{
		Recipient: quorumtest.NewAddress(),
		Amount:    coin.MustParseAmount("115792089237316195423570985008687907853269984665640564039457584007913129639935"),
		Submitter: owners[0],
	})
	require.NoError(t, err)
	tx, err := txs.Get(db, idx)
	require.NoError(t, err)
	require.Equal(t, "115792089237316195423570985008687907853269984665640564039457584007913129639935", tx.Amount.String())
	require.Nil(t, tx.Payload)

	events := NewEventBucket()
	require.NoError(t, events.Append(db, &Event{
		Type:    EventDeposit,
		Sender:  owners[1],
		Amount:  coin.NewAmount(7),
		Balance: coin.NewAmount(9),
	}))
	got, err := events.Since(db, 0)
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, EventDeposit, got[0].Type)
	require.Equal(t, owners[1], got[0].Sender)
	require.Nil(t, got[0].Owner)
	require.Equal(t, "7", got[0].Amount.String())
	require.Equal(t, "9", got[0].Balance.String())
}

func TestDecodeCorruptedModels(t *testing.T) {
	cases := map[string]struct {
		raw  []byte
		dest orm.Model
	}{
		"truncated transaction": {
			raw:  []byte{0x12, 0x14, 0x01},
			dest: &Transaction{},
		},
		"amount wider than 256 bits": {
			raw:  append([]byte{0x1a, 0x21}, bytes.Repeat([]byte{0xff}, 33)...),
			dest: &Transaction{},
		},
		"truncated event": {
			raw:  []byte{0x12, 0x05, 'D'},
			dest: &Event{},
		},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			err := orm.Decode(tc.raw, tc.dest)
			require.Truef(t, errors.ErrModel.Is(err), "unexpected error %+v", err)
		})
	}
}
