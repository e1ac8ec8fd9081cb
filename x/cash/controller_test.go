package cash

import (
	"context"
	"testing"

	"github.com/iov-one/quorum"
	"github.com/iov-one/quorum/coin"
	"github.com/iov-one/quorum/errors"
	"github.com/iov-one/quorum/quorumtest"
	"github.com/iov-one/quorum/quorumtest/assert"
	"github.com/iov-one/quorum/store"
	"github.com/stretchr/testify/require"
)

func TestMoveCoins(t *testing.T) {
	a := quorumtest.RandomAddr(t)
	b := quorumtest.RandomAddr(t)

	cases := map[string]struct {
		issue   coin.Amount
		move    coin.Amount
		src     quorum.Address
		dst     quorum.Address
		wantErr *errors.Error
		wantA   coin.Amount
		wantB   coin.Amount
	}{
		"move part of the funds": {
			issue: coin.NewAmount(100),
			move:  coin.NewAmount(40),
			src:   a,
			dst:   b,
			wantA: coin.NewAmount(60),
			wantB: coin.NewAmount(40),
		},
		"move all funds": {
			issue: coin.NewAmount(100),
			move:  coin.NewAmount(100),
			src:   a,
			dst:   b,
			wantA: coin.NewAmount(0),
			wantB: coin.NewAmount(100),
		},
		"insufficient funds": {
			issue:   coin.NewAmount(10),
			move:    coin.NewAmount(11),
			src:     a,
			dst:     b,
			wantErr: ErrInsufficientFunds,
			wantA:   coin.NewAmount(10),
		},
		"unfunded account": {
			move:    coin.NewAmount(1),
			src:     a,
			dst:     b,
			wantErr: ErrInsufficientFunds,
		},
		"zero amount is a no-op": {
			issue: coin.NewAmount(5),
			move:  coin.NewAmount(0),
			src:   a,
			dst:   b,
			wantA: coin.NewAmount(5),
		},
		"self transfer keeps the balance": {
			issue: coin.NewAmount(5),
			move:  coin.NewAmount(5),
			src:   a,
			dst:   a,
			wantA: coin.NewAmount(5),
		},
		"invalid destination": {
			issue:   coin.NewAmount(5),
			move:    coin.NewAmount(1),
			src:     a,
			dst:     quorum.Address{1, 2, 3},
			wantErr: errors.ErrInput,
			wantA:   coin.NewAmount(5),
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			db := store.MemStore()
			c := NewController(NewBucket())
			require.NoError(t, c.IssueCoins(db, a, tc.issue))

			err := c.MoveCoins(db, tc.src, tc.dst, tc.move)
			if tc.wantErr != nil {
				assert.IsErr(t, tc.wantErr, err)
			} else {
				require.NoError(t, err)
			}

			gotA, err := c.Balance(db, a)
			require.NoError(t, err)
			gotB, err := c.Balance(db, b)
			require.NoError(t, err)
			require.True(t, tc.wantA.Equals(gotA), "want %s, got %s", tc.wantA, gotA)
			require.True(t, tc.wantB.Equals(gotB), "want %s, got %s", tc.wantB, gotB)
		})
	}
}

func TestIssueCoinsOverflow(t *testing.T) {
	db := store.MemStore()
	c := NewController(NewBucket())
	a := quorumtest.RandomAddr(t)

	max := coin.MustParseAmount("115792089237316195423570985008687907853269984665640564039457584007913129639935")
	require.NoError(t, c.IssueCoins(db, a, max))
	err := c.IssueCoins(db, a, coin.NewAmount(1))
	assert.IsErr(t, errors.ErrOverflow, err)
}

// recordingReceiver records payments made to a single address.
type recordingReceiver struct {
	addr    quorum.Address
	calls   int
	payload []byte
	err     error
}

func (r *recordingReceiver) Receive(ctx context.Context, db quorum.KVStore, from, to quorum.Address, amount coin.Amount, payload []byte) error {
	if !to.Equals(r.addr) {
		return nil
	}
	r.calls++
	r.payload = payload
	return r.err
}

func TestPayNotifiesReceiver(t *testing.T) {
	db := store.MemStore()
	c := NewController(NewBucket())
	a := quorumtest.RandomAddr(t)
	b := quorumtest.RandomAddr(t)
	other := quorumtest.RandomAddr(t)

	r := &recordingReceiver{addr: b}
	c.AddReceiver(r)

	require.NoError(t, c.IssueCoins(db, a, coin.NewAmount(10)))

	require.NoError(t, c.Pay(context.Background(), db, a, b, coin.NewAmount(3), []byte("hello")))
	require.Equal(t, 1, r.calls)
	require.Equal(t, []byte("hello"), r.payload)

	// payload only delivery
	require.NoError(t, c.Pay(context.Background(), db, a, b, coin.Amount{}, []byte("ping")))
	require.Equal(t, 2, r.calls)

	// payment to an address nobody listens to
	require.NoError(t, c.Pay(context.Background(), db, a, other, coin.NewAmount(1), nil))
	require.Equal(t, 2, r.calls)

	// a failing receiver fails the payment, insufficient funds never
	// reach the receiver
	r.err = errors.Wrap(errors.ErrState, "refused")
	err := c.Pay(context.Background(), db, a, b, coin.NewAmount(1), nil)
	assert.IsErr(t, errors.ErrState, err)
	err = c.Pay(context.Background(), db, a, b, coin.NewAmount(1000), nil)
	assert.IsErr(t, ErrInsufficientFunds, err)
	require.Equal(t, 3, r.calls)
}

func TestBalanceWireFormat(t *testing.T) {
	raw, err := (&Balance{Amount: coin.NewAmount(5)}).Marshal()
	require.NoError(t, err)
	require.Equal(t, []byte{0x0a, 0x01, 0x05}, raw)

	var b Balance
	require.NoError(t, b.Unmarshal(raw))
	require.Equal(t, "5", b.Amount.String())

	// A zero balance has no fields set.
	raw, err = (&Balance{}).Marshal()
	require.NoError(t, err)
	require.Empty(t, raw)
	require.NoError(t, b.Unmarshal(raw))
	require.True(t, b.Amount.IsZero())
}
