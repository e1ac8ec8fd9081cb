package cash

import (
	"context"

	"github.com/iov-one/quorum"
	"github.com/iov-one/quorum/coin"
	"github.com/iov-one/quorum/errors"
)

// Receiver is notified after every payment. Each receiver decides by the
// destination address whether the payment concerns it. Returning an error
// fails the payment and, together with the caller's savepoint, rolls back
// the transfer.
//
// A receiver may call back into whoever made the payment, for example a
// wallet engine, but only with the ctx it was given. That context carries
// the running call. A call made with any other context waits for the
// running call to finish, which never happens while the receiver runs.
type Receiver interface {
	Receive(ctx context.Context, db quorum.KVStore, from, to quorum.Address, amount coin.Amount, payload []byte) error
}

// Controller moves funds between addresses.
//
// Receivers must be added before the controller is used; the list is not
// guarded for concurrent modification.
type Controller struct {
	bucket    Bucket
	receivers []Receiver
}

// NewController returns a controller storing balances in given bucket.
func NewController(bucket Bucket) *Controller {
	return &Controller{bucket: bucket}
}

// AddReceiver attaches a payment hook. Receivers are notified in the order
// they were added.
func (c *Controller) AddReceiver(r Receiver) {
	c.receivers = append(c.receivers, r)
}

// Balance returns the current balance of an address.
func (c *Controller) Balance(db quorum.ReadOnlyKVStore, addr quorum.Address) (coin.Amount, error) {
	return c.bucket.Get(db, addr)
}

// MoveCoins moves the given amount from src to dst. It fails if src does
// not hold enough funds. Moving a zero amount is a valid no-op.
func (c *Controller) MoveCoins(db quorum.KVStore, src, dst quorum.Address, amount coin.Amount) error {
	if err := amount.Validate(); err != nil {
		return err
	}
	if err := dst.Validate(); err != nil {
		return errors.Wrap(err, "destination")
	}

	have, err := c.bucket.Get(db, src)
	if err != nil {
		return err
	}
	left, err := have.Sub(amount)
	if err != nil {
		return errors.Wrapf(ErrInsufficientFunds, "%s holds %s, needs %s", src, have, amount)
	}
	if amount.IsZero() || src.Equals(dst) {
		return nil
	}

	got, err := c.bucket.Get(db, dst)
	if err != nil {
		return err
	}
	sum, err := got.Add(amount)
	if err != nil {
		return errors.Wrap(err, "destination balance")
	}

	if err := c.bucket.Set(db, src, left); err != nil {
		return err
	}
	return c.bucket.Set(db, dst, sum)
}

// IssueCoins adds the given amount to the destination balance out of thin
// air. Used by genesis and tests.
func (c *Controller) IssueCoins(db quorum.KVStore, dst quorum.Address, amount coin.Amount) error {
	if err := amount.Validate(); err != nil {
		return err
	}
	have, err := c.bucket.Get(db, dst)
	if err != nil {
		return err
	}
	sum, err := have.Add(amount)
	if err != nil {
		return err
	}
	return c.bucket.Set(db, dst, sum)
}

// Pay moves funds like MoveCoins and then hands the payload to every
// receiver. A zero amount delivers only the payload.
func (c *Controller) Pay(ctx context.Context, db quorum.KVStore, from, to quorum.Address, amount coin.Amount, payload []byte) error {
	if err := c.MoveCoins(db, from, to, amount); err != nil {
		return err
	}
	for _, r := range c.receivers {
		if err := r.Receive(ctx, db, from, to, amount, payload); err != nil {
			return err
		}
	}
	return nil
}
