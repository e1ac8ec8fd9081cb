package cash

import (
	"github.com/iov-one/quorum"
	"github.com/iov-one/quorum/coin"
	"github.com/iov-one/quorum/errors"
	"github.com/iov-one/quorum/orm"
)

// BucketName is where we store the balances
const BucketName = "cash"

// Balance is the amount of tokens held by a single address.
type Balance struct {
	Amount coin.Amount
}

var _ orm.Model = (*Balance)(nil)

// Validate ensures the balance is a valid amount.
func (b *Balance) Validate() error {
	return errors.Wrap(b.Amount.Validate(), "balance")
}

// Bucket is a type-safe wrapper around orm.Bucket, keyed by address.
type Bucket struct {
	orm.Bucket
}

// NewBucket initializes a cash.Bucket with default name
func NewBucket() Bucket {
	return Bucket{Bucket: orm.NewBucket(BucketName)}
}

// Get returns the balance of given address. An address that was never
// funded has a zero balance.
func (b Bucket) Get(db quorum.ReadOnlyKVStore, addr quorum.Address) (coin.Amount, error) {
	var bal Balance
	switch err := b.One(db, addr, &bal); {
	case errors.ErrNotFound.Is(err):
		return coin.Amount{}, nil
	case err != nil:
		return coin.Amount{}, err
	}
	return bal.Amount, nil
}

// Set stores the balance of given address.
func (b Bucket) Set(db quorum.KVStore, addr quorum.Address, amount coin.Amount) error {
	if err := addr.Validate(); err != nil {
		return errors.Wrap(err, "account")
	}
	return b.Save(db, addr, &Balance{Amount: amount})
}
