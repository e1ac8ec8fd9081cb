package sigs

import (
	"github.com/iov-one/quorum"
	"github.com/iov-one/quorum/errors"
	"github.com/iov-one/quorum/orm"
)

// BucketName is where we store the accounts
const BucketName = "sigs"

// maxSequenceValue is the greatest nonce a JavaScript client can represent:
// Number.MAX_SAFE_INTEGER = 2^53 - 1.
const maxSequenceValue = (1 << 53) - 1

// UserData is the signing state of a single address.
type UserData struct {
	Sequence int64
}

var _ orm.Model = (*UserData)(nil)

// Validate ensures the sequence is in range.
func (u *UserData) Validate() error {
	if u.Sequence < 0 || u.Sequence > maxSequenceValue {
		return errors.Field("Sequence", ErrInvalidSequence, "out of range: %d", u.Sequence)
	}
	return nil
}

// CheckAndIncrementSequence implements check and increment operation.
// If current sequence value is the same as given expected value then it is
// incremented. Otherwise an error is returned.
func (u *UserData) CheckAndIncrementSequence(expected int64) error {
	if u.Sequence != expected {
		return errors.Wrapf(ErrInvalidSequence, "mismatch expected %d, got %d", u.Sequence, expected)
	}
	next := u.Sequence + 1
	if next > maxSequenceValue {
		return errors.Wrap(errors.ErrOverflow, "sequence out of range")
	}
	u.Sequence = next
	return nil
}

// Bucket stores UserData under the signer address.
type Bucket struct {
	orm.Bucket
}

// NewBucket creates the proper bucket for this extension
func NewBucket() Bucket {
	return Bucket{Bucket: orm.NewBucket(BucketName)}
}

// GetOrCreate returns the signing state of an address. An address that
// never signed starts at sequence zero.
func (b Bucket) GetOrCreate(db quorum.ReadOnlyKVStore, addr quorum.Address) (*UserData, error) {
	var u UserData
	switch err := b.One(db, addr, &u); {
	case errors.ErrNotFound.Is(err):
		return &UserData{}, nil
	case err != nil:
		return nil, err
	}
	return &u, nil
}

// NextNonce returns the sequence value that should be used by the next
// signature of given address.
func NextNonce(db quorum.ReadOnlyKVStore, signer quorum.Address) (int64, error) {
	u, err := NewBucket().GetOrCreate(db, signer)
	if err != nil {
		return 0, errors.Wrap(err, "bucket get")
	}
	return u.Sequence, nil
}
