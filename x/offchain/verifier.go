package offchain

import (
	"github.com/iov-one/quorum"
	"github.com/iov-one/quorum/errors"
	"github.com/iov-one/quorum/orm"
)

const nonceBucketName = "offchain_nonce"

// OwnerSet is the part of a wallet registry needed to verify messages.
// *wallet.Registry implements it.
type OwnerSet interface {
	IsOwner(quorum.Address) bool
	Address() quorum.Address
}

// NonceBucket remembers every (wallet, nonce) pair that was redeemed.
type NonceBucket struct {
	orm.Bucket
}

// NewNonceBucket returns a bucket with the default name.
func NewNonceBucket() NonceBucket {
	return NonceBucket{Bucket: orm.NewBucket(nonceBucketName)}
}

func nonceKey(engine quorum.Address, nonce [NonceSize]byte) []byte {
	return append(engine.Clone(), nonce[:]...)
}

// Used reports whether the nonce was already consumed for given wallet.
func (b NonceBucket) Used(db quorum.ReadOnlyKVStore, engine quorum.Address, nonce [NonceSize]byte) (bool, error) {
	return b.Has(db, nonceKey(engine, nonce))
}

// Consume marks the nonce as used. It fails with ErrNonceUsed if it was
// consumed before.
func (b NonceBucket) Consume(db quorum.KVStore, engine quorum.Address, nonce [NonceSize]byte) error {
	switch used, err := b.Used(db, engine, nonce); {
	case err != nil:
		return err
	case used:
		return errors.Wrapf(ErrNonceUsed, "nonce %X", nonce)
	}
	return b.SetRaw(db, nonceKey(engine, nonce), []byte{1})
}

// Verifier checks messages addressed to one wallet.
type Verifier struct {
	Owners OwnerSet
	nonces NonceBucket
}

// NewVerifier returns a verifier accepting messages signed by any of the
// owners.
func NewVerifier(owners OwnerSet) *Verifier {
	return &Verifier{
		Owners: owners,
		nonces: NewNonceBucket(),
	}
}

// Verify returns the owner that signed the message and consumes its nonce.
// A message may be redeemed only once.
func (v *Verifier) Verify(db quorum.KVStore, msg *Message) (quorum.Address, error) {
	engine := v.Owners.Address()
	if !msg.ContractAddress.Equals(engine) {
		return nil, errors.Wrapf(ErrMalformedMessage, "message for %s, not %s", msg.ContractAddress, engine)
	}
	signer, err := msg.Signer()
	if err != nil {
		return nil, err
	}
	if !v.Owners.IsOwner(signer) {
		return nil, errors.Wrapf(errors.ErrUnauthorized, "signer %s is not an owner", signer)
	}
	if err := v.nonces.Consume(db, engine, msg.Nonce); err != nil {
		return nil, err
	}
	return signer, nil
}

// RegisterQuery exposes consumed nonces under "/offchain/nonces", keyed by
// wallet address followed by the nonce.
func RegisterQuery(qr quorum.QueryRouter) {
	NewNonceBucket().Register("offchain/nonces", qr)
}
