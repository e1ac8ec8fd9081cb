package wallet

import (
	"github.com/iov-one/quorum"
	"github.com/iov-one/quorum/coin"
	"github.com/iov-one/quorum/errors"
	"github.com/iov-one/quorum/orm"
)

const (
	transactionBucketName  = "wallet_tx"
	confirmationBucketName = "wallet_confirm"

	// MaxPayloadLength limits the opaque data attached to a transaction.
	MaxPayloadLength = 64 * 1024
)

// Transaction is a proposed transfer out of the wallet.
type Transaction struct {
	Index         uint64         `json:"index"`
	Recipient     quorum.Address `json:"recipient"`
	Amount        coin.Amount    `json:"amount"`
	Payload       []byte         `json:"payload,omitempty"`
	Confirmations uint32         `json:"confirmations"`
	Executed      bool           `json:"executed"`
	Submitter     quorum.Address `json:"submitter"`
}

var _ orm.Model = (*Transaction)(nil)

// Validate checks the transaction is well formed.
func (t *Transaction) Validate() error {
	var err error
	err = errors.AppendField(err, "Recipient", validRecipient(t.Recipient))
	err = errors.AppendField(err, "Amount", t.Amount.Validate())
	if len(t.Payload) > MaxPayloadLength {
		err = errors.AppendField(err, "Payload", errors.Wrapf(errors.ErrInput, "%d bytes", len(t.Payload)))
	}
	err = errors.AppendField(err, "Submitter", t.Submitter.Validate())
	return err
}

func validRecipient(a quorum.Address) error {
	if err := a.Validate(); err != nil {
		return err
	}
	if a.IsZero() {
		return errors.Wrap(errors.ErrInput, "zero address")
	}
	return nil
}

func txKey(index uint64) []byte {
	return orm.EncodeSequence(index)
}

func confirmationKey(index uint64, owner quorum.Address) []byte {
	return append(txKey(index), owner...)
}

// TransactionBucket stores transactions under their index. Indexes are
// handed out by a sequence and are never reused.
type TransactionBucket struct {
	orm.Bucket
	seq orm.Sequence
}

// NewTransactionBucket returns a bucket with the default name.
func NewTransactionBucket() TransactionBucket {
	b := orm.NewBucket(transactionBucketName)
	return TransactionBucket{
		Bucket: b,
		seq:    b.Sequence("id"),
	}
}

// Count returns the number of transactions ever submitted.
func (b TransactionBucket) Count(db quorum.ReadOnlyKVStore) (uint64, error) {
	return b.seq.Current(db)
}

// Append assigns the next index to the transaction and stores it.
func (b TransactionBucket) Append(db quorum.KVStore, tx *Transaction) (uint64, error) {
	idx, err := b.seq.NextVal(db)
	if err != nil {
		return 0, errors.Wrap(err, "transaction index")
	}
	tx.Index = idx
	if err := b.Save(db, txKey(idx), tx); err != nil {
		return 0, err
	}
	return idx, nil
}

// Get returns the transaction with given index, or ErrNotFound when the
// index was never handed out.
func (b TransactionBucket) Get(db quorum.ReadOnlyKVStore, index uint64) (*Transaction, error) {
	count, err := b.Count(db)
	if err != nil {
		return nil, err
	}
	if index >= count {
		return nil, errors.Wrapf(errors.ErrNotFound, "transaction %d of %d", index, count)
	}
	var tx Transaction
	if err := b.One(db, txKey(index), &tx); err != nil {
		return nil, err
	}
	return &tx, nil
}

// Put overwrites an existing transaction.
func (b TransactionBucket) Put(db quorum.KVStore, tx *Transaction) error {
	return b.Save(db, txKey(tx.Index), tx)
}

// DecodeTransaction decodes a transaction returned by a "/wallet/tx" query.
func DecodeTransaction(raw []byte) (*Transaction, error) {
	var tx Transaction
	if err := orm.Decode(raw, &tx); err != nil {
		return nil, err
	}
	return &tx, nil
}

// ConfirmationBucket holds the relation between transactions and the
// owners that currently approve them. The presence of a key is the
// approval.
type ConfirmationBucket struct {
	orm.Bucket
}

// NewConfirmationBucket returns a bucket with the default name.
func NewConfirmationBucket() ConfirmationBucket {
	return ConfirmationBucket{Bucket: orm.NewBucket(confirmationBucketName)}
}

// Confirmed reports whether owner confirmed the transaction.
func (b ConfirmationBucket) Confirmed(db quorum.ReadOnlyKVStore, index uint64, owner quorum.Address) (bool, error) {
	return b.Has(db, confirmationKey(index, owner))
}

// Add records the confirmation.
func (b ConfirmationBucket) Add(db quorum.KVStore, index uint64, owner quorum.Address) error {
	return b.SetRaw(db, confirmationKey(index, owner), []byte{1})
}

// Remove drops the confirmation.
func (b ConfirmationBucket) Remove(db quorum.KVStore, index uint64, owner quorum.Address) error {
	return b.Delete(db, confirmationKey(index, owner))
}

// Owners lists every owner confirming the transaction, in ascending
// address order.
func (b ConfirmationBucket) Owners(db quorum.ReadOnlyKVStore, index uint64) ([]quorum.Address, error) {
	prefix := txKey(index)
	keys, err := b.Keys(db, prefix)
	if err != nil {
		return nil, err
	}
	out := make([]quorum.Address, 0, len(keys))
	for _, k := range keys {
		out = append(out, quorum.Address(k[len(prefix):]).Clone())
	}
	return out, nil
}
