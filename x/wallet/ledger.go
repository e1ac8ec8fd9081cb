package wallet

import (
	"context"

	"github.com/iov-one/quorum"
	"github.com/iov-one/quorum/coin"
	"github.com/iov-one/quorum/errors"
	"github.com/iov-one/quorum/x/cash"
)

// Payout moves funds out of the wallet account. It is implemented by
// *cash.Controller.
type Payout interface {
	Pay(ctx context.Context, db quorum.KVStore, from, to quorum.Address, amount coin.Amount, payload []byte) error
	Balance(db quorum.ReadOnlyKVStore, addr quorum.Address) (coin.Amount, error)
}

var _ Payout = (*cash.Controller)(nil)

// Ledger implements every wallet operation on top of a store. It keeps no
// state of its own, so a single instance can serve any number of stores.
//
// Every mutating method validates in the same order: the caller must be an
// owner, the index must exist, the transaction must not be executed and
// finally the confirmation relation must allow the change.
type Ledger struct {
	payout   Payout
	registry RegistryBucket
	txs      TransactionBucket
	confirms ConfirmationBucket
	events   EventBucket
}

var _ cash.Receiver = (*Ledger)(nil)

// NewLedger returns a ledger paying out through given payout.
func NewLedger(payout Payout) *Ledger {
	return &Ledger{
		payout:   payout,
		registry: NewRegistryBucket(),
		txs:      NewTransactionBucket(),
		confirms: NewConfirmationBucket(),
		events:   NewEventBucket(),
	}
}

// Registry returns the owner registry stored in db.
func (l *Ledger) Registry(db quorum.ReadOnlyKVStore) (*Registry, error) {
	return l.registry.Load(db)
}

func (l *Ledger) authorize(db quorum.ReadOnlyKVStore, caller quorum.Address) (*Registry, error) {
	reg, err := l.registry.Load(db)
	if err != nil {
		return nil, errors.Wrap(err, "registry")
	}
	if !reg.IsOwner(caller) {
		return nil, errors.Wrapf(errors.ErrUnauthorized, "%s is not an owner", caller)
	}
	return reg, nil
}

// pending returns the transaction if the caller may act on it.
func (l *Ledger) pending(db quorum.ReadOnlyKVStore, caller quorum.Address, index uint64) (*Registry, *Transaction, error) {
	reg, err := l.authorize(db, caller)
	if err != nil {
		return nil, nil, err
	}
	tx, err := l.txs.Get(db, index)
	if err != nil {
		return nil, nil, err
	}
	if tx.Executed {
		return nil, nil, errors.Wrapf(ErrAlreadyExecuted, "transaction %d", index)
	}
	return reg, tx, nil
}

// Submit stores a new proposed transaction and returns its index. The
// wallet balance is not checked until execution.
func (l *Ledger) Submit(ctx context.Context, db quorum.KVStore, caller, recipient quorum.Address, amount coin.Amount, payload []byte) (uint64, error) {
	if _, err := l.authorize(db, caller); err != nil {
		return 0, err
	}
	if err := validRecipient(recipient); err != nil {
		return 0, errors.Wrap(err, "recipient")
	}
	if err := amount.Validate(); err != nil {
		return 0, err
	}
	if len(payload) > MaxPayloadLength {
		return 0, errors.Wrapf(errors.ErrInput, "payload of %d bytes exceeds %d", len(payload), MaxPayloadLength)
	}

	tx := Transaction{
		Recipient: recipient.Clone(),
		Amount:    amount,
		Payload:   append([]byte(nil), payload...),
		Submitter: caller.Clone(),
	}
	idx, err := l.txs.Append(db, &tx)
	if err != nil {
		return 0, err
	}
	err = l.events.Append(db, &Event{
		Type:    EventSubmitTransaction,
		Owner:   tx.Submitter,
		TxIndex: idx,
		To:      tx.Recipient,
		Amount:  amount,
		Data:    tx.Payload,
	})
	if err != nil {
		return 0, err
	}
	quorum.GetLogger(ctx).Debug("transaction submitted", "tx", idx, "to", recipient, "amount", amount)
	return idx, nil
}

// Confirm records the caller's approval of a pending transaction.
func (l *Ledger) Confirm(ctx context.Context, db quorum.KVStore, caller quorum.Address, index uint64) error {
	_, tx, err := l.pending(db, caller, index)
	if err != nil {
		return err
	}
	switch ok, err := l.confirms.Confirmed(db, index, caller); {
	case err != nil:
		return err
	case ok:
		return errors.Wrapf(ErrDuplicateConfirmation, "%s on transaction %d", caller, index)
	}

	if err := l.confirms.Add(db, index, caller); err != nil {
		return err
	}
	tx.Confirmations++
	if err := l.txs.Put(db, tx); err != nil {
		return err
	}
	err = l.events.Append(db, &Event{
		Type:    EventConfirmTransaction,
		Owner:   caller.Clone(),
		TxIndex: index,
	})
	if err != nil {
		return err
	}
	quorum.GetLogger(ctx).Debug("transaction confirmed", "tx", index, "owner", caller, "confirmations", tx.Confirmations)
	return nil
}

// Revoke withdraws the caller's approval of a pending transaction.
func (l *Ledger) Revoke(ctx context.Context, db quorum.KVStore, caller quorum.Address, index uint64) error {
	_, tx, err := l.pending(db, caller, index)
	if err != nil {
		return err
	}
	switch ok, err := l.confirms.Confirmed(db, index, caller); {
	case err != nil:
		return err
	case !ok:
		return errors.Wrapf(ErrNoConfirmation, "%s on transaction %d", caller, index)
	}

	if err := l.confirms.Remove(db, index, caller); err != nil {
		return err
	}
	tx.Confirmations--
	if err := l.txs.Put(db, tx); err != nil {
		return err
	}
	err = l.events.Append(db, &Event{
		Type:    EventRevokeConfirmation,
		Owner:   caller.Clone(),
		TxIndex: index,
	})
	if err != nil {
		return err
	}
	quorum.GetLogger(ctx).Debug("confirmation revoked", "tx", index, "owner", caller, "confirmations", tx.Confirmations)
	return nil
}

// Execute pays out a transaction that collected enough confirmations.
//
// The transaction is marked as executed before the payout is called, and
// both happen inside a savepoint of db. The payout observes the executed
// flag, so a nested Execute of the same index fails. If the payout fails,
// the savepoint is discarded and neither the flag nor any write done by
// the payout survives.
func (l *Ledger) Execute(ctx context.Context, db quorum.KVStore, caller quorum.Address, index uint64) error {
	reg, tx, err := l.pending(db, caller, index)
	if err != nil {
		return err
	}
	if tx.Confirmations < reg.Required() {
		return errors.Wrapf(ErrQuorumNotMet, "transaction %d has %d of %d confirmations", index, tx.Confirmations, reg.Required())
	}

	cstore, ok := db.(quorum.CacheableKVStore)
	if !ok {
		return errors.Wrapf(errors.ErrDatabase, "savepoint requires a cacheable store, got %T", db)
	}
	sp := cstore.CacheWrap()

	tx.Executed = true
	if err := l.txs.Put(sp, tx); err != nil {
		sp.Discard()
		return err
	}
	if err := l.payout.Pay(narrowScope(ctx, sp), sp, reg.Address(), tx.Recipient, tx.Amount, tx.Payload); err != nil {
		sp.Discard()
		quorum.GetLogger(ctx).Info("transaction payout failed", "tx", index, "err", err)
		return errors.Append(errors.Wrapf(ErrTransferFailed, "transaction %d", index), err)
	}
	err = l.events.Append(sp, &Event{
		Type:    EventExecuteTransaction,
		Owner:   caller.Clone(),
		TxIndex: index,
	})
	if err != nil {
		sp.Discard()
		return err
	}
	if err := sp.Write(); err != nil {
		return errors.Wrap(err, "savepoint")
	}
	quorum.GetLogger(ctx).Info("transaction executed", "tx", index, "to", tx.Recipient, "amount", tx.Amount)
	return nil
}

// Deposit moves funds from sender into the wallet account.
func (l *Ledger) Deposit(ctx context.Context, db quorum.KVStore, sender quorum.Address, amount coin.Amount) error {
	reg, err := l.registry.Load(db)
	if err != nil {
		return errors.Wrap(err, "registry")
	}
	if amount.IsZero() {
		return errors.Wrap(errors.ErrAmount, "zero deposit")
	}
	return l.payout.Pay(ctx, db, sender, reg.Address(), amount, nil)
}

// Receive records a deposit event for every non zero payment into the
// wallet account. Payments to other addresses are ignored, as are payments
// the wallet makes to itself and any payment made before the wallet was
// initialised.
func (l *Ledger) Receive(ctx context.Context, db quorum.KVStore, from, to quorum.Address, amount coin.Amount, payload []byte) error {
	if amount.IsZero() || from.Equals(to) {
		return nil
	}
	reg, err := l.registry.Load(db)
	switch {
	case errors.ErrNotFound.Is(err):
		return nil
	case err != nil:
		return err
	}
	if !to.Equals(reg.Address()) {
		return nil
	}

	balance, err := l.payout.Balance(db, to)
	if err != nil {
		return err
	}
	err = l.events.Append(db, &Event{
		Type:    EventDeposit,
		Sender:  from.Clone(),
		Amount:  amount,
		Balance: balance,
	})
	if err != nil {
		return err
	}
	quorum.GetLogger(ctx).Debug("deposit", "sender", from, "amount", amount, "balance", balance)
	return nil
}

// Transaction returns a copy of the transaction with given index.
func (l *Ledger) Transaction(db quorum.ReadOnlyKVStore, index uint64) (*Transaction, error) {
	return l.txs.Get(db, index)
}

// TransactionCount returns the number of transactions ever submitted.
func (l *Ledger) TransactionCount(db quorum.ReadOnlyKVStore) (uint64, error) {
	return l.txs.Count(db)
}

// IsConfirmed reports whether owner currently approves the transaction.
func (l *Ledger) IsConfirmed(db quorum.ReadOnlyKVStore, index uint64, owner quorum.Address) (bool, error) {
	if _, err := l.txs.Get(db, index); err != nil {
		return false, err
	}
	return l.confirms.Confirmed(db, index, owner)
}

// Confirmers lists the owners currently approving the transaction, in
// ascending address order.
func (l *Ledger) Confirmers(db quorum.ReadOnlyKVStore, index uint64) ([]quorum.Address, error) {
	if _, err := l.txs.Get(db, index); err != nil {
		return nil, err
	}
	return l.confirms.Owners(db, index)
}

// Balance returns the funds held by the wallet account.
func (l *Ledger) Balance(db quorum.ReadOnlyKVStore) (coin.Amount, error) {
	reg, err := l.registry.Load(db)
	if err != nil {
		return coin.Amount{}, errors.Wrap(err, "registry")
	}
	return l.payout.Balance(db, reg.Address())
}

// Events returns all events starting with given sequence.
func (l *Ledger) Events(db quorum.ReadOnlyKVStore, since uint64) ([]Event, error) {
	return l.events.Since(db, since)
}

// Record runs fn and returns the events it appended to db.
func (l *Ledger) Record(db quorum.ReadOnlyKVStore, fn func() error) ([]Event, error) {
	since, err := l.events.Count(db)
	if err != nil {
		return nil, err
	}
	if err := fn(); err != nil {
		return nil, err
	}
	return l.events.Since(db, since)
}
