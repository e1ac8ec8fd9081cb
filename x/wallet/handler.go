package wallet

import (
	"context"

	"github.com/iov-one/quorum"
	"github.com/iov-one/quorum/errors"
	"github.com/iov-one/quorum/orm"
	"github.com/iov-one/quorum/x"
)

const (
	submitCost  int64 = 100
	confirmCost int64 = 50
	executeCost int64 = 200
	depositCost int64 = 100
)

// RegisterRoutes will instantiate and register all handlers in this
// package. The ledger must use the same payout the cash handlers use.
func RegisterRoutes(r quorum.Registry, auth x.Authenticator, ledger *Ledger) {
	r.Handle(pathSubmitMsg, SubmitHandler{auth: auth, ledger: ledger})
	r.Handle(pathConfirmMsg, ConfirmHandler{auth: auth, ledger: ledger})
	r.Handle(pathRevokeMsg, RevokeHandler{auth: auth, ledger: ledger})
	r.Handle(pathExecuteMsg, ExecuteHandler{auth: auth, ledger: ledger})
	r.Handle(pathDepositMsg, DepositHandler{auth: auth, ledger: ledger})
}

// RegisterQuery exposes the wallet buckets:
//
//   /wallet/tx             transactions by 8 byte big endian index
//   /wallet/confirmations  index ‖ owner, use prefix queries by index
//   /wallet/registry       the owner registry under "registry"
//   /wallet/events         events by 8 byte big endian sequence
func RegisterQuery(qr quorum.QueryRouter) {
	NewTransactionBucket().Register("wallet/tx", qr)
	NewConfirmationBucket().Register("wallet/confirmations", qr)
	NewRegistryBucket().Register("wallet/registry", qr)
	NewEventBucket().Register("wallet/events", qr)
}

// signer returns the main signer of the transaction.
func signer(ctx context.Context, auth x.Authenticator) (quorum.Address, error) {
	caller := x.MainSigner(ctx, auth)
	if caller == nil {
		return nil, errors.Wrap(errors.ErrUnauthorized, "missing signature")
	}
	return caller, nil
}

// owner returns the main signer if it is one of the wallet owners.
func owner(ctx context.Context, db quorum.ReadOnlyKVStore, auth x.Authenticator, ledger *Ledger) (quorum.Address, error) {
	caller, err := signer(ctx, auth)
	if err != nil {
		return nil, err
	}
	if _, err := ledger.authorize(db, caller); err != nil {
		return nil, err
	}
	return caller, nil
}

func deliverResult(events []Event, data []byte) *quorum.DeliverResult {
	return &quorum.DeliverResult{
		Data: data,
		Tags: Tags(events),
	}
}

// SubmitHandler proposes new transactions.
type SubmitHandler struct {
	auth   x.Authenticator
	ledger *Ledger
}

var _ quorum.Handler = SubmitHandler{}

func (h SubmitHandler) Check(ctx context.Context, db quorum.KVStore, tx quorum.Tx) (*quorum.CheckResult, error) {
	var msg *SubmitMsg
	if err := quorum.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	if _, err := owner(ctx, db, h.auth, h.ledger); err != nil {
		return nil, err
	}
	return &quorum.CheckResult{GasAllocated: submitCost}, nil
}

// Deliver stores the transaction and returns its index, 8 bytes big
// endian, as the result data.
func (h SubmitHandler) Deliver(ctx context.Context, db quorum.KVStore, tx quorum.Tx) (*quorum.DeliverResult, error) {
	var msg *SubmitMsg
	if err := quorum.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	caller, err := signer(ctx, h.auth)
	if err != nil {
		return nil, err
	}
	var idx uint64
	events, err := h.ledger.Record(db, func() error {
		var err error
		idx, err = h.ledger.Submit(ctx, db, caller, msg.Recipient, msg.Amount, msg.Payload)
		return err
	})
	if err != nil {
		return nil, err
	}
	return deliverResult(events, orm.EncodeSequence(idx)), nil
}

// ConfirmHandler approves transactions.
type ConfirmHandler struct {
	auth   x.Authenticator
	ledger *Ledger
}

var _ quorum.Handler = ConfirmHandler{}

func (h ConfirmHandler) Check(ctx context.Context, db quorum.KVStore, tx quorum.Tx) (*quorum.CheckResult, error) {
	var msg *ConfirmMsg
	if err := quorum.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	if _, err := owner(ctx, db, h.auth, h.ledger); err != nil {
		return nil, err
	}
	return &quorum.CheckResult{GasAllocated: confirmCost}, nil
}

func (h ConfirmHandler) Deliver(ctx context.Context, db quorum.KVStore, tx quorum.Tx) (*quorum.DeliverResult, error) {
	var msg *ConfirmMsg
	if err := quorum.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	caller, err := signer(ctx, h.auth)
	if err != nil {
		return nil, err
	}
	events, err := h.ledger.Record(db, func() error {
		return h.ledger.Confirm(ctx, db, caller, msg.TxIndex)
	})
	if err != nil {
		return nil, err
	}
	return deliverResult(events, nil), nil
}

// RevokeHandler withdraws approvals.
type RevokeHandler struct {
	auth   x.Authenticator
	ledger *Ledger
}

var _ quorum.Handler = RevokeHandler{}

func (h RevokeHandler) Check(ctx context.Context, db quorum.KVStore, tx quorum.Tx) (*quorum.CheckResult, error) {
	var msg *RevokeMsg
	if err := quorum.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	if _, err := owner(ctx, db, h.auth, h.ledger); err != nil {
		return nil, err
	}
	return &quorum.CheckResult{GasAllocated: confirmCost}, nil
}

func (h RevokeHandler) Deliver(ctx context.Context, db quorum.KVStore, tx quorum.Tx) (*quorum.DeliverResult, error) {
	var msg *RevokeMsg
	if err := quorum.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	caller, err := signer(ctx, h.auth)
	if err != nil {
		return nil, err
	}
	events, err := h.ledger.Record(db, func() error {
		return h.ledger.Revoke(ctx, db, caller, msg.TxIndex)
	})
	if err != nil {
		return nil, err
	}
	return deliverResult(events, nil), nil
}

// ExecuteHandler pays out confirmed transactions.
type ExecuteHandler struct {
	auth   x.Authenticator
	ledger *Ledger
}

var _ quorum.Handler = ExecuteHandler{}

func (h ExecuteHandler) Check(ctx context.Context, db quorum.KVStore, tx quorum.Tx) (*quorum.CheckResult, error) {
	var msg *ExecuteMsg
	if err := quorum.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	if _, err := owner(ctx, db, h.auth, h.ledger); err != nil {
		return nil, err
	}
	return &quorum.CheckResult{GasAllocated: executeCost}, nil
}

func (h ExecuteHandler) Deliver(ctx context.Context, db quorum.KVStore, tx quorum.Tx) (*quorum.DeliverResult, error) {
	var msg *ExecuteMsg
	if err := quorum.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	caller, err := signer(ctx, h.auth)
	if err != nil {
		return nil, err
	}
	events, err := h.ledger.Record(db, func() error {
		return h.ledger.Execute(ctx, db, caller, msg.TxIndex)
	})
	if err != nil {
		return nil, err
	}
	return deliverResult(events, nil), nil
}

// DepositHandler funds the wallet from the signer's account.
type DepositHandler struct {
	auth   x.Authenticator
	ledger *Ledger
}

var _ quorum.Handler = DepositHandler{}

func (h DepositHandler) Check(ctx context.Context, db quorum.KVStore, tx quorum.Tx) (*quorum.CheckResult, error) {
	var msg *DepositMsg
	if err := quorum.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	if _, err := signer(ctx, h.auth); err != nil {
		return nil, err
	}
	return &quorum.CheckResult{GasAllocated: depositCost}, nil
}

func (h DepositHandler) Deliver(ctx context.Context, db quorum.KVStore, tx quorum.Tx) (*quorum.DeliverResult, error) {
	var msg *DepositMsg
	if err := quorum.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	sender, err := signer(ctx, h.auth)
	if err != nil {
		return nil, err
	}
	events, err := h.ledger.Record(db, func() error {
		return h.ledger.Deposit(ctx, db, sender, msg.Amount)
	})
	if err != nil {
		return nil, err
	}
	return deliverResult(events, nil), nil
}
