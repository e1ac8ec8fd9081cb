package wallet

import (
	"github.com/iov-one/quorum"
	"github.com/iov-one/quorum/coin"
	"github.com/iov-one/quorum/errors"
	amino "github.com/tendermint/go-amino"
)

const (
	pathSubmitMsg  = "wallet/submit"
	pathConfirmMsg = "wallet/confirm"
	pathRevokeMsg  = "wallet/revoke"
	pathExecuteMsg = "wallet/execute"
	pathDepositMsg = "wallet/deposit"
)

// SubmitMsg proposes a transfer out of the wallet. The signer becomes the
// submitter.
type SubmitMsg struct {
	Recipient quorum.Address `json:"recipient"`
	Amount    coin.Amount    `json:"amount"`
	Payload   []byte         `json:"payload,omitempty"`
}

var _ quorum.Msg = (*SubmitMsg)(nil)

// Path returns the routing path for this message
func (SubmitMsg) Path() string {
	return pathSubmitMsg
}

// Validate checks the message is well formed. Ownership is checked by the
// handler.
func (m *SubmitMsg) Validate() error {
	var err error
	err = errors.AppendField(err, "Recipient", validRecipient(m.Recipient))
	err = errors.AppendField(err, "Amount", m.Amount.Validate())
	if len(m.Payload) > MaxPayloadLength {
		err = errors.AppendField(err, "Payload", errors.ErrInput)
	}
	return err
}

// ConfirmMsg approves a pending transaction.
type ConfirmMsg struct {
	TxIndex uint64 `json:"txIndex"`
}

var _ quorum.Msg = (*ConfirmMsg)(nil)

func (ConfirmMsg) Path() string {
	return pathConfirmMsg
}

// Validate always passes, any index is well formed.
func (m *ConfirmMsg) Validate() error {
	return nil
}

// RevokeMsg withdraws an approval.
type RevokeMsg struct {
	TxIndex uint64 `json:"txIndex"`
}

var _ quorum.Msg = (*RevokeMsg)(nil)

func (RevokeMsg) Path() string {
	return pathRevokeMsg
}

func (m *RevokeMsg) Validate() error {
	return nil
}

// ExecuteMsg pays out a transaction that has enough confirmations.
type ExecuteMsg struct {
	TxIndex uint64 `json:"txIndex"`
}

var _ quorum.Msg = (*ExecuteMsg)(nil)

func (ExecuteMsg) Path() string {
	return pathExecuteMsg
}

func (m *ExecuteMsg) Validate() error {
	return nil
}

// DepositMsg moves funds from the signer into the wallet account.
type DepositMsg struct {
	Amount coin.Amount `json:"amount"`
}

var _ quorum.Msg = (*DepositMsg)(nil)

func (DepositMsg) Path() string {
	return pathDepositMsg
}

func (m *DepositMsg) Validate() error {
	if m.Amount.IsZero() {
		return errors.Field("Amount", errors.ErrAmount, "zero deposit")
	}
	return errors.Field("Amount", m.Amount.Validate(), "invalid")
}

// RegisterCodec registers the messages of this package with the
// transaction codec.
func RegisterCodec(cdc *amino.Codec) {
	cdc.RegisterConcrete(&SubmitMsg{}, pathSubmitMsg, nil)
	cdc.RegisterConcrete(&ConfirmMsg{}, pathConfirmMsg, nil)
	cdc.RegisterConcrete(&RevokeMsg{}, pathRevokeMsg, nil)
	cdc.RegisterConcrete(&ExecuteMsg{}, pathExecuteMsg, nil)
	cdc.RegisterConcrete(&DepositMsg{}, pathDepositMsg, nil)
}
