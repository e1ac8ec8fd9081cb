package cash

import (
	"github.com/iov-one/quorum"
	"github.com/iov-one/quorum/coin"
	"github.com/iov-one/quorum/errors"
	amino "github.com/tendermint/go-amino"
)

const (
	pathSendMsg = "cash/send"

	sendTxCost int64 = 100

	maxMemoSize int = 128
)

// SendMsg moves funds from the signing source to the destination.
type SendMsg struct {
	Source      quorum.Address `json:"source"`
	Destination quorum.Address `json:"destination"`
	Amount      coin.Amount    `json:"amount"`
	Memo        string         `json:"memo,omitempty"`
}

var _ quorum.Msg = (*SendMsg)(nil)

// Path returns the routing path for this message
func (SendMsg) Path() string {
	return pathSendMsg
}

// Validate makes sure that this is sensible
func (m *SendMsg) Validate() error {
	var err error
	if m.Amount.IsZero() {
		err = errors.AppendField(err, "Amount", errors.ErrAmount)
	} else {
		err = errors.AppendField(err, "Amount", m.Amount.Validate())
	}
	err = errors.AppendField(err, "Source", m.Source.Validate())
	err = errors.AppendField(err, "Destination", m.Destination.Validate())
	if len(m.Memo) > maxMemoSize {
		err = errors.AppendField(err, "Memo", errors.ErrInput)
	}
	return err
}

// RegisterCodec registers the messages of this package with the
// transaction codec.
func RegisterCodec(cdc *amino.Codec) {
	cdc.RegisterConcrete(&SendMsg{}, pathSendMsg, nil)
}
