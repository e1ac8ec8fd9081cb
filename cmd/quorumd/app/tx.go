package app

import (
	"github.com/iov-one/quorum"
	"github.com/iov-one/quorum/errors"
	"github.com/iov-one/quorum/x/cash"
	"github.com/iov-one/quorum/x/sigs"
	"github.com/iov-one/quorum/x/wallet"
	amino "github.com/tendermint/go-amino"
)

var cdc = MakeCodec()

// MakeCodec returns a codec that knows every message this application
// routes.
func MakeCodec() *amino.Codec {
	c := amino.NewCodec()
	c.RegisterInterface((*quorum.Msg)(nil), nil)
	cash.RegisterCodec(c)
	wallet.RegisterCodec(c)
	return c
}

// Tx is the transaction format of quorumd: a single message and the
// signatures authorizing it.
type Tx struct {
	Msg        quorum.Msg
	Signatures []*sigs.StdSignature
}

var _ quorum.Tx = (*Tx)(nil)
var _ sigs.SignedTx = (*Tx)(nil)

// GetMsg returns the single message of the transaction.
func (tx *Tx) GetMsg() (quorum.Msg, error) {
	if tx.Msg == nil {
		return nil, errors.Wrap(errors.ErrState, "missing message")
	}
	return tx.Msg, nil
}

// GetSignatures returns the signatures of the signers.
func (tx *Tx) GetSignatures() []*sigs.StdSignature {
	return tx.Signatures
}

// GetSignBytes returns the encoded transaction without signatures.
func (tx *Tx) GetSignBytes() ([]byte, error) {
	unsigned := Tx{Msg: tx.Msg}
	raw, err := cdc.MarshalBinaryBare(unsigned)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "encode: %s", err)
	}
	return raw, nil
}

// Marshal returns the wire format of the transaction.
func (tx *Tx) Marshal() ([]byte, error) {
	raw, err := cdc.MarshalBinaryBare(*tx)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "encode: %s", err)
	}
	return raw, nil
}

// TxDecoder parses the wire format produced by Marshal.
func TxDecoder(raw []byte) (quorum.Tx, error) {
	var tx Tx
	if err := cdc.UnmarshalBinaryBare(raw, &tx); err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "decode: %s", err)
	}
	return &tx, nil
}
