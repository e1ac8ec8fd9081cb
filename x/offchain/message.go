package offchain

import (
	"encoding/hex"
	"encoding/json"
	"math/big"
	"strings"

	"github.com/iov-one/quorum"
	"github.com/iov-one/quorum/coin"
	"github.com/iov-one/quorum/crypto"
	"github.com/iov-one/quorum/errors"
)

// Message is a signed transfer intent in the form it is exchanged between
// owners.
type Message struct {
	To              quorum.Address
	Amount          coin.Amount
	Data            [DataSize]byte
	Nonce           [NonceSize]byte
	ContractAddress quorum.Address
	Signature       crypto.Signature
}

// NewSignedMessage encodes the transfer and signs it with given key.
func NewSignedMessage(signer crypto.Signer, to quorum.Address, amount coin.Amount, data, nonce []byte, engine quorum.Address) (*Message, error) {
	msg, err := newMessage(to, amount, data, nonce, engine)
	if err != nil {
		return nil, err
	}
	digest, err := msg.Digest()
	if err != nil {
		return nil, err
	}
	if msg.Signature, err = Sign(signer, digest); err != nil {
		return nil, errors.Wrap(err, "sign")
	}
	return msg, nil
}

func newMessage(to quorum.Address, amount coin.Amount, data, nonce []byte, engine quorum.Address) (*Message, error) {
	// Encoding validates every field.
	if _, err := Encode(to, amount, data, nonce, engine); err != nil {
		return nil, err
	}
	msg := Message{
		To:              to.Clone(),
		Amount:          amount,
		ContractAddress: engine.Clone(),
	}
	copy(msg.Data[:], leftPad(data, DataSize))
	copy(msg.Nonce[:], leftPad(nonce, NonceSize))
	return &msg, nil
}

// Decode parses an encoded transfer. The returned message is not signed.
func Decode(encoded []byte) (*Message, error) {
	if len(encoded) != EncodedSize {
		return nil, errors.Wrapf(ErrMalformedMessage, "%d bytes", len(encoded))
	}
	amount, err := coin.NewAmountFromBig(new(big.Int).SetBytes(encoded[20:52]))
	if err != nil {
		return nil, errors.Append(errors.Wrap(ErrMalformedMessage, "amount"), err)
	}
	return newMessage(
		quorum.Address(encoded[:20]),
		amount,
		encoded[52:54],
		encoded[54:86],
		quorum.Address(encoded[86:]),
	)
}

// Encode returns the signed bytes of the message.
func (m *Message) Encode() ([]byte, error) {
	return Encode(m.To, m.Amount, m.Data[:], m.Nonce[:], m.ContractAddress)
}

// Digest returns the hash the signature is made over.
func (m *Message) Digest() ([crypto.HashSize]byte, error) {
	raw, err := m.Encode()
	if err != nil {
		return [crypto.HashSize]byte{}, err
	}
	return Hash(raw), nil
}

// Signer recovers the address that signed the message.
func (m *Message) Signer() (quorum.Address, error) {
	digest, err := m.Digest()
	if err != nil {
		return nil, err
	}
	return RecoverSigner(digest, m.Signature)
}

type messageJSON struct {
	To              quorum.Address `json:"to"`
	Amount          coin.Amount    `json:"amount"`
	Nonce           string         `json:"nonce"`
	Data            string         `json:"data"`
	ContractAddress quorum.Address `json:"contractAddress"`
	R               string         `json:"r"`
	S               string         `json:"s"`
	V               uint8          `json:"v"`
}

// MarshalJSON renders fixed width fields as 0x prefixed hex and the amount
// as a decimal string.
func (m Message) MarshalJSON() ([]byte, error) {
	return json.Marshal(messageJSON{
		To:              m.To,
		Amount:          m.Amount,
		Nonce:           encodeHex(m.Nonce[:]),
		Data:            encodeHex(m.Data[:]),
		ContractAddress: m.ContractAddress,
		R:               encodeHex(m.Signature.R[:]),
		S:               encodeHex(m.Signature.S[:]),
		V:               m.Signature.V,
	})
}

// UnmarshalJSON accepts short hex values for the nonce and data and pads
// them. The recovery id may be given as 0 or 1.
func (m *Message) UnmarshalJSON(raw []byte) error {
	var j messageJSON
	if err := json.Unmarshal(raw, &j); err != nil {
		return errors.Wrapf(ErrMalformedMessage, "cannot decode json: %s", err)
	}
	data, err := decodeHex(j.Data, DataSize)
	if err != nil {
		return errors.Wrap(err, "data")
	}
	nonce, err := decodeHex(j.Nonce, NonceSize)
	if err != nil {
		return errors.Wrap(err, "nonce")
	}
	msg, err := newMessage(j.To, j.Amount, data, nonce, j.ContractAddress)
	if err != nil {
		return err
	}

	r, err := decodeHex(j.R, 32)
	if err != nil {
		return errors.Wrap(err, "r")
	}
	s, err := decodeHex(j.S, 32)
	if err != nil {
		return errors.Wrap(err, "s")
	}
	sig, err := crypto.SignatureFromBytes(append(append(r, s...), j.V))
	if err != nil {
		return errors.Append(errors.Wrap(ErrMalformedMessage, "signature"), err)
	}
	msg.Signature = sig
	*m = *msg
	return nil
}

func encodeHex(b []byte) string {
	return "0x" + hex.EncodeToString(b)
}

// decodeHex parses a 0x prefixed hex value of at most size bytes and left
// pads it to exactly size bytes.
func decodeHex(s string, size int) ([]byte, error) {
	s = strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	if len(s)%2 == 1 {
		s = "0" + s
	}
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, errors.Wrapf(ErrMalformedMessage, "invalid hex: %s", err)
	}
	if len(b) > size {
		return nil, errors.Wrapf(ErrMalformedMessage, "%d bytes exceed %d", len(b), size)
	}
	return leftPad(b, size), nil
}
