/*
Package coin provides Amount, the unsigned 256 bit quantity used for every
value transfer.

An Amount never holds a negative value nor a value that does not fit in 256
bits. All arithmetic returns an error instead of silently wrapping.
*/
package coin

import (
	"encoding/json"
	"math/big"
	"strings"

	"github.com/iov-one/quorum/errors"
)

// AmountSize is the width, in bytes, of the big-endian encoding of an amount.
const AmountSize = 32

var maxAmount = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 8*AmountSize), big.NewInt(1))

// Amount is an unsigned 256 bit integer. The zero value is a valid amount of
// zero.
type Amount struct {
	i *big.Int
}

// NewAmount returns an amount of the given value.
func NewAmount(v uint64) Amount {
	return Amount{i: new(big.Int).SetUint64(v)}
}

// NewAmountFromBig returns an amount holding a copy of given value. It fails
// if the value is negative or wider than 256 bits.
func NewAmountFromBig(v *big.Int) (Amount, error) {
	if v == nil {
		return Amount{}, nil
	}
	a := Amount{i: new(big.Int).Set(v)}
	if err := a.Validate(); err != nil {
		return Amount{}, err
	}
	return a, nil
}

// ParseAmount decodes the decimal representation of an amount.
func ParseAmount(s string) (Amount, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Amount{}, errors.Wrap(errors.ErrAmount, "empty")
	}
	v, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return Amount{}, errors.Wrapf(errors.ErrAmount, "not a decimal number: %q", s)
	}
	return NewAmountFromBig(v)
}

// MustParseAmount is like ParseAmount but panics on error. Use it only with
// constant input.
func MustParseAmount(s string) Amount {
	a, err := ParseAmount(s)
	if err != nil {
		panic(err)
	}
	return a
}

func (a Amount) int() *big.Int {
	if a.i == nil {
		return new(big.Int)
	}
	return a.i
}

// BigInt returns a copy of the value.
func (a Amount) BigInt() *big.Int {
	return new(big.Int).Set(a.int())
}

// Validate returns an error if the amount is negative or does not fit in
// 256 bits.
func (a Amount) Validate() error {
	v := a.int()
	if v.Sign() < 0 {
		return errors.Wrap(errors.ErrAmount, "negative")
	}
	if v.Cmp(maxAmount) > 0 {
		return errors.Wrap(errors.ErrOverflow, "amount exceeds 256 bits")
	}
	return nil
}

// IsZero returns true if the amount is zero.
func (a Amount) IsZero() bool {
	return a.int().Sign() == 0
}

// Compare returns -1 if a < b, 0 if a == b and 1 if a > b.
func (a Amount) Compare(b Amount) int {
	return a.int().Cmp(b.int())
}

// Equals returns true if both amounts hold the same value.
func (a Amount) Equals(b Amount) bool {
	return a.Compare(b) == 0
}

// Add returns the sum of both amounts, failing with ErrOverflow if the
// result does not fit in 256 bits.
func (a Amount) Add(b Amount) (Amount, error) {
	sum := new(big.Int).Add(a.int(), b.int())
	if sum.Cmp(maxAmount) > 0 {
		return Amount{}, errors.Wrap(errors.ErrOverflow, "sum exceeds 256 bits")
	}
	return Amount{i: sum}, nil
}

// Sub returns a - b, failing with ErrAmount if b is greater than a.
func (a Amount) Sub(b Amount) (Amount, error) {
	if a.Compare(b) < 0 {
		return Amount{}, errors.Wrapf(errors.ErrAmount, "cannot subtract %s from %s", b, a)
	}
	return Amount{i: new(big.Int).Sub(a.int(), b.int())}, nil
}

// Bytes32 returns the big-endian encoding left-padded to 32 bytes.
func (a Amount) Bytes32() [AmountSize]byte {
	var out [AmountSize]byte
	raw := a.int().Bytes()
	copy(out[AmountSize-len(raw):], raw)
	return out
}

// String returns the decimal representation.
func (a Amount) String() string {
	return a.int().String()
}

// MarshalJSON encodes the amount as a decimal string, so that values above
// 2^53 survive JavaScript clients.
func (a Amount) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.String())
}

// UnmarshalJSON accepts both a decimal string and a JSON number.
func (a *Amount) UnmarshalJSON(raw []byte) error {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		var n json.Number
		if err := json.Unmarshal(raw, &n); err != nil {
			return errors.Wrap(errors.ErrAmount, "neither a string nor a number")
		}
		s = n.String()
	}
	v, err := ParseAmount(s)
	if err != nil {
		return err
	}
	*a = v
	return nil
}

// Bytes returns the shortest big-endian encoding of the amount. Zero is
// encoded as an empty slice.
func (a Amount) Bytes() []byte {
	return a.int().Bytes()
}

// AmountFromBytes decodes the output of Bytes or Bytes32.
func AmountFromBytes(b []byte) (Amount, error) {
	if len(b) > AmountSize {
		return Amount{}, errors.Wrapf(errors.ErrOverflow, "amount of %d bytes", len(b))
	}
	return NewAmountFromBig(new(big.Int).SetBytes(b))
}

// MarshalAmino defines the binary representation used by the codec.
func (a Amount) MarshalAmino() (string, error) {
	return a.String(), nil
}

// UnmarshalAmino decodes the representation produced by MarshalAmino.
func (a *Amount) UnmarshalAmino(s string) error {
	v, err := ParseAmount(s)
	if err != nil {
		return err
	}
	*a = v
	return nil
}
