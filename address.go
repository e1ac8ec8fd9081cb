package quorum

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"strings"

	"github.com/iov-one/quorum/crypto/bech32"
	"github.com/iov-one/quorum/errors"
	"golang.org/x/crypto/sha3"
)

// AddressLength is the length of all addresses.
const AddressLength = 20

// Address identifies a principal: an owner, a recipient or the engine
// account itself. It is always AddressLength bytes long. An address with all
// bytes set to zero is the null principal and never a valid owner or
// recipient.
type Address []byte

// Equals checks if two addresses are the same
func (a Address) Equals(b Address) bool {
	return bytes.Equal(a, b)
}

// IsZero returns true for an empty address and for the null principal.
func (a Address) IsZero() bool {
	for _, b := range a {
		if b != 0 {
			return false
		}
	}
	return true
}

// Validate returns an error if the address is not the valid size
func (a Address) Validate() error {
	if len(a) != AddressLength {
		return errors.Wrapf(errors.ErrInput, "address length %d", len(a))
	}
	return nil
}

// Clone returns a copy that does not share the underlying array.
func (a Address) Clone() Address {
	if a == nil {
		return nil
	}
	return append(Address(nil), a...)
}

// String returns the 0x prefixed hex representation with the mixed case
// checksum applied.
func (a Address) String() string {
	if len(a) == 0 {
		return "(nil)"
	}
	raw := hex.EncodeToString(a)

	h := sha3.NewLegacyKeccak256()
	h.Write([]byte(raw))
	sum := h.Sum(nil)

	out := []byte(raw)
	for i, c := range out {
		if c < 'a' || c > 'f' {
			continue
		}
		nibble := sum[i/2]
		if i%2 == 0 {
			nibble >>= 4
		}
		if nibble&0x0f >= 8 {
			out[i] = c - 'a' + 'A'
		}
	}
	return "0x" + string(out)
}

// MarshalJSON provides a checksummed hex representation for JSON, to
// override the standard base64 []byte encoding
func (a Address) MarshalJSON() ([]byte, error) {
	var s string
	if len(a) != 0 {
		s = a.String()
	}
	return json.Marshal(s)
}

func (a *Address) UnmarshalJSON(raw []byte) error {
	var enc string
	if err := json.Unmarshal(raw, &enc); err != nil {
		return errors.Wrap(err, "cannot decode json")
	}
	// No value zero the address.
	if len(enc) == 0 {
		*a = nil
		return nil
	}
	addr, err := ParseAddress(enc)
	if err != nil {
		return err
	}
	*a = addr
	return nil
}

// ParseAddress decodes a human readable address. Accepted formats are hex
// (with or without 0x prefix, any case) and bech32 with an explicit
// "bech32:" prefix.
func ParseAddress(enc string) (Address, error) {
	var addr Address
	if chunks := strings.SplitN(enc, ":", 2); len(chunks) == 2 {
		if chunks[0] != "bech32" {
			return nil, errors.Wrapf(errors.ErrType, "unknown format %q", chunks[0])
		}
		_, payload, err := bech32.Decode(chunks[1])
		if err != nil {
			return nil, errors.Wrapf(errors.ErrInput, "deserialize bech32: %s", err)
		}
		addr = payload
	} else {
		enc = strings.TrimPrefix(strings.TrimPrefix(enc, "0x"), "0X")
		val, err := hex.DecodeString(enc)
		if err != nil {
			return nil, errors.Wrap(errors.ErrInput, "cannot decode hex")
		}
		addr = val
	}
	if err := addr.Validate(); err != nil {
		return nil, err
	}
	return addr, nil
}

// MustParseAddress is like ParseAddress, but panics instead of returning
// errors. Only use when you control the input, ie. in tests.
func MustParseAddress(enc string) Address {
	addr, err := ParseAddress(enc)
	if err != nil {
		panic(err)
	}
	return addr
}

// NewAddress hashes and truncates into the proper size. The last bytes of
// the keccak256 digest are used.
func NewAddress(data []byte) Address {
	h := sha3.NewLegacyKeccak256()
	h.Write(data)
	sum := h.Sum(nil)
	return Address(sum[len(sum)-AddressLength:])
}

// Bech32 returns the bech32 representation using given human readable part.
func (a Address) Bech32(hrp string) (string, error) {
	if err := a.Validate(); err != nil {
		return "", err
	}
	return bech32.Encode(hrp, a)
}
