package offchain

import (
	"github.com/iov-one/quorum"
	"github.com/iov-one/quorum/coin"
	"github.com/iov-one/quorum/crypto"
	"github.com/iov-one/quorum/errors"
)

const (
	// DataSize is the width of the data field.
	DataSize = 2
	// NonceSize is the width of the nonce field.
	NonceSize = 32
	// EncodedSize is the length of an encoded transfer.
	EncodedSize = quorum.AddressLength + coin.AmountSize + DataSize + NonceSize + quorum.AddressLength
)

// Encode serializes a transfer intent. Data and nonce are left padded with
// zeros to their fixed width. A value wider than its slot is rejected, it
// is never truncated.
func Encode(to quorum.Address, amount coin.Amount, data, nonce []byte, engine quorum.Address) ([]byte, error) {
	if len(to) != quorum.AddressLength {
		return nil, errors.Wrapf(ErrMalformedMessage, "recipient of %d bytes", len(to))
	}
	if err := amount.Validate(); err != nil {
		return nil, errors.Append(errors.Wrap(ErrMalformedMessage, "amount"), err)
	}
	if len(data) > DataSize {
		return nil, errors.Wrapf(ErrMalformedMessage, "payload too long: %d bytes", len(data))
	}
	if len(nonce) > NonceSize {
		return nil, errors.Wrapf(ErrMalformedMessage, "nonce of %d bytes", len(nonce))
	}
	if len(engine) != quorum.AddressLength {
		return nil, errors.Wrapf(ErrMalformedMessage, "wallet address of %d bytes", len(engine))
	}

	out := make([]byte, 0, EncodedSize)
	out = append(out, to...)
	a := amount.Bytes32()
	out = append(out, a[:]...)
	out = append(out, leftPad(data, DataSize)...)
	out = append(out, leftPad(nonce, NonceSize)...)
	return append(out, engine...), nil
}

func leftPad(b []byte, size int) []byte {
	out := make([]byte, size)
	copy(out[size-len(b):], b)
	return out
}

// Hash returns the keccak256 digest of an encoded transfer.
func Hash(encoded []byte) [crypto.HashSize]byte {
	var h [crypto.HashSize]byte
	copy(h[:], crypto.Keccak256(encoded))
	return h
}

// Sign signs the digest as a personal message, that is the digest
// prefixed with "\x19Ethereum Signed Message:\n32" and hashed again.
func Sign(signer crypto.Signer, digest [crypto.HashSize]byte) (crypto.Signature, error) {
	return signer.Sign(crypto.PersonalHash(digest[:]))
}

// RecoverSigner returns the address that produced sig with Sign.
func RecoverSigner(digest [crypto.HashSize]byte, sig crypto.Signature) (quorum.Address, error) {
	return crypto.RecoverAddress(crypto.PersonalHash(digest[:]), sig)
}
