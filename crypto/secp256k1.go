package crypto

import (
	"bytes"
	"encoding/hex"
	"strings"

	"github.com/btcsuite/btcd/btcec"
	"github.com/iov-one/quorum"
	"github.com/iov-one/quorum/errors"
)

// SignatureSize is the length of a serialized signature.
const SignatureSize = 65

// PrivateKey is a secp256k1 signing key.
type PrivateKey struct {
	key *btcec.PrivateKey
}

// GenPrivateKey returns a new random private key.
func GenPrivateKey() (*PrivateKey, error) {
	key, err := btcec.NewPrivateKey(btcec.S256())
	if err != nil {
		return nil, errors.Wrapf(errors.ErrHuman, "cannot generate key: %s", err)
	}
	return &PrivateKey{key: key}, nil
}

// PrivateKeyFromBytes loads a 32 bytes long raw private key.
func PrivateKeyFromBytes(raw []byte) (*PrivateKey, error) {
	if len(raw) != 32 {
		return nil, errors.Wrapf(errors.ErrInput, "private key must be 32 bytes, got %d", len(raw))
	}
	if bytes.Equal(raw, make([]byte, 32)) {
		return nil, errors.Wrap(errors.ErrInput, "zero private key")
	}
	key, _ := btcec.PrivKeyFromBytes(btcec.S256(), raw)
	if key.D.Cmp(btcec.S256().N) >= 0 {
		return nil, errors.Wrap(errors.ErrInput, "private key out of range")
	}
	return &PrivateKey{key: key}, nil
}

// PrivateKeyFromHex loads a hex encoded, optionally 0x prefixed, private key.
func PrivateKeyFromHex(s string) (*PrivateKey, error) {
	raw, err := hex.DecodeString(strings.TrimPrefix(s, "0x"))
	if err != nil {
		return nil, errors.Wrap(errors.ErrInput, "private key is not hex")
	}
	return PrivateKeyFromBytes(raw)
}

// Bytes returns the raw 32 bytes long key.
func (p *PrivateKey) Bytes() []byte {
	raw := p.key.Serialize()
	out := make([]byte, 32)
	copy(out[32-len(raw):], raw)
	return out
}

// PublicKey returns the corresponding PublicKey
func (p *PrivateKey) PublicKey() *PublicKey {
	return &PublicKey{key: p.key.PubKey()}
}

// Address returns the address controlled by this key.
func (p *PrivateKey) Address() quorum.Address {
	return p.PublicKey().Address()
}

// Sign signs a 32 bytes long digest. The digest is signed as it is, use
// SignPersonal to sign a personal message.
func (p *PrivateKey) Sign(digest []byte) (Signature, error) {
	if len(digest) != HashSize {
		return Signature{}, errors.Wrapf(errors.ErrInput, "digest must be %d bytes, got %d", HashSize, len(digest))
	}
	compact, err := btcec.SignCompact(btcec.S256(), p.key, digest, false)
	if err != nil {
		return Signature{}, errors.Wrapf(errors.ErrHuman, "cannot sign: %s", err)
	}
	// Compact format is v ‖ r ‖ s.
	var sig Signature
	sig.V = compact[0]
	copy(sig.R[:], compact[1:33])
	copy(sig.S[:], compact[33:65])
	return sig, nil
}

// SignPersonal signs given message prefixed as a personal message.
func (p *PrivateKey) SignPersonal(msg []byte) (Signature, error) {
	return p.Sign(PersonalHash(msg))
}

// PublicKey is a secp256k1 verification key.
type PublicKey struct {
	key *btcec.PublicKey
}

// PublicKeyFromBytes parses a compressed or uncompressed public key.
func PublicKeyFromBytes(raw []byte) (*PublicKey, error) {
	key, err := btcec.ParsePubKey(raw, btcec.S256())
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "invalid public key: %s", err)
	}
	return &PublicKey{key: key}, nil
}

// Bytes returns the 65 bytes long uncompressed serialization.
func (p *PublicKey) Bytes() []byte {
	return p.key.SerializeUncompressed()
}

// Address returns the last 20 bytes of the keccak256 digest of the
// uncompressed key without its format byte.
func (p *PublicKey) Address() quorum.Address {
	h := Keccak256(p.Bytes()[1:])
	return quorum.Address(h[HashSize-quorum.AddressLength:])
}

// Equals returns true if both keys are the same.
func (p *PublicKey) Equals(o *PublicKey) bool {
	if p == nil || o == nil {
		return p == o
	}
	return p.key.IsEqual(o.key)
}

// Signature is a recoverable secp256k1 signature.
type Signature struct {
	R [32]byte
	S [32]byte
	// V is the recovery id, 27 or 28.
	V byte
}

// SignatureFromBytes parses r ‖ s ‖ v. A recovery id of 0 or 1 is accepted
// and normalized to 27 or 28.
func SignatureFromBytes(raw []byte) (Signature, error) {
	if len(raw) != SignatureSize {
		return Signature{}, errors.Wrapf(errors.ErrInput, "signature must be %d bytes, got %d", SignatureSize, len(raw))
	}
	var sig Signature
	copy(sig.R[:], raw[:32])
	copy(sig.S[:], raw[32:64])
	sig.V = raw[64]
	if sig.V < 27 {
		sig.V += 27
	}
	if err := sig.Validate(); err != nil {
		return Signature{}, err
	}
	return sig, nil
}

// Validate checks the recovery id.
func (s Signature) Validate() error {
	if s.V != 27 && s.V != 28 {
		return errors.Wrapf(errors.ErrInput, "invalid recovery id %d", s.V)
	}
	return nil
}

// Bytes returns r ‖ s ‖ v.
func (s Signature) Bytes() []byte {
	out := make([]byte, 0, SignatureSize)
	out = append(out, s.R[:]...)
	out = append(out, s.S[:]...)
	return append(out, s.V)
}

// Recover returns the public key that produced given signature of the
// digest.
func Recover(digest []byte, sig Signature) (*PublicKey, error) {
	if len(digest) != HashSize {
		return nil, errors.Wrapf(errors.ErrInput, "digest must be %d bytes, got %d", HashSize, len(digest))
	}
	if err := sig.Validate(); err != nil {
		return nil, err
	}
	compact := make([]byte, 0, SignatureSize)
	compact = append(compact, sig.V)
	compact = append(compact, sig.R[:]...)
	compact = append(compact, sig.S[:]...)
	key, _, err := btcec.RecoverCompact(btcec.S256(), compact, digest)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrUnauthorized, "cannot recover signer: %s", err)
	}
	return &PublicKey{key: key}, nil
}

// RecoverAddress returns the address of the key that produced given
// signature of the digest.
func RecoverAddress(digest []byte, sig Signature) (quorum.Address, error) {
	pub, err := Recover(digest, sig)
	if err != nil {
		return nil, err
	}
	return pub.Address(), nil
}

// Signer is the functionality we use from a private key.
// No serializing to support hardware devices as well.
type Signer interface {
	Sign(digest []byte) (Signature, error)
	Address() quorum.Address
}

var _ Signer = (*PrivateKey)(nil)
