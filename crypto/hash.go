package crypto

import (
	"strconv"

	"golang.org/x/crypto/sha3"
)

// HashSize is the size of a keccak256 digest.
const HashSize = 32

// personalPrefix is prepended to a message before it is signed, so that a
// signature can never be replayed as a signature of a raw transaction.
const personalPrefix = "\x19Ethereum Signed Message:\n"

// Keccak256 returns the keccak256 digest of all given chunks concatenated.
func Keccak256(data ...[]byte) []byte {
	h := sha3.NewLegacyKeccak256()
	for _, b := range data {
		h.Write(b)
	}
	return h.Sum(nil)
}

// PersonalHash returns the digest that is signed for a personal message:
// keccak256("\x19Ethereum Signed Message:\n" ‖ len(msg) ‖ msg).
func PersonalHash(msg []byte) []byte {
	prefix := personalPrefix + strconv.Itoa(len(msg))
	return Keccak256([]byte(prefix), msg)
}
