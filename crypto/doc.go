/*
Package crypto implements the secp256k1 keys and recoverable signatures used
to authenticate owners, together with the keccak256 hashing helpers.

A signature is 65 bytes: r (32) ‖ s (32) ‖ v (1), with v being 27 or 28. The
signer address is recovered from the signature, never transmitted.
*/
package crypto
