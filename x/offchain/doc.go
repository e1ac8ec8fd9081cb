/*
Package offchain implements signed transfer intents that can be passed
around outside of the chain and verified later.

A transfer is encoded into a fixed 106 bytes layout:

	recipient    20 bytes
	amount       32 bytes, big endian
	data          2 bytes, left padded
	nonce        32 bytes, left padded
	wallet       20 bytes

The keccak256 digest of that encoding is signed as a personal message, so
any secp256k1 key holder can produce an approval with common wallet
software and the wallet owner that signed it can be recovered from the
signature.
*/
package offchain
