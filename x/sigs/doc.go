/*
Package sigs provides basic authentication middleware to verify the
signatures on the transaction, and maintain nonces for replay protection.

Signatures are recoverable secp256k1 signatures over the personal message
hash of the sign bytes. The signer address is recovered from the signature
itself, so a transaction does not carry public keys.
*/
package sigs
