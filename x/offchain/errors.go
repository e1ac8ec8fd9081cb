package offchain

import "github.com/iov-one/quorum/errors"

var (
	ErrMalformedMessage = errors.Register(1040, "malformed message")
	ErrNonceUsed        = errors.Register(1041, "nonce already used")
)
