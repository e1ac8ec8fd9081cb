package sigs

import "github.com/iov-one/quorum/errors"

// ErrInvalidSequence is returned when a signature sequence does not match
// the next expected value of the signer.
var ErrInvalidSequence = errors.Register(120, "invalid sequence")
