package cash

import "github.com/iov-one/quorum/errors"

// ErrInsufficientFunds is returned when a balance is too small to cover a
// transfer.
var ErrInsufficientFunds = errors.Register(1020, "insufficient funds")
