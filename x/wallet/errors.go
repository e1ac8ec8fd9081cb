package wallet

import "github.com/iov-one/quorum/errors"

var (
	ErrAlreadyExecuted       = errors.Register(1030, "transaction already executed")
	ErrDuplicateConfirmation = errors.Register(1031, "duplicate confirmation")
	ErrNoConfirmation        = errors.Register(1032, "no confirmation")
	ErrQuorumNotMet          = errors.Register(1033, "quorum not met")
	ErrTransferFailed        = errors.Register(1034, "transfer failed")
	ErrInvalidRegistry       = errors.Register(1035, "invalid owner registry")
)
