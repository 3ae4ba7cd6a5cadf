package htlc

import (
	"github.com/iov-one/hashlock/errors"
)

// x/htlc reserves 100 ~ 119.
var (
	ErrInvalidTimelock       = errors.Register(100, "invalid timelock")
	ErrInvalidHashlockLength = errors.Register(101, "invalid hashlock length")
	ErrInvalidPreimage       = errors.Register(102, "invalid preimage")
	ErrTimelockNotExpired    = errors.Register(103, "timelock not expired")
	ErrTransferFailed        = errors.Register(104, "transfer failed")
)
