package htlc

import (
	"github.com/iov-one/hashlock"
)

// IsExpired returns true if the timelock is reached at now. Expiration is
// inclusive, meaning that if now is equal to the timelock then this
// function returns true.
func IsExpired(now, timelock hashlock.UnixTime) bool {
	return timelock <= now
}
