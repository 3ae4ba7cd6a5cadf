package hashlocktest

import (
	"github.com/iov-one/hashlock"
	"github.com/iov-one/hashlock/crypto"
)

// NewKey returns a new random ed25519 private key.
func NewKey() crypto.PrivateKey {
	return crypto.GenPrivateKey()
}

// NewCondition returns the condition of a new random key. Use its Address
// as a principal in tests.
func NewCondition() hashlock.Condition {
	return NewKey().PublicKey().Condition()
}
