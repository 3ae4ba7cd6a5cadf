package crypto

import (
	"github.com/iov-one/hashlock/errors"
	"github.com/stellar/go/exp/crypto/derivation"
)

// DefaultDerivationPath is the SLIP-10 path used when none is given.
const DefaultDerivationPath = "m/44'/234'/0'"

// DeriveKey derives an ed25519 private key from a master seed and a
// SLIP-10 hardened derivation path, for example "m/44'/234'/0'".
func DeriveKey(seed []byte, path string) (PrivateKey, error) {
	if path == "" {
		path = DefaultDerivationPath
	}
	k, err := derivation.DeriveForPath(path, seed)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInvalidInput, "derive %q: %s", path, err)
	}
	return PrivateKeyFromSeed(k.Key)
}
