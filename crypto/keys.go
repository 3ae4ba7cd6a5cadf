package crypto

import (
	"crypto/sha512"

	"github.com/iov-one/hashlock"
	"github.com/iov-one/hashlock/errors"
	"golang.org/x/crypto/ed25519"
)

// ExtensionName is used for the conditions of signature based principals.
const ExtensionName = "sigs"

// PublicKey is an ed25519 public key.
type PublicKey []byte

// Validate returns an error if this is not an ed25519 public key.
func (p PublicKey) Validate() error {
	if len(p) != ed25519.PublicKeySize {
		return errors.ErrInvalidInput.Newf("public key must be %d bytes", ed25519.PublicKeySize)
	}
	return nil
}

// Verify verifies the signature was created with this message and public key.
// The message is prehashed with sha512 before verification.
func (p PublicKey) Verify(message, sig []byte) bool {
	if p.Validate() != nil {
		return false
	}
	return ed25519.Verify(ed25519.PublicKey(p), prehash(message), sig)
}

// Condition encodes the public key into a permission.
func (p PublicKey) Condition() hashlock.Condition {
	return hashlock.NewCondition(ExtensionName, "ed25519", p)
}

// Address returns the principal identity controlled by this key.
func (p PublicKey) Address() hashlock.Address {
	return p.Condition().Address()
}

// PrivateKey is an ed25519 private key.
type PrivateKey []byte

// Sign returns a matching signature for this private key.
func (k PrivateKey) Sign(message []byte) []byte {
	return ed25519.Sign(ed25519.PrivateKey(k), prehash(message))
}

// PublicKey returns the corresponding PublicKey.
func (k PrivateKey) PublicKey() PublicKey {
	pub := ed25519.PrivateKey(k).Public().(ed25519.PublicKey)
	return PublicKey(pub)
}

// GenPrivateKey returns a random new private key.
func GenPrivateKey() PrivateKey {
	_, priv, err := ed25519.GenerateKey(nil)
	if err != nil {
		panic(err)
	}
	return PrivateKey(priv)
}

// PrivateKeyFromSeed will deterministically generate a private key from
// a given 32 byte seed. Use if you have a strong source of external
// randomness, or for deterministic keys in test cases.
func PrivateKeyFromSeed(seed []byte) (PrivateKey, error) {
	if len(seed) != ed25519.SeedSize {
		return nil, errors.ErrInvalidInput.Newf("seed must be %d bytes", ed25519.SeedSize)
	}
	return PrivateKey(ed25519.NewKeyFromSeed(seed)), nil
}

func prehash(message []byte) []byte {
	sum := sha512.Sum512(message)
	return sum[:]
}
