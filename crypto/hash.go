package crypto

import (
	"crypto/sha256"

	"golang.org/x/crypto/sha3"
)

// DigestSize is the size in bytes of every digest produced by this package.
const DigestSize = 32

// Keccak256 is the legacy Keccak-256 hash (as used by Ethereum and Soroban),
// not the standardized SHA3-256.
type Keccak256 struct{}

// Digest returns the 32 byte Keccak-256 digest of data.
func (Keccak256) Digest(data []byte) []byte {
	h := sha3.NewLegacyKeccak256()
	h.Write(data)
	return h.Sum(nil)
}

// SHA256 is a digest capability backed by SHA-256.
type SHA256 struct{}

// Digest returns the 32 byte SHA-256 digest of data.
func (SHA256) Digest(data []byte) []byte {
	sum := sha256.Sum256(data)
	return sum[:]
}
