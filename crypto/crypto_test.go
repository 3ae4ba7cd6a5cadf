package crypto

import (
	"bytes"
	"encoding/hex"
	"testing"

	"github.com/iov-one/hashlock/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDigests(t *testing.T) {
	cases := map[string]struct {
		digest interface{ Digest([]byte) []byte }
		input  string
		want   string
	}{
		"keccak256 of empty input": {
			digest: Keccak256{},
			input:  "",
			want:   "c5d2460186f7233c927e7db2dcc703c0e500b653ca82273b7bfad8045d85a470",
		},
		"keccak256 of abc": {
			digest: Keccak256{},
			input:  "abc",
			want:   "4e03657aea45a94fc7d47ba826c8d667c0d1e6e33a64a036ec44f58fa12d6c45",
		},
		"sha256 of abc": {
			digest: SHA256{},
			input:  "abc",
			want:   "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad",
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			got := tc.digest.Digest([]byte(tc.input))
			assert.Len(t, got, DigestSize)
			assert.Equal(t, tc.want, hex.EncodeToString(got))
		})
	}
}

func TestSignVerify(t *testing.T) {
	priv := GenPrivateKey()
	pub := priv.PublicKey()
	require.NoError(t, pub.Validate())

	msg := []byte("withdraw")
	sig := priv.Sign(msg)

	assert.True(t, pub.Verify(msg, sig))
	assert.False(t, pub.Verify([]byte("refund"), sig))

	other := GenPrivateKey().PublicKey()
	assert.False(t, other.Verify(msg, sig))
	assert.False(t, PublicKey("short").Verify(msg, sig))
}

func TestKeyAddress(t *testing.T) {
	seed := bytes.Repeat([]byte{7}, 32)
	a, err := PrivateKeyFromSeed(seed)
	require.NoError(t, err)
	b, err := PrivateKeyFromSeed(seed)
	require.NoError(t, err)

	assert.Equal(t, a.PublicKey(), b.PublicKey())
	assert.True(t, a.PublicKey().Address().Equals(b.PublicKey().Address()))
	assert.NoError(t, a.PublicKey().Address().Validate())
	assert.Equal(t, "sigs/ed25519/", string(a.PublicKey().Condition()[:13]))

	_, err = PrivateKeyFromSeed([]byte("short"))
	assert.True(t, errors.ErrInvalidInput.Is(err))
}

func TestDeriveKey(t *testing.T) {
	seed, err := hex.DecodeString("000102030405060708090a0b0c0d0e0f")
	require.NoError(t, err)

	first, err := DeriveKey(seed, "m/44'/234'/0'")
	require.NoError(t, err)
	again, err := DeriveKey(seed, "")
	require.NoError(t, err)
	assert.Equal(t, first, again, "empty path uses the default path")

	second, err := DeriveKey(seed, "m/44'/234'/1'")
	require.NoError(t, err)
	assert.NotEqual(t, first.PublicKey(), second.PublicKey())

	_, err = DeriveKey(seed, "not a path")
	assert.True(t, errors.ErrInvalidInput.Is(err))
}
