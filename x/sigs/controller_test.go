package sigs

import (
	"context"
	"testing"

	"github.com/iov-one/hashlock/errors"
	"github.com/iov-one/hashlock/hashlocktest"
	"github.com/iov-one/hashlock/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignBytes(t *testing.T) {
	bz := []byte("foobar")
	bz2 := []byte("blast")
	chainID := "test-sign-bytes"

	c1, err := BuildSignBytes(bz, chainID, 17)
	require.NoError(t, err)
	assert.NotEqual(t, bz, c1)

	// make sure sign bytes change on data, chain_id and seq
	ct, err := BuildSignBytes(bz2, chainID, 17)
	require.NoError(t, err)
	assert.NotEqual(t, c1, ct)
	c2, err := BuildSignBytes(bz, chainID+"2", 17)
	require.NoError(t, err)
	assert.NotEqual(t, c1, c2)
	c3, err := BuildSignBytes(bz, chainID, 18)
	require.NoError(t, err)
	assert.NotEqual(t, c1, c3)

	_, err = BuildSignBytes(bz, "invalid chain id!", 1)
	assert.True(t, errors.ErrInvalidInput.Is(err))
}

func TestVerifySignature(t *testing.T) {
	kv := store.MemStore()
	priv := hashlocktest.NewKey()
	pub := priv.PublicKey()
	perm := pub.Condition()

	chainID := "emo-music-2345"
	bz := []byte("my special valentine")

	sig0, err := Sign(priv, bz, chainID, 0)
	require.NoError(t, err)
	sig1, err := Sign(priv, bz, chainID, 1)
	require.NoError(t, err)
	sig2, err := Sign(priv, bz, chainID, 2)
	require.NoError(t, err)
	sig13, err := Sign(priv, bz, chainID, 13)
	require.NoError(t, err)
	sigBad, err := Sign(priv, bz, chainID+"x", 2)
	require.NoError(t, err)

	empty := new(StdSignature)
	_, err = VerifySignature(kv, empty, bz, chainID)
	assert.True(t, errors.ErrUnauthorized.Is(err))

	// signing should be deterministic
	sig2a, err := Sign(priv, bz, chainID, 2)
	require.NoError(t, err)
	assert.Equal(t, sig2, sig2a)

	// verify first one
	signer, err := VerifySignature(kv, sig0, bz, chainID)
	require.NoError(t, err)
	assert.Equal(t, perm, signer)

	// replay is rejected
	_, err = VerifySignature(kv, sig0, bz, chainID)
	assert.True(t, ErrInvalidSequence.Is(err))

	// skipping a sequence is rejected
	_, err = VerifySignature(kv, sig13, bz, chainID)
	assert.True(t, ErrInvalidSequence.Is(err))

	// signature for a different chain is rejected
	_, err = VerifySignature(kv, sigBad, bz, chainID)
	assert.True(t, errors.ErrUnauthorized.Is(err))

	signer, err = VerifySignature(kv, sig1, bz, chainID)
	require.NoError(t, err)
	assert.Equal(t, perm, signer)

	// signature for different data is rejected
	_, err = VerifySignature(kv, sig2, []byte("foo"), chainID)
	assert.True(t, errors.ErrUnauthorized.Is(err))

	nonce, err := NextNonce(kv, pub.Address())
	require.NoError(t, err)
	assert.Equal(t, uint64(2), nonce)
}

func TestVerifySignatures(t *testing.T) {
	kv := store.MemStore()
	alice := hashlocktest.NewKey()
	bob := hashlocktest.NewKey()
	chainID := "test-chain"
	bz := []byte("request")

	_, err := VerifySignatures(kv, nil, bz, chainID)
	assert.True(t, errors.ErrUnauthorized.Is(err))

	sa, err := Sign(alice, bz, chainID, 0)
	require.NoError(t, err)
	sb, err := Sign(bob, bz, chainID, 0)
	require.NoError(t, err)

	signers, err := VerifySignatures(kv, []*StdSignature{sa, sb}, bz, chainID)
	require.NoError(t, err)
	require.Len(t, signers, 2)

	ctx := WithSigners(context.Background(), signers)
	auth := Authenticate{}
	assert.True(t, auth.HasAddress(ctx, alice.PublicKey().Address()))
	assert.True(t, auth.HasAddress(ctx, bob.PublicKey().Address()))
	assert.False(t, auth.HasAddress(ctx, hashlocktest.NewCondition().Address()))
	assert.False(t, auth.HasAddress(context.Background(), alice.PublicKey().Address()))
}

func TestNextNonceUnknown(t *testing.T) {
	kv := store.MemStore()
	nonce, err := NextNonce(kv, hashlocktest.NewCondition().Address())
	require.NoError(t, err)
	assert.Equal(t, uint64(0), nonce)
}
