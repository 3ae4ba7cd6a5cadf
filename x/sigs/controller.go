package sigs

import (
	"encoding/binary"

	"github.com/iov-one/hashlock"
	"github.com/iov-one/hashlock/crypto"
	"github.com/iov-one/hashlock/errors"
)

// SignCodeV1 is the current way to prefix the bytes we use to build
// a signature
var SignCodeV1 = []byte{0, 0xCA, 0xFE, 0}

// VerifySignatures checks all the signatures of a request,
// which must have at least one.
//
// returns list of signer conditions,
// or error if any signature is invalid
func VerifySignatures(db hashlock.KVStore, sigs []*StdSignature, signBytes []byte, chainID string) ([]hashlock.Condition, error) {
	if len(sigs) == 0 {
		return nil, errors.Wrap(errors.ErrUnauthorized, "no signatures")
	}
	signers := make([]hashlock.Condition, 0, len(sigs))
	for _, sig := range sigs {
		signer, err := VerifySignature(db, sig, signBytes, chainID)
		if err != nil {
			return nil, err
		}
		signers = append(signers, signer)
	}
	return signers, nil
}

// VerifySignature checks one signature against signbytes,
// check chain and updates state in the store
func VerifySignature(db hashlock.KVStore, sig *StdSignature, signBytes []byte, chainID string) (hashlock.Condition, error) {
	// we guarantee sequence makes sense and pubkey is there
	if err := sig.Validate(); err != nil {
		return nil, err
	}

	pubkey := crypto.PublicKey(sig.Pubkey)
	bucket := NewBucket()
	user, err := bucket.GetOrCreate(db, pubkey)
	if err != nil {
		return nil, err
	}

	toSign, err := BuildSignBytes(signBytes, chainID, sig.Sequence)
	if err != nil {
		return nil, err
	}
	if !pubkey.Verify(toSign, sig.Signature) {
		return nil, errors.Wrap(errors.ErrUnauthorized, "invalid signature")
	}

	if err := user.CheckAndIncrementSequence(sig.Sequence); err != nil {
		return nil, err
	}
	if err := bucket.Save(db, pubkey.Address(), user); err != nil {
		return nil, err
	}
	return pubkey.Condition(), nil
}

/*
BuildSignBytes combines all info on the actual request before signing

We use the following format:

version | len(chainID) | chainID      | nonce              | signBytes
4bytes  | uint8        | ascii string | uint64 (bigendian) | serialized request

This is then prehashed with sha512 before fed into
the public key signing/verification step
*/
func BuildSignBytes(signBytes []byte, chainID string, seq uint64) ([]byte, error) {
	if !hashlock.IsValidChainID(chainID) {
		return nil, errors.Wrapf(errors.ErrInvalidInput, "chain id: %v", chainID)
	}

	// encode nonce as 8 byte, big-endian
	nonce := make([]byte, 8)
	binary.BigEndian.PutUint64(nonce, seq)

	output := make([]byte, 0, 4+1+len(chainID)+8+len(signBytes))
	output = append(output, SignCodeV1...)
	output = append(output, uint8(len(chainID)))
	output = append(output, []byte(chainID)...)
	output = append(output, nonce...)
	output = append(output, signBytes...)
	return output, nil
}

// Sign creates a signature of given bytes.
func Sign(signer crypto.PrivateKey, signBytes []byte, chainID string, seq uint64) (*StdSignature, error) {
	toSign, err := BuildSignBytes(signBytes, chainID, seq)
	if err != nil {
		return nil, err
	}
	return &StdSignature{
		Pubkey:    signer.PublicKey(),
		Signature: signer.Sign(toSign),
		Sequence:  seq,
	}, nil
}

// NextNonce returns the next numeric nonce value that should be used during
// signing. Any address can contain a nonce. In practice you always want to
// acquire a nonce for the signer.
func NextNonce(db hashlock.ReadOnlyKVStore, signer hashlock.Address) (uint64, error) {
	var u UserData
	err := NewBucket().Get(db, signer, &u)
	switch {
	case err == nil:
		return u.Sequence, nil
	case errors.ErrNotFound.Is(err):
		// If not yet present, nonce counting starts with zero.
		return 0, nil
	default:
		return 0, errors.Wrap(err, "bucket get")
	}
}
