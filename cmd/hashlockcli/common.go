package main

import (
	"encoding/binary"
	"fmt"
	"io"
	"io/ioutil"

	"github.com/iov-one/hashlock/app"
	"github.com/iov-one/hashlock/crypto"
	"golang.org/x/crypto/ed25519"
)

// writeTx serializes the transaction using a protocol buffer. First bytes
// written contain the size of the transaction so that many transactions can
// be streamed.
func writeTx(w io.Writer, tx *app.Tx) (int, error) {
	b, err := tx.Marshal()
	if err != nil {
		return 0, err
	}

	var size [txHeaderSize]byte
	binary.BigEndian.PutUint32(size[:], uint32(len(b)))

	if n, err := w.Write(size[:]); err != nil {
		return n, err
	}
	if n, err := w.Write(b); err != nil {
		return n + txHeaderSize, err
	}
	return txHeaderSize + len(b), nil
}

// readTx reads a single transaction written by writeTx. io.EOF is returned
// when the input is exhausted.
func readTx(r io.Reader) (*app.Tx, int, error) {
	var size [txHeaderSize]byte
	if n, err := io.ReadFull(r, size[:]); err != nil {
		if err == io.ErrUnexpectedEOF {
			return nil, n, fmt.Errorf("truncated transaction header")
		}
		return nil, n, err
	}
	msgSize := binary.BigEndian.Uint32(size[:])
	if msgSize > maxTxSize {
		return nil, txHeaderSize, fmt.Errorf("transaction too big: %d bytes", msgSize)
	}
	raw := make([]byte, msgSize)
	if n, err := io.ReadFull(r, raw); err != nil {
		return nil, n + txHeaderSize, err
	}

	tx, err := app.ParseTx(raw)
	if err != nil {
		return nil, int(msgSize + txHeaderSize), err
	}
	return tx, int(msgSize + txHeaderSize), nil
}

const (
	txHeaderSize = 4
	maxTxSize    = 1 << 20
)

// readAllTx reads transactions until the input is exhausted.
func readAllTx(r io.Reader) ([]*app.Tx, error) {
	var txs []*app.Tx
	for {
		tx, _, err := readTx(r)
		switch {
		case err == nil:
			txs = append(txs, tx)
		case err == io.EOF:
			return txs, nil
		default:
			return nil, fmt.Errorf("cannot read transaction %d: %s", len(txs), err)
		}
	}
}

func loadKey(path string) (crypto.PrivateKey, error) {
	raw, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read private key file: %s", err)
	}
	if len(raw) != ed25519.PrivateKeySize {
		return nil, fmt.Errorf("invalid private key length: %d", len(raw))
	}
	return crypto.PrivateKey(raw), nil
}
