package main

import (
	"flag"
	"fmt"
	"io"
)

func cmdSignTransaction(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Read transactions from the input and sign each of them with the private key.
Signed transactions are written to the output.

When -seq is not given the nonce is read from the local state and increased
for every following transaction.
`)
		fl.PrintDefaults()
	}
	var (
		keyPathFl = fl.String("key", defaultKeyPath(),
			"Path to the private key file. You can use HASHLOCKCLI_PRIV_KEY environment variable to set it.")
		homeFl  = fl.String("home", defaultHome(), "Directory of the local state.")
		chainFl = fl.String("chain", "", "Chain ID. Read from the local state if not given.")
		seqFl   = fl.Int64("seq", -1, "Sequence of the first signature.")
	)
	fl.Parse(args)

	key, err := loadKey(*keyPathFl)
	if err != nil {
		return err
	}
	txs, err := readAllTx(input)
	if err != nil {
		return err
	}

	chainID, seq := *chainFl, *seqFl
	if chainID == "" || seq < 0 {
		a, err := openApp(*homeFl, "error")
		if err != nil {
			return err
		}
		if chainID == "" {
			chainID = a.ChainID()
		}
		if seq < 0 {
			n, err := a.NextNonce(key.PublicKey().Address())
			if err != nil {
				a.Close()
				return fmt.Errorf("cannot read nonce: %s", err)
			}
			seq = int64(n)
		}
		if err := a.Close(); err != nil {
			return err
		}
	}
	if chainID == "" {
		return fmt.Errorf("chain ID unknown, run init first or use -chain")
	}

	for i, tx := range txs {
		if err := tx.Sign(key, chainID, uint64(seq)+uint64(i)); err != nil {
			return fmt.Errorf("cannot sign transaction %d: %s", i, err)
		}
		if _, err := writeTx(output, tx); err != nil {
			return fmt.Errorf("cannot write transaction %d: %s", i, err)
		}
	}
	return nil
}
