package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
)

func cmdTransactionView(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Decode and display transactions. Before signing you should check what kind of
operation are you authorizing.
`)
		fl.PrintDefaults()
	}
	fl.Parse(args)

	txs, err := readAllTx(input)
	if err != nil {
		return err
	}
	if len(txs) == 0 {
		return errors.New("no input data")
	}
	for _, tx := range txs {
		pretty, err := json.MarshalIndent(tx, "", "\t")
		if err != nil {
			return fmt.Errorf("cannot JSON serialize: %s", err)
		}
		if _, err := fmt.Fprintf(output, "%s\n", pretty); err != nil {
			return err
		}
	}
	return nil
}
