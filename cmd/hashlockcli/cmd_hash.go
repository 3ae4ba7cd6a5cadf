package main

import (
	"crypto/rand"
	"flag"
	"fmt"
	"io"

	"github.com/iov-one/hashlock/crypto"
)

func cmdHash(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Compute the hashlock of a preimage. When no preimage is given a random one is
generated. Both values are printed hex encoded, the preimage first.

Keep the preimage secret until you withdraw the contract.
`)
		fl.PrintDefaults()
	}
	var (
		preimageFl = flHex(fl, "preimage", "", "Hex encoded preimage.")
		sizeFl     = fl.Int("size", 32, "Size in bytes of a generated preimage.")
	)
	fl.Parse(args)

	preimage := *preimageFl
	if len(preimage) == 0 {
		if *sizeFl <= 0 {
			return fmt.Errorf("invalid preimage size: %d", *sizeFl)
		}
		preimage = make([]byte, *sizeFl)
		if _, err := rand.Read(preimage); err != nil {
			return fmt.Errorf("cannot generate preimage: %s", err)
		}
	}

	lock := crypto.Keccak256{}.Digest(preimage)
	_, err := fmt.Fprintf(output, "%x\n%x\n", preimage, lock)
	return err
}
