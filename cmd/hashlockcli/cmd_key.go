package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/iov-one/hashlock/crypto"
)

func cmdKeygen(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Generate a new private key.

When successful a new file with binary content containing private key is
created. This command fails if the private key file already exists.

When a seed is given the key is derived from it using the SLIP-10 derivation
path. Otherwise a random key is created.
`)
		fl.PrintDefaults()
	}
	var (
		keyPathFl = fl.String("key", defaultKeyPath(),
			"Path to the private key file. You can use HASHLOCKCLI_PRIV_KEY environment variable to set it.")
		seedFl = flHex(fl, "seed", "", "Optional hex encoded master seed the key is derived from.")
		pathFl = fl.String("path", crypto.DefaultDerivationPath, "SLIP-10 derivation path used with the seed.")
	)
	fl.Parse(args)

	if _, err := os.Stat(*keyPathFl); !os.IsNotExist(err) {
		// Never overwrite an existing key. It must be removed manually.
		return fmt.Errorf("private key file %q already exists, delete this file and try again", *keyPathFl)
	}

	var key crypto.PrivateKey
	if len(*seedFl) == 0 {
		key = crypto.GenPrivateKey()
	} else {
		var err error
		if key, err = crypto.DeriveKey(*seedFl, *pathFl); err != nil {
			return fmt.Errorf("cannot derive key: %s", err)
		}
	}

	fd, err := os.OpenFile(*keyPathFl, os.O_CREATE|os.O_WRONLY|os.O_EXCL, 0600)
	if err != nil {
		return fmt.Errorf("cannot create private key file: %s", err)
	}
	defer fd.Close()

	if _, err := fd.Write(key); err != nil {
		return fmt.Errorf("cannot write private key: %s", err)
	}
	if err := fd.Close(); err != nil {
		return fmt.Errorf("cannot close private key file: %s", err)
	}
	return nil
}

func cmdKeyaddr(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Print out the address associated with your private key.
`)
		fl.PrintDefaults()
	}
	var (
		keyPathFl = fl.String("key", defaultKeyPath(),
			"Path to the private key file. You can use HASHLOCKCLI_PRIV_KEY environment variable to set it.")
		hexFl = fl.Bool("hex", false, "Print the address hex encoded instead of bech32.")
	)
	fl.Parse(args)

	key, err := loadKey(*keyPathFl)
	if err != nil {
		return err
	}
	addr := key.PublicKey().Address()
	if *hexFl {
		_, err = fmt.Fprintf(output, "%X\n", []byte(addr))
		return err
	}
	_, err = fmt.Fprintln(output, addr)
	return err
}
