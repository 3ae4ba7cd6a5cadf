package main

import (
	"flag"
	"fmt"
	"io"
	"time"

	"github.com/iov-one/hashlock"
	"github.com/iov-one/hashlock/app"
	"github.com/iov-one/hashlock/x/htlc"
)

func cmdCreateHTLC(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Create a transaction locking funds until the receiver reveals the preimage of
the hashlock or the timelock is reached.

The sender defaults to the address of the private key.
`)
		fl.PrintDefaults()
	}
	var (
		keyPathFl  = fl.String("key", defaultKeyPath(), "Private key file used to find the sender when -src is not given.")
		srcFl      = flAddress(fl, "src", "", "Sender address.")
		dstFl      = flAddress(fl, "dst", "", "Receiver address.")
		assetFl    = fl.String("asset", "IOV", "Asset identifier.")
		amountFl   = flAmount(fl, "amount", "", "Amount to lock.")
		hashlockFl = flHex(fl, "hashlock", "", "Hex encoded hashlock. Use the hash command to create one.")
		timelockFl = flTime(fl, "timelock", "Time, in RFC3339 format or as a unix timestamp, after which the sender can refund the funds.")
		timeoutFl  = fl.Duration("timeout", 24*time.Hour, "When -timelock is not given, set the timelock relative to the current time.")
	)
	fl.Parse(args)

	src := *srcFl
	if len(src) == 0 {
		key, err := loadKey(*keyPathFl)
		if err != nil {
			return err
		}
		src = key.PublicKey().Address()
	}

	timelock := *timelockFl
	if timelock.IsZero() {
		timelock = hashlock.AsUnixTime(time.Now().Add(*timeoutFl))
	}

	msg := &htlc.CreateMsg{
		Sender:   src,
		Receiver: *dstFl,
		Asset:    *assetFl,
		Amount:   *amountFl,
		Hashlock: *hashlockFl,
		Timelock: timelock,
	}
	if err := msg.Validate(); err != nil {
		return fmt.Errorf("invalid message: %s", err)
	}
	_, err := writeTx(output, app.NewCreateTx(msg))
	return err
}

func cmdWithdrawHTLC(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Create a transaction revealing the preimage of a contract. Funds are released
to the receiver.
`)
		fl.PrintDefaults()
	}
	var (
		contractFl = flHex(fl, "contract", "", "Hex encoded contract ID.")
		preimageFl = flHex(fl, "preimage", "", "Hex encoded preimage.")
	)
	fl.Parse(args)

	msg := &htlc.WithdrawMsg{
		ContractID: htlc.ContractID(*contractFl),
		Preimage:   *preimageFl,
	}
	if err := msg.Validate(); err != nil {
		return fmt.Errorf("invalid message: %s", err)
	}
	_, err := writeTx(output, app.NewWithdrawTx(msg))
	return err
}

func cmdRefundHTLC(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Create a transaction returning the funds of an expired contract to the sender.
`)
		fl.PrintDefaults()
	}
	var (
		contractFl = flHex(fl, "contract", "", "Hex encoded contract ID.")
	)
	fl.Parse(args)

	msg := &htlc.RefundMsg{ContractID: htlc.ContractID(*contractFl)}
	if err := msg.Validate(); err != nil {
		return fmt.Errorf("invalid message: %s", err)
	}
	_, err := writeTx(output, app.NewRefundTx(msg))
	return err
}
