package main

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
)

// commands is a register of all available commands. The name is matched
// with the first argument given.
//
// A command function reads only from the given input and writes only to the
// given output. Arguments are the command line arguments without the program
// and the command name. Use os.Stderr for error messages.
//
// Each command provides a single functionality. Commands that build or
// modify a transaction write it to the output so they can be combined into a
// pipeline:
//
//	$ hashlockcli create-htlc -dst $BOB -amount 100 -hashlock $LOCK \
//	    | hashlockcli sign \
//	    | hashlockcli submit
var commands = map[string]func(input io.Reader, output io.Writer, args []string) error{
	"create-htlc":   cmdCreateHTLC,
	"hash":          cmdHash,
	"init":          cmdInit,
	"keyaddr":       cmdKeyaddr,
	"keygen":        cmdKeygen,
	"query":         cmdQuery,
	"refund-htlc":   cmdRefundHTLC,
	"sign":          cmdSignTransaction,
	"start":         cmdStart,
	"submit":        cmdSubmitTransaction,
	"version":       cmdVersion,
	"view":          cmdTransactionView,
	"withdraw-htlc": cmdWithdrawHTLC,
}

func main() {
	if len(os.Args) == 1 {
		fmt.Fprintf(os.Stderr, "%s is a command line client for the hashlock ledger.\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Usage: %s <command> [<flags>]\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\nAvailable commands are:\n\t%s\n", strings.Join(availableCmds(), "\n\t"))
		fmt.Fprintf(os.Stderr, "Run '%s <command> -help' to learn more about each command.\n", os.Args[0])
		os.Exit(2)
	}
	run, ok := commands[os.Args[1]]
	if !ok {
		fmt.Fprintf(os.Stderr, "Unknown command %q\n", os.Args[1])
		fmt.Fprintf(os.Stderr, "\nAvailable commands are:\n\t%s\n", strings.Join(availableCmds(), "\n\t"))
		os.Exit(2)
	}

	if err := run(os.Stdin, os.Stdout, os.Args[2:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func availableCmds() []string {
	available := make([]string, 0, len(commands))
	for name := range commands {
		available = append(available, name)
	}
	sort.Strings(available)
	return available
}

func cmdVersion(in io.Reader, out io.Writer, args []string) error {
	fmt.Fprintln(out, gitHash)
	return nil
}

// gitHash is set during the compilation time.
var gitHash string = "dev"
