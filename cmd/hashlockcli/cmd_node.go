package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/iov-one/hashlock/app"
	"github.com/iov-one/hashlock/orm"
	"github.com/tendermint/tendermint/abci/server"
	"github.com/tendermint/tendermint/libs/log"
)

func newLogger(level string) (log.Logger, error) {
	opt, err := log.AllowLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level: %s", err)
	}
	return log.NewFilter(log.NewTMLogger(log.NewSyncWriter(os.Stderr)), opt), nil
}

// openApp opens the local state stored in the home directory.
func openApp(home, logLevel string) (*app.App, error) {
	logger, err := newLogger(logLevel)
	if err != nil {
		return nil, err
	}
	a, err := app.New(app.Config{
		DBDir:  home,
		Logger: logger.With("module", "hashlock"),
	})
	if err != nil {
		return nil, fmt.Errorf("cannot open state in %q: %s", home, err)
	}
	return a, nil
}

func cmdInit(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Create the local state from a genesis file. This can be done only once.
`)
		fl.PrintDefaults()
	}
	var (
		homeFl    = fl.String("home", defaultHome(), "Directory of the local state.")
		genesisFl = fl.String("genesis", "genesis.json", "Path to the genesis file.")
		logFl     = fl.String("log-level", "info", "Log level: debug, info, error or none.")
	)
	fl.Parse(args)

	gen, err := app.LoadGenesis(*genesisFl)
	if err != nil {
		return err
	}
	a, err := openApp(*homeFl, *logFl)
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.InitChain(gen); err != nil {
		return fmt.Errorf("cannot load genesis: %s", err)
	}
	id, err := a.Commit(context.Background())
	if err != nil {
		return fmt.Errorf("cannot commit genesis: %s", err)
	}
	_, err = fmt.Fprintf(output, "%s %X\n", a.ChainID(), id.Hash)
	return err
}

func cmdSubmitTransaction(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Read transactions from the input and execute them in a single block of the
local state. The result of every transaction is printed in a separate line.
Failed transactions do not change the state.
`)
		fl.PrintDefaults()
	}
	var (
		homeFl = fl.String("home", defaultHome(), "Directory of the local state.")
		timeFl = flTime(fl, "time", "Block time. Defaults to the current time.")
		logFl  = fl.String("log-level", "info", "Log level: debug, info, error or none.")
	)
	fl.Parse(args)

	txs, err := readAllTx(input)
	if err != nil {
		return err
	}
	if len(txs) == 0 {
		return fmt.Errorf("no input data")
	}

	a, err := openApp(*homeFl, *logFl)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx := context.Background()
	a.BeginBlock(orNow(*timeFl).Time())
	var failed int
	for i, tx := range txs {
		res := a.Deliver(ctx, tx)
		if res.IsOK() {
			fmt.Fprintf(output, "%d OK %X\n", i, res.Data)
		} else {
			failed++
			fmt.Fprintf(output, "%d ERR %d %s\n", i, res.Code, res.Log)
		}
	}
	if _, err := a.Commit(ctx); err != nil {
		return fmt.Errorf("cannot commit block: %s", err)
	}
	if failed != 0 {
		return fmt.Errorf("%d of %d transactions failed", failed, len(txs))
	}
	return nil
}

func cmdQuery(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Query the local state. Exactly one of -contract, -balance, -nonce or -events
must be given.
`)
		fl.PrintDefaults()
	}
	var (
		homeFl     = fl.String("home", defaultHome(), "Directory of the local state.")
		contractFl = flHex(fl, "contract", "", "Hex encoded ID of a contract to display.")
		balanceFl  = flAddress(fl, "balance", "", "Address of an account to display the balance of.")
		assetFl    = fl.String("asset", "IOV", "Asset of the balance.")
		nonceFl    = flAddress(fl, "nonce", "", "Address of a signer to display the next nonce of.")
		eventsFl   = fl.Uint64("events", 0, "Display events starting with this sequence number.")
	)
	fl.Parse(args)

	var (
		path string
		data []byte
	)
	switch {
	case len(*contractFl) != 0:
		path, data = "/contract", *contractFl
	case len(*balanceFl) != 0:
		path, data = "/balance?"+*assetFl, *balanceFl
	case len(*nonceFl) != 0:
		path, data = "/nonce", *nonceFl
	case *eventsFl != 0:
		path, data = "/events", orm.EncodeSequence(*eventsFl)
	default:
		return fmt.Errorf("nothing to query")
	}

	a, err := openApp(*homeFl, "error")
	if err != nil {
		return err
	}
	defer a.Close()

	raw, err := a.Query(context.Background(), path, data)
	if err != nil {
		return fmt.Errorf("query %s: %s", path, err)
	}
	var pretty bytes.Buffer
	if err := json.Indent(&pretty, raw, "", "\t"); err != nil {
		return fmt.Errorf("cannot format result: %s", err)
	}
	_, err = fmt.Fprintf(output, "%s\n", pretty.Bytes())
	return err
}

func cmdStart(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Serve the local state to a tendermint node using the ABCI socket protocol.
The genesis is provided by the node. This command blocks until interrupted.
`)
		fl.PrintDefaults()
	}
	var (
		homeFl  = fl.String("home", defaultHome(), "Directory of the local state.")
		bindFl  = fl.String("bind", "tcp://localhost:46658", "Address the server listens on.")
		logFl   = fl.String("log-level", "info", "Log level: debug, info, error or none.")
		debugFl = fl.Bool("debug", false, "Return internal error details in results.")
	)
	fl.Parse(args)

	logger, err := newLogger(*logFl)
	if err != nil {
		return err
	}
	a, err := app.New(app.Config{DBDir: *homeFl, Logger: logger.With("module", "hashlock"), Debug: *debugFl})
	if err != nil {
		return fmt.Errorf("cannot open state in %q: %s", *homeFl, err)
	}

	logger.Info("starting ABCI app", "bind", *bindFl)
	svr, err := server.NewServer(*bindFl, "socket", app.NewABCI(a))
	if err != nil {
		a.Close()
		return fmt.Errorf("cannot create listener: %s", err)
	}
	svr.SetLogger(logger.With("module", "abci-server"))
	if err := svr.Start(); err != nil {
		a.Close()
		return fmt.Errorf("cannot start server: %s", err)
	}

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	<-sig
	logger.Info("stopping ABCI app")
	if err := svr.Stop(); err != nil {
		logger.Error("cannot stop server", "err", err)
	}
	return a.Close()
}
