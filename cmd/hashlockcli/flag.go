package main

import (
	"encoding/hex"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/iov-one/hashlock"
	"github.com/iov-one/hashlock/coin"
)

// flAddress returns a value that is being initialized with given default value
// and optionally overwritten by a command line argument if provided.
// If given value cannot be deserialized, process is terminated.
func flAddress(fl *flag.FlagSet, name, defaultVal, usage string) *hashlock.Address {
	var a flagaddr
	if defaultVal != "" {
		if err := a.Set(defaultVal); err != nil {
			fmt.Fprintf(os.Stderr, "Cannot parse %q address flag value. %s", name, err)
			os.Exit(2)
		}
	}
	fl.Var(&a, name, usage)
	return (*hashlock.Address)(&a)
}

type flagaddr hashlock.Address

func (a flagaddr) String() string {
	if len(a) == 0 {
		return ""
	}
	return hashlock.Address(a).String()
}

func (a *flagaddr) Set(raw string) error {
	addr, err := hashlock.ParseAddress(raw)
	if err != nil {
		return err
	}
	*a = flagaddr(addr)
	return nil
}

// flAmount returns an amount flag. If given default value cannot be
// deserialized, process is terminated.
func flAmount(fl *flag.FlagSet, name, defaultVal, usage string) *coin.Amount {
	var a flagamount
	if defaultVal != "" {
		if err := a.Set(defaultVal); err != nil {
			fmt.Fprintf(os.Stderr, "Cannot parse %q amount flag value. %s", name, err)
			os.Exit(2)
		}
	}
	fl.Var(&a, name, usage)
	return (*coin.Amount)(&a)
}

type flagamount coin.Amount

func (a flagamount) String() string {
	return coin.Amount(a).String()
}

func (a *flagamount) Set(raw string) error {
	v, err := coin.ParseAmount(raw)
	if err != nil {
		return err
	}
	*a = flagamount(v)
	return nil
}

// flHex returns a value that is being initialized with given default value
// and optionally overwritten by a command line argument if provided.
// If given value cannot be deserialized, process is terminated.
func flHex(fl *flag.FlagSet, name, defaultVal, usage string) *[]byte {
	var b []byte
	if defaultVal != "" {
		var err error
		b, err = hex.DecodeString(defaultVal)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Cannot parse %q hex encoded flag value. %s", name, err)
			os.Exit(2)
		}
	}
	fb := (*flagbyte)(&b)
	fl.Var(fb, name, usage)
	return &b
}

type flagbyte []byte

func (b flagbyte) String() string {
	return hex.EncodeToString(b)
}

func (b *flagbyte) Set(raw string) error {
	val, err := hex.DecodeString(raw)
	if err != nil {
		return err
	}
	*b = val
	return nil
}

// flTime returns a time flag accepting either RFC3339 format or a unix
// timestamp. Zero value means not set.
func flTime(fl *flag.FlagSet, name, usage string) *hashlock.UnixTime {
	var t flagtime
	fl.Var(&t, name, usage)
	return &t.val
}

type flagtime struct {
	val hashlock.UnixTime
}

func (t *flagtime) String() string {
	if t == nil || t.val.IsZero() {
		return ""
	}
	return t.val.Time().UTC().Format(time.RFC3339)
}

func (t *flagtime) Set(raw string) error {
	if tm, err := time.Parse(time.RFC3339, raw); err == nil {
		t.val = hashlock.AsUnixTime(tm)
		return nil
	}
	return t.val.UnmarshalJSON([]byte(raw))
}

// orNow returns the unix time or the current time if not set.
func orNow(t hashlock.UnixTime) hashlock.UnixTime {
	if t.IsZero() {
		return hashlock.AsUnixTime(time.Now())
	}
	return t
}
