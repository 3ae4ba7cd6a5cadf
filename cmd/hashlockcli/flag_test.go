package main

import (
	"flag"
	"testing"
	"time"

	"github.com/iov-one/hashlock"
	"github.com/iov-one/hashlock/hashlocktest"
	"github.com/iov-one/hashlock/hashlocktest/assert"
)

func TestFlags(t *testing.T) {
	addr := hashlocktest.NewCondition().Address()

	fl := flag.NewFlagSet("", flag.ContinueOnError)
	var (
		addrFl   = flAddress(fl, "addr", "", "")
		amountFl = flAmount(fl, "amount", "5", "")
		hexFl    = flHex(fl, "hex", "", "")
		timeFl   = flTime(fl, "time", "")
		unixFl   = flTime(fl, "unix", "")
	)
	err := fl.Parse([]string{
		"-addr", addr.String(),
		"-hex", "0a0b",
		"-time", "2020-01-02T03:04:05Z",
		"-unix", "1234",
	})
	assert.Nil(t, err)

	assert.Equal(t, addr, *addrFl)
	assert.Equal(t, "5", amountFl.String())
	assert.Equal(t, []byte{0x0a, 0x0b}, *hexFl)
	assert.Equal(t, hashlock.AsUnixTime(time.Date(2020, 1, 2, 3, 4, 5, 0, time.UTC)), *timeFl)
	assert.Equal(t, hashlock.UnixTime(1234), *unixFl)

	if err := fl.Parse([]string{"-amount", "-1x"}); err == nil {
		t.Fatal("invalid amount accepted")
	}
}
