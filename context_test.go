package hashlock

import (
	"context"
	"io/ioutil"
	"testing"
	"time"

	"github.com/iov-one/hashlock/errors"
	"github.com/tendermint/tendermint/libs/log"
)

func TestContextBlockTime(t *testing.T) {
	ctx := context.Background()
	if _, ok := BlockTime(ctx); ok {
		t.Fatal("block time must not be present")
	}

	now := time.Unix(1554370540, 0)
	ctx = WithBlockTime(ctx, now)
	got, ok := BlockTime(ctx)
	if !ok || !got.Equal(now) {
		t.Fatalf("want %s, got %s", now, got)
	}
}

func TestContextChainID(t *testing.T) {
	ctx := WithChainID(context.Background(), "test-chain")
	if got := GetChainID(ctx); got != "test-chain" {
		t.Fatalf("unexpected chain id %q", got)
	}

	defer func() {
		if recover() == nil {
			t.Fatal("invalid chain id must panic")
		}
	}()
	WithChainID(context.Background(), "no")
}

func TestContextLogger(t *testing.T) {
	ctx := context.Background()
	if GetLogger(ctx) != DefaultLogger {
		t.Fatal("default logger expected")
	}

	logger := log.NewTMLogger(ioutil.Discard).With("module", "test")
	ctx = WithLogger(ctx, logger)
	if GetLogger(ctx) != logger {
		t.Fatal("logger not set")
	}
	ctx = WithLogInfo(ctx, "op", "create")
	if GetLogger(ctx) == logger {
		t.Fatal("log info must produce a new logger")
	}
}

func TestBlockClock(t *testing.T) {
	var clock BlockClock

	if _, err := clock.Now(context.Background()); !errors.ErrHuman.Is(err) {
		t.Fatalf("want coding error, got %+v", err)
	}

	ctx := WithBlockTime(context.Background(), time.Unix(1554370540, 0))
	now, err := clock.Now(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if now != 1554370540 {
		t.Fatalf("unexpected time %d", now)
	}
}

func TestFixedClock(t *testing.T) {
	now, err := FixedClock(42).Now(context.Background())
	if err != nil || now != 42 {
		t.Fatalf("want 42, got %d (%v)", now, err)
	}
}

func TestOptionsReadOptions(t *testing.T) {
	opts := Options{
		"conf": []byte(`{"chain_id": "test-chain"}`),
		"bad":  []byte(`{`),
	}

	var conf struct {
		ChainID string `json:"chain_id"`
	}
	if err := opts.ReadOptions("conf", &conf); err != nil {
		t.Fatalf("cannot read: %s", err)
	}
	if conf.ChainID != "test-chain" {
		t.Fatalf("unexpected value %q", conf.ChainID)
	}
	if err := opts.ReadOptions("missing", &conf); err != nil {
		t.Fatalf("missing key must be a noop, got %s", err)
	}
	if err := opts.ReadOptions("bad", &conf); !errors.ErrInvalidInput.Is(err) {
		t.Fatalf("want invalid input, got %+v", err)
	}
}
