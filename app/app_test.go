package app

import (
	"context"
	"encoding/json"
	"io/ioutil"
	"os"
	"testing"
	"time"

	"github.com/iov-one/hashlock"
	"github.com/iov-one/hashlock/coin"
	"github.com/iov-one/hashlock/crypto"
	"github.com/iov-one/hashlock/errors"
	"github.com/iov-one/hashlock/hashlocktest"
	"github.com/iov-one/hashlock/hashlocktest/assert"
	"github.com/iov-one/hashlock/x/cash"
	"github.com/iov-one/hashlock/x/htlc"
	"github.com/iov-one/hashlock/x/sigs"
	"github.com/prometheus/client_golang/prometheus"
)

const testChainID = "test-chain"

var genesisTime = time.Unix(1550000000, 0).UTC()

type fixture struct {
	app   *App
	alice crypto.PrivateKey
	bob   crypto.PrivateKey
}

func (f fixture) addr(k crypto.PrivateKey) hashlock.Address {
	return k.PublicKey().Address()
}

func genesis(t testing.TB, funded hashlock.Address) Genesis {
	t.Helper()
	accts, err := json.Marshal([]cash.GenesisAccount{
		{
			Address: funded,
			Coins:   []cash.GenesisCoin{{Asset: "IOV", Amount: coin.NewAmount(1000)}},
		},
	})
	assert.Nil(t, err)
	return Genesis{
		ChainID: testChainID,
		AppState: hashlock.Options{
			"cash": accts,
			"conf": json.RawMessage(`{"htlc": {"preimage_length": 0, "max_timelock_horizon": 0}}`),
		},
	}
}

func newFixture(t testing.TB, conf Config) (fixture, func()) {
	t.Helper()
	a, err := New(conf)
	assert.Nil(t, err)
	f := fixture{app: a, alice: hashlocktest.NewKey(), bob: hashlocktest.NewKey()}
	assert.Nil(t, a.InitChain(genesis(t, f.addr(f.alice))))
	_, err = a.Commit(context.Background())
	assert.Nil(t, err)
	return f, func() { assert.Nil(t, a.Close()) }
}

func (f fixture) create(t testing.TB, preimage []byte, timelock hashlock.UnixTime, amount int64) *Tx {
	t.Helper()
	return NewCreateTx(&htlc.CreateMsg{
		Sender:   f.addr(f.alice),
		Receiver: f.addr(f.bob),
		Asset:    "IOV",
		Amount:   coin.NewAmount(amount),
		Hashlock: crypto.Keccak256{}.Digest(preimage),
		Timelock: timelock,
	})
}

func signed(t testing.TB, tx *Tx, key crypto.PrivateKey, seq uint64) *Tx {
	t.Helper()
	assert.Nil(t, tx.Sign(key, testChainID, seq))
	return tx
}

func balance(t testing.TB, a *App, addr hashlock.Address) int64 {
	t.Helper()
	amount, err := a.Balance("IOV", addr)
	assert.Nil(t, err)
	return amount.BigInt().Int64()
}

func TestSignedWithdrawFlow(t *testing.T) {
	reg := prometheus.NewRegistry()
	f, cleanup := newFixture(t, Config{Registerer: reg})
	defer cleanup()
	ctx := context.Background()

	sub, err := f.app.Bus().Subscribe(ctx, "test", "htlc.topic = 'htlc/withdraw'")
	assert.Nil(t, err)

	preimage := []byte("secret")
	timelock := hashlock.AsUnixTime(genesisTime.Add(time.Hour))

	f.app.BeginBlock(genesisTime)
	res := f.app.Deliver(ctx, signed(t, f.create(t, preimage, timelock, 300), f.alice, 0))
	if !res.IsOK() {
		t.Fatalf("create failed: %d %s", res.Code, res.Log)
	}
	id := htlc.ContractID(res.Data)
	_, err = f.app.Commit(ctx)
	assert.Nil(t, err)

	assert.Equal(t, int64(700), balance(t, f.app, f.addr(f.alice)))
	assert.Equal(t, int64(300), balance(t, f.app, htlc.CustodyAddress(id)))
	c, err := f.app.Contract(ctx, id)
	assert.Nil(t, err)
	assert.Equal(t, htlc.StateActive, c.State)

	nonce, err := f.app.NextNonce(f.addr(f.alice))
	assert.Nil(t, err)
	assert.Equal(t, uint64(1), nonce)

	// The receiver does not need to hold any funds to withdraw.
	f.app.BeginBlock(genesisTime.Add(time.Minute))
	withdraw := NewWithdrawTx(&htlc.WithdrawMsg{ContractID: id, Preimage: preimage})
	res = f.app.Deliver(ctx, signed(t, withdraw, f.bob, 0))
	if !res.IsOK() {
		t.Fatalf("withdraw failed: %d %s", res.Code, res.Log)
	}

	// Events are published only once the block is committed.
	waitCtx, cancel := context.WithTimeout(ctx, 50*time.Millisecond)
	_, err = sub.Next(waitCtx)
	cancel()
	assert.Equal(t, context.DeadlineExceeded, err)

	_, err = f.app.Commit(ctx)
	assert.Nil(t, err)

	waitCtx, cancel = context.WithTimeout(ctx, time.Second)
	defer cancel()
	e, err := sub.Next(waitCtx)
	assert.Nil(t, err)
	assert.Equal(t, "htlc/withdraw", e.Topic())
	assert.Equal(t, []byte(id), e.Key)

	assert.Equal(t, int64(300), balance(t, f.app, f.addr(f.bob)))
	assert.Equal(t, int64(0), balance(t, f.app, htlc.CustodyAddress(id)))
	c, err = f.app.Contract(ctx, id)
	assert.Nil(t, err)
	assert.Equal(t, htlc.StateWithdrawn, c.State)
	assert.Equal(t, preimage, c.Preimage)

	events, err := f.app.Events(1, 10)
	assert.Nil(t, err)
	assert.Equal(t, 2, len(events))
	assert.Equal(t, "htlc/new", events[0].Topic())

	metrics, err := reg.Gather()
	assert.Nil(t, err)
	if len(metrics) == 0 {
		t.Fatal("no metrics collected")
	}
}

func TestCheckSeesGenesisBeforeCommit(t *testing.T) {
	a, err := New(Config{})
	assert.Nil(t, err)
	defer func() { assert.Nil(t, a.Close()) }()
	f := fixture{app: a, alice: hashlocktest.NewKey(), bob: hashlocktest.NewKey()}
	assert.Nil(t, a.InitChain(genesis(t, f.addr(f.alice))))

	a.BeginBlock(genesisTime)
	timelock := hashlock.AsUnixTime(genesisTime.Add(time.Hour))
	res := a.Check(context.Background(), signed(t, f.create(t, []byte("secret"), timelock, 300), f.alice, 0))
	if !res.IsOK() {
		t.Fatalf("check failed: %d %s", res.Code, res.Log)
	}

	// Check does not modify the block state.
	_, err = a.Commit(context.Background())
	assert.Nil(t, err)
	assert.Equal(t, int64(1000), balance(t, a, f.addr(f.alice)))
	nonce, err := a.NextNonce(f.addr(f.alice))
	assert.Nil(t, err)
	assert.Equal(t, uint64(0), nonce)
}

func TestRefundAtTimelock(t *testing.T) {
	f, cleanup := newFixture(t, Config{})
	defer cleanup()
	ctx := context.Background()

	timelock := hashlock.AsUnixTime(genesisTime.Add(time.Hour))

	f.app.BeginBlock(genesisTime)
	res := f.app.Deliver(ctx, signed(t, f.create(t, []byte("x"), timelock, 100), f.alice, 0))
	assert.Equal(t, uint32(errors.SuccessABCICode), res.Code)
	id := htlc.ContractID(res.Data)

	refund := func(seq uint64) Result {
		return f.app.Deliver(ctx, signed(t, NewRefundTx(&htlc.RefundMsg{ContractID: id}), f.alice, seq))
	}

	f.app.BeginBlock(genesisTime.Add(time.Hour - time.Second))
	res = refund(1)
	assert.Equal(t, htlc.ErrTimelockNotExpired.ABCICode(), res.Code)

	// The failed transaction did not consume the nonce.
	f.app.BeginBlock(genesisTime.Add(time.Hour))
	res = refund(1)
	if !res.IsOK() {
		t.Fatalf("refund failed: %d %s", res.Code, res.Log)
	}
	_, err := f.app.Commit(ctx)
	assert.Nil(t, err)

	assert.Equal(t, int64(1000), balance(t, f.app, f.addr(f.alice)))
	c, err := f.app.Contract(ctx, id)
	assert.Nil(t, err)
	assert.Equal(t, htlc.StateRefunded, c.State)
}

func TestDeliverErrors(t *testing.T) {
	f, cleanup := newFixture(t, Config{})
	defer cleanup()
	ctx := context.Background()
	timelock := hashlock.AsUnixTime(genesisTime.Add(time.Hour))
	stranger := hashlocktest.NewKey()

	cases := map[string]struct {
		tx       func() *Tx
		wantCode uint32
	}{
		"unsigned": {
			tx:       func() *Tx { return f.create(t, []byte("a"), timelock, 10) },
			wantCode: errors.ErrUnauthorized.ABCICode(),
		},
		"signed by someone else than the sender": {
			tx:       func() *Tx { return signed(t, f.create(t, []byte("a"), timelock, 10), stranger, 0) },
			wantCode: errors.ErrUnauthorized.ABCICode(),
		},
		"signed for another chain": {
			tx: func() *Tx {
				tx := f.create(t, []byte("a"), timelock, 10)
				assert.Nil(t, tx.Sign(f.alice, "another-chain", 0))
				return tx
			},
			wantCode: errors.ErrUnauthorized.ABCICode(),
		},
		"wrong sequence": {
			tx:       func() *Tx { return signed(t, f.create(t, []byte("a"), timelock, 10), f.alice, 5) },
			wantCode: sigs.ErrInvalidSequence.ABCICode(),
		},
		"zero amount": {
			tx:       func() *Tx { return signed(t, f.create(t, []byte("a"), timelock, 0), f.alice, 0) },
			wantCode: errors.ErrInvalidAmount.ABCICode(),
		},
		"timelock in the past": {
			tx: func() *Tx {
				past := hashlock.AsUnixTime(genesisTime.Add(-time.Second))
				return signed(t, f.create(t, []byte("a"), past, 10), f.alice, 0)
			},
			wantCode: htlc.ErrInvalidTimelock.ABCICode(),
		},
		"insufficient funds": {
			tx:       func() *Tx { return signed(t, f.create(t, []byte("a"), timelock, 5000), f.alice, 0) },
			wantCode: htlc.ErrTransferFailed.ABCICode(),
		},
		"unknown contract": {
			tx: func() *Tx {
				tx := NewRefundTx(&htlc.RefundMsg{ContractID: htlc.ContractID("missing")})
				return signed(t, tx, f.alice, 0)
			},
			wantCode: errors.ErrNotFound.ABCICode(),
		},
		"no message": {
			tx:       func() *Tx { return signed(t, &Tx{}, f.alice, 0) },
			wantCode: errors.ErrInvalidMsg.ABCICode(),
		},
		"two messages": {
			tx: func() *Tx {
				tx := f.create(t, []byte("a"), timelock, 10)
				tx.Refund = &RefundTx{ContractID: []byte("a")}
				return signed(t, tx, f.alice, 0)
			},
			wantCode: errors.ErrInvalidMsg.ABCICode(),
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			f.app.BeginBlock(genesisTime)
			res := f.app.Deliver(ctx, tc.tx())
			assert.Equal(t, tc.wantCode, res.Code)
			assert.Equal(t, 0, len(res.Data))

			// Failures leave no trace in the state.
			nonce, err := f.app.NextNonce(f.addr(f.alice))
			assert.Nil(t, err)
			assert.Equal(t, uint64(0), nonce)
			assert.Equal(t, int64(1000), balance(t, f.app, f.addr(f.alice)))
			_, err = f.app.Commit(ctx)
			assert.Nil(t, err)
			events, err := f.app.Events(1, 100)
			assert.Nil(t, err)
			assert.Equal(t, 0, len(events))
		})
	}
}

func TestReplayIsRejected(t *testing.T) {
	f, cleanup := newFixture(t, Config{})
	defer cleanup()
	ctx := context.Background()

	tx := signed(t, f.create(t, []byte("a"), hashlock.AsUnixTime(genesisTime.Add(time.Hour)), 10), f.alice, 0)
	raw, err := tx.Marshal()
	assert.Nil(t, err)

	f.app.BeginBlock(genesisTime)
	for i, wantCode := range []uint32{errors.SuccessABCICode, sigs.ErrInvalidSequence.ABCICode()} {
		parsed, err := ParseTx(raw)
		assert.Nil(t, err)
		if res := f.app.Deliver(ctx, parsed); res.Code != wantCode {
			t.Fatalf("delivery %d: want code %d, got %d: %s", i, wantCode, res.Code, res.Log)
		}
	}
}

func TestDeliverRequiresBlock(t *testing.T) {
	a, err := New(Config{})
	assert.Nil(t, err)
	defer a.Close()

	res := a.Deliver(context.Background(), &Tx{})
	assert.Equal(t, errors.ErrInvalidState.ABCICode(), res.Code)

	assert.Nil(t, a.InitChain(genesis(t, hashlocktest.NewCondition().Address())))
	res = a.Deliver(context.Background(), &Tx{})
	assert.Equal(t, errors.ErrInvalidState.ABCICode(), res.Code)
}

func TestStatePersists(t *testing.T) {
	dir, err := ioutil.TempDir("", "hashlock-app")
	assert.Nil(t, err)
	defer os.RemoveAll(dir)
	ctx := context.Background()

	f, cleanup := newFixture(t, Config{DBDir: dir})
	f.app.BeginBlock(genesisTime)
	res := f.app.Deliver(ctx, signed(t, f.create(t, []byte("a"), hashlock.AsUnixTime(genesisTime.Add(time.Hour)), 10), f.alice, 0))
	assert.Equal(t, uint32(errors.SuccessABCICode), res.Code)
	id := htlc.ContractID(res.Data)
	committed, err := f.app.Commit(ctx)
	assert.Nil(t, err)
	cleanup()

	a, err := New(Config{DBDir: dir})
	assert.Nil(t, err)
	defer a.Close()

	assert.Equal(t, testChainID, a.ChainID())
	_, info, err := a.Info()
	assert.Nil(t, err)
	assert.Equal(t, committed.Version, info.Version)
	assert.Equal(t, committed.Hash, info.Hash)

	c, err := a.Contract(ctx, id)
	assert.Nil(t, err)
	assert.Equal(t, htlc.StateActive, c.State)

	err = a.InitChain(genesis(t, f.addr(f.alice)))
	assert.IsErr(t, errors.ErrDuplicate, err)
}

func TestResultHidesInternalErrors(t *testing.T) {
	internal := os.ErrClosed

	r := NewResult([]byte("x"), internal, false)
	assert.Equal(t, false, r.IsOK())
	assert.Equal(t, 0, len(r.Data))
	assert.Equal(t, "internal error", r.Log)

	r = NewResult([]byte("x"), nil, false)
	assert.Equal(t, true, r.IsOK())
	assert.Equal(t, []byte("x"), r.ABCI().Data)
}
