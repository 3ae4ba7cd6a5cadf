package app

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/iov-one/hashlock"
	"github.com/iov-one/hashlock/coin"
	"github.com/iov-one/hashlock/crypto"
	"github.com/iov-one/hashlock/errors"
	"github.com/iov-one/hashlock/eventlog"
	"github.com/iov-one/hashlock/store/iavl"
	"github.com/iov-one/hashlock/x"
	"github.com/iov-one/hashlock/x/cash"
	"github.com/iov-one/hashlock/x/htlc"
	"github.com/iov-one/hashlock/x/sigs"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/tendermint/tendermint/libs/log"
)

// Config declares how the application is built.
type Config struct {
	// Name is returned by Info.
	Name string
	// DBDir is the directory of the leveldb backed state. Empty value
	// keeps the state in memory.
	DBDir string
	// Logger defaults to a nop logger.
	Logger log.Logger
	// Registerer collects the ledger metrics when set.
	Registerer prometheus.Registerer
	// Debug exposes internal error messages in results.
	Debug bool
}

// App is the composition root of the ledger.
type App struct {
	mu sync.Mutex

	name   string
	debug  bool
	logger log.Logger

	store   iavl.CommitStore
	deliver hashlock.KVCacheWrap
	check   hashlock.KVCacheWrap

	chainID   string
	height    int64
	blockTime time.Time

	bank    cash.BaseController
	events  *eventlog.Log
	bus     *eventlog.Bus
	ledger  *htlc.Ledger
	pending []*eventlog.Event
}

// New opens the state and builds all extensions. The event bus is started
// and must be released with Close.
func New(conf Config) (*App, error) {
	logger := conf.Logger
	if logger == nil {
		logger = log.NewNopLogger()
	}
	name := conf.Name
	if name == "" {
		name = "hashlock"
	}

	var st iavl.CommitStore
	if conf.DBDir == "" {
		st = iavl.MockCommitStore()
	} else {
		var err error
		if st, err = iavl.NewCommitStore(conf.DBDir, name); err != nil {
			return nil, err
		}
	}
	if err := st.LoadLatestVersion(); err != nil {
		return nil, errors.Wrap(err, "load state")
	}

	a := &App{
		name:    name,
		debug:   conf.Debug,
		logger:  logger,
		store:   st,
		deliver: st.CacheWrap(),
		check:   st.CacheWrap(),
		bank:    cash.NewController(),
		events:  eventlog.NewLog(),
		bus:     eventlog.NewBus(logger),
	}

	var metrics *htlc.Metrics
	if conf.Registerer != nil {
		metrics = htlc.NewMetrics(conf.Registerer)
	}
	ledger, err := htlc.NewLedger(htlc.Env{
		Clock:   hashlock.BlockClock{},
		Hasher:  crypto.Keccak256{},
		Auth:    x.ChainAuth(sigs.Authenticate{}),
		Bank:    a.bank,
		Events:  a.events,
		Metrics: metrics,
	})
	if err != nil {
		return nil, err
	}
	a.ledger = ledger

	if a.chainID, err = loadChainID(st); err != nil {
		return nil, err
	}
	id, err := st.LatestVersion()
	if err != nil {
		return nil, err
	}
	a.height = id.Version

	if err := a.bus.Start(); err != nil {
		return nil, errors.Wrap(errors.ErrHuman, err.Error())
	}
	return a, nil
}

// Close stops the event bus and releases the database.
func (a *App) Close() error {
	err := a.bus.Stop()
	a.store.Close()
	if err != nil {
		return errors.Wrap(errors.ErrHuman, err.Error())
	}
	return nil
}

// Bus returns the bus publishing events of committed blocks.
func (a *App) Bus() *eventlog.Bus {
	return a.bus
}

// ChainID returns the chain id declared in the genesis.
func (a *App) ChainID() string {
	return a.chainID
}

// InitChain loads the genesis. It can be called only once in the lifetime
// of the state.
func (a *App) InitChain(gen Genesis) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.chainID != "" {
		return errors.Wrapf(errors.ErrDuplicate, "genesis previously loaded for chain %s", a.chainID)
	}
	cache := a.deliver.CacheWrap()
	if err := saveChainID(cache, gen.ChainID); err != nil {
		cache.Discard()
		return err
	}
	init := hashlock.ChainInitializers(cash.Initializer{}, htlc.Initializer{})
	if err := init.FromGenesis(gen.AppState, cache); err != nil {
		cache.Discard()
		return errors.Wrap(err, "genesis")
	}
	if err := cache.Write(); err != nil {
		return errors.Wrap(errors.ErrDatabase, err.Error())
	}
	// The genesis is not committed until the first block, the mempool must
	// see it already.
	a.check.Discard()
	a.check = a.deliver.CacheWrap()
	a.chainID = gen.ChainID
	a.logger.Info("genesis loaded", "chain_id", a.chainID)
	return nil
}

// BeginBlock sets the time used by all transactions of the block.
func (a *App) BeginBlock(t time.Time) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.blockTime = t
}

// context returns the context of a transaction executed at given time.
func (a *App) context(ctx context.Context, now time.Time) context.Context {
	ctx = hashlock.WithLogger(ctx, a.logger.With("height", a.height+1))
	if !now.IsZero() {
		ctx = hashlock.WithBlockTime(ctx, now)
	}
	if a.chainID != "" {
		ctx = hashlock.WithChainID(ctx, a.chainID)
	}
	return ctx
}

// Deliver verifies the signatures and executes the message of the
// transaction. Nothing is changed if it fails, including the signer nonces.
func (a *App) Deliver(ctx context.Context, tx *Tx) Result {
	a.mu.Lock()
	defer a.mu.Unlock()

	data, events, err := a.execute(a.context(ctx, a.blockTime), a.deliver, tx)
	if err == nil {
		a.pending = append(a.pending, events...)
	}
	return NewResult(data, err, a.debug)
}

// Check executes the transaction against the mempool state that is reset
// with every commit. The block state is not modified. Before the first block
// of the process the local time is used.
func (a *App) Check(ctx context.Context, tx *Tx) Result {
	a.mu.Lock()
	defer a.mu.Unlock()

	now := a.blockTime
	if now.IsZero() {
		now = time.Now()
	}
	data, _, err := a.execute(a.context(ctx, now), a.check, tx)
	return NewResult(data, err, a.debug)
}

func (a *App) execute(ctx context.Context, base hashlock.CacheableKVStore, tx *Tx) (data []byte, emitted []*eventlog.Event, err error) {
	if a.chainID == "" {
		return nil, nil, errors.Wrap(errors.ErrInvalidState, "genesis not loaded")
	}
	if _, ok := hashlock.BlockTime(ctx); !ok {
		return nil, nil, errors.Wrap(errors.ErrInvalidState, "no block in progress")
	}
	if tx == nil {
		return nil, nil, errors.Wrap(errors.ErrInvalidMsg, "nil transaction")
	}

	cache := base.CacheWrap()
	defer func() {
		if err != nil {
			cache.Discard()
		}
	}()
	defer errors.Recover(&err)

	msg, err := tx.Msg()
	if err != nil {
		return nil, nil, err
	}
	bz, err := tx.SignBytes()
	if err != nil {
		return nil, nil, err
	}
	signers, err := sigs.VerifySignatures(cache, tx.Signatures, bz, a.chainID)
	if err != nil {
		return nil, nil, err
	}
	ctx = sigs.WithSigners(ctx, signers)

	before, err := a.events.Count(cache)
	if err != nil {
		return nil, nil, err
	}

	switch m := msg.(type) {
	case *htlc.CreateMsg:
		var id htlc.ContractID
		id, err = a.ledger.Create(ctx, cache, m)
		data = id
	case *htlc.WithdrawMsg:
		err = a.ledger.Withdraw(ctx, cache, m)
	case *htlc.RefundMsg:
		err = a.ledger.Refund(ctx, cache, m)
	default:
		err = errors.Wrapf(errors.ErrInvalidMsg, "%T", msg)
	}
	if err != nil {
		return nil, nil, err
	}

	after, err := a.events.Count(cache)
	if err != nil {
		return nil, nil, err
	}
	if emitted, err = a.events.Events(cache, before+1, after); err != nil {
		return nil, nil, err
	}
	if err := cache.Write(); err != nil {
		return nil, nil, errors.Wrap(errors.ErrDatabase, err.Error())
	}
	return data, emitted, nil
}

// Commit persists all delivered transactions as a new version of the state
// and publishes their events.
func (a *App) Commit(ctx context.Context) (hashlock.CommitID, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if err := a.deliver.Write(); err != nil {
		return hashlock.CommitID{}, errors.Wrap(errors.ErrDatabase, err.Error())
	}
	id, err := a.store.Commit()
	if err != nil {
		return hashlock.CommitID{}, err
	}
	a.deliver = a.store.CacheWrap()
	a.check.Discard()
	a.check = a.store.CacheWrap()
	a.height = id.Version
	a.logger.Debug("commit synced", "height", id.Version, "hash", fmt.Sprintf("%X", id.Hash))

	for _, e := range a.pending {
		if err := a.bus.Publish(ctx, e); err != nil {
			a.logger.Error("cannot publish event", "topic", e.Topic(), "err", err)
		}
	}
	a.pending = nil
	return id, nil
}

// Info returns the name and the latest committed version.
func (a *App) Info() (string, hashlock.CommitID, error) {
	id, err := a.store.LatestVersion()
	return a.name, id, err
}

// Contract returns the committed state of a contract.
func (a *App) Contract(ctx context.Context, id htlc.ContractID) (*htlc.Record, error) {
	return a.ledger.GetContract(a.context(ctx, a.blockTime), a.store, id)
}

// Balance returns the committed balance of an account.
func (a *App) Balance(asset string, addr hashlock.Address) (coin.Amount, error) {
	return a.bank.Balance(a.store, asset, addr)
}

// NextNonce returns the sequence the signer must use for its next
// transaction.
func (a *App) NextNonce(addr hashlock.Address) (uint64, error) {
	return sigs.NextNonce(a.store, addr)
}

// Events returns committed events in the [from, to] range.
func (a *App) Events(from, to uint64) ([]*eventlog.Event, error) {
	return a.events.Events(a.store, from, to)
}
