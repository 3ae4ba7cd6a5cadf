package htlc

import (
	"bytes"
	"context"
	"sync"
	"time"

	"github.com/iov-one/hashlock"
	"github.com/iov-one/hashlock/coin"
	"github.com/iov-one/hashlock/errors"
	"github.com/iov-one/hashlock/eventlog"
	"github.com/iov-one/hashlock/orm"
	"github.com/iov-one/hashlock/x"
)

// Bank moves funds between accounts. Implemented by cash.Controller.
type Bank interface {
	MoveCoins(db hashlock.KVStore, asset string, src, dest hashlock.Address, amount coin.Amount) error
}

// Env holds the capabilities a Ledger depends on. Notifier and Metrics are
// optional.
type Env struct {
	Clock    hashlock.Clock
	Hasher   Hasher
	Auth     x.Authenticator
	Bank     Bank
	Events   EventSink
	Notifier Notifier
	Metrics  *Metrics
}

// Ledger manages the contracts. All mutating operations of a single Ledger
// are serialized.
type Ledger struct {
	mu      sync.Mutex
	env     Env
	bucket  orm.Bucket
	counter orm.Sequence
}

// NewLedger returns a ledger using given capabilities.
func NewLedger(env Env) (*Ledger, error) {
	switch {
	case env.Clock == nil:
		return nil, errors.Wrap(errors.ErrHuman, "clock is required")
	case env.Hasher == nil:
		return nil, errors.Wrap(errors.ErrHuman, "hasher is required")
	case env.Auth == nil:
		return nil, errors.Wrap(errors.ErrHuman, "authenticator is required")
	case env.Bank == nil:
		return nil, errors.Wrap(errors.ErrHuman, "bank is required")
	case env.Events == nil:
		return nil, errors.Wrap(errors.ErrHuman, "event sink is required")
	}
	b := orm.NewBucket(BucketName)
	return &Ledger{
		env:     env,
		bucket:  b,
		counter: b.Sequence("counter"),
	}, nil
}

// Create opens a new contract and moves the funds from the sender into the
// contract custody.
func (l *Ledger) Create(ctx context.Context, db hashlock.CacheableKVStore, msg *CreateMsg) (ContractID, error) {
	var id ContractID
	err := l.atomic(ctx, "create", db, func(cache hashlock.KVStore) (*eventlog.Event, error) {
		var ev *eventlog.Event
		var err error
		id, ev, err = l.create(ctx, cache, msg)
		return ev, err
	}, func() []interface{} { return []interface{}{"contract", id} })
	if err != nil {
		return nil, err
	}
	l.env.Metrics.transition(StateInvalid, StateActive)
	return id, nil
}

func (l *Ledger) create(ctx context.Context, db hashlock.KVStore, msg *CreateMsg) (ContractID, *eventlog.Event, error) {
	if msg == nil {
		return nil, nil, errors.Wrap(errors.ErrInvalidMsg, "nil message")
	}
	if !l.env.Auth.HasAddress(ctx, msg.Sender) {
		return nil, nil, errors.Wrap(errors.ErrUnauthorized, "sender must authorize")
	}
	if !msg.Amount.IsPositive() {
		return nil, nil, errors.Wrapf(errors.ErrInvalidAmount, "%s is not positive", msg.Amount)
	}
	if err := msg.Amount.Validate(); err != nil {
		return nil, nil, errors.Wrap(errors.ErrInvalidAmount, err.Error())
	}
	now, err := l.env.Clock.Now(ctx)
	if err != nil {
		return nil, nil, err
	}
	conf, err := loadConf(db)
	if err != nil {
		return nil, nil, err
	}
	if IsExpired(now, msg.Timelock) {
		return nil, nil, errors.Wrapf(ErrInvalidTimelock, "timelock %d is not after %d", msg.Timelock, now)
	}
	if h := conf.MaxTimelockHorizon; h != 0 && uint64(msg.Timelock-now) > h {
		return nil, nil, errors.Wrapf(ErrInvalidTimelock, "timelock is more than %d seconds ahead", h)
	}
	if len(msg.Hashlock) != HashlockSize {
		return nil, nil, errors.Wrapf(ErrInvalidHashlockLength, "want %d bytes, got %d", HashlockSize, len(msg.Hashlock))
	}
	if err := msg.Validate(); err != nil {
		return nil, nil, err
	}

	counter, err := l.counter.NextInt(db)
	if err != nil {
		return nil, nil, errors.Wrap(err, "counter")
	}
	id := DeriveContractID(l.env.Hasher, msg.Hashlock, msg.Sender, msg.Receiver, counter)
	if ok, err := l.bucket.Has(db, id); err != nil {
		return nil, nil, err
	} else if ok {
		return nil, nil, errors.Wrapf(errors.ErrDuplicate, "contract %s", id)
	}

	r := &Record{
		Sender:   msg.Sender.Clone(),
		Receiver: msg.Receiver.Clone(),
		Asset:    msg.Asset,
		Amount:   msg.Amount,
		Hashlock: append([]byte(nil), msg.Hashlock...),
		Timelock: msg.Timelock,
		State:    StateActive,
	}
	if err := l.save(db, id, r); err != nil {
		return nil, nil, err
	}
	if err := l.env.Bank.MoveCoins(db, r.Asset, r.Sender, CustodyAddress(id), r.Amount); err != nil {
		return nil, nil, errors.Wrap(ErrTransferFailed, err.Error())
	}
	ev, err := l.emit(db, id, r, newCreatedEvent)
	if err != nil {
		return nil, nil, err
	}
	return id, ev, nil
}

// Withdraw releases the funds of an active contract to the receiver. The
// preimage must hash to the contract hashlock.
func (l *Ledger) Withdraw(ctx context.Context, db hashlock.CacheableKVStore, msg *WithdrawMsg) error {
	err := l.atomic(ctx, "withdraw", db, func(cache hashlock.KVStore) (*eventlog.Event, error) {
		return l.withdraw(ctx, cache, msg)
	}, func() []interface{} { return contractLogKeys(msg) })
	if err == nil {
		l.env.Metrics.transition(StateActive, StateWithdrawn)
	}
	return err
}

func (l *Ledger) withdraw(ctx context.Context, db hashlock.KVStore, msg *WithdrawMsg) (*eventlog.Event, error) {
	if err := msg.Validate(); err != nil {
		return nil, err
	}
	r, err := l.load(db, msg.ContractID)
	if err != nil {
		return nil, err
	}
	if r.State != StateActive {
		return nil, errors.Wrapf(errors.ErrInvalidState, "contract is %s", r.State)
	}
	conf, err := loadConf(db)
	if err != nil {
		return nil, err
	}
	if n := conf.PreimageLength; n != 0 && uint32(len(msg.Preimage)) != n {
		return nil, errors.Wrapf(ErrInvalidPreimage, "want %d bytes, got %d", n, len(msg.Preimage))
	}
	if !bytes.Equal(l.env.Hasher.Digest(msg.Preimage), r.Hashlock) {
		return nil, errors.Wrap(ErrInvalidPreimage, "digest does not match the hashlock")
	}
	if !l.env.Auth.HasAddress(ctx, r.Receiver) {
		return nil, errors.Wrap(errors.ErrUnauthorized, "receiver must authorize")
	}

	r.State = StateWithdrawn
	r.Preimage = append([]byte{}, msg.Preimage...)
	if err := l.save(db, msg.ContractID, r); err != nil {
		return nil, err
	}
	if err := l.env.Bank.MoveCoins(db, r.Asset, CustodyAddress(msg.ContractID), r.Receiver, r.Amount); err != nil {
		return nil, errors.Wrap(ErrTransferFailed, err.Error())
	}
	return l.emit(db, msg.ContractID, r, newWithdrawnEvent)
}

// Refund returns the funds of an active contract to the sender once the
// timelock is reached.
func (l *Ledger) Refund(ctx context.Context, db hashlock.CacheableKVStore, msg *RefundMsg) error {
	err := l.atomic(ctx, "refund", db, func(cache hashlock.KVStore) (*eventlog.Event, error) {
		return l.refund(ctx, cache, msg)
	}, func() []interface{} { return contractLogKeys(msg) })
	if err == nil {
		l.env.Metrics.transition(StateActive, StateRefunded)
	}
	return err
}

func (l *Ledger) refund(ctx context.Context, db hashlock.KVStore, msg *RefundMsg) (*eventlog.Event, error) {
	if err := msg.Validate(); err != nil {
		return nil, err
	}
	r, err := l.load(db, msg.ContractID)
	if err != nil {
		return nil, err
	}
	if r.State != StateActive {
		return nil, errors.Wrapf(errors.ErrInvalidState, "contract is %s", r.State)
	}
	now, err := l.env.Clock.Now(ctx)
	if err != nil {
		return nil, err
	}
	if !IsExpired(now, r.Timelock) {
		return nil, errors.Wrapf(ErrTimelockNotExpired, "timelock %d, now %d", r.Timelock, now)
	}
	if !l.env.Auth.HasAddress(ctx, r.Sender) {
		return nil, errors.Wrap(errors.ErrUnauthorized, "sender must authorize")
	}

	r.State = StateRefunded
	if err := l.save(db, msg.ContractID, r); err != nil {
		return nil, err
	}
	if err := l.env.Bank.MoveCoins(db, r.Asset, CustodyAddress(msg.ContractID), r.Sender, r.Amount); err != nil {
		return nil, errors.Wrap(ErrTransferFailed, err.Error())
	}
	return l.emit(db, msg.ContractID, r, newRefundedEvent)
}

// GetContract returns a copy of the contract record.
func (l *Ledger) GetContract(ctx context.Context, db hashlock.ReadOnlyKVStore, id ContractID) (*Record, error) {
	r, err := l.load(db, id)
	hashlock.GetLogger(ctx).Debug("htlc query", "op", "get", "contract", id, "err", err)
	return r, err
}

// HasContract returns true if the contract exists.
func (l *Ledger) HasContract(ctx context.Context, db hashlock.ReadOnlyKVStore, id ContractID) (bool, error) {
	return l.bucket.Has(db, id)
}

// GetState returns the state of the contract.
func (l *Ledger) GetState(ctx context.Context, db hashlock.ReadOnlyKVStore, id ContractID) (State, error) {
	r, err := l.GetContract(ctx, db, id)
	if err != nil {
		return StateInvalid, err
	}
	return r.State, nil
}

// GetPreimage returns the revealed preimage, nil if the contract was not
// withdrawn.
func (l *Ledger) GetPreimage(ctx context.Context, db hashlock.ReadOnlyKVStore, id ContractID) ([]byte, error) {
	r, err := l.GetContract(ctx, db, id)
	if err != nil {
		return nil, err
	}
	return r.Preimage, nil
}

// atomic runs fn in a cache of db. The cache is written only if fn
// succeeds, otherwise all its changes are dropped. The returned event is
// delivered to the notifier after the write.
func (l *Ledger) atomic(
	ctx context.Context,
	op string,
	db hashlock.CacheableKVStore,
	fn func(hashlock.KVStore) (*eventlog.Event, error),
	logKeys func() []interface{},
) (err error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	start := time.Now()
	logger := hashlock.GetLogger(ctx)
	defer func() {
		l.env.Metrics.observe(op, start, err)
		keyvals := append([]interface{}{"op", op, "duration", time.Since(start)}, logKeys()...)
		if err != nil {
			logger.Error("htlc operation failed", append(keyvals, "err", err)...)
		} else {
			logger.Info("htlc operation", keyvals...)
		}
	}()

	cache := db.CacheWrap()
	ev, err := l.run(cache, fn)
	if err != nil {
		cache.Discard()
		return err
	}
	if err := cache.Write(); err != nil {
		return errors.Wrap(errors.ErrDatabase, err.Error())
	}

	if l.env.Notifier != nil && ev != nil {
		if nerr := l.env.Notifier.Publish(ctx, ev); nerr != nil {
			logger.Error("cannot notify", "op", op, "err", nerr)
		}
	}
	return nil
}

// run calls fn and converts a panic into an error so that the cache is
// always discarded.
func (l *Ledger) run(cache hashlock.KVStore, fn func(hashlock.KVStore) (*eventlog.Event, error)) (ev *eventlog.Event, err error) {
	defer errors.Recover(&err)
	return fn(cache)
}

func (l *Ledger) load(db hashlock.ReadOnlyKVStore, id ContractID) (*Record, error) {
	var m record
	if err := l.bucket.Get(db, id, &m); err != nil {
		return nil, err
	}
	return m.toRecord()
}

func (l *Ledger) save(db hashlock.KVStore, id ContractID, r *Record) error {
	return l.bucket.Save(db, id, fromRecord(r))
}

func (l *Ledger) emit(db hashlock.KVStore, id ContractID, r *Record, build func(ContractID, *Record) (*eventlog.Event, error)) (*eventlog.Event, error) {
	ev, err := build(id, r)
	if err != nil {
		return nil, err
	}
	if _, err := l.env.Events.Append(db, ev); err != nil {
		return nil, errors.Wrap(err, "event")
	}
	return ev, nil
}

func contractLogKeys(msg interface{}) []interface{} {
	switch m := msg.(type) {
	case *WithdrawMsg:
		if m != nil {
			return []interface{}{"contract", m.ContractID}
		}
	case *RefundMsg:
		if m != nil {
			return []interface{}{"contract", m.ContractID}
		}
	}
	return nil
}
