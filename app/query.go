package app

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"strings"

	"github.com/iov-one/hashlock"
	"github.com/iov-one/hashlock/coin"
	"github.com/iov-one/hashlock/errors"
	"github.com/iov-one/hashlock/orm"
	"github.com/iov-one/hashlock/x/htlc"
)

// ContractView is the JSON representation of a contract.
type ContractView struct {
	ID       string            `json:"id"`
	Sender   hashlock.Address  `json:"sender"`
	Receiver hashlock.Address  `json:"receiver"`
	Custody  hashlock.Address  `json:"custody"`
	Asset    string            `json:"asset"`
	Amount   coin.Amount       `json:"amount"`
	Hashlock string            `json:"hashlock"`
	Timelock hashlock.UnixTime `json:"timelock"`
	State    string            `json:"state"`
	Preimage string            `json:"preimage,omitempty"`
}

// NewContractView returns the representation of a contract.
func NewContractView(id htlc.ContractID, r *htlc.Record) ContractView {
	return ContractView{
		ID:       id.String(),
		Sender:   r.Sender,
		Receiver: r.Receiver,
		Custody:  htlc.CustodyAddress(id),
		Asset:    r.Asset,
		Amount:   r.Amount,
		Hashlock: hex.EncodeToString(r.Hashlock),
		Timelock: r.Timelock,
		State:    r.State.String(),
		Preimage: hex.EncodeToString(r.Preimage),
	}
}

// BalanceView is the JSON representation of an account balance.
type BalanceView struct {
	Address hashlock.Address `json:"address"`
	Asset   string           `json:"asset"`
	Amount  coin.Amount      `json:"amount"`
}

// NonceView is the JSON representation of a signer nonce.
type NonceView struct {
	Address hashlock.Address `json:"address"`
	Nonce   uint64           `json:"nonce"`
}

// EventView is the JSON representation of an event.
type EventView struct {
	Topic string `json:"topic"`
	Key   string `json:"key"`
}

// MaxQueryEvents is the maximum number of events returned by a single query.
const MaxQueryEvents = 100

// Query returns the JSON encoded result of a query of the committed state.
//
// Path is one of:
//   - "/contract" with the contract ID as data
//   - "/balance?<asset>" with the account address as data
//   - "/nonce" with the signer address as data
//   - "/events" with the 8 bytes big endian sequence of the first event
func (a *App) Query(ctx context.Context, path string, data []byte) ([]byte, error) {
	path, mod := splitPath(path)

	var res interface{}
	switch path {
	case "/contract":
		id := htlc.ContractID(data)
		c, err := a.Contract(ctx, id)
		if err != nil {
			return nil, err
		}
		res = NewContractView(id, c)
	case "/balance":
		addr := hashlock.Address(data)
		if err := addr.Validate(); err != nil {
			return nil, err
		}
		amount, err := a.Balance(mod, addr)
		if err != nil {
			return nil, err
		}
		res = BalanceView{Address: addr, Asset: mod, Amount: amount}
	case "/nonce":
		addr := hashlock.Address(data)
		if err := addr.Validate(); err != nil {
			return nil, err
		}
		n, err := a.NextNonce(addr)
		if err != nil {
			return nil, err
		}
		res = NonceView{Address: addr, Nonce: n}
	case "/events":
		from, err := orm.DecodeSequence(data)
		if err != nil {
			return nil, err
		}
		events, err := a.Events(from, from+MaxQueryEvents-1)
		if err != nil {
			return nil, err
		}
		views := make([]EventView, 0, len(events))
		for _, e := range events {
			views = append(views, EventView{Topic: e.Topic(), Key: hex.EncodeToString(e.Key)})
		}
		res = views
	default:
		return nil, errors.Wrapf(errors.ErrNotFound, "unknown query path %q", path)
	}

	raw, err := json.Marshal(res)
	if err != nil {
		return nil, errors.Wrap(errors.ErrInvalidType, err.Error())
	}
	return raw, nil
}

// splitPath splits out the real path along with the query modifier
// (everything after the ?).
func splitPath(path string) (string, string) {
	var mod string
	chunks := strings.SplitN(path, "?", 2)
	if len(chunks) == 2 {
		path = chunks[0]
		mod = chunks[1]
	}
	return path, mod
}
