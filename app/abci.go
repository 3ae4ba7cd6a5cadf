package app

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/iov-one/hashlock"
	"github.com/iov-one/hashlock/errors"
	abci "github.com/tendermint/tendermint/abci/types"
)

// ABCI exposes the application to a tendermint node.
type ABCI struct {
	abci.BaseApplication
	app *App
}

var _ abci.Application = (*ABCI)(nil)

// NewABCI returns an ABCI application backed by given App.
func NewABCI(a *App) *ABCI {
	return &ABCI{app: a}
}

// Info returns the height and hash of the latest commit.
func (s *ABCI) Info(req abci.RequestInfo) abci.ResponseInfo {
	name, id, err := s.app.Info()
	if err != nil {
		s.app.logger.Error("cannot read latest version", "err", err)
	}
	s.app.logger.Info("info synced", "height", id.Version, "hash", fmt.Sprintf("%X", id.Hash))
	return abci.ResponseInfo{
		Data:             name,
		LastBlockHeight:  id.Version,
		LastBlockAppHash: id.Hash,
	}
}

// InitChain loads the genesis. The node cannot continue if it fails.
func (s *ABCI) InitChain(req abci.RequestInitChain) abci.ResponseInitChain {
	var opts hashlock.Options
	if len(req.AppStateBytes) != 0 {
		if err := json.Unmarshal(req.AppStateBytes, &opts); err != nil {
			panic(errors.Wrapf(errors.ErrInvalidInput, "app state: %s", err))
		}
	}
	if err := s.app.InitChain(Genesis{ChainID: req.ChainId, AppState: opts}); err != nil {
		panic(err)
	}
	return abci.ResponseInitChain{}
}

// BeginBlock sets the block time used by the ledger.
func (s *ABCI) BeginBlock(req abci.RequestBeginBlock) abci.ResponseBeginBlock {
	s.app.BeginBlock(req.Header.Time)
	return abci.ResponseBeginBlock{}
}

// DeliverTx executes a serialized transaction.
func (s *ABCI) DeliverTx(raw []byte) abci.ResponseDeliverTx {
	tx, err := ParseTx(raw)
	if err != nil {
		return NewResult(nil, err, s.app.debug).ABCI()
	}
	return s.app.Deliver(context.Background(), tx).ABCI()
}

// CheckTx executes a serialized transaction against the mempool state.
func (s *ABCI) CheckTx(raw []byte) abci.ResponseCheckTx {
	tx, err := ParseTx(raw)
	var res Result
	if err != nil {
		res = NewResult(nil, err, s.app.debug)
	} else {
		res = s.app.Check(context.Background(), tx)
	}
	return abci.ResponseCheckTx{Code: res.Code, Log: res.Log, Data: res.Data}
}

// Commit persists the block.
func (s *ABCI) Commit() abci.ResponseCommit {
	id, err := s.app.Commit(context.Background())
	if err != nil {
		// The state cannot be trusted anymore.
		panic(err)
	}
	return abci.ResponseCommit{Data: id.Hash}
}

// Query reads the committed state. See App.Query for supported paths.
func (s *ABCI) Query(req abci.RequestQuery) abci.ResponseQuery {
	_, id, err := s.app.Info()
	if err != nil {
		return queryError(err, s.app.debug)
	}
	value, err := s.app.Query(context.Background(), req.Path, req.Data)
	if err != nil {
		return queryError(err, s.app.debug)
	}
	return abci.ResponseQuery{
		Key:    req.Data,
		Value:  value,
		Height: id.Version,
	}
}

func queryError(err error, debug bool) abci.ResponseQuery {
	code, log := errors.ABCIInfo(err, debug)
	return abci.ResponseQuery{Code: code, Log: log}
}
