package app

import (
	"github.com/iov-one/hashlock/errors"
	abci "github.com/tendermint/tendermint/abci/types"
)

// Result is the outcome of a delivered transaction.
type Result struct {
	Code uint32
	Log  string
	Data []byte
}

// NewResult builds a result using the ABCI code of the error. Messages of
// internal errors are hidden unless debug is set.
func NewResult(data []byte, err error, debug bool) Result {
	code, log := errors.ABCIInfo(err, debug)
	if err != nil {
		data = nil
	}
	return Result{Code: code, Log: log, Data: data}
}

// IsOK returns true if the transaction succeeded.
func (r Result) IsOK() bool {
	return r.Code == errors.SuccessABCICode
}

// ABCI converts the result into a tendermint DeliverTx response.
func (r Result) ABCI() abci.ResponseDeliverTx {
	return abci.ResponseDeliverTx{
		Code: r.Code,
		Log:  r.Log,
		Data: r.Data,
	}
}
