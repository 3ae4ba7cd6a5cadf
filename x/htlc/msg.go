package htlc

import (
	"github.com/iov-one/hashlock"
	"github.com/iov-one/hashlock/coin"
	"github.com/iov-one/hashlock/errors"
)

// CreateMsg locks Amount of Asset owned by Sender until either Receiver
// reveals the preimage of Hashlock or Timelock is reached.
type CreateMsg struct {
	Sender   hashlock.Address
	Receiver hashlock.Address
	Asset    string
	Amount   coin.Amount
	Hashlock []byte
	Timelock hashlock.UnixTime
}

// Validate checks the parts of the message that do not depend on the
// ledger state nor on the ordered preconditions of Create.
func (m *CreateMsg) Validate() error {
	if m == nil {
		return errors.Wrap(errors.ErrInvalidMsg, "nil message")
	}
	if err := m.Sender.Validate(); err != nil {
		return errors.Wrap(err, "sender")
	}
	if err := m.Receiver.Validate(); err != nil {
		return errors.Wrap(err, "receiver")
	}
	if !coin.IsAssetID(m.Asset) {
		return errors.Wrapf(errors.ErrInvalidInput, "asset %q", m.Asset)
	}
	return nil
}

// WithdrawMsg reveals the preimage of an active contract and releases the
// funds to the receiver.
type WithdrawMsg struct {
	ContractID ContractID
	Preimage   []byte
}

// Validate checks the message is well formed.
func (m *WithdrawMsg) Validate() error {
	if m == nil {
		return errors.Wrap(errors.ErrInvalidMsg, "nil message")
	}
	if len(m.ContractID) == 0 {
		return errors.Wrap(errors.ErrEmpty, "contract id")
	}
	return nil
}

// RefundMsg returns the funds of an expired contract to the sender.
type RefundMsg struct {
	ContractID ContractID
}

// Validate checks the message is well formed.
func (m *RefundMsg) Validate() error {
	if m == nil {
		return errors.Wrap(errors.ErrInvalidMsg, "nil message")
	}
	if len(m.ContractID) == 0 {
		return errors.Wrap(errors.ErrEmpty, "contract id")
	}
	return nil
}
