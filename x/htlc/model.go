package htlc

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/hashlock"
	"github.com/iov-one/hashlock/coin"
	"github.com/iov-one/hashlock/errors"
)

const (
	// BucketName is where the contracts are stored.
	BucketName = "htlc"

	// HashlockSize is the required length of a hashlock in bytes.
	HashlockSize = 32
)

// State of a contract. A contract is created Active and moves to exactly
// one of the terminal states.
type State int32

const (
	StateInvalid State = iota
	StateActive
	StateWithdrawn
	StateRefunded
)

var stateNames = map[State]string{
	StateActive:    "active",
	StateWithdrawn: "withdrawn",
	StateRefunded:  "refunded",
}

func (s State) String() string {
	if n, ok := stateNames[s]; ok {
		return n
	}
	return fmt.Sprintf("State(%d)", int32(s))
}

// Validate returns an error if this is not a known state.
func (s State) Validate() error {
	if _, ok := stateNames[s]; !ok {
		return errors.Wrapf(errors.ErrInvalidState, "unknown state %d", int32(s))
	}
	return nil
}

// ContractID identifies a contract.
type ContractID []byte

func (id ContractID) String() string {
	return strings.ToUpper(hex.EncodeToString(id))
}

// ParseContractID decodes a hex encoded contract identifier.
func ParseContractID(s string) (ContractID, error) {
	raw, err := hex.DecodeString(s)
	if err != nil {
		return nil, errors.Wrap(errors.ErrInvalidInput, "contract id must be hex encoded")
	}
	return ContractID(raw), nil
}

// Hasher computes the digest used for contract identifiers and hashlocks.
type Hasher interface {
	Digest(data []byte) []byte
}

// DeriveContractID returns digest(hashlock | sender | receiver | counter)
// with the counter encoded as 8 bytes big endian.
func DeriveContractID(h Hasher, lock []byte, sender, receiver hashlock.Address, counter uint64) ContractID {
	buf := make([]byte, 0, len(lock)+len(sender)+len(receiver)+8)
	buf = append(buf, lock...)
	buf = append(buf, sender...)
	buf = append(buf, receiver...)
	var seq [8]byte
	binary.BigEndian.PutUint64(seq[:], counter)
	buf = append(buf, seq[:]...)
	return ContractID(h.Digest(buf))
}

// CustodyAddress returns the account holding the funds of a contract while
// it is active.
func CustodyAddress(id ContractID) hashlock.Address {
	return hashlock.NewCondition("htlc", "custody", id).Address()
}

// Record is the state of a single contract.
type Record struct {
	Sender   hashlock.Address
	Receiver hashlock.Address
	Asset    string
	Amount   coin.Amount
	Hashlock []byte
	Timelock hashlock.UnixTime
	State    State
	// Preimage is nil until the contract is withdrawn.
	Preimage []byte
}

// Validate ensures the record can be persisted.
func (r *Record) Validate() error {
	if err := r.Sender.Validate(); err != nil {
		return errors.Wrap(err, "sender")
	}
	if err := r.Receiver.Validate(); err != nil {
		return errors.Wrap(err, "receiver")
	}
	if !coin.IsAssetID(r.Asset) {
		return errors.Wrapf(errors.ErrInvalidInput, "asset %q", r.Asset)
	}
	if !r.Amount.IsPositive() {
		return errors.Wrap(errors.ErrInvalidAmount, "must be positive")
	}
	if err := r.Amount.Validate(); err != nil {
		return errors.Wrap(err, "amount")
	}
	if len(r.Hashlock) != HashlockSize {
		return errors.Wrapf(ErrInvalidHashlockLength, "%d bytes", len(r.Hashlock))
	}
	if err := r.State.Validate(); err != nil {
		return err
	}
	if (r.State == StateWithdrawn) != (r.Preimage != nil) {
		return errors.Wrap(errors.ErrInvalidModel, "preimage is present only in withdrawn state")
	}
	return nil
}

// Copy returns a deep copy of the record.
func (r *Record) Copy() *Record {
	cpy := *r
	cpy.Sender = r.Sender.Clone()
	cpy.Receiver = r.Receiver.Clone()
	cpy.Hashlock = append([]byte(nil), r.Hashlock...)
	if r.Preimage != nil {
		cpy.Preimage = append([]byte{}, r.Preimage...)
	}
	return &cpy
}

// record is the persisted form of Record.
type record struct {
	Sender   []byte `protobuf:"bytes,1,opt,name=sender,proto3" json:"sender,omitempty"`
	Receiver []byte `protobuf:"bytes,2,opt,name=receiver,proto3" json:"receiver,omitempty"`
	Asset    string `protobuf:"bytes,3,opt,name=asset,proto3" json:"asset,omitempty"`
	Amount   string `protobuf:"bytes,4,opt,name=amount,proto3" json:"amount,omitempty"`
	Hashlock []byte `protobuf:"bytes,5,opt,name=hashlock,proto3" json:"hashlock,omitempty"`
	Timelock uint64 `protobuf:"varint,6,opt,name=timelock,proto3" json:"timelock,omitempty"`
	State    int32  `protobuf:"varint,7,opt,name=state,proto3" json:"state,omitempty"`
	// HasPreimage distinguishes an absent preimage from an empty one.
	HasPreimage bool   `protobuf:"varint,8,opt,name=has_preimage,json=hasPreimage,proto3" json:"has_preimage,omitempty"`
	Preimage    []byte `protobuf:"bytes,9,opt,name=preimage,proto3" json:"preimage,omitempty"`
}

func (m *record) Reset()         { *m = record{} }
func (m *record) String() string { return proto.CompactTextString(m) }
func (*record) ProtoMessage()    {}

func (m *record) Validate() error {
	r, err := m.toRecord()
	if err != nil {
		return err
	}
	return r.Validate()
}

func fromRecord(r *Record) *record {
	return &record{
		Sender:      r.Sender,
		Receiver:    r.Receiver,
		Asset:       r.Asset,
		Amount:      r.Amount.String(),
		Hashlock:    r.Hashlock,
		Timelock:    uint64(r.Timelock),
		State:       int32(r.State),
		HasPreimage: r.Preimage != nil,
		Preimage:    r.Preimage,
	}
}

func (m *record) toRecord() (*Record, error) {
	amount, err := coin.ParseAmount(m.Amount)
	if err != nil {
		return nil, errors.Wrap(errors.ErrInvalidModel, err.Error())
	}
	r := &Record{
		Sender:   hashlock.Address(m.Sender),
		Receiver: hashlock.Address(m.Receiver),
		Asset:    m.Asset,
		Amount:   amount,
		Hashlock: m.Hashlock,
		Timelock: hashlock.UnixTime(m.Timelock),
		State:    State(m.State),
	}
	if m.HasPreimage {
		r.Preimage = m.Preimage
		if r.Preimage == nil {
			r.Preimage = []byte{}
		}
	}
	return r, nil
}
