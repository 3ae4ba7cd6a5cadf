package htlc

import (
	"context"

	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/hashlock"
	"github.com/iov-one/hashlock/eventlog"
)

// Event topics. Each event is published with the "htlc" topic followed by
// the kind of the change.
const (
	TopicNamespace = "htlc"
	TopicNew       = "new"
	TopicWithdraw  = "withdraw"
	TopicRefund    = "refund"
)

// EventSink records events inside the atomic boundary of an operation.
// Events written to a discarded store are dropped.
type EventSink interface {
	Append(db hashlock.KVStore, e *eventlog.Event) (uint64, error)
}

// Notifier receives events of committed operations.
type Notifier interface {
	Publish(ctx context.Context, e *eventlog.Event) error
}

// CreatedEvent is emitted when a contract is created.
type CreatedEvent struct {
	ContractID []byte `protobuf:"bytes,1,opt,name=contract_id,json=contractId,proto3" json:"contract_id,omitempty"`
	Sender     []byte `protobuf:"bytes,2,opt,name=sender,proto3" json:"sender,omitempty"`
	Receiver   []byte `protobuf:"bytes,3,opt,name=receiver,proto3" json:"receiver,omitempty"`
	Asset      string `protobuf:"bytes,4,opt,name=asset,proto3" json:"asset,omitempty"`
	Amount     string `protobuf:"bytes,5,opt,name=amount,proto3" json:"amount,omitempty"`
}

func (m *CreatedEvent) Reset()         { *m = CreatedEvent{} }
func (m *CreatedEvent) String() string { return proto.CompactTextString(m) }
func (*CreatedEvent) ProtoMessage()    {}

// WithdrawnEvent is emitted when a contract is withdrawn. It reveals the
// preimage to watchers.
type WithdrawnEvent struct {
	ContractID []byte `protobuf:"bytes,1,opt,name=contract_id,json=contractId,proto3" json:"contract_id,omitempty"`
	Receiver   []byte `protobuf:"bytes,2,opt,name=receiver,proto3" json:"receiver,omitempty"`
	Amount     string `protobuf:"bytes,3,opt,name=amount,proto3" json:"amount,omitempty"`
	Preimage   []byte `protobuf:"bytes,4,opt,name=preimage,proto3" json:"preimage,omitempty"`
}

func (m *WithdrawnEvent) Reset()         { *m = WithdrawnEvent{} }
func (m *WithdrawnEvent) String() string { return proto.CompactTextString(m) }
func (*WithdrawnEvent) ProtoMessage()    {}

// RefundedEvent is emitted when a contract is refunded.
type RefundedEvent struct {
	ContractID []byte `protobuf:"bytes,1,opt,name=contract_id,json=contractId,proto3" json:"contract_id,omitempty"`
	Sender     []byte `protobuf:"bytes,2,opt,name=sender,proto3" json:"sender,omitempty"`
	Amount     string `protobuf:"bytes,3,opt,name=amount,proto3" json:"amount,omitempty"`
}

func (m *RefundedEvent) Reset()         { *m = RefundedEvent{} }
func (m *RefundedEvent) String() string { return proto.CompactTextString(m) }
func (*RefundedEvent) ProtoMessage()    {}

func newCreatedEvent(id ContractID, r *Record) (*eventlog.Event, error) {
	return eventlog.NewEvent(id, &CreatedEvent{
		ContractID: id,
		Sender:     r.Sender,
		Receiver:   r.Receiver,
		Asset:      r.Asset,
		Amount:     r.Amount.String(),
	}, TopicNamespace, TopicNew)
}

func newWithdrawnEvent(id ContractID, r *Record) (*eventlog.Event, error) {
	return eventlog.NewEvent(id, &WithdrawnEvent{
		ContractID: id,
		Receiver:   r.Receiver,
		Amount:     r.Amount.String(),
		Preimage:   r.Preimage,
	}, TopicNamespace, TopicWithdraw)
}

func newRefundedEvent(id ContractID, r *Record) (*eventlog.Event, error) {
	return eventlog.NewEvent(id, &RefundedEvent{
		ContractID: id,
		Sender:     r.Sender,
		Amount:     r.Amount.String(),
	}, TopicNamespace, TopicRefund)
}
