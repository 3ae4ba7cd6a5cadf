package app

import (
	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/hashlock"
	"github.com/iov-one/hashlock/coin"
	"github.com/iov-one/hashlock/crypto"
	"github.com/iov-one/hashlock/errors"
	"github.com/iov-one/hashlock/x/htlc"
	"github.com/iov-one/hashlock/x/sigs"
)

// Tx is a signed request carrying exactly one ledger message.
type Tx struct {
	Create     *CreateTx            `protobuf:"bytes,1,opt,name=create,proto3" json:"create,omitempty"`
	Withdraw   *WithdrawTx          `protobuf:"bytes,2,opt,name=withdraw,proto3" json:"withdraw,omitempty"`
	Refund     *RefundTx            `protobuf:"bytes,3,opt,name=refund,proto3" json:"refund,omitempty"`
	Signatures []*sigs.StdSignature `protobuf:"bytes,4,rep,name=signatures,proto3" json:"signatures,omitempty"`
}

func (m *Tx) Reset()         { *m = Tx{} }
func (m *Tx) String() string { return proto.CompactTextString(m) }
func (*Tx) ProtoMessage()    {}

// CreateTx is the wire form of htlc.CreateMsg.
type CreateTx struct {
	Sender   []byte `protobuf:"bytes,1,opt,name=sender,proto3" json:"sender,omitempty"`
	Receiver []byte `protobuf:"bytes,2,opt,name=receiver,proto3" json:"receiver,omitempty"`
	Asset    string `protobuf:"bytes,3,opt,name=asset,proto3" json:"asset,omitempty"`
	Amount   string `protobuf:"bytes,4,opt,name=amount,proto3" json:"amount,omitempty"`
	Hashlock []byte `protobuf:"bytes,5,opt,name=hashlock,proto3" json:"hashlock,omitempty"`
	Timelock uint64 `protobuf:"varint,6,opt,name=timelock,proto3" json:"timelock,omitempty"`
}

func (m *CreateTx) Reset()         { *m = CreateTx{} }
func (m *CreateTx) String() string { return proto.CompactTextString(m) }
func (*CreateTx) ProtoMessage()    {}

// WithdrawTx is the wire form of htlc.WithdrawMsg.
type WithdrawTx struct {
	ContractID []byte `protobuf:"bytes,1,opt,name=contract_id,json=contractId,proto3" json:"contract_id,omitempty"`
	Preimage   []byte `protobuf:"bytes,2,opt,name=preimage,proto3" json:"preimage,omitempty"`
}

func (m *WithdrawTx) Reset()         { *m = WithdrawTx{} }
func (m *WithdrawTx) String() string { return proto.CompactTextString(m) }
func (*WithdrawTx) ProtoMessage()    {}

// RefundTx is the wire form of htlc.RefundMsg.
type RefundTx struct {
	ContractID []byte `protobuf:"bytes,1,opt,name=contract_id,json=contractId,proto3" json:"contract_id,omitempty"`
}

func (m *RefundTx) Reset()         { *m = RefundTx{} }
func (m *RefundTx) String() string { return proto.CompactTextString(m) }
func (*RefundTx) ProtoMessage()    {}

// NewCreateTx returns an unsigned transaction creating a contract.
func NewCreateTx(msg *htlc.CreateMsg) *Tx {
	return &Tx{Create: &CreateTx{
		Sender:   msg.Sender,
		Receiver: msg.Receiver,
		Asset:    msg.Asset,
		Amount:   msg.Amount.String(),
		Hashlock: msg.Hashlock,
		Timelock: uint64(msg.Timelock),
	}}
}

// NewWithdrawTx returns an unsigned transaction withdrawing a contract.
func NewWithdrawTx(msg *htlc.WithdrawMsg) *Tx {
	return &Tx{Withdraw: &WithdrawTx{ContractID: msg.ContractID, Preimage: msg.Preimage}}
}

// NewRefundTx returns an unsigned transaction refunding a contract.
func NewRefundTx(msg *htlc.RefundMsg) *Tx {
	return &Tx{Refund: &RefundTx{ContractID: msg.ContractID}}
}

// Marshal serializes the transaction.
func (tx *Tx) Marshal() ([]byte, error) {
	raw, err := proto.Marshal(tx)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInvalidMsg, "marshal: %s", err)
	}
	return raw, nil
}

// ParseTx deserializes a transaction.
func ParseTx(raw []byte) (*Tx, error) {
	var tx Tx
	if err := proto.Unmarshal(raw, &tx); err != nil {
		return nil, errors.Wrapf(errors.ErrInvalidMsg, "unmarshal: %s", err)
	}
	return &tx, nil
}

// SignBytes returns the bytes covered by the signatures: the serialized
// transaction without signatures.
func (tx *Tx) SignBytes() ([]byte, error) {
	unsigned := *tx
	unsigned.Signatures = nil
	return unsigned.Marshal()
}

// Sign appends a signature of the signer with given sequence.
func (tx *Tx) Sign(signer crypto.PrivateKey, chainID string, seq uint64) error {
	bz, err := tx.SignBytes()
	if err != nil {
		return err
	}
	sig, err := sigs.Sign(signer, bz, chainID, seq)
	if err != nil {
		return err
	}
	tx.Signatures = append(tx.Signatures, sig)
	return nil
}

// Msg returns the ledger message carried by the transaction.
func (tx *Tx) Msg() (interface{}, error) {
	var set int
	for _, present := range []bool{tx.Create != nil, tx.Withdraw != nil, tx.Refund != nil} {
		if present {
			set++
		}
	}
	if set != 1 {
		return nil, errors.Wrapf(errors.ErrInvalidMsg, "transaction must carry exactly one message, got %d", set)
	}

	switch {
	case tx.Create != nil:
		amount, err := coin.ParseAmount(tx.Create.Amount)
		if err != nil {
			return nil, errors.Wrap(errors.ErrInvalidAmount, err.Error())
		}
		return &htlc.CreateMsg{
			Sender:   hashlock.Address(tx.Create.Sender),
			Receiver: hashlock.Address(tx.Create.Receiver),
			Asset:    tx.Create.Asset,
			Amount:   amount,
			Hashlock: tx.Create.Hashlock,
			Timelock: hashlock.UnixTime(tx.Create.Timelock),
		}, nil
	case tx.Withdraw != nil:
		return &htlc.WithdrawMsg{
			ContractID: htlc.ContractID(tx.Withdraw.ContractID),
			Preimage:   tx.Withdraw.Preimage,
		}, nil
	default:
		return &htlc.RefundMsg{ContractID: htlc.ContractID(tx.Refund.ContractID)}, nil
	}
}
