package cash

import (
	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/hashlock"
	"github.com/iov-one/hashlock/coin"
	"github.com/iov-one/hashlock/errors"
	"github.com/iov-one/hashlock/orm"
)

// BucketName is where we store the balances
const BucketName = "cash"

// balance is the persisted amount of a single asset held by an account.
type balance struct {
	// Amount is the decimal representation of coin.Amount.
	Amount string `protobuf:"bytes,1,opt,name=amount,proto3" json:"amount,omitempty"`
}

func (m *balance) Reset()         { *m = balance{} }
func (m *balance) String() string { return proto.CompactTextString(m) }
func (*balance) ProtoMessage()    {}

func (m *balance) Validate() error {
	a, err := coin.ParseAmount(m.Amount)
	if err != nil {
		return err
	}
	if a.Sign() < 0 {
		return errors.Wrap(errors.ErrInvalidAmount, "negative balance")
	}
	return nil
}

// Bucket stores balances keyed by address and asset.
type Bucket struct {
	orm.Bucket
}

// NewBucket returns a bucket for managing balances.
func NewBucket() Bucket {
	return Bucket{orm.NewBucket(BucketName)}
}

// balanceKey is <address>/<asset>. Addresses have a fixed length so keys
// never collide.
func balanceKey(asset string, addr hashlock.Address) []byte {
	key := make([]byte, 0, len(addr)+1+len(asset))
	key = append(key, addr...)
	key = append(key, '/')
	return append(key, asset...)
}

// GetBalance returns the balance and whether the account exists.
func (b Bucket) GetBalance(db hashlock.ReadOnlyKVStore, asset string, addr hashlock.Address) (coin.Amount, bool, error) {
	var m balance
	switch err := b.Get(db, balanceKey(asset, addr), &m); {
	case errors.ErrNotFound.Is(err):
		return coin.Amount{}, false, nil
	case err != nil:
		return coin.Amount{}, false, err
	}
	a, err := coin.ParseAmount(m.Amount)
	if err != nil {
		return coin.Amount{}, false, errors.Wrap(errors.ErrInvalidModel, err.Error())
	}
	return a, true, nil
}

// SetBalance writes the balance of an account.
func (b Bucket) SetBalance(db hashlock.KVStore, asset string, addr hashlock.Address, amount coin.Amount) error {
	return b.Save(db, balanceKey(asset, addr), &balance{Amount: amount.String()})
}
