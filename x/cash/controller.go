package cash

import (
	"github.com/iov-one/hashlock"
	"github.com/iov-one/hashlock/coin"
	"github.com/iov-one/hashlock/errors"
)

// Controller is the functionality needed by other extensions to move value
// between accounts.
type Controller interface {
	Balance(db hashlock.ReadOnlyKVStore, asset string, addr hashlock.Address) (coin.Amount, error)
	MoveCoins(db hashlock.KVStore, asset string, src, dest hashlock.Address, amount coin.Amount) error
	IssueCoins(db hashlock.KVStore, asset string, dest hashlock.Address, amount coin.Amount) error
}

// BaseController is the default Controller implementation.
type BaseController struct {
	bucket Bucket
}

var _ Controller = BaseController{}

// NewController returns a controller using the cash bucket.
func NewController() BaseController {
	return BaseController{bucket: NewBucket()}
}

// Balance returns the amount of an asset held by the account. Unknown
// accounts hold nothing.
func (c BaseController) Balance(db hashlock.ReadOnlyKVStore, asset string, addr hashlock.Address) (coin.Amount, error) {
	if !coin.IsAssetID(asset) {
		return coin.Amount{}, errors.Wrapf(errors.ErrInvalidInput, "asset %q", asset)
	}
	a, _, err := c.bucket.GetBalance(db, asset, addr)
	return a, err
}

// MoveCoins moves the given amount from src to dest.
// If src doesn't exist, or doesn't have sufficient
// coins, it fails.
func (c BaseController) MoveCoins(db hashlock.KVStore, asset string, src, dest hashlock.Address, amount coin.Amount) error {
	if !amount.IsPositive() {
		return errors.Wrap(errors.ErrInvalidAmount, "non-positive transfer")
	}
	if !coin.IsAssetID(asset) {
		return errors.Wrapf(errors.ErrInvalidInput, "asset %q", asset)
	}
	if err := dest.Validate(); err != nil {
		return errors.Wrap(err, "destination")
	}

	have, ok, err := c.bucket.GetBalance(db, asset, src)
	if err != nil {
		return err
	}
	if !ok {
		return errors.Wrapf(errors.ErrEmpty, "account %s has no %s", src, asset)
	}
	if have.Cmp(amount) < 0 {
		return errors.Wrapf(errors.ErrInsufficientAmount, "account %s has %s %s", src, have, asset)
	}
	left, err := have.Sub(amount)
	if err != nil {
		return err
	}
	if err := c.bucket.SetBalance(db, asset, src, left); err != nil {
		return err
	}

	// read after write so that moving to self is a noop
	recv, _, err := c.bucket.GetBalance(db, asset, dest)
	if err != nil {
		return err
	}
	total, err := recv.Add(amount)
	if err != nil {
		return err
	}
	return c.bucket.SetBalance(db, asset, dest, total)
}

// IssueCoins attempts to add the given amount of coins to
// the destination address. Fails if it overflows the account.
//
// Note the amount may also be negative:
// "the lord giveth and the lord taketh away"
func (c BaseController) IssueCoins(db hashlock.KVStore, asset string, dest hashlock.Address, amount coin.Amount) error {
	if !coin.IsAssetID(asset) {
		return errors.Wrapf(errors.ErrInvalidInput, "asset %q", asset)
	}
	if err := dest.Validate(); err != nil {
		return errors.Wrap(err, "destination")
	}
	have, _, err := c.bucket.GetBalance(db, asset, dest)
	if err != nil {
		return err
	}
	total, err := have.Add(amount)
	if err != nil {
		return err
	}
	if total.Sign() < 0 {
		return errors.Wrapf(errors.ErrInsufficientAmount, "account %s has %s %s", dest, have, asset)
	}
	return c.bucket.SetBalance(db, asset, dest, total)
}
