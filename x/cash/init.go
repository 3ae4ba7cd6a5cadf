package cash

import (
	"github.com/iov-one/hashlock"
	"github.com/iov-one/hashlock/coin"
	"github.com/iov-one/hashlock/errors"
)

const optKey = "cash"

// GenesisAccount is used to parse the json from genesis file
type GenesisAccount struct {
	Address hashlock.Address `json:"address"`
	Coins   []GenesisCoin    `json:"coins"`
}

// GenesisCoin is an initial balance of a single asset.
type GenesisCoin struct {
	Asset  string      `json:"asset"`
	Amount coin.Amount `json:"amount"`
}

// Initializer fulfils the Initializer interface to load data from
// the genesis file
type Initializer struct{}

var _ hashlock.Initializer = Initializer{}

// FromGenesis will parse initial account info from genesis
// and save it to the database
func (Initializer) FromGenesis(opts hashlock.Options, kv hashlock.KVStore) error {
	var accts []GenesisAccount
	if err := opts.ReadOptions(optKey, &accts); err != nil {
		return err
	}
	ctrl := NewController()
	for i, acct := range accts {
		if err := acct.Address.Validate(); err != nil {
			return errors.Wrapf(err, "account %d", i)
		}
		for _, c := range acct.Coins {
			if c.Amount.Sign() < 0 {
				return errors.Wrapf(errors.ErrInvalidAmount, "account %d: negative %s", i, c.Asset)
			}
			if err := ctrl.IssueCoins(kv, c.Asset, acct.Address, c.Amount); err != nil {
				return errors.Wrapf(err, "account %d", i)
			}
		}
	}
	return nil
}
