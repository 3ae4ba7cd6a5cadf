package htlc

import (
	"github.com/iov-one/hashlock"
	"github.com/iov-one/hashlock/gconf"
)

// Initializer loads the ledger configuration from the genesis. Missing
// configuration leaves the defaults in place.
type Initializer struct{}

var _ hashlock.Initializer = Initializer{}

// FromGenesis reads opts["conf"]["htlc"].
func (Initializer) FromGenesis(opts hashlock.Options, db hashlock.KVStore) error {
	var confOptions hashlock.Options
	if err := opts.ReadOptions("conf", &confOptions); err != nil {
		return err
	}
	if confOptions[confPkg] == nil {
		return nil
	}
	var conf Configuration
	return gconf.InitConfig(db, opts, confPkg, &conf)
}
