package htlc

import (
	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/hashlock"
	"github.com/iov-one/hashlock/errors"
	"github.com/iov-one/hashlock/gconf"
)

const confPkg = "htlc"

// maxPreimageLength bounds the configurable preimage length.
const maxPreimageLength = 1024

// Configuration of the ledger, stored with gconf.
type Configuration struct {
	// PreimageLength when not zero requires preimages to be exactly that
	// many bytes long.
	PreimageLength uint32 `protobuf:"varint,1,opt,name=preimage_length,json=preimageLength,proto3" json:"preimage_length,omitempty"`
	// MaxTimelockHorizon when not zero limits how far in the future (in
	// seconds) a timelock can be set.
	MaxTimelockHorizon uint64 `protobuf:"varint,2,opt,name=max_timelock_horizon,json=maxTimelockHorizon,proto3" json:"max_timelock_horizon,omitempty"`
}

func (m *Configuration) Reset()         { *m = Configuration{} }
func (m *Configuration) String() string { return proto.CompactTextString(m) }
func (*Configuration) ProtoMessage()    {}

// Validate ensures the configuration values are sane.
func (c *Configuration) Validate() error {
	if c.PreimageLength > maxPreimageLength {
		return errors.Wrapf(errors.ErrInvalidInput, "preimage length must not exceed %d", maxPreimageLength)
	}
	return nil
}

// loadConf returns the stored configuration or the zero configuration if
// none was saved.
func loadConf(db hashlock.ReadOnlyKVStore) (Configuration, error) {
	var conf Configuration
	switch err := gconf.Load(db, confPkg, &conf); {
	case err == nil:
		return conf, nil
	case errors.ErrNotFound.Is(err):
		return Configuration{}, nil
	default:
		return Configuration{}, errors.Wrap(err, "load configuration")
	}
}

// SaveConfiguration validates and stores the configuration.
func SaveConfiguration(db hashlock.KVStore, conf Configuration) error {
	return gconf.Save(db, confPkg, &conf)
}
