package orm

import (
	"fmt"
	"regexp"

	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/hashlock"
	"github.com/iov-one/hashlock/errors"
)

var (
	isBucketName = regexp.MustCompile(`^[a-z_]{3,10}$`).MatchString
)

// Model is a protobuf message that can validate its state before being
// persisted.
type Model interface {
	proto.Message
	Validate() error
}

// Bucket is a prefixed subspace of the DB that holds a single type of
// objects.
//
// This is a generic building block that should generally
// be embedded in a type-safe wrapper to ensure all data
// is the same type.
type Bucket struct {
	name   string
	prefix []byte
}

// NewBucket creates a bucket to store data
func NewBucket(name string) Bucket {
	if !isBucketName(name) {
		panic(fmt.Sprintf("Illegal bucket: %s", name))
	}

	return Bucket{
		name:   name,
		prefix: append([]byte(name), ':'),
	}
}

// Name returns the name of the bucket.
func (b Bucket) Name() string {
	return b.name
}

// DBKey is the full key we store in the db, including prefix
// We copy into a new array rather than use append, as we don't
// want consequetive calls to overwrite the same byte array.
func (b Bucket) DBKey(key []byte) []byte {
	l := len(b.prefix)
	out := make([]byte, l+len(key))
	copy(out, b.prefix)
	copy(out[l:], key)
	return out
}

// Get loads the object stored under given key into dest. ErrNotFound is
// returned if there is no such object.
func (b Bucket) Get(db hashlock.ReadOnlyKVStore, key []byte, dest Model) error {
	bz, err := db.Get(b.DBKey(key))
	if err != nil {
		return errors.Wrap(errors.ErrDatabase, err.Error())
	}
	if bz == nil {
		return errors.Wrapf(errors.ErrNotFound, "%s %X", b.name, key)
	}
	if err := proto.Unmarshal(bz, dest); err != nil {
		return errors.Wrapf(errors.ErrInvalidModel, "cannot unmarshal %s: %s", b.name, err)
	}
	return nil
}

// Has returns true if an object is stored under given key.
func (b Bucket) Has(db hashlock.ReadOnlyKVStore, key []byte) (bool, error) {
	ok, err := db.Has(b.DBKey(key))
	if err != nil {
		return false, errors.Wrap(errors.ErrDatabase, err.Error())
	}
	return ok, nil
}

// Save will write a model under given key, overwriting any previous value.
func (b Bucket) Save(db hashlock.KVStore, key []byte, model Model) error {
	if len(key) == 0 {
		return errors.Wrap(errors.ErrEmpty, "key")
	}
	if err := model.Validate(); err != nil {
		return errors.Wrapf(err, "invalid %s", b.name)
	}
	bz, err := proto.Marshal(model)
	if err != nil {
		return errors.Wrapf(errors.ErrInvalidModel, "cannot marshal %s: %s", b.name, err)
	}
	if err := db.Set(b.DBKey(key), bz); err != nil {
		return errors.Wrap(errors.ErrDatabase, err.Error())
	}
	return nil
}

// Sequence returns a Sequence by name
func (b Bucket) Sequence(name string) Sequence {
	return NewSequence(b.name, name)
}
