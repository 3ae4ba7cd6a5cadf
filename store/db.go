package store

import (
	"github.com/iov-one/hashlock/errors"
	dbm "github.com/tendermint/tendermint/libs/db"
)

// DBStore exposes a tendermint database as a CacheableKVStore. A cache wrap
// created from it is flushed with a single database batch, so that a ledger
// operation lands on disk completely or not at all.
type DBStore struct {
	db dbm.DB
}

var _ CacheableKVStore = DBStore{}

// NewDBStore wraps an open database.
func NewDBStore(db dbm.DB) DBStore {
	return DBStore{db: db}
}

// OpenLevelDB opens (creating if needed) a goleveldb database named name in
// the dir directory.
func OpenLevelDB(dir, name string) (DBStore, error) {
	db, err := dbm.NewGoLevelDB(name, dir)
	if err != nil {
		return DBStore{}, errors.Wrapf(errors.ErrDatabase, "open %s/%s: %s", dir, name, err)
	}
	return NewDBStore(db), nil
}

// Get returns nil iff key doesn't exist.
func (s DBStore) Get(key []byte) ([]byte, error) {
	return s.db.Get(key), nil
}

// Has checks if a key exists.
func (s DBStore) Has(key []byte) (bool, error) {
	return s.db.Has(key), nil
}

// Set writes directly to the database.
func (s DBStore) Set(key, value []byte) error {
	s.db.Set(key, value)
	return nil
}

// Delete removes directly from the database.
func (s DBStore) Delete(key []byte) error {
	s.db.Delete(key)
	return nil
}

// NewBatch returns an atomic database batch.
func (s DBStore) NewBatch() Batch {
	return dbBatch{b: s.db.NewBatch()}
}

// CacheWrap returns a btree cache that is written with one atomic batch.
func (s DBStore) CacheWrap() KVCacheWrap {
	return NewBTreeCacheWrap(s, s.NewBatch(), nil)
}

// Close releases the database.
func (s DBStore) Close() {
	s.db.Close()
}

type dbBatch struct {
	b dbm.Batch
}

func (d dbBatch) Set(key, value []byte) error {
	d.b.Set(key, value)
	return nil
}

func (d dbBatch) Delete(key []byte) error {
	d.b.Delete(key)
	return nil
}

// Write flushes the batch to disk with fsync.
func (d dbBatch) Write() error {
	d.b.WriteSync()
	return nil
}
