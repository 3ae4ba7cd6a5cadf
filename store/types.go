package store

import "github.com/iov-one/hashlock"

// Move references for all storage types into this package
// for shorter names everywhere

type ReadOnlyKVStore = hashlock.ReadOnlyKVStore
type SetDeleter = hashlock.SetDeleter
type KVStore = hashlock.KVStore
type Batch = hashlock.Batch
type CacheableKVStore = hashlock.CacheableKVStore
type KVCacheWrap = hashlock.KVCacheWrap
type CommitKVStore = hashlock.CommitKVStore
type CommitID = hashlock.CommitID
