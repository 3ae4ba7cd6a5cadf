package eventlog

import (
	"github.com/iov-one/hashlock"
	"github.com/iov-one/hashlock/errors"
	"github.com/iov-one/hashlock/orm"
)

// BucketName is where the events are stored.
const BucketName = "events"

// Log is an append only sequence of events. Events are numbered from 1.
type Log struct {
	bucket orm.Bucket
	seq    orm.Sequence
}

// NewLog returns the event log.
func NewLog() *Log {
	b := orm.NewBucket(BucketName)
	return &Log{bucket: b, seq: b.Sequence("seq")}
}

// Append stores the event and returns its sequence number. It writes to db
// only, so an event appended to a discarded cache is gone with it.
func (l *Log) Append(db hashlock.KVStore, e *Event) (uint64, error) {
	if err := e.Validate(); err != nil {
		return 0, errors.Wrap(err, "event")
	}
	n, key, err := l.nextKey(db)
	if err != nil {
		return 0, err
	}
	if err := l.bucket.Save(db, key, e); err != nil {
		return 0, err
	}
	return n, nil
}

func (l *Log) nextKey(db hashlock.KVStore) (uint64, []byte, error) {
	key, err := l.seq.NextVal(db)
	if err != nil {
		return 0, nil, errors.Wrap(err, "event sequence")
	}
	n, err := orm.DecodeSequence(key)
	return n, key, err
}

// Get returns the event with given sequence number.
func (l *Log) Get(db hashlock.ReadOnlyKVStore, n uint64) (*Event, error) {
	var e Event
	if err := l.bucket.Get(db, orm.EncodeSequence(n), &e); err != nil {
		return nil, err
	}
	return &e, nil
}

// Count returns the number of stored events.
func (l *Log) Count(db hashlock.ReadOnlyKVStore) (uint64, error) {
	n, _, err := l.seq.Latest(db)
	return n, err
}

// Events returns events with sequence numbers in the [from, to] range.
// The range is truncated to stored events.
func (l *Log) Events(db hashlock.ReadOnlyKVStore, from, to uint64) ([]*Event, error) {
	count, err := l.Count(db)
	if err != nil {
		return nil, err
	}
	if from == 0 {
		from = 1
	}
	if to > count {
		to = count
	}
	if from > to {
		return nil, nil
	}
	res := make([]*Event, 0, to-from+1)
	for n := from; n <= to; n++ {
		e, err := l.Get(db, n)
		if err != nil {
			return nil, errors.Wrapf(err, "event %d", n)
		}
		res = append(res, e)
	}
	return res, nil
}
