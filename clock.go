package hashlock

import (
	"context"

	"github.com/iov-one/hashlock/errors"
)

// Clock is the time source of the environment. Now must return the same
// value for the whole duration of a single operation.
type Clock interface {
	Now(ctx context.Context) (UnixTime, error)
}

// BlockClock reads the time of the block being processed from the context,
// as set by WithBlockTime.
type BlockClock struct{}

var _ Clock = BlockClock{}

// Now returns the block time. Operating without block time is a broken
// setup and is reported as a coding error.
func (BlockClock) Now(ctx context.Context) (UnixTime, error) {
	t, ok := BlockTime(ctx)
	if !ok {
		return 0, errors.Wrap(errors.ErrHuman, "block time is not present")
	}
	return AsUnixTime(t), nil
}

// FixedClock always returns the same time.
type FixedClock UnixTime

var _ Clock = FixedClock(0)

func (c FixedClock) Now(context.Context) (UnixTime, error) {
	return UnixTime(c), nil
}
