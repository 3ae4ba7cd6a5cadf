package eventlog

import (
	"context"
	"testing"
	"time"

	"github.com/iov-one/hashlock/errors"
	"github.com/iov-one/hashlock/hashlocktest/assert"
	"github.com/tendermint/tendermint/libs/log"
)

func TestBus(t *testing.T) {
	bus := NewBus(log.NewNopLogger())
	assert.Nil(t, bus.Start())
	defer bus.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	withdrawals, err := bus.Subscribe(ctx, "watcher", "htlc.topic = 'htlc/withdraw'")
	assert.Nil(t, err)
	all, err := bus.Subscribe(ctx, "auditor", "htlc.contract = 'AB'")
	assert.Nil(t, err)

	created := &Event{Topics: []string{"htlc", "new"}, Key: []byte{0xAB}}
	withdrawn := &Event{Topics: []string{"htlc", "withdraw"}, Key: []byte{0xAB}}
	assert.Nil(t, bus.Publish(ctx, created))
	assert.Nil(t, bus.Publish(ctx, withdrawn))

	got, err := withdrawals.Next(ctx)
	assert.Nil(t, err)
	assert.Equal(t, withdrawn, got)

	got, err = all.Next(ctx)
	assert.Nil(t, err)
	assert.Equal(t, created, got)
	got, err = all.Next(ctx)
	assert.Nil(t, err)
	assert.Equal(t, withdrawn, got)

	assert.Nil(t, bus.Unsubscribe(ctx, "watcher"))
}

func TestBusInvalidQuery(t *testing.T) {
	bus := NewBus(log.NewNopLogger())
	assert.Nil(t, bus.Start())
	defer bus.Stop()

	_, err := bus.Subscribe(context.Background(), "watcher", "htlc.topic ==")
	assert.IsErr(t, errors.ErrInvalidInput, err)
}

func TestTags(t *testing.T) {
	tags := Tags(&Event{Topics: []string{"htlc", "refund"}, Key: []byte{0x0a, 0xff}})
	assert.Equal(t, "htlc/refund", tags[TagTopic])
	assert.Equal(t, "0AFF", tags[TagKey])
}
