package eventlog

import (
	"context"
	"encoding/hex"
	"strings"

	"github.com/iov-one/hashlock/errors"
	"github.com/tendermint/tendermint/libs/log"
	"github.com/tendermint/tendermint/libs/pubsub"
	"github.com/tendermint/tendermint/libs/pubsub/query"
)

const (
	// TagTopic is the tag holding the event topic, for example "htlc/new".
	TagTopic = "htlc.topic"
	// TagKey is the tag holding the upper case hex encoded event key.
	TagKey = "htlc.contract"

	// subscriptionCapacity is the number of undelivered events a
	// subscription can hold before it is canceled.
	subscriptionCapacity = 100
)

// Bus delivers events to subscribers. Only publish events of committed
// changes.
type Bus struct {
	srv *pubsub.Server
}

// NewBus returns a bus that must be started before use.
func NewBus(logger log.Logger) *Bus {
	srv := pubsub.NewServer(pubsub.BufferCapacity(100))
	srv.SetLogger(logger.With("module", "eventbus"))
	return &Bus{srv: srv}
}

// Start starts the delivery routine.
func (b *Bus) Start() error {
	return b.srv.Start()
}

// Stop stops the delivery routine. All subscriptions are canceled.
func (b *Bus) Stop() error {
	return b.srv.Stop()
}

// Tags returns the tags an event is published with.
func Tags(e *Event) map[string]string {
	return map[string]string{
		TagTopic: e.Topic(),
		TagKey:   strings.ToUpper(hex.EncodeToString(e.Key)),
	}
}

// Publish delivers the event to all matching subscriptions.
func (b *Bus) Publish(ctx context.Context, e *Event) error {
	if err := b.srv.PublishWithTags(ctx, e, Tags(e)); err != nil {
		return errors.Wrap(errors.ErrHuman, err.Error())
	}
	return nil
}

// Subscribe returns a subscription to events matching the query, for
// example
//
//	htlc.topic = 'htlc/withdraw' AND htlc.contract = 'A3F1...'
func (b *Bus) Subscribe(ctx context.Context, subscriber, q string) (*Subscription, error) {
	parsed, err := query.New(q)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInvalidInput, "query %q: %s", q, err)
	}
	sub, err := b.srv.Subscribe(ctx, subscriber, parsed, subscriptionCapacity)
	if err != nil {
		return nil, errors.Wrap(errors.ErrInvalidState, err.Error())
	}
	return &Subscription{sub: sub}, nil
}

// Unsubscribe cancels all subscriptions of the subscriber.
func (b *Bus) Unsubscribe(ctx context.Context, subscriber string) error {
	if err := b.srv.UnsubscribeAll(ctx, subscriber); err != nil {
		return errors.Wrap(errors.ErrNotFound, err.Error())
	}
	return nil
}

// Subscription receives published events.
type Subscription struct {
	sub *pubsub.Subscription
}

// Next blocks until an event is delivered, the subscription is canceled or
// the context is done.
func (s *Subscription) Next(ctx context.Context) (*Event, error) {
	select {
	case msg := <-s.sub.Out():
		e, ok := msg.Data().(*Event)
		if !ok {
			return nil, errors.Wrapf(errors.ErrInvalidType, "%T", msg.Data())
		}
		return e, nil
	case <-s.sub.Cancelled():
		return nil, errors.Wrapf(errors.ErrInvalidState, "subscription canceled: %s", s.sub.Err())
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
