package eventlog

import (
	"strings"

	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/hashlock/errors"
)

// Event is a single entry of the log. Topics classify the event, Key
// identifies the entity it refers to and Payload holds a protobuf encoded
// description of the change.
type Event struct {
	Topics  []string `protobuf:"bytes,1,rep,name=topics,proto3" json:"topics,omitempty"`
	Key     []byte   `protobuf:"bytes,2,opt,name=key,proto3" json:"key,omitempty"`
	Payload []byte   `protobuf:"bytes,3,opt,name=payload,proto3" json:"payload,omitempty"`
}

func (m *Event) Reset()         { *m = Event{} }
func (m *Event) String() string { return proto.CompactTextString(m) }
func (*Event) ProtoMessage()    {}

// Validate ensures the event can be stored.
func (e *Event) Validate() error {
	if len(e.Topics) == 0 {
		return errors.Wrap(errors.ErrEmpty, "topics")
	}
	for i, t := range e.Topics {
		if t == "" {
			return errors.Wrapf(errors.ErrEmpty, "topic %d", i)
		}
	}
	return nil
}

// Topic returns the topics joined with a slash, for example "htlc/new".
func (e *Event) Topic() string {
	return strings.Join(e.Topics, "/")
}

// DecodePayload unmarshals the payload into dest.
func (e *Event) DecodePayload(dest proto.Message) error {
	if err := proto.Unmarshal(e.Payload, dest); err != nil {
		return errors.Wrapf(errors.ErrInvalidModel, "payload of %s: %s", e.Topic(), err)
	}
	return nil
}

// NewEvent builds an event with a protobuf encoded payload.
func NewEvent(key []byte, payload proto.Message, topics ...string) (*Event, error) {
	raw, err := proto.Marshal(payload)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInvalidModel, "cannot marshal payload: %s", err)
	}
	return &Event{Topics: topics, Key: key, Payload: raw}, nil
}
