package hashlock

import (
	"encoding/json"
	"math"
	"time"

	"github.com/iov-one/hashlock/errors"
)

// UnixTime represents a point in time as POSIX time, in seconds.
// Timelocks are expressed in this type. The value is unsigned: a deadline
// before the epoch makes no sense for a contract that is created now.
type UnixTime uint64

// Time returns a time.Time structure that represents the same moment in time.
func (t UnixTime) Time() time.Time {
	return time.Unix(int64(t), 0).UTC()
}

// IsZero returns true if this time represents a zero value.
func (t UnixTime) IsZero() bool {
	return t == 0
}

// Add modifies this UNIX time by given duration. This is compatible with
// time.Time.Add method. A result below the epoch is clamped to zero.
func (t UnixTime) Add(d time.Duration) UnixTime {
	secs := int64(d / time.Second)
	if secs < 0 && UnixTime(-secs) > t {
		return 0
	}
	return UnixTime(int64(t) + secs)
}

// AsUnixTime converts given Time structure into its UNIX time representation.
// Times before the epoch are represented as zero.
func AsUnixTime(t time.Time) UnixTime {
	unix := t.Unix()
	if unix < 0 {
		return 0
	}
	return UnixTime(unix)
}

// UnmarshalJSON supports unmarshaling both as time.Time and from a number.
// Usually a number is used as a representation of this time in JSON but it is
// convinient to use a string format in configurations (ie genesis file).
func (t *UnixTime) UnmarshalJSON(raw []byte) error {
	var unix uint64
	if err := json.Unmarshal(raw, &unix); err == nil {
		*t = UnixTime(unix)
		return nil
	}
	var signed int64
	if err := json.Unmarshal(raw, &signed); err == nil {
		return errors.Wrap(errors.ErrInvalidInput, "time before epoch")
	}

	var stdtime time.Time
	if err := json.Unmarshal(raw, &stdtime); err == nil {
		if stdtime.Unix() < 0 {
			return errors.Wrap(errors.ErrInvalidInput, "time before epoch")
		}
		*t = UnixTime(stdtime.Unix())
		return nil
	}

	return errors.Wrap(errors.ErrInvalidInput, "invalid time format")
}

// Validate returns an error if this time value cannot be represented as
// time.Time.
func (t UnixTime) Validate() error {
	if uint64(t) > math.MaxInt64 {
		return errors.Wrap(errors.ErrInvalidInput, "time overflow")
	}
	return nil
}

// String returns the usual string representation of this time as the time.Time
// structure would.
func (t UnixTime) String() string {
	return t.Time().String()
}
