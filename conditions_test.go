package hashlock_test

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/iov-one/hashlock"
	"github.com/iov-one/hashlock/errors"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddressPrinting(t *testing.T) {
	Convey("addresses print as bech32", t, func() {
		addr := hashlock.Address(bytes.Repeat([]byte{0x01}, 20))

		So(addr.String(), ShouldNotEqual, fmt.Sprintf("%X", addr))
		So(addr.String(), ShouldStartWith, "htlc1")
	})

	Convey("conditions keep extension and type readable", t, func() {
		cond := hashlock.NewCondition("sigs", "ed25519", []byte{0xAB, 0xCD})

		So(cond.String(), ShouldEqual, "sigs/ed25519/ABCD")
		So(cond.Validate(), ShouldBeNil)
	})

	Convey("an empty address has a placeholder", t, func() {
		So(hashlock.Address(nil).String(), ShouldEqual, "(nil)")
	})
}

func TestParseAddress(t *testing.T) {
	raw := bytes.Repeat([]byte{0x42}, 20)
	cond := hashlock.NewCondition("foo", "bar", []byte("conditiondata"))

	cases := map[string]struct {
		enc      string
		wantErr  *errors.Error
		wantAddr hashlock.Address
	}{
		"default hex decoding": {
			enc:      hex.EncodeToString(raw),
			wantAddr: raw,
		},
		"explicit hex decoding": {
			enc:      "hex:" + hex.EncodeToString(raw),
			wantAddr: raw,
		},
		"bech32 decoding": {
			enc:      hashlock.Address(raw).String(),
			wantAddr: raw,
		},
		"explicit bech32 decoding": {
			enc:      "bech32:" + hashlock.Address(raw).String(),
			wantAddr: raw,
		},
		"cond decoding": {
			enc:      "cond:foo/bar/636f6e646974696f6e64617461",
			wantAddr: cond.Address(),
		},
		"invalid condition format": {
			enc:     "cond:foo/636f6e646974696f6e64617461",
			wantErr: errors.ErrInvalidInput,
		},
		"invalid condition data": {
			enc:     "cond:foo/bar/zzzzz",
			wantErr: errors.ErrInvalidInput,
		},
		"unknown format": {
			enc:     "foobar:xxx",
			wantErr: errors.ErrInvalidType,
		},
		"invalid hex": {
			enc:     "zz",
			wantErr: errors.ErrInvalidInput,
		},
		"too short": {
			enc:     "hex:6865782d61646472",
			wantErr: errors.ErrInvalidInput,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			addr, err := hashlock.ParseAddress(tc.enc)
			if !tc.wantErr.Is(err) {
				t.Fatalf("got error: %+v", err)
			}
			if err == nil && !tc.wantAddr.Equals(addr) {
				t.Fatalf("got address: %q", addr)
			}
		})
	}
}

func TestAddressJSON(t *testing.T) {
	addr := hashlock.NewCondition("htlc", "custody", []byte{1, 2, 3}).Address()

	raw, err := json.Marshal(addr)
	require.NoError(t, err)

	var got hashlock.Address
	require.NoError(t, json.Unmarshal(raw, &got))
	assert.Equal(t, addr, got)

	var empty hashlock.Address
	require.NoError(t, json.Unmarshal([]byte(`""`), &empty))
	assert.Nil(t, empty)
}

func TestAddressValidate(t *testing.T) {
	assert.True(t, errors.ErrEmpty.Is(hashlock.Address(nil).Validate()))
	assert.True(t, errors.ErrInvalidInput.Is(hashlock.Address("short").Validate()))
	assert.NoError(t, hashlock.NewAddress([]byte("any data")).Validate())
}

func TestAddressClone(t *testing.T) {
	addr := hashlock.NewAddress([]byte("principal"))
	cpy := addr.Clone()
	cpy[0]++
	assert.False(t, addr.Equals(cpy))
	assert.Nil(t, hashlock.Address(nil).Clone())
}

func TestConditionParse(t *testing.T) {
	cond := hashlock.NewCondition("htlc", "custody", []byte("data"))
	ext, typ, data, err := cond.Parse()
	require.NoError(t, err)
	assert.Equal(t, "htlc", ext)
	assert.Equal(t, "custody", typ)
	assert.Equal(t, []byte("data"), data)

	_, _, _, err = hashlock.Condition("no-slashes").Parse()
	assert.True(t, errors.ErrInvalidInput.Is(err))
}
