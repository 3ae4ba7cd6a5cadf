package gconf

import (
	"encoding/json"
	"testing"

	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/hashlock"
	"github.com/iov-one/hashlock/errors"
	"github.com/iov-one/hashlock/hashlocktest/assert"
	"github.com/iov-one/hashlock/store"
)

type testConf struct {
	Name  string `protobuf:"bytes,1,opt,name=name,proto3" json:"name,omitempty"`
	Limit uint64 `protobuf:"varint,2,opt,name=limit,proto3" json:"limit,omitempty"`
}

func (m *testConf) Reset()         { *m = testConf{} }
func (m *testConf) String() string { return proto.CompactTextString(m) }
func (*testConf) ProtoMessage()    {}

func (m *testConf) Validate() error {
	if m.Name == "" {
		return errors.Wrap(errors.ErrEmpty, "name")
	}
	return nil
}

func TestSaveLoad(t *testing.T) {
	cases := map[string]struct {
		Conf        *testConf
		WantSaveErr *errors.Error
	}{
		"valid": {
			Conf: &testConf{Name: "foobar", Limit: 852151421},
		},
		"invalid cannot be saved": {
			Conf:        &testConf{Limit: 1},
			WantSaveErr: errors.ErrEmpty,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			db := store.MemStore()
			err := Save(db, "mypkg", tc.Conf)
			if tc.WantSaveErr != nil {
				assert.IsErr(t, tc.WantSaveErr, err)
				return
			}
			assert.Nil(t, err)

			var got testConf
			assert.Nil(t, Load(db, "mypkg", &got))
			assert.Equal(t, *tc.Conf, got)
		})
	}
}

func TestLoadMissing(t *testing.T) {
	db := store.MemStore()
	var got testConf
	assert.IsErr(t, errors.ErrNotFound, Load(db, "mypkg", &got))
}

func TestInitConfig(t *testing.T) {
	cases := map[string]struct {
		Genesis string
		WantErr *errors.Error
	}{
		"valid": {
			Genesis: `{"conf": {"mypkg": {"name": "a", "limit": 3}}}`,
		},
		"missing package": {
			Genesis: `{"conf": {"other": {"name": "a"}}}`,
			WantErr: errors.ErrNotFound,
		},
		"invalid configuration": {
			Genesis: `{"conf": {"mypkg": {"limit": 3}}}`,
			WantErr: errors.ErrEmpty,
		},
		"malformed configuration": {
			Genesis: `{"conf": {"mypkg": {"limit": "three"}}}`,
			WantErr: errors.ErrInvalidInput,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			var opts hashlock.Options
			if err := json.Unmarshal([]byte(tc.Genesis), &opts); err != nil {
				t.Fatalf("cannot unmarshal genesis: %s", err)
			}
			db := store.MemStore()
			var conf testConf
			err := InitConfig(db, opts, "mypkg", &conf)
			if tc.WantErr != nil {
				assert.IsErr(t, tc.WantErr, err)
				return
			}
			assert.Nil(t, err)

			var got testConf
			assert.Nil(t, Load(db, "mypkg", &got))
			assert.Equal(t, testConf{Name: "a", Limit: 3}, got)
		})
	}
}
