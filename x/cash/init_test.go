package cash

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/iov-one/hashlock"
	"github.com/iov-one/hashlock/errors"
	"github.com/iov-one/hashlock/hashlocktest"
	"github.com/iov-one/hashlock/hashlocktest/assert"
	"github.com/iov-one/hashlock/store"
)

func TestGenesisInitializer(t *testing.T) {
	addr := hashlocktest.NewCondition().Address()

	cases := map[string]struct {
		genesis string
		wantErr *errors.Error
		want    map[string]string
	}{
		"no cash": {
			genesis: `{}`,
		},
		"balances": {
			genesis: fmt.Sprintf(`{"cash": [{"address": %q, "coins": [
				{"asset": "XLM", "amount": "1000"},
				{"asset": "USDC", "amount": 7}
			]}]}`, "hex:"+fmt.Sprintf("%X", []byte(addr))),
			want: map[string]string{"XLM": "1000", "USDC": "7"},
		},
		"negative balance": {
			genesis: fmt.Sprintf(`{"cash": [{"address": %q, "coins": [
				{"asset": "XLM", "amount": "-1"}
			]}]}`, addr.String()),
			wantErr: errors.ErrInvalidAmount,
		},
		"invalid address": {
			genesis: `{"cash": [{"address": "hex:0102", "coins": []}]}`,
			wantErr: errors.ErrInvalidInput,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			var opts hashlock.Options
			if err := json.Unmarshal([]byte(tc.genesis), &opts); err != nil {
				t.Fatalf("cannot unmarshal genesis: %s", err)
			}
			db := store.MemStore()
			err := Initializer{}.FromGenesis(opts, db)
			if tc.wantErr != nil {
				assert.IsErr(t, tc.wantErr, err)
				return
			}
			assert.Nil(t, err)

			ctrl := NewController()
			for asset, want := range tc.want {
				got, err := ctrl.Balance(db, asset, addr)
				assert.Nil(t, err)
				assert.Equal(t, want, got.String())
			}
		})
	}
}
