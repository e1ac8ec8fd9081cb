package cash

import (
	"testing"

	"github.com/iov-one/quorum"
	"github.com/iov-one/quorum/coin"
	"github.com/iov-one/quorum/quorumtest"
	"github.com/iov-one/quorum/store"
	"github.com/stretchr/testify/require"
)

func TestInitState(t *testing.T) {
	addr := quorumtest.ParseAddress(t, "0x2c7536E3605D9C16a7a3D7b1898e529396a65c23")

	cases := map[string]struct {
		opts    quorum.Options
		wantErr bool
		want    coin.Amount
	}{
		"no data": {
			opts: quorum.Options{},
		},
		"other extension data is ignored": {
			opts: quorum.Options{"foo": []byte(`"bar"`)},
		},
		"malformed address": {
			opts:    quorum.Options{"cash": []byte(`[{"address": "1234", "amount": "1"}]`)},
			wantErr: true,
		},
		"missing address": {
			opts:    quorum.Options{"cash": []byte(`[{"amount": "1"}]`)},
			wantErr: true,
		},
		"string amount": {
			opts: quorum.Options{"cash": []byte(`[{"address": "0x2c7536e3605d9c16a7a3d7b1898e529396a65c23", "amount": "1000000000000000000000"}]`)},
			want: coin.MustParseAmount("1000000000000000000000"),
		},
		"numeric amount, repeated account": {
			opts: quorum.Options{"cash": []byte(`[
				{"address": "2c7536e3605d9c16a7a3d7b1898e529396a65c23", "amount": 7},
				{"address": "2c7536e3605d9c16a7a3d7b1898e529396a65c23", "amount": 3}
			]`)},
			want: coin.NewAmount(10),
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			db := store.MemStore()
			err := Initializer{}.FromGenesis(tc.opts, db)
			if tc.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)

			got, err := NewBucket().Get(db, addr)
			require.NoError(t, err)
			require.True(t, tc.want.Equals(got), "want %s, got %s", tc.want, got)
		})
	}
}
