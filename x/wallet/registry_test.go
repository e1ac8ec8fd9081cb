package wallet

import (
	"encoding/json"
	"testing"

	"github.com/iov-one/quorum"
	"github.com/iov-one/quorum/errors"
	"github.com/iov-one/quorum/quorumtest"
	"github.com/iov-one/quorum/quorumtest/assert"
	"github.com/iov-one/quorum/store"
	"github.com/stretchr/testify/require"
)

func TestNewRegistry(t *testing.T) {
	a := quorumtest.RandomAddr(t)
	b := quorumtest.RandomAddr(t)
	c := quorumtest.RandomAddr(t)
	account := quorumtest.RandomAddr(t)

	cases := map[string]struct {
		owners   []quorum.Address
		required uint32
		address  quorum.Address
		wantErr  *errors.Error
	}{
		"one of one": {
			owners:   []quorum.Address{a},
			required: 1,
		},
		"two of three with explicit address": {
			owners:   []quorum.Address{a, b, c},
			required: 2,
			address:  account,
		},
		"all of three": {
			owners:   []quorum.Address{a, b, c},
			required: 3,
		},
		"no owners": {
			required: 1,
			wantErr:  ErrInvalidRegistry,
		},
		"zero required": {
			owners:   []quorum.Address{a, b},
			required: 0,
			wantErr:  ErrInvalidRegistry,
		},
		"more required than owners": {
			owners:   []quorum.Address{a, b},
			required: 3,
			wantErr:  ErrInvalidRegistry,
		},
		"duplicated owner": {
			owners:   []quorum.Address{a, b, a},
			required: 2,
			wantErr:  ErrInvalidRegistry,
		},
		"zero owner": {
			owners:   []quorum.Address{a, make(quorum.Address, quorum.AddressLength)},
			required: 1,
			wantErr:  ErrInvalidRegistry,
		},
		"short owner": {
			owners:   []quorum.Address{a, {1, 2, 3}},
			required: 1,
			wantErr:  ErrInvalidRegistry,
		},
		"zero account address": {
			owners:   []quorum.Address{a},
			required: 1,
			address:  make(quorum.Address, quorum.AddressLength),
			wantErr:  ErrInvalidRegistry,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			reg, err := NewRegistry(tc.owners, tc.required, tc.address)
			if tc.wantErr != nil {
				assert.IsErr(t, tc.wantErr, err)
				require.Nil(t, reg)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tc.required, reg.Required())
			require.Equal(t, tc.owners, reg.Owners())
			for _, o := range tc.owners {
				require.True(t, reg.IsOwner(o))
			}
			require.False(t, reg.IsOwner(quorumtest.RandomAddr(t)))
			if tc.address != nil {
				require.Equal(t, tc.address, reg.Address())
			} else {
				require.Equal(t, DeriveAddress(tc.owners, tc.required), reg.Address())
			}
		})
	}
}

func TestRegistryIsACopy(t *testing.T) {
	a := quorumtest.RandomAddr(t)
	owners := []quorum.Address{a.Clone()}
	reg, err := NewRegistry(owners, 1, nil)
	require.NoError(t, err)

	owners[0][0] ^= 0xff
	require.True(t, reg.IsOwner(a))

	got := reg.Owners()
	got[0][0] ^= 0xff
	require.True(t, reg.IsOwner(a))
}

func TestDeriveAddress(t *testing.T) {
	a := quorumtest.RandomAddr(t)
	b := quorumtest.RandomAddr(t)

	one := DeriveAddress([]quorum.Address{a, b}, 1)
	require.NoError(t, one.Validate())
	require.Equal(t, one, DeriveAddress([]quorum.Address{a, b}, 1))
	require.NotEqual(t, one, DeriveAddress([]quorum.Address{a, b}, 2))
	require.NotEqual(t, one, DeriveAddress([]quorum.Address{b, a}, 1))
}

func TestRegistryPersistence(t *testing.T) {
	db := store.MemStore()
	reg, err := NewRegistry([]quorum.Address{quorumtest.RandomAddr(t), quorumtest.RandomAddr(t)}, 2, nil)
	require.NoError(t, err)

	_, err = LoadRegistry(db)
	assert.IsErr(t, errors.ErrNotFound, err)

	require.NoError(t, InitRegistry(db, reg))
	got, err := LoadRegistry(db)
	require.NoError(t, err)
	require.True(t, reg.Equals(got))

	other, err := NewRegistry([]quorum.Address{quorumtest.RandomAddr(t)}, 1, nil)
	require.NoError(t, err)
	assert.IsErr(t, errors.ErrImmutable, InitRegistry(db, other))

	got, err = LoadRegistry(db)
	require.NoError(t, err)
	require.True(t, reg.Equals(got))
	require.False(t, other.Equals(got))
}

func TestRegistryJSON(t *testing.T) {
	a := quorum.MustParseAddress("0x5aaeb6053f3e94c9b9a09f33669435e7ef1beaed")
	account := quorum.MustParseAddress("0xfb6916095ca1df60bb79ce92ce3ea74c37c5d359")
	reg, err := NewRegistry([]quorum.Address{a}, 1, account)
	require.NoError(t, err)

	raw, err := json.Marshal(reg)
	require.NoError(t, err)
	require.JSONEq(t, `{
		"owners": ["0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed"],
		"required": 1,
		"address": "0xfB6916095ca1df60bB79Ce92cE3Ea74c37c5d359"
	}`, string(raw))
}
