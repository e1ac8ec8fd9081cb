package app

import (
	"context"
	"testing"

	"github.com/iov-one/quorum"
	"github.com/iov-one/quorum/errors"
	"github.com/iov-one/quorum/quorumtest"
	"github.com/iov-one/quorum/quorumtest/assert"
	"github.com/stretchr/testify/require"
)

const dummyKey = "dummy"

type dummyInit struct{}

func (dummyInit) FromGenesis(opts quorum.Options, kv quorum.KVStore) error {
	var value string
	if err := opts.ReadOptions(dummyKey, &value); err != nil {
		return err
	}
	return kv.Set([]byte(dummyKey), []byte(value))
}

type countInit struct {
	called int
}

func (c *countInit) FromGenesis(quorum.Options, quorum.KVStore) error {
	c.called++
	return nil
}

func TestLoadGenesis(t *testing.T) {
	cases := map[string]struct {
		file       string
		wantErr    *errors.Error
		wantChain  string
		wantCalled int
		wantValue  []byte
	}{
		"no such file": {
			file:    "testdata/missing.json",
			wantErr: errors.ErrInput,
		},
		"valid genesis": {
			file:       "testdata/genesis.json",
			wantChain:  "test-chain-67",
			wantCalled: 1,
			wantValue:  []byte("secret"),
		},
		"initializer failure": {
			file:      "testdata/bad_genesis.json",
			wantErr:   errors.ErrInput,
			wantChain: "super-chain-22",
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			db, cleanup := quorumtest.CommitKVStore(t)
			defer cleanup()

			s, err := NewStoreApp("quorum", db, quorum.NewQueryRouter(), context.Background())
			require.NoError(t, err)
			require.Equal(t, "", s.GetChainID())

			c := new(countInit)
			err = s.LoadGenesis(tc.file, quorum.ChainInitializers{dummyInit{}, c})
			if tc.wantErr != nil {
				assert.IsErr(t, tc.wantErr, err)
			} else {
				require.NoError(t, err)
			}
			require.Equal(t, tc.wantChain, s.GetChainID())
			require.Equal(t, tc.wantCalled, c.called)

			val, err := s.DeliverStore().Get([]byte(dummyKey))
			require.NoError(t, err)
			require.Equal(t, tc.wantValue, val)
		})
	}
}

func TestGenesisLoadsOnce(t *testing.T) {
	db, cleanup := quorumtest.CommitKVStore(t)
	defer cleanup()

	s, err := NewStoreApp("quorum", db, quorum.NewQueryRouter(), context.Background())
	require.NoError(t, err)
	require.NoError(t, s.LoadGenesis("testdata/genesis.json", dummyInit{}))

	err = s.LoadGenesis("testdata/genesis.json", dummyInit{})
	assert.IsErr(t, errors.ErrState, err)
}

func TestInvalidChainID(t *testing.T) {
	db, cleanup := quorumtest.CommitKVStore(t)
	defer cleanup()

	s, err := NewStoreApp("quorum", db, quorum.NewQueryRouter(), context.Background())
	require.NoError(t, err)
	err = s.WithInit(dummyInit{}).parseAppState([]byte(`{}`), "x")
	assert.IsErr(t, errors.ErrInput, err)
	require.Equal(t, "", s.GetChainID())
}
