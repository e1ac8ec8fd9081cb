package app

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/iov-one/quorum"
	"github.com/iov-one/quorum/errors"
	"github.com/iov-one/quorum/quorumtest"
	"github.com/stretchr/testify/require"
	abci "github.com/tendermint/tendermint/abci/types"
)

// rawQuery returns the value stored under the exact key, or all values
// under a prefix.
type rawQuery struct{}

func (rawQuery) Query(db quorum.ReadOnlyKVStore, mod string, data []byte) ([]quorum.Model, error) {
	if mod != quorum.PrefixQueryMod {
		val, err := db.Get(data)
		if err != nil || val == nil {
			return nil, err
		}
		return []quorum.Model{quorum.Pair(data, val)}, nil
	}
	it, err := db.Iterator(data, nil)
	if err != nil {
		return nil, err
	}
	defer it.Release()
	var res []quorum.Model
	for {
		key, val, err := it.Next()
		if errors.ErrIteratorDone.Is(err) {
			return res, nil
		}
		if err != nil {
			return nil, err
		}
		if !bytes.HasPrefix(key, data) {
			return res, nil
		}
		res = append(res, quorum.Pair(key, val))
	}
}

// pathDecoder turns the raw transaction into a message routed by path.
func pathDecoder(raw []byte) (quorum.Tx, error) {
	if len(raw) == 0 {
		return nil, errors.Wrap(errors.ErrInput, "empty tx")
	}
	return &quorumtest.Tx{Msg: &quorumtest.Msg{RoutePath: string(raw)}}, nil
}

func newTestApp(t *testing.T) (BaseApp, *quorumtest.Handler, func()) {
	t.Helper()
	db, cleanup := quorumtest.CommitKVStore(t)

	qr := quorum.NewQueryRouter()
	qr.Register("/raw", rawQuery{})
	s, err := NewStoreApp("quorum", db, qr, context.Background())
	require.NoError(t, err)

	h := &quorumtest.Handler{
		WriteKey:      []byte("key:written"),
		WriteValue:    []byte("value"),
		CheckResult:   quorum.CheckResult{GasAllocated: 7},
		DeliverResult: quorum.DeliverResult{Data: []byte("ok")},
	}
	r := NewRouter()
	r.Handle("wallet/write", h)
	r.Handle("wallet/fail", &quorumtest.Handler{DeliverErr: errors.ErrAmount, CheckErr: errors.ErrAmount})

	return NewBaseApp(s.WithInit(dummyInit{}), pathDecoder, r, false), h, cleanup
}

func TestBaseAppLifecycle(t *testing.T) {
	a, h, cleanup := newTestApp(t)
	defer cleanup()

	a.InitChain(abci.RequestInitChain{
		ChainId:       "test-chain-1",
		AppStateBytes: []byte(`{"dummy": "genesis"}`),
	})
	require.Equal(t, "test-chain-1", a.GetChainID())

	a.BeginBlock(abci.RequestBeginBlock{Header: abci.Header{Height: 1, Time: time.Now()}})
	a.EndBlock(abci.RequestEndBlock{})
	block1 := a.Commit().Data
	require.NotEmpty(t, block1)

	info := a.Info(abci.RequestInfo{})
	require.Equal(t, int64(1), info.LastBlockHeight)
	require.Equal(t, block1, info.LastBlockAppHash)
	require.Equal(t, "quorum", info.Data)

	qres := a.Query(abci.RequestQuery{Path: "/raw", Data: []byte(dummyKey)})
	require.Equal(t, uint32(0), qres.Code, qres.Log)
	models, err := ParseQueryResponse(qres.Key, qres.Value)
	require.NoError(t, err)
	require.Equal(t, []quorum.Model{quorum.Pair([]byte(dummyKey), []byte("genesis"))}, models)

	a.BeginBlock(abci.RequestBeginBlock{Header: abci.Header{Height: 2, Time: time.Now()}})
	chres := a.CheckTx([]byte("wallet/write"))
	require.Equal(t, uint32(0), chres.Code, chres.Log)
	require.Equal(t, int64(7), chres.GasWanted)

	dres := a.DeliverTx([]byte("wallet/write"))
	require.Equal(t, uint32(0), dres.Code, dres.Log)
	require.Equal(t, []byte("ok"), dres.Data)
	require.Equal(t, 2, h.CallCount())

	// Not visible to queries before the commit.
	qres = a.Query(abci.RequestQuery{Path: "/raw?prefix", Data: []byte("key:")})
	require.Equal(t, uint32(0), qres.Code, qres.Log)
	models, err = ParseQueryResponse(qres.Key, qres.Value)
	require.NoError(t, err)
	require.Empty(t, models)

	block2 := a.Commit().Data
	require.NotEqual(t, block1, block2)

	qres = a.Query(abci.RequestQuery{Path: "/raw?prefix", Data: []byte("key:")})
	models, err = ParseQueryResponse(qres.Key, qres.Value)
	require.NoError(t, err)
	require.Equal(t, []quorum.Model{quorum.Pair([]byte("key:written"), []byte("value"))}, models)
}

func TestBaseAppErrors(t *testing.T) {
	a, _, cleanup := newTestApp(t)
	defer cleanup()
	a.InitChain(abci.RequestInitChain{ChainId: "test-chain-1", AppStateBytes: []byte(`{}`)})
	a.BeginBlock(abci.RequestBeginBlock{Header: abci.Header{Height: 1}})

	cases := map[string]struct {
		tx       []byte
		wantCode uint32
	}{
		"undecodable":   {tx: nil, wantCode: errors.ErrInput.ABCICode()},
		"handler error": {tx: []byte("wallet/fail"), wantCode: errors.ErrAmount.ABCICode()},
		"unknown route": {tx: []byte("wallet/missing"), wantCode: errors.ErrNotFound.ABCICode()},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			require.Equal(t, tc.wantCode, a.CheckTx(tc.tx).Code)
			require.Equal(t, tc.wantCode, a.DeliverTx(tc.tx).Code)
		})
	}

	qres := a.Query(abci.RequestQuery{Path: "/missing"})
	require.Equal(t, errors.ErrNotFound.ABCICode(), qres.Code)
}

func TestInitChainWithoutAppState(t *testing.T) {
	a, _, cleanup := newTestApp(t)
	defer cleanup()
	require.Panics(t, func() {
		a.InitChain(abci.RequestInitChain{ChainId: "test-chain-1"})
	})
}

func TestChainIDSurvivesRestart(t *testing.T) {
	db, cleanup := quorumtest.CommitKVStore(t)
	defer cleanup()

	s, err := NewStoreApp("quorum", db, quorum.NewQueryRouter(), context.Background())
	require.NoError(t, err)
	s.WithInit(dummyInit{}).InitChain(abci.RequestInitChain{ChainId: "test-chain-1", AppStateBytes: []byte(`{}`)})
	s.Commit()

	again, err := NewStoreApp("quorum", db, quorum.NewQueryRouter(), context.Background())
	require.NoError(t, err)
	require.Equal(t, "test-chain-1", again.GetChainID())
	require.Equal(t, "test-chain-1", quorum.GetChainID(again.BlockContext()))
	height, ok := quorum.GetHeight(again.BlockContext())
	require.True(t, ok)
	require.Equal(t, int64(1), height)
}

func TestResultSetRoundTrip(t *testing.T) {
	models := []quorum.Model{
		quorum.Pair([]byte("a"), []byte("1")),
		quorum.Pair([]byte("b"), []byte("2")),
	}
	keys, err := ResultsFromKeys(models).Marshal()
	require.NoError(t, err)
	values, err := ResultsFromValues(models).Marshal()
	require.NoError(t, err)

	got, err := ParseQueryResponse(keys, values)
	require.NoError(t, err)
	require.Equal(t, models, got)

	_, err = JoinResults(ResultsFromKeys(models), ResultsFromValues(models[:1]))
	require.Error(t, err)
}
