package wallet

import (
	"encoding/json"
	"testing"

	"github.com/iov-one/quorum"
	"github.com/iov-one/quorum/errors"
	"github.com/iov-one/quorum/quorumtest/assert"
	"github.com/iov-one/quorum/store"
	"github.com/stretchr/testify/require"
)

func TestGenesis(t *testing.T) {
	const genesis = `{
		"wallet": {
			"owners": [
				"0x5aaeb6053f3e94c9b9a09f33669435e7ef1beaed",
				"fb6916095ca1df60bb79ce92ce3ea74c37c5d359"
			],
			"required": 2
		}
	}`
	var opts quorum.Options
	require.NoError(t, json.Unmarshal([]byte(genesis), &opts))

	db := store.MemStore()
	require.NoError(t, Initializer{}.FromGenesis(opts, db))

	reg, err := LoadRegistry(db)
	require.NoError(t, err)
	require.EqualValues(t, 2, reg.Required())
	require.True(t, reg.IsOwner(quorum.MustParseAddress("0xfB6916095ca1df60bB79Ce92cE3Ea74c37c5d359")))
	require.Equal(t, DeriveAddress(reg.Owners(), 2), reg.Address())

	// The registry cannot be replaced.
	assert.IsErr(t, errors.ErrImmutable, Initializer{}.FromGenesis(opts, db))
}

func TestGenesisWithoutWallet(t *testing.T) {
	db := store.MemStore()
	require.NoError(t, Initializer{}.FromGenesis(quorum.Options{}, db))
	_, err := LoadRegistry(db)
	assert.IsErr(t, errors.ErrNotFound, err)
}

func TestGenesisInvalidRegistry(t *testing.T) {
	opts := quorum.Options{
		"wallet": json.RawMessage(`{"owners": ["0x5aaeb6053f3e94c9b9a09f33669435e7ef1beaed"], "required": 2}`),
	}
	err := Initializer{}.FromGenesis(opts, store.MemStore())
	assert.IsErr(t, ErrInvalidRegistry, err)
}

func TestSubmitMsgValidation(t *testing.T) {
	msg := &SubmitMsg{
		Recipient: quorum.Address{1, 2},
		Payload:   make([]byte, MaxPayloadLength+1),
	}
	err := msg.Validate()
	assert.FieldError(t, err, "Recipient", errors.ErrInput)
	assert.FieldError(t, err, "Amount", nil)
	assert.FieldError(t, err, "Payload", errors.ErrInput)
}
