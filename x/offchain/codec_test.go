package offchain

import (
	"encoding/hex"
	"encoding/json"
	"testing"

	"github.com/iov-one/quorum"
	"github.com/iov-one/quorum/coin"
	"github.com/iov-one/quorum/crypto"
	"github.com/iov-one/quorum/errors"
	"github.com/iov-one/quorum/quorumtest"
	"github.com/iov-one/quorum/quorumtest/assert"
	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/require"
)

const (
	fixtureKey      = "e4af4ec32ef0767d237fb48472bdce5c9732f6f8130b9518f93695b583ce0929"
	fixtureTo       = "0x2bFc2146E683ba11e0A0851Af1E21A441aa02a2B"
	fixtureContract = "0x19d727eD5052C992612b7f910a33d994527Ab9b7"
	fixtureSigner   = "0x75BbAeefd90d06824F362beeC40DDe2016e32edb"
)

func fixtureNonce() []byte {
	nonce := make([]byte, 28)
	for i := range nonce {
		nonce[i] = byte(i + 1)
	}
	return nonce
}

func TestEncodeGolden(t *testing.T) {
	encoded, err := Encode(
		quorum.MustParseAddress(fixtureTo),
		coin.MustParseAmount("5000000000000000000"),
		[]byte{0},
		fixtureNonce(),
		quorum.MustParseAddress(fixtureContract),
	)
	require.NoError(t, err)
	require.Len(t, encoded, EncodedSize)

	g := goldie.New(t)
	g.Assert(t, "encode", []byte(hex.EncodeToString(encoded)))

	h := Hash(encoded)
	require.Equal(t, "6cf3b8eb6256206c6787cb972a8b2f05150e8e638f15a11dac7463aded68d16a", hex.EncodeToString(h[:]))
}

func TestEncodeFieldWidths(t *testing.T) {
	to := quorumtest.RandomAddr(t)
	engine := quorumtest.RandomAddr(t)

	cases := map[string]struct {
		to      quorum.Address
		data    []byte
		nonce   []byte
		engine  quorum.Address
		wantErr *errors.Error
	}{
		"empty data and nonce": {
			to:     to,
			engine: engine,
		},
		"full width data and nonce": {
			to:     to,
			data:   []byte{0xff, 0xfe},
			nonce:  make([]byte, NonceSize),
			engine: engine,
		},
		"data too long": {
			to:      to,
			data:    []byte{1, 2, 3},
			engine:  engine,
			wantErr: ErrMalformedMessage,
		},
		"nonce too long": {
			to:      to,
			nonce:   make([]byte, NonceSize+1),
			engine:  engine,
			wantErr: ErrMalformedMessage,
		},
		"short recipient": {
			to:      to[:19],
			engine:  engine,
			wantErr: ErrMalformedMessage,
		},
		"long wallet address": {
			to:      to,
			engine:  append(engine.Clone(), 0),
			wantErr: ErrMalformedMessage,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			encoded, err := Encode(tc.to, coin.NewAmount(1), tc.data, tc.nonce, tc.engine)
			if tc.wantErr != nil {
				assert.IsErr(t, tc.wantErr, err)
				require.Nil(t, encoded)
				return
			}
			require.NoError(t, err)
			require.Len(t, encoded, EncodedSize)
			require.Equal(t, []byte(tc.to), encoded[:20])
			require.Equal(t, byte(1), encoded[51])
			require.Equal(t, []byte(tc.engine), encoded[86:])

			// Short values are left padded.
			require.Equal(t, leftPad(tc.data, DataSize), encoded[52:54])
			require.Equal(t, leftPad(tc.nonce, NonceSize), encoded[54:86])
		})
	}
}

func TestSignRecoverRoundTrip(t *testing.T) {
	key := quorumtest.NewKey()
	to := quorumtest.RandomAddr(t)
	engine := quorumtest.RandomAddr(t)

	widths := []struct{ data, nonce int }{
		{0, 0}, {1, 1}, {2, 28}, {2, 32},
	}
	for _, w := range widths {
		encoded, err := Encode(to, coin.MustParseAmount("115792089237316195423570985008687907853269984665640564039457584007913129639935"), make([]byte, w.data), make([]byte, w.nonce), engine)
		require.NoError(t, err)
		digest := Hash(encoded)

		sig, err := Sign(key, digest)
		require.NoError(t, err)
		require.Contains(t, []byte{27, 28}, sig.V)

		signer, err := RecoverSigner(digest, sig)
		require.NoError(t, err)
		require.Equal(t, key.Address(), signer)
	}
}

func TestSignGolden(t *testing.T) {
	key, err := crypto.PrivateKeyFromHex(fixtureKey)
	require.NoError(t, err)
	require.Equal(t, quorum.MustParseAddress(fixtureSigner), key.Address())

	msg, err := NewSignedMessage(key,
		quorum.MustParseAddress(fixtureTo),
		coin.MustParseAmount("5000000000000000000"),
		[]byte{0},
		fixtureNonce(),
		quorum.MustParseAddress(fixtureContract),
	)
	require.NoError(t, err)

	raw, err := json.MarshalIndent(msg, "", "  ")
	require.NoError(t, err)
	g := goldie.New(t)
	g.Assert(t, "message", raw)

	signer, err := msg.Signer()
	require.NoError(t, err)
	require.Equal(t, key.Address(), signer)
}

func TestDecode(t *testing.T) {
	to := quorumtest.RandomAddr(t)
	engine := quorumtest.RandomAddr(t)
	encoded, err := Encode(to, coin.NewAmount(77), []byte{9}, []byte{1, 2, 3}, engine)
	require.NoError(t, err)

	msg, err := Decode(encoded)
	require.NoError(t, err)
	require.Equal(t, to, msg.To)
	require.Equal(t, "77", msg.Amount.String())
	require.Equal(t, [DataSize]byte{0, 9}, msg.Data)
	require.Equal(t, engine, msg.ContractAddress)

	again, err := msg.Encode()
	require.NoError(t, err)
	require.Equal(t, encoded, again)

	_, err = Decode(encoded[1:])
	assert.IsErr(t, ErrMalformedMessage, err)
}
