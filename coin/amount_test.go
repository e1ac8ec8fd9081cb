package coin

import (
	"encoding/json"
	"math/big"
	"testing"

	"github.com/iov-one/quorum/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	amino "github.com/tendermint/go-amino"
)

const max256 = "115792089237316195423570985008687907853269984665640564039457584007913129639935"

func TestParseAmount(t *testing.T) {
	cases := map[string]struct {
		raw     string
		want    string
		wantErr *errors.Error
	}{
		"zero":            {raw: "0", want: "0"},
		"small":           {raw: "100", want: "100"},
		"surrounding ws":  {raw: " 42 ", want: "42"},
		"largest value":   {raw: max256, want: max256},
		"empty":           {raw: "", wantErr: errors.ErrAmount},
		"negative":        {raw: "-1", wantErr: errors.ErrAmount},
		"not a number":    {raw: "1e3", wantErr: errors.ErrAmount},
		"hex is rejected": {raw: "0x10", wantErr: errors.ErrAmount},
		"one above max": {
			raw:     "115792089237316195423570985008687907853269984665640564039457584007913129639936",
			wantErr: errors.ErrOverflow,
		},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			got, err := ParseAmount(tc.raw)
			if tc.wantErr != nil {
				require.True(t, tc.wantErr.Is(err), "got %+v", err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got.String())
		})
	}
}

func TestAmountArithmetic(t *testing.T) {
	a, b := NewAmount(70), NewAmount(30)

	sum, err := a.Add(b)
	require.NoError(t, err)
	assert.True(t, sum.Equals(NewAmount(100)))

	diff, err := a.Sub(b)
	require.NoError(t, err)
	assert.True(t, diff.Equals(NewAmount(40)))

	_, err = b.Sub(a)
	assert.True(t, errors.ErrAmount.Is(err))

	_, err = MustParseAmount(max256).Add(NewAmount(1))
	assert.True(t, errors.ErrOverflow.Is(err))

	assert.Equal(t, -1, b.Compare(a))
	assert.Equal(t, 1, a.Compare(b))
	assert.True(t, Amount{}.IsZero())
	assert.True(t, Amount{}.Equals(NewAmount(0)))

	// Results never share memory with the operands.
	v := a.BigInt()
	v.SetInt64(1)
	assert.Equal(t, "70", a.String())
}

func TestAmountFromBig(t *testing.T) {
	_, err := NewAmountFromBig(big.NewInt(-5))
	assert.True(t, errors.ErrAmount.Is(err))

	a, err := NewAmountFromBig(nil)
	require.NoError(t, err)
	assert.True(t, a.IsZero())
}

func TestAmountBytes32(t *testing.T) {
	b := NewAmount(0x0102).Bytes32()
	assert.Equal(t, byte(0x01), b[30])
	assert.Equal(t, byte(0x02), b[31])
	for i := 0; i < 30; i++ {
		assert.Equal(t, byte(0), b[i])
	}

	full := MustParseAmount(max256).Bytes32()
	for _, v := range full {
		assert.Equal(t, byte(0xff), v)
	}
}

func TestAmountJSON(t *testing.T) {
	raw, err := json.Marshal(MustParseAmount(max256))
	require.NoError(t, err)
	assert.Equal(t, `"`+max256+`"`, string(raw))

	var a Amount
	require.NoError(t, json.Unmarshal([]byte(`"1500"`), &a))
	assert.Equal(t, "1500", a.String())
	require.NoError(t, json.Unmarshal([]byte(`1500`), &a))
	assert.Equal(t, "1500", a.String())
	assert.Error(t, json.Unmarshal([]byte(`"-3"`), &a))
	assert.Error(t, json.Unmarshal([]byte(`true`), &a))
}

func TestAmountAmino(t *testing.T) {
	type holder struct {
		Amount Amount
		Memo   string
	}
	cdc := amino.NewCodec()

	in := holder{Amount: MustParseAmount(max256), Memo: "all of it"}
	raw, err := cdc.MarshalBinaryBare(in)
	require.NoError(t, err)

	var out holder
	require.NoError(t, cdc.UnmarshalBinaryBare(raw, &out))
	assert.True(t, in.Amount.Equals(out.Amount))
	assert.Equal(t, in.Memo, out.Memo)
}

func TestAmountMinimalBytes(t *testing.T) {
	cases := map[string]struct {
		raw     []byte
		want    string
		wantErr *errors.Error
	}{
		"empty is zero":      {raw: nil, want: "0"},
		"leading zeros":      {raw: []byte{0, 0, 1, 0x2c}, want: "300"},
		"full width":         {raw: bytesOf(0xff, AmountSize), want: max256},
		"wider than 32 byte": {raw: bytesOf(0x01, AmountSize+1), wantErr: errors.ErrOverflow},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			a, err := AmountFromBytes(tc.raw)
			if tc.wantErr != nil {
				require.True(t, tc.wantErr.Is(err), "unexpected error %v", err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, a.String())

			back, err := AmountFromBytes(a.Bytes())
			require.NoError(t, err)
			assert.True(t, a.Equals(back))
		})
	}

	assert.Empty(t, Amount{}.Bytes())
	assert.Equal(t, []byte{0x01, 0x2c}, NewAmount(300).Bytes())
}

func bytesOf(b byte, n int) []byte {
	out := make([]byte, n)
	for i := range out {
		out[i] = b
	}
	return out
}
