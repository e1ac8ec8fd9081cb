package app

import (
	"github.com/iov-one/quorum"
	"github.com/iov-one/quorum/errors"
	amino "github.com/tendermint/go-amino"
)

var resultCodec = amino.NewCodec()

// ResultSet is the wire format of query responses. Keys and values of the
// matching models are returned as two parallel sets.
type ResultSet struct {
	Results [][]byte `json:"results"`
}

// Marshal serializes the set in amino binary format. An empty set is
// serialized to no bytes.
func (r *ResultSet) Marshal() ([]byte, error) {
	return resultCodec.MarshalBinaryBare(r)
}

// Unmarshal is the inverse of Marshal.
func (r *ResultSet) Unmarshal(raw []byte) error {
	if len(raw) == 0 {
		r.Results = nil
		return nil
	}
	if err := resultCodec.UnmarshalBinaryBare(raw, r); err != nil {
		return errors.Wrapf(errors.ErrInput, "result set: %s", err)
	}
	return nil
}

// ResultsFromKeys returns a ResultSet of all keys
// given a set of models
func ResultsFromKeys(models []quorum.Model) *ResultSet {
	res := make([][]byte, len(models))
	for i, m := range models {
		res[i] = m.Key
	}
	return &ResultSet{Results: res}
}

// ResultsFromValues returns a ResultSet of all values
// given a set of models
func ResultsFromValues(models []quorum.Model) *ResultSet {
	res := make([][]byte, len(models))
	for i, m := range models {
		res[i] = m.Value
	}
	return &ResultSet{Results: res}
}

// JoinResults inverts ResultsFromKeys and ResultsFromValues
// and makes then a consistent whole again
func JoinResults(keys, values *ResultSet) ([]quorum.Model, error) {
	kref, vref := keys.Results, values.Results
	if len(kref) != len(vref) {
		return nil, errors.Wrapf(errors.ErrState, "%d keys and %d values", len(kref), len(vref))
	}
	mods := make([]quorum.Model, len(kref))
	for i := range mods {
		mods[i] = quorum.Pair(kref[i], vref[i])
	}
	return mods, nil
}

// ParseQueryResponse joins the key and value sets of an abci query
// response.
func ParseQueryResponse(key, value []byte) ([]quorum.Model, error) {
	var keys, values ResultSet
	if err := keys.Unmarshal(key); err != nil {
		return nil, errors.Wrap(err, "keys")
	}
	if err := values.Unmarshal(value); err != nil {
		return nil, errors.Wrap(err, "values")
	}
	return JoinResults(&keys, &values)
}
