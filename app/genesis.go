package app

import (
	"encoding/json"
	"io/ioutil"

	"github.com/iov-one/quorum"
	"github.com/iov-one/quorum/errors"
)

// Genesis is the part of the tendermint genesis file this application
// reads.
type Genesis struct {
	ChainID  string          `json:"chain_id"`
	AppState json.RawMessage `json:"app_state"`
}

// ReadGenesis loads the genesis file at given path.
func ReadGenesis(filePath string) (*Genesis, error) {
	raw, err := ioutil.ReadFile(filePath)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "read genesis: %s", err)
	}
	var gen Genesis
	if err := json.Unmarshal(raw, &gen); err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "parse genesis: %s", err)
	}
	return &gen, nil
}

// LoadGenesis initializes the application state from a genesis file, the
// same way InitChain would.
func (s *StoreApp) LoadGenesis(filePath string, init quorum.Initializer) error {
	gen, err := ReadGenesis(filePath)
	if err != nil {
		return err
	}
	s.initializer = init
	return s.parseAppState(gen.AppState, gen.ChainID)
}
