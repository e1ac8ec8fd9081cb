package wallet

import (
	"github.com/iov-one/quorum"
	"github.com/iov-one/quorum/errors"
)

const optKey = "wallet"

// Genesis declares the wallet in the genesis file. Address is optional.
type Genesis struct {
	Owners   []quorum.Address `json:"owners"`
	Required uint32           `json:"required"`
	Address  quorum.Address   `json:"address,omitempty"`
}

// Initializer fulfils the Initializer interface to load data from
// the genesis file
type Initializer struct{}

var _ quorum.Initializer = Initializer{}

// FromGenesis stores the owner registry declared under "wallet". A
// genesis without that key leaves the wallet uninitialised.
func (Initializer) FromGenesis(opts quorum.Options, kv quorum.KVStore) error {
	if _, ok := opts[optKey]; !ok {
		return nil
	}
	var g Genesis
	if err := opts.ReadOptions(optKey, &g); err != nil {
		return err
	}
	reg, err := NewRegistry(g.Owners, g.Required, g.Address)
	if err != nil {
		return errors.Wrap(err, "genesis")
	}
	return InitRegistry(kv, reg)
}
