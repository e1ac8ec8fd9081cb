package app

import (
	"encoding/json"
	"strconv"

	"github.com/iov-one/quorum"
	"github.com/iov-one/quorum/errors"
	"github.com/iov-one/quorum/x/cash"
	"github.com/iov-one/quorum/x/wallet"
)

// GenInitOptions builds the app_state of the genesis file from the command
// line arguments: the number of required confirmations followed by the
// owner addresses.
//
//   quorumd init 2 0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed 0xfB6916095ca1df60bB79Ce92cE3Ea74c37c5d359
//
// The wallet address is derived from the owner set. The wallet starts
// without funds.
func GenInitOptions(args []string) (json.RawMessage, error) {
	if len(args) < 2 {
		return nil, errors.Wrap(errors.ErrInput, "usage: init <required> <owner>...")
	}
	required, err := strconv.ParseUint(args[0], 10, 32)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "required: %s", err)
	}
	owners := make([]quorum.Address, 0, len(args)-1)
	for _, arg := range args[1:] {
		owner, err := quorum.ParseAddress(arg)
		if err != nil {
			return nil, errors.Wrapf(err, "owner %q", arg)
		}
		owners = append(owners, owner)
	}
	reg, err := wallet.NewRegistry(owners, uint32(required), nil)
	if err != nil {
		return nil, err
	}

	state := map[string]interface{}{
		"wallet": wallet.Genesis{
			Owners:   reg.Owners(),
			Required: reg.Required(),
			Address:  reg.Address(),
		},
		"cash": []cash.GenesisAccount{},
	}
	raw, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return nil, errors.Wrap(errors.ErrInput, err.Error())
	}
	return raw, nil
}
