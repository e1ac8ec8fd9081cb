/*
Package app links together all the various components
to construct the quorumd app.
*/
package app

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/iov-one/quorum"
	"github.com/iov-one/quorum/app"
	"github.com/iov-one/quorum/commands/server"
	"github.com/iov-one/quorum/errors"
	"github.com/iov-one/quorum/store/iavl"
	"github.com/iov-one/quorum/x"
	"github.com/iov-one/quorum/x/cash"
	"github.com/iov-one/quorum/x/offchain"
	"github.com/iov-one/quorum/x/sigs"
	"github.com/iov-one/quorum/x/utils"
	"github.com/iov-one/quorum/x/wallet"
	abci "github.com/tendermint/tendermint/abci/types"
	"github.com/tendermint/tendermint/libs/log"
)

// Name is reported by abci Info.
const Name = "quorum"

// Authenticator returns the typical authentication, just using public key
// signatures.
func Authenticator() x.Authenticator {
	return x.ChainAuth(sigs.Authenticate{})
}

// Chain returns a chain of decorators, to handle authentication,
// logging, and recovery
func Chain() app.Decorators {
	return app.ChainDecorators(
		utils.NewLogging(),
		utils.NewRecovery(),
		utils.NewActionTagger(),
		// on CheckTx, bad tx don't affect state
		utils.NewSavepoint().OnCheck(),
		sigs.NewDecorator(),
		// on DeliverTx, bad tx will increment the signer sequence
		// even if the message fails
		utils.NewSavepoint().OnDeliver(),
	)
}

// Router returns a router dispatching the cash and wallet messages. The
// wallet records every payment it receives through the cash controller.
func Router(authFn x.Authenticator) *app.Router {
	r := app.NewRouter()
	ctrl := cash.NewController(cash.NewBucket())
	ledger := wallet.NewLedger(ctrl)
	ctrl.AddReceiver(ledger)

	cash.RegisterRoutes(r, authFn, ctrl)
	wallet.RegisterRoutes(r, authFn, ledger)
	return r
}

// QueryRouter returns a query router exposing the wallet, cash, sigs and
// consumed off-chain nonces.
func QueryRouter() quorum.QueryRouter {
	r := quorum.NewQueryRouter()
	r.RegisterAll(
		wallet.RegisterQuery,
		cash.RegisterQuery,
		sigs.RegisterQuery,
		offchain.RegisterQuery,
	)
	return r
}

// Initializers returns the genesis initializers of every extension.
func Initializers() quorum.Initializer {
	return quorum.ChainInitializers{
		cash.Initializer{},
		wallet.Initializer{},
	}
}

// Stack wires up a standard router with a standard decorator
// chain. This can be passed into BaseApp.
func Stack() quorum.Handler {
	authFn := Authenticator()
	return Chain().WithHandler(Router(authFn))
}

// Application constructs a basic ABCI application over given store.
func Application(kv quorum.CommitKVStore, logger log.Logger, debug bool) (app.BaseApp, error) {
	store, err := app.NewStoreApp(Name, kv, QueryRouter(), context.Background())
	if err != nil {
		return app.BaseApp{}, err
	}
	store = store.WithInit(Initializers()).WithLogger(logger)
	return app.NewBaseApp(store, TxDecoder, Stack(), debug), nil
}

// GenerateApp is used to create a stub for server/start.go command
func GenerateApp(home string, conf server.Config, logger log.Logger) (abci.Application, error) {
	kv, err := CommitKVStore(conf.DBPath(home))
	if err != nil {
		return nil, err
	}
	return Application(kv, logger, conf.Debug)
}

// CommitKVStore returns an initialized KVStore that persists
// the data to the named path.
func CommitKVStore(dbPath string) (*iavl.CommitStore, error) {
	path, err := filepath.Abs(dbPath)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "invalid database name: %s", dbPath)
	}
	// Some external calls accidentally add a ".db", which is now removed
	path = strings.TrimSuffix(path, filepath.Ext(path))
	return iavl.NewCommitStore(filepath.Dir(path), filepath.Base(path))
}
