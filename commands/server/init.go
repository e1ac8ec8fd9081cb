package server

import (
	"encoding/json"
	"io/ioutil"
	"os"
	"path/filepath"
	"time"

	"github.com/iov-one/quorum"
	"github.com/iov-one/quorum/errors"
	"github.com/spf13/cobra"
	"github.com/tendermint/tendermint/libs/log"
)

// GenesisFile is the location of the tendermint genesis file, relative to
// the home directory.
const GenesisFile = "config/genesis.json"

// GenOptions can parse command-line and flag to generate default app_state
// for the genesis file. This is application-specific.
type GenOptions func(args []string) (json.RawMessage, error)

// InitCmd writes the application state into the genesis file. A missing
// genesis file is created together with a default configuration file.
func InitCmd(gen GenOptions, logger log.Logger, home *string) *cobra.Command {
	var chainID string
	cmd := &cobra.Command{
		Use:   "init [args...]",
		Short: "Initialize app_state in the genesis file",
		RunE: func(cmd *cobra.Command, args []string) error {
			return initGenesis(gen, logger, *home, chainID, args)
		},
	}
	cmd.Flags().StringVar(&chainID, "chain-id", "quorum-devnet", "chain id used for a new genesis file")
	return cmd
}

func initGenesis(gen GenOptions, logger log.Logger, home, chainID string, args []string) error {
	genFile := filepath.Join(home, GenesisFile)
	if !fileExists(genFile) {
		if !quorum.IsValidChainID(chainID) {
			return errors.Wrapf(errors.ErrInput, "chain id %q", chainID)
		}
		if err := writeGenesis(genFile, GenesisDoc{
			"genesis_time": mustJSON(time.Now().UTC()),
			"chain_id":     mustJSON(chainID),
		}); err != nil {
			return err
		}
		logger.Info("Generated genesis file", "path", genFile)
	}

	confFile := filepath.Join(home, ConfigFile)
	if !fileExists(confFile) {
		if err := DefaultConfig().Save(home); err != nil {
			return err
		}
		logger.Info("Generated config file", "path", confFile)
	}

	options, err := gen(args)
	if err != nil {
		return err
	}
	if err := addGenesisOptions(genFile, options); err != nil {
		return err
	}
	logger.Info("Wrote app_state", "path", genFile)
	return nil
}

func fileExists(filePath string) bool {
	_, err := os.Stat(filePath)
	return !os.IsNotExist(err)
}

// GenesisDoc involves some tendermint-specific structures we don't
// want to parse, so we just grab it into a raw object format,
// so we can add one line.
type GenesisDoc map[string]json.RawMessage

func mustJSON(v interface{}) json.RawMessage {
	raw, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return raw
}

func addGenesisOptions(filename string, options json.RawMessage) error {
	bz, err := ioutil.ReadFile(filename)
	if err != nil {
		return errors.Wrapf(errors.ErrInput, "read genesis: %s", err)
	}
	var doc GenesisDoc
	if err := json.Unmarshal(bz, &doc); err != nil {
		return errors.Wrapf(errors.ErrInput, "parse genesis: %s", err)
	}
	doc["app_state"] = options
	return writeGenesis(filename, doc)
}

func writeGenesis(filename string, doc GenesisDoc) error {
	out, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}
	if err := os.MkdirAll(filepath.Dir(filename), 0755); err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}
	return ioutil.WriteFile(filename, out, 0600)
}
