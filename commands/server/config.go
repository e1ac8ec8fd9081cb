package server

import (
	"io/ioutil"
	"os"
	"path/filepath"

	"github.com/iov-one/quorum/errors"
	"gopkg.in/yaml.v3"
)

// ConfigFile is the location of the node configuration, relative to the
// home directory.
const ConfigFile = "config/quorumd.yaml"

// Config holds the node settings read from the configuration file.
type Config struct {
	// Bind is the address the ABCI server listens on.
	Bind string `yaml:"bind"`
	// LogLevel is one of debug, info, error or none.
	LogLevel string `yaml:"log_level"`
	// Debug returns full error information, including stack traces, in
	// ABCI responses.
	Debug bool `yaml:"debug"`
	// DataDir is the directory of the state database. A relative path is
	// resolved against the home directory.
	DataDir string `yaml:"data_dir"`
}

// DefaultConfig returns the settings used when no configuration file
// exists.
func DefaultConfig() Config {
	return Config{
		Bind:     "tcp://localhost:26658",
		LogLevel: "info",
		DataDir:  "data",
	}
}

// LoadConfig reads the configuration file from given home directory. Unset
// values are filled with defaults.
func LoadConfig(home string) (Config, error) {
	conf := DefaultConfig()
	raw, err := ioutil.ReadFile(filepath.Join(home, ConfigFile))
	switch {
	case os.IsNotExist(err):
		return conf, nil
	case err != nil:
		return conf, errors.Wrapf(errors.ErrInput, "read config: %s", err)
	}
	if err := yaml.Unmarshal(raw, &conf); err != nil {
		return conf, errors.Wrapf(errors.ErrInput, "parse config: %s", err)
	}
	if conf.Bind == "" {
		return conf, errors.Wrap(errors.ErrEmpty, "bind")
	}
	return conf, nil
}

// DBPath returns the absolute location of the state database.
func (c Config) DBPath(home string) string {
	if filepath.IsAbs(c.DataDir) {
		return filepath.Join(c.DataDir, "quorum.db")
	}
	return filepath.Join(home, c.DataDir, "quorum.db")
}

// Save writes the configuration file into given home directory.
func (c Config) Save(home string) error {
	raw, err := yaml.Marshal(c)
	if err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}
	path := filepath.Join(home, ConfigFile)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}
	return ioutil.WriteFile(path, raw, 0600)
}
