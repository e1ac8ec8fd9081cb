package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/iov-one/quorum"
	quorumd "github.com/iov-one/quorum/cmd/quorumd/app"
	"github.com/iov-one/quorum/commands/server"
	"github.com/spf13/cobra"
	abci "github.com/tendermint/tendermint/abci/types"
	"github.com/tendermint/tendermint/libs/log"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %+v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var home string
	logger := log.NewTMLogger(log.NewSyncWriter(os.Stdout)).With("module", "quorum")

	root := &cobra.Command{
		Use:          "quorumd",
		Short:        "Multi-owner wallet node",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&home, "home", filepath.Join(os.ExpandEnv("$HOME"), ".quorum"), "directory to store files under")

	root.AddCommand(
		server.InitCmd(quorumd.GenInitOptions, logger, &home),
		server.StartCmd(generateApp, logger, &home),
		&cobra.Command{
			Use:   "version",
			Short: "Print the app version",
			Run: func(*cobra.Command, []string) {
				fmt.Println(quorum.Version())
			},
		},
	)
	return root
}

// generateApp filters the logger by the configured level before building
// the application.
func generateApp(home string, conf server.Config, logger log.Logger) (abci.Application, error) {
	opt, err := log.AllowLevel(conf.LogLevel)
	if err != nil {
		return nil, err
	}
	return quorumd.GenerateApp(home, conf, log.NewFilter(logger, opt))
}
