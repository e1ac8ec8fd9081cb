package server

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/iov-one/quorum/errors"
	"github.com/spf13/cobra"
	"github.com/tendermint/tendermint/abci/server"
	abci "github.com/tendermint/tendermint/abci/types"
	"github.com/tendermint/tendermint/libs/log"
)

// AppGenerator lets us lazily initialize app, using home dir
// and logger potentially initialized with other flags
type AppGenerator func(home string, conf Config, logger log.Logger) (abci.Application, error)

// StartCmd runs the ABCI server until the process is interrupted. Flags
// override values of the configuration file.
func StartCmd(gen AppGenerator, logger log.Logger, home *string) *cobra.Command {
	var (
		bind  string
		debug bool
	)
	cmd := &cobra.Command{
		Use:   "start",
		Short: "Run the abci server",
		RunE: func(cmd *cobra.Command, args []string) error {
			conf, err := LoadConfig(*home)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("bind") {
				conf.Bind = bind
			}
			if cmd.Flags().Changed("debug") {
				conf.Debug = debug
			}

			app, err := gen(*home, conf, logger)
			if err != nil {
				return err
			}

			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()
			sig := make(chan os.Signal, 1)
			signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
			go func() {
				<-sig
				cancel()
			}()
			return Serve(ctx, app, conf.Bind, logger)
		},
	}
	cmd.Flags().StringVar(&bind, "bind", "", "address server listens on")
	cmd.Flags().BoolVar(&debug, "debug", false, "call stack returned on error")
	return cmd
}

// Serve runs a socket ABCI server for the application until the context is
// cancelled.
func Serve(ctx context.Context, app abci.Application, bind string, logger log.Logger) error {
	logger.Info("Starting ABCI app", "bind", bind)
	svr, err := server.NewServer(bind, "socket", app)
	if err != nil {
		return errors.Wrapf(errors.ErrInput, "create listener: %s", err)
	}
	svr.SetLogger(logger.With("module", "abci-server"))
	if err := svr.Start(); err != nil {
		return errors.Wrapf(errors.ErrState, "start server: %s", err)
	}
	<-ctx.Done()
	logger.Info("Stopping ABCI app")
	return svr.Stop()
}
