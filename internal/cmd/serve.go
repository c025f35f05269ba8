package cmd

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

func newServeCommand(o *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the bridge for the settings web view",
		Long: `Serve the file access commands to the embedded web view.

Invocations are accepted as JSON on POST /invoke and as frames on the /ws
WebSocket. GET /healthz answers liveness probes. The server stops on SIGINT
or SIGTERM.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd, o)
		},
	}
}

func runServe(cmd *cobra.Command, o *rootOptions) error {
	a := o.application
	warnOnConfigFallback(a)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		select {
		case <-a.Server.Ready():
			a.UI.Info("Bridge listening on " + a.Server.BoundAddr())
		case <-ctx.Done():
		}
	}()

	if err := a.Server.Start(ctx); err != nil {
		return err
	}
	if errors.Is(ctx.Err(), context.Canceled) {
		a.UI.Info("Bridge stopped")
	}
	return nil
}
