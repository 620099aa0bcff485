package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var watchCmd = &cobra.Command{
	Use:   "watch [container...]",
	Short: "Monitor containers and log every state change",
	Long:  "Monitor the named containers, or app.containers when none are given, until interrupted.",
	RunE: func(cmd *cobra.Command, args []string) error {
		application, logInstance, err := setup(cmd)
		if err != nil {
			return err
		}
		defer func() {
			if err := application.Close(); err != nil {
				logInstance.Warn().Err(err).Msg("Closing application")
			}
		}()

		// Create a context with cancellation for graceful shutdown.
		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()

		// Listen for OS signals.
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(sigCh)
		go func() {
			select {
			case sig := <-sigCh:
				logInstance.Info().Msgf("Received signal: %v", sig)
				cancel()
			case <-ctx.Done():
			}
		}()

		// Run the application. When context is canceled, Run returns.
		if err := application.Run(ctx, args); err != nil {
			return fmt.Errorf("app run error: %w", err)
		}
		return nil
	},
}
