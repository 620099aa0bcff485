package main

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/auto-dns/lxc-state-monitor/internal/app"
	"github.com/auto-dns/lxc-state-monitor/internal/config"
	"github.com/auto-dns/lxc-state-monitor/internal/logger"
)

type contextKey string

const configKey = contextKey("config")

// newApplication is replaced in tests.
var newApplication = func(cfg *config.Config, logger zerolog.Logger) (application, error) {
	return app.New(cfg, logger)
}

var rootCmd = &cobra.Command{
	Use:          "lxc-state-monitor",
	Short:        "Watch container state changes",
	Long:         "A tool that follows a container supervisor's event stream and reports every state change of the watched containers.",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		configFile, _ := cmd.Flags().GetString("config")
		if err := config.InitConfig(configFile); err != nil {
			return err
		}
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		ctx := context.WithValue(cmd.Context(), configKey, cfg)
		cmd.SetContext(ctx)
		return nil
	},
}

// setup loads the configuration stored by PersistentPreRunE and builds the application.
func setup(cmd *cobra.Command) (application, zerolog.Logger, error) {
	cfg := cmd.Context().Value(configKey).(*config.Config)

	// Set up logger.
	logInstance := logger.SetupLogger(&cfg.Logging)

	// Create the application.
	application, err := newApplication(cfg, logInstance)
	if err != nil {
		return nil, logInstance, fmt.Errorf("failed to create app: %w", err)
	}
	return application, logInstance, nil
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "config file (default is config.yaml)")
	rootCmd.PersistentFlags().String("log-level", "INFO", "set log level (e.g. INFO, DEBUG, WARN)")
	viper.BindPFlag("log.log_level", rootCmd.PersistentFlags().Lookup("log-level"))

	rootCmd.AddCommand(watchCmd, listCmd, statusCmd)
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Execution error: %v\n", err)
		os.Exit(1)
	}
}
