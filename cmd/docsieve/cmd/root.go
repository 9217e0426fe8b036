package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/docsieve/docsieve/internal/core/config"
	"github.com/docsieve/docsieve/internal/filter"
)

var (
	configFile string
	dbURL      string
	serverURL  string
)

var rootCmd = &cobra.Command{
	Use:   "docsieve",
	Short: "Document filter client for paperless-style servers",
	Long:  `docsieve translates between saved-view filter rules, structured filter state, and backend query parameters, and keeps a local cache of server-side saved views.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// A registry defect would surface as a runtime encode error much
		// later; catch it before any command runs.
		if err := filter.ValidateSpecs(); err != nil {
			return fmt.Errorf("rule registry self-check failed: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path")
	rootCmd.PersistentFlags().StringVar(&dbURL, "db-url", "", "cache database URL (sqlite://path or postgres://...)")
	rootCmd.PersistentFlags().StringVar(&serverURL, "server-url", "", "document server base URL")
}

func Execute() error {
	return rootCmd.Execute()
}

// loadConfig resolves configuration with flag overrides on top.
func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadConfig(configFile)
	if err != nil {
		return nil, err
	}
	if dbURL != "" {
		cfg.DatabaseURL = dbURL
	}
	if serverURL != "" {
		cfg.ServerURL = serverURL
	}
	return cfg, nil
}
