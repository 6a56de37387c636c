// Package cmd implements the CLI commands for the offerscout server.
package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/offerscout/offerscout/internal/config"
	"github.com/offerscout/offerscout/pkg/logger"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "offerscout",
	Short: "Aggregate marketplace offers ranked by landed cost",
	Long: "offerscout searches multiple marketplaces in parallel, converts every\n" +
		"price to one target currency, and returns a single list ranked by the\n" +
		"total cost of getting the item to your door.",
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "config.yaml", "config file path")
	rootCmd.AddCommand(versionCommand())
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// loadConfig reads the configured file, falling back to the built-in demo
// configuration when the default path does not exist.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if errors.Is(err, fs.ErrNotExist) && !rootCmd.PersistentFlags().Changed("config") {
		return config.Default(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return cfg, nil
}

func newLogger(cfg *config.Config) *slog.Logger {
	return logger.New(logger.Options{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
	})
}
