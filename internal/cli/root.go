// Package cli implements the uplatko command line interface for one-shot
// invoice processing: extract payment fields from a PDF, encode a HUB3
// payload, render a PDF417 barcode and stamp it back onto the document.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ikrajcar/uplatko/internal/config"
	"github.com/ikrajcar/uplatko/pkg/utils"
)

var (
	configPath string
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:   "uplatko",
	Short: "Croatian HUB3 payment barcode toolkit",
	Long: `uplatko reads Croatian invoices, extracts the payment details and
produces HUB3 PDF417 payment barcodes that banking apps can scan.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to config file (optional)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// loadEnv builds the config and logger shared by all subcommands.
func loadEnv() (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}
	if verbose {
		cfg.Logger.Level = "debug"
	}
	logger, err := utils.NewLogger(utils.LoggerConfig{
		Level:      cfg.Logger.Level,
		OutputPath: "stderr",
		Format:     cfg.Logger.Format,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create logger: %w", err)
	}
	return cfg, logger, nil
}
