package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "dipbot",
	Short: "A single-symbol dip-buying trading bot",
	Long: `Dipbot polls a price source, buys a fixed-risk position when the price
dips below a reference level, sells it after a short hold, and stops for the
day once losses reach the configured limit.

It provides commands to:
  - Run the trading loop
  - Generate and validate configuration files
  - Inspect or reset the persisted cash balance`,
	SilenceUsage: true,
}

var (
	configPath string
	logLevel   string
	logFormat  string
)

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "f", "", "config file (YAML or JSON); defaults are used when empty")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "text", "log format: text or json")
}
