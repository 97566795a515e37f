package cmd

import (
	"fmt"

	"github.com/rustyeddy/dipbot/config"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Generate or validate configuration files",
	Long: `Manage bot configuration files.

Subcommands:
  init     - Generate a default configuration file
  validate - Validate an existing configuration file

Examples:
  dipbot config init -o bot.yaml
  dipbot config validate -f bot.yaml`,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Generate a default configuration file",
	Args:  cobra.NoArgs,
	RunE:  runConfigInit,
}

var configValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a configuration file",
	Args:  cobra.NoArgs,
	RunE:  runConfigValidate,
}

var configInitOutput string

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configValidateCmd)

	configInitCmd.Flags().StringVarP(&configInitOutput, "output", "o", "bot.yaml", "output config file path")
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	cfg := config.Default()
	if err := cfg.SaveToFile(configInitOutput); err != nil {
		return fmt.Errorf("save config: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "✓ Created default configuration: %s\n", configInitOutput)
	fmt.Fprintln(out, "\nEdit the file and run with:")
	fmt.Fprintf(out, "  dipbot run -f %s\n", configInitOutput)
	return nil
}

func runConfigValidate(cmd *cobra.Command, args []string) error {
	if configPath == "" {
		return fmt.Errorf("--config is required")
	}
	cfg, err := config.LoadFromFile(configPath)
	if err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "✓ Configuration valid: %s\n", configPath)
	fmt.Fprintf(out, "  Symbol: %s (%s)\n", cfg.Symbol, cfg.Interval)
	fmt.Fprintf(out, "  Capital: %s (risk %s%%, max daily loss %s%%)\n",
		cfg.StartingCapital.StringFixed(2), cfg.RiskPerTradePct.StringFixed(2), cfg.MaxDailyLossPct.StringFixed(2))
	fmt.Fprintf(out, "  Balance: %s at %s\n", cfg.BalanceStore, cfg.BalancePath)
	fmt.Fprintf(out, "  Feed: %s\n", cfg.Feed)
	return nil
}
