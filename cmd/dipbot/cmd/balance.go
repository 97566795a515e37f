package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/rustyeddy/dipbot/balance"
	"github.com/rustyeddy/dipbot/config"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

var balanceCmd = &cobra.Command{
	Use:   "balance",
	Short: "Inspect or set the persisted cash balance",
	Long: `Read or overwrite the cash balance the bot trades from.

Examples:
  dipbot balance show -f bot.yaml
  dipbot balance set 200 -f bot.yaml`,
}

var balanceShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the current balance",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openBalance(cmd)
		if err != nil {
			return err
		}
		defer store.Close()

		fmt.Fprintln(cmd.OutOrStdout(), store.Read(cmdContext(cmd)).String())
		return nil
	},
}

var balanceSetCmd = &cobra.Command{
	Use:   "set AMOUNT",
	Short: "Overwrite the balance",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cash, err := decimal.NewFromString(args[0])
		if err != nil {
			return fmt.Errorf("amount %q: %w", args[0], err)
		}
		if cash.IsNegative() {
			return fmt.Errorf("amount must not be negative")
		}

		store, err := openBalance(cmd)
		if err != nil {
			return err
		}
		defer store.Close()

		if err := store.Write(cmdContext(cmd), cash); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Balance set to %s\n", cash)
		if p, ok := store.(interface{ Path() string }); ok {
			fmt.Fprintf(cmd.OutOrStdout(), "  Saved to: %s\n", p.Path())
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(balanceCmd)
	balanceCmd.AddCommand(balanceShowCmd)
	balanceCmd.AddCommand(balanceSetCmd)
}

func openBalance(cmd *cobra.Command) (balance.Store, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	logger, err := newLogger(cmd.ErrOrStderr(), logLevel, logFormat)
	if err != nil {
		return nil, err
	}
	return balance.Open(cfg.BalanceStore, cfg.BalancePath,
		cfg.StartingCapital, logger.With(slog.String("cmd", "balance")))
}

func cmdContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
