package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/rustyeddy/dipbot/balance"
	"github.com/rustyeddy/dipbot/bot"
	"github.com/rustyeddy/dipbot/broker/sim"
	"github.com/rustyeddy/dipbot/config"
	"github.com/rustyeddy/dipbot/feed"
	"github.com/rustyeddy/dipbot/notify"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the trading loop until halted",
	Long: `Run the poll / buy / hold / sell loop.

The loop stops when the daily loss limit is reached or on SIGINT/SIGTERM.
A round trip in progress is always closed before exiting.

Example:
  dipbot run -f bot.yaml --log-format json`,
	Args: cobra.NoArgs,
	RunE: runRun,
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logger, err := newLogger(cmd.ErrOrStderr(), logLevel, logFormat)
	if err != nil {
		return err
	}
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(cmdContext(cmd), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err = runBot(ctx, cfg, logger)
	if errors.Is(err, context.Canceled) {
		logger.Info("shutdown requested")
		return nil
	}
	return err
}

// runBot wires the components from cfg and supervises the loop and, for
// the websocket feed, the stream reader. It returns once the loop ends.
func runBot(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	params := bot.ParamsFromConfig(cfg)

	store, err := balance.Open(cfg.BalanceStore, cfg.BalancePath, params.Policy.StartingCapital, logger)
	if err != nil {
		return fmt.Errorf("open balance: %w", err)
	}
	defer store.Close()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, gctx := errgroup.WithContext(ctx)

	var prices feed.Feed
	switch cfg.Feed {
	case config.FeedWS:
		ws := feed.NewWS(cfg.FeedURL, cfg.Symbol, cfg.Interval, cfg.FeedStaleAfter(), logger)
		g.Go(func() error {
			if err := ws.Run(gctx); !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		})
		prices = ws
	default:
		prices = feed.NewSim(params.Entry.Reference, cfg.SimSpread, 0)
	}
	prices = feed.NewRetry(prices, cfg.FeedRetries, logger)

	exec := sim.NewEngine(prices, cfg.Interval, logger)
	notifier := notify.Multi{
		notify.NewTelegram(cfg.TelegramToken, cfg.TelegramChatID, cfg.NotifyWithin()),
		notify.NewDiscord(cfg.DiscordWebhookURL, "dipbot "+cfg.Symbol, cfg.NotifyWithin()),
	}

	ctrl := bot.New(params, store, prices, exec, notifier, logger)
	g.Go(func() error {
		// halting also stops the stream reader
		defer cancel()
		return ctrl.Run(gctx)
	})

	if err := g.Wait(); err != nil {
		return err
	}
	logger.Info("bot stopped", slog.String("state", string(ctrl.State())))
	return nil
}
