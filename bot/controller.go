package bot

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/rustyeddy/dipbot/balance"
	"github.com/rustyeddy/dipbot/broker"
	"github.com/rustyeddy/dipbot/feed"
	"github.com/rustyeddy/dipbot/notify"
	"github.com/rustyeddy/dipbot/pkg/id"
	"github.com/rustyeddy/dipbot/risk"
	"github.com/shopspring/decimal"
)

// Controller runs the poll / enter / hold / exit loop for one symbol.
// It is not safe for concurrent use; Run owns it.
type Controller struct {
	params   Params
	store    balance.Store
	prices   feed.Feed
	exec     broker.Executor
	notifier notify.Notifier
	logger   *slog.Logger

	state           State
	started         bool
	startingBalance decimal.Decimal
	lossLimit       decimal.Decimal
}

func New(p Params, store balance.Store, prices feed.Feed, exec broker.Executor, n notify.Notifier, logger *slog.Logger) *Controller {
	if n == nil {
		n = notify.Nop{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Controller{
		params:   p,
		store:    store,
		prices:   prices,
		exec:     exec,
		notifier: n,
		logger:   logger.With(slog.String("symbol", p.Symbol)),
		state:    Running,
	}
}

func (c *Controller) State() State                     { return c.state }
func (c *Controller) StartingBalance() decimal.Decimal { return c.startingBalance }
func (c *Controller) DailyLossLimit() decimal.Decimal  { return c.lossLimit }

// Start snapshots the starting balance and loss limit. Later calls do
// nothing.
func (c *Controller) Start(ctx context.Context) {
	if c.started {
		return
	}
	c.started = true
	c.startingBalance = c.store.Read(ctx)
	c.lossLimit = c.params.Policy.DailyLossLimit()

	c.logger.InfoContext(ctx, "bot started",
		slog.String("starting_balance", c.startingBalance.String()),
		slog.String("daily_loss_limit", c.lossLimit.String()),
		slog.Duration("poll", c.params.PollInterval),
		slog.Duration("hold", c.params.HoldDuration))
	c.notify(ctx, fmt.Sprintf("Bot started: %s balance=%s loss_limit=%s",
		c.params.Symbol, c.startingBalance, c.lossLimit))
}

// Run iterates once immediately and then once per PollInterval until the
// loss limit halts the bot (nil) or ctx is done (ctx.Err()).
func (c *Controller) Run(ctx context.Context) error {
	c.Start(ctx)

	ticker := time.NewTicker(c.params.PollInterval)
	defer ticker.Stop()

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		outcome, err := c.Step(ctx)
		if err != nil {
			c.logger.ErrorContext(ctx, "iteration failed",
				slog.String("outcome", string(outcome)),
				slog.Any("error", err))
		}
		if c.state == Halted {
			return nil
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// Step runs a single iteration. The returned error never means the loop
// should stop; only the Halted state does.
func (c *Controller) Step(ctx context.Context) (Outcome, error) {
	if c.state == Halted {
		return Stopped, nil
	}
	c.Start(ctx)

	cash := c.store.Read(ctx)
	if risk.LossLimitBreached(c.startingBalance, cash, c.lossLimit) {
		c.halt(ctx, cash)
		return Stopped, nil
	}

	tick, err := c.prices.LatestPrice(ctx, c.params.Symbol, c.params.Interval)
	if err != nil {
		return Skipped, fmt.Errorf("latest price: %w", err)
	}

	change := c.params.Entry.ChangePct(tick.Price)
	if !c.params.Entry.ShouldEnter(tick.Price) {
		c.logger.DebugContext(ctx, "no entry",
			slog.String("price", tick.Price.String()),
			slog.String("change_pct", change.StringFixed(3)))
		return Idle, nil
	}

	size := risk.Size(risk.SizingRequest{
		Cash:            cash,
		EntryPrice:      tick.Price,
		StopLossPerUnit: c.params.Policy.StopLossAmount,
		RiskPct:         c.params.Policy.RiskPerTradePct,
	})
	if size.Quantity <= 0 {
		c.logger.InfoContext(ctx, "entry signal but position sizes to zero",
			slog.String("cash", cash.String()),
			slog.String("price", tick.Price.String()))
		return Idle, nil
	}

	return c.roundTrip(ctx, cash, size.Quantity, change)
}

func (c *Controller) roundTrip(ctx context.Context, cash decimal.Decimal, qty int64, change decimal.Decimal) (Outcome, error) {
	buy, err := broker.Confirm(c.exec.Submit(ctx, broker.OrderRequest{
		Side:     broker.Buy,
		Symbol:   c.params.Symbol,
		Quantity: qty,
		Kind:     broker.Market,
	}))
	if err != nil {
		return Aborted, fmt.Errorf("buy %d %s: %w", qty, c.params.Symbol, err)
	}

	c.logger.InfoContext(ctx, "bought",
		slog.String("order", buy.ID),
		slog.Int64("qty", qty),
		slog.String("price", buy.FilledPrice.String()),
		slog.String("change_pct", change.StringFixed(3)))
	c.notify(ctx, fmt.Sprintf("BUY %s qty=%d price=%s", c.params.Symbol, qty, buy.FilledPrice))

	// Once bought, the position is always closed, even on shutdown.
	exitCtx := context.WithoutCancel(ctx)
	if !c.hold(ctx) {
		c.logger.WarnContext(ctx, "shutdown during hold, closing position early")
	}

	sell, err := broker.Confirm(c.exec.Submit(exitCtx, broker.OrderRequest{
		Side:     broker.Sell,
		Symbol:   c.params.Symbol,
		Quantity: qty,
		Kind:     broker.Market,
	}))
	if err != nil {
		c.notify(exitCtx, fmt.Sprintf("SELL %s qty=%d FAILED, position may be open: %v", c.params.Symbol, qty, err))
		return Aborted, fmt.Errorf("sell %d %s after buy %s: %w", qty, c.params.Symbol, buy.ID, err)
	}

	newCash := risk.SettleRoundTrip(cash, qty, buy.FilledPrice, sell.FilledPrice)
	pnl := risk.RealizedPL(qty, buy.FilledPrice, sell.FilledPrice)

	if err := c.store.Write(exitCtx, newCash); err != nil {
		c.notify(exitCtx, fmt.Sprintf("SELL %s qty=%d price=%s (balance not saved)", c.params.Symbol, qty, sell.FilledPrice))
		return Traded, fmt.Errorf("save balance %s: %w", newCash, err)
	}

	attrs := []any{
		slog.String("order", sell.ID),
		slog.Int64("qty", qty),
		slog.String("price", sell.FilledPrice.String()),
		slog.String("pnl", pnl.String()),
		slog.String("cash", newCash.String()),
	}
	if held, ok := orderGap(buy.ID, sell.ID); ok {
		attrs = append(attrs, slog.Duration("held", held))
	}
	c.logger.InfoContext(ctx, "sold", attrs...)
	c.notify(exitCtx, fmt.Sprintf("SELL %s qty=%d price=%s pnl=%s cash=%s",
		c.params.Symbol, qty, sell.FilledPrice, pnl, newCash))
	return Traded, nil
}

// orderGap is the time between two orders, read from the timestamps in
// their IDs. It reports false for IDs that carry no timestamp.
func orderGap(first, second string) (time.Duration, bool) {
	from, err := id.Time(first)
	if err != nil {
		return 0, false
	}
	to, err := id.Time(second)
	if err != nil {
		return 0, false
	}
	return to.Sub(from), true
}

// hold waits HoldDuration and reports whether it ran to completion.
func (c *Controller) hold(ctx context.Context) bool {
	if c.params.HoldDuration <= 0 {
		return true
	}
	t := time.NewTimer(c.params.HoldDuration)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

func (c *Controller) halt(ctx context.Context, cash decimal.Decimal) {
	c.state = Halted
	loss := risk.Loss(c.startingBalance, cash)
	c.logger.WarnContext(ctx, "daily loss limit reached, halting",
		slog.String("cash", cash.String()),
		slog.String("loss", loss.String()),
		slog.String("limit", c.lossLimit.String()))
	c.notify(ctx, fmt.Sprintf("Daily loss limit reached (loss=%s limit=%s). Bot stopped.", loss, c.lossLimit))
}

// notify is best effort: failures are logged and otherwise ignored.
func (c *Controller) notify(ctx context.Context, text string) {
	if err := c.notifier.Send(ctx, text); err != nil {
		c.logger.WarnContext(ctx, "notification failed", slog.Any("error", err))
	}
}
