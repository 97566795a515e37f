package sim

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/rustyeddy/dipbot/broker"
	"github.com/rustyeddy/dipbot/feed"
	"github.com/rustyeddy/dipbot/pkg/id"
)

const idPrefix = "sim"

// Engine fills every valid order immediately and completely: MARKET orders
// at the feed's latest price, LIMIT orders at their limit price.
type Engine struct {
	prices   feed.Feed
	interval string
	logger   *slog.Logger
	now      func() time.Time
}

func NewEngine(prices feed.Feed, interval string, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{prices: prices, interval: interval, logger: logger, now: time.Now}
}

func (e *Engine) Submit(ctx context.Context, req broker.OrderRequest) (broker.Order, error) {
	if err := req.Validate(); err != nil {
		return broker.Order{}, err
	}

	var order broker.Order
	if req.Kind == broker.Limit {
		order.FilledPrice = *req.LimitPrice
	} else {
		tick, err := e.prices.LatestPrice(ctx, req.Symbol, e.interval)
		if err != nil {
			return broker.Order{}, fmt.Errorf("market price for %s: %w", req.Symbol, err)
		}
		order.FilledPrice = tick.Price
	}

	now := e.now()
	order.ID = id.Order(idPrefix, now)
	order.Symbol = req.Symbol
	order.Side = req.Side
	order.Quantity = req.Quantity
	order.Status = broker.Filled
	order.Time = now

	e.logger.DebugContext(ctx, "simulated fill",
		slog.String("id", order.ID),
		slog.String("side", string(order.Side)),
		slog.String("symbol", order.Symbol),
		slog.Int64("qty", order.Quantity),
		slog.String("price", order.FilledPrice.String()))
	return order, nil
}
