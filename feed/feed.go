// Package feed supplies the latest price for a symbol.
package feed

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrNoPrice = errors.New("no price available")
	ErrStale   = errors.New("price is stale")
)

// Tick is the latest observed price for a symbol.
type Tick struct {
	Symbol string
	Price  decimal.Decimal
	Time   time.Time
}

// Feed is a source of latest prices. Implementations may fail; callers
// treat a failure as "no price this iteration".
type Feed interface {
	LatestPrice(ctx context.Context, symbol, interval string) (Tick, error)
}

// Func adapts a function to Feed.
type Func func(ctx context.Context, symbol, interval string) (Tick, error)

func (f Func) LatestPrice(ctx context.Context, symbol, interval string) (Tick, error) {
	return f(ctx, symbol, interval)
}
