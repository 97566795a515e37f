package broker

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

type Side string

const (
	Buy  Side = "BUY"
	Sell Side = "SELL"
)

type OrderKind string

const (
	Market OrderKind = "MARKET"
	Limit  OrderKind = "LIMIT"
)

type Status string

const (
	Filled   Status = "FILLED"
	Rejected Status = "REJECTED"
)

var (
	ErrNotFilled    = errors.New("order not filled")
	ErrInvalidOrder = errors.New("invalid order")
)

// Executor submits orders and blocks until they reach a terminal status.
type Executor interface {
	Submit(ctx context.Context, req OrderRequest) (Order, error)
}

type OrderRequest struct {
	Side       Side
	Symbol     string
	Quantity   int64
	Kind       OrderKind
	LimitPrice *decimal.Decimal // LIMIT only
}

// Validate rejects requests no executor should accept.
func (r OrderRequest) Validate() error {
	if r.Side != Buy && r.Side != Sell {
		return fmt.Errorf("%w: side %q", ErrInvalidOrder, r.Side)
	}
	if r.Symbol == "" {
		return fmt.Errorf("%w: empty symbol", ErrInvalidOrder)
	}
	if r.Quantity <= 0 {
		return fmt.Errorf("%w: quantity %d", ErrInvalidOrder, r.Quantity)
	}
	switch r.Kind {
	case Market, "":
	case Limit:
		if r.LimitPrice == nil || !r.LimitPrice.IsPositive() {
			return fmt.Errorf("%w: limit order needs a positive price", ErrInvalidOrder)
		}
	default:
		return fmt.Errorf("%w: kind %q", ErrInvalidOrder, r.Kind)
	}
	return nil
}

// Order is an executor's final answer for one request. It is never
// modified after Submit returns.
type Order struct {
	ID          string
	Symbol      string
	Side        Side
	Quantity    int64
	Status      Status
	FilledPrice decimal.Decimal
	Time        time.Time
}

// Confirm passes through a completely filled order and turns anything else
// into an error wrapping ErrNotFilled.
func Confirm(o Order, err error) (Order, error) {
	if err != nil {
		return Order{}, err
	}
	if o.Status != Filled {
		return Order{}, fmt.Errorf("%s %s %d: status %s: %w", o.Side, o.Symbol, o.Quantity, o.Status, ErrNotFilled)
	}
	return o, nil
}
