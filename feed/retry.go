package feed

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// Retry retries a failing Feed with exponential backoff. Feed failures are
// transient; only the final error is returned.
type Retry struct {
	Feed     Feed
	Attempts int // extra attempts after the first call
	Base     time.Duration
	Max      time.Duration
	Logger   *slog.Logger
}

func NewRetry(f Feed, attempts int, logger *slog.Logger) *Retry {
	if logger == nil {
		logger = slog.Default()
	}
	return &Retry{
		Feed:     f,
		Attempts: attempts,
		Base:     defaultBaseDelay,
		Max:      defaultMaxDelay,
		Logger:   logger,
	}
}

func (r *Retry) LatestPrice(ctx context.Context, symbol, interval string) (Tick, error) {
	var lastErr error
	for attempt := 0; attempt <= r.Attempts; attempt++ {
		if attempt > 0 {
			delay := Backoff(attempt-1, r.Base, r.Max)
			r.Logger.WarnContext(ctx, "price feed failed, retrying",
				slog.String("symbol", symbol),
				slog.Int("attempt", attempt),
				slog.Duration("delay", delay),
				slog.Any("error", lastErr))

			t := time.NewTimer(delay)
			select {
			case <-ctx.Done():
				t.Stop()
				return Tick{}, ctx.Err()
			case <-t.C:
			}
		}

		tick, err := r.Feed.LatestPrice(ctx, symbol, interval)
		if err == nil {
			return tick, nil
		}
		if ctx.Err() != nil {
			return Tick{}, ctx.Err()
		}
		lastErr = err
	}
	return Tick{}, fmt.Errorf("price feed: %d attempts failed: %w", r.Attempts+1, lastErr)
}
