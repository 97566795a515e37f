package feed

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/shopspring/decimal"
)

// Sim produces reference ± uniform(spread) prices rounded to two places.
// It never fails.
type Sim struct {
	Reference decimal.Decimal
	Spread    decimal.Decimal

	mu  sync.Mutex
	rng *rand.Rand
	now func() time.Time
}

// NewSim seeds from the clock when seed is zero.
func NewSim(reference, spread decimal.Decimal, seed int64) *Sim {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Sim{
		Reference: reference,
		Spread:    spread,
		rng:       rand.New(rand.NewSource(seed)),
		now:       time.Now,
	}
}

func (s *Sim) LatestPrice(ctx context.Context, symbol, interval string) (Tick, error) {
	if err := ctx.Err(); err != nil {
		return Tick{}, err
	}

	s.mu.Lock()
	u := s.rng.Float64()*2 - 1 // [-1, 1)
	s.mu.Unlock()

	offset := s.Spread.Mul(decimal.NewFromFloat(u))
	return Tick{
		Symbol: symbol,
		Price:  s.Reference.Add(offset).Round(2),
		Time:   s.now(),
	}, nil
}
