package feed

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSim_Bounds(t *testing.T) {
	t.Parallel()

	ref := decimal.NewFromInt(1000)
	s := NewSim(ref, decimal.NewFromInt(5), 42)
	lo, hi := decimal.NewFromInt(995), decimal.NewFromInt(1005)

	for i := 0; i < 1000; i++ {
		tick, err := s.LatestPrice(context.Background(), "RELIANCE", "1m")
		require.NoError(t, err)
		assert.Equal(t, "RELIANCE", tick.Symbol)
		assert.True(t, tick.Price.GreaterThanOrEqual(lo), "price %s", tick.Price)
		assert.True(t, tick.Price.LessThanOrEqual(hi), "price %s", tick.Price)
		assert.LessOrEqual(t, -tick.Price.Exponent(), int32(2))
		assert.False(t, tick.Time.IsZero())
	}
}

func TestSim_SeedIsDeterministic(t *testing.T) {
	t.Parallel()

	a := NewSim(decimal.NewFromInt(1000), decimal.NewFromInt(5), 7)
	b := NewSim(decimal.NewFromInt(1000), decimal.NewFromInt(5), 7)
	for i := 0; i < 10; i++ {
		ta, _ := a.LatestPrice(context.Background(), "X", "1m")
		tb, _ := b.LatestPrice(context.Background(), "X", "1m")
		assert.True(t, ta.Price.Equal(tb.Price))
	}
}

func TestSim_ZeroSpread(t *testing.T) {
	t.Parallel()

	s := NewSim(decimal.NewFromInt(1000), decimal.Zero, 1)
	tick, err := s.LatestPrice(context.Background(), "X", "1m")
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(1000).Equal(tick.Price))
}

func TestSim_CanceledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewSim(decimal.NewFromInt(1000), decimal.NewFromInt(5), 1).LatestPrice(ctx, "X", "1m")
	assert.ErrorIs(t, err, context.Canceled)
}
