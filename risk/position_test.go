package risk

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestSizePosition(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		cash string
		stop string
		pct  string
		want int64
	}{
		{"one unit", "200", "2", "1.0", 1},
		{"floors", "350", "2", "1.0", 1},
		{"larger account", "10000", "2", "1.0", 50},
		{"fractional stop", "1000", "0.3", "1.0", 33},
		{"zero stop", "200", "0", "1.0", 0},
		{"negative stop", "200", "-2", "1.0", 0},
		{"zero cash", "0", "2", "1.0", 0},
		{"negative cash clamps", "-500", "2", "1.0", 0},
		{"zero risk", "200", "2", "0", 0},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := SizePosition(d(tt.cash), d(tt.stop), d(tt.pct))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSizePosition_ZeroStopAlwaysZero(t *testing.T) {
	t.Parallel()

	for _, cash := range []string{"0", "1", "200", "1e9"} {
		for _, pct := range []string{"0", "1", "50", "100"} {
			assert.Zero(t, SizePosition(d(cash), decimal.Zero, d(pct)), "cash=%s pct=%s", cash, pct)
		}
	}
}

func TestSizePosition_Monotonic(t *testing.T) {
	t.Parallel()

	pct := d("1.5")
	stop := d("2")
	prev := int64(0)
	for cash := int64(0); cash <= 5000; cash += 37 {
		q := SizePosition(decimal.NewFromInt(cash), stop, pct)
		assert.GreaterOrEqual(t, q, int64(0))
		assert.GreaterOrEqual(t, q, prev, "cash=%d", cash)
		prev = q
	}

	cash := d("5000")
	prev = SizePosition(cash, d("0.01"), pct)
	for s := int64(1); s <= 400; s += 7 {
		stop := decimal.New(s, -2)
		q := SizePosition(cash, stop, pct)
		assert.LessOrEqual(t, q, prev, "stop=%s", stop)
		prev = q
	}
}

func TestSize(t *testing.T) {
	t.Parallel()

	got := Size(SizingRequest{
		Cash:            d("200"),
		EntryPrice:      d("997.5"),
		StopLossPerUnit: d("2"),
		RiskPct:         d("1.0"),
	})

	assert.Equal(t, int64(1), got.Quantity)
	assert.True(t, d("2").Equal(got.RiskAmount), "risk amount %s", got.RiskAmount)
}
