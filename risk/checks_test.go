package risk

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDailyLossLimit(t *testing.T) {
	t.Parallel()

	p := Policy{StartingCapital: d("200"), MaxDailyLossPct: d("5.0")}
	assert.True(t, d("10").Equal(p.DailyLossLimit()))
}

func TestLossLimitBreached(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		start    string
		cash     string
		limit    string
		breached bool
	}{
		{"no loss", "200", "200", "10", false},
		{"profit", "200", "250", "10", false},
		{"under limit", "200", "190.01", "10", false},
		{"boundary is inclusive", "200", "190", "10", true},
		{"over limit", "200", "150", "10", true},
		{"zero limit with no loss", "200", "200", "0", true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := LossLimitBreached(d(tt.start), d(tt.cash), d(tt.limit))
			assert.Equal(t, tt.breached, got)
		})
	}
}

func TestLoss_NeverNegative(t *testing.T) {
	t.Parallel()

	assert.True(t, Loss(d("100"), d("150")).IsZero())
	assert.True(t, d("25").Equal(Loss(d("100"), d("75"))))
}
