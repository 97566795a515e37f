package bot

import (
	"testing"
	"time"

	"github.com/rustyeddy/dipbot/config"
	"github.com/stretchr/testify/assert"
)

func TestParamsFromConfig(t *testing.T) {
	t.Parallel()

	cfg := config.Default()
	p := ParamsFromConfig(cfg)

	assert.Equal(t, "RELIANCE", p.Symbol)
	assert.Equal(t, "1m", p.Interval)
	assert.True(t, d("200").Equal(p.Policy.StartingCapital))
	assert.True(t, d("1").Equal(p.Policy.RiskPerTradePct))
	assert.True(t, d("5").Equal(p.Policy.MaxDailyLossPct))
	assert.True(t, d("2").Equal(p.Policy.StopLossAmount))
	assert.True(t, d("1000").Equal(p.Entry.Reference))
	assert.True(t, d("-0.2").Equal(p.Entry.ThresholdPct))
	assert.Equal(t, 20*time.Second, p.PollInterval)
	assert.Equal(t, 2*time.Second, p.HoldDuration)
	assert.True(t, d("10").Equal(p.Policy.DailyLossLimit()))
}
