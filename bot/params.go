package bot

import (
	"time"

	"github.com/rustyeddy/dipbot/config"
	"github.com/rustyeddy/dipbot/risk"
	"github.com/rustyeddy/dipbot/strategy"
)

// Params are fixed for the lifetime of a Controller.
type Params struct {
	Symbol   string
	Interval string

	Policy risk.Policy
	Entry  strategy.Dip

	PollInterval time.Duration
	HoldDuration time.Duration
}

// ParamsFromConfig converts a validated config into controller parameters.
func ParamsFromConfig(cfg *config.Config) Params {
	return Params{
		Symbol:   cfg.Symbol,
		Interval: cfg.Interval,
		Policy: risk.Policy{
			StartingCapital: cfg.StartingCapital,
			RiskPerTradePct: cfg.RiskPerTradePct,
			MaxDailyLossPct: cfg.MaxDailyLossPct,
			StopLossAmount:  cfg.StopLossAmount,
		},
		Entry: strategy.Dip{
			Reference:    cfg.ReferencePrice,
			ThresholdPct: cfg.EntryThresholdPct,
		},
		PollInterval: cfg.PollEvery(),
		HoldDuration: cfg.HoldFor(),
	}
}
