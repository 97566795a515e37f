package risk

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// Policy holds the fixed risk parameters for one run of the bot.
// Percentages are expressed in percent (1.0 == 1%).
type Policy struct {
	StartingCapital decimal.Decimal // e.g. 200
	RiskPerTradePct decimal.Decimal // 1.0
	MaxDailyLossPct decimal.Decimal // 5.0
	StopLossAmount  decimal.Decimal // currency distance per unit, e.g. 2
}

// DailyLossLimit is the drawdown, measured from the balance at loop start,
// that halts trading.
func (p Policy) DailyLossLimit() decimal.Decimal {
	return DailyLossLimit(p.StartingCapital, p.MaxDailyLossPct)
}

// DailyLossLimit returns startingCapital * maxDailyLossPct / 100.
func DailyLossLimit(startingCapital, maxDailyLossPct decimal.Decimal) decimal.Decimal {
	return startingCapital.Mul(maxDailyLossPct).Div(hundred)
}
