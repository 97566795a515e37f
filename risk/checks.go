package risk

import "github.com/shopspring/decimal"

// Loss is the drawdown from startingBalance, floored at zero.
func Loss(startingBalance, cash decimal.Decimal) decimal.Decimal {
	loss := startingBalance.Sub(cash)
	if loss.IsNegative() {
		return decimal.Zero
	}
	return loss
}

// LossLimitBreached reports whether the drawdown has reached the limit.
// The boundary is inclusive: a loss equal to the limit halts.
func LossLimitBreached(startingBalance, cash, dailyLossLimit decimal.Decimal) bool {
	return Loss(startingBalance, cash).GreaterThanOrEqual(dailyLossLimit)
}
