package risk

import "github.com/shopspring/decimal"

type SizingRequest struct {
	Cash            decimal.Decimal
	EntryPrice      decimal.Decimal
	StopLossPerUnit decimal.Decimal
	RiskPct         decimal.Decimal // 1.0 == 1% of cash
}

type SizingResult struct {
	Quantity   int64
	RiskAmount decimal.Decimal
}

// SizePosition returns floor(cash * riskPct / 100 / stopLossPerUnit),
// never negative. A non-positive stop distance sizes to zero.
func SizePosition(cash, stopLossPerUnit, riskPct decimal.Decimal) int64 {
	if !stopLossPerUnit.IsPositive() {
		return 0
	}
	qty := RiskAmount(cash, riskPct).Div(stopLossPerUnit).Floor()
	if qty.IsNegative() {
		return 0
	}
	return qty.IntPart()
}

// RiskAmount is the cash put at risk by one trade.
func RiskAmount(cash, riskPct decimal.Decimal) decimal.Decimal {
	return cash.Mul(riskPct).Div(hundred)
}

// Size is SizePosition with the risk amount attached. The entry price does
// not affect the quantity; it is carried for logging.
func Size(req SizingRequest) SizingResult {
	return SizingResult{
		Quantity:   SizePosition(req.Cash, req.StopLossPerUnit, req.RiskPct),
		RiskAmount: RiskAmount(req.Cash, req.RiskPct),
	}
}
