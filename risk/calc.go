package risk

import "github.com/shopspring/decimal"

// SettleRoundTrip books a BUY of qty at buy and a SELL of qty at sell.
// No fees or slippage.
func SettleRoundTrip(cash decimal.Decimal, qty int64, buy, sell decimal.Decimal) decimal.Decimal {
	q := decimal.NewFromInt(qty)
	return cash.Sub(q.Mul(buy)).Add(q.Mul(sell))
}

// RealizedPL is the profit or loss of a round trip.
func RealizedPL(qty int64, buy, sell decimal.Decimal) decimal.Decimal {
	return decimal.NewFromInt(qty).Mul(sell.Sub(buy))
}
