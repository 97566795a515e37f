package strategy

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// Dip enters when the price has fallen further below a fixed reference
// than ThresholdPct allows. The comparison is strict: with a -0.2
// threshold a change of exactly -0.2% does not enter.
//
// Exits are not price driven; the caller sells after a fixed hold.
type Dip struct {
	Reference    decimal.Decimal
	ThresholdPct decimal.Decimal // e.g. -0.2
}

// ChangePct returns (price - Reference) / Reference * 100, or zero for a
// zero reference.
func (d Dip) ChangePct(price decimal.Decimal) decimal.Decimal {
	if d.Reference.IsZero() {
		return decimal.Zero
	}
	return price.Sub(d.Reference).Div(d.Reference).Mul(hundred)
}

func (d Dip) ShouldEnter(price decimal.Decimal) bool {
	if d.Reference.IsZero() {
		return false
	}
	return d.ChangePct(price).LessThan(d.ThresholdPct)
}
