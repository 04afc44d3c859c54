package analytics

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// PercentChange returns (current - previous) / previous * 100, signed and
// unclamped. A zero baseline reports no change instead of an infinite one.
func PercentChange(current, previous decimal.Decimal) decimal.Decimal {
	if previous.IsZero() {
		return decimal.Zero
	}
	return current.Sub(previous).Div(previous).Mul(hundred)
}

type Trend string

const (
	TrendUp   Trend = "up"
	TrendDown Trend = "down"
	TrendFlat Trend = "flat"
)

// TrendOf classifies a percentage change by sign.
func TrendOf(change decimal.Decimal) Trend {
	switch change.Sign() {
	case 1:
		return TrendUp
	case -1:
		return TrendDown
	}
	return TrendFlat
}
