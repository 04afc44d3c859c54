// Package format renders numbers for the dashboard.
package format

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Formatter renders money with a fixed symbol prefix and two decimals, and
// whole counts with thousands grouping.
type Formatter struct {
	symbol  string
	printer *message.Printer
}

func New(symbol string) *Formatter {
	return &Formatter{
		symbol:  symbol,
		printer: message.NewPrinter(language.English),
	}
}

// Currency formats d as e.g. "₱1,234.50".
func (f *Formatter) Currency(d decimal.Decimal) string {
	return f.symbol + f.printer.Sprintf("%.2f", d.Round(2).InexactFloat64())
}

// Integer formats d's integer part as e.g. "1,234".
func (f *Formatter) Integer(d decimal.Decimal) string {
	return f.printer.Sprintf("%d", d.IntPart())
}

// Percent formats a signed percentage with one decimal. Strictly positive
// values carry a leading "+".
func (f *Formatter) Percent(d decimal.Decimal) string {
	s := d.StringFixed(1) + "%"
	if d.Round(1).IsPositive() {
		return "+" + s
	}
	if s == "-0.0%" {
		return "0.0%"
	}
	return s
}
