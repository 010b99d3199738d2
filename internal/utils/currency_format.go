package utils

import (
	"fmt"

	"github.com/SscSPs/budget_planner/internal/apperrors"
	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// CurrencyFormatter renders amounts in one currency for one locale,
// e.g. "€ 1,234.50" for EUR in English.
type CurrencyFormatter struct {
	unit    currency.Unit
	printer *message.Printer
	symbol  string
	scale   int
}

// NewCurrencyFormatter creates a formatter for an ISO 4217 code and a BCP 47 locale.
func NewCurrencyFormatter(code, locale string) (*CurrencyFormatter, error) {
	unit, err := currency.ParseISO(code)
	if err != nil {
		return nil, fmt.Errorf("%w: unknown currency %q", apperrors.ErrValidation, code)
	}
	tag, err := language.Parse(locale)
	if err != nil {
		return nil, fmt.Errorf("%w: unknown locale %q", apperrors.ErrValidation, locale)
	}

	p := message.NewPrinter(tag)
	scale, _ := currency.Standard.Rounding(unit)
	symbol := p.Sprint(currency.Symbol(unit))
	if symbol == "" {
		symbol = unit.String()
	}
	return &CurrencyFormatter{unit: unit, printer: p, symbol: symbol, scale: scale}, nil
}

// Code returns the ISO code of the currency.
func (f *CurrencyFormatter) Code() string {
	return f.unit.String()
}

// Scale is the number of fraction digits used for the currency.
func (f *CurrencyFormatter) Scale() int {
	return f.scale
}

// Format rounds amount to the currency's standard precision and formats it with locale grouping.
func (f *CurrencyFormatter) Format(amount decimal.Decimal) string {
	rounded := amount.Round(int32(f.scale)).InexactFloat64()
	return f.symbol + " " + f.printer.Sprint(number.Decimal(rounded, number.Scale(f.scale)))
}

// FormatPercent formats a percentage with one fraction digit, e.g. "76.0%".
func (f *CurrencyFormatter) FormatPercent(pct decimal.Decimal) string {
	return f.printer.Sprint(number.Decimal(pct.Round(1).InexactFloat64(), number.Scale(1))) + "%"
}
