package domain

import (
	"strings"

	"github.com/shopspring/decimal"
)

// ParseAmountOrZero converts user-entered text into an amount.
//
// Accepted forms: "1234.50", "1234,50", and grouped thousands such as
// "1,234.50", "1.234,50", "1 234,50" or "1,234,567". When both '.' and ','
// appear, the last one is the decimal separator. A single separator of one kind
// is always decimal, so "1,000" is one. Grouping must come in blocks of three
// digits. Anything that does not parse yields zero, so malformed input never
// reaches totals or persistence.
func ParseAmountOrZero(s string) decimal.Decimal {
	s = strings.NewReplacer(" ", "", "\u00a0", "", "'", "").Replace(strings.TrimSpace(s))
	if s == "" {
		return decimal.Zero
	}
	normalized, ok := normalizeSeparators(s)
	if !ok {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(normalized)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// normalizeSeparators rewrites s with '.' as the only decimal separator and no grouping.
func normalizeSeparators(s string) (string, bool) {
	dots, commas := strings.Count(s, "."), strings.Count(s, ",")

	var group, dec string
	switch {
	case dots == 0 && commas == 0:
		return s, true
	case dots > 0 && commas > 0:
		if strings.LastIndex(s, ".") > strings.LastIndex(s, ",") {
			group, dec = ",", "."
		} else {
			group, dec = ".", ","
		}
		if strings.Count(s, dec) != 1 {
			return "", false
		}
	case dots+commas == 1:
		return strings.Replace(s, ",", ".", 1), true
	case commas > 1:
		group = ","
	default:
		group = "."
	}

	intPart, frac := s, ""
	if dec != "" {
		i := strings.LastIndex(s, dec)
		intPart, frac = s[:i], s[i+1:]
	}
	blocks := strings.Split(strings.TrimLeft(intPart, "+-"), group)
	if len(blocks[0]) < 1 || len(blocks[0]) > 3 {
		return "", false
	}
	for _, b := range blocks[1:] {
		if len(b) != 3 {
			return "", false
		}
	}
	out := strings.ReplaceAll(intPart, group, "")
	if dec != "" {
		out += "." + frac
	}
	return out, true
}
