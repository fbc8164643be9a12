// Package core provides the ledger domain: record types, the derivation engine,
// allocation reconciliation and goal progress.
//
// This file contains the decimal helpers every derivation goes through and
// the parsing and formatting of currency amounts.
package core

import (
	"fmt"
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// DefaultCurrency is the ISO code used when none is configured.
const DefaultCurrency = money.CNY

var hundred = decimal.NewFromInt(100)

// dec converts an amount to its exact decimal representation.
// Non-finite inputs count as zero; Validate rejects them before they reach the store.
func dec(v float64) decimal.Decimal {
	if !isFinite(v) {
		return decimal.Zero
	}
	return decimal.NewFromFloat(v)
}

func sumItems(items []LineItem) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(dec(it.Amount))
	}
	return total
}

// ParseAmount parses a possibly signed decimal amount.
//
// It accepts both dot (12.34) and comma (12,34) decimal separators. When both
// appear, commas are treated as thousands separators (1,234.56). A lone comma
// followed by three-digit groups is a thousands separator too (1,234), and one
// followed by one or two digits is a decimal separator. Values that do not fit
// in a float64 are rejected.
//
// Examples:
//
//	ParseAmount("12.34")    -> 12.34, nil
//	ParseAmount("12,34")    -> 12.34, nil
//	ParseAmount("1,234")    -> 1234, nil
//	ParseAmount("1,234.5")  -> 1234.5, nil
//	ParseAmount("-3")       -> -3, nil
//	ParseAmount("1e400")    -> 0, ErrInvalidAmount
//	ParseAmount("abc")      -> 0, ErrInvalidAmount
func ParseAmount(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrInvalidAmount
	}
	raw := s
	if strings.Contains(s, ",") {
		switch {
		case strings.Contains(s, "."):
			s = strings.ReplaceAll(s, ",", "")
		case thousandsGrouped(s):
			s = strings.ReplaceAll(s, ",", "")
		case strings.Count(s, ",") == 1 && len(s)-strings.Index(s, ",") <= 3:
			s = strings.Replace(s, ",", ".", 1)
		default:
			return 0, fmt.Errorf("%w: %q", ErrInvalidAmount, raw)
		}
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidAmount, raw)
	}
	f := d.InexactFloat64()
	if !isFinite(f) {
		return 0, fmt.Errorf("%w: %q out of range", ErrInvalidAmount, raw)
	}
	return f, nil
}

// thousandsGrouped reports whether every comma in s is followed by exactly
// three digits, as in 1,234 or 12,345,678.
func thousandsGrouped(s string) bool {
	parts := strings.Split(s, ",")
	if parts[0] == "" || parts[0] == "-" || parts[0] == "+" {
		return false
	}
	for _, p := range parts[1:] {
		if len(p) != 3 || strings.Trim(p, "0123456789") != "" {
			return false
		}
	}
	return true
}

// FormatCurrency renders amount in the given ISO currency, e.g. "1,234.50 元" for CNY.
// Amounts are rounded half away from zero to the currency's minor unit.
func FormatCurrency(amount float64, code string) string {
	if code == "" {
		code = DefaultCurrency
	}
	cur := money.New(0, code).Currency()
	minor := dec(amount).Shift(int32(cur.Fraction)).Round(0).IntPart()
	return money.New(minor, code).Display()
}

// FormatPercent renders a percentage with two decimals, e.g. "12.50%".
func FormatPercent(v float64) string {
	return dec(v).StringFixed(2) + "%"
}

// DateKey returns the YYYY-MM key of a month.
func DateKey(year, month int) string {
	return fmt.Sprintf("%d-%02d", year, month)
}
