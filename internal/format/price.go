// Package format renders fetched listings as Telegram-HTML text.
package format

import (
	"fmt"
	"math"
	"strconv"

	"github.com/dustin/go-humanize"

	"telegram-alerts/internal/models"
)

// NotAvailable is rendered for missing or non-numeric values.
const NotAvailable = "N/A"

// RupeeSymbol prefixes every rendered amount.
const RupeeSymbol = "₹"

const oneLakh = 100000

// maxAmount keeps rounding inside the int64 range.
const maxAmount = 1e17

// Price renders an amount with full digits: Indian grouping from one lakh up,
// plain thousands grouping below.
func Price(a models.Amount) string {
	if !a.Valid || math.IsNaN(a.Value) || math.IsInf(a.Value, 0) || math.Abs(a.Value) > maxAmount {
		return NotAvailable
	}
	n := int64(math.Round(a.Value))
	sign := ""
	if n < 0 {
		sign = "-"
		n = -n
	}
	if n >= oneLakh {
		return sign + RupeeSymbol + IndianNumber(n)
	}
	return sign + RupeeSymbol + humanize.Comma(n)
}

// PriceOf is Price for loosely typed input.
func PriceOf(v interface{}) string {
	return Price(models.ParseAmount(v))
}

// IndianNumber groups digits as 12,34,56,789: the last three, then pairs.
func IndianNumber(n int64) string {
	s := strconv.FormatInt(n, 10)
	sign := ""
	if s[0] == '-' {
		sign, s = "-", s[1:]
	}
	if len(s) <= 3 {
		return sign + s
	}

	result := s[len(s)-3:]
	s = s[:len(s)-3]

	for len(s) > 0 {
		if len(s) >= 2 {
			result = s[len(s)-2:] + "," + result
			s = s[:len(s)-2]
		} else {
			result = s + "," + result
			s = ""
		}
	}

	return sign + result
}

// Lakhs renders amounts of one lakh and up as "₹15.75 Lakh"; smaller amounts
// fall back to Price.
func Lakhs(a models.Amount) string {
	if !a.Valid || math.IsNaN(a.Value) || math.IsInf(a.Value, 0) {
		return NotAvailable
	}
	if math.Abs(a.Value) >= oneLakh {
		return fmt.Sprintf("%s%.2f Lakh", RupeeSymbol, a.Value/oneLakh)
	}
	return Price(a)
}

// LakhsCompact renders any amount as one-decimal lakhs, e.g. "₹15.7L".
// Used for search summaries.
func LakhsCompact(a models.Amount) string {
	if !a.Valid || math.IsNaN(a.Value) || math.IsInf(a.Value, 0) {
		return NotAvailable
	}
	return fmt.Sprintf("%s%.1fL", RupeeSymbol, a.Value/oneLakh)
}

// Mileage renders kilometres with thousands grouping, or N/A.
func Mileage(a models.Amount) string {
	if !a.Valid || math.IsNaN(a.Value) || math.IsInf(a.Value, 0) || math.Abs(a.Value) > maxAmount {
		return NotAvailable
	}
	return humanize.Comma(int64(math.Round(a.Value)))
}
