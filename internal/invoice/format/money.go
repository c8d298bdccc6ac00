// Package format holds pure formatting and rounding helpers for invoices.
package format

import (
	"fmt"
	"strings"
)

// VAT applies an integer percentage rate with half-up rounding.
func VAT(base, ratePercent int64) int64 {
	if base <= 0 || ratePercent <= 0 {
		return 0
	}
	return (base*ratePercent + 50) / 100
}

// DPPLain is the "other tax base" figure shown on Indonesian invoices,
// defined as 11/12 of the base, half-up rounded. Display only.
func DPPLain(base int64) int64 {
	if base <= 0 {
		return 0
	}
	return (base*11 + 6) / 12
}

// IDRToUSDCents converts whole rupiah to dollar cents at a fixed rate,
// half-up rounded.
func IDRToUSDCents(idr, idrPerUSD int64) int64 {
	if idr <= 0 || idrPerUSD <= 0 {
		return 0
	}
	return (idr*100 + idrPerUSD/2) / idrPerUSD
}

// FormatIDR renders whole rupiah with dot thousand separators, e.g.
// "Rp 1.110.000".
func FormatIDR(amount int64) string {
	return "Rp " + groupDigits(amount, ".")
}

// FormatUSD renders cents as dollars, e.g. "$3.06".
func FormatUSD(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s$%s.%02d", sign, groupDigits(cents/100, ","), cents%100)
}

// FormatMoney picks the renderer for the invoice currency.
func FormatMoney(amount int64, currency string) string {
	if currency == "USD" {
		return FormatUSD(amount)
	}
	return FormatIDR(amount)
}

func groupDigits(n int64, sep string) string {
	if n < 0 {
		return "-" + groupDigits(-n, sep)
	}
	s := fmt.Sprintf("%d", n)
	if len(s) <= 3 {
		return s
	}
	var parts []string
	for len(s) > 3 {
		parts = append([]string{s[len(s)-3:]}, parts...)
		s = s[:len(s)-3]
	}
	parts = append([]string{s}, parts...)
	return strings.Join(parts, sep)
}
