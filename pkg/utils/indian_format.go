// Package utils provides number, ticker and time helpers for Indian-market
// financial statements.
package utils

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ParseIndianNumber parses a statement value as printed on Screener.in.
// Handles Indian digit grouping, percentages, the rupee sign and Cr/Lakh
// suffixes. Unlike a display formatter it never returns zero for
// unparseable input.
func ParseIndianNumber(s string) (float64, error) {
	orig := s
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, ",", "")
	s = strings.ReplaceAll(s, "%", "")
	s = strings.ReplaceAll(s, "₹", "")
	s = strings.TrimSpace(s)

	multiplier := 1.0
	switch {
	case strings.HasSuffix(s, "Cr."), strings.HasSuffix(s, "Cr"):
		s = strings.TrimSuffix(s, ".")
		s = strings.TrimSpace(strings.TrimSuffix(s, "Cr"))
		multiplier = 1e7 // 1 Crore = 10 million
	case strings.HasSuffix(s, "Lakh"), strings.HasSuffix(s, "L"):
		s = strings.TrimSuffix(s, "Lakh")
		s = strings.TrimSpace(strings.TrimSuffix(s, "L"))
		multiplier = 1e5
	}

	val, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("parse number %q: %w", orig, err)
	}
	return val * multiplier, nil
}

// FormatINR formats a number in Indian Rupee format (₹12,34,567.89).
// Uses the Indian numbering system: last 3 digits, then groups of 2.
func FormatINR(amount float64) string {
	negative := amount < 0
	amount = math.Abs(amount)

	// Round once so the paise never carry into a "1.00" fraction.
	cents := int64(math.Round(amount * 100))
	formatted := formatIndianNumber(cents/100) + fmt.Sprintf(".%02d", cents%100)

	if negative {
		return "-₹" + formatted
	}
	return "₹" + formatted
}

// FormatPct formats a percentage value with sign and suffix.
// e.g., 2.45 → "+2.45%", -1.23 → "-1.23%"
func FormatPct(pct float64) string {
	if pct >= 0 {
		return fmt.Sprintf("+%.2f%%", pct)
	}
	return fmt.Sprintf("%.2f%%", pct)
}

// formatIndianNumber formats an integer with Indian grouping (last 3, then 2s).
func formatIndianNumber(n int64) string {
	if n < 1000 {
		return fmt.Sprintf("%d", n)
	}

	s := fmt.Sprintf("%d", n)
	length := len(s)

	// Take the last 3 digits
	result := s[length-3:]
	remaining := s[:length-3]

	// Group remaining digits in pairs from right
	for len(remaining) > 0 {
		if len(remaining) > 2 {
			result = remaining[len(remaining)-2:] + "," + result
			remaining = remaining[:len(remaining)-2]
		} else {
			result = remaining + "," + result
			remaining = ""
		}
	}

	return result
}
