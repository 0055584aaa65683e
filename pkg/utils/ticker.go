package utils

import (
	"fmt"
	"strings"
)

// Common aliases for Screener.in company symbols.
var tickerAliases = map[string]string{
	"RIL":          "RELIANCE",
	"INFOSYS":      "INFY",
	"HDFC BANK":    "HDFCBANK",
	"ICICI BANK":   "ICICIBANK",
	"SBI":          "SBIN",
	"AIRTEL":       "BHARTIARTL",
	"L&T":          "LT",
	"TATA MOTORS":  "TATAMOTORS",
	"HCL TECH":     "HCLTECH",
	"KOTAK":        "KOTAKBANK",
	"SUN PHARMA":   "SUNPHARMA",
	"ASIAN PAINTS": "ASIANPAINT",
	"NESTLE":       "NESTLEIND",
	"ULTRATECH":    "ULTRACEMCO",
	"MAHINDRA":     "M&M",
	"HUL":          "HINDUNILVR",
	"PIDILITE":     "PIDILITIND",
}

// NormalizeTicker normalizes a user-input symbol to the form used in
// Screener.in company URLs. It handles aliases, uppercasing, whitespace
// and exchange suffixes.
func NormalizeTicker(ticker string) string {
	ticker = strings.TrimSpace(strings.ToUpper(ticker))

	// Remove $ prefix if present (common in chat)
	ticker = strings.TrimPrefix(ticker, "$")
	ticker = strings.TrimSuffix(ticker, ".NS")
	ticker = strings.TrimSuffix(ticker, ".BO")

	if canonical, ok := tickerAliases[ticker]; ok {
		return canonical
	}
	return ticker
}

// ValidateTicker checks that a normalized symbol can be used as a company
// identifier: letters, digits, '&' and '-' only.
func ValidateTicker(ticker string) error {
	if ticker == "" {
		return fmt.Errorf("empty ticker")
	}
	for _, r := range ticker {
		switch {
		case r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '&', r == '-':
		default:
			return fmt.Errorf("invalid character %q in ticker %q", r, ticker)
		}
	}
	return nil
}
