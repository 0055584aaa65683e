package utils

import "testing"

func TestNormalizeTicker(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"NESTLEIND", "NESTLEIND"},
		{"nestleind", "NESTLEIND"},
		{" nestle ", "NESTLEIND"},
		{"RIL", "RELIANCE"},
		{"$TCS", "TCS"},
		{"TCS.NS", "TCS"},
		{"INFY.BO", "INFY"},
		{"HUL", "HINDUNILVR"},
		{"UNKNOWNSTOCK", "UNKNOWNSTOCK"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			result := NormalizeTicker(tt.input)
			if result != tt.expected {
				t.Errorf("NormalizeTicker(%q) = %q, want %q", tt.input, result, tt.expected)
			}
		})
	}
}

func TestValidateTicker(t *testing.T) {
	valid := []string{"TCS", "M&M", "BAJAJ-AUTO", "500325"}
	for _, v := range valid {
		if err := ValidateTicker(v); err != nil {
			t.Errorf("ValidateTicker(%q) unexpected error: %v", v, err)
		}
	}

	invalid := []string{"", "TCS/../X", "NIFTY 50", "a?b"}
	for _, v := range invalid {
		if err := ValidateTicker(v); err == nil {
			t.Errorf("ValidateTicker(%q) expected error", v)
		}
	}
}
