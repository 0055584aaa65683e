package utils

import "testing"

func TestNowIST(t *testing.T) {
	now := NowIST()
	if now.Location().String() != "Asia/Kolkata" && now.Location().String() != "IST" {
		t.Errorf("NowIST() location = %s, want Asia/Kolkata or IST", now.Location().String())
	}
}

func TestParsePeriodLabel(t *testing.T) {
	p, err := ParsePeriodLabel(" Mar 2024 ")
	if err != nil {
		t.Fatalf("ParsePeriodLabel error: %v", err)
	}
	if p.Year() != 2024 || p.Month() != 3 {
		t.Errorf("got %v, want March 2024", p)
	}

	if _, err := ParsePeriodLabel("TTM"); err == nil {
		t.Error("expected error for TTM")
	}
}

func TestLatestPeriod(t *testing.T) {
	tests := []struct {
		name   string
		labels []string
		want   string
		ok     bool
	}{
		{"chronological", []string{"Mar 2022", "Mar 2023", "Mar 2024", "TTM"}, "Mar 2024", true},
		{"unordered", []string{"Dec 2024", "Mar 2023", "Jun 2025", "Sep 2024"}, "Jun 2025", true},
		{"none", []string{"TTM", ""}, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := LatestPeriod(tt.labels)
			if got != tt.want || ok != tt.ok {
				t.Errorf("LatestPeriod(%v) = (%q, %v), want (%q, %v)", tt.labels, got, ok, tt.want, tt.ok)
			}
		})
	}
}
