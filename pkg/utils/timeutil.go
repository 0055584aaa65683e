package utils

import (
	"fmt"
	"strings"
	"time"
)

// IST is the Indian Standard Time location (UTC+5:30).
var IST *time.Location

func init() {
	var err error
	IST, err = time.LoadLocation("Asia/Kolkata")
	if err != nil {
		// Fallback: create fixed zone if tz database is not available
		IST = time.FixedZone("IST", 5*60*60+30*60)
	}
}

// NowIST returns the current time in IST.
func NowIST() time.Time {
	return time.Now().In(IST)
}

// FormatDateTimeIST formats a time as "02 Jan 2006, 03:04 PM IST".
func FormatDateTimeIST(t time.Time) string {
	return t.In(IST).Format("02 Jan 2006, 03:04 PM IST")
}

// ParsePeriodLabel parses a statement column label such as "Mar 2024" or
// "Dec 2023" into the first day of that month.
func ParsePeriodLabel(label string) (time.Time, error) {
	t, err := time.ParseInLocation("Jan 2006", strings.TrimSpace(label), IST)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid period label %q: %w", label, err)
	}
	return t, nil
}

// LatestPeriod returns the chronologically latest label that parses as a
// month-year period. Labels such as "TTM" are ignored.
func LatestPeriod(labels []string) (string, bool) {
	var (
		latest string
		at     time.Time
	)
	for _, l := range labels {
		t, err := ParsePeriodLabel(l)
		if err != nil {
			continue
		}
		if latest == "" || t.After(at) {
			latest, at = l, t
		}
	}
	return latest, latest != ""
}
