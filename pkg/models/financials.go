package models

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/seenimoa/compounder/pkg/utils"
)

// MetricTable is a statement table (quarters, profit & loss, ratios, ...)
// exactly as laid out in the source document. Values are kept as raw text.
type MetricTable struct {
	Section string      `json:"section"`
	Periods []string    `json:"periods"` // column labels in document order
	Rows    []MetricRow `json:"rows"`
}

// MetricRow is one metric line of a MetricTable.
type MetricRow struct {
	Metric string            `json:"metric"`
	Values map[string]string `json:"values"` // period label → raw cell text
}

// Value returns the raw cell for the given period label.
func (r MetricRow) Value(period string) MetricValue {
	raw, ok := r.Values[period]
	if !ok {
		return Unavailable
	}
	return Available(raw)
}

// NumPeriods returns the number of period columns.
func (t *MetricTable) NumPeriods() int {
	if t == nil {
		return 0
	}
	return len(t.Periods)
}

// HasPeriod reports whether label is one of the table's columns.
func (t *MetricTable) HasPeriod(label string) bool {
	if t == nil {
		return false
	}
	for _, p := range t.Periods {
		if p == label {
			return true
		}
	}
	return false
}

// UnavailableText is how an absent value is displayed.
const UnavailableText = "Data not available"

// MetricValue is a raw document value that may be absent. The zero value
// is Unavailable; absence is never coerced to a number.
type MetricValue struct {
	Raw       string
	Available bool
}

// Unavailable marks a value that could not be located.
var Unavailable = MetricValue{}

// Available wraps a located raw value.
func Available(raw string) MetricValue {
	return MetricValue{Raw: raw, Available: true}
}

// String returns the raw text or UnavailableText.
func (v MetricValue) String() string {
	if !v.Available {
		return UnavailableText
	}
	return v.Raw
}

// Float parses the raw text as a number (thousands separators, % and ₹ are
// tolerated). Unavailable values return an error, never zero.
func (v MetricValue) Float() (float64, error) {
	if !v.Available {
		return 0, fmt.Errorf("value not available")
	}
	return utils.ParseIndianNumber(v.Raw)
}

// MarshalJSON encodes an unavailable value as null.
func (v MetricValue) MarshalJSON() ([]byte, error) {
	if !v.Available {
		return []byte("null"), nil
	}
	return json.Marshal(v.Raw)
}

// UnmarshalJSON decodes null as Unavailable.
func (v *MetricValue) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*v = Unavailable
		return nil
	}
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*v = Available(raw)
	return nil
}

// PeriodBucket is a compounded-growth lookback window.
type PeriodBucket string

const (
	BucketTTM PeriodBucket = "TTM"
	Bucket3Y  PeriodBucket = "3 Years"
	Bucket5Y  PeriodBucket = "5 Years"
	Bucket10Y PeriodBucket = "10 Years"
)

// PeriodBuckets returns the buckets in canonical display order.
func PeriodBuckets() []PeriodBucket {
	return []PeriodBucket{BucketTTM, Bucket3Y, Bucket5Y, Bucket10Y}
}

// ParsePeriodBucket maps a document label such as "3 Years:" to its bucket.
func ParsePeriodBucket(label string) (PeriodBucket, bool) {
	label = strings.TrimSpace(label)
	label = strings.TrimSpace(strings.TrimSuffix(label, ":"))
	for _, b := range PeriodBuckets() {
		if strings.EqualFold(label, string(b)) {
			return b, true
		}
	}
	return "", false
}

// GrowthRecord is one line of a compounded growth sub-table,
// e.g. ("Compounded Sales Growth", 5 Years, "12%").
type GrowthRecord struct {
	Category string       `json:"category"`
	Bucket   PeriodBucket `json:"period"`
	Value    string       `json:"value"`
}

// GrowthMatrix is a category × bucket pivot of growth records.
type GrowthMatrix struct {
	Buckets []PeriodBucket    `json:"buckets"`
	Rows    []GrowthMatrixRow `json:"rows"`
}

// GrowthMatrixRow holds the percentages for one category. A bucket missing
// from Values had no value in the document.
type GrowthMatrixRow struct {
	Category string                   `json:"category"`
	Values   map[PeriodBucket]float64 `json:"values"`
}

// Row returns the row for category, if present.
func (m *GrowthMatrix) Row(category string) (GrowthMatrixRow, bool) {
	if m == nil {
		return GrowthMatrixRow{}, false
	}
	for _, r := range m.Rows {
		if r.Category == category {
			return r, true
		}
	}
	return GrowthMatrixRow{}, false
}

// GrowthPoint is one bar of a growth chart.
type GrowthPoint struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

// GrowthSeries is a chart-ready series for one growth category, in
// canonical bucket order.
type GrowthSeries struct {
	Title  string        `json:"title"`
	Points []GrowthPoint `json:"points"`
}
