package financials

import (
	"strings"

	"github.com/seenimoa/compounder/pkg/models"
)

// DefaultPeriodOffset selects the fifth column from the end, where the
// Screener.in layout puts the figure reported as five-year median RoCE.
// It is a fixed position, not a date lookup.
const DefaultPeriodOffset = 5

// Locator finds metrics in a MetricTable. Lookups never fail: a missing
// row, column or cell yields models.Unavailable.
type Locator struct {
	// Offset is the 1-based column position counted from the last column.
	Offset int
}

// NewLocator returns a Locator using DefaultPeriodOffset.
func NewLocator() Locator {
	return Locator{Offset: DefaultPeriodOffset}
}

// FindRow returns the first row, in document order, whose metric name
// contains name (case-insensitive).
func FindRow(t *models.MetricTable, name string) (models.MetricRow, bool) {
	if t == nil {
		return models.MetricRow{}, false
	}
	needle := strings.ToLower(name)
	for _, r := range t.Rows {
		if strings.Contains(strings.ToLower(r.Metric), needle) {
			return r, true
		}
	}
	return models.MetricRow{}, false
}

// OffsetPeriod returns the label of the column selected by the offset.
func (l Locator) OffsetPeriod(t *models.MetricTable) (string, bool) {
	n := t.NumPeriods()
	if l.Offset < 1 || n < l.Offset {
		return "", false
	}
	return t.Periods[n-l.Offset], true
}

// Lookup returns the value of the first matching metric at the offset
// column.
func (l Locator) Lookup(t *models.MetricTable, name string) models.MetricValue {
	period, ok := l.OffsetPeriod(t)
	if !ok {
		return models.Unavailable
	}
	return LookupPeriod(t, name, period)
}

// LookupPeriod returns the value of the first matching metric at the
// named column.
func LookupPeriod(t *models.MetricTable, name, period string) models.MetricValue {
	if !t.HasPeriod(period) {
		return models.Unavailable
	}
	row, ok := FindRow(t, name)
	if !ok {
		return models.Unavailable
	}
	return row.Value(period)
}
