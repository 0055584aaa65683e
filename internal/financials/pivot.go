package financials

import (
	"strings"

	"github.com/seenimoa/compounder/pkg/models"
	"github.com/seenimoa/compounder/pkg/utils"
)

// Growth families disclosed beneath the profit & loss statement.
const (
	SalesGrowth  = "Compounded Sales Growth"
	ProfitGrowth = "Compounded Profit Growth"
)

// FilterGrowth returns the records whose category contains prefix.
func FilterGrowth(records []models.GrowthRecord, prefix string) []models.GrowthRecord {
	var out []models.GrowthRecord
	for _, r := range records {
		if strings.Contains(r.Category, prefix) {
			out = append(out, r)
		}
	}
	return out
}

// BuildGrowthMatrix filters records by category prefix and pivots them into
// a category × bucket matrix. Buckets come out in canonical order whatever
// the source order; rows keep the order categories first appear in.
//
// The prefix must be narrow enough that each (category, bucket) pair occurs
// once; a repeated pair is a DataShapeError. Empty values are left out of
// the row, unparseable ones are a DataShapeError.
func BuildGrowthMatrix(records []models.GrowthRecord, prefix string) (*models.GrowthMatrix, error) {
	selected := FilterGrowth(records, prefix)
	if len(selected) == 0 {
		return nil, shapeErrorf("", nil, "no growth records match %q", prefix)
	}

	m := &models.GrowthMatrix{Buckets: models.PeriodBuckets()}
	index := make(map[string]int)
	seen := make(map[models.GrowthRecord]bool)

	for _, r := range selected {
		i, ok := index[r.Category]
		if !ok {
			i = len(m.Rows)
			index[r.Category] = i
			m.Rows = append(m.Rows, models.GrowthMatrixRow{
				Category: r.Category,
				Values:   make(map[models.PeriodBucket]float64, len(m.Buckets)),
			})
		}

		key := models.GrowthRecord{Category: r.Category, Bucket: r.Bucket}
		if seen[key] {
			return nil, shapeErrorf("", nil, "duplicate growth category %q for %s", r.Category, r.Bucket)
		}
		seen[key] = true

		row := &m.Rows[i]
		if r.Value == "" {
			continue
		}
		v, err := utils.ParseIndianNumber(r.Value)
		if err != nil {
			return nil, shapeErrorf("", err, "%s %s", r.Category, r.Bucket)
		}
		row.Values[r.Bucket] = v
	}

	return m, nil
}

// Series returns a chart-ready series for one matrix row, in canonical
// bucket order. Buckets without a value are omitted.
func Series(m *models.GrowthMatrix, category string) (*models.GrowthSeries, bool) {
	row, ok := m.Row(category)
	if !ok {
		return nil, false
	}
	s := &models.GrowthSeries{Title: category}
	for _, b := range m.Buckets {
		if v, ok := row.Values[b]; ok {
			s.Points = append(s.Points, models.GrowthPoint{Label: string(b), Value: v})
		}
	}
	return s, true
}
