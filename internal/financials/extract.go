// Package financials turns the tables of a company document into
// period-indexed metric tables and growth records, and answers the lookups
// the valuation needs (EPS for a period, RoCE, growth matrices).
package financials

import (
	"strings"

	"github.com/seenimoa/compounder/internal/document"
	"github.com/seenimoa/compounder/pkg/models"
)

// Extractor produces structured records of type T from a document.
type Extractor[T any] interface {
	Extract(doc document.Document) (T, error)
}

var (
	_ Extractor[*models.MetricTable]   = TableExtractor{}
	_ Extractor[[]models.GrowthRecord] = GrowthRangeExtractor{}
)

// ShapesOf returns the table shapes carried by a section. Only the profit
// & loss statement has growth range tables beneath its data table.
func ShapesOf(key document.SectionKey) []document.TableShape {
	if key == document.SectionProfitLoss {
		return []document.TableShape{document.ShapeData, document.ShapeRanges}
	}
	return []document.TableShape{document.ShapeData}
}

// TableExtractor reads the primary metric × period table of a section.
type TableExtractor struct {
	Section document.SectionKey
}

// Extract reads the header row as period labels (skipping the metric
// label cell) and every following row as metric name plus raw values.
// Cell text is trimmed; no numeric coercion happens here.
func (e TableExtractor) Extract(doc document.Document) (*models.MetricTable, error) {
	tables, err := doc.Tables(e.Section, document.ShapeData)
	if err != nil {
		return nil, shapeErrorf(e.Section, err, "no section")
	}
	if len(tables) == 0 {
		return nil, shapeErrorf(e.Section, document.ErrTableNotFound, "no data table")
	}

	t := tables[0]
	header, ok := t.Header()
	if !ok {
		return nil, shapeErrorf(e.Section, nil, "data table has no header row")
	}

	mt := &models.MetricTable{
		Section: string(e.Section),
		Periods: trimAll(header[1:]),
	}
	seen := make(map[string]bool, len(mt.Periods))
	for _, p := range mt.Periods {
		if seen[p] {
			return nil, shapeErrorf(e.Section, nil, "duplicate period %q", p)
		}
		seen[p] = true
	}

	for i, row := range t.Rows {
		if len(row.Cells) == 0 {
			continue // header or spacer row
		}
		if len(row.Cells)-1 > len(mt.Periods) {
			return nil, shapeErrorf(e.Section, nil, "row %d has %d values for %d periods",
				i, len(row.Cells)-1, len(mt.Periods))
		}

		r := models.MetricRow{
			Metric: strings.TrimSpace(row.Cells[0]),
			Values: make(map[string]string, len(mt.Periods)),
		}
		for j, cell := range row.Cells[1:] {
			r.Values[mt.Periods[j]] = strings.TrimSpace(cell)
		}
		mt.Rows = append(mt.Rows, r)
	}

	return mt, nil
}

// GrowthRangeExtractor reads the labelled compounded-growth sub-tables of
// a section into flat records, in document order.
type GrowthRangeExtractor struct {
	Section document.SectionKey
	// Categories restricts extraction to sub-tables whose header contains
	// one of these names. Empty means every sub-table.
	Categories []string
}

// Extract emits one record per data row: the sub-table's header as
// category, the first cell as period bucket and the second as value.
func (e GrowthRangeExtractor) Extract(doc document.Document) ([]models.GrowthRecord, error) {
	tables, err := doc.Tables(e.Section, document.ShapeRanges)
	if err != nil {
		return nil, shapeErrorf(e.Section, err, "no section")
	}
	if len(tables) == 0 {
		return nil, shapeErrorf(e.Section, document.ErrTableNotFound, "no growth range tables")
	}

	var records []models.GrowthRecord
	for i, t := range tables {
		hr := t.HeaderRow()
		if hr < 0 || strings.TrimSpace(t.Rows[hr].HeaderCells[0]) == "" {
			return nil, shapeErrorf(e.Section, nil, "growth table %d has no header cell", i)
		}
		category := strings.TrimSpace(t.Rows[hr].HeaderCells[0])
		if !e.wants(category) {
			continue
		}

		for j, row := range t.Rows {
			if j < hr && len(row.Cells) > 0 {
				return nil, shapeErrorf(e.Section, nil, "%s: row %d precedes the header", category, j)
			}
			if j <= hr {
				continue
			}
			if len(row.Cells) < 2 {
				return nil, shapeErrorf(e.Section, nil, "%s: row %d has %d cells, want 2",
					category, j, len(row.Cells))
			}
			bucket, ok := models.ParsePeriodBucket(row.Cells[0])
			if !ok {
				return nil, shapeErrorf(e.Section, nil, "%s: unrecognized period %q",
					category, strings.TrimSpace(row.Cells[0]))
			}
			records = append(records, models.GrowthRecord{
				Category: category,
				Bucket:   bucket,
				Value:    strings.TrimSpace(row.Cells[1]),
			})
		}
	}

	return records, nil
}

func (e GrowthRangeExtractor) wants(category string) bool {
	if len(e.Categories) == 0 {
		return true
	}
	for _, c := range e.Categories {
		if strings.Contains(category, c) {
			return true
		}
	}
	return false
}

func trimAll(cells []string) []string {
	out := make([]string, len(cells))
	for i, c := range cells {
		out[i] = strings.TrimSpace(c)
	}
	return out
}
