package document

import (
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Selectors maps the abstract document onto concrete HTML markup.
type Selectors struct {
	Section      string // fmt pattern taking the section key
	DataTable    string
	RangesTable  string
	SummaryItem  string
	SummaryValue string
	Title        string
}

// ScreenerSelectors returns the selectors for Screener.in company pages.
func ScreenerSelectors() Selectors {
	return Selectors{
		Section:      "section#%s",
		DataTable:    "table.data-table",
		RangesTable:  "table.ranges-table",
		SummaryItem:  "li.flex.flex-space-between",
		SummaryValue: "span.number",
		Title:        "h1.h2.shrink-text",
	}
}

// HTMLDocument implements Document over a goquery-parsed page.
type HTMLDocument struct {
	doc *goquery.Document
	sel Selectors
}

// NewHTMLDocument wraps an already parsed page.
func NewHTMLDocument(doc *goquery.Document, sel Selectors) *HTMLDocument {
	return &HTMLDocument{doc: doc, sel: sel}
}

// ParseHTML parses a Screener.in company page.
func ParseHTML(r io.Reader) (*HTMLDocument, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parse HTML: %w", err)
	}
	return NewHTMLDocument(doc, ScreenerSelectors()), nil
}

// ParseHTMLString is ParseHTML over an in-memory page.
func ParseHTMLString(html string) (*HTMLDocument, error) {
	return ParseHTML(strings.NewReader(html))
}

// Tables implements Document. The data shape yields at most one table,
// the first in the section.
func (d *HTMLDocument) Tables(key SectionKey, shape TableShape) ([]Table, error) {
	section := d.doc.Find(fmt.Sprintf(d.sel.Section, key)).First()
	if section.Length() == 0 {
		return nil, fmt.Errorf("%w: %s", ErrSectionNotFound, key)
	}

	var found *goquery.Selection
	switch shape {
	case ShapeData:
		found = section.Find(d.sel.DataTable).First()
	case ShapeRanges:
		found = section.Find(d.sel.RangesTable)
	default:
		return nil, fmt.Errorf("unknown table shape %d", shape)
	}

	tables := make([]Table, 0, found.Length())
	found.Each(func(_ int, t *goquery.Selection) {
		tables = append(tables, readTable(t))
	})
	return tables, nil
}

// Field implements Document.
func (d *HTMLDocument) Field(label string) (string, bool) {
	var (
		value string
		ok    bool
	)
	d.doc.Find(d.sel.SummaryItem).EachWithBreak(func(_ int, li *goquery.Selection) bool {
		if !strings.Contains(li.Text(), label) {
			return true
		}
		num := li.Find(d.sel.SummaryValue).First()
		if num.Length() == 0 {
			return true
		}
		value, ok = strings.TrimSpace(num.Text()), true
		return false
	})
	return value, ok
}

// Title implements Document.
func (d *HTMLDocument) Title() (string, bool) {
	h := d.doc.Find(d.sel.Title).First()
	if h.Length() == 0 {
		return "", false
	}
	return strings.TrimSpace(h.Text()), true
}

// readTable collects the direct th/td children of every row.
func readTable(t *goquery.Selection) Table {
	var table Table
	t.Find("tr").Each(func(_ int, tr *goquery.Selection) {
		var row Row
		tr.ChildrenFiltered("th").Each(func(_ int, c *goquery.Selection) {
			row.HeaderCells = append(row.HeaderCells, c.Text())
		})
		tr.ChildrenFiltered("td").Each(func(_ int, c *goquery.Selection) {
			row.Cells = append(row.Cells, c.Text())
		})
		table.Rows = append(table.Rows, row)
	})
	return table
}
