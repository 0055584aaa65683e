// Package document defines the abstract view of a company financials page
// that the extraction pipeline depends on: named sections containing
// tables of rows and cells, plus a few summary fields. It is independent of
// the markup dialect of any particular site.
package document

import (
	"errors"
)

// SectionKey identifies a statement section of the document.
type SectionKey string

const (
	SectionQuarters     SectionKey = "quarters"
	SectionProfitLoss   SectionKey = "profit-loss"
	SectionBalanceSheet SectionKey = "balance-sheet"
	SectionCashFlow     SectionKey = "cash-flow"
	SectionRatios       SectionKey = "ratios"
	SectionShareholding SectionKey = "shareholding"
)

// StatementSections returns the sections carrying a primary metric table,
// in page order.
func StatementSections() []SectionKey {
	return []SectionKey{
		SectionQuarters,
		SectionProfitLoss,
		SectionBalanceSheet,
		SectionCashFlow,
		SectionRatios,
		SectionShareholding,
	}
}

// TableShape selects which kind of table to read from a section.
type TableShape int

const (
	// ShapeData is the primary metric × period table of a section.
	ShapeData TableShape = iota
	// ShapeRanges are the small labelled compounded-growth tables that
	// follow the profit & loss statement.
	ShapeRanges
)

func (s TableShape) String() string {
	switch s {
	case ShapeData:
		return "data"
	case ShapeRanges:
		return "ranges"
	default:
		return "unknown"
	}
}

// Row is one table row. HeaderCells holds the text of header (th) cells,
// Cells the text of data (td) cells, both untrimmed and in document order.
type Row struct {
	HeaderCells []string
	Cells       []string
}

// Table is a sequence of rows in document order.
type Table struct {
	Rows []Row
}

// HeaderRow returns the index of the first row with header cells, or -1.
func (t Table) HeaderRow() int {
	for i, r := range t.Rows {
		if len(r.HeaderCells) > 0 {
			return i
		}
	}
	return -1
}

// Header returns the header cells of the first row that has any.
func (t Table) Header() ([]string, bool) {
	i := t.HeaderRow()
	if i < 0 {
		return nil, false
	}
	return t.Rows[i].HeaderCells, true
}

// Document is a parsed company page.
type Document interface {
	// Tables returns every table of the given shape inside the section.
	// It fails with ErrSectionNotFound when the section is absent; a
	// present section without matching tables yields an empty slice.
	Tables(key SectionKey, shape TableShape) ([]Table, error)

	// Field returns the value of a labelled summary item such as
	// "Current Price" or "Stock P/E".
	Field(label string) (string, bool)

	// Title returns the company name heading.
	Title() (string, bool)
}

var (
	// ErrSectionNotFound is returned when a section key is absent.
	ErrSectionNotFound = errors.New("section not found")
	// ErrTableNotFound is returned when a section has no table of the
	// requested shape.
	ErrTableNotFound = errors.New("table not found")
)
