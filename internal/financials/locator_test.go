package financials

import (
	"testing"

	"github.com/seenimoa/compounder/internal/document"
	"github.com/seenimoa/compounder/internal/document/documenttest"
	"github.com/seenimoa/compounder/pkg/models"
)

func table(periods []string, rows ...models.MetricRow) *models.MetricTable {
	return &models.MetricTable{Section: "ratios", Periods: periods, Rows: rows}
}

func row(metric string, periods []string, values ...string) models.MetricRow {
	r := models.MetricRow{Metric: metric, Values: make(map[string]string)}
	for i, v := range values {
		r.Values[periods[i]] = v
	}
	return r
}

func TestLocatorFixtureROCE(t *testing.T) {
	doc := documenttest.MustParse(t)
	ratios, err := TableExtractor{Section: document.SectionRatios}.Extract(doc)
	if err != nil {
		t.Fatalf("Extract error: %v", err)
	}

	if ratios.NumPeriods() < DefaultPeriodOffset {
		t.Fatalf("ratios fixture has %d columns, the offset needs at least %d",
			ratios.NumPeriods(), DefaultPeriodOffset)
	}

	got := NewLocator().Lookup(ratios, "ROCE %")
	if !got.Available || got.Raw != documenttest.ROCEOffset5 {
		t.Errorf("Lookup(ROCE %%) = %+v, want %q", got, documenttest.ROCEOffset5)
	}
}

func TestLocatorCaseInsensitive(t *testing.T) {
	p := []string{"A", "B", "C", "D", "E"}
	tbl := table(p, row("ROCE %", p, "1", "2", "3", "4", "5"))

	got := NewLocator().Lookup(tbl, "roce")
	if got.Raw != "1" {
		t.Errorf("Lookup(roce) = %+v, want 1", got)
	}
}

func TestLocatorUnmatched(t *testing.T) {
	p := []string{"A", "B", "C", "D", "E"}
	tbl := table(p, row("Debtor Days", p, "1", "2", "3", "4", "5"))

	got := NewLocator().Lookup(tbl, "ROCE")
	if got != models.Unavailable {
		t.Errorf("expected Unavailable, got %+v", got)
	}
	if got.String() != models.UnavailableText {
		t.Errorf("String() = %q, want %q", got.String(), models.UnavailableText)
	}
}

func TestLocatorFirstMatchWins(t *testing.T) {
	p := []string{"A", "B", "C", "D", "E", "F"}
	tbl := table(p,
		row("Debtor Days", p, "0", "0", "0", "0", "0", "0"),
		row("ROCE %", p, "10", "11", "12", "13", "14", "15"),
		row("Adjusted ROCE %", p, "90", "91", "92", "93", "94", "95"),
	)

	got := NewLocator().Lookup(tbl, "ROCE")
	if got.Raw != "11" {
		t.Errorf("Lookup = %q, want 11 (first matching row, column B)", got.Raw)
	}
}

func TestLocatorTooFewColumns(t *testing.T) {
	p := []string{"A", "B", "C", "D"}
	tbl := table(p, row("ROCE %", p, "1", "2", "3", "4"))

	if got := NewLocator().Lookup(tbl, "ROCE"); got.Available {
		t.Errorf("expected Unavailable for %d columns, got %+v", len(p), got)
	}
	if got := NewLocator().Lookup(nil, "ROCE"); got.Available {
		t.Errorf("expected Unavailable for nil table, got %+v", got)
	}
}

func TestLocatorCustomOffset(t *testing.T) {
	p := []string{"A", "B", "C"}
	tbl := table(p, row("ROCE %", p, "1", "2", "3"))

	tests := []struct {
		offset int
		want   models.MetricValue
	}{
		{1, models.Available("3")},
		{3, models.Available("1")},
		{4, models.Unavailable},
		{0, models.Unavailable},
	}
	for _, tt := range tests {
		got := Locator{Offset: tt.offset}.Lookup(tbl, "roce")
		if got != tt.want {
			t.Errorf("offset %d: got %+v, want %+v", tt.offset, got, tt.want)
		}
	}
}

func TestLookupPeriodFixtureEPS(t *testing.T) {
	doc := documenttest.MustParse(t)
	pl, err := TableExtractor{Section: document.SectionProfitLoss}.Extract(doc)
	if err != nil {
		t.Fatalf("Extract error: %v", err)
	}

	got := LookupPeriod(pl, "EPS", "Mar 2024")
	if got.Raw != documenttest.EPSLatest {
		t.Errorf("EPS Mar 2024 = %+v, want %s", got, documenttest.EPSLatest)
	}

	if got := LookupPeriod(pl, "EPS", "Mar 2019"); got.Available {
		t.Errorf("expected Unavailable for absent column, got %+v", got)
	}
	if got := LookupPeriod(pl, "Book Value", "Mar 2024"); got.Available {
		t.Errorf("expected Unavailable for absent metric, got %+v", got)
	}
}
