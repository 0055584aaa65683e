package pipeline

import (
	"context"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/seenimoa/compounder/internal/analysis/fundamental"
	"github.com/seenimoa/compounder/internal/config"
	"github.com/seenimoa/compounder/internal/document"
	"github.com/seenimoa/compounder/internal/document/documenttest"
	"github.com/seenimoa/compounder/pkg/models"
)

func newTestPipeline(p Params) *Pipeline {
	return New(p, zerolog.Nop())
}

func TestRunFixture(t *testing.T) {
	r, err := newTestPipeline(DefaultParams()).Run("NESTLEIND", documenttest.MustParse(t))
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if got := r.CompanyName.String(); got != documenttest.CompanyName {
		t.Errorf("CompanyName = %q, want %q", got, documenttest.CompanyName)
	}
	if got := r.CurrentPrice.String(); got != documenttest.CurrentPrice {
		t.Errorf("CurrentPrice = %q", got)
	}
	if got := r.CurrentPE.String(); got != documenttest.StockPE {
		t.Errorf("CurrentPE = %q", got)
	}
	if r.EPSPeriod != "Mar 2024" {
		t.Errorf("EPSPeriod = %q, want Mar 2024", r.EPSPeriod)
	}
	if got := r.EPS.String(); got != documenttest.EPSLatest {
		t.Errorf("EPS = %q, want %q", got, documenttest.EPSLatest)
	}
	if got := r.TrailingPE.String(); got != "60.49" {
		t.Errorf("TrailingPE = %q, want 60.49", got)
	}
	if got := r.MedianROCE.String(); got != documenttest.ROCEOffset5 {
		t.Errorf("MedianROCE = %q, want %q", got, documenttest.ROCEOffset5)
	}

	if len(r.Tables) != len(document.StatementSections()) {
		t.Errorf("got %d tables, want %d", len(r.Tables), len(document.StatementSections()))
	}
	if len(r.GrowthRecords) != 8 {
		t.Errorf("got %d growth records, want 8", len(r.GrowthRecords))
	}
	if len(r.Warnings) != 0 {
		t.Errorf("unexpected warnings: %v", r.Warnings)
	}

	if r.SalesGrowth == nil || r.ProfitGrowth == nil {
		t.Fatal("growth matrices missing")
	}
	row, ok := r.SalesGrowth.Row("Compounded Sales Growth")
	if !ok || row.Values[models.Bucket5Y] != 11 {
		t.Errorf("sales 5Y = %v (found %v), want 11", row.Values[models.Bucket5Y], ok)
	}
	if r.ProfitSeries == nil || len(r.ProfitSeries.Points) != 4 {
		t.Fatalf("profit series = %+v", r.ProfitSeries)
	}
	if r.ProfitSeries.Points[0].Label != string(models.BucketTTM) || r.ProfitSeries.Points[0].Value != -2 {
		t.Errorf("first profit point = %+v", r.ProfitSeries.Points[0])
	}

	if r.Valuation == nil {
		t.Fatalf("valuation missing: %s", r.ValuationError)
	}
	if r.Inputs.EPS != 41 {
		t.Errorf("Inputs.EPS = %v", r.Inputs.EPS)
	}
	if math.Abs(r.Valuation.OvervaluationPct-258.805040884951) > 1e-6 {
		t.Errorf("OvervaluationPct = %v", r.Valuation.OvervaluationPct)
	}
	if math.Abs(r.Valuation.AnchorPE-2480.0/41) > 1e-9 {
		t.Errorf("AnchorPE = %v, want recomputed P/E", r.Valuation.AnchorPE)
	}
	if r.Valuation.Verdict != models.VerdictOvervalued {
		t.Errorf("Verdict = %q", r.Valuation.Verdict)
	}
}

func TestRunExplicitEPSPeriod(t *testing.T) {
	p := DefaultParams()
	p.EPSPeriod = "Mar 2023"
	r, err := newTestPipeline(p).Run("NESTLEIND", documenttest.MustParse(t))
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if got := r.EPS.String(); got != "31.10" {
		t.Errorf("EPS = %q, want 31.10", got)
	}
}

func TestRunMissingEPS(t *testing.T) {
	tests := []struct {
		name   string
		html   string
		params func(*Params)
	}{
		{
			name: "no EPS row",
			html: strings.Replace(documenttest.Page,
				"<tr><td>EPS in Rs</td><td>21.59</td>", "<tr><td>Earnings</td><td>21.59</td>", 1),
		},
		{
			name:   "period not in table",
			html:   documenttest.Page,
			params: func(p *Params) { p.EPSPeriod = "Mar 2019" },
		},
		{
			name: "no price",
			html: strings.Replace(documenttest.Page, "Current Price", "Book Value", 1),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := DefaultParams()
			if tt.params != nil {
				tt.params(&p)
			}
			r, err := newTestPipeline(p).Run("NESTLEIND", documenttest.MustParseHTML(t, tt.html))
			if !errors.Is(err, ErrIncompleteData) {
				t.Fatalf("err = %v, want ErrIncompleteData", err)
			}
			if r == nil {
				t.Fatal("report is nil")
			}
			if r.Valuation != nil {
				t.Error("valuation should be absent")
			}
			if r.ValuationError == "" {
				t.Error("ValuationError not set")
			}
			if len(r.Tables) != len(document.StatementSections()) {
				t.Errorf("extraction halted: %d tables", len(r.Tables))
			}
		})
	}
}

func TestRunInvalidParameters(t *testing.T) {
	p := DefaultParams()
	p.CostOfCapital = 5
	p.TerminalGrowthRate = 5
	r, err := newTestPipeline(p).Run("NESTLEIND", documenttest.MustParse(t))
	if !errors.Is(err, fundamental.ErrInvalidParameters) {
		t.Fatalf("err = %v, want ErrInvalidParameters", err)
	}
	if r.Valuation != nil || r.ValuationError == "" {
		t.Errorf("valuation = %+v, error = %q", r.Valuation, r.ValuationError)
	}
}

func TestRunMissingSection(t *testing.T) {
	start := strings.Index(documenttest.Page, `<section id="cash-flow">`)
	end := strings.Index(documenttest.Page[start:], "</section>") + start + len("</section>")
	html := documenttest.Page[:start] + documenttest.Page[end:]

	r, err := newTestPipeline(DefaultParams()).Run("NESTLEIND", documenttest.MustParseHTML(t, html))
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if r.Table(string(document.SectionCashFlow)) != nil {
		t.Error("cash-flow table should be absent")
	}
	if len(r.Tables) != len(document.StatementSections())-1 {
		t.Errorf("got %d tables", len(r.Tables))
	}
	if len(r.Warnings) != 1 || !strings.Contains(r.Warnings[0], "cash-flow") {
		t.Errorf("warnings = %v", r.Warnings)
	}
}

func TestRunNoMatchingGrowthTables(t *testing.T) {
	html := strings.NewReplacer(
		">Compounded Sales Growth<", ">Compounded Revenue Growth<",
		">Compounded Profit Growth<", ">Return on Equity<",
	).Replace(documenttest.Page)

	r, err := newTestPipeline(DefaultParams()).Run("NESTLEIND", documenttest.MustParseHTML(t, html))
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(r.GrowthRecords) != 0 || r.SalesGrowth != nil || r.ProfitGrowth != nil {
		t.Errorf("growth = %d records, sales %v, profit %v", len(r.GrowthRecords), r.SalesGrowth, r.ProfitGrowth)
	}
	if len(r.Warnings) != 1 || !strings.Contains(r.Warnings[0], "profit-loss") ||
		!strings.Contains(r.Warnings[0], "Compounded Sales Growth") {
		t.Errorf("warnings = %v", r.Warnings)
	}
	if r.Valuation == nil {
		t.Error("valuation should not depend on growth tables")
	}
}

func TestRunQuotedPEUnavailable(t *testing.T) {
	html := strings.Replace(documenttest.Page, "Stock P/E", "Dividend Yield", 1)
	r, err := newTestPipeline(DefaultParams()).Run("NESTLEIND", documenttest.MustParseHTML(t, html))
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if r.CurrentPE.Available {
		t.Error("CurrentPE should be unavailable")
	}
	if math.Abs(r.Valuation.AnchorPE-2480.0/41) > 1e-9 {
		t.Errorf("AnchorPE = %v", r.Valuation.AnchorPE)
	}
	if len(r.Warnings) != 1 {
		t.Errorf("warnings = %v", r.Warnings)
	}
}

func TestSensitivity(t *testing.T) {
	pl := newTestPipeline(DefaultParams())
	r, err := pl.Run("NESTLEIND", documenttest.MustParse(t))
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	grid, err := pl.Sensitivity(context.Background(), r, []float64{10, 12, 14}, []float64{11, 12})
	if err != nil {
		t.Fatalf("Sensitivity: %v", err)
	}
	if len(grid.Cells) != 3 || len(grid.Cells[0]) != 2 {
		t.Fatalf("grid shape = %dx%d", len(grid.Cells), len(grid.Cells[0]))
	}
	if c := grid.Cells[1][1]; !c.Valid || math.Abs(c.IntrinsicPE-r.Valuation.IntrinsicPE) > 1e-9 {
		t.Errorf("center cell = %+v, want %v", c, r.Valuation.IntrinsicPE)
	}

	if _, err := pl.Sensitivity(context.Background(), &models.Report{}, []float64{12}, []float64{12}); !errors.Is(err, ErrIncompleteData) {
		t.Errorf("err = %v, want ErrIncompleteData", err)
	}
}

func TestParamsFromConfigMatchesDefaults(t *testing.T) {
	if got := ParamsFromConfig(config.Default().Valuation); got != DefaultParams() {
		t.Errorf("ParamsFromConfig(defaults) = %+v, want %+v", got, DefaultParams())
	}
}
