// Package pipeline runs a valuation end to end over one parsed company
// document: statement extraction, metric lookup, growth pivots and the DCF.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/seenimoa/compounder/internal/analysis/fundamental"
	"github.com/seenimoa/compounder/internal/document"
	"github.com/seenimoa/compounder/internal/financials"
	"github.com/seenimoa/compounder/pkg/models"
	"github.com/seenimoa/compounder/pkg/utils"
)

// LatestPeriod as Params.EPSPeriod picks the most recent dated column.
const LatestPeriod = "latest"

// Summary field labels on the company page.
const (
	FieldStockPE      = "Stock P/E"
	FieldCurrentPrice = "Current Price"
)

// ErrIncompleteData means the document lacked a figure the valuation
// needs (EPS or current price). Extraction results are still reported.
var ErrIncompleteData = errors.New("financial data is incomplete or missing")

// Params are the valuation assumptions of one run. Rates are percentages.
type Params struct {
	CostOfCapital      float64
	ROCE               float64 // informational; not used by the DCF
	GrowthRate         float64
	HighGrowthPeriod   int
	FadePeriod         int
	TerminalGrowthRate float64
	EPSPeriod          string
	TaxRate            float64
	PeriodOffset       int
}

// DefaultParams mirrors the defaults of the interactive tool.
func DefaultParams() Params {
	return Params{
		CostOfCapital:      12,
		ROCE:               50,
		GrowthRate:         12,
		HighGrowthPeriod:   14,
		FadePeriod:         10,
		TerminalGrowthRate: 5,
		EPSPeriod:          LatestPeriod,
		TaxRate:            fundamental.TaxRate,
		PeriodOffset:       financials.DefaultPeriodOffset,
	}
}

// Pipeline values companies under a fixed set of Params. It holds no
// mutable state and may be shared between goroutines.
type Pipeline struct {
	params  Params
	engine  fundamental.Engine
	locator financials.Locator
	logger  zerolog.Logger
}

// New creates a Pipeline.
func New(params Params, logger zerolog.Logger) *Pipeline {
	return &Pipeline{
		params:  params,
		engine:  fundamental.Engine{TaxRate: params.TaxRate},
		locator: financials.Locator{Offset: params.PeriodOffset},
		logger:  logger,
	}
}

// Params returns the pipeline's assumptions.
func (p *Pipeline) Params() Params { return p.params }

// Run extracts every statement table, resolves the summary figures and
// values the company. The returned report is never nil: when the
// valuation cannot run, the error is also recorded in
// Report.ValuationError and the extracted data is kept.
func (p *Pipeline) Run(symbol string, doc document.Document) (*models.Report, error) {
	start := time.Now()
	log := p.logger.With().Str("symbol", symbol).Logger()

	r := &models.Report{
		Symbol:       symbol,
		CompanyName:  field(doc.Title()),
		CurrentPE:    field(doc.Field(FieldStockPE)),
		CurrentPrice: field(doc.Field(FieldCurrentPrice)),
		GeneratedAt:  utils.NowIST(),
	}

	p.extract(r, doc, log)
	p.lookup(r)
	p.pivot(r)

	err := p.value(r)
	if err != nil {
		r.ValuationError = err.Error()
		log.Warn().Err(err).Msg("valuation skipped")
	}

	log.Info().
		Int("tables", len(r.Tables)).
		Int("warnings", len(r.Warnings)).
		Dur("duration", time.Since(start)).
		Msg("pipeline finished")
	return r, err
}

func (p *Pipeline) extract(r *models.Report, doc document.Document, log zerolog.Logger) {
	for _, key := range document.StatementSections() {
		for _, shape := range financials.ShapesOf(key) {
			switch shape {
			case document.ShapeData:
				t, err := financials.TableExtractor{Section: key}.Extract(doc)
				if err != nil {
					r.Warnings = append(r.Warnings, err.Error())
					log.Debug().Err(err).Str("section", string(key)).Msg("table skipped")
					continue
				}
				r.Tables = append(r.Tables, t)
				log.Debug().Str("section", string(key)).Int("rows", len(t.Rows)).Msg("table extracted")

			case document.ShapeRanges:
				ex := financials.GrowthRangeExtractor{
					Section:    key,
					Categories: []string{financials.SalesGrowth, financials.ProfitGrowth},
				}
				records, err := ex.Extract(doc)
				if err != nil {
					r.Warnings = append(r.Warnings, err.Error())
					log.Debug().Err(err).Str("section", string(key)).Msg("growth ranges skipped")
					continue
				}
				if len(records) == 0 {
					r.Warnings = append(r.Warnings, fmt.Sprintf("section %s: no %q or %q growth table",
						key, financials.SalesGrowth, financials.ProfitGrowth))
					log.Debug().Str("section", string(key)).Msg("no matching growth ranges")
					continue
				}
				r.GrowthRecords = records
			}
		}
	}
}

func (p *Pipeline) lookup(r *models.Report) {
	pl := r.Table(string(document.SectionProfitLoss))

	period := p.params.EPSPeriod
	if period == "" || period == LatestPeriod {
		period, _ = utils.LatestPeriod(periodsOf(pl))
	}
	r.EPSPeriod = period
	r.EPS = financials.LookupPeriod(pl, "EPS", period)

	r.MedianROCE = p.locator.Lookup(r.Table(string(document.SectionRatios)), "ROCE %")

	price, perr := r.CurrentPrice.Float()
	eps, eerr := r.EPS.Float()
	if perr == nil && eerr == nil && eps != 0 {
		r.TrailingPE = models.Available(fmt.Sprintf("%.2f", price/eps))
	}
}

func (p *Pipeline) pivot(r *models.Report) {
	if len(r.GrowthRecords) == 0 {
		return
	}
	families := []struct {
		name   string
		matrix **models.GrowthMatrix
		series **models.GrowthSeries
	}{
		{financials.SalesGrowth, &r.SalesGrowth, &r.SalesSeries},
		{financials.ProfitGrowth, &r.ProfitGrowth, &r.ProfitSeries},
	}
	for _, f := range families {
		m, err := financials.BuildGrowthMatrix(r.GrowthRecords, f.name)
		if err != nil {
			r.Warnings = append(r.Warnings, err.Error())
			continue
		}
		*f.matrix = m
		if s, ok := financials.Series(m, f.name); ok {
			*f.series = s
		}
	}
}

func (p *Pipeline) value(r *models.Report) error {
	price, err := r.CurrentPrice.Float()
	if err != nil {
		return fmt.Errorf("%w: current price: %v", ErrIncompleteData, err)
	}
	eps, err := r.EPS.Float()
	if err != nil {
		return fmt.Errorf("%w: EPS (%s): %v", ErrIncompleteData, r.EPSPeriod, err)
	}

	r.Inputs = p.inputs(eps)

	trailing := price / eps
	quoted, err := r.CurrentPE.Float()
	if err != nil {
		r.Warnings = append(r.Warnings, "quoted P/E unavailable, anchoring on recomputed P/E")
		quoted = trailing
	}

	res, err := p.engine.Value(r.Inputs, quoted, trailing)
	if err != nil {
		return err
	}
	r.Valuation = res
	return nil
}

func (p *Pipeline) inputs(eps float64) models.ValuationInputs {
	return models.ValuationInputs{
		EPS:                eps,
		GrowthRate:         p.params.GrowthRate,
		TerminalGrowthRate: p.params.TerminalGrowthRate,
		CostOfCapital:      p.params.CostOfCapital,
		HighGrowthPeriod:   p.params.HighGrowthPeriod,
		FadePeriod:         p.params.FadePeriod,
	}
}

// Sensitivity values the report's company over a growth × cost of capital
// grid, holding the other assumptions fixed.
func (p *Pipeline) Sensitivity(ctx context.Context, r *models.Report, growth, costs []float64) (*models.SensitivityGrid, error) {
	eps, err := r.EPS.Float()
	if err != nil {
		return nil, fmt.Errorf("%w: EPS (%s): %v", ErrIncompleteData, r.EPSPeriod, err)
	}
	return p.engine.Sensitivity(ctx, p.inputs(eps), growth, costs)
}

func field(v string, ok bool) models.MetricValue {
	if !ok {
		return models.Unavailable
	}
	return models.Available(v)
}

func periodsOf(t *models.MetricTable) []string {
	if t == nil {
		return nil
	}
	return t.Periods
}
