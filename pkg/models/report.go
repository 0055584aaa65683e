package models

import "time"

// Report is the full output of one valuation run: normalized statement
// tables, growth matrices with chart series, and the DCF verdict.
//
// Valuation is nil when the inputs needed for it were missing or invalid;
// ValuationError then says why. Extracted tables are kept either way.
type Report struct {
	Symbol       string      `json:"symbol"`
	CompanyName  MetricValue `json:"company_name"`
	CurrentPE    MetricValue `json:"current_pe"`
	CurrentPrice MetricValue `json:"current_price"`
	EPSPeriod    string      `json:"eps_period"`
	EPS          MetricValue `json:"eps"`
	TrailingPE   MetricValue `json:"trailing_pe"` // current price / EPS, 2 decimals
	MedianROCE   MetricValue `json:"median_roce"`

	Tables        []*MetricTable `json:"tables"`
	GrowthRecords []GrowthRecord `json:"growth_records"`
	SalesGrowth   *GrowthMatrix  `json:"sales_growth,omitempty"`
	ProfitGrowth  *GrowthMatrix  `json:"profit_growth,omitempty"`
	SalesSeries   *GrowthSeries  `json:"sales_series,omitempty"`
	ProfitSeries  *GrowthSeries  `json:"profit_series,omitempty"`

	Inputs         ValuationInputs  `json:"inputs"`
	Valuation      *ValuationResult `json:"valuation,omitempty"`
	ValuationError string           `json:"valuation_error,omitempty"`

	Warnings    []string  `json:"warnings,omitempty"`
	GeneratedAt time.Time `json:"generated_at"`
}

// Table returns the extracted table for a section key, or nil.
func (r *Report) Table(section string) *MetricTable {
	for _, t := range r.Tables {
		if t.Section == section {
			return t
		}
	}
	return nil
}
