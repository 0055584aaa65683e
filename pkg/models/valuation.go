package models

// ValuationInputs are the scalar inputs of the three-phase DCF.
// Rates are percentages (12 means 12%).
type ValuationInputs struct {
	EPS                float64 `json:"eps"`
	GrowthRate         float64 `json:"growth_rate"`
	TerminalGrowthRate float64 `json:"terminal_growth_rate"`
	CostOfCapital      float64 `json:"cost_of_capital"`
	HighGrowthPeriod   int     `json:"high_growth_period"`
	FadePeriod         int     `json:"fade_period"`
}

// DCFBreakdown carries the present value of each phase.
type DCFBreakdown struct {
	HighGrowthValue float64 `json:"high_growth_value"`
	FadeValue       float64 `json:"fade_value"`
	TerminalValue   float64 `json:"terminal_value"` // discounted to present
	IntrinsicValue  float64 `json:"intrinsic_value"`
	IntrinsicPE     float64 `json:"intrinsic_pe"`
}

// Verdict classifies the degree of over/under-valuation.
type Verdict string

const (
	VerdictUndervalued  Verdict = "Undervalued"
	VerdictFairlyValued Verdict = "Fairly Valued"
	VerdictOvervalued   Verdict = "Overvalued"
)

// ValuationResult is the outcome of valuing one company.
type ValuationResult struct {
	IntrinsicPE      float64      `json:"intrinsic_pe"`
	AnchorPE         float64      `json:"anchor_pe"`         // lower of the two trailing P/Es
	OvervaluationPct float64      `json:"overvaluation_pct"` // negative = undervalued
	Verdict          Verdict      `json:"verdict"`
	Breakdown        DCFBreakdown `json:"breakdown"`
}

// SensitivityCell is one (growth, cost of capital) point of a sensitivity
// grid. Valid is false when the combination violates the model's
// preconditions (e.g. cost of capital not above terminal growth).
type SensitivityCell struct {
	GrowthRate    float64 `json:"growth_rate"`
	CostOfCapital float64 `json:"cost_of_capital"`
	IntrinsicPE   float64 `json:"intrinsic_pe"`
	Valid         bool    `json:"valid"`
}

// SensitivityGrid holds intrinsic P/E over growth × cost of capital.
// Cells[i][j] corresponds to GrowthRates[i] and CostsOfCapital[j].
type SensitivityGrid struct {
	GrowthRates    []float64           `json:"growth_rates"`
	CostsOfCapital []float64           `json:"costs_of_capital"`
	Cells          [][]SensitivityCell `json:"cells"`
}
