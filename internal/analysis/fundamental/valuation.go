// Package fundamental values a company from its earnings: a three-phase
// discounted cash flow yielding an intrinsic P/E, and the degree to which
// the market P/E exceeds it.
package fundamental

import (
	"errors"
	"fmt"
	"math"

	"github.com/seenimoa/compounder/pkg/models"
)

// TaxRate is the flat haircut applied once to the summed value of all
// three phases. It is a modelling policy, not a derived figure.
const TaxRate = 0.25

// ErrInvalidParameters is wrapped by every precondition failure of the
// valuation engine.
var ErrInvalidParameters = errors.New("invalid valuation parameters")

// Engine runs the DCF model.
type Engine struct {
	TaxRate float64
}

// NewEngine returns an Engine using TaxRate.
func NewEngine() Engine {
	return Engine{TaxRate: TaxRate}
}

func invalidf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidParameters, fmt.Sprintf(format, args...))
}

// validate checks the model's numeric preconditions.
func (e Engine) validate(in models.ValuationInputs) error {
	for name, v := range map[string]float64{
		"eps":                  in.EPS,
		"growth rate":          in.GrowthRate,
		"terminal growth rate": in.TerminalGrowthRate,
		"cost of capital":      in.CostOfCapital,
	} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return invalidf("%s is not a finite number", name)
		}
	}

	switch {
	case in.EPS <= 0:
		return invalidf("EPS must be positive, got %g", in.EPS)
	case in.CostOfCapital <= in.TerminalGrowthRate:
		return invalidf("cost of capital (%g%%) must exceed terminal growth rate (%g%%)",
			in.CostOfCapital, in.TerminalGrowthRate)
	case in.CostOfCapital <= -100:
		return invalidf("cost of capital must be above -100%%, got %g%%", in.CostOfCapital)
	case in.HighGrowthPeriod < 0:
		return invalidf("high growth period must not be negative, got %d", in.HighGrowthPeriod)
	case in.FadePeriod < 0:
		return invalidf("fade period must not be negative, got %d", in.FadePeriod)
	case e.TaxRate < 0 || e.TaxRate >= 1:
		return invalidf("tax rate must be in [0, 1), got %g", e.TaxRate)
	}
	return nil
}

// DCF values earnings in three phases:
//
//  1. High growth, years 1..H: EPS grows at the growth rate g.
//  2. Fade, years H+1..H+F: in fade year f the rate is g − (f/F)(g − tg),
//     compounded over the whole H+f years.
//  3. Terminal: Gordon growth at tg, valued one year past H+F and
//     discounted back H+F years.
//
// The phase sum is cut by the tax rate and divided by EPS to give the
// intrinsic P/E. A zero-length phase contributes nothing.
func (e Engine) DCF(in models.ValuationInputs) (models.DCFBreakdown, error) {
	if err := e.validate(in); err != nil {
		return models.DCFBreakdown{}, err
	}

	g := in.GrowthRate / 100
	tg := in.TerminalGrowthRate / 100
	coc := in.CostOfCapital / 100
	h, f := in.HighGrowthPeriod, in.FadePeriod

	var b models.DCFBreakdown

	for t := 1; t <= h; t++ {
		b.HighGrowthValue += in.EPS * math.Pow(1+g, float64(t)) / math.Pow(1+coc, float64(t))
	}

	for y := 1; y <= f; y++ {
		rate := g - (float64(y)/float64(f))*(g-tg)
		year := float64(h + y)
		b.FadeValue += in.EPS * math.Pow(1+rate, year) / math.Pow(1+coc, year)
	}

	n := float64(h + f)
	terminal := in.EPS * math.Pow(1+tg, n+1) / (coc - tg)
	b.TerminalValue = terminal / math.Pow(1+coc, n)

	b.IntrinsicValue = (b.HighGrowthValue + b.FadeValue + b.TerminalValue) * (1 - e.TaxRate)
	b.IntrinsicPE = b.IntrinsicValue / in.EPS
	return b, nil
}

// IntrinsicPE runs the default engine and returns only the intrinsic P/E.
func IntrinsicPE(in models.ValuationInputs) (float64, error) {
	b, err := NewEngine().DCF(in)
	if err != nil {
		return 0, err
	}
	return b.IntrinsicPE, nil
}

// Value runs the DCF and compares the result against the two trailing
// P/E estimates.
func (e Engine) Value(in models.ValuationInputs, quotedPE, trailingPE float64) (*models.ValuationResult, error) {
	b, err := e.DCF(in)
	if err != nil {
		return nil, err
	}

	pct, anchor, err := Overvaluation(quotedPE, trailingPE, b.IntrinsicPE)
	if err != nil {
		return nil, err
	}

	return &models.ValuationResult{
		IntrinsicPE:      b.IntrinsicPE,
		AnchorPE:         anchor,
		OvervaluationPct: pct,
		Verdict:          VerdictFor(pct),
		Breakdown:        b,
	}, nil
}
