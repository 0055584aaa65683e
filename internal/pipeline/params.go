package pipeline

import "github.com/seenimoa/compounder/internal/config"

// ParamsFromConfig converts the valuation section of the configuration.
func ParamsFromConfig(v config.ValuationConfig) Params {
	return Params{
		CostOfCapital:      v.CostOfCapital,
		ROCE:               v.ROCE,
		GrowthRate:         v.GrowthRate,
		HighGrowthPeriod:   v.HighGrowthPeriod,
		FadePeriod:         v.FadePeriod,
		TerminalGrowthRate: v.TerminalGrowthRate,
		EPSPeriod:          v.EPSPeriod,
		TaxRate:            v.TaxRate,
		PeriodOffset:       v.LocatorOffset,
	}
}
