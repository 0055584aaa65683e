// Configuration endpoints.
package api

import (
	"net/http"

	"github.com/seenimoa/compounder/internal/config"
)

// ConfigResponse is the JSON envelope returned by GET /api/v1/config.
type ConfigResponse struct {
	Valuation config.ValuationConfig `json:"valuation"`
	Screener  config.ScreenerConfig  `json:"screener"`
	Ranges    ParameterRanges        `json:"ranges"`
}

// ParameterRanges describes the accepted values of the discrete
// valuation assumptions, for clients building input forms.
type ParameterRanges struct {
	FadePeriods         []int     `json:"fade_periods"`
	TerminalGrowthRates []float64 `json:"terminal_growth_rates"`
}

// handleGetConfig returns the running valuation and fetcher settings.
// The Screener session cookie is excluded via its json:"-" tag.
func (s *Server) handleGetConfig(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, APIResponse{
		Success: true,
		Data: ConfigResponse{
			Valuation: s.cfg.Valuation,
			Screener:  s.cfg.Screener,
			Ranges: ParameterRanges{
				FadePeriods:         config.FadePeriods,
				TerminalGrowthRates: config.TerminalGrowthRates,
			},
		},
	})
}

// handleGetCredentials returns the status of optional credentials.
func (s *Server) handleGetCredentials(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, APIResponse{
		Success: true,
		Data:    config.CheckCredentials(s.cfg),
	})
}
