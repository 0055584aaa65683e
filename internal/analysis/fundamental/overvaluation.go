package fundamental

import (
	"math"

	"github.com/seenimoa/compounder/pkg/models"
)

// FairValueBand is the overvaluation percentage, either side of zero,
// within which a stock is considered fairly valued.
const FairValueBand = 10.0

// Overvaluation compares the lower of two trailing P/E estimates (one
// quoted, one recomputed as price / EPS) with the intrinsic P/E and
// returns (lower/intrinsic − 1) × 100 along with the lower P/E.
// Negative means undervalued.
func Overvaluation(quotedPE, trailingPE, intrinsicPE float64) (pct, anchor float64, err error) {
	if math.IsNaN(intrinsicPE) || math.IsInf(intrinsicPE, 0) || intrinsicPE <= 0 {
		return 0, 0, invalidf("intrinsic P/E must be positive, got %g", intrinsicPE)
	}
	if math.IsNaN(quotedPE) || math.IsNaN(trailingPE) {
		return 0, 0, invalidf("trailing P/E is not a number")
	}

	anchor = math.Min(quotedPE, trailingPE)
	return (anchor/intrinsicPE - 1) * 100, anchor, nil
}

// VerdictFor classifies an overvaluation percentage.
func VerdictFor(pct float64) models.Verdict {
	switch {
	case pct <= -FairValueBand:
		return models.VerdictUndervalued
	case pct >= FairValueBand:
		return models.VerdictOvervalued
	default:
		return models.VerdictFairlyValued
	}
}
