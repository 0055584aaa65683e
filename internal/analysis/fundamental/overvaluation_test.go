package fundamental

import (
	"errors"
	"math"
	"testing"

	"github.com/seenimoa/compounder/pkg/models"
)

func TestOvervaluationAtIntrinsic(t *testing.T) {
	pct, anchor, err := Overvaluation(pinnedIntrinsicPE, 40, pinnedIntrinsicPE)
	if err != nil {
		t.Fatalf("Overvaluation error: %v", err)
	}
	if pct != 0 {
		t.Errorf("pct = %v, want exactly 0", pct)
	}
	if anchor != pinnedIntrinsicPE {
		t.Errorf("anchor = %v, want %v", anchor, pinnedIntrinsicPE)
	}
}

func TestOvervaluationUsesLowerPE(t *testing.T) {
	tests := []struct {
		name              string
		quoted, trailing  float64
		intrinsic         float64
		wantPct, wantAnch float64
	}{
		{"quoted lower", 30, 45, 20, 50, 30},
		{"trailing lower", 45, 30, 20, 50, 30},
		{"undervalued", 15, 18, 20, -25, 15},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pct, anchor, err := Overvaluation(tt.quoted, tt.trailing, tt.intrinsic)
			if err != nil {
				t.Fatalf("Overvaluation error: %v", err)
			}
			if math.Abs(pct-tt.wantPct) > 1e-9 || anchor != tt.wantAnch {
				t.Errorf("got (%v, %v), want (%v, %v)", pct, anchor, tt.wantPct, tt.wantAnch)
			}
		})
	}
}

func TestOvervaluationInvalidIntrinsic(t *testing.T) {
	for _, pe := range []float64{0, -3, math.NaN(), math.Inf(1)} {
		if _, _, err := Overvaluation(20, 20, pe); !errors.Is(err, ErrInvalidParameters) {
			t.Errorf("intrinsic %v: expected ErrInvalidParameters, got %v", pe, err)
		}
	}
}

func TestVerdictFor(t *testing.T) {
	tests := []struct {
		pct  float64
		want models.Verdict
	}{
		{-40, models.VerdictUndervalued},
		{-10, models.VerdictUndervalued},
		{-9.99, models.VerdictFairlyValued},
		{0, models.VerdictFairlyValued},
		{9.99, models.VerdictFairlyValued},
		{10, models.VerdictOvervalued},
		{258.8, models.VerdictOvervalued},
	}
	for _, tt := range tests {
		if got := VerdictFor(tt.pct); got != tt.want {
			t.Errorf("VerdictFor(%v) = %s, want %s", tt.pct, got, tt.want)
		}
	}
}
