package fundamental

import (
	"context"
	"errors"
	"math"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/seenimoa/compounder/pkg/models"
)

// Sensitivity values base over every growth rate × cost of capital
// combination. Cells are independent and computed concurrently; a
// combination the model rejects is marked invalid rather than failing the
// grid.
func (e Engine) Sensitivity(ctx context.Context, base models.ValuationInputs, growthRates, costs []float64) (*models.SensitivityGrid, error) {
	grid := &models.SensitivityGrid{
		GrowthRates:    growthRates,
		CostsOfCapital: costs,
		Cells:          make([][]models.SensitivityCell, len(growthRates)),
	}
	for i := range grid.Cells {
		grid.Cells[i] = make([]models.SensitivityCell, len(costs))
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))

	for i, gr := range growthRates {
		for j, coc := range costs {
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}

				in := base
				in.GrowthRate = gr
				in.CostOfCapital = coc

				cell := models.SensitivityCell{GrowthRate: gr, CostOfCapital: coc}
				b, err := e.DCF(in)
				switch {
				case err == nil:
					cell.IntrinsicPE, cell.Valid = b.IntrinsicPE, true
				case !errors.Is(err, ErrInvalidParameters):
					return err
				}
				// Each goroutine owns exactly one cell.
				grid.Cells[i][j] = cell
				return nil
			})
		}
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return grid, nil
}

// MaxRangeLen bounds the number of values Range will produce.
const MaxRangeLen = 1000

// Range returns from, from+step, ... up to and including to. It returns
// nil for an empty range, a non-finite bound or step, or a range longer
// than MaxRangeLen.
func Range(from, to, step float64) []float64 {
	for _, v := range []float64{from, to, step} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil
		}
	}
	if step <= 0 || to < from || (to-from)/step >= MaxRangeLen {
		return nil
	}
	var out []float64
	for i := 0; i <= MaxRangeLen; i++ {
		v := from + float64(i)*step
		if v > to+step/1e6 {
			break
		}
		out = append(out, v)
	}
	return out
}
