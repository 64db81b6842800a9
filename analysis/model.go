package analysis

import (
	"fmt"

	zs "github.com/nycdata/zipstudy"
)

// PairFit holds the two regressions for one pair: income on the predictor
// percentage over all zones, and over the zones surviving the outlier screen.
type PairFit struct {
	Pair Pair
	Trim *Trim

	Full    *zs.OLS
	Trimmed *zs.OLS
}

// FitPair regresses average income on the pair's predictor percentage, once
// with every zone and once with income outliers removed.  The trimmed income
// column carries NaN for screened rows; the fitter drops those rows from the
// fit rather than treating them as zero.
func FitPair(p Pair, tr *Trim) (*PairFit, error) {
	xName := p.Predictor().PercentColumn()

	x := mustColumn(tr.Table, xName).AsFloat()
	yFull := mustColumn(tr.Table, AvgIncCol).AsFloat()
	yTrim := mustColumn(tr.Table, TrimIncCol).AsFloat()

	var (
		full, trimmed *zs.OLS
		e             error
	)
	if full, e = zs.FitOLS(xName, AvgIncCol, x, yFull); e != nil {
		return nil, fmt.Errorf("pair %s: %w", p.Name(), e)
	}

	if trimmed, e = zs.FitOLS(xName, TrimIncCol, x, yTrim); e != nil {
		return nil, fmt.Errorf("pair %s: %w", p.Name(), e)
	}

	return &PairFit{Pair: p, Trim: tr, Full: full, Trimmed: trimmed}, nil
}
