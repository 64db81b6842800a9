package analysis

import (
	"math"

	zs "github.com/nycdata/zipstudy"
)

// DefaultFence is the usual 1.5*IQR outlier rule.
const DefaultFence = 1.5

// Trim is the outlier screen for one pair subset.  Table is the subset plus
// the trimmed income column (NaN where the value fell outside the fences);
// Excluded holds the screened-out rows for inspection.
type Trim struct {
	Table    *zs.Table
	Excluded *zs.Table
	Bounds   zs.Bounds
}

// TrimOutliers screens col with k*IQR fences computed over the subset alone:
// fences are local to each pair, not global across all zones.  The input
// table is not modified.
func TrimOutliers(subset *zs.Table, col string, k float64) (*Trim, error) {
	out := subset.Copy()

	x := mustColumn(out, col).AsFloat()

	var (
		bounds zs.Bounds
		e      error
	)
	if bounds, e = zs.IQRBounds(x, k); e != nil {
		return nil, e
	}

	trimmed := make([]float64, len(x))
	excl := make([]bool, len(x))
	for ind, xx := range x {
		if bounds.Holds(xx) {
			trimmed[ind] = xx
			continue
		}

		trimmed[ind] = math.NaN()
		excl[ind] = true
	}

	var excluded *zs.Table
	if excluded, e = out.Where(excl); e != nil {
		return nil, e
	}

	var trimCol *zs.Col
	if trimCol, e = zs.NewCol(TrimIncCol, trimmed); e != nil {
		return nil, e
	}

	if ex := out.AppendColumn(trimCol); ex != nil {
		return nil, ex
	}

	return &Trim{Table: out, Excluded: excluded, Bounds: bounds}, nil
}
