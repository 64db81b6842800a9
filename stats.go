package zipstudy

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// minFitRows is the smallest sample a fit will accept: the coefficient
// standard errors need n-2 residual degrees of freedom.
const minFitRows = 3

// DegenerateModelError reports a regression attempted with too few points.
type DegenerateModelError struct {
	Points int
}

func (e *DegenerateModelError) Error() string {
	return fmt.Sprintf("cannot fit a line through %d points", e.Points)
}

// Quantile returns the pth quantile of x using linear interpolation between
// order statistics (the numpy/pandas default).  gonum's stat.Quantile kinds
// interpolate the empirical cdf instead, which places the hinges a half step
// low for small samples.
func Quantile(p float64, x []float64) float64 {
	if len(x) == 0 {
		panic(fmt.Errorf("quantile of empty slice"))
	}

	if p < 0.0 || p > 1.0 {
		panic(fmt.Errorf("quantile p outside [0,1]"))
	}

	vSort := x
	if !sort.Float64sAreSorted(x) {
		vSort = make([]float64, len(x))
		copy(vSort, x)
		sort.Float64s(vSort)
	}

	h := p * float64(len(vSort)-1)
	lo := int(math.Floor(h))
	if lo == len(vSort)-1 {
		return vSort[lo]
	}

	return vSort[lo] + (h-float64(lo))*(vSort[lo+1]-vSort[lo])
}

// Bounds is a closed interval.
type Bounds struct {
	Lower float64
	Upper float64
}

func (b Bounds) Holds(x float64) bool {
	return x >= b.Lower && x <= b.Upper
}

// IQRBounds returns the k*IQR fences of x: [Q1 - k*IQR, Q3 + k*IQR].
func IQRBounds(x []float64, k float64) (Bounds, error) {
	if len(x) == 0 {
		return Bounds{}, fmt.Errorf("no data for IQR bounds")
	}

	if k < 0.0 {
		return Bounds{}, fmt.Errorf("negative fence multiplier %v", k)
	}

	vSort := make([]float64, len(x))
	copy(vSort, x)
	sort.Float64s(vSort)

	q1 := Quantile(0.25, vSort)
	q3 := Quantile(0.75, vSort)
	iqr := q3 - q1

	return Bounds{Lower: q1 - k*iqr, Upper: q3 + k*iqr}, nil
}

// OLS holds a fitted simple linear regression of y on x with the usual
// least-squares summary statistics.
type OLS struct {
	XName string
	YName string
	N     int

	Intercept float64
	Slope     float64

	InterceptSE float64
	SlopeSE     float64
	InterceptT  float64
	SlopeT      float64
	InterceptP  float64
	SlopeP      float64

	RSquared float64
}

// FitOLS fits y = a + b*x by ordinary least squares.  Pairs where either
// value is NaN are excluded from the fit, not treated as zero.  Fewer than
// minFitRows surviving pairs is a *DegenerateModelError.
func FitOLS(xName, yName string, x, y []float64) (*OLS, error) {
	if len(x) != len(y) {
		return nil, fmt.Errorf("x has %d values, y has %d", len(x), len(y))
	}

	var xv, yv []float64
	for ind := 0; ind < len(x); ind++ {
		if math.IsNaN(x[ind]) || math.IsNaN(y[ind]) {
			continue
		}

		xv, yv = append(xv, x[ind]), append(yv, y[ind])
	}

	n := len(xv)
	if n < minFitRows {
		return nil, &DegenerateModelError{Points: n}
	}

	xbar := stat.Mean(xv, nil)
	sxx := 0.0
	for _, xx := range xv {
		sxx += (xx - xbar) * (xx - xbar)
	}

	if sxx == 0.0 {
		return nil, fmt.Errorf("predictor %s has no variation", xName)
	}

	alpha, beta := stat.LinearRegression(xv, yv, nil, false)

	rss := 0.0
	for ind := 0; ind < n; ind++ {
		res := yv[ind] - (alpha + beta*xv[ind])
		rss += res * res
	}

	s2 := rss / float64(n-2)
	seB := math.Sqrt(s2 / sxx)
	seA := math.Sqrt(s2 * (1.0/float64(n) + xbar*xbar/sxx))

	tA, tB := alpha/seA, beta/seB
	tDist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: float64(n - 2)}

	m := &OLS{
		XName:       xName,
		YName:       yName,
		N:           n,
		Intercept:   alpha,
		Slope:       beta,
		InterceptSE: seA,
		SlopeSE:     seB,
		InterceptT:  tA,
		SlopeT:      tB,
		InterceptP:  2.0 * tDist.Survival(math.Abs(tA)),
		SlopeP:      2.0 * tDist.Survival(math.Abs(tB)),
		RSquared:    stat.RSquared(xv, yv, nil, alpha, beta),
	}

	return m, nil
}

func (m *OLS) Predict(x float64) float64 {
	return m.Intercept + m.Slope*x
}

func (m *OLS) String() string {
	var b strings.Builder

	fmt.Fprintf(&b, "OLS: %s ~ %s  (n = %d, R2 = %0.3f)\n", m.YName, m.XName, m.N, m.RSquared)
	fmt.Fprintf(&b, "%-14s %14s %12s %10s %10s\n", "", "coef", "std err", "t", "P>|t|")
	fmt.Fprintf(&b, "%-14s %14.3f %12.3f %10.2f %10s\n",
		"(Intercept)", m.Intercept, m.InterceptSE, m.InterceptT, FormatPValue(m.InterceptP))
	fmt.Fprintf(&b, "%-14s %14.3f %12.3f %10.2f %10s\n",
		m.XName, m.Slope, m.SlopeSE, m.SlopeT, FormatPValue(m.SlopeP))

	return b.String()
}

// FormatPValue prints a p-value the way regression summaries do, flooring
// tiny values at <2e-16.
func FormatPValue(p float64) string {
	if p < 2e-16 {
		return "<2e-16"
	}

	return fmt.Sprintf("%0.3g", p)
}
