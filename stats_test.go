package zipstudy

import (
	"errors"
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestQuantile(t *testing.T) {
	x := []float64{10, 12, 14, 16, 18, 1000}

	assert.Equal(t, 12.5, Quantile(0.25, x))
	assert.Equal(t, 17.5, Quantile(0.75, x))
	assert.Equal(t, 10.0, Quantile(0.0, x))
	assert.Equal(t, 1000.0, Quantile(1.0, x))

	// unsorted input is not modified
	y := []float64{3, 1, 2}
	assert.Equal(t, 2.0, Quantile(0.5, y))
	assert.Equal(t, []float64{3, 1, 2}, y)

	assert.Equal(t, 5.0, Quantile(0.4, []float64{5}))
}

func TestIQRBounds(t *testing.T) {
	x := []float64{10, 12, 14, 16, 18, 1000}

	bounds, e := IQRBounds(x, 1.5)
	assert.Nil(t, e)
	assert.Equal(t, Bounds{Lower: 5.0, Upper: 25.0}, bounds)

	// the extreme value falls outside, the rest inside
	assert.False(t, bounds.Holds(1000))
	for _, v := range x[:5] {
		assert.True(t, bounds.Holds(v))
	}

	// fences are closed: a point exactly on one stays
	assert.True(t, bounds.Holds(25.0))

	_, e = IQRBounds(nil, 1.5)
	assert.NotNil(t, e)

	_, e = IQRBounds(x, -1.0)
	assert.NotNil(t, e)
}

func TestFitOLS(t *testing.T) {
	x := []float64{1, 2, 3, 4}
	y := []float64{2, 4, 5, 7}

	m, e := FitOLS("x", "y", x, y)
	assert.Nil(t, e)

	assert.Equal(t, 4, m.N)
	assert.InEpsilon(t, 1.6, m.Slope, 1e-10)
	assert.InEpsilon(t, 0.5, m.Intercept, 1e-10)
	assert.InEpsilon(t, math.Sqrt(0.02), m.SlopeSE, 1e-10)
	assert.InEpsilon(t, math.Sqrt(0.15), m.InterceptSE, 1e-10)
	assert.InEpsilon(t, 1.6/math.Sqrt(0.02), m.SlopeT, 1e-10)
	assert.InEpsilon(t, 1.0-0.2/13.0, m.RSquared, 1e-10)
	assert.True(t, m.SlopeP > 0.0 && m.SlopeP < 0.05)

	assert.InEpsilon(t, 0.5+1.6*10.0, m.Predict(10.0), 1e-10)
}

func TestFitOLSNaN(t *testing.T) {
	x := []float64{1, 2, 100, 3, 4}
	y := []float64{2, 4, math.NaN(), 5, 7}

	// NaN pairs drop out of the fit entirely
	m, e := FitOLS("x", "y", x, y)
	assert.Nil(t, e)
	assert.Equal(t, 4, m.N)
	assert.InEpsilon(t, 1.6, m.Slope, 1e-10)
}

func TestFitOLSDegenerate(t *testing.T) {
	_, e := FitOLS("x", "y", []float64{1, 2}, []float64{1, 2})

	var dme *DegenerateModelError
	assert.True(t, errors.As(e, &dme))
	assert.Equal(t, 2, dme.Points)

	// NaNs can empty a sample that looked big enough
	nan := math.NaN()
	_, e = FitOLS("x", "y", []float64{1, 2, 3, 4}, []float64{1, nan, nan, nan})
	assert.True(t, errors.As(e, &dme))
	assert.Equal(t, 1, dme.Points)

	// no variation in x is an error but not a degenerate model
	_, e = FitOLS("x", "y", []float64{2, 2, 2}, []float64{1, 2, 3})
	assert.NotNil(t, e)
	assert.False(t, errors.As(e, &dme))
}

func TestFormatPValue(t *testing.T) {
	assert.Equal(t, "<2e-16", FormatPValue(0.0))
	assert.Equal(t, "<2e-16", FormatPValue(1e-20))
	assert.Equal(t, "0.05", FormatPValue(0.05))
	assert.Equal(t, "1", FormatPValue(1.0))
}

func ExampleQuantile() {
	x := []float64{10, 12, 14, 16, 18, 1000}

	fmt.Println(Quantile(0.25, x))
	fmt.Println(Quantile(0.5, x))
	fmt.Println(Quantile(0.75, x))
	// Output:
	// 12.5
	// 15
	// 17.5
}

func ExampleFitOLS() {
	x := []float64{1, 2, 3, 4}
	y := []float64{2, 4, 5, 7}

	m, e := FitOLS("x", "y", x, y)
	if e != nil {
		panic(e)
	}

	fmt.Printf("y = %0.2f + %0.2f*x\n", m.Intercept, m.Slope)
	fmt.Printf("R2 = %0.3f\n", m.RSquared)
	// Output:
	// y = 0.50 + 1.60*x
	// R2 = 0.985
}
