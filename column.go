package zipstudy

import (
	"fmt"
	"math"
)

// DataTypes are the types of data that the package supports
type DataTypes uint8

const (
	DTunknown DataTypes = iota
	DTfloat
	DTint
	DTstring
)

func (dt DataTypes) String() string {
	switch dt {
	case DTfloat:
		return "DTfloat"
	case DTint:
		return "DTint"
	case DTstring:
		return "DTstring"
	default:
		return "DTunknown"
	}
}

// Col is a named column over a []float64, []int or []string payload.
type Col struct {
	name string
	dt   DataTypes
	data any
}

func NewCol(name string, data any) (*Col, error) {
	var dt DataTypes
	if dt = WhatAmI(data); dt == DTunknown {
		return nil, fmt.Errorf("unsupported data type for column %s", name)
	}

	c := &Col{
		name: name,
		dt:   dt,
		data: data,
	}

	return c, nil
}

// Name returns the column name. A non-empty renameTo renames the column first.
func (c *Col) Name(renameTo string) string {
	if renameTo != "" {
		c.name = renameTo
	}

	return c.name
}

func (c *Col) DataType() DataTypes {
	return c.dt
}

func (c *Col) Len() int {
	switch c.dt {
	case DTfloat:
		return len(c.data.([]float64))
	case DTint:
		return len(c.data.([]int))
	case DTstring:
		return len(c.data.([]string))
	default:
		return -1
	}
}

func (c *Col) Data() any {
	return c.data
}

// AsFloat returns the data as []float64, converting ints.  The slice is shared
// with the column when no conversion is needed.
func (c *Col) AsFloat() []float64 {
	switch c.dt {
	case DTfloat:
		return c.data.([]float64)
	case DTint:
		xOut := make([]float64, c.Len())
		for ind, xx := range c.data.([]int) {
			xOut[ind] = float64(xx)
		}

		return xOut
	default:
		panic(fmt.Errorf("column %s is not float-able", c.name))
	}
}

func (c *Col) AsInt() []int {
	if c.dt != DTint {
		panic(fmt.Errorf("column %s isn't DTint", c.name))
	}

	return c.data.([]int)
}

func (c *Col) AsString() []string {
	if c.dt == DTstring {
		return c.data.([]string)
	}

	var cx *Col
	if cx = c.Coerce(DTstring); cx == nil {
		panic(fmt.Errorf("cannot convert column %s to string", c.name))
	}

	return cx.data.([]string)
}

func (c *Col) Element(row int) any {
	if row < 0 || row >= c.Len() {
		panic(fmt.Errorf("index out of range in column %s", c.name))
	}

	switch c.dt {
	case DTfloat:
		return c.data.([]float64)[row]
	case DTint:
		return c.data.([]int)[row]
	case DTstring:
		return c.data.([]string)[row]
	default:
		panic(fmt.Errorf("unsupported data type in Element"))
	}
}

func (c *Col) Copy() *Col {
	var copiedData any
	n := c.Len()
	switch c.dt {
	case DTfloat:
		copiedData = make([]float64, n)
		copy(copiedData.([]float64), c.data.([]float64))
	case DTint:
		copiedData = make([]int, n)
		copy(copiedData.([]int), c.data.([]int))
	case DTstring:
		copiedData = make([]string, n)
		copy(copiedData.([]string), c.data.([]string))
	default:
		panic(fmt.Errorf("unsupported data type in Copy"))
	}

	return &Col{name: c.name, dt: c.dt, data: copiedData}
}

// Where returns a new column with the rows where keep is true.
func (c *Col) Where(keep []bool) *Col {
	if len(keep) != c.Len() {
		panic(fmt.Errorf("keep length mismatch in column %s", c.name))
	}

	n := 0
	for _, k := range keep {
		if k {
			n++
		}
	}

	out := &Col{name: c.name, dt: c.dt, data: makeSlice(c.dt, n)}
	indx := 0
	for ind := 0; ind < c.Len(); ind++ {
		if !keep[ind] {
			continue
		}

		assign(out.data, c.Element(ind), indx)
		indx++
	}

	return out
}

// Coerce converts the column to type "to", returning nil if any element
// cannot be converted.
func (c *Col) Coerce(to DataTypes) *Col {
	if to == c.dt {
		return c.Copy()
	}

	xOut := makeSlice(to, c.Len())
	for ind := 0; ind < c.Len(); ind++ {
		var (
			val any
			ok  bool
		)
		if val, ok = toDataType(c.Element(ind), to); !ok {
			return nil
		}

		assign(xOut, val, ind)
	}

	return &Col{name: c.name, dt: to, data: xOut}
}

func (c *Col) less(i, j int) bool {
	switch c.dt {
	case DTfloat:
		return c.data.([]float64)[i] < c.data.([]float64)[j]
	case DTint:
		return c.data.([]int)[i] < c.data.([]int)[j]
	case DTstring:
		return c.data.([]string)[i] < c.data.([]string)[j]
	default:
		panic(fmt.Errorf("unsupported data type in less"))
	}
}

func (c *Col) swap(i, j int) {
	switch c.dt {
	case DTfloat:
		x := c.data.([]float64)
		x[i], x[j] = x[j], x[i]
	case DTint:
		x := c.data.([]int)
		x[i], x[j] = x[j], x[i]
	case DTstring:
		x := c.data.([]string)
		x[i], x[j] = x[j], x[i]
	default:
		panic(fmt.Errorf("unsupported data type in swap"))
	}
}

// hasNaN reports whether a float column holds any NaN.
func (c *Col) hasNaN() bool {
	if c.dt != DTfloat {
		return false
	}

	for _, x := range c.data.([]float64) {
		if math.IsNaN(x) {
			return true
		}
	}

	return false
}
