package zipstudy

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

// *********** Conversions ***********

func toFloat(x any) (any, bool) {
	if f, ok := x.(float64); ok {
		return f, true
	}

	xv := reflect.ValueOf(x)
	if xv.CanFloat() {
		return xv.Float(), true
	}

	if xv.CanInt() {
		return float64(xv.Int()), true
	}

	if xv.CanUint() {
		return float64(xv.Uint()), true
	}

	if s, ok := x.(string); ok {
		if f, e := strconv.ParseFloat(strings.TrimSpace(s), 64); e == nil {
			return f, true
		}
	}

	return nil, false
}

func toInt(x any) (any, bool) {
	if i, ok := x.(int); ok {
		return i, true
	}

	xv := reflect.ValueOf(x)
	if xv.CanInt() {
		return int(xv.Int()), true
	}

	if xv.CanUint() {
		return int(xv.Uint()), true
	}

	if xv.CanFloat() {
		return int(xv.Float()), true
	}

	if s, ok := x.(string); ok {
		if i, e := strconv.ParseInt(strings.TrimSpace(s), 10, 64); e == nil {
			return int(i), true
		}
	}

	return nil, false
}

func toString(x any) (any, bool) {
	if s, ok := x.(string); ok {
		return s, true
	}

	if f, ok := x.(float64); ok {
		return strconv.FormatFloat(f, 'f', -1, 64), true
	}

	if i, ok := x.(int); ok {
		return fmt.Sprintf("%d", i), true
	}

	return nil, false
}

func toDataType(x any, dt DataTypes) (any, bool) {
	switch dt {
	case DTfloat:
		if v, ok := toFloat(x); ok {
			return v.(float64), true
		}
	case DTint:
		if v, ok := toInt(x); ok {
			return v.(int), true
		}
	case DTstring:
		if v, ok := toString(x); ok {
			return v.(string), true
		}
	}

	return nil, false
}

// bestType imputes the narrowest type that can hold xIn: int, then float,
// then string.
func bestType(xIn any) (xOut any, dt DataTypes, err error) {
	if s, ok := xIn.(string); ok {
		s = strings.TrimSpace(s)
		if _, e := strconv.ParseInt(s, 10, 64); e == nil {
			x, _ := toInt(s)
			return x.(int), DTint, nil
		}

		if _, e := strconv.ParseFloat(s, 64); e == nil {
			x, _ := toFloat(s)
			return x.(float64), DTfloat, nil
		}

		return s, DTstring, nil
	}

	if x, ok := toInt(xIn); ok {
		return x.(int), DTint, nil
	}

	if x, ok := toFloat(xIn); ok {
		return x.(float64), DTfloat, nil
	}

	if x, ok := toString(xIn); ok {
		return x.(string), DTstring, nil
	}

	return nil, DTunknown, fmt.Errorf("cannot convert value")
}

func WhatAmI(val any) DataTypes {
	switch val.(type) {
	case float64, []float64:
		return DTfloat
	case int, []int:
		return DTint
	case string, []string:
		return DTstring
	default:
		return DTunknown
	}
}

func makeSlice(dt DataTypes, n int) any {
	switch dt {
	case DTfloat:
		return make([]float64, n)
	case DTint:
		return make([]int, n)
	case DTstring:
		return make([]string, n)
	default:
		panic(fmt.Errorf("cannot make slice of type %s", dt))
	}
}

func assign(slc, val any, indx int) {
	switch x := slc.(type) {
	case []float64:
		x[indx] = val.(float64)
	case []int:
		x[indx] = val.(int)
	case []string:
		x[indx] = val.(string)
	default:
		panic(fmt.Errorf("unsupported slice type in assign"))
	}
}

// widen merges the types seen while peeking at a column: ints widen to floats,
// anything mixed with strings becomes string.
func widen(a, b DataTypes) DataTypes {
	if a == b {
		return a
	}

	if a == DTunknown {
		return b
	}

	if (a == DTint && b == DTfloat) || (a == DTfloat && b == DTint) {
		return DTfloat
	}

	return DTstring
}
