package analysis

import (
	"fmt"
	"strings"

	zs "github.com/nycdata/zipstudy"
)

// Group is one of the demographic groups in the study.
type Group string

const (
	Black    Group = "black"
	Hispanic Group = "hispanic"
	White    Group = "white"
)

func Groups() []Group {
	return []Group{Black, Hispanic, White}
}

func (g Group) CountColumn() string {
	return string(g) + ".count"
}

func (g Group) PercentColumn() string {
	return "percent." + string(g)
}

func (g Group) Title() string {
	return strings.ToUpper(string(g)[:1]) + string(g)[1:]
}

// Pair is one unordered pair of demographic groups.  B is the group whose
// percentage serves as the regression predictor.
type Pair struct {
	A Group
	B Group
}

// Pairs returns the three pairings among the study groups.  White is the
// predictor for both pairs that include it; hispanic for the remaining pair.
func Pairs() []Pair {
	return []Pair{
		{A: Black, B: White},
		{A: Hispanic, B: White},
		{A: Black, B: Hispanic},
	}
}

func (p Pair) Name() string {
	return string(p.A) + "_vs_" + string(p.B)
}

func (p Pair) Title() string {
	return p.A.Title() + " vs " + p.B.Title()
}

func (p Pair) Predictor() Group {
	return p.B
}

// BuildPair derives the pair's subset from the merged table: the zone key,
// the two counts, average income and the two percentage columns.  Rows where
// both counts are zero are dropped -- the filter exists to guard the
// percentage division below, which is undefined only in that case.  The
// subset copies its data; the three pair subsets never alias the merged
// table or each other.
func BuildPair(merged *zs.Table, p Pair) (*zs.Table, error) {
	need := []string{ZipCol, p.A.CountColumn(), p.B.CountColumn(), AvgIncCol}

	var (
		sub *zs.Table
		e   error
	)
	if sub, e = merged.KeepColumns(need...); e != nil {
		return nil, e
	}

	a := mustColumn(sub, p.A.CountColumn()).AsFloat()
	b := mustColumn(sub, p.B.CountColumn()).AsFloat()

	keep := make([]bool, sub.RowCount())
	for ind := 0; ind < sub.RowCount(); ind++ {
		keep[ind] = a[ind] != 0.0 || b[ind] != 0.0
	}

	if sub, e = sub.Where(keep); e != nil {
		return nil, e
	}

	if sub.RowCount() == 0 {
		return nil, fmt.Errorf("pair %s: no zones with a nonzero count", p.Name())
	}

	a = mustColumn(sub, p.A.CountColumn()).AsFloat()
	b = mustColumn(sub, p.B.CountColumn()).AsFloat()

	pctA := make([]float64, sub.RowCount())
	pctB := make([]float64, sub.RowCount())
	for ind := 0; ind < sub.RowCount(); ind++ {
		pctA[ind] = a[ind] / (a[ind] + b[ind])
		pctB[ind] = 1.0 - pctA[ind]
	}

	var colA, colB *zs.Col
	if colA, e = zs.NewCol(p.A.PercentColumn(), pctA); e != nil {
		return nil, e
	}
	if colB, e = zs.NewCol(p.B.PercentColumn(), pctB); e != nil {
		return nil, e
	}

	if ex := sub.AppendColumn(colA); ex != nil {
		return nil, ex
	}
	if ex := sub.AppendColumn(colB); ex != nil {
		return nil, ex
	}

	return sub, nil
}
