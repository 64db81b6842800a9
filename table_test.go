package zipstudy

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func makeTable(t *testing.T, names []string, data []any) *Table {
	var cols []*Col
	for ind, nm := range names {
		c, e := NewCol(nm, data[ind])
		assert.Nil(t, e)
		cols = append(cols, c)
	}

	tbl, e := NewTable(cols...)
	assert.Nil(t, e)

	return tbl
}

func TestNewTable(t *testing.T) {
	c1, _ := NewCol("a", []int{1, 2, 3})
	c2, _ := NewCol("b", []float64{1, 2, 3})

	tbl, e := NewTable(c1, c2)
	assert.Nil(t, e)
	assert.Equal(t, 3, tbl.RowCount())
	assert.Equal(t, 2, tbl.ColumnCount())
	assert.Equal(t, []string{"a", "b"}, tbl.ColumnNames())

	// length mismatch
	c3, _ := NewCol("c", []int{1})
	_, e = NewTable(c1, c3)
	assert.NotNil(t, e)

	// duplicate names
	c4, _ := NewCol("a", []int{4, 5, 6})
	_, e = NewTable(c1, c4)
	assert.NotNil(t, e)
}

func TestTableAppendColumn(t *testing.T) {
	tbl := makeTable(t, []string{"a"}, []any{[]int{1, 2, 3}})

	c, _ := NewCol("b", []float64{1, 2, 3})
	assert.Nil(t, tbl.AppendColumn(c))

	dup, _ := NewCol("a", []int{4, 5, 6})
	assert.NotNil(t, tbl.AppendColumn(dup))

	short, _ := NewCol("c", []int{1})
	assert.NotNil(t, tbl.AppendColumn(short))
}

func TestTableKeepColumns(t *testing.T) {
	tbl := makeTable(t, []string{"a", "b", "c"},
		[]any{[]int{1, 2}, []float64{3, 4}, []string{"x", "y"}})

	kept, e := tbl.KeepColumns("c", "a")
	assert.Nil(t, e)
	assert.Equal(t, []string{"c", "a"}, kept.ColumnNames())

	// kept columns are copies: mutating them leaves the source alone
	c, _ := kept.Column("a")
	c.AsInt()[0] = 99
	src, _ := tbl.Column("a")
	assert.Equal(t, 1, src.AsInt()[0])

	_, e = tbl.KeepColumns("nope")
	assert.NotNil(t, e)
}

func TestTableWhere(t *testing.T) {
	tbl := makeTable(t, []string{"a", "b"},
		[]any{[]int{1, 2, 3, 4}, []string{"w", "x", "y", "z"}})

	sub, e := tbl.Where([]bool{true, false, false, true})
	assert.Nil(t, e)
	assert.Equal(t, 2, sub.RowCount())

	a, _ := sub.Column("a")
	assert.Equal(t, []int{1, 4}, a.AsInt())
	b, _ := sub.Column("b")
	assert.Equal(t, []string{"w", "z"}, b.AsString())

	_, e = tbl.Where([]bool{true})
	assert.NotNil(t, e)
}

func TestTableInnerJoin(t *testing.T) {
	left := makeTable(t, []string{"zip", "pop"},
		[]any{[]string{"10001", "10002", "10003"}, []int{100, 200, 300}})
	right := makeTable(t, []string{"zip", "income"},
		[]any{[]string{"10002", "10003", "10004"}, []float64{50, 60, 70}})

	joined, e := left.InnerJoin(right, "zip")
	assert.Nil(t, e)

	// only the shared keys survive, left order preserved
	assert.Equal(t, 2, joined.RowCount())
	assert.Equal(t, []string{"zip", "pop", "income"}, joined.ColumnNames())

	zip, _ := joined.Column("zip")
	assert.Equal(t, []string{"10002", "10003"}, zip.AsString())
	income, _ := joined.Column("income")
	assert.Equal(t, []float64{50, 60}, income.AsFloat())
}

func TestTableInnerJoinErrors(t *testing.T) {
	left := makeTable(t, []string{"zip", "pop"},
		[]any{[]string{"10001", "10001"}, []int{1, 2}})
	right := makeTable(t, []string{"zip", "income"},
		[]any{[]string{"10001"}, []float64{50}})

	// duplicate key on the left
	_, e := left.InnerJoin(right, "zip")
	assert.NotNil(t, e)

	// non-key column name collision
	l2 := makeTable(t, []string{"zip", "income"},
		[]any{[]string{"10001"}, []int{1}})
	_, e = l2.InnerJoin(right, "zip")
	assert.NotNil(t, e)

	// missing key column
	r2 := makeTable(t, []string{"zone"}, []any{[]string{"10001"}})
	_, e = left.InnerJoin(r2, "zip")
	assert.NotNil(t, e)
}

func TestTableInnerJoinMixedKeyTypes(t *testing.T) {
	// an int key joins against a string key through the string form
	left := makeTable(t, []string{"zip", "pop"},
		[]any{[]int{10001, 10002}, []int{100, 200}})
	right := makeTable(t, []string{"zip", "income"},
		[]any{[]string{"10002"}, []float64{50}})

	joined, e := left.InnerJoin(right, "zip")
	assert.Nil(t, e)
	assert.Equal(t, 1, joined.RowCount())
}

func TestTableSort(t *testing.T) {
	tbl := makeTable(t, []string{"a", "b"},
		[]any{[]int{3, 1, 2}, []string{"c", "a", "b"}})

	assert.Nil(t, tbl.Sort("a"))

	a, _ := tbl.Column("a")
	assert.Equal(t, []int{1, 2, 3}, a.AsInt())
	b, _ := tbl.Column("b")
	assert.Equal(t, []string{"a", "b", "c"}, b.AsString())
}

func TestTableCopy(t *testing.T) {
	tbl := makeTable(t, []string{"a"}, []any{[]float64{1, 2, 3}})

	cp := tbl.Copy()
	c, _ := cp.Column("a")
	c.AsFloat()[0] = 99

	src, _ := tbl.Column("a")
	assert.Equal(t, 1.0, src.AsFloat()[0])
}

func ExampleTable_InnerJoin() {
	zipL, _ := NewCol("zip", []string{"10001", "10002"})
	pop, _ := NewCol("pop", []int{100, 200})
	left, _ := NewTable(zipL, pop)

	zipR, _ := NewCol("zip", []string{"10002", "10003"})
	income, _ := NewCol("income", []int{50, 60})
	right, _ := NewTable(zipR, income)

	joined, _ := left.InnerJoin(right, "zip")
	fmt.Println(joined.RowCount(), joined.ColumnNames())
	// Output:
	// 1 [zip pop income]
}
