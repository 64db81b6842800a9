package zipstudy

import (
	"fmt"
	"sort"
	"strings"
)

// Table is an ordered collection of equal-length columns.  Operations that
// derive a new table (KeepColumns, Where, InnerJoin) copy the data: derived
// tables never alias their source.
type Table struct {
	cols []*Col

	by *Col
}

func NewTable(cols ...*Col) (*Table, error) {
	if len(cols) == 0 {
		return nil, fmt.Errorf("no columns in NewTable")
	}

	rowCount := cols[0].Len()
	var seen []string
	for ind := 0; ind < len(cols); ind++ {
		if cols[ind].Len() != rowCount {
			return nil, fmt.Errorf("all columns must have same length")
		}

		if has(cols[ind].Name(""), seen) {
			return nil, fmt.Errorf("duplicate column name: %s", cols[ind].Name(""))
		}

		seen = append(seen, cols[ind].Name(""))
	}

	return &Table{cols: cols}, nil
}

func (t *Table) RowCount() int {
	return t.cols[0].Len()
}

func (t *Table) ColumnCount() int {
	return len(t.cols)
}

func (t *Table) ColumnNames() []string {
	var names []string
	for _, c := range t.cols {
		names = append(names, c.Name(""))
	}

	return names
}

func (t *Table) Column(colName string) (*Col, error) {
	for _, c := range t.cols {
		if c.Name("") == colName {
			return c, nil
		}
	}

	return nil, fmt.Errorf("column %s not found", colName)
}

func (t *Table) HasColumns(colNames ...string) bool {
	for _, nm := range colNames {
		if _, e := t.Column(nm); e != nil {
			return false
		}
	}

	return true
}

func (t *Table) AppendColumn(col *Col) error {
	if has(col.Name(""), t.ColumnNames()) {
		return fmt.Errorf("duplicate column name: %s", col.Name(""))
	}

	if col.Len() != t.RowCount() {
		return fmt.Errorf("length mismatch: table - %d, append col - %d", t.RowCount(), col.Len())
	}

	t.cols = append(t.cols, col)

	return nil
}

func (t *Table) DropColumns(colNames ...string) error {
	for _, nm := range colNames {
		if _, e := t.Column(nm); e != nil {
			return e
		}
	}

	var keep []*Col
	for _, c := range t.cols {
		if !has(c.Name(""), colNames) {
			keep = append(keep, c)
		}
	}

	if len(keep) == 0 {
		return fmt.Errorf("no columns left")
	}

	t.cols = keep

	return nil
}

// KeepColumns returns a new table with copies of the named columns, in the
// order given.
func (t *Table) KeepColumns(colNames ...string) (*Table, error) {
	var cols []*Col
	for _, nm := range colNames {
		var (
			c *Col
			e error
		)
		if c, e = t.Column(nm); e != nil {
			return nil, e
		}

		cols = append(cols, c.Copy())
	}

	return NewTable(cols...)
}

func (t *Table) Copy() *Table {
	var cols []*Col
	for _, c := range t.cols {
		cols = append(cols, c.Copy())
	}

	return &Table{cols: cols}
}

// Where returns a new table with the rows where keep is true.
func (t *Table) Where(keep []bool) (*Table, error) {
	if len(keep) != t.RowCount() {
		return nil, fmt.Errorf("keep length %d, table has %d rows", len(keep), t.RowCount())
	}

	var cols []*Col
	for _, c := range t.cols {
		cols = append(cols, c.Where(keep))
	}

	return &Table{cols: cols}, nil
}

// InnerJoin joins t to right on the key column.  Rows whose key appears in
// only one table are dropped.  Key values must be unique within each table.
func (t *Table) InnerJoin(right *Table, key string) (*Table, error) {
	var (
		lKey, rKey *Col
		e          error
	)
	if lKey, e = t.Column(key); e != nil {
		return nil, e
	}
	if rKey, e = right.Column(key); e != nil {
		return nil, e
	}

	for _, nm := range right.ColumnNames() {
		if nm != key && has(nm, t.ColumnNames()) {
			return nil, fmt.Errorf("column %s present in both tables", nm)
		}
	}

	lk, rk := lKey.AsString(), rKey.AsString()

	rLookup := make(map[string]int, len(rk))
	for ind, k := range rk {
		if _, ok := rLookup[k]; ok {
			return nil, fmt.Errorf("duplicate key %s in join", k)
		}

		rLookup[k] = ind
	}

	var lRows, rRows []int
	seen := make(map[string]bool, len(lk))
	for ind, k := range lk {
		if seen[k] {
			return nil, fmt.Errorf("duplicate key %s in join", k)
		}
		seen[k] = true

		if rInd, ok := rLookup[k]; ok {
			lRows, rRows = append(lRows, ind), append(rRows, rInd)
		}
	}

	var cols []*Col
	for _, c := range t.cols {
		cols = append(cols, subset(c, lRows))
	}

	for _, c := range right.cols {
		if c.Name("") == key {
			continue
		}

		cols = append(cols, subset(c, rRows))
	}

	return &Table{cols: cols}, nil
}

// Sort sorts the table rows in place, ascending on the key column.
func (t *Table) Sort(key string) error {
	var (
		c *Col
		e error
	)
	if c, e = t.Column(key); e != nil {
		return e
	}

	t.by = c
	sort.Sort(t)
	t.by = nil

	return nil
}

// Len, Less, Swap implement sort.Interface over the table rows.
func (t *Table) Len() int { return t.RowCount() }

func (t *Table) Less(i, j int) bool { return t.by.less(i, j) }

func (t *Table) Swap(i, j int) {
	for _, c := range t.cols {
		c.swap(i, j)
	}
}

const maxPrintRows = 20

func (t *Table) String() string {
	header := t.ColumnNames()

	n := t.RowCount()
	shown := n
	if shown > maxPrintRows {
		shown = maxPrintRows
	}

	body := make([][]string, shown)
	for row := 0; row < shown; row++ {
		for _, c := range t.cols {
			s, _ := toString(c.Element(row))
			body[row] = append(body[row], s.(string))
		}
	}

	widths := make([]int, len(header))
	for ind, h := range header {
		widths[ind] = len(h)
		for row := 0; row < shown; row++ {
			if l := len(body[row][ind]); l > widths[ind] {
				widths[ind] = l
			}
		}
	}

	var b strings.Builder
	pad := func(cells []string) {
		for ind, cell := range cells {
			b.WriteString(strings.Repeat(" ", widths[ind]-len(cell)+2))
			b.WriteString(cell)
		}
		b.WriteString("\n")
	}

	pad(header)
	for row := 0; row < shown; row++ {
		pad(body[row])
	}

	if shown < n {
		fmt.Fprintf(&b, "  ... %d more rows\n", n-shown)
	}

	return b.String()
}

// *********** Helpers ***********

func subset(c *Col, rows []int) *Col {
	out := &Col{name: c.name, dt: c.dt, data: makeSlice(c.dt, len(rows))}
	for ind, row := range rows {
		assign(out.data, c.Element(row), ind)
	}

	return out
}
