package zipstudy

import (
	"encoding/csv"
	"fmt"
	"os"
)

// All code interacting with flat files is here

const (
	Sep         = ','
	FloatFormat = "%.2f"
	Peek        = 100
)

// Files reads and writes delimited text files.  Column types are imputed by
// peeking at the data unless the caller supplies them.
type Files struct {
	sep         rune
	header      bool
	peek        int
	strict      bool
	floatFormat string

	fieldNames []string
	fieldTypes []DataTypes
	stringCols []string
}

type FileOpt func(f *Files) error

func NewFiles(opts ...FileOpt) (*Files, error) {
	f := &Files{
		sep:         Sep,
		header:      true,
		peek:        Peek,
		floatFormat: FloatFormat,
	}

	for _, opt := range opts {
		if e := opt(f); e != nil {
			return nil, e
		}
	}

	return f, nil
}

func FileSep(sep rune) FileOpt {
	return func(f *Files) error {
		f.sep = sep
		return nil
	}
}

func FileHeader(header bool) FileOpt {
	return func(f *Files) error {
		f.header = header
		return nil
	}
}

// FilePeek sets how many rows are examined when imputing column types.
func FilePeek(n int) FileOpt {
	return func(f *Files) error {
		if n < 1 {
			return fmt.Errorf("peek must be at least 1")
		}

		f.peek = n
		return nil
	}
}

// FileStrict causes Load to fail if the peeked rows disagree on a column's
// type rather than widening it.
func FileStrict(strict bool) FileOpt {
	return func(f *Files) error {
		f.strict = strict
		return nil
	}
}

func FileFloatFormat(format string) FileOpt {
	return func(f *Files) error {
		f.floatFormat = format
		return nil
	}
}

// FileStringColumns forces the named columns to load as strings, bypassing
// type imputation.  Keys like zip codes look numeric but carry leading zeros.
func FileStringColumns(names ...string) FileOpt {
	return func(f *Files) error {
		f.stringCols = append(f.stringCols, names...)
		return nil
	}
}

// FileFieldNames sets the column names, ordered as in the file.  Required if
// the file has no header.
func FileFieldNames(names []string) FileOpt {
	return func(f *Files) error {
		f.fieldNames = names
		return nil
	}
}

// FileFieldTypes sets the column types, ordered as in the file.  If you
// specify types you must also specify names.
func FileFieldTypes(types []DataTypes) FileOpt {
	return func(f *Files) error {
		f.fieldTypes = types
		return nil
	}
}

// Load reads fileName into a Table.
func (f *Files) Load(fileName string) (*Table, error) {
	var (
		file *os.File
		e    error
	)
	if file, e = os.Open(fileName); e != nil {
		return nil, e
	}
	defer func() { _ = file.Close() }()

	rdr := csv.NewReader(file)
	rdr.Comma = f.sep
	rdr.TrimLeadingSpace = true

	var recs [][]string
	if recs, e = rdr.ReadAll(); e != nil {
		return nil, fmt.Errorf("%s: %w", fileName, e)
	}

	names := f.fieldNames
	if f.header {
		if len(recs) == 0 {
			return nil, fmt.Errorf("%s: no header row", fileName)
		}

		if names == nil {
			names = recs[0]
		}

		recs = recs[1:]
	}

	if names == nil {
		return nil, fmt.Errorf("%s: no field names and no header", fileName)
	}

	if len(recs) == 0 {
		return nil, fmt.Errorf("%s: no data rows", fileName)
	}

	for ind, rec := range recs {
		if len(rec) != len(names) {
			return nil, fmt.Errorf("%s: row %d has %d fields, expected %d", fileName, ind+1, len(rec), len(names))
		}
	}

	types := f.fieldTypes
	if types == nil {
		var ex error
		if types, ex = f.imputeTypes(fileName, names, recs); ex != nil {
			return nil, ex
		}
	}

	if len(types) != len(names) {
		return nil, fmt.Errorf("%s: %d field types for %d fields", fileName, len(types), len(names))
	}

	var cols []*Col
	for j := 0; j < len(names); j++ {
		data := makeSlice(types[j], len(recs))
		for ind, rec := range recs {
			var (
				val any
				ok  bool
			)
			if val, ok = toDataType(rec[j], types[j]); !ok {
				return nil, fmt.Errorf("%s: cannot read %q as %s (field %s, row %d)",
					fileName, rec[j], types[j], names[j], ind+1)
			}

			assign(data, val, ind)
		}

		var (
			c *Col
			e error
		)
		if c, e = NewCol(names[j], data); e != nil {
			return nil, e
		}

		cols = append(cols, c)
	}

	return NewTable(cols...)
}

// Save writes the table to fileName as delimited text with a header row.
func (f *Files) Save(fileName string, t *Table) error {
	var (
		file *os.File
		e    error
	)
	if file, e = os.Create(fileName); e != nil {
		return e
	}
	defer func() { _ = file.Close() }()

	w := csv.NewWriter(file)
	w.Comma = f.sep

	if f.header {
		if ex := w.Write(t.ColumnNames()); ex != nil {
			return ex
		}
	}

	for row := 0; row < t.RowCount(); row++ {
		var rec []string
		for _, nm := range t.ColumnNames() {
			c, _ := t.Column(nm)
			switch c.DataType() {
			case DTfloat:
				rec = append(rec, fmt.Sprintf(f.floatFormat, c.Element(row).(float64)))
			default:
				s, _ := toString(c.Element(row))
				rec = append(rec, s.(string))
			}
		}

		if ex := w.Write(rec); ex != nil {
			return ex
		}
	}

	w.Flush()

	return w.Error()
}

func (f *Files) imputeTypes(fileName string, names []string, recs [][]string) ([]DataTypes, error) {
	peek := f.peek
	if peek > len(recs) {
		peek = len(recs)
	}

	types := make([]DataTypes, len(names))
	for j := 0; j < len(names); j++ {
		if has(names[j], f.stringCols) {
			types[j] = DTstring
			continue
		}

		for ind := 0; ind < peek; ind++ {
			var (
				dt DataTypes
				e  error
			)
			if _, dt, e = bestType(recs[ind][j]); e != nil {
				return nil, fmt.Errorf("%s: cannot type field %s", fileName, names[j])
			}

			was := types[j]
			types[j] = widen(types[j], dt)

			if f.strict && was != DTunknown && was != types[j] {
				return nil, fmt.Errorf("%s: field %s mixes %s and %s", fileName, names[j], was, dt)
			}
		}
	}

	return types, nil
}
