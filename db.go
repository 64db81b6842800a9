package zipstudy

import (
	"database/sql"
	"fmt"
	"reflect"
	"strings"
)

// All code interacting with a database is here.  The study only reads: a
// Dialect can run a query and hand the result back as a Table.

const (
	ch = "clickhouse"
	pg = "postgres"
)

// Dialect wraps a database/sql connection for one of the supported databases.
type Dialect struct {
	db      *sql.DB
	dialect string
}

func NewDialect(dialect string, db *sql.DB) (*Dialect, error) {
	dialect = strings.ToLower(dialect)

	if dialect != ch && dialect != pg {
		return nil, fmt.Errorf("no support for database %s", dialect)
	}

	return &Dialect{db: db, dialect: dialect}, nil
}

func (d *Dialect) DialectName() string {
	return d.dialect
}

func (d *Dialect) DB() *sql.DB {
	return d.db
}

func (d *Dialect) Close() error {
	return d.db.Close()
}

func (d *Dialect) RowCount(qry string) (int, error) {
	const skeleton = "WITH %s AS (%s) SELECT count(*) AS n FROM %s"
	var n int

	sig := RandomLetters(4)
	q := fmt.Sprintf(skeleton, sig, qry, sig)
	row := d.db.QueryRow(q)
	if e := row.Scan(&n); e != nil {
		return 0, e
	}

	return n, nil
}

// Load runs qry and returns the result as a Table.  Column types map onto the
// package types; a null in the result is an error, not a sentinel.
func (d *Dialect) Load(qry string) (*Table, error) {
	var (
		rows *sql.Rows
		e    error
	)
	if rows, e = d.db.Query(qry); e != nil {
		return nil, e
	}
	defer func() { _ = rows.Close() }()

	var names []string
	if names, e = rows.Columns(); e != nil {
		return nil, e
	}

	var cTypes []*sql.ColumnType
	if cTypes, e = rows.ColumnTypes(); e != nil {
		return nil, e
	}

	dts := make([]DataTypes, len(cTypes))
	for ind, ct := range cTypes {
		dts[ind] = scanType(ct)
	}

	var data [][]any
	row2read := make([]any, len(names))
	for ind := range row2read {
		row2read[ind] = new(any)
	}

	for rows.Next() {
		if ex := rows.Scan(row2read...); ex != nil {
			return nil, ex
		}

		rec := make([]any, len(names))
		for ind := 0; ind < len(names); ind++ {
			z := *row2read[ind].(*any)
			if z == nil {
				return nil, fmt.Errorf("null in column %s", names[ind])
			}

			var ok bool
			if rec[ind], ok = toDataType(z, dts[ind]); !ok {
				return nil, fmt.Errorf("cannot read column %s as %s", names[ind], dts[ind])
			}
		}

		data = append(data, rec)
	}

	if ex := rows.Err(); ex != nil {
		return nil, ex
	}

	if len(data) == 0 {
		return nil, fmt.Errorf("query returned no rows")
	}

	var cols []*Col
	for j := 0; j < len(names); j++ {
		slc := makeSlice(dts[j], len(data))
		for ind := 0; ind < len(data); ind++ {
			assign(slc, data[ind][j], ind)
		}

		var (
			c  *Col
			ex error
		)
		if c, ex = NewCol(names[j], slc); ex != nil {
			return nil, ex
		}

		cols = append(cols, c)
	}

	return NewTable(cols...)
}

func scanType(ct *sql.ColumnType) DataTypes {
	st := ct.ScanType()
	if st == nil {
		return DTstring
	}

	switch st.Kind() {
	case reflect.Float32, reflect.Float64:
		return DTfloat
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return DTint
	default:
		return DTstring
	}
}
