// Package analysis merges zip-code level demographic counts with tax-derived
// average income and regresses income on racial composition, pair by pair.
//
// The pipeline is a single forward pass: load, merge, build pair subsets,
// screen income outliers, fit, report.  Every stage derives a new table from
// the prior stage's output; nothing is mutated across stages and nothing is
// cached between runs.
package analysis

import (
	"log/slog"
	"math"

	zs "github.com/nycdata/zipstudy"
)

// Canonical column names.  Source files arrive with agency-specific headers;
// the loader renames them to these and everything downstream uses only these.
const (
	ZipCol     = "ZIP.code"
	ReturnsCol = "return.count"
	TotIncCol  = "total.income"
	AvgIncCol  = "avg.income"
	TrimIncCol = "avg.income.trimmed"
)

// RenameMap maps source-specific headers to canonical column names.
type RenameMap map[string]string

// IncomeRenames is the default mapping for the IRS income extract: N02650 is
// the number of returns, A02650 total income in thousands of dollars.
func IncomeRenames() RenameMap {
	return RenameMap{
		"ZIPCODE": ZipCol,
		"N02650":  ReturnsCol,
		"A02650":  TotIncCol,
	}
}

// DemographicRenames is the default mapping for the city demographic extract.
func DemographicRenames() RenameMap {
	return RenameMap{
		"JURISDICTION.NAME":        ZipCol,
		"COUNT.BLACK.NON.HISPANIC": string(Black) + ".count",
		"COUNT.HISPANIC.LATINO":    string(Hispanic) + ".count",
		"COUNT.WHITE.NON.HISPANIC": string(White) + ".count",
	}
}

// Loader reads the two source tables and reduces them to their canonical
// columns.  The rename maps are injected configuration, not globals.
type Loader struct {
	fileOpts []zs.FileOpt
	lgr      *slog.Logger
	income   RenameMap
	demo     RenameMap
}

type LoaderOpt func(l *Loader) error

func NewLoader(opts ...LoaderOpt) (*Loader, error) {
	l := &Loader{
		lgr:    slog.Default(),
		income: IncomeRenames(),
		demo:   DemographicRenames(),
	}

	for _, opt := range opts {
		if ex := opt(l); ex != nil {
			return nil, ex
		}
	}

	return l, nil
}

// LoaderFileOpts passes options through to the file reader, e.g. a different
// separator.
func LoaderFileOpts(opts ...zs.FileOpt) LoaderOpt {
	return func(l *Loader) error {
		l.fileOpts = append(l.fileOpts, opts...)
		return nil
	}
}

func LoaderLogger(lgr *slog.Logger) LoaderOpt {
	return func(l *Loader) error {
		l.lgr = lgr
		return nil
	}
}

func LoaderIncomeRenames(m RenameMap) LoaderOpt {
	return func(l *Loader) error {
		l.income = m
		return nil
	}
}

func LoaderDemographicRenames(m RenameMap) LoaderOpt {
	return func(l *Loader) error {
		l.demo = m
		return nil
	}
}

// Income loads the income-by-zone table from a delimited file.
func (l *Loader) Income(path string) (*zs.Table, error) {
	var (
		tbl *zs.Table
		e   error
	)
	if tbl, e = l.load(path, l.income); e != nil {
		return nil, e
	}

	return l.incomeTable(tbl, path)
}

// IncomeDB loads the income-by-zone table from a query.
func (l *Loader) IncomeDB(dlct *zs.Dialect, qry string) (*zs.Table, error) {
	var (
		tbl *zs.Table
		e   error
	)
	if tbl, e = l.loadDB(dlct, qry, "income"); e != nil {
		return nil, e
	}

	return l.incomeTable(tbl, dlct.DialectName()+" query")
}

// Demographics loads the demographic-by-zone table from a delimited file.
func (l *Loader) Demographics(path string) (*zs.Table, error) {
	var (
		tbl *zs.Table
		e   error
	)
	if tbl, e = l.load(path, l.demo); e != nil {
		return nil, e
	}

	return l.demoTable(tbl, path)
}

// DemographicsDB loads the demographic-by-zone table from a query.
func (l *Loader) DemographicsDB(dlct *zs.Dialect, qry string) (*zs.Table, error) {
	var (
		tbl *zs.Table
		e   error
	)
	if tbl, e = l.loadDB(dlct, qry, "demographic"); e != nil {
		return nil, e
	}

	return l.demoTable(tbl, dlct.DialectName()+" query")
}

// load reads a delimited file with the zone key pinned to string: all-digit
// zips would otherwise impute as int and drop leading zeros (00501 -> 501).
func (l *Loader) load(path string, renames RenameMap) (*zs.Table, error) {
	opts := append([]zs.FileOpt{}, l.fileOpts...)
	if src := sourceZip(renames); src != "" {
		opts = append(opts, zs.FileStringColumns(src))
	}

	var (
		f *zs.Files
		e error
	)
	if f, e = zs.NewFiles(opts...); e != nil {
		return nil, e
	}

	return f.Load(path)
}

func (l *Loader) loadDB(dlct *zs.Dialect, qry, what string) (*zs.Table, error) {
	var (
		n int
		e error
	)
	if n, e = dlct.RowCount(qry); e != nil {
		return nil, e
	}

	l.lgr.Info(what+" query", "dialect", dlct.DialectName(), "rows", n)

	return dlct.Load(qry)
}

func (l *Loader) incomeTable(tbl *zs.Table, source string) (*zs.Table, error) {
	var e error
	if tbl, e = canonicalize(tbl, l.income, source, []string{ZipCol, ReturnsCol, TotIncCol}); e != nil {
		return nil, e
	}

	zips := mustColumn(tbl, ZipCol).AsString()
	returns := mustColumn(tbl, ReturnsCol).AsFloat()
	total := mustColumn(tbl, TotIncCol).AsFloat()

	// total income arrives in thousands; a zone with no returns has no
	// average income and fails the run rather than seeding a NaN.
	avg := make([]float64, tbl.RowCount())
	for ind := 0; ind < tbl.RowCount(); ind++ {
		if returns[ind] == 0.0 {
			return nil, &DivisionUndefinedError{Zone: zips[ind]}
		}

		avg[ind] = round2(total[ind] * 1000.0 / returns[ind])
	}

	var avgCol *zs.Col
	if avgCol, e = zs.NewCol(AvgIncCol, avg); e != nil {
		return nil, e
	}

	if ex := tbl.AppendColumn(avgCol); ex != nil {
		return nil, ex
	}

	l.lgr.Info("loaded income table", "source", source, "zones", tbl.RowCount())

	return tbl, nil
}

func (l *Loader) demoTable(tbl *zs.Table, source string) (*zs.Table, error) {
	need := []string{ZipCol}
	for _, g := range Groups() {
		need = append(need, g.CountColumn())
	}

	var e error
	if tbl, e = canonicalize(tbl, l.demo, source, need); e != nil {
		return nil, e
	}

	l.lgr.Info("loaded demographic table", "source", source, "zones", tbl.RowCount())

	return tbl, nil
}

// canonicalize renames the source columns per the map, drops everything not
// in the canonical set and coerces the zone key to string.
func canonicalize(tbl *zs.Table, renames RenameMap, source string, keep []string) (*zs.Table, error) {
	for src, canon := range renames {
		var (
			c *zs.Col
			e error
		)
		if c, e = tbl.Column(src); e != nil {
			return nil, &MissingColumnError{Source: source, Column: src}
		}

		c.Name(canon)
	}

	var (
		out *zs.Table
		e   error
	)
	if out, e = tbl.KeepColumns(keep...); e != nil {
		// a rename map that doesn't cover the canonical set
		return nil, &MissingColumnError{Source: source, Column: missing(tbl, keep)}
	}

	var zips *zs.Col
	if zips, e = out.Column(ZipCol); e != nil {
		return nil, e
	}

	if zips.DataType() != zs.DTstring {
		if ex := out.DropColumns(ZipCol); ex != nil {
			return nil, ex
		}

		if ex := out.AppendColumn(zips.Coerce(zs.DTstring)); ex != nil {
			return nil, ex
		}

		// restore the canonical column order
		if out, e = out.KeepColumns(keep...); e != nil {
			return nil, e
		}
	}

	return out, nil
}

// *********** Helpers ***********

// sourceZip is the source header that renames to the zone key.
func sourceZip(renames RenameMap) string {
	for src, canon := range renames {
		if canon == ZipCol {
			return src
		}
	}

	return ""
}

func missing(tbl *zs.Table, keep []string) string {
	for _, nm := range keep {
		if !tbl.HasColumns(nm) {
			return nm
		}
	}

	return "unknown"
}

func mustColumn(tbl *zs.Table, name string) *zs.Col {
	var (
		c *zs.Col
		e error
	)
	if c, e = tbl.Column(name); e != nil {
		panic(e)
	}

	return c
}

func round2(x float64) float64 {
	return math.Round(x*100.0) / 100.0
}
