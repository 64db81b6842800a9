package analysis

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	zs "github.com/nycdata/zipstudy"
)

const (
	plotWidth  = 1000.0
	plotHeight = 700.0
)

// Reporter renders the fitted pairs: regression summaries and excluded-zone
// listings to a writer, scatter-plus-fit plots to HTML files.
type Reporter struct {
	wtr     io.Writer
	outDir  string
	show    bool
	browser string
	lgr     *slog.Logger
	files   *zs.Files
}

type ReporterOpt func(r *Reporter) error

func NewReporter(opts ...ReporterOpt) (*Reporter, error) {
	var (
		f *zs.Files
		e error
	)
	if f, e = zs.NewFiles(); e != nil {
		return nil, e
	}

	r := &Reporter{
		wtr:   os.Stdout,
		lgr:   slog.Default(),
		files: f,
	}

	for _, opt := range opts {
		if ex := opt(r); ex != nil {
			return nil, ex
		}
	}

	return r, nil
}

func ReporterWriter(wtr io.Writer) ReporterOpt {
	return func(r *Reporter) error {
		r.wtr = wtr
		return nil
	}
}

// ReporterOutDir sets the directory plots and excluded-zone files land in.
// Empty disables file output.
func ReporterOutDir(dir string) ReporterOpt {
	return func(r *Reporter) error {
		r.outDir = dir
		return nil
	}
}

// ReporterShow opens each plot in a browser (xdg-open if browser is empty).
func ReporterShow(browser string) ReporterOpt {
	return func(r *Reporter) error {
		r.show = true
		r.browser = browser
		return nil
	}
}

func ReporterLogger(lgr *slog.Logger) ReporterOpt {
	return func(r *Reporter) error {
		r.lgr = lgr
		return nil
	}
}

// Summaries writes the regression tables and excluded-zone listings for each
// pair, then a one-line-per-pair significance table.
func (r *Reporter) Summaries(fits []*PairFit) error {
	for _, pf := range fits {
		header := fmt.Sprintf("==== %s ====", pf.Pair.Title())
		if _, e := fmt.Fprintf(r.wtr, "%s\n\nAll zones:\n%s\n", header, pf.Full); e != nil {
			return e
		}

		bounds := pf.Trim.Bounds
		if _, e := fmt.Fprintf(r.wtr, "Income within [%0.2f, %0.2f]:\n%s\n",
			bounds.Lower, bounds.Upper, pf.Trimmed); e != nil {
			return e
		}

		excl := pf.Trim.Excluded
		if excl.RowCount() == 0 {
			if _, e := fmt.Fprintf(r.wtr, "No zones excluded as income outliers.\n\n"); e != nil {
				return e
			}

			continue
		}

		if _, e := fmt.Fprintf(r.wtr, "Zones excluded as income outliers (%d):\n%s\n",
			excl.RowCount(), excl); e != nil {
			return e
		}
	}

	return r.significance(fits)
}

// significance is the closing table: one row per pair and variant with the
// slope, its standard error and p-value.
func (r *Reporter) significance(fits []*PairFit) error {
	if _, e := fmt.Fprintf(r.wtr, "%-22s %-10s %14s %12s %10s\n",
		"pair", "zones", "slope", "std err", "P>|t|"); e != nil {
		return e
	}

	for _, pf := range fits {
		for _, row := range []struct {
			label string
			m     *zs.OLS
		}{{"all", pf.Full}, {"trimmed", pf.Trimmed}} {
			if _, e := fmt.Fprintf(r.wtr, "%-22s %-10s %14.1f %12.1f %10s\n",
				pf.Pair.Name(), row.label, row.m.Slope, row.m.SlopeSE,
				zs.FormatPValue(row.m.SlopeP)); e != nil {
				return e
			}
		}
	}

	return nil
}

// Plots renders a scatter with the fitted line for each pair, full and
// trimmed, as standalone HTML under outDir.
func (r *Reporter) Plots(fits []*PairFit) error {
	if r.outDir == "" && !r.show {
		return nil
	}

	for _, pf := range fits {
		if e := r.plotFit(pf, pf.Full, AvgIncCol, "full"); e != nil {
			return e
		}

		if e := r.plotFit(pf, pf.Trimmed, TrimIncCol, "trimmed"); e != nil {
			return e
		}
	}

	return nil
}

func (r *Reporter) plotFit(pf *PairFit, m *zs.OLS, yCol, variant string) error {
	tbl := pf.Trim.Table
	if yCol == TrimIncCol {
		// drop the screened rows so the scatter shows only fitted points
		var e error
		if tbl, e = dropNaN(tbl, yCol); e != nil {
			return e
		}
	}

	x := mustColumn(tbl, pf.Pair.Predictor().PercentColumn())
	y := mustColumn(tbl, yCol)

	title := pf.Pair.Title()
	if variant == "trimmed" {
		title += " (income outliers removed)"
	}

	plt := zs.NewPlot(
		zs.WithWidth(plotWidth),
		zs.WithHeight(plotHeight),
		zs.WithTitle(title),
		zs.WithXlabel("Percent "+pf.Pair.Predictor().Title()),
		zs.WithYlabel("Average Income"),
		zs.WithSubtitle(fmt.Sprintf("n = %d, R2 = %0.3f", m.N, m.RSquared)),
		zs.WithPercentX(),
		zs.WithMoneyY(),
		zs.WithLegend(true),
	)

	if e := plt.Scatter(x, y, "zones", groupColor(pf.Pair.Predictor())); e != nil {
		return e
	}

	var fitX, fitY *zs.Col
	fitX, fitY = fitLine(m, x.AsFloat())
	if e := plt.Line(fitX, fitY, "fit", "black"); e != nil {
		return e
	}

	if r.outDir != "" {
		fileName := filepath.Join(r.outDir, pf.Pair.Name()+"_"+variant+".html")
		if e := plt.Save(fileName); e != nil {
			return e
		}

		r.lgr.Info("wrote plot", "file", fileName)
	}

	if r.show {
		return plt.Show(r.browser, "")
	}

	return nil
}

// SaveExcluded writes the screened-out zones of each pair to
// <outDir>/<pair>_outliers.csv.  Pairs with no exclusions write nothing.
func (r *Reporter) SaveExcluded(fits []*PairFit) error {
	if r.outDir == "" {
		return nil
	}

	for _, pf := range fits {
		if pf.Trim.Excluded.RowCount() == 0 {
			continue
		}

		fileName := filepath.Join(r.outDir, pf.Pair.Name()+"_outliers.csv")
		if e := r.files.Save(fileName, pf.Trim.Excluded); e != nil {
			return e
		}

		r.lgr.Info("wrote excluded zones", "file", fileName,
			"zones", pf.Trim.Excluded.RowCount())
	}

	return nil
}

// *********** Helpers ***********

// groupColor follows the original study's palette.
func groupColor(g Group) string {
	switch g {
	case Black:
		return "red"
	case Hispanic:
		return "green"
	default:
		return "blue"
	}
}

// fitLine evaluates the fit at the endpoints of the observed x range.
func fitLine(m *zs.OLS, x []float64) (*zs.Col, *zs.Col) {
	lo, hi := x[0], x[0]
	for _, xx := range x {
		lo, hi = min(lo, xx), max(hi, xx)
	}

	var (
		cx, cy *zs.Col
		e      error
	)
	if cx, e = zs.NewCol("x", []float64{lo, hi}); e != nil {
		panic(e)
	}
	if cy, e = zs.NewCol("y", []float64{m.Predict(lo), m.Predict(hi)}); e != nil {
		panic(e)
	}

	return cx, cy
}

func dropNaN(tbl *zs.Table, col string) (*zs.Table, error) {
	vals := mustColumn(tbl, col).AsFloat()

	keep := make([]bool, len(vals))
	for ind, v := range vals {
		keep[ind] = v == v
	}

	return tbl.Where(keep)
}
