package analysis

import (
	"fmt"
	"io"
	"log/slog"

	zs "github.com/nycdata/zipstudy"
)

// Study runs the whole pipeline: load the two sources, merge on the zone key,
// build the pair subsets, screen income outliers, fit the regressions and
// report.  Any failure anywhere stops the run; nothing downstream sees a
// partial or NaN-laced input.
type Study struct {
	incomeCSV string
	demoCSV   string

	dlct      *zs.Dialect
	incomeQry string
	demoQry   string

	outDir  string
	fence   float64
	show    bool
	browser string

	wtr io.Writer
	lgr *slog.Logger

	loaderOpts []LoaderOpt
}

type StudyOpt func(s *Study) error

func NewStudy(opts ...StudyOpt) (*Study, error) {
	s := &Study{
		fence: DefaultFence,
		lgr:   slog.Default(),
	}

	for _, opt := range opts {
		if e := opt(s); e != nil {
			return nil, e
		}
	}

	if s.incomeCSV == "" && s.incomeQry == "" {
		return nil, fmt.Errorf("no income source given")
	}

	if s.demoCSV == "" && s.demoQry == "" {
		return nil, fmt.Errorf("no demographic source given")
	}

	return s, nil
}

// StudyIncomeCSV sets the income source to a delimited file.
func StudyIncomeCSV(path string) StudyOpt {
	return func(s *Study) error {
		s.incomeCSV = path
		return nil
	}
}

// StudyDemographicsCSV sets the demographic source to a delimited file.
func StudyDemographicsCSV(path string) StudyOpt {
	return func(s *Study) error {
		s.demoCSV = path
		return nil
	}
}

// StudyDB sources either table from a query instead of a file.  Pass an empty
// query to keep that table on its file source.
func StudyDB(dlct *zs.Dialect, incomeQry, demoQry string) StudyOpt {
	return func(s *Study) error {
		if dlct == nil {
			return fmt.Errorf("nil dialect")
		}

		s.dlct, s.incomeQry, s.demoQry = dlct, incomeQry, demoQry
		return nil
	}
}

func StudyOutDir(dir string) StudyOpt {
	return func(s *Study) error {
		s.outDir = dir
		return nil
	}
}

// StudyFence sets the IQR multiplier for the outlier screen.
func StudyFence(k float64) StudyOpt {
	return func(s *Study) error {
		if k < 0.0 {
			return fmt.Errorf("negative fence multiplier %v", k)
		}

		s.fence = k
		return nil
	}
}

func StudyWriter(wtr io.Writer) StudyOpt {
	return func(s *Study) error {
		s.wtr = wtr
		return nil
	}
}

func StudyLogger(lgr *slog.Logger) StudyOpt {
	return func(s *Study) error {
		s.lgr = lgr
		return nil
	}
}

// StudyShow opens each plot in a browser after saving.
func StudyShow(browser string) StudyOpt {
	return func(s *Study) error {
		s.show = true
		s.browser = browser
		return nil
	}
}

// StudyLoader passes options through to the loader, e.g. custom rename maps.
func StudyLoader(opts ...LoaderOpt) StudyOpt {
	return func(s *Study) error {
		s.loaderOpts = append(s.loaderOpts, opts...)
		return nil
	}
}

// Run executes the pipeline and returns the fitted pairs.
func (s *Study) Run() ([]*PairFit, error) {
	var (
		ldr *Loader
		e   error
	)

	lOpts := append([]LoaderOpt{LoaderLogger(s.lgr)}, s.loaderOpts...)
	if ldr, e = NewLoader(lOpts...); e != nil {
		return nil, e
	}

	var income, demo *zs.Table
	if income, e = s.incomeSource(ldr); e != nil {
		return nil, e
	}

	if demo, e = s.demoSource(ldr); e != nil {
		return nil, e
	}

	var merged *zs.Table
	if merged, e = Merge(demo, income); e != nil {
		return nil, e
	}

	s.lgr.Info("merged sources", "zones", merged.RowCount())

	var fits []*PairFit
	for _, p := range Pairs() {
		var pf *PairFit
		if pf, e = s.fitOne(merged, p); e != nil {
			return nil, e
		}

		fits = append(fits, pf)
	}

	return fits, s.report(fits)
}

func (s *Study) fitOne(merged *zs.Table, p Pair) (*PairFit, error) {
	var (
		sub *zs.Table
		e   error
	)
	if sub, e = BuildPair(merged, p); e != nil {
		return nil, e
	}

	var tr *Trim
	if tr, e = TrimOutliers(sub, AvgIncCol, s.fence); e != nil {
		return nil, e
	}

	var pf *PairFit
	if pf, e = FitPair(p, tr); e != nil {
		return nil, e
	}

	s.lgr.Info("fitted pair", "pair", p.Name(), "zones", sub.RowCount(),
		"excluded", tr.Excluded.RowCount())

	return pf, nil
}

func (s *Study) report(fits []*PairFit) error {
	rOpts := []ReporterOpt{ReporterOutDir(s.outDir), ReporterLogger(s.lgr)}
	if s.wtr != nil {
		rOpts = append(rOpts, ReporterWriter(s.wtr))
	}

	if s.show {
		rOpts = append(rOpts, ReporterShow(s.browser))
	}

	var (
		rpt *Reporter
		e   error
	)
	if rpt, e = NewReporter(rOpts...); e != nil {
		return e
	}

	if e = rpt.Summaries(fits); e != nil {
		return e
	}

	if e = rpt.SaveExcluded(fits); e != nil {
		return e
	}

	return rpt.Plots(fits)
}

// *********** Helpers ***********

func (s *Study) incomeSource(ldr *Loader) (*zs.Table, error) {
	if s.incomeQry != "" {
		return ldr.IncomeDB(s.dlct, s.incomeQry)
	}

	return ldr.Income(s.incomeCSV)
}

func (s *Study) demoSource(ldr *Loader) (*zs.Table, error) {
	if s.demoQry != "" {
		return ldr.DemographicsDB(s.dlct, s.demoQry)
	}

	return ldr.Demographics(s.demoCSV)
}
