// Command zipstudy regresses average income on racial composition across
// zip codes, fitting each pairing of the study groups with and without income
// outliers.
package main

import (
	"database/sql"
	"fmt"
	"log/slog"
	"os"

	_ "github.com/ClickHouse/clickhouse-go/v2"
	_ "github.com/jackc/pgx/stdlib"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	zs "github.com/nycdata/zipstudy"
	"github.com/nycdata/zipstudy/analysis"
)

func main() {
	if e := rootCmd().Execute(); e != nil {
		fmt.Fprintln(os.Stderr, e)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "zipstudy",
		Short: "regress zip-code average income on racial composition",
		Long: `zipstudy merges zip-code demographic counts with tax-derived average
income, then regresses income on the racial composition of each pairing of
the study groups, with and without income outliers.  Sources may be
delimited files or queries against ClickHouse/Postgres.`,
		SilenceUsage: true,
		RunE:         run,
	}

	flags := cmd.Flags()
	flags.String("income", "", "income CSV file")
	flags.String("demographics", "", "demographic CSV file")
	flags.String("out", "", "directory for plots and excluded-zone files")
	flags.Float64("fence", analysis.DefaultFence, "IQR multiplier for the outlier screen")
	flags.String("db", "", "database DSN; queries replace the CSV sources")
	flags.String("driver", "clickhouse", "database driver: clickhouse or postgres")
	flags.String("income-query", "", "query producing the income table")
	flags.String("demo-query", "", "query producing the demographic table")
	flags.String("browser", "", "open plots in this browser after saving")
	flags.Bool("show", false, "open plots in a browser")
	flags.String("config", "", "YAML config file (may carry column rename maps)")
	flags.Bool("verbose", false, "log each pipeline stage")

	return cmd
}

func run(cmd *cobra.Command, _ []string) error {
	v := viper.New()
	if e := v.BindPFlags(cmd.Flags()); e != nil {
		return e
	}

	v.SetEnvPrefix("zipstudy")
	v.AutomaticEnv()

	if cfg := v.GetString("config"); cfg != "" {
		v.SetConfigFile(cfg)
		if e := v.ReadInConfig(); e != nil {
			return e
		}
	}

	lgr := logger(v.GetBool("verbose"))

	opts := []analysis.StudyOpt{
		analysis.StudyOutDir(v.GetString("out")),
		analysis.StudyFence(v.GetFloat64("fence")),
		analysis.StudyLogger(lgr),
		analysis.StudyWriter(cmd.OutOrStdout()),
	}

	if p := v.GetString("income"); p != "" {
		opts = append(opts, analysis.StudyIncomeCSV(p))
	}

	if p := v.GetString("demographics"); p != "" {
		opts = append(opts, analysis.StudyDemographicsCSV(p))
	}

	if v.GetBool("show") || v.GetString("browser") != "" {
		opts = append(opts, analysis.StudyShow(v.GetString("browser")))
	}

	cfg, e := loadRenames(v.GetString("config"))
	if e != nil {
		return e
	}

	if len(cfg.Income) > 0 {
		opts = append(opts, analysis.StudyLoader(analysis.LoaderIncomeRenames(cfg.Income)))
	}

	if len(cfg.Demo) > 0 {
		opts = append(opts, analysis.StudyLoader(analysis.LoaderDemographicRenames(cfg.Demo)))
	}

	if dsn := v.GetString("db"); dsn != "" {
		dlct, e := dialect(v.GetString("driver"), dsn)
		if e != nil {
			return e
		}
		defer func() { _ = dlct.Close() }()

		opts = append(opts,
			analysis.StudyDB(dlct, v.GetString("income-query"), v.GetString("demo-query")))
	}

	study, e := analysis.NewStudy(opts...)
	if e != nil {
		return e
	}

	_, e = study.Run()

	return e
}

// *********** Helpers ***********

func logger(verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelInfo
	}

	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

func dialect(driver, dsn string) (*zs.Dialect, error) {
	// pgx registers its database/sql driver under "pgx"
	drv := driver
	if drv == "postgres" {
		drv = "pgx"
	}

	db, e := sql.Open(drv, dsn)
	if e != nil {
		return nil, e
	}

	if ex := db.Ping(); ex != nil {
		return nil, ex
	}

	return zs.NewDialect(driver, db)
}

// renameConfig holds the rename-map sections of the config file.
type renameConfig struct {
	Income analysis.RenameMap `yaml:"income-renames"`
	Demo   analysis.RenameMap `yaml:"demo-renames"`
}

// loadRenames reads the rename maps with a direct YAML pass.  viper lowercases
// map keys, which would mangle case-sensitive source headers like ZIPCODE.
func loadRenames(path string) (*renameConfig, error) {
	cfg := &renameConfig{}
	if path == "" {
		return cfg, nil
	}

	raw, e := os.ReadFile(path)
	if e != nil {
		return nil, e
	}

	if ex := yaml.Unmarshal(raw, cfg); ex != nil {
		return nil, ex
	}

	return cfg, nil
}
