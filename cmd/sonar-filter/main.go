// Command sonar-filter loads a snapshot filter document from YAML, compiles it
// for a SQL dialect, and either prints the statement or executes it and prints
// the ordered snapshot ids.
package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/fatih/color"
	jsoniter "github.com/json-iterator/go"
	_ "github.com/lib/pq"           // postgres driver
	_ "github.com/mattn/go-sqlite3" // embedded sqlite driver
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/toshiaki61/sonar/filters"
	"github.com/toshiaki61/sonar/filters/sqlengine"
)

const queryTimeout = 30 * time.Second

// Options holds the flags of the sonar-filter command.
type Options struct {
	Driver  string
	DSN     string
	Dialect string
	SQLOnly bool
	Verbose bool

	SnapshotTable string
	ResourceTable string
	MeasureTable  string
}

func main() {
	if err := NewRootCommand().Execute(); err != nil {
		color.New(color.FgRed).Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}
}

// NewRootCommand creates the sonar-filter command.
func NewRootCommand() *cobra.Command {
	opts := &Options{}

	cmd := &cobra.Command{
		Use:   "sonar-filter <filter.yaml>",
		Short: "Query a resource snapshot store with a declarative filter",
		Long: `sonar-filter compiles a YAML filter document into dialect-specific SQL
against a resource snapshot store and prints the matching snapshot ids in
the filter's sort order.

The document mirrors the saved-filter JSON shape, for example:

    qualifiers: [TRK, BRC]
    languages: [java]
    measure_criteria:
      - {metric_id: 2, operator: ">", value: 50}
    sort_field: name`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), opts, args[0])
		},
	}

	cmd.Flags().StringVar(&opts.Driver, "driver", "sqlite3", "database driver (sqlite3|postgres)")
	cmd.Flags().StringVar(&opts.DSN, "dsn", "", "database connection string")
	cmd.Flags().StringVar(&opts.Dialect, "dialect", "", "SQL dialect (sqlite3|postgres|sqlserver), defaults to the driver")
	cmd.Flags().BoolVar(&opts.SQLOnly, "sql-only", false, "print the compiled SQL instead of executing it")
	cmd.Flags().BoolVarP(&opts.Verbose, "verbose", "v", false, "log SQL statements and timings")
	cmd.Flags().StringVar(&opts.SnapshotTable, "snapshot-table", "", "override the snapshot table name")
	cmd.Flags().StringVar(&opts.ResourceTable, "resource-table", "", "override the resource table name")
	cmd.Flags().StringVar(&opts.MeasureTable, "measure-table", "", "override the measure table name")

	return cmd
}

func run(ctx context.Context, opts *Options, filterPath string) error {
	filter, err := loadFilterDocument(filterPath)
	if err != nil {
		return err
	}

	dialect, err := resolveDialect(opts)
	if err != nil {
		return err
	}

	executor, closeDB, err := buildExecutor(opts, dialect)
	if err != nil {
		return err
	}
	defer closeDB()

	if opts.SQLOnly {
		return printSQL(executor, filter)
	}

	ctxWithTimeout, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	result, err := executor.Execute(ctxWithTimeout, filter)
	if err != nil {
		return err
	}

	printResult(result)

	return nil
}

// loadFilterDocument reads a YAML filter document and rebuilds the filter
// through the saved-filter codec, so a stored document is validated exactly
// like a freshly configured one.
func loadFilterDocument(path string) (filters.Filter, error) {
	data, readErr := os.ReadFile(path)
	if readErr != nil {
		return filters.Filter{}, fmt.Errorf("reading filter document: %w", readErr)
	}

	var document any
	if yamlErr := yaml.Unmarshal(data, &document); yamlErr != nil {
		return filters.Filter{}, fmt.Errorf("parsing filter document: %w", yamlErr)
	}

	jsonData, marshalErr := jsoniter.ConfigFastest.Marshal(document)
	if marshalErr != nil {
		return filters.Filter{}, fmt.Errorf("converting filter document: %w", marshalErr)
	}

	filter, buildErr := filters.UnmarshalFilterJSON(jsonData)
	if buildErr != nil {
		return filters.Filter{}, fmt.Errorf("invalid filter document %s: %w", path, buildErr)
	}

	return filter, nil
}

func resolveDialect(opts *Options) (sqlengine.Dialect, error) {
	name := opts.Dialect
	if name == "" {
		name = opts.Driver
	}

	switch name {
	case sqlengine.SQLite().Name():
		return sqlengine.SQLite(), nil
	case sqlengine.Postgres().Name():
		return sqlengine.Postgres(), nil
	case sqlengine.SQLServer().Name():
		return sqlengine.SQLServer(), nil
	default:
		return nil, fmt.Errorf("unsupported dialect %q", name)
	}
}

func buildExecutor(opts *Options, dialect sqlengine.Dialect) (sqlengine.FilterExecutor, func(), error) {
	dsn := opts.DSN
	if dsn == "" {
		if !opts.SQLOnly {
			return sqlengine.FilterExecutor{}, nil, errors.New("--dsn is required unless --sql-only is set")
		}

		// compiling needs no storage
		opts.Driver = "sqlite3"
		dsn = ":memory:"
	}

	db, openErr := sql.Open(opts.Driver, dsn)
	if openErr != nil {
		return sqlengine.FilterExecutor{}, nil, fmt.Errorf("opening database: %w", openErr)
	}

	options := make([]sqlengine.Option, 0)
	if opts.SnapshotTable != "" {
		options = append(options, sqlengine.WithSnapshotTableName(opts.SnapshotTable))
	}
	if opts.ResourceTable != "" {
		options = append(options, sqlengine.WithResourceTableName(opts.ResourceTable))
	}
	if opts.MeasureTable != "" {
		options = append(options, sqlengine.WithMeasureTableName(opts.MeasureTable))
	}
	if opts.Verbose {
		logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
		options = append(options, sqlengine.WithLogger(logger))
	}

	executor, buildErr := sqlengine.NewFromSQLDB(db, dialect, options...)
	if buildErr != nil {
		_ = db.Close()
		return sqlengine.FilterExecutor{}, nil, buildErr
	}

	return executor, func() { _ = db.Close() }, nil
}

func printSQL(executor sqlengine.FilterExecutor, filter filters.Filter) error {
	sqlQuery, args, err := executor.ToSQL(filter)
	if err != nil {
		return err
	}

	fmt.Println(sqlQuery)

	if len(args) > 0 {
		color.New(color.FgCyan).Printf("-- %d bound parameter(s): %v\n", len(args), args)
	}

	return nil
}

func printResult(result filters.Result) {
	bold := color.New(color.Bold)
	green := color.New(color.FgGreen)

	bold.Printf("%d snapshot(s)\n", result.Size())

	for _, row := range result.Rows() {
		if row.SortKey() != nil {
			green.Printf("%d", row.SnapshotID())
			fmt.Printf("\t%v\n", row.SortKey())

			continue
		}

		green.Printf("%d\n", row.SnapshotID())
	}
}
