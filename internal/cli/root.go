// Package cli is the command-line front end: route the day, query package status and
// serve the status API.
package cli

import (
	"context"
	"database/sql"
	"delivery-scheduler/internal/adapters/ingest"
	"delivery-scheduler/internal/adapters/repositories"
	"delivery-scheduler/internal/config"
	"delivery-scheduler/internal/domain"
	"delivery-scheduler/internal/platform/db"
	"delivery-scheduler/internal/ports"
	"delivery-scheduler/internal/services"
	"delivery-scheduler/internal/store"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

const (
	sourceCSV = "csv"
	sourceDB  = "db"
)

// options are the flags shared by every subcommand.
type options struct {
	logLevel  string
	packages  string
	distances string
	scenario  string
	buckets   int
	source    string
	dbDriver  string
	dbDSN     string
	httpAddr  string
	settings  config.Settings
}

// NewRootCmd builds the command tree with defaults taken from the environment.
func NewRootCmd(settings config.Settings) *cobra.Command {
	o := &options{settings: settings}

	root := &cobra.Command{
		Use:           "scheduler",
		Short:         "Route the day's packages and answer status queries",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level, err := logrus.ParseLevel(o.logLevel)
			if err != nil {
				return fmt.Errorf("invalid log level %q: %w", o.logLevel, err)
			}
			logrus.SetLevel(level)
			return nil
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&o.logLevel, "log", settings.LogLevel, "Log level (trace, debug, info, warn, error, fatal, panic)")
	flags.StringVar(&o.packages, "packages", settings.PackagesPath, "Package CSV file")
	flags.StringVar(&o.distances, "distances", settings.DistancesPath, "Distance table CSV file")
	flags.StringVar(&o.scenario, "scenario", settings.ScenarioPath, "Scenario YAML file (built-in defaults apply when set to \"\")")
	flags.IntVar(&o.buckets, "buckets", settings.Buckets, "Package store bucket count")
	flags.StringVar(&o.source, "source", sourceCSV, "Input source: csv or db")
	flags.StringVar(&o.dbDriver, "db-driver", settings.DBDriver, "Database driver (sqlite or pgx)")
	flags.StringVar(&o.dbDSN, "db-dsn", settings.DBDSN, "Database DSN or SQLite path")

	root.AddCommand(
		newRunCmd(o),
		newStatusCmd(o),
		newShellCmd(o),
		newServeCmd(o),
	)
	return root
}

// Execute runs the CLI with .env and environment defaults.
func Execute() {
	config.LoadEnv()
	if err := NewRootCmd(config.FromEnv()).Execute(); err != nil {
		logrus.Error(err)
		os.Exit(1)
	}
}

// distanceSource is a distance provider that can also confirm a location exists.
type distanceSource interface {
	ports.DistanceMatrixProvider
	Has(location string) bool
}

// loadInputs reads packages and opens the distance source. For the db source the
// distance table stays in the database and is queried during the run; the returned
// closer releases the connection.
func loadInputs(ctx context.Context, o *options) ([]*domain.Package, distanceSource, func(), error) {
	switch o.source {
	case sourceCSV:
		pkgs, err := ingest.LoadPackagesCSV(o.packages)
		if err != nil {
			return nil, nil, nil, err
		}
		idx, err := ingest.LoadDistancesCSV(o.distances)
		if err != nil {
			return nil, nil, nil, err
		}
		return pkgs, idx, func() {}, nil

	case sourceDB:
		conn, d, err := openDB(o)
		if err != nil {
			return nil, nil, nil, err
		}
		closer := func() { _ = conn.Close() }

		pkgs, err := repositories.NewSQLPackageRepository(conn, d).ListPackages(ctx)
		if err != nil {
			closer()
			return nil, nil, nil, err
		}
		distances := repositories.NewSQLDistanceRepository(conn, d).WithContext(ctx)
		return pkgs, distances, closer, nil

	default:
		return nil, nil, nil, fmt.Errorf("unknown source %q (want %s or %s)", o.source, sourceCSV, sourceDB)
	}
}

// route loads the inputs and plays the whole day.
func route(ctx context.Context, o *options) (*store.PackageStore, *services.RunResult, error) {
	cfg, err := config.ResolveEngineConfig(o.scenario)
	if err != nil {
		return nil, nil, err
	}

	pkgs, distances, closeInputs, err := loadInputs(ctx, o)
	if err != nil {
		return nil, nil, err
	}
	defer closeInputs()

	if !distances.Has(cfg.Depot) {
		return nil, nil, fmt.Errorf("depot %q missing from distance table", cfg.Depot)
	}

	s, err := ingest.BuildStore(pkgs, o.buckets)
	if err != nil {
		return nil, nil, err
	}

	engine, err := services.NewEngine(cfg, s, distances)
	if err != nil {
		return nil, nil, err
	}
	res, err := engine.Run(ctx)
	if err != nil {
		return nil, nil, err
	}
	return s, res, nil
}

func openDB(o *options) (*sql.DB, repositories.Dialect, error) {
	d, err := repositories.DialectFor(o.dbDriver)
	if err != nil {
		return nil, 0, err
	}
	conn, err := db.Open(o.dbDriver, o.dbDSN)
	if err != nil {
		return nil, 0, err
	}
	return conn, d, nil
}
