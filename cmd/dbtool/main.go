package main

import (
	"context"
	"database/sql"
	"delivery-scheduler/internal/adapters/ingest"
	"delivery-scheduler/internal/adapters/repositories"
	"delivery-scheduler/internal/config"
	"delivery-scheduler/internal/platform/db"
	"fmt"

	"github.com/sirupsen/logrus"
)

// dbtool initializes the schema and seeds packages and distances from the CSV inputs.
// DATABASE_URL selects Postgres; otherwise DB_PATH names a SQLite file.
func main() {
	config.LoadEnv()
	settings := config.FromEnv()

	if level, err := logrus.ParseLevel(settings.LogLevel); err == nil {
		logrus.SetLevel(level)
	}

	conn, err := db.Open(settings.DBDriver, settings.DBDSN)
	if err != nil {
		logrus.Fatal(err)
	}
	defer conn.Close()

	d, err := repositories.DialectFor(settings.DBDriver)
	if err != nil {
		logrus.Fatal(err)
	}

	if err := initAndSeed(context.Background(), conn, d, settings); err != nil {
		logrus.Fatal(err)
	}
}

func initAndSeed(ctx context.Context, conn *sql.DB, d repositories.Dialect, settings config.Settings) error {
	logrus.WithField("dialect", d.String()).Info("Initializing database schema...")
	if err := repositories.InitSchema(ctx, conn, d); err != nil {
		return err
	}
	logrus.Info("Schema ready.")

	pkgs, err := ingest.LoadPackagesCSV(settings.PackagesPath)
	if err != nil {
		return err
	}
	idx, err := ingest.LoadDistancesCSV(settings.DistancesPath)
	if err != nil {
		return err
	}

	logrus.WithFields(logrus.Fields{
		"packages":  len(pkgs),
		"locations": len(idx.Locations()),
	}).Info("Seeding database...")
	if err := repositories.SeedPackages(ctx, conn, d, pkgs); err != nil {
		return err
	}
	distances := repositories.NewSQLDistanceRepository(conn, d)
	if err := distances.SaveIndex(ctx, idx); err != nil {
		return err
	}

	// Every package must be routable from what was stored.
	stored, err := distances.LoadIndex(ctx)
	if err != nil {
		return err
	}
	for _, p := range pkgs {
		if !stored.Has(p.Location()) {
			return fmt.Errorf("seed check: package %d location %q missing from stored distances", p.PackageID, p.Location())
		}
	}
	logrus.WithField("locations", len(stored.Locations())).Info("Seeding complete.")

	return nil
}
