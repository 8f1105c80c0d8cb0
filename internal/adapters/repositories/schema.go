package repositories

import (
	"context"
	"database/sql"
	"delivery-scheduler/internal/domain"
	"delivery-scheduler/internal/platform/obs"
	"errors"
	"fmt"
)

// Initialize the database schema. Statements are portable across SQLite and Postgres.
func InitSchema(ctx context.Context, db *sql.DB, d Dialect) (err error) {
	defer obs.Time(ctx, "repositories.InitSchema")(&err)

	if db == nil {
		return errors.New("init schema: DB is nil")
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	createPackagesQuery := `
	CREATE TABLE IF NOT EXISTS packages (
		package_id INTEGER PRIMARY KEY,
		street TEXT NOT NULL,
		city TEXT NOT NULL,
		state TEXT NOT NULL,
		zip TEXT NOT NULL,
		deadline TEXT NOT NULL,
		weight REAL NOT NULL,
		note TEXT NOT NULL DEFAULT ''
	);
	`

	createDistancesQuery := `
	CREATE TABLE IF NOT EXISTS distances (
		origin TEXT NOT NULL,
		destination TEXT NOT NULL,
		miles REAL NOT NULL,
		PRIMARY KEY (origin, destination)
	);
	`

	createRunsQuery := `
	CREATE TABLE IF NOT EXISTS runs (
		run_id TEXT PRIMARY KEY,
		created_at TEXT NOT NULL,
		total_miles REAL NOT NULL,
		late_packages TEXT NOT NULL DEFAULT ''
	);
	`

	createRunTrucksQuery := `
	CREATE TABLE IF NOT EXISTS run_trucks (
		run_id TEXT NOT NULL REFERENCES runs(run_id),
		truck_id INTEGER NOT NULL,
		miles REAL NOT NULL,
		PRIMARY KEY (run_id, truck_id)
	);
	`

	createDeliveriesQuery := `
	CREATE TABLE IF NOT EXISTS deliveries (
		run_id TEXT NOT NULL REFERENCES runs(run_id),
		package_id INTEGER NOT NULL,
		truck_id INTEGER,
		street TEXT NOT NULL,
		zip TEXT NOT NULL,
		loaded_at TEXT,
		delivered_at TEXT,
		PRIMARY KEY (run_id, package_id)
	);
	`

	createIndexQuery := `
	CREATE INDEX IF NOT EXISTS idx_distances_destination_origin
	ON distances(destination, origin);
	`

	statements := []string{
		createPackagesQuery,
		createDistancesQuery,
		createRunsQuery,
		createRunTrucksQuery,
		createDeliveriesQuery,
		createIndexQuery,
	}

	for i, stmt := range statements {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("init schema (%s): exec statement #%d: %w", d, i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}

	return nil
}

// Upsert packages by id in one transaction.
func SeedPackages(ctx context.Context, db *sql.DB, d Dialect, pkgs []*domain.Package) error {
	if db == nil {
		return errors.New("seed packages: DB is nil")
	}

	for i, p := range pkgs {
		if p == nil || p.PackageID <= 0 {
			return fmt.Errorf("seed packages: invalid package at index %d", i+1)
		}
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("seed packages: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	query := d.Upsert("packages",
		[]string{"package_id", "street", "city", "state", "zip", "deadline", "weight", "note"},
		[]string{"package_id"},
	)
	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return fmt.Errorf("seed packages: prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, p := range pkgs {
		_, err := stmt.ExecContext(ctx,
			p.PackageID,
			p.Address.Street,
			p.Address.City,
			p.Address.State,
			p.Address.Zip,
			p.Deadline.String(),
			p.Weight,
			p.SpecialNote,
		)
		if err != nil {
			return fmt.Errorf("seed packages: insert package_id=%d: %w", p.PackageID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed packages: commit tx: %w", err)
	}

	return nil
}
