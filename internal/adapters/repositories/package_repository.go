package repositories

import (
	"context"
	"database/sql"
	"delivery-scheduler/internal/domain"
	"delivery-scheduler/internal/platform/obs"
	"delivery-scheduler/internal/ports"
	"errors"
	"fmt"
)

var _ ports.PackageRepository = (*SQLPackageRepository)(nil)

// SQL-backed implementation of the PackageRepository port.
type SQLPackageRepository struct {
	DB      *sql.DB
	Dialect Dialect
}

func NewSQLPackageRepository(db *sql.DB, d Dialect) *SQLPackageRepository {
	return &SQLPackageRepository{DB: db, Dialect: d}
}

// Return all packages stored in the database, ordered by id. Rows come back at the
// hub with no routing state.
func (s *SQLPackageRepository) ListPackages(ctx context.Context) (_ []*domain.Package, err error) {
	defer obs.Time(ctx, "repositories.ListPackages")(&err)

	if s.DB == nil {
		return nil, errors.New("package repository: DB is nil")
	}

	query := `
	SELECT
		package_id,
		street,
		city,
		state,
		zip,
		deadline,
		weight,
		note
	FROM packages
	ORDER BY package_id;
	`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list packages: query packages table: %w", err)
	}
	defer rows.Close()

	packages := make([]*domain.Package, 0, 64)
	for rows.Next() {
		var (
			id       int
			addr     domain.Address
			deadline string
			weight   float64
			note     string
		)
		if err := rows.Scan(&id, &addr.Street, &addr.City, &addr.State, &addr.Zip, &deadline, &weight, &note); err != nil {
			return nil, fmt.Errorf("list packages: scan row: %w", err)
		}
		due, err := domain.ParseTimeOfDay(deadline)
		if err != nil {
			return nil, fmt.Errorf("list packages: package_id=%d: %w", id, err)
		}
		packages = append(packages, domain.NewPackage(id, addr, weight, due, note))
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list packages: row iteration: %w", err)
	}

	return packages, nil
}
