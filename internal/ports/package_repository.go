package ports

import (
	"context"
	"delivery-scheduler/internal/domain"
)

// Port: a boundary for retrieving Package records from a data source.
type PackageRepository interface {
	// Retrieve all packages available for routing, ordered by package id.
	ListPackages(ctx context.Context) ([]*domain.Package, error)
}
