package ports

import (
	"context"
	"delivery-scheduler/internal/domain"
	"time"
)

// RunRecord is the persisted outcome of one routing run.
type RunRecord struct {
	RunID        string
	CreatedAt    time.Time
	TotalMiles   float64
	TruckMiles   map[int]float64
	Packages     []*domain.Package
	LatePackages []int
}

// Port: a sink for finished routing runs.
type RunRepository interface {
	SaveRun(ctx context.Context, run RunRecord) error
}
