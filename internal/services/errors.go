package services

import (
	"delivery-scheduler/internal/domain"
	"errors"
	"fmt"
)

var (
	// ErrRejectedInput marks query input that is malformed or out of range.
	ErrRejectedInput = errors.New("rejected input")
	// ErrPackageNotFound is a rejected id that is well formed but unknown.
	ErrPackageNotFound = fmt.Errorf("%w: package not found", ErrRejectedInput)
)

// StrandedPackagesError is returned when repeated stall recovery makes no progress,
// e.g. a package requires a truck that never runs.
type StrandedPackagesError struct {
	PackageIDs []int
	Recoveries int
	Clock      domain.TimeOfDay
}

func (e *StrandedPackagesError) Error() string {
	return fmt.Sprintf("run: no progress after %d stall recoveries (clock %s); stranded packages %v",
		e.Recoveries, e.Clock, e.PackageIDs)
}
