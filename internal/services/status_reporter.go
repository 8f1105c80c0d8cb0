package services

import (
	"delivery-scheduler/internal/domain"
	"delivery-scheduler/internal/store"
	"fmt"
	"strconv"
	"strings"
)

// StatusReport is a package's state as seen at a query time.
type StatusReport struct {
	PackageID     int
	At            domain.TimeOfDay
	Status        domain.DeliveryStatus
	Address       domain.Address
	Deadline      domain.TimeOfDay
	Weight        float64
	Note          string
	TruckID       *int
	TimeLoaded    *domain.TimeOfDay
	TimeDelivered *domain.TimeOfDay
}

// StatusAt classifies a package at time t from its recorded timestamps.
//
// Transition instants report the later state: at t == loaded the package is
// EN_ROUTE, at t == delivered it is DELIVERED. Only fields populated so far are
// consulted, so the projection is safe mid-simulation.
func StatusAt(pkg *domain.Package, t domain.TimeOfDay) StatusReport {
	r := StatusReport{
		PackageID: pkg.PackageID,
		At:        t,
		Status:    domain.StatusAtHub,
		Address:   pkg.Address,
		Deadline:  pkg.Deadline,
		Weight:    pkg.Weight,
		Note:      pkg.SpecialNote,
	}

	if pkg.TimeLoaded == nil || t.Before(*pkg.TimeLoaded) {
		return r
	}
	r.TruckID = pkg.TruckID
	r.TimeLoaded = pkg.TimeLoaded

	if pkg.TimeDelivered == nil || t.Before(*pkg.TimeDelivered) {
		r.Status = domain.StatusEnRoute
		return r
	}
	r.Status = domain.StatusDelivered
	r.TimeDelivered = pkg.TimeDelivered
	return r
}

func (r StatusReport) String() string {
	prefix := fmt.Sprintf("Package %02d - %s", r.PackageID, r.Status)
	switch r.Status {
	case domain.StatusDelivered:
		return fmt.Sprintf("%s at %s by truck %d (deadline %s)", prefix, r.TimeDelivered, truckOf(r), r.Deadline.Short())
	case domain.StatusEnRoute:
		return fmt.Sprintf("%s to %s on truck %d", prefix, r.Address.Key(), truckOf(r))
	default:
		s := fmt.Sprintf("%s (deadline %s", prefix, r.Deadline.Short())
		if r.Note != "" {
			s += ", notes: " + r.Note
		}
		return s + ")"
	}
}

func truckOf(r StatusReport) int {
	if r.TruckID == nil {
		return 0
	}
	return *r.TruckID
}

// Reporter answers status queries against routed packages. It never mutates them.
type Reporter struct {
	store      *store.PackageStore
	totalMiles float64
}

func NewReporter(packages *store.PackageStore, result *RunResult) *Reporter {
	r := &Reporter{store: packages}
	if result != nil {
		r.totalMiles = result.TotalMiles
	}
	return r
}

// ParseQueryTime parses a user-supplied time, reporting malformed values as rejected input.
func ParseQueryTime(at string) (domain.TimeOfDay, error) {
	t, err := domain.ParseTimeOfDay(at)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrRejectedInput, err)
	}
	return t, nil
}

// ParsePackageID parses a user-supplied id, reporting malformed values as rejected input.
func ParsePackageID(raw string) (int, error) {
	id, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, fmt.Errorf("%w: package id %q is not a number", ErrRejectedInput, raw)
	}
	return id, nil
}

// Status reports one package at a query time string.
func (r *Reporter) Status(id int, at string) (StatusReport, error) {
	t, err := ParseQueryTime(at)
	if err != nil {
		return StatusReport{}, err
	}
	return r.StatusAt(id, t)
}

// StatusAt reports one package at a parsed time.
func (r *Reporter) StatusAt(id int, t domain.TimeOfDay) (StatusReport, error) {
	if id < 1 {
		return StatusReport{}, fmt.Errorf("%w: package id %d must be positive", ErrRejectedInput, id)
	}
	pkg, ok := r.store.Lookup(id)
	if !ok {
		return StatusReport{}, fmt.Errorf("%w: id %d", ErrPackageNotFound, id)
	}
	return StatusAt(pkg, t), nil
}

// AllStatuses reports every package in insertion order.
func (r *Reporter) AllStatuses(at string) ([]StatusReport, error) {
	t, err := ParseQueryTime(at)
	if err != nil {
		return nil, err
	}
	return r.AllStatusesAt(t), nil
}

func (r *Reporter) AllStatusesAt(t domain.TimeOfDay) []StatusReport {
	pkgs := r.store.Packages()
	out := make([]StatusReport, 0, len(pkgs))
	for _, pkg := range pkgs {
		out = append(out, StatusAt(pkg, t))
	}
	return out
}

// TotalMileage is the sum of the active trucks' odometers.
func (r *Reporter) TotalMileage() float64 { return r.totalMiles }

// PackageCount is the number of distinct packages known to the reporter.
func (r *Reporter) PackageCount() int { return len(r.store.Packages()) }
