package services

import (
	"delivery-scheduler/internal/domain"
	"delivery-scheduler/internal/ports"
	"fmt"

	"github.com/sirupsen/logrus"
)

// CandidateQuery describes one selection step for a loading truck.
type CandidateQuery struct {
	TruckID int
	At      domain.TimeOfDay
	// Origin is the location of the last package loaded this wave, or the depot.
	Origin           string
	PriorityDeadline *domain.TimeOfDay
}

// eligible reports whether the package may be loaded by the querying truck right now.
func (q CandidateQuery) eligible(pkg *domain.Package) bool {
	if pkg.Status != domain.StatusAtHub {
		return false
	}
	if !pkg.CanRideOn(q.TruckID) {
		return false
	}
	return pkg.IsAvailable(q.At)
}

// urgent reports whether the package is inside the priority window. Without a
// priority deadline, or once the clock has passed it, every package is urgent.
func (q CandidateQuery) urgent(pkg *domain.Package) bool {
	if q.PriorityDeadline == nil || !q.At.Before(*q.PriorityDeadline) {
		return true
	}
	return !pkg.Deadline.After(*q.PriorityDeadline)
}

// NearestCandidate picks the next package for a loading truck using a greedy
// nearest-neighbor step.
//
// Candidates are scanned in the given order. Ineligible packages (wrong truck,
// not yet at the depot, already loaded) are skipped. While the clock is before the
// priority deadline, an urgent candidate always beats a non-urgent one; a non-urgent
// candidate is only chosen when no urgent one is eligible, so priority never leaves a
// truck idle. Within a tier the closest candidate wins and ties keep the first one
// encountered. The result is reproducible, not optimal.
//
// The scan is read-only: address corrections must be applied before calling it.
// A nil package with a nil error means nothing is eligible at this instant.
func NearestCandidate(
	candidates []*domain.Package,
	q CandidateQuery,
	provider ports.DistanceProvider,
) (*domain.Package, error) {
	eligible := make([]*domain.Package, 0, len(candidates))
	destinations := make([]string, 0, len(candidates))
	for _, pkg := range candidates {
		if !q.eligible(pkg) {
			continue
		}
		eligible = append(eligible, pkg)
		destinations = append(destinations, pkg.Location())
	}
	if len(eligible) == 0 {
		return nil, nil
	}

	var (
		distances map[string]float64
		err       error
	)

	// Prefer batched distance lookups when supported.
	if mp, ok := provider.(ports.DistanceMatrixProvider); ok {
		distances, err = mp.Distances(q.Origin, destinations)
		if err != nil {
			return nil, fmt.Errorf("nearest candidate: truck %d from %q: %w", q.TruckID, q.Origin, err)
		}
	} else {
		distances = make(map[string]float64, len(destinations))
		for _, d := range destinations {
			miles, e := provider.Distance(q.Origin, d)
			if e != nil {
				return nil, fmt.Errorf("nearest candidate: truck %d from %q: %w", q.TruckID, q.Origin, e)
			}
			distances[d] = miles
		}
	}

	var (
		best       *domain.Package
		bestMiles  float64
		bestUrgent bool
	)
	for _, pkg := range eligible {
		miles, ok := distances[pkg.Location()]
		if !ok {
			return nil, fmt.Errorf("nearest candidate: missing distance from %q to %q", q.Origin, pkg.Location())
		}
		urgent := q.urgent(pkg)

		switch {
		case best == nil:
		case urgent && !bestUrgent:
		case urgent == bestUrgent && miles < bestMiles:
		default:
			continue
		}
		best, bestMiles, bestUrgent = pkg, miles, urgent
	}

	logrus.WithFields(logrus.Fields{
		"truck":   q.TruckID,
		"at":      q.At.String(),
		"origin":  q.Origin,
		"package": best.PackageID,
		"miles":   bestMiles,
		"urgent":  bestUrgent,
	}).Trace("candidate selected")

	return best, nil
}

// applyDueCorrections is the first phase of every selection step: packages still at
// the hub whose correction time has arrived get their address rewritten before any
// distance is computed.
func (e *Engine) applyDueCorrections(at domain.TimeOfDay) {
	for _, pkg := range e.packages() {
		if pkg.Status != domain.StatusAtHub {
			continue
		}
		before := pkg.Location()
		if pkg.ApplyCorrectionIfDue(at) {
			logrus.WithFields(logrus.Fields{
				"package": pkg.PackageID,
				"at":      at.String(),
				"from":    before,
				"to":      pkg.Location(),
			}).Info("address corrected")
		}
	}
}

// nextCandidate runs one two-phase selection step for a truck.
func (e *Engine) nextCandidate(truck *domain.Truck, current *domain.Package) (*domain.Package, error) {
	e.applyDueCorrections(truck.Clock)

	origin := truck.Depot
	if current != nil {
		origin = current.Location()
	}

	return NearestCandidate(e.packages(), CandidateQuery{
		TruckID:          truck.TruckID,
		At:               truck.Clock,
		Origin:           origin,
		PriorityDeadline: e.cfg.PriorityDeadline,
	}, e.provider)
}
