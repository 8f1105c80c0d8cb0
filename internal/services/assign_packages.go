package services

import (
	"delivery-scheduler/internal/domain"
	"fmt"

	"github.com/sirupsen/logrus"
)

// loadWave fills each active truck in turn, up to capacity, by repeated nearest-candidate
// selection starting from the depot. Trucks load against their own clocks.
// It returns how many packages were loaded across the fleet.
func (e *Engine) loadWave() (int, error) {
	total := 0
	for _, truck := range e.active {
		var current *domain.Package
		loaded := 0
		for !truck.Full() {
			pkg, err := e.nextCandidate(truck, current)
			if err != nil {
				return total, fmt.Errorf("load wave: truck %d: %w", truck.TruckID, err)
			}
			if pkg == nil {
				break
			}
			if err := truck.Load(pkg); err != nil {
				return total, fmt.Errorf("load wave: %w", err)
			}
			current = pkg
			loaded++
		}
		total += loaded

		if loaded > 0 && logrus.IsLevelEnabled(logrus.DebugLevel) {
			logrus.WithFields(logrus.Fields{
				"wave":   e.waves + 1,
				"truck":  truck.TruckID,
				"at":     truck.Clock.String(),
				"loaded": loaded,
				"queue":  queuedIDs(truck),
			}).Debug("truck loaded")
		}
	}
	return total, nil
}

func queuedIDs(truck *domain.Truck) []int {
	queued := truck.Queued()
	ids := make([]int, len(queued))
	for i, p := range queued {
		ids[i] = p.PackageID
	}
	return ids
}
