package services

import (
	"delivery-scheduler/internal/domain"
	"fmt"

	"github.com/sirupsen/logrus"
)

// dispatch drives a loaded truck through its queue in load order, delivering each
// package on arrival, then takes it back to the depot. The return leg is timed and
// added to the odometer but is not billed to any package. An empty truck stays put.
func (e *Engine) dispatch(truck *domain.Truck) error {
	if truck.Empty() {
		return nil
	}
	if !truck.AtDepot() {
		return fmt.Errorf("dispatch truck %d: loaded away from depot at %q", truck.TruckID, truck.Location)
	}

	departed := truck.Clock
	stops := 0
	for !truck.Empty() {
		pkg := truck.Peek()
		dest := pkg.Location()

		miles, err := e.provider.Distance(truck.Location, dest)
		if err != nil {
			return fmt.Errorf("dispatch truck %d: package %d: %w", truck.TruckID, pkg.PackageID, err)
		}
		truck.Drive(dest, miles, domain.TravelTime(miles, e.cfg.SpeedMPH))

		if _, err := truck.DeliverNext(); err != nil {
			return fmt.Errorf("dispatch truck %d: %w", truck.TruckID, err)
		}
		stops++
	}

	// Return leg to the depot closes the trip.
	back, err := e.provider.Distance(truck.Location, truck.Depot)
	if err != nil {
		return fmt.Errorf("dispatch truck %d: return leg: %w", truck.TruckID, err)
	}
	truck.Drive(truck.Depot, back, domain.TravelTime(back, e.cfg.SpeedMPH))

	logrus.WithFields(logrus.Fields{
		"truck":    truck.TruckID,
		"departed": departed.String(),
		"returned": truck.Clock.String(),
		"stops":    stops,
		"odometer": truck.Odometer,
	}).Debug("truck returned to depot")

	return nil
}
