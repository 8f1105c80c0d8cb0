package domain

// Represents a single stop in a delivery route.
// A RouteStop corresponds to arriving at a specific location at a computed time,
// and delivering one or more packages associated with that location.
type RouteStop struct {
	Destination string
	ArriveAt    TimeOfDay
	PackageIDs  []int
}

// Represents the driven route of a single truck for the simulated day.
// A RoutePlan is derived from the truck's delivery log once routing has finished
// and contains no side effects.
type RoutePlan struct {
	TruckID    int
	DepartAt   TimeOfDay
	ReturnAt   TimeOfDay
	Stops      []RouteStop
	TotalMiles float64
}

// BuildRoutePlan groups consecutive deliveries at the same location into one stop.
func BuildRoutePlan(truck *Truck, departAt TimeOfDay) *RoutePlan {
	plan := &RoutePlan{
		TruckID:    truck.TruckID,
		DepartAt:   departAt,
		ReturnAt:   truck.Clock,
		Stops:      []RouteStop{},
		TotalMiles: truck.Odometer,
	}

	for _, pkg := range truck.Delivered() {
		if pkg.TimeDelivered == nil {
			continue
		}
		n := len(plan.Stops)
		if n > 0 && plan.Stops[n-1].Destination == pkg.Location() && plan.Stops[n-1].ArriveAt == *pkg.TimeDelivered {
			plan.Stops[n-1].PackageIDs = append(plan.Stops[n-1].PackageIDs, pkg.PackageID)
			continue
		}
		plan.Stops = append(plan.Stops, RouteStop{
			Destination: pkg.Location(),
			ArriveAt:    *pkg.TimeDelivered,
			PackageIDs:  []int{pkg.PackageID},
		})
	}

	return plan
}
