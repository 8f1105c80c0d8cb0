package domain

import (
	"fmt"
	"time"
)

// Delivery truck state owned by the routing engine: a private simulated clock,
// the current location, accumulated miles, a FIFO load queue and the delivered log.
type Truck struct {
	TruckID  int
	Capacity int
	Depot    string

	Location string
	Clock    TimeOfDay
	Odometer float64

	queue     []*Package
	delivered []*Package
}

func NewTruck(id int, capacity int, depot string, start TimeOfDay) *Truck {
	return &Truck{
		TruckID:  id,
		Capacity: capacity,
		Depot:    depot,
		Location: depot,
		Clock:    start,
	}
}

// Load a single package onto the truck at the truck's current clock.
func (t *Truck) Load(pkg *Package) error {
	if len(t.queue) >= t.Capacity {
		return fmt.Errorf("load truck: Truck %d is at full capacity (capacity=%d)", t.TruckID, t.Capacity)
	}
	if err := pkg.MarkLoaded(t.TruckID, t.Clock); err != nil {
		return fmt.Errorf("load truck %d: %w", t.TruckID, err)
	}
	t.queue = append(t.queue, pkg)
	return nil
}

// Queued returns the loaded-but-undelivered packages in visit order.
func (t *Truck) Queued() []*Package {
	out := make([]*Package, len(t.queue))
	copy(out, t.queue)
	return out
}

// Delivered returns the delivery log in delivery order.
func (t *Truck) Delivered() []*Package {
	out := make([]*Package, len(t.delivered))
	copy(out, t.delivered)
	return out
}

func (t *Truck) Full() bool { return len(t.queue) >= t.Capacity }

func (t *Truck) Empty() bool { return len(t.queue) == 0 }

// Drive moves the truck to a new location, advancing its clock and odometer.
func (t *Truck) Drive(to string, miles float64, travel time.Duration) {
	t.Location = to
	t.Odometer += miles
	t.Clock = t.Clock.Add(travel)
}

// DeliverNext dequeues the head of the queue and marks it delivered at the current clock.
// The truck must already be at the package's location.
func (t *Truck) DeliverNext() (*Package, error) {
	if len(t.queue) == 0 {
		return nil, fmt.Errorf("deliver: truck %d has no queued packages", t.TruckID)
	}
	pkg := t.queue[0]
	if err := pkg.MarkDelivered(t.Clock); err != nil {
		return nil, fmt.Errorf("deliver: truck %d: %w", t.TruckID, err)
	}
	t.queue[0] = nil
	t.queue = t.queue[1:]
	t.delivered = append(t.delivered, pkg)
	return pkg, nil
}

// Peek returns the next package to deliver without removing it.
func (t *Truck) Peek() *Package {
	if len(t.queue) == 0 {
		return nil
	}
	return t.queue[0]
}

// Advance moves the clock forward without driving (stall recovery).
func (t *Truck) Advance(d time.Duration) {
	t.Clock = t.Clock.Add(d)
}

// AtDepot reports whether the truck is parked at its depot.
func (t *Truck) AtDepot() bool { return t.Location == t.Depot }
