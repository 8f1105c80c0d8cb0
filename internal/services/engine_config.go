package services

import (
	"delivery-scheduler/internal/domain"
	"errors"
	"fmt"
	"time"
)

// EngineConfig holds the fleet and policy knobs of a routing run.
type EngineConfig struct {
	Depot string

	// StartTime is every truck's initial clock unless TruckStartTimes overrides it.
	StartTime       domain.TimeOfDay
	TruckStartTimes map[int]domain.TimeOfDay

	// FleetSize trucks are instantiated; only the first ActiveTrucks are dispatched.
	FleetSize     int
	ActiveTrucks  int
	TruckCapacity int
	SpeedMPH      float64

	// PriorityDeadline biases selection toward packages due at or before it while
	// the loading truck's clock is still earlier than it. Nil disables the bias.
	PriorityDeadline *domain.TimeOfDay

	StallIncrement     time.Duration
	MaxStallRecoveries int

	// AddressCorrections replace a package's listed address once it becomes loadable.
	AddressCorrections map[int]domain.Address
}

// DefaultEngineConfig is the baseline scenario: three trucks, two drivers,
// truck 2 held until the delayed flight lands.
func DefaultEngineConfig() EngineConfig {
	priority := domain.At(10, 30)
	return EngineConfig{
		Depot:     "HUB",
		StartTime: domain.At(8, 0),
		TruckStartTimes: map[int]domain.TimeOfDay{
			2: domain.At(9, 5),
		},
		FleetSize:          3,
		ActiveTrucks:       2,
		TruckCapacity:      16,
		SpeedMPH:           18,
		PriorityDeadline:   &priority,
		StallIncrement:     5 * time.Minute,
		MaxStallRecoveries: 288,
		AddressCorrections: map[int]domain.Address{
			9: {Street: "410 S State St", City: "Salt Lake City", State: "UT", Zip: "84111"},
		},
	}
}

// StartFor returns the initial clock of a truck.
func (c EngineConfig) StartFor(truckID int) domain.TimeOfDay {
	if t, ok := c.TruckStartTimes[truckID]; ok {
		return t
	}
	return c.StartTime
}

func (c EngineConfig) Validate() error {
	var errs []error
	if c.Depot == "" {
		errs = append(errs, errors.New("depot must be non-empty"))
	}
	if c.FleetSize < 1 {
		errs = append(errs, fmt.Errorf("fleet size must be positive, got %d", c.FleetSize))
	}
	if c.ActiveTrucks < 1 || c.ActiveTrucks > c.FleetSize {
		errs = append(errs, fmt.Errorf("active trucks must be between 1 and fleet size %d, got %d", c.FleetSize, c.ActiveTrucks))
	}
	if c.TruckCapacity < 1 {
		errs = append(errs, fmt.Errorf("truck capacity must be positive, got %d", c.TruckCapacity))
	}
	if c.SpeedMPH <= 0 {
		errs = append(errs, fmt.Errorf("speed must be positive, got %v", c.SpeedMPH))
	}
	if c.StallIncrement <= 0 {
		errs = append(errs, fmt.Errorf("stall increment must be positive, got %v", c.StallIncrement))
	}
	if c.MaxStallRecoveries < 0 {
		errs = append(errs, fmt.Errorf("max stall recoveries must not be negative, got %d", c.MaxStallRecoveries))
	}
	for id := range c.TruckStartTimes {
		if id < 1 || id > c.FleetSize {
			errs = append(errs, fmt.Errorf("start time set for unknown truck %d", id))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("engine config: %w", errors.Join(errs...))
	}
	return nil
}
