package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// DeliveryStatus is the package lifecycle: AT_HUB -> EN_ROUTE -> DELIVERED.
type DeliveryStatus string

const (
	StatusAtHub     DeliveryStatus = "AT_HUB"
	StatusEnRoute   DeliveryStatus = "EN_ROUTE"
	StatusDelivered DeliveryStatus = "DELIVERED"
)

// WrongAddressAvailableAt is when the corrected address of a "Wrong address listed"
// package becomes known to the depot.
var WrongAddressAvailableAt = At(10, 20)

const (
	requiredTruckMarker = "Can only be on truck"
	delayedMarker       = "will not arrive to depot until"
	wrongAddressMarker  = "Wrong address listed"
)

// Address is the delivery location of a package.
type Address struct {
	Street string `yaml:"address" json:"address"`
	City   string `yaml:"city" json:"city"`
	State  string `yaml:"state" json:"state"`
	Zip    string `yaml:"zip" json:"zip"`
}

// Key returns the canonical location key used against the distance table,
// e.g. "1060 Dalton Ave S (84104)".
func (a Address) Key() string {
	return fmt.Sprintf("%s (%s)", a.Street, a.Zip)
}

// Represents a single delivery unit handled by the system.
// Routing state is populated by the engine as the simulated day runs;
// the record is mutated in place and never copied between containers.
type Package struct {
	PackageID   int
	Address     Address
	Weight      float64
	Deadline    TimeOfDay
	SpecialNote string

	Status        DeliveryStatus
	TruckID       *int
	TimeLoaded    *TimeOfDay
	TimeDelivered *TimeOfDay

	correction *Address
	corrected  bool
}

// NewPackage returns a package at the hub.
func NewPackage(id int, addr Address, weight float64, deadline TimeOfDay, note string) *Package {
	return &Package{
		PackageID:   id,
		Address:     addr,
		Weight:      weight,
		Deadline:    deadline,
		SpecialNote: strings.TrimSpace(note),
		Status:      StatusAtHub,
	}
}

// Location is the canonical distance-table key for the current address.
func (p *Package) Location() string { return p.Address.Key() }

// RequiredTruckID is set when the note pins the package to one truck.
func (p *Package) RequiredTruckID() (int, bool) {
	idx := strings.Index(p.SpecialNote, requiredTruckMarker)
	if idx < 0 {
		return 0, false
	}
	rest := strings.TrimSpace(p.SpecialNote[idx+len(requiredTruckMarker):])
	fields := strings.Fields(rest)
	if len(fields) == 0 {
		return 0, false
	}
	id, err := strconv.Atoi(strings.TrimRight(fields[0], ".,;"))
	if err != nil || id < 1 {
		return 0, false
	}
	return id, true
}

// EarliestLoadTime is the first moment the package may be put on a truck.
// Delayed packages carry their depot arrival time in the note; a wrong-address
// package waits for the correction at WrongAddressAvailableAt.
func (p *Package) EarliestLoadTime() (TimeOfDay, bool) {
	note := p.SpecialNote
	if idx := strings.Index(note, delayedMarker); idx >= 0 {
		t, err := ParseTimeOfDay(note[idx+len(delayedMarker):])
		if err == nil {
			return t, true
		}
	}
	if strings.Contains(note, wrongAddressMarker) {
		return WrongAddressAvailableAt, true
	}
	return 0, false
}

// HasWrongAddress reports whether the note flags the listed address as wrong.
func (p *Package) HasWrongAddress() bool {
	return strings.Contains(p.SpecialNote, wrongAddressMarker)
}

// ScheduleCorrection registers the address that replaces the listed one once the
// package becomes loadable.
func (p *Package) ScheduleCorrection(addr Address) {
	if p.corrected {
		return
	}
	a := addr
	p.correction = &a
}

// ApplyCorrectionIfDue overwrites the address once t reaches the earliest load time.
// It reports whether the address changed on this call; later calls are no-ops.
func (p *Package) ApplyCorrectionIfDue(t TimeOfDay) bool {
	if p.correction == nil || p.corrected {
		return false
	}
	if due, ok := p.EarliestLoadTime(); ok && t.Before(due) {
		return false
	}
	p.Address = *p.correction
	p.correction = nil
	p.corrected = true
	return true
}

// Corrected reports whether a scheduled address correction has been applied.
func (p *Package) Corrected() bool { return p.corrected }

// IsAvailable reports whether the package may be loaded at t.
func (p *Package) IsAvailable(t TimeOfDay) bool {
	due, ok := p.EarliestLoadTime()
	return !ok || !t.Before(due)
}

// CanRideOn reports whether the truck constraint allows truckID.
func (p *Package) CanRideOn(truckID int) bool {
	required, ok := p.RequiredTruckID()
	return !ok || required == truckID
}

// MarkLoaded moves the package from the hub onto a truck.
func (p *Package) MarkLoaded(truckID int, at TimeOfDay) error {
	if p.Status != StatusAtHub {
		return fmt.Errorf("mark loaded: package %d is %s, want %s", p.PackageID, p.Status, StatusAtHub)
	}
	if p.TruckID != nil {
		return fmt.Errorf("mark loaded: package %d already assigned to truck %d", p.PackageID, *p.TruckID)
	}
	id, t := truckID, at
	p.TruckID = &id
	p.TimeLoaded = &t
	p.Status = StatusEnRoute
	return nil
}

// MarkDelivered records the arrival at the package's location.
func (p *Package) MarkDelivered(at TimeOfDay) error {
	if p.Status != StatusEnRoute {
		return fmt.Errorf("mark delivered: package %d is %s, want %s", p.PackageID, p.Status, StatusEnRoute)
	}
	t := at
	p.TimeDelivered = &t
	p.Status = StatusDelivered
	return nil
}

// IsLate reports whether the package was delivered after its deadline.
func (p *Package) IsLate() bool {
	return p.TimeDelivered != nil && p.TimeDelivered.After(p.Deadline)
}
