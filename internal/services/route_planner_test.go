package services

import (
	"delivery-scheduler/internal/domain"
	"math"
	"testing"
)

func TestDispatchDrivesQueueInLoadOrder(t *testing.T) {
	pkgA := domain.NewPackage(1, addr("A", "1"), 1, domain.EndOfDay, "")
	pkgC := domain.NewPackage(2, addr("C", "3"), 1, domain.EndOfDay, "")
	pkgB := domain.NewPackage(3, addr("B", "2"), 1, domain.EndOfDay, "")

	e, err := NewEngine(smallConfig(), newStore(t, pkgA, pkgC, pkgB), lineIndex())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	truck := e.Trucks()[0]
	for _, p := range []*domain.Package{pkgA, pkgC, pkgB} {
		if err := truck.Load(p); err != nil {
			t.Fatalf("load %d: %v", p.PackageID, err)
		}
	}

	if err := e.dispatch(truck); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// HUB -> A (1.8) -> C (7.2) -> B (3.6) -> HUB (5.4)
	if got := *pkgA.TimeDelivered; got != domain.At(8, 6) {
		t.Fatalf("package 1 delivered at %s, want 08:06:00", got)
	}
	if got := *pkgC.TimeDelivered; got != domain.At(8, 30) {
		t.Fatalf("package 2 delivered at %s, want 08:30:00", got)
	}
	if got := *pkgB.TimeDelivered; got != domain.At(8, 42) {
		t.Fatalf("package 3 delivered at %s, want 08:42:00", got)
	}
	if truck.Clock != domain.At(9, 0) {
		t.Fatalf("return clock = %s, want 09:00:00", truck.Clock)
	}
	if !truck.AtDepot() {
		t.Fatalf("truck ended at %q, want depot", truck.Location)
	}
	if math.Abs(truck.Odometer-18.0) > 1e-9 {
		t.Fatalf("odometer = %v, want 18.0", truck.Odometer)
	}
}

func TestDispatchEmptyTruckStaysAtDepot(t *testing.T) {
	e, err := NewEngine(smallConfig(), newStore(t), lineIndex())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	truck := e.Trucks()[0]

	if err := e.dispatch(truck); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if truck.Clock != domain.At(8, 0) || truck.Odometer != 0 {
		t.Fatalf("empty dispatch moved the truck: clock %s odometer %v", truck.Clock, truck.Odometer)
	}
}

func TestDispatchMissingDistance(t *testing.T) {
	lost := domain.NewPackage(1, addr("Nowhere", "0"), 1, domain.EndOfDay, "")
	e, err := NewEngine(smallConfig(), newStore(t, lost), lineIndex())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	truck := e.Trucks()[0]
	if err := truck.Load(lost); err != nil {
		t.Fatalf("load: %v", err)
	}

	if err := e.dispatch(truck); err == nil {
		t.Fatalf("expected error for unknown location")
	}
}

func TestDispatchRequiresTruckAtDepot(t *testing.T) {
	pkg := domain.NewPackage(1, addr("C", "3"), 1, domain.EndOfDay, "")
	e, err := NewEngine(smallConfig(), newStore(t, pkg), lineIndex())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	truck := e.Trucks()[0]
	if err := truck.Load(pkg); err != nil {
		t.Fatalf("load: %v", err)
	}
	truck.Drive("A (1)", 1.8, domain.TravelTime(1.8, 18))

	if err := e.dispatch(truck); err == nil {
		t.Fatalf("expected error for a truck away from the depot")
	}
	if pkg.TimeDelivered != nil {
		t.Fatalf("package delivered at %s, want undelivered", *pkg.TimeDelivered)
	}
	if got := len(truck.Queued()); got != 1 {
		t.Fatalf("queue length = %d, want 1", got)
	}
}
