package services

import (
	"delivery-scheduler/internal/adapters/distance"
	"delivery-scheduler/internal/domain"
	"delivery-scheduler/internal/store"
	"testing"
	"time"
)

// addr builds an address whose location key is "<street> (<zip>)".
func addr(street, zip string) domain.Address {
	return domain.Address{Street: street, City: "Salt Lake City", State: "UT", Zip: zip}
}

func newStore(t *testing.T, pkgs ...*domain.Package) *store.PackageStore {
	t.Helper()
	s, err := store.NewPackageStore(10)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	for _, p := range pkgs {
		if err := s.Insert(p.PackageID, p); err != nil {
			t.Fatalf("insert %d: %v", p.PackageID, err)
		}
	}
	return s
}

// lineIndex places HUB, A, B and C on a line at miles 0, 1.8, 5.4 and 9.
func lineIndex() *distance.Index {
	return distance.NewIndexFromPairs([]distance.Pair{
		{From: "HUB", To: "A (1)", Miles: 1.8},
		{From: "HUB", To: "B (2)", Miles: 5.4},
		{From: "HUB", To: "C (3)", Miles: 9.0},
		{From: "A (1)", To: "B (2)", Miles: 3.6},
		{From: "A (1)", To: "C (3)", Miles: 7.2},
		{From: "B (2)", To: "C (3)", Miles: 3.6},
	})
}

func smallConfig() EngineConfig {
	return EngineConfig{
		Depot:              "HUB",
		StartTime:          domain.At(8, 0),
		FleetSize:          2,
		ActiveTrucks:       1,
		TruckCapacity:      16,
		SpeedMPH:           18,
		StallIncrement:     10 * time.Minute,
		MaxStallRecoveries: 12,
	}
}
