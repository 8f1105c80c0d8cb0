package services

import (
	"context"
	"delivery-scheduler/internal/domain"
	"delivery-scheduler/internal/platform/obs"
	"delivery-scheduler/internal/ports"
	"delivery-scheduler/internal/store"
	"errors"
	"fmt"
	"slices"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// RunResult summarizes a finished routing run.
type RunResult struct {
	RunID           string
	Trucks          []*domain.Truck
	Routes          []*domain.RoutePlan
	TotalMiles      float64
	Waves           int
	StallRecoveries int
	LatePackages    []int
}

// TruckMiles maps truck id to odometer reading.
func (r *RunResult) TruckMiles() map[int]float64 {
	out := make(map[int]float64, len(r.Trucks))
	for _, t := range r.Trucks {
		out[t.TruckID] = t.Odometer
	}
	return out
}

// Engine assigns every package in the store to the active trucks and simulates
// their routes. It is single-threaded and mutates packages in place.
type Engine struct {
	cfg      EngineConfig
	store    *store.PackageStore
	provider ports.DistanceProvider

	fleet  []*domain.Truck
	active []*domain.Truck

	waves           int
	stallRecoveries int
}

func NewEngine(cfg EngineConfig, packages *store.PackageStore, provider ports.DistanceProvider) (*Engine, error) {
	if packages == nil {
		return nil, errors.New("new engine: package store must be non-nil")
	}
	if provider == nil {
		return nil, errors.New("new engine: distance provider must be non-nil")
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("new engine: %w", err)
	}

	e := &Engine{
		cfg:      cfg,
		store:    packages,
		provider: provider,
	}
	for i := 1; i <= cfg.FleetSize; i++ {
		e.fleet = append(e.fleet, domain.NewTruck(i, cfg.TruckCapacity, cfg.Depot, cfg.StartFor(i)))
	}
	e.active = e.fleet[:cfg.ActiveTrucks]

	return e, nil
}

// Trucks returns the dispatched trucks.
func (e *Engine) Trucks() []*domain.Truck {
	return slices.Clone(e.active)
}

// packages lists one record per id in insertion order.
func (e *Engine) packages() []*domain.Package {
	return e.store.Packages()
}

func (e *Engine) scheduleCorrections() {
	for _, pkg := range e.packages() {
		addr, ok := e.cfg.AddressCorrections[pkg.PackageID]
		if !ok {
			if pkg.HasWrongAddress() {
				logrus.WithField("package", pkg.PackageID).Warn("wrong address listed but no correction configured")
			}
			continue
		}
		pkg.ScheduleCorrection(addr)
	}
}

func (e *Engine) allDelivered() bool {
	for _, pkg := range e.packages() {
		if pkg.Status != domain.StatusDelivered {
			return false
		}
	}
	return true
}

// neverLoaded lists packages still at the hub with no truck assigned.
func (e *Engine) neverLoaded() []int {
	var ids []int
	for _, pkg := range e.packages() {
		if pkg.TruckID == nil {
			ids = append(ids, pkg.PackageID)
		}
	}
	return ids
}

// Run plays the simulated day in waves until every package is delivered.
//
// Each wave loads every active truck (see loadWave) and then dispatches them one after
// another. A wave that loads nothing is a stall: if some package was never loaded, every
// active truck's clock moves forward by StallIncrement and loading starts over, which is
// what releases packages that are not yet at the depot. After MaxStallRecoveries
// consecutive stalls the run fails with a StrandedPackagesError.
func (e *Engine) Run(ctx context.Context) (_ *RunResult, err error) {
	defer obs.Time(ctx, "engine.Run")(&err)

	e.scheduleCorrections()

	consecutive := 0
	for !e.allDelivered() {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("run: %w", err)
		}

		loaded, err := e.loadWave()
		if err != nil {
			return nil, fmt.Errorf("run: wave %d: %w", e.waves+1, err)
		}
		for _, truck := range e.active {
			if err := e.dispatch(truck); err != nil {
				return nil, fmt.Errorf("run: wave %d: %w", e.waves+1, err)
			}
		}
		e.waves++

		if loaded > 0 {
			consecutive = 0
			continue
		}

		stranded := e.neverLoaded()
		if len(stranded) == 0 {
			break
		}
		if consecutive >= e.cfg.MaxStallRecoveries {
			return nil, &StrandedPackagesError{
				PackageIDs: stranded,
				Recoveries: consecutive,
				Clock:      e.active[0].Clock,
			}
		}

		for _, truck := range e.active {
			truck.Advance(e.cfg.StallIncrement)
		}
		consecutive++
		e.stallRecoveries++

		logrus.WithFields(logrus.Fields{
			"waiting":   len(stranded),
			"increment": e.cfg.StallIncrement.String(),
			"streak":    consecutive,
		}).Debug("no eligible package; advancing clocks")
	}

	if !e.allDelivered() {
		return nil, fmt.Errorf("run: stopped with undelivered packages %v", e.undelivered())
	}

	return e.result(), nil
}

func (e *Engine) undelivered() []int {
	var ids []int
	for _, pkg := range e.packages() {
		if pkg.Status != domain.StatusDelivered {
			ids = append(ids, pkg.PackageID)
		}
	}
	return ids
}

func (e *Engine) result() *RunResult {
	res := &RunResult{
		RunID:           uuid.NewString(),
		Trucks:          e.Trucks(),
		Waves:           e.waves,
		StallRecoveries: e.stallRecoveries,
	}
	for _, truck := range e.active {
		res.TotalMiles += truck.Odometer
		res.Routes = append(res.Routes, domain.BuildRoutePlan(truck, e.cfg.StartFor(truck.TruckID)))
	}
	for _, pkg := range e.packages() {
		if pkg.IsLate() {
			res.LatePackages = append(res.LatePackages, pkg.PackageID)
		}
	}

	logrus.WithFields(logrus.Fields{
		"run_id":      res.RunID,
		"waves":       res.Waves,
		"stalls":      res.StallRecoveries,
		"total_miles": fmt.Sprintf("%.1f", res.TotalMiles),
		"late":        len(res.LatePackages),
	}).Info("routing complete")

	return res
}
