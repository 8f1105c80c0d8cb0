package config

import (
	"bytes"
	"delivery-scheduler/internal/domain"
	"delivery-scheduler/internal/services"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Scenario is the YAML form of a routing run. Omitted fields keep the defaults of
// services.DefaultEngineConfig.
type Scenario struct {
	Depot            string                 `yaml:"depot"`
	StartTime        string                 `yaml:"start_time"`
	PriorityDeadline *string                `yaml:"priority_deadline"`
	Trucks           TruckScenario          `yaml:"trucks"`
	Stall            StallScenario          `yaml:"stall"`
	Corrections      map[int]domain.Address `yaml:"address_corrections"`
}

type TruckScenario struct {
	FleetSize  int            `yaml:"fleet_size"`
	Active     int            `yaml:"active"`
	Capacity   int            `yaml:"capacity"`
	SpeedMPH   float64        `yaml:"speed_mph"`
	StartTimes map[int]string `yaml:"start_times"`
}

type StallScenario struct {
	Increment     string `yaml:"increment"`
	MaxRecoveries *int   `yaml:"max_recoveries"`
}

// LoadScenario reads and decodes a scenario file. Unknown keys are rejected.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading scenario: %w", err)
	}
	return ParseScenario(data)
}

func ParseScenario(data []byte) (*Scenario, error) {
	var sc Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&sc); err != nil {
		return nil, fmt.Errorf("parsing scenario: %w", err)
	}
	return &sc, nil
}

// EngineConfig overlays the scenario on the default configuration and validates the result.
func (s *Scenario) EngineConfig() (services.EngineConfig, error) {
	cfg := services.DefaultEngineConfig()

	if s.Depot != "" {
		cfg.Depot = s.Depot
	}
	if s.StartTime != "" {
		t, err := domain.ParseTimeOfDay(s.StartTime)
		if err != nil {
			return cfg, fmt.Errorf("scenario start_time: %w", err)
		}
		cfg.StartTime = t
	}
	if s.PriorityDeadline != nil {
		if *s.PriorityDeadline == "" || *s.PriorityDeadline == "none" {
			cfg.PriorityDeadline = nil
		} else {
			t, err := domain.ParseTimeOfDay(*s.PriorityDeadline)
			if err != nil {
				return cfg, fmt.Errorf("scenario priority_deadline: %w", err)
			}
			cfg.PriorityDeadline = &t
		}
	}

	if s.Trucks.FleetSize != 0 {
		cfg.FleetSize = s.Trucks.FleetSize
	}
	if s.Trucks.Active != 0 {
		cfg.ActiveTrucks = s.Trucks.Active
	}
	if s.Trucks.Capacity != 0 {
		cfg.TruckCapacity = s.Trucks.Capacity
	}
	if s.Trucks.SpeedMPH != 0 {
		cfg.SpeedMPH = s.Trucks.SpeedMPH
	}
	if s.Trucks.StartTimes != nil {
		cfg.TruckStartTimes = make(map[int]domain.TimeOfDay, len(s.Trucks.StartTimes))
		for id, raw := range s.Trucks.StartTimes {
			t, err := domain.ParseTimeOfDay(raw)
			if err != nil {
				return cfg, fmt.Errorf("scenario trucks.start_times[%d]: %w", id, err)
			}
			cfg.TruckStartTimes[id] = t
		}
	}

	if s.Stall.Increment != "" {
		d, err := time.ParseDuration(s.Stall.Increment)
		if err != nil {
			return cfg, fmt.Errorf("scenario stall.increment: %w", err)
		}
		cfg.StallIncrement = d
	}
	if s.Stall.MaxRecoveries != nil {
		cfg.MaxStallRecoveries = *s.Stall.MaxRecoveries
	}

	if s.Corrections != nil {
		cfg.AddressCorrections = s.Corrections
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("scenario: %w", err)
	}
	return cfg, nil
}

// ResolveEngineConfig returns the default configuration when path is empty and the
// file's configuration otherwise.
func ResolveEngineConfig(path string) (services.EngineConfig, error) {
	if path == "" {
		return services.DefaultEngineConfig(), nil
	}
	sc, err := LoadScenario(path)
	if err != nil {
		return services.EngineConfig{}, err
	}
	return sc.EngineConfig()
}
