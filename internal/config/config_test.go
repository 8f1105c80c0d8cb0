package config

import (
	"delivery-scheduler/internal/domain"
	"delivery-scheduler/internal/services"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetHelpers(t *testing.T) {
	t.Setenv("SCHED_STR", " value ")
	t.Setenv("SCHED_INT", "12")
	t.Setenv("SCHED_BAD_INT", "twelve")
	t.Setenv("SCHED_DUR", "90s")

	assert.Equal(t, "value", Get("SCHED_STR", "x"))
	assert.Equal(t, "x", Get("SCHED_UNSET", "x"))
	assert.Equal(t, 12, GetInt("SCHED_INT", 1))
	assert.Equal(t, 1, GetInt("SCHED_BAD_INT", 1))
	assert.Equal(t, 90*time.Second, GetDuration("SCHED_DUR", time.Second))
	assert.Equal(t, time.Second, GetDuration("SCHED_UNSET", time.Second))
}

func TestFromEnv(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("DB_PATH", "")
	t.Setenv("PORT", "9090")
	t.Setenv("SCENARIO_PATH", "")

	s := FromEnv()
	assert.Equal(t, "data/scenario.yaml", s.ScenarioPath)
	assert.Equal(t, "sqlite", s.DBDriver)
	assert.Equal(t, "data/app.db", s.DBDSN)
	assert.Equal(t, ":9090", s.HTTPAddr)
	assert.Equal(t, 40, s.Buckets)

	t.Setenv("DATABASE_URL", "postgres://localhost/sched")
	s = FromEnv()
	assert.Equal(t, "pgx", s.DBDriver)
	assert.Equal(t, "postgres://localhost/sched", s.DBDSN)
}

func TestLoadEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("SCHED_FROM_FILE=loaded\n"), 0o600))
	t.Setenv("SCHED_FROM_FILE", "")
	require.NoError(t, os.Unsetenv("SCHED_FROM_FILE"))

	LoadEnv(path)
	assert.Equal(t, "loaded", os.Getenv("SCHED_FROM_FILE"))

	LoadEnv(filepath.Join(t.TempDir(), "missing.env"))
}

func TestReferenceScenarioMatchesDefaults(t *testing.T) {
	cfg, err := ResolveEngineConfig("../../data/scenario.yaml")
	require.NoError(t, err)
	assert.Equal(t, services.DefaultEngineConfig(), cfg)
}

func TestResolveEngineConfigWithoutFile(t *testing.T) {
	cfg, err := ResolveEngineConfig("")
	require.NoError(t, err)
	assert.Equal(t, services.DefaultEngineConfig(), cfg)

	_, err = ResolveEngineConfig("does/not/exist.yaml")
	assert.Error(t, err)
}

func TestScenarioOverrides(t *testing.T) {
	sc, err := ParseScenario([]byte(`
start_time: "7:30 am"
priority_deadline: none
trucks:
  active: 3
  capacity: 10
  start_times:
    3: "09:00"
stall:
  increment: 1m
  max_recoveries: 0
`))
	require.NoError(t, err)

	cfg, err := sc.EngineConfig()
	require.NoError(t, err)
	assert.Equal(t, domain.At(7, 30), cfg.StartTime)
	assert.Nil(t, cfg.PriorityDeadline)
	assert.Equal(t, 3, cfg.ActiveTrucks)
	assert.Equal(t, 3, cfg.FleetSize)
	assert.Equal(t, 10, cfg.TruckCapacity)
	assert.Equal(t, 18.0, cfg.SpeedMPH)
	assert.Equal(t, map[int]domain.TimeOfDay{3: domain.At(9, 0)}, cfg.TruckStartTimes)
	assert.Equal(t, time.Minute, cfg.StallIncrement)
	assert.Zero(t, cfg.MaxStallRecoveries)
	assert.Contains(t, cfg.AddressCorrections, 9)
}

func TestScenarioRejectsUnknownKeys(t *testing.T) {
	_, err := ParseScenario([]byte("trucks:\n  drivers: 2\n"))
	assert.Error(t, err)
}

func TestScenarioRejectsInvalidValues(t *testing.T) {
	tests := map[string]string{
		"start time":   `start_time: "25:00"`,
		"priority":     `priority_deadline: "soon"`,
		"truck start":  "trucks:\n  start_times:\n    2: later\n",
		"increment":    "stall:\n  increment: fast\n",
		"active fleet": "trucks:\n  active: 4\n",
	}
	for name, doc := range tests {
		t.Run(name, func(t *testing.T) {
			sc, err := ParseScenario([]byte(doc))
			require.NoError(t, err)
			_, err = sc.EngineConfig()
			assert.Error(t, err)
		})
	}
}
