// Package config resolves settings from the environment, an optional .env file and
// the YAML scenario file.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// LoadEnv reads .env files into the process environment. Missing files are not an
// error; variables already set win.
func LoadEnv(files ...string) {
	if err := godotenv.Load(files...); err != nil {
		logrus.Debug("No .env file found (using environment variables)")
	}
}

// Get returns the variable's value or fallback when it is unset or blank.
func Get(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func GetInt(key string, fallback int) int {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
		logrus.WithField("key", key).Warnf("ignoring non-integer value %q", v)
	}
	return fallback
}

func GetDuration(key string, fallback time.Duration) time.Duration {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
		logrus.WithField("key", key).Warnf("ignoring invalid duration %q", v)
	}
	return fallback
}

// Settings are the process-level inputs shared by the CLI, the HTTP server and dbtool.
type Settings struct {
	PackagesPath  string
	DistancesPath string
	ScenarioPath  string
	Buckets       int

	DBDriver string
	DBDSN    string

	HTTPAddr        string
	ShutdownTimeout time.Duration
	LogLevel        string
}

// FromEnv builds Settings from the environment with local-run defaults.
// DATABASE_URL selects Postgres; otherwise DB_PATH names a SQLite file.
func FromEnv() Settings {
	s := Settings{
		PackagesPath:    Get("PACKAGES_PATH", "data/packages.csv"),
		DistancesPath:   Get("DISTANCES_PATH", "data/distances.csv"),
		ScenarioPath:    Get("SCENARIO_PATH", "data/scenario.yaml"),
		Buckets:         GetInt("STORE_BUCKETS", 40),
		DBDriver:        "sqlite",
		DBDSN:           Get("DB_PATH", "data/app.db"),
		HTTPAddr:        ":" + Get("PORT", "8080"),
		ShutdownTimeout: GetDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
		LogLevel:        Get("LOG_LEVEL", "info"),
	}
	if url := Get("DATABASE_URL", ""); url != "" {
		s.DBDriver = "pgx"
		s.DBDSN = url
	}
	return s
}
