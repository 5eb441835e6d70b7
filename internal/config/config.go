// Package config provides centralized configuration management.
// This is the SINGLE SOURCE OF TRUTH for all engine and server settings.
//
// IMPORTANT: When changing values, only modify this file.
// All other parts of the codebase should reference these values.
package config

import (
	"os"
	"strconv"
	"time"
)

// =============================================================================
// SIMULATION CONFIGURATION
// =============================================================================

// SimConfig holds live-engine pacing and fixture defaults.
type SimConfig struct {
	TickInterval time.Duration // wall time per simulated minute at 1x
	MinInterval  time.Duration // fastest allowed speed
	MaxInterval  time.Duration // slowest allowed speed
	Seed         int64         // 0 means derive from the clock
	Knockout     bool          // level fixtures go to extra time and penalties
}

// DefaultSim returns the default simulation configuration.
func DefaultSim() SimConfig {
	return SimConfig{
		TickInterval: 2 * time.Second,
		MinInterval:  100 * time.Millisecond,
		MaxInterval:  10 * time.Second,
		Seed:         0,
		Knockout:     false,
	}
}

// SimFromEnv returns simulation configuration with environment variable
// overrides. Environment variables take precedence over defaults.
func SimFromEnv() SimConfig {
	cfg := DefaultSim()

	if ms := getEnvInt("SIM_TICK_MS", 0); ms > 0 {
		cfg.TickInterval = time.Duration(ms) * time.Millisecond
	}
	if s := getEnvInt64("SIM_SEED", 0); s != 0 {
		cfg.Seed = s
	}
	if os.Getenv("SIM_KNOCKOUT") == "true" {
		cfg.Knockout = true
	}

	return cfg
}

// =============================================================================
// SQUAD DATA
// =============================================================================

// DataConfig locates squad sheets and the fixture list.
type DataConfig struct {
	SquadDir    string // directory of per-team YAML sheets
	FixtureFile string // optional fixtures YAML
	EventLog    string // append-only match event log, empty disables
}

// DefaultData returns the default data locations.
func DefaultData() DataConfig {
	return DataConfig{
		SquadDir:    "data/squads",
		FixtureFile: "data/fixtures.yaml",
		EventLog:    "matchlog.jsonl",
	}
}

// DataFromEnv returns data locations with environment variable overrides.
func DataFromEnv() DataConfig {
	cfg := DefaultData()

	if d := os.Getenv("SQUAD_DIR"); d != "" {
		cfg.SquadDir = d
	}
	if f := os.Getenv("FIXTURE_FILE"); f != "" {
		cfg.FixtureFile = f
	}
	if l, ok := os.LookupEnv("EVENT_LOG"); ok {
		cfg.EventLog = l // explicit empty disables the log
	}

	return cfg
}

// =============================================================================
// SERVER CONFIGURATION
// =============================================================================

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port        int
	MaxWatchers int // hard cap on concurrent websocket watchers
	RatePerSec  int // per-client REST rate limit
	RateBurst   int
}

// DefaultServer returns the default server configuration.
func DefaultServer() ServerConfig {
	return ServerConfig{
		Port:        3000,
		MaxWatchers: 500,
		RatePerSec:  20,
		RateBurst:   40,
	}
}

// ServerFromEnv returns server configuration with environment variable
// overrides.
func ServerFromEnv() ServerConfig {
	cfg := DefaultServer()

	if p := getEnvInt("PORT", 0); p > 0 {
		cfg.Port = p
	}
	if mw := getEnvInt("MAX_WATCHERS", 0); mw > 0 {
		cfg.MaxWatchers = mw
	}
	if r := getEnvInt("RATE_PER_SEC", 0); r > 0 {
		cfg.RatePerSec = r
	}
	if b := getEnvInt("RATE_BURST", 0); b > 0 {
		cfg.RateBurst = b
	}

	return cfg
}

// =============================================================================
// COMPLETE APP CONFIGURATION
// =============================================================================

// AppConfig holds the complete application configuration.
type AppConfig struct {
	Sim    SimConfig
	Data   DataConfig
	Server ServerConfig
}

// Load returns the complete configuration with environment overrides.
func Load() AppConfig {
	return AppConfig{
		Sim:    SimFromEnv(),
		Data:   DataFromEnv(),
		Server: ServerFromEnv(),
	}
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

func getEnvInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvInt64(key string, defaultVal int64) int64 {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.ParseInt(v, 10, 64); err == nil {
			return i
		}
	}
	return defaultVal
}
