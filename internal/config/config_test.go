package config

import (
	"testing"
	"time"
)

func TestSimFromEnv(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		cfg := SimFromEnv()
		if cfg.TickInterval != 2*time.Second {
			t.Fatalf("tick interval = %v", cfg.TickInterval)
		}
		if cfg.Seed != 0 || cfg.Knockout {
			t.Fatalf("unexpected defaults: %+v", cfg)
		}
	})

	t.Run("overrides", func(t *testing.T) {
		t.Setenv("SIM_TICK_MS", "250")
		t.Setenv("SIM_SEED", "12345")
		t.Setenv("SIM_KNOCKOUT", "true")

		cfg := SimFromEnv()
		if cfg.TickInterval != 250*time.Millisecond {
			t.Fatalf("tick interval = %v", cfg.TickInterval)
		}
		if cfg.Seed != 12345 {
			t.Fatalf("seed = %d", cfg.Seed)
		}
		if !cfg.Knockout {
			t.Fatal("knockout not set")
		}
	})

	t.Run("garbage ignored", func(t *testing.T) {
		t.Setenv("SIM_TICK_MS", "fast")
		if cfg := SimFromEnv(); cfg.TickInterval != 2*time.Second {
			t.Fatalf("garbage override applied: %v", cfg.TickInterval)
		}
	})
}

func TestDataFromEnv(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		cfg := DataFromEnv()
		if cfg.SquadDir != "data/squads" || cfg.EventLog != "matchlog.jsonl" {
			t.Fatalf("unexpected defaults: %+v", cfg)
		}
	})

	t.Run("explicit empty disables the event log", func(t *testing.T) {
		t.Setenv("EVENT_LOG", "")
		if cfg := DataFromEnv(); cfg.EventLog != "" {
			t.Fatalf("event log = %q, want disabled", cfg.EventLog)
		}
	})

	t.Run("overrides", func(t *testing.T) {
		t.Setenv("SQUAD_DIR", "/tmp/squads")
		t.Setenv("FIXTURE_FILE", "/tmp/fx.yaml")
		cfg := DataFromEnv()
		if cfg.SquadDir != "/tmp/squads" || cfg.FixtureFile != "/tmp/fx.yaml" {
			t.Fatalf("overrides ignored: %+v", cfg)
		}
	})
}

func TestServerFromEnv(t *testing.T) {
	t.Setenv("PORT", "8088")
	t.Setenv("MAX_WATCHERS", "25")

	cfg := ServerFromEnv()
	if cfg.Port != 8088 || cfg.MaxWatchers != 25 {
		t.Fatalf("overrides ignored: %+v", cfg)
	}
	if cfg.RatePerSec != 20 || cfg.RateBurst != 40 {
		t.Fatalf("untouched fields changed: %+v", cfg)
	}
}
