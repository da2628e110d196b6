package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("loading defaults: %v", err)
	}

	if cfg.Field.Count != 800 {
		t.Errorf("expected 800 particles, got %d", cfg.Field.Count)
	}
	if cfg.Field.Bound != 50 {
		t.Errorf("expected bound 50, got %g", cfg.Field.Bound)
	}
	if cfg.Field.GridSize != 12 {
		t.Errorf("expected 12 flow cells per axis, got %d", cfg.Field.GridSize)
	}
	if cfg.Derived.IdleThreshold != 10*time.Second {
		t.Errorf("expected idle threshold 10s, got %s", cfg.Derived.IdleThreshold)
	}
	if cfg.Derived.RoundSize != 80 {
		t.Errorf("expected 80 points per round, got %d", cfg.Derived.RoundSize)
	}
	if len(cfg.Targets.Wheel.Hubs) != 4 || len(cfg.Targets.Headlight.Centers) != 2 {
		t.Errorf("expected 4 wheels and 2 headlights, got %d and %d",
			len(cfg.Targets.Wheel.Hubs), len(cfg.Targets.Headlight.Centers))
	}
}

func TestLoadOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("held:\n  fall_rate: 0.5\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("loading override: %v", err)
	}
	if cfg.Held.FallRate != 0.5 {
		t.Errorf("expected overridden fall rate 0.5, got %g", cfg.Held.FallRate)
	}
	// Untouched fields keep their defaults
	if cfg.Forming.ChaseRate != 0.06 {
		t.Errorf("expected default chase rate 0.06, got %g", cfg.Forming.ChaseRate)
	}
}

func TestValidateRejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"zero count", func(c *Config) { c.Field.Count = 0 }},
		{"negative bound", func(c *Config) { c.Field.Bound = -1 }},
		{"chase rate of one overshoots", func(c *Config) { c.Forming.ChaseRate = 1 }},
		{"colour out of range", func(c *Config) { c.Forming.WheelColor = Color{0, 2, 0} }},
		{"inverted size range", func(c *Config) { c.Field.MinSize, c.Field.MaxSize = 2, 1 }},
		{"no fall", func(c *Config) { c.Held.FallRate = 0 }},
		{"wheel without hubs", func(c *Config) { c.Targets.Wheel.Hubs = nil }},
		{"inverted body", func(c *Config) { c.Targets.Body.Max[1] = c.Targets.Body.Min[1] - 1 }},
		{"cabin above the cube", func(c *Config) { c.Targets.Cabin.Max[1] = 60 }},
		{"body past the floor", func(c *Config) { c.Targets.Body.Min[1] = -c.Field.Bound - 1 }},
		{"wheel rim outside", func(c *Config) { c.Targets.Wheel.Radius = c.Field.Bound }},
		{"headlight cluster outside", func(c *Config) { c.Targets.Headlight.HalfLength = 2 * c.Field.Bound }},
		{"cube shrunk around targets", func(c *Config) { c.Field.Bound = 20 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Defaults()
			tt.mutate(cfg)
			err := cfg.Validate()
			if !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("expected ErrInvalidConfig, got %v", err)
			}
		})
	}
}

func TestWriteYAMLRoundtrip(t *testing.T) {
	cfg := Defaults()
	cfg.Held.FallRate = 0.3

	path := filepath.Join(t.TempDir(), "out.yaml")
	if err := cfg.WriteYAML(path); err != nil {
		t.Fatalf("writing yaml: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("reloading yaml: %v", err)
	}
	if loaded.Held.FallRate != 0.3 {
		t.Errorf("expected fall rate 0.3 after reload, got %g", loaded.Held.FallRate)
	}
}

func TestCloneIsDeep(t *testing.T) {
	cfg := Defaults()
	clone := cfg.Clone()
	clone.Targets.Wheel.Hubs[0][0] = 999

	if cfg.Targets.Wheel.Hubs[0][0] == 999 {
		t.Error("clone shares wheel hub storage with original")
	}
}
