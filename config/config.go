// Package config provides configuration loading and access for the particle animation.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// ErrInvalidConfig is wrapped by every error returned from Validate.
var ErrInvalidConfig = errors.New("invalid config")

// Config holds all animation configuration parameters.
type Config struct {
	Screen    ScreenConfig    `yaml:"screen"`
	Field     FieldConfig     `yaml:"field"`
	Phase     PhaseConfig     `yaml:"phase"`
	Forming   FormingConfig   `yaml:"forming"`
	Held      HeldConfig      `yaml:"held"`
	Targets   TargetsConfig   `yaml:"targets"`
	Camera    CameraConfig    `yaml:"camera"`
	Telemetry TelemetryConfig `yaml:"telemetry"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// Vec3 is a point or extent in world units.
type Vec3 [3]float64

// Color is an RGB triple with components in [0, 1].
type Color [3]float64

// ScreenConfig holds display settings.
type ScreenConfig struct {
	Width     int `yaml:"width"`
	Height    int `yaml:"height"`
	TargetFPS int `yaml:"target_fps"`
}

// FieldConfig holds particle field parameters.
type FieldConfig struct {
	Count          int     `yaml:"count"`           // Number of particles, fixed for the run
	Bound          float64 `yaml:"bound"`           // Half-extent of the cube particles live in
	GridSize       int     `yaml:"grid_size"`       // Flow field cells per axis
	NoiseAmplitude float64 `yaml:"noise_amplitude"` // Simplex perturbation of flow directions (0 = off)
	NoiseSeed      int64   `yaml:"noise_seed"`      //
	MinSize        float64 `yaml:"min_size"`        // Point size range
	MaxSize        float64 `yaml:"max_size"`        //
	MinSpeed       float64 `yaml:"min_speed"`       // Idle displacement per frame
	MaxSpeed       float64 `yaml:"max_speed"`       //
	CenterColor    Color   `yaml:"center_color"`    // Colour of particles near the cube center
	SurfaceColor   Color   `yaml:"surface_color"`   // Colour of particles near the cube surface
}

// PhaseConfig holds phase timing.
type PhaseConfig struct {
	IdleMS float64 `yaml:"idle_ms"` // Accumulated frame time before forming starts
}

// FormingConfig holds the chase and colour-blend parameters used while the silhouette assembles.
type FormingConfig struct {
	ChaseRate       float64 `yaml:"chase_rate"`       // Fraction of remaining distance covered per frame
	MaxStep         float64 `yaml:"max_step"`         // Upper bound on a single frame's step
	Epsilon         float64 `yaml:"epsilon"`          // Snap distance
	SettleThreshold float64 `yaml:"settle_threshold"` // Summed remaining distance that counts as settled
	SizeGrowth      float64 `yaml:"size_growth"`      // Relative size gain once a particle arrives
	WheelColor      Color   `yaml:"wheel_color"`
	HeadlightColor  Color   `yaml:"headlight_color"`
	NeutralColor    Color   `yaml:"neutral_color"`
}

// HeldConfig holds parameters for the held (falling) phase.
type HeldConfig struct {
	FallRate float64 `yaml:"fall_rate"` // Downward translation per frame
}

// TargetsConfig holds the silhouette region geometry.
// Each region contributes PerRound points per sampling round.
type TargetsConfig struct {
	Seed      int64           `yaml:"seed"`
	Body      BoxRegion       `yaml:"body"`
	Cabin     BoxRegion       `yaml:"cabin"`
	Wheel     WheelRegion     `yaml:"wheel"`
	Headlight HeadlightRegion `yaml:"headlight"`
}

// BoxRegion is an axis-aligned box sampled uniformly.
type BoxRegion struct {
	Min      Vec3 `yaml:"min"`
	Max      Vec3 `yaml:"max"`
	PerRound int  `yaml:"per_round"`
}

// WheelRegion describes the wheel disks (one per hub, in the XY plane).
type WheelRegion struct {
	Hubs     []Vec3  `yaml:"hubs"`
	Radius   float64 `yaml:"radius"`
	Depth    float64 `yaml:"depth"` // Z thickness of each disk
	PerRound int     `yaml:"per_round"`
}

// HeadlightRegion describes the short linear clusters at the front.
type HeadlightRegion struct {
	Centers    []Vec3  `yaml:"centers"`
	HalfLength float64 `yaml:"half_length"` // Cluster extends along Z by ± this
	Jitter     float64 `yaml:"jitter"`
	PerRound   int     `yaml:"per_round"`
}

// CameraConfig holds the viewer camera parameters.
type CameraConfig struct {
	Distance   float64 `yaml:"distance"`
	Pitch      float64 `yaml:"pitch"`
	Fovy       float64 `yaml:"fovy"`
	OrbitSpeed float64 `yaml:"orbit_speed"` // Radians per second of auto-orbit
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	SampleInterval int `yaml:"sample_interval"` // Frames between frames.csv rows
	PerfWindow     int `yaml:"perf_window"`
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	IdleThreshold time.Duration // Phase.IdleMS as a duration
	RoundSize     int           // Target points produced per sampling round
	Bound32       float32       // Field.Bound as float32
	ScreenW32     float32       // Screen.Width as float32
	ScreenH32     float32       // Screen.Height as float32
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Defaults returns a fresh copy of the embedded defaults.
func Defaults() *Config {
	cfg, err := Load("")
	if err != nil {
		panic(fmt.Sprintf("config: embedded defaults are broken: %v", err))
	}
	return cfg
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg.computeDerived()

	return cfg, nil
}

// Validate checks that every tunable is usable.
func (c *Config) Validate() error {
	if c.Screen.Width <= 0 || c.Screen.Height <= 0 || c.Screen.TargetFPS <= 0 {
		return invalid("screen", "width, height and target_fps must be positive")
	}

	f := &c.Field
	switch {
	case f.Count <= 0:
		return invalid("field.count", "must be positive, got %d", f.Count)
	case f.Bound <= 0:
		return invalid("field.bound", "must be positive, got %g", f.Bound)
	case f.GridSize <= 0:
		return invalid("field.grid_size", "must be positive, got %d", f.GridSize)
	case f.NoiseAmplitude < 0:
		return invalid("field.noise_amplitude", "must not be negative, got %g", f.NoiseAmplitude)
	case f.MinSize <= 0 || f.MaxSize < f.MinSize:
		return invalid("field.min_size/max_size", "need 0 < min <= max, got %g..%g", f.MinSize, f.MaxSize)
	case f.MinSpeed <= 0 || f.MaxSpeed < f.MinSpeed:
		return invalid("field.min_speed/max_speed", "need 0 < min <= max, got %g..%g", f.MinSpeed, f.MaxSpeed)
	}
	for name, col := range map[string]Color{
		"field.center_color":      f.CenterColor,
		"field.surface_color":     f.SurfaceColor,
		"forming.wheel_color":     c.Forming.WheelColor,
		"forming.headlight_color": c.Forming.HeadlightColor,
		"forming.neutral_color":   c.Forming.NeutralColor,
	} {
		for _, v := range col {
			if v < 0 || v > 1 {
				return invalid(name, "components must lie in [0,1], got %v", col)
			}
		}
	}

	if c.Phase.IdleMS < 0 {
		return invalid("phase.idle_ms", "must not be negative, got %g", c.Phase.IdleMS)
	}

	fm := &c.Forming
	switch {
	case fm.ChaseRate <= 0 || fm.ChaseRate >= 1:
		return invalid("forming.chase_rate", "must lie in (0,1), got %g", fm.ChaseRate)
	case fm.MaxStep <= 0:
		return invalid("forming.max_step", "must be positive, got %g", fm.MaxStep)
	case fm.Epsilon <= 0:
		return invalid("forming.epsilon", "must be positive, got %g", fm.Epsilon)
	case fm.SettleThreshold <= 0:
		return invalid("forming.settle_threshold", "must be positive, got %g", fm.SettleThreshold)
	case fm.SizeGrowth < 0:
		return invalid("forming.size_growth", "must not be negative, got %g", fm.SizeGrowth)
	}

	if c.Held.FallRate <= 0 {
		return invalid("held.fall_rate", "must be positive, got %g", c.Held.FallRate)
	}

	t := &c.Targets
	if t.Body.PerRound <= 0 {
		return invalid("targets.body.per_round", "must be positive, got %d", t.Body.PerRound)
	}
	if t.Cabin.PerRound < 0 || t.Wheel.PerRound < 0 || t.Headlight.PerRound < 0 {
		return invalid("targets.*.per_round", "must not be negative")
	}
	if t.Wheel.PerRound > 0 && (len(t.Wheel.Hubs) == 0 || t.Wheel.Radius <= 0) {
		return invalid("targets.wheel", "needs hubs and a positive radius")
	}
	if t.Headlight.PerRound > 0 && len(t.Headlight.Centers) == 0 {
		return invalid("targets.headlight", "needs at least one center")
	}
	for _, box := range []struct {
		name string
		r    BoxRegion
	}{{"targets.body", t.Body}, {"targets.cabin", t.Cabin}} {
		for i := 0; i < 3; i++ {
			if box.r.Max[i] < box.r.Min[i] {
				return invalid(box.name, "max %v below min %v", box.r.Max, box.r.Min)
			}
		}
	}

	if err := t.checkInCube(c.Field.Bound); err != nil {
		return err
	}

	if c.Telemetry.SampleInterval < 0 {
		return invalid("telemetry.sample_interval", "must not be negative")
	}
	return nil
}

// checkInCube rejects any region whose sampling extent leaves [-bound, bound]³.
// Formed and falling particles stay inside the cube only if every target does.
func (t *TargetsConfig) checkInCube(bound float64) error {
	within := func(field string, lo, hi Vec3) error {
		for i := 0; i < 3; i++ {
			if lo[i] < -bound || hi[i] > bound {
				return invalid(field, "spans [%g, %g] on %c, outside the cube ±%g", lo[i], hi[i], "xyz"[i], bound)
			}
		}
		return nil
	}

	if t.Body.PerRound > 0 {
		if err := within("targets.body", t.Body.Min, t.Body.Max); err != nil {
			return err
		}
	}
	if t.Cabin.PerRound > 0 {
		if err := within("targets.cabin", t.Cabin.Min, t.Cabin.Max); err != nil {
			return err
		}
	}
	if t.Wheel.PerRound > 0 {
		r, d := t.Wheel.Radius, t.Wheel.Depth/2
		for i, h := range t.Wheel.Hubs {
			lo := Vec3{h[0] - r, h[1] - r, h[2] - d}
			hi := Vec3{h[0] + r, h[1] + r, h[2] + d}
			if err := within(fmt.Sprintf("targets.wheel.hubs[%d]", i), lo, hi); err != nil {
				return err
			}
		}
	}
	if t.Headlight.PerRound > 0 {
		j, l := t.Headlight.Jitter/2, t.Headlight.HalfLength
		for i, c := range t.Headlight.Centers {
			lo := Vec3{c[0] - j, c[1] - j, c[2] - l}
			hi := Vec3{c[0] + j, c[1] + j, c[2] + l}
			if err := within(fmt.Sprintf("targets.headlight.centers[%d]", i), lo, hi); err != nil {
				return err
			}
		}
	}
	return nil
}

func invalid(field, format string, args ...any) error {
	return fmt.Errorf("%w: %s: %s", ErrInvalidConfig, field, fmt.Sprintf(format, args...))
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	c.Derived.IdleThreshold = time.Duration(c.Phase.IdleMS * float64(time.Millisecond))
	c.Derived.Bound32 = float32(c.Field.Bound)
	c.Derived.ScreenW32 = float32(c.Screen.Width)
	c.Derived.ScreenH32 = float32(c.Screen.Height)

	t := &c.Targets
	c.Derived.RoundSize = t.Body.PerRound + t.Cabin.PerRound +
		t.Wheel.PerRound*len(t.Wheel.Hubs) + t.Headlight.PerRound*len(t.Headlight.Centers)
}

// Recompute validates the config and refreshes derived values after in-place edits.
func (c *Config) Recompute() error {
	if err := c.Validate(); err != nil {
		return err
	}
	c.computeDerived()
	return nil
}

// Clone returns a deep copy of the configuration.
func (c *Config) Clone() *Config {
	out := *c
	out.Targets.Wheel.Hubs = append([]Vec3(nil), c.Targets.Wheel.Hubs...)
	out.Targets.Headlight.Centers = append([]Vec3(nil), c.Targets.Headlight.Centers...)
	return &out
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
