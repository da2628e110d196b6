// Package game hosts the particle animation: it owns the frame loop, the
// scene, the viewer camera and telemetry, and mounts the animation into them.
package game

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/carfield/animation"
	"github.com/pthm-cable/carfield/camera"
	"github.com/pthm-cable/carfield/config"
	"github.com/pthm-cable/carfield/renderer"
	"github.com/pthm-cable/carfield/scene"
	"github.com/pthm-cable/carfield/systems"
	"github.com/pthm-cable/carfield/telemetry"
	"github.com/pthm-cable/carfield/ui"
)

// Options configures a Game.
type Options struct {
	Config     *config.Config // nil uses config.Cfg()
	Seed       int64          // Particle placement seed (0 = time-based)
	Headless   bool           // No window; frames advance by FrameDelta
	LogStats   bool           // Log window and perf stats via slog
	OutputDir  string         // CSV and config output (empty = disabled)
	FrameDelta time.Duration  // Headless frame delta (0 = 1/target_fps)

	// StatsCallback receives every flushed stats window.
	StatsCallback func(telemetry.WindowStats)
}

// Game holds the complete host state.
type Game struct {
	cfg      *config.Config
	logger   *slog.Logger
	headless bool
	seed     int64

	loop  *FrameLoop
	scene *scene.Scene
	anim  *animation.Animation

	// mountErr is why the animation is not running, if it isn't
	mountErr error

	// Rendering
	cam            *camera.Camera
	sceneRenderer  *renderer.SceneRenderer
	background     *renderer.BackgroundRenderer
	flowRenderer   *renderer.FlowRenderer
	targetRenderer *renderer.TargetRenderer
	screenWidth    float32
	screenHeight   float32
	orbitSpeed     float64
	frameDelta     time.Duration
	lastFrameDelta time.Duration

	// UI
	overlays  *ui.OverlayRegistry
	hud       *ui.HUD
	perfPanel *ui.PerfPanel
	controls  *ui.ControlsPanel

	// Telemetry
	collector     *telemetry.Collector
	perfCollector *telemetry.PerfCollector
	outputManager *telemetry.OutputManager
	perf          *PerfStats
	logStats      bool
	statsCallback func(telemetry.WindowStats)
	lastPhase     systems.Phase
	heldResets    int

	// State
	tick   int32
	paused bool
}

// NewGameWithOptions creates the host and mounts the animation.
// A failed capability probe is not an error: the game falls back to a static background.
func NewGameWithOptions(opts Options) (*Game, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Cfg()
	}

	frameDelta := opts.FrameDelta
	if frameDelta <= 0 {
		frameDelta = time.Second / time.Duration(cfg.Screen.TargetFPS)
	}

	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	g := &Game{
		cfg:           cfg,
		logger:        slog.Default(),
		headless:      opts.Headless,
		seed:          seed,
		loop:          NewFrameLoop(),
		scene:         scene.New(),
		screenWidth:   cfg.Derived.ScreenW32,
		screenHeight:  cfg.Derived.ScreenH32,
		orbitSpeed:    cfg.Camera.OrbitSpeed,
		frameDelta:    frameDelta,
		overlays:      ui.NewOverlayRegistry(),
		collector:     telemetry.NewCollector(cfg.Telemetry.SampleInterval),
		perfCollector: telemetry.NewPerfCollector(cfg.Telemetry.PerfWindow),
		perf:          NewPerfStats(cfg.Telemetry.PerfWindow),
		logStats:      opts.LogStats,
		statsCallback: opts.StatsCallback,
	}

	g.cam = camera.New(g.screenWidth, g.screenHeight, cfg.Camera.Distance, cfg.Camera.Pitch, cfg.Camera.Fovy)
	if !g.headless {
		g.sceneRenderer = renderer.NewSceneRenderer(cfg.Derived.Bound32)
		g.background = renderer.NewBackgroundRenderer(
			int32(g.screenWidth), int32(g.screenHeight),
			rl.NewColor(6, 10, 24, 255), rl.NewColor(0, 0, 0, 255),
		)
		g.flowRenderer = renderer.NewFlowRenderer()
		g.targetRenderer = renderer.NewTargetRenderer()
		g.hud = ui.NewHUD()
		g.perfPanel = ui.NewPerfPanel(int32(g.screenWidth)-300, 10)
		g.controls = ui.NewControlsPanel(10, 110, 220)
	}

	om, err := telemetry.NewOutputManager(opts.OutputDir)
	if err != nil {
		return nil, fmt.Errorf("creating output: %w", err)
	}
	g.outputManager = om
	if err := om.WriteConfig(cfg); err != nil {
		om.Close()
		return nil, fmt.Errorf("writing config snapshot: %w", err)
	}

	if err := g.mount(); err != nil {
		om.Close()
		return nil, err
	}
	return g, nil
}

// mount attaches a fresh animation. ErrUnsupported is recorded and swallowed.
func (g *Game) mount() error {
	opts := animation.Options{
		Seed:    g.seed,
		Logger:  g.logger,
		Perf:    g.perfCollector,
		OnFrame: g.onFrame,
	}
	if !g.headless {
		opts.Probe = renderer.Probe
	}

	anim, err := animation.Mount(g.cfg, g.scene, g.loop, opts)
	if errors.Is(err, animation.ErrUnsupported) {
		g.mountErr = err
		g.anim = nil
		return nil
	}
	if err != nil {
		return fmt.Errorf("mounting animation: %w", err)
	}

	g.anim = anim
	g.mountErr = nil
	g.lastPhase = systems.PhaseIdle
	g.heldResets = 0
	anim.ShowTrails(g.overlays.IsEnabled(ui.OverlayTrails))
	return nil
}

// Remount tears down the running animation and starts a new one with the next seed.
func (g *Game) Remount() error {
	if g.anim != nil && g.anim.Mounted() {
		if err := g.anim.Unmount(); err != nil {
			return fmt.Errorf("unmounting animation: %w", err)
		}
	}
	g.seed++
	return g.mount()
}

// Update handles input and advances one display frame.
func (g *Game) Update() {
	g.handleInput()

	if g.paused {
		return
	}

	dt := time.Duration(float64(rl.GetFrameTime()) * float64(time.Second))
	if g.overlays.IsEnabled(ui.OverlayAutoOrbit) {
		g.cam.Orbit(g.orbitSpeed*dt.Seconds(), 0)
	}
	g.perf.Time("update", func() { g.step(dt) })
}

// UpdateHeadless advances one frame by the fixed frame delta without any window.
func (g *Game) UpdateHeadless() {
	g.step(g.frameDelta)
}

// step drives the frame loop and flushes telemetry windows.
func (g *Game) step(dt time.Duration) {
	g.lastFrameDelta = dt
	g.loop.Step(dt)
	g.tick++
	g.flushTelemetry()
}

// Overlays returns the overlay registry.
func (g *Game) Overlays() *ui.OverlayRegistry {
	return g.overlays
}

// SetOverlay switches an overlay and applies its effect on the running animation.
func (g *Game) SetOverlay(id ui.OverlayID, enabled bool) {
	g.overlays.SetEnabled(id, enabled)
	g.applyOverlay(id)
}

// applyOverlay pushes an overlay's current state to whatever it controls.
func (g *Game) applyOverlay(id ui.OverlayID) {
	enabled := g.overlays.IsEnabled(id)
	switch id {
	case ui.OverlayTrails:
		if g.anim != nil {
			g.anim.ShowTrails(enabled)
		}
	case ui.OverlayBounds:
		if g.sceneRenderer != nil {
			g.sceneRenderer.ShowBounds = enabled
		}
	}
}

// Tick returns the number of frames stepped.
func (g *Game) Tick() int32 {
	return g.tick
}

// Animation returns the mounted animation, or nil when unsupported.
func (g *Game) Animation() *animation.Animation {
	return g.anim
}

// MountErr returns why the animation is not running, if it isn't.
func (g *Game) MountErr() error {
	if g.mountErr != nil {
		return g.mountErr
	}
	if g.anim != nil {
		return g.anim.Err()
	}
	return nil
}

// Unload releases the animation and closes output files.
func (g *Game) Unload() {
	if g.anim != nil && g.anim.Mounted() {
		if err := g.anim.Unmount(); err != nil {
			g.logger.Warn("unmount failed", "error", err)
		}
	}
	if err := g.outputManager.Close(); err != nil {
		g.logger.Error("closing output", "error", err)
	}
	g.logger.Info("game unloaded", "ticks", g.tick)
}
