// Package animation wires the particle field, phase controller and trails
// into a single frame callback and manages their mount/unmount lifecycle.
package animation

import (
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/carfield/components"
	"github.com/pthm-cable/carfield/config"
	"github.com/pthm-cable/carfield/scene"
	"github.com/pthm-cable/carfield/systems"
	"github.com/pthm-cable/carfield/telemetry"
)

var (
	// ErrUnsupported means the capability probe failed; the host should show
	// its static background instead.
	ErrUnsupported = errors.New("rendering unsupported")

	// ErrNotMounted is returned when unmounting an animation twice.
	ErrNotMounted = errors.New("animation not mounted")
)

// Scene layers.
const (
	LayerTrails    = 0
	LayerParticles = 1
)

// FrameStats summarizes one frame for observers.
type FrameStats struct {
	Frame        int
	Delta        time.Duration
	Phase        systems.Phase
	Transitioned bool
	ElapsedMS    float64
	Remaining    float64 // Summed distance to targets (forming only)
	Settled      bool
	Corrected    int // Non-finite positions repaired this frame
	HeldResets   int // Times the falling formation has wrapped
}

// Options tunes Mount. The zero value is usable.
type Options struct {
	Seed    int64            // Seed for particle placement (0 = time-based)
	Logger  *slog.Logger     // Defaults to slog.Default()
	Perf    PerfTimer        // Optional frame-phase timer
	OnFrame func(FrameStats) // Called after every completed frame
	Probe   func() error     // Capability probe; nil means supported
}

// Animation is the mounted particle animation. All of its state lives here
// and is only touched from the frame callback.
type Animation struct {
	cfg     *config.Config
	scene   *scene.Scene
	logger  *slog.Logger
	perf    PerfTimer
	onFrame func(FrameStats)

	flow    *systems.FlowField
	targets *systems.TargetSet
	field   *systems.ParticleField
	trails  *systems.TrailSystem
	phase   *systems.PhaseController

	pointsEntity ecs.Entity
	linesEntity  ecs.Entity
	unregister   func()

	frames         int
	inFrame        bool
	pendingRelease bool
	released       bool
	err            error
}

// Mount builds the flow field, target set, particle field and phase
// controller, attaches the particle and trail buffers to the scene and
// registers the frame callback.
func Mount(cfg *config.Config, scn *scene.Scene, ticks TickSource, opts Options) (*Animation, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	if opts.Probe != nil {
		if err := opts.Probe(); err != nil {
			logger.Warn("capability probe failed, using static background", "error", err)
			return nil, fmt.Errorf("%w: %v", ErrUnsupported, err)
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("mounting animation: %w", err)
	}

	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	targets, err := systems.GenerateTargets(cfg.Targets.Seed, cfg.Field.Count, cfg.Targets)
	if err != nil {
		return nil, fmt.Errorf("generating targets: %w", err)
	}
	flow := systems.NewNoisyFlowField(cfg.Field.GridSize, cfg.Field.Bound, cfg.Field.NoiseAmplitude, cfg.Field.NoiseSeed)
	field, err := systems.NewParticleField(cfg, flow, targets, rng)
	if err != nil {
		return nil, fmt.Errorf("creating particle field: %w", err)
	}

	a := &Animation{
		cfg:     cfg,
		scene:   scn,
		logger:  logger,
		perf:    opts.Perf,
		onFrame: opts.OnFrame,
		flow:    flow,
		targets: targets,
		field:   field,
		trails:  systems.NewTrailSystem(cfg.Field.Count),
		phase:   systems.NewPhaseController(cfg.Derived.IdleThreshold),
	}
	if a.perf == nil {
		a.perf = noPerf{}
	}
	a.trails.Update(field.Particles)

	a.linesEntity = scn.AttachLines(a.trails.Lines, components.Layer{Name: "trails", Order: LayerTrails})
	a.pointsEntity = scn.AttachPoints(field.Points, components.Layer{Name: "particles", Order: LayerParticles})
	a.unregister = ticks.Register(a.frame)

	logger.Info("animation mounted",
		"seed", seed,
		"particles", cfg.Field.Count,
		"idle_ms", cfg.Phase.IdleMS,
	)
	return a, nil
}

// frame runs one update: phase decision, particle update, trail derivation.
func (a *Animation) frame(dt time.Duration) {
	if a.released {
		return
	}
	a.inFrame = true
	defer func() {
		if r := recover(); r != nil {
			a.err = fmt.Errorf("frame %d: %v", a.frames, r)
			a.logger.Error("animation stopped", "error", a.err)
			a.pendingRelease = true
		}
		a.inFrame = false
		if a.pendingRelease {
			a.release()
		}
	}()

	a.perf.BeginFrame()
	a.perf.Step(telemetry.StepDecide)
	phase, changed := a.phase.Advance(dt)
	if changed {
		switch phase {
		case systems.PhaseForming:
			a.field.BeginForming()
		case systems.PhaseHeld:
			a.field.BeginHeld()
		}
		a.logger.Info("phase transition",
			"phase", phase.String(),
			"frame", a.frames,
			"elapsed_ms", a.phase.ElapsedMS(),
		)
	}

	a.perf.Step(telemetry.StepParticles)
	settled := false
	switch phase {
	case systems.PhaseIdle:
		a.field.UpdateIdle()
	case systems.PhaseForming:
		settled = a.field.UpdateForming()
		a.phase.ReportSettled(settled)
	case systems.PhaseHeld:
		a.field.UpdateHeld()
		settled = true
	}

	a.perf.Step(telemetry.StepTrails)
	a.trails.Update(a.field.Particles)
	a.perf.EndFrame(phase.String())

	a.frames++
	if n := a.field.Corrected(); n > 0 {
		a.logger.Warn("repaired non-finite particle positions", "count", n, "frame", a.frames)
	}

	if a.onFrame != nil {
		a.onFrame(FrameStats{
			Frame:        a.frames,
			Delta:        dt,
			Phase:        phase,
			Transitioned: changed,
			ElapsedMS:    a.phase.ElapsedMS(),
			Remaining:    a.field.Remaining(),
			Settled:      settled,
			Corrected:    a.field.Corrected(),
			HeldResets:   a.field.HeldResets(),
		})
	}
}

// Unmount unregisters the frame callback and detaches the buffers from the
// scene. Called from inside a frame, the release happens once that frame
// has finished updating.
func (a *Animation) Unmount() error {
	if a.released || a.pendingRelease {
		return ErrNotMounted
	}
	if a.unregister != nil {
		a.unregister()
		a.unregister = nil
	}
	if a.inFrame {
		a.pendingRelease = true
		return nil
	}
	a.release()
	return nil
}

func (a *Animation) release() {
	if a.released {
		return
	}
	if a.unregister != nil {
		a.unregister()
		a.unregister = nil
	}
	a.scene.Detach(a.pointsEntity)
	a.scene.Detach(a.linesEntity)

	a.field = nil
	a.trails = nil
	a.targets = nil
	a.flow = nil
	a.released = true
	a.pendingRelease = false
	a.logger.Info("animation unmounted", "frames", a.frames)
}

// ShowTrails toggles drawing of the trail layer.
func (a *Animation) ShowTrails(show bool) {
	if a.released {
		return
	}
	a.scene.SetHidden(a.linesEntity, !show)
}

// Mounted reports whether the animation is still attached.
func (a *Animation) Mounted() bool {
	return !a.released
}

// Err returns the error that stopped the animation, if any.
func (a *Animation) Err() error {
	return a.err
}

// Phase returns the current phase.
func (a *Animation) Phase() systems.Phase {
	return a.phase.Phase()
}

// ElapsedMS returns the accumulated animation time in milliseconds.
func (a *Animation) ElapsedMS() float64 {
	return a.phase.ElapsedMS()
}

// Frames returns the number of completed frames.
func (a *Animation) Frames() int {
	return a.frames
}

// Field returns the particle field, or nil after unmount.
func (a *Animation) Field() *systems.ParticleField {
	return a.field
}

// Trails returns the trail system, or nil after unmount.
func (a *Animation) Trails() *systems.TrailSystem {
	return a.trails
}

// Flow returns the flow field, or nil after unmount.
func (a *Animation) Flow() *systems.FlowField {
	return a.flow
}

// Targets returns the formation targets, or nil after unmount.
func (a *Animation) Targets() *systems.TargetSet {
	return a.targets
}
