package systems

import (
	"math"
	"math/rand"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/carfield/config"
)

// newTestField builds a field from the default config with a fixed seed.
func newTestField(t *testing.T, seed int64) *ParticleField {
	t.Helper()
	cfg := config.Cfg()
	targets, err := GenerateTargets(cfg.Targets.Seed, cfg.Field.Count, cfg.Targets)
	if err != nil {
		t.Fatalf("generating targets: %v", err)
	}
	f, err := NewParticleField(cfg, NewFlowField(cfg.Field.GridSize, cfg.Field.Bound), targets, rand.New(rand.NewSource(seed)))
	if err != nil {
		t.Fatalf("creating field: %v", err)
	}
	return f
}

// formUntilSettled runs forming until settled, failing after maxFrames.
func formUntilSettled(t *testing.T, f *ParticleField, maxFrames int) int {
	t.Helper()
	f.BeginForming()
	for frame := 1; frame <= maxFrames; frame++ {
		if f.UpdateForming() {
			return frame
		}
	}
	t.Fatalf("formation did not settle within %d frames (remaining %f)", maxFrames, f.Remaining())
	return 0
}

func TestNewParticleField(t *testing.T) {
	f := newTestField(t, 42)
	bound := f.Bound()

	if len(f.Particles) != 800 {
		t.Fatalf("expected 800 particles, got %d", len(f.Particles))
	}
	for i, p := range f.Particles {
		if math.Abs(p.Position.X) > bound || math.Abs(p.Position.Y) > bound || math.Abs(p.Position.Z) > bound {
			t.Errorf("particle %d spawned outside cube: %v", i, p.Position)
		}
		if p.LastPosition != p.Position {
			t.Errorf("particle %d last position not initialized", i)
		}
		if p.Size <= 0 || p.Speed <= 0 {
			t.Errorf("particle %d has size %f speed %f", i, p.Size, p.Speed)
		}
		if p.TargetIndex != i%800 {
			t.Errorf("particle %d has target index %d", i, p.TargetIndex)
		}
		for _, c := range []float64{p.Color.R, p.Color.G, p.Color.B} {
			if c < 0 || c > 1 {
				t.Errorf("particle %d colour out of range: %v", i, p.Color)
			}
		}
	}
}

func TestIdleColourGradient(t *testing.T) {
	f := newTestField(t, 1)
	center := rgbOf(config.Cfg().Field.CenterColor)

	// Particles closer to the center should be closer to the center colour
	var near, far *Particle
	for i := range f.Particles {
		p := &f.Particles[i]
		if near == nil || r3.Norm(p.Position) < r3.Norm(near.Position) {
			near = p
		}
		if far == nil || r3.Norm(p.Position) > r3.Norm(far.Position) {
			far = p
		}
	}
	if near.OriginalColor.Dist(center) >= far.OriginalColor.Dist(center) {
		t.Errorf("expected nearest particle (%v) to be closer to center colour than farthest (%v)",
			near.OriginalColor, far.OriginalColor)
	}
}

func TestIdleBoundsInvariant(t *testing.T) {
	f := newTestField(t, 7)
	bound := f.Bound()

	for frame := 0; frame < 2000; frame++ {
		f.UpdateIdle()
		for i, p := range f.Particles {
			step := p.Speed
			for _, c := range []float64{p.Position.X, p.Position.Y, p.Position.Z} {
				if c < -bound-step || c > bound+step {
					t.Fatalf("frame %d: particle %d escaped cube: %v", frame, i, p.Position)
				}
			}
		}
	}
}

func TestIdleRecordsLastPosition(t *testing.T) {
	f := newTestField(t, 3)
	before := make([]r3.Vec, len(f.Particles))
	for i, p := range f.Particles {
		before[i] = p.Position
	}

	f.UpdateIdle()

	moved := 0
	for i, p := range f.Particles {
		if p.LastPosition != before[i] {
			t.Fatalf("particle %d last position %v, want %v", i, p.LastPosition, before[i])
		}
		if p.Position != before[i] {
			moved++
		}
	}
	if moved == 0 {
		t.Error("no particle moved during idle update")
	}
}

func TestWrapIsToroidal(t *testing.T) {
	if v, ok := wrapCoord(50.2, 50); !ok || v != -50 {
		t.Errorf("wrapCoord(50.2) = %f, %v; want -50, true", v, ok)
	}
	if v, ok := wrapCoord(-50.2, 50); !ok || v != 50 {
		t.Errorf("wrapCoord(-50.2) = %f, %v; want 50, true", v, ok)
	}
	if v, ok := wrapCoord(12, 50); ok || v != 12 {
		t.Errorf("wrapCoord(12) = %f, %v; want 12, false", v, ok)
	}
}

func TestFormingConvergesMonotonically(t *testing.T) {
	f := newTestField(t, 11)
	f.BeginForming()
	eps := config.Cfg().Forming.Epsilon

	prev := make([]float64, len(f.Particles))
	for i, p := range f.Particles {
		prev[i] = r3.Norm(r3.Sub(p.TargetPosition, p.Position))
	}

	for frame := 0; frame < 400; frame++ {
		f.UpdateForming()
		for i, p := range f.Particles {
			d := r3.Norm(r3.Sub(p.TargetPosition, p.Position))
			if prev[i] > eps && d > prev[i]+1e-9 {
				t.Fatalf("frame %d: particle %d moved away from target: %f -> %f", frame, i, prev[i], d)
			}
			prev[i] = d
		}
	}
}

func TestFormingStepIsCapped(t *testing.T) {
	f := newTestField(t, 12)
	f.BeginForming()
	maxStep := config.Cfg().Forming.MaxStep

	f.UpdateForming()
	for i, p := range f.Particles {
		step := r3.Norm(r3.Sub(p.Position, p.LastPosition))
		if step > maxStep+1e-9 {
			t.Errorf("particle %d stepped %f, cap is %f", i, step, maxStep)
		}
	}
}

func TestFormingSettlesOnTargets(t *testing.T) {
	f := newTestField(t, 13)
	formUntilSettled(t, f, 5000)

	for i, p := range f.Particles {
		if d := r3.Norm(r3.Sub(p.TargetPosition, p.Position)); d > 0.5 {
			t.Errorf("particle %d is %f from its target after settling", i, d)
		}
	}
}

func TestWheelParticlesDarken(t *testing.T) {
	f := newTestField(t, 14)
	formUntilSettled(t, f, 5000)
	wheel := rgbOf(config.Cfg().Forming.WheelColor)

	checked := 0
	for i, p := range f.Particles {
		if p.Region != RegionWheel {
			continue
		}
		checked++
		if p.Color.Dist(wheel) >= p.OriginalColor.Dist(wheel) {
			t.Errorf("wheel particle %d colour %v not closer to %v than original %v",
				i, p.Color, wheel, p.OriginalColor)
		}
	}
	if checked == 0 {
		t.Fatal("no particle mapped to a wheel target")
	}
}

func TestFormingGrowsSize(t *testing.T) {
	f := newTestField(t, 15)
	formUntilSettled(t, f, 5000)

	for i, p := range f.Particles {
		if p.Size < p.BaseSize {
			t.Errorf("particle %d shrank: %f < %f", i, p.Size, p.BaseSize)
		}
	}
}

func TestHeldFallAndReset(t *testing.T) {
	f := newTestField(t, 16)
	formUntilSettled(t, f, 5000)
	f.BeginHeld()

	type xz struct{ x, z float64 }
	start := make([]xz, len(f.Particles))
	for i, p := range f.Particles {
		start[i] = xz{p.Position.X, p.Position.Z}
	}

	floor, reset := f.HeldRange()
	if reset <= 0 || floor >= 0 {
		t.Fatalf("expected floor < 0 < reset, got %f and %f", floor, reset)
	}

	bound := f.Bound()
	for frame := 0; frame < 5000 && f.HeldResets() == 0; frame++ {
		f.UpdateHeld()
		for i, p := range f.Particles {
			if p.Position.Y < -bound-1e-9 || p.Position.Y > bound+1e-9 {
				t.Fatalf("frame %d: particle %d left the cube vertically: %f", frame, i, p.Position.Y)
			}
		}
	}
	if f.HeldResets() != 1 {
		t.Fatalf("expected one reset, got %d", f.HeldResets())
	}

	if f.HeldOffset() < reset {
		t.Errorf("offset after reset %f, want >= %f", f.HeldOffset(), reset)
	}
	for i, p := range f.Particles {
		if p.Position.X != start[i].x || p.Position.Z != start[i].z {
			t.Fatalf("particle %d moved horizontally: (%f,%f) -> (%f,%f)",
				i, start[i].x, start[i].z, p.Position.X, p.Position.Z)
		}
		if y := p.Position.Y - p.TargetPosition.Y; math.Abs(y-reset) > 1e-6 {
			t.Errorf("particle %d offset %f after reset, want %f", i, y, reset)
		}
	}
}

func TestNonFinitePositionsRepaired(t *testing.T) {
	f := newTestField(t, 17)
	f.Particles[0].Position.X = math.NaN()
	f.Particles[1].Position.Y = math.Inf(1)

	f.UpdateIdle()
	if f.Corrected() == 0 {
		t.Error("expected a correction for the NaN particle")
	}
	for i := 0; i < 2; i++ {
		if !finite(f.Particles[i].Position) {
			t.Errorf("particle %d still non-finite: %v", i, f.Particles[i].Position)
		}
	}

	f.BeginForming()
	f.Particles[2].Position.Z = math.NaN()
	f.UpdateForming()
	if f.Corrected() != 1 {
		t.Errorf("expected 1 correction during forming, got %d", f.Corrected())
	}
	if math.IsNaN(f.Remaining()) {
		t.Error("remaining distance became NaN")
	}
}

func TestBuffersReusedAcrossFrames(t *testing.T) {
	f := newTestField(t, 18)
	positions := &f.Points.Positions[0]
	colors := &f.Points.Colors[0]
	version := f.Points.Version

	f.UpdateIdle()
	f.UpdateIdle()

	if &f.Points.Positions[0] != positions || &f.Points.Colors[0] != colors {
		t.Error("point buffers were reallocated")
	}
	if f.Points.Version != version+2 {
		t.Errorf("expected version %d, got %d", version+2, f.Points.Version)
	}

	p := f.Particles[5]
	if f.Points.Positions[15] != float32(p.Position.X) || f.Points.Sizes[5] != float32(p.Size) {
		t.Error("point buffer does not mirror particle state")
	}
}

func TestFormingProgress(t *testing.T) {
	f := newTestField(t, 21)
	f.BeginForming()
	if got := f.Progress(); got != 0 {
		t.Fatalf("Progress() before any step = %f, want 0", got)
	}

	prev := 0.0
	for frame := 0; frame < 50; frame++ {
		f.UpdateForming()
		got := f.Progress()
		if got < prev-1e-12 {
			t.Fatalf("frame %d: progress fell from %f to %f", frame, prev, got)
		}
		prev = got
	}

	formUntilSettled(t, f, 5000)
	if got := f.Progress(); got < 0.99 {
		t.Errorf("Progress() after settling = %f, want close to 1", got)
	}
}
