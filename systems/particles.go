package systems

import (
	"errors"
	"math"
	"math/rand"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/carfield/components"
	"github.com/pthm-cable/carfield/config"
)

// Particle is a single point of the field.
type Particle struct {
	Position     r3.Vec
	LastPosition r3.Vec // Position at the start of the current frame

	Size     float64
	BaseSize float64

	Color         RGB
	OriginalColor RGB

	Speed float64 // Idle displacement per frame

	TargetPosition r3.Vec
	TargetIndex    int
	Region         Region

	startDist float64 // Distance to target when forming began
}

// ParticleField owns all particle state and rewrites the point buffer after every update.
type ParticleField struct {
	Particles []Particle
	Points    *components.PointBuffer

	flow    FlowSampler
	targets *TargetSet
	bound   float64

	chaseRate       float64
	maxStep         float64
	epsilon         float64
	settleThreshold float64
	sizeGrowth      float64
	fallRate        float64

	wheelColor     RGB
	headlightColor RGB
	neutralColor   RGB

	remaining float64 // Summed distance to targets after the last forming update
	startSum  float64 // Summed distance to targets when forming began
	corrected int     // Non-finite positions repaired by the last update

	heldOffset float64
	heldFloor  float64
	heldReset  float64
	heldResets int
}

// NewParticleField scatters cfg.Field.Count particles uniformly inside the cube,
// colours them by distance from the center and assigns each a stable target index.
func NewParticleField(cfg *config.Config, flow FlowSampler, targets *TargetSet, rng *rand.Rand) (*ParticleField, error) {
	if flow == nil {
		return nil, errors.New("particle field: nil flow sampler")
	}
	if targets == nil || targets.Len() == 0 {
		return nil, errors.New("particle field: empty target set")
	}

	n := cfg.Field.Count
	bound := cfg.Field.Bound
	f := &ParticleField{
		Particles:       make([]Particle, n),
		Points:          components.NewPointBuffer(n),
		flow:            flow,
		targets:         targets,
		bound:           bound,
		chaseRate:       cfg.Forming.ChaseRate,
		maxStep:         cfg.Forming.MaxStep,
		epsilon:         cfg.Forming.Epsilon,
		settleThreshold: cfg.Forming.SettleThreshold,
		sizeGrowth:      cfg.Forming.SizeGrowth,
		fallRate:        cfg.Held.FallRate,
		wheelColor:      rgbOf(cfg.Forming.WheelColor),
		headlightColor:  rgbOf(cfg.Forming.HeadlightColor),
		neutralColor:    rgbOf(cfg.Forming.NeutralColor),
	}

	center := rgbOf(cfg.Field.CenterColor)
	surface := rgbOf(cfg.Field.SurfaceColor)
	maxDist := bound * math.Sqrt(3)

	for i := range f.Particles {
		p := &f.Particles[i]
		p.Position = r3.Vec{
			X: (rng.Float64()*2 - 1) * bound,
			Y: (rng.Float64()*2 - 1) * bound,
			Z: (rng.Float64()*2 - 1) * bound,
		}
		p.LastPosition = p.Position
		p.BaseSize = cfg.Field.MinSize + rng.Float64()*(cfg.Field.MaxSize-cfg.Field.MinSize)
		p.Size = p.BaseSize
		p.OriginalColor = center.Lerp(surface, clamp01(r3.Norm(p.Position)/maxDist))
		p.Color = p.OriginalColor
		p.Speed = cfg.Field.MinSpeed + rng.Float64()*(cfg.Field.MaxSpeed-cfg.Field.MinSpeed)
		p.TargetIndex = i % targets.Len()
		p.Region = targets.Regions[p.TargetIndex]
	}

	f.export()
	return f, nil
}

// UpdateIdle drifts every particle along the flow field and wraps it back
// into the cube through the opposite face.
func (f *ParticleField) UpdateIdle() {
	f.corrected = 0
	for i := range f.Particles {
		p := &f.Particles[i]
		p.LastPosition = p.Position

		dir := f.flow.Lookup(p.Position)
		next := r3.Add(p.Position, r3.Scale(p.Speed, dir))
		next.X, _ = wrapCoord(next.X, f.bound)
		next.Y, _ = wrapCoord(next.Y, f.bound)
		next.Z, _ = wrapCoord(next.Z, f.bound)

		if !finite(next) {
			next = f.repair(p)
		}
		p.Position = next
	}
	f.export()
}

// repair picks a finite replacement for a corrupted position.
func (f *ParticleField) repair(p *Particle) r3.Vec {
	f.corrected++
	if finite(p.LastPosition) {
		return p.LastPosition
	}
	return r3.Vec{}
}

// BeginForming assigns every particle its formation target.
func (f *ParticleField) BeginForming() {
	f.remaining = 0
	for i := range f.Particles {
		p := &f.Particles[i]
		p.TargetIndex = i % f.targets.Len()
		p.TargetPosition = f.targets.Points[p.TargetIndex]
		p.Region = f.targets.Regions[p.TargetIndex]
		p.startDist = r3.Norm(r3.Sub(p.TargetPosition, p.Position))
		f.remaining += p.startDist
	}
	f.startSum = f.remaining
}

// UpdateForming moves every particle toward its target by a step proportional
// to the remaining distance but capped at maxStep, so no particle overshoots.
// Returns true once the summed remaining distance drops below the settle threshold.
func (f *ParticleField) UpdateForming() bool {
	f.corrected = 0
	f.remaining = 0
	for i := range f.Particles {
		p := &f.Particles[i]
		p.LastPosition = p.Position

		if !finite(p.Position) {
			f.corrected++
			p.Position = p.TargetPosition
		}

		delta := r3.Sub(p.TargetPosition, p.Position)
		dist := r3.Norm(delta)
		if dist > f.epsilon {
			step := math.Min(dist*f.chaseRate, f.maxStep)
			p.Position = r3.Add(p.Position, r3.Scale(step/dist, delta))
			dist -= step
		} else {
			p.Position = p.TargetPosition
			dist = 0
		}

		f.blend(p, dist)
		f.remaining += dist
	}
	f.export()
	return f.Settled()
}

// blend moves colour toward the role colour and grows the particle in
// proportion to how much of the starting distance has been closed.
func (f *ParticleField) blend(p *Particle, dist float64) {
	progress := 1.0
	if p.startDist > 0 {
		progress = clamp01(1 - dist/p.startDist)
	}
	p.Color = p.OriginalColor.Lerp(f.RoleColor(p.Region), progress)
	p.Size = p.BaseSize * (1 + f.sizeGrowth*progress*progress)
}

// RoleColor returns the colour particles heading to the given region take on.
func (f *ParticleField) RoleColor(r Region) RGB {
	switch r {
	case RegionWheel:
		return f.wheelColor
	case RegionHeadlight:
		return f.headlightColor
	}
	return f.neutralColor
}

// Settled reports whether the formation has assembled.
func (f *ParticleField) Settled() bool {
	return f.remaining < f.settleThreshold
}

// Remaining returns the summed distance to targets after the last forming update.
func (f *ParticleField) Remaining() float64 {
	return f.remaining
}

// Progress returns the fraction of the starting distance closed so far.
func (f *ParticleField) Progress() float64 {
	if f.startSum <= 0 {
		return 1
	}
	return clamp01(1 - f.remaining/f.startSum)
}

// Corrected returns the number of non-finite positions repaired by the last update.
func (f *ParticleField) Corrected() int {
	return f.corrected
}

// BeginHeld snaps the formation onto its targets and computes the fall range:
// the formation falls until its lowest point reaches the cube floor, then
// reappears with its highest point at the cube ceiling.
func (f *ParticleField) BeginHeld() {
	for i := range f.Particles {
		p := &f.Particles[i]
		p.LastPosition = p.Position
		p.Position = p.TargetPosition
		f.blend(p, 0)
	}
	f.remaining = 0

	f.heldOffset = 0
	f.heldFloor = math.Min(0, -f.bound-f.targets.MinY)
	f.heldReset = math.Max(0, f.bound-f.targets.MaxY)
	f.heldResets = 0
	f.export()
}

// UpdateHeld translates the whole formation downward. X and Z are never touched.
func (f *ParticleField) UpdateHeld() {
	next := f.heldOffset - f.fallRate
	if next < f.heldFloor {
		next = f.heldReset
		f.heldResets++
	}
	dy := next - f.heldOffset
	f.heldOffset = next

	f.corrected = 0
	for i := range f.Particles {
		p := &f.Particles[i]
		p.LastPosition = p.Position
		p.Position.Y += dy
		if !finite(p.Position) {
			f.corrected++
			p.Position = r3.Add(p.TargetPosition, r3.Vec{Y: f.heldOffset})
		}
	}
	f.export()
}

// HeldOffset returns the formation's current vertical offset from its targets.
func (f *ParticleField) HeldOffset() float64 {
	return f.heldOffset
}

// HeldRange returns the offset at which the formation wraps and the offset it wraps to.
func (f *ParticleField) HeldRange() (floor, reset float64) {
	return f.heldFloor, f.heldReset
}

// HeldResets returns how many times the falling formation has wrapped.
func (f *ParticleField) HeldResets() int {
	return f.heldResets
}

// Bound returns the cube half-extent.
func (f *ParticleField) Bound() float64 {
	return f.bound
}

// export writes positions, sizes and colours into the preallocated point buffer.
func (f *ParticleField) export() {
	b := f.Points
	for i := range f.Particles {
		p := &f.Particles[i]
		b.Positions[3*i] = float32(p.Position.X)
		b.Positions[3*i+1] = float32(p.Position.Y)
		b.Positions[3*i+2] = float32(p.Position.Z)
		b.Sizes[i] = float32(p.Size)
		b.Colors[3*i] = float32(p.Color.R)
		b.Colors[3*i+1] = float32(p.Color.G)
		b.Colors[3*i+2] = float32(p.Color.B)
	}
	b.Version++
}
