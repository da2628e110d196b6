package systems

import "github.com/pthm-cable/carfield/components"

// trailTailFade dims the tail vertex relative to the head.
const trailTailFade = 0.3

// TrailSystem mirrors every particle as a segment from its last position to
// its current one.
type TrailSystem struct {
	Lines *components.LineBuffer
}

// NewTrailSystem allocates segments for n particles.
func NewTrailSystem(n int) *TrailSystem {
	return &TrailSystem{Lines: components.NewLineBuffer(n)}
}

// Update rewrites the segment buffer from the particles' current state.
// It must run after the frame's particle update.
func (s *TrailSystem) Update(particles []Particle) {
	v := s.Lines.Vertices
	c := s.Lines.Colors
	for i := range particles {
		p := &particles[i]
		o := 6 * i
		v[o] = float32(p.LastPosition.X)
		v[o+1] = float32(p.LastPosition.Y)
		v[o+2] = float32(p.LastPosition.Z)
		v[o+3] = float32(p.Position.X)
		v[o+4] = float32(p.Position.Y)
		v[o+5] = float32(p.Position.Z)

		c[o] = float32(p.Color.R * trailTailFade)
		c[o+1] = float32(p.Color.G * trailTailFade)
		c[o+2] = float32(p.Color.B * trailTailFade)
		c[o+3] = float32(p.Color.R)
		c[o+4] = float32(p.Color.G)
		c[o+5] = float32(p.Color.B)
	}
	s.Lines.Version++
}
