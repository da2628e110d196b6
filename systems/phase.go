package systems

import (
	"fmt"
	"time"
)

// Phase is the top-level animation state.
type Phase uint8

const (
	PhaseIdle    Phase = iota // Drifting in the flow field
	PhaseForming              // Assembling the silhouette
	PhaseHeld                 // Formed; falling and looping
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseForming:
		return "forming"
	case PhaseHeld:
		return "held"
	}
	return fmt.Sprintf("phase(%d)", uint8(p))
}

// PhaseController decides which update rule runs each frame.
// Transitions are one-way: Idle -> Forming -> Held.
type PhaseController struct {
	phase         Phase
	elapsed       time.Duration
	idleThreshold time.Duration
	settled       bool
}

// NewPhaseController starts in Idle.
func NewPhaseController(idleThreshold time.Duration) *PhaseController {
	return &PhaseController{idleThreshold: idleThreshold}
}

// Advance accumulates frame time and returns the phase to run this frame.
// transitioned is true on the frame the phase changed.
// Negative deltas are ignored.
func (c *PhaseController) Advance(dt time.Duration) (phase Phase, transitioned bool) {
	if dt > 0 {
		c.elapsed += dt
	}

	switch c.phase {
	case PhaseIdle:
		if c.elapsed >= c.idleThreshold {
			c.phase = PhaseForming
			return c.phase, true
		}
	case PhaseForming:
		if c.settled {
			c.phase = PhaseHeld
			return c.phase, true
		}
	}
	return c.phase, false
}

// ReportSettled records the forming result; the Held transition happens on the next Advance.
func (c *PhaseController) ReportSettled(settled bool) {
	if c.phase == PhaseForming {
		c.settled = settled
	}
}

// Phase returns the current phase.
func (c *PhaseController) Phase() Phase {
	return c.phase
}

// Elapsed returns the accumulated frame time.
func (c *PhaseController) Elapsed() time.Duration {
	return c.elapsed
}

// ElapsedMS returns the accumulated frame time in milliseconds.
func (c *PhaseController) ElapsedMS() float64 {
	return float64(c.elapsed) / float64(time.Millisecond)
}

// Settled reports whether forming has finished.
func (c *PhaseController) Settled() bool {
	return c.settled
}
