package animation

import "time"

// TickSource calls registered functions once per display frame with the
// time elapsed since the previous frame. Registration returns a function
// that cancels it.
type TickSource interface {
	Register(fn func(dt time.Duration)) (unregister func())
}

// PerfTimer receives per-frame timing marks. EndFrame names the animation
// phase the frame ran in. telemetry.PerfCollector implements it.
type PerfTimer interface {
	BeginFrame()
	Step(name string)
	EndFrame(phase string)
}

type noPerf struct{}

func (noPerf) BeginFrame()     {}
func (noPerf) Step(string)     {}
func (noPerf) EndFrame(string) {}
