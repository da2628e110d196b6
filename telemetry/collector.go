package telemetry

import "time"

// Collector accumulates per-frame samples within windows and produces WindowStats.
type Collector struct {
	windowFrames int

	// Current window tracking
	windowStartFrame int

	// Samples for the current window
	remaining   []float64
	frameMS     []float64
	transitions int
	corrected   int
	resets      int
}

// NewCollector creates a new stats collector.
// windowFrames: number of frames per window; values below 1 are treated as 1.
func NewCollector(windowFrames int) *Collector {
	if windowFrames < 1 {
		windowFrames = 1
	}
	return &Collector{
		windowFrames: windowFrames,
		remaining:    make([]float64, 0, windowFrames),
		frameMS:      make([]float64, 0, windowFrames),
	}
}

// Record adds one frame's sample.
// remaining is only meaningful while forming; pass a negative value to skip it.
func (c *Collector) Record(dt time.Duration, remaining float64, corrected int) {
	c.frameMS = append(c.frameMS, float64(dt)/float64(time.Millisecond))
	if remaining >= 0 {
		c.remaining = append(c.remaining, remaining)
	}
	c.corrected += corrected
}

// RecordTransition counts a phase change in the current window.
func (c *Collector) RecordTransition() {
	c.transitions++
}

// RecordHeldReset counts a wrap of the falling formation.
func (c *Collector) RecordHeldReset() {
	c.resets++
}

// ShouldFlush returns true if enough frames have passed to flush the window.
func (c *Collector) ShouldFlush(currentFrame int) bool {
	return currentFrame-c.windowStartFrame >= c.windowFrames
}

// Flush produces a WindowStats and resets the samples for the next window.
// The caller provides the current frame, phase name and elapsed animation time.
func (c *Collector) Flush(currentFrame int, phase string, elapsedMS float64) WindowStats {
	remMean, _, remP10, remP50, remP90 := ComputeSeriesStats(c.remaining)
	dtMean, dtStd, _, _, dtP90 := ComputeSeriesStats(c.frameMS)

	stats := WindowStats{
		WindowStartFrame: c.windowStartFrame,
		WindowEndFrame:   currentFrame,
		ElapsedMS:        elapsedMS,
		Phase:            phase,

		Transitions: c.transitions,
		Corrected:   c.corrected,
		HeldResets:  c.resets,

		RemainingMean: remMean,
		RemainingP10:  remP10,
		RemainingP50:  remP50,
		RemainingP90:  remP90,

		FrameMSMean: dtMean,
		FrameMSStd:  dtStd,
		FrameMSP90:  dtP90,
	}

	// Reset for next window
	c.windowStartFrame = currentFrame
	c.remaining = c.remaining[:0]
	c.frameMS = c.frameMS[:0]
	c.transitions = 0
	c.corrected = 0
	c.resets = 0

	return stats
}

// WindowFrames returns the number of frames per window.
func (c *Collector) WindowFrames() int {
	return c.windowFrames
}
