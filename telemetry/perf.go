package telemetry

import (
	"log/slog"
	"time"
)

// Steps of one animation frame, in the order they run.
const (
	StepDecide    = "decide"    // Phase controller
	StepParticles = "particles" // Particle field update and buffer export
	StepTrails    = "trails"    // Trail segment derivation
)

var frameSteps = [...]string{StepDecide, StepParticles, StepTrails}

const numSteps = len(frameSteps)

// FrameSteps returns the step names in frame order.
func FrameSteps() []string {
	steps := frameSteps
	return steps[:]
}

func stepIndex(name string) int {
	for i, s := range frameSteps {
		if s == name {
			return i
		}
	}
	return -1
}

// frameSample is the timing of one animation frame.
type frameSample struct {
	phase string // Animation phase the frame ran in
	total time.Duration
	steps [numSteps]time.Duration
}

// PerfCollector times animation frames over a rolling window and files each
// frame under the animation phase it ran in.
type PerfCollector struct {
	now func() time.Time

	ring   []frameSample
	next   int
	filled int

	cur        frameSample
	frameStart time.Time
	stepStart  time.Time
	step       int // Running step index, -1 when none

	// Display frame timing (graphics mode)
	lastDisplay  time.Time
	displayFrame time.Duration
}

// NewPerfCollector keeps the last window frames (60 when window < 1).
func NewPerfCollector(window int) *PerfCollector {
	if window < 1 {
		window = 60
	}
	return &PerfCollector{
		now:  time.Now,
		ring: make([]frameSample, window),
		step: -1,
	}
}

// BeginFrame starts timing an animation frame.
func (p *PerfCollector) BeginFrame() {
	p.frameStart = p.now()
	p.cur = frameSample{}
	p.step = -1
}

// Step closes the running step and starts the named one. Unknown names
// count toward the frame total only.
func (p *PerfCollector) Step(name string) {
	t := p.now()
	p.closeStep(t)
	p.step = stepIndex(name)
	p.stepStart = t
}

func (p *PerfCollector) closeStep(t time.Time) {
	if p.step >= 0 {
		p.cur.steps[p.step] += t.Sub(p.stepStart)
	}
}

// EndFrame closes the frame and records it under phase.
func (p *PerfCollector) EndFrame(phase string) {
	t := p.now()
	p.closeStep(t)
	p.step = -1

	p.cur.phase = phase
	p.cur.total = t.Sub(p.frameStart)
	p.ring[p.next] = p.cur
	p.next = (p.next + 1) % len(p.ring)
	if p.filled < len(p.ring) {
		p.filled++
	}
}

// RecordFrame marks a displayed frame.
func (p *PerfCollector) RecordFrame() {
	t := p.now()
	if !p.lastDisplay.IsZero() {
		p.displayFrame = t.Sub(p.lastDisplay)
	}
	p.lastDisplay = t
}

// PhaseCost is the frame cost of one animation phase within the window.
type PhaseCost struct {
	Phase    string
	Frames   int
	AvgFrame time.Duration
	MaxFrame time.Duration
	StepAvg  map[string]time.Duration
}

// StepPct returns a step's share of the phase's average frame time.
func (c PhaseCost) StepPct(step string) float64 {
	return pct(c.StepAvg[step], c.AvgFrame)
}

// PerfStats summarizes the window.
type PerfStats struct {
	Frames   int
	AvgFrame time.Duration
	StepAvg  map[string]time.Duration

	// Phases in order of first appearance in the window
	Phases []PhaseCost

	DisplayFrame time.Duration
	FPS          float64
}

// StepPct returns a step's share of the average frame time across all phases.
func (s PerfStats) StepPct(step string) float64 {
	return pct(s.StepAvg[step], s.AvgFrame)
}

// Phase returns the cost recorded for one animation phase.
func (s PerfStats) Phase(name string) (PhaseCost, bool) {
	for _, c := range s.Phases {
		if c.Phase == name {
			return c, true
		}
	}
	return PhaseCost{}, false
}

func pct(part, whole time.Duration) float64 {
	if whole <= 0 {
		return 0
	}
	return float64(part) / float64(whole) * 100
}

type costAcc struct {
	frames int
	total  time.Duration
	max    time.Duration
	steps  [numSteps]time.Duration
}

func (a *costAcc) add(s frameSample) {
	a.frames++
	a.total += s.total
	a.max = max(a.max, s.total)
	for i, d := range s.steps {
		a.steps[i] += d
	}
}

func (a *costAcc) stepAvg() map[string]time.Duration {
	m := make(map[string]time.Duration, numSteps)
	if a.frames == 0 {
		return m
	}
	for i, name := range frameSteps {
		m[name] = a.steps[i] / time.Duration(a.frames)
	}
	return m
}

// Stats aggregates the frames currently in the window.
func (p *PerfCollector) Stats() PerfStats {
	s := PerfStats{DisplayFrame: p.displayFrame}
	if p.displayFrame > 0 {
		s.FPS = float64(time.Second) / float64(p.displayFrame)
	}

	var all costAcc
	var order []string
	byPhase := make(map[string]*costAcc)

	start := 0
	if p.filled == len(p.ring) {
		start = p.next
	}
	for i := 0; i < p.filled; i++ {
		smp := p.ring[(start+i)%len(p.ring)]
		all.add(smp)
		acc, ok := byPhase[smp.phase]
		if !ok {
			acc = &costAcc{}
			byPhase[smp.phase] = acc
			order = append(order, smp.phase)
		}
		acc.add(smp)
	}

	s.Frames = all.frames
	s.StepAvg = all.stepAvg()
	if all.frames > 0 {
		s.AvgFrame = all.total / time.Duration(all.frames)
	}
	for _, name := range order {
		acc := byPhase[name]
		s.Phases = append(s.Phases, PhaseCost{
			Phase:    name,
			Frames:   acc.frames,
			AvgFrame: acc.total / time.Duration(acc.frames),
			MaxFrame: acc.max,
			StepAvg:  acc.stepAvg(),
		})
	}
	return s
}

// LogStats logs the window with one group per animation phase.
func (s PerfStats) LogStats() {
	attrs := []any{
		"frames", s.Frames,
		"avg_frame_us", s.AvgFrame.Microseconds(),
	}
	if s.FPS > 0 {
		attrs = append(attrs, "fps", int(s.FPS))
	}
	for _, c := range s.Phases {
		attrs = append(attrs, slog.Group(c.Phase,
			"frames", c.Frames,
			"avg_frame_us", c.AvgFrame.Microseconds(),
			"max_frame_us", c.MaxFrame.Microseconds(),
			"particles_pct", int(c.StepPct(StepParticles)*10)/10.0,
		))
	}
	slog.Info("perf", attrs...)
}

// PerfRow is one line of perf.csv: the cost of one animation phase in a window.
type PerfRow struct {
	WindowEnd    int     `csv:"window_end"`
	Phase        string  `csv:"phase"`
	Frames       int     `csv:"frames"`
	AvgFrameUS   int64   `csv:"avg_frame_us"`
	MaxFrameUS   int64   `csv:"max_frame_us"`
	DecidePct    float64 `csv:"decide_pct"`
	ParticlesPct float64 `csv:"particles_pct"`
	TrailsPct    float64 `csv:"trails_pct"`
	FPS          float64 `csv:"fps"`
}

// Rows flattens the stats into one row per animation phase.
func (s PerfStats) Rows(windowEnd int) []PerfRow {
	rows := make([]PerfRow, 0, len(s.Phases))
	for _, c := range s.Phases {
		rows = append(rows, PerfRow{
			WindowEnd:    windowEnd,
			Phase:        c.Phase,
			Frames:       c.Frames,
			AvgFrameUS:   c.AvgFrame.Microseconds(),
			MaxFrameUS:   c.MaxFrame.Microseconds(),
			DecidePct:    c.StepPct(StepDecide),
			ParticlesPct: c.StepPct(StepParticles),
			TrailsPct:    c.StepPct(StepTrails),
			FPS:          s.FPS,
		})
	}
	return rows
}
