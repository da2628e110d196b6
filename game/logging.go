package game

import (
	"fmt"
	"io"
	"time"

	"github.com/pthm-cable/carfield/telemetry"
)

// logWriter is the destination for log output.
var logWriter io.Writer

// SetLogWriter sets the log output destination.
func SetLogWriter(w io.Writer) {
	logWriter = w
}

// Logf writes a formatted log message.
func Logf(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	if logWriter != nil {
		fmt.Fprintln(logWriter, msg)
	} else {
		fmt.Println(msg)
	}
}

// logPerfStats logs host-side timing and the animation frame cost per phase.
func (g *Game) logPerfStats() {
	total := g.perf.Total()
	Logf("=== Perf @ Frame %d ===", g.tick)
	Logf("Total host time: %s", total.Round(time.Microsecond))

	for _, name := range g.perf.SortedNames() {
		avg := g.perf.Avg(name)
		pct := float64(0)
		if total > 0 {
			pct = float64(avg) / float64(total) * 100
		}
		Logf("  %-18s %10s  %5.1f%%", name, avg.Round(time.Microsecond), pct)
	}

	stats := g.perfCollector.Stats()
	for _, c := range stats.Phases {
		Logf("  --- Animation %s: %d frames, avg %s, max %s ---",
			c.Phase, c.Frames, c.AvgFrame.Round(time.Microsecond), c.MaxFrame.Round(time.Microsecond))
		for _, name := range telemetry.FrameSteps() {
			Logf("    %-16s %10s  %5.1f%%", name, c.StepAvg[name].Round(time.Microsecond), c.StepPct(name))
		}
	}
	Logf("")
}
