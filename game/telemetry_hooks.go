package game

import (
	"log/slog"

	"github.com/pthm-cable/carfield/animation"
	"github.com/pthm-cable/carfield/systems"
	"github.com/pthm-cable/carfield/telemetry"
)

// onFrame feeds every completed animation frame into telemetry.
func (g *Game) onFrame(fs animation.FrameStats) {
	remaining := -1.0
	if fs.Phase == systems.PhaseForming {
		remaining = fs.Remaining
	}
	g.collector.Record(fs.Delta, remaining, fs.Corrected)

	if fs.Transitioned {
		g.collector.RecordTransition()
		tr := telemetry.NewTransition(fs.Frame, g.lastPhase.String(), fs.Phase.String(), fs.ElapsedMS, fs.Remaining)
		if err := g.outputManager.WriteTransition(tr); err != nil {
			slog.Error("failed to write transition", "error", err)
		}
		g.lastPhase = fs.Phase
	}
	if fs.Phase == systems.PhaseHeld && fs.HeldResets > g.heldResets {
		g.collector.RecordHeldReset()
	}
	g.heldResets = fs.HeldResets
}

// flushTelemetry checks if the stats window should be flushed.
func (g *Game) flushTelemetry() {
	if !g.collector.ShouldFlush(int(g.tick)) {
		return
	}

	phase, elapsed := "unmounted", 0.0
	if g.anim != nil && g.anim.Mounted() {
		phase = g.anim.Phase().String()
		elapsed = g.anim.ElapsedMS()
	}

	stats := g.collector.Flush(int(g.tick), phase, elapsed)
	perfStats := g.perfCollector.Stats()

	// Call stats callback if provided
	if g.statsCallback != nil {
		g.statsCallback(stats)
	}

	// Log stats if enabled (console output)
	if g.logStats {
		stats.LogStats()
		perfStats.LogStats()
		if !g.headless {
			g.logPerfStats()
		}
	}

	// Write to CSV if output manager is enabled
	if g.outputManager != nil {
		if err := g.outputManager.WriteFrames(stats); err != nil {
			slog.Error("failed to write frames", "error", err)
		}
		if err := g.outputManager.WritePerf(perfStats, stats.WindowEndFrame); err != nil {
			slog.Error("failed to write perf", "error", err)
		}
	}
}
