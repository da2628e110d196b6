package game

import (
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/carfield/systems"
	"github.com/pthm-cable/carfield/telemetry"
	"github.com/pthm-cable/carfield/ui"
)

const controlsLegend = "[space] pause  [R] restart  [tab] overlays  [T/B/F/G/P/O] toggles  [arrows] orbit  [+/-] zoom  [C] reset view"

// Draw renders the frame.
func (g *Game) Draw() {
	g.perfCollector.RecordFrame()

	rl.BeginDrawing()
	rl.ClearBackground(rl.Black)

	if g.anim == nil || !g.anim.Mounted() {
		g.background.DrawStatic("animation unavailable")
		rl.EndDrawing()
		return
	}

	g.perf.Time("draw", func() {
		g.background.Draw()
		g.sceneRenderer.Draw(g.scene, g.cam, g.drawDebugOverlays)
	})

	g.drawUI()
	rl.EndDrawing()
}

// drawDebugOverlays runs inside the 3D pass.
func (g *Game) drawDebugOverlays() {
	if g.overlays.IsEnabled(ui.OverlayFlowField) {
		g.flowRenderer.Draw(g.anim.Flow())
	}
	if g.overlays.IsEnabled(ui.OverlayTargets) {
		field := g.anim.Field()
		if field == nil {
			return
		}
		offset := 0.0
		if g.anim.Phase() == systems.PhaseHeld {
			offset = field.HeldOffset()
		}
		g.targetRenderer.Draw(g.anim.Targets(), field.RoleColor, offset)
	}
}

// drawUI renders the HUD and panels.
func (g *Game) drawUI() {
	data := ui.HUDData{
		Title:     "Car Field",
		Phase:     g.anim.Phase().String(),
		Frame:     g.tick,
		ElapsedMS: g.anim.ElapsedMS(),
		FPS:       rl.GetFPS(),
		Paused:    g.paused,
	}
	if field := g.anim.Field(); field != nil {
		data.Particles = len(field.Particles)
		data.Remaining = field.Remaining()
		data.Progress = float32(field.Progress())
	}
	g.hud.Draw(data)
	g.hud.DrawControls(int32(g.screenHeight), controlsLegend)

	if g.overlays.IsEnabled(ui.OverlayPerf) {
		g.drawPerfPanel()
	}

	changed, speed := g.controls.Draw(g.overlays, g.orbitSpeed)
	g.orbitSpeed = speed
	for _, id := range changed {
		g.applyOverlay(id)
	}
}

// drawPerfPanel shows host timings and the animation frame breakdown.
func (g *Game) drawPerfPanel() {
	names := g.perf.SortedNames()
	data := ui.PerfPanelData{
		SectionTimes: make(map[string]time.Duration, len(names)),
		Total:        g.perf.Total(),
		Animation:    g.perfCollector.Stats(),
	}
	for _, name := range names {
		data.SectionTimes[name] = g.perf.Avg(name)
	}
	g.perfPanel.Draw(data, names, telemetry.FrameSteps())
}
