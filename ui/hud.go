package ui

import (
	"fmt"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/carfield/telemetry"
)

// HUDData holds all the data needed to render the main HUD.
type HUDData struct {
	Title     string
	Phase     string
	Frame     int32
	ElapsedMS float64
	Remaining float64 // Summed distance to targets (forming only)
	Progress  float32 // Fraction of the starting distance closed
	Particles int
	FPS       int32
	Paused    bool
}

// HUD renders the main heads-up display.
type HUD struct {
	renderer *Renderer
}

// NewHUD creates a new HUD renderer.
func NewHUD() *HUD {
	return &HUD{renderer: NewRenderer()}
}

// Draw renders the HUD.
func (h *HUD) Draw(data HUDData) {
	r := h.renderer
	rl.DrawText(data.Title, 10, 10, 20, rl.White)

	rl.DrawText(
		fmt.Sprintf("Frame: %d | %.1fs | FPS: %d | Particles: %d", data.Frame, data.ElapsedMS/1000, data.FPS, data.Particles),
		10, 35, 16, rl.LightGray,
	)
	rl.DrawText(fmt.Sprintf("Phase: %s", data.Phase), 10, 55, 16, rl.LightGray)

	y := int32(75)
	if data.Phase == "forming" {
		y = r.DrawBar(10, y, "Assembled", data.Progress, 260)
	}

	if data.Paused {
		rl.DrawText("PAUSED", 10, y, 16, rl.Yellow)
	}
}

// DrawControls renders the control legend at the bottom of the screen.
func (h *HUD) DrawControls(screenHeight int32, controls string) {
	rl.DrawText(controls, 10, screenHeight-25, 14, rl.Gray)
}

// PerfPanelData holds performance metrics for display.
type PerfPanelData struct {
	SectionTimes map[string]time.Duration
	Total        time.Duration
	Animation    telemetry.PerfStats // Animation frame cost per phase
}

// PerfPanel renders the performance panel.
type PerfPanel struct {
	renderer *Renderer
	x, y     int32
}

// NewPerfPanel creates a new performance panel.
func NewPerfPanel(x, y int32) *PerfPanel {
	return &PerfPanel{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
	}
}

// SetPosition updates the panel position.
func (p *PerfPanel) SetPosition(x, y int32) {
	p.x = x
	p.y = y
}

// Draw renders the performance panel.
func (p *PerfPanel) Draw(data PerfPanelData, sortedNames []string, steps []string) {
	x := p.x
	y := p.y

	rl.DrawText("Performance", x, y, 16, rl.White)
	y += 20

	rl.DrawText(fmt.Sprintf("Total: %s", data.Total.Round(time.Microsecond)), x, y, 14, rl.Yellow)
	y += 16

	for _, name := range sortedNames {
		avg := data.SectionTimes[name]
		pct := float64(0)
		if data.Total > 0 {
			pct = float64(avg) / float64(data.Total) * 100
		}

		color := rl.LightGray
		if pct > 60 {
			color = rl.Orange
		}
		rl.DrawText(fmt.Sprintf("%-12s %8s %5.1f%%", name, avg.Round(time.Microsecond), pct), x, y, 12, color)
		y += 14
	}

	for _, c := range data.Animation.Phases {
		y += 4
		y = p.renderer.DrawSectionHeader(x, y, fmt.Sprintf("%s (%d frames)", c.Phase, c.Frames))
		y = p.renderer.DrawLabelValue(x, y, "frame", c.AvgFrame.Round(time.Microsecond).String())
		for _, name := range steps {
			y = p.renderer.DrawLabelValue(x, y, name, fmt.Sprintf("%5.1f%%", c.StepPct(name)))
		}
	}
}
