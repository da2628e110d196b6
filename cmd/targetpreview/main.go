// Target preview tool - interactive view of the vehicle silhouette with sliders.
//
// Usage: go run ./cmd/targetpreview [-config path]
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"
	"gopkg.in/yaml.v3"

	"github.com/pthm-cable/carfield/camera"
	"github.com/pthm-cable/carfield/config"
	"github.com/pthm-cable/carfield/renderer"
	"github.com/pthm-cable/carfield/systems"
)

const (
	windowWidth  = 1200
	windowHeight = 760
	previewWidth = 820
	panelWidth   = windowWidth - previewWidth - 30
)

// regionColors maps each region to its preview colour.
var regionColors = map[systems.Region]rl.Color{
	systems.RegionBody:      rl.SkyBlue,
	systems.RegionCabin:     rl.RayWhite,
	systems.RegionWheel:     rl.DarkGray,
	systems.RegionHeadlight: rl.Gold,
}

// previewParams holds the adjustable generation inputs.
type previewParams struct {
	Seed        float32
	Count       float32
	WheelRadius float32
	BodyRound   float32
}

func main() {
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	rl.SetConfigFlags(rl.FlagMsaa4xHint)
	rl.InitWindow(windowWidth, windowHeight, "Target Preview")
	defer rl.CloseWindow()
	rl.SetTargetFPS(30)

	params := previewParams{
		Seed:        float32(cfg.Targets.Seed),
		Count:       float32(cfg.Field.Count),
		WheelRadius: float32(cfg.Targets.Wheel.Radius),
		BodyRound:   float32(cfg.Targets.Body.PerRound),
	}

	cam := camera.New(previewWidth, windowHeight, cfg.Camera.Distance, cfg.Camera.Pitch, cfg.Camera.Fovy)
	var targets *systems.TargetSet
	var genErr error
	needsRegen := true
	rotating := true
	status := ""

	for !rl.WindowShouldClose() {
		if needsRegen {
			targets, genErr = generate(cfg, params)
			needsRegen = false
		}
		if rotating {
			cam.Orbit(0.4*float64(rl.GetFrameTime()), 0)
		}

		rl.BeginDrawing()
		rl.ClearBackground(rl.Black)

		// Preview
		rl.BeginScissorMode(0, 0, previewWidth, windowHeight)
		rl.BeginMode3D(renderer.Camera3D(cam))
		b := float32(cfg.Field.Bound)
		rl.DrawCubeWiresV(rl.NewVector3(0, 0, 0), rl.NewVector3(2*b, 2*b, 2*b), rl.Fade(rl.SkyBlue, 0.15))
		if targets != nil {
			for i, p := range targets.Points {
				pos := rl.NewVector3(float32(p.X), float32(p.Y), float32(p.Z))
				rl.DrawCubeV(pos, rl.NewVector3(0.6, 0.6, 0.6), regionColors[targets.Regions[i]])
			}
		}
		rl.EndMode3D()
		rl.EndScissorMode()

		// Stats
		if genErr != nil {
			rl.DrawText(genErr.Error(), 15, windowHeight-30, 16, rl.Red)
		} else if targets != nil {
			counts := targets.Counts()
			rl.DrawText(fmt.Sprintf("body %d  cabin %d  wheel %d  headlight %d  |  y %.1f..%.1f",
				counts[systems.RegionBody], counts[systems.RegionCabin],
				counts[systems.RegionWheel], counts[systems.RegionHeadlight],
				targets.MinY, targets.MaxY), 15, windowHeight-30, 16, rl.LightGray)
		}

		// Control panel
		panelX := float32(previewWidth + 20)
		panelY := float32(10)

		rl.DrawText("Silhouette Parameters", int32(panelX), int32(panelY), 20, rl.LightGray)
		panelY += 35

		if slider(&panelX, &panelY, "Seed", "%.0f", &params.Seed, 0, 9999) {
			needsRegen = true
		}
		if slider(&panelX, &panelY, "Particle count", "%.0f", &params.Count, 1, 4000) {
			needsRegen = true
		}
		if slider(&panelX, &panelY, "Wheel radius", "%.1f", &params.WheelRadius, 1, 12) {
			needsRegen = true
		}
		if slider(&panelX, &panelY, "Body points per round", "%.0f", &params.BodyRound, 1, 80) {
			needsRegen = true
		}

		// Separator
		rl.DrawLine(int32(panelX), int32(panelY), int32(panelX)+int32(panelWidth)-20, int32(panelY), rl.Gray)
		panelY += 15

		// Buttons
		if gui.Button(rl.Rectangle{X: panelX, Y: panelY, Width: 120, Height: 30}, toggleText(rotating, "Stop", "Rotate")) {
			rotating = !rotating
		}
		if gui.Button(rl.Rectangle{X: panelX + 130, Y: panelY, Width: 120, Height: 30}, "Reset View") {
			cam.Reset()
		}
		panelY += 45

		if gui.Button(rl.Rectangle{X: panelX, Y: panelY, Width: 250, Height: 30}, "Copy targets YAML") {
			status = copyTargetsYAML(cfg, params)
		}
		panelY += 40
		if status != "" {
			rl.DrawText(status, int32(panelX), int32(panelY), 14, rl.Gray)
		}

		rl.EndDrawing()
	}
}

// slider draws a labelled slider and reports whether its value changed.
func slider(x, y *float32, label, format string, value *float32, min, max float32) bool {
	rl.DrawText(label, int32(*x), int32(*y), 14, rl.Gray)
	*y += 18
	next := gui.SliderBar(
		rl.Rectangle{X: *x, Y: *y, Width: float32(panelWidth - 80), Height: 20},
		fmt.Sprintf(format, min), fmt.Sprintf(format, max),
		*value, min, max,
	)
	rl.DrawText(fmt.Sprintf(format, *value), int32(*x+float32(panelWidth-70)), int32(*y+2), 16, rl.LightGray)
	*y += 35
	if next == *value {
		return false
	}
	*value = next
	return true
}

// apply copies the slider values into a config clone.
func apply(cfg *config.Config, p previewParams) *config.Config {
	out := cfg.Clone()
	out.Targets.Seed = int64(p.Seed)
	out.Field.Count = int(p.Count)
	out.Targets.Wheel.Radius = float64(p.WheelRadius)
	out.Targets.Body.PerRound = int(p.BodyRound)
	return out
}

func generate(cfg *config.Config, p previewParams) (*systems.TargetSet, error) {
	c := apply(cfg, p)
	if err := c.Recompute(); err != nil {
		return nil, err
	}
	return systems.GenerateTargets(c.Targets.Seed, c.Field.Count, c.Targets)
}

func copyTargetsYAML(cfg *config.Config, p previewParams) string {
	c := apply(cfg, p)
	data, err := yaml.Marshal(map[string]any{"targets": c.Targets})
	if err != nil {
		return fmt.Sprintf("error: %v", err)
	}
	rl.SetClipboardText(string(data))
	return "Copied to clipboard"
}

func toggleText(on bool, onText, offText string) string {
	if on {
		return onText
	}
	return offText
}
