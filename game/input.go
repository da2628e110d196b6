package game

import rl "github.com/gen2brain/raylib-go/raylib"

const (
	orbitStep = 0.03 // Radians per frame while an arrow key is held
	zoomStep  = 1.02
)

// handleInput processes keyboard input.
func (g *Game) handleInput() {
	// Window resize propagation
	g.handleResize()

	// Fullscreen toggle
	if rl.IsKeyPressed(rl.KeyF11) {
		rl.ToggleFullscreen()
	}

	if rl.IsKeyPressed(rl.KeySpace) {
		g.paused = !g.paused
	}

	if rl.IsKeyPressed(rl.KeyTab) {
		g.controls.Toggle()
	}

	// Overlay toggles
	for key := rl.GetKeyPressed(); key != 0; key = rl.GetKeyPressed() {
		if id, _, ok := g.overlays.HandleKeyPress(key); ok {
			g.applyOverlay(id)
		}
	}

	if rl.IsKeyPressed(rl.KeyR) {
		if err := g.Remount(); err != nil {
			g.logger.Error("remount failed", "error", err)
		}
	}

	// Camera controls
	g.handleCameraInput()
}

// handleCameraInput orbits and zooms the viewer camera.
func (g *Game) handleCameraInput() {
	if rl.IsKeyPressed(rl.KeyC) {
		g.cam.Reset()
	}

	var dYaw, dPitch float64
	if rl.IsKeyDown(rl.KeyLeft) {
		dYaw -= orbitStep
	}
	if rl.IsKeyDown(rl.KeyRight) {
		dYaw += orbitStep
	}
	if rl.IsKeyDown(rl.KeyUp) {
		dPitch += orbitStep
	}
	if rl.IsKeyDown(rl.KeyDown) {
		dPitch -= orbitStep
	}
	if dYaw != 0 || dPitch != 0 {
		g.cam.Orbit(dYaw, dPitch)
	}

	if rl.IsKeyDown(rl.KeyEqual) || rl.IsKeyDown(rl.KeyKpAdd) {
		g.cam.ZoomBy(zoomStep)
	}
	if rl.IsKeyDown(rl.KeyMinus) || rl.IsKeyDown(rl.KeyKpSubtract) {
		g.cam.ZoomBy(1 / zoomStep)
	}
	if wheel := rl.GetMouseWheelMove(); wheel != 0 {
		g.cam.ZoomBy(1 + 0.1*float64(wheel))
	}
}

// handleResize checks for window resize and propagates new dimensions.
func (g *Game) handleResize() {
	if !rl.IsWindowResized() {
		return
	}
	w := float32(rl.GetScreenWidth())
	h := float32(rl.GetScreenHeight())
	if w == g.screenWidth && h == g.screenHeight {
		return
	}
	g.screenWidth = w
	g.screenHeight = h

	g.cam.Resize(w, h)
	if g.background != nil {
		g.background.Resize(int32(w), int32(h))
	}
	if g.perfPanel != nil {
		g.perfPanel.SetPosition(int32(w)-300, 10)
	}
}
