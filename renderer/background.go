package renderer

import rl "github.com/gen2brain/raylib-go/raylib"

// BackgroundRenderer fills the screen with a vertical gradient. It is also
// the static fallback shown when the animation cannot run.
type BackgroundRenderer struct {
	screenW, screenH int32
	top, bottom      rl.Color
}

// NewBackgroundRenderer creates a new background renderer.
func NewBackgroundRenderer(screenW, screenH int32, top, bottom rl.Color) *BackgroundRenderer {
	return &BackgroundRenderer{
		screenW: screenW,
		screenH: screenH,
		top:     top,
		bottom:  bottom,
	}
}

// Resize updates the fill dimensions.
func (b *BackgroundRenderer) Resize(w, h int32) {
	b.screenW = w
	b.screenH = h
}

// Draw renders the gradient.
func (b *BackgroundRenderer) Draw() {
	rl.DrawRectangleGradientV(0, 0, b.screenW, b.screenH, b.top, b.bottom)
}

// DrawStatic renders the gradient with a short notice in place of the animation.
func (b *BackgroundRenderer) DrawStatic(message string) {
	b.Draw()
	const fontSize = 20
	w := rl.MeasureText(message, fontSize)
	rl.DrawText(message, (b.screenW-w)/2, b.screenH/2-fontSize/2, fontSize, rl.Fade(rl.RayWhite, 0.6))
}
