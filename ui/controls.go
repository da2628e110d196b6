package ui

import (
	"fmt"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"
)

// ControlsPanel renders the overlay toggles and the orbit speed slider.
type ControlsPanel struct {
	renderer *Renderer
	x, y     int32
	width    int32
	visible  bool
}

// NewControlsPanel creates a new controls panel.
func NewControlsPanel(x, y, width int32) *ControlsPanel {
	return &ControlsPanel{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
		width:    width,
	}
}

// SetPosition updates the panel position.
func (c *ControlsPanel) SetPosition(x, y int32) {
	c.x = x
	c.y = y
}

// IsVisible returns whether the panel is shown.
func (c *ControlsPanel) IsVisible() bool {
	return c.visible
}

// Toggle switches panel visibility.
func (c *ControlsPanel) Toggle() bool {
	c.visible = !c.visible
	return c.visible
}

// Draw renders the panel and applies clicks to the registry. It returns the
// overlays whose state changed and the (possibly edited) orbit speed.
func (c *ControlsPanel) Draw(overlays *OverlayRegistry, orbitSpeed float64) (changed []OverlayID, speed float64) {
	if !c.visible {
		return nil, orbitSpeed
	}

	r := c.renderer
	padding := r.Theme.Padding
	lineHeight := r.Theme.LineHeight

	categories := overlays.Categories()
	rows := overlays.Len() + len(categories)
	panelHeight := int32(rows)*lineHeight + padding*4 + lineHeight*3
	r.DrawPanel(c.x, c.y, c.width, panelHeight)

	y := c.y + padding
	rl.DrawText("Overlays", c.x+padding, y, 16, rl.White)
	y += lineHeight + 4

	for _, category := range categories {
		y = r.DrawSectionHeader(c.x+padding, y, categoryLabel(category))
		for _, desc := range overlays.ByCategory(category) {
			if c.drawToggle(c.x+padding, y, desc, overlays.IsEnabled(desc.ID)) {
				overlays.Toggle(desc.ID)
				changed = append(changed, desc.ID)
			}
			y += lineHeight
		}
		y += 4
	}

	y = r.DrawSectionHeader(c.x+padding, y, "Orbit speed")
	speed = float64(gui.SliderBar(
		rl.Rectangle{X: float32(c.x + padding), Y: float32(y), Width: float32(c.width - padding*2 - 50), Height: 14},
		"", fmt.Sprintf("%.2f", orbitSpeed),
		float32(orbitSpeed), 0, 1,
	))
	return changed, speed
}

// drawToggle draws a checkbox line and reports whether it was clicked.
func (c *ControlsPanel) drawToggle(x, y int32, desc OverlayDescriptor, enabled bool) bool {
	bounds := rl.Rectangle{X: float32(x), Y: float32(y + 1), Width: 12, Height: 12}
	label := desc.Name
	if desc.KeyLabel != "" {
		label = fmt.Sprintf("%s [%s]", desc.Name, desc.KeyLabel)
	}
	return gui.CheckBox(bounds, label, enabled) != enabled
}

// categoryLabel returns a display label for a category.
func categoryLabel(cat string) string {
	switch cat {
	case "visual":
		return "Visual"
	case "camera":
		return "Camera"
	case "debug":
		return "Debug"
	default:
		return cat
	}
}
