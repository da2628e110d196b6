package ui

import (
	"testing"

	rl "github.com/gen2brain/raylib-go/raylib"
)

func TestOverlayDefaults(t *testing.T) {
	reg := NewOverlayRegistry()

	tests := []struct {
		id   OverlayID
		want bool
	}{
		{OverlayTrails, true},
		{OverlayBounds, true},
		{OverlayAutoOrbit, true},
		{OverlayFlowField, false},
		{OverlayTargets, false},
		{OverlayPerf, false},
	}
	for _, tt := range tests {
		t.Run(string(tt.id), func(t *testing.T) {
			if got := reg.IsEnabled(tt.id); got != tt.want {
				t.Errorf("IsEnabled(%s) = %v, want %v", tt.id, got, tt.want)
			}
		})
	}
}

func TestOverlayExclusive(t *testing.T) {
	reg := NewOverlayRegistry()

	reg.Toggle(OverlayFlowField)
	reg.Toggle(OverlayTargets)
	if reg.IsEnabled(OverlayFlowField) {
		t.Error("enabling targets should disable the flow field")
	}
	if !reg.IsEnabled(OverlayTargets) {
		t.Error("targets should be enabled")
	}
}

func TestOverlayKeyPress(t *testing.T) {
	reg := NewOverlayRegistry()

	id, state, ok := reg.HandleKeyPress(rl.KeyT)
	if !ok || id != OverlayTrails || state {
		t.Errorf("HandleKeyPress(T) = %s, %v, %v; want trails off", id, state, ok)
	}
	if _, _, ok := reg.HandleKeyPress(rl.KeyZ); ok {
		t.Error("unbound key should not toggle anything")
	}
}

func TestOverlayCategories(t *testing.T) {
	reg := NewOverlayRegistry()
	cats := reg.Categories()
	want := []string{"visual", "camera", "debug"}
	if len(cats) != len(want) {
		t.Fatalf("Categories() = %v, want %v", cats, want)
	}
	total := 0
	for i, c := range cats {
		if c != want[i] {
			t.Errorf("category %d = %q, want %q", i, c, want[i])
		}
		total += len(reg.ByCategory(c))
	}
	if total != reg.Len() {
		t.Errorf("categories cover %d overlays, registry has %d", total, reg.Len())
	}
}
