package game

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/pthm-cable/carfield/components"
	"github.com/pthm-cable/carfield/config"
	"github.com/pthm-cable/carfield/systems"
	"github.com/pthm-cable/carfield/telemetry"
	"github.com/pthm-cable/carfield/ui"
)

func init() {
	config.MustInit("")
}

func shortIdleConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.Cfg().Clone()
	cfg.Phase.IdleMS = 200
	cfg.Telemetry.SampleInterval = 10
	if err := cfg.Recompute(); err != nil {
		t.Fatalf("Recompute: %v", err)
	}
	return cfg
}

func TestHeadlessRunReachesHeld(t *testing.T) {
	dir := t.TempDir()
	var windows []telemetry.WindowStats

	g, err := NewGameWithOptions(Options{
		Config:        shortIdleConfig(t),
		Seed:          3,
		Headless:      true,
		OutputDir:     dir,
		FrameDelta:    16 * time.Millisecond,
		StatsCallback: func(s telemetry.WindowStats) { windows = append(windows, s) },
	})
	if err != nil {
		t.Fatalf("NewGameWithOptions: %v", err)
	}

	for i := 0; i < 2000 && g.Animation().Phase() != systems.PhaseHeld; i++ {
		g.UpdateHeadless()
	}
	if g.Animation().Phase() != systems.PhaseHeld {
		t.Fatalf("phase = %v after %d frames, want held", g.Animation().Phase(), g.Tick())
	}
	if int(g.Tick()) != g.Animation().Frames() {
		t.Errorf("Tick() = %d, animation frames = %d", g.Tick(), g.Animation().Frames())
	}
	g.Unload()

	if g.Animation().Mounted() {
		t.Error("animation still mounted after Unload")
	}
	if len(windows) == 0 {
		t.Error("expected at least one stats window")
	}

	data, err := os.ReadFile(filepath.Join(dir, "transitions.csv"))
	if err != nil {
		t.Fatalf("read transitions.csv: %v", err)
	}
	text := string(data)
	if !strings.Contains(text, "idle,forming") || !strings.Contains(text, "forming,held") {
		t.Errorf("transitions.csv missing rows:\n%s", text)
	}
	if _, err := os.Stat(filepath.Join(dir, "config.yaml")); err != nil {
		t.Errorf("config snapshot missing: %v", err)
	}
}

func TestRemountStartsFresh(t *testing.T) {
	g, err := NewGameWithOptions(Options{
		Config:     shortIdleConfig(t),
		Seed:       5,
		Headless:   true,
		FrameDelta: 16 * time.Millisecond,
	})
	if err != nil {
		t.Fatalf("NewGameWithOptions: %v", err)
	}
	defer g.Unload()

	for i := 0; i < 20; i++ {
		g.UpdateHeadless()
	}
	old := g.Animation()
	if old.Phase() != systems.PhaseForming {
		t.Fatalf("phase = %v, want forming", old.Phase())
	}

	if err := g.Remount(); err != nil {
		t.Fatalf("Remount: %v", err)
	}
	if old.Mounted() {
		t.Error("previous animation still mounted")
	}
	if g.Animation().Phase() != systems.PhaseIdle || g.Animation().Frames() != 0 {
		t.Errorf("remounted animation not fresh: phase %v, frames %d", g.Animation().Phase(), g.Animation().Frames())
	}
	if g.loop.Len() != 1 {
		t.Errorf("frame loop has %d callbacks, want 1", g.loop.Len())
	}
	if g.scene.Len() != 2 {
		t.Errorf("scene has %d drawables, want 2", g.scene.Len())
	}
}

func TestInvalidConfigFails(t *testing.T) {
	cfg := config.Cfg().Clone()
	cfg.Field.Count = 0

	if _, err := NewGameWithOptions(Options{Config: cfg, Headless: true}); err == nil {
		t.Fatal("expected error for zero particle count")
	}
}

func TestPerfStatsWindow(t *testing.T) {
	p := NewPerfStats(2)
	p.Record("a", 1*time.Millisecond)
	p.Record("a", 3*time.Millisecond)
	p.Record("a", 5*time.Millisecond)
	p.Record("b", 1*time.Millisecond)

	if got := p.Avg("a"); got != 4*time.Millisecond {
		t.Errorf("Avg(a) = %v, want 4ms (oldest sample dropped)", got)
	}
	names := p.SortedNames()
	if len(names) != 2 || names[0] != "a" {
		t.Errorf("SortedNames() = %v, want [a b]", names)
	}
}

func countLineSets(g *Game) int {
	n := 0
	g.scene.EachLineSet(func(*components.LineBuffer) { n++ })
	return n
}

func TestTrailsOverlaySurvivesRemount(t *testing.T) {
	g, err := NewGameWithOptions(Options{
		Config:     shortIdleConfig(t),
		Seed:       9,
		Headless:   true,
		FrameDelta: 16 * time.Millisecond,
	})
	if err != nil {
		t.Fatalf("NewGameWithOptions: %v", err)
	}
	defer g.Unload()

	if got := countLineSets(g); got != 1 {
		t.Fatalf("visible line sets = %d, want 1", got)
	}

	g.SetOverlay(ui.OverlayTrails, false)
	if got := countLineSets(g); got != 0 {
		t.Errorf("visible line sets after hiding trails = %d, want 0", got)
	}

	if err := g.Remount(); err != nil {
		t.Fatalf("Remount: %v", err)
	}
	if got := countLineSets(g); got != 0 {
		t.Errorf("trails visible again after remount")
	}

	// Bounds has no renderer in headless mode; switching it must not panic.
	g.SetOverlay(ui.OverlayBounds, false)
	if g.Overlays().IsEnabled(ui.OverlayBounds) {
		t.Error("bounds overlay still enabled")
	}
}
