package telemetry

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gocarina/gocsv"

	"github.com/pthm-cable/carfield/config"
)

func TestOutputManagerDisabled(t *testing.T) {
	om, err := NewOutputManager("")
	if err != nil {
		t.Fatalf("NewOutputManager: %v", err)
	}
	if om != nil {
		t.Fatal("expected nil manager for empty dir")
	}

	// Methods on a nil manager are no-ops
	if err := om.WriteTransition(Transition{}); err != nil {
		t.Errorf("WriteTransition on nil: %v", err)
	}
	if err := om.Close(); err != nil {
		t.Errorf("Close on nil: %v", err)
	}
}

func TestOutputManagerWritesCSV(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "run")
	om, err := NewOutputManager(dir)
	if err != nil {
		t.Fatalf("NewOutputManager: %v", err)
	}

	want := []Transition{
		NewTransition(625, "idle", "forming", 10000, 0),
		NewTransition(900, "forming", "held", 14400, 0.4),
	}
	for _, tr := range want {
		if err := om.WriteTransition(tr); err != nil {
			t.Fatalf("WriteTransition: %v", err)
		}
	}
	if err := om.WriteFrames(WindowStats{WindowEndFrame: 30, Phase: "idle"}); err != nil {
		t.Fatalf("WriteFrames: %v", err)
	}
	if err := om.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	f, err := os.Open(filepath.Join(dir, "transitions.csv"))
	if err != nil {
		t.Fatalf("open transitions.csv: %v", err)
	}
	defer f.Close()

	var got []Transition
	if err := gocsv.UnmarshalFile(f, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(got) != len(want) {
		t.Fatalf("got %d rows, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("row %d = %+v, want %+v", i, got[i], want[i])
		}
	}

	data, err := os.ReadFile(filepath.Join(dir, "frames.csv"))
	if err != nil {
		t.Fatalf("read frames.csv: %v", err)
	}
	if lines := strings.Count(string(data), "\n"); lines != 2 {
		t.Errorf("frames.csv has %d lines, want header plus one row", lines)
	}
}

func TestOutputManagerWriteConfig(t *testing.T) {
	dir := t.TempDir()
	om, err := NewOutputManager(dir)
	if err != nil {
		t.Fatalf("NewOutputManager: %v", err)
	}
	defer om.Close()

	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("config.Load: %v", err)
	}
	if err := om.WriteConfig(cfg); err != nil {
		t.Fatalf("WriteConfig: %v", err)
	}
	if _, err := config.Load(filepath.Join(dir, "config.yaml")); err != nil {
		t.Errorf("written config does not reload: %v", err)
	}
}

func TestOutputManagerWritesPerfPerPhase(t *testing.T) {
	dir := t.TempDir()
	om, err := NewOutputManager(dir)
	if err != nil {
		t.Fatalf("NewOutputManager: %v", err)
	}

	pc, clk := newTestCollector(10)
	if err := om.WritePerf(pc.Stats(), 0); err != nil {
		t.Fatalf("WritePerf on empty stats: %v", err)
	}
	runFrame(pc, clk, "idle", 10*us, 80*us, 10*us)
	runFrame(pc, clk, "forming", 10*us, 180*us, 10*us)
	if err := om.WritePerf(pc.Stats(), 30); err != nil {
		t.Fatalf("WritePerf: %v", err)
	}
	if err := om.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	f, err := os.Open(filepath.Join(dir, "perf.csv"))
	if err != nil {
		t.Fatalf("open perf.csv: %v", err)
	}
	defer f.Close()

	var rows []PerfRow
	if err := gocsv.UnmarshalFile(f, &rows); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(rows))
	}
	if rows[0].Phase != "idle" || rows[0].AvgFrameUS != 100 || rows[1].Phase != "forming" || rows[1].AvgFrameUS != 200 {
		t.Errorf("rows = %+v", rows)
	}
	for _, r := range rows {
		if r.WindowEnd != 30 || r.Frames != 1 {
			t.Errorf("row %+v: want window 30 with one frame", r)
		}
	}
}
