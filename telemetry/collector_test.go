package telemetry

import (
	"math"
	"testing"
	"time"
)

func TestCollectorFlushWindow(t *testing.T) {
	c := NewCollector(4)

	for frame := 1; frame <= 3; frame++ {
		c.Record(16*time.Millisecond, -1, 0)
		if c.ShouldFlush(frame) {
			t.Fatalf("ShouldFlush(%d) = true before the window filled", frame)
		}
	}
	c.RecordTransition()
	c.Record(20*time.Millisecond, 100, 2)
	if !c.ShouldFlush(4) {
		t.Fatal("ShouldFlush(4) = false, want true")
	}

	stats := c.Flush(4, "forming", 64)
	if stats.WindowStartFrame != 0 || stats.WindowEndFrame != 4 {
		t.Errorf("window = [%d, %d], want [0, 4]", stats.WindowStartFrame, stats.WindowEndFrame)
	}
	if stats.Transitions != 1 || stats.Corrected != 2 {
		t.Errorf("transitions=%d corrected=%d, want 1 and 2", stats.Transitions, stats.Corrected)
	}
	if stats.RemainingP50 != 100 {
		t.Errorf("RemainingP50 = %v, want 100 (idle samples skipped)", stats.RemainingP50)
	}
	if math.Abs(stats.FrameMSMean-17) > 1e-9 {
		t.Errorf("FrameMSMean = %v, want 17", stats.FrameMSMean)
	}
	if stats.Phase != "forming" || stats.ElapsedMS != 64 {
		t.Errorf("phase=%q elapsed=%v", stats.Phase, stats.ElapsedMS)
	}
}

func TestCollectorResetsAfterFlush(t *testing.T) {
	c := NewCollector(2)
	c.Record(time.Millisecond, 5, 1)
	c.RecordHeldReset()
	c.Flush(2, "held", 2)

	if c.ShouldFlush(3) {
		t.Error("new window should start at the flushed frame")
	}
	stats := c.Flush(3, "held", 3)
	if stats.Corrected != 0 || stats.HeldResets != 0 || stats.RemainingMean != 0 {
		t.Errorf("counters not reset: %+v", stats)
	}
	if stats.WindowStartFrame != 2 {
		t.Errorf("WindowStartFrame = %d, want 2", stats.WindowStartFrame)
	}
}

func TestNewCollectorClampsWindow(t *testing.T) {
	if got := NewCollector(0).WindowFrames(); got != 1 {
		t.Errorf("WindowFrames() = %d, want 1", got)
	}
}
