package telemetry

import (
	"log/slog"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// WindowStats holds aggregated statistics for a window of frames.
type WindowStats struct {
	WindowStartFrame int     `csv:"-"`
	WindowEndFrame   int     `csv:"window_end"`
	ElapsedMS        float64 `csv:"elapsed_ms"`
	Phase            string  `csv:"phase"`

	// Events during window
	Transitions int `csv:"transitions"`
	Corrected   int `csv:"corrected"`   // Non-finite positions repaired
	HeldResets  int `csv:"held_resets"` // Falling formation wraps

	// Remaining distance to targets (forming frames only)
	RemainingMean float64 `csv:"remaining_mean"`
	RemainingP10  float64 `csv:"remaining_p10"`
	RemainingP50  float64 `csv:"remaining_p50"`
	RemainingP90  float64 `csv:"remaining_p90"`

	// Frame delta distribution
	FrameMSMean float64 `csv:"frame_ms_mean"`
	FrameMSStd  float64 `csv:"frame_ms_std"`
	FrameMSP90  float64 `csv:"frame_ms_p90"`
}

// Percentile calculates the p-th percentile of a sorted slice.
// p should be in [0, 1]. Returns 0 if slice is empty.
func Percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if p <= 0 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[n-1]
	}

	// Linear interpolation
	idx := p * float64(n-1)
	lo := int(idx)
	hi := lo + 1
	if hi >= n {
		return sorted[n-1]
	}

	frac := idx - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

// ComputeSeriesStats calculates mean, sample standard deviation and percentiles.
// The input slice is not modified.
func ComputeSeriesStats(values []float64) (mean, std, p10, p50, p90 float64) {
	n := len(values)
	if n == 0 {
		return 0, 0, 0, 0, 0
	}

	mean, std = stat.MeanStdDev(values, nil)
	if n < 2 {
		std = 0
	}

	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Float64s(sorted)

	p10 = Percentile(sorted, 0.10)
	p50 = Percentile(sorted, 0.50)
	p90 = Percentile(sorted, 0.90)

	return mean, std, p10, p50, p90
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("window_start", s.WindowStartFrame),
		slog.Int("window_end", s.WindowEndFrame),
		slog.Float64("elapsed_ms", s.ElapsedMS),
		slog.String("phase", s.Phase),
		slog.Int("transitions", s.Transitions),
		slog.Int("corrected", s.Corrected),
		slog.Int("held_resets", s.HeldResets),
		slog.Float64("remaining_mean", s.RemainingMean),
		slog.Float64("remaining_p10", s.RemainingP10),
		slog.Float64("remaining_p50", s.RemainingP50),
		slog.Float64("remaining_p90", s.RemainingP90),
		slog.Float64("frame_ms_mean", s.FrameMSMean),
		slog.Float64("frame_ms_std", s.FrameMSStd),
		slog.Float64("frame_ms_p90", s.FrameMSP90),
	)
}

// LogStats logs the window stats using slog.
func (s WindowStats) LogStats() {
	slog.Info("stats", "window", s)
}
