package main

import (
	"math"
	"testing"

	"github.com/pthm-cable/carfield/config"
)

func TestNormalizeRoundtrip(t *testing.T) {
	pv := NewParamVector()
	raw := pv.DefaultVector()

	back := pv.Denormalize(pv.Normalize(raw))
	for i := range raw {
		if math.Abs(back[i]-raw[i]) > 1e-12 {
			t.Errorf("%s: roundtrip %v -> %v", pv.Specs[i].Name, raw[i], back[i])
		}
	}
}

func TestApplyClampsAndExtracts(t *testing.T) {
	pv := NewParamVector()
	cfg := config.Defaults()

	pv.ApplyToConfig(cfg, []float64{5, -1, 0.7})
	got := pv.ExtractFromConfig(cfg)
	want := []float64{pv.Specs[0].Max, pv.Specs[1].Min, 0.7}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("%s = %v, want %v", pv.Specs[i].Name, got[i], want[i])
		}
	}
}

func TestDefaultsMatchConfig(t *testing.T) {
	pv := NewParamVector()
	got := pv.ExtractFromConfig(config.Defaults())
	for i, spec := range pv.Specs {
		if got[i] != spec.Default {
			t.Errorf("%s: config default %v, param default %v", spec.Path, got[i], spec.Default)
		}
	}
}

func TestEvaluatePrefersTargetedSettleTime(t *testing.T) {
	cfg := config.Defaults()
	cfg.Field.Count = 80
	if err := cfg.Recompute(); err != nil {
		t.Fatalf("Recompute: %v", err)
	}

	pv := NewParamVector()
	frames := settleFrames(cfg, 1, 3000)
	if frames <= 0 {
		t.Fatalf("default forming did not settle")
	}

	fe := NewFitnessEvaluator(pv, frames, 3000, []int64{1}, cfg)
	if got := fe.Evaluate(pv.ExtractFromConfig(cfg)); got != 0 {
		t.Errorf("fitness at the measured settle time = %v, want 0", got)
	}
	if fe.LastFrames() != float64(frames) {
		t.Errorf("LastFrames() = %v, want %d", fe.LastFrames(), frames)
	}

	slow := pv.ExtractFromConfig(cfg)
	slow[0] = pv.Specs[0].Min
	slow[1] = pv.Specs[1].Min
	if got := fe.Evaluate(slow); got <= 0 {
		t.Errorf("slower forming should score worse, got %v", got)
	}
}
