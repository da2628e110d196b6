package main

import (
	"math"
	"math/rand"
	"sync"

	"github.com/pthm-cable/carfield/config"
	"github.com/pthm-cable/carfield/systems"
)

// FitnessEvaluator runs headless formations and scores how close their
// settle time lands to the target.
type FitnessEvaluator struct {
	params       *ParamVector
	targetFrames int
	maxFrames    int
	seeds        []int64
	baseConfig   *config.Config

	mu         sync.Mutex
	lastFrames float64 // mean settle frames from the most recent Evaluate call
}

// NewFitnessEvaluator creates a new evaluator.
func NewFitnessEvaluator(params *ParamVector, targetFrames, maxFrames int, seeds []int64, baseCfg *config.Config) *FitnessEvaluator {
	return &FitnessEvaluator{
		params:       params,
		targetFrames: targetFrames,
		maxFrames:    maxFrames,
		seeds:        seeds,
		baseConfig:   baseCfg,
	}
}

// LastFrames returns the mean settle frame count from the most recent evaluation.
func (fe *FitnessEvaluator) LastFrames() float64 {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.lastFrames
}

// Evaluate computes fitness for a raw parameter vector (lower = better).
// Fitness is the mean squared relative error between settle frames and the
// target, plus a penalty per unsettled run.
func (fe *FitnessEvaluator) Evaluate(x []float64) float64 {
	cfg := fe.baseConfig.Clone()
	fe.params.ApplyToConfig(cfg, x)
	if err := cfg.Recompute(); err != nil {
		return math.Inf(1)
	}

	// Run all seeds in parallel
	frames := make([]int, len(fe.seeds))
	var wg sync.WaitGroup
	for i, seed := range fe.seeds {
		wg.Add(1)
		go func(idx int, s int64) {
			defer wg.Done()
			frames[idx] = settleFrames(cfg, s, fe.maxFrames)
		}(i, seed)
	}
	wg.Wait()

	var total, sumFrames float64
	for _, f := range frames {
		sumFrames += float64(f)
		if f < 0 {
			total += 10
			continue
		}
		rel := float64(f-fe.targetFrames) / float64(fe.targetFrames)
		total += rel * rel
	}

	n := float64(len(fe.seeds))
	fe.mu.Lock()
	fe.lastFrames = sumFrames / n
	fe.mu.Unlock()
	return total / n
}

// settleFrames scatters a field with the given seed, starts forming and
// returns the number of forming frames until it settles, or -1 if it does
// not settle within maxFrames.
func settleFrames(cfg *config.Config, seed int64, maxFrames int) int {
	targets, err := systems.GenerateTargets(cfg.Targets.Seed, cfg.Field.Count, cfg.Targets)
	if err != nil {
		return -1
	}
	flow := systems.NewFlowField(cfg.Field.GridSize, cfg.Field.Bound)
	field, err := systems.NewParticleField(cfg, flow, targets, rand.New(rand.NewSource(seed)))
	if err != nil {
		return -1
	}

	field.BeginForming()
	for frame := 1; frame <= maxFrames; frame++ {
		if field.UpdateForming() {
			return frame
		}
	}
	return -1
}
