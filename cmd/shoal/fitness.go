package main

import (
	"io"
	"log/slog"
	"math"
	"sync"

	"github.com/pthm-cable/shoal/config"
	"github.com/pthm-cable/shoal/sim"
	"github.com/pthm-cable/shoal/telemetry"
)

// Targets are the tank health levels a tuned config must hold.
type Targets struct {
	MinHarmony      float64 // mean harmony over the run
	MinWaterQuality float64 // lowest water quality in any window
	MaxStress       float64 // mean fish stress over the run
}

// penaltyWeight makes any missed target outweigh the whole cost range.
const penaltyWeight = 10.0

// FitnessEvaluator runs headless sessions and scores tank configs.
type FitnessEvaluator struct {
	params      *ParamVector
	maxTicks    uint64
	seeds       []uint32
	baseConfig  *config.Config
	targets     Targets
	statsWindow float64
	logger      *slog.Logger

	mu          sync.Mutex
	lastQuality Quality // from the most recent Evaluate call
}

// NewFitnessEvaluator creates a new evaluator.
func NewFitnessEvaluator(params *ParamVector, maxTicks uint64, seeds []uint32, baseCfg *config.Config, targets Targets) *FitnessEvaluator {
	return &FitnessEvaluator{
		params:      params,
		maxTicks:    maxTicks,
		seeds:       seeds,
		baseConfig:  baseCfg,
		targets:     targets,
		statsWindow: 10.0,
		logger:      slog.New(slog.NewJSONHandler(io.Discard, nil)),
	}
}

// Quality summarizes tank health over one or more runs.
type Quality struct {
	Harmony      float64
	WaterQuality float64
	Stress       float64
}

// LastQuality returns the averaged quality from the most recent evaluation.
func (fe *FitnessEvaluator) LastQuality() Quality {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.lastQuality
}

// Evaluate computes fitness for raw parameter values (lower = better):
// equipment cost plus a penalty for every target the tank misses.
func (fe *FitnessEvaluator) Evaluate(x []float64) float64 {
	cfg := fe.configFor(x)

	// Run all seeds in parallel
	results := make([]Quality, len(fe.seeds))
	var wg sync.WaitGroup
	for i, seed := range fe.seeds {
		wg.Add(1)
		go func(idx int, s uint32) {
			defer wg.Done()
			results[idx] = fe.runSimulation(cfg, s)
		}(i, seed)
	}
	wg.Wait()

	var avg Quality
	for _, q := range results {
		avg.Harmony += q.Harmony
		avg.WaterQuality += q.WaterQuality
		avg.Stress += q.Stress
	}
	if n := float64(len(results)); n > 0 {
		avg.Harmony /= n
		avg.WaterQuality /= n
		avg.Stress /= n
	}

	fe.mu.Lock()
	fe.lastQuality = avg
	fe.mu.Unlock()

	return fe.params.Cost(x) + penaltyWeight*fe.penalty(avg)
}

// penalty sums how far q falls short of each target.
func (fe *FitnessEvaluator) penalty(q Quality) float64 {
	p := 0.0
	p += math.Max(0, fe.targets.MinHarmony-q.Harmony)
	p += math.Max(0, fe.targets.MinWaterQuality-q.WaterQuality)
	p += math.Max(0, q.Stress-fe.targets.MaxStress)
	return p
}

// configFor copies the base config with x applied. The species index and
// compatibility lookup are shared read-only.
func (fe *FitnessEvaluator) configFor(x []float64) *config.Config {
	cfg := *fe.baseConfig
	fe.params.ApplyToConfig(&cfg, x)
	return &cfg
}

// runSimulation executes a single headless run and reduces its windows.
func (fe *FitnessEvaluator) runSimulation(cfg *config.Config, seed uint32) Quality {
	var windows []telemetry.WindowStats
	s, err := sim.New(cfg, sim.Options{
		Seed:           &seed,
		StatsWindowSec: fe.statsWindow,
		StepsPerUpdate: 1,
		Logger:         fe.logger,
		StatsCallback: func(stats telemetry.WindowStats) {
			windows = append(windows, stats)
		},
	})
	if err != nil {
		// Scores as a total failure so the search moves away.
		return Quality{Stress: 1}
	}
	defer s.Close()

	for s.Tick() < fe.maxTicks {
		s.Update(cfg.Simulation.DT)
	}
	return reduceWindows(windows)
}

// reduceWindows averages harmony and stress and keeps the worst water quality.
func reduceWindows(windows []telemetry.WindowStats) Quality {
	if len(windows) == 0 {
		return Quality{}
	}
	q := Quality{WaterQuality: math.Inf(1)}
	for _, w := range windows {
		q.Harmony += w.HarmonyMean
		q.Stress += w.StressMean
		q.WaterQuality = math.Min(q.WaterQuality, w.WaterQualityMin)
	}
	n := float64(len(windows))
	q.Harmony /= n
	q.Stress /= n
	return q
}
