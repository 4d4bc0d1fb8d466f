// Package telemetry provides tank health tracking, bookmarking, and snapshots.
package telemetry

import (
	"log/slog"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// WindowStats holds aggregated statistics for a time window.
type WindowStats struct {
	WindowStartTick uint64  `csv:"-"`
	WindowEndTick   uint64  `csv:"window_end"`
	SimTimeSec      float64 `csv:"sim_time"`
	Steps           int     `csv:"steps"`

	// Population at window end
	FishCount    int `csv:"fish"`
	SpeciesCount int `csv:"species"`
	FrozenCount  int `csv:"frozen"` // fish skipped for an unknown species

	// Tank at window end
	WaterQuality       float64 `csv:"water_quality"`
	OxygenLevel        float64 `csv:"oxygen_level"`
	Crowding           float64 `csv:"crowding"`
	AggressionPressure float64 `csv:"aggression"`
	Harmony            float64 `csv:"harmony"`
	Incompatibility    float64 `csv:"incompatibility"`
	Bioload            float64 `csv:"bioload"`

	// Tank over the window
	HarmonyMean     float64 `csv:"harmony_mean"`
	HarmonyStd      float64 `csv:"harmony_std"`
	HarmonyMin      float64 `csv:"harmony_min"`
	WaterQualityMin float64 `csv:"water_quality_min"`
	OxygenLevelMin  float64 `csv:"oxygen_level_min"`

	// Decisions during window
	Redecisions int `csv:"redecisions"`

	// Behavior histogram (sampled at window end)
	Cruise  int `csv:"cruise"`
	School  int `csv:"school"`
	Inspect int `csv:"inspect"`
	Hover   int `csv:"hover"`
	Dart    int `csv:"dart"`
	Rest    int `csv:"rest"`
	Avoid   int `csv:"avoid"`
	Chase   int `csv:"chase"`

	// Physiology distributions (sampled at window end)
	EnergyMean float64 `csv:"energy_mean"`
	EnergyP10  float64 `csv:"energy_p10"`
	EnergyP50  float64 `csv:"energy_p50"`
	EnergyP90  float64 `csv:"energy_p90"`

	StressMean float64 `csv:"stress_mean"`
	StressStd  float64 `csv:"stress_std"`
	StressP90  float64 `csv:"stress_p90"`

	HealthMean float64 `csv:"health_mean"`
	HealthP10  float64 `csv:"health_p10"`

	HungerMean float64 `csv:"hunger_mean"`
	HungerP90  float64 `csv:"hunger_p90"`
}

// Distribution summarizes a sample.
type Distribution struct {
	Mean float64
	Std  float64
	P10  float64
	P50  float64
	P90  float64
}

// Percentile returns the empirical p-quantile of a sorted slice.
// p is clamped to [0, 1]. Returns 0 if the slice is empty.
func Percentile(sorted []float64, p float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	p = min(1, max(0, p))
	return stat.Quantile(p, stat.Empirical, sorted, nil)
}

// Summarize computes mean, sample standard deviation and percentiles.
// The input is not modified.
func Summarize(values []float64) Distribution {
	n := len(values)
	if n == 0 {
		return Distribution{}
	}

	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Float64s(sorted)

	d := Distribution{
		Mean: stat.Mean(sorted, nil),
		P10:  Percentile(sorted, 0.10),
		P50:  Percentile(sorted, 0.50),
		P90:  Percentile(sorted, 0.90),
	}
	// A single sample has no spread; gonum would return NaN.
	if n > 1 {
		d.Std = stat.StdDev(sorted, nil)
	}
	return d
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Uint64("window_start", s.WindowStartTick),
		slog.Uint64("window_end", s.WindowEndTick),
		slog.Float64("sim_time", s.SimTimeSec),
		slog.Int("steps", s.Steps),
		slog.Int("fish", s.FishCount),
		slog.Int("species", s.SpeciesCount),
		slog.Int("frozen", s.FrozenCount),
		slog.Float64("water_quality", s.WaterQuality),
		slog.Float64("oxygen_level", s.OxygenLevel),
		slog.Float64("crowding", s.Crowding),
		slog.Float64("aggression", s.AggressionPressure),
		slog.Float64("harmony", s.Harmony),
		slog.Float64("incompatibility", s.Incompatibility),
		slog.Float64("bioload", s.Bioload),
		slog.Float64("harmony_mean", s.HarmonyMean),
		slog.Float64("harmony_std", s.HarmonyStd),
		slog.Float64("harmony_min", s.HarmonyMin),
		slog.Float64("water_quality_min", s.WaterQualityMin),
		slog.Float64("oxygen_level_min", s.OxygenLevelMin),
		slog.Int("redecisions", s.Redecisions),
		slog.Int("cruise", s.Cruise),
		slog.Int("school", s.School),
		slog.Int("inspect", s.Inspect),
		slog.Int("hover", s.Hover),
		slog.Int("dart", s.Dart),
		slog.Int("rest", s.Rest),
		slog.Int("avoid", s.Avoid),
		slog.Int("chase", s.Chase),
		slog.Float64("energy_mean", s.EnergyMean),
		slog.Float64("energy_p10", s.EnergyP10),
		slog.Float64("energy_p50", s.EnergyP50),
		slog.Float64("energy_p90", s.EnergyP90),
		slog.Float64("stress_mean", s.StressMean),
		slog.Float64("stress_std", s.StressStd),
		slog.Float64("stress_p90", s.StressP90),
		slog.Float64("health_mean", s.HealthMean),
		slog.Float64("health_p10", s.HealthP10),
		slog.Float64("hunger_mean", s.HungerMean),
		slog.Float64("hunger_p90", s.HungerP90),
	)
}

// LogStats logs the headline window stats through logger.
func (s WindowStats) LogStats(logger *slog.Logger) {
	if logger == nil {
		logger = slog.Default()
	}
	logger.Info("stats",
		"window_end", s.WindowEndTick,
		"sim_time", s.SimTimeSec,
		"fish", s.FishCount,
		"frozen", s.FrozenCount,
		"water_quality", s.WaterQuality,
		"oxygen_level", s.OxygenLevel,
		"crowding", s.Crowding,
		"aggression", s.AggressionPressure,
		"harmony", s.Harmony,
		"harmony_min", s.HarmonyMin,
		"redecisions", s.Redecisions,
		"energy_mean", s.EnergyMean,
		"stress_mean", s.StressMean,
		"stress_p90", s.StressP90,
		"health_mean", s.HealthMean,
		"hunger_mean", s.HungerMean,
	)
}
