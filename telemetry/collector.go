package telemetry

import (
	"math"

	"github.com/pthm-cable/shoal/components"
	"github.com/pthm-cable/shoal/systems"
)

// Collector accumulates step reports within simulated-time windows and
// produces WindowStats. Windows are measured in simulated seconds because
// callers may step with any dt.
type Collector struct {
	windowDurationSec float64

	// Current window tracking
	windowStartTick uint64
	elapsedSec      float64
	steps           int

	// Accumulators for current window
	redecisions int
	harmony     []float64
	waterMin    float64
	oxygenMin   float64
}

// NewCollector creates a new stats collector whose first window opens at
// startTick. windowDurationSec is the window length in simulation seconds
// (10 when not positive).
func NewCollector(windowDurationSec float64, startTick uint64) *Collector {
	if !(windowDurationSec > 0) {
		windowDurationSec = 10
	}
	c := &Collector{windowDurationSec: windowDurationSec}
	c.reset(startTick)
	return c
}

func (c *Collector) reset(tick uint64) {
	c.windowStartTick = tick
	c.elapsedSec = 0
	c.steps = 0
	c.redecisions = 0
	c.harmony = c.harmony[:0]
	c.waterMin = math.Inf(1)
	c.oxygenMin = math.Inf(1)
}

// RecordStep folds one step into the current window. tank is the tank state
// the step produced. Skipped steps are ignored.
func (c *Collector) RecordStep(dt float64, report systems.StepReport, tank components.TankState) {
	if report.Skipped {
		return
	}
	c.elapsedSec += dt
	c.steps++
	c.redecisions += report.Redecisions
	c.harmony = append(c.harmony, tank.Harmony)
	c.waterMin = min(c.waterMin, tank.WaterQuality)
	c.oxygenMin = min(c.oxygenMin, tank.OxygenLevel)
}

// ShouldFlush returns true once the window has covered its duration.
func (c *Collector) ShouldFlush() bool {
	return c.elapsedSec >= c.windowDurationSec
}

// Flush produces a WindowStats from the window's accumulators and a sample
// of state, then starts a new window at state.Tick. frozen is the number of
// fish the step passed through unchanged.
func (c *Collector) Flush(state components.EcosystemState, frozen int) WindowStats {
	stats := WindowStats{
		WindowStartTick: c.windowStartTick,
		WindowEndTick:   state.Tick,
		SimTimeSec:      state.Tank.TimestampMs / 1000,
		Steps:           c.steps,

		FishCount:   len(state.Fish),
		FrozenCount: frozen,

		WaterQuality:       state.Tank.WaterQuality,
		OxygenLevel:        state.Tank.OxygenLevel,
		Crowding:           state.Tank.Crowding,
		AggressionPressure: state.Tank.AggressionPressure,
		Harmony:            state.Tank.Harmony,
		Incompatibility:    state.Tank.Incompatibility,
		Bioload:            state.Tank.Bioload,

		Redecisions: c.redecisions,
	}

	if len(c.harmony) > 0 {
		h := Summarize(c.harmony)
		stats.HarmonyMean = h.Mean
		stats.HarmonyStd = h.Std
		stats.HarmonyMin = c.harmony[0]
		for _, v := range c.harmony {
			stats.HarmonyMin = min(stats.HarmonyMin, v)
		}
		stats.WaterQualityMin = c.waterMin
		stats.OxygenLevelMin = c.oxygenMin
	} else {
		stats.HarmonyMean = state.Tank.Harmony
		stats.HarmonyMin = state.Tank.Harmony
		stats.WaterQualityMin = state.Tank.WaterQuality
		stats.OxygenLevelMin = state.Tank.OxygenLevel
	}

	n := len(state.Fish)
	energy := make([]float64, 0, n)
	stress := make([]float64, 0, n)
	health := make([]float64, 0, n)
	hunger := make([]float64, 0, n)
	speciesSeen := make(map[string]struct{})
	var histogram [components.NumBehaviors]int
	for i := range state.Fish {
		f := &state.Fish[i]
		energy = append(energy, f.Energy)
		stress = append(stress, f.Stress)
		health = append(health, f.Health)
		hunger = append(hunger, f.Hunger)
		speciesSeen[f.SpeciesID] = struct{}{}
		if f.Behavior.Valid() {
			histogram[f.Behavior]++
		}
	}
	stats.SpeciesCount = len(speciesSeen)

	stats.Cruise = histogram[components.BehaviorCruise]
	stats.School = histogram[components.BehaviorSchool]
	stats.Inspect = histogram[components.BehaviorInspect]
	stats.Hover = histogram[components.BehaviorHover]
	stats.Dart = histogram[components.BehaviorDart]
	stats.Rest = histogram[components.BehaviorRest]
	stats.Avoid = histogram[components.BehaviorAvoid]
	stats.Chase = histogram[components.BehaviorChase]

	e := Summarize(energy)
	stats.EnergyMean, stats.EnergyP10, stats.EnergyP50, stats.EnergyP90 = e.Mean, e.P10, e.P50, e.P90
	s := Summarize(stress)
	stats.StressMean, stats.StressStd, stats.StressP90 = s.Mean, s.Std, s.P90
	h := Summarize(health)
	stats.HealthMean, stats.HealthP10 = h.Mean, h.P10
	g := Summarize(hunger)
	stats.HungerMean, stats.HungerP90 = g.Mean, g.P90

	c.reset(state.Tick)
	return stats
}
