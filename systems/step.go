package systems

import (
	"github.com/pthm-cable/shoal/components"
	"github.com/pthm-cable/shoal/config"
	"github.com/pthm-cable/shoal/rng"
	"github.com/pthm-cable/shoal/species"
)

const secondsPerDay = 86400

// StepInput is everything one step reads. Nothing in it is modified.
type StepInput struct {
	State         components.EcosystemState
	Species       *species.Index
	Compatibility *species.Lookup
	Tank          components.TankConfig
	Tuning        *config.Tuning // nil uses config.DefaultTuning()
	DtSec         float64
}

// StepReport describes what happened during a step, for telemetry.
type StepReport struct {
	Metrics     TankMetrics
	Redecisions int
	Chosen      [components.NumBehaviors]int // behaviors picked by re-decisions
	Frozen      []string                     // fish skipped because their species is unknown
	Skipped     bool                         // negative or NaN dt: nothing was computed
}

// Step advances the ecosystem by in.DtSec seconds and returns the new state.
func Step(in StepInput) components.EcosystemState {
	next, _ := StepWithReport(in)
	return next
}

// StepWithReport is Step plus a report of the step's decisions.
//
// A negative (or NaN) dt returns the input state untouched. A zero dt
// leaves physiology, age and tick unchanged but forces every fish to
// re-roll its behavior. Fish whose species is missing from the index are
// passed through unchanged and listed in the report.
//
// The input state is never mutated; the returned state owns a fresh fish
// slice.
func StepWithReport(in StepInput) (components.EcosystemState, StepReport) {
	dt := in.DtSec
	if !(dt >= 0) {
		return in.State, StepReport{Skipped: true}
	}

	t := in.Tuning
	if t == nil {
		def := config.DefaultTuning()
		t = &def
	}

	prev := in.State
	metrics := ComputeTankMetrics(prev.Fish, in.Species, in.Compatibility, in.Tank, t)
	report := StepReport{Metrics: metrics}

	waterQuality := approachAsym(prev.Tank.WaterQuality, metrics.WaterQualityTarget, dt,
		t.Rates.WaterQuality.Rising, t.Rates.WaterQuality.Falling)
	oxygenLevel := approachAsym(prev.Tank.OxygenLevel, metrics.OxygenLevelTarget, dt,
		t.Rates.OxygenLevel.Rising, t.Rates.OxygenLevel.Falling)

	env := fishEnv{
		metrics:      &metrics,
		waterQuality: waterQuality,
		oxygenLevel:  oxygenLevel,
		dt:           dt,
		tuning:       t,
	}

	seed := prev.RNGState
	fish := make([]components.FishState, len(prev.Fish))
	for i := range prev.Fish {
		entry := &prev.Fish[i]
		p, ok := in.Species.Get(entry.SpeciesID)
		if !ok {
			fish[i] = *entry
			report.Frozen = append(report.Frozen, entry.ID)
			continue
		}
		var redecided bool
		fish[i], seed, redecided = updateFish(entry, p, &env, seed)
		if redecided {
			report.Redecisions++
			report.Chosen[fish[i].Behavior]++
		}
	}

	tick := prev.Tick
	if dt > 0 {
		tick++
	}

	tank := prev.Tank
	tank.TimestampMs += dt * 1000
	tank.WaterQuality = waterQuality
	tank.OxygenLevel = oxygenLevel
	tank.Crowding = metrics.Crowding
	tank.AggressionPressure = metrics.AggressionPressure
	tank.Harmony = metrics.Harmony
	tank.Bioload = metrics.Bioload
	tank.Incompatibility = metrics.Incompatibility

	return components.EcosystemState{
		Tick:     tick,
		RNGState: seed,
		Fish:     fish,
		Tank:     tank,
	}, report
}

// fishEnv is the per-step context shared by every fish update.
type fishEnv struct {
	metrics      *TankMetrics
	waterQuality float64 // already converged for this step
	oxygenLevel  float64
	dt           float64
	tuning       *config.Tuning
}

// updateFish integrates one fish over env.dt. It returns the new fish, the
// advanced seed and whether the behavior was re-rolled.
func updateFish(
	entry *components.FishState,
	p *species.Profile,
	env *fishEnv,
	seed uint32,
) (components.FishState, uint32, bool) {
	t := env.tuning
	m := env.metrics
	dt := env.dt

	sameSpecies := m.Count(entry.SpeciesID)
	if sameSpecies == 0 {
		sameSpecies = 1
	}
	deficit := schoolingDeficit(p, sameSpecies)

	st := &t.Stress
	stressTarget := clamp01(st.Base +
		m.Crowding*st.Crowding +
		(1-env.oxygenLevel)*st.OxygenDeficit +
		(1-env.waterQuality)*st.WaterDeficit +
		m.SocialPressure(entry.SpeciesID)*st.SocialPressure +
		m.AggressionPressure*(st.AggressionBase+float64(p.Temperament)*st.AggressionPerTemper) +
		deficit*st.SchoolingDeficit)
	stress := clamp01(approachAsym(entry.Stress, stressTarget, dt, t.Rates.Stress.Rising, t.Rates.Stress.Falling))

	timer := max(0, entry.DecisionTimerSec-dt)
	behavior := entry.Behavior
	redecided := false
	if timer <= 0 || dt == 0 {
		var u float64
		u, seed = rng.Next(seed)
		behavior = ChooseBehavior(u, behaviorWeights(entry, p, m, sameSpecies, &t.Weights))

		u, seed = rng.Next(seed)
		timer = decisionTimer(u, behavior, &t.Decision)
		redecided = true
	}

	mt := &t.Metabolism
	activity := activityFactor(behavior, p, mt)
	energy := clamp01(entry.Energy + (recoveryRate(behavior, mt)-activity*mt.ActivityDrain-stress*mt.StressDrain)*dt)
	hunger := clamp01(entry.Hunger + (mt.HungerBase+activity*mt.HungerPerActivity)*dt)

	ht := &t.Health
	healthTarget := clamp01(1 - (stress*ht.Stress +
		(1-env.waterQuality)*ht.WaterDeficit +
		(1-env.oxygenLevel)*ht.OxygenDeficit +
		m.Crowding*ht.Crowding))
	health := clamp01(approachAsym(entry.Health, healthTarget, dt, t.Rates.Health.Rising, t.Rates.Health.Falling))

	out := *entry
	out.AgeDays = entry.AgeDays + dt/secondsPerDay
	out.Stress = stress
	out.Energy = energy
	out.Hunger = hunger
	out.Health = health
	out.Behavior = behavior
	out.DecisionTimerSec = timer
	return out, seed, redecided
}
