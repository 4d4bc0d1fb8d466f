package systems

import (
	"github.com/pthm-cable/shoal/components"
	"github.com/pthm-cable/shoal/config"
	"github.com/pthm-cable/shoal/species"
)

// BehaviorWeights holds one roulette-wheel weight per behavior, indexed by
// components.Behavior.
type BehaviorWeights [components.NumBehaviors]float64

// Total returns the sum of the weights with negatives floored at zero.
func (w *BehaviorWeights) Total() float64 {
	total := 0.0
	for _, v := range w {
		total += max(0, v)
	}
	return total
}

// ChooseBehavior runs roulette-wheel selection over weights using a uniform
// draw u in [0,1). Behaviors are visited in enumeration order (cruise,
// school, inspect, hover, dart, rest, avoid, chase). Negative weights count
// as zero; if nothing has weight the fish cruises.
func ChooseBehavior(u float64, weights BehaviorWeights) components.Behavior {
	total := weights.Total()
	if total <= 0 {
		return components.BehaviorCruise
	}

	cursor := u * total
	for i, w := range weights {
		cursor -= max(0, w)
		if cursor <= 0 {
			return components.Behavior(i)
		}
	}
	return components.BehaviorCruise
}

// schoolingDeficit is how far a schooling species falls short of its
// minimum group (tier+1), as a fraction of that group. Solitary species
// never have a deficit.
func schoolingDeficit(p *species.Profile, count int) float64 {
	if p.Schooling == 0 {
		return 0
	}
	minimumGroup := p.Schooling + 1
	if count >= minimumGroup {
		return 0
	}
	return clamp01(float64(minimumGroup-count) / float64(minimumGroup))
}

// behaviorWeights scores each behavior for fish given its state at the
// start of the step.
func behaviorWeights(
	fish *components.FishState,
	p *species.Profile,
	m *TankMetrics,
	sameSpecies int,
	w *config.WeightsTuning,
) BehaviorWeights {
	deficit := schoolingDeficit(p, sameSpecies)
	fatigue := clamp01(1 - fish.Energy)

	var out BehaviorWeights
	out[components.BehaviorCruise] = w.CruiseBase + p.Activity*w.CruiseActivity - fish.Stress*w.CruiseStress

	out[components.BehaviorSchool] = w.SchoolFallback
	if p.Schooling > 0 && sameSpecies > 1 {
		out[components.BehaviorSchool] = w.SchoolBase + float64(p.Schooling)*w.SchoolPerTier
	}

	out[components.BehaviorInspect] = w.InspectBase + fish.Hunger*w.InspectHunger + (1-m.Harmony)*w.InspectDisharmony
	out[components.BehaviorHover] = w.HoverBase + fatigue*w.HoverFatigue + (1-m.OxygenLevelTarget)*w.HoverOxygenDeficit
	out[components.BehaviorDart] = w.DartBase + fish.Stress*w.DartStress + m.Crowding*w.DartCrowding
	out[components.BehaviorRest] = w.RestBase + fatigue*w.RestFatigue + (1-fish.Health)*w.RestInjury
	out[components.BehaviorAvoid] = w.AvoidBase + m.SocialPressure(fish.SpeciesID)*w.AvoidSocialPressure + m.Incompatibility*w.AvoidIncompatibility

	out[components.BehaviorChase] = w.ChaseFallback
	if p.Temperament >= w.ChaseMinTemperament {
		out[components.BehaviorChase] = w.ChaseBase + m.AggressionPressure*w.ChaseAggression +
			fish.Energy*w.ChaseEnergy + deficit*w.ChaseSchooling
	}
	return out
}

// activityFactor returns the exertion multiplier of b, scaled by how active
// the species is.
func activityFactor(b components.Behavior, p *species.Profile, mt *config.MetabolismTuning) float64 {
	var base float64
	switch b {
	case components.BehaviorCruise:
		base = mt.Activity.Cruise
	case components.BehaviorSchool:
		base = mt.Activity.School
	case components.BehaviorInspect:
		base = mt.Activity.Inspect
	case components.BehaviorHover:
		base = mt.Activity.Hover
	case components.BehaviorDart:
		base = mt.Activity.Dart
	case components.BehaviorRest:
		base = mt.Activity.Rest
	case components.BehaviorAvoid:
		base = mt.Activity.Avoid
	case components.BehaviorChase:
		base = mt.Activity.Chase
	}
	return base * (mt.SpeciesBase + p.Activity*mt.SpeciesScale)
}

// recoveryRate is the energy regained per second while performing b.
func recoveryRate(b components.Behavior, mt *config.MetabolismTuning) float64 {
	switch b {
	case components.BehaviorRest:
		return mt.RestRecovery
	case components.BehaviorHover:
		return mt.HoverRecovery
	default:
		return mt.IdleRecovery
	}
}

// decisionTimer converts a uniform draw into seconds until the next re-roll.
// Resting and hovering fish hold their choice longer.
func decisionTimer(u float64, b components.Behavior, dt *config.DecisionTuning) float64 {
	timer := dt.MinSec + u*dt.SpanSec
	switch b {
	case components.BehaviorRest:
		timer += dt.RestBonus
	case components.BehaviorHover:
		timer += dt.HoverBonus
	}
	return timer
}
