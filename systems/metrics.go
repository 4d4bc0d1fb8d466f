package systems

import (
	"github.com/pthm-cable/shoal/components"
	"github.com/pthm-cable/shoal/config"
	"github.com/pthm-cable/shoal/species"
)

// capacityEpsilon keeps capacity denominators away from zero.
const capacityEpsilon = 0.001

// SpeciesCount is the number of fish of one species in the tank.
type SpeciesCount struct {
	ID    string
	Count int
}

// TankMetrics is the tank-wide picture computed fresh at the start of every
// step. Only the fields copied into TankState outlive the step.
type TankMetrics struct {
	Bioload           float64
	OxygenDemand      float64
	EffectiveCapacity float64
	LoadRatio         float64
	PopulationRatio   float64

	Crowding           float64
	AggressionPressure float64
	Incompatibility    float64
	Harmony            float64
	WaterQualityTarget float64
	OxygenLevelTarget  float64

	// Species in order of first appearance in the fish slice. The order is
	// fixed so floating point sums are reproducible.
	counts         []SpeciesCount
	countByID      map[string]int
	socialPressure map[string]float64
}

// SpeciesCounts returns per-species head counts in first-appearance order.
func (m *TankMetrics) SpeciesCounts() []SpeciesCount {
	out := make([]SpeciesCount, len(m.counts))
	copy(out, m.counts)
	return out
}

// Count returns how many fish of species id are present.
func (m *TankMetrics) Count(id string) int {
	return m.countByID[id]
}

// SocialPressure returns the hostility species id is exposed to, in [0,1].
func (m *TankMetrics) SocialPressure(id string) float64 {
	return m.socialPressure[id]
}

// Hostility maps a compatibility score to [0,1]: 0 at or above threshold,
// rising linearly to 1 at score 0.
func Hostility(score, threshold float64) float64 {
	return clamp01((threshold - score) / threshold)
}

func countSpecies(fish []components.FishState) ([]SpeciesCount, map[string]int) {
	var counts []SpeciesCount
	pos := make(map[string]int)
	for i := range fish {
		id := fish[i].SpeciesID
		if j, ok := pos[id]; ok {
			counts[j].Count++
			continue
		}
		pos[id] = len(counts)
		counts = append(counts, SpeciesCount{ID: id, Count: 1})
	}
	byID := make(map[string]int, len(counts))
	for _, c := range counts {
		byID[c.ID] = c.Count
	}
	return counts, byID
}

// incompatibility is the hostility averaged over every unordered pair of
// fish, same-species pairs included.
func incompatibility(counts []SpeciesCount, lookup *species.Lookup, threshold float64) float64 {
	var weightedHostility, weightedPairs float64
	for i := range counts {
		a := counts[i]
		for j := i; j < len(counts); j++ {
			b := counts[j]
			var pairs float64
			if i == j {
				pairs = float64(a.Count*max(0, a.Count-1)) / 2
			} else {
				pairs = float64(a.Count * b.Count)
			}
			if pairs <= 0 {
				continue
			}
			weightedHostility += Hostility(lookup.Score(a.ID, b.ID), threshold) * pairs
			weightedPairs += pairs
		}
	}
	if weightedPairs <= 0 {
		return 0
	}
	return clamp01(weightedHostility / weightedPairs)
}

// socialPressure weighs the hostility of every other species by its share
// of the population, plus a small term for the species' own share.
func socialPressure(counts []SpeciesCount, lookup *species.Lookup, mt *config.MetricsTuning) map[string]float64 {
	out := make(map[string]float64, len(counts))
	total := 0
	for _, c := range counts {
		total += c.Count
	}
	if total <= 0 {
		return out
	}

	for _, s := range counts {
		pressure := 0.0
		for _, o := range counts {
			if s.ID == o.ID || o.Count <= 0 {
				continue
			}
			h := Hostility(lookup.Score(s.ID, o.ID), mt.SocialHostilityThreshold)
			pressure += h * (float64(o.Count) / float64(total))
		}
		out[s.ID] = clamp01(pressure + float64(s.Count)/float64(total)*mt.SelfCrowdingWeight)
	}
	return out
}

// ComputeTankMetrics derives crowding, aggression, incompatibility, harmony
// and the water/oxygen targets from the population. Fish whose species is
// missing from idx still count toward population figures but contribute no
// load.
func ComputeTankMetrics(
	fish []components.FishState,
	idx *species.Index,
	lookup *species.Lookup,
	tank components.TankConfig,
	t *config.Tuning,
) TankMetrics {
	mt := &t.Metrics
	counts, byID := countSpecies(fish)

	var bioload, oxygenDemand, temperamentSum, territorySum float64
	for i := range fish {
		p, ok := idx.Get(fish[i].SpeciesID)
		if !ok {
			continue
		}
		bioload += p.Bioload
		oxygenDemand += p.OxygenUse * (mt.OxygenActivityBase + p.Activity*mt.OxygenActivityScale)
		temperamentSum += float64(p.Temperament) / species.MaxTier
		territorySum += p.TerritoryNeed
	}

	fishCount := float64(max(1, len(fish)))
	effectiveCapacity := tank.BaseCapacity * tank.FiltrationFactor * (mt.HabitatBase + tank.HabitatFactor*mt.HabitatScale)
	loadRatio := 1.0
	if effectiveCapacity > 0 {
		loadRatio = bioload / effectiveCapacity
	}
	populationRatio := float64(len(fish)) / float64(max(1, tank.TargetPopulation))

	incompat := incompatibility(counts, lookup, mt.HostilityThreshold)
	pressure := socialPressure(counts, lookup, mt)

	crowding := clamp01(
		(populationRatio-mt.CrowdingPopulationOffset)*mt.CrowdingPopulationScale +
			max(0, loadRatio-mt.CrowdingLoadOffset)*mt.CrowdingLoadScale,
	)
	aggression := clamp01(
		temperamentSum/fishCount*mt.AggressionTemperament +
			incompat*mt.AggressionIncompatibility +
			territorySum/fishCount*crowding*mt.AggressionTerritory,
	)

	oxygenRatio := oxygenDemand / floorAt(tank.OxygenCapacity*tank.FiltrationFactor, capacityEpsilon)
	oxygenTarget := clamp01(1 - max(0, oxygenRatio-mt.OxygenRatioOffset)/mt.OxygenRatioSpan)
	waterTarget := clamp01(1 -
		max(0, loadRatio-mt.WaterLoadOffset)*mt.WaterLoadScale -
		crowding*mt.WaterCrowding -
		incompat*mt.WaterIncompatibility,
	)
	harmony := clamp01(1 - (crowding*mt.HarmonyCrowding +
		aggression*mt.HarmonyAggression +
		incompat*mt.HarmonyIncompatibility))

	return TankMetrics{
		Bioload:            bioload,
		OxygenDemand:       oxygenDemand,
		EffectiveCapacity:  effectiveCapacity,
		LoadRatio:          loadRatio,
		PopulationRatio:    populationRatio,
		Crowding:           crowding,
		AggressionPressure: aggression,
		Incompatibility:    incompat,
		Harmony:            harmony,
		WaterQualityTarget: waterTarget,
		OxygenLevelTarget:  oxygenTarget,
		counts:             counts,
		countByID:          byID,
		socialPressure:     pressure,
	}
}
