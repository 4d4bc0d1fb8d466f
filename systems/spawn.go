package systems

import (
	"fmt"
	"math"

	"github.com/pthm-cable/shoal/components"
	"github.com/pthm-cable/shoal/config"
	"github.com/pthm-cable/shoal/rng"
	"github.com/pthm-cable/shoal/species"
)

// DefaultSeed is the bootstrap seed used when none is configured.
const DefaultSeed uint32 = 82064021

// Bootstrap ranges for a new fish. Each is drawn in this order from the
// seed chain; reordering them changes every spawned tank.
var (
	spawnEnergy = [2]float64{0.65, 0.92}
	spawnStress = [2]float64{0.08, 0.26}
	spawnHealth = [2]float64{0.8, 0.97}
	spawnHunger = [2]float64{0.08, 0.35}
	spawnTimer  = [2]float64{0.9, 2.6}

	spawnLaneZ     = [2]float64{-0.85, 0.85}
	spawnPathWidth = [2]float64{0.42, 0.82}
	spawnPathDepth = [2]float64{0.22, 0.5}
	spawnPhase     = [2]float64{0, 2 * math.Pi}
	spawnSpeed     = [2]float64{0.68, 1.12}
)

const (
	spawnAgeDays     = 45
	spawnAgeStepDays = 2.6
)

// laneRange is the vertical band a fish swims in, by preferred depth.
func laneRange(d species.Depth) [2]float64 {
	switch d {
	case species.DepthTop:
		return [2]float64{0.22, 0.92}
	case species.DepthBottom:
		return [2]float64{-0.95, -0.22}
	default:
		return [2]float64{-0.38, 0.46}
	}
}

// InitialTank is the environment every new session starts from.
func InitialTank() components.TankState {
	return components.TankState{
		WaterQuality:       0.9,
		OxygenLevel:        0.9,
		Crowding:           0.18,
		AggressionPressure: 0.14,
		Harmony:            0.84,
	}
}

// newFish derives one fish from seed and returns it with the advanced seed.
func newFish(index int, speciesID string, depth species.Depth, seed uint32) (components.FishState, uint32) {
	draw := func(r [2]float64) float64 {
		var v float64
		v, seed = rng.Range(seed, r[0], r[1])
		return v
	}

	f := components.FishState{
		ID:        fmt.Sprintf("fish-%d", index+1),
		SpeciesID: speciesID,
		AgeDays:   spawnAgeDays + float64(index)*spawnAgeStepDays,
		Behavior:  components.BehaviorCruise,
	}
	f.Energy = draw(spawnEnergy)
	f.Stress = draw(spawnStress)
	f.Health = draw(spawnHealth)
	f.Hunger = draw(spawnHunger)
	f.DecisionTimerSec = draw(spawnTimer)

	f.LaneYNorm = draw(laneRange(depth))
	f.LaneZNorm = draw(spawnLaneZ)
	f.PathWidthNorm = draw(spawnPathWidth)
	f.PathDepthNorm = draw(spawnPathDepth)
	f.Phase = draw(spawnPhase)
	f.SpeedFactor = draw(spawnSpeed)
	f.MotionSeed = seed

	return f, seed
}

// Spawn builds the initial ecosystem from one root seed. Groups are stocked
// in order and every fish's stats and lane come from the same seed chain,
// so equal inputs always give equal states. Species missing from idx are
// still spawned (in the mid lane); Step will leave them frozen.
func Spawn(seed uint32, groups []config.PopulationGroup, idx *species.Index) components.EcosystemState {
	total := 0
	for _, g := range groups {
		total += max(0, g.Count)
	}

	fish := make([]components.FishState, 0, total)
	next := seed
	for _, g := range groups {
		depth := species.DepthMid
		if p, ok := idx.Get(g.Species); ok {
			depth = p.PreferredDepth
		}
		for i := 0; i < g.Count; i++ {
			var f components.FishState
			f, next = newFish(len(fish), g.Species, depth, next)
			fish = append(fish, f)
		}
	}

	return components.EcosystemState{
		Tick:     0,
		RNGState: next,
		Fish:     fish,
		Tank:     InitialTank(),
	}
}

// CreateDefaultEcosystemState spawns the default community from seed.
func CreateDefaultEcosystemState(seed uint32) components.EcosystemState {
	return Spawn(seed, config.DefaultPopulation(), species.NewIndex(species.DefaultCatalog()))
}
