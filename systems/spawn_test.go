package systems

import (
	"math"
	"reflect"
	"testing"

	"github.com/pthm-cable/shoal/components"
	"github.com/pthm-cable/shoal/config"
	"github.com/pthm-cable/shoal/species"
)

func TestCreateDefaultEcosystemState_Reproducible(t *testing.T) {
	a := CreateDefaultEcosystemState(DefaultSeed)
	b := CreateDefaultEcosystemState(DefaultSeed)
	if !reflect.DeepEqual(a, b) {
		t.Fatal("same seed produced different tanks")
	}

	c := CreateDefaultEcosystemState(1)
	if reflect.DeepEqual(a.Fish, c.Fish) {
		t.Fatal("different seeds produced identical fish")
	}
}

func TestCreateDefaultEcosystemState_Reference(t *testing.T) {
	s := CreateDefaultEcosystemState(DefaultSeed)

	if s.Tick != 0 {
		t.Errorf("tick = %d, want 0", s.Tick)
	}
	if s.RNGState != 3673678150 {
		t.Errorf("rng state = %d, want 3673678150", s.RNGState)
	}
	if !reflect.DeepEqual(s.Tank, InitialTank()) {
		t.Errorf("tank = %+v, want %+v", s.Tank, InitialTank())
	}

	wantSpecies := []string{
		species.NeonTetra, species.NeonTetra, species.NeonTetra,
		species.Guppy, species.Guppy,
		species.Corydoras,
		species.DwarfGourami,
	}
	if len(s.Fish) != len(wantSpecies) {
		t.Fatalf("fish count = %d, want %d", len(s.Fish), len(wantSpecies))
	}
	for i, id := range wantSpecies {
		f := s.Fish[i]
		if f.SpeciesID != id {
			t.Errorf("fish %d species = %s, want %s", i, f.SpeciesID, id)
		}
		if f.Behavior != components.BehaviorCruise {
			t.Errorf("%s starts as %v, want cruise", f.ID, f.Behavior)
		}
		if want := 45 + float64(i)*2.6; math.Abs(f.AgeDays-want) > 1e-12 {
			t.Errorf("%s age = %v, want %v", f.ID, f.AgeDays, want)
		}
	}

	f := s.Fish[0]
	if f.ID != "fish-1" {
		t.Errorf("first id = %q, want fish-1", f.ID)
	}
	for _, c := range []struct {
		name      string
		got, want float64
	}{
		{"energy", f.Energy, 0.7031107549741864},
		{"stress", f.Stress, 0.18492679961025715},
		{"health", f.Health, 0.8826842354005203},
		{"hunger", f.Hunger, 0.1802319461526349},
		{"timer", f.DecisionTimerSec, 1.7920061945682393},
		{"lane_y", f.LaneYNorm, -0.10817738370969887},
		{"lane_z", f.LaneZNorm, -0.5338764246087522},
		{"path_width", f.PathWidthNorm, 0.7374099210649728},
		{"path_depth", f.PathDepthNorm, 0.39923323710449043},
		{"phase", f.Phase, 5.869412976861185},
		{"speed", f.SpeedFactor, 1.1162328611686827},
	} {
		if math.Abs(c.got-c.want) > 1e-12 {
			t.Errorf("fish-1 %s = %.17g, want %.17g", c.name, c.got, c.want)
		}
	}
	if f.MotionSeed != 3049418780 {
		t.Errorf("fish-1 motion seed = %d, want 3049418780", f.MotionSeed)
	}
}

func TestSpawn_RangesAndLanes(t *testing.T) {
	idx := species.NewIndex(species.DefaultCatalog())
	groups := []config.PopulationGroup{
		{Species: species.Guppy, Count: 20},
		{Species: species.Corydoras, Count: 20},
		{Species: species.CherryBarb, Count: 20},
	}
	s := Spawn(99, groups, idx)
	if err := s.Validate(); err != nil {
		t.Fatalf("spawned state invalid: %v", err)
	}

	in := func(v float64, r [2]float64) bool { return v >= r[0] && v < r[1] }
	for _, f := range s.Fish {
		p, _ := idx.Get(f.SpeciesID)
		if lane := laneRange(p.PreferredDepth); !in(f.LaneYNorm, lane) {
			t.Errorf("%s (%s) lane %v outside %v", f.ID, f.SpeciesID, f.LaneYNorm, lane)
		}
		if !in(f.Energy, spawnEnergy) || !in(f.Stress, spawnStress) ||
			!in(f.Health, spawnHealth) || !in(f.Hunger, spawnHunger) ||
			!in(f.DecisionTimerSec, spawnTimer) {
			t.Errorf("%s stats out of bootstrap range: %+v", f.ID, f)
		}
	}
}

func TestSpawn_UnknownSpeciesUsesMidLane(t *testing.T) {
	idx := species.NewIndex(species.DefaultCatalog())
	s := Spawn(5, []config.PopulationGroup{{Species: "axolotl", Count: 4}}, idx)

	mid := laneRange(species.DepthMid)
	for _, f := range s.Fish {
		if f.LaneYNorm < mid[0] || f.LaneYNorm >= mid[1] {
			t.Errorf("%s lane %v outside mid band %v", f.ID, f.LaneYNorm, mid)
		}
	}
}

func TestSpawn_Empty(t *testing.T) {
	s := Spawn(42, nil, species.NewIndex(nil))
	if len(s.Fish) != 0 {
		t.Errorf("fish = %d, want 0", len(s.Fish))
	}
	if s.RNGState != 42 {
		t.Errorf("rng state = %d, want untouched seed 42", s.RNGState)
	}
}
