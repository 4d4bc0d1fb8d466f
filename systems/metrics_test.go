package systems

import (
	"math"
	"testing"

	"github.com/pthm-cable/shoal/components"
	"github.com/pthm-cable/shoal/config"
	"github.com/pthm-cable/shoal/species"
)

// twoSpeciesTank builds a catalog of two otherwise identical peaceful species
// whose only difference is how well they tolerate each other.
func twoSpeciesTank(score float64) (*species.Index, *species.Lookup) {
	base := species.Profile{
		SizeClass:     species.SizeSmall,
		Schooling:     2,
		TerritoryNeed: 0.2,
		Activity:      0.6,
		Bioload:       0.7,
		OxygenUse:     0.6,
	}
	a, b := base, base
	a.ID, a.Label = "alpha", "Alpha"
	b.ID, b.Label = "beta", "Beta"
	return species.NewIndex([]species.Profile{a, b}),
		species.NewLookup([]species.CompatibilityRule{{A: "alpha", B: "beta", Score: score}})
}

func fishOf(groups ...config.PopulationGroup) []components.FishState {
	var out []components.FishState
	for _, g := range groups {
		for i := 0; i < g.Count; i++ {
			out = append(out, components.FishState{ID: g.Species + "-" + string(rune('a'+i)), SpeciesID: g.Species})
		}
	}
	return out
}

func TestComputeTankMetrics_HostilePairingLowersHarmony(t *testing.T) {
	tuning := config.DefaultTuning()
	tank := components.DefaultTankConfig()
	fish := fishOf(
		config.PopulationGroup{Species: "alpha", Count: 6},
		config.PopulationGroup{Species: "beta", Count: 6},
	)

	idx, friendly := twoSpeciesTank(0.9)
	calm := ComputeTankMetrics(fish, idx, friendly, tank, &tuning)

	idx, hostile := twoSpeciesTank(0.34)
	tense := ComputeTankMetrics(fish, idx, hostile, tank, &tuning)

	if calm.Incompatibility != 0 {
		t.Errorf("compatible tank incompatibility = %v, want 0", calm.Incompatibility)
	}
	// 36 of 66 pairs are cross-species with hostility (0.58-0.34)/0.58.
	wantIncompat := (0.58 - 0.34) / 0.58 * 36 / 66
	if math.Abs(tense.Incompatibility-wantIncompat) > 1e-12 {
		t.Errorf("hostile incompatibility = %v, want %v", tense.Incompatibility, wantIncompat)
	}
	if tense.AggressionPressure <= calm.AggressionPressure {
		t.Errorf("aggression: hostile %v should exceed compatible %v", tense.AggressionPressure, calm.AggressionPressure)
	}
	if tense.Harmony >= calm.Harmony {
		t.Errorf("harmony: hostile %v should be below compatible %v", tense.Harmony, calm.Harmony)
	}
	if tense.SocialPressure("alpha") <= calm.SocialPressure("alpha") {
		t.Error("hostile neighbours should raise social pressure")
	}
	if tense.WaterQualityTarget >= calm.WaterQualityTarget {
		t.Error("incompatibility should lower the water quality target")
	}
}

func TestComputeTankMetrics_Crowding(t *testing.T) {
	tuning := config.DefaultTuning()
	tank := components.DefaultTankConfig()
	idx := species.NewIndex([]species.Profile{{
		ID: "ember", Label: "Ember Tetra", Schooling: 3, Activity: 0.5,
		Bioload: 0.3, OxygenUse: 0.2, TerritoryNeed: 0.1,
	}})
	lookup := species.NewLookup(nil)

	sparse := ComputeTankMetrics(fishOf(config.PopulationGroup{Species: "ember", Count: 8}), idx, lookup, tank, &tuning)
	packed := ComputeTankMetrics(fishOf(config.PopulationGroup{Species: "ember", Count: 24}), idx, lookup, tank, &tuning)

	if sparse.Crowding != 0 {
		t.Errorf("8 of 16 fish crowding = %v, want 0", sparse.Crowding)
	}
	// Population ratio 1.5; load stays below its offset.
	if want := (1.5 - 0.68) * 1.06; math.Abs(packed.Crowding-want) > 1e-12 {
		t.Errorf("24 of 16 fish crowding = %v, want %v", packed.Crowding, want)
	}
	if packed.WaterQualityTarget >= sparse.WaterQualityTarget {
		t.Errorf("water target: packed %v should be below sparse %v", packed.WaterQualityTarget, sparse.WaterQualityTarget)
	}
	if packed.Count("ember") != 24 {
		t.Errorf("Count = %d, want 24", packed.Count("ember"))
	}
}

func TestComputeTankMetrics_Empty(t *testing.T) {
	tuning := config.DefaultTuning()
	idx := species.NewIndex(species.DefaultCatalog())
	lookup := species.NewLookup(species.DefaultCompatibilityRules())

	m := ComputeTankMetrics(nil, idx, lookup, components.DefaultTankConfig(), &tuning)
	if m.Incompatibility != 0 || m.Crowding != 0 || m.Bioload != 0 {
		t.Errorf("empty tank metrics = %+v", m)
	}
	if m.WaterQualityTarget != 1 || m.OxygenLevelTarget != 1 {
		t.Errorf("empty tank targets = %v/%v, want 1/1", m.WaterQualityTarget, m.OxygenLevelTarget)
	}
	if len(m.SpeciesCounts()) != 0 {
		t.Error("empty tank should have no species")
	}
}

func TestComputeTankMetrics_ZeroCapacity(t *testing.T) {
	tuning := config.DefaultTuning()
	idx := species.NewIndex(species.DefaultCatalog())
	lookup := species.NewLookup(species.DefaultCompatibilityRules())
	tank := components.TankConfig{TargetPopulation: 16}

	m := ComputeTankMetrics(CreateDefaultEcosystemState(DefaultSeed).Fish, idx, lookup, tank, &tuning)
	if m.LoadRatio != 1 {
		t.Errorf("load ratio with no capacity = %v, want 1", m.LoadRatio)
	}
	for name, v := range map[string]float64{
		"crowding":   m.Crowding,
		"aggression": m.AggressionPressure,
		"harmony":    m.Harmony,
		"water":      m.WaterQualityTarget,
		"oxygen":     m.OxygenLevelTarget,
	} {
		if math.IsNaN(v) || v < 0 || v > 1 {
			t.Errorf("%s = %v, want a value in [0,1]", name, v)
		}
	}
}

func TestComputeTankMetrics_UnknownSpeciesAddsNoLoad(t *testing.T) {
	tuning := config.DefaultTuning()
	idx := species.NewIndex(species.DefaultCatalog())
	lookup := species.NewLookup(species.DefaultCompatibilityRules())
	tank := components.DefaultTankConfig()

	fish := fishOf(config.PopulationGroup{Species: species.Guppy, Count: 2})
	with := append(fishOf(config.PopulationGroup{Species: "ghost", Count: 1}), fish...)

	a := ComputeTankMetrics(fish, idx, lookup, tank, &tuning)
	b := ComputeTankMetrics(with, idx, lookup, tank, &tuning)

	if a.Bioload != b.Bioload {
		t.Errorf("bioload changed from %v to %v", a.Bioload, b.Bioload)
	}
	if b.PopulationRatio <= a.PopulationRatio {
		t.Error("unknown species should still count toward population")
	}
	counts := b.SpeciesCounts()
	if len(counts) != 2 || counts[0].ID != "ghost" || counts[1].ID != species.Guppy {
		t.Errorf("SpeciesCounts = %v, want first-appearance order [ghost guppy]", counts)
	}
}

func TestHostility(t *testing.T) {
	tests := []struct {
		score, threshold, want float64
	}{
		{1, 0.58, 0},
		{0.58, 0.58, 0},
		{0.29, 0.58, 0.5},
		{0, 0.58, 1},
		{-1, 0.58, 1},
	}
	for _, tt := range tests {
		if got := Hostility(tt.score, tt.threshold); math.Abs(got-tt.want) > 1e-12 {
			t.Errorf("Hostility(%v, %v) = %v, want %v", tt.score, tt.threshold, got, tt.want)
		}
	}
}
