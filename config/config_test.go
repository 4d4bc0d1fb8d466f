package config

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/pthm-cable/shoal/components"
	"github.com/pthm-cable/shoal/species"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load(\"\") failed: %v", err)
	}

	if !reflect.DeepEqual(cfg.Tuning, DefaultTuning()) {
		t.Errorf("defaults.yaml tuning drifted from DefaultTuning():\n yaml: %+v\n code: %+v", cfg.Tuning, DefaultTuning())
	}
	if cfg.Tank != components.DefaultTankConfig() {
		t.Errorf("defaults.yaml tank = %+v, want %+v", cfg.Tank, components.DefaultTankConfig())
	}
	if !reflect.DeepEqual(cfg.Population, DefaultPopulation()) {
		t.Errorf("population = %+v, want %+v", cfg.Population, DefaultPopulation())
	}
	if cfg.Simulation.Seed != 82064021 {
		t.Errorf("seed = %d, want 82064021", cfg.Simulation.Seed)
	}
	if cfg.TotalFish() != 7 {
		t.Errorf("TotalFish() = %d, want 7", cfg.TotalFish())
	}
	if cfg.Derived.Index.Len() != 5 {
		t.Errorf("expected built-in catalog of 5, got %d", cfg.Derived.Index.Len())
	}
	if got := cfg.Derived.Lookup.Score(species.DwarfGourami, species.CherryBarb); got != 0.34 {
		t.Errorf("default lookup score = %v, want 0.34", got)
	}
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadOverridesOnlyPresentFields(t *testing.T) {
	path := writeConfig(t, `
tank:
  target_population: 24
tuning:
  rates:
    stress: {rising: 0.9}
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Tank.TargetPopulation != 24 {
		t.Errorf("target_population = %d, want 24", cfg.Tank.TargetPopulation)
	}
	if cfg.Tank.BaseCapacity != 17 {
		t.Errorf("base_capacity lost its default: %v", cfg.Tank.BaseCapacity)
	}
	if cfg.Tuning.Rates.Stress.Rising != 0.9 || cfg.Tuning.Rates.Stress.Falling != 0.26 {
		t.Errorf("stress rate = %+v, want rising override with default falling", cfg.Tuning.Rates.Stress)
	}
}

func TestLoadCustomCatalog(t *testing.T) {
	path := writeConfig(t, `
species:
  - id: betta
    label: Betta
    size_class: medium
    temperament: 3
    territory_need: 0.8
    activity: 0.4
    preferred_depth: top
    bioload: 1.1
    oxygen_use: 0.7
  - id: otocinclus
    label: Otocinclus
    schooling: 2
    activity: 0.3
    preferred_depth: bottom
    bioload: 0.3
    oxygen_use: 0.3
compatibility:
  - {a: otocinclus, b: betta, score: 0.6}
population:
  - {species: betta, count: 1}
  - {species: otocinclus, count: 4}
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	betta, ok := cfg.Derived.Index.Get("betta")
	if !ok {
		t.Fatal("betta missing from index")
	}
	if betta.SizeClass != species.SizeMedium || betta.PreferredDepth != species.DepthTop {
		t.Errorf("enum fields not decoded: %+v", betta)
	}
	if _, ok := cfg.Derived.Index.Get(species.NeonTetra); ok {
		t.Error("custom catalog must replace the built-in one")
	}
	if got := cfg.Derived.Lookup.Score("betta", "otocinclus"); got != 0.6 {
		t.Errorf("score = %v, want 0.6", got)
	}
}

func TestLoadRejectsUnknownSpecies(t *testing.T) {
	path := writeConfig(t, `
population:
  - {species: neon_tetr, count: 4}
`)
	_, err := Load(path)
	if !errors.Is(err, species.ErrUnknownSpecies) {
		t.Fatalf("expected ErrUnknownSpecies, got %v", err)
	}
	if !strings.Contains(err.Error(), "neon_tetra") {
		t.Errorf("expected suggestion in %q", err)
	}
}

func TestLoadRejectsBadValues(t *testing.T) {
	path := writeConfig(t, `
tank:
  filtration_factor: 0
simulation:
  dt: -1
`)
	_, err := Load(path)
	if err == nil {
		t.Fatal("expected validation error")
	}
	for _, want := range []string{"filtration_factor", "dt"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q does not mention %s", err, want)
		}
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestWriteYAMLRoundTrip(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(t.TempDir(), "out.yaml")
	if err := cfg.WriteYAML(path); err != nil {
		t.Fatal(err)
	}
	back, err := Load(path)
	if err != nil {
		t.Fatalf("reloading written config: %v", err)
	}
	if !reflect.DeepEqual(back.Tuning, cfg.Tuning) || back.Tank != cfg.Tank {
		t.Error("written config does not reload to the same values")
	}
	if !reflect.DeepEqual(back.Species, cfg.Species) {
		t.Error("species catalog did not survive the round trip")
	}
}
