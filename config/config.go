// Package config provides configuration loading for the simulation.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/pthm-cable/shoal/components"
	"github.com/pthm-cable/shoal/species"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all simulation configuration parameters.
type Config struct {
	Tank          components.TankConfig       `yaml:"tank"`
	Tuning        Tuning                      `yaml:"tuning"`
	Population    []PopulationGroup           `yaml:"population"`
	Species       []species.Profile           `yaml:"species,omitempty"`
	Compatibility []species.CompatibilityRule `yaml:"compatibility,omitempty"`
	Simulation    SimulationConfig            `yaml:"simulation"`
	Telemetry     TelemetryConfig             `yaml:"telemetry"`
	Bookmarks     BookmarksConfig             `yaml:"bookmarks"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// PopulationGroup stocks Count fish of one species at bootstrap.
type PopulationGroup struct {
	Species string `yaml:"species"`
	Count   int    `yaml:"count"`
}

// SimulationConfig holds driver parameters. The step itself takes dt from its caller.
type SimulationConfig struct {
	Seed           uint32  `yaml:"seed"`
	DT             float64 `yaml:"dt"`               // seconds per tick
	StepsPerUpdate int     `yaml:"steps_per_update"` // ticks per Update call
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	StatsWindow         float64 `yaml:"stats_window"` // simulated seconds per window
	BookmarkHistorySize int     `yaml:"bookmark_history_size"`
}

// BookmarksConfig holds bookmark detection thresholds.
type BookmarksConfig struct {
	HarmonyCrash HarmonyCrashConfig `yaml:"harmony_crash"`
	OxygenCrisis CrisisConfig       `yaml:"oxygen_crisis"`
	WaterCrisis  CrisisConfig       `yaml:"water_crisis"`
	StableTank   StableTankConfig   `yaml:"stable_tank"`
}

// HarmonyCrashConfig fires when harmony drops by DropFraction from its recent peak.
type HarmonyCrashConfig struct {
	DropFraction float64 `yaml:"drop_fraction"`
	MinPeak      float64 `yaml:"min_peak"`
}

// CrisisConfig fires once when a metric falls below Threshold.
type CrisisConfig struct {
	Threshold float64 `yaml:"threshold"`
}

// StableTankConfig fires after Windows consecutive calm windows.
type StableTankConfig struct {
	MinHarmony float64 `yaml:"min_harmony"`
	MaxStdDev  float64 `yaml:"max_std_dev"`
	Windows    int     `yaml:"windows"`
}

// DerivedConfig holds lookups built from the loaded config.
type DerivedConfig struct {
	Index  *species.Index
	Lookup *species.Lookup
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{Tuning: DefaultTuning()}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Only overwrites fields present in the file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	cfg.computeDerived()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// computeDerived fills in the built-in catalog when none is configured and
// builds the species index and compatibility lookup.
func (c *Config) computeDerived() {
	if len(c.Species) == 0 {
		c.Species = species.DefaultCatalog()
		if len(c.Compatibility) == 0 {
			c.Compatibility = species.DefaultCompatibilityRules()
		}
	}
	if len(c.Population) == 0 {
		c.Population = DefaultPopulation()
	}
	if c.Simulation.StepsPerUpdate < 1 {
		c.Simulation.StepsPerUpdate = 1
	}

	c.Derived.Index = species.NewIndex(c.Species)
	c.Derived.Lookup = species.NewLookup(c.Compatibility)
}

// DefaultPopulation is the starter community: three neons, two guppies,
// one corydoras and one dwarf gourami.
func DefaultPopulation() []PopulationGroup {
	return []PopulationGroup{
		{Species: species.NeonTetra, Count: 3},
		{Species: species.Guppy, Count: 2},
		{Species: species.Corydoras, Count: 1},
		{Species: species.DwarfGourami, Count: 1},
	}
}

// Validate checks ranges and that every referenced species exists.
func (c *Config) Validate() error {
	var errs []error
	if err := c.Tank.Validate(); err != nil {
		errs = append(errs, err)
	}
	if err := c.Tuning.Validate(); err != nil {
		errs = append(errs, err)
	}
	for i := range c.Species {
		if err := c.Species[i].Validate(); err != nil {
			errs = append(errs, err)
		}
	}
	if c.Derived.Index != nil {
		if err := species.ValidateRules(c.Compatibility, c.Derived.Index); err != nil {
			errs = append(errs, err)
		}
		for i, g := range c.Population {
			if _, err := c.Derived.Index.Lookup(g.Species); err != nil {
				errs = append(errs, fmt.Errorf("population group %d: %w", i, err))
			}
			if g.Count < 0 {
				errs = append(errs, fmt.Errorf("population group %d (%s): negative count %d", i, g.Species, g.Count))
			}
		}
	}
	if c.Simulation.DT <= 0 {
		errs = append(errs, fmt.Errorf("simulation: dt must be positive, got %v", c.Simulation.DT))
	}
	if c.Telemetry.StatsWindow <= 0 {
		errs = append(errs, fmt.Errorf("telemetry: stats_window must be positive, got %v", c.Telemetry.StatsWindow))
	}
	return errors.Join(errs...)
}

// TotalFish returns the bootstrap population size.
func (c *Config) TotalFish() int {
	n := 0
	for _, g := range c.Population {
		n += g.Count
	}
	return n
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
