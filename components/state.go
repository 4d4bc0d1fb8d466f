// Package components defines the plain-old-data state the simulator threads
// from step to step.
package components

import (
	"errors"
	"fmt"
)

// ErrInvariant is wrapped by every Validate failure.
var ErrInvariant = errors.New("state invariant violated")

// FishState is one individual. Energy, Stress, Health and Hunger stay in [0,1].
type FishState struct {
	ID               string   `json:"id"`
	SpeciesID        string   `json:"species_id"`
	AgeDays          float64  `json:"age_days"`
	Energy           float64  `json:"energy"`
	Stress           float64  `json:"stress"`
	Health           float64  `json:"health"`
	Hunger           float64  `json:"hunger"`
	Behavior         Behavior `json:"behavior"`
	DecisionTimerSec float64  `json:"decision_timer_sec"`

	// Cosmetic motion parameters. Set once at spawn and read by renderers only.
	MotionSeed    uint32  `json:"motion_seed"`
	LaneYNorm     float64 `json:"lane_y_norm"`
	LaneZNorm     float64 `json:"lane_z_norm"`
	PathWidthNorm float64 `json:"path_width_norm"`
	PathDepthNorm float64 `json:"path_depth_norm"`
	Phase         float64 `json:"phase"`
	SpeedFactor   float64 `json:"speed_factor"`
}

// TankState is the aggregate environment. Every field except Bioload and
// TimestampMs is in [0,1].
type TankState struct {
	TimestampMs        float64 `json:"timestamp_ms"` // simulated milliseconds
	WaterQuality       float64 `json:"water_quality"`
	OxygenLevel        float64 `json:"oxygen_level"`
	Crowding           float64 `json:"crowding"`
	AggressionPressure float64 `json:"aggression_pressure"`
	Harmony            float64 `json:"harmony"`
	Bioload            float64 `json:"bioload"`
	Incompatibility    float64 `json:"incompatibility"`
}

// EcosystemState is everything that changes between steps. RNGState is the
// only source of randomness; there is no other hidden generator.
type EcosystemState struct {
	Tick     uint64      `json:"tick"`
	RNGState uint32      `json:"rng_state"`
	Fish     []FishState `json:"fish"`
	Tank     TankState   `json:"tank"`
}

// Clone returns a deep copy that shares no memory with s.
func (s EcosystemState) Clone() EcosystemState {
	out := s
	if s.Fish != nil {
		out.Fish = make([]FishState, len(s.Fish))
		copy(out.Fish, s.Fish)
	}
	return out
}

// TankConfig is the static capacity and filtration of the tank.
type TankConfig struct {
	BaseCapacity     float64 `yaml:"base_capacity" json:"base_capacity"`
	OxygenCapacity   float64 `yaml:"oxygen_capacity" json:"oxygen_capacity"`
	FiltrationFactor float64 `yaml:"filtration_factor" json:"filtration_factor"`
	HabitatFactor    float64 `yaml:"habitat_factor" json:"habitat_factor"`
	TargetPopulation int     `yaml:"target_population" json:"target_population"`
}

// DefaultTankConfig returns the reference tank.
func DefaultTankConfig() TankConfig {
	return TankConfig{
		BaseCapacity:     17,
		OxygenCapacity:   15,
		FiltrationFactor: 1.1,
		HabitatFactor:    0.85,
		TargetPopulation: 16,
	}
}

// Validate checks tank parameters are usable.
func (c TankConfig) Validate() error {
	switch {
	case c.BaseCapacity <= 0:
		return fmt.Errorf("tank: base_capacity must be positive, got %v", c.BaseCapacity)
	case c.OxygenCapacity <= 0:
		return fmt.Errorf("tank: oxygen_capacity must be positive, got %v", c.OxygenCapacity)
	case c.FiltrationFactor <= 0:
		return fmt.Errorf("tank: filtration_factor must be positive, got %v", c.FiltrationFactor)
	case c.HabitatFactor < 0:
		return fmt.Errorf("tank: habitat_factor must be non-negative, got %v", c.HabitatFactor)
	case c.TargetPopulation < 1:
		return fmt.Errorf("tank: target_population must be at least 1, got %d", c.TargetPopulation)
	}
	return nil
}

func checkUnit(errs []error, what string, v float64) []error {
	// NaN fails both comparisons, so test the positive form.
	if !(v >= 0 && v <= 1) {
		errs = append(errs, fmt.Errorf("%s = %v outside [0,1]", what, v))
	}
	return errs
}

// Validate checks every range invariant on the state and returns all
// violations joined, each wrapping ErrInvariant.
func (s EcosystemState) Validate() error {
	var errs []error
	for i := range s.Fish {
		f := &s.Fish[i]
		errs = checkUnit(errs, f.ID+".energy", f.Energy)
		errs = checkUnit(errs, f.ID+".stress", f.Stress)
		errs = checkUnit(errs, f.ID+".health", f.Health)
		errs = checkUnit(errs, f.ID+".hunger", f.Hunger)
		if !f.Behavior.Valid() {
			errs = append(errs, fmt.Errorf("%s.behavior = %v", f.ID, f.Behavior))
		}
		if !(f.DecisionTimerSec >= 0) {
			errs = append(errs, fmt.Errorf("%s.decision_timer_sec = %v is negative", f.ID, f.DecisionTimerSec))
		}
	}

	t := &s.Tank
	errs = checkUnit(errs, "tank.water_quality", t.WaterQuality)
	errs = checkUnit(errs, "tank.oxygen_level", t.OxygenLevel)
	errs = checkUnit(errs, "tank.crowding", t.Crowding)
	errs = checkUnit(errs, "tank.aggression_pressure", t.AggressionPressure)
	errs = checkUnit(errs, "tank.harmony", t.Harmony)
	errs = checkUnit(errs, "tank.incompatibility", t.Incompatibility)
	if !(t.Bioload >= 0) {
		errs = append(errs, fmt.Errorf("tank.bioload = %v is negative", t.Bioload))
	}

	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrInvariant, errors.Join(errs...))
}
