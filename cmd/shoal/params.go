package main

import (
	"github.com/pthm-cable/shoal/config"
)

// ParamSpec defines a single tunable tank parameter.
type ParamSpec struct {
	Name    string  // Human-readable name
	Path    string  // Config path for logging
	Min     float64 // Lower bound
	Max     float64 // Upper bound
	Default float64 // Default value
	Cost    float64 // Relative equipment cost per unit of normalized range
}

// ParamVector holds the set of tunable parameters.
type ParamVector struct {
	Specs []ParamSpec
}

// NewParamVector creates the tank parameters searched by tune.
func NewParamVector() *ParamVector {
	return &ParamVector{
		Specs: []ParamSpec{
			{Name: "base_capacity", Path: "tank.base_capacity", Min: 8, Max: 40, Default: 17, Cost: 1.0},
			{Name: "oxygen_capacity", Path: "tank.oxygen_capacity", Min: 6, Max: 40, Default: 15, Cost: 1.0},
			{Name: "filtration_factor", Path: "tank.filtration_factor", Min: 0.5, Max: 2.0, Default: 1.1, Cost: 0.5},
			{Name: "habitat_factor", Path: "tank.habitat_factor", Min: 0, Max: 1.5, Default: 0.85, Cost: 0.25},
		},
	}
}

// Dim returns the number of parameters.
func (pv *ParamVector) Dim() int {
	return len(pv.Specs)
}

// DefaultVector returns the default parameter values as a slice.
func (pv *ParamVector) DefaultVector() []float64 {
	v := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		v[i] = spec.Default
	}
	return v
}

// Normalize converts raw parameter values to [0,1] range.
func (pv *ParamVector) Normalize(raw []float64) []float64 {
	normalized := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		normalized[i] = (raw[i] - spec.Min) / (spec.Max - spec.Min)
	}
	return normalized
}

// Denormalize converts [0,1] values back to raw parameter values.
func (pv *ParamVector) Denormalize(normalized []float64) []float64 {
	raw := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		raw[i] = spec.Min + normalized[i]*(spec.Max-spec.Min)
	}
	return raw
}

// Clamp ensures all values are within bounds.
func (pv *ParamVector) Clamp(v []float64) []float64 {
	clamped := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		clamped[i] = min(max(v[i], spec.Min), spec.Max)
	}
	return clamped
}

// Cost returns the weighted equipment cost of raw values, in [0,1].
func (pv *ParamVector) Cost(raw []float64) float64 {
	norm := pv.Normalize(pv.Clamp(raw))
	var total, weights float64
	for i, spec := range pv.Specs {
		total += spec.Cost * norm[i]
		weights += spec.Cost
	}
	if weights == 0 {
		return 0
	}
	return total / weights
}

// ApplyToConfig applies clamped parameter values to cfg's tank.
// Order must match Specs order.
func (pv *ParamVector) ApplyToConfig(cfg *config.Config, values []float64) {
	clamped := pv.Clamp(values)
	cfg.Tank.BaseCapacity = clamped[0]
	cfg.Tank.OxygenCapacity = clamped[1]
	cfg.Tank.FiltrationFactor = clamped[2]
	cfg.Tank.HabitatFactor = clamped[3]
}

// ExtractFromConfig extracts current parameter values from cfg.
func (pv *ParamVector) ExtractFromConfig(cfg *config.Config) []float64 {
	return []float64{
		cfg.Tank.BaseCapacity,
		cfg.Tank.OxygenCapacity,
		cfg.Tank.FiltrationFactor,
		cfg.Tank.HabitatFactor,
	}
}
