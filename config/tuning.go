package config

import "fmt"

// Tuning holds every hand-tuned coefficient of the simulator. The values
// interact to keep the tank stable; change them in groups and re-run the
// scenario tests.
type Tuning struct {
	Metrics    MetricsTuning    `yaml:"metrics"`
	Rates      RatesTuning      `yaml:"rates"`
	Stress     StressTuning     `yaml:"stress"`
	Health     HealthTuning     `yaml:"health"`
	Metabolism MetabolismTuning `yaml:"metabolism"`
	Decision   DecisionTuning   `yaml:"decision"`
	Weights    WeightsTuning    `yaml:"weights"`
}

// MetricsTuning shapes the tank-wide metrics computed each step.
type MetricsTuning struct {
	// demand = oxygen_use * (base + activity*scale)
	OxygenActivityBase  float64 `yaml:"oxygen_activity_base"`
	OxygenActivityScale float64 `yaml:"oxygen_activity_scale"`
	// capacity *= base + habitat_factor*scale
	HabitatBase  float64 `yaml:"habitat_base"`
	HabitatScale float64 `yaml:"habitat_scale"`

	HostilityThreshold       float64 `yaml:"hostility_threshold"`        // pair scores below this count as hostile
	SocialHostilityThreshold float64 `yaml:"social_hostility_threshold"` // same, for per-species social pressure
	SelfCrowdingWeight       float64 `yaml:"self_crowding_weight"`       // own population share added to social pressure

	CrowdingPopulationOffset float64 `yaml:"crowding_population_offset"`
	CrowdingPopulationScale  float64 `yaml:"crowding_population_scale"`
	CrowdingLoadOffset       float64 `yaml:"crowding_load_offset"`
	CrowdingLoadScale        float64 `yaml:"crowding_load_scale"`

	AggressionTemperament     float64 `yaml:"aggression_temperament"`
	AggressionIncompatibility float64 `yaml:"aggression_incompatibility"`
	AggressionTerritory       float64 `yaml:"aggression_territory"`

	OxygenRatioOffset float64 `yaml:"oxygen_ratio_offset"`
	OxygenRatioSpan   float64 `yaml:"oxygen_ratio_span"`

	WaterLoadOffset      float64 `yaml:"water_load_offset"`
	WaterLoadScale       float64 `yaml:"water_load_scale"`
	WaterCrowding        float64 `yaml:"water_crowding"`
	WaterIncompatibility float64 `yaml:"water_incompatibility"`

	HarmonyCrowding        float64 `yaml:"harmony_crowding"`
	HarmonyAggression      float64 `yaml:"harmony_aggression"`
	HarmonyIncompatibility float64 `yaml:"harmony_incompatibility"`
}

// Rate is an asymmetric convergence speed per second.
type Rate struct {
	Rising  float64 `yaml:"rising"`
	Falling float64 `yaml:"falling"`
}

// RatesTuning holds the convergence speeds of every smoothed quantity.
type RatesTuning struct {
	WaterQuality Rate `yaml:"water_quality"`
	OxygenLevel  Rate `yaml:"oxygen_level"`
	Stress       Rate `yaml:"stress"`
	Health       Rate `yaml:"health"`
}

// StressTuning weights the per-fish stress target.
type StressTuning struct {
	Base                float64 `yaml:"base"`
	Crowding            float64 `yaml:"crowding"`
	OxygenDeficit       float64 `yaml:"oxygen_deficit"`
	WaterDeficit        float64 `yaml:"water_deficit"`
	SocialPressure      float64 `yaml:"social_pressure"`
	AggressionBase      float64 `yaml:"aggression_base"`
	AggressionPerTemper float64 `yaml:"aggression_per_temperament"`
	SchoolingDeficit    float64 `yaml:"schooling_deficit"`
}

// HealthTuning weights the per-fish health target (1 minus the weighted sum).
type HealthTuning struct {
	Stress        float64 `yaml:"stress"`
	WaterDeficit  float64 `yaml:"water_deficit"`
	OxygenDeficit float64 `yaml:"oxygen_deficit"`
	Crowding      float64 `yaml:"crowding"`
}

// ActivityFactors is the relative exertion of each behavior.
type ActivityFactors struct {
	Cruise  float64 `yaml:"cruise"`
	School  float64 `yaml:"school"`
	Inspect float64 `yaml:"inspect"`
	Hover   float64 `yaml:"hover"`
	Dart    float64 `yaml:"dart"`
	Rest    float64 `yaml:"rest"`
	Avoid   float64 `yaml:"avoid"`
	Chase   float64 `yaml:"chase"`
}

// MetabolismTuning drives energy and hunger.
type MetabolismTuning struct {
	Activity          ActivityFactors `yaml:"activity"`
	SpeciesBase       float64         `yaml:"species_base"` // cost *= base + species activity*scale
	SpeciesScale      float64         `yaml:"species_scale"`
	RestRecovery      float64         `yaml:"rest_recovery"`
	HoverRecovery     float64         `yaml:"hover_recovery"`
	IdleRecovery      float64         `yaml:"idle_recovery"`
	ActivityDrain     float64         `yaml:"activity_drain"`
	StressDrain       float64         `yaml:"stress_drain"`
	HungerBase        float64         `yaml:"hunger_base"`
	HungerPerActivity float64         `yaml:"hunger_per_activity"`
}

// DecisionTuning sets how long a fish commits to a behavior.
type DecisionTuning struct {
	MinSec     float64 `yaml:"min_sec"`
	SpanSec    float64 `yaml:"span_sec"`
	RestBonus  float64 `yaml:"rest_bonus"`
	HoverBonus float64 `yaml:"hover_bonus"`
}

// WeightsTuning holds the roulette-wheel weight coefficients.
type WeightsTuning struct {
	CruiseBase     float64 `yaml:"cruise_base"`
	CruiseActivity float64 `yaml:"cruise_activity"`
	CruiseStress   float64 `yaml:"cruise_stress"`

	SchoolBase     float64 `yaml:"school_base"`
	SchoolPerTier  float64 `yaml:"school_per_tier"`
	SchoolFallback float64 `yaml:"school_fallback"`

	InspectBase       float64 `yaml:"inspect_base"`
	InspectHunger     float64 `yaml:"inspect_hunger"`
	InspectDisharmony float64 `yaml:"inspect_disharmony"`

	HoverBase          float64 `yaml:"hover_base"`
	HoverFatigue       float64 `yaml:"hover_fatigue"`
	HoverOxygenDeficit float64 `yaml:"hover_oxygen_deficit"`

	DartBase     float64 `yaml:"dart_base"`
	DartStress   float64 `yaml:"dart_stress"`
	DartCrowding float64 `yaml:"dart_crowding"`

	RestBase    float64 `yaml:"rest_base"`
	RestFatigue float64 `yaml:"rest_fatigue"`
	RestInjury  float64 `yaml:"rest_injury"`

	AvoidBase            float64 `yaml:"avoid_base"`
	AvoidSocialPressure  float64 `yaml:"avoid_social_pressure"`
	AvoidIncompatibility float64 `yaml:"avoid_incompatibility"`

	ChaseMinTemperament int     `yaml:"chase_min_temperament"`
	ChaseBase           float64 `yaml:"chase_base"`
	ChaseAggression     float64 `yaml:"chase_aggression"`
	ChaseEnergy         float64 `yaml:"chase_energy"`
	ChaseSchooling      float64 `yaml:"chase_schooling"`
	ChaseFallback       float64 `yaml:"chase_fallback"`
}

// DefaultTuning returns the reference coefficients. defaults.yaml carries
// the same numbers; config_test keeps the two in sync.
func DefaultTuning() Tuning {
	return Tuning{
		Metrics: MetricsTuning{
			OxygenActivityBase:        0.6,
			OxygenActivityScale:       0.5,
			HabitatBase:               0.82,
			HabitatScale:              0.28,
			HostilityThreshold:        0.58,
			SocialHostilityThreshold:  0.62,
			SelfCrowdingWeight:        0.08,
			CrowdingPopulationOffset:  0.68,
			CrowdingPopulationScale:   1.06,
			CrowdingLoadOffset:        0.85,
			CrowdingLoadScale:         0.72,
			AggressionTemperament:     0.42,
			AggressionIncompatibility: 0.35,
			AggressionTerritory:       0.74,
			OxygenRatioOffset:         0.66,
			OxygenRatioSpan:           0.8,
			WaterLoadOffset:           0.55,
			WaterLoadScale:            0.64,
			WaterCrowding:             0.24,
			WaterIncompatibility:      0.18,
			HarmonyCrowding:           0.32,
			HarmonyAggression:         0.34,
			HarmonyIncompatibility:    0.34,
		},
		Rates: RatesTuning{
			WaterQuality: Rate{Rising: 0.12, Falling: 0.3},
			OxygenLevel:  Rate{Rising: 0.16, Falling: 0.34},
			Stress:       Rate{Rising: 0.48, Falling: 0.26},
			Health:       Rate{Rising: 0.035, Falling: 0.1},
		},
		Stress: StressTuning{
			Base:                0.08,
			Crowding:            0.28,
			OxygenDeficit:       0.3,
			WaterDeficit:        0.22,
			SocialPressure:      0.34,
			AggressionBase:      0.16,
			AggressionPerTemper: 0.08,
			SchoolingDeficit:    0.28,
		},
		Health: HealthTuning{
			Stress:        0.52,
			WaterDeficit:  0.28,
			OxygenDeficit: 0.24,
			Crowding:      0.16,
		},
		Metabolism: MetabolismTuning{
			Activity: ActivityFactors{
				Cruise:  0.62,
				School:  0.66,
				Inspect: 0.52,
				Hover:   0.22,
				Dart:    1.08,
				Rest:    0.12,
				Avoid:   0.88,
				Chase:   1.02,
			},
			SpeciesBase:       0.52,
			SpeciesScale:      0.68,
			RestRecovery:      0.3,
			HoverRecovery:     0.15,
			IdleRecovery:      0.02,
			ActivityDrain:     0.1,
			StressDrain:       0.05,
			HungerBase:        0.028,
			HungerPerActivity: 0.026,
		},
		Decision: DecisionTuning{
			MinSec:     0.9,
			SpanSec:    2.4,
			RestBonus:  1.2,
			HoverBonus: 0.5,
		},
		Weights: WeightsTuning{
			CruiseBase:           1.2,
			CruiseActivity:       0.9,
			CruiseStress:         0.4,
			SchoolBase:           0.8,
			SchoolPerTier:        0.26,
			SchoolFallback:       0.01,
			InspectBase:          0.24,
			InspectHunger:        0.66,
			InspectDisharmony:    0.2,
			HoverBase:            0.2,
			HoverFatigue:         0.8,
			HoverOxygenDeficit:   0.25,
			DartBase:             0.05,
			DartStress:           1.2,
			DartCrowding:         0.4,
			RestBase:             0.03,
			RestFatigue:          1.1,
			RestInjury:           0.45,
			AvoidBase:            0.08,
			AvoidSocialPressure:  0.94,
			AvoidIncompatibility: 0.4,
			ChaseMinTemperament:  2,
			ChaseBase:            0.04,
			ChaseAggression:      0.82,
			ChaseEnergy:          0.2,
			ChaseSchooling:       0.22,
			ChaseFallback:        0.01,
		},
	}
}

// Validate rejects coefficients that would break the step's arithmetic.
func (t *Tuning) Validate() error {
	m := &t.Metrics
	if m.HostilityThreshold <= 0 || m.SocialHostilityThreshold <= 0 {
		return fmt.Errorf("tuning: hostility thresholds must be positive")
	}
	if m.OxygenRatioSpan <= 0 {
		return fmt.Errorf("tuning: oxygen_ratio_span must be positive, got %v", m.OxygenRatioSpan)
	}
	for name, r := range map[string]Rate{
		"water_quality": t.Rates.WaterQuality,
		"oxygen_level":  t.Rates.OxygenLevel,
		"stress":        t.Rates.Stress,
		"health":        t.Rates.Health,
	} {
		if r.Rising < 0 || r.Falling < 0 {
			return fmt.Errorf("tuning: rate %s must be non-negative", name)
		}
	}
	if t.Decision.MinSec <= 0 || t.Decision.SpanSec < 0 {
		return fmt.Errorf("tuning: decision window must be positive")
	}
	return nil
}
