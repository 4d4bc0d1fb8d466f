package telemetry

import (
	"github.com/pthm-cable/shoal/components"
)

// LifetimeStats tracks one fish over the whole session.
type LifetimeStats struct {
	ID        string
	SpeciesID string
	FirstTick uint64

	// Extremes
	PeakStress float64
	MinHealth  float64
	MinEnergy  float64
	PeakHunger float64

	// Simulated seconds spent in each behavior
	BehaviorSec [components.NumBehaviors]float64

	// Behavior changes observed between consecutive samples
	Switches int

	last components.Behavior
}

// Dominant returns the behavior the fish spent the most time in.
// Ties go to the earlier behavior in enumeration order.
func (ls *LifetimeStats) Dominant() components.Behavior {
	best := components.BehaviorCruise
	for b, sec := range ls.BehaviorSec {
		if sec > ls.BehaviorSec[best] {
			best = components.Behavior(b)
		}
	}
	return best
}

// LifetimeTracker manages per-fish lifetime statistics.
type LifetimeTracker struct {
	stats map[string]*LifetimeStats
	order []string // first-seen order, for stable output
}

// NewLifetimeTracker creates a new lifetime tracker.
func NewLifetimeTracker() *LifetimeTracker {
	return &LifetimeTracker{
		stats: make(map[string]*LifetimeStats),
	}
}

// Observe samples every fish in state after a step of dt seconds.
func (lt *LifetimeTracker) Observe(state components.EcosystemState, dt float64) {
	for i := range state.Fish {
		f := &state.Fish[i]
		s := lt.stats[f.ID]
		if s == nil {
			s = &LifetimeStats{
				ID:         f.ID,
				SpeciesID:  f.SpeciesID,
				FirstTick:  state.Tick,
				PeakStress: f.Stress,
				MinHealth:  f.Health,
				MinEnergy:  f.Energy,
				PeakHunger: f.Hunger,
				last:       f.Behavior,
			}
			lt.stats[f.ID] = s
			lt.order = append(lt.order, f.ID)
		}

		s.PeakStress = max(s.PeakStress, f.Stress)
		s.MinHealth = min(s.MinHealth, f.Health)
		s.MinEnergy = min(s.MinEnergy, f.Energy)
		s.PeakHunger = max(s.PeakHunger, f.Hunger)
		if f.Behavior.Valid() && dt > 0 {
			s.BehaviorSec[f.Behavior] += dt
		}
		if f.Behavior != s.last {
			s.Switches++
			s.last = f.Behavior
		}
	}
}

// Get returns the lifetime stats for a fish, or nil if not found.
func (lt *LifetimeTracker) Get(id string) *LifetimeStats {
	return lt.stats[id]
}

// All returns tracked stats in first-seen order.
func (lt *LifetimeTracker) All() []*LifetimeStats {
	out := make([]*LifetimeStats, 0, len(lt.order))
	for _, id := range lt.order {
		out = append(out, lt.stats[id])
	}
	return out
}

// FishRecord is the flat fish.csv row for one fish.
type FishRecord struct {
	ID         string  `csv:"id"`
	SpeciesID  string  `csv:"species"`
	AgeDays    float64 `csv:"age_days"`
	Behavior   string  `csv:"behavior"`
	Energy     float64 `csv:"energy"`
	Stress     float64 `csv:"stress"`
	Health     float64 `csv:"health"`
	Hunger     float64 `csv:"hunger"`
	PeakStress float64 `csv:"peak_stress"`
	MinHealth  float64 `csv:"min_health"`
	MinEnergy  float64 `csv:"min_energy"`
	PeakHunger float64 `csv:"peak_hunger"`
	Dominant   string  `csv:"dominant_behavior"`
	Switches   int     `csv:"behavior_switches"`
}

// FishRecords joins the final state with lifetime stats, in state order.
// Fish the tracker never observed get their current values as extremes.
func (lt *LifetimeTracker) FishRecords(state components.EcosystemState) []FishRecord {
	out := make([]FishRecord, 0, len(state.Fish))
	for i := range state.Fish {
		f := &state.Fish[i]
		r := FishRecord{
			ID:         f.ID,
			SpeciesID:  f.SpeciesID,
			AgeDays:    f.AgeDays,
			Behavior:   f.Behavior.String(),
			Energy:     f.Energy,
			Stress:     f.Stress,
			Health:     f.Health,
			Hunger:     f.Hunger,
			PeakStress: f.Stress,
			MinHealth:  f.Health,
			MinEnergy:  f.Energy,
			PeakHunger: f.Hunger,
			Dominant:   f.Behavior.String(),
		}
		if s := lt.stats[f.ID]; s != nil {
			r.PeakStress = s.PeakStress
			r.MinHealth = s.MinHealth
			r.MinEnergy = s.MinEnergy
			r.PeakHunger = s.PeakHunger
			r.Dominant = s.Dominant().String()
			r.Switches = s.Switches
		}
		out = append(out, r)
	}
	return out
}
