// Package sim drives the pure step function for a long-running session and
// wires its output into telemetry.
package sim

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/pthm-cable/shoal/components"
	"github.com/pthm-cable/shoal/config"
	"github.com/pthm-cable/shoal/systems"
	"github.com/pthm-cable/shoal/telemetry"
)

// Options configures a session. Zero values fall back to the config.
type Options struct {
	Seed           *uint32 // nil = cfg.Simulation.Seed
	LogStats       bool    // log window stats and bookmarks
	StatsWindowSec float64 // 0 = cfg.Telemetry.StatsWindow
	SnapshotDir    string  // save a snapshot on every bookmark
	OutputDir      string  // CSV logs and config snapshot
	StepsPerUpdate int     // 0 = cfg.Simulation.StepsPerUpdate
	Perf           bool    // time each tick and write perf.csv

	// Initial resumes from a saved state instead of spawning from Seed.
	Initial *components.EcosystemState

	Logger        *slog.Logger
	StatsCallback func(telemetry.WindowStats)
}

// Session owns one ecosystem and is its only writer. It is not safe for
// concurrent use.
type Session struct {
	cfg    *config.Config
	tuning *config.Tuning
	state  components.EcosystemState
	seed   uint32

	stepsPerUpdate int
	logger         *slog.Logger

	// Telemetry
	collector        *telemetry.Collector
	bookmarkDetector *telemetry.BookmarkDetector
	lifetimeTracker  *telemetry.LifetimeTracker
	perfCollector    *telemetry.PerfCollector
	outputManager    *telemetry.OutputManager
	logStats         bool
	snapshotDir      string
	statsCallback    func(telemetry.WindowStats)

	frozen       map[string]struct{} // fish already warned about
	lastFrozen   int
	lastBookmark []telemetry.Bookmark
}

// New creates a session from cfg. cfg must come from config.Load (its
// derived species index is required).
func New(cfg *config.Config, opts Options) (*Session, error) {
	if cfg == nil || cfg.Derived.Index == nil {
		return nil, errors.New("sim: config has no species index; load it with config.Load")
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	seed := cfg.Simulation.Seed
	if opts.Seed != nil {
		seed = *opts.Seed
	}
	stepsPerUpdate := opts.StepsPerUpdate
	if stepsPerUpdate < 1 {
		stepsPerUpdate = max(1, cfg.Simulation.StepsPerUpdate)
	}
	statsWindow := opts.StatsWindowSec
	if statsWindow <= 0 {
		statsWindow = cfg.Telemetry.StatsWindow
	}

	var state components.EcosystemState
	if opts.Initial != nil {
		if err := opts.Initial.Validate(); err != nil {
			return nil, fmt.Errorf("sim: initial state: %w", err)
		}
		state = opts.Initial.Clone()
	} else {
		state = systems.Spawn(seed, cfg.Population, cfg.Derived.Index)
	}

	om, err := telemetry.NewOutputManager(opts.OutputDir)
	if err != nil {
		return nil, fmt.Errorf("sim: %w", err)
	}
	if err := om.WriteConfig(cfg); err != nil {
		om.Close()
		return nil, fmt.Errorf("sim: %w", err)
	}

	s := &Session{
		cfg:              cfg,
		tuning:           &cfg.Tuning,
		state:            state,
		seed:             seed,
		stepsPerUpdate:   stepsPerUpdate,
		logger:           logger,
		collector:        telemetry.NewCollector(statsWindow, state.Tick),
		bookmarkDetector: telemetry.NewBookmarkDetector(cfg.Telemetry.BookmarkHistorySize, cfg.Bookmarks),
		lifetimeTracker:  telemetry.NewLifetimeTracker(),
		outputManager:    om,
		logStats:         opts.LogStats,
		snapshotDir:      opts.SnapshotDir,
		statsCallback:    opts.StatsCallback,
		frozen:           make(map[string]struct{}),
	}
	if opts.Perf {
		s.perfCollector = telemetry.NewPerfCollector(600)
	}
	return s, nil
}

// Update advances the session by StepsPerUpdate steps of dt seconds each.
func (s *Session) Update(dt float64) {
	for i := 0; i < s.stepsPerUpdate; i++ {
		s.Step(dt)
	}
}

// Step advances the session by one step of dt seconds and returns what the
// step reported.
func (s *Session) Step(dt float64) systems.StepReport {
	if s.perfCollector != nil {
		s.perfCollector.StartTick()
		s.perfCollector.StartPhase(telemetry.PhaseStep)
	}

	next, report := systems.StepWithReport(systems.StepInput{
		State:         s.state,
		Species:       s.cfg.Derived.Index,
		Compatibility: s.cfg.Derived.Lookup,
		Tank:          s.cfg.Tank,
		Tuning:        s.tuning,
		DtSec:         dt,
	})
	s.state = next

	if s.perfCollector != nil {
		s.perfCollector.StartPhase(telemetry.PhaseTelemetry)
	}
	if report.Skipped {
		s.logger.Warn("step skipped", "dt", dt, "tick", s.state.Tick)
	} else {
		s.warnFrozen(report.Frozen)
		s.collector.RecordStep(dt, report, s.state.Tank)
		s.lifetimeTracker.Observe(s.state, dt)
	}

	if s.perfCollector != nil {
		s.perfCollector.StartPhase(telemetry.PhaseOutput)
	}
	s.flushTelemetry()

	if s.perfCollector != nil {
		s.perfCollector.EndTick()
	}
	return report
}

// warnFrozen logs each fish once the first time its species lookup misses.
func (s *Session) warnFrozen(ids []string) {
	s.lastFrozen = len(ids)
	for _, id := range ids {
		if _, seen := s.frozen[id]; seen {
			continue
		}
		s.frozen[id] = struct{}{}
		species := ""
		for i := range s.state.Fish {
			if s.state.Fish[i].ID == id {
				species = s.state.Fish[i].SpeciesID
				break
			}
		}
		s.logger.Warn("fish frozen: unknown species",
			"fish", id,
			"species", species,
			"tick", s.state.Tick,
		)
	}
}

// State returns a copy of the current ecosystem.
func (s *Session) State() components.EcosystemState {
	return s.state.Clone()
}

// Tick returns the current tick.
func (s *Session) Tick() uint64 {
	return s.state.Tick
}

// Seed returns the seed the session was spawned from.
func (s *Session) Seed() uint32 {
	return s.seed
}

// Bookmarks returns the bookmarks raised by the most recent window flush.
func (s *Session) Bookmarks() []telemetry.Bookmark {
	return s.lastBookmark
}

// Lifetimes returns per-fish lifetime stats gathered so far.
func (s *Session) Lifetimes() []*telemetry.LifetimeStats {
	return s.lifetimeTracker.All()
}

// Snapshot captures the current state for saving.
func (s *Session) Snapshot(b *telemetry.Bookmark) *telemetry.Snapshot {
	return telemetry.NewSnapshot(s.seed, s.cfg.Tank, s.state, b)
}

// Close writes the per-fish summary and closes output files.
func (s *Session) Close() error {
	if s.outputManager == nil {
		return nil
	}
	err := s.outputManager.WriteFish(s.lifetimeTracker.FishRecords(s.state))
	return errors.Join(err, s.outputManager.Close())
}
