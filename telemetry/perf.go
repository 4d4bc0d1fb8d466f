package telemetry

import (
	"log/slog"
	"slices"
	"time"

	"gonum.org/v1/gonum/stat"
)

// Phase is one timed section of a session step.
type Phase uint8

const (
	PhaseStep Phase = iota
	PhaseTelemetry
	PhaseOutput
	numPhases
)

func (p Phase) String() string {
	switch p {
	case PhaseStep:
		return "step"
	case PhaseTelemetry:
		return "telemetry"
	case PhaseOutput:
		return "output"
	}
	return "unknown"
}

type tickTiming struct {
	total  time.Duration
	phases [numPhases]time.Duration
}

// PerfCollector keeps wall-clock timings for the last N ticks. Timing is
// observational only and never reaches the simulation state.
type PerfCollector struct {
	ring   []tickTiming
	next   int
	filled int

	cur        tickTiming
	tickStart  time.Time
	phaseStart time.Time
	active     Phase
	inPhase    bool
}

// NewPerfCollector keeps the last ticks timings (60 when ticks < 1).
func NewPerfCollector(ticks int) *PerfCollector {
	if ticks < 1 {
		ticks = 60
	}
	return &PerfCollector{ring: make([]tickTiming, ticks)}
}

// StartTick begins timing a tick.
func (p *PerfCollector) StartTick() {
	p.tickStart = time.Now()
	p.cur = tickTiming{}
	p.inPhase = false
}

// StartPhase closes the running phase, if any, and opens phase.
func (p *PerfCollector) StartPhase(phase Phase) {
	now := time.Now()
	p.closePhase(now)
	p.active, p.phaseStart, p.inPhase = phase, now, true
}

func (p *PerfCollector) closePhase(now time.Time) {
	if p.inPhase && p.active < numPhases {
		p.cur.phases[p.active] += now.Sub(p.phaseStart)
	}
	p.inPhase = false
}

// EndTick closes the tick and stores it in the ring.
func (p *PerfCollector) EndTick() {
	now := time.Now()
	p.closePhase(now)
	p.cur.total = now.Sub(p.tickStart)

	p.ring[p.next] = p.cur
	p.next = (p.next + 1) % len(p.ring)
	p.filled = min(p.filled+1, len(p.ring))
}

// PerfStats summarizes the ticks currently held by a PerfCollector.
type PerfStats struct {
	Ticks int

	AvgTickDuration time.Duration
	MinTickDuration time.Duration
	MaxTickDuration time.Duration
	P90TickDuration time.Duration
	TicksPerSecond  float64

	// PhasePct is each phase's share of total tick time, in percent.
	PhasePct [numPhases]float64
}

// Stats summarizes the ticks in the ring.
func (p *PerfCollector) Stats() PerfStats {
	if p.filled == 0 {
		return PerfStats{}
	}

	us := make([]float64, p.filled)
	var phaseSum [numPhases]time.Duration
	var total time.Duration
	for i, t := range p.ring[:p.filled] {
		us[i] = float64(t.total.Microseconds())
		total += t.total
		for ph, d := range t.phases {
			phaseSum[ph] += d
		}
	}
	slices.Sort(us)

	s := PerfStats{
		Ticks:           p.filled,
		AvgTickDuration: total / time.Duration(p.filled),
		MinTickDuration: microseconds(us[0]),
		MaxTickDuration: microseconds(us[len(us)-1]),
		P90TickDuration: microseconds(Percentile(us, 0.9)),
	}
	if mean := stat.Mean(us, nil); mean > 0 {
		s.TicksPerSecond = 1e6 / mean
	}
	if total > 0 {
		for ph := range phaseSum {
			s.PhasePct[ph] = float64(phaseSum[ph]) / float64(total) * 100
		}
	}
	return s
}

func microseconds(v float64) time.Duration {
	return time.Duration(v) * time.Microsecond
}

// LogStats logs the summary through logger.
func (s PerfStats) LogStats(logger *slog.Logger) {
	if logger == nil {
		logger = slog.Default()
	}
	logger.Info("perf", "perf", s)
}

// LogValue implements slog.LogValuer for structured logging.
func (s PerfStats) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.Int("ticks", s.Ticks),
		slog.Int64("avg_tick_us", s.AvgTickDuration.Microseconds()),
		slog.Int64("p90_tick_us", s.P90TickDuration.Microseconds()),
		slog.Int64("max_tick_us", s.MaxTickDuration.Microseconds()),
		slog.Int("ticks_per_sec", int(s.TicksPerSecond)),
	}
	for ph := Phase(0); ph < numPhases; ph++ {
		attrs = append(attrs, slog.Float64(ph.String()+"_pct", float64(int(s.PhasePct[ph]*10))/10))
	}
	return slog.GroupValue(attrs...)
}

// PerfRecord is one row of perf.csv.
type PerfRecord struct {
	WindowEnd    uint64  `csv:"window_end"`
	Ticks        int     `csv:"ticks"`
	AvgTickUS    int64   `csv:"avg_tick_us"`
	MinTickUS    int64   `csv:"min_tick_us"`
	P90TickUS    int64   `csv:"p90_tick_us"`
	MaxTickUS    int64   `csv:"max_tick_us"`
	TicksPerSec  float64 `csv:"ticks_per_sec"`
	StepPct      float64 `csv:"step_pct"`
	TelemetryPct float64 `csv:"telemetry_pct"`
	OutputPct    float64 `csv:"output_pct"`
}

// Record flattens s into a perf.csv row for the window ending at windowEnd.
func (s PerfStats) Record(windowEnd uint64) PerfRecord {
	return PerfRecord{
		WindowEnd:    windowEnd,
		Ticks:        s.Ticks,
		AvgTickUS:    s.AvgTickDuration.Microseconds(),
		MinTickUS:    s.MinTickDuration.Microseconds(),
		P90TickUS:    s.P90TickDuration.Microseconds(),
		MaxTickUS:    s.MaxTickDuration.Microseconds(),
		TicksPerSec:  s.TicksPerSecond,
		StepPct:      s.PhasePct[PhaseStep],
		TelemetryPct: s.PhasePct[PhaseTelemetry],
		OutputPct:    s.PhasePct[PhaseOutput],
	}
}
