package telemetry

import (
	"fmt"
	"log/slog"

	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/shoal/config"
)

// BookmarkType identifies the type of bookmark.
type BookmarkType string

const (
	BookmarkHarmonyCrash BookmarkType = "harmony_crash"
	BookmarkOxygenCrisis BookmarkType = "oxygen_crisis"
	BookmarkWaterCrisis  BookmarkType = "water_crisis"
	BookmarkStableTank   BookmarkType = "stable_tank"
)

// Bookmark represents an automatically triggered bookmark.
type Bookmark struct {
	Type        BookmarkType `csv:"type" json:"type"`
	Tick        uint64       `csv:"tick" json:"tick"`
	SimTimeSec  float64      `csv:"sim_time" json:"sim_time"`
	Description string       `csv:"description" json:"description"`
}

// LogBookmark logs the bookmark through logger.
func (b Bookmark) LogBookmark(logger *slog.Logger) {
	if logger == nil {
		logger = slog.Default()
	}
	logger.Info("bookmark",
		"type", string(b.Type),
		"tick", b.Tick,
		"sim_time", b.SimTimeSec,
		"description", b.Description,
	)
}

// BookmarkDetector detects interesting moments in the simulation.
type BookmarkDetector struct {
	cfg config.BookmarksConfig

	// Rolling history (circular buffer)
	history     []WindowStats
	historySize int
	historyIdx  int
	historyFull bool

	// State tracking
	harmonyPeak        float64 // highest harmony since the last crash
	inOxygenCrisis     bool
	inWaterCrisis      bool
	stableWindowsCount int // consecutive calm windows
}

// NewBookmarkDetector creates a detector with the given history size.
func NewBookmarkDetector(historySize int, cfg config.BookmarksConfig) *BookmarkDetector {
	if cfg.StableTank.Windows < 2 {
		cfg.StableTank.Windows = 2
	}
	if historySize < cfg.StableTank.Windows {
		historySize = cfg.StableTank.Windows // stable detection looks this far back
	}
	return &BookmarkDetector{
		cfg:         cfg,
		history:     make([]WindowStats, historySize),
		historySize: historySize,
	}
}

// Check analyzes the latest stats and returns any triggered bookmarks.
func (bd *BookmarkDetector) Check(stats WindowStats) []Bookmark {
	var bookmarks []Bookmark

	// Harmony crash: dropped by drop_fraction from recent peak
	if b := bd.checkHarmonyCrash(stats); b != nil {
		bookmarks = append(bookmarks, *b)
	}

	// Oxygen and water crises: edge-triggered on the window minimum
	if b := bd.checkCrisis(stats, BookmarkOxygenCrisis, "oxygen", stats.OxygenLevelMin,
		bd.cfg.OxygenCrisis.Threshold, &bd.inOxygenCrisis); b != nil {
		bookmarks = append(bookmarks, *b)
	}
	if b := bd.checkCrisis(stats, BookmarkWaterCrisis, "water quality", stats.WaterQualityMin,
		bd.cfg.WaterCrisis.Threshold, &bd.inWaterCrisis); b != nil {
		bookmarks = append(bookmarks, *b)
	}

	// Stable tank: high, steady harmony over several windows
	if b := bd.checkStableTank(stats); b != nil {
		bookmarks = append(bookmarks, *b)
	}

	bd.addToHistory(stats)
	bd.harmonyPeak = max(bd.harmonyPeak, stats.Harmony)

	return bookmarks
}

func (bd *BookmarkDetector) addToHistory(stats WindowStats) {
	bd.history[bd.historyIdx] = stats
	bd.historyIdx = (bd.historyIdx + 1) % bd.historySize
	if bd.historyIdx == 0 {
		bd.historyFull = true
	}
}

// recent returns up to n of the newest history entries, oldest first.
func (bd *BookmarkDetector) recent(n int) []WindowStats {
	size := bd.historyIdx
	if bd.historyFull {
		size = bd.historySize
	}
	n = min(n, size)
	out := make([]WindowStats, 0, n)
	for i := n; i > 0; i-- {
		idx := (bd.historyIdx - i + bd.historySize) % bd.historySize
		out = append(out, bd.history[idx])
	}
	return out
}

func (bd *BookmarkDetector) checkHarmonyCrash(stats WindowStats) *Bookmark {
	c := bd.cfg.HarmonyCrash
	peak := bd.harmonyPeak
	if peak < c.MinPeak || peak == 0 {
		return nil
	}

	drop := 1 - stats.Harmony/peak
	if drop < c.DropFraction {
		return nil
	}

	// Reset peak after crash
	bd.harmonyPeak = stats.Harmony
	return &Bookmark{
		Type:        BookmarkHarmonyCrash,
		Tick:        stats.WindowEndTick,
		SimTimeSec:  stats.SimTimeSec,
		Description: fmt.Sprintf("Harmony fell %.0f%% from peak %.2f to %.2f", drop*100, peak, stats.Harmony),
	}
}

func (bd *BookmarkDetector) checkCrisis(
	stats WindowStats,
	kind BookmarkType,
	what string,
	value, threshold float64,
	active *bool,
) *Bookmark {
	if value >= threshold {
		*active = false
		return nil
	}
	if *active {
		return nil
	}
	*active = true
	return &Bookmark{
		Type:        kind,
		Tick:        stats.WindowEndTick,
		SimTimeSec:  stats.SimTimeSec,
		Description: fmt.Sprintf("%s fell to %.2f (threshold %.2f)", what, value, threshold),
	}
}

func (bd *BookmarkDetector) checkStableTank(stats WindowStats) *Bookmark {
	c := bd.cfg.StableTank
	if stats.HarmonyMean < c.MinHarmony || stats.FrozenCount > 0 {
		bd.stableWindowsCount = 0
		return nil
	}

	window := bd.recent(c.Windows - 1)
	means := make([]float64, 0, len(window)+1)
	for _, h := range window {
		means = append(means, h.HarmonyMean)
	}
	means = append(means, stats.HarmonyMean)

	if len(means) > 1 && stat.StdDev(means, nil) > c.MaxStdDev {
		bd.stableWindowsCount = 0
		return nil
	}
	bd.stableWindowsCount++

	if bd.stableWindowsCount == c.Windows { // trigger once per calm stretch
		return &Bookmark{
			Type:        BookmarkStableTank,
			Tick:        stats.WindowEndTick,
			SimTimeSec:  stats.SimTimeSec,
			Description: fmt.Sprintf("Harmony held near %.2f over %d windows", stats.HarmonyMean, c.Windows),
		}
	}
	return nil
}
