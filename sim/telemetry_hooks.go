package sim

import (
	"github.com/pthm-cable/shoal/telemetry"
)

// flushTelemetry checks if the stats window should be flushed and handles bookmarks.
func (s *Session) flushTelemetry() {
	if !s.collector.ShouldFlush() {
		return
	}

	stats := s.collector.Flush(s.state, s.lastFrozen)

	if s.statsCallback != nil {
		s.statsCallback(stats)
	}

	if s.logStats {
		stats.LogStats(s.logger)
	}

	if err := s.outputManager.WriteTelemetry(stats); err != nil {
		s.logger.Error("failed to write telemetry", "error", err)
	}

	if s.perfCollector != nil {
		perfStats := s.perfCollector.Stats()
		if s.logStats {
			perfStats.LogStats(s.logger)
		}
		if err := s.outputManager.WritePerf(perfStats, stats.WindowEndTick); err != nil {
			s.logger.Error("failed to write perf", "error", err)
		}
	}

	s.lastBookmark = s.bookmarkDetector.Check(stats)
	for i := range s.lastBookmark {
		bm := &s.lastBookmark[i]
		if s.logStats {
			bm.LogBookmark(s.logger)
		}

		if err := s.outputManager.WriteBookmark(*bm); err != nil {
			s.logger.Error("failed to write bookmark", "error", err)
		}

		if s.snapshotDir != "" {
			s.saveSnapshot(bm)
		}
	}
}

// saveSnapshot creates and saves a snapshot to disk.
func (s *Session) saveSnapshot(bookmark *telemetry.Bookmark) {
	path, err := telemetry.SaveSnapshot(s.Snapshot(bookmark), s.snapshotDir)
	if err != nil {
		s.logger.Error("failed to save snapshot", "error", err)
		return
	}
	s.logger.Info("snapshot saved", "path", path, "tick", s.state.Tick)
}
