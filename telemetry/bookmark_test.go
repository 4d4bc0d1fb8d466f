package telemetry

import (
	"testing"

	"github.com/pthm-cable/shoal/config"
)

func testBookmarksConfig() config.BookmarksConfig {
	return config.BookmarksConfig{
		HarmonyCrash: config.HarmonyCrashConfig{DropFraction: 0.25, MinPeak: 0.4},
		OxygenCrisis: config.CrisisConfig{Threshold: 0.45},
		WaterCrisis:  config.CrisisConfig{Threshold: 0.5},
		StableTank:   config.StableTankConfig{MinHarmony: 0.7, MaxStdDev: 0.02, Windows: 4},
	}
}

// healthy is a window with nothing remarkable in it.
func healthy(tick uint64, harmony float64) WindowStats {
	return WindowStats{
		WindowEndTick:   tick,
		Harmony:         harmony,
		HarmonyMean:     harmony,
		WaterQualityMin: 0.9,
		OxygenLevelMin:  0.9,
	}
}

func hasBookmark(bookmarks []Bookmark, kind BookmarkType) bool {
	for _, bm := range bookmarks {
		if bm.Type == kind {
			return true
		}
	}
	return false
}

func TestBookmarkDetector_HarmonyCrash(t *testing.T) {
	bd := NewBookmarkDetector(10, testBookmarksConfig())

	for i := 0; i < 3; i++ {
		if bms := bd.Check(healthy(uint64(i*600), 0.9)); hasBookmark(bms, BookmarkHarmonyCrash) {
			t.Fatalf("window %d: unexpected harmony_crash", i)
		}
	}

	// 0.9 -> 0.6 is a 33% drop
	bms := bd.Check(healthy(1800, 0.6))
	if !hasBookmark(bms, BookmarkHarmonyCrash) {
		t.Fatal("expected harmony_crash bookmark")
	}

	// Peak resets after the crash, so holding steady does not re-fire
	if bms := bd.Check(healthy(2400, 0.6)); hasBookmark(bms, BookmarkHarmonyCrash) {
		t.Error("harmony_crash fired twice for one drop")
	}
}

func TestBookmarkDetector_HarmonyCrashNeedsPeak(t *testing.T) {
	bd := NewBookmarkDetector(10, testBookmarksConfig())
	bd.Check(healthy(0, 0.3))
	if bms := bd.Check(healthy(600, 0.1)); hasBookmark(bms, BookmarkHarmonyCrash) {
		t.Error("a tank that never reached min_peak should not report a crash")
	}
}

func TestBookmarkDetector_OxygenCrisisEdgeTriggered(t *testing.T) {
	bd := NewBookmarkDetector(10, testBookmarksConfig())

	low := healthy(600, 0.8)
	low.OxygenLevelMin = 0.3

	if !hasBookmark(bd.Check(low), BookmarkOxygenCrisis) {
		t.Fatal("expected oxygen_crisis bookmark")
	}
	low.WindowEndTick = 1200
	if hasBookmark(bd.Check(low), BookmarkOxygenCrisis) {
		t.Error("oxygen_crisis should fire once per crisis")
	}

	bd.Check(healthy(1800, 0.8)) // recovered
	low.WindowEndTick = 2400
	if !hasBookmark(bd.Check(low), BookmarkOxygenCrisis) {
		t.Error("a new crisis after recovery should fire again")
	}
}

func TestBookmarkDetector_WaterCrisis(t *testing.T) {
	bd := NewBookmarkDetector(10, testBookmarksConfig())
	w := healthy(600, 0.8)
	w.WaterQualityMin = 0.49
	bms := bd.Check(w)
	if !hasBookmark(bms, BookmarkWaterCrisis) {
		t.Error("expected water_crisis bookmark")
	}
	if hasBookmark(bms, BookmarkOxygenCrisis) {
		t.Error("oxygen was fine")
	}
}

func TestBookmarkDetector_StableTank(t *testing.T) {
	bd := NewBookmarkDetector(10, testBookmarksConfig())

	fired := -1
	for i := 0; i < 8; i++ {
		h := 0.85
		if i%2 == 1 {
			h = 0.86
		}
		if hasBookmark(bd.Check(healthy(uint64(i*600), h)), BookmarkStableTank) {
			if fired >= 0 {
				t.Fatalf("stable_tank fired again at window %d", i)
			}
			fired = i
		}
	}
	if fired != 3 {
		t.Errorf("stable_tank fired at window %d, want 3", fired)
	}
}

func TestBookmarkDetector_UnstableTank(t *testing.T) {
	bd := NewBookmarkDetector(10, testBookmarksConfig())
	swings := []float64{0.95, 0.75, 0.95, 0.75, 0.95, 0.75}
	for i, h := range swings {
		if hasBookmark(bd.Check(healthy(uint64(i*600), h)), BookmarkStableTank) {
			t.Fatalf("window %d: swinging harmony reported stable", i)
		}
	}
}
