package telemetry

import (
	"testing"
)

func hasBookmark(bookmarks []Bookmark, typ BookmarkType) bool {
	for _, bm := range bookmarks {
		if bm.Type == typ {
			return true
		}
	}
	return false
}

func TestBookmarkDetector_FirstWindowIsQuiet(t *testing.T) {
	bd := NewBookmarkDetector(10)
	if bms := bd.Check(WindowStats{WindowEndTick: 600, Herbivores: 40, Carnivores: 10, HerbBirths: 50}); len(bms) != 0 {
		t.Errorf("first window triggered %v", bms)
	}
}

func TestBookmarkDetector_BirthBoom(t *testing.T) {
	bd := NewBookmarkDetector(10)

	for i := 0; i < 5; i++ {
		bd.Check(WindowStats{WindowEndTick: uint64(i * 600), Herbivores: 40, HerbBirths: 1})
	}

	bookmarks := bd.Check(WindowStats{WindowEndTick: 3000, Herbivores: 40, HerbBirths: 3, CarnBirths: 2})
	if !hasBookmark(bookmarks, BookmarkBirthBoom) {
		t.Error("expected birth_boom bookmark")
	}
}

func TestBookmarkDetector_HerbivoreCrash(t *testing.T) {
	bd := NewBookmarkDetector(10)

	for i := 0; i < 5; i++ {
		bd.Check(WindowStats{WindowEndTick: uint64(i * 600), Herbivores: 100, Carnivores: 10})
	}

	bookmarks := bd.Check(WindowStats{WindowEndTick: 3000, Herbivores: 50, Carnivores: 10})
	if !hasBookmark(bookmarks, BookmarkHerbivoreCrash) {
		t.Error("expected herbivore_crash bookmark")
	}

	// The peak resets after a crash.
	if bms := bd.Check(WindowStats{WindowEndTick: 3600, Herbivores: 45, Carnivores: 10}); hasBookmark(bms, BookmarkHerbivoreCrash) {
		t.Error("crash bookmark repeated without a new peak")
	}
}

func TestBookmarkDetector_CarnivoreRecovery(t *testing.T) {
	bd := NewBookmarkDetector(10)

	for i := 0; i < 3; i++ {
		bd.Check(WindowStats{WindowEndTick: uint64(i * 600), Herbivores: 100, Carnivores: 2})
	}

	bookmarks := bd.Check(WindowStats{WindowEndTick: 2400, Herbivores: 100, Carnivores: 10})
	if !hasBookmark(bookmarks, BookmarkCarnivoreRecovery) {
		t.Error("expected carnivore_recovery bookmark")
	}
}

func TestBookmarkDetector_DietExtinct(t *testing.T) {
	bd := NewBookmarkDetector(10)

	bd.Check(WindowStats{WindowEndTick: 600, Herbivores: 20, Carnivores: 5})
	bookmarks := bd.Check(WindowStats{WindowEndTick: 1200, Herbivores: 20, Carnivores: 0})
	if !hasBookmark(bookmarks, BookmarkDietExtinct) {
		t.Fatal("expected diet_extinct bookmark")
	}

	if bms := bd.Check(WindowStats{WindowEndTick: 1800, Herbivores: 20, Carnivores: 0}); hasBookmark(bms, BookmarkDietExtinct) {
		t.Error("extinction reported twice")
	}
}

func TestBookmarkDetector_StableEcosystem(t *testing.T) {
	bd := NewBookmarkDetector(10)

	var fired []int
	for i := 0; i < 12; i++ {
		bookmarks := bd.Check(WindowStats{WindowEndTick: uint64(i * 600), Herbivores: 100, Carnivores: 20})
		if hasBookmark(bookmarks, BookmarkStableEcosystem) {
			fired = append(fired, i)
		}
	}

	// Stability is measured from the fifth window on and fires once after
	// five stable windows.
	if len(fired) != 1 || fired[0] != 8 {
		t.Errorf("stable_ecosystem fired at %v, want [8]", fired)
	}
}

func TestBookmarkDetector_HistoryOrder(t *testing.T) {
	bd := NewBookmarkDetector(5)
	for i := 1; i <= 7; i++ {
		bd.Check(WindowStats{WindowEndTick: uint64(i)})
	}
	history := bd.getHistory()
	for i, h := range history {
		if want := uint64(i + 3); h.WindowEndTick != want {
			t.Errorf("history[%d] = %d, want %d", i, h.WindowEndTick, want)
		}
	}
}
