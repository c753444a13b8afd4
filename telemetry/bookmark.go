package telemetry

import (
	"fmt"
	"log/slog"
	"math"

	"gonum.org/v1/gonum/stat"
)

// BookmarkType identifies the type of bookmark.
type BookmarkType string

const (
	BookmarkBirthBoom         BookmarkType = "birth_boom"
	BookmarkCarnivoreRecovery BookmarkType = "carnivore_recovery"
	BookmarkHerbivoreCrash    BookmarkType = "herbivore_crash"
	BookmarkDietExtinct       BookmarkType = "diet_extinct"
	BookmarkStableEcosystem   BookmarkType = "stable_ecosystem"
)

// Consecutive stable windows before a stable_ecosystem bookmark fires.
const stableWindowsForBookmark = 5

// Bookmark represents an automatically triggered bookmark.
type Bookmark struct {
	Type        BookmarkType
	Tick        uint64
	Description string
}

// LogBookmark logs the bookmark using slog.
func (b Bookmark) LogBookmark() {
	slog.Info("bookmark",
		"type", string(b.Type),
		"tick", b.Tick,
		"description", b.Description,
	)
}

// BookmarkDetector detects interesting moments in the simulation.
type BookmarkDetector struct {
	// Rolling history (circular buffer)
	history     []WindowStats
	historySize int
	historyIdx  int
	historyFull bool

	recentCarnMin      int // minimum carnivore count since the last recovery
	recentHerbPeak     int // peak herbivore count since the last crash
	stableWindowsCount int // consecutive windows with stable populations
}

// NewBookmarkDetector creates a detector with the given history size.
func NewBookmarkDetector(historySize int) *BookmarkDetector {
	historySize = max(historySize, stableWindowsForBookmark)
	return &BookmarkDetector{
		history:       make([]WindowStats, historySize),
		historySize:   historySize,
		recentCarnMin: -1,
	}
}

// Check analyzes the latest stats and returns any triggered bookmarks.
func (bd *BookmarkDetector) Check(stats WindowStats) []Bookmark {
	var bookmarks []Bookmark

	if bd.historyFull || bd.historyIdx > 0 {
		for _, check := range []func(WindowStats) *Bookmark{
			bd.checkBirthBoom,
			bd.checkCarnivoreRecovery,
			bd.checkHerbivoreCrash,
			bd.checkDietExtinct,
			bd.checkStableEcosystem,
		} {
			if b := check(stats); b != nil {
				bookmarks = append(bookmarks, *b)
			}
		}
	}

	bd.addToHistory(stats)

	if bd.recentCarnMin < 0 || stats.Carnivores < bd.recentCarnMin {
		bd.recentCarnMin = stats.Carnivores
	}
	bd.recentHerbPeak = max(bd.recentHerbPeak, stats.Herbivores)

	return bookmarks
}

func (bd *BookmarkDetector) addToHistory(stats WindowStats) {
	bd.history[bd.historyIdx] = stats
	bd.historyIdx = (bd.historyIdx + 1) % bd.historySize
	if bd.historyIdx == 0 {
		bd.historyFull = true
	}
}

// getHistory returns the stored windows, oldest first.
func (bd *BookmarkDetector) getHistory() []WindowStats {
	if !bd.historyFull {
		return bd.history[:bd.historyIdx]
	}
	out := make([]WindowStats, 0, bd.historySize)
	out = append(out, bd.history[bd.historyIdx:]...)
	return append(out, bd.history[:bd.historyIdx]...)
}

func births(s WindowStats) int { return s.HerbBirths + s.CarnBirths }

func (bd *BookmarkDetector) checkBirthBoom(stats WindowStats) *Bookmark {
	history := bd.getHistory()
	if len(history) < 3 {
		return nil
	}

	var total int
	for _, h := range history {
		total += births(h)
	}
	avg := float64(total) / float64(len(history))
	current := births(stats)
	if current >= 3 && float64(current) > avg*2 {
		return &Bookmark{
			Type:        BookmarkBirthBoom,
			Tick:        stats.WindowEndTick,
			Description: fmt.Sprintf("%d births vs rolling average %.1f", current, avg),
		}
	}
	return nil
}

func (bd *BookmarkDetector) checkCarnivoreRecovery(stats WindowStats) *Bookmark {
	if bd.recentCarnMin < 1 || bd.recentCarnMin > 3 {
		return nil
	}

	if stats.Carnivores >= bd.recentCarnMin*3 && stats.Carnivores >= 6 {
		oldMin := bd.recentCarnMin
		bd.recentCarnMin = stats.Carnivores
		return &Bookmark{
			Type:        BookmarkCarnivoreRecovery,
			Tick:        stats.WindowEndTick,
			Description: fmt.Sprintf("Carnivores recovered from %d to %d", oldMin, stats.Carnivores),
		}
	}
	return nil
}

func (bd *BookmarkDetector) checkHerbivoreCrash(stats WindowStats) *Bookmark {
	if bd.recentHerbPeak == 0 {
		return nil
	}

	drop := 1 - float64(stats.Herbivores)/float64(bd.recentHerbPeak)
	if drop > 0.30 && stats.Herbivores < bd.recentHerbPeak-10 {
		oldPeak := bd.recentHerbPeak
		bd.recentHerbPeak = stats.Herbivores
		return &Bookmark{
			Type:        BookmarkHerbivoreCrash,
			Tick:        stats.WindowEndTick,
			Description: fmt.Sprintf("Herbivores crashed %.0f%% from peak %d to %d", drop*100, oldPeak, stats.Herbivores),
		}
	}
	return nil
}

func (bd *BookmarkDetector) checkDietExtinct(stats WindowStats) *Bookmark {
	history := bd.getHistory()
	prev := history[len(history)-1]

	var diet string
	switch {
	case prev.Herbivores > 0 && stats.Herbivores == 0:
		diet = "herbivores"
	case prev.Carnivores > 0 && stats.Carnivores == 0:
		diet = "carnivores"
	default:
		return nil
	}
	return &Bookmark{
		Type:        BookmarkDietExtinct,
		Tick:        stats.WindowEndTick,
		Description: fmt.Sprintf("Last %s died out", diet),
	}
}

func (bd *BookmarkDetector) checkStableEcosystem(stats WindowStats) *Bookmark {
	if stats.Herbivores < 10 || stats.Carnivores < 3 {
		bd.stableWindowsCount = 0
		return nil
	}

	history := bd.getHistory()
	if len(history) < 4 {
		return nil
	}

	recent := history[len(history)-4:]
	herbs := make([]float64, len(recent))
	carns := make([]float64, len(recent))
	for i, h := range recent {
		herbs[i] = float64(h.Herbivores)
		carns[i] = float64(h.Carnivores)
	}

	if cv(herbs) < 0.2 && cv(carns) < 0.2 {
		bd.stableWindowsCount++
	} else {
		bd.stableWindowsCount = 0
	}

	if bd.stableWindowsCount == stableWindowsForBookmark {
		return &Bookmark{
			Type:        BookmarkStableEcosystem,
			Tick:        stats.WindowEndTick,
			Description: fmt.Sprintf("Stable ecosystem with %d herbivores, %d carnivores over %d+ windows", stats.Herbivores, stats.Carnivores, stableWindowsForBookmark),
		}
	}
	return nil
}

// cv returns the coefficient of variation of values, or +Inf for a zero mean.
func cv(values []float64) float64 {
	mean, std := stat.MeanStdDev(values, nil)
	if mean == 0 {
		return math.Inf(1)
	}
	return std / mean
}
