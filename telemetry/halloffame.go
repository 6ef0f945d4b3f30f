package telemetry

import (
	"log/slog"
	"sort"

	"github.com/pthm-cable/serpent/neural"
)

// HallEntry is a high-scoring individual kept across generations.
type HallEntry struct {
	Generation int
	Index      int // position within its generation
	Fitness    float64
	Food       int
	Steps      int
	Network    *neural.Network // private clone, safe to run
}

// HallOfFame keeps the best individuals seen during a run, best first.
// Entries live in memory only.
type HallOfFame struct {
	entries []HallEntry
	maxSize int
}

// NewHallOfFame creates a hall holding at most maxSize entries.
func NewHallOfFame(maxSize int) *HallOfFame {
	if maxSize < 1 {
		maxSize = 1
	}
	return &HallOfFame{
		entries: make([]HallEntry, 0, maxSize),
		maxSize: maxSize,
	}
}

// Consider adds the entry if it beats the weakest member or the hall has
// room. The network is cloned on entry. Returns true if the entry was added.
func (hof *HallOfFame) Consider(e HallEntry) bool {
	if len(hof.entries) >= hof.maxSize && e.Fitness <= hof.entries[len(hof.entries)-1].Fitness {
		return false
	}
	if e.Network != nil {
		e.Network = e.Network.Clone()
	}

	// Insert after any entries with equal fitness so earlier ones rank first.
	pos := sort.Search(len(hof.entries), func(i int) bool {
		return hof.entries[i].Fitness < e.Fitness
	})
	hof.entries = append(hof.entries, HallEntry{})
	copy(hof.entries[pos+1:], hof.entries[pos:])
	hof.entries[pos] = e

	if len(hof.entries) > hof.maxSize {
		hof.entries = hof.entries[:hof.maxSize]
	}

	if pos == 0 {
		slog.Debug("new hall of fame leader",
			"generation", e.Generation,
			"index", e.Index,
			"fitness", e.Fitness,
			"food", e.Food,
		)
	}
	return true
}

// Best returns the top entry, if any.
func (hof *HallOfFame) Best() (HallEntry, bool) {
	if len(hof.entries) == 0 {
		return HallEntry{}, false
	}
	return hof.entries[0], true
}

// Entries returns the entries, best first.
func (hof *HallOfFame) Entries() []HallEntry {
	return append([]HallEntry(nil), hof.entries...)
}

// Len returns the number of entries.
func (hof *HallOfFame) Len() int {
	return len(hof.entries)
}
