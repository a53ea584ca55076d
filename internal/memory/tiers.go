package memory

import (
	"github.com/easeaico/project-luna/internal/types"
)

const (
	workingCapacity   = 20
	shortTermCapacity = 100
	categoryCapacity  = 50
)

// Tiers holds the three capacity-bounded memory stores for one character.
// Records enter working memory; overflow demotes the oldest record to
// long-term (importance >= 70), short-term (>= 40), or drops it.
type Tiers struct {
	working   []types.MemoryRecord
	shortTerm []types.MemoryRecord
	longTerm  map[types.MemoryCategory][]types.MemoryRecord

	// persisted holds long-term counts recovered from storage at startup.
	// Stats reports them on top of this process's in-memory records.
	persisted map[types.MemoryCategory]int
}

// NewTiers returns empty memory tiers.
func NewTiers() *Tiers {
	return &Tiers{longTerm: make(map[types.MemoryCategory][]types.MemoryRecord)}
}

// Add files a record into working memory, demoting the oldest entry if
// capacity is exceeded. It returns the demoted record when one moved to a
// persistent tier, for the caller to persist externally.
func (t *Tiers) Add(record types.MemoryRecord) *types.MemoryRecord {
	t.working = append(t.working, record)
	if len(t.working) <= workingCapacity {
		return nil
	}

	oldest := t.working[0]
	t.working = t.working[1:]

	switch {
	case oldest.Importance >= LongTermThreshold:
		oldest.Category = Categorize(oldest.Content)
		t.fileLongTerm(oldest)
		return &oldest
	case oldest.Importance >= ShortTermThreshold:
		t.shortTerm = append(t.shortTerm, oldest)
		if len(t.shortTerm) > shortTermCapacity {
			t.shortTerm = t.shortTerm[1:]
		}
		return &oldest
	default:
		return nil
	}
}

func (t *Tiers) fileLongTerm(record types.MemoryRecord) {
	entries := append(t.longTerm[record.Category], record)
	if len(entries) > categoryCapacity {
		entries = entries[1:]
	}
	t.longTerm[record.Category] = entries
}

// Working returns the working-memory window, oldest first.
func (t *Tiers) Working() []types.MemoryRecord {
	return t.working
}

// ShortTerm returns the short-term store, oldest first.
func (t *Tiers) ShortTerm() []types.MemoryRecord {
	return t.shortTerm
}

// LongTerm returns one long-term partition, oldest first.
func (t *Tiers) LongTerm(category types.MemoryCategory) []types.MemoryRecord {
	return t.longTerm[category]
}

// SeedLongTermCounts records counts recovered from persistent storage.
func (t *Tiers) SeedLongTermCounts(counts map[types.MemoryCategory]int) {
	t.persisted = counts
}

// Stats summarizes the tiers for the ending resolver.
func (t *Tiers) Stats() types.MemoryStats {
	counts := make(map[types.MemoryCategory]int, len(t.longTerm))
	for category, n := range t.persisted {
		counts[category] = n
	}
	for category, entries := range t.longTerm {
		counts[category] += len(entries)
	}
	return types.MemoryStats{
		WorkingCount:   len(t.working),
		ShortTermCount: len(t.shortTerm),
		LongTermCounts: counts,
		PromiseCount:   counts[types.CategoryPromises],
	}
}
