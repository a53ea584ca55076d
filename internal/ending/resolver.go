// Package ending resolves terminal relationship states against the static
// ending table.
package ending

import (
	"time"

	"github.com/easeaico/project-luna/internal/types"
)

// Resolver matches accumulated state against ending definitions. Endings
// are read-only config; resolution is idempotent for unchanged state.
type Resolver struct {
	endings []types.EndingDefinition
}

// NewResolver returns a resolver over the loaded ending table. A nil or
// empty table resolves nothing, mirroring config-unavailable degradation.
func NewResolver(endings []types.EndingDefinition) *Resolver {
	return &Resolver{endings: endings}
}

// Resolve returns the highest-priority ending whose every present
// requirement is satisfied, or nil. Ties keep declaration order. The
// caller records first-time achievement via MarkAchieved.
func (r *Resolver) Resolve(s types.CharacterState, stats types.MemoryStats, now time.Time) *types.EndingResult {
	var best *types.EndingDefinition
	for i := range r.endings {
		e := &r.endings[i]
		if !satisfied(e, s, stats, now) {
			continue
		}
		if best == nil || e.Priority() > best.Priority() {
			best = e
		}
	}
	if best == nil {
		return nil
	}
	return &types.EndingResult{
		Ending:     *best,
		FirstTime:  !s.HasTriggered(endingKey(best.ID)),
		AchievedAt: now,
	}
}

// MarkAchieved records an ending id so later resolutions report it as a
// re-achievement. Returns the updated state.
func MarkAchieved(s types.CharacterState, endingID string) types.CharacterState {
	s.MarkTriggered(endingKey(endingID))
	return s
}

// endingKey namespaces ending ids inside the shared triggered-id set.
func endingKey(id string) string {
	return "ending:" + id
}

// satisfied checks every present requirement; absent fields always hold.
func satisfied(e *types.EndingDefinition, s types.CharacterState, stats types.MemoryStats, now time.Time) bool {
	if e.MinAffection != nil && s.Affection < *e.MinAffection {
		return false
	}
	if e.MaxAffection != nil && s.Affection > *e.MaxAffection {
		return false
	}
	if e.MinMessageCount != nil && s.MessageCount < *e.MinMessageCount {
		return false
	}
	for _, id := range e.RequiredEventIDs {
		if !s.HasTriggered(id) {
			return false
		}
	}
	if e.MinConsecutiveDays != nil && s.ConsecutivePlayDays < *e.MinConsecutiveDays {
		return false
	}
	if e.MaxElapsedDays != nil {
		elapsed := int(now.Sub(s.CreatedAt).Hours() / 24)
		if elapsed > *e.MaxElapsedDays {
			return false
		}
	}
	if e.MinPromisesKept != nil {
		kept := s.PromisesKept
		if stats.PromiseCount > kept {
			kept = stats.PromiseCount
		}
		if kept < *e.MinPromisesKept {
			return false
		}
	}
	return true
}
