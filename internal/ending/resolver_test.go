package ending

import (
	"testing"
	"time"

	"github.com/easeaico/project-luna/internal/types"
)

var testNow = time.Date(2026, 3, 14, 15, 0, 0, 0, time.UTC)

func intp(v int) *int { return &v }

func baseState(affection int) types.CharacterState {
	return types.CharacterState{
		CharacterID:       "yuna",
		Affection:         affection,
		MessageCount:      200,
		TriggeredEventIDs: map[string]bool{},
		CreatedAt:         testNow.AddDate(0, 0, -30),
	}
}

func TestHiddenEndingOutranksHigherLevelSpecialless(t *testing.T) {
	endings := []types.EndingDefinition{
		{ID: "happy_end", Level: 3, MinAffection: intp(40)},
		{ID: "secret_end", Level: 2, Hidden: true, MinAffection: intp(40)},
	}
	r := NewResolver(endings)

	got := r.Resolve(baseState(80), types.MemoryStats{}, testNow)
	if got == nil {
		t.Fatalf("expected an ending")
	}
	// level 2 hidden = 1200 vs level 3 plain = 300.
	if got.Ending.ID != "secret_end" {
		t.Fatalf("hidden ending must win on priority, got %s", got.Ending.ID)
	}
}

func TestResolveIdempotentOnUnchangedState(t *testing.T) {
	endings := []types.EndingDefinition{
		{ID: "happy_end", Level: 3, MinAffection: intp(40)},
		{ID: "ordinary_end", Level: 1},
	}
	r := NewResolver(endings)
	s := baseState(60)

	first := r.Resolve(s, types.MemoryStats{}, testNow)
	second := r.Resolve(s, types.MemoryStats{}, testNow)
	if first == nil || second == nil || first.Ending.ID != second.Ending.ID {
		t.Fatalf("resolution must be idempotent: %+v vs %+v", first, second)
	}
}

func TestAbsentRequirementsAlwaysSatisfied(t *testing.T) {
	r := NewResolver([]types.EndingDefinition{{ID: "any_end", Level: 1}})
	got := r.Resolve(baseState(types.AffectionMin), types.MemoryStats{}, testNow)
	if got == nil || got.Ending.ID != "any_end" {
		t.Fatalf("an ending with no requirements must always match, got %+v", got)
	}
}

func TestRequiredEventIDs(t *testing.T) {
	endings := []types.EndingDefinition{
		{ID: "festival_end", Level: 2, RequiredEventIDs: []string{"festival", "confession"}},
	}
	r := NewResolver(endings)
	s := baseState(50)
	s.MarkTriggered("festival")

	if got := r.Resolve(s, types.MemoryStats{}, testNow); got != nil {
		t.Fatalf("missing required event must block the ending, got %+v", got)
	}

	s.MarkTriggered("confession")
	if got := r.Resolve(s, types.MemoryStats{}, testNow); got == nil || got.Ending.ID != "festival_end" {
		t.Fatalf("all required events present, expected festival_end, got %+v", got)
	}
}

func TestSpeedrunEndingRespectsMaxElapsedDays(t *testing.T) {
	endings := []types.EndingDefinition{
		{ID: "whirlwind", Level: 2, Special: true, MinAffection: intp(60), MaxElapsedDays: intp(7)},
	}
	r := NewResolver(endings)

	fresh := baseState(80)
	fresh.CreatedAt = testNow.AddDate(0, 0, -3)
	if got := r.Resolve(fresh, types.MemoryStats{}, testNow); got == nil || got.Ending.ID != "whirlwind" {
		t.Fatalf("3 elapsed days within the 7-day cap must match, got %+v", got)
	}

	old := baseState(80)
	if got := r.Resolve(old, types.MemoryStats{}, testNow); got != nil {
		t.Fatalf("30 elapsed days exceeds the cap, got %+v", got)
	}
}

func TestFirstTimeFlagClearsAfterMarkAchieved(t *testing.T) {
	r := NewResolver([]types.EndingDefinition{{ID: "happy_end", Level: 3, MinAffection: intp(40)}})
	s := baseState(70)

	got := r.Resolve(s, types.MemoryStats{}, testNow)
	if got == nil || !got.FirstTime {
		t.Fatalf("first resolution must be flagged first-time, got %+v", got)
	}

	s = MarkAchieved(s, "happy_end")
	got = r.Resolve(s, types.MemoryStats{}, testNow)
	if got == nil || got.FirstTime {
		t.Fatalf("re-achievement must not be flagged first-time, got %+v", got)
	}
}

func TestPromisesKeptUsesMemoryStats(t *testing.T) {
	r := NewResolver([]types.EndingDefinition{
		{ID: "promise_end", Level: 2, MinPromisesKept: intp(3)},
	})
	s := baseState(50)
	s.PromisesKept = 1

	if got := r.Resolve(s, types.MemoryStats{PromiseCount: 2}, testNow); got != nil {
		t.Fatalf("2 promises is short of 3, got %+v", got)
	}
	if got := r.Resolve(s, types.MemoryStats{PromiseCount: 3}, testNow); got == nil {
		t.Fatalf("memory-tracked promises must satisfy the requirement")
	}
}
