package state

import (
	"testing"
	"time"

	"github.com/easeaico/project-luna/internal/types"
)

var testNow = time.Date(2026, 3, 14, 15, 0, 0, 0, time.UTC)

func TestApplyAffectionDeltaClampsExtremes(t *testing.T) {
	m := NewMachine(nil)
	s := NewCharacterState("yuna", testNow)

	next, _ := m.ApplyAffectionDelta(s, 1000000, testNow)
	if next.Affection != types.AffectionMax {
		t.Fatalf("expected affection clamped to %d, got %d", types.AffectionMax, next.Affection)
	}

	next, _ = m.ApplyAffectionDelta(next, -1000000, testNow)
	if next.Affection != types.AffectionMin {
		t.Fatalf("expected affection clamped to %d, got %d", types.AffectionMin, next.Affection)
	}
}

func TestDerivedFieldsMatchPureFunctions(t *testing.T) {
	m := NewMachine(nil)
	s := NewCharacterState("yuna", testNow)

	for a := types.AffectionMin; a <= types.AffectionMax; a++ {
		next, _ := m.ApplyAffectionDelta(s, a-s.Affection, testNow)
		level := types.AffectionLevel(next.Affection)
		if next.ToneLevel != ToneLevel(level) {
			t.Fatalf("affection %d: tone level %d, want %d", a, next.ToneLevel, ToneLevel(level))
		}
		if next.ReplySpeedLevel != ReplySpeedLevel(level) {
			t.Fatalf("affection %d: reply speed %d, want %d", a, next.ReplySpeedLevel, ReplySpeedLevel(level))
		}
		if next.PhotoLevel != PhotoLevel(level) {
			t.Fatalf("affection %d: photo level %d, want %d", a, next.PhotoLevel, PhotoLevel(level))
		}
		if next.RelationshipStage != Stage(next.Affection) {
			t.Fatalf("affection %d: stage %s, want %s", a, next.RelationshipStage, Stage(next.Affection))
		}
		s = next
	}
}

func TestToneLevelMonotonic(t *testing.T) {
	prev := 0
	for level := 1; level <= 10; level++ {
		tone := ToneLevel(level)
		if tone < prev {
			t.Fatalf("tone level decreased at affection level %d: %d -> %d", level, prev, tone)
		}
		if tone < 1 || tone > 5 {
			t.Fatalf("tone level out of range at %d: %d", level, tone)
		}
		prev = tone
	}
}

func TestMilestoneCrossing(t *testing.T) {
	m := NewMachine(nil)
	s := NewCharacterState("yuna", testNow)

	s, milestone := m.ApplyAffectionDelta(s, 9, testNow)
	if milestone {
		t.Fatalf("0 -> 9 should not cross a milestone")
	}
	s, milestone = m.ApplyAffectionDelta(s, 1, testNow)
	if !milestone {
		t.Fatalf("9 -> 10 should cross a milestone")
	}
	_, milestone = m.ApplyAffectionDelta(s, -1, testNow)
	if !milestone {
		t.Fatalf("10 -> 9 should cross a milestone on the way down")
	}
}

func TestEmotionDecaysToCalm(t *testing.T) {
	m := NewMachine(nil)
	s := NewCharacterState("yuna", testNow)
	s = m.SetEmotion(s, types.MoodExcited, 0.9, time.Hour, testNow)

	eff := s.Emotion.Effective(testNow.Add(30 * time.Minute))
	if eff.Mood != types.MoodExcited {
		t.Fatalf("expected excited before expiry, got %s", eff.Mood)
	}

	eff = s.Emotion.Effective(testNow.Add(time.Hour + time.Second))
	if eff.Mood != types.MoodCalm || eff.Intensity != 0 {
		t.Fatalf("expected calm at zero intensity after expiry, got %s/%f", eff.Mood, eff.Intensity)
	}
}

func TestEffectiveModifiersContinuousAtZeroIntensity(t *testing.T) {
	e := types.EmotionState{Mood: types.MoodAngry, Intensity: 0, ExpiresAt: testNow.Add(time.Hour)}
	mods := EffectiveModifiers(e, testNow)
	if mods.ContactFrequency != 1 || mods.PhotoChance != 1 || mods.ResponseSpeed != 1 || mods.AffectionGainRate != 1 {
		t.Fatalf("zero-intensity emotion must be neutral, got %+v", mods)
	}
}

func TestApplyGiftUnknownCategoryFallsBack(t *testing.T) {
	m := NewMachine(map[string]types.GiftEffect{
		"flowers": {AffectionDelta: 5, MoodDelta: 2},
	})
	s := NewCharacterState("yuna", testNow)

	next, _ := m.ApplyGift(s, "flowers", testNow)
	if next.Affection != 5 {
		t.Fatalf("expected affection 5 after flowers, got %d", next.Affection)
	}
	if next.Emotion.Mood != types.MoodHappy {
		t.Fatalf("expected happy mood after flowers, got %s", next.Emotion.Mood)
	}

	next, _ = m.ApplyGift(s, "mystery-box", testNow)
	if next.Affection != 1 {
		t.Fatalf("expected fallback affection delta 1, got %d", next.Affection)
	}
}

func TestRecordUserMessageResetsEscalation(t *testing.T) {
	m := NewMachine(nil)
	s := NewCharacterState("yuna", testNow)
	reacted := testNow.Add(-time.Hour)
	s.LastReactionMessageTime = &reacted

	next := m.RecordUserMessage(s, true, false, testNow)
	if next.LastReactionMessageTime != nil {
		t.Fatalf("user response must reset the escalation ladder")
	}
	if next.MessageCount != 1 || next.PositiveChoiceCount != 1 || next.ConsecutivePositive != 1 {
		t.Fatalf("unexpected counters: %+v", next)
	}
	if next.LastUserResponseTime == nil || !next.LastUserResponseTime.Equal(testNow) {
		t.Fatalf("expected last response time to be set")
	}
}

func TestConsecutivePlayDays(t *testing.T) {
	m := NewMachine(nil)
	s := NewCharacterState("yuna", testNow)

	s = m.RecordUserMessage(s, false, false, testNow)
	if s.ConsecutivePlayDays != 1 {
		t.Fatalf("first day should start streak at 1, got %d", s.ConsecutivePlayDays)
	}
	s = m.RecordUserMessage(s, false, false, testNow.Add(2*time.Hour))
	if s.ConsecutivePlayDays != 1 {
		t.Fatalf("same day should keep streak at 1, got %d", s.ConsecutivePlayDays)
	}
	s = m.RecordUserMessage(s, false, false, testNow.AddDate(0, 0, 1))
	if s.ConsecutivePlayDays != 2 {
		t.Fatalf("next day should extend streak to 2, got %d", s.ConsecutivePlayDays)
	}
	s = m.RecordUserMessage(s, false, false, testNow.AddDate(0, 0, 5))
	if s.ConsecutivePlayDays != 1 {
		t.Fatalf("a gap should reset the streak to 1, got %d", s.ConsecutivePlayDays)
	}
}

func TestAffectionHistoryCapped(t *testing.T) {
	m := NewMachine(nil)
	s := NewCharacterState("yuna", testNow)
	for i := 0; i < 150; i++ {
		s, _ = m.ApplyAffectionDelta(s, 1, testNow.Add(time.Duration(i)*time.Minute))
	}
	if len(s.AffectionHistory) != 100 {
		t.Fatalf("expected history capped at 100, got %d", len(s.AffectionHistory))
	}
}
