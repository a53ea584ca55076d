package state

import (
	"time"

	"github.com/easeaico/project-luna/internal/types"
)

const (
	affectionHistoryCap = 100
	// giftMoodDuration bounds how long a gift's mood lift lasts.
	giftMoodDuration = 2 * time.Hour
	playDateLayout   = "2006-01-02"
)

// Machine applies progression updates to character state. All methods are
// pure over their inputs: the modified copy is returned, never shared.
type Machine struct {
	gifts map[string]types.GiftEffect
}

// NewMachine returns a Machine using the given gift table. Unknown gift
// categories fall back to types.DefaultGiftEffect.
func NewMachine(gifts map[string]types.GiftEffect) *Machine {
	return &Machine{gifts: gifts}
}

// NewCharacterState returns a fresh state for a character id.
func NewCharacterState(characterID string, now time.Time) types.CharacterState {
	s := types.CharacterState{
		CharacterID:       characterID,
		Affection:         0,
		Emotion:           types.EmotionState{Mood: types.MoodCalm},
		TriggeredEventIDs: make(map[string]bool),
		CreatedAt:         now,
		LastUpdatedAt:     now,
	}
	derive(&s, now)
	return s
}

// ApplyAffectionDelta clamps the result to the canonical range, recomputes
// every derived field, appends to the affection history, and reports
// whether a multiple-of-10 milestone was crossed. Out-of-range deltas are
// clamped, never rejected.
func (m *Machine) ApplyAffectionDelta(s types.CharacterState, delta int, now time.Time) (types.CharacterState, bool) {
	old := s.Affection
	s.Affection = types.ClampAffection(old + delta)

	s.AffectionHistory = append(s.AffectionHistory, types.AffectionSample{Affection: s.Affection, At: now})
	if len(s.AffectionHistory) > affectionHistoryCap {
		s.AffectionHistory = s.AffectionHistory[len(s.AffectionHistory)-affectionHistoryCap:]
	}

	derive(&s, now)
	s.LastUpdatedAt = now
	return s, crossedMilestone(old, s.Affection)
}

// ApplyGift looks up the gift category, applies its affection delta, and
// lifts (or drops) the mood by the gift's mood delta.
func (m *Machine) ApplyGift(s types.CharacterState, category string, now time.Time) (types.CharacterState, bool) {
	effect, ok := m.gifts[category]
	if !ok {
		effect = types.DefaultGiftEffect
	}

	s, milestone := m.ApplyAffectionDelta(s, effect.AffectionDelta, now)

	if effect.MoodDelta != 0 {
		mood := types.MoodHappy
		if effect.MoodDelta < 0 {
			mood = types.MoodSad
		}
		intensity := s.Emotion.Effective(now).Intensity + 0.2*float64(abs(effect.MoodDelta))
		s = m.SetEmotion(s, mood, intensity, giftMoodDuration, now)
	}
	return s, milestone
}

// SetEmotion replaces the current emotion. Intensity is clamped to [0,1].
func (m *Machine) SetEmotion(s types.CharacterState, mood types.Mood, intensity float64, duration time.Duration, now time.Time) types.CharacterState {
	if !types.ValidMood(mood) {
		mood = types.MoodCalm
	}
	if intensity < 0 {
		intensity = 0
	}
	if intensity > 1 {
		intensity = 1
	}
	s.Emotion = types.EmotionState{Mood: mood, Intensity: intensity, ExpiresAt: now.Add(duration)}
	derive(&s, now)
	s.LastUpdatedAt = now
	return s
}

// RecordUserMessage updates turn counters and response bookkeeping for an
// inbound user message. Receiving a message resets the non-response
// escalation ladder.
func (m *Machine) RecordUserMessage(s types.CharacterState, positive, negative bool, now time.Time) types.CharacterState {
	s.MessageCount++
	if positive {
		s.PositiveChoiceCount++
		s.ConsecutivePositive++
	} else if negative {
		s.NegativeChoiceCount++
		s.ConsecutivePositive = 0
	}

	t := now
	s.LastUserResponseTime = &t
	s.LastReactionMessageTime = nil

	updatePlayDays(&s, now)
	derive(&s, now)
	s.LastUpdatedAt = now
	return s
}

// RecordContact marks an outgoing proactive contact.
func (m *Machine) RecordContact(s types.CharacterState, now time.Time) types.CharacterState {
	t := now
	s.LastContactTime = &t
	s.ContactCount++
	s.LastUpdatedAt = now
	return s
}

// RecordPromiseKept increments the kept-promise counter used by endings.
func (m *Machine) RecordPromiseKept(s types.CharacterState, now time.Time) types.CharacterState {
	s.PromisesKept++
	s.LastUpdatedAt = now
	return s
}

// derive recomputes every affection/emotion-derived field in place. This
// is the only writer of those fields.
func derive(s *types.CharacterState, now time.Time) {
	level := types.AffectionLevel(s.Affection)
	s.RelationshipStage = Stage(s.Affection)
	s.ToneLevel = ToneLevel(level)
	s.ReplySpeedLevel = ReplySpeedLevel(level)
	s.PhotoLevel = PhotoLevel(level)

	mods := EffectiveModifiers(s.Emotion, now)
	p := ContactBaseProbability(level) * mods.ContactFrequency
	if p > 100 {
		p = 100
	}
	if p < 0 {
		p = 0
	}
	s.ProactiveContactProbability = p
}

// crossedMilestone reports whether a multiple of 10 lies between the old
// and updated affection values.
func crossedMilestone(old, updated int) bool {
	return floorDiv(old, 10) != floorDiv(updated, 10)
}

func floorDiv(a, b int) int {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}

func updatePlayDays(s *types.CharacterState, now time.Time) {
	today := now.Format(playDateLayout)
	if s.LastPlayedDate == today {
		return
	}
	yesterday := now.AddDate(0, 0, -1).Format(playDateLayout)
	if s.LastPlayedDate == yesterday {
		s.ConsecutivePlayDays++
	} else {
		s.ConsecutivePlayDays = 1
	}
	s.LastPlayedDate = today
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
