package types

import "time"

// Affection bounds for the canonical signed scale. The coarse 1-10 level
// used by tone and behavior tables is derived via AffectionLevel.
const (
	AffectionMin = -10
	AffectionMax = 100
)

// ClampAffection bounds affection to the canonical scale.
func ClampAffection(score int) int {
	switch {
	case score < AffectionMin:
		return AffectionMin
	case score > AffectionMax:
		return AffectionMax
	default:
		return score
	}
}

// AffectionLevel buckets canonical affection into the coarse 1-10 level.
// Monotonic in affection; anything at or below zero maps to level 1.
func AffectionLevel(affection int) int {
	level := (affection + 9) / 10 // ceil(affection/10) for positive values
	if level < 1 {
		return 1
	}
	if level > 10 {
		return 10
	}
	return level
}

// Mood is the secondary, faster-decaying emotional axis.
type Mood string

const (
	MoodHappy   Mood = "happy"
	MoodExcited Mood = "excited"
	MoodCalm    Mood = "calm"
	MoodSad     Mood = "sad"
	MoodAnxious Mood = "anxious"
	MoodAngry   Mood = "angry"
	MoodWorried Mood = "worried"
)

// ValidMood reports whether m is one of the supported moods.
func ValidMood(m Mood) bool {
	switch m {
	case MoodHappy, MoodExcited, MoodCalm, MoodSad, MoodAnxious, MoodAngry, MoodWorried:
		return true
	}
	return false
}

// EmotionState is the current mood with intensity and expiry.
// An expired emotion reads as calm at zero intensity.
type EmotionState struct {
	Mood      Mood      `json:"mood"`
	Intensity float64   `json:"intensity"` // 0..1
	ExpiresAt time.Time `json:"expires_at"`
}

// Effective returns the emotion as observed at now: past expiry the
// character has settled back to calm.
func (e EmotionState) Effective(now time.Time) EmotionState {
	if e.Mood == "" || !now.Before(e.ExpiresAt) {
		return EmotionState{Mood: MoodCalm, Intensity: 0}
	}
	return e
}

// RelationshipStage is a pure function of affection, recomputed on every
// affection change.
type RelationshipStage string

const (
	StageStranger     RelationshipStage = "stranger"
	StageAcquaintance RelationshipStage = "acquaintance"
	StageFriend       RelationshipStage = "friend"
	StageCloseFriend  RelationshipStage = "close_friend"
	StageRomantic     RelationshipStage = "romantic"
	StageLover        RelationshipStage = "lover"
)

// AffectionSample is one entry of the capped affection history.
type AffectionSample struct {
	Affection int       `json:"affection"`
	At        time.Time `json:"at"`
}

// CharacterState is the canonical per-character progression record.
// Derived fields (ToneLevel, ReplySpeedLevel, PhotoLevel, RelationshipStage,
// ProactiveContactProbability) are never set directly — the state machine
// recomputes them from affection and emotion after every mutation.
type CharacterState struct {
	CharacterID string `json:"character_id"`

	Affection int          `json:"affection"`
	Emotion   EmotionState `json:"emotion"`

	RelationshipStage           RelationshipStage `json:"relationship_stage"`
	ToneLevel                   int               `json:"tone_level"`        // 1..5
	ReplySpeedLevel             int               `json:"reply_speed_level"` // 1..5
	PhotoLevel                  int               `json:"photo_level"`       // 1..5
	ProactiveContactProbability float64           `json:"proactive_contact_probability"`

	MessageCount        int `json:"message_count"`
	PositiveChoiceCount int `json:"positive_choice_count"`
	NegativeChoiceCount int `json:"negative_choice_count"`
	ContactCount        int `json:"contact_count"`
	PromisesKept        int `json:"promises_kept"`
	ConsecutivePositive int `json:"consecutive_positive"`

	LastContactTime         *time.Time `json:"last_contact_time"`
	LastUserResponseTime    *time.Time `json:"last_user_response_time"`
	LastReactionMessageTime *time.Time `json:"last_reaction_message_time"`

	// Play-day bookkeeping consumed by the ending resolver.
	ConsecutivePlayDays int    `json:"consecutive_play_days"`
	LastPlayedDate      string `json:"last_played_date"` // YYYY-MM-DD

	// TriggeredEventIDs is the idempotency guard for one-shot events and
	// first-time ending achievements.
	TriggeredEventIDs map[string]bool `json:"triggered_event_ids"`

	AffectionHistory []AffectionSample `json:"affection_history"`

	CreatedAt     time.Time `json:"created_at"`
	LastUpdatedAt time.Time `json:"last_updated_at"`
}

// HasTriggered reports whether an event or ending id has already fired.
func (s *CharacterState) HasTriggered(id string) bool {
	return s.TriggeredEventIDs[id]
}

// MarkTriggered records an event or ending id as fired.
func (s *CharacterState) MarkTriggered(id string) {
	if s.TriggeredEventIDs == nil {
		s.TriggeredEventIDs = make(map[string]bool)
	}
	s.TriggeredEventIDs[id] = true
}
