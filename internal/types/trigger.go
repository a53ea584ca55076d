package types

import "time"

// TriggerType identifies which trigger kind produced a result.
type TriggerType string

const (
	TriggerProactiveContact TriggerType = "proactive_contact"
	TriggerNonResponse      TriggerType = "non_response"
	TriggerAmbient          TriggerType = "ambient"
	TriggerSpecialEvent     TriggerType = "special_event"
)

// TriggerResult is one evaluation outcome. At most one is returned per
// evaluation call.
type TriggerResult struct {
	Type           TriggerType `json:"type"`
	EventID        string      `json:"event_id,omitempty"`
	Message        string      `json:"message"`
	AffectionDelta int         `json:"affection_delta"`
	Priority       int         `json:"priority"`
	FiredAt        time.Time   `json:"fired_at"`
}

// Priority computes the shared trigger/ending priority. Hidden outranks
// special outranks level; ties are broken by declaration order elsewhere.
func Priority(level int, hidden, special bool) int {
	p := level * 100
	if hidden {
		p += 1000
	}
	if special {
		p += 500
	}
	return p
}

// ConditionType enumerates special-event condition kinds.
type ConditionType string

const (
	CondAffectionRange      ConditionType = "affection_range"
	CondCalendarDate        ConditionType = "calendar_date"
	CondTimeOfDay           ConditionType = "time_of_day"
	CondNoResponseHours     ConditionType = "no_response_hours"
	CondConsecutivePositive ConditionType = "consecutive_positive"
	CondMessageCount        ConditionType = "message_count"
	CondRandomChance        ConditionType = "random_chance"
	CondCombo               ConditionType = "combo"
)

// EventCondition is one special-event condition. Only the fields for its
// Type are read; Combo conditions AND their sub-conditions.
type EventCondition struct {
	Type ConditionType `yaml:"type" json:"type"`

	MinAffection *int `yaml:"min_affection,omitempty" json:"min_affection,omitempty"`
	MaxAffection *int `yaml:"max_affection,omitempty" json:"max_affection,omitempty"`

	// Date is MM-DD, matched against the local calendar date.
	Date string `yaml:"date,omitempty" json:"date,omitempty"`

	// StartHour/EndHour bound a wall-clock window; EndHour is exclusive
	// and a window may wrap past midnight.
	StartHour int `yaml:"start_hour,omitempty" json:"start_hour,omitempty"`
	EndHour   int `yaml:"end_hour,omitempty" json:"end_hour,omitempty"`

	Hours  float64 `yaml:"hours,omitempty" json:"hours,omitempty"`
	Count  int     `yaml:"count,omitempty" json:"count,omitempty"`
	Chance float64 `yaml:"chance,omitempty" json:"chance,omitempty"`

	All []EventCondition `yaml:"all,omitempty" json:"all,omitempty"`
}

// SpecialEvent is one scripted event definition, loaded from static config
// and never mutated at runtime.
type SpecialEvent struct {
	ID             string         `yaml:"id" json:"id"`
	Level          int            `yaml:"level" json:"level"`
	Hidden         bool           `yaml:"hidden" json:"hidden"`
	Special        bool           `yaml:"special" json:"special"`
	Once           bool           `yaml:"once" json:"once"`
	Message        string         `yaml:"message" json:"message"`
	AffectionDelta int            `yaml:"affection_delta" json:"affection_delta"`
	Condition      EventCondition `yaml:"condition" json:"condition"`
}

// EscalationStep is one archetype-specific non-response step.
type EscalationStep struct {
	Hours           float64 `yaml:"hours" json:"hours"`
	Message         string  `yaml:"message" json:"message"`
	AffectionChange int     `yaml:"affection_change" json:"affection_change"`
}

// TimeBucket partitions the day for contact message templates.
type TimeBucket string

const (
	BucketMorning   TimeBucket = "morning"
	BucketLunch     TimeBucket = "lunch"
	BucketAfternoon TimeBucket = "afternoon"
	BucketEvening   TimeBucket = "evening"
	BucketNight     TimeBucket = "night"
)

// BucketForHour maps a wall-clock hour to its time-of-day bucket.
func BucketForHour(hour int) TimeBucket {
	switch {
	case hour >= 5 && hour < 11:
		return BucketMorning
	case hour >= 11 && hour < 14:
		return BucketLunch
	case hour >= 14 && hour < 18:
		return BucketAfternoon
	case hour >= 18 && hour < 23:
		return BucketEvening
	default:
		return BucketNight
	}
}
