package types

import "time"

// EndingDefinition is one terminal condition set, loaded from static
// config. Every requirement field is independently optional: a nil field
// is always satisfied.
type EndingDefinition struct {
	ID      string `yaml:"id" json:"id"`
	Title   string `yaml:"title" json:"title"`
	Level   int    `yaml:"level" json:"level"`
	Hidden  bool   `yaml:"hidden" json:"hidden"`
	Special bool   `yaml:"special" json:"special"`

	MinAffection       *int     `yaml:"min_affection,omitempty" json:"min_affection,omitempty"`
	MaxAffection       *int     `yaml:"max_affection,omitempty" json:"max_affection,omitempty"`
	MinMessageCount    *int     `yaml:"min_message_count,omitempty" json:"min_message_count,omitempty"`
	RequiredEventIDs   []string `yaml:"required_event_ids,omitempty" json:"required_event_ids,omitempty"`
	MinConsecutiveDays *int     `yaml:"min_consecutive_days,omitempty" json:"min_consecutive_days,omitempty"`
	MaxElapsedDays     *int     `yaml:"max_elapsed_days,omitempty" json:"max_elapsed_days,omitempty"`
	MinPromisesKept    *int     `yaml:"min_promises_kept,omitempty" json:"min_promises_kept,omitempty"`
}

// Priority returns the ending's resolution priority.
func (e EndingDefinition) Priority() int {
	return Priority(e.Level, e.Hidden, e.Special)
}

// EndingResult is a resolved ending. FirstTime is set only on the first
// achievement of the ending id.
type EndingResult struct {
	Ending     EndingDefinition `json:"ending"`
	FirstTime  bool             `json:"first_time"`
	AchievedAt time.Time        `json:"achieved_at"`
}
