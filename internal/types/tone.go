package types

// EmojiFrequency is a named emoji-injection rate.
type EmojiFrequency string

const (
	EmojiLow      EmojiFrequency = "low"
	EmojiMedium   EmojiFrequency = "medium"
	EmojiHigh     EmojiFrequency = "high"
	EmojiVeryHigh EmojiFrequency = "very_high"
)

// Probability returns the injection probability for the named rate.
func (f EmojiFrequency) Probability() float64 {
	switch f {
	case EmojiLow:
		return 0.1
	case EmojiMedium:
		return 0.3
	case EmojiHigh:
		return 0.5
	case EmojiVeryHigh:
		return 0.8
	default:
		return 0
	}
}

// EndingRule substitutes a sentence-final suffix with the tone level's
// register (e.g. "좋아해" -> "사랑해" at the top level).
type EndingRule struct {
	From string `yaml:"from" json:"from"`
	To   string `yaml:"to" json:"to"`
}

// PatternKind enumerates speech-pattern effects.
type PatternKind string

const (
	PatternElongation   PatternKind = "elongation"
	PatternRepetition   PatternKind = "repetition"
	PatternFiller       PatternKind = "filler"
	PatternAffectionTag PatternKind = "affection_tag"
)

// SpeechPattern is one probability-gated text effect. Effects compose:
// each is rolled independently during rendering.
type SpeechPattern struct {
	Kind        PatternKind `yaml:"kind" json:"kind"`
	Words       []string    `yaml:"words,omitempty" json:"words,omitempty"`
	Probability float64     `yaml:"probability" json:"probability"`
	// Filler is prepended for filler patterns; Prefix/Suffix wrap the text
	// for affection tags.
	Filler string `yaml:"filler,omitempty" json:"filler,omitempty"`
	Prefix string `yaml:"prefix,omitempty" json:"prefix,omitempty"`
	Suffix string `yaml:"suffix,omitempty" json:"suffix,omitempty"`
}

// ToneLevelConfig is the rendering rule set for one tone level (1..5).
type ToneLevelConfig struct {
	Level          int             `yaml:"level" json:"level"`
	Endings        []EndingRule    `yaml:"endings,omitempty" json:"endings,omitempty"`
	EmojiFrequency EmojiFrequency  `yaml:"emoji_frequency" json:"emoji_frequency"`
	Emojis         []string        `yaml:"emojis,omitempty" json:"emojis,omitempty"`
	Patterns       []SpeechPattern `yaml:"patterns,omitempty" json:"patterns,omitempty"`
}

// StyleDescriptor names an archetype's per-tone-level rendering style.
type StyleDescriptor string

const (
	StylePoetic    StyleDescriptor = "poetic"
	StyleEnergetic StyleDescriptor = "energetic"
	StyleConcise   StyleDescriptor = "concise"
	StyleGentle    StyleDescriptor = "gentle"
	StylePlayful   StyleDescriptor = "playful"
)

// ValidStyle reports whether s is a supported style descriptor.
func ValidStyle(s StyleDescriptor) bool {
	switch s {
	case StylePoetic, StyleEnergetic, StyleConcise, StyleGentle, StylePlayful:
		return true
	}
	return false
}

// ArchetypeStyle carries everything archetype-specific: rendering styles
// per tone level, proactive-contact templates per time bucket, and the
// non-response escalation ladder.
type ArchetypeStyle struct {
	Archetype        Archetype               `yaml:"archetype" json:"archetype"`
	Styles           map[int]StyleDescriptor `yaml:"styles" json:"styles"`
	ContactTemplates map[TimeBucket][]string `yaml:"contact_templates" json:"contact_templates"`
	EscalationSteps  []EscalationStep        `yaml:"escalation_steps" json:"escalation_steps"`
	Patterns         []SpeechPattern         `yaml:"patterns,omitempty" json:"patterns,omitempty"`
}

// GiftEffect is the affection/mood effect of one gift category.
type GiftEffect struct {
	AffectionDelta int `yaml:"affection_delta" json:"affection_delta"`
	MoodDelta      int `yaml:"mood_delta" json:"mood_delta"`
}

// DefaultGiftEffect is applied for unknown gift categories.
var DefaultGiftEffect = GiftEffect{AffectionDelta: 1, MoodDelta: 1}
