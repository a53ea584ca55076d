package types

import "time"

// Archetype is the closed set of supported personality archetypes. Style
// tables are validated against this set at config load time instead of
// falling back on arbitrary strings.
type Archetype string

const (
	ArchetypeINFP Archetype = "INFP"
	ArchetypeENFP Archetype = "ENFP"
	ArchetypeISFJ Archetype = "ISFJ"
	ArchetypeESTJ Archetype = "ESTJ"
	ArchetypeINTP Archetype = "INTP"
	ArchetypeESFP Archetype = "ESFP"
)

// ValidArchetype reports whether a is a supported archetype.
func ValidArchetype(a Archetype) bool {
	switch a {
	case ArchetypeINFP, ArchetypeENFP, ArchetypeISFJ, ArchetypeESTJ, ArchetypeINTP, ArchetypeESFP:
		return true
	}
	return false
}

// Character is the persisted profile. Progression state lives separately
// in CharacterState, keyed by the same id.
type Character struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	Description     string    `json:"description"`
	Archetype       Archetype `json:"archetype"`
	Scenario        string    `json:"scenario"`
	FirstMessage    string    `json:"first_message"`
	ExampleDialogue string    `json:"example_dialogue"`
	SystemPrompt    string    `json:"system_prompt"`
	AvatarPath      string    `json:"avatar_path"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// ChatMessage is one turn of visible conversation history.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}
