package types

import "time"

// MemoryRole marks who produced a remembered turn.
type MemoryRole string

const (
	MemoryRoleUser      MemoryRole = "user"
	MemoryRoleCharacter MemoryRole = "character"
)

// MemoryCategory partitions the long-term store.
type MemoryCategory string

const (
	CategoryPreferences       MemoryCategory = "preferences"
	CategoryPromises          MemoryCategory = "promises"
	CategoryPersonalInfo      MemoryCategory = "personal_info"
	CategorySharedExperiences MemoryCategory = "shared_experiences"
)

// MemoryCategories lists the long-term partitions in filing order.
var MemoryCategories = []MemoryCategory{
	CategoryPreferences,
	CategoryPromises,
	CategoryPersonalInfo,
	CategorySharedExperiences,
}

// MemoryRecord is one scored conversational turn. Records start in working
// memory and are demoted to short-term or long-term by importance.
type MemoryRecord struct {
	ID             string         `json:"id"`
	Role           MemoryRole     `json:"role"`
	Content        string         `json:"content"`
	Timestamp      time.Time      `json:"timestamp"`
	Importance     int            `json:"importance"` // 0..100
	Keywords       []string       `json:"keywords"`
	AffectionDelta int            `json:"affection_delta"`
	Category       MemoryCategory `json:"category,omitempty"`
	Embedding      []float32      `json:"-"` // embedding vector, not serialized
}

// RetrievedMemory is a memory snippet returned by similarity search.
type RetrievedMemory struct {
	Content    string         `json:"content"`
	Role       MemoryRole     `json:"role"`
	Category   MemoryCategory `json:"category"`
	Similarity float64        `json:"similarity"`
	CreatedAt  time.Time      `json:"created_at"`
}

// MemoryStats summarizes the tiered stores for the ending resolver.
type MemoryStats struct {
	WorkingCount   int                    `json:"working_count"`
	ShortTermCount int                    `json:"short_term_count"`
	LongTermCounts map[MemoryCategory]int `json:"long_term_counts"`
	PromiseCount   int                    `json:"promise_count"`
}
