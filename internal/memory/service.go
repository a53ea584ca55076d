package memory

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/easeaico/project-luna/internal/types"
)

// Repo persists long-term memory records.
type Repo interface {
	AddMemory(ctx context.Context, characterID string, record types.MemoryRecord) error
	SearchSimilar(ctx context.Context, characterID string, embedding []float32, topK int, threshold float64) ([]types.RetrievedMemory, error)
	CountByCategory(ctx context.Context, characterID string) (map[types.MemoryCategory]int, error)
}

// Service scores turns and maintains per-character memory tiers. Records
// demoted to long-term are embedded and persisted through the repo.
type Service struct {
	embedder Embedder
	memories Repo
	tiers    map[string]*Tiers
}

// NewService returns a memory service. Embedder and repo may be nil for
// an in-memory-only setup; persistence is then skipped.
func NewService(embedder Embedder, memories Repo) *Service {
	return &Service{
		embedder: embedder,
		memories: memories,
		tiers:    make(map[string]*Tiers),
	}
}

// Record scores one turn and files it. It returns the stored record.
func (s *Service) Record(ctx context.Context, characterID string, role types.MemoryRole, in ScoreInput, now time.Time) (types.MemoryRecord, error) {
	if characterID == "" {
		return types.MemoryRecord{}, fmt.Errorf("%w: empty character id", types.ErrInvalidInput)
	}

	record := types.MemoryRecord{
		ID:             uuid.NewString(),
		Role:           role,
		Content:        in.Content,
		Timestamp:      now,
		Importance:     Score(in),
		Keywords:       MatchedKeywords(in.Content),
		AffectionDelta: in.AffectionDelta,
	}

	demoted := s.characterTiers(characterID).Add(record)
	if demoted != nil && demoted.Importance >= LongTermThreshold {
		s.persistLongTerm(ctx, characterID, *demoted)
	}
	return record, nil
}

// Retrieve returns long-term memories similar to the query text.
func (s *Service) Retrieve(ctx context.Context, characterID, query string, topK int, threshold float64) ([]types.RetrievedMemory, error) {
	if query == "" {
		return nil, nil
	}
	if s.embedder == nil || s.memories == nil {
		return nil, nil
	}

	vec, err := s.embedder.EmbedQuery(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}
	return s.memories.SearchSimilar(ctx, characterID, vec, topK, threshold)
}

// Warm seeds a character's long-term counts from persisted rows, so
// ending requirements keep their progress across restarts.
func (s *Service) Warm(ctx context.Context, characterID string) error {
	if s.memories == nil {
		return nil
	}
	counts, err := s.memories.CountByCategory(ctx, characterID)
	if err != nil {
		return fmt.Errorf("failed to load memory counts: %w", err)
	}
	s.characterTiers(characterID).SeedLongTermCounts(counts)
	return nil
}

// Stats summarizes one character's tiers for the ending resolver.
func (s *Service) Stats(characterID string) types.MemoryStats {
	return s.characterTiers(characterID).Stats()
}

func (s *Service) characterTiers(characterID string) *Tiers {
	t, ok := s.tiers[characterID]
	if !ok {
		t = NewTiers()
		s.tiers[characterID] = t
	}
	return t
}

// persistLongTerm embeds and writes a long-term record. Persistence
// failures are logged, never surfaced: losing one durable memory must not
// break the turn.
func (s *Service) persistLongTerm(ctx context.Context, characterID string, record types.MemoryRecord) {
	if s.memories == nil {
		return
	}
	if s.embedder != nil {
		vec, err := s.embedder.EmbedDocument(ctx, record.Content)
		if err != nil {
			slog.Warn("failed to embed long-term memory", "character_id", characterID, "error", err.Error())
		} else {
			record.Embedding = vec
		}
	}
	if err := s.memories.AddMemory(ctx, characterID, record); err != nil {
		slog.Warn("failed to persist long-term memory", "character_id", characterID, "error", err.Error())
	}
}
