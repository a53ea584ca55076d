package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"

	"github.com/easeaico/project-luna/internal/types"
)

// memoryModel maps to the memories table.
type memoryModel struct {
	ID          string
	CharacterID string
	Role        string
	Content     string
	Importance  int
	// Keywords is stored as JSONB for retrieval filters.
	Keywords       json.RawMessage `gorm:"type:jsonb"`
	AffectionDelta int
	Category       string
	// Embedding stores the vector representation for similarity search.
	Embedding *pgvector.Vector `gorm:"type:vector"`
	CreatedAt time.Time
}

func (memoryModel) TableName() string {
	return "memories"
}

// MemoryRepo accesses long-term memory rows.
type MemoryRepo struct {
	db *gorm.DB
}

// NewMemoryRepo returns a MemoryRepo.
func NewMemoryRepo(db *gorm.DB) *MemoryRepo {
	return &MemoryRepo{db: db}
}

// AddMemory inserts one long-term record.
func (r *MemoryRepo) AddMemory(ctx context.Context, characterID string, record types.MemoryRecord) error {
	var vector *pgvector.Vector
	if len(record.Embedding) > 0 {
		v := pgvector.NewVector(record.Embedding)
		vector = &v
	}
	keywords, err := json.Marshal(record.Keywords)
	if err != nil {
		return fmt.Errorf("failed to encode memory keywords: %w", err)
	}
	model := memoryModel{
		ID:             record.ID,
		CharacterID:    characterID,
		Role:           string(record.Role),
		Content:        record.Content,
		Importance:     record.Importance,
		Keywords:       keywords,
		AffectionDelta: record.AffectionDelta,
		Category:       string(record.Category),
		Embedding:      vector,
		CreatedAt:      record.Timestamp,
	}
	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		return fmt.Errorf("failed to insert memory: %w", err)
	}
	return nil
}

// SearchSimilar returns memories ranked by cosine similarity blended with
// importance, above the given similarity threshold.
func (r *MemoryRepo) SearchSimilar(ctx context.Context, characterID string, embedding []float32, topK int, threshold float64) ([]types.RetrievedMemory, error) {
	if len(embedding) == 0 {
		return nil, nil
	}
	if topK <= 0 {
		topK = 5
	}

	query := `
		SELECT role, content, category, created_at,
		       1 - (embedding <=> $1) AS similarity
		FROM memories
		WHERE embedding IS NOT NULL
		  AND character_id = $2
		  AND 1 - (embedding <=> $1) > $3
		ORDER BY (0.85 * (1 - (embedding <=> $1)) + 0.0015 * importance) DESC
		LIMIT $4`

	var results []types.RetrievedMemory
	if err := r.db.WithContext(ctx).
		Raw(query, pgvector.NewVector(embedding), characterID, threshold, topK).
		Scan(&results).Error; err != nil {
		return nil, fmt.Errorf("failed to search memories: %w", err)
	}
	return results, nil
}

// CountByCategory returns long-term row counts per category, used to seed
// memory stats after a restart.
func (r *MemoryRepo) CountByCategory(ctx context.Context, characterID string) (map[types.MemoryCategory]int, error) {
	rows := []struct {
		Category string
		Count    int
	}{}
	err := r.db.WithContext(ctx).
		Raw(`SELECT category, COUNT(*) AS count FROM memories WHERE character_id = $1 GROUP BY category`, characterID).
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count memories: %w", err)
	}
	counts := make(map[types.MemoryCategory]int, len(rows))
	for _, row := range rows {
		counts[types.MemoryCategory(row.Category)] = row.Count
	}
	return counts, nil
}
