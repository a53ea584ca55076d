package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/easeaico/project-luna/internal/types"
)

// stateModel maps to the character_states table. The full progression
// record is stored as one JSONB blob; the scalar columns exist for
// operator queries only and are rewritten on every save.
type stateModel struct {
	CharacterID string `gorm:"primaryKey"`
	Affection   int
	Stage       string
	State       json.RawMessage `gorm:"type:jsonb"`
	UpdatedAt   time.Time
}

func (stateModel) TableName() string {
	return "character_states"
}

// StateRepo persists progression state in PostgreSQL. It satisfies the
// same contract as the KV-backed state store.
type StateRepo struct {
	db *gorm.DB
}

// NewStateRepo returns a StateRepo.
func NewStateRepo(db *gorm.DB) *StateRepo {
	return &StateRepo{db: db}
}

// GetState loads a character's progression state. Missing rows return
// nil without error.
func (r *StateRepo) GetState(ctx context.Context, characterID string) (*types.CharacterState, error) {
	var model stateModel
	if err := r.db.WithContext(ctx).Where("character_id = ?", characterID).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query state: %w", err)
	}
	var state types.CharacterState
	if err := json.Unmarshal(model.State, &state); err != nil {
		return nil, fmt.Errorf("failed to decode state for %s: %w", characterID, err)
	}
	return &state, nil
}

// SaveState upserts a character's progression state.
func (r *StateRepo) SaveState(ctx context.Context, state types.CharacterState) error {
	blob, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to encode state for %s: %w", state.CharacterID, err)
	}
	model := stateModel{
		CharacterID: state.CharacterID,
		Affection:   state.Affection,
		Stage:       string(state.RelationshipStage),
		State:       blob,
		UpdatedAt:   state.LastUpdatedAt,
	}
	err = r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "character_id"}},
		UpdateAll: true,
	}).Create(&model).Error
	if err != nil {
		return fmt.Errorf("failed to upsert state: %w", err)
	}
	return nil
}
