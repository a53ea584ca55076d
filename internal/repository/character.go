package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/easeaico/project-luna/internal/types"
)

type characterModel struct {
	ID              string
	Name            string
	Description     string
	Archetype       string
	Scenario        string
	FirstMessage    string `gorm:"column:first_mes"`
	ExampleDialogue string `gorm:"column:mes_example"`
	SystemPrompt    string
	Avatar          string `gorm:"column:avatar"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func (characterModel) TableName() string {
	return "characters"
}

// CharacterRepo accesses character profiles.
type CharacterRepo struct {
	db *gorm.DB
}

// NewCharacterRepo returns a CharacterRepo.
func NewCharacterRepo(db *gorm.DB) *CharacterRepo {
	return &CharacterRepo{db: db}
}

// GetByID fetches a character profile by id.
func (r *CharacterRepo) GetByID(ctx context.Context, id string) (*types.Character, error) {
	var model characterModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %s", types.ErrCharacterNotFound, id)
		}
		return nil, fmt.Errorf("failed to get character by id: %w", err)
	}
	return characterFromModel(model), nil
}

// GetDefault fetches the first available character.
func (r *CharacterRepo) GetDefault(ctx context.Context) (*types.Character, error) {
	var model characterModel
	if err := r.db.WithContext(ctx).Order("id ASC").First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: no characters configured", types.ErrCharacterNotFound)
		}
		return nil, fmt.Errorf("failed to get default character: %w", err)
	}
	return characterFromModel(model), nil
}

// Create inserts a new character profile.
func (r *CharacterRepo) Create(ctx context.Context, c *types.Character) error {
	if c == nil || c.ID == "" {
		return fmt.Errorf("%w: character id is required", types.ErrInvalidInput)
	}
	if !types.ValidArchetype(c.Archetype) {
		return fmt.Errorf("%w: unsupported archetype %q", types.ErrInvalidInput, c.Archetype)
	}
	model := characterModel{
		ID:              c.ID,
		Name:            c.Name,
		Description:     c.Description,
		Archetype:       string(c.Archetype),
		Scenario:        c.Scenario,
		FirstMessage:    c.FirstMessage,
		ExampleDialogue: c.ExampleDialogue,
		SystemPrompt:    c.SystemPrompt,
		Avatar:          c.AvatarPath,
	}
	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		return fmt.Errorf("failed to insert character: %w", err)
	}
	return nil
}

func characterFromModel(model characterModel) *types.Character {
	return &types.Character{
		ID:              model.ID,
		Name:            model.Name,
		Description:     model.Description,
		Archetype:       types.Archetype(model.Archetype),
		Scenario:        model.Scenario,
		FirstMessage:    model.FirstMessage,
		ExampleDialogue: model.ExampleDialogue,
		SystemPrompt:    model.SystemPrompt,
		AvatarPath:      model.Avatar,
		CreatedAt:       model.CreatedAt,
		UpdatedAt:       model.UpdatedAt,
	}
}
