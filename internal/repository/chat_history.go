package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/easeaico/project-luna/internal/types"
)

// chatMessageModel maps to the chat_history table.
type chatMessageModel struct {
	ID          int `gorm:"primaryKey;autoIncrement"`
	CharacterID string
	Role        string
	Content     string
	CreatedAt   time.Time
}

func (chatMessageModel) TableName() string {
	return "chat_history"
}

// ChatHistoryRepo accesses the rolling conversation log used for prompt
// assembly.
type ChatHistoryRepo struct {
	db *gorm.DB
}

// NewChatHistoryRepo returns a ChatHistoryRepo.
func NewChatHistoryRepo(db *gorm.DB) *ChatHistoryRepo {
	return &ChatHistoryRepo{db: db}
}

// AddMessage appends one turn to the log.
func (r *ChatHistoryRepo) AddMessage(ctx context.Context, characterID, role, content string) error {
	model := chatMessageModel{
		CharacterID: characterID,
		Role:        role,
		Content:     content,
		CreatedAt:   time.Now(),
	}
	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		return fmt.Errorf("failed to insert chat message: %w", err)
	}
	return nil
}

// Recent returns the most recent turns, oldest first.
func (r *ChatHistoryRepo) Recent(ctx context.Context, characterID string, limit int) ([]types.ChatMessage, error) {
	if limit <= 0 {
		limit = 10
	}
	var models []chatMessageModel
	err := r.db.WithContext(ctx).
		Where("character_id = ?", characterID).
		Order("created_at DESC").
		Limit(limit).
		Find(&models).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query chat history: %w", err)
	}

	messages := make([]types.ChatMessage, 0, len(models))
	for i := len(models) - 1; i >= 0; i-- {
		messages = append(messages, types.ChatMessage{Role: models[i].Role, Content: models[i].Content})
	}
	return messages, nil
}
