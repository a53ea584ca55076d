// Package repository provides PostgreSQL persistence for character
// profiles, progression state, chat history, and long-term memories.
package repository

import (
	"context"
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Store holds the DB pool and repositories.
type Store struct {
	db         *gorm.DB
	Characters *CharacterRepo
	States     *StateRepo
	Memories   *MemoryRepo
	History    *ChatHistoryRepo
}

// NewStore initializes the PostgreSQL pool and repositories.
func NewStore(ctx context.Context, databaseURL string) (*Store, error) {
	db, err := gorm.Open(postgres.Open(databaseURL), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to open gorm database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql db: %w", err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Store{
		db:         db,
		Characters: NewCharacterRepo(db),
		States:     NewStateRepo(db),
		Memories:   NewMemoryRepo(db),
		History:    NewChatHistoryRepo(db),
	}, nil
}

// AutoMigrate creates or updates the application tables. The memories
// table needs the pgvector extension, so its schema comes from SQL
// migrations instead.
func (s *Store) AutoMigrate() error {
	if err := s.db.AutoMigrate(&characterModel{}, &chatMessageModel{}, &stateModel{}); err != nil {
		return fmt.Errorf("failed to auto migrate: %w", err)
	}
	return nil
}

// DB exposes the underlying pool.
func (s *Store) DB() *gorm.DB {
	return s.db
}

// Close releases the underlying pool.
func (s *Store) Close() {
	if s.db == nil {
		return
	}
	sqlDB, err := s.db.DB()
	if err != nil {
		return
	}
	_ = sqlDB.Close()
}
