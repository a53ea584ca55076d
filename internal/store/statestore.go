package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/easeaico/project-luna/internal/types"
)

// StateStore adapts a KV Store into the state repo contract, serializing
// CharacterState as JSON under "state:{characterId}".
type StateStore struct {
	kv Store
}

// NewStateStore wraps a KV store.
func NewStateStore(kv Store) *StateStore {
	return &StateStore{kv: kv}
}

// GetState loads a character's state blob. Absent keys return nil so the
// caller can distinguish not-found from failure.
func (s *StateStore) GetState(ctx context.Context, characterID string) (*types.CharacterState, error) {
	raw, err := s.kv.Load(ctx, StateKey(characterID))
	if err != nil {
		return nil, err
	}
	if raw == nil {
		return nil, nil
	}
	var state types.CharacterState
	if err := json.Unmarshal(raw, &state); err != nil {
		return nil, fmt.Errorf("failed to decode state for %s: %w", characterID, err)
	}
	return &state, nil
}

// SaveState persists a character's state blob.
func (s *StateStore) SaveState(ctx context.Context, state types.CharacterState) error {
	raw, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to encode state for %s: %w", state.CharacterID, err)
	}
	return s.kv.Save(ctx, StateKey(state.CharacterID), raw)
}
