package state

import (
	"context"

	"github.com/easeaico/project-luna/internal/types"
)

// Repo defines state load and save behavior. GetState returns nil with no
// error when the character has no stored state yet.
type Repo interface {
	GetState(ctx context.Context, characterID string) (*types.CharacterState, error)
	SaveState(ctx context.Context, state types.CharacterState) error
}
