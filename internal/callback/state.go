// Package callback binds the progression engine to the agent loop.
package callback

import (
	"log/slog"
	"time"

	"google.golang.org/adk/agent"
	"google.golang.org/adk/session"
	"google.golang.org/genai"

	"github.com/easeaico/project-luna/internal/engine"
	"github.com/easeaico/project-luna/internal/prompt"
	"github.com/easeaico/project-luna/internal/types"
)

// NewSessionStateCallback refreshes the prompt's session-state keys from
// the character's progression state before every turn.
func NewSessionStateCallback(eng *engine.Engine, character *types.Character) agent.BeforeAgentCallback {
	return func(cbCtx agent.CallbackContext) (*genai.Content, error) {
		state := cbCtx.State()
		if state == nil {
			slog.Warn("session state is nil, skipping state injection")
			return nil, nil
		}

		now := time.Now()
		st, err := eng.State(cbCtx, character.ID, now)
		if err != nil {
			slog.Error("failed to load progression state", "character_id", character.ID, "error", err.Error())
			return nil, nil
		}

		emotion := st.Emotion.Effective(now)
		setStateValue(state, "Affection", st.Affection)
		setStateValue(state, "Stage", string(st.RelationshipStage))
		setStateValue(state, "Mood", string(emotion.Mood))
		setStateValue(state, "MoodInstruction", prompt.MoodInstruction(emotion.Mood))
		setStateValue(state, "ToneInstruction", prompt.ToneInstruction(st.ToneLevel))
		setStateValue(state, "Now", now.Format(time.RFC3339))

		return nil, nil
	}
}

func setStateValue(state session.State, key string, value any) {
	if err := state.Set(key, value); err != nil {
		// State write failures never block the turn.
		slog.Warn("failed to set session state", "key", key, "error", err.Error())
	}
}
