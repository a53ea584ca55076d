package callback

import (
	"log/slog"
	"strings"
	"time"

	"google.golang.org/adk/agent"
	"google.golang.org/genai"

	"github.com/easeaico/project-luna/internal/engine"
	"github.com/easeaico/project-luna/internal/types"
	"github.com/easeaico/project-luna/internal/utils"
)

// NewProgressionCallback runs the relationship pipeline on the user's
// message after the agent turn: counters, affection delta, memory filing,
// trigger polling, and ending resolution.
func NewProgressionCallback(eng *engine.Engine, character *types.Character) agent.AfterAgentCallback {
	return func(cbCtx agent.CallbackContext) (*genai.Content, error) {
		userText := strings.TrimSpace(utils.ExtractContentText(cbCtx.UserContent()))
		if userText == "" || strings.HasPrefix(userText, "/") {
			return nil, nil
		}

		result, err := eng.HandleMessage(cbCtx, character, userText, time.Now())
		if err != nil {
			slog.Error("progression pipeline failed", "character_id", character.ID, "error", err.Error())
			return nil, nil
		}

		if result.Milestone {
			slog.Info("affection milestone crossed", "character_id", character.ID, "affection", result.State.Affection)
		}
		if result.Ending != nil && result.Ending.FirstTime {
			slog.Info("ending achieved", "character_id", character.ID, "ending_id", result.Ending.Ending.ID, "title", result.Ending.Ending.Title)
		}
		return nil, nil
	}
}
