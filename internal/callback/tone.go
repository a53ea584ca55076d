package callback

import (
	"log/slog"
	"strings"
	"time"

	"google.golang.org/adk/agent"
	"google.golang.org/adk/agent/llmagent"
	"google.golang.org/adk/model"
	"google.golang.org/genai"

	"github.com/easeaico/project-luna/internal/engine"
	"github.com/easeaico/project-luna/internal/types"
	"github.com/easeaico/project-luna/internal/utils"
)

const moodIntensity = 0.6

// NewToneCallback parses the model's structured output, updates the
// character's mood, and rewrites the content with the tone-rendered reply
// so the user only sees the reply text.
func NewToneCallback(eng *engine.Engine, character *types.Character) llmagent.AfterModelCallback {
	return func(ctx agent.CallbackContext, resp *model.LLMResponse, err error) (*model.LLMResponse, error) {
		if err != nil {
			return nil, err
		}
		if resp == nil || resp.Content == nil {
			return nil, nil
		}
		if resp.Partial {
			return nil, nil
		}

		text := strings.TrimSpace(utils.ExtractContentText(resp.Content))
		if text == "" {
			return nil, nil
		}

		now := time.Now()
		parsed, parseErr := utils.ParseRoleplayOutput(text)
		if parseErr != nil {
			// Unstructured output still reaches the user, tone-rendered.
			slog.Warn("failed to parse roleplay output", "error", parseErr.Error())
			resp.Content = genai.NewContentFromText(eng.RenderReply(ctx, character, text, now), "assistant")
			return resp, nil
		}

		if updateErr := eng.SetMood(ctx, character.ID, types.Mood(parsed.Mood), moodIntensity, now); updateErr != nil {
			slog.Error("failed to update mood", "error", updateErr.Error())
		}

		resp.Content = genai.NewContentFromText(eng.RenderReply(ctx, character, parsed.Reply, now), "assistant")
		return resp, nil
	}
}
