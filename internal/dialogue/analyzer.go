package dialogue

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/adk/model"
	"google.golang.org/genai"

	"github.com/easeaico/project-luna/internal/types"
)

// Analyzer classifies the mood a user message should put the character in.
type Analyzer struct {
	model model.LLM
}

// NewAnalyzer returns an Analyzer backed by an LLM.
func NewAnalyzer(m model.LLM) *Analyzer {
	return &Analyzer{model: m}
}

// Analyze returns the mood label for text. Callers should fall back to
// Classify when this fails.
func (a *Analyzer) Analyze(ctx context.Context, text string) (types.Mood, error) {
	if a == nil || a.model == nil {
		return types.MoodCalm, fmt.Errorf("mood analyzer not configured")
	}

	if strings.TrimSpace(text) == "" {
		return types.MoodCalm, nil
	}

	system := `You classify how a message makes its recipient feel. Reply with exactly one of: happy, excited, calm, sad, anxious, angry, worried. Output nothing else.`
	req := &model.LLMRequest{
		Contents: []*genai.Content{
			genai.NewContentFromText(system, "system"),
			genai.NewContentFromText(text, "user"),
		},
	}

	seq := a.model.GenerateContent(ctx, req, false)
	var resp *model.LLMResponse
	var err error
	seq(func(r *model.LLMResponse, e error) bool {
		resp = r
		err = e
		return false
	})
	if err != nil {
		return types.MoodCalm, err
	}

	mood := types.Mood(extractLabel(resp))
	if !types.ValidMood(mood) {
		return types.MoodCalm, nil
	}
	return mood, nil
}

func extractLabel(resp *model.LLMResponse) string {
	if resp == nil || resp.Content == nil {
		return ""
	}
	var sb strings.Builder
	for _, part := range resp.Content.Parts {
		if part != nil && part.Text != "" {
			sb.WriteString(part.Text)
		}
	}
	return strings.ToLower(strings.TrimSpace(sb.String()))
}
