package dialogue

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/adk/model"

	"github.com/easeaico/project-luna/internal/prompt"
)

// LLMGenerator produces reply text from the assembled prompt. It backs
// the headless pipeline; the agent path generates through the llmagent
// instead.
type LLMGenerator struct {
	model   model.LLM
	builder *prompt.Builder
}

// NewLLMGenerator returns a generator over an LLM and a prompt builder.
func NewLLMGenerator(m model.LLM, builder *prompt.Builder) *LLMGenerator {
	return &LLMGenerator{model: m, builder: builder}
}

// Generate assembles the prompt for bc and returns the model's text.
func (g *LLMGenerator) Generate(ctx context.Context, bc prompt.BuildContext) (string, error) {
	if g == nil || g.model == nil || g.builder == nil {
		return "", fmt.Errorf("generator not configured")
	}

	contents, err := g.builder.Build(bc)
	if err != nil {
		return "", err
	}

	req := &model.LLMRequest{Contents: contents}
	var sb strings.Builder
	for resp, genErr := range g.model.GenerateContent(ctx, req, false) {
		if genErr != nil {
			return "", fmt.Errorf("failed to generate reply: %w", genErr)
		}
		if resp == nil || resp.Content == nil {
			continue
		}
		for _, part := range resp.Content.Parts {
			if part != nil && part.Text != "" {
				sb.WriteString(part.Text)
			}
		}
	}

	reply := strings.TrimSpace(sb.String())
	if reply == "" {
		return "", fmt.Errorf("model returned empty reply")
	}
	return reply, nil
}
