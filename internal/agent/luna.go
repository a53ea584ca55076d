// Package agent assembles the companion agent.
package agent

import (
	"context"
	"fmt"

	"google.golang.org/adk/agent"
	"google.golang.org/adk/agent/llmagent"
	"google.golang.org/adk/model"
	"google.golang.org/adk/model/gemini"
	"google.golang.org/adk/tool"
	"google.golang.org/genai"

	"github.com/easeaico/project-luna/internal/callback"
	"github.com/easeaico/project-luna/internal/config"
	"github.com/easeaico/project-luna/internal/engine"
	"github.com/easeaico/project-luna/internal/handler"
	"github.com/easeaico/project-luna/internal/memory"
	"github.com/easeaico/project-luna/internal/models"
	"github.com/easeaico/project-luna/internal/prompt"
	internaltool "github.com/easeaico/project-luna/internal/tool"
	"github.com/easeaico/project-luna/internal/types"
)

// NewLunaAgent builds the companion agent: model, instruction, command
// handlers, and the progression callbacks around the LLM turn.
func NewLunaAgent(
	ctx context.Context,
	cfg *config.Config,
	game *config.GameConfig,
	character *types.Character,
	eng *engine.Engine,
	memories *memory.Service,
) (agent.Agent, error) {
	if cfg == nil || character == nil || eng == nil {
		return nil, fmt.Errorf("config, character, and engine are required")
	}

	llmModel, err := newChatModel(ctx, cfg)
	if err != nil {
		return nil, err
	}

	instruction, err := prompt.BuildInstruction(character)
	if err != nil {
		return nil, err
	}

	giftHandler, err := handler.NewGiftCommandHandler(character, eng, game.Gifts)
	if err != nil {
		return nil, fmt.Errorf("failed to create gift handler: %w", err)
	}
	stateHandler := handler.NewStateCommandHandler(character, eng)
	photoHandler, err := handler.NewPhotoCommandHandler(ctx, cfg, character, eng)
	if err != nil {
		return nil, fmt.Errorf("failed to create photo handler: %w", err)
	}

	llmAgent, err := llmagent.New(llmagent.Config{
		Name:        "project_luna",
		Description: "호감도와 기억이 자라는 AI 파트너",
		Model:       llmModel,
		Instruction: instruction,
		Tools: []tool.Tool{
			internaltool.NewPreloadMemoryTool(memories, character.ID, cfg.TopK, cfg.SimilarityThreshold),
		},
		BeforeAgentCallbacks: []agent.BeforeAgentCallback{
			callback.WrapBeforeCallback("first_message", callback.NewFirstMessageCallback(character)),
			callback.WrapBeforeCallback("gift_command", giftHandler.Handle),
			callback.WrapBeforeCallback("state_command", stateHandler.Handle),
			callback.WrapBeforeCallback("photo_command", photoHandler.Handle),
			callback.WrapBeforeCallback("session_state", callback.NewSessionStateCallback(eng, character)),
		},
		AfterAgentCallbacks: []agent.AfterAgentCallback{
			callback.WrapAfterCallback("progression", callback.NewProgressionCallback(eng, character)),
		},
		AfterModelCallbacks: []llmagent.AfterModelCallback{
			callback.NewToneCallback(eng, character),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create luna agent: %w", err)
	}

	return llmAgent, nil
}

// newChatModel prefers Grok when an x.ai key is configured, then
// OpenRouter, and falls back to Gemini.
func newChatModel(ctx context.Context, cfg *config.Config) (model.LLM, error) {
	if cfg.XAIAPIKey != "" {
		m, err := models.NewGrokModel(ctx, cfg.LLMModel, &genai.ClientConfig{APIKey: cfg.XAIAPIKey})
		if err != nil {
			return nil, fmt.Errorf("failed to create grok model: %w", err)
		}
		return m, nil
	}
	if cfg.OpenRouterAPIKey != "" {
		m, err := models.NewOpenRouterModel(ctx, cfg.LLMModel, &genai.ClientConfig{APIKey: cfg.OpenRouterAPIKey})
		if err != nil {
			return nil, fmt.Errorf("failed to create openrouter model: %w", err)
		}
		return m, nil
	}

	m, err := gemini.NewModel(ctx, cfg.LLMModel, &genai.ClientConfig{
		APIKey:  cfg.GoogleAPIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini model: %w", err)
	}
	return m, nil
}
