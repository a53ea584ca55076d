// Package handler processes slash commands before they reach the LLM.
package handler

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strings"
	"text/template"
	"time"

	"google.golang.org/adk/agent"
	"google.golang.org/genai"

	"github.com/easeaico/project-luna/internal/config"
	"github.com/easeaico/project-luna/internal/engine"
	"github.com/easeaico/project-luna/internal/models"
	"github.com/easeaico/project-luna/internal/types"
	"github.com/easeaico/project-luna/internal/utils"
)

// minPhotoLevel gates photo sharing until the relationship has warmed up.
const minPhotoLevel = 2

// ImageService defines the interface for image generation services.
type ImageService interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// PhotoCommandHandler processes the /photo command. Whether the character
// shares a photo depends on the relationship's photo level.
type PhotoCommandHandler struct {
	character    *types.Character
	eng          *engine.Engine
	imageService ImageService
	templates    *template.Template
}

const (
	tplShy     = "shy"
	tplError   = "error"
	tplSuccess = "success"
)

var photoTemplatesText = `
{{define "shy"}}{{.Name}}: "사진은... 아직 좀 부끄러운데. 우리 더 친해지면 보여줄게!"{{end}}
{{define "error"}}{{.Name}}: "앗, 카메라가 말썽이야. 조금 있다가 다시 찍어볼게!"{{end}}
{{define "success"}}
{{.Name}}: "짜잔, 방금 찍은 거야!"

![사진]({{.URL}})
{{end}}
`

// NewPhotoCommandHandler creates a PhotoCommandHandler.
func NewPhotoCommandHandler(ctx context.Context, cfg *config.Config, character *types.Character, eng *engine.Engine) (*PhotoCommandHandler, error) {
	imageService, err := models.NewGeminiImageGenerator(ctx, cfg.GoogleAPIKey, cfg.ImageModel, cfg.AspectRatio)
	if err != nil {
		return nil, fmt.Errorf("failed to create image generator: %w", err)
	}

	tmpl, err := template.New("photo").Parse(photoTemplatesText)
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	return &PhotoCommandHandler{
		character:    character,
		eng:          eng,
		imageService: imageService,
		templates:    tmpl,
	}, nil
}

// Handle is an agent.BeforeAgentCallback that processes the /photo command.
func (h *PhotoCommandHandler) Handle(cbCtx agent.CallbackContext) (*genai.Content, error) {
	trimmed := strings.TrimSpace(utils.ExtractContentText(cbCtx.UserContent()))
	if trimmed != "/photo" && !strings.HasPrefix(trimmed, "/photo ") {
		return nil, nil
	}

	st, err := h.eng.State(cbCtx, h.character.ID, time.Now())
	if err != nil {
		slog.Error("failed to load state for photo command", "error", err.Error())
		return h.renderResponse(tplError, nil)
	}
	if st.PhotoLevel < minPhotoLevel {
		return h.renderResponse(tplShy, nil)
	}

	request := strings.TrimSpace(strings.TrimPrefix(trimmed, "/photo"))
	prompt := h.buildPrompt(request)

	imageURL, err := h.imageService.Generate(cbCtx, prompt)
	if err != nil {
		slog.Error("failed to generate photo", "error", err.Error())
		return h.renderResponse(tplError, nil)
	}

	return h.renderResponse(tplSuccess, map[string]any{"URL": imageURL})
}

func (h *PhotoCommandHandler) buildPrompt(request string) string {
	var sb strings.Builder
	sb.WriteString("A casual selfie-style photo of ")
	sb.WriteString(h.character.Name)
	if h.character.Description != "" {
		sb.WriteString(", ")
		sb.WriteString(h.character.Description)
	}
	if request != "" {
		sb.WriteString(". ")
		sb.WriteString(request)
	}
	return sb.String()
}

func (h *PhotoCommandHandler) renderResponse(name string, data map[string]any) (*genai.Content, error) {
	if data == nil {
		data = map[string]any{}
	}
	if h.character != nil {
		data["Name"] = h.character.Name
	}

	var buf bytes.Buffer
	if err := h.templates.ExecuteTemplate(&buf, name, data); err != nil {
		slog.Error("failed to execute template", "template", name, "error", err.Error())
		return genai.NewContentFromText("요청을 처리하지 못했어요.", "model"), nil
	}

	return genai.NewContentFromText(strings.TrimSpace(buf.String()), "model"), nil
}
