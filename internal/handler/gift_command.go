package handler

import (
	"bytes"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"text/template"
	"time"

	"google.golang.org/adk/agent"
	"google.golang.org/genai"

	"github.com/easeaico/project-luna/internal/engine"
	"github.com/easeaico/project-luna/internal/types"
	"github.com/easeaico/project-luna/internal/utils"
)

// GiftCommandHandler processes the /gift command through the progression
// engine and answers in character.
type GiftCommandHandler struct {
	character *types.Character
	eng       *engine.Engine
	gifts     []string
	templates *template.Template
}

const (
	tplGiftUsage     = "gift_usage"
	tplGiftThanks    = "gift_thanks"
	tplGiftMilestone = "gift_milestone"
)

var giftTemplatesText = `
{{define "gift_usage"}}{{.Name}}: "선물? 뭘 준비했는데? 이렇게 써줘: /gift {{.Categories}}"{{end}}
{{define "gift_thanks"}}{{.Name}}: "우와, {{.Category}} 고마워! 정말 기뻐!" (호감도 {{.Affection}}){{end}}
{{define "gift_milestone"}}{{.Name}}: "이런 걸 다 준비했어...? 오늘 진짜 특별한 날이다." (호감도 {{.Affection}}, 관계가 한 단계 깊어졌어요){{end}}
`

// NewGiftCommandHandler creates a GiftCommandHandler. The category list is
// shown in the usage reply.
func NewGiftCommandHandler(character *types.Character, eng *engine.Engine, giftTable map[string]types.GiftEffect) (*GiftCommandHandler, error) {
	tmpl, err := template.New("gift").Parse(giftTemplatesText)
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	gifts := make([]string, 0, len(giftTable))
	for category := range giftTable {
		gifts = append(gifts, category)
	}
	sort.Strings(gifts)

	return &GiftCommandHandler{
		character: character,
		eng:       eng,
		gifts:     gifts,
		templates: tmpl,
	}, nil
}

// Handle is an agent.BeforeAgentCallback that processes the /gift command.
func (h *GiftCommandHandler) Handle(cbCtx agent.CallbackContext) (*genai.Content, error) {
	trimmed := strings.TrimSpace(utils.ExtractContentText(cbCtx.UserContent()))
	if trimmed != "/gift" && !strings.HasPrefix(trimmed, "/gift ") {
		return nil, nil
	}

	category := strings.TrimSpace(strings.TrimPrefix(trimmed, "/gift"))
	if category == "" {
		return h.renderResponse(tplGiftUsage, map[string]any{
			"Categories": strings.Join(h.gifts, "|"),
		})
	}

	result, err := h.eng.HandleGift(cbCtx, h.character, category, time.Now())
	if err != nil {
		slog.Error("failed to apply gift", "category", category, "error", err.Error())
		return nil, fmt.Errorf("failed to apply gift: %w", err)
	}

	tpl := tplGiftThanks
	if result.Milestone {
		tpl = tplGiftMilestone
	}
	return h.renderResponse(tpl, map[string]any{
		"Category":  category,
		"Affection": result.State.Affection,
	})
}

func (h *GiftCommandHandler) renderResponse(name string, data map[string]any) (*genai.Content, error) {
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
