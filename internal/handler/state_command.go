package handler

import (
	"fmt"
	"strings"
	"time"

	"google.golang.org/adk/agent"
	"google.golang.org/genai"

	"github.com/easeaico/project-luna/internal/engine"
	"github.com/easeaico/project-luna/internal/types"
	"github.com/easeaico/project-luna/internal/utils"
)

// StateCommandHandler answers the /state introspection command with a
// progression summary.
type StateCommandHandler struct {
	character *types.Character
	eng       *engine.Engine
}

// NewStateCommandHandler creates a StateCommandHandler.
func NewStateCommandHandler(character *types.Character, eng *engine.Engine) *StateCommandHandler {
	return &StateCommandHandler{character: character, eng: eng}
}

// Handle is an agent.BeforeAgentCallback that processes the /state command.
func (h *StateCommandHandler) Handle(cbCtx agent.CallbackContext) (*genai.Content, error) {
	trimmed := strings.TrimSpace(utils.ExtractContentText(cbCtx.UserContent()))
	if trimmed != "/state" {
		return nil, nil
	}

	now := time.Now()
	st, err := h.eng.State(cbCtx, h.character.ID, now)
	if err != nil {
		return nil, fmt.Errorf("failed to load state: %w", err)
	}

	emotion := st.Emotion.Effective(now)
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s와의 관계\n", h.character.Name)
	fmt.Fprintf(&sb, "- 호감도: %d/100 (%s)\n", st.Affection, st.RelationshipStage)
	fmt.Fprintf(&sb, "- 기분: %s", emotion.Mood)
	if emotion.Intensity > 0 {
		fmt.Fprintf(&sb, " (강도 %.1f)", emotion.Intensity)
	}
	sb.WriteString("\n")
	fmt.Fprintf(&sb, "- 어조/답장 속도/사진: %d/%d/%d\n", st.ToneLevel, st.ReplySpeedLevel, st.PhotoLevel)
	fmt.Fprintf(&sb, "- 대화 수: %d, 연속 접속일: %d일\n", st.MessageCount, st.ConsecutivePlayDays)
	fmt.Fprintf(&sb, "- 지킨 약속: %d개", st.PromisesKept)

	return genai.NewContentFromText(sb.String(), "model"), nil
}
