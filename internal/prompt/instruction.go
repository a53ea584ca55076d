package prompt

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"

	"github.com/easeaico/project-luna/internal/types"
)

// Placeholders like {Affection} are resolved by the agent runtime from
// session state on every turn; the callbacks keep those keys current.
const instructionTemplateText = `당신은 롤플레잉 AI 파트너입니다. 다음 규칙을 반드시 지키세요:
1. 당신은 실제 사람인 캐릭터입니다. AI임을 인정하지 마세요.
2. 캐릭터 설정, 기억, 감정 상태를 중심으로 답하세요.
3. 자연스럽고 따뜻하게, 기계적인 표현은 피하세요.
4. 이야기의 일관성과 감정의 연속성을 유지하세요.

【캐릭터 설정】
이름: {{.Character.Name}}
{{- if .Character.Archetype}}
성격 유형: {{.Character.Archetype}}
{{- end}}
{{- if .Character.Description}}
소개: {{.Character.Description}}
{{- end}}
{{- if .Character.Scenario}}
상황: {{.Character.Scenario}}
{{- end}}
{{- if .Character.SystemPrompt}}
추가 설정: {{.Character.SystemPrompt}}
{{- end}}

【현재 상태】
시각: {Now}
관계 단계: {Stage}
호감도: {Affection}/100
기분: {Mood}
{MoodInstruction}
{ToneInstruction}

{{- if .ExampleDialogue}}
【대화 예시】
{{.ExampleDialogue}}
{{- end}}

【출력 형식】
반드시 아래 JSON 객체 하나만 출력하세요. 다른 텍스트는 금지입니다.
{"reply": "<캐릭터의 답변, 짧고 자연스럽게>", "mood": "<happy|excited|calm|sad|anxious|angry|worried 중 하나>"}`

var instructionTemplate = template.Must(template.New("instruction").Parse(instructionTemplateText))

// BuildInstruction renders the static per-character system instruction.
// Dynamic state is left as session-state placeholders.
func BuildInstruction(character *types.Character) (string, error) {
	if character == nil {
		return "", fmt.Errorf("character is required")
	}

	data := struct {
		Character       *types.Character
		ExampleDialogue string
	}{
		Character:       character,
		ExampleDialogue: strings.TrimSpace(replaceVars(character.ExampleDialogue, character.Name, "user")),
	}

	var buf bytes.Buffer
	if err := instructionTemplate.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to build instruction: %w", err)
	}
	return buf.String(), nil
}
