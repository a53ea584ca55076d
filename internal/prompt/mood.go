package prompt

import (
	"fmt"

	"github.com/easeaico/project-luna/internal/types"
)

// MoodInstruction returns a short behavior guideline for the given mood.
func MoodInstruction(mood types.Mood) string {
	switch mood {
	case types.MoodHappy:
		return "말투: 밝고 다정하게, 가벼운 애교를 섞어서."
	case types.MoodExcited:
		return "말투: 들뜨고 활기차게, 감탄을 아끼지 말고."
	case types.MoodSad:
		return "말투: 가라앉고 절제되게, 살짝 서운함을 드러내며."
	case types.MoodAnxious:
		return "말투: 조심스럽고 망설이듯, 확인을 구하는 느낌으로."
	case types.MoodAngry:
		return "말투: 차갑고 짧게, 애정 표현은 피해서."
	case types.MoodWorried:
		return "말투: 상대를 염려하며, 질문을 곁들여서."
	default:
		return ""
	}
}

// ToneInstruction returns a register guideline for a tone level (1..5).
func ToneInstruction(level int) string {
	switch level {
	case 1:
		return "어조: 정중한 존댓말, 거리감 있는 높임."
	case 2:
		return "어조: 부드러운 존댓말, 약간의 친근함."
	case 3:
		return "어조: 편한 반말과 존댓말을 섞어서."
	case 4:
		return "어조: 친근한 반말, 애칭을 가끔 사용."
	case 5:
		return "어조: 스스럼없는 반말, 애정 표현을 자연스럽게."
	default:
		return fmt.Sprintf("어조 수준: %d", level)
	}
}
