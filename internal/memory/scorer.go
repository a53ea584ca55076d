// Package memory scores conversational turns and files them into the
// tiered working / short-term / long-term stores.
package memory

import (
	"strings"

	"github.com/easeaico/project-luna/internal/types"
)

const (
	baseScore           = 5
	personalInfoScore   = 20
	promiseScore        = 25
	emotionScore        = 15
	questionScore       = 10
	largeDeltaScore     = 30
	mediumDeltaScore    = 20
	eventTriggeredScore = 20
	emotionChangedScore = 10

	largeDeltaThreshold  = 5
	mediumDeltaThreshold = 3

	// Tier thresholds: records at or above move down a tier instead of
	// being dropped when working memory overflows.
	LongTermThreshold  = 70
	ShortTermThreshold = 40
)

var personalInfoKeywords = []string{
	"생일", "가족", "고향", "회사", "직장", "전공", "나이",
	"birthday", "family", "hometown", "my job", "my name",
}

var promiseKeywords = []string{
	"약속", "꼭", "반드시", "할게", "다음에 같이",
	"promise", "i will", "let's plan",
}

var emotionKeywords = []string{
	"사랑", "좋아", "행복", "슬퍼", "화나", "보고 싶", "외로",
	"love", "happy", "sad", "angry", "miss you", "lonely",
}

var preferenceKeywords = []string{
	"좋아하는", "제일 좋아", "싫어", "취미",
	"favorite", "prefer", "hate",
}

// ScoreInput carries the per-turn signals the scorer combines.
type ScoreInput struct {
	Content        string
	AffectionDelta int
	EventTriggered bool
	EmotionChanged bool
}

// Score computes the turn's importance in [0,100] from additive keyword,
// delta, and event signals.
func Score(in ScoreInput) int {
	lowered := strings.ToLower(in.Content)
	score := baseScore

	if containsAny(lowered, personalInfoKeywords) {
		score += personalInfoScore
	}
	if containsAny(lowered, promiseKeywords) {
		score += promiseScore
	}
	if containsAny(lowered, emotionKeywords) {
		score += emotionScore
	}
	if isQuestion(in.Content) {
		score += questionScore
	}

	delta := in.AffectionDelta
	if delta < 0 {
		delta = -delta
	}
	switch {
	case delta >= largeDeltaThreshold:
		score += largeDeltaScore
	case delta >= mediumDeltaThreshold:
		score += mediumDeltaScore
	}

	if in.EventTriggered {
		score += eventTriggeredScore
	}
	if in.EmotionChanged {
		score += emotionChangedScore
	}

	if score > 100 {
		score = 100
	}
	return score
}

// MatchedKeywords returns the keyword hits recorded alongside a memory.
func MatchedKeywords(content string) []string {
	lowered := strings.ToLower(content)
	var matched []string
	for _, group := range [][]string{personalInfoKeywords, promiseKeywords, emotionKeywords, preferenceKeywords} {
		for _, kw := range group {
			if strings.Contains(lowered, kw) {
				matched = append(matched, kw)
			}
		}
	}
	return matched
}

// Categorize picks the long-term partition for a record. Promise keywords
// win over personal info, which wins over preferences; everything else is
// a shared experience.
func Categorize(content string) types.MemoryCategory {
	lowered := strings.ToLower(content)
	switch {
	case containsAny(lowered, promiseKeywords):
		return types.CategoryPromises
	case containsAny(lowered, personalInfoKeywords):
		return types.CategoryPersonalInfo
	case containsAny(lowered, preferenceKeywords):
		return types.CategoryPreferences
	default:
		return types.CategorySharedExperiences
	}
}

func containsAny(text string, keywords []string) bool {
	for _, keyword := range keywords {
		if keyword == "" {
			continue
		}
		if strings.Contains(text, keyword) {
			return true
		}
	}
	return false
}

func isQuestion(content string) bool {
	trimmed := strings.TrimSpace(content)
	return strings.HasSuffix(trimmed, "?") || strings.HasSuffix(trimmed, "？") ||
		strings.Contains(trimmed, "?") || strings.Contains(trimmed, "？")
}
