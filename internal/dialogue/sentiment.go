// Package dialogue classifies user input and generates character replies.
package dialogue

import "strings"

// Sentiment is a keyword classification of one user message.
type Sentiment struct {
	Delta    int
	Positive bool
	Negative bool
}

var (
	strongPositiveKeywords = []string{
		"사랑해",
		"너무 좋아",
		"보고싶어",
		"보고 싶어",
		"안아줘",
		"love you",
		"adore you",
		"miss you",
	}
	positiveKeywords = []string{
		"좋아",
		"고마워",
		"감사",
		"기뻐",
		"행복",
		"귀여워",
		"예뻐",
		"최고",
		"재밌",
		"thank you",
		"thanks",
		"great",
		"good",
		"sweet",
	}
	negativeKeywords = []string{
		"실망",
		"슬퍼",
		"서운",
		"싫어",
		"짜증",
		"화나",
		"지겨워",
		"annoy",
		"upset",
		"sad",
		"bad",
	}
	strongNegativeKeywords = []string{
		"미워",
		"꺼져",
		"닥쳐",
		"최악",
		"헤어져",
		"hate you",
		"fuck",
	}
)

// Classify scores text against the keyword tables. Strong matches weigh 3,
// plain matches 2; opposing matches offset each other.
func Classify(text string) Sentiment {
	lowered := strings.ToLower(text)
	delta := 0
	if containsAny(lowered, strongPositiveKeywords) {
		delta += 3
	}
	if containsAny(lowered, positiveKeywords) {
		delta += 2
	}
	if containsAny(lowered, negativeKeywords) {
		delta -= 2
	}
	if containsAny(lowered, strongNegativeKeywords) {
		delta -= 3
	}
	return Sentiment{Delta: delta, Positive: delta > 0, Negative: delta < 0}
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
