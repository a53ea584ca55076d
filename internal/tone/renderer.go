// Package tone renders raw dialogue text into the register implied by the
// current tone level and personality archetype.
package tone

import (
	"math/rand"
	"strings"

	"github.com/easeaico/project-luna/internal/types"
)

var sentenceEnders = []rune{'.', '!', '?', '…', '。', '！', '？'}

// Renderer applies the four-stage tone pipeline: ending substitution,
// emoji injection, speech-pattern effects, then the archetype style
// overlay. Output is deterministic for a seeded rng.
type Renderer struct {
	levels map[int]types.ToneLevelConfig
	styles map[types.Archetype]types.ArchetypeStyle
	rng    *rand.Rand
}

// NewRenderer builds a renderer from loaded tone config. A nil rng falls
// back to the global source.
func NewRenderer(levels []types.ToneLevelConfig, styles []types.ArchetypeStyle, rng *rand.Rand) *Renderer {
	lm := make(map[int]types.ToneLevelConfig, len(levels))
	for _, lvl := range levels {
		lm[lvl.Level] = lvl
	}
	sm := make(map[types.Archetype]types.ArchetypeStyle, len(styles))
	for _, st := range styles {
		sm[st.Archetype] = st
	}
	return &Renderer{levels: lm, styles: sm, rng: rng}
}

// Render transforms raw text for the given tone level and archetype. When
// the tone config for the level is missing the raw text is returned
// untouched: a failed render never blocks delivery.
func (r *Renderer) Render(raw string, toneLevel int, archetype types.Archetype) string {
	if raw == "" {
		return raw
	}
	level, ok := r.levels[toneLevel]
	if !ok {
		return raw
	}

	text := substituteEndings(raw, level.Endings)
	text = r.injectEmoji(text, level)
	text = r.applyPatterns(text, level.Patterns)
	if style, ok := r.styles[archetype]; ok {
		text = r.applyPatterns(text, style.Patterns)
		text = applyStyle(text, style.Styles[toneLevel])
	}
	return text
}

func (r *Renderer) roll(p float64) bool {
	if p >= 1 {
		return true
	}
	if p <= 0 {
		return false
	}
	if r.rng != nil {
		return r.rng.Float64() < p
	}
	return rand.Float64() < p
}

func (r *Renderer) pick(items []string) string {
	if len(items) == 0 {
		return ""
	}
	if r.rng != nil {
		return items[r.rng.Intn(len(items))]
	}
	return items[rand.Intn(len(items))]
}

// substituteEndings replaces sentence-final suffixes per the level's
// register rules.
func substituteEndings(text string, rules []types.EndingRule) string {
	if len(rules) == 0 {
		return text
	}
	sentences := splitSentences(text)
	for i, sentence := range sentences {
		body, punct := trimEnders(sentence)
		for _, rule := range rules {
			if strings.HasSuffix(body, rule.From) {
				body = strings.TrimSuffix(body, rule.From) + rule.To
				break
			}
		}
		sentences[i] = body + punct
	}
	return strings.Join(sentences, "")
}

func (r *Renderer) injectEmoji(text string, level types.ToneLevelConfig) string {
	if !r.roll(level.EmojiFrequency.Probability()) {
		return text
	}
	emoji := r.pick(level.Emojis)
	if emoji == "" {
		return text
	}
	return text + " " + emoji
}

// applyPatterns rolls each configured effect independently so multiple
// effects can compose on one message.
func (r *Renderer) applyPatterns(text string, patterns []types.SpeechPattern) string {
	for _, p := range patterns {
		if !r.roll(p.Probability) {
			continue
		}
		switch p.Kind {
		case types.PatternElongation:
			text = elongate(text, p.Words)
		case types.PatternRepetition:
			text = repeatWord(text, p.Words)
		case types.PatternFiller:
			if p.Filler != "" {
				text = p.Filler + " " + text
			}
		case types.PatternAffectionTag:
			text = p.Prefix + text + p.Suffix
		}
	}
	return text
}

// elongate repeats the final rune of the first matched word.
func elongate(text string, words []string) string {
	for _, w := range words {
		idx := strings.Index(text, w)
		if idx < 0 {
			continue
		}
		runes := []rune(w)
		if len(runes) == 0 {
			continue
		}
		stretched := w + string(runes[len(runes)-1])
		return text[:idx] + stretched + text[idx+len(w):]
	}
	return text
}

// repeatWord duplicates the first matched intensifier.
func repeatWord(text string, words []string) string {
	for _, w := range words {
		idx := strings.Index(text, w)
		if idx < 0 {
			continue
		}
		return text[:idx] + w + " " + w + text[idx+len(w):]
	}
	return text
}

// applyStyle applies the archetype's deterministic per-level edit.
func applyStyle(text string, style types.StyleDescriptor) string {
	switch style {
	case types.StyleConcise:
		sentences := splitSentences(text)
		if len(sentences) > 1 {
			return strings.TrimSpace(sentences[0])
		}
		return text
	case types.StyleEnergetic:
		body, punct := trimEnders(text)
		if punct == "" || strings.ContainsAny(punct, ".。") {
			return body + "!"
		}
		return text
	case types.StylePoetic:
		if strings.HasSuffix(text, "…") || strings.HasSuffix(text, "...") {
			return text
		}
		body, _ := trimEnders(text)
		return body + "…"
	case types.StyleGentle:
		return strings.ReplaceAll(text, "!", ".")
	case types.StylePlayful:
		if strings.HasSuffix(text, "ㅎㅎ") {
			return text
		}
		return text + " ㅎㅎ"
	default:
		return text
	}
}

// splitSentences cuts text after each sentence-ending rune, keeping the
// punctuation attached to its sentence.
func splitSentences(text string) []string {
	var out []string
	var sb strings.Builder
	for _, r := range text {
		sb.WriteRune(r)
		if isEnder(r) {
			out = append(out, sb.String())
			sb.Reset()
		}
	}
	if sb.Len() > 0 {
		out = append(out, sb.String())
	}
	return out
}

// trimEnders splits trailing sentence punctuation off the text.
func trimEnders(text string) (body, punct string) {
	runes := []rune(text)
	i := len(runes)
	for i > 0 && isEnder(runes[i-1]) {
		i--
	}
	return string(runes[:i]), string(runes[i:])
}

func isEnder(r rune) bool {
	for _, e := range sentenceEnders {
		if r == e {
			return true
		}
	}
	return false
}
