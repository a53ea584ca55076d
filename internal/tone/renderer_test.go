package tone

import (
	"math/rand"
	"strings"
	"testing"

	"github.com/easeaico/project-luna/internal/types"
)

func testLevels() []types.ToneLevelConfig {
	return []types.ToneLevelConfig{
		{
			Level:          1,
			Endings:        []types.EndingRule{{From: "좋아해", To: "좋아해요"}},
			EmojiFrequency: types.EmojiLow,
		},
		{
			Level:          3,
			EmojiFrequency: types.EmojiMedium,
			Emojis:         []string{"😊"},
			Patterns: []types.SpeechPattern{
				{Kind: types.PatternElongation, Words: []string{"좋아"}, Probability: 1},
			},
		},
		{
			Level:          5,
			Endings:        []types.EndingRule{{From: "좋아해", To: "사랑해"}},
			EmojiFrequency: types.EmojiVeryHigh,
			Emojis:         []string{"💕"},
		},
	}
}

func testStyles() []types.ArchetypeStyle {
	return []types.ArchetypeStyle{
		{
			Archetype: types.ArchetypeINFP,
			Styles:    map[int]types.StyleDescriptor{3: types.StylePoetic, 5: types.StylePoetic},
		},
		{
			Archetype: types.ArchetypeENFP,
			Styles:    map[int]types.StyleDescriptor{3: types.StyleEnergetic},
		},
		{
			Archetype: types.ArchetypeINTP,
			Styles:    map[int]types.StyleDescriptor{3: types.StyleConcise},
		},
	}
}

func TestRenderElongation(t *testing.T) {
	// Seed picked so the emoji roll at level 3 stays off either way; the
	// elongation pattern has probability 1 and must always fire.
	r := NewRenderer(testLevels(), nil, rand.New(rand.NewSource(1)))
	got := r.Render("오빠 좋아", 3, types.ArchetypeINFP)
	if !strings.Contains(got, "좋아아") {
		t.Fatalf("expected elongated 좋아아, got %q", got)
	}
}

func TestRenderEndingSubstitutionTopLevel(t *testing.T) {
	r := NewRenderer(testLevels(), nil, rand.New(rand.NewSource(2)))
	got := r.Render("너를 좋아해.", 5, types.ArchetypeISFJ)
	if !strings.Contains(got, "사랑해.") {
		t.Fatalf("expected 사랑해 substitution at level 5, got %q", got)
	}
}

func TestRenderMissingLevelFallsBackToRaw(t *testing.T) {
	r := NewRenderer(nil, nil, rand.New(rand.NewSource(3)))
	raw := "안녕하세요."
	if got := r.Render(raw, 3, types.ArchetypeINFP); got != raw {
		t.Fatalf("missing tone config must return raw text, got %q", got)
	}
}

func TestRenderDeterministicForSeed(t *testing.T) {
	a := NewRenderer(testLevels(), testStyles(), rand.New(rand.NewSource(7)))
	b := NewRenderer(testLevels(), testStyles(), rand.New(rand.NewSource(7)))
	first := a.Render("오늘 뭐 해? 나 심심해.", 5, types.ArchetypeINFP)
	second := b.Render("오늘 뭐 해? 나 심심해.", 5, types.ArchetypeINFP)
	if first != second {
		t.Fatalf("same seed must render identically: %q vs %q", first, second)
	}
}

func TestConciseStyleTruncates(t *testing.T) {
	r := NewRenderer(testLevels(), testStyles(), rand.New(rand.NewSource(11)))
	got := r.Render("먼저 밥 먹자. 그리고 산책 갈까. 영화도 보고.", 3, types.ArchetypeINTP)
	if strings.Contains(got, "산책") {
		t.Fatalf("concise style must keep only the first sentence, got %q", got)
	}
	if !strings.Contains(got, "밥 먹자") {
		t.Fatalf("concise style lost the first sentence: %q", got)
	}
}

func TestEnergeticStyleExclaims(t *testing.T) {
	r := NewRenderer(testLevels(), testStyles(), rand.New(rand.NewSource(13)))
	got := r.Render("내일 보자.", 3, types.ArchetypeENFP)
	if !strings.HasSuffix(strings.TrimSpace(strings.TrimSuffix(got, "😊")), "!") {
		t.Fatalf("energetic style must end with an exclamation, got %q", got)
	}
}

func TestPatternsCompose(t *testing.T) {
	levels := []types.ToneLevelConfig{{
		Level:          2,
		EmojiFrequency: types.EmojiLow,
		Patterns: []types.SpeechPattern{
			{Kind: types.PatternFiller, Filler: "음…", Probability: 1},
			{Kind: types.PatternRepetition, Words: []string{"진짜"}, Probability: 1},
		},
	}}
	r := NewRenderer(levels, nil, rand.New(rand.NewSource(5)))
	got := r.Render("진짜 보고 싶었어", 2, types.ArchetypeESFP)
	if !strings.HasPrefix(got, "음…") {
		t.Fatalf("filler must prefix the text, got %q", got)
	}
	if !strings.Contains(got, "진짜 진짜") {
		t.Fatalf("repetition must duplicate the intensifier, got %q", got)
	}
}
