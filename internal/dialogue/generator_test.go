package dialogue

import (
	"context"
	"errors"
	"iter"
	"testing"
	"time"

	"google.golang.org/adk/model"
	"google.golang.org/genai"

	"github.com/easeaico/project-luna/internal/prompt"
	"github.com/easeaico/project-luna/internal/state"
	"github.com/easeaico/project-luna/internal/types"
)

type fakeLLM struct {
	text string
	err  error
}

func (f *fakeLLM) Name() string { return "fake" }

func (f *fakeLLM) GenerateContent(ctx context.Context, req *model.LLMRequest, stream bool) iter.Seq2[*model.LLMResponse, error] {
	return func(yield func(*model.LLMResponse, error) bool) {
		if f.err != nil {
			yield(nil, f.err)
			return
		}
		yield(&model.LLMResponse{Content: genai.NewContentFromText(f.text, "model")}, nil)
	}
}

func testBuildContext() prompt.BuildContext {
	now := time.Date(2026, 5, 1, 20, 0, 0, 0, time.UTC)
	return prompt.BuildContext{
		Character:   &types.Character{ID: "yuna", Name: "유나", Archetype: types.ArchetypeINFP},
		State:       state.NewCharacterState("yuna", now),
		UserMessage: "오늘 뭐 했어?",
	}
}

func TestLLMGeneratorReturnsModelText(t *testing.T) {
	gen := NewLLMGenerator(&fakeLLM{text: "  도서관에서 책 읽었어!  "}, prompt.NewBuilder(10))

	reply, err := gen.Generate(context.Background(), testBuildContext())
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	if reply != "도서관에서 책 읽었어!" {
		t.Fatalf("unexpected reply: %q", reply)
	}
}

func TestLLMGeneratorPropagatesModelError(t *testing.T) {
	wantErr := errors.New("upstream down")
	gen := NewLLMGenerator(&fakeLLM{err: wantErr}, prompt.NewBuilder(10))

	if _, err := gen.Generate(context.Background(), testBuildContext()); !errors.Is(err, wantErr) {
		t.Fatalf("expected wrapped model error, got %v", err)
	}
}

func TestLLMGeneratorRejectsEmptyReply(t *testing.T) {
	gen := NewLLMGenerator(&fakeLLM{text: "   "}, prompt.NewBuilder(10))

	if _, err := gen.Generate(context.Background(), testBuildContext()); err == nil {
		t.Fatal("expected error for empty reply")
	}
}
