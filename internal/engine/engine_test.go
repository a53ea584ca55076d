package engine

import (
	"context"
	"math/rand"
	"testing"
	"time"

	"github.com/easeaico/project-luna/internal/ending"
	"github.com/easeaico/project-luna/internal/memory"
	"github.com/easeaico/project-luna/internal/prompt"
	"github.com/easeaico/project-luna/internal/state"
	"github.com/easeaico/project-luna/internal/tone"
	"github.com/easeaico/project-luna/internal/trigger"
	"github.com/easeaico/project-luna/internal/types"
)

var testNow = time.Date(2026, 5, 1, 20, 0, 0, 0, time.UTC)

type fakeStateRepo struct {
	states map[string]types.CharacterState
}

func newFakeStateRepo() *fakeStateRepo {
	return &fakeStateRepo{states: make(map[string]types.CharacterState)}
}

func (r *fakeStateRepo) GetState(_ context.Context, characterID string) (*types.CharacterState, error) {
	st, ok := r.states[characterID]
	if !ok {
		return nil, nil
	}
	return &st, nil
}

func (r *fakeStateRepo) SaveState(_ context.Context, st types.CharacterState) error {
	r.states[st.CharacterID] = st
	return nil
}

type fakeGenerator struct {
	reply  string
	gotCtx prompt.BuildContext
}

func (g *fakeGenerator) Generate(_ context.Context, bc prompt.BuildContext) (string, error) {
	g.gotCtx = bc
	return g.reply, nil
}

func testCharacter() *types.Character {
	return &types.Character{ID: "yuna", Name: "유나", Archetype: types.ArchetypeENFP}
}

func testDeps(repo *fakeStateRepo) Deps {
	return Deps{
		Machine:  state.NewMachine(nil),
		States:   repo,
		Memories: memory.NewService(nil, nil),
		Renderer: tone.NewRenderer(nil, nil, rand.New(rand.NewSource(1))),
	}
}

func TestHandleMessageUpdatesStateAndReplies(t *testing.T) {
	repo := newFakeStateRepo()
	deps := testDeps(repo)
	gen := &fakeGenerator{reply: "나도 보고 싶었어!"}
	deps.Generator = gen
	e := New(deps)

	result, err := e.HandleMessage(context.Background(), testCharacter(), "사랑해", testNow)
	if err != nil {
		t.Fatalf("HandleMessage: %v", err)
	}

	if result.State.Affection != 3 {
		t.Errorf("affection = %d, want 3", result.State.Affection)
	}
	if result.State.MessageCount != 1 || result.State.ConsecutivePositive != 1 {
		t.Errorf("counters = %d/%d, want 1/1", result.State.MessageCount, result.State.ConsecutivePositive)
	}
	if got := result.State.Emotion.Effective(testNow).Mood; got != types.MoodExcited {
		t.Errorf("mood = %s, want excited", got)
	}
	if result.Reply != "나도 보고 싶었어!" {
		t.Errorf("reply = %q", result.Reply)
	}
	if gen.gotCtx.UserMessage != "사랑해" {
		t.Errorf("generator got user message %q", gen.gotCtx.UserMessage)
	}
	if saved, ok := repo.states["yuna"]; !ok || saved.Affection != 3 {
		t.Error("state not persisted")
	}
}

func TestHandleMessageRejectsEmptyInput(t *testing.T) {
	e := New(testDeps(newFakeStateRepo()))
	if _, err := e.HandleMessage(context.Background(), testCharacter(), "", testNow); err == nil {
		t.Error("expected error for empty message")
	}
	if _, err := e.HandleMessage(context.Background(), nil, "hi", testNow); err == nil {
		t.Error("expected error for nil character")
	}
}

func TestHandleGiftAppliesEffect(t *testing.T) {
	repo := newFakeStateRepo()
	deps := testDeps(repo)
	deps.Machine = state.NewMachine(map[string]types.GiftEffect{
		"flower": {AffectionDelta: 2, MoodDelta: 2},
	})
	e := New(deps)

	result, err := e.HandleGift(context.Background(), testCharacter(), "flower", testNow)
	if err != nil {
		t.Fatalf("HandleGift: %v", err)
	}
	if result.State.Affection != 2 {
		t.Errorf("affection = %d, want 2", result.State.Affection)
	}
	if got := result.State.Emotion.Effective(testNow).Mood; got != types.MoodHappy {
		t.Errorf("mood = %s, want happy", got)
	}
}

func TestPollFiresProactiveContactOnce(t *testing.T) {
	repo := newFakeStateRepo()
	deps := testDeps(repo)
	style := types.ArchetypeStyle{
		Archetype: types.ArchetypeENFP,
		ContactTemplates: map[types.TimeBucket][]string{
			types.BucketEvening: {"지금 뭐해?!"},
		},
	}
	deps.Evaluator = trigger.NewEvaluator([]types.ArchetypeStyle{style}, nil, nil, rand.New(rand.NewSource(1)))
	e := New(deps)

	st := state.NewCharacterState("yuna", testNow.Add(-2*time.Hour))
	st, _ = deps.Machine.ApplyAffectionDelta(st, 50, testNow.Add(-2*time.Hour))
	responded := testNow.Add(-time.Minute)
	st.LastUserResponseTime = &responded
	repo.states["yuna"] = st

	fired, err := e.Poll(context.Background(), testCharacter(), testNow)
	if err != nil {
		t.Fatalf("Poll: %v", err)
	}
	if fired == nil || fired.Type != types.TriggerProactiveContact {
		t.Fatalf("fired = %+v, want proactive contact", fired)
	}

	m, ok := e.Queue().Tick()
	if !ok || m.Text != "지금 뭐해?!" {
		t.Errorf("queued = %+v, %v", m, ok)
	}

	saved := repo.states["yuna"]
	if saved.ContactCount != 1 || saved.LastContactTime == nil {
		t.Error("contact bookkeeping not applied")
	}

	// The interval restarts from the contact just sent.
	again, err := e.Poll(context.Background(), testCharacter(), testNow)
	if err != nil {
		t.Fatalf("second Poll: %v", err)
	}
	if again != nil {
		t.Errorf("second Poll fired %+v, want nil", again)
	}
}

func TestPollMarksOneShotEvent(t *testing.T) {
	repo := newFakeStateRepo()
	deps := testDeps(repo)
	min := 10
	event := types.SpecialEvent{
		ID:             "secret",
		Level:          3,
		Hidden:         true,
		Once:           true,
		Message:        "할 말이 있어.",
		AffectionDelta: 5,
		Condition:      types.EventCondition{Type: types.CondAffectionRange, MinAffection: &min},
	}
	deps.Evaluator = trigger.NewEvaluator(nil, []types.SpecialEvent{event}, nil, rand.New(rand.NewSource(1)))
	e := New(deps)

	st := state.NewCharacterState("yuna", testNow.Add(-time.Hour))
	st, _ = deps.Machine.ApplyAffectionDelta(st, 20, testNow.Add(-time.Hour))
	repo.states["yuna"] = st

	fired, err := e.Poll(context.Background(), testCharacter(), testNow)
	if err != nil {
		t.Fatalf("Poll: %v", err)
	}
	if fired == nil || fired.EventID != "secret" {
		t.Fatalf("fired = %+v, want secret event", fired)
	}

	saved := repo.states["yuna"]
	if !saved.HasTriggered("secret") {
		t.Error("event not marked triggered")
	}
	if saved.Affection != 25 {
		t.Errorf("affection = %d, want 25 after event delta", saved.Affection)
	}

	if again, _ := e.Poll(context.Background(), testCharacter(), testNow); again != nil {
		t.Errorf("one-shot event refired: %+v", again)
	}
}

func TestPollUnknownCharacter(t *testing.T) {
	e := New(testDeps(newFakeStateRepo()))
	if _, err := e.Poll(context.Background(), testCharacter(), testNow); err == nil {
		t.Error("expected not-found error for unseeded character")
	}
}

func TestEndingFirstTimeOnlyOnce(t *testing.T) {
	repo := newFakeStateRepo()
	deps := testDeps(repo)
	min := 1
	deps.Resolver = ending.NewResolver([]types.EndingDefinition{
		{ID: "spark", Title: "설렘", Level: 1, MinAffection: &min},
	})
	e := New(deps)

	first, err := e.HandleMessage(context.Background(), testCharacter(), "고마워", testNow)
	if err != nil {
		t.Fatalf("HandleMessage: %v", err)
	}
	if first.Ending == nil || !first.Ending.FirstTime {
		t.Fatalf("ending = %+v, want first-time spark", first.Ending)
	}

	second, err := e.HandleMessage(context.Background(), testCharacter(), "고마워", testNow.Add(time.Minute))
	if err != nil {
		t.Fatalf("second HandleMessage: %v", err)
	}
	if second.Ending == nil || second.Ending.FirstTime {
		t.Errorf("ending = %+v, want repeat achievement", second.Ending)
	}
}

func TestPromiseKeptFeedsEndings(t *testing.T) {
	repo := newFakeStateRepo()
	e := New(testDeps(repo))

	st, err := e.RecordPromiseKept(context.Background(), "yuna", testNow)
	if err != nil {
		t.Fatalf("RecordPromiseKept: %v", err)
	}
	if st.PromisesKept != 1 {
		t.Errorf("promises kept = %d, want 1", st.PromisesKept)
	}
}
