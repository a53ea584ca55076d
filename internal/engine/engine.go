// Package engine runs the relationship turn pipeline: state update,
// memory filing, dialogue generation, tone rendering, trigger polling,
// and ending resolution.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/easeaico/project-luna/internal/dialogue"
	"github.com/easeaico/project-luna/internal/ending"
	"github.com/easeaico/project-luna/internal/memory"
	"github.com/easeaico/project-luna/internal/prompt"
	"github.com/easeaico/project-luna/internal/state"
	"github.com/easeaico/project-luna/internal/tone"
	"github.com/easeaico/project-luna/internal/trigger"
	"github.com/easeaico/project-luna/internal/types"
)

const defaultMoodDuration = time.Hour

// Generator produces the character's raw reply text. The engine renders
// it through the tone pipeline afterwards.
type Generator interface {
	Generate(ctx context.Context, bc prompt.BuildContext) (string, error)
}

// MoodAnalyzer classifies the mood a user message puts the character in.
type MoodAnalyzer interface {
	Analyze(ctx context.Context, text string) (types.Mood, error)
}

// HistoryRepo supplies recent conversation turns for prompt assembly.
type HistoryRepo interface {
	AddMessage(ctx context.Context, characterID, role, content string) error
	Recent(ctx context.Context, characterID string, limit int) ([]types.ChatMessage, error)
}

// Deps wires the engine's collaborators. Generator, MoodAnalyzer, and
// HistoryRepo are optional; the pipeline degrades without them.
type Deps struct {
	Machine   *state.Machine
	States    state.Repo
	Memories  *memory.Service
	Renderer  *tone.Renderer
	Evaluator *trigger.Evaluator
	Resolver  *ending.Resolver

	Generator    Generator
	MoodAnalyzer MoodAnalyzer
	History      HistoryRepo

	TopK         int
	Threshold    float64
	HistoryLimit int
	Logger       *slog.Logger
}

// Engine coordinates one character session's progression. The host
// serializes calls per character.
type Engine struct {
	deps  Deps
	queue *Queue
}

// TurnResult is the outcome of one inbound user action.
type TurnResult struct {
	Reply     string               `json:"reply"`
	State     types.CharacterState `json:"state"`
	Milestone bool                 `json:"milestone"`
	Trigger   *types.TriggerResult `json:"trigger,omitempty"`
	Ending    *types.EndingResult  `json:"ending,omitempty"`
}

// New returns an engine over the given collaborators.
func New(deps Deps) *Engine {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	if deps.TopK <= 0 {
		deps.TopK = 5
	}
	if deps.HistoryLimit <= 0 {
		deps.HistoryLimit = 10
	}
	return &Engine{deps: deps, queue: NewQueue()}
}

// Queue exposes the outbound delivery queue.
func (e *Engine) Queue() *Queue {
	return e.queue
}

// HandleMessage runs the full turn pipeline for one user message.
func (e *Engine) HandleMessage(ctx context.Context, char *types.Character, text string, now time.Time) (*TurnResult, error) {
	if char == nil || char.ID == "" {
		return nil, fmt.Errorf("%w: character is required", types.ErrInvalidInput)
	}
	if text == "" {
		return nil, fmt.Errorf("%w: empty message", types.ErrInvalidInput)
	}

	st, err := e.loadOrCreate(ctx, char.ID, now)
	if err != nil {
		return nil, err
	}

	sent := dialogue.Classify(text)
	st = e.deps.Machine.RecordUserMessage(st, sent.Positive, sent.Negative, now)
	st, milestone := e.deps.Machine.ApplyAffectionDelta(st, sent.Delta, now)

	moodChanged := e.applyMood(ctx, &st, text, sent, now)

	if _, err := e.deps.Memories.Record(ctx, char.ID, types.MemoryRoleUser, memory.ScoreInput{
		Content:        text,
		AffectionDelta: sent.Delta,
		EmotionChanged: moodChanged,
	}, now); err != nil {
		e.deps.Logger.Warn("failed to record user turn", "character_id", char.ID, "error", err)
	}

	reply, err := e.generateReply(ctx, char, st, text)
	if err != nil {
		return nil, err
	}
	rendered := e.deps.Renderer.Render(reply, st.ToneLevel, char.Archetype)

	if rendered != "" {
		if _, err := e.deps.Memories.Record(ctx, char.ID, types.MemoryRoleCharacter, memory.ScoreInput{Content: rendered}, now); err != nil {
			e.deps.Logger.Warn("failed to record character turn", "character_id", char.ID, "error", err)
		}
		e.recordHistory(ctx, char.ID, text, rendered)
	}

	result := &TurnResult{Reply: rendered, Milestone: milestone}
	if fired := e.fireTrigger(&st, char, now); fired != nil {
		result.Trigger = fired
	}

	if err := e.deps.States.SaveState(ctx, st); err != nil {
		return nil, fmt.Errorf("failed to save state: %w", err)
	}

	result.Ending = e.resolveEnding(ctx, &st, char.ID, now)
	result.State = st
	return result, nil
}

// HandleGift applies a gift category and runs the post-mutation checks.
func (e *Engine) HandleGift(ctx context.Context, char *types.Character, category string, now time.Time) (*TurnResult, error) {
	if char == nil || char.ID == "" {
		return nil, fmt.Errorf("%w: character is required", types.ErrInvalidInput)
	}

	st, err := e.loadOrCreate(ctx, char.ID, now)
	if err != nil {
		return nil, err
	}

	st, milestone := e.deps.Machine.ApplyGift(st, category, now)
	if err := e.deps.States.SaveState(ctx, st); err != nil {
		return nil, fmt.Errorf("failed to save state: %w", err)
	}

	result := &TurnResult{Milestone: milestone}
	result.Ending = e.resolveEnding(ctx, &st, char.ID, now)
	result.State = st
	return result, nil
}

// Poll evaluates the trigger engine on the host's cadence. A firing
// trigger is rendered, queued for delivery, and its bookkeeping applied.
func (e *Engine) Poll(ctx context.Context, char *types.Character, now time.Time) (*types.TriggerResult, error) {
	if char == nil || char.ID == "" {
		return nil, fmt.Errorf("%w: character is required", types.ErrInvalidInput)
	}

	st, err := e.deps.States.GetState(ctx, char.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load state: %w", err)
	}
	if st == nil {
		return nil, fmt.Errorf("%w: %s", types.ErrCharacterNotFound, char.ID)
	}

	next := *st
	fired := e.fireTrigger(&next, char, now)
	if fired == nil {
		return nil, nil
	}

	if err := e.deps.States.SaveState(ctx, next); err != nil {
		return nil, fmt.Errorf("failed to save state: %w", err)
	}

	if resolved := e.resolveEnding(ctx, &next, char.ID, now); resolved != nil && resolved.FirstTime {
		e.deps.Logger.Info("ending achieved", "character_id", char.ID, "ending_id", resolved.Ending.ID)
	}
	return fired, nil
}

// RecordPromiseKept marks a kept promise and re-checks endings.
func (e *Engine) RecordPromiseKept(ctx context.Context, characterID string, now time.Time) (types.CharacterState, error) {
	st, err := e.loadOrCreate(ctx, characterID, now)
	if err != nil {
		return types.CharacterState{}, err
	}
	st = e.deps.Machine.RecordPromiseKept(st, now)
	if err := e.deps.States.SaveState(ctx, st); err != nil {
		return types.CharacterState{}, fmt.Errorf("failed to save state: %w", err)
	}
	e.resolveEnding(ctx, &st, characterID, now)
	return st, nil
}

// State returns the character's current progression state, creating a
// fresh one on first contact.
func (e *Engine) State(ctx context.Context, characterID string, now time.Time) (types.CharacterState, error) {
	return e.loadOrCreate(ctx, characterID, now)
}

// RenderReply passes generated text through the tone pipeline at the
// character's current tone level. Render failures degrade to raw text.
func (e *Engine) RenderReply(ctx context.Context, char *types.Character, text string, now time.Time) string {
	st, err := e.loadOrCreate(ctx, char.ID, now)
	if err != nil {
		e.deps.Logger.Warn("state unavailable for tone render, using raw text", "character_id", char.ID, "error", err)
		return text
	}
	return e.deps.Renderer.Render(text, st.ToneLevel, char.Archetype)
}

// SetMood replaces the character's emotion and persists it.
func (e *Engine) SetMood(ctx context.Context, characterID string, mood types.Mood, intensity float64, now time.Time) error {
	st, err := e.loadOrCreate(ctx, characterID, now)
	if err != nil {
		return err
	}
	st = e.deps.Machine.SetEmotion(st, mood, intensity, defaultMoodDuration, now)
	if err := e.deps.States.SaveState(ctx, st); err != nil {
		return fmt.Errorf("failed to save state: %w", err)
	}
	return nil
}

// fireTrigger evaluates all trigger kinds against st, applies the
// winner's bookkeeping in place, and queues its rendered message.
func (e *Engine) fireTrigger(st *types.CharacterState, char *types.Character, now time.Time) *types.TriggerResult {
	if e.deps.Evaluator == nil {
		return nil
	}
	result := e.deps.Evaluator.Evaluate(*st, char.Archetype, now)
	if result == nil {
		return nil
	}

	switch result.Type {
	case types.TriggerProactiveContact:
		*st = e.deps.Machine.RecordContact(*st, now)
	case types.TriggerNonResponse:
		t := now
		st.LastReactionMessageTime = &t
	case types.TriggerSpecialEvent:
		if result.EventID != "" {
			st.MarkTriggered(result.EventID)
		}
	}
	if result.AffectionDelta != 0 {
		*st, _ = e.deps.Machine.ApplyAffectionDelta(*st, result.AffectionDelta, now)
	}

	rendered := e.deps.Renderer.Render(result.Message, st.ToneLevel, char.Archetype)
	e.queue.Enqueue(OutboundMessage{Text: rendered, Type: result.Type, QueuedAt: now})
	return result
}

// resolveEnding checks the ending table and records first achievements.
func (e *Engine) resolveEnding(ctx context.Context, st *types.CharacterState, characterID string, now time.Time) *types.EndingResult {
	if e.deps.Resolver == nil {
		return nil
	}
	stats := e.deps.Memories.Stats(characterID)
	result := e.deps.Resolver.Resolve(*st, stats, now)
	if result == nil {
		return nil
	}
	if result.FirstTime {
		*st = ending.MarkAchieved(*st, result.Ending.ID)
		if err := e.deps.States.SaveState(ctx, *st); err != nil {
			e.deps.Logger.Warn("failed to persist ending achievement", "character_id", characterID, "error", err)
		}
	}
	return result
}

// applyMood sets the character's emotion from the message, preferring the
// LLM analyzer and falling back to the sentiment keywords. Reports
// whether the mood changed.
func (e *Engine) applyMood(ctx context.Context, st *types.CharacterState, text string, sent dialogue.Sentiment, now time.Time) bool {
	before := st.Emotion.Effective(now).Mood

	mood := before
	intensity := st.Emotion.Effective(now).Intensity
	if e.deps.MoodAnalyzer != nil {
		if m, err := e.deps.MoodAnalyzer.Analyze(ctx, text); err == nil {
			mood = m
			intensity = 0.6
		} else {
			e.deps.Logger.Warn("mood analysis failed, using keyword fallback", "error", err)
			mood, intensity = moodFromSentiment(sent, mood, intensity)
		}
	} else {
		mood, intensity = moodFromSentiment(sent, mood, intensity)
	}

	if mood == before {
		return false
	}
	*st = e.deps.Machine.SetEmotion(*st, mood, intensity, defaultMoodDuration, now)
	return true
}

func moodFromSentiment(sent dialogue.Sentiment, mood types.Mood, intensity float64) (types.Mood, float64) {
	switch {
	case sent.Delta >= 3:
		return types.MoodExcited, 0.7
	case sent.Delta > 0:
		return types.MoodHappy, 0.5
	case sent.Delta <= -3:
		return types.MoodAngry, 0.7
	case sent.Delta < 0:
		return types.MoodSad, 0.5
	default:
		return mood, intensity
	}
}

func (e *Engine) generateReply(ctx context.Context, char *types.Character, st types.CharacterState, text string) (string, error) {
	if e.deps.Generator == nil {
		return "", nil
	}

	var memories []types.RetrievedMemory
	if e.deps.Memories != nil {
		retrieved, err := e.deps.Memories.Retrieve(ctx, char.ID, text, e.deps.TopK, e.deps.Threshold)
		if err != nil {
			e.deps.Logger.Warn("memory retrieval failed", "character_id", char.ID, "error", err)
		} else {
			memories = retrieved
		}
	}

	var history []types.ChatMessage
	if e.deps.History != nil {
		recent, err := e.deps.History.Recent(ctx, char.ID, e.deps.HistoryLimit)
		if err != nil {
			e.deps.Logger.Warn("history load failed", "character_id", char.ID, "error", err)
		} else {
			history = recent
		}
	}

	reply, err := e.deps.Generator.Generate(ctx, prompt.BuildContext{
		Character:   char,
		State:       st,
		Memories:    memories,
		History:     history,
		UserMessage: text,
	})
	if err != nil {
		return "", fmt.Errorf("failed to generate reply: %w", err)
	}
	return reply, nil
}

func (e *Engine) recordHistory(ctx context.Context, characterID, userText, reply string) {
	if e.deps.History == nil {
		return
	}
	if err := e.deps.History.AddMessage(ctx, characterID, "user", userText); err != nil {
		e.deps.Logger.Warn("failed to store user turn", "character_id", characterID, "error", err)
	}
	if err := e.deps.History.AddMessage(ctx, characterID, "model", reply); err != nil {
		e.deps.Logger.Warn("failed to store character turn", "character_id", characterID, "error", err)
	}
}

// loadOrCreate returns the character's state, creating a fresh one on
// first contact.
func (e *Engine) loadOrCreate(ctx context.Context, characterID string, now time.Time) (types.CharacterState, error) {
	if characterID == "" {
		return types.CharacterState{}, fmt.Errorf("%w: empty character id", types.ErrInvalidInput)
	}
	st, err := e.deps.States.GetState(ctx, characterID)
	if err != nil {
		if errors.Is(err, types.ErrCharacterNotFound) {
			return state.NewCharacterState(characterID, now), nil
		}
		return types.CharacterState{}, fmt.Errorf("failed to load state: %w", err)
	}
	if st == nil {
		return state.NewCharacterState(characterID, now), nil
	}
	return *st, nil
}
