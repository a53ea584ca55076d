// Package trigger implements the poll-based trigger scheduler. Each kind
// is a predicate over (state, now); the caller polls Evaluate at its own
// cadence and applies the returned bookkeeping itself.
package trigger

import (
	"math/rand"
	"time"

	"github.com/easeaico/project-luna/internal/state"
	"github.com/easeaico/project-luna/internal/types"
)

// Fixed levels for the non-event kinds, encoding their declaration order
// in the shared priority formula. Scripted events use their own level and
// hidden/special flags, so a hidden event outranks every base kind.
const (
	proactiveLevel   = 4
	nonResponseLevel = 3
	ambientLevel     = 1
)

// ambientBaseFactor scales affection-derived probability into the ambient
// message gate.
const ambientBaseFactor = 0.2

// Evaluator evaluates all trigger kinds and returns at most one result
// per call.
type Evaluator struct {
	styles  map[types.Archetype]types.ArchetypeStyle
	events  []types.SpecialEvent
	ambient []string
	rng     *rand.Rand
}

// NewEvaluator builds an evaluator from loaded config. Missing pieces
// degrade: a kind without config is skipped, never an error.
func NewEvaluator(styles []types.ArchetypeStyle, events []types.SpecialEvent, ambient []string, rng *rand.Rand) *Evaluator {
	sm := make(map[types.Archetype]types.ArchetypeStyle, len(styles))
	for _, st := range styles {
		sm[st.Archetype] = st
	}
	return &Evaluator{styles: sm, events: events, ambient: ambient, rng: rng}
}

// Evaluate polls every trigger kind against (s, now) and returns the
// single highest-priority firing trigger, or nil. Ties keep the earlier
// declared kind. The caller applies state bookkeeping for the winner.
func (e *Evaluator) Evaluate(s types.CharacterState, archetype types.Archetype, now time.Time) *types.TriggerResult {
	var best *types.TriggerResult

	consider := func(r *types.TriggerResult) {
		if r == nil {
			return
		}
		if best == nil || r.Priority > best.Priority {
			best = r
		}
	}

	consider(e.proactiveContact(s, archetype, now))
	consider(e.nonResponse(s, archetype, now))
	consider(e.ambientEvent(s, now))
	consider(e.specialEvent(s, now))

	return best
}

// proactiveContact fires when the affection-level contact interval has
// elapsed since the last outgoing contact. Zero or negative affection
// suppresses contact entirely.
func (e *Evaluator) proactiveContact(s types.CharacterState, archetype types.Archetype, now time.Time) *types.TriggerResult {
	if s.Affection <= 0 {
		return nil
	}
	style, ok := e.styles[archetype]
	if !ok {
		return nil
	}

	level := types.AffectionLevel(s.Affection)
	interval := time.Duration(state.ContactIntervalMinutes(level)) * time.Minute
	mods := state.EffectiveModifiers(s.Emotion, now)
	if mods.ContactFrequency > 0 {
		interval = time.Duration(float64(interval) / mods.ContactFrequency)
	}

	since := s.CreatedAt
	if s.LastContactTime != nil {
		since = *s.LastContactTime
	}
	if now.Sub(since) < interval {
		return nil
	}

	templates := style.ContactTemplates[types.BucketForHour(now.Hour())]
	if len(templates) == 0 {
		return nil
	}
	return &types.TriggerResult{
		Type:     types.TriggerProactiveContact,
		Message:  e.pick(templates),
		Priority: types.Priority(proactiveLevel, false, false),
		FiredAt:  now,
	}
}

// nonResponse finds the furthest-reached escalation step that has not
// been sent since the user's last response and fires it.
func (e *Evaluator) nonResponse(s types.CharacterState, archetype types.Archetype, now time.Time) *types.TriggerResult {
	if s.LastUserResponseTime == nil {
		return nil
	}
	style, ok := e.styles[archetype]
	if !ok || len(style.EscalationSteps) == 0 {
		return nil
	}

	elapsed := now.Sub(*s.LastUserResponseTime)
	var step *types.EscalationStep
	for i := range style.EscalationSteps {
		candidate := style.EscalationSteps[i]
		if elapsed >= hours(candidate.Hours) {
			step = &style.EscalationSteps[i]
		}
	}
	if step == nil {
		return nil
	}

	// Already sent if the step's fire time is not after the last reaction.
	fireTime := s.LastUserResponseTime.Add(hours(step.Hours))
	if s.LastReactionMessageTime != nil && !fireTime.After(*s.LastReactionMessageTime) {
		return nil
	}

	return &types.TriggerResult{
		Type:           types.TriggerNonResponse,
		Message:        step.Message,
		AffectionDelta: step.AffectionChange,
		Priority:       types.Priority(nonResponseLevel, false, false),
		FiredAt:        now,
	}
}

// ambientEvent gates a flavor message on an affection-scaled random draw.
func (e *Evaluator) ambientEvent(s types.CharacterState, now time.Time) *types.TriggerResult {
	if len(e.ambient) == 0 {
		return nil
	}
	level := types.AffectionLevel(s.Affection)
	p := state.ContactBaseProbability(level) / 100 * ambientBaseFactor
	if !e.roll(p) {
		return nil
	}
	return &types.TriggerResult{
		Type:     types.TriggerAmbient,
		Message:  e.pick(e.ambient),
		Priority: types.Priority(ambientLevel, false, false),
		FiredAt:  now,
	}
}

// specialEvent scans the scripted event table in declaration order.
func (e *Evaluator) specialEvent(s types.CharacterState, now time.Time) *types.TriggerResult {
	var best *types.TriggerResult
	for _, ev := range e.events {
		if ev.Once && s.HasTriggered(ev.ID) {
			continue
		}
		if !e.holds(ev.Condition, s, now) {
			continue
		}
		p := types.Priority(ev.Level, ev.Hidden, ev.Special)
		if best != nil && p <= best.Priority {
			continue
		}
		best = &types.TriggerResult{
			Type:           types.TriggerSpecialEvent,
			EventID:        ev.ID,
			Message:        ev.Message,
			AffectionDelta: ev.AffectionDelta,
			Priority:       p,
			FiredAt:        now,
		}
	}
	return best
}

func (e *Evaluator) roll(p float64) bool {
	if p >= 1 {
		return true
	}
	if p <= 0 {
		return false
	}
	if e.rng != nil {
		return e.rng.Float64() < p
	}
	return rand.Float64() < p
}

func (e *Evaluator) pick(items []string) string {
	if len(items) == 0 {
		return ""
	}
	if e.rng != nil {
		return items[e.rng.Intn(len(items))]
	}
	return items[rand.Intn(len(items))]
}

func hours(h float64) time.Duration {
	return time.Duration(h * float64(time.Hour))
}
