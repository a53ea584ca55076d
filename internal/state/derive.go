package state

import (
	"time"

	"github.com/easeaico/project-luna/internal/types"
)

// ToneLevel maps the coarse affection level (1-10) to the 1-5 tone
// register. Monotonic non-decreasing in affection.
func ToneLevel(level int) int {
	switch {
	case level <= 2:
		return 1
	case level <= 4:
		return 2
	case level <= 6:
		return 3
	case level <= 8:
		return 4
	default:
		return 5
	}
}

// ReplySpeedLevel maps the coarse affection level to 1-5.
func ReplySpeedLevel(level int) int {
	v := level/2 + 1
	if v > 5 {
		return 5
	}
	return v
}

// PhotoLevel maps the coarse affection level to 1-5. The raw floor(level/2)
// lands at zero for level 1; the declared range starts at 1, so it is
// clamped up.
func PhotoLevel(level int) int {
	v := level / 2
	if v < 1 {
		return 1
	}
	if v > 5 {
		return 5
	}
	return v
}

// ContactBaseProbability returns the proactive-contact probability (0-100)
// before emotion modulation.
func ContactBaseProbability(level int) float64 {
	p := float64(level * 10)
	if p > 100 {
		return 100
	}
	return p
}

// Stage derives the relationship stage from canonical affection.
func Stage(affection int) types.RelationshipStage {
	switch {
	case affection < 10:
		return types.StageStranger
	case affection < 25:
		return types.StageAcquaintance
	case affection < 45:
		return types.StageFriend
	case affection < 65:
		return types.StageCloseFriend
	case affection < 85:
		return types.StageRomantic
	default:
		return types.StageLover
	}
}

// MoodModifiers are the behavior-rate multipliers one mood applies at full
// intensity.
type MoodModifiers struct {
	ContactFrequency  float64
	PhotoChance       float64
	ResponseSpeed     float64
	AffectionGainRate float64
}

var moodModifierTable = map[types.Mood]MoodModifiers{
	types.MoodHappy:   {ContactFrequency: 1.2, PhotoChance: 1.2, ResponseSpeed: 1.1, AffectionGainRate: 1.2},
	types.MoodExcited: {ContactFrequency: 1.5, PhotoChance: 1.4, ResponseSpeed: 1.3, AffectionGainRate: 1.3},
	types.MoodCalm:    {ContactFrequency: 1.0, PhotoChance: 1.0, ResponseSpeed: 1.0, AffectionGainRate: 1.0},
	types.MoodSad:     {ContactFrequency: 0.7, PhotoChance: 0.6, ResponseSpeed: 0.8, AffectionGainRate: 0.8},
	types.MoodAnxious: {ContactFrequency: 1.3, PhotoChance: 0.8, ResponseSpeed: 1.2, AffectionGainRate: 0.9},
	types.MoodAngry:   {ContactFrequency: 0.5, PhotoChance: 0.3, ResponseSpeed: 0.6, AffectionGainRate: 0.5},
	types.MoodWorried: {ContactFrequency: 1.1, PhotoChance: 0.7, ResponseSpeed: 1.0, AffectionGainRate: 0.9},
}

// scale interpolates a full-intensity multiplier toward 1 as intensity
// falls, so a fully decayed emotion has no effect.
func scale(base, intensity float64) float64 {
	return 1 + (base-1)*intensity
}

// EffectiveModifiers returns the mood multipliers scaled by intensity as
// observed at now. Expired or unknown moods are neutral.
func EffectiveModifiers(e types.EmotionState, now time.Time) MoodModifiers {
	eff := e.Effective(now)
	base, ok := moodModifierTable[eff.Mood]
	if !ok {
		return MoodModifiers{ContactFrequency: 1, PhotoChance: 1, ResponseSpeed: 1, AffectionGainRate: 1}
	}
	return MoodModifiers{
		ContactFrequency:  scale(base.ContactFrequency, eff.Intensity),
		PhotoChance:       scale(base.PhotoChance, eff.Intensity),
		ResponseSpeed:     scale(base.ResponseSpeed, eff.Intensity),
		AffectionGainRate: scale(base.AffectionGainRate, eff.Intensity),
	}
}

// ContactIntervalMinutes returns the base proactive-contact interval for a
// coarse affection level. Zero affection suppresses contact entirely; the
// caller checks Suppressed before using the interval.
func ContactIntervalMinutes(level int) int {
	switch {
	case level <= 2:
		return 60
	case level <= 4:
		return 45
	case level <= 6:
		return 30
	case level <= 8:
		return 20
	default:
		return 10
	}
}
