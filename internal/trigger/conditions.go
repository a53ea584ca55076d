package trigger

import (
	"time"

	"github.com/easeaico/project-luna/internal/types"
)

// holds evaluates one special-event condition against (s, now).
func (e *Evaluator) holds(c types.EventCondition, s types.CharacterState, now time.Time) bool {
	switch c.Type {
	case types.CondAffectionRange:
		if c.MinAffection != nil && s.Affection < *c.MinAffection {
			return false
		}
		if c.MaxAffection != nil && s.Affection > *c.MaxAffection {
			return false
		}
		return true

	case types.CondCalendarDate:
		return now.Format("01-02") == c.Date

	case types.CondTimeOfDay:
		return hourInWindow(now.Hour(), c.StartHour, c.EndHour)

	case types.CondNoResponseHours:
		if s.LastUserResponseTime == nil {
			return false
		}
		return now.Sub(*s.LastUserResponseTime) >= hours(c.Hours)

	case types.CondConsecutivePositive:
		return s.ConsecutivePositive >= c.Count

	case types.CondMessageCount:
		return s.MessageCount >= c.Count

	case types.CondRandomChance:
		return e.roll(c.Chance)

	case types.CondCombo:
		for _, sub := range c.All {
			if !e.holds(sub, s, now) {
				return false
			}
		}
		return len(c.All) > 0

	default:
		return false
	}
}

// hourInWindow reports whether hour falls in [start, end), allowing the
// window to wrap past midnight.
func hourInWindow(hour, start, end int) bool {
	if start == end {
		return true
	}
	if start < end {
		return hour >= start && hour < end
	}
	return hour >= start || hour < end
}
