package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/easeaico/project-luna/configs"
	"github.com/easeaico/project-luna/internal/types"
)

// GameConfig is the static game data: tone rendering rules, archetype
// behavior, scripted events, endings, and gift effects.
type GameConfig struct {
	ToneLevels      []types.ToneLevelConfig     `yaml:"tone_levels"`
	Archetypes      []types.ArchetypeStyle      `yaml:"archetypes"`
	SpecialEvents   []types.SpecialEvent        `yaml:"special_events"`
	AmbientMessages []string                    `yaml:"ambient_messages"`
	Endings         []types.EndingDefinition    `yaml:"endings"`
	Gifts           map[string]types.GiftEffect `yaml:"gifts"`
}

// LoadGameConfig parses game data from dir/game.yaml, or from the embedded
// defaults when dir is empty. Errors wrap ErrConfigUnavailable so callers
// can degrade instead of failing the session.
func LoadGameConfig(dir string) (*GameConfig, error) {
	data := configs.GameData
	if dir != "" {
		path := filepath.Join(dir, "game.yaml")
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("%w: read %s: %v", types.ErrConfigUnavailable, path, err)
		}
		data = b
	}

	var gc GameConfig
	if err := yaml.Unmarshal(data, &gc); err != nil {
		return nil, fmt.Errorf("%w: parse game data: %v", types.ErrConfigUnavailable, err)
	}
	if err := gc.validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", types.ErrConfigUnavailable, err)
	}
	return &gc, nil
}

func (gc *GameConfig) validate() error {
	seenLevels := make(map[int]bool)
	for _, tl := range gc.ToneLevels {
		if tl.Level < 1 || tl.Level > 5 {
			return fmt.Errorf("tone level %d out of range", tl.Level)
		}
		if seenLevels[tl.Level] {
			return fmt.Errorf("duplicate tone level %d", tl.Level)
		}
		seenLevels[tl.Level] = true
	}

	seenArch := make(map[types.Archetype]bool)
	for _, as := range gc.Archetypes {
		if !types.ValidArchetype(as.Archetype) {
			return fmt.Errorf("unknown archetype %q", as.Archetype)
		}
		if seenArch[as.Archetype] {
			return fmt.Errorf("duplicate archetype %q", as.Archetype)
		}
		seenArch[as.Archetype] = true
		for level, style := range as.Styles {
			if !types.ValidStyle(style) {
				return fmt.Errorf("archetype %s: unknown style %q at tone level %d", as.Archetype, style, level)
			}
		}
	}

	seenEvents := make(map[string]bool)
	for _, ev := range gc.SpecialEvents {
		if ev.ID == "" {
			return fmt.Errorf("special event with empty id")
		}
		if seenEvents[ev.ID] {
			return fmt.Errorf("duplicate special event id %q", ev.ID)
		}
		seenEvents[ev.ID] = true
		if err := validateCondition(ev.ID, ev.Condition); err != nil {
			return err
		}
	}

	seenEndings := make(map[string]bool)
	for _, e := range gc.Endings {
		if e.ID == "" {
			return fmt.Errorf("ending with empty id")
		}
		if seenEndings[e.ID] {
			return fmt.Errorf("duplicate ending id %q", e.ID)
		}
		seenEndings[e.ID] = true
	}
	return nil
}

func validateCondition(eventID string, c types.EventCondition) error {
	switch c.Type {
	case types.CondAffectionRange, types.CondCalendarDate, types.CondTimeOfDay,
		types.CondNoResponseHours, types.CondConsecutivePositive,
		types.CondMessageCount, types.CondRandomChance:
		return nil
	case types.CondCombo:
		if len(c.All) == 0 {
			return fmt.Errorf("event %s: combo condition with no sub-conditions", eventID)
		}
		for _, sub := range c.All {
			if err := validateCondition(eventID, sub); err != nil {
				return err
			}
		}
		return nil
	default:
		return fmt.Errorf("event %s: unknown condition type %q", eventID, c.Type)
	}
}
