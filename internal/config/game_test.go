package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/easeaico/project-luna/internal/types"
)

func TestEmbeddedDefaultsLoad(t *testing.T) {
	gc, err := LoadGameConfig("")
	if err != nil {
		t.Fatalf("LoadGameConfig: %v", err)
	}
	if len(gc.ToneLevels) != 5 {
		t.Errorf("tone levels = %d, want 5", len(gc.ToneLevels))
	}
	if len(gc.Archetypes) != 6 {
		t.Errorf("archetypes = %d, want 6", len(gc.Archetypes))
	}
	if len(gc.Endings) == 0 || len(gc.SpecialEvents) == 0 || len(gc.Gifts) == 0 {
		t.Error("embedded defaults missing endings, events, or gifts")
	}
	for _, as := range gc.Archetypes {
		if len(as.EscalationSteps) == 0 {
			t.Errorf("archetype %s has no escalation steps", as.Archetype)
		}
		if len(as.ContactTemplates) == 0 {
			t.Errorf("archetype %s has no contact templates", as.Archetype)
		}
	}
}

func TestMissingDirIsConfigUnavailable(t *testing.T) {
	_, err := LoadGameConfig("/nonexistent/path")
	if !errors.Is(err, types.ErrConfigUnavailable) {
		t.Errorf("err = %v, want ErrConfigUnavailable", err)
	}
}

func TestDirOverride(t *testing.T) {
	dir := t.TempDir()
	data := `
tone_levels:
  - level: 1
    emoji_frequency: low
archetypes:
  - archetype: INFP
    styles: { 1: gentle }
`
	if err := os.WriteFile(filepath.Join(dir, "game.yaml"), []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}
	gc, err := LoadGameConfig(dir)
	if err != nil {
		t.Fatalf("LoadGameConfig: %v", err)
	}
	if len(gc.ToneLevels) != 1 || len(gc.Archetypes) != 1 {
		t.Errorf("override not applied: %d tone levels, %d archetypes", len(gc.ToneLevels), len(gc.Archetypes))
	}
}

func TestValidateRejects(t *testing.T) {
	cases := []struct {
		name string
		yaml string
	}{
		{"bad tone level", "tone_levels:\n  - level: 6\n    emoji_frequency: low\n"},
		{"duplicate tone level", "tone_levels:\n  - level: 2\n    emoji_frequency: low\n  - level: 2\n    emoji_frequency: low\n"},
		{"unknown archetype", "archetypes:\n  - archetype: XXXX\n"},
		{"unknown style", "archetypes:\n  - archetype: INFP\n    styles: { 1: dramatic }\n"},
		{"empty event id", "special_events:\n  - level: 1\n    condition: { type: random_chance, chance: 0.5 }\n"},
		{"unknown condition", "special_events:\n  - id: x\n    level: 1\n    condition: { type: lunar_phase }\n"},
		{"empty combo", "special_events:\n  - id: x\n    level: 1\n    condition: { type: combo }\n"},
		{"duplicate ending", "endings:\n  - id: e\n    level: 1\n  - id: e\n    level: 2\n"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			dir := t.TempDir()
			if err := os.WriteFile(filepath.Join(dir, "game.yaml"), []byte(tc.yaml), 0o644); err != nil {
				t.Fatal(err)
			}
			if _, err := LoadGameConfig(dir); !errors.Is(err, types.ErrConfigUnavailable) {
				t.Errorf("err = %v, want ErrConfigUnavailable", err)
			}
		})
	}
}
