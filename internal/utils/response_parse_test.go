package utils

import "testing"

func TestParseRoleplayOutput(t *testing.T) {
	out, err := ParseRoleplayOutput("```json\n{\"reply\": \"응, 나도!\", \"mood\": \"Happy\"}\n```")
	if err != nil {
		t.Fatalf("ParseRoleplayOutput: %v", err)
	}
	if out.Reply != "응, 나도!" || out.Mood != "happy" {
		t.Errorf("out = %+v", out)
	}
}

func TestParseRoleplayOutputRejects(t *testing.T) {
	cases := []string{
		"not json",
		`{"reply": "", "mood": "happy"}`,
		`{"reply": "hi", "mood": "ecstatic"}`,
	}
	for _, raw := range cases {
		if _, err := ParseRoleplayOutput(raw); err == nil {
			t.Errorf("ParseRoleplayOutput(%q) should fail", raw)
		}
	}
}
