package utils

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/easeaico/project-luna/internal/types"
)

// RoleplayOutput is the structured response from the roleplay model.
type RoleplayOutput struct {
	Reply string `json:"reply"`
	Mood  string `json:"mood"`
}

// ParseRoleplayOutput extracts and validates structured roleplay output.
// The mood field must be one of the supported mood labels.
func ParseRoleplayOutput(raw string) (RoleplayOutput, error) {
	clean := strings.TrimSpace(raw)
	start := strings.Index(clean, "{")
	end := strings.LastIndex(clean, "}")
	if start >= 0 && end > start {
		clean = clean[start : end+1]
	}

	var output RoleplayOutput
	if err := json.Unmarshal([]byte(clean), &output); err != nil {
		return RoleplayOutput{}, fmt.Errorf("failed to parse roleplay output: %w", err)
	}

	output.Reply = strings.TrimSpace(output.Reply)
	if output.Reply == "" {
		return RoleplayOutput{}, fmt.Errorf("missing reply")
	}

	output.Mood = strings.ToLower(strings.TrimSpace(output.Mood))
	if !types.ValidMood(types.Mood(output.Mood)) {
		return RoleplayOutput{}, fmt.Errorf("invalid mood label: %s", output.Mood)
	}

	return output, nil
}
