// Package utils holds small content helpers shared by callbacks and tools.
package utils

import (
	"strings"

	"google.golang.org/genai"
)

// ExtractContentText concatenates the text parts of a content block.
func ExtractContentText(content *genai.Content) string {
	if content == nil {
		return ""
	}
	var sb strings.Builder
	for _, part := range content.Parts {
		if part != nil && part.Text != "" {
			sb.WriteString(part.Text)
		}
	}
	return sb.String()
}

// NormalizePromptText substitutes character-card placeholders and unescapes
// literal escape sequences carried in imported card data.
func NormalizePromptText(text string, charName, userName string) string {
	return strings.NewReplacer(
		"{{char}}", charName,
		"{{user}}", userName,
		"\\r\\n", "\n",
		"\\n", "\n",
		"\\\"", "\"",
	).Replace(text)
}
