// Package tool provides custom ADK tools for Project Luna.
package tool

import (
	"strings"
	"time"

	"google.golang.org/adk/model"
	"google.golang.org/adk/tool"
	"google.golang.org/genai"

	"github.com/easeaico/project-luna/internal/memory"
	"github.com/easeaico/project-luna/internal/types"
	"github.com/easeaico/project-luna/internal/utils"
)

const (
	defaultPreloadMemoryToolName        = "preload_memory"
	defaultPreloadMemoryToolDescription = "Preloads relevant memories into the system instruction before each turn."
)

// PreloadMemoryTool injects retrieved long-term memories into the system
// instruction before each model request.
type PreloadMemoryTool struct {
	name        string
	description string
	memories    *memory.Service
	characterID string
	topK        int
	threshold   float64
}

// NewPreloadMemoryTool creates a PreloadMemoryTool bound to one character.
func NewPreloadMemoryTool(memories *memory.Service, characterID string, topK int, threshold float64) *PreloadMemoryTool {
	return &PreloadMemoryTool{
		name:        defaultPreloadMemoryToolName,
		description: defaultPreloadMemoryToolDescription,
		memories:    memories,
		characterID: characterID,
		topK:        topK,
		threshold:   threshold,
	}
}

// Name implements tool.Tool.
func (t *PreloadMemoryTool) Name() string {
	return t.name
}

// Description implements tool.Tool.
func (t *PreloadMemoryTool) Description() string {
	return t.description
}

// IsLongRunning implements tool.Tool.
func (t *PreloadMemoryTool) IsLongRunning() bool {
	return false
}

// ProcessRequest injects retrieved memories into the system instruction.
func (t *PreloadMemoryTool) ProcessRequest(ctx tool.Context, req *model.LLMRequest) error {
	if ctx == nil || req == nil || t.memories == nil {
		return nil
	}

	query := strings.TrimSpace(utils.ExtractContentText(ctx.UserContent()))
	if query == "" {
		return nil
	}

	retrieved, err := t.memories.Retrieve(ctx, t.characterID, query, t.topK, t.threshold)
	if err != nil {
		// Retrieval failures degrade to an uninformed turn.
		return nil
	}

	instruction := buildMemoryInstruction(retrieved)
	if instruction == "" {
		return nil
	}
	appendInstruction(req, instruction)
	return nil
}

func buildMemoryInstruction(memories []types.RetrievedMemory) string {
	if len(memories) == 0 {
		return ""
	}

	var instruction strings.Builder
	instruction.WriteString(`The following content is from your previous conversations with the user.
They may be useful for answering the user's current query.
<PAST_CONVERSATIONS>
`)
	for _, entry := range memories {
		text := strings.TrimSpace(entry.Content)
		if text == "" {
			continue
		}
		stamp := ""
		if !entry.CreatedAt.IsZero() {
			stamp = entry.CreatedAt.Format(time.RFC3339)
		}
		instruction.WriteString(formatMemoryLine(stamp, string(entry.Role), text))
		instruction.WriteString("\n")
	}

	instruction.WriteString("</PAST_CONVERSATIONS>\n")
	return instruction.String()
}

func formatMemoryLine(stamp, author, text string) string {
	parts := []string{"-"}
	if stamp != "" {
		parts = append(parts, "["+stamp+"]")
	}
	if author != "" {
		parts = append(parts, author+":")
	}
	parts = append(parts, text)
	return strings.Join(parts, " ")
}

func appendInstruction(req *model.LLMRequest, instruction string) {
	if strings.TrimSpace(instruction) == "" {
		return
	}
	if req.Config == nil {
		req.Config = &genai.GenerateContentConfig{}
	}
	if req.Config.SystemInstruction == nil {
		req.Config.SystemInstruction = genai.NewContentFromText(instruction, genai.RoleUser)
		return
	}
	req.Config.SystemInstruction.Parts = append(req.Config.SystemInstruction.Parts, genai.NewPartFromText(instruction))
}
