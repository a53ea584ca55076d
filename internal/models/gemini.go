package models

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

// Portrait orientation suits the selfie-style photos the photo command
// asks for.
const defaultAspectRatio = "9:16"

// ImageGenerator produces character photos through the Gemini image API
// and returns them as data URLs, so no object storage is needed.
type ImageGenerator struct {
	client      *genai.Client
	modelName   string
	aspectRatio string
}

// NewGeminiImageGenerator creates an ImageGenerator. Unsupported aspect
// ratios fall back to the portrait default.
func NewGeminiImageGenerator(ctx context.Context, apiKey, modelName, aspectRatio string) (*ImageGenerator, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("API key is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: apiKey})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}

	return &ImageGenerator{
		client:      client,
		modelName:   strings.TrimSpace(modelName),
		aspectRatio: normalizeAspectRatio(aspectRatio),
	}, nil
}

// Generate renders prompt into one image and returns it as a data URL.
func (g *ImageGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	if g == nil || g.client == nil {
		return "", fmt.Errorf("image generator not configured")
	}
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return "", fmt.Errorf("prompt cannot be empty")
	}

	cfg := &genai.GenerateContentConfig{
		ResponseModalities: []string{"IMAGE", "TEXT"},
		ImageConfig:        &genai.ImageConfig{AspectRatio: g.aspectRatio},
	}
	resp, err := g.client.Models.GenerateContent(ctx, g.modelName, genai.Text(prompt), cfg)
	if err != nil {
		return "", fmt.Errorf("failed to generate image: %w", err)
	}
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0] == nil || resp.Candidates[0].Content == nil {
		return "", fmt.Errorf("empty image response")
	}

	url := firstImageDataURL(resp.Candidates[0].Content.Parts)
	if url == "" {
		return "", fmt.Errorf("image data missing in response")
	}
	return url, nil
}

// firstImageDataURL returns the first inline image among parts encoded as
// a data URL, or "" when the response carried no image.
func firstImageDataURL(parts []*genai.Part) string {
	for _, part := range parts {
		if part == nil || part.InlineData == nil || len(part.InlineData.Data) == 0 {
			continue
		}
		mimeType := strings.TrimSpace(part.InlineData.MIMEType)
		if mimeType == "" {
			mimeType = "image/png"
		}
		return fmt.Sprintf("data:%s;base64,%s", mimeType, base64.StdEncoding.EncodeToString(part.InlineData.Data))
	}
	return ""
}

func normalizeAspectRatio(value string) string {
	switch strings.TrimSpace(value) {
	case "1:1", "3:4", "4:3", "9:16", "16:9":
		return strings.TrimSpace(value)
	default:
		return defaultAspectRatio
	}
}
