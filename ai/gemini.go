package ai

import (
	"context"
	"fmt"
	"log"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// GeminiNarrator calls the Gemini API. A fresh client is created per call so
// the narrator holds no long-lived connection state.
type GeminiNarrator struct {
	APIKey string
	Model  string
}

// NewGeminiNarrator builds a narrator for the given API key and model name.
func NewGeminiNarrator(apiKey, model string) *GeminiNarrator {
	if model == "" {
		model = "gemini-1.5-pro"
	}
	return &GeminiNarrator{APIKey: apiKey, Model: model}
}

// Generate sends the prompts to Gemini and returns the concatenated text
// parts of the first candidate.
func (g *GeminiNarrator) Generate(ctx context.Context, sessionTag, systemPrompt, userPrompt string) (string, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(g.APIKey))
	if err != nil {
		return "", fmt.Errorf("failed to create AI client: %w", err)
	}
	defer client.Close()

	model := client.GenerativeModel(g.Model)
	if systemPrompt != "" {
		model.SystemInstruction = &genai.Content{
			Parts: []genai.Part{genai.Text(systemPrompt)},
		}
	}

	resp, err := model.GenerateContent(ctx, genai.Text(userPrompt))
	if err != nil {
		log.Printf("Gemini error (session %s): %v", sessionTag, err)
		return "", fmt.Errorf("failed to generate content: %w", err)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", fmt.Errorf("no content received from AI")
	}

	var text string
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			text += string(txt)
		}
	}
	if text == "" {
		return "", fmt.Errorf("no text content received from AI")
	}
	return text, nil
}
