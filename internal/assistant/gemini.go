package assistant

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// GeminiModel answers via Google's Gemini API. A fresh client is created per
// call; the chat volume of the simulation does not justify connection reuse.
type GeminiModel struct {
	apiKey    string
	modelName string
}

func NewGeminiModel(apiKey, modelName string) *GeminiModel {
	if modelName == "" {
		modelName = "gemini-2.5-flash"
	}
	return &GeminiModel{apiKey: apiKey, modelName: modelName}
}

func (m *GeminiModel) Chat(ctx context.Context, messages []Message) (string, error) {
	if m.apiKey == "" {
		return "", errors.New("gemini API key is required")
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(m.apiKey))
	if err != nil {
		return "", fmt.Errorf("creating gemini client: %w", err)
	}
	defer client.Close()

	var parts []genai.Part
	for _, msg := range messages {
		if msg.Content != "" {
			parts = append(parts, genai.Text(msg.Content))
		}
	}

	resp, err := client.GenerativeModel(m.modelName).GenerateContent(ctx, parts...)
	if err != nil {
		return "", fmt.Errorf("gemini API error: %w", err)
	}

	return extractText(resp), nil
}

func extractText(resp *genai.GenerateContentResponse) string {
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			if sb.Len() > 0 {
				sb.WriteString("\n")
			}
			sb.WriteString(string(text))
		}
	}
	return sb.String()
}

var _ ChatModel = (*GeminiModel)(nil)
