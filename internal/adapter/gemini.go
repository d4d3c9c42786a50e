package adapter

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"google.golang.org/genai"
)

const (
	geminiDefaultBaseURL = "https://generativelanguage.googleapis.com"
	geminiAPIVersion     = "v1beta"
)

// GeminiAdapter connects to the Google Generative Language API through the
// genai SDK. A client is built per call from the caller's key.
type GeminiAdapter struct {
	BaseURL   string
	ModelName string
	Client    *http.Client
}

func (g *GeminiAdapter) Name() string {
	return fmt.Sprintf("Gemini (%s)", g.Model())
}

func (g *GeminiAdapter) Model() string {
	if g.ModelName == "" {
		return DefaultModel
	}
	return strings.TrimPrefix(g.ModelName, "models/")
}

func (g *GeminiAdapter) Generate(ctx context.Context, credential, prompt string) (string, error) {
	if credential == "" {
		return "", errors.New("gemini: missing API key")
	}

	baseURL := g.BaseURL
	if baseURL == "" {
		baseURL = geminiDefaultBaseURL
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:     credential,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: g.httpClient(),
		HTTPOptions: genai.HTTPOptions{
			BaseURL:    strings.TrimRight(baseURL, "/"),
			APIVersion: geminiAPIVersion,
		},
	})
	if err != nil {
		return "", fmt.Errorf("gemini: create client: %w", err)
	}

	resp, err := client.Models.GenerateContent(ctx, g.Model(), genai.Text(prompt), nil)
	if err != nil {
		var apiErr genai.APIError
		if errors.As(err, &apiErr) && apiErr.Message != "" {
			return "", fmt.Errorf("gemini: API error: %s", apiErr.Message)
		}
		return "", fmt.Errorf("gemini: request: %w", err)
	}

	if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != "" {
		return "", fmt.Errorf("gemini: prompt blocked: %s", resp.PromptFeedback.BlockReason)
	}
	if len(resp.Candidates) == 0 {
		return "", errors.New("gemini: empty response candidates")
	}

	text := resp.Text()
	if text == "" {
		return "", fmt.Errorf("gemini: no text in response (finish reason %s)", resp.Candidates[0].FinishReason)
	}

	return text, nil
}

func (g *GeminiAdapter) httpClient() *http.Client {
	if g.Client != nil {
		return g.Client
	}
	return &http.Client{Timeout: 60 * time.Second}
}
