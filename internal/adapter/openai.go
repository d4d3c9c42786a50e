package adapter

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/sashabaranov/go-openai"
)

// OpenAIAdapter talks to any OpenAI-compatible /v1/chat/completions endpoint.
// A fresh client is built per call so no credential outlives its request.
type OpenAIAdapter struct {
	BaseURL   string
	ModelName string
	Client    *http.Client
}

func (o *OpenAIAdapter) Name() string {
	return fmt.Sprintf("OpenAI (%s)", o.Model())
}

func (o *OpenAIAdapter) Model() string {
	if o.ModelName == "" {
		return openai.GPT4oMini
	}
	return o.ModelName
}

func (o *OpenAIAdapter) Generate(ctx context.Context, credential, prompt string) (string, error) {
	if credential == "" {
		return "", errors.New("openai: missing API key")
	}

	cfg := openai.DefaultConfig(credential)
	if o.BaseURL != "" {
		cfg.BaseURL = o.BaseURL
	}
	if o.Client != nil {
		cfg.HTTPClient = o.Client
	}
	client := openai.NewClientWithConfig(cfg)

	resp, err := client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: o.Model(),
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		var apiErr *openai.APIError
		if errors.As(err, &apiErr) {
			return "", fmt.Errorf("openai: API error: %s", apiErr.Message)
		}
		return "", fmt.Errorf("openai: request: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", errors.New("openai: empty response choices")
	}

	choice := resp.Choices[0]
	if choice.Message.Content == "" {
		return "", fmt.Errorf("openai: empty response content (finish reason %s)", choice.FinishReason)
	}

	return choice.Message.Content, nil
}
