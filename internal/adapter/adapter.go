package adapter

import "context"

// DefaultModel is the Gemini revision used when none is configured.
const DefaultModel = "gemini-2.5-flash"

// LLMAdapter defines the contract for text-generation backends.
// The credential is supplied per call and never stored on the adapter.
type LLMAdapter interface {
	Name() string
	Model() string
	Generate(ctx context.Context, credential, prompt string) (string, error)
}

// ModelInfo is exposed via GET /api/models.
type ModelInfo struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Provider string `json:"provider"`
}

// Info describes a configured adapter for the models endpoint.
func Info(a LLMAdapter, provider string) ModelInfo {
	return ModelInfo{ID: a.Model(), Name: a.Name(), Provider: provider}
}
