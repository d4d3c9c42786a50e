package handler

import (
	"net/http"

	"github.com/mlorentedev/improver/internal/adapter"
)

type healthResponse struct {
	Status   string `json:"status"`
	Provider string `json:"provider"`
	Model    string `json:"model"`
	Version  string `json:"version"`
}

// Health reports liveness and the configured backend. No upstream call is
// made: the provider credential only exists inside user requests.
func Health(a adapter.LLMAdapter, provider, version string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, healthResponse{
			Status:   "ok",
			Provider: provider,
			Model:    a.Model(),
			Version:  version,
		})
	}
}
