package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/mlorentedev/improver/internal/improve"
)

type improveRequest struct {
	APIKey string `json:"api_key"`
	Code   string `json:"code"`
}

type improveResponse struct {
	Improved  string `json:"improved"`
	Language  string `json:"language"`
	Message   string `json:"message"`
	Model     string `json:"model"`
	ElapsedMs int64  `json:"elapsed_ms"`
}

// Improve serves POST /api/improve.
func Improve(svc *improve.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req improveRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			var maxBytesErr *http.MaxBytesError
			if errors.As(err, &maxBytesErr) {
				writeError(w, http.StatusRequestEntityTooLarge, "request body too large")
				return
			}
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}

		res := svc.Improve(r.Context(), improve.Request{Credential: req.APIKey, Source: req.Code})
		if !res.OK() {
			writeError(w, statusFor(res.Failure.Kind), res.Message())
			return
		}

		writeJSON(w, http.StatusOK, improveResponse{
			Improved:  res.Text,
			Language:  res.Language(),
			Message:   res.Message(),
			Model:     res.Model,
			ElapsedMs: res.Elapsed.Milliseconds(),
		})
	}
}

func statusFor(kind improve.Kind) int {
	switch kind {
	case improve.KindMissingInput, improve.KindInputTooLarge:
		return http.StatusBadRequest
	default:
		return http.StatusBadGateway
	}
}
