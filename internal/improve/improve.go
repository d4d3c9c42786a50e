// Package improve runs one code-improvement round-trip: validate the two
// inputs, build the prompt, call the generation backend once, and turn the
// outcome into a displayable Result.
package improve

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/mlorentedev/improver/internal/adapter"
	"github.com/mlorentedev/improver/internal/metrics"
)

const (
	// Instruction is prepended verbatim to the submitted code.
	Instruction = "Improve this code:\n\n"

	MissingInputMessage = "Please enter both the code and the API key."
	SuccessMessage      = "Code improved successfully! ✅"
	ErrorPrefix         = "❌ Error: "

	// Language is a display hint only; no detection is performed.
	Language = "python"

	DefaultTimeout = 60 * time.Second
)

// ErrMissingInput is the failure cause when the credential or the code is empty.
var ErrMissingInput = errors.New(MissingInputMessage)

// Request carries the two user inputs for a single interaction.
type Request struct {
	Credential string
	Source     string
}

// String never includes the credential or the code.
func (r Request) String() string {
	cred := "<empty>"
	if r.Credential != "" {
		cred = "<redacted>"
	}
	return fmt.Sprintf("improve.Request{Credential:%s Source:%d chars}", cred, len(r.Source))
}

// BuildPrompt returns the instruction followed by source, unmodified.
func BuildPrompt(source string) string {
	return Instruction + source
}

// Service is stateless; one value may serve concurrent requests.
type Service struct {
	Adapter adapter.LLMAdapter

	// Timeout bounds the generation call. Zero means DefaultTimeout.
	Timeout time.Duration

	// MaxSourceLength rejects larger code before any call. Zero disables it.
	MaxSourceLength int
}

// Improve validates req and, if both inputs are present, performs exactly one
// generation call. It never retries.
func (s *Service) Improve(ctx context.Context, req Request) Result {
	logger := zerolog.Ctx(ctx)

	if req.Credential == "" || req.Source == "" {
		res := Result{Failure: &Failure{Kind: KindMissingInput, Err: ErrMissingInput}}
		s.record(res, len(req.Source))
		logger.Warn().Str("outcome", res.Outcome()).Msg("improve rejected")
		return res
	}

	if s.MaxSourceLength > 0 && len(req.Source) > s.MaxSourceLength {
		err := fmt.Errorf("code too long: %d characters (max %d)", len(req.Source), s.MaxSourceLength)
		res := Result{Failure: &Failure{Kind: KindInputTooLarge, Err: err}}
		s.record(res, len(req.Source))
		logger.Warn().Str("outcome", res.Outcome()).Int("source_chars", len(req.Source)).Msg("improve rejected")
		return res
	}

	timeout := s.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	model := s.Adapter.Model()
	start := time.Now()
	text, err := s.Adapter.Generate(ctx, req.Credential, BuildPrompt(req.Source))
	elapsed := time.Since(start)
	metrics.ImproveDuration.WithLabelValues(model).Observe(elapsed.Seconds())

	res := Result{Model: model, Elapsed: elapsed}
	if err != nil {
		res.Failure = &Failure{Kind: KindGeneration, Err: err}
	} else {
		res.Text = text
	}
	s.record(res, len(req.Source))

	logger.Info().
		Str("outcome", res.Outcome()).
		Str("model", model).
		Int("source_chars", len(req.Source)).
		Int64("elapsed_ms", elapsed.Milliseconds()).
		Msg("improve finished")

	return res
}

func (s *Service) record(res Result, sourceChars int) {
	metrics.InputChars.Observe(float64(sourceChars))
	metrics.ImproveResults.WithLabelValues(res.Outcome()).Inc()
}
